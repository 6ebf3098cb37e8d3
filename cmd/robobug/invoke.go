package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"

	"github.com/gwillem/robobug/pkg/robot"
)

type InvokeCommand struct {
	Args struct {
		Action string   `positional-arg-name:"action" required:"yes" description:"Action name, see 'robobug actions'"`
		Values []string `positional-arg-name:"NAME=VALUE" description:"Action arguments"`
	} `positional-args:"yes"`
}

func (c *InvokeCommand) Execute(args []string) error {
	logger := newLogger()
	client, err := newClient(logger)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	actionArgs, err := parseAssignments(c.Args.Values)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	res, err := client.Invoke(ctx, robot.ActionName(c.Args.Action), actionArgs)
	if err != nil {
		return err
	}

	if res.HasValue {
		fmt.Println(res.Value)
	}
	if res.Err != nil {
		// The action still counts as done; report the failure on stderr
		fmt.Fprintln(os.Stderr, errorStyle.Render(fmt.Sprintf("robot unreachable: %v", res.Err)))
	}
	return nil
}

// parseAssignments turns NAME=VALUE pairs into raw action arguments.
func parseAssignments(values []string) (map[string]any, error) {
	out := make(map[string]any, len(values))
	for _, v := range values {
		key, val, ok := strings.Cut(v, "=")
		if !ok || key == "" {
			return nil, fmt.Errorf("argument %q is not NAME=VALUE", v)
		}
		out[key] = val
	}
	return out, nil
}
