package main

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"time"

	"github.com/charmbracelet/huh"

	"github.com/gwillem/robobug/pkg/robot"
)

type SetupCommand struct {
	Yes bool `short:"y" long:"yes" description:"Save without asking"`
}

func (c *SetupCommand) Execute(args []string) error {
	fmt.Println(headerStyle.Render("Robobug Setup"))
	fmt.Println(dimStyle.Render("━━━━━━━━━━━━━━"))
	fmt.Println()

	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	// Step 1: Ask for the server address
	base := cfg.Base()
	if !c.Yes {
		form := huh.NewForm(
			huh.NewGroup(
				huh.NewInput().
					Title("Robot server address").
					Description("The HTTP server that talks to the robobug").
					Value(&base).
					Validate(validateBaseURL),
			),
		)
		if err := form.Run(); err != nil {
			fmt.Println()
			os.Exit(0)
		}
	}
	cfg.BaseURL = base

	// Step 2: Check the robot answers
	fmt.Println(subHeaderStyle.Render("━━━ Checking robot ━━━"))
	checkRobot(cfg)

	// Step 3: Save
	if !c.Yes && !confirm("Save configuration?") {
		return nil
	}
	if err := cfg.SaveTo(opts.Config); err != nil {
		fmt.Fprintf(os.Stderr, "Error saving config: %v\n", err)
		os.Exit(1)
	}

	fmt.Println()
	fmt.Println(successStyle.Render("Setup complete!"))
	fmt.Printf("Configuration saved to %s\n", opts.Config)
	fmt.Println()
	fmt.Println("Start driving with: " + headerStyle.Render("robobug teleoperate"))
	return nil
}

func validateBaseURL(s string) error {
	u, err := url.Parse(s)
	if err != nil {
		return err
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("address must start with http:// or https://")
	}
	if u.Host == "" {
		return fmt.Errorf("address has no host")
	}
	return nil
}

func checkRobot(cfg *robot.Config) {
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	client := robot.NewClient(cfg, robot.WithLogger(newLogger()))
	res := client.AkkuCharge(ctx)
	switch {
	case res.Err != nil:
		fmt.Println(errorStyle.Render(fmt.Sprintf("  No answer from %s: %v", client.BaseURL(), res.Err)))
		fmt.Println(dimStyle.Render("  You can save anyway and start the server later."))
	case res.HasValue:
		fmt.Println(successStyle.Render(fmt.Sprintf("  Robot reachable, akku charge: %s", res.Value)))
	default:
		fmt.Println(successStyle.Render("  Robot reachable"))
	}
	fmt.Println()
}

func confirm(title string) bool {
	ok := true
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(title).
				Affirmative("Yes").
				Negative("No").
				Value(&ok),
		),
	)
	if err := form.Run(); err != nil {
		fmt.Println()
		os.Exit(0)
	}
	return ok
}
