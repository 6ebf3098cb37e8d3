package main

import (
	"io"
	"log/slog"
	"os"

	"github.com/jessevdk/go-flags"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/gwillem/robobug/pkg/robot"
)

type Options struct {
	URL     string `long:"url" description:"Robot server base URL (overrides robobug.json)"`
	Config  string `long:"config" default:"robobug.json" description:"Configuration file"`
	Verbose bool   `short:"v" long:"verbose" description:"Log every robot request"`
	LogJSON bool   `long:"log-json" description:"Log as JSON"`
	LogFile string `long:"log-file" description:"Write logs to a rotating file instead of stderr"`

	Actions     ActionsCommand     `command:"actions" description:"List the robot actions"`
	Invoke      InvokeCommand      `command:"invoke" alias:"run" description:"Invoke one action, e.g. invoke walk FORWARD=50"`
	Setup       SetupCommand       `command:"setup" description:"Configure and check the robot server address"`
	Teleoperate TeleoperateCommand `command:"teleoperate" alias:"teleop" description:"Drive the robobug from the keyboard"`
	Bridge      BridgeCommand      `command:"bridge" description:"Serve the action catalog to a block-based coding host"`
	Sim         SimCommand         `command:"sim" description:"Run a simulated robobug server"`
}

var opts Options
var parser = flags.NewParser(&opts, flags.Default)

func main() {
	parser.LongDescription = "robobug - control a robobug from the command line or a block-based coding host"

	_, err := parser.Parse()
	if err != nil {
		if flagsErr, ok := err.(*flags.Error); ok {
			if flagsErr.Type == flags.ErrHelp {
				os.Exit(0)
			}
		}
		os.Exit(1)
	}
}

// newLogger builds the process logger from the global options.
func newLogger() *slog.Logger {
	return newLoggerTo(os.Stderr)
}

// newLoggerTo is newLogger with w used when no --log-file is given.
func newLoggerTo(w io.Writer) *slog.Logger {
	if opts.LogFile != "" {
		w = &lumberjack.Logger{
			Filename:   opts.LogFile,
			MaxSize:    10, // megabytes
			MaxBackups: 3,
			MaxAge:     28, // days
		}
	}

	level := slog.LevelInfo
	if opts.Verbose {
		level = slog.LevelDebug
	}
	handlerOpts := &slog.HandlerOptions{Level: level}

	var h slog.Handler = slog.NewTextHandler(w, handlerOpts)
	if opts.LogJSON {
		h = slog.NewJSONHandler(w, handlerOpts)
	}
	logger := slog.New(h)
	slog.SetDefault(logger)
	return logger
}

// loadConfig resolves robobug.json, .env and the --url flag, in that order.
func loadConfig() (*robot.Config, error) {
	cfg, err := robot.ResolveConfig(opts.Config)
	if err != nil {
		return nil, err
	}
	if opts.URL != "" {
		cfg.BaseURL = opts.URL
	}
	return cfg, nil
}

func newClient(logger *slog.Logger, extra ...robot.Option) (*robot.Client, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	return robot.NewClient(cfg, append([]robot.Option{robot.WithLogger(logger)}, extra...)...), nil
}
