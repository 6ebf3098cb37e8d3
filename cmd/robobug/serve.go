package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/gwillem/robobug/pkg/bridge"
	"github.com/gwillem/robobug/pkg/metrics"
	"github.com/gwillem/robobug/pkg/robot"
	"github.com/gwillem/robobug/pkg/sim"
)

const shutdownTimeout = 5 * time.Second

type BridgeCommand struct {
	Listen string `short:"l" long:"listen" default:":8081" description:"Address to listen on"`
}

func (c *BridgeCommand) Execute(args []string) error {
	logger := newLogger()

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	client, err := newClient(logger, robot.WithRecorder(metrics.NewRecorder(reg)))
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	handler := bridge.NewHandler(client, bridge.Options{Logger: logger, Gatherer: reg})
	logger.Info("starting bridge", "addr", c.Listen, "robot", client.BaseURL())
	return serve(c.Listen, handler, logger)
}

type SimCommand struct {
	Listen string  `short:"l" long:"listen" default:":8080" description:"Address to listen on"`
	Charge float64 `long:"charge" default:"100" description:"Initial akku charge in percent"`
}

func (c *SimCommand) Execute(args []string) error {
	logger := newLogger()

	bug := sim.New(logger)
	bug.SetCharge(c.Charge)

	logger.Info("starting simulated robobug", "addr", c.Listen)
	return serve(c.Listen, bug.Handler(), logger)
}

// serve runs handler until SIGINT or SIGTERM, then shuts down gracefully.
func serve(addr string, handler http.Handler, logger *slog.Logger) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Channel to listen for errors coming from the listener.
	serverErrors := make(chan error, 1)
	go func() {
		serverErrors <- srv.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(shutdown)

	select {
	case err := <-serverErrors:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server error: %w", err)

	case sig := <-shutdown:
		logger.Info("shutting down", "signal", sig.String())

		// Give outstanding requests a deadline for completion.
		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			logger.Warn("graceful shutdown did not complete", "timeout", shutdownTimeout, "error", err)
			if err := srv.Close(); err != nil {
				return fmt.Errorf("close server: %w", err)
			}
		}
		logger.Info("server stopped")
		return nil
	}
}
