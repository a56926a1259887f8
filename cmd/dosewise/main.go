package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	_ "time/tzdata"

	"github.com/felixgeelhaar/dosewise/adapter/cli"
	"github.com/felixgeelhaar/dosewise/adapter/cli/medicine"
	"github.com/felixgeelhaar/dosewise/adapter/cli/reminder"
	"github.com/felixgeelhaar/dosewise/adapter/cli/schedule"
	"github.com/felixgeelhaar/dosewise/internal/app"
	"github.com/felixgeelhaar/dosewise/pkg/config"
	"github.com/felixgeelhaar/dosewise/pkg/observability"
)

func main() {
	// Create context with cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle shutdown signals
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		cancel()
	}()

	logger := observability.LoggerFromEnv()

	cfg, err := config.Load()
	if err != nil {
		logger.Error("invalid configuration", "error", err)
		os.Exit(1)
	}
	logger = newLogger(cfg)
	cli.SetLogger(logger)

	container, err := app.NewContainer(ctx, cfg, logger)
	if err != nil {
		// Commands report cli.ErrNotInitialized; help and version still work.
		logger.Warn("failed to initialize container", "error", err)
	} else {
		defer container.Close()
		cli.SetApp(cli.NewApp(container))
	}

	// Register commands
	cli.AddCommand(medicine.Cmd)
	cli.AddCommand(schedule.Cmd)
	cli.AddCommand(reminder.Cmd)

	cli.Execute(ctx)
}

// newLogger applies the configured level and environment. Logs stay on
// stderr so command output can be piped.
func newLogger(cfg *config.Config) *slog.Logger {
	logCfg := observability.DefaultLogConfig()
	if !cfg.IsDevelopment() {
		logCfg = observability.ProductionLogConfig()
	}
	logCfg.Level = observability.LogLevel(cfg.LogLevel)
	logCfg.Output = os.Stderr
	logCfg.ServiceVersion = cli.Version
	return observability.NewLogger(logCfg)
}
