package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/dmitrijs2005/socialhub/internal/client/cli"
	"github.com/dmitrijs2005/socialhub/internal/client/config"
	"github.com/dmitrijs2005/socialhub/internal/logging"
)

func main() {

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	cfg := config.LoadConfig()
	logger, closer := logging.New(cfg.LogLevel, cfg.LogFile)

	code := run(ctx, cfg, logger)

	_ = closer.Close()
	stop()
	os.Exit(code)
}

// run starts the client and returns the process exit code.
func run(ctx context.Context, cfg *config.Config, logger logging.Logger) int {
	app, err := cli.NewApp(ctx, cfg, logger)
	if err != nil {
		logger.Error(ctx, "could not start client", "error", err)
		return 1
	}

	if err := app.Run(ctx); err != nil {
		logger.Error(ctx, "client stopped", "error", err)
		return 1
	}
	return 0
}
