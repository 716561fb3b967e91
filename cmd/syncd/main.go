package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/ayame/salon-sync-go/internal/app"
	"github.com/ayame/salon-sync-go/internal/config"
	"github.com/ayame/salon-sync-go/internal/util"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger, err := util.NewLogger(cfg.Logging.Level, cfg.Logging.File)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("Salon portal sync starting...",
		zap.String("portal", cfg.Portal.BaseURL),
		zap.Int("window_days", cfg.Sync.WindowDays),
		zap.String("log_level", cfg.Logging.Level),
	)

	container, err := app.Build(cfg, logger)
	if err != nil {
		logger.Error("Failed to assemble application services", zap.Error(err))
		os.Exit(1)
	}
	defer container.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	errCh := make(chan error, 1)
	go func() {
		errCh <- container.Server.Start(ctx)
	}()

	select {
	case sig := <-sigCh:
		logger.Info("Received shutdown signal", zap.String("signal", sig.String()))
		cancel()
		if err := <-errCh; err != nil {
			logger.Error("Error during shutdown", zap.Error(err))
		}
	case err := <-errCh:
		if err != nil {
			logger.Error("Server error", zap.Error(err))
			os.Exit(1)
		}
	}

	logger.Info("Shutdown complete")
}
