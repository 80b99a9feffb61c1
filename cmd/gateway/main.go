package main

import (
	"log/slog"
	"os"

	"github.com/monetaflow/wallet_backend/internal/gateway"
	"github.com/monetaflow/wallet_backend/internal/platform/config"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("Failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	gw, err := gateway.New(cfg, logger)
	if err != nil {
		logger.Error("Failed to build gateway", slog.String("error", err.Error()))
		os.Exit(1)
	}

	if err := gw.Run(":" + cfg.GatewayPort); err != nil {
		logger.Error("Gateway failed to run", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
