package main

import (
	"go.uber.org/zap"
	"log"
	"rank-service/internal/app"
	"rank-service/internal/config"
)

func main() {
	cfg, err := config.LoadGlobalConfig()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	unsugared, err := createLogger(cfg.Development)
	if err != nil {
		log.Fatalf("failed to create logger: %v", err)
	}
	defer func() {
		_ = unsugared.Sync()
	}()
	logger := unsugared.Sugar()

	logger.Infow("starting rank service",
		"storage", cfg.Storage.Backend,
		"notifier", cfg.Notifier.Backend,
		"port", cfg.GRPCPort,
	)
	app.Run(cfg, logger)
}

func createLogger(development bool) (*zap.Logger, error) {
	if development {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}
