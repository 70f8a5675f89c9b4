package main

import (
	"context"
	"fmt"
	"os"

	"github.com/asuyou/anzen-web-api/internal/analytics"
	"github.com/asuyou/anzen-web-api/internal/api"
	"github.com/asuyou/anzen-web-api/internal/config"
	"github.com/asuyou/anzen-web-api/internal/logger"
	"github.com/asuyou/anzen-web-api/internal/repository"
	"github.com/asuyou/anzen-web-api/internal/server"
	"github.com/asuyou/anzen-web-api/internal/storage"
)

func main() {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "config.yml"
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(logger.Config{
		Level:       cfg.Logging.Level,
		Development: cfg.Debug,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer func() {
		_ = log.Sync()
	}()

	log.Info("Starting web-api service",
		logger.String("host", cfg.Server.Host),
		logger.Int("port", cfg.Server.Port),
		logger.Bool("debug", cfg.Debug),
	)

	ctx := context.Background()

	store, err := storage.Connect(ctx, cfg.Mongo, log)
	if err != nil {
		log.Error("Failed to connect to store", logger.Error(err))
		os.Exit(1)
	}
	defer func() {
		if closeErr := store.Close(ctx); closeErr != nil {
			log.Error("Failed to close store", logger.Error(closeErr))
		}
	}()

	engine := analytics.NewEngine(store, log)
	users := repository.NewUserRepository(store.Database(), log)

	srv := api.NewServer(cfg, engine, users, log)

	if err := server.RunWithGracefulShutdown(ctx, srv.HTTP(), log); err != nil {
		log.Error("Server error", logger.Error(err))
		os.Exit(1)
	}
}
