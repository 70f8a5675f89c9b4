// Command seed bootstraps an admin account in the users collection.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/asuyou/anzen-web-api/internal/auth"
	"github.com/asuyou/anzen-web-api/internal/config"
	"github.com/asuyou/anzen-web-api/internal/logger"
	"github.com/asuyou/anzen-web-api/internal/models"
	"github.com/asuyou/anzen-web-api/internal/repository"
	"github.com/asuyou/anzen-web-api/internal/storage"
)

func main() {
	var configPath string
	var username string
	var password string

	flag.StringVar(&configPath, "config", "config.yml", "Path to configuration file")
	flag.StringVar(&username, "username", "admin", "Account name for the admin user")
	flag.StringVar(&password, "password", "", "Password for the admin user (required)")
	flag.Parse()

	if password == "" {
		password = os.Getenv("ANZEN_ADMIN_PASSWORD")
		if password == "" {
			fmt.Fprintln(os.Stderr, "Error: password is required. Use -password or ANZEN_ADMIN_PASSWORD")
			os.Exit(1)
		}
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(logger.Config{Level: cfg.Logging.Level, Development: cfg.Debug})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer func() {
		_ = log.Sync()
	}()

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

	users := repository.NewUserRepository(store.Database(), log)

	exists, err := users.Exists(ctx, username)
	if err != nil {
		log.Error("Failed to check if user exists", logger.Error(err))
		os.Exit(1)
	}
	if exists {
		fmt.Printf("User %q already exists. Skipping creation.\n", username)
		os.Exit(0)
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		log.Error("Failed to hash password", logger.Error(err))
		os.Exit(1)
	}

	user := &models.User{Name: username, PasswordHash: hash}
	if err := users.Create(ctx, user); err != nil {
		log.Error("Failed to create user", logger.Error(err))
		os.Exit(1)
	}

	fmt.Printf("Created admin user %q (id %s)\n", username, user.ID.Hex())
}
