// Package main runs schema migrations and maintenance tasks against the
// Ugmi database.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/ugmi/ugmi/internal/config"
	"github.com/ugmi/ugmi/internal/repository"
)

func main() {
	var (
		command       = flag.String("command", "up", "Migration command: up, down, reset or status")
		promoteAdmins = flag.Bool("promote-admins", false, "Grant the admin role to existing users listed in ADMIN_EMAILS")
		timeout       = flag.Duration("timeout", 2*time.Minute, "Overall timeout")
	)
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	if err := migrate(ctx, *command, cfg.DatabaseURL); err != nil {
		logger.Error("migration failed", "command", *command, "error", err)
		os.Exit(1)
	}
	logger.Info("migration finished", "command", *command)

	if !*promoteAdmins {
		return
	}

	repo, err := repository.New(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer repo.Close()

	promoted, err := repo.PromoteAdmins(ctx, cfg.Policy().AdminEmails)
	if err != nil {
		logger.Error("failed to promote admins", "error", err)
		os.Exit(1)
	}
	logger.Info("admins promoted", "count", promoted)
}

func migrate(ctx context.Context, command, databaseURL string) error {
	switch command {
	case "up":
		return repository.MigrateUp(ctx, databaseURL)
	case "down":
		return repository.MigrateDown(ctx, databaseURL)
	case "reset":
		return repository.MigrateReset(ctx, databaseURL)
	case "status":
		return repository.MigrationStatus(ctx, databaseURL)
	default:
		return fmt.Errorf("unknown command %q", command)
	}
}
