package main

import (
	"context"
	"flag"
	"log/slog"
	"os"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"obsprocess/internal/config"
)

func main() {
	var (
		command = flag.String("command", "up", "Migration command: up, down, status, create")
		name    = flag.String("name", "", "Name for 'create' command")
	)
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	fatal := func(msg string, args ...any) {
		logger.Error(msg, args...)
		os.Exit(1)
	}

	config.LoadEnvFiles()
	cfg, err := config.Load(nil)
	if err != nil {
		fatal("invalid configuration", "error", err)
	}

	ctx := context.Background()
	pool, err := pgxpool.New(ctx, cfg.DSN)
	if err != nil {
		fatal("failed to connect to database", "dsn", cfg.RedactedDSN(), "error", err)
	}
	defer pool.Close()

	db := stdlib.OpenDBFromPool(pool)
	defer db.Close()

	goose.SetBaseFS(nil)
	if err := goose.SetDialect("postgres"); err != nil {
		fatal("failed to set dialect", "error", err)
	}

	dir := cfg.MigrationsDir
	switch *command {
	case "up":
		if err := goose.Up(db, dir); err != nil {
			fatal("failed to run migrations", "error", err)
		}
		logger.Info("migrations applied", "dir", dir)
	case "down":
		if err := goose.Down(db, dir); err != nil {
			fatal("failed to roll back migration", "error", err)
		}
		logger.Info("migration rolled back", "dir", dir)
	case "status":
		if err := goose.Status(db, dir); err != nil {
			fatal("failed to check migration status", "error", err)
		}
	case "create":
		if *name == "" {
			fatal("name is required for 'create' command")
		}
		if err := goose.Create(nil, dir, *name, "sql"); err != nil {
			fatal("failed to create migration", "error", err)
		}
		logger.Info("migration created", "name", *name)
	default:
		fatal("unknown command, use: up, down, status, create", "command", *command)
	}
}
