package main

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/contractgov/contract-api/internal/config"
	"github.com/contractgov/contract-api/migrations"
	_ "github.com/lib/pq"
	"github.com/pressly/goose/v3"
)

const usage = "usage: migrate [-dir ./migrations] up|up-by-one|down|reset|redo|status|version|create NAME"

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Migration error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	dir := flag.String("dir", "", "read migrations from this directory instead of the embedded set")
	timeout := flag.Duration("timeout", 5*time.Minute, "abort when migrations take longer")
	flag.Parse()

	args := flag.Args()
	if len(args) == 0 {
		return fmt.Errorf(usage)
	}
	command, arguments := args[0], args[1:]

	// create writes a new file and needs a real directory
	if command == "create" {
		if len(arguments) == 0 {
			return fmt.Errorf("create requires a migration name")
		}
		target := *dir
		if target == "" {
			target = "./migrations"
		}
		if err := goose.Create(nil, target, arguments[0], "sql"); err != nil {
			return fmt.Errorf("failed to create migration: %w", err)
		}
		return nil
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	db, err := sql.Open("postgres", cfg.Database.ConnectionString())
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		return fmt.Errorf("failed to ping database: %w", err)
	}

	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("failed to set dialect: %w", err)
	}

	migrationsDir := *dir
	if migrationsDir == "" {
		goose.SetBaseFS(migrations.FS)
		migrationsDir = "."
	}

	switch command {
	case "up", "up-by-one", "down", "reset", "redo", "status", "version":
	default:
		return fmt.Errorf("unknown command: %s\n%s", command, usage)
	}

	if err := goose.RunContext(ctx, command, db, migrationsDir, arguments...); err != nil {
		return fmt.Errorf("goose %s failed: %w", command, err)
	}
	return nil
}
