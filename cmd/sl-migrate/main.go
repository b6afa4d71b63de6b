package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/tuanvumaihuynh/shelflife/internal/config"
	"github.com/tuanvumaihuynh/shelflife/internal/log"
	"github.com/tuanvumaihuynh/shelflife/internal/storage/db"
)

func main() {
	if err := run(); err != nil {
		fmt.Printf("error running migrate application: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	down := flag.Bool("down", false, "roll back the latest migration instead of applying pending ones")
	flag.Parse()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	time.Local = time.UTC

	type Config struct {
		Log      config.Log
		Postgres config.Postgres
	}
	cfg, err := config.New[Config]()
	if err != nil {
		return fmt.Errorf("error loading config: %w", err)
	}

	logger := log.NewSlogLogger(cfg.Log)

	pgxPool, err := db.NewPgxPool(ctx, cfg.Postgres)
	if err != nil {
		return fmt.Errorf("error creating pgx pool: %w", err)
	}
	defer pgxPool.Close()

	if *down {
		logger.InfoContext(ctx, "rolling back latest migration")
		if err := db.Rollback(pgxPool); err != nil {
			return fmt.Errorf("error rolling back database: %w", err)
		}
	} else {
		logger.InfoContext(ctx, "starting database migration")
		if err := db.Migrate(pgxPool); err != nil {
			return fmt.Errorf("error migrating database: %w", err)
		}
	}

	version, err := db.MigrationVersion(pgxPool)
	if err != nil {
		return fmt.Errorf("error reading migration version: %w", err)
	}

	logger.InfoContext(ctx, "database migration completed successfully", slog.Int64("version", version))

	return nil
}
