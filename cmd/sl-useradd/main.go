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
	"github.com/tuanvumaihuynh/shelflife/internal/repository"
	"github.com/tuanvumaihuynh/shelflife/internal/service"
	"github.com/tuanvumaihuynh/shelflife/internal/storage/db"
	"github.com/tuanvumaihuynh/shelflife/pkg/validator"
)

const passwordEnv = "SHELFLIFE_PASSWORD"

type credentials struct {
	Username string `validate:"required,min=3,max=64,alphanum"`
	Password string `validate:"required,min=8,max=72"`
}

func main() {
	if err := run(); err != nil {
		fmt.Printf("error running useradd application: %v\n", err)
		os.Exit(1)
	}
}

// run creates the user or resets the password of an existing one.
func run() error {
	var creds credentials
	flag.StringVar(&creds.Username, "username", "", "login name of the user")
	flag.StringVar(&creds.Password, "password", "", "password, defaults to $"+passwordEnv)
	flag.Parse()

	if creds.Password == "" {
		creds.Password = os.Getenv(passwordEnv)
	}

	v, err := validator.NewDefaultValidator()
	if err != nil {
		return fmt.Errorf("error creating validator: %w", err)
	}
	if err := v.Validate(creds); err != nil {
		return fmt.Errorf("invalid credentials: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	time.Local = time.UTC

	type Config struct {
		Log      config.Log
		Postgres config.Postgres
		Auth     config.Auth
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

	authService := service.NewAuthService(cfg.Auth, repository.NewUserRepository(db.NewClient(pgxPool)), time.Now)

	if err := authService.SetPassword(ctx, service.RegisterParams{
		Username: creds.Username,
		Password: creds.Password,
	}); err != nil {
		return fmt.Errorf("error saving user: %w", err)
	}

	logger.InfoContext(ctx, "user saved", slog.String("username", creds.Username))

	return nil
}
