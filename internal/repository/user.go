package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/tuanvumaihuynh/shelflife/internal/model"
	"github.com/tuanvumaihuynh/shelflife/internal/storage/db"
)

type UserRepository interface {
	WithDB(db db.DB) UserRepository
	CreateUser(ctx context.Context, user model.User) error
	UpsertUser(ctx context.Context, user model.User) error
	GetUserByUsername(ctx context.Context, username string) (model.User, error)
	GetUserByID(ctx context.Context, id uuid.UUID) (model.User, error)
}

type userRepository struct {
	db db.DB
}

func NewUserRepository(db db.DB) UserRepository {
	return &userRepository{
		db: db,
	}
}

func (r userRepository) WithDB(db db.DB) UserRepository {
	return &userRepository{
		db: db,
	}
}

func (r userRepository) CreateUser(ctx context.Context, user model.User) error {
	if _, err := r.db.Exec(ctx, `
		INSERT INTO users (id, username, password_hash, created_at)
		VALUES (@id, @username, @password_hash, @created_at)
	`, pgx.NamedArgs{
		"id":            user.ID,
		"username":      user.Username,
		"password_hash": user.PasswordHash,
		"created_at":    user.CreatedAt,
	}); err != nil {
		return fmt.Errorf("create user: %w", err)
	}

	return nil
}

// UpsertUser creates the user or resets the password of an existing one.
func (r userRepository) UpsertUser(ctx context.Context, user model.User) error {
	if _, err := r.db.Exec(ctx, `
		INSERT INTO users (id, username, password_hash, created_at)
		VALUES (@id, @username, @password_hash, @created_at)
		ON CONFLICT (username) DO UPDATE SET password_hash = EXCLUDED.password_hash
	`, pgx.NamedArgs{
		"id":            user.ID,
		"username":      user.Username,
		"password_hash": user.PasswordHash,
		"created_at":    user.CreatedAt,
	}); err != nil {
		return fmt.Errorf("upsert user: %w", err)
	}

	return nil
}

func (r userRepository) GetUserByUsername(ctx context.Context, username string) (model.User, error) {
	return r.getUser(ctx, "username = @value", username)
}

func (r userRepository) GetUserByID(ctx context.Context, id uuid.UUID) (model.User, error) {
	return r.getUser(ctx, "id = @value", id)
}

func (r userRepository) getUser(ctx context.Context, where string, value any) (model.User, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, username, password_hash, created_at
		FROM users
		WHERE `+where, pgx.NamedArgs{
		"value": value,
	})
	if err != nil {
		return model.User{}, fmt.Errorf("get user: %w", err)
	}

	user, err := pgx.CollectExactlyOneRow(rows, pgx.RowToStructByName[model.User])
	if err != nil {
		return model.User{}, fmt.Errorf("collect user: %w", err)
	}

	return user, nil
}
