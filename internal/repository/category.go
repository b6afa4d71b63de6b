package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/tuanvumaihuynh/shelflife/internal/model"
	"github.com/tuanvumaihuynh/shelflife/internal/storage/db"
)

type UpdateCategoryParams struct {
	UserID    uuid.UUID
	ID        uuid.UUID
	Name      *string
	Rule      *model.CategoryRule
	UpdatedAt time.Time
}

type CategoryRepository interface {
	WithDB(db db.DB) CategoryRepository
	CreateCategory(ctx context.Context, category model.Category) error
	GetCategory(ctx context.Context, userID, id uuid.UUID) (model.Category, error)
	ListCategories(ctx context.Context, userID uuid.UUID) ([]model.Category, error)
	UpdateCategory(ctx context.Context, params UpdateCategoryParams) error
	DeleteCategory(ctx context.Context, userID, id uuid.UUID) error
}

type categoryRepository struct {
	db db.DB
}

func NewCategoryRepository(db db.DB) CategoryRepository {
	return &categoryRepository{
		db: db,
	}
}

func (r categoryRepository) WithDB(db db.DB) CategoryRepository {
	return &categoryRepository{
		db: db,
	}
}

func (r categoryRepository) CreateCategory(ctx context.Context, category model.Category) error {
	rule, err := json.Marshal(category.Rule)
	if err != nil {
		return fmt.Errorf("marshal rule: %w", err)
	}

	if _, err := r.db.Exec(ctx, `
		INSERT INTO categories (id, user_id, name, rule, created_at, updated_at)
		VALUES (@id, @user_id, @name, @rule::jsonb, @created_at, @updated_at)
	`, pgx.NamedArgs{
		"id":         category.ID,
		"user_id":    category.UserID,
		"name":       category.Name,
		"rule":       string(rule),
		"created_at": category.CreatedAt,
		"updated_at": category.UpdatedAt,
	}); err != nil {
		return fmt.Errorf("create category: %w", err)
	}

	return nil
}

func (r categoryRepository) GetCategory(ctx context.Context, userID, id uuid.UUID) (model.Category, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, user_id, name, rule, created_at, updated_at
		FROM categories
		WHERE user_id = @user_id AND id = @id
	`, pgx.NamedArgs{
		"user_id": userID,
		"id":      id,
	})
	if err != nil {
		return model.Category{}, fmt.Errorf("get category: %w", err)
	}

	category, err := pgx.CollectExactlyOneRow(rows, pgx.RowToStructByName[model.Category])
	if err != nil {
		return model.Category{}, fmt.Errorf("collect category: %w", err)
	}

	return category, nil
}

func (r categoryRepository) ListCategories(ctx context.Context, userID uuid.UUID) ([]model.Category, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, user_id, name, rule, created_at, updated_at
		FROM categories
		WHERE user_id = @user_id
		ORDER BY name
	`, pgx.NamedArgs{
		"user_id": userID,
	})
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}

	categories, err := pgx.CollectRows(rows, pgx.RowToStructByName[model.Category])
	if err != nil {
		return nil, fmt.Errorf("collect categories: %w", err)
	}

	return categories, nil
}

func (r categoryRepository) UpdateCategory(ctx context.Context, params UpdateCategoryParams) error {
	var rule *string
	if params.Rule != nil {
		b, err := json.Marshal(params.Rule)
		if err != nil {
			return fmt.Errorf("marshal rule: %w", err)
		}
		s := string(b)
		rule = &s
	}

	tag, err := r.db.Exec(ctx, `
		UPDATE categories
		SET
			name       = COALESCE(@name::text, name),
			rule       = COALESCE(@rule::jsonb, rule),
			updated_at = @updated_at
		WHERE user_id = @user_id AND id = @id
	`, pgx.NamedArgs{
		"user_id":    params.UserID,
		"id":         params.ID,
		"name":       params.Name,
		"rule":       rule,
		"updated_at": params.UpdatedAt,
	})
	if err != nil {
		return fmt.Errorf("update category: %w", err)
	}

	return requireAffected(tag)
}

func (r categoryRepository) DeleteCategory(ctx context.Context, userID, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `
		DELETE FROM categories WHERE user_id = @user_id AND id = @id
	`, pgx.NamedArgs{
		"user_id": userID,
		"id":      id,
	})
	if err != nil {
		return fmt.Errorf("delete category: %w", err)
	}

	return requireAffected(tag)
}
