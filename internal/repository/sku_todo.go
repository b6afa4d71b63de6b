package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/tuanvumaihuynh/shelflife/internal/model"
	"github.com/tuanvumaihuynh/shelflife/internal/storage/db"
)

type MarkTodosCountedParams struct {
	UserID    uuid.UUID
	Skus      []string
	CountedOn time.Time
}

type SkuTodoRepository interface {
	WithDB(db db.DB) SkuTodoRepository
	CreateTodo(ctx context.Context, todo model.SkuTodo) error
	GetTodo(ctx context.Context, userID, id uuid.UUID) (model.SkuTodo, error)
	ListTodos(ctx context.Context, userID uuid.UUID) ([]model.SkuTodo, error)
	MarkTodoCounted(ctx context.Context, userID, id uuid.UUID, countedOn time.Time) error
	MarkTodosCountedBySku(ctx context.Context, params MarkTodosCountedParams) (int64, error)
	DeleteTodo(ctx context.Context, userID, id uuid.UUID) error
}

type skuTodoRepository struct {
	db db.DB
}

func NewSkuTodoRepository(db db.DB) SkuTodoRepository {
	return &skuTodoRepository{
		db: db,
	}
}

func (r skuTodoRepository) WithDB(db db.DB) SkuTodoRepository {
	return &skuTodoRepository{
		db: db,
	}
}

func (r skuTodoRepository) CreateTodo(ctx context.Context, todo model.SkuTodo) error {
	if _, err := r.db.Exec(ctx, `
		INSERT INTO sku_todos (id, user_id, sku, interval_days, last_counted_on, note, created_at)
		VALUES (@id, @user_id, @sku, @interval_days, @last_counted_on, @note, @created_at)
	`, pgx.NamedArgs{
		"id":              todo.ID,
		"user_id":         todo.UserID,
		"sku":             todo.Sku,
		"interval_days":   todo.IntervalDays,
		"last_counted_on": todo.LastCountedOn,
		"note":            todo.Note,
		"created_at":      todo.CreatedAt,
	}); err != nil {
		return fmt.Errorf("create sku todo: %w", err)
	}

	return nil
}

func (r skuTodoRepository) GetTodo(ctx context.Context, userID, id uuid.UUID) (model.SkuTodo, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, user_id, sku, interval_days, last_counted_on, note, created_at
		FROM sku_todos
		WHERE user_id = @user_id AND id = @id
	`, pgx.NamedArgs{
		"user_id": userID,
		"id":      id,
	})
	if err != nil {
		return model.SkuTodo{}, fmt.Errorf("get sku todo: %w", err)
	}

	todo, err := pgx.CollectExactlyOneRow(rows, pgx.RowToStructByName[model.SkuTodo])
	if err != nil {
		return model.SkuTodo{}, fmt.Errorf("collect sku todo: %w", err)
	}

	return todo, nil
}

func (r skuTodoRepository) ListTodos(ctx context.Context, userID uuid.UUID) ([]model.SkuTodo, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, user_id, sku, interval_days, last_counted_on, note, created_at
		FROM sku_todos
		WHERE user_id = @user_id
		ORDER BY last_counted_on NULLS FIRST, sku
	`, pgx.NamedArgs{
		"user_id": userID,
	})
	if err != nil {
		return nil, fmt.Errorf("list sku todos: %w", err)
	}

	todos, err := pgx.CollectRows(rows, pgx.RowToStructByName[model.SkuTodo])
	if err != nil {
		return nil, fmt.Errorf("collect sku todos: %w", err)
	}

	return todos, nil
}

func (r skuTodoRepository) MarkTodoCounted(ctx context.Context, userID, id uuid.UUID, countedOn time.Time) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE sku_todos SET last_counted_on = @counted_on
		WHERE user_id = @user_id AND id = @id
	`, pgx.NamedArgs{
		"user_id":    userID,
		"id":         id,
		"counted_on": countedOn,
	})
	if err != nil {
		return fmt.Errorf("mark sku todo counted: %w", err)
	}

	return requireAffected(tag)
}

func (r skuTodoRepository) MarkTodosCountedBySku(ctx context.Context, params MarkTodosCountedParams) (int64, error) {
	if len(params.Skus) == 0 {
		return 0, nil
	}

	tag, err := r.db.Exec(ctx, `
		UPDATE sku_todos SET last_counted_on = @counted_on
		WHERE user_id = @user_id AND sku = ANY(@skus::text[])
	`, pgx.NamedArgs{
		"user_id":    params.UserID,
		"skus":       params.Skus,
		"counted_on": params.CountedOn,
	})
	if err != nil {
		return 0, fmt.Errorf("mark sku todos counted: %w", err)
	}

	return tag.RowsAffected(), nil
}

func (r skuTodoRepository) DeleteTodo(ctx context.Context, userID, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `
		DELETE FROM sku_todos WHERE user_id = @user_id AND id = @id
	`, pgx.NamedArgs{
		"user_id": userID,
		"id":      id,
	})
	if err != nil {
		return fmt.Errorf("delete sku todo: %w", err)
	}

	return requireAffected(tag)
}
