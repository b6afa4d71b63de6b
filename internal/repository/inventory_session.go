package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/tuanvumaihuynh/shelflife/internal/model"
	"github.com/tuanvumaihuynh/shelflife/internal/storage/db"
)

type ListSessionsParams struct {
	UserID uuid.UUID
	Limit  int32
	Offset int32
}

type InventorySessionRepository interface {
	WithDB(db db.DB) InventorySessionRepository
	CreateSession(ctx context.Context, session model.InventorySession) error
	GetSession(ctx context.Context, userID, id uuid.UUID) (model.InventorySession, error)
	ListSessions(ctx context.Context, params ListSessionsParams) ([]model.InventorySession, error)
}

type inventorySessionRepository struct {
	db db.DB
}

func NewInventorySessionRepository(db db.DB) InventorySessionRepository {
	return &inventorySessionRepository{
		db: db,
	}
}

func (r inventorySessionRepository) WithDB(db db.DB) InventorySessionRepository {
	return &inventorySessionRepository{
		db: db,
	}
}

func (r inventorySessionRepository) CreateSession(ctx context.Context, session model.InventorySession) error {
	if _, err := r.db.Exec(ctx, `
		INSERT INTO inventory_sessions (id, user_id, session_key, item_count, created_at)
		VALUES (@id, @user_id, @session_key, @item_count, @created_at)
	`, pgx.NamedArgs{
		"id":          session.ID,
		"user_id":     session.UserID,
		"session_key": session.SessionKey,
		"item_count":  session.ItemCount,
		"created_at":  session.CreatedAt,
	}); err != nil {
		return fmt.Errorf("create inventory session: %w", err)
	}

	return nil
}

func (r inventorySessionRepository) GetSession(ctx context.Context, userID, id uuid.UUID) (model.InventorySession, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, user_id, session_key, item_count, created_at
		FROM inventory_sessions
		WHERE user_id = @user_id AND id = @id
	`, pgx.NamedArgs{
		"user_id": userID,
		"id":      id,
	})
	if err != nil {
		return model.InventorySession{}, fmt.Errorf("get inventory session: %w", err)
	}

	session, err := pgx.CollectExactlyOneRow(rows, pgx.RowToStructByName[model.InventorySession])
	if err != nil {
		return model.InventorySession{}, fmt.Errorf("collect inventory session: %w", err)
	}

	return session, nil
}

func (r inventorySessionRepository) ListSessions(ctx context.Context, params ListSessionsParams) ([]model.InventorySession, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, user_id, session_key, item_count, created_at
		FROM inventory_sessions
		WHERE user_id = @user_id
		ORDER BY created_at DESC
		LIMIT @limit OFFSET @offset
	`, pgx.NamedArgs{
		"user_id": params.UserID,
		"limit":   params.Limit,
		"offset":  params.Offset,
	})
	if err != nil {
		return nil, fmt.Errorf("list inventory sessions: %w", err)
	}

	sessions, err := pgx.CollectRows(rows, pgx.RowToStructByName[model.InventorySession])
	if err != nil {
		return nil, fmt.Errorf("collect inventory sessions: %w", err)
	}

	return sessions, nil
}
