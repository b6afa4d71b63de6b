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

const selectBatchDetail = `
	SELECT
		b.id,
		b.user_id,
		b.product_id,
		b.expiry_date,
		b.quantity,
		b.session_id,
		b.created_at,
		p.sku,
		p.name AS product_name,
		p.removal_buffer,
		c.rule
	FROM batches AS b
	JOIN products AS p ON p.id = b.product_id
	LEFT JOIN categories AS c ON c.id = p.category_id
`

type ListBatchesParams struct {
	UserID    uuid.UUID
	Sku       *string
	SessionID *uuid.UUID
}

type UpdateBatchParams struct {
	UserID     uuid.UUID
	ID         uuid.UUID
	ExpiryDate *time.Time
	Quantity   *int
}

type BatchRepository interface {
	WithDB(db db.DB) BatchRepository
	CreateBatches(ctx context.Context, batches []model.Batch) error
	ListBatches(ctx context.Context, params ListBatchesParams) ([]model.BatchDetail, error)
	GetBatch(ctx context.Context, userID, id uuid.UUID) (model.BatchDetail, error)
	UpdateBatch(ctx context.Context, params UpdateBatchParams) error
	DeleteBatch(ctx context.Context, userID, id uuid.UUID) error
}

type batchRepository struct {
	db db.DB
}

func NewBatchRepository(db db.DB) BatchRepository {
	return &batchRepository{
		db: db,
	}
}

func (r batchRepository) WithDB(db db.DB) BatchRepository {
	return &batchRepository{
		db: db,
	}
}

var batchColumns = []string{"id", "user_id", "product_id", "expiry_date", "quantity", "session_id", "created_at"}

func (r batchRepository) CreateBatches(ctx context.Context, batches []model.Batch) error {
	if len(batches) == 0 {
		return nil
	}

	n, err := r.db.CopyFrom(ctx, pgx.Identifier{"batches"}, batchColumns,
		pgx.CopyFromSlice(len(batches), func(i int) ([]any, error) {
			b := batches[i]
			return []any{b.ID, b.UserID, b.ProductID, b.ExpiryDate, b.Quantity, b.SessionID, b.CreatedAt}, nil
		}),
	)
	if err != nil {
		return fmt.Errorf("copy batches: %w", err)
	}
	if int(n) != len(batches) {
		return fmt.Errorf("copy batches: inserted %d of %d rows", n, len(batches))
	}

	return nil
}

func (r batchRepository) ListBatches(ctx context.Context, params ListBatchesParams) ([]model.BatchDetail, error) {
	rows, err := r.db.Query(ctx, selectBatchDetail+`
		WHERE b.user_id = @user_id
			AND (@sku::text IS NULL OR p.sku = @sku::text)
			AND (@session_id::uuid IS NULL OR b.session_id = @session_id::uuid)
		ORDER BY b.expiry_date, p.sku, b.created_at
	`, pgx.NamedArgs{
		"user_id":    params.UserID,
		"sku":        params.Sku,
		"session_id": params.SessionID,
	})
	if err != nil {
		return nil, fmt.Errorf("list batches: %w", err)
	}

	batches, err := pgx.CollectRows(rows, pgx.RowToStructByName[model.BatchDetail])
	if err != nil {
		return nil, fmt.Errorf("collect batches: %w", err)
	}

	return batches, nil
}

func (r batchRepository) GetBatch(ctx context.Context, userID, id uuid.UUID) (model.BatchDetail, error) {
	rows, err := r.db.Query(ctx, selectBatchDetail+`
		WHERE b.user_id = @user_id AND b.id = @id
	`, pgx.NamedArgs{
		"user_id": userID,
		"id":      id,
	})
	if err != nil {
		return model.BatchDetail{}, fmt.Errorf("get batch: %w", err)
	}

	batch, err := pgx.CollectExactlyOneRow(rows, pgx.RowToStructByName[model.BatchDetail])
	if err != nil {
		return model.BatchDetail{}, fmt.Errorf("collect batch: %w", err)
	}

	return batch, nil
}

func (r batchRepository) UpdateBatch(ctx context.Context, params UpdateBatchParams) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE batches
		SET
			expiry_date = COALESCE(@expiry_date::date, expiry_date),
			quantity    = COALESCE(@quantity::integer, quantity)
		WHERE user_id = @user_id AND id = @id
	`, pgx.NamedArgs{
		"user_id":     params.UserID,
		"id":          params.ID,
		"expiry_date": params.ExpiryDate,
		"quantity":    params.Quantity,
	})
	if err != nil {
		return fmt.Errorf("update batch: %w", err)
	}

	return requireAffected(tag)
}

func (r batchRepository) DeleteBatch(ctx context.Context, userID, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `
		DELETE FROM batches WHERE user_id = @user_id AND id = @id
	`, pgx.NamedArgs{
		"user_id": userID,
		"id":      id,
	})
	if err != nil {
		return fmt.Errorf("delete batch: %w", err)
	}

	return requireAffected(tag)
}
