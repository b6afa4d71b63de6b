package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/tuanvumaihuynh/shelflife/internal/apperr"
	"github.com/tuanvumaihuynh/shelflife/internal/event"
	"github.com/tuanvumaihuynh/shelflife/internal/repository"
	"github.com/tuanvumaihuynh/shelflife/internal/storage/db"
	"github.com/tuanvumaihuynh/shelflife/pkg/expiry"
)

type ListBatchesParams struct {
	UserID uuid.UUID
	Sku    *string
	Status *expiry.Status
}

type UpdateBatchParams struct {
	UserID     uuid.UUID
	ID         uuid.UUID
	ExpiryDate *time.Time
	Quantity   *int
}

type BatchService interface {
	ListBatches(ctx context.Context, params ListBatchesParams) ([]ClassifiedBatch, error)
	UpdateBatch(ctx context.Context, params UpdateBatchParams) (ClassifiedBatch, error)
	DeleteBatch(ctx context.Context, userID, id uuid.UUID) error
}

type batchService struct {
	db            db.DB
	batchRepo     repository.BatchRepository
	outboxMsgRepo repository.OutboxMsgRepository
	now           Clock
}

func NewBatchService(
	db db.DB,
	batchRepo repository.BatchRepository,
	outboxMsgRepo repository.OutboxMsgRepository,
	now Clock,
) BatchService {
	return &batchService{
		db:            db,
		batchRepo:     batchRepo,
		outboxMsgRepo: outboxMsgRepo,
		now:           now,
	}
}

// ListBatches returns the user's batches, soonest removal first. Status is
// derived at read time so the filter is applied after classification.
func (s *batchService) ListBatches(ctx context.Context, params ListBatchesParams) ([]ClassifiedBatch, error) {
	batches, err := s.batchRepo.ListBatches(ctx, repository.ListBatchesParams{
		UserID: params.UserID,
		Sku:    params.Sku,
	})
	if err != nil {
		return nil, fmt.Errorf("batch repository list batches: %w", err)
	}

	classified := classifyBatches(batches, s.now())
	if params.Status == nil {
		return classified, nil
	}

	filtered := make([]ClassifiedBatch, 0, len(classified))
	for _, b := range classified {
		if b.Expiry.Status == *params.Status {
			filtered = append(filtered, b)
		}
	}
	return filtered, nil
}

func (s *batchService) UpdateBatch(ctx context.Context, params UpdateBatchParams) (ClassifiedBatch, error) {
	if params.ExpiryDate == nil && params.Quantity == nil {
		return ClassifiedBatch{}, apperr.NothingToUpdateErr
	}

	repoParams := repository.UpdateBatchParams{
		UserID:   params.UserID,
		ID:       params.ID,
		Quantity: params.Quantity,
	}
	if params.ExpiryDate != nil {
		d := expiry.Date(*params.ExpiryDate)
		repoParams.ExpiryDate = &d
	}

	var updated ClassifiedBatch
	if err := s.db.WithTx(ctx, func(tx db.DB) error {
		if err := s.batchRepo.
			WithDB(tx).
			UpdateBatch(ctx, repoParams); err != nil {
			if db.IsNotFound(err) {
				return apperr.BatchNotFoundErr.WrapParent(err)
			}
			return fmt.Errorf("batch repository update batch: %w", err)
		}

		if err := enqueueInventoryChanged(ctx, s.outboxMsgRepo.WithDB(tx),
			event.TopicInventoryBatchesChanged, params.UserID, nil); err != nil {
			return err
		}

		batch, err := s.batchRepo.
			WithDB(tx).
			GetBatch(ctx, params.UserID, params.ID)
		if err != nil {
			return fmt.Errorf("batch repository get batch: %w", err)
		}
		updated = ClassifiedBatch{BatchDetail: batch, Expiry: batch.Classify(s.now())}

		return nil
	}); err != nil {
		return ClassifiedBatch{}, fmt.Errorf("db with tx: %w", err)
	}

	return updated, nil
}

func (s *batchService) DeleteBatch(ctx context.Context, userID, id uuid.UUID) error {
	if err := s.db.WithTx(ctx, func(tx db.DB) error {
		if err := s.batchRepo.
			WithDB(tx).
			DeleteBatch(ctx, userID, id); err != nil {
			if db.IsNotFound(err) {
				return apperr.BatchNotFoundErr.WrapParent(err)
			}
			return fmt.Errorf("batch repository delete batch: %w", err)
		}

		return enqueueInventoryChanged(ctx, s.outboxMsgRepo.WithDB(tx),
			event.TopicInventoryBatchesChanged, userID, nil)
	}); err != nil {
		return fmt.Errorf("db with tx: %w", err)
	}

	return nil
}
