package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/tuanvumaihuynh/shelflife/internal/apperr"
	"github.com/tuanvumaihuynh/shelflife/internal/event"
	"github.com/tuanvumaihuynh/shelflife/internal/model"
	"github.com/tuanvumaihuynh/shelflife/internal/repository"
	"github.com/tuanvumaihuynh/shelflife/internal/storage/db"
	"github.com/tuanvumaihuynh/shelflife/pkg/barcode"
	"github.com/tuanvumaihuynh/shelflife/pkg/expiry"
)

// SessionItem is one scanned or typed line of an inventory session. An
// explicit Sku or ExpiryDate takes precedence over what Code yields.
type SessionItem struct {
	Code       *string
	Sku        *string
	ExpiryDate *time.Time
	Quantity   int
}

type SubmitSessionParams struct {
	UserID     uuid.UUID
	SessionKey string
	Items      []SessionItem
}

type ListSessionsParams struct {
	UserID uuid.UUID
	Limit  int32
	Offset int32
}

type SessionDetail struct {
	model.InventorySession
	Batches []ClassifiedBatch
}

type InventoryService interface {
	SubmitSession(ctx context.Context, params SubmitSessionParams) (SessionDetail, error)
	ListSessions(ctx context.Context, params ListSessionsParams) ([]model.InventorySession, error)
	GetSession(ctx context.Context, userID, id uuid.UUID) (SessionDetail, error)
}

type inventoryService struct {
	db            db.DB
	sessionRepo   repository.InventorySessionRepository
	productRepo   repository.ProductRepository
	batchRepo     repository.BatchRepository
	todoRepo      repository.SkuTodoRepository
	outboxMsgRepo repository.OutboxMsgRepository
	now           Clock
}

func NewInventoryService(
	db db.DB,
	sessionRepo repository.InventorySessionRepository,
	productRepo repository.ProductRepository,
	batchRepo repository.BatchRepository,
	todoRepo repository.SkuTodoRepository,
	outboxMsgRepo repository.OutboxMsgRepository,
	now Clock,
) InventoryService {
	return &inventoryService{
		db:            db,
		sessionRepo:   sessionRepo,
		productRepo:   productRepo,
		batchRepo:     batchRepo,
		todoRepo:      todoRepo,
		outboxMsgRepo: outboxMsgRepo,
		now:           now,
	}
}

type resolvedItem struct {
	sku      string
	expiry   time.Time
	quantity int
}

func resolveItems(items []SessionItem) ([]resolvedItem, error) {
	if len(items) == 0 {
		return nil, apperr.EmptySessionErr
	}

	out := make([]resolvedItem, 0, len(items))
	for i, item := range items {
		var parsed barcode.Result
		if item.Code != nil {
			parsed = barcode.Parse(*item.Code)
		}

		sku := parsed.SKU
		if item.Sku != nil {
			sku = strings.TrimSpace(*item.Sku)
		}
		if sku == "" {
			return nil, fmt.Errorf("item %d: %w", i, apperr.MissingSkuErr)
		}
		if !barcode.ValidSKU(sku) {
			return nil, fmt.Errorf("item %d: %w", i, apperr.InvalidSkuErr)
		}

		exp := parsed.ExpiryDate
		if item.ExpiryDate != nil {
			exp = item.ExpiryDate
		}
		if exp == nil {
			return nil, fmt.Errorf("item %d: %w", i, apperr.MissingExpiryErr)
		}

		out = append(out, resolvedItem{
			sku:      sku,
			expiry:   expiry.Date(*exp),
			quantity: item.Quantity,
		})
	}

	return out, nil
}

func (s *inventoryService) SubmitSession(ctx context.Context, params SubmitSessionParams) (SessionDetail, error) {
	items, err := resolveItems(params.Items)
	if err != nil {
		return SessionDetail{}, err
	}

	sessionID, err := uuid.NewV7()
	if err != nil {
		return SessionDetail{}, fmt.Errorf("generate uuid v7: %w", err)
	}

	now := s.now()
	session := model.InventorySession{
		ID:         sessionID,
		UserID:     params.UserID,
		SessionKey: params.SessionKey,
		ItemCount:  len(items),
		CreatedAt:  now,
	}

	seen := make(map[string]struct{}, len(items))
	skus := make([]string, 0, len(items))
	for _, item := range items {
		if _, ok := seen[item.sku]; ok {
			continue
		}
		seen[item.sku] = struct{}{}
		skus = append(skus, item.sku)
	}

	var batches []model.BatchDetail
	if err := s.db.WithTx(ctx, func(tx db.DB) error {
		if err := s.sessionRepo.
			WithDB(tx).
			CreateSession(ctx, session); err != nil {
			if db.IsUniqueViolation(err) {
				return apperr.SessionAlreadySubmittedErr.WrapParent(err)
			}
			return fmt.Errorf("inventory session repository create session: %w", err)
		}

		productIDs, err := s.productRepo.
			WithDB(tx).
			EnsureProducts(ctx, repository.EnsureProductsParams{
				UserID: params.UserID,
				Skus:   skus,
				Now:    now,
			})
		if err != nil {
			return fmt.Errorf("product repository ensure products: %w", err)
		}

		rows := make([]model.Batch, 0, len(items))
		for _, item := range items {
			id, err := uuid.NewV7()
			if err != nil {
				return fmt.Errorf("generate uuid v7: %w", err)
			}
			rows = append(rows, model.Batch{
				ID:         id,
				UserID:     params.UserID,
				ProductID:  productIDs[item.sku],
				ExpiryDate: item.expiry,
				Quantity:   item.quantity,
				SessionID:  &sessionID,
				CreatedAt:  now,
			})
		}

		if err := s.batchRepo.
			WithDB(tx).
			CreateBatches(ctx, rows); err != nil {
			return fmt.Errorf("batch repository create batches: %w", err)
		}

		if _, err := s.todoRepo.
			WithDB(tx).
			MarkTodosCountedBySku(ctx, repository.MarkTodosCountedParams{
				UserID:    params.UserID,
				Skus:      skus,
				CountedOn: expiry.Date(now),
			}); err != nil {
			return fmt.Errorf("sku todo repository mark todos counted: %w", err)
		}

		if err := enqueueInventoryChanged(ctx, s.outboxMsgRepo.WithDB(tx),
			event.TopicInventorySessionSubmitted, params.UserID, &sessionID); err != nil {
			return err
		}

		batches, err = s.batchRepo.
			WithDB(tx).
			ListBatches(ctx, repository.ListBatchesParams{
				UserID:    params.UserID,
				SessionID: &sessionID,
			})
		if err != nil {
			return fmt.Errorf("batch repository list batches: %w", err)
		}

		return nil
	}); err != nil {
		return SessionDetail{}, fmt.Errorf("db with tx: %w", err)
	}

	return SessionDetail{
		InventorySession: session,
		Batches:          classifyBatches(batches, now),
	}, nil
}

func (s *inventoryService) ListSessions(ctx context.Context, params ListSessionsParams) ([]model.InventorySession, error) {
	sessions, err := s.sessionRepo.ListSessions(ctx, repository.ListSessionsParams{
		UserID: params.UserID,
		Limit:  params.Limit,
		Offset: params.Offset,
	})
	if err != nil {
		return nil, fmt.Errorf("inventory session repository list sessions: %w", err)
	}

	return sessions, nil
}

func (s *inventoryService) GetSession(ctx context.Context, userID, id uuid.UUID) (SessionDetail, error) {
	session, err := s.sessionRepo.GetSession(ctx, userID, id)
	if err != nil {
		if db.IsNotFound(err) {
			return SessionDetail{}, apperr.SessionNotFoundErr.WrapParent(err)
		}
		return SessionDetail{}, fmt.Errorf("inventory session repository get session: %w", err)
	}

	batches, err := s.batchRepo.ListBatches(ctx, repository.ListBatchesParams{
		UserID:    userID,
		SessionID: &id,
	})
	if err != nil {
		return SessionDetail{}, fmt.Errorf("batch repository list batches: %w", err)
	}

	return SessionDetail{
		InventorySession: session,
		Batches:          classifyBatches(batches, s.now()),
	}, nil
}
