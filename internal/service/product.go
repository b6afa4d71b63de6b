package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/tuanvumaihuynh/shelflife/internal/apperr"
	"github.com/tuanvumaihuynh/shelflife/internal/event"
	"github.com/tuanvumaihuynh/shelflife/internal/model"
	"github.com/tuanvumaihuynh/shelflife/internal/repository"
	"github.com/tuanvumaihuynh/shelflife/internal/storage/db"
)

type UpdateProductParams struct {
	UserID        uuid.UUID
	Sku           string
	Name          *string
	RemovalBuffer *int
	CategoryID    *uuid.UUID
	// ClearCategory detaches the product from its category.
	ClearCategory bool
}

type ProductDetail struct {
	model.ProductWithRule
	Batches []ClassifiedBatch
}

type ProductService interface {
	ListProducts(ctx context.Context, userID uuid.UUID) ([]model.ProductWithRule, error)
	GetProduct(ctx context.Context, userID uuid.UUID, sku string) (ProductDetail, error)
	UpdateProduct(ctx context.Context, params UpdateProductParams) (model.ProductWithRule, error)
	DeleteProduct(ctx context.Context, userID uuid.UUID, sku string) error
}

type productService struct {
	db            db.DB
	productRepo   repository.ProductRepository
	categoryRepo  repository.CategoryRepository
	batchRepo     repository.BatchRepository
	outboxMsgRepo repository.OutboxMsgRepository
	now           Clock
}

func NewProductService(
	db db.DB,
	productRepo repository.ProductRepository,
	categoryRepo repository.CategoryRepository,
	batchRepo repository.BatchRepository,
	outboxMsgRepo repository.OutboxMsgRepository,
	now Clock,
) ProductService {
	return &productService{
		db:            db,
		productRepo:   productRepo,
		categoryRepo:  categoryRepo,
		batchRepo:     batchRepo,
		outboxMsgRepo: outboxMsgRepo,
		now:           now,
	}
}

func (s *productService) ListProducts(ctx context.Context, userID uuid.UUID) ([]model.ProductWithRule, error) {
	products, err := s.productRepo.ListProducts(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("product repository list products: %w", err)
	}

	return products, nil
}

func (s *productService) GetProduct(ctx context.Context, userID uuid.UUID, sku string) (ProductDetail, error) {
	product, err := s.productRepo.GetProductBySku(ctx, userID, sku)
	if err != nil {
		if db.IsNotFound(err) {
			return ProductDetail{}, apperr.ProductNotFoundErr.WrapParent(err)
		}
		return ProductDetail{}, fmt.Errorf("product repository get product by sku: %w", err)
	}

	batches, err := s.batchRepo.ListBatches(ctx, repository.ListBatchesParams{
		UserID: userID,
		Sku:    &sku,
	})
	if err != nil {
		return ProductDetail{}, fmt.Errorf("batch repository list batches: %w", err)
	}

	return ProductDetail{
		ProductWithRule: product,
		Batches:         classifyBatches(batches, s.now()),
	}, nil
}

// UpdateProduct changes product attributes. Buffer and category both feed the
// classifier, so a changed event is enqueued with the update.
func (s *productService) UpdateProduct(ctx context.Context, params UpdateProductParams) (model.ProductWithRule, error) {
	if params.Name == nil && params.RemovalBuffer == nil && params.CategoryID == nil && !params.ClearCategory {
		return model.ProductWithRule{}, apperr.NothingToUpdateErr
	}

	var updated model.ProductWithRule
	if err := s.db.WithTx(ctx, func(tx db.DB) error {
		if params.CategoryID != nil {
			if _, err := s.categoryRepo.
				WithDB(tx).
				GetCategory(ctx, params.UserID, *params.CategoryID); err != nil {
				if db.IsNotFound(err) {
					return apperr.CategoryNotFoundErr.WrapParent(err)
				}
				return fmt.Errorf("category repository get category: %w", err)
			}
		}

		if err := s.productRepo.
			WithDB(tx).
			UpdateProduct(ctx, repository.UpdateProductParams{
				UserID:        params.UserID,
				Sku:           params.Sku,
				Name:          params.Name,
				RemovalBuffer: params.RemovalBuffer,
				CategoryID:    params.CategoryID,
				ClearCategory: params.ClearCategory,
				UpdatedAt:     s.now(),
			}); err != nil {
			if db.IsNotFound(err) {
				return apperr.ProductNotFoundErr.WrapParent(err)
			}
			return fmt.Errorf("product repository update product: %w", err)
		}

		if err := enqueueInventoryChanged(ctx, s.outboxMsgRepo.WithDB(tx),
			event.TopicInventoryBatchesChanged, params.UserID, nil); err != nil {
			return err
		}

		var err error
		updated, err = s.productRepo.
			WithDB(tx).
			GetProductBySku(ctx, params.UserID, params.Sku)
		if err != nil {
			return fmt.Errorf("product repository get product by sku: %w", err)
		}

		return nil
	}); err != nil {
		return model.ProductWithRule{}, fmt.Errorf("db with tx: %w", err)
	}

	return updated, nil
}

// DeleteProduct removes the product and, through the foreign key, its batches.
func (s *productService) DeleteProduct(ctx context.Context, userID uuid.UUID, sku string) error {
	if err := s.db.WithTx(ctx, func(tx db.DB) error {
		if err := s.productRepo.
			WithDB(tx).
			DeleteProduct(ctx, userID, sku); err != nil {
			if db.IsNotFound(err) {
				return apperr.ProductNotFoundErr.WrapParent(err)
			}
			return fmt.Errorf("product repository delete product: %w", err)
		}

		return enqueueInventoryChanged(ctx, s.outboxMsgRepo.WithDB(tx),
			event.TopicInventoryBatchesChanged, userID, nil)
	}); err != nil {
		return fmt.Errorf("db with tx: %w", err)
	}

	return nil
}
