package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/tuanvumaihuynh/shelflife/internal/model"
	"github.com/tuanvumaihuynh/shelflife/internal/repository"
	"github.com/tuanvumaihuynh/shelflife/internal/storage/db"
	"github.com/tuanvumaihuynh/shelflife/pkg/barcode"
)

type LookupResult struct {
	Parsed barcode.Result
	// Product is nil when the SKU is not known for the user yet.
	Product *model.ProductWithRule
	Batches []ClassifiedBatch
}

type ScanService interface {
	Lookup(ctx context.Context, userID uuid.UUID, code string) (LookupResult, error)
}

type scanService struct {
	productRepo repository.ProductRepository
	batchRepo   repository.BatchRepository
	now         Clock
}

func NewScanService(
	productRepo repository.ProductRepository,
	batchRepo repository.BatchRepository,
	now Clock,
) ScanService {
	return &scanService{
		productRepo: productRepo,
		batchRepo:   batchRepo,
		now:         now,
	}
}

func (s *scanService) Lookup(ctx context.Context, userID uuid.UUID, code string) (LookupResult, error) {
	parsed := barcode.Parse(code)
	res := LookupResult{
		Parsed:  parsed,
		Batches: []ClassifiedBatch{},
	}
	if parsed.SKU == "" {
		return res, nil
	}

	product, err := s.productRepo.GetProductBySku(ctx, userID, parsed.SKU)
	if err != nil {
		if db.IsNotFound(err) {
			return res, nil
		}
		return LookupResult{}, fmt.Errorf("product repository get product by sku: %w", err)
	}
	res.Product = &product

	batches, err := s.batchRepo.ListBatches(ctx, repository.ListBatchesParams{
		UserID: userID,
		Sku:    &parsed.SKU,
	})
	if err != nil {
		return LookupResult{}, fmt.Errorf("batch repository list batches: %w", err)
	}
	res.Batches = classifyBatches(batches, s.now())

	return res, nil
}
