package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/tuanvumaihuynh/shelflife/internal/repository"
	"github.com/tuanvumaihuynh/shelflife/internal/storage/cache"
	"github.com/tuanvumaihuynh/shelflife/pkg/expiry"
)

type SummaryService interface {
	// GetSummary returns the cached summary for today, computing it on a miss.
	GetSummary(ctx context.Context, userID uuid.UUID) (expiry.Summary, error)
	// Refresh recomputes the summary and overwrites the cached value.
	Refresh(ctx context.Context, userID uuid.UUID) (expiry.Summary, error)
}

type summaryService struct {
	logger    *slog.Logger
	batchRepo repository.BatchRepository
	cache     cache.Cache
	ttl       time.Duration
	now       Clock
}

func NewSummaryService(
	logger *slog.Logger,
	batchRepo repository.BatchRepository,
	cache cache.Cache,
	ttl time.Duration,
	now Clock,
) SummaryService {
	return &summaryService{
		logger:    logger.With(slog.String("service", "summary")),
		batchRepo: batchRepo,
		cache:     cache,
		ttl:       ttl,
		now:       now,
	}
}

// summaryKey includes the date because statuses age without any write.
func summaryKey(userID uuid.UUID, today time.Time) string {
	return fmt.Sprintf("shelflife:summary:%s:%s", userID, expiry.Date(today).Format(time.DateOnly))
}

func (s *summaryService) GetSummary(ctx context.Context, userID uuid.UUID) (expiry.Summary, error) {
	key := summaryKey(userID, s.now())

	b, err := s.cache.Get(ctx, key)
	switch {
	case err == nil:
		var summary expiry.Summary
		if err := json.Unmarshal(b, &summary); err == nil {
			return summary, nil
		}
		s.logger.WarnContext(ctx, "discard malformed cached summary", slog.String("key", key))
	case !errors.Is(err, cache.ErrMiss):
		s.logger.WarnContext(ctx, "read cached summary", slog.Any("error", err))
	}

	return s.Refresh(ctx, userID)
}

func (s *summaryService) Refresh(ctx context.Context, userID uuid.UUID) (expiry.Summary, error) {
	today := s.now()

	batches, err := s.batchRepo.ListBatches(ctx, repository.ListBatchesParams{
		UserID: userID,
	})
	if err != nil {
		return expiry.Summary{}, fmt.Errorf("batch repository list batches: %w", err)
	}

	var summary expiry.Summary
	for _, b := range batches {
		summary.Add(b.Classify(today))
	}

	b, err := json.Marshal(summary)
	if err != nil {
		return expiry.Summary{}, fmt.Errorf("marshal summary: %w", err)
	}

	// A cache outage degrades to recomputing on every read.
	if err := s.cache.Set(ctx, summaryKey(userID, today), b, s.ttl); err != nil {
		s.logger.WarnContext(ctx, "write cached summary", slog.Any("error", err))
	}

	return summary, nil
}
