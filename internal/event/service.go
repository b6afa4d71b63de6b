package event

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/tuanvumaihuynh/shelflife/internal/storage/mq"
	"github.com/tuanvumaihuynh/shelflife/pkg/expiry"
)

// SummaryRefresher recomputes and stores a user's expiry summary.
type SummaryRefresher interface {
	Refresh(ctx context.Context, userID uuid.UUID) (expiry.Summary, error)
}

// Service is the event service.
type Service struct {
	logger     *slog.Logger
	mqConsumer mq.Consumer
	summaries  SummaryRefresher
}

// New creates a new event service.
func New(
	logger *slog.Logger,
	mqConsumer mq.Consumer,
	summaries SummaryRefresher,
) *Service {
	return &Service{
		logger:     logger.With(slog.String("service", "event")),
		mqConsumer: mqConsumer,
		summaries:  summaries,
	}
}

type CleanupFunc func()

func (s *Service) Run(ctx context.Context) (CleanupFunc, error) {
	for _, topic := range []string{TopicInventorySessionSubmitted, TopicInventoryBatchesChanged} {
		if err := s.mqConsumer.RegisterHandler(topic, s.handleInventoryChanged); err != nil {
			return nil, fmt.Errorf("register %s event handler: %w", topic, err)
		}
	}

	mqCleanup, err := s.mqConsumer.Run(ctx)
	if err != nil {
		return nil, fmt.Errorf("run mq consumer: %w", err)
	}

	cleanup := func() {
		mqCleanup()
	}

	return cleanup, nil
}

func (s *Service) handleInventoryChanged(ctx context.Context, topic string, payload []byte) error {
	var ev InventoryChangedEvent
	if err := json.Unmarshal(payload, &ev); err != nil {
		return fmt.Errorf("unmarshal %s event: %w", topic, err)
	}
	if ev.Topic == "" {
		ev.Topic = topic
	}

	if err := s.handleInventoryChangedEvent(ctx, ev); err != nil {
		return fmt.Errorf("handle %s event: %w", topic, err)
	}

	return nil
}
