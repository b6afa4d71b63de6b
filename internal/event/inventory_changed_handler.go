package event

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
)

const (
	TopicInventorySessionSubmitted = "inventory_session.submitted"
	TopicInventoryBatchesChanged   = "inventory_batches.changed"
)

type InventoryChangedEvent struct {
	UserID    string  `json:"user_id"`
	SessionID *string `json:"session_id,omitempty"`
	Topic     string  `json:"topic"`
}

func (s *Service) handleInventoryChangedEvent(ctx context.Context, ev InventoryChangedEvent) error {
	userID, err := uuid.Parse(ev.UserID)
	if err != nil {
		return fmt.Errorf("parse user id: %w", err)
	}

	summary, err := s.summaries.Refresh(ctx, userID)
	if err != nil {
		return fmt.Errorf("refresh summary: %w", err)
	}

	s.logger.InfoContext(ctx, "expiry summary refreshed",
		slog.String("user_id", ev.UserID),
		slog.String("topic", ev.Topic),
		slog.Int("expired", summary.Expired),
		slog.Int("urgent", summary.Urgent),
		slog.Int("healthy", summary.Healthy),
	)

	return nil
}
