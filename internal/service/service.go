package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/tuanvumaihuynh/shelflife/internal/event"
	"github.com/tuanvumaihuynh/shelflife/internal/model"
	"github.com/tuanvumaihuynh/shelflife/internal/repository"
	"github.com/tuanvumaihuynh/shelflife/pkg/expiry"
	"github.com/tuanvumaihuynh/shelflife/pkg/outbox"
	"github.com/tuanvumaihuynh/shelflife/pkg/ptr"
)

// Clock returns the current time. Services read "today" through it.
type Clock func() time.Time

// ClassifiedBatch is a batch together with its derived status.
type ClassifiedBatch struct {
	model.BatchDetail
	Expiry expiry.Result
}

func classifyBatches(batches []model.BatchDetail, today time.Time) []ClassifiedBatch {
	out := make([]ClassifiedBatch, 0, len(batches))
	for _, b := range batches {
		out = append(out, ClassifiedBatch{
			BatchDetail: b,
			Expiry:      b.Classify(today),
		})
	}
	return out
}

// enqueueInventoryChanged writes an outbox message telling consumers that the
// user's batches changed. It must run inside the caller's transaction.
func enqueueInventoryChanged(
	ctx context.Context,
	outboxMsgRepo repository.OutboxMsgRepository,
	topic string,
	userID uuid.UUID,
	sessionID *uuid.UUID,
) error {
	ev := event.InventoryChangedEvent{
		UserID: userID.String(),
		Topic:  topic,
	}
	if sessionID != nil {
		ev.SessionID = ptr.New(sessionID.String())
	}

	payload, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	if err := outboxMsgRepo.CreateOutboxMsg(ctx, repository.CreateOutboxMsgParams{
		Topic:        topic,
		Headers:      outbox.BuildHeaders(ctx),
		Payload:      payload,
		PartitionKey: ptr.New(userID.String()),
	}); err != nil {
		return fmt.Errorf("outbox msg repository create outbox msg: %w", err)
	}

	return nil
}
