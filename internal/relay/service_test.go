package relay

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tuanvumaihuynh/shelflife/internal/config"
	"github.com/tuanvumaihuynh/shelflife/internal/repository"
	"github.com/tuanvumaihuynh/shelflife/internal/storage/db"
	"github.com/tuanvumaihuynh/shelflife/internal/storage/mq"
	"github.com/tuanvumaihuynh/shelflife/pkg/ptr"
)

type fakeDB struct {
	db.DB
}

func (f fakeDB) WithTx(_ context.Context, txFunc func(db.DB) error) error {
	return txFunc(f)
}

type stubOutboxRepo struct {
	mu      sync.Mutex
	pending []repository.ListUnprocessedOutboxMsgsResult
	updated []repository.BulkUpdateOutboxMsgsItem
	listErr error
}

func (r *stubOutboxRepo) WithDB(db.DB) repository.OutboxMsgRepository { return r }

func (r *stubOutboxRepo) CreateOutboxMsg(context.Context, repository.CreateOutboxMsgParams) error {
	return nil
}

func (r *stubOutboxRepo) ListUnprocessedOutboxMsgs(_ context.Context, params repository.ListUnprocessedOutboxMsgsParams) ([]repository.ListUnprocessedOutboxMsgsResult, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.listErr != nil {
		return nil, r.listErr
	}
	n := min(int(params.BatchSize), len(r.pending))
	out := r.pending[:n]
	r.pending = r.pending[n:]
	return out, nil
}

func (r *stubOutboxRepo) BulkUpdateOutboxMsgs(_ context.Context, params repository.BulkUpdateOutboxMsgsParams) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.updated = append(r.updated, params.Items...)
	return nil
}

type stubProducer struct {
	mu       sync.Mutex
	produced []mq.ProduceMsg
	failOn   string
}

func (p *stubProducer) Produce(_ context.Context, msg mq.ProduceMsg) error {
	if msg.Topic == p.failOn {
		return errors.New("broker unavailable")
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.produced = append(p.produced, msg)
	return nil
}

func newMsg(topic string) repository.ListUnprocessedOutboxMsgsResult {
	return repository.ListUnprocessedOutboxMsgsResult{
		ID:           uuid.New(),
		Topic:        topic,
		Headers:      map[string]string{"x-correlation-id": "abc"},
		Payload:      json.RawMessage(`{"user_id":"u"}`),
		PartitionKey: ptr.New("u"),
	}
}

func newTestService(repo *stubOutboxRepo, producer *stubProducer, batchSize uint32) *Service {
	return NewService(
		config.Relay{BatchSize: batchSize, Interval: 10 * time.Millisecond, ShutdownTimeout: time.Second},
		slog.New(slog.NewTextHandler(io.Discard, nil)),
		fakeDB{},
		repo,
		producer,
	)
}

func TestRelayBatch(t *testing.T) {
	ok := newMsg("inventory_session.submitted")
	failing := newMsg("broken")
	repo := &stubOutboxRepo{pending: []repository.ListUnprocessedOutboxMsgsResult{ok, failing, newMsg("later")}}
	producer := &stubProducer{failOn: "broken"}
	svc := newTestService(repo, producer, 2)

	n, err := svc.RelayBatch(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	require.Len(t, producer.produced, 1)
	assert.Equal(t, ok.Topic, producer.produced[0].Topic)
	assert.Equal(t, "u", *producer.produced[0].PartitionKey)

	require.Len(t, repo.updated, 2)
	assert.Equal(t, ok.ID, repo.updated[0].ID)
	assert.Nil(t, repo.updated[0].Error)
	assert.Equal(t, failing.ID, repo.updated[1].ID)
	require.NotNil(t, repo.updated[1].Error)
	assert.Contains(t, *repo.updated[1].Error, "broker unavailable")

	t.Run("Should report list failure", func(t *testing.T) {
		repo := &stubOutboxRepo{listErr: errors.New("boom")}
		_, err := newTestService(repo, &stubProducer{}, 10).RelayBatch(context.Background())
		assert.Error(t, err)
	})

	t.Run("Should do nothing without pending messages", func(t *testing.T) {
		repo := &stubOutboxRepo{}
		n, err := newTestService(repo, &stubProducer{}, 10).RelayBatch(context.Background())
		require.NoError(t, err)
		assert.Zero(t, n)
		assert.Empty(t, repo.updated)
	})
}

func TestRunDrainsUntilCleanup(t *testing.T) {
	repo := &stubOutboxRepo{pending: []repository.ListUnprocessedOutboxMsgsResult{newMsg("a"), newMsg("b"), newMsg("c")}}
	producer := &stubProducer{}
	svc := newTestService(repo, producer, 1)

	cleanup := svc.Run(context.Background())

	assert.Eventually(t, func() bool {
		repo.mu.Lock()
		defer repo.mu.Unlock()
		return len(repo.updated) == 3
	}, time.Second, 5*time.Millisecond)

	cleanup()
}
