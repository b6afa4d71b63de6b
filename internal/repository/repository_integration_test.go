//go:build integration

package repository_test

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"

	"github.com/tuanvumaihuynh/shelflife/internal/config"
	"github.com/tuanvumaihuynh/shelflife/internal/model"
	"github.com/tuanvumaihuynh/shelflife/internal/repository"
	"github.com/tuanvumaihuynh/shelflife/internal/storage/db"
	"github.com/tuanvumaihuynh/shelflife/pkg/ptr"
)

var testClient *db.Client

// Run with a docker daemon available:
//
//	go test -tags integration ./internal/repository/...
func TestMain(m *testing.M) {
	os.Exit(runWithPostgres(m))
}

func runWithPostgres(m *testing.M) int {
	ctx := context.Background()

	ctr, err := tcpostgres.Run(ctx, "postgres:17-alpine",
		tcpostgres.WithDatabase("shelflife"),
		tcpostgres.WithUsername("shelflife"),
		tcpostgres.WithPassword("shelflife"),
		tcpostgres.BasicWaitStrategies(),
	)
	if err != nil {
		fmt.Printf("start postgres container: %v\n", err)
		return 1
	}
	defer func() {
		if err := testcontainers.TerminateContainer(ctr); err != nil {
			fmt.Printf("terminate postgres container: %v\n", err)
		}
	}()

	host, err := ctr.Host(ctx)
	if err != nil {
		fmt.Printf("postgres host: %v\n", err)
		return 1
	}
	port, err := ctr.MappedPort(ctx, "5432/tcp")
	if err != nil {
		fmt.Printf("postgres port: %v\n", err)
		return 1
	}

	pool, err := db.NewPgxPool(ctx, config.Postgres{
		Host:            host,
		Port:            port.Int(),
		User:            "shelflife",
		Password:        "shelflife",
		DB:              "shelflife",
		SSLMode:         "disable",
		ApplicationName: "shelflife-test",
		MaxConns:        5,
		MinConns:        1,
		MaxConnLifetime: time.Hour,
		MaxConnIdleTime: time.Minute,
	})
	if err != nil {
		fmt.Printf("create pgx pool: %v\n", err)
		return 1
	}
	defer pool.Close()

	if err := db.Migrate(pool); err != nil {
		fmt.Printf("migrate: %v\n", err)
		return 1
	}

	testClient = db.NewClient(pool)

	return m.Run()
}

func newTestUser(t *testing.T, client *db.Client) model.User {
	t.Helper()

	user := model.User{
		ID:           uuid.New(),
		Username:     "u" + uuid.NewString()[:8],
		PasswordHash: "x",
		CreatedAt:    time.Now().UTC(),
	}
	require.NoError(t, repository.NewUserRepository(client).CreateUser(context.Background(), user))

	return user
}

func TestUserRepository(t *testing.T) {
	client := testClient
	repo := repository.NewUserRepository(client)
	ctx := context.Background()

	user := newTestUser(t, client)

	got, err := repo.GetUserByUsername(ctx, user.Username)
	require.NoError(t, err)
	assert.Equal(t, user.ID, got.ID)

	err = repo.CreateUser(ctx, user)
	assert.True(t, db.IsUniqueViolation(err))

	_, err = repo.GetUserByID(ctx, uuid.New())
	assert.True(t, db.IsNotFound(err))
}

func TestInventoryFlow(t *testing.T) {
	client := testClient
	ctx := context.Background()
	user := newTestUser(t, client)
	now := time.Now().UTC()

	categories := repository.NewCategoryRepository(client)
	products := repository.NewProductRepository(client)
	sessions := repository.NewInventorySessionRepository(client)
	batches := repository.NewBatchRepository(client)
	todos := repository.NewSkuTodoRepository(client)

	category := model.Category{
		ID:        uuid.New(),
		UserID:    user.ID,
		Name:      "chilled",
		Rule:      model.CategoryRule{NeedBuffer: true},
		CreatedAt: now,
		UpdatedAt: now,
	}
	require.NoError(t, categories.CreateCategory(ctx, category))

	ids, err := products.EnsureProducts(ctx, repository.EnsureProductsParams{
		UserID: user.ID,
		Skus:   []string{"11187017", "11179798"},
		Now:    now,
	})
	require.NoError(t, err)
	require.Len(t, ids, 2)

	again, err := products.EnsureProducts(ctx, repository.EnsureProductsParams{
		UserID: user.ID,
		Skus:   []string{"11187017"},
		Now:    now,
	})
	require.NoError(t, err)
	assert.Equal(t, ids["11187017"], again["11187017"])

	require.NoError(t, products.UpdateProduct(ctx, repository.UpdateProductParams{
		UserID:        user.ID,
		Sku:           "11187017",
		RemovalBuffer: ptr.New(7),
		CategoryID:    &category.ID,
		UpdatedAt:     now,
	}))

	product, err := products.GetProductBySku(ctx, user.ID, "11187017")
	require.NoError(t, err)
	assert.Equal(t, 7, product.RemovalBuffer)
	assert.True(t, product.Rule.NeedBuffer)
	require.NotNil(t, product.CategoryName)
	assert.Equal(t, "chilled", *product.CategoryName)

	session := model.InventorySession{
		ID:         uuid.New(),
		UserID:     user.ID,
		SessionKey: "device-1:" + uuid.NewString(),
		ItemCount:  2,
		CreatedAt:  now,
	}
	require.NoError(t, sessions.CreateSession(ctx, session))
	assert.True(t, db.IsUniqueViolation(sessions.CreateSession(ctx, model.InventorySession{
		ID:         uuid.New(),
		UserID:     user.ID,
		SessionKey: session.SessionKey,
		CreatedAt:  now,
	})))

	expiry := time.Date(2026, time.September, 24, 0, 0, 0, 0, time.UTC)
	require.NoError(t, batches.CreateBatches(ctx, []model.Batch{
		{ID: uuid.New(), UserID: user.ID, ProductID: ids["11187017"], ExpiryDate: expiry, Quantity: 3, SessionID: &session.ID, CreatedAt: now},
		{ID: uuid.New(), UserID: user.ID, ProductID: ids["11179798"], ExpiryDate: expiry.AddDate(0, 1, 0), Quantity: 1, SessionID: &session.ID, CreatedAt: now},
	}))

	list, err := batches.ListBatches(ctx, repository.ListBatchesParams{UserID: user.ID, SessionID: &session.ID})
	require.NoError(t, err)
	require.Len(t, list, 2)

	bySku, err := batches.ListBatches(ctx, repository.ListBatchesParams{UserID: user.ID, Sku: ptr.New("11187017")})
	require.NoError(t, err)
	require.Len(t, bySku, 1)
	assert.True(t, bySku[0].ExpiryDate.Equal(expiry))
	assert.Equal(t, 7, bySku[0].RemovalBuffer)
	assert.True(t, bySku[0].Rule.NeedBuffer)

	require.NoError(t, batches.UpdateBatch(ctx, repository.UpdateBatchParams{
		UserID:   user.ID,
		ID:       bySku[0].ID,
		Quantity: ptr.New(0),
	}))
	updated, err := batches.GetBatch(ctx, user.ID, bySku[0].ID)
	require.NoError(t, err)
	assert.Equal(t, 0, updated.Quantity)

	todo := model.SkuTodo{ID: uuid.New(), UserID: user.ID, Sku: "11187017", IntervalDays: 7, CreatedAt: now}
	require.NoError(t, todos.CreateTodo(ctx, todo))

	counted := time.Date(2026, time.March, 10, 0, 0, 0, 0, time.UTC)
	n, err := todos.MarkTodosCountedBySku(ctx, repository.MarkTodosCountedParams{
		UserID:    user.ID,
		Skus:      []string{"11187017", "unknown"},
		CountedOn: counted,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	gotTodo, err := todos.GetTodo(ctx, user.ID, todo.ID)
	require.NoError(t, err)
	require.NotNil(t, gotTodo.LastCountedOn)
	assert.True(t, gotTodo.LastCountedOn.Equal(counted))

	require.NoError(t, categories.DeleteCategory(ctx, user.ID, category.ID))
	product, err = products.GetProductBySku(ctx, user.ID, "11187017")
	require.NoError(t, err)
	assert.Nil(t, product.CategoryID)

	require.NoError(t, products.DeleteProduct(ctx, user.ID, "11187017"))
	_, err = batches.GetBatch(ctx, user.ID, bySku[0].ID)
	assert.True(t, db.IsNotFound(err))
}

func TestOutboxMsgRepository(t *testing.T) {
	client := testClient
	repo := repository.NewOutboxMsgRepository(client)
	ctx := context.Background()

	key := uuid.NewString()
	require.NoError(t, repo.CreateOutboxMsg(ctx, repository.CreateOutboxMsgParams{
		Topic:        "inventory_batches.changed",
		Headers:      map[string]string{"X-Correlation-ID": "c1"},
		Payload:      []byte(`{"user_id":"` + key + `"}`),
		PartitionKey: &key,
	}))

	err := client.WithTx(ctx, func(tx db.DB) error {
		msgs, err := repo.WithDB(tx).ListUnprocessedOutboxMsgs(ctx, repository.ListUnprocessedOutboxMsgsParams{BatchSize: 1000})
		if err != nil {
			return err
		}

		items := make([]repository.BulkUpdateOutboxMsgsItem, 0, len(msgs))
		found := false
		for _, msg := range msgs {
			if msg.PartitionKey != nil && *msg.PartitionKey == key {
				found = true
				assert.Equal(t, "c1", msg.Headers["X-Correlation-ID"])
			}
			items = append(items, repository.BulkUpdateOutboxMsgsItem{ID: msg.ID})
		}
		assert.True(t, found)

		return repo.WithDB(tx).BulkUpdateOutboxMsgs(ctx, repository.BulkUpdateOutboxMsgsParams{Items: items})
	})
	require.NoError(t, err)

	var pending int
	require.NoError(t, client.QueryRow(ctx,
		`SELECT count(*) FROM outbox_messages WHERE partition_key = $1 AND processed_at IS NULL`, key,
	).Scan(&pending))
	assert.Zero(t, pending)
}
