//go:build integration

package cache_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcredis "github.com/testcontainers/testcontainers-go/modules/redis"

	"github.com/tuanvumaihuynh/shelflife/internal/config"
	"github.com/tuanvumaihuynh/shelflife/internal/storage/cache"
)

func TestRedisCache(t *testing.T) {
	ctx := context.Background()

	ctr, err := tcredis.Run(ctx, "redis:7-alpine")
	testcontainers.CleanupContainer(t, ctr)
	require.NoError(t, err)

	url, err := ctr.ConnectionString(ctx)
	require.NoError(t, err)

	rdb, err := cache.NewRedisClient(ctx, config.Redis{URL: url})
	require.NoError(t, err)
	t.Cleanup(func() { _ = rdb.Close() })

	c := cache.NewRedisCache(rdb)

	healthy, err := c.IsHealthy(ctx)
	require.NoError(t, err)
	assert.True(t, healthy)

	_, err = c.Get(ctx, "shelflife:missing")
	assert.ErrorIs(t, err, cache.ErrMiss)

	require.NoError(t, c.Set(ctx, "shelflife:k", []byte(`{"total":3}`), time.Minute))

	got, err := c.Get(ctx, "shelflife:k")
	require.NoError(t, err)
	assert.JSONEq(t, `{"total":3}`, string(got))

	require.NoError(t, c.Delete(ctx, "shelflife:k"))
	_, err = c.Get(ctx, "shelflife:k")
	assert.ErrorIs(t, err, cache.ErrMiss)

	require.NoError(t, c.Delete(ctx))
}
