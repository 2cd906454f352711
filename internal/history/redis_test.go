package history_test

import (
	"context"
	"os"
	"testing"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/donaldgifford/shopify-price-alerts/internal/history"
)

func getRedisClient(t *testing.T) *redis.Client {
	t.Helper()

	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		addr = "localhost:6379"
	}

	client := redis.NewClient(&redis.Options{Addr: addr})
	if err := client.Ping(context.Background()).Err(); err != nil {
		t.Skipf("Redis not available: %v", err)
	}
	t.Cleanup(func() { _ = client.Close() })
	return client
}

func TestRedisStore_SaveThenLoad(t *testing.T) {
	client := getRedisClient(t)
	ctx := context.Background()

	key := "price_history_test:" + uuid.NewString()
	t.Cleanup(func() { client.Del(ctx, key) })

	s := history.NewRedisStore(client, key)

	empty, err := s.Load(ctx)
	require.NoError(t, err)
	assert.Empty(t, empty)

	want := history.Record{
		"123": decimal.NewFromInt(100),
		"456": decimal.RequireFromString("19.99"),
	}
	require.NoError(t, s.Save(ctx, want))

	got, err := s.Load(ctx)
	require.NoError(t, err)
	assertRecordEqual(t, want, got)

	want["123"] = decimal.NewFromInt(75)
	require.NoError(t, s.Save(ctx, want))

	got, err = s.Load(ctx)
	require.NoError(t, err)
	assertRecordEqual(t, want, got)

	require.NoError(t, s.Ping(ctx))
}

func TestRedisStore_LoadRejectsGarbage(t *testing.T) {
	client := getRedisClient(t)
	ctx := context.Background()

	key := "price_history_test:" + uuid.NewString()
	t.Cleanup(func() { client.Del(ctx, key) })
	require.NoError(t, client.HSet(ctx, key, "123", "not-a-price").Err())

	_, err := history.NewRedisStore(client, key).Load(ctx)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parsing price for product 123")
}

func TestRedisStore_LoadConnectionError(t *testing.T) {
	t.Parallel()

	client := redis.NewClient(&redis.Options{Addr: "127.0.0.1:1", MaxRetries: -1})
	defer client.Close()

	_, err := history.NewRedisStore(client, "").Load(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "reading price history hash")
}
