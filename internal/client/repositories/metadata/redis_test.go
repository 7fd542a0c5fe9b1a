package metadata

import (
	"context"
	"os"
	"testing"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Runs against a real server when MARKET_TEST_REDIS_ADDR is set.
func setupRedis(t *testing.T) *RedisRepository {
	t.Helper()
	addr := os.Getenv("MARKET_TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("MARKET_TEST_REDIS_ADDR not set")
	}
	rdb := redis.NewClient(&redis.Options{Addr: addr})
	t.Cleanup(func() { _ = rdb.Close() })
	require.NoError(t, rdb.Ping(context.Background()).Err())

	hash := "test:metadata:" + uuid.NewString()
	t.Cleanup(func() { _ = rdb.Del(context.Background(), hash).Err() })
	return NewRedisRepository(rdb, hash)
}

func TestRedis_RoundTrip(t *testing.T) {
	r := setupRedis(t)
	ctx := context.Background()

	v, err := r.Get(ctx, "token")
	require.NoError(t, err)
	assert.Nil(t, v)

	require.NoError(t, r.Set(ctx, "token", []byte("t1")))
	require.NoError(t, r.Set(ctx, "user", []byte(`{"_id":"u1"}`)))

	v, err = r.Get(ctx, "token")
	require.NoError(t, err)
	assert.Equal(t, []byte("t1"), v)

	require.NoError(t, r.Delete(ctx, "token"))
	v, err = r.Get(ctx, "token")
	require.NoError(t, err)
	assert.Nil(t, v)

	v, err = r.Get(ctx, "user")
	require.NoError(t, err)
	assert.Equal(t, []byte(`{"_id":"u1"}`), v)
}

func TestRedis_ConnectionErrorsAreWrapped(t *testing.T) {
	rdb := redis.NewClient(&redis.Options{Addr: "127.0.0.1:1", MaxRetries: -1})
	defer rdb.Close()
	r := NewRedisRepository(rdb, "h")
	ctx := context.Background()

	_, err := r.Get(ctx, "k")
	assert.ErrorContains(t, err, "failed to get metadata[k]")
	assert.ErrorContains(t, r.Set(ctx, "k", nil), "failed to set metadata[k]")
	assert.ErrorContains(t, r.Delete(ctx, "k"), "failed to delete metadata[k]")
}
