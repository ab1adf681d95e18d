package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestRedis(t *testing.T) (*redis.Client, *miniredis.Miniredis) {
	t.Helper()
	mr, err := miniredis.Run()
	require.NoError(t, err)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() {
		client.Close()
		mr.Close()
	})
	return client, mr
}

func TestDefaultPolicy(t *testing.T) {
	policy := DefaultPolicy(120, 10)

	assert.Equal(t, Limit{Requests: 10, Window: time.Minute}, policy.LimitFor("POST", "/api/v1/rentals"))
	assert.Equal(t, Limit{Requests: 10, Window: time.Minute}, policy.LimitFor("POST", "/api/v1/rentals/:id/return"))
	assert.Equal(t, Limit{Requests: 120, Window: time.Minute}, policy.LimitFor("GET", "/api/v1/rentals"))
	assert.Equal(t, Limit{Requests: 120, Window: time.Minute}, policy.LimitFor("POST", "/api/v1/rentals/:id/quote"))
}

func TestRedisLimiter(t *testing.T) {
	client, mr := setupTestRedis(t)
	limiter := NewRedisLimiter(client, "test:")
	limit := Limit{Requests: 3, Window: time.Minute}
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		res, err := limiter.Allow(ctx, "client-a", limit)
		require.NoError(t, err)
		assert.True(t, res.Allowed, "request %d", i+1)
		assert.Equal(t, 2-i, res.Remaining)
	}

	res, err := limiter.Allow(ctx, "client-a", limit)
	require.NoError(t, err)
	assert.False(t, res.Allowed)
	assert.Greater(t, res.RetryAfter, time.Duration(0))
	assert.LessOrEqual(t, res.RetryAfter, time.Minute)

	// Other clients have their own window.
	res, err = limiter.Allow(ctx, "client-b", limit)
	require.NoError(t, err)
	assert.True(t, res.Allowed)

	assert.True(t, mr.Exists("test:client-a"))
	mr.FastForward(time.Minute + time.Second)

	res, err = limiter.Allow(ctx, "client-a", limit)
	require.NoError(t, err)
	assert.True(t, res.Allowed)
}

func TestRedisLimiterUnavailable(t *testing.T) {
	client, mr := setupTestRedis(t)
	mr.Close()

	_, err := NewRedisLimiter(client, "test:").Allow(context.Background(), "k", Limit{Requests: 1, Window: time.Second})
	assert.Error(t, err)
}

func TestMemoryLimiter(t *testing.T) {
	limiter := NewMemoryLimiter()
	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	limiter.now = func() time.Time { return now }
	limit := Limit{Requests: 2, Window: time.Minute}
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		res, err := limiter.Allow(ctx, "k", limit)
		require.NoError(t, err)
		assert.True(t, res.Allowed)
	}

	now = now.Add(20 * time.Second)
	res, err := limiter.Allow(ctx, "k", limit)
	require.NoError(t, err)
	assert.False(t, res.Allowed)
	assert.Equal(t, 40*time.Second, res.RetryAfter)

	now = now.Add(40 * time.Second)
	res, err = limiter.Allow(ctx, "k", limit)
	require.NoError(t, err)
	assert.True(t, res.Allowed)
	assert.Equal(t, 1, res.Remaining)
}
