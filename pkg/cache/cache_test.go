package cache

import (
	"context"
	"testing"
	"time"

	"moto-rental/internal/models"
	"moto-rental/internal/repository"
	"moto-rental/internal/repository/memstore"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
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

func TestRedisCache(t *testing.T) {
	client, mr := setupTestRedis(t)
	cache := NewRedisCache(client, "test:")
	ctx := context.Background()

	var out map[string]int
	found, err := cache.Get(ctx, "k", &out)
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, cache.Set(ctx, "k", map[string]int{"a": 1}, time.Minute))
	assert.True(t, mr.Exists("test:k"))

	found, err = cache.Get(ctx, "k", &out)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, map[string]int{"a": 1}, out)

	stats := cache.Stats()
	assert.Equal(t, int64(1), stats.TotalHits)
	assert.Equal(t, int64(1), stats.TotalMisses)
	assert.InDelta(t, 0.5, stats.HitRate, 0.0001)

	require.NoError(t, cache.Delete(ctx, "k"))
	assert.False(t, mr.Exists("test:k"))

	require.NoError(t, cache.Set(ctx, "short", 1, time.Second))
	mr.FastForward(2 * time.Second)
	found, err = cache.Get(ctx, "short", &out)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestRedisCacheCorruptEntry(t *testing.T) {
	client, mr := setupTestRedis(t)
	require.NoError(t, mr.Set("test:bad", "{not json"))

	var out map[string]int
	_, err := NewRedisCache(client, "test:").Get(context.Background(), "bad", &out)
	assert.Error(t, err)
}

// countingStore counts FindByID calls that reach the underlying store.
type countingStore struct {
	MotorcycleStore
	finds int
}

func (s *countingStore) FindByID(ctx context.Context, id string) (*models.Motorcycle, error) {
	s.finds++
	return s.MotorcycleStore.FindByID(ctx, id)
}

func newCachedStore(t *testing.T) (*CachedMotorcycles, *countingStore, *miniredis.Miniredis) {
	t.Helper()
	client, mr := setupTestRedis(t)
	inner := &countingStore{MotorcycleStore: memstore.New().Motorcycles}
	require.NoError(t, inner.Create(context.Background(), &models.Motorcycle{
		ID: "m1", Identifier: "MOTO001", Year: 2024, Model: "Honda CG 160", LicensePlate: "ABC1D23",
		CreatedAt: time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC),
	}))
	return NewCachedMotorcycles(inner, NewRedisCache(client, "test:"), time.Minute, zap.NewNop()), inner, mr
}

func TestCachedMotorcyclesReadThrough(t *testing.T) {
	store, inner, _ := newCachedStore(t)
	ctx := context.Background()

	first, err := store.FindByID(ctx, "m1")
	require.NoError(t, err)
	second, err := store.FindByID(ctx, "m1")
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, 1, inner.finds)
}

func TestCachedMotorcyclesInvalidatesOnChange(t *testing.T) {
	store, inner, _ := newCachedStore(t)
	ctx := context.Background()

	_, err := store.FindByID(ctx, "m1")
	require.NoError(t, err)

	require.NoError(t, store.UpdateLicensePlate(ctx, "m1", "NEW0A00", time.Now()))
	updated, err := store.FindByID(ctx, "m1")
	require.NoError(t, err)
	assert.Equal(t, "NEW0A00", updated.LicensePlate)
	assert.Equal(t, 2, inner.finds)

	require.NoError(t, store.Delete(ctx, "m1"))
	_, err = store.FindByID(ctx, "m1")
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestCachedMotorcyclesDoesNotCacheMisses(t *testing.T) {
	store, inner, _ := newCachedStore(t)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		_, err := store.FindByID(ctx, "missing")
		assert.ErrorIs(t, err, repository.ErrNotFound)
	}
	assert.Equal(t, 2, inner.finds)
}

func TestCachedMotorcyclesSurvivesRedisOutage(t *testing.T) {
	store, inner, mr := newCachedStore(t)
	mr.Close()

	motorcycle, err := store.FindByID(context.Background(), "m1")
	require.NoError(t, err)
	assert.Equal(t, "ABC1D23", motorcycle.LicensePlate)
	assert.Equal(t, 1, inner.finds)
}
