package cache

import (
	"context"
	"time"

	"moto-rental/internal/models"

	"go.uber.org/zap"
)

// MotorcycleStore is the subset of motorcycle persistence the cache wraps.
type MotorcycleStore interface {
	Create(ctx context.Context, motorcycle *models.Motorcycle) error
	FindByID(ctx context.Context, id string) (*models.Motorcycle, error)
	FindByLicensePlate(ctx context.Context, plate string) (*models.Motorcycle, error)
	FindAll(ctx context.Context, licensePlate string) ([]*models.Motorcycle, error)
	UpdateLicensePlate(ctx context.Context, id, plate string, updatedAt time.Time) error
	Delete(ctx context.Context, id string) error
}

// CachedMotorcycles serves FindByID from redis and drops the entry whenever
// the motorcycle changes. Cache failures fall back to the store.
type CachedMotorcycles struct {
	MotorcycleStore
	cache  *RedisCache
	ttl    time.Duration
	logger *zap.Logger
}

func NewCachedMotorcycles(store MotorcycleStore, cache *RedisCache, ttl time.Duration, logger *zap.Logger) *CachedMotorcycles {
	return &CachedMotorcycles{
		MotorcycleStore: store,
		cache:           cache,
		ttl:             ttl,
		logger:          logger.With(zap.String("component", "motorcycle_cache")),
	}
}

func motorcycleKey(id string) string {
	return "motorcycle:" + id
}

func (c *CachedMotorcycles) FindByID(ctx context.Context, id string) (*models.Motorcycle, error) {
	var cached models.Motorcycle
	found, err := c.cache.Get(ctx, motorcycleKey(id), &cached)
	if err != nil {
		c.logger.Warn("motorcycle cache read failed", zap.String("motorcycle_id", id), zap.Error(err))
	}
	if found {
		return &cached, nil
	}

	motorcycle, err := c.MotorcycleStore.FindByID(ctx, id)
	if err != nil || motorcycle == nil {
		return motorcycle, err
	}

	if err := c.cache.Set(ctx, motorcycleKey(id), motorcycle, c.ttl); err != nil {
		c.logger.Warn("motorcycle cache write failed", zap.String("motorcycle_id", id), zap.Error(err))
	}
	return motorcycle, nil
}

func (c *CachedMotorcycles) UpdateLicensePlate(ctx context.Context, id, plate string, updatedAt time.Time) error {
	if err := c.MotorcycleStore.UpdateLicensePlate(ctx, id, plate, updatedAt); err != nil {
		return err
	}
	c.invalidate(ctx, id)
	return nil
}

func (c *CachedMotorcycles) Delete(ctx context.Context, id string) error {
	if err := c.MotorcycleStore.Delete(ctx, id); err != nil {
		return err
	}
	c.invalidate(ctx, id)
	return nil
}

func (c *CachedMotorcycles) invalidate(ctx context.Context, id string) {
	if err := c.cache.Delete(ctx, motorcycleKey(id)); err != nil {
		c.logger.Warn("motorcycle cache invalidation failed", zap.String("motorcycle_id", id), zap.Error(err))
	}
}
