package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/places-microservice/internal/domain/repository"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

type cacheRepository struct {
	client *redis.Client
	logger *zap.Logger
}

func NewCacheRepository(redis *Redis) repository.CacheRepository {
	return &cacheRepository{
		client: redis.Client(),
		logger: redis.logger,
	}
}

func (r *cacheRepository) Get(ctx context.Context, key string) ([]byte, error) {
	val, err := r.client.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return nil, nil // Cache miss
	}
	if err != nil {
		r.logger.Error("Failed to get from cache", zap.String("key", key), zap.Error(err))
		return nil, fmt.Errorf("cache get error: %w", err)
	}

	r.logger.Debug("Cache hit", zap.String("key", key))
	return val, nil
}

func (r *cacheRepository) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	err := r.client.Set(ctx, key, value, ttl).Err()
	if err != nil {
		r.logger.Error("Failed to set cache", zap.String("key", key), zap.Error(err))
		return fmt.Errorf("cache set error: %w", err)
	}

	r.logger.Debug("Cache set", zap.String("key", key), zap.Duration("ttl", ttl))
	return nil
}

func (r *cacheRepository) Delete(ctx context.Context, key string) error {
	err := r.client.Del(ctx, key).Err()
	if err != nil {
		r.logger.Error("Failed to delete from cache", zap.String("key", key), zap.Error(err))
		return fmt.Errorf("cache delete error: %w", err)
	}

	r.logger.Debug("Cache deleted", zap.String("key", key))
	return nil
}

func featurePageKey(locationID int64, limit, offset int) string {
	return fmt.Sprintf("features:%d:%d:%d", locationID, limit, offset)
}

// GetFeaturePage получает закешированную страницу объектов локации
func (r *cacheRepository) GetFeaturePage(ctx context.Context, locationID int64, limit, offset int) ([]byte, error) {
	return r.Get(ctx, featurePageKey(locationID, limit, offset))
}

// SetFeaturePage сохраняет страницу объектов локации
func (r *cacheRepository) SetFeaturePage(ctx context.Context, locationID int64, limit, offset int, data []byte, ttl time.Duration) error {
	return r.Set(ctx, featurePageKey(locationID, limit, offset), data, ttl)
}

// InvalidateLocation сбрасывает все закешированные страницы локации.
// Вызывается после populate, чтобы читатели не видели устаревшие списки
func (r *cacheRepository) InvalidateLocation(ctx context.Context, locationID int64) error {
	pattern := fmt.Sprintf("features:%d:*", locationID)

	iter := r.client.Scan(ctx, 0, pattern, 100).Iterator()
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		r.logger.Error("Failed to scan cache keys",
			zap.Int64("location_id", locationID),
			zap.Error(err))
		return fmt.Errorf("cache scan error: %w", err)
	}

	if len(keys) == 0 {
		return nil
	}

	if err := r.client.Del(ctx, keys...).Err(); err != nil {
		r.logger.Error("Failed to invalidate location cache",
			zap.Int64("location_id", locationID),
			zap.Error(err))
		return fmt.Errorf("cache delete error: %w", err)
	}

	r.logger.Debug("Location cache invalidated",
		zap.Int64("location_id", locationID),
		zap.Int("keys", len(keys)))
	return nil
}
