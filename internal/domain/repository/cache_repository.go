package repository

import (
	"context"
	"time"
)

// CacheRepository определяет методы для работы с кешем
type CacheRepository interface {
	// Get получает значение из кеша по ключу
	Get(ctx context.Context, key string) ([]byte, error)

	// Set сохраняет значение в кеше с TTL
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// Delete удаляет значение из кеша
	Delete(ctx context.Context, key string) error

	// GetFeaturePage получает закешированную страницу объектов локации
	GetFeaturePage(ctx context.Context, locationID int64, limit, offset int) ([]byte, error)

	// SetFeaturePage сохраняет страницу объектов локации
	SetFeaturePage(ctx context.Context, locationID int64, limit, offset int, data []byte, ttl time.Duration) error

	// InvalidateLocation сбрасывает все страницы локации (после populate)
	InvalidateLocation(ctx context.Context, locationID int64) error
}
