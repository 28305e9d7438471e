package repository

import (
	"context"

	"github.com/places-microservice/internal/domain"
)

// LocationRepository определяет методы для работы с локациями
type LocationRepository interface {
	// Create создаёт локацию; при гонке на уникальном bbox возвращает
	// уже существующую строку
	Create(ctx context.Context, accountID, name string, box domain.BoundingBox) (*domain.Location, error)

	// GetByID возвращает локацию по ID
	GetByID(ctx context.Context, id int64) (*domain.Location, error)

	// GetActiveByAccount возвращает все активные локации аккаунта
	GetActiveByAccount(ctx context.Context, accountID string) ([]*domain.Location, error)

	// FindContaining ищет активную локацию аккаунта, bbox которой
	// полностью содержит candidate (cache-hit тест)
	FindContaining(ctx context.Context, accountID string, candidate domain.BoundingBox) (*domain.Location, error)

	// CountByAccount считает локации аккаунта
	CountByAccount(ctx context.Context, accountID string) (int, error)

	// Update обновляет пользовательские поля локации
	Update(ctx context.Context, id int64, name, description *string) (*domain.Location, error)

	// Deactivate выполняет soft delete; повторный вызов - no-op
	Deactivate(ctx context.Context, id int64) error
}
