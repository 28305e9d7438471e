package repository

import (
	"context"

	"github.com/places-microservice/internal/domain"
)

// FeatureRepository определяет методы для дедуплицированного хранилища объектов
type FeatureRepository interface {
	// GetOrCreate возвращает объект по (osm_id, osm_type), создавая его
	// при отсутствии. Существующая строка возвращается без изменений
	// (first-write-wins)
	GetOrCreate(ctx context.Context, draft domain.FeatureDraft) (*domain.Feature, error)

	// SaveBatch атомарно сохраняет пачку объектов и связывает их с
	// локацией. Связь пишется только после того, как объект получил ID.
	// Возвращает количество привязанных объектов
	SaveBatch(ctx context.Context, locationID int64, drafts []domain.FeatureDraft) (int, error)

	// ListByLocation возвращает страницу объектов локации, упорядоченную
	// по ID объекта, и общее количество связей
	ListByLocation(ctx context.Context, locationID int64, limit, offset int) ([]*domain.Feature, int, error)
}
