package usecase

import (
	"context"
	"encoding/json"
	"errors"

	"go.uber.org/zap"

	"github.com/places-microservice/internal/domain"
	"github.com/places-microservice/internal/domain/repository"
	"github.com/places-microservice/internal/pkg/wkt"
	"github.com/places-microservice/internal/usecase/dto"
)

// PopulateUseCase - наполнение локации объектами из Overpass.
// Запускается синхронно при создании локации, отдельного фонового
// воркера нет: промах кеша и так идёт в сеть
type PopulateUseCase struct {
	overpassRepo repository.OverpassRepository
	featureRepo  repository.FeatureRepository
	cacheRepo    repository.CacheRepository
	logger       *zap.Logger
}

// NewPopulateUseCase - создание нового PopulateUseCase
func NewPopulateUseCase(
	overpassRepo repository.OverpassRepository,
	featureRepo repository.FeatureRepository,
	cacheRepo repository.CacheRepository,
	logger *zap.Logger,
) *PopulateUseCase {
	return &PopulateUseCase{
		overpassRepo: overpassRepo,
		featureRepo:  featureRepo,
		cacheRepo:    cacheRepo,
		logger:       logger,
	}
}

// Populate запрашивает элементы для bbox локации, конвертирует их в WKT
// и атомарно привязывает к локации. Элемент без пригодной геометрии
// пропускается, а не валит весь fetch
func (uc *PopulateUseCase) Populate(ctx context.Context, location *domain.Location, queryType string) (*dto.PopulateStats, error) {
	elements, err := uc.overpassRepo.Fetch(ctx, location.BBox(), queryType)
	if err != nil {
		return nil, err
	}

	stats := &dto.PopulateStats{Fetched: len(elements)}

	drafts := make([]domain.FeatureDraft, 0, len(elements))
	for _, el := range elements {
		geom, err := wkt.Convert(el)
		if err != nil {
			stats.Skipped++
			var convErr *wkt.ConversionError
			if errors.As(err, &convErr) {
				uc.logger.Debug("Skipping element without usable geometry",
					zap.Int64("osm_id", convErr.OSMID),
					zap.String("osm_type", string(convErr.OSMType)),
					zap.String("tag", convErr.Tag),
					zap.String("reason", convErr.Reason))
			} else {
				uc.logger.Warn("Failed to convert element geometry",
					zap.Int64("osm_id", el.ID),
					zap.Error(err))
			}
			continue
		}

		raw, err := json.Marshal(el)
		if err != nil {
			stats.Skipped++
			uc.logger.Warn("Failed to marshal raw element", zap.Int64("osm_id", el.ID), zap.Error(err))
			continue
		}

		drafts = append(drafts, domain.FeatureDraft{
			OSMID:    el.ID,
			OSMType:  el.Type,
			Name:     el.DisplayName(),
			Tags:     el.Tags,
			Geometry: geom,
			Raw:      raw,
		})
	}
	stats.Converted = len(drafts)

	linked, err := uc.featureRepo.SaveBatch(ctx, location.ID, drafts)
	if err != nil {
		return nil, err
	}
	stats.Linked = linked

	// Сбрасываем страницы объектов, закешированные до наполнения
	if err := uc.cacheRepo.InvalidateLocation(ctx, location.ID); err != nil {
		uc.logger.Warn("Failed to invalidate feature cache",
			zap.Int64("location_id", location.ID),
			zap.Error(err))
	}

	uc.logger.Info("Location populated",
		zap.Int64("location_id", location.ID),
		zap.Int("fetched", stats.Fetched),
		zap.Int("converted", stats.Converted),
		zap.Int("skipped", stats.Skipped),
		zap.Int("linked", stats.Linked))

	return stats, nil
}
