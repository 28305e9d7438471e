package usecase

import (
	"context"
	"encoding/json"
	"time"

	"go.uber.org/zap"

	"github.com/places-microservice/internal/domain/repository"
	"github.com/places-microservice/internal/pkg/errors"
	"github.com/places-microservice/internal/usecase/dto"
)

const (
	defaultFeaturesLimit = 50
	maxFeaturesLimit     = 500
)

// FeatureUseCase - постраничное чтение объектов локации с кешем в Redis
type FeatureUseCase struct {
	locationRepo repository.LocationRepository
	featureRepo  repository.FeatureRepository
	cacheRepo    repository.CacheRepository
	logger       *zap.Logger
	cacheTTL     time.Duration
}

// NewFeatureUseCase - создание нового FeatureUseCase
func NewFeatureUseCase(
	locationRepo repository.LocationRepository,
	featureRepo repository.FeatureRepository,
	cacheRepo repository.CacheRepository,
	logger *zap.Logger,
	cacheTTL time.Duration,
) *FeatureUseCase {
	return &FeatureUseCase{
		locationRepo: locationRepo,
		featureRepo:  featureRepo,
		cacheRepo:    cacheRepo,
		logger:       logger,
		cacheTTL:     cacheTTL,
	}
}

// ListFeatures возвращает страницу объектов локации в стабильном порядке.
// Страницы кешируются, ключ включает limit и offset
func (uc *FeatureUseCase) ListFeatures(ctx context.Context, accountID string, locationID int64, req dto.ListFeaturesRequest) (*dto.FeaturesResponse, error) {
	if req.Limit == 0 {
		req.Limit = defaultFeaturesLimit
	}
	if req.Limit < 1 || req.Limit > maxFeaturesLimit || req.Offset < 0 {
		return nil, errors.ErrInvalidRequest
	}

	loc, err := uc.locationRepo.GetByID(ctx, locationID)
	if err != nil {
		return nil, err
	}
	if loc.AccountID != accountID {
		return nil, errors.ErrAccessDenied
	}
	if !loc.IsActive {
		return nil, errors.ErrLocationNotFound
	}

	// Кеш: ошибки кеша не фейлят чтение, идём в БД
	cached, err := uc.cacheRepo.GetFeaturePage(ctx, locationID, req.Limit, req.Offset)
	if err == nil && cached != nil {
		var resp dto.FeaturesResponse
		if err := json.Unmarshal(cached, &resp); err == nil {
			return &resp, nil
		}
		uc.logger.Warn("Failed to unmarshal cached feature page",
			zap.Int64("location_id", locationID))
	}

	features, total, err := uc.featureRepo.ListByLocation(ctx, locationID, req.Limit, req.Offset)
	if err != nil {
		return nil, err
	}

	resp := &dto.FeaturesResponse{
		Features: features,
		Total:    total,
		Limit:    req.Limit,
		Offset:   req.Offset,
	}

	if data, err := json.Marshal(resp); err == nil {
		if err := uc.cacheRepo.SetFeaturePage(ctx, locationID, req.Limit, req.Offset, data, uc.cacheTTL); err != nil {
			uc.logger.Warn("Failed to cache feature page",
				zap.Int64("location_id", locationID),
				zap.Error(err))
		}
	}

	return resp, nil
}
