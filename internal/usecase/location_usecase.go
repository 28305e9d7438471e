package usecase

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/places-microservice/internal/domain"
	"github.com/places-microservice/internal/domain/repository"
	"github.com/places-microservice/internal/pkg/errors"
	"github.com/places-microservice/internal/pkg/geoindex"
	"github.com/places-microservice/internal/pkg/utils"
	"github.com/places-microservice/internal/usecase/dto"
)

// LocationUseCase - резолв точки в локацию и управление локациями аккаунта
type LocationUseCase struct {
	locationRepo repository.LocationRepository
	populate     *PopulateUseCase
	index        *geoindex.Index
	logger       *zap.Logger

	maxLocations    int
	defaultRadiusKm float64
}

// NewLocationUseCase - создание нового LocationUseCase
func NewLocationUseCase(
	locationRepo repository.LocationRepository,
	populate *PopulateUseCase,
	index *geoindex.Index,
	logger *zap.Logger,
	maxLocations int,
	defaultRadiusKm float64,
) *LocationUseCase {
	return &LocationUseCase{
		locationRepo:    locationRepo,
		populate:        populate,
		index:           index,
		logger:          logger,
		maxLocations:    maxLocations,
		defaultRadiusKm: defaultRadiusKm,
	}
}

// Resolve превращает точку с радиусом в локацию. Сначала проверяется
// кеш-хит: существующая активная локация аккаунта, полностью покрывающая
// запрошенный bbox. При промахе создаётся новая локация и синхронно
// наполняется объектами из Overpass
func (uc *LocationUseCase) Resolve(ctx context.Context, accountID string, req dto.ResolveRequest) (*dto.ResolveResponse, error) {
	if !utils.ValidateCoordinates(req.Lat, req.Lon) {
		return nil, errors.ErrInvalidCoordinates
	}

	radius := req.RadiusKm
	if radius == 0 {
		radius = uc.defaultRadiusKm
	}
	if !utils.ValidateRadius(radius) {
		return nil, errors.ErrInvalidRadius
	}

	box := utils.CalculateBoundingBox(req.Lat, req.Lon, radius)

	// Быстрый путь: in-process индекс. Попадание перепроверяется по БД,
	// индекс не авторитетен
	if id, ok := uc.index.FindContaining(accountID, box); ok {
		loc, err := uc.locationRepo.GetByID(ctx, id)
		if err == nil && loc.IsActive && loc.AccountID == accountID && loc.BBox().Contains(box) {
			uc.logger.Debug("Resolve cache hit (index)",
				zap.String("account_id", accountID),
				zap.Int64("location_id", loc.ID))
			return &dto.ResolveResponse{Location: loc, CacheHit: true}, nil
		}
		// Индекс устарел, убираем запись
		uc.index.Remove(id)
	}

	existing, err := uc.locationRepo.FindContaining(ctx, accountID, box)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		uc.indexLocation(existing)
		uc.logger.Debug("Resolve cache hit (db)",
			zap.String("account_id", accountID),
			zap.Int64("location_id", existing.ID))
		return &dto.ResolveResponse{Location: existing, CacheHit: true}, nil
	}

	count, err := uc.locationRepo.CountByAccount(ctx, accountID)
	if err != nil {
		return nil, err
	}
	if count >= uc.maxLocations {
		return nil, errors.ErrMaxLocationsReached.WithDetails(map[string]interface{}{
			"limit": uc.maxLocations,
		})
	}

	name := req.Name
	if name == "" {
		name = fmt.Sprintf("Area %.4f, %.4f", req.Lat, req.Lon)
	}

	created, err := uc.locationRepo.Create(ctx, accountID, name, box)
	if err != nil {
		return nil, err
	}

	stats, err := uc.populate.Populate(ctx, created, req.QueryType)
	if err != nil {
		// Пустая локация не должна остаться в кеше: следующий резолв
		// той же точки снова пойдёт в Overpass
		if dErr := uc.locationRepo.Deactivate(ctx, created.ID); dErr != nil {
			uc.logger.Error("Failed to deactivate location after populate failure",
				zap.Int64("location_id", created.ID),
				zap.Error(dErr))
		}
		return nil, err
	}

	uc.indexLocation(created)

	uc.logger.Info("Location resolved",
		zap.String("account_id", accountID),
		zap.Int64("location_id", created.ID),
		zap.Float64("radius_km", radius),
		zap.Int("linked", stats.Linked))

	return &dto.ResolveResponse{
		Location: created,
		CacheHit: false,
		Populate: stats,
	}, nil
}

// ListLocations возвращает все активные локации аккаунта
func (uc *LocationUseCase) ListLocations(ctx context.Context, accountID string) (*dto.LocationsResponse, error) {
	locations, err := uc.locationRepo.GetActiveByAccount(ctx, accountID)
	if err != nil {
		return nil, err
	}

	return &dto.LocationsResponse{
		Locations: locations,
		Total:     len(locations),
	}, nil
}

// GetLocation возвращает локацию с проверкой принадлежности аккаунту
func (uc *LocationUseCase) GetLocation(ctx context.Context, accountID string, id int64) (*domain.Location, error) {
	loc, err := uc.locationRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if loc.AccountID != accountID {
		return nil, errors.ErrAccessDenied
	}
	if !loc.IsActive {
		return nil, errors.ErrLocationNotFound
	}
	return loc, nil
}

// UpdateLocation меняет имя и описание локации. Bbox и связи с объектами
// не меняются
func (uc *LocationUseCase) UpdateLocation(ctx context.Context, accountID string, id int64, req dto.UpdateLocationRequest) (*domain.Location, error) {
	if _, err := uc.GetLocation(ctx, accountID, id); err != nil {
		return nil, err
	}

	updated, err := uc.locationRepo.Update(ctx, id, req.Name, req.Description)
	if err != nil {
		return nil, err
	}

	uc.logger.Info("Location updated",
		zap.String("account_id", accountID),
		zap.Int64("location_id", id))

	return updated, nil
}

// DeactivateLocation выполняет soft delete. Объекты остаются в хранилище:
// они могут принадлежать другим локациям
func (uc *LocationUseCase) DeactivateLocation(ctx context.Context, accountID string, id int64) error {
	loc, err := uc.locationRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if loc.AccountID != accountID {
		return errors.ErrAccessDenied
	}

	if err := uc.locationRepo.Deactivate(ctx, id); err != nil {
		return err
	}

	uc.index.Remove(id)

	uc.logger.Info("Location deactivated",
		zap.String("account_id", accountID),
		zap.Int64("location_id", id))

	return nil
}

func (uc *LocationUseCase) indexLocation(loc *domain.Location) {
	err := uc.index.Add(geoindex.Entry{
		LocationID: loc.ID,
		AccountID:  loc.AccountID,
		Box:        loc.BBox(),
	})
	if err != nil {
		uc.logger.Warn("Failed to index location",
			zap.Int64("location_id", loc.ID),
			zap.Error(err))
	}
}
