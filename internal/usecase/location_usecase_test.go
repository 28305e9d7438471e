package usecase_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/places-microservice/internal/domain"
	"github.com/places-microservice/internal/pkg/errors"
	"github.com/places-microservice/internal/pkg/geoindex"
	"github.com/places-microservice/internal/pkg/utils"
	"github.com/places-microservice/internal/usecase"
	"github.com/places-microservice/internal/usecase/dto"
)

const (
	testAccount = "acc-1"
	moscowLat   = 55.7558
	moscowLon   = 37.6173
)

type resolverMocks struct {
	locationRepo *MockLocationRepository
	featureRepo  *MockFeatureRepository
	overpassRepo *MockOverpassRepository
	cacheRepo    *MockCacheRepository
	index        *geoindex.Index
}

func newLocationUseCase(t *testing.T) (*usecase.LocationUseCase, *resolverMocks) {
	t.Helper()
	m := &resolverMocks{
		locationRepo: &MockLocationRepository{},
		featureRepo:  &MockFeatureRepository{},
		overpassRepo: &MockOverpassRepository{},
		cacheRepo:    &MockCacheRepository{},
		index:        geoindex.New(),
	}
	populate := usecase.NewPopulateUseCase(m.overpassRepo, m.featureRepo, m.cacheRepo, zap.NewNop())
	uc := usecase.NewLocationUseCase(m.locationRepo, populate, m.index, zap.NewNop(), 100, 2.0)
	return uc, m
}

func moscowLocation(id int64, box domain.BoundingBox) *domain.Location {
	return &domain.Location{
		ID:        id,
		AccountID: testAccount,
		Name:      "Центр",
		BBoxSouth: box.South,
		BBoxWest:  box.West,
		BBoxNorth: box.North,
		BBoxEast:  box.East,
		IsActive:  true,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
}

func TestLocationUseCase_Resolve(t *testing.T) {
	ctx := context.Background()
	req := dto.ResolveRequest{Lat: moscowLat, Lon: moscowLon, RadiusKm: 2.0}

	t.Run("cache hit from database", func(t *testing.T) {
		uc, m := newLocationUseCase(t)

		// Сохранённый bbox шире запрошенного
		wide := utils.CalculateBoundingBox(moscowLat, moscowLon, 3.0)
		existing := moscowLocation(7, wide)

		m.locationRepo.On("FindContaining", ctx, testAccount, mock.AnythingOfType("domain.BoundingBox")).
			Return(existing, nil)

		resp, err := uc.Resolve(ctx, testAccount, req)
		require.NoError(t, err)
		assert.True(t, resp.CacheHit)
		assert.Nil(t, resp.Populate)
		assert.Equal(t, int64(7), resp.Location.ID)

		// Промах не должен ничего создавать и ходить в Overpass
		m.locationRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
		m.overpassRepo.AssertNotCalled(t, "Fetch", mock.Anything, mock.Anything, mock.Anything)

		// Хит попадает в индекс, повторный резолв идёт быстрым путём
		m.locationRepo.On("GetByID", ctx, int64(7)).Return(existing, nil)
		resp2, err := uc.Resolve(ctx, testAccount, req)
		require.NoError(t, err)
		assert.True(t, resp2.CacheHit)
		m.locationRepo.AssertNumberOfCalls(t, "FindContaining", 1)
	})

	t.Run("cache miss creates and populates", func(t *testing.T) {
		uc, m := newLocationUseCase(t)

		box := utils.CalculateBoundingBox(moscowLat, moscowLon, 2.0)
		created := moscowLocation(10, box)

		lat, lon := 55.75, 37.61
		elements := []domain.OSMElement{
			{ID: 101, Type: domain.OSMNode, Lat: &lat, Lon: &lon, Tags: map[string]string{"amenity": "cafe", "name": "Кофейня"}},
			{ID: 102, Type: domain.OSMNode, Lat: &lat, Lon: &lon, Tags: map[string]string{"amenity": "bench"}},
			// Без геометрии: конвертация пропустит
			{ID: 103, Type: domain.OSMWay, Tags: map[string]string{"highway": "footway"}},
		}

		m.locationRepo.On("FindContaining", ctx, testAccount, box).Return(nil, nil)
		m.locationRepo.On("CountByAccount", ctx, testAccount).Return(3, nil)
		m.locationRepo.On("Create", ctx, testAccount, mock.AnythingOfType("string"), box).Return(created, nil)
		m.overpassRepo.On("Fetch", ctx, box, "").Return(elements, nil)
		m.featureRepo.On("SaveBatch", ctx, int64(10), mock.MatchedBy(func(drafts []domain.FeatureDraft) bool {
			return len(drafts) == 2 && drafts[0].OSMID == 101 && drafts[1].OSMID == 102
		})).Return(2, nil)
		m.cacheRepo.On("InvalidateLocation", ctx, int64(10)).Return(nil)

		resp, err := uc.Resolve(ctx, testAccount, req)
		require.NoError(t, err)
		assert.False(t, resp.CacheHit)
		require.NotNil(t, resp.Populate)
		assert.Equal(t, 3, resp.Populate.Fetched)
		assert.Equal(t, 2, resp.Populate.Converted)
		assert.Equal(t, 1, resp.Populate.Skipped)
		assert.Equal(t, 2, resp.Populate.Linked)

		// Новая локация попала в индекс
		_, found := m.index.FindContaining(testAccount, box)
		assert.True(t, found)
	})

	t.Run("default name when not provided", func(t *testing.T) {
		uc, m := newLocationUseCase(t)

		box := utils.CalculateBoundingBox(moscowLat, moscowLon, 2.0)
		created := moscowLocation(11, box)

		m.locationRepo.On("FindContaining", ctx, testAccount, box).Return(nil, nil)
		m.locationRepo.On("CountByAccount", ctx, testAccount).Return(0, nil)
		m.locationRepo.On("Create", ctx, testAccount, "Area 55.7558, 37.6173", box).Return(created, nil)
		m.overpassRepo.On("Fetch", ctx, box, "").Return([]domain.OSMElement{}, nil)
		m.featureRepo.On("SaveBatch", ctx, int64(11), mock.Anything).Return(0, nil)
		m.cacheRepo.On("InvalidateLocation", ctx, int64(11)).Return(nil)

		_, err := uc.Resolve(ctx, testAccount, req)
		require.NoError(t, err)
		m.locationRepo.AssertExpectations(t)
	})

	t.Run("upstream failure deactivates fresh location", func(t *testing.T) {
		uc, m := newLocationUseCase(t)

		box := utils.CalculateBoundingBox(moscowLat, moscowLon, 2.0)
		created := moscowLocation(12, box)

		m.locationRepo.On("FindContaining", ctx, testAccount, box).Return(nil, nil)
		m.locationRepo.On("CountByAccount", ctx, testAccount).Return(0, nil)
		m.locationRepo.On("Create", ctx, testAccount, mock.AnythingOfType("string"), box).Return(created, nil)
		m.overpassRepo.On("Fetch", ctx, box, "").Return(nil, errors.ErrUpstreamUnavailable)
		m.locationRepo.On("Deactivate", ctx, int64(12)).Return(nil)

		_, err := uc.Resolve(ctx, testAccount, req)
		require.Error(t, err)

		appErr, ok := err.(*errors.AppError)
		require.True(t, ok)
		assert.Equal(t, errors.ErrUpstreamUnavailable.Code, appErr.Code)

		// Пустая локация не должна остаться активной
		m.locationRepo.AssertCalled(t, "Deactivate", ctx, int64(12))
		m.featureRepo.AssertNotCalled(t, "SaveBatch", mock.Anything, mock.Anything, mock.Anything)

		_, found := m.index.FindContaining(testAccount, box)
		assert.False(t, found)
	})

	t.Run("location limit reached", func(t *testing.T) {
		uc, m := newLocationUseCase(t)

		m.locationRepo.On("FindContaining", ctx, testAccount, mock.Anything).Return(nil, nil)
		m.locationRepo.On("CountByAccount", ctx, testAccount).Return(100, nil)

		_, err := uc.Resolve(ctx, testAccount, req)
		require.Error(t, err)

		appErr, ok := err.(*errors.AppError)
		require.True(t, ok)
		assert.Equal(t, errors.ErrMaxLocationsReached.Code, appErr.Code)
		m.locationRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("invalid coordinates", func(t *testing.T) {
		uc, _ := newLocationUseCase(t)

		_, err := uc.Resolve(ctx, testAccount, dto.ResolveRequest{Lat: 91, Lon: 37.6, RadiusKm: 2})
		assert.ErrorIs(t, err, errors.ErrInvalidCoordinates)
	})

	t.Run("invalid radius", func(t *testing.T) {
		uc, _ := newLocationUseCase(t)

		_, err := uc.Resolve(ctx, testAccount, dto.ResolveRequest{Lat: moscowLat, Lon: moscowLon, RadiusKm: 500})
		assert.ErrorIs(t, err, errors.ErrInvalidRadius)
	})

	t.Run("zero radius falls back to default", func(t *testing.T) {
		uc, m := newLocationUseCase(t)

		// Дефолтный радиус 2 км задан в конструкторе
		box := utils.CalculateBoundingBox(moscowLat, moscowLon, 2.0)
		existing := moscowLocation(20, box)

		m.locationRepo.On("FindContaining", ctx, testAccount, box).Return(existing, nil)

		resp, err := uc.Resolve(ctx, testAccount, dto.ResolveRequest{Lat: moscowLat, Lon: moscowLon})
		require.NoError(t, err)
		assert.True(t, resp.CacheHit)
	})

	t.Run("stale index entry falls through to database", func(t *testing.T) {
		uc, m := newLocationUseCase(t)

		box := utils.CalculateBoundingBox(moscowLat, moscowLon, 2.0)
		stale := moscowLocation(30, utils.CalculateBoundingBox(moscowLat, moscowLon, 3.0))
		stale.IsActive = false

		require.NoError(t, m.index.Add(geoindex.Entry{LocationID: 30, AccountID: testAccount, Box: stale.BBox()}))

		m.locationRepo.On("GetByID", ctx, int64(30)).Return(stale, nil)
		m.locationRepo.On("FindContaining", ctx, testAccount, box).Return(nil, nil)
		m.locationRepo.On("CountByAccount", ctx, testAccount).Return(100, nil)

		_, err := uc.Resolve(ctx, testAccount, req)
		require.Error(t, err)

		// Устаревшая запись удалена из индекса
		_, found := m.index.FindContaining(testAccount, box)
		assert.False(t, found)
	})
}

func TestLocationUseCase_GetLocation(t *testing.T) {
	ctx := context.Background()
	box := utils.CalculateBoundingBox(moscowLat, moscowLon, 2.0)

	t.Run("success", func(t *testing.T) {
		uc, m := newLocationUseCase(t)
		loc := moscowLocation(1, box)
		m.locationRepo.On("GetByID", ctx, int64(1)).Return(loc, nil)

		got, err := uc.GetLocation(ctx, testAccount, 1)
		require.NoError(t, err)
		assert.Equal(t, loc, got)
	})

	t.Run("access denied for other account", func(t *testing.T) {
		uc, m := newLocationUseCase(t)
		loc := moscowLocation(1, box)
		m.locationRepo.On("GetByID", ctx, int64(1)).Return(loc, nil)

		_, err := uc.GetLocation(ctx, "acc-2", 1)
		assert.ErrorIs(t, err, errors.ErrAccessDenied)
	})

	t.Run("inactive location is not found", func(t *testing.T) {
		uc, m := newLocationUseCase(t)
		loc := moscowLocation(1, box)
		loc.IsActive = false
		m.locationRepo.On("GetByID", ctx, int64(1)).Return(loc, nil)

		_, err := uc.GetLocation(ctx, testAccount, 1)
		assert.ErrorIs(t, err, errors.ErrLocationNotFound)
	})
}

func TestLocationUseCase_UpdateLocation(t *testing.T) {
	ctx := context.Background()
	box := utils.CalculateBoundingBox(moscowLat, moscowLon, 2.0)

	t.Run("rename", func(t *testing.T) {
		uc, m := newLocationUseCase(t)
		loc := moscowLocation(1, box)
		newName := "Вечерняя прогулка"
		renamed := *loc
		renamed.Name = newName

		m.locationRepo.On("GetByID", ctx, int64(1)).Return(loc, nil)
		m.locationRepo.On("Update", ctx, int64(1), &newName, (*string)(nil)).Return(&renamed, nil)

		got, err := uc.UpdateLocation(ctx, testAccount, 1, dto.UpdateLocationRequest{Name: &newName})
		require.NoError(t, err)
		assert.Equal(t, newName, got.Name)
	})

	t.Run("ownership checked before update", func(t *testing.T) {
		uc, m := newLocationUseCase(t)
		loc := moscowLocation(1, box)
		m.locationRepo.On("GetByID", ctx, int64(1)).Return(loc, nil)

		name := "x"
		_, err := uc.UpdateLocation(ctx, "acc-2", 1, dto.UpdateLocationRequest{Name: &name})
		assert.ErrorIs(t, err, errors.ErrAccessDenied)
		m.locationRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestLocationUseCase_DeactivateLocation(t *testing.T) {
	ctx := context.Background()
	box := utils.CalculateBoundingBox(moscowLat, moscowLon, 2.0)

	t.Run("removes from index", func(t *testing.T) {
		uc, m := newLocationUseCase(t)
		loc := moscowLocation(1, box)

		require.NoError(t, m.index.Add(geoindex.Entry{LocationID: 1, AccountID: testAccount, Box: box}))

		m.locationRepo.On("GetByID", ctx, int64(1)).Return(loc, nil)
		m.locationRepo.On("Deactivate", ctx, int64(1)).Return(nil)

		require.NoError(t, uc.DeactivateLocation(ctx, testAccount, 1))

		_, found := m.index.FindContaining(testAccount, box)
		assert.False(t, found)
	})

	t.Run("repeat deactivation is no-op", func(t *testing.T) {
		uc, m := newLocationUseCase(t)
		loc := moscowLocation(1, box)
		loc.IsActive = false

		m.locationRepo.On("GetByID", ctx, int64(1)).Return(loc, nil)
		m.locationRepo.On("Deactivate", ctx, int64(1)).Return(nil)

		assert.NoError(t, uc.DeactivateLocation(ctx, testAccount, 1))
	})

	t.Run("other account denied", func(t *testing.T) {
		uc, m := newLocationUseCase(t)
		loc := moscowLocation(1, box)
		m.locationRepo.On("GetByID", ctx, int64(1)).Return(loc, nil)

		err := uc.DeactivateLocation(ctx, "acc-2", 1)
		assert.ErrorIs(t, err, errors.ErrAccessDenied)
		m.locationRepo.AssertNotCalled(t, "Deactivate", mock.Anything, mock.Anything)
	})
}

func TestLocationUseCase_ListLocations(t *testing.T) {
	ctx := context.Background()
	uc, m := newLocationUseCase(t)

	box := utils.CalculateBoundingBox(moscowLat, moscowLon, 2.0)
	locations := []*domain.Location{moscowLocation(1, box), moscowLocation(2, box)}
	m.locationRepo.On("GetActiveByAccount", ctx, testAccount).Return(locations, nil)

	resp, err := uc.ListLocations(ctx, testAccount)
	require.NoError(t, err)
	assert.Equal(t, 2, resp.Total)
	assert.Len(t, resp.Locations, 2)
}
