package usecase_test

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/places-microservice/internal/domain"
)

// MockLocationRepository is a mock of LocationRepository
type MockLocationRepository struct {
	mock.Mock
}

func (m *MockLocationRepository) Create(ctx context.Context, accountID, name string, box domain.BoundingBox) (*domain.Location, error) {
	args := m.Called(ctx, accountID, name, box)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Location), args.Error(1)
}

func (m *MockLocationRepository) GetByID(ctx context.Context, id int64) (*domain.Location, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Location), args.Error(1)
}

func (m *MockLocationRepository) GetActiveByAccount(ctx context.Context, accountID string) ([]*domain.Location, error) {
	args := m.Called(ctx, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Location), args.Error(1)
}

func (m *MockLocationRepository) FindContaining(ctx context.Context, accountID string, candidate domain.BoundingBox) (*domain.Location, error) {
	args := m.Called(ctx, accountID, candidate)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Location), args.Error(1)
}

func (m *MockLocationRepository) CountByAccount(ctx context.Context, accountID string) (int, error) {
	args := m.Called(ctx, accountID)
	return args.Int(0), args.Error(1)
}

func (m *MockLocationRepository) Update(ctx context.Context, id int64, name, description *string) (*domain.Location, error) {
	args := m.Called(ctx, id, name, description)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Location), args.Error(1)
}

func (m *MockLocationRepository) Deactivate(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockFeatureRepository is a mock of FeatureRepository
type MockFeatureRepository struct {
	mock.Mock
}

func (m *MockFeatureRepository) GetOrCreate(ctx context.Context, draft domain.FeatureDraft) (*domain.Feature, error) {
	args := m.Called(ctx, draft)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Feature), args.Error(1)
}

func (m *MockFeatureRepository) SaveBatch(ctx context.Context, locationID int64, drafts []domain.FeatureDraft) (int, error) {
	args := m.Called(ctx, locationID, drafts)
	return args.Int(0), args.Error(1)
}

func (m *MockFeatureRepository) ListByLocation(ctx context.Context, locationID int64, limit, offset int) ([]*domain.Feature, int, error) {
	args := m.Called(ctx, locationID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]*domain.Feature), args.Int(1), args.Error(2)
}

// MockOverpassRepository is a mock of OverpassRepository
type MockOverpassRepository struct {
	mock.Mock
}

func (m *MockOverpassRepository) Fetch(ctx context.Context, box domain.BoundingBox, queryType string) ([]domain.OSMElement, error) {
	args := m.Called(ctx, box, queryType)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.OSMElement), args.Error(1)
}

func (m *MockOverpassRepository) QueryTypes() []string {
	args := m.Called()
	return args.Get(0).([]string)
}

// MockCacheRepository is a mock of CacheRepository
type MockCacheRepository struct {
	mock.Mock
}

func (m *MockCacheRepository) Get(ctx context.Context, key string) ([]byte, error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

func (m *MockCacheRepository) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	args := m.Called(ctx, key, value, ttl)
	return args.Error(0)
}

func (m *MockCacheRepository) Delete(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

func (m *MockCacheRepository) GetFeaturePage(ctx context.Context, locationID int64, limit, offset int) ([]byte, error) {
	args := m.Called(ctx, locationID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

func (m *MockCacheRepository) SetFeaturePage(ctx context.Context, locationID int64, limit, offset int, data []byte, ttl time.Duration) error {
	args := m.Called(ctx, locationID, limit, offset, data, ttl)
	return args.Error(0)
}

func (m *MockCacheRepository) InvalidateLocation(ctx context.Context, locationID int64) error {
	args := m.Called(ctx, locationID)
	return args.Error(0)
}
