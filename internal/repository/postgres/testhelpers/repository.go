package testhelpers

import (
	"github.com/jmoiron/sqlx"
	"github.com/places-microservice/internal/domain/repository"
	"github.com/places-microservice/internal/repository/postgres"
	"go.uber.org/zap"
)

// NewDBForTest creates a postgres.DB with test database and logger
func NewDBForTest(db *sqlx.DB, logger *zap.Logger) *postgres.DB {
	return postgres.NewDBForTest(db, logger)
}

// NewLocationRepositoryForTest creates a location repository with test database and logger
func NewLocationRepositoryForTest(db *sqlx.DB, logger *zap.Logger) repository.LocationRepository {
	pgDB := NewDBForTest(db, logger)
	return postgres.NewLocationRepository(pgDB)
}

// NewFeatureRepositoryForTest creates a feature repository with test database and logger
func NewFeatureRepositoryForTest(db *sqlx.DB, logger *zap.Logger) repository.FeatureRepository {
	pgDB := NewDBForTest(db, logger)
	return postgres.NewFeatureRepository(pgDB)
}
