package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"
	"github.com/places-microservice/internal/domain"
	"github.com/places-microservice/internal/domain/repository"
	apperrors "github.com/places-microservice/internal/pkg/errors"
	"go.uber.org/zap"
)

const locationColumns = `
	id, account_id, name, description, difficulty,
	bbox_south, bbox_west, bbox_north, bbox_east,
	is_active, created_at, updated_at
`

type locationRepository struct {
	db     *sqlx.DB
	logger *zap.Logger
}

func NewLocationRepository(db *DB) repository.LocationRepository {
	return &locationRepository{
		db:     db.DB,
		logger: db.logger,
	}
}

// Create вставляет локацию. Уникальный индекс (account_id, bbox) закрывает
// гонку двух параллельных промахов: проигравший insert читает строку победителя
func (r *locationRepository) Create(ctx context.Context, accountID, name string, box domain.BoundingBox) (*domain.Location, error) {
	query := `
		INSERT INTO locations (account_id, name, bbox_south, bbox_west, bbox_north, bbox_east)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (account_id, bbox_south, bbox_west, bbox_north, bbox_east) DO NOTHING
		RETURNING ` + locationColumns

	var loc domain.Location
	err := r.db.GetContext(ctx, &loc, query, accountID, name, box.South, box.West, box.North, box.East)
	if errors.Is(err, sql.ErrNoRows) {
		// Конфликт: строку уже создал параллельный запрос
		return r.getByUniqueKey(ctx, accountID, box)
	}
	if err != nil {
		r.logger.Error("Failed to create location",
			zap.String("account_id", accountID),
			zap.Error(err))
		return nil, apperrors.ErrDatabaseError
	}

	return &loc, nil
}

func (r *locationRepository) getByUniqueKey(ctx context.Context, accountID string, box domain.BoundingBox) (*domain.Location, error) {
	query := `
		SELECT ` + locationColumns + `
		FROM locations
		WHERE account_id = $1
		  AND bbox_south = $2 AND bbox_west = $3 AND bbox_north = $4 AND bbox_east = $5
	`

	var loc domain.Location
	err := r.db.GetContext(ctx, &loc, query, accountID, box.South, box.West, box.North, box.East)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.ErrLocationNotFound
	}
	if err != nil {
		r.logger.Error("Failed to re-read location after conflict",
			zap.String("account_id", accountID),
			zap.Error(err))
		return nil, apperrors.ErrDatabaseError
	}

	return &loc, nil
}

func (r *locationRepository) GetByID(ctx context.Context, id int64) (*domain.Location, error) {
	query := `
		SELECT ` + locationColumns + `
		FROM locations
		WHERE id = $1
	`

	var loc domain.Location
	err := r.db.GetContext(ctx, &loc, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.ErrLocationNotFound
	}
	if err != nil {
		r.logger.Error("Failed to get location by ID", zap.Int64("id", id), zap.Error(err))
		return nil, apperrors.ErrDatabaseError
	}

	return &loc, nil
}

func (r *locationRepository) GetActiveByAccount(ctx context.Context, accountID string) ([]*domain.Location, error) {
	query := `
		SELECT ` + locationColumns + `
		FROM locations
		WHERE account_id = $1 AND is_active
		ORDER BY created_at DESC, id DESC
	`

	var locations []*domain.Location
	if err := r.db.SelectContext(ctx, &locations, query, accountID); err != nil {
		r.logger.Error("Failed to list locations",
			zap.String("account_id", accountID),
			zap.Error(err))
		return nil, apperrors.ErrDatabaseError
	}

	return locations, nil
}

// FindContaining возвращает активную локацию аккаунта, полностью покрывающую
// candidate, или nil при промахе. При нескольких кандидатах берётся старейшая
func (r *locationRepository) FindContaining(ctx context.Context, accountID string, candidate domain.BoundingBox) (*domain.Location, error) {
	query := `
		SELECT ` + locationColumns + `
		FROM locations
		WHERE account_id = $1 AND is_active
		  AND bbox_south <= $2 AND bbox_west <= $3
		  AND bbox_north >= $4 AND bbox_east >= $5
		ORDER BY id ASC
		LIMIT 1
	`

	var loc domain.Location
	err := r.db.GetContext(ctx, &loc, query,
		accountID, candidate.South, candidate.West, candidate.North, candidate.East)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		r.logger.Error("Failed to find containing location",
			zap.String("account_id", accountID),
			zap.Error(err))
		return nil, apperrors.ErrDatabaseError
	}

	return &loc, nil
}

func (r *locationRepository) CountByAccount(ctx context.Context, accountID string) (int, error) {
	var count int
	err := r.db.GetContext(ctx, &count,
		`SELECT COUNT(*) FROM locations WHERE account_id = $1 AND is_active`, accountID)
	if err != nil {
		r.logger.Error("Failed to count locations",
			zap.String("account_id", accountID),
			zap.Error(err))
		return 0, apperrors.ErrDatabaseError
	}
	return count, nil
}

func (r *locationRepository) Update(ctx context.Context, id int64, name, description *string) (*domain.Location, error) {
	query := `
		UPDATE locations
		SET name        = COALESCE($2, name),
		    description = COALESCE($3, description),
		    updated_at  = now()
		WHERE id = $1
		RETURNING ` + locationColumns

	var loc domain.Location
	err := r.db.GetContext(ctx, &loc, query, id, name, description)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.ErrLocationNotFound
	}
	if err != nil {
		r.logger.Error("Failed to update location", zap.Int64("id", id), zap.Error(err))
		return nil, apperrors.ErrDatabaseError
	}

	return &loc, nil
}

// Deactivate выполняет soft delete. Повторная деактивация не ошибка
func (r *locationRepository) Deactivate(ctx context.Context, id int64) error {
	query := `
		UPDATE locations
		SET is_active  = false,
		    updated_at = CASE WHEN is_active THEN now() ELSE updated_at END
		WHERE id = $1
	`

	res, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		r.logger.Error("Failed to deactivate location", zap.Int64("id", id), zap.Error(err))
		return apperrors.ErrDatabaseError
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return apperrors.ErrDatabaseError
	}
	if affected == 0 {
		return apperrors.ErrLocationNotFound
	}

	return nil
}
