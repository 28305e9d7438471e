package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"

	"github.com/jmoiron/sqlx"
	"github.com/places-microservice/internal/domain"
	"github.com/places-microservice/internal/domain/repository"
	apperrors "github.com/places-microservice/internal/pkg/errors"
	"go.uber.org/zap"
)

type featureRepository struct {
	db     *sqlx.DB
	logger *zap.Logger
}

func NewFeatureRepository(db *DB) repository.FeatureRepository {
	return &featureRepository{
		db:     db.DB,
		logger: db.logger,
	}
}

// GetOrCreate дедуплицирует объект по (osm_id, osm_type). Конфликт означает,
// что объект уже создан этой или другой локацией: существующая строка
// возвращается как есть, новые теги и геометрия не перезаписываются
func (r *featureRepository) GetOrCreate(ctx context.Context, draft domain.FeatureDraft) (*domain.Feature, error) {
	feature, err := r.getOrCreateTx(ctx, r.db, draft)
	if err != nil {
		r.logger.Error("Failed to get or create feature",
			zap.Int64("osm_id", draft.OSMID),
			zap.String("osm_type", string(draft.OSMType)),
			zap.Error(err))
		return nil, apperrors.ErrDatabaseError
	}
	return feature, nil
}

// queryer покрывает *sqlx.DB и *sqlx.Tx
type queryer interface {
	QueryRowxContext(ctx context.Context, query string, args ...interface{}) *sqlx.Row
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
}

func (r *featureRepository) getOrCreateTx(ctx context.Context, q queryer, draft domain.FeatureDraft) (*domain.Feature, error) {
	tagsJSON, err := json.Marshal(draft.Tags)
	if err != nil {
		return nil, err
	}

	raw := draft.Raw
	if len(raw) == 0 {
		raw = json.RawMessage("null")
	}

	insert := `
		INSERT INTO features (osm_id, osm_type, name, tags, geometry, srid, raw)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (osm_id, osm_type) DO NOTHING
		RETURNING id, osm_id, osm_type, name, tags, geometry, srid, created_at
	`

	feature, err := scanFeature(q.QueryRowxContext(ctx, insert,
		draft.OSMID, string(draft.OSMType), draft.Name, tagsJSON,
		draft.Geometry.WKT, draft.Geometry.SRID, []byte(raw)))
	if err == nil {
		return feature, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}

	// Конфликт: объект уже существует, читаем его
	selectQuery := `
		SELECT id, osm_id, osm_type, name, tags, geometry, srid, created_at
		FROM features
		WHERE osm_id = $1 AND osm_type = $2
	`
	return scanFeature(q.QueryRowxContext(ctx, selectQuery, draft.OSMID, string(draft.OSMType)))
}

func scanFeature(row *sqlx.Row) (*domain.Feature, error) {
	var f domain.Feature
	var tagsJSON []byte
	err := row.Scan(&f.ID, &f.OSMID, &f.OSMType, &f.Name, &tagsJSON,
		&f.Geometry, &f.SRID, &f.CreatedAt)
	if err != nil {
		return nil, err
	}

	if len(tagsJSON) > 0 {
		tags := make(map[string]string)
		if err := json.Unmarshal(tagsJSON, &tags); err == nil {
			f.Tags = tags
		}
	}

	return &f, nil
}

// SaveBatch сохраняет пачку объектов и их связи с локацией в одной транзакции.
// Связь пишется только после RETURNING id объекта, порядок flush-before-link
// гарантирован. Ошибка откатывает всю пачку
func (r *featureRepository) SaveBatch(ctx context.Context, locationID int64, drafts []domain.FeatureDraft) (int, error) {
	if len(drafts) == 0 {
		return 0, nil
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		r.logger.Error("Failed to begin transaction", zap.Error(err))
		return 0, apperrors.ErrDatabaseError
	}
	defer tx.Rollback()

	link := `
		INSERT INTO location_features (location_id, feature_id)
		VALUES ($1, $2)
		ON CONFLICT (location_id, feature_id) DO NOTHING
	`

	linked := 0
	for _, draft := range drafts {
		feature, err := r.getOrCreateTx(ctx, tx, draft)
		if err != nil {
			r.logger.Error("Failed to save feature in batch",
				zap.Int64("location_id", locationID),
				zap.Int64("osm_id", draft.OSMID),
				zap.String("osm_type", string(draft.OSMType)),
				zap.Error(err))
			return 0, apperrors.ErrDatabaseError
		}

		if _, err := tx.ExecContext(ctx, link, locationID, feature.ID); err != nil {
			r.logger.Error("Failed to link feature to location",
				zap.Int64("location_id", locationID),
				zap.Int64("feature_id", feature.ID),
				zap.Error(err))
			return 0, apperrors.ErrDatabaseError
		}
		linked++
	}

	if err := tx.Commit(); err != nil {
		r.logger.Error("Failed to commit feature batch", zap.Error(err))
		return 0, apperrors.ErrDatabaseError
	}

	return linked, nil
}

// ListByLocation возвращает страницу объектов локации в детерминированном
// порядке (по ID объекта) и общее количество связей
func (r *featureRepository) ListByLocation(ctx context.Context, locationID int64, limit, offset int) ([]*domain.Feature, int, error) {
	var total int
	err := r.db.GetContext(ctx, &total,
		`SELECT COUNT(*) FROM location_features WHERE location_id = $1`, locationID)
	if err != nil {
		r.logger.Error("Failed to count location features",
			zap.Int64("location_id", locationID),
			zap.Error(err))
		return nil, 0, apperrors.ErrDatabaseError
	}

	query := `
		SELECT f.id, f.osm_id, f.osm_type, f.name, f.tags, f.geometry, f.srid, f.created_at
		FROM features f
		JOIN location_features lf ON lf.feature_id = f.id
		WHERE lf.location_id = $1
		ORDER BY f.id ASC
		LIMIT $2 OFFSET $3
	`

	rows, err := r.db.QueryxContext(ctx, query, locationID, limit, offset)
	if err != nil {
		r.logger.Error("Failed to list location features",
			zap.Int64("location_id", locationID),
			zap.Error(err))
		return nil, 0, apperrors.ErrDatabaseError
	}
	defer rows.Close()

	var features []*domain.Feature
	for rows.Next() {
		var f domain.Feature
		var tagsJSON []byte
		err := rows.Scan(&f.ID, &f.OSMID, &f.OSMType, &f.Name, &tagsJSON,
			&f.Geometry, &f.SRID, &f.CreatedAt)
		if err != nil {
			r.logger.Error("Failed to scan feature", zap.Error(err))
			continue
		}
		if len(tagsJSON) > 0 {
			tags := make(map[string]string)
			if err := json.Unmarshal(tagsJSON, &tags); err == nil {
				f.Tags = tags
			}
		}
		features = append(features, &f)
	}

	return features, total, nil
}
