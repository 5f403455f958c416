// Package repo contains the typed SQL layer. All upserts are single
// multi-row INSERT ... ON CONFLICT statements; read operations expect
// already-validated parameters.
package repo

import (
	"context"
	"errors"
	"movie_marathon/model"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type CinemaRepo struct {
	db *gorm.DB
}

func NewCinemaRepo(db *gorm.DB) *CinemaRepo {
	return &CinemaRepo{db: db}
}

// Upsert writes a batch of cinemas in one statement, keyed on the
// provider id. Coordinates are kept when the provider omits them and
// last_seen_at always refreshes.
func (r *CinemaRepo) Upsert(ctx context.Context, rows []model.Cinema) error {
	if len(rows) == 0 {
		return nil
	}
	now := time.Now()
	for i := range rows {
		rows[i].LastSeenAt = now
	}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "external_id"}},
		DoUpdates: clause.Assignments(map[string]any{
			"slug":         gorm.Expr("EXCLUDED.slug"),
			"name":         gorm.Expr("EXCLUDED.name"),
			"postcode":     gorm.Expr("EXCLUDED.postcode"),
			"city":         gorm.Expr("EXCLUDED.city"),
			"state":        gorm.Expr("EXCLUDED.state"),
			"address":      gorm.Expr("EXCLUDED.address"),
			"address2":     gorm.Expr("EXCLUDED.address2"),
			"country":      gorm.Expr("EXCLUDED.country"),
			"distance":     gorm.Expr("EXCLUDED.distance"),
			"zip":          gorm.Expr("EXCLUDED.zip"),
			"latitude":     gorm.Expr("COALESCE(EXCLUDED.latitude, cinemas.latitude)"),
			"longitude":    gorm.Expr("COALESCE(EXCLUDED.longitude, cinemas.longitude)"),
			"last_seen_at": gorm.Expr("now()"),
			"updated_at":   gorm.Expr("now()"),
		}),
	}).Create(&rows).Error
}

func (r *CinemaRepo) FindByZip(ctx context.Context, zip string) ([]model.Cinema, error) {
	var rows []model.Cinema
	err := r.db.WithContext(ctx).
		Where("postcode = ? OR zip = ?", zip, zip).
		Order("name").
		Find(&rows).Error
	return rows, err
}

func (r *CinemaRepo) FindByBBox(ctx context.Context, box model.BBox) ([]model.Cinema, error) {
	var rows []model.Cinema
	err := r.db.WithContext(ctx).
		Where("longitude BETWEEN ? AND ?", box.West, box.East).
		Where("latitude BETWEEN ? AND ?", box.South, box.North).
		Order("name").
		Find(&rows).Error
	return rows, err
}

// GetIDByExternalID returns the local row id, or 0 when absent.
func (r *CinemaRepo) GetIDByExternalID(ctx context.Context, externalID int) (uint, error) {
	var row model.Cinema
	err := r.db.WithContext(ctx).
		Select("id").
		Where("external_id = ?", externalID).
		First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return row.ID, nil
}

// EnsureByExternalID resolves the local id, creating a minimal row when
// missing. A losing race on the insert falls back to a re-lookup.
func (r *CinemaRepo) EnsureByExternalID(ctx context.Context, externalID int) (uint, error) {
	id, err := r.GetIDByExternalID(ctx, externalID)
	if err != nil || id != 0 {
		return id, err
	}
	row := model.Cinema{ExternalID: externalID, LastSeenAt: time.Now()}
	err = r.db.WithContext(ctx).Create(&row).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return r.GetIDByExternalID(ctx, externalID)
	}
	if err != nil {
		return 0, err
	}
	return row.ID, nil
}

// CountStale reports how many cinemas no ingestion has seen within the
// window; the sweep job logs this.
func (r *CinemaRepo) CountStale(ctx context.Context, olderThan time.Time) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.Cinema{}).
		Where("last_seen_at < ?", olderThan).
		Count(&n).Error
	return n, err
}
