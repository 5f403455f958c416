package repo

import (
	"context"
	"fmt"
	"movie_marathon/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const defaultLandmarkLimit = 500

type LandmarkRepo struct {
	db *gorm.DB
}

func NewLandmarkRepo(db *gorm.DB) *LandmarkRepo {
	return &LandmarkRepo{db: db}
}

// FindWithinBBox returns stored landmarks inside the box, capped and
// ordered by name.
func (r *LandmarkRepo) FindWithinBBox(ctx context.Context, box model.BBox, limit int) ([]model.Landmark, error) {
	if limit <= 0 {
		limit = defaultLandmarkLimit
	}
	var rows []model.Landmark
	err := r.db.WithContext(ctx).
		Where("longitude BETWEEN ? AND ?", box.West, box.East).
		Where("latitude BETWEEN ? AND ?", box.South, box.North).
		Order("resname").
		Limit(limit).
		Find(&rows).Error
	return rows, err
}

// dedupeKey matches the unique index the merge upsert conflicts on.
func dedupeKey(l model.Landmark) string {
	return fmt.Sprintf("%s|%s|%s|%s|%.6f|%.6f",
		l.Resname, l.Address, l.City, l.State, l.Longitude, l.Latitude)
}

// BulkUpsert merges a batch on the composite dedupe key in one
// statement. The batch is de-duplicated first: ON CONFLICT cannot
// touch the same row twice within a single insert.
func (r *LandmarkRepo) BulkUpsert(ctx context.Context, rows []model.Landmark) (int64, error) {
	seen := map[string]bool{}
	batch := make([]model.Landmark, 0, len(rows))
	for _, row := range rows {
		if row.Resname == "" {
			continue
		}
		k := dedupeKey(row)
		if seen[k] {
			continue
		}
		seen[k] = true
		batch = append(batch, row)
	}
	if len(batch) == 0 {
		return 0, nil
	}

	tx := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{
			{Name: "resname"}, {Name: "address"}, {Name: "city"},
			{Name: "state"}, {Name: "longitude"}, {Name: "latitude"},
		},
		DoUpdates: clause.Assignments(map[string]any{
			"source":     gorm.Expr("EXCLUDED.source"),
			"source_id":  gorm.Expr("EXCLUDED.source_id"),
			"properties": gorm.Expr("EXCLUDED.properties"),
			"updated_at": gorm.Expr("now()"),
		}),
	}).Create(&batch)
	return tx.RowsAffected, tx.Error
}
