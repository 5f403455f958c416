package repo

import (
	"context"
	"movie_marathon/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type PosterRepo struct {
	db *gorm.DB
}

func NewPosterRepo(db *gorm.DB) *PosterRepo {
	return &PosterRepo{db: db}
}

// ListByFilmID returns poster metadata newest-first. The base64
// payload is omitted from listings.
func (r *PosterRepo) ListByFilmID(ctx context.Context, filmID uuid.UUID) ([]model.PosterImage, error) {
	var rows []model.PosterImage
	err := r.db.WithContext(ctx).
		Select("id", "film_id", "alt_text", "created_at", "updated_at").
		Where("film_id = ?", filmID).
		Order("created_at DESC").
		Find(&rows).Error
	return rows, err
}

func (r *PosterRepo) ExistsForFilm(ctx context.Context, filmID uuid.UUID) (bool, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.PosterImage{}).
		Where("film_id = ?", filmID).
		Limit(1).
		Count(&n).Error
	return n > 0, err
}

// BulkInsert stores a batch of downloaded images in one statement.
func (r *PosterRepo) BulkInsert(ctx context.Context, imgs []model.PosterImage) error {
	if len(imgs) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&imgs).Error
}

func (r *PosterRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&model.PosterImage{}, "id = ?", id).Error
}

// Latest samples recent posters for the landing view.
func (r *PosterRepo) Latest(ctx context.Context, limit int) ([]model.PosterImage, error) {
	if limit <= 0 {
		limit = 5
	}
	var rows []model.PosterImage
	err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Limit(limit).
		Find(&rows).Error
	return rows, err
}

// MapByImdbTitleIDs resolves the newest stored image per film for a
// set of cross-provider ids.
func (r *PosterRepo) MapByImdbTitleIDs(ctx context.Context, ids []string) (map[string]string, error) {
	out := map[string]string{}
	if len(ids) == 0 {
		return out, nil
	}
	var rows []struct {
		ImdbTitleID string
		ImageBase64 string
	}
	err := r.db.WithContext(ctx).Raw(`
		SELECT f.imdb_title_id, i.image_base64
		FROM films f
		JOIN LATERAL (
			SELECT image_base64
			FROM images
			WHERE film_id = f.id
			ORDER BY created_at DESC
			LIMIT 1
		) i ON true
		WHERE f.imdb_title_id IN ?`, ids).Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	for _, row := range rows {
		out[row.ImdbTitleID] = row.ImageBase64
	}
	return out, nil
}
