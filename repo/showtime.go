package repo

import (
	"context"
	"errors"
	"movie_marathon/model"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ShowtimeRepo struct {
	db *gorm.DB
}

func NewShowtimeRepo(db *gorm.DB) *ShowtimeRepo {
	return &ShowtimeRepo{db: db}
}

// UpsertFilms writes a film batch keyed on the cross-provider id. The
// provider's numeric ids and metadata refresh on conflict.
func (r *ShowtimeRepo) UpsertFilms(ctx context.Context, films []model.Film) error {
	if len(films) == 0 {
		return nil
	}
	for i := range films {
		if films[i].ID == uuid.Nil {
			films[i].ID = uuid.New()
		}
	}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "imdb_title_id"}},
		DoUpdates: clause.Assignments(map[string]any{
			"external_id":   gorm.Expr("EXCLUDED.external_id"),
			"imdb_id":       gorm.Expr("EXCLUDED.imdb_id"),
			"name":          gorm.Expr("EXCLUDED.name"),
			"synopsis":      gorm.Expr("EXCLUDED.synopsis"),
			"duration_mins": gorm.Expr("EXCLUDED.duration_mins"),
			"version_type":  gorm.Expr("EXCLUDED.version_type"),
			"updated_at":    gorm.Expr("now()"),
		}),
	}).Create(&films).Error
}

// FilmIDsByImdbTitleID resolves local film uuids for a set of
// cross-provider ids in one query.
func (r *ShowtimeRepo) FilmIDsByImdbTitleID(ctx context.Context, ids []string) (map[string]uuid.UUID, error) {
	out := make(map[string]uuid.UUID, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	var rows []model.Film
	err := r.db.WithContext(ctx).
		Select("id", "imdb_title_id").
		Where("imdb_title_id IN ?", ids).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	for _, f := range rows {
		out[f.ImdbTitleID] = f.ID
	}
	return out, nil
}

// GetOrCreateShowDate resolves the show-date row for (cinema, date),
// inserting lazily. When the insert loses a race to a concurrent
// ingestion it re-looks-up instead of failing.
func (r *ShowtimeRepo) GetOrCreateShowDate(ctx context.Context, cinemaID uint, date time.Time) (*model.ShowDate, error) {
	date = date.Truncate(24 * time.Hour)
	var sd model.ShowDate
	err := r.db.WithContext(ctx).
		Where("cinema_id = ? AND date = ?", cinemaID, date).
		First(&sd).Error
	if err == nil {
		return &sd, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	sd = model.ShowDate{CinemaID: cinemaID, Date: date}
	err = r.db.WithContext(ctx).Create(&sd).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		err = r.db.WithContext(ctx).
			Where("cinema_id = ? AND date = ?", cinemaID, date).
			First(&sd).Error
	}
	if err != nil {
		return nil, err
	}
	return &sd, nil
}

func (r *ShowtimeRepo) GetShowDateByID(ctx context.Context, id uuid.UUID) (*model.ShowDate, error) {
	var sd model.ShowDate
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&sd).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &sd, nil
}

func (r *ShowtimeRepo) CountShowings(ctx context.Context, cinemaID uint, showDateID uuid.UUID) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.Showing{}).
		Where("cinema_id = ? AND show_date_id = ?", cinemaID, showDateID).
		Count(&n).Error
	return n, err
}

// InsertShowingsDedup inserts only candidates not already present for
// the same (cinema, film, show_date, start_time) tuple, via a single
// left-anti-join statement. Concurrent ingestions of the same key may
// both run this; the join absorbs the overlap without erroring.
func (r *ShowtimeRepo) InsertShowingsDedup(ctx context.Context, rows []model.Showing) (int64, error) {
	if len(rows) == 0 {
		return 0, nil
	}

	var sb strings.Builder
	args := make([]any, 0, len(rows)*6)
	for i, row := range rows {
		if row.ID == uuid.Nil {
			row.ID = uuid.New()
		}
		if i > 0 {
			sb.WriteString(",\n")
		}
		sb.WriteString("(?::uuid, ?::bigint, ?::uuid, ?::uuid, ?::time, ?::text)")
		args = append(args, row.ID, row.CinemaID, row.FilmID, row.ShowDateID, row.StartTime, row.DisplayStartTime)
	}

	sql := `
		WITH new_rows (id, cinema_id, film_id, show_date_id, start_time, display_start_time) AS (
			VALUES ` + sb.String() + `
		)
		INSERT INTO showings (id, cinema_id, film_id, show_date_id, start_time, display_start_time, created_at, updated_at)
		SELECT n.id, n.cinema_id, n.film_id, n.show_date_id, n.start_time, n.display_start_time, now(), now()
		FROM new_rows n
		LEFT JOIN showings s
		  ON s.cinema_id = n.cinema_id
		 AND s.film_id = n.film_id
		 AND s.show_date_id = n.show_date_id
		 AND s.start_time = n.start_time
		WHERE s.id IS NULL`

	tx := r.db.WithContext(ctx).Exec(sql, args...)
	return tx.RowsAffected, tx.Error
}

// ListGrouped returns the stored showings for (cinema, show date)
// grouped by film, sorted by title then start time.
func (r *ShowtimeRepo) ListGrouped(ctx context.Context, cinemaID uint, showDateID uuid.UUID) ([]model.FilmShowtimes, error) {
	var rows []struct {
		Name             string
		ImdbTitleID      string
		StartTime        string
		DisplayStartTime *string
	}
	err := r.db.WithContext(ctx).Model(&model.Showing{}).
		Select("films.name, films.imdb_title_id, showings.start_time, showings.display_start_time").
		Joins("JOIN films ON films.id = showings.film_id").
		Where("showings.cinema_id = ? AND showings.show_date_id = ?", cinemaID, showDateID).
		Order("films.name, showings.start_time").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	out := []model.FilmShowtimes{}
	for _, row := range rows {
		if len(out) == 0 || out[len(out)-1].ImdbTitleID != row.ImdbTitleID {
			out = append(out, model.FilmShowtimes{
				Title:       row.Name,
				ImdbTitleID: row.ImdbTitleID,
				Times:       []model.ShowtimeEntry{},
			})
		}
		last := &out[len(out)-1]
		last.Times = append(last.Times, model.ShowtimeEntry{
			StartTime:        row.StartTime,
			DisplayStartTime: row.DisplayStartTime,
		})
	}
	return out, nil
}
