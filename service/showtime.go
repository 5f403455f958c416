package service

import (
	"context"
	"fmt"
	"movie_marathon/model"
	"movie_marathon/provider"
	"time"

	"github.com/google/uuid"
)

type ShowtimeStore interface {
	UpsertFilms(ctx context.Context, films []model.Film) error
	FilmIDsByImdbTitleID(ctx context.Context, ids []string) (map[string]uuid.UUID, error)
	GetOrCreateShowDate(ctx context.Context, cinemaID uint, date time.Time) (*model.ShowDate, error)
	GetShowDateByID(ctx context.Context, id uuid.UUID) (*model.ShowDate, error)
	CountShowings(ctx context.Context, cinemaID uint, showDateID uuid.UUID) (int64, error)
	InsertShowingsDedup(ctx context.Context, rows []model.Showing) (int64, error)
	ListGrouped(ctx context.Context, cinemaID uint, showDateID uuid.UUID) ([]model.FilmShowtimes, error)
}

type CinemaResolver interface {
	EnsureByExternalID(ctx context.Context, externalID int) (uint, error)
}

type ShowtimeCatalog interface {
	CinemaShowTimes(ctx context.Context, cinemaID int, dateISO string) (*provider.ShowTimesPayload, error)
}

type ShowtimeService struct {
	store   ShowtimeStore
	cinemas CinemaResolver
	catalog ShowtimeCatalog
}

func NewShowtimeService(store ShowtimeStore, cinemas CinemaResolver, catalog ShowtimeCatalog) *ShowtimeService {
	return &ShowtimeService{store: store, cinemas: cinemas, catalog: catalog}
}

// ShowtimeQuery is the resolved input for one ingestion.
type ShowtimeQuery struct {
	CinemaExternalID int
	Date             time.Time
	ShowDateID       *uuid.UUID
}

func normalizeFilms(payload *provider.ShowTimesPayload) []model.Film {
	films := make([]model.Film, 0, len(payload.Films))
	for _, f := range payload.Films {
		if f.ImdbTitleID == "" {
			continue
		}
		film := model.Film{
			ImdbTitleID:  f.ImdbTitleID,
			Name:         f.FilmName,
			Synopsis:     f.Synopsis,
			DurationMins: f.DurationMins,
			VersionType:  f.VersionType,
			ImdbID:       f.ImdbID,
		}
		if f.FilmID != 0 {
			id := f.FilmID
			film.ExternalID = &id
		}
		films = append(films, film)
	}
	return films
}

// IngestForCinema serves grouped showtimes for (cinema, date). Stored
// rows short-circuit the provider entirely; a fetch that returns
// nothing usable still yields an ok result with empty films. Both the
// fresh-ingest and already-served paths read the grouped result back
// from the store, so repeat calls return identical output.
func (s *ShowtimeService) IngestForCinema(ctx context.Context, q ShowtimeQuery) (*model.ShowtimesResult, error) {
	cinemaID, err := s.cinemas.EnsureByExternalID(ctx, q.CinemaExternalID)
	if err != nil {
		return nil, err
	}
	if cinemaID == 0 {
		return nil, NewStatusError(400, fmt.Sprintf("unknown cinema %d", q.CinemaExternalID))
	}

	var showDate *model.ShowDate
	if q.ShowDateID != nil {
		showDate, err = s.store.GetShowDateByID(ctx, *q.ShowDateID)
		if err != nil {
			return nil, err
		}
	}
	if showDate == nil {
		showDate, err = s.store.GetOrCreateShowDate(ctx, cinemaID, q.Date)
		if err != nil {
			return nil, err
		}
	}

	dateISO := q.Date.Format("2006-01-02")
	result := &model.ShowtimesResult{
		OK:               true,
		CinemaExternalID: q.CinemaExternalID,
		Date:             dateISO,
		ShowDateID:       showDate.ID,
	}

	existing, err := s.store.CountShowings(ctx, cinemaID, showDate.ID)
	if err != nil {
		return nil, err
	}
	if existing > 0 {
		result.Source = "db"
		result.Films, err = s.store.ListGrouped(ctx, cinemaID, showDate.ID)
		return result, err
	}

	payload, err := s.catalog.CinemaShowTimes(ctx, q.CinemaExternalID, dateISO)
	if err != nil {
		// Hard provider failure with no stored rows to fall back on.
		return nil, err
	}
	result.Source = "provider"
	if payload == nil || len(payload.Films) == 0 {
		result.Films = []model.FilmShowtimes{}
		result.Note = "provider returned no data"
		return result, nil
	}

	// Films first so showing rows have resolvable foreign keys.
	films := normalizeFilms(payload)
	if err := s.store.UpsertFilms(ctx, films); err != nil {
		return nil, err
	}
	result.Counts.FilmsUpserted = len(films)

	flat := provider.NormalizeShowings(payload)
	imdbIDs := make([]string, 0, len(films))
	for _, f := range films {
		imdbIDs = append(imdbIDs, f.ImdbTitleID)
	}
	filmIDs, err := s.store.FilmIDsByImdbTitleID(ctx, imdbIDs)
	if err != nil {
		return nil, err
	}

	candidates := make([]model.Showing, 0, len(flat))
	for _, st := range flat {
		filmID, ok := filmIDs[st.ImdbTitleID]
		if st.ImdbTitleID == "" || !ok {
			result.Counts.SkippedMissingFilm++
			continue
		}
		candidates = append(candidates, model.Showing{
			UUIDBase:         model.UUIDBase{ID: uuid.New()},
			CinemaID:         cinemaID,
			FilmID:           filmID,
			ShowDateID:       showDate.ID,
			StartTime:        st.StartTime,
			DisplayStartTime: st.DisplayStartTime,
		})
	}
	result.Counts.ShowingsPrepared = len(candidates)

	if len(candidates) > 0 {
		inserted, err := s.store.InsertShowingsDedup(ctx, candidates)
		if err != nil {
			return nil, err
		}
		result.Counts.ShowingsInserted = int(inserted)
	}

	result.Films, err = s.store.ListGrouped(ctx, cinemaID, showDate.ID)
	return result, err
}
