package model

import (
	"time"

	"github.com/google/uuid"
)

// Film rows are deduplicated on ImdbTitleID, the stable cross-provider
// key. The provider's numeric ids (ExternalID, ImdbID) and the metadata
// are refreshed on conflict.
type Film struct {
	UUIDBase
	ExternalID   *int   `gorm:"column:external_id" json:"film_id"`
	ImdbID       *int64 `json:"imdb_id,omitempty"`
	ImdbTitleID  string `gorm:"uniqueIndex;not null" json:"imdb_title_id"`
	Name         string `json:"name"`
	Synopsis     string `json:"synopsis,omitempty"`
	DurationMins *int   `json:"duration_mins,omitempty"`
	VersionType  string `json:"version_type,omitempty"`
}

// ShowDate is a calendar day for one cinema, created lazily on first
// ingestion for that (cinema, date) pair.
type ShowDate struct {
	UUIDBase
	CinemaID uint      `gorm:"uniqueIndex:idx_show_dates_cinema_date;not null" json:"cinemaId"`
	Date     time.Time `gorm:"type:date;uniqueIndex:idx_show_dates_cinema_date;not null" json:"date"`
}

// Showing is one screening. Uniqueness on (cinema, film, show date,
// start time) is enforced by the deduplicating insert in the repo, not
// by a DB constraint.
type Showing struct {
	UUIDBase
	CinemaID         uint      `gorm:"index;not null" json:"cinemaId"`
	FilmID           uuid.UUID `gorm:"type:uuid;index;not null" json:"filmId"`
	ShowDateID       uuid.UUID `gorm:"type:uuid;index;not null" json:"showDateId"`
	StartTime        string    `gorm:"type:time;not null" json:"start_time"`
	DisplayStartTime *string   `json:"display_start_time"`
}

// ShowtimeEntry and FilmShowtimes are the grouped response shape for
// /api/cinemaShowTimes.
type ShowtimeEntry struct {
	StartTime        string  `json:"start_time"`
	DisplayStartTime *string `json:"display_start_time"`
}

type FilmShowtimes struct {
	Title       string          `json:"title"`
	ImdbTitleID string          `json:"imdb_title_id"`
	Times       []ShowtimeEntry `json:"times"`
}

type IngestCounts struct {
	FilmsUpserted      int `json:"filmsUpserted"`
	ShowingsPrepared   int `json:"showingsPrepared"`
	ShowingsInserted   int `json:"showingsInserted"`
	SkippedMissingFilm int `json:"skippedMissingFilm"`
}

type ShowtimesResult struct {
	OK               bool            `json:"ok"`
	CinemaExternalID int             `json:"cinema_id"`
	Date             string          `json:"date"`
	ShowDateID       uuid.UUID       `json:"show_date_id"`
	Source           string          `json:"source"` // "db" or "provider"
	Counts           IngestCounts    `json:"counts"`
	Films            []FilmShowtimes `json:"films"`
	Note             string          `json:"note,omitempty"`
}

type ShowtimesQuery struct {
	CinemaID   int    `query:"cinema_id" validate:"required,gt=0"`
	Date       string `query:"date" validate:"required,datetime=2006-01-02"`
	ShowDateID string `query:"show_date_id" validate:"omitempty,uuid"`
}
