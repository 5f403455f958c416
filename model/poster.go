package model

import "github.com/google/uuid"

// PosterImage holds one base64-encoded poster or still for a film.
// Multiple images per film are allowed; "cached" means the film has at
// least one row here.
type PosterImage struct {
	UUIDBase
	FilmID      uuid.UUID `gorm:"type:uuid;index;not null" json:"film_id"`
	ImageBase64 string    `gorm:"type:text" json:"image_base64,omitempty"`
	AltText     string    `json:"alt_text"`
}

func (PosterImage) TableName() string { return "images" }

type PosterIngestInput struct {
	FilmID         string `json:"filmId" validate:"required,uuid"`
	MovieGluFilmID int    `json:"movieGluFilmId" validate:"required,gt=0"`
	AltText        string `json:"altText"`
	SizeCategory   string `json:"size_category"`
	Orientation    string `json:"orientation"`
	Prefer         string `json:"prefer"`
}

type PosterIngestResult struct {
	Cached bool          `json:"cached"`
	FilmID uuid.UUID     `json:"film_id"`
	Images []PosterImage `json:"images"`
}

// PosterRef pairs a cross-provider film id with its newest poster as a
// data URI, for the ?ids= listing variant.
type PosterRef struct {
	ImdbTitleID string `json:"imdb_title_id"`
	PosterURL   string `json:"poster_url,omitempty"`
}
