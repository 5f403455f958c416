package model

import "time"

// Cinema is one provider theater. ExternalID is the provider's integer
// cinema_id and the natural key: one row per ExternalID, refreshed on
// every ingestion.
type Cinema struct {
	DTO
	ExternalID int      `gorm:"column:external_id;uniqueIndex;not null" json:"cinema_id"`
	Slug       string   `gorm:"index" json:"slug"`
	Name       string   `json:"name"`
	Address    string   `json:"address"`
	Address2   string   `json:"address2,omitempty"`
	City       string   `json:"city"`
	State      string   `json:"state"`
	Postcode   string   `gorm:"index" json:"postcode"`
	Country    string   `json:"country,omitempty"`
	Latitude   *float64 `json:"latitude"`
	Longitude  *float64 `json:"longitude"`
	// Distance is relative to the query that last returned this row,
	// not a persistent truth.
	Distance   float64   `json:"distance"`
	Zip        string    `gorm:"index" json:"zip"`
	Source     string    `gorm:"default:movieglu" json:"source"`
	LastSeenAt time.Time `json:"lastSeenAt"`
}

type Cinemas []Cinema

// CinemasResult is what the cinema service hands to the handler. Note
// is set when the external path degraded and DB rows were served.
type CinemasResult struct {
	Cinemas Cinemas
	Note    string
}

type CinemasResponse struct {
	OK      bool    `json:"ok"`
	Zip     string  `json:"zip"`
	Cinemas Cinemas `json:"cinemas"`
	Note    string  `json:"note,omitempty"`
}

type CinemasQuery struct {
	Zip string `query:"zip" validate:"required,len=5,numeric"`
}
