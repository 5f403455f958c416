package service

import (
	"context"
	"log"
	"movie_marathon/model"
	"movie_marathon/provider"

	"github.com/gosimple/slug"
	"github.com/jinzhu/copier"
)

type CinemaStore interface {
	FindByZip(ctx context.Context, zip string) ([]model.Cinema, error)
	FindByBBox(ctx context.Context, box model.BBox) ([]model.Cinema, error)
	Upsert(ctx context.Context, rows []model.Cinema) error
}

type GeoResolver interface {
	ZipToGeo(ctx context.Context, zip string) (*model.GeoPoint, error)
}

type CinemaCatalog interface {
	CinemasNearby(ctx context.Context, lat, lon float64) ([]provider.CinemaResult, error)
}

type CinemaService struct {
	store         CinemaStore
	geo           GeoResolver
	catalog       CinemaCatalog
	allowExternal bool
	threshold     int
}

func NewCinemaService(store CinemaStore, geo GeoResolver, catalog CinemaCatalog, allowExternal bool, threshold int) *CinemaService {
	if threshold < 1 {
		threshold = 1
	}
	return &CinemaService{
		store:         store,
		geo:           geo,
		catalog:       catalog,
		allowExternal: allowExternal,
		threshold:     threshold,
	}
}

func normalizeCinemas(results []provider.CinemaResult, zip string) []model.Cinema {
	rows := make([]model.Cinema, 0, len(results))
	for _, c := range results {
		var row model.Cinema
		copier.Copy(&row, &c)
		row.ExternalID = c.CinemaID
		row.Slug = slug.Make(c.Name)
		row.Zip = zip
		row.Source = "movieglu"
		if row.Postcode == "" {
			row.Postcode = zip
		}
		rows = append(rows, row)
	}
	return rows
}

// GetByZip serves cinemas for a ZIP: local rows when enough exist,
// otherwise geocode and fetch. Geocoding and provider failures degrade
// to whatever the DB had; only persistence errors surface.
func (s *CinemaService) GetByZip(ctx context.Context, zip string) (*model.CinemasResult, error) {
	dbRows, err := s.store.FindByZip(ctx, zip)
	if err != nil {
		return nil, err
	}
	if len(dbRows) >= s.threshold {
		return &model.CinemasResult{Cinemas: dbRows}, nil
	}

	// The external-calls gate sits above everything else so a
	// rate-limited deployment never leaves DB-only mode.
	if !s.allowExternal {
		return &model.CinemasResult{Cinemas: dbRows}, nil
	}

	geo, err := s.geo.ZipToGeo(ctx, zip)
	if err != nil || geo == nil {
		if err != nil {
			log.Printf("[cinema.service] zipToGeo failed, falling back to DB-only: %v", err)
		}
		return &model.CinemasResult{Cinemas: dbRows, Note: "served from DB only, ZIP could not be resolved"}, nil
	}

	results, err := s.catalog.CinemasNearby(ctx, geo.Latitude, geo.Longitude)
	if err != nil {
		// Swallow provider hard errors too: this endpoint always
		// prefers stale-or-empty DB data over a 5xx.
		log.Printf("[cinema.service] cinemasNearby failed, falling back to DB-only: %v", err)
		return &model.CinemasResult{Cinemas: dbRows, Note: "served from DB only, external unavailable"}, nil
	}
	if len(results) == 0 {
		return &model.CinemasResult{Cinemas: dbRows}, nil
	}

	normalized := normalizeCinemas(results, zip)
	if err := s.store.Upsert(ctx, normalized); err != nil {
		return nil, err
	}
	return &model.CinemasResult{Cinemas: normalized}, nil
}

// GetByBBox serves cinemas inside a box from local data only; the
// catalog has no box query.
func (s *CinemaService) GetByBBox(ctx context.Context, box model.BBox) (*model.CinemasResult, error) {
	rows, err := s.store.FindByBBox(ctx, box)
	if err != nil {
		return nil, err
	}
	return &model.CinemasResult{Cinemas: rows}, nil
}
