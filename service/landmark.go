package service

import (
	"context"
	"log"
	"movie_marathon/model"
	"movie_marathon/provider"
)

type LandmarkStore interface {
	FindWithinBBox(ctx context.Context, box model.BBox, limit int) ([]model.Landmark, error)
	BulkUpsert(ctx context.Context, rows []model.Landmark) (int64, error)
}

type LandmarkCatalog interface {
	Landmarks(ctx context.Context, box model.BBox, limit int) (*provider.FeatureCollection, error)
}

type BBoxResolver interface {
	ZipToBBox(ctx context.Context, zip string, radiusMi float64) (*model.BBox, error)
}

type LandmarkService struct {
	store     LandmarkStore
	catalog   LandmarkCatalog
	geo       BBoxResolver
	threshold int
}

func NewLandmarkService(store LandmarkStore, catalog LandmarkCatalog, geo BBoxResolver, threshold int) *LandmarkService {
	if threshold < 1 {
		threshold = 1
	}
	return &LandmarkService{store: store, catalog: catalog, geo: geo, threshold: threshold}
}

// GetByBBox serves landmarks for a box. The hit path reshapes stored
// rows into a FeatureCollection; the miss path persists the provider's
// features but returns the provider payload as-is. The two shapes are
// FeatureCollection-compatible but not field-identical; consumers must
// not depend on more than the GeoJSON contract.
func (s *LandmarkService) GetByBBox(ctx context.Context, box model.BBox, limit int) (*provider.FeatureCollection, error) {
	rows, err := s.store.FindWithinBBox(ctx, box, limit)
	if err != nil {
		return nil, err
	}
	if len(rows) >= s.threshold {
		return provider.RowsToFeatureCollection(rows), nil
	}

	fc, err := s.catalog.Landmarks(ctx, box, limit)
	if err != nil {
		return nil, err
	}
	normalized := provider.NormalizeFeatureCollection(fc)
	if len(normalized) > 0 {
		if _, err := s.store.BulkUpsert(ctx, normalized); err != nil {
			return nil, err
		}
	}
	return fc, nil
}

// GetByZip converts the ZIP to a box and delegates. A ZIP that cannot
// be resolved yields an empty collection, never an error.
func (s *LandmarkService) GetByZip(ctx context.Context, zip string, radiusMi float64, limit int) (*provider.FeatureCollection, error) {
	box, err := s.geo.ZipToBBox(ctx, zip, radiusMi)
	if err != nil || box == nil {
		if err != nil {
			log.Printf("[landmarks.service] zipToBBox failed for %s: %v", zip, err)
		}
		return provider.EmptyFeatureCollection(), nil
	}
	return s.GetByBBox(ctx, *box, limit)
}
