package service

import (
	"context"
	"errors"
	"movie_marathon/model"
	"movie_marathon/provider"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubCinemaStore struct {
	rows      []model.Cinema
	findErr   error
	upsertErr error
	upserted  [][]model.Cinema
}

func (s *stubCinemaStore) FindByZip(context.Context, string) ([]model.Cinema, error) {
	return s.rows, s.findErr
}

func (s *stubCinemaStore) FindByBBox(context.Context, model.BBox) ([]model.Cinema, error) {
	return s.rows, s.findErr
}

func (s *stubCinemaStore) Upsert(_ context.Context, rows []model.Cinema) error {
	s.upserted = append(s.upserted, rows)
	return s.upsertErr
}

type stubGeo struct {
	point *model.GeoPoint
	err   error
	calls int
}

func (s *stubGeo) ZipToGeo(context.Context, string) (*model.GeoPoint, error) {
	s.calls++
	return s.point, s.err
}

type stubCatalog struct {
	results []provider.CinemaResult
	err     error
	calls   int
}

func (s *stubCatalog) CinemasNearby(context.Context, float64, float64) ([]provider.CinemaResult, error) {
	s.calls++
	return s.results, s.err
}

func TestGetByZipDBSufficient(t *testing.T) {
	store := &stubCinemaStore{rows: []model.Cinema{{ExternalID: 1, Name: "AMC Empire 25"}}}
	geo := &stubGeo{point: &model.GeoPoint{Latitude: 40.7, Longitude: -73.9}}
	catalog := &stubCatalog{}

	svc := NewCinemaService(store, geo, catalog, true, 1)
	result, err := svc.GetByZip(context.Background(), "10001")
	require.NoError(t, err)
	assert.Len(t, result.Cinemas, 1)
	assert.Empty(t, result.Note)

	assert.Zero(t, geo.calls, "enough DB rows must short-circuit the external path")
	assert.Zero(t, catalog.calls)
}

func TestGetByZipExternalDisabled(t *testing.T) {
	store := &stubCinemaStore{}
	geo := &stubGeo{point: &model.GeoPoint{}}
	catalog := &stubCatalog{results: []provider.CinemaResult{{CinemaID: 1}}}

	svc := NewCinemaService(store, geo, catalog, false, 1)
	result, err := svc.GetByZip(context.Background(), "10001")
	require.NoError(t, err)
	assert.Empty(t, result.Cinemas)
	assert.Zero(t, geo.calls, "disabled external calls skip even geocoding")
	assert.Zero(t, catalog.calls)
}

func TestGetByZipGeoFailureFallsBack(t *testing.T) {
	stale := []model.Cinema{{ExternalID: 7, Name: "Stale Cinema"}}
	store := &stubCinemaStore{rows: stale}
	catalog := &stubCatalog{}

	svc := NewCinemaService(store, &stubGeo{point: nil}, catalog, true, 2)
	result, err := svc.GetByZip(context.Background(), "10001")
	require.NoError(t, err)
	assert.Equal(t, model.Cinemas(stale), result.Cinemas)
	assert.NotEmpty(t, result.Note)
	assert.Zero(t, catalog.calls)
}

func TestGetByZipProviderHardErrorFallsBack(t *testing.T) {
	store := &stubCinemaStore{}
	geo := &stubGeo{point: &model.GeoPoint{Latitude: 40.7, Longitude: -73.9}}
	catalog := &stubCatalog{err: &provider.Error{Status: 500, Body: "boom"}}

	svc := NewCinemaService(store, geo, catalog, true, 1)
	result, err := svc.GetByZip(context.Background(), "10001")
	require.NoError(t, err, "this endpoint never 5xxes for upstream failure")
	assert.Empty(t, result.Cinemas)
	assert.NotEmpty(t, result.Note)
}

func TestGetByZipFreshIngest(t *testing.T) {
	store := &stubCinemaStore{}
	geo := &stubGeo{point: &model.GeoPoint{Latitude: 40.7, Longitude: -73.9}}
	catalog := &stubCatalog{results: []provider.CinemaResult{
		{CinemaID: 8842, Name: "AMC Empire 25", Postcode: ""},
		{CinemaID: 9000, Name: "Regal Union Square", Postcode: "10003"},
	}}

	svc := NewCinemaService(store, geo, catalog, true, 1)
	result, err := svc.GetByZip(context.Background(), "10001")
	require.NoError(t, err)
	require.Len(t, result.Cinemas, 2)

	assert.Equal(t, "amc-empire-25", result.Cinemas[0].Slug)
	assert.Equal(t, "10001", result.Cinemas[0].Postcode, "missing postcode falls back to the queried ZIP")
	assert.Equal(t, "10003", result.Cinemas[1].Postcode)
	assert.Equal(t, "10001", result.Cinemas[1].Zip)

	require.Len(t, store.upserted, 1, "fresh rows are persisted before return")
}

func TestGetByBBoxIsDBOnly(t *testing.T) {
	store := &stubCinemaStore{rows: []model.Cinema{{ExternalID: 3, Name: "Cinema in Box"}}}
	geo := &stubGeo{point: &model.GeoPoint{}}
	catalog := &stubCatalog{results: []provider.CinemaResult{{CinemaID: 99}}}

	svc := NewCinemaService(store, geo, catalog, true, 1)
	result, err := svc.GetByBBox(context.Background(), model.BBox{West: -74, South: 40.6, East: -73.9, North: 40.8})
	require.NoError(t, err)
	assert.Len(t, result.Cinemas, 1)
	assert.Zero(t, catalog.calls, "the catalog has no box query")
}

func TestGetByZipPersistenceErrorPropagates(t *testing.T) {
	store := &stubCinemaStore{upsertErr: errors.New("connection reset")}
	geo := &stubGeo{point: &model.GeoPoint{Latitude: 40.7, Longitude: -73.9}}
	catalog := &stubCatalog{results: []provider.CinemaResult{{CinemaID: 1, Name: "X"}}}

	svc := NewCinemaService(store, geo, catalog, true, 1)
	_, err := svc.GetByZip(context.Background(), "10001")
	require.Error(t, err)
}
