package handler_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"movie_marathon/cache"
	"movie_marathon/handler"
	"movie_marathon/model"
	"movie_marathon/provider"
	"movie_marathon/router"
	"movie_marathon/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memStore struct {
	mu   sync.Mutex
	data map[string]string
}

func newMemStore() *memStore { return &memStore{data: map[string]string{}} }

func (m *memStore) Get(_ context.Context, key string) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.data[key]
	return v, ok, nil
}

func (m *memStore) Set(_ context.Context, key, value string, _ time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = value
	return nil
}

func (m *memStore) Scan(_ context.Context, _ uint64, pattern string, _ int64) ([]string, uint64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	prefix := strings.TrimSuffix(pattern, "*")
	keys := []string{}
	for k := range m.data {
		if strings.HasPrefix(k, prefix) {
			keys = append(keys, k)
		}
	}
	return keys, 0, nil
}

func (m *memStore) Del(_ context.Context, keys ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, k := range keys {
		delete(m.data, k)
	}
	return nil
}

// In-memory implementations of the store interfaces the services need.

type fakeCinemaStore struct{ rows []model.Cinema }

func (f *fakeCinemaStore) FindByZip(context.Context, string) ([]model.Cinema, error) {
	return f.rows, nil
}
func (f *fakeCinemaStore) FindByBBox(context.Context, model.BBox) ([]model.Cinema, error) {
	return f.rows, nil
}
func (f *fakeCinemaStore) Upsert(_ context.Context, rows []model.Cinema) error {
	f.rows = rows
	return nil
}

type fakeGeo struct{ point *model.GeoPoint }

func (f *fakeGeo) ZipToGeo(context.Context, string) (*model.GeoPoint, error) { return f.point, nil }
func (f *fakeGeo) ZipToBBox(_ context.Context, zip string, _ float64) (*model.BBox, error) {
	if f.point == nil {
		return nil, nil
	}
	return &model.BBox{West: -74, South: 40.6, East: -73.9, North: 40.8}, nil
}

type fakeCinemaCatalog struct {
	results []provider.CinemaResult
	calls   int
}

func (f *fakeCinemaCatalog) CinemasNearby(context.Context, float64, float64) ([]provider.CinemaResult, error) {
	f.calls++
	return f.results, nil
}

type fakeShowtimeStore struct {
	films    map[string]uuid.UUID
	showings int
	showDate *model.ShowDate
	grouped  []model.FilmShowtimes
}

func newFakeShowtimeStore() *fakeShowtimeStore {
	return &fakeShowtimeStore{films: map[string]uuid.UUID{}}
}

func (f *fakeShowtimeStore) UpsertFilms(_ context.Context, films []model.Film) error {
	for _, fl := range films {
		if _, ok := f.films[fl.ImdbTitleID]; !ok {
			f.films[fl.ImdbTitleID] = uuid.New()
		}
	}
	return nil
}

func (f *fakeShowtimeStore) FilmIDsByImdbTitleID(_ context.Context, ids []string) (map[string]uuid.UUID, error) {
	out := map[string]uuid.UUID{}
	for _, id := range ids {
		if v, ok := f.films[id]; ok {
			out[id] = v
		}
	}
	return out, nil
}

func (f *fakeShowtimeStore) GetOrCreateShowDate(_ context.Context, cinemaID uint, date time.Time) (*model.ShowDate, error) {
	if f.showDate == nil {
		f.showDate = &model.ShowDate{UUIDBase: model.UUIDBase{ID: uuid.New()}, CinemaID: cinemaID, Date: date}
	}
	return f.showDate, nil
}

func (f *fakeShowtimeStore) GetShowDateByID(context.Context, uuid.UUID) (*model.ShowDate, error) {
	return nil, nil
}

func (f *fakeShowtimeStore) CountShowings(context.Context, uint, uuid.UUID) (int64, error) {
	return int64(f.showings), nil
}

func (f *fakeShowtimeStore) InsertShowingsDedup(_ context.Context, rows []model.Showing) (int64, error) {
	f.showings += len(rows)
	return int64(len(rows)), nil
}

func (f *fakeShowtimeStore) ListGrouped(context.Context, uint, uuid.UUID) ([]model.FilmShowtimes, error) {
	return f.grouped, nil
}

type fakeCinemaResolver struct{}

func (fakeCinemaResolver) EnsureByExternalID(context.Context, int) (uint, error) { return 11, nil }

type fakeShowtimeCatalog struct {
	payload *provider.ShowTimesPayload
	calls   int
}

func (f *fakeShowtimeCatalog) CinemaShowTimes(context.Context, int, string) (*provider.ShowTimesPayload, error) {
	f.calls++
	return f.payload, nil
}

type fakeLandmarkStore struct{ rows []model.Landmark }

func (f *fakeLandmarkStore) FindWithinBBox(context.Context, model.BBox, int) ([]model.Landmark, error) {
	return f.rows, nil
}
func (f *fakeLandmarkStore) BulkUpsert(_ context.Context, rows []model.Landmark) (int64, error) {
	f.rows = append(f.rows, rows...)
	return int64(len(rows)), nil
}

type fakeLandmarkCatalog struct{ fc *provider.FeatureCollection }

func (f *fakeLandmarkCatalog) Landmarks(context.Context, model.BBox, int) (*provider.FeatureCollection, error) {
	if f.fc == nil {
		return provider.EmptyFeatureCollection(), nil
	}
	return f.fc, nil
}

type fakePosterStore struct{}

func (fakePosterStore) ListByFilmID(context.Context, uuid.UUID) ([]model.PosterImage, error) {
	return []model.PosterImage{}, nil
}
func (fakePosterStore) ExistsForFilm(context.Context, uuid.UUID) (bool, error) { return false, nil }
func (fakePosterStore) BulkInsert(context.Context, []model.PosterImage) error  { return nil }
func (fakePosterStore) Delete(context.Context, uuid.UUID) error                { return nil }
func (fakePosterStore) Latest(context.Context, int) ([]model.PosterImage, error) {
	return []model.PosterImage{}, nil
}
func (fakePosterStore) MapByImdbTitleIDs(context.Context, []string) (map[string]string, error) {
	return map[string]string{}, nil
}

type fakeImageCatalog struct{}

func (fakeImageCatalog) FilmImages(context.Context, int, string, string) (*provider.ImagesPayload, error) {
	return &provider.ImagesPayload{Poster: map[string]provider.ImageEntry{
		"1": {Medium: &provider.ImageVariant{FilmImage: "https://img/p.jpg"}},
	}}, nil
}
func (fakeImageCatalog) DownloadImage(context.Context, string) ([]byte, error) {
	return []byte("jpeg"), nil
}

type appDeps struct {
	cinemaCatalog   *fakeCinemaCatalog
	showtimeCatalog *fakeShowtimeCatalog
	showtimeStore   *fakeShowtimeStore
	geo             *fakeGeo
	landmarkStore   *fakeLandmarkStore
	landmarkCatalog *fakeLandmarkCatalog
}

// newRoutedApp wires the real services over in-memory fakes and mounts
// the production routes.
func newRoutedApp(t *testing.T, deps *appDeps) *fiber.App {
	t.Helper()

	if deps == nil {
		deps = &appDeps{}
	}
	if deps.geo == nil {
		deps.geo = &fakeGeo{point: &model.GeoPoint{Latitude: 40.7484, Longitude: -73.9967}}
	}
	if deps.cinemaCatalog == nil {
		deps.cinemaCatalog = &fakeCinemaCatalog{}
	}
	if deps.showtimeStore == nil {
		deps.showtimeStore = newFakeShowtimeStore()
	}
	if deps.showtimeCatalog == nil {
		deps.showtimeCatalog = &fakeShowtimeCatalog{payload: &provider.ShowTimesPayload{Films: []provider.PayloadFilm{}}}
	}
	if deps.landmarkStore == nil {
		deps.landmarkStore = &fakeLandmarkStore{}
	}
	if deps.landmarkCatalog == nil {
		deps.landmarkCatalog = &fakeLandmarkCatalog{}
	}

	cinemas := service.NewCinemaService(&fakeCinemaStore{}, deps.geo, deps.cinemaCatalog, true, 1)
	showtimes := service.NewShowtimeService(deps.showtimeStore, fakeCinemaResolver{}, deps.showtimeCatalog)
	landmarks := service.NewLandmarkService(deps.landmarkStore, deps.landmarkCatalog, deps.geo, 1)
	posters := service.NewPosterService(fakePosterStore{}, fakeImageCatalog{})

	handler.Init(cache.New(newMemStore(), nil), cinemas, showtimes, landmarks, posters)

	app := fiber.New()
	router.SetupRoutes(app)
	return app
}

func doJSON(t *testing.T, app *fiber.App, method, target string, body io.Reader) (*http.Response, map[string]any) {
	t.Helper()
	req := httptest.NewRequest(method, target, body)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	out := map[string]any{}
	if len(raw) > 0 {
		require.NoError(t, json.Unmarshal(raw, &out), "body: %s", raw)
	}
	return resp, out
}

func TestCinemasValidation(t *testing.T) {
	app := newRoutedApp(t, nil)

	resp, _ := doJSON(t, app, http.MethodGet, "/api/cinemas", nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, _ = doJSON(t, app, http.MethodGet, "/api/cinemas?zip=1234", nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, _ = doJSON(t, app, http.MethodGet, "/api/cinemas?zip=abcde", nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestCinemasFreshIngestAndCacheHit(t *testing.T) {
	deps := &appDeps{cinemaCatalog: &fakeCinemaCatalog{results: []provider.CinemaResult{
		{CinemaID: 8842, Name: "AMC Empire 25"},
	}}}
	app := newRoutedApp(t, deps)

	resp, body := doJSON(t, app, http.MethodGet, "/api/cinemas?zip=10001", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, true, body["ok"])
	assert.Equal(t, "10001", body["zip"])
	require.Len(t, body["cinemas"], 1)
	assert.Equal(t, 1, deps.cinemaCatalog.calls)

	// Second identical request is served from the response cache.
	resp, body2 := doJSON(t, app, http.MethodGet, "/api/cinemas?zip=10001", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, body["cinemas"], body2["cinemas"])
	assert.Equal(t, 1, deps.cinemaCatalog.calls, "cache hit must not reach the provider")
}

func TestCinemasDegradedNeverErrors(t *testing.T) {
	deps := &appDeps{geo: &fakeGeo{point: nil}}
	app := newRoutedApp(t, deps)

	resp, body := doJSON(t, app, http.MethodGet, "/api/cinemas?zip=10001", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, true, body["ok"])
	assert.Empty(t, body["cinemas"])
	assert.NotEmpty(t, body["note"])
}

func TestShowtimesValidation(t *testing.T) {
	app := newRoutedApp(t, nil)

	resp, _ := doJSON(t, app, http.MethodGet, "/api/cinemaShowTimes?date=2026-09-01", nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, _ = doJSON(t, app, http.MethodGet, "/api/cinemaShowTimes?cinema_id=8842&date=tomorrow", nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, _ = doJSON(t, app, http.MethodGet, "/api/cinemaShowTimes?cinema_id=8842&date=2026-09-01&show_date_id=nope", nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestShowtimesIngestThenRepeatIsStable(t *testing.T) {
	payload := &provider.ShowTimesPayload{Films: []provider.PayloadFilm{
		{
			ImdbTitleID: "tt0133093",
			FilmName:    "The Matrix",
			Showings: map[string]provider.PayloadFormat{
				"Standard": {Times: []provider.PayloadTime{{StartTime: "12:30:00"}}},
			},
		},
		{
			ImdbTitleID: "tt1375666",
			FilmName:    "Inception",
			Showings: map[string]provider.PayloadFormat{
				"IMAX": {Times: []provider.PayloadTime{{StartTime: "20:00:00"}}},
			},
		},
	}}
	store := newFakeShowtimeStore()
	store.grouped = []model.FilmShowtimes{
		{Title: "Inception", ImdbTitleID: "tt1375666", Times: []model.ShowtimeEntry{{StartTime: "20:00:00"}}},
		{Title: "The Matrix", ImdbTitleID: "tt0133093", Times: []model.ShowtimeEntry{{StartTime: "12:30:00"}}},
	}
	deps := &appDeps{showtimeStore: store, showtimeCatalog: &fakeShowtimeCatalog{payload: payload}}
	app := newRoutedApp(t, deps)

	resp, first := doJSON(t, app, http.MethodGet, "/api/cinemaShowTimes?cinema_id=8842&date=2026-09-01", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, true, first["ok"])
	assert.Equal(t, "provider", first["source"])
	require.Len(t, first["films"], 2)

	resp, second := doJSON(t, app, http.MethodGet, "/api/cinemaShowTimes?cinema_id=8842&date=2026-09-01", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, first["films"], second["films"], "repeat requests return identical output")
	assert.Equal(t, 1, deps.showtimeCatalog.calls)
}

func TestShowtimesEmptyProviderIsSafe200(t *testing.T) {
	app := newRoutedApp(t, nil)

	resp, body := doJSON(t, app, http.MethodGet, "/api/cinemaShowTimes?cinema_id=8842&date=2026-09-01", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, true, body["ok"])
	assert.Empty(t, body["films"])
	assert.NotEmpty(t, body["note"])
}

func TestLandmarksValidation(t *testing.T) {
	app := newRoutedApp(t, nil)

	// Missing coordinates.
	resp, _ := doJSON(t, app, http.MethodGet, "/api/landmarks?west=-74", nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	// Inverted ordering.
	resp, _ = doJSON(t, app, http.MethodGet, "/api/landmarks?west=-73.9&south=40.6&east=-74&north=40.8", nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	// Span beyond the configured max.
	resp, _ = doJSON(t, app, http.MethodGet, "/api/landmarks?west=-80&south=30&east=-70&north=45", nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestLandmarksByZipUnknownZipIsValidEmptyCollection(t *testing.T) {
	deps := &appDeps{geo: &fakeGeo{point: nil}}
	app := newRoutedApp(t, deps)

	resp, body := doJSON(t, app, http.MethodGet, "/api/landmarks/by-zip?zip=99999", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "FeatureCollection", body["type"])
	assert.Empty(t, body["features"])
}

func TestLandmarksByZipRadiusValidation(t *testing.T) {
	app := newRoutedApp(t, nil)

	resp, _ := doJSON(t, app, http.MethodGet, "/api/landmarks/by-zip?zip=10001&radiusMi=500", nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestPosterFetchValidation(t *testing.T) {
	app := newRoutedApp(t, nil)

	resp, _ := doJSON(t, app, http.MethodPost, "/api/moviePosters/fetch",
		strings.NewReader(`{"movieGluFilmId": 7772}`))
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode, "filmId is required")

	resp, _ = doJSON(t, app, http.MethodPost, "/api/moviePosters/fetch",
		strings.NewReader(`{"filmId": "`+uuid.NewString()+`"}`))
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode, "movieGluFilmId is required")
}

func TestPosterFetchCreates(t *testing.T) {
	app := newRoutedApp(t, nil)

	resp, body := doJSON(t, app, http.MethodPost, "/api/moviePosters/fetch",
		strings.NewReader(`{"filmId": "`+uuid.NewString()+`", "movieGluFilmId": 7772}`))
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, true, body["ok"])
	assert.Equal(t, false, body["cached"])
	assert.Len(t, body["images"], 1)
}

func TestPosterDeleteValidatesUUID(t *testing.T) {
	app := newRoutedApp(t, nil)

	resp, _ := doJSON(t, app, http.MethodDelete, "/api/moviePosters/not-a-uuid", nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, body := doJSON(t, app, http.MethodDelete, "/api/moviePosters/"+uuid.NewString(), nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, true, body["ok"])
}
