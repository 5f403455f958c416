package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"movie_marathon/config"
	"net/http"
	"net/url"
	"time"
)

// MovieGlu is the cinema/showtime/image catalog adapter.
type MovieGlu struct {
	BaseURL string
	Client  *http.Client
	Timeout time.Duration
}

func NewMovieGlu() *MovieGlu {
	base := config.Config("MG_BASE_URL")
	if base == "" {
		base = "https://api-gate2.movieglu.com"
	}
	return &MovieGlu{
		BaseURL: base,
		Client:  &http.Client{},
		Timeout: config.HTTPTimeout(),
	}
}

func (m *MovieGlu) timeout() time.Duration {
	if m.Timeout > 0 {
		return m.Timeout
	}
	return defaultTimeout
}

func (m *MovieGlu) setHeaders(req *http.Request, geolocation string) {
	req.Header.Set("client", config.Config("MG_CLIENT"))
	req.Header.Set("x-api-key", config.Config("MG_API_KEY"))
	req.Header.Set("Authorization", config.Config("MG_AUTH"))
	territory := config.Config("MG_TERRITORY")
	if territory == "" {
		territory = "US"
	}
	req.Header.Set("territory", territory)
	version := config.Config("MG_API_VERSION")
	if version == "" {
		version = "v201"
	}
	req.Header.Set("api-version", version)
	agent := config.Config("MG_USER_AGENT")
	if agent == "" {
		agent = "MovieMarathonBackend"
	}
	req.Header.Set("user-agent", agent)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("device-datetime", time.Now().UTC().Format("2006-01-02T15:04:05")+"Z")
	if geolocation != "" {
		req.Header.Set("geolocation", geolocation)
	}
}

// CinemaResult is the canonical cinema shape after normalization.
type CinemaResult struct {
	CinemaID  int
	Name      string
	Address   string
	Address2  string
	City      string
	State     string
	Postcode  string
	Country   string
	Latitude  *float64
	Longitude *float64
	Distance  float64
}

// rawCinema tolerates the alternative field names different MovieGlu
// versions use for coordinates.
type rawCinema struct {
	CinemaID   int      `json:"cinema_id"`
	CinemaName string   `json:"cinema_name"`
	Address    string   `json:"address"`
	Address2   string   `json:"address2"`
	City       string   `json:"city"`
	State      string   `json:"state"`
	Postcode   jsonText `json:"postcode"`
	County     string   `json:"county"`
	Country    string   `json:"country"`
	Lat        *float64 `json:"lat"`
	Latitude   *float64 `json:"latitude"`
	Lng        *float64 `json:"lng"`
	Lon        *float64 `json:"lon"`
	Longitude  *float64 `json:"longitude"`
	Distance   float64  `json:"distance"`
}

// jsonText accepts a JSON string or number and keeps the text; some
// territories return numeric postcodes.
type jsonText string

func (t *jsonText) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || string(b) == "null" {
		*t = ""
		return nil
	}
	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*t = jsonText(s)
		return nil
	}
	*t = jsonText(b)
	return nil
}

func firstFloat(candidates ...*float64) *float64 {
	for _, c := range candidates {
		if c != nil {
			return c
		}
	}
	return nil
}

func normalizeCinema(r rawCinema) CinemaResult {
	return CinemaResult{
		CinemaID:  r.CinemaID,
		Name:      r.CinemaName,
		Address:   r.Address,
		Address2:  r.Address2,
		City:      r.City,
		State:     r.State,
		Postcode:  string(r.Postcode),
		Country:   r.Country,
		Latitude:  firstFloat(r.Lat, r.Latitude),
		Longitude: firstFloat(r.Lng, r.Lon, r.Longitude),
		Distance:  r.Distance,
	}
}

// CinemasNearby fetches theaters around a coordinate. Soft failures
// return an empty slice with a nil error.
func (m *MovieGlu) CinemasNearby(ctx context.Context, lat, lon float64) ([]CinemaResult, error) {
	ctx, cancel := context.WithTimeout(ctx, m.timeout())
	defer cancel()

	u := fmt.Sprintf("%s/cinemasNearby/?n=%d", m.BaseURL, 10)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	m.setHeaders(req, fmt.Sprintf("%.4f;%.4f", lat, lon))

	body, ok, err := doGet(m.Client, req)
	if err != nil {
		return nil, err
	}
	if !ok || len(bytes.TrimSpace(body)) == 0 {
		return []CinemaResult{}, nil
	}

	var payload struct {
		Cinemas []rawCinema `json:"cinemas"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		log.Printf("[movieglu] cinemasNearby: invalid JSON, returning empty: %.120s", body)
		return []CinemaResult{}, nil
	}
	out := make([]CinemaResult, 0, len(payload.Cinemas))
	for _, r := range payload.Cinemas {
		out = append(out, normalizeCinema(r))
	}
	return out, nil
}

// ShowTimesPayload is the full cinemaShowTimes response; the repo layer
// needs both the cinema block and the films for upserts.
type ShowTimesPayload struct {
	Cinema *PayloadCinema `json:"cinema"`
	Films  []PayloadFilm  `json:"films"`
}

type PayloadCinema struct {
	CinemaID   int    `json:"cinema_id"`
	CinemaName string `json:"cinema_name"`
}

type PayloadFilm struct {
	FilmID       int                      `json:"film_id"`
	ImdbID       *int64                   `json:"imdb_id"`
	ImdbTitleID  string                   `json:"imdb_title_id"`
	FilmName     string                   `json:"film_name"`
	Synopsis     string                   `json:"synopsis"`
	DurationMins *int                     `json:"duration_mins"`
	VersionType  string                   `json:"version_type"`
	Showings     map[string]PayloadFormat `json:"showings"`
}

// PayloadFormat is one format block ("Standard", "3D", "IMAX", ...).
type PayloadFormat struct {
	FilmID int           `json:"film_id"`
	Times  []PayloadTime `json:"times"`
}

type PayloadTime struct {
	StartTime   string `json:"start_time"`
	Time        string `json:"time"`
	Datetime    string `json:"datetime"`
	DisplayTime string `json:"display_time"`
	Display     string `json:"display"`
}

func emptyShowTimes() *ShowTimesPayload {
	return &ShowTimesPayload{Films: []PayloadFilm{}}
}

// CinemaShowTimes fetches the showtime catalog for one cinema and date.
// Rate limits, timeouts and unusable bodies come back as an explicit
// empty-films payload, never an error.
func (m *MovieGlu) CinemaShowTimes(ctx context.Context, cinemaID int, dateISO string) (*ShowTimesPayload, error) {
	ctx, cancel := context.WithTimeout(ctx, m.timeout())
	defer cancel()

	u := fmt.Sprintf("%s/cinemaShowTimes/?cinema_id=%d&date=%s&sort=popularity",
		m.BaseURL, cinemaID, url.QueryEscape(dateISO))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	m.setHeaders(req, "")

	body, ok, err := doGet(m.Client, req)
	if err != nil {
		return nil, err
	}
	if !ok || len(bytes.TrimSpace(body)) == 0 {
		return emptyShowTimes(), nil
	}

	var payload ShowTimesPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		log.Printf("[movieglu] cinemaShowTimes: invalid JSON, returning empty: %.120s", body)
		return emptyShowTimes(), nil
	}
	if payload.Films == nil {
		payload.Films = []PayloadFilm{}
	}
	return &payload, nil
}

// ImagesPayload is the films/images response, keyed first by group
// (poster/still), then by an arbitrary ref key per image.
type ImagesPayload struct {
	Poster map[string]ImageEntry `json:"poster"`
	Still  map[string]ImageEntry `json:"still"`
}

type ImageEntry struct {
	Region           string        `json:"region"`
	ImageOrientation string        `json:"image_orientation"`
	XXLarge          *ImageVariant `json:"XXLarge"`
	XLarge           *ImageVariant `json:"XLarge"`
	Large            *ImageVariant `json:"large"`
	Medium           *ImageVariant `json:"medium"`
	Small            *ImageVariant `json:"small"`
}

type ImageVariant struct {
	FilmImage string `json:"film_image"`
	Width     int    `json:"width"`
	Height    int    `json:"height"`
}

// FilmImages fetches poster/still metadata for one film.
func (m *MovieGlu) FilmImages(ctx context.Context, filmID int, sizeCategory, orientation string) (*ImagesPayload, error) {
	ctx, cancel := context.WithTimeout(ctx, m.timeout())
	defer cancel()

	q := url.Values{}
	q.Set("film_id", fmt.Sprint(filmID))
	if sizeCategory != "" {
		q.Set("size_category", sizeCategory)
	}
	if orientation != "" {
		q.Set("orientation", orientation)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, m.BaseURL+"/images/?"+q.Encode(), nil)
	if err != nil {
		return nil, err
	}
	m.setHeaders(req, "")

	body, ok, err := doGet(m.Client, req)
	if err != nil {
		return nil, err
	}
	if !ok || len(bytes.TrimSpace(body)) == 0 {
		return &ImagesPayload{}, nil
	}

	var payload ImagesPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		log.Printf("[movieglu] images: invalid JSON, returning empty: %.120s", body)
		return &ImagesPayload{}, nil
	}
	return &payload, nil
}

// DownloadImage pulls raw image bytes from a variant URL.
func (m *MovieGlu) DownloadImage(ctx context.Context, imageURL string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, m.timeout())
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, imageURL, nil)
	if err != nil {
		return nil, err
	}
	resp, err := m.Client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &Error{Status: resp.StatusCode}
	}
	return io.ReadAll(resp.Body)
}
