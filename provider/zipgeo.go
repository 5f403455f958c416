package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"log"
	"math"
	"movie_marathon/config"
	"movie_marathon/model"
	"net/http"
	"strconv"
	"time"
)

const milesPerDegree = 69.0

// ZipGeo resolves US ZIP codes to coordinates via a Zippopotam-style
// service. Resolution failure is soft: callers get a nil point, not an
// error, and fall back to whatever local data they have.
type ZipGeo struct {
	BaseURL string
	Client  *http.Client
	Timeout time.Duration
}

func NewZipGeo() *ZipGeo {
	base := config.Config("ZIP_API_BASE_URL")
	if base == "" {
		base = "https://api.zippopotam.us"
	}
	return &ZipGeo{
		BaseURL: base,
		Client:  &http.Client{},
		Timeout: config.HTTPTimeout(),
	}
}

func (z *ZipGeo) timeout() time.Duration {
	if z.Timeout > 0 {
		return z.Timeout
	}
	return defaultTimeout
}

// ZipToGeo resolves a ZIP to its coordinate. Unknown ZIPs, rate limits
// and timeouts all yield (nil, nil).
func (z *ZipGeo) ZipToGeo(ctx context.Context, zip string) (*model.GeoPoint, error) {
	ctx, cancel := context.WithTimeout(ctx, z.timeout())
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, z.BaseURL+"/us/"+zip, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := z.Client.Do(req)
	if err != nil {
		if canceled(err) {
			return nil, nil
		}
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		// Zippopotam answers 404 for unknown ZIPs.
		log.Printf("[zipgeo] lookup failed for %s: status %d", zip, resp.StatusCode)
		return nil, nil
	}

	body := new(bytes.Buffer)
	if _, err := body.ReadFrom(resp.Body); err != nil {
		return nil, nil
	}

	// Coordinates arrive as JSON strings.
	var payload struct {
		Places []struct {
			Latitude  string `json:"latitude"`
			Longitude string `json:"longitude"`
		} `json:"places"`
	}
	if err := json.Unmarshal(body.Bytes(), &payload); err != nil || len(payload.Places) == 0 {
		log.Printf("[zipgeo] unusable body for %s", zip)
		return nil, nil
	}
	lat, err1 := strconv.ParseFloat(payload.Places[0].Latitude, 64)
	lon, err2 := strconv.ParseFloat(payload.Places[0].Longitude, 64)
	if err1 != nil || err2 != nil {
		return nil, nil
	}
	return &model.GeoPoint{Latitude: lat, Longitude: lon}, nil
}

// ZipToBBox resolves the ZIP and expands a planar box around it:
// latitude delta = radius/69 miles-per-degree, longitude delta =
// radius/(69*cos(lat)). The radius is clamped to the configured max.
func (z *ZipGeo) ZipToBBox(ctx context.Context, zip string, radiusMi float64) (*model.BBox, error) {
	if radiusMi <= 0 {
		radiusMi = 5
	}
	if max := config.MaxZipRadiusMiles(); radiusMi > max {
		radiusMi = max
	}

	geo, err := z.ZipToGeo(ctx, zip)
	if err != nil || geo == nil {
		return nil, err
	}

	dLat := radiusMi / milesPerDegree
	dLon := radiusMi / (milesPerDegree * math.Cos(geo.Latitude*math.Pi/180))
	return &model.BBox{
		West:  geo.Longitude - dLon,
		South: geo.Latitude - dLat,
		East:  geo.Longitude + dLon,
		North: geo.Latitude + dLat,
	}, nil
}
