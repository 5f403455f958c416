package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"math"
	"movie_marathon/config"
	"movie_marathon/model"
	"net/http"
	"net/url"
	"time"
)

// NRHP queries the National Register of Historic Places ArcGIS layer
// for landmarks inside a bounding box.
type NRHP struct {
	BaseURL string
	Client  *http.Client
	Timeout time.Duration
}

func NewNRHP() *NRHP {
	base := config.Config("NPS_NRHP_BASE_URL")
	if base == "" {
		base = "https://mapservices.nps.gov/arcgis/rest/services/cultural_resources/nrhp_locations/MapServer/0/query"
	}
	return &NRHP{
		BaseURL: base,
		Client:  &http.Client{},
		Timeout: config.HTTPTimeout(),
	}
}

func (n *NRHP) timeout() time.Duration {
	if n.Timeout > 0 {
		return n.Timeout
	}
	return defaultTimeout
}

// FeatureCollection is GeoJSON as both providers and consumers speak
// it. Properties stay an open bag; field sets vary by source.
type FeatureCollection struct {
	Type     string    `json:"type"`
	Features []Feature `json:"features"`
}

type Feature struct {
	Type       string            `json:"type"`
	Geometry   *Geometry         `json:"geometry"`
	Properties model.PropertyBag `json:"properties"`
}

type Geometry struct {
	Type        string    `json:"type"`
	Coordinates []float64 `json:"coordinates"`
}

func EmptyFeatureCollection() *FeatureCollection {
	return &FeatureCollection{Type: "FeatureCollection", Features: []Feature{}}
}

// Landmarks fetches NRHP features intersecting the box. The display
// fields are always requested so normalization has them.
func (n *NRHP) Landmarks(ctx context.Context, box model.BBox, limit int) (*FeatureCollection, error) {
	ctx, cancel := context.WithTimeout(ctx, n.timeout())
	defer cancel()

	q := url.Values{}
	q.Set("where", "1=1")
	q.Set("geometry", fmt.Sprintf("%v,%v,%v,%v", box.West, box.South, box.East, box.North))
	q.Set("geometryType", "esriGeometryEnvelope")
	q.Set("inSR", "4326")
	q.Set("spatialRel", "esriSpatialRelIntersects")
	q.Set("outFields", "RESNAME,Address,City,State")
	q.Set("returnGeometry", "true")
	q.Set("f", "geojson")
	if limit > 0 {
		q.Set("resultRecordCount", fmt.Sprint(limit))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, n.BaseURL+"?"+q.Encode(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", "movie-marathon-backend/1.0")
	req.Header.Set("Accept", "application/geo+json, application/json")

	body, ok, err := doGet(n.Client, req)
	if err != nil {
		return nil, err
	}
	if !ok || len(bytes.TrimSpace(body)) == 0 {
		return EmptyFeatureCollection(), nil
	}

	var fc FeatureCollection
	if err := json.Unmarshal(body, &fc); err != nil {
		log.Printf("[nrhp] invalid JSON, returning empty: %.120s", body)
		return EmptyFeatureCollection(), nil
	}
	if fc.Features == nil {
		fc.Features = []Feature{}
	}
	return &fc, nil
}

func roundCoord(v float64) float64 {
	return math.Round(v*1e6) / 1e6
}

func propString(props model.PropertyBag, key string) string {
	if props == nil {
		return ""
	}
	if s, ok := props[key].(string); ok {
		return s
	}
	return ""
}

// NormalizeFeatureCollection turns a raw collection into DB-ready
// landmark rows. Features without a point geometry or a name are
// dropped; coordinates are rounded to the dedupe precision.
func NormalizeFeatureCollection(fc *FeatureCollection) []model.Landmark {
	if fc == nil || fc.Type != "FeatureCollection" {
		return []model.Landmark{}
	}
	out := []model.Landmark{}
	for _, f := range fc.Features {
		if f.Type != "Feature" || f.Geometry == nil {
			continue
		}
		if f.Geometry.Type != "Point" || len(f.Geometry.Coordinates) < 2 {
			continue
		}
		resname := propString(f.Properties, "RESNAME")
		if resname == "" {
			continue
		}
		out = append(out, model.Landmark{
			Resname:    resname,
			Address:    propString(f.Properties, "Address"),
			City:       propString(f.Properties, "City"),
			State:      propString(f.Properties, "State"),
			Longitude:  roundCoord(f.Geometry.Coordinates[0]),
			Latitude:   roundCoord(f.Geometry.Coordinates[1]),
			Source:     "nps_nrhp",
			Properties: f.Properties,
		})
	}
	return out
}

// RowsToFeatureCollection reshapes stored landmarks for the cache-hit
// path, keeping the provider's upper-case property names the frontend
// expects.
func RowsToFeatureCollection(rows []model.Landmark) *FeatureCollection {
	fc := EmptyFeatureCollection()
	for _, r := range rows {
		fc.Features = append(fc.Features, Feature{
			Type: "Feature",
			Geometry: &Geometry{
				Type:        "Point",
				Coordinates: []float64{r.Longitude, r.Latitude},
			},
			Properties: model.PropertyBag{
				"RESNAME": r.Resname,
				"Address": r.Address,
				"City":    r.City,
				"State":   r.State,
			},
		})
	}
	return fc
}
