package model

// GeoPoint is a WGS84 coordinate pair.
type GeoPoint struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// BBox is a WGS84 bounding box: west/east are longitudes, south/north
// latitudes, with west < east and south < north.
type BBox struct {
	West  float64 `json:"west"`
	South float64 `json:"south"`
	East  float64 `json:"east"`
	North float64 `json:"north"`
}

func (b BBox) SpanLon() float64 { return b.East - b.West }
func (b BBox) SpanLat() float64 { return b.North - b.South }
