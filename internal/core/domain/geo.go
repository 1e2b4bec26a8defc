package domain

import "time"

// GeoPoint represents a geographic coordinate (WGS 84).
type GeoPoint struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// Bounds represents a geographic bounding box.
type Bounds struct {
	MinLat float64 `json:"min_lat"`
	MinLon float64 `json:"min_lon"`
	MaxLat float64 `json:"max_lat"`
	MaxLon float64 `json:"max_lon"`
}

// Contains reports whether p lies inside the box (edges included).
func (b Bounds) Contains(p GeoPoint) bool {
	return p.Lat >= b.MinLat && p.Lat <= b.MaxLat && p.Lon >= b.MinLon && p.Lon <= b.MaxLon
}

// PickedCoordinate is the last coordinate clicked on the browser map.
// Lat and Lon are meaningful only when Present is true.
type PickedCoordinate struct {
	Lat      float64   `json:"lat"`
	Lon      float64   `json:"lon"`
	Present  bool      `json:"present"`
	PickedAt time.Time `json:"picked_at"`
}

// Point returns the pick as a GeoPoint, if present.
func (p PickedCoordinate) Point() (GeoPoint, bool) {
	if !p.Present {
		return GeoPoint{}, false
	}
	return GeoPoint{Lat: p.Lat, Lon: p.Lon}, true
}

// ReportMarker is the map-facing projection of a lost or found posting.
// Lat/Lon are null when the posting has no coordinates; the page skips those.
type ReportMarker struct {
	Type  ReportType `json:"type"`
	Title string     `json:"title"`
	Desc  string     `json:"desc"`
	Lat   *float64   `json:"lat"`
	Lon   *float64   `json:"lon"`
}

// NearbyMarker is a marker with its distance in meters from a query point.
type NearbyMarker struct {
	ReportMarker
	ReportID string  `json:"report_id"`
	Distance float64 `json:"distance"`
}
