package geospatial_test

import (
	"math"
	"strings"
	"testing"
	"time"

	"github.com/samirrijal/siara/internal/pkg/geospatial"
)

func TestHaversine(t *testing.T) {
	// Praça da Sé to Avenida Paulista, roughly 2.6 km.
	d := geospatial.Haversine(-23.5505, -46.6333, -23.5614, -46.6559)
	if d < 2000 || d > 2800 {
		t.Errorf("expected ~2.6km, got %.0fm", d)
	}
	if geospatial.Haversine(10, 10, 10, 10) != 0 {
		t.Error("distance to self should be zero")
	}
}

func TestBoundingBoxContainsRadius(t *testing.T) {
	lat, lon := -23.55, -46.63
	minLat, minLon, maxLat, maxLon := geospatial.BoundingBox(lat, lon, 1000)
	if !(minLat < lat && lat < maxLat && minLon < lon && lon < maxLon) {
		t.Fatal("center must be inside box")
	}
	// A point 900m north must be inside.
	north := lat + 900/111320.0
	if north > maxLat {
		t.Errorf("point 900m north outside box (max %.6f, got %.6f)", maxLat, north)
	}
}

func TestNormalizeLon(t *testing.T) {
	tests := []struct {
		in, want float64
	}{
		{0, 0},
		{180, 180},
		{-180, -180},
		{190, -170},
		{-190, 170},
		{540, 180 - 360},
		{-46.63 - 360, -46.63},
	}
	for _, tt := range tests {
		got := geospatial.NormalizeLon(tt.in)
		if math.Abs(got-tt.want) > 1e-9 {
			t.Errorf("NormalizeLon(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestValidLatLon(t *testing.T) {
	if !geospatial.ValidLatLon(-23.55, -46.63) {
		t.Error("expected valid")
	}
	if geospatial.ValidLatLon(91, 0) || geospatial.ValidLatLon(0, 181) {
		t.Error("out of range accepted")
	}
	if geospatial.ValidLatLon(math.NaN(), 0) || geospatial.ValidLatLon(0, math.Inf(1)) {
		t.Error("non-finite accepted")
	}
}

func TestStaticMapURL(t *testing.T) {
	u := geospatial.StaticMapURL(-23.55, -46.63, 15, 600, 300, time.UnixMilli(1700000000000))
	if !strings.HasPrefix(u, geospatial.StaticMapBaseURL+"?") {
		t.Fatalf("unexpected base: %s", u)
	}
	for _, want := range []string{"zoom=15", "size=600x300", "ts=1700000000000", "red-pushpin"} {
		if !strings.Contains(u, want) {
			t.Errorf("url %q missing %q", u, want)
		}
	}
}
