package geospatial

import (
	"fmt"
	"net/url"
	"strconv"
	"time"
)

// StaticMapBaseURL is the OpenStreetMap static map renderer.
const StaticMapBaseURL = "https://staticmap.openstreetmap.de/staticmap.php"

// StaticMapURL builds a preview image URL centered on lat/lon with a pushpin.
// The ts parameter busts image caches so a moved pin is re-rendered.
func StaticMapURL(lat, lon float64, zoom, width, height int, at time.Time) string {
	center := fmt.Sprintf("%f,%f", lat, lon)
	q := url.Values{}
	q.Set("center", center)
	q.Set("zoom", strconv.Itoa(zoom))
	q.Set("size", fmt.Sprintf("%dx%d", width, height))
	q.Set("markers", center+",red-pushpin")
	q.Set("ts", strconv.FormatInt(at.UnixMilli(), 10))
	return StaticMapBaseURL + "?" + q.Encode()
}
