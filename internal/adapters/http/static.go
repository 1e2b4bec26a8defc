package http

import (
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
)

// MapPageName is the file the desktop opens in the browser.
const MapPageName = "map.html"

//go:embed assets/map.html
var mapPage []byte

// MapPage returns the embedded Leaflet page.
func MapPage() []byte {
	return mapPage
}

// WriteMapPage writes the map page into dir, creating dir when needed. It is
// called once before the bridge starts; the server only reads dir afterwards.
func WriteMapPage(dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create static dir: %w", err)
	}
	path := filepath.Join(dir, MapPageName)
	if err := os.WriteFile(path, mapPage, 0o644); err != nil {
		return fmt.Errorf("write map page: %w", err)
	}
	return nil
}
