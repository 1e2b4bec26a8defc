// Package pickstore holds the single most recent coordinate picked on the
// browser map. The bridge server writes it; the desktop UI reads it.
package pickstore

import (
	"sync"
	"time"

	"github.com/samirrijal/siara/internal/core/domain"
)

// Store is a single-slot, concurrency-safe holder for a PickedCoordinate.
// The zero value is ready to use and reports an absent pick.
type Store struct {
	mu  sync.RWMutex
	cur domain.PickedCoordinate
	now func() time.Time
}

// New creates an empty Store.
func New() *Store {
	return &Store{now: time.Now}
}

// Set replaces the stored pair. Both fields change together.
func (s *Store) Set(lat, lon float64) {
	at := time.Now()
	if s.now != nil { // zero Store
		at = s.now()
	}

	s.mu.Lock()
	s.cur = domain.PickedCoordinate{Lat: lat, Lon: lon, Present: true, PickedAt: at}
	s.mu.Unlock()
}

// Get returns a copy of the current pick, possibly absent.
func (s *Store) Get() domain.PickedCoordinate {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cur
}
