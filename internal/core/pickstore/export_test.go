package pickstore

import "time"

// SetClock replaces the time source.
func (s *Store) SetClock(now func() time.Time) { s.now = now }
