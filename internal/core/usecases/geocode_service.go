package usecases

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/samirrijal/siara/internal/core/domain"
	"github.com/samirrijal/siara/internal/core/ports"
	"github.com/samirrijal/siara/internal/pkg/metrics"
)

// GeocodeService wraps a Geocoder with rate limiting and read-through
// caching. "Not found" answers are cached too; provider failures are not.
type GeocodeService struct {
	geocoder ports.Geocoder
	cache    ports.CacheService
	limiter  *rate.Limiter
	ttl      int
}

type cachedGeocode struct {
	Found   bool    `json:"found"`
	Lat     float64 `json:"lat,omitempty"`
	Lon     float64 `json:"lon,omitempty"`
	Address string  `json:"address,omitempty"`
}

// NewGeocodeService creates a new GeocodeService. Provider calls are spaced
// at least minInterval apart; cache may be nil.
func NewGeocodeService(geocoder ports.Geocoder, cache ports.CacheService, minInterval time.Duration, ttlSeconds int) *GeocodeService {
	limit := rate.Inf
	if minInterval > 0 {
		limit = rate.Every(minInterval)
	}
	return &GeocodeService{
		geocoder: geocoder,
		cache:    cache,
		limiter:  rate.NewLimiter(limit, 1),
		ttl:      ttlSeconds,
	}
}

// Forward resolves an address to a coordinate.
func (s *GeocodeService) Forward(ctx context.Context, address string) (domain.GeoPoint, bool, error) {
	address = strings.TrimSpace(address)
	if address == "" {
		return domain.GeoPoint{}, false, nil
	}

	key := "geocode:fwd:" + strings.ToLower(address)
	if c, ok := s.lookup(ctx, key, "forward"); ok {
		return domain.GeoPoint{Lat: c.Lat, Lon: c.Lon}, c.Found, nil
	}

	if err := s.limiter.Wait(ctx); err != nil {
		return domain.GeoPoint{}, false, fmt.Errorf("geocode rate limit: %w", err)
	}
	p, found, err := s.geocoder.Forward(ctx, address)
	if err != nil {
		metrics.GeocodeRequests.WithLabelValues("forward", "error").Inc()
		return domain.GeoPoint{}, false, fmt.Errorf("forward geocode: %w", err)
	}
	metrics.GeocodeRequests.WithLabelValues("forward", resultLabel(found)).Inc()

	s.store(ctx, key, cachedGeocode{Found: found, Lat: p.Lat, Lon: p.Lon})
	return p, found, nil
}

// Reverse resolves a coordinate to a human-readable address.
func (s *GeocodeService) Reverse(ctx context.Context, p domain.GeoPoint) (string, bool, error) {
	key := fmt.Sprintf("geocode:rev:%.6f,%.6f", p.Lat, p.Lon)
	if c, ok := s.lookup(ctx, key, "reverse"); ok {
		return c.Address, c.Found, nil
	}

	if err := s.limiter.Wait(ctx); err != nil {
		return "", false, fmt.Errorf("geocode rate limit: %w", err)
	}
	address, found, err := s.geocoder.Reverse(ctx, p)
	if err != nil {
		metrics.GeocodeRequests.WithLabelValues("reverse", "error").Inc()
		return "", false, fmt.Errorf("reverse geocode: %w", err)
	}
	metrics.GeocodeRequests.WithLabelValues("reverse", resultLabel(found)).Inc()

	s.store(ctx, key, cachedGeocode{Found: found, Address: address})
	return address, found, nil
}

func (s *GeocodeService) lookup(ctx context.Context, key, op string) (cachedGeocode, bool) {
	var c cachedGeocode
	if s.cache == nil {
		return c, false
	}
	data, err := s.cache.Get(ctx, key)
	if err != nil {
		metrics.CacheMisses.WithLabelValues("geocode_" + op).Inc()
		return c, false
	}
	if err := json.Unmarshal(data, &c); err != nil {
		// Unreadable entry: drop it so a failed lookup does not keep hitting it.
		_ = s.cache.Delete(ctx, key)
		metrics.CacheMisses.WithLabelValues("geocode_" + op).Inc()
		return c, false
	}
	metrics.CacheHits.WithLabelValues("geocode_" + op).Inc()
	return c, true
}

func (s *GeocodeService) store(ctx context.Context, key string, c cachedGeocode) {
	if s.cache == nil {
		return
	}
	if data, err := json.Marshal(c); err == nil {
		_ = s.cache.Set(ctx, key, data, s.ttl)
	}
}

func resultLabel(found bool) string {
	if found {
		return "found"
	}
	return "not_found"
}
