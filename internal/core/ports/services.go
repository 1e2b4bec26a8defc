package ports

import (
	"context"
	"errors"

	"github.com/samirrijal/siara/internal/core/domain"
)

// Geocoder resolves addresses to coordinates and back.
// found is false when the provider has no answer; err is reserved for failures.
type Geocoder interface {
	Forward(ctx context.Context, address string) (point domain.GeoPoint, found bool, err error)
	Reverse(ctx context.Context, point domain.GeoPoint) (address string, found bool, err error)
}

// ErrCacheMiss is returned by CacheService.Get when the key is absent or expired.
var ErrCacheMiss = errors.New("cache miss")

// CacheService provides read-through caching.
type CacheService interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttlSeconds int) error
	Delete(ctx context.Context, key string) error
}

// EventPublisher publishes report change events to a message broker.
type EventPublisher interface {
	PublishReportEvent(ctx context.Context, event *domain.ReportEvent) error
}

// EventSubscriber delivers report change events from a message broker.
type EventSubscriber interface {
	SubscribeReportEvents(ctx context.Context, handler func(ctx context.Context, event *domain.ReportEvent) error) error
}

// PickStore holds the most recent coordinate picked on the map.
type PickStore interface {
	Set(lat, lon float64)
	Get() domain.PickedCoordinate
}
