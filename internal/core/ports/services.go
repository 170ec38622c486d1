package ports

import (
	"context"

	"github.com/shopwindow/shopwindow/internal/core/domain"
)

// Geocoder resolves a postal address to a coordinate. Implementations
// own their own timeout and retry policy; the core never retries.
type Geocoder interface {
	Geocode(ctx context.Context, addr domain.Address) (domain.GeoPoint, error)
}

// CacheService provides read-through caching.
type CacheService interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttlSeconds int) error
	Delete(ctx context.Context, key string) error
}

// EventPublisher publishes entity lifecycle events to a message broker.
type EventPublisher interface {
	PublishCenterCreated(ctx context.Context, c *domain.ShoppingCenter) error
	PublishCenterGeocoded(ctx context.Context, c *domain.ShoppingCenter) error
	PublishImportCompleted(ctx context.Context, b *domain.ImportBatch) error
}
