// Package ports declares the interfaces between the advisor core and its
// adapters.
package ports

import (
	"context"
	"time"

	"github.com/sean-rowe/weather-advisor/internal/core/domain"
)

// CacheService is a TTL keyed byte store.
type CacheService interface {
	// Get returns the stored value or cache.ErrCacheMiss when the key is
	// absent or expired.
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Clear(ctx context.Context) error
}

// CacheMetrics records cache effectiveness and upstream degradation per domain.
type CacheMetrics interface {
	RecordCacheHit(ctx context.Context, domain string)
	RecordCacheMiss(ctx context.Context, domain string)
	RecordFallback(ctx context.Context, operation string)
}

// WeatherClient talks to the upstream weather provider. Implementations
// return an error for every failure mode; they never synthesize data.
type WeatherClient interface {
	GetCurrent(ctx context.Context, coords domain.Coordinates) (*domain.WeatherSnapshot, error)
	GetWeekly(ctx context.Context, coords domain.Coordinates) (*domain.WeeklyForecast, error)
}

// WeatherGateway returns weather for a location and never fails. When the
// upstream is unavailable the result is synthesized and marked as fallback.
type WeatherGateway interface {
	FetchCurrent(ctx context.Context, coords domain.Coordinates, at time.Time) domain.WeatherSnapshot
	FetchWeekly(ctx context.Context, coords domain.Coordinates, at time.Time) domain.WeeklyForecast
}
