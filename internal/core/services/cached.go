// Package services implements the advisors, the weekly aggregator and the
// weather gateway on top of the ports.
package services

import (
	"context"
	"errors"
	"time"

	"github.com/goccy/go-json"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/sean-rowe/weather-advisor/internal/core/ports"
	"github.com/sean-rowe/weather-advisor/internal/infrastructure/cache"
)

// Cache domains, used as metric labels.
const (
	domainWeather        = "weather"
	domainWeeklyWeather  = "weekly_weather"
	domainClothing       = "clothing"
	domainItems          = "items"
	domainPollen         = "pollen"
	domainFortune        = "fortune"
	domainWeeklyClothing = "weekly_clothing"
)

// TTLs per cache domain.
const (
	weatherTTL        = 30 * time.Minute
	weeklyWeatherTTL  = 2 * time.Hour
	clothingTTL       = 2 * time.Hour
	itemsTTL          = time.Hour
	pollenTTL         = 24 * time.Hour
	fortuneTTL        = time.Hour
	weeklyClothingTTL = 4 * time.Hour
)

type noopMetrics struct{}

func (noopMetrics) RecordCacheHit(context.Context, string)  {}
func (noopMetrics) RecordCacheMiss(context.Context, string) {}
func (noopMetrics) RecordFallback(context.Context, string)  {}

// resultCache wraps a CacheService with JSON encoding and miss collapsing.
// Store failures never reach the caller; the value is recomputed instead.
type resultCache struct {
	store   ports.CacheService
	metrics ports.CacheMetrics
	group   singleflight.Group
	logger  *zap.Logger
}

func newResultCache(store ports.CacheService, metrics ports.CacheMetrics, logger *zap.Logger) *resultCache {
	if metrics == nil {
		metrics = noopMetrics{}
	}

	return &resultCache{
		store:   store,
		metrics: metrics,
		logger:  logger,
	}
}

// cached returns the value stored under key, or computes, stores and returns
// it. Concurrent misses on the same key share one computation. Errors from
// compute are returned as is and nothing is stored.
func cached[T any](ctx context.Context, rc *resultCache, domain, key string, ttl time.Duration, compute func(ctx context.Context) (T, error)) (T, error) {
	if value, ok := lookup[T](ctx, rc, domain, key); ok {
		return value, nil
	}

	rc.metrics.RecordCacheMiss(ctx, domain)

	v, err, _ := rc.group.Do(key, func() (interface{}, error) {
		value, err := compute(ctx)
		if err != nil {
			return value, err
		}

		rc.save(ctx, domain, key, value, ttl)

		return value, nil
	})

	if err != nil {
		var zero T

		return zero, err
	}

	return v.(T), nil
}

func lookup[T any](ctx context.Context, rc *resultCache, domain, key string) (T, bool) {
	var value T

	data, err := rc.store.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, cache.ErrCacheMiss) {
			rc.logger.Warn("cache read failed, recomputing",
				zap.String("domain", domain),
				zap.String("key", key),
				zap.Error(err))
		}

		return value, false
	}

	if err := json.Unmarshal(data, &value); err != nil {
		rc.logger.Warn("discarding undecodable cache entry",
			zap.String("domain", domain),
			zap.String("key", key),
			zap.Error(err))

		return value, false
	}

	rc.metrics.RecordCacheHit(ctx, domain)

	return value, true
}

func (rc *resultCache) save(ctx context.Context, domain, key string, value any, ttl time.Duration) {
	data, err := json.Marshal(value)
	if err != nil {
		rc.logger.Warn("cache encode failed",
			zap.String("domain", domain),
			zap.String("key", key),
			zap.Error(err))

		return
	}

	if err := rc.store.Set(ctx, key, data, ttl); err != nil {
		rc.logger.Warn("cache write failed",
			zap.String("domain", domain),
			zap.String("key", key),
			zap.Error(err))
	}
}
