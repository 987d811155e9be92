// Package cache provides the TTL stores behind advisor results and weather
// snapshots. It includes an in-memory store and a Redis store, both traced
// with OpenTelemetry.
package cache

import (
	"context"
	"errors"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/sean-rowe/weather-advisor/internal/core/ports"
)

// ErrCacheMiss indicates a key was not found or has expired.
var ErrCacheMiss = errors.New("cache miss")

func startSpan(ctx context.Context, name, key string) (context.Context, trace.Span) {
	ctx, span := otel.Tracer("cache").Start(ctx, name)
	if key != "" {
		span.SetAttributes(attribute.String("cache.key", key))
	}

	return ctx, span
}

// MemoryCache is a process local store backed by go-cache. Expired entries
// are never returned and are swept every cleanup interval.
type MemoryCache struct {
	cache  *gocache.Cache
	logger *zap.Logger
}

// NewMemoryCache creates a new in-memory cache.
//
// Parameters:
//   - defaultTTL: TTL applied when Set is called with a zero ttl
//   - cleanupInterval: How often expired entries are purged
//   - logger: Zap logger for cache operations
//
// Returns:
//   - *MemoryCache: In-memory cache implementation
func NewMemoryCache(defaultTTL, cleanupInterval time.Duration, logger *zap.Logger) *MemoryCache {
	return &MemoryCache{
		cache:  gocache.New(defaultTTL, cleanupInterval),
		logger: logger,
	}
}

var _ ports.CacheService = (*MemoryCache)(nil)

// Get returns a copy of the stored bytes.
func (m *MemoryCache) Get(ctx context.Context, key string) ([]byte, error) {
	_, span := startSpan(ctx, "MemoryCache.Get", key)
	defer span.End()

	value, found := m.cache.Get(key)
	if !found {
		span.SetAttributes(attribute.Bool("cache.hit", false))
		m.logger.Debug("memory cache miss", zap.String("key", key))

		return nil, ErrCacheMiss
	}

	span.SetAttributes(attribute.Bool("cache.hit", true))
	m.logger.Debug("memory cache hit", zap.String("key", key))

	stored := value.([]byte)
	out := make([]byte, len(stored))
	copy(out, stored)

	return out, nil
}

// Set stores a copy of value. A zero ttl uses the default TTL.
func (m *MemoryCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	_, span := startSpan(ctx, "MemoryCache.Set", key)
	defer span.End()

	span.SetAttributes(
		attribute.Int("cache.value_size", len(value)),
		attribute.String("cache.ttl", ttl.String()),
	)

	stored := make([]byte, len(value))
	copy(stored, value)

	m.cache.Set(key, stored, ttl)
	m.logger.Debug("memory cache set", zap.String("key", key), zap.Duration("ttl", ttl))

	return nil
}

func (m *MemoryCache) Delete(ctx context.Context, key string) error {
	_, span := startSpan(ctx, "MemoryCache.Delete", key)
	defer span.End()

	m.cache.Delete(key)

	return nil
}

func (m *MemoryCache) Clear(ctx context.Context) error {
	_, span := startSpan(ctx, "MemoryCache.Clear", "")
	defer span.End()

	m.cache.Flush()
	m.logger.Info("memory cache cleared")

	return nil
}

// Len returns the number of entries, including expired ones not yet swept.
func (m *MemoryCache) Len() int {
	return m.cache.ItemCount()
}
