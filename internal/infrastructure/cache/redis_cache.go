package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/sean-rowe/weather-advisor/internal/core/ports"
)

// RedisCache shares cached advice across service instances. Expiry is
// enforced by Redis itself.
type RedisCache struct {
	client *redis.Client
	prefix string
	logger *zap.Logger
}

// Config holds Redis connection and performance settings.
type Config struct {
	Addr     string
	Password string
	DB       int

	// Prefix namespaces every key; Clear only removes prefixed keys when set
	Prefix       string
	PoolSize     int
	MinIdleConns int
	MaxRetries   int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// NewRedisCache connects to Redis and verifies the connection with PING.
//
// Parameters:
//   - cfg: Redis connection configuration
//   - logger: Zap logger for cache operations
//
// Returns:
//   - *RedisCache: Redis cache implementation
//   - error: Connection error if Redis is unavailable
func NewRedisCache(cfg Config, logger *zap.Logger) (*RedisCache, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr,
		Password:     cfg.Password,
		DB:           cfg.DB,
		PoolSize:     cfg.PoolSize,
		MinIdleConns: cfg.MinIdleConns,
		MaxRetries:   cfg.MaxRetries,
		DialTimeout:  cfg.DialTimeout,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()

		return nil, fmt.Errorf("redis ping %s: %w", cfg.Addr, err)
	}

	return &RedisCache{
		client: rdb,
		prefix: cfg.Prefix,
		logger: logger,
	}, nil
}

var _ ports.CacheService = (*RedisCache)(nil)

func (r *RedisCache) key(k string) string {
	return r.prefix + k
}

func (r *RedisCache) Get(ctx context.Context, key string) ([]byte, error) {
	ctx, span := startSpan(ctx, "RedisCache.Get", key)
	defer span.End()

	start := time.Now()
	result, err := r.client.Get(ctx, r.key(key)).Bytes()
	duration := time.Since(start)

	if errors.Is(err, redis.Nil) {
		span.SetAttributes(attribute.Bool("cache.hit", false))

		r.logger.Debug("redis cache miss",
			zap.String("key", key),
			zap.Duration("duration", duration))

		return nil, ErrCacheMiss
	}

	if err != nil {
		span.RecordError(err)

		r.logger.Error("redis cache get error",
			zap.String("key", key),
			zap.Error(err))

		return nil, fmt.Errorf("redis get %s: %w", key, err)
	}

	span.SetAttributes(attribute.Bool("cache.hit", true))

	r.logger.Debug("redis cache hit",
		zap.String("key", key),
		zap.Duration("duration", duration))

	return result, nil
}

func (r *RedisCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	ctx, span := startSpan(ctx, "RedisCache.Set", key)
	defer span.End()

	span.SetAttributes(
		attribute.Int("cache.value_size", len(value)),
		attribute.String("cache.ttl", ttl.String()),
	)

	if err := r.client.Set(ctx, r.key(key), value, ttl).Err(); err != nil {
		span.RecordError(err)

		r.logger.Error("redis cache set error",
			zap.String("key", key),
			zap.Error(err))

		return fmt.Errorf("redis set %s: %w", key, err)
	}

	return nil
}

func (r *RedisCache) Delete(ctx context.Context, key string) error {
	ctx, span := startSpan(ctx, "RedisCache.Delete", key)
	defer span.End()

	if err := r.client.Del(ctx, r.key(key)).Err(); err != nil {
		span.RecordError(err)

		return fmt.Errorf("redis del %s: %w", key, err)
	}

	return nil
}

// Clear removes every key under the configured prefix, or flushes the whole
// database when no prefix is set.
func (r *RedisCache) Clear(ctx context.Context) error {
	ctx, span := startSpan(ctx, "RedisCache.Clear", "")
	defer span.End()

	if r.prefix == "" {
		if err := r.client.FlushDB(ctx).Err(); err != nil {
			span.RecordError(err)

			return fmt.Errorf("redis flushdb: %w", err)
		}

		r.logger.Info("redis cache cleared")

		return nil
	}

	iter := r.client.Scan(ctx, 0, r.prefix+"*", 100).Iterator()
	removed := 0

	for iter.Next(ctx) {
		if err := r.client.Del(ctx, iter.Val()).Err(); err != nil {
			span.RecordError(err)

			return fmt.Errorf("redis del %s: %w", iter.Val(), err)
		}

		removed++
	}

	if err := iter.Err(); err != nil {
		span.RecordError(err)

		return fmt.Errorf("redis scan %s*: %w", r.prefix, err)
	}

	r.logger.Info("redis cache cleared",
		zap.String("prefix", r.prefix),
		zap.Int("removed", removed))

	return nil
}

// Close closes the Redis client connection.
func (r *RedisCache) Close() error {
	return r.client.Close()
}
