package services

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/sean-rowe/weather-advisor/internal/core/domain"
)

// MockWeatherClient is a mock implementation of the WeatherClient interface.
type MockWeatherClient struct {
	mock.Mock
}

func (m *MockWeatherClient) GetCurrent(ctx context.Context, coords domain.Coordinates) (*domain.WeatherSnapshot, error) {
	args := m.Called(ctx, coords)

	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*domain.WeatherSnapshot), args.Error(1)
}

func (m *MockWeatherClient) GetWeekly(ctx context.Context, coords domain.Coordinates) (*domain.WeeklyForecast, error) {
	args := m.Called(ctx, coords)

	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*domain.WeeklyForecast), args.Error(1)
}

// MockCacheService is a mock implementation of the CacheService interface.
type MockCacheService struct {
	mock.Mock
}

// Get mocks the cache Get method.
//
// Parameters:
//   - ctx: Context for the request
//   - key: Cache key
//
// Returns:
//   - []byte: Mocked cached data
//   - error: Mocked error if configured
func (m *MockCacheService) Get(ctx context.Context, key string) ([]byte, error) {
	args := m.Called(ctx, key)

	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).([]byte), args.Error(1)
}

func (m *MockCacheService) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	args := m.Called(ctx, key, value, ttl)
	return args.Error(0)
}

func (m *MockCacheService) Delete(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

func (m *MockCacheService) Clear(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

// MockMetrics records cache and fallback events.
type MockMetrics struct {
	mock.Mock
}

func (m *MockMetrics) RecordCacheHit(ctx context.Context, name string) {
	m.Called(ctx, name)
}

func (m *MockMetrics) RecordCacheMiss(ctx context.Context, name string) {
	m.Called(ctx, name)
}

func (m *MockMetrics) RecordFallback(ctx context.Context, operation string) {
	m.Called(ctx, operation)
}

// tokyoTime is a Sunday morning in autumn, day of year 291.
var (
	jst       = time.FixedZone("JST", 9*60*60)
	tokyoTime = time.Date(2026, 10, 18, 9, 30, 0, 0, jst)
	tokyo     = domain.Coordinates{Latitude: 35.6762, Longitude: 139.6503}
)

// fixedClock pins both the time source and the calendar to tokyoTime.
func fixedClock() Option {
	return func(c *clock) {
		c.now = func() time.Time { return tokyoTime }
		c.loc = jst
	}
}
