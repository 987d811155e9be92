package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/sean-rowe/weather-advisor/internal/core/domain"
	"github.com/sean-rowe/weather-advisor/internal/infrastructure/cache"
)

func liveSnapshot() *domain.WeatherSnapshot {
	return &domain.WeatherSnapshot{
		Current: domain.CurrentConditions{Temperature: 21, Condition: domain.Sunny, Icon: "☀️"},
		Today:   domain.TodaySummary{MaxTemp: 24, MinTemp: 15, Sunrise: "05:52", Sunset: "17:04"},
	}
}

func TestWeatherGateway_FetchCurrent(t *testing.T) {
	tests := []struct {
		name       string
		clientErr  error
		wantSource domain.Source
		wantTemp   int
	}{
		{name: "live data", wantSource: domain.SourceLive, wantTemp: 21},
		{name: "upstream failure falls back", clientErr: errors.New("status 500"), wantSource: domain.SourceFallback, wantTemp: 16},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := new(MockWeatherClient)
			if tt.clientErr != nil {
				client.On("GetCurrent", mock.Anything, tokyo).Return(nil, tt.clientErr)
			} else {
				client.On("GetCurrent", mock.Anything, tokyo).Return(liveSnapshot(), nil)
			}

			gateway := NewWeatherGateway(client, cache.NewMemoryCache(time.Hour, time.Hour, zap.NewNop()), nil, zap.NewNop(), fixedClock())

			snapshot := gateway.FetchCurrent(context.Background(), tokyo, time.Time{})

			assert.Equal(t, tt.wantSource, snapshot.Source)
			assert.Equal(t, tt.wantTemp, snapshot.Current.Temperature)
			assert.Equal(t, "東京都, 渋谷区", snapshot.Location.Name)
			assert.Equal(t, "JP", snapshot.Location.Country)
			assert.Equal(t, tokyo, snapshot.Location.Coordinates)
		})
	}
}

func TestWeatherGateway_CachesLiveResults(t *testing.T) {
	ctx := context.Background()
	client := new(MockWeatherClient)
	client.On("GetCurrent", mock.Anything, tokyo).Return(liveSnapshot(), nil).Once()

	gateway := NewWeatherGateway(client, cache.NewMemoryCache(time.Hour, time.Hour, zap.NewNop()), nil, zap.NewNop(), fixedClock())

	first := gateway.FetchCurrent(ctx, tokyo, time.Time{})
	second := gateway.FetchCurrent(ctx, tokyo, time.Time{})

	assert.Equal(t, first, second)
	client.AssertNumberOfCalls(t, "GetCurrent", 1)
}

func TestWeatherGateway_UsesRoundedDailyKey(t *testing.T) {
	ctx := context.Background()
	store := new(MockCacheService)
	store.On("Get", mock.Anything, "weather:35.68:139.65:291").Return(nil, cache.ErrCacheMiss)
	store.On("Set", mock.Anything, "weather:35.68:139.65:291", mock.Anything, 30*time.Minute).Return(nil)

	client := new(MockWeatherClient)
	client.On("GetCurrent", mock.Anything, tokyo).Return(liveSnapshot(), nil)

	gateway := NewWeatherGateway(client, store, nil, zap.NewNop(), fixedClock())
	gateway.FetchCurrent(ctx, tokyo, time.Time{})

	store.AssertExpectations(t)
}

func TestWeatherGateway_FallbackIsNotCached(t *testing.T) {
	ctx := context.Background()
	store := new(MockCacheService)
	store.On("Get", mock.Anything, mock.Anything).Return(nil, cache.ErrCacheMiss)

	metrics := new(MockMetrics)
	metrics.On("RecordCacheMiss", mock.Anything, mock.Anything)
	metrics.On("RecordFallback", mock.Anything, "weather").Once()
	metrics.On("RecordFallback", mock.Anything, "weekly_weather").Once()

	client := new(MockWeatherClient)
	client.On("GetCurrent", mock.Anything, tokyo).Return(nil, errors.New("timeout"))
	client.On("GetWeekly", mock.Anything, tokyo).Return(nil, errors.New("timeout"))

	gateway := NewWeatherGateway(client, store, metrics, zap.NewNop(), fixedClock())

	assert.Equal(t, domain.SourceFallback, gateway.FetchCurrent(ctx, tokyo, time.Time{}).Source)
	assert.Equal(t, domain.SourceFallback, gateway.FetchWeekly(ctx, tokyo, time.Time{}).Source)

	store.AssertNotCalled(t, "Set", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	metrics.AssertExpectations(t)
}

func TestWeatherGateway_EmptyWeeklyFallsBack(t *testing.T) {
	client := new(MockWeatherClient)
	client.On("GetWeekly", mock.Anything, tokyo).Return(&domain.WeeklyForecast{}, nil)

	gateway := NewWeatherGateway(client, cache.NewMemoryCache(time.Hour, time.Hour, zap.NewNop()), nil, zap.NewNop(), fixedClock())

	forecast := gateway.FetchWeekly(context.Background(), tokyo, time.Time{})

	assert.Equal(t, domain.SourceFallback, forecast.Source)
	assert.Len(t, forecast.Days, 7)
}

func TestFallbackWeekly(t *testing.T) {
	forecast := FallbackWeekly(tokyo, tokyoTime)

	require.Len(t, forecast.Days, 7)
	assert.Equal(t, domain.SourceFallback, forecast.Source)

	wantMax := []int{19, 21, 23, 25, 23, 25, 27}
	wantDate := []string{"10/18", "10/19", "10/20", "10/21", "10/22", "10/23", "10/24"}
	wantWeekday := []string{"日", "月", "火", "水", "木", "金", "土"}

	for i, day := range forecast.Days {
		assert.Equal(t, wantMax[i], day.MaxTemp, "day %d", i)
		assert.Equal(t, wantMax[i]-6, day.MinTemp, "day %d", i)
		assert.Equal(t, wantDate[i], day.Date)
		assert.Equal(t, wantWeekday[i], day.DayOfWeek)
	}

	assert.Equal(t, FallbackWeekly(tokyo, tokyoTime), forecast, "fallback is deterministic")
}
