package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/sean-rowe/weather-advisor/internal/core/domain"
	"github.com/sean-rowe/weather-advisor/internal/core/ports"
	"github.com/sean-rowe/weather-advisor/internal/core/region"
)

// WeatherGateway serves weather from the cache or the upstream client and
// substitutes synthesized data when the upstream fails. Synthesized data is
// never cached.
type WeatherGateway struct {
	client  ports.WeatherClient
	cache   *resultCache
	metrics ports.CacheMetrics
	clock   clock
	logger  *zap.Logger
}

// NewWeatherGateway creates a gateway over client.
//
// Parameters:
//   - client: Upstream weather client
//   - store: Cache for live results
//   - metrics: Cache and fallback counters, may be nil
//   - logger: Zap logger
//   - opts: Clock and timezone overrides
//
// Returns:
//   - *WeatherGateway: Gateway that never returns an error
func NewWeatherGateway(client ports.WeatherClient, store ports.CacheService, metrics ports.CacheMetrics, logger *zap.Logger, opts ...Option) *WeatherGateway {
	rc := newResultCache(store, metrics, logger)

	return &WeatherGateway{
		client:  client,
		cache:   rc,
		metrics: rc.metrics,
		clock:   newClock(opts),
		logger:  logger,
	}
}

var _ ports.WeatherGateway = (*WeatherGateway)(nil)

var errNoForecast = errors.New("no forecast entries")

func weatherKey(prefix string, coords domain.Coordinates, day time.Time) string {
	return fmt.Sprintf("%s:%.2f:%.2f:%d", prefix, coords.Latitude, coords.Longitude, day.YearDay())
}

func locationFor(coords domain.Coordinates) domain.Location {
	return domain.Location{
		Name:        region.Resolve(coords.Latitude, coords.Longitude),
		Country:     "JP",
		Coordinates: coords,
	}
}

// FetchCurrent returns the current weather at coords.
func (g *WeatherGateway) FetchCurrent(ctx context.Context, coords domain.Coordinates, at time.Time) domain.WeatherSnapshot {
	at = g.clock.at(at)
	key := weatherKey(domainWeather, coords, at)

	snapshot, err := cached(ctx, g.cache, domainWeather, key, weatherTTL, func(ctx context.Context) (domain.WeatherSnapshot, error) {
		live, err := g.client.GetCurrent(ctx, coords)
		if err != nil {
			return domain.WeatherSnapshot{}, domain.UpstreamUnavailable("current weather", err)
		}

		live.Location = locationFor(coords)
		live.Source = domain.SourceLive

		return *live, nil
	})

	if err != nil {
		g.logger.Warn("weather upstream unavailable, serving fallback",
			zap.Float64("latitude", coords.Latitude),
			zap.Float64("longitude", coords.Longitude),
			zap.Error(err))
		g.metrics.RecordFallback(ctx, domainWeather)

		return FallbackCurrent(coords)
	}

	return snapshot
}

// FetchWeekly returns up to seven days of forecast starting at the day of at.
func (g *WeatherGateway) FetchWeekly(ctx context.Context, coords domain.Coordinates, at time.Time) domain.WeeklyForecast {
	at = g.clock.at(at)
	key := weatherKey(domainWeeklyWeather, coords, at)

	forecast, err := cached(ctx, g.cache, domainWeeklyWeather, key, weeklyWeatherTTL, func(ctx context.Context) (domain.WeeklyForecast, error) {
		live, err := g.client.GetWeekly(ctx, coords)
		if err != nil {
			return domain.WeeklyForecast{}, domain.UpstreamUnavailable("weekly forecast", err)
		}

		if len(live.Days) == 0 {
			return domain.WeeklyForecast{}, domain.UpstreamUnavailable("weekly forecast", errNoForecast)
		}

		live.Location = locationFor(coords)
		live.Source = domain.SourceLive

		return *live, nil
	})

	if err != nil {
		g.logger.Warn("weekly upstream unavailable, serving fallback",
			zap.Float64("latitude", coords.Latitude),
			zap.Float64("longitude", coords.Longitude),
			zap.Error(err))
		g.metrics.RecordFallback(ctx, domainWeeklyWeather)

		return FallbackWeekly(coords, at)
	}

	return forecast
}

// FallbackCurrent synthesizes a mild, overcast snapshot.
func FallbackCurrent(coords domain.Coordinates) domain.WeatherSnapshot {
	return domain.WeatherSnapshot{
		Current: domain.CurrentConditions{
			Temperature: 16,
			FeelsLike:   14,
			Condition:   domain.Cloudy,
			Description: "曇り",
			Icon:        "☁️",
			Humidity:    78,
			WindSpeed:   4.5,
			UVIndex:     3,
		},
		Today: domain.TodaySummary{
			MaxTemp:         19,
			MinTemp:         12,
			RainProbability: 30,
			Sunrise:         "05:45",
			Sunset:          "17:30",
		},
		Location: locationFor(coords),
		Source:   domain.SourceFallback,
	}
}

var fallbackPattern = []struct {
	condition   domain.Condition
	description string
	icon        string
	rain        int
}{
	{domain.Sunny, "晴れ", "☀️", 10},
	{domain.Cloudy, "曇り", "☁️", 30},
	{domain.Rainy, "雨", "🌧️", 60},
}

// FallbackWeekly synthesizes seven deterministic days starting at the day of at.
func FallbackWeekly(coords domain.Coordinates, at time.Time) domain.WeeklyForecast {
	days := make([]domain.DailyForecast, 0, 7)

	for i := 0; i < 7; i++ {
		date := at.AddDate(0, 0, i)

		base := 16 + i*2
		if i > 3 {
			base -= 4
		}

		p := fallbackPattern[i%len(fallbackPattern)]
		days = append(days, domain.DailyForecast{
			Date:            date.Format("01/02"),
			DayOfWeek:       domain.WeekdayLabel(date),
			MaxTemp:         base + 3,
			MinTemp:         base - 3,
			Condition:       p.condition,
			Description:     p.description,
			Icon:            p.icon,
			RainProbability: p.rain,
		})
	}

	return domain.WeeklyForecast{
		Location: locationFor(coords),
		Days:     days,
		Source:   domain.SourceFallback,
	}
}
