package app

import (
	"context"

	"github.com/sean-rowe/weather-advisor/internal/core/domain"
	"github.com/sean-rowe/weather-advisor/internal/core/ports"
	"github.com/sean-rowe/weather-advisor/internal/infrastructure/circuitbreaker"
)

// CircuitBreakerWeatherClient short-circuits upstream calls while the
// provider is failing, so the gateway falls back without waiting on timeouts.
type CircuitBreakerWeatherClient struct {
	client ports.WeatherClient
	cb     *circuitbreaker.Breaker
}

// NewCircuitBreakerWeatherClient wraps client with cb.
func NewCircuitBreakerWeatherClient(client ports.WeatherClient, cb *circuitbreaker.Breaker) *CircuitBreakerWeatherClient {
	return &CircuitBreakerWeatherClient{client: client, cb: cb}
}

var _ ports.WeatherClient = (*CircuitBreakerWeatherClient)(nil)

func (c *CircuitBreakerWeatherClient) GetCurrent(ctx context.Context, coords domain.Coordinates) (*domain.WeatherSnapshot, error) {
	var result *domain.WeatherSnapshot

	err := c.cb.Execute(ctx, "get-current", func(ctx context.Context) error {
		var err error
		result, err = c.client.GetCurrent(ctx, coords)

		return err
	})

	return result, err
}

func (c *CircuitBreakerWeatherClient) GetWeekly(ctx context.Context, coords domain.Coordinates) (*domain.WeeklyForecast, error) {
	var result *domain.WeeklyForecast

	err := c.cb.Execute(ctx, "get-weekly", func(ctx context.Context) error {
		var err error
		result, err = c.client.GetWeekly(ctx, coords)

		return err
	})

	return result, err
}
