// Package openweather implements a client for the OpenWeather 2.5 API.
// This package serves as a secondary adapter, translating gateway requests
// into OpenWeather calls and converting responses into domain snapshots.
package openweather

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/goccy/go-json"
	"go.uber.org/zap"

	"github.com/sean-rowe/weather-advisor/internal/core/domain"
	"github.com/sean-rowe/weather-advisor/internal/core/ports"
)

// DefaultBaseURL is the public OpenWeather endpoint.
const DefaultBaseURL = "https://api.openweathermap.org"

// ErrMissingAPIKey is returned without contacting the API when no key is configured.
var ErrMissingAPIKey = errors.New("openweather API key not configured")

// ErrIncompleteResponse is returned for a 2xx body lacking required blocks.
var ErrIncompleteResponse = errors.New("incomplete openweather response")

// APIError is returned for non-2xx responses.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("openweather returned status %d: %s", e.StatusCode, e.Message)
}

// Config holds the client settings.
type Config struct {
	BaseURL string
	APIKey  string

	// Lang selects the language of weather descriptions
	Lang    string
	Timeout time.Duration

	// Location is the timezone used for calendar days and sunrise times
	Location *time.Location
}

// Client implements ports.WeatherClient for OpenWeather.
type Client struct {
	cfg        Config
	httpClient *http.Client
	logger     *zap.Logger
}

// NewClient creates a new OpenWeather client.
//
// Parameters:
//   - cfg: Endpoint, credential, language and timezone
//   - httpClient: HTTP client, a client with cfg.Timeout is created when nil
//   - logger: Zap logger for API interaction logging
//
// Returns:
//   - *Client: Configured OpenWeather client
func NewClient(cfg Config, httpClient *http.Client, logger *zap.Logger) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}

	if cfg.Lang == "" {
		cfg.Lang = "ja"
	}

	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}

	if cfg.Location == nil {
		cfg.Location = time.Local
	}

	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}

	return &Client{
		cfg:        cfg,
		httpClient: httpClient,
		logger:     logger,
	}
}

var _ ports.WeatherClient = (*Client)(nil)

type weatherEntry struct {
	ID          int    `json:"id"`
	Main        string `json:"main"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
}

type mainBlock struct {
	Temp      float64 `json:"temp"`
	FeelsLike float64 `json:"feels_like"`
	TempMin   float64 `json:"temp_min"`
	TempMax   float64 `json:"temp_max"`
	Humidity  int     `json:"humidity"`
}

type sysBlock struct {
	Sunrise int64 `json:"sunrise"`
	Sunset  int64 `json:"sunset"`
}

// currentResponse decodes main and sys as pointers so an absent block is
// distinguishable from zero readings.
type currentResponse struct {
	Weather []weatherEntry `json:"weather"`
	Main    *mainBlock     `json:"main"`
	Wind    struct {
		Speed float64 `json:"speed"`
	} `json:"wind"`
	Sys *sysBlock `json:"sys"`
}

type forecastResponse struct {
	List []struct {
		Dt      int64          `json:"dt"`
		Main    mainBlock      `json:"main"`
		Weather []weatherEntry `json:"weather"`
	} `json:"list"`
}

// GetCurrent retrieves the current weather for coords.
func (c *Client) GetCurrent(ctx context.Context, coords domain.Coordinates) (*domain.WeatherSnapshot, error) {
	var resp currentResponse
	if err := c.get(ctx, "/data/2.5/weather", coords, &resp); err != nil {
		return nil, fmt.Errorf("current weather: %w", err)
	}

	switch {
	case len(resp.Weather) == 0:
		return nil, fmt.Errorf("current weather: %w: no weather entries", ErrIncompleteResponse)
	case resp.Main == nil:
		return nil, fmt.Errorf("current weather: %w: missing main block", ErrIncompleteResponse)
	case resp.Sys == nil:
		return nil, fmt.Errorf("current weather: %w: missing sys block", ErrIncompleteResponse)
	}

	return parseCurrent(resp, c.cfg.Location), nil
}

// GetWeekly retrieves the 5 day / 3 hour forecast for coords and folds it
// into calendar days.
func (c *Client) GetWeekly(ctx context.Context, coords domain.Coordinates) (*domain.WeeklyForecast, error) {
	var resp forecastResponse
	if err := c.get(ctx, "/data/2.5/forecast", coords, &resp); err != nil {
		return nil, fmt.Errorf("weekly forecast: %w", err)
	}

	return &domain.WeeklyForecast{Days: parseWeekly(resp, c.cfg.Location)}, nil
}

func (c *Client) get(ctx context.Context, path string, coords domain.Coordinates, out interface{}) error {
	if c.cfg.APIKey == "" {
		return ErrMissingAPIKey
	}

	ctx, cancel := context.WithTimeout(ctx, c.cfg.Timeout)
	defer cancel()

	query := url.Values{}
	query.Set("lat", strconv.FormatFloat(coords.Latitude, 'f', -1, 64))
	query.Set("lon", strconv.FormatFloat(coords.Longitude, 'f', -1, 64))
	query.Set("appid", c.cfg.APIKey)
	query.Set("units", "metric")
	query.Set("lang", c.cfg.Lang)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.cfg.BaseURL+path+"?"+query.Encode(), nil)
	if err != nil {
		return err
	}

	c.logger.Debug("fetching openweather data",
		zap.String("path", path),
		zap.Float64("latitude", coords.Latitude),
		zap.Float64("longitude", coords.Longitude))

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}

	defer func(Body io.ReadCloser) {
		if err := Body.Close(); err != nil {
			c.logger.Error("failed to close response body", zap.Error(err))
		}
	}(resp.Body)

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var apiErr struct {
			Message string `json:"message"`
		}

		msg := http.StatusText(resp.StatusCode)
		if json.Unmarshal(body, &apiErr) == nil && apiErr.Message != "" {
			msg = apiErr.Message
		}

		return &APIError{StatusCode: resp.StatusCode, Message: msg}
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}

	return nil
}
