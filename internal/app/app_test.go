package app

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/sean-rowe/weather-advisor/internal/config"
	"github.com/sean-rowe/weather-advisor/internal/core/domain"
)

func testConfig(upstream string) *config.Config {
	cfg := config.Default()
	cfg.OpenWeather.BaseURL = upstream
	cfg.OpenWeather.APIKey = "test-key"
	cfg.OpenWeather.Timeout = 2 * time.Second

	return cfg
}

func get(t *testing.T, handler http.Handler, target string) *httptest.ResponseRecorder {
	t.Helper()

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, target, nil))

	return rr
}

type weatherEnvelope struct {
	Status string                 `json:"status"`
	Data   domain.WeatherSnapshot `json:"data"`
}

func TestApp_LiveWeatherIsCached(t *testing.T) {
	var calls atomic.Int32
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"weather": []map[string]interface{}{{"main": "Clear", "description": "晴天", "icon": "01d"}},
			"main":    map[string]interface{}{"temp": 22.4, "feels_like": 21.9, "temp_min": 18, "temp_max": 24, "humidity": 40},
			"wind":    map[string]interface{}{"speed": 2.0},
			"sys":     map[string]interface{}{"sunrise": 1792180320, "sunset": 1792220640},
		})
	}))
	defer upstream.Close()

	handler := NewWithConfig(testConfig(upstream.URL), zap.NewNop()).Handler(context.Background())

	for i := 0; i < 2; i++ {
		rr := get(t, handler, "/api/v1/weather?lat=35.6762&lon=139.6503")
		require.Equal(t, http.StatusOK, rr.Code)

		var body weatherEnvelope
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
		assert.Equal(t, domain.SourceLive, body.Data.Source)
		assert.Equal(t, domain.Sunny, body.Data.Current.Condition)
		assert.Equal(t, "東京都, 渋谷区", body.Data.Location.Name)
	}

	assert.Equal(t, int32(1), calls.Load())
}

func TestApp_UpstreamFailureServesFallbackAndOpensBreaker(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"message":"internal error"}`, http.StatusInternalServerError)
	}))
	defer upstream.Close()

	app := NewWithConfig(testConfig(upstream.URL), zap.NewNop())
	handler := app.Handler(context.Background())

	for i := 0; i < 3; i++ {
		rr := get(t, handler, "/api/v1/weather?lat=34.6937&lon=135.5023")
		require.Equal(t, http.StatusOK, rr.Code)

		var body weatherEnvelope
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
		assert.Equal(t, domain.SourceFallback, body.Data.Source)
		assert.Equal(t, 16, body.Data.Current.Temperature)
	}

	var health HealthResponse
	require.NoError(t, json.Unmarshal(get(t, handler, "/health").Body.Bytes(), &health))

	assert.Equal(t, "degraded", health.Status)
	assert.Equal(t, config.CacheBackendMemory, health.Cache)
	require.Len(t, health.CircuitBreakers, 1)
	assert.Equal(t, "open", health.CircuitBreakers[0].State)

	metrics := get(t, handler, "/metrics").Body.String()
	assert.True(t, strings.Contains(metrics, "weather_fallbacks"), "fallback counter exported")
}

func TestApp_MissingAPIKeyKeepsBreakerClosed(t *testing.T) {
	var calls atomic.Int32
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
	}))
	defer upstream.Close()

	cfg := testConfig(upstream.URL)
	cfg.OpenWeather.APIKey = ""

	app := NewWithConfig(cfg, zap.NewNop())
	handler := app.Handler(context.Background())

	for i := 0; i < 5; i++ {
		var body weatherEnvelope
		require.NoError(t, json.Unmarshal(get(t, handler, "/api/v1/weather?lat=35.6762&lon=139.6503").Body.Bytes(), &body))
		assert.Equal(t, domain.SourceFallback, body.Data.Source)
	}

	health := app.health()
	assert.Equal(t, "healthy", health.Status)
	require.Len(t, health.CircuitBreakers, 1)
	assert.Equal(t, "closed", health.CircuitBreakers[0].State)
	assert.Zero(t, calls.Load())
}

func TestApp_RedisBackend(t *testing.T) {
	mr := miniredis.RunT(t)

	cfg := testConfig("http://127.0.0.1:0")
	cfg.OpenWeather.APIKey = ""
	cfg.Cache.Backend = config.CacheBackendRedis
	cfg.Redis.Addr = mr.Addr()

	app := NewWithConfig(cfg, zap.NewNop())
	handler := app.Handler(context.Background())
	defer app.Stop()

	rr := get(t, handler, "/api/v1/clothing?temperature=20&weather=sunny&style=casual")
	require.Equal(t, http.StatusOK, rr.Code)

	keys := mr.Keys()
	require.Len(t, keys, 1)
	assert.True(t, strings.HasPrefix(keys[0], "weather-advisor:clothing:20:sunny:casual:unisex:"), keys[0])
	assert.Equal(t, config.CacheBackendRedis, app.health().Cache)
}

func TestApp_RedisUnreachableFallsBackToMemory(t *testing.T) {
	cfg := testConfig("http://127.0.0.1:0")
	cfg.Cache.Backend = config.CacheBackendRedis
	cfg.Redis.Addr = "127.0.0.1:1"
	cfg.Redis.DialTimeout = 100 * time.Millisecond
	cfg.Redis.MaxRetries = -1

	app := NewWithConfig(cfg, zap.NewNop())
	handler := app.Handler(context.Background())

	assert.Equal(t, http.StatusOK, get(t, handler, "/api/v1/pollen?lat=43.06&lon=141.35").Code)
	assert.Equal(t, config.CacheBackendMemory, app.health().Cache)
}

func TestApp_VersionAndHealth(t *testing.T) {
	app := NewWithConfig(testConfig("http://127.0.0.1:0"), zap.NewNop())
	handler := app.Handler(context.Background())

	rr := get(t, handler, "/version")
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `"go_version"`)

	var health HealthResponse
	require.NoError(t, json.Unmarshal(get(t, handler, "/health").Body.Bytes(), &health))
	assert.Equal(t, "healthy", health.Status)
	assert.Equal(t, "weather-advisor", health.Service)
}
