// Package app wires configuration, infrastructure, core services and the
// REST adapter together and manages the process lifecycle.
package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/goccy/go-json"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/sean-rowe/weather-advisor/internal/adapters/primary/rest"
	"github.com/sean-rowe/weather-advisor/internal/adapters/secondary/openweather"
	"github.com/sean-rowe/weather-advisor/internal/config"
	"github.com/sean-rowe/weather-advisor/internal/core/ports"
	"github.com/sean-rowe/weather-advisor/internal/core/services"
	"github.com/sean-rowe/weather-advisor/internal/infrastructure/cache"
	"github.com/sean-rowe/weather-advisor/internal/infrastructure/circuitbreaker"
	"github.com/sean-rowe/weather-advisor/internal/middleware"
	"github.com/sean-rowe/weather-advisor/internal/observability"
	"github.com/sean-rowe/weather-advisor/internal/version"
)

const openWeatherBreaker = "openweather-api"

// App manages the application lifecycle and dependencies.
type App struct {
	cfg       *config.Config
	server    *http.Server
	logger    *zap.Logger
	telemetry *observability.Telemetry
	registry  *prometheus.Registry
	breakers  *circuitbreaker.Manager

	store        ports.CacheService
	redis        *cache.RedisCache
	cacheBackend string
}

// New creates a new application instance from the environment.
//
// Returns:
//   - *App: Configured application instance
//   - error: Configuration or logger initialization error
func New() (*App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	zapCfg := zap.NewProductionConfig()
	if level, err := zap.ParseAtomicLevel(cfg.Observability.LogLevel); err == nil {
		zapCfg.Level = level
	}

	logger, err := zapCfg.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	return NewWithConfig(cfg, logger), nil
}

// NewWithConfig creates an application from an explicit configuration.
func NewWithConfig(cfg *config.Config, logger *zap.Logger) *App {
	return &App{
		cfg:      cfg,
		logger:   logger,
		registry: prometheus.NewRegistry(),
		breakers: circuitbreaker.NewManager(logger),
	}
}

// Start initializes all components and starts serving HTTP in the background.
func (a *App) Start(ctx context.Context) error {
	handler := a.Handler(ctx)

	a.server = &http.Server{
		Addr:         ":" + a.cfg.Server.Port,
		Handler:      handler,
		ReadTimeout:  a.cfg.Server.ReadTimeout,
		WriteTimeout: a.cfg.Server.WriteTimeout,
		IdleTimeout:  a.cfg.Server.IdleTimeout,
	}

	go func() {
		a.logger.Info("starting HTTP server",
			zap.String("port", a.cfg.Server.Port),
			zap.String("environment", a.cfg.Server.Environment),
			zap.String("cache", a.cacheBackend),
			zap.Stringer("version", version.Get()),
		)

		if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.logger.Fatal("failed to start server", zap.Error(err))
		}
	}()

	return nil
}

// Handler builds the dependency graph and returns the routed HTTP handler.
func (a *App) Handler(ctx context.Context) http.Handler {
	if err := a.initTelemetry(ctx); err != nil {
		a.logger.Warn("failed to initialize telemetry, continuing without it", zap.Error(err))
	}

	a.initCache(ctx)

	loc := a.cfg.Location()
	metrics := a.cacheMetrics()
	clock := services.WithLocation(loc)

	gateway := services.NewWeatherGateway(a.initWeatherClient(loc), a.store, metrics, a.logger, clock)

	handler := rest.NewHandler(rest.Services{
		Gateway:  gateway,
		Clothing: services.NewClothingService(a.store, metrics, a.logger, clock),
		Items:    services.NewItemsService(a.store, metrics, a.logger),
		Pollen:   services.NewPollenService(a.store, metrics, a.logger, clock),
		Fortune:  services.NewFortuneService(a.store, metrics, a.logger, clock),
		Weekly:   services.NewWeeklyService(a.store, metrics, a.logger),
	}, loc, a.logger)

	return a.setupRouter(handler)
}

// Stop gracefully shuts down all application components.
func (a *App) Stop() {
	a.logger.Info("shutting down application...")

	if a.server != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.Server.ShutdownTimeout)
		defer cancel()

		if err := a.server.Shutdown(shutdownCtx); err != nil {
			a.logger.Error("failed to shutdown server gracefully", zap.Error(err))
		}
	}

	if a.redis != nil {
		if err := a.redis.Close(); err != nil {
			a.logger.Error("failed to close redis connection", zap.Error(err))
		}
	}

	if a.telemetry != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := a.telemetry.Shutdown(shutdownCtx); err != nil {
			a.logger.Error("failed to shutdown telemetry", zap.Error(err))
		}
	}

	_ = a.logger.Sync()
}

// WaitForShutdown blocks until the process receives SIGINT or SIGTERM.
func (a *App) WaitForShutdown() {
	quit := make(chan os.Signal, 1)

	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit
	a.logger.Info("shutdown signal received")
}

func (a *App) initTelemetry(ctx context.Context) error {
	a.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	var err error
	a.telemetry, err = observability.InitTelemetry(ctx, observability.Config{
		ServiceName:    a.cfg.Observability.ServiceName,
		ServiceVersion: a.cfg.Observability.ServiceVersion,
		Environment:    a.cfg.Server.Environment,
		OTLPEndpoint:   a.cfg.Observability.OTLPEndpoint,
		SampleRate:     a.cfg.Observability.SampleRate,
		Registerer:     a.registry,
	}, a.logger)

	return err
}

// cacheMetrics returns a nil interface rather than a nil *Telemetry when
// telemetry is unavailable.
func (a *App) cacheMetrics() ports.CacheMetrics {
	if a.telemetry == nil {
		return nil
	}

	return a.telemetry
}

// initCache selects the Redis store when configured and reachable, the
// in-process store otherwise.
func (a *App) initCache(ctx context.Context) {
	if a.cfg.Cache.Backend == config.CacheBackendRedis {
		redisCache, err := cache.NewRedisCache(cache.Config{
			Addr:         a.cfg.Redis.Addr,
			Password:     a.cfg.Redis.Password,
			DB:           a.cfg.Redis.DB,
			Prefix:       a.cfg.Redis.Prefix,
			PoolSize:     a.cfg.Redis.PoolSize,
			MinIdleConns: a.cfg.Redis.MinIdleConns,
			MaxRetries:   a.cfg.Redis.MaxRetries,
			DialTimeout:  a.cfg.Redis.DialTimeout,
			ReadTimeout:  a.cfg.Redis.ReadTimeout,
			WriteTimeout: a.cfg.Redis.WriteTimeout,
		}, a.logger)
		if err == nil {
			a.logger.Info("redis connected successfully", zap.String("addr", a.cfg.Redis.Addr))
			a.store, a.redis, a.cacheBackend = redisCache, redisCache, config.CacheBackendRedis

			return
		}

		a.logger.Warn("redis connection failed, falling back to memory cache", zap.Error(err))
	}

	a.store = cache.NewMemoryCache(a.cfg.Cache.DefaultTTL, a.cfg.Cache.CleanupInterval, a.logger)
	a.cacheBackend = config.CacheBackendMemory
}

// initWeatherClient creates the OpenWeather client behind a circuit breaker.
func (a *App) initWeatherClient(loc *time.Location) ports.WeatherClient {
	if a.cfg.OpenWeather.APIKey == "" {
		a.logger.Warn("OPENWEATHER_API_KEY not set, weather endpoints will serve fallback data")
	}

	client := openweather.NewClient(openweather.Config{
		BaseURL:  a.cfg.OpenWeather.BaseURL,
		APIKey:   a.cfg.OpenWeather.APIKey,
		Lang:     a.cfg.OpenWeather.Lang,
		Timeout:  a.cfg.OpenWeather.Timeout,
		Location: loc,
	}, &http.Client{Timeout: a.cfg.OpenWeather.Timeout}, a.logger)

	return NewCircuitBreakerWeatherClient(client, a.breakers.Get(openWeatherBreaker, circuitbreaker.Config{
		MaxRequests:  a.cfg.CircuitBreaker.MaxRequests,
		Interval:     a.cfg.CircuitBreaker.Interval,
		Timeout:      a.cfg.CircuitBreaker.Timeout,
		MinRequests:  a.cfg.CircuitBreaker.MinRequests,
		FailureRatio: a.cfg.CircuitBreaker.FailureRatio,
		IsSuccessful: upstreamHealthy,
	}))
}

// upstreamHealthy keeps a missing API key from tripping the breaker: the
// provider was never contacted.
func upstreamHealthy(err error) bool {
	return err == nil || errors.Is(err, openweather.ErrMissingAPIKey)
}

// HealthResponse is served on /health.
type HealthResponse struct {
	Status          string                 `json:"status"`
	Service         string                 `json:"service"`
	Version         string                 `json:"version"`
	Cache           string                 `json:"cache"`
	CircuitBreakers []circuitbreaker.Stats `json:"circuit_breakers"`
}

func (a *App) health() HealthResponse {
	stats := a.breakers.Stats()

	status := "healthy"
	for _, s := range stats {
		if s.State != "closed" {
			status = "degraded"
		}
	}

	return HealthResponse{
		Status:          status,
		Service:         a.cfg.Observability.ServiceName,
		Version:         version.Get().Version,
		Cache:           a.cacheBackend,
		CircuitBreakers: stats,
	}
}

// setupRouter creates the router with the operational endpoints, the API
// routes and the observability middleware.
func (a *App) setupRouter(handler *rest.Handler) http.Handler {
	router := mux.NewRouter()

	obs := middleware.NewObservabilityMiddleware(a.telemetry, a.logger)
	router.Use(obs.TracingMiddleware)
	router.Use(obs.MetricsMiddleware)
	router.Use(obs.LoggingMiddleware)

	router.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		a.writeJSON(w, a.health())
	}).Methods(http.MethodGet)

	router.HandleFunc("/version", func(w http.ResponseWriter, r *http.Request) {
		a.writeJSON(w, version.Get())
	}).Methods(http.MethodGet)

	router.Handle("/metrics", promhttp.HandlerFor(a.registry, promhttp.HandlerOpts{})).Methods(http.MethodGet)

	handler.RegisterRoutes(router)

	return router
}

func (a *App) writeJSON(w http.ResponseWriter, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)

	if err := json.NewEncoder(w).Encode(payload); err != nil {
		a.logger.Error("failed to encode response", zap.Error(err))
	}
}
