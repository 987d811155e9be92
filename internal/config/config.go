// Package config provides centralized configuration management for the weather advisor.
// Values start from defaults, are optionally hydrated from a YAML file named by
// CONFIG_PATH, and are finally overridden by environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	CacheBackendMemory = "memory"
	CacheBackendRedis  = "redis"
)

// Config holds all configuration settings for the weather advisor.
type Config struct {
	Server         ServerConfig         `yaml:"server"`
	Cache          CacheConfig          `yaml:"cache"`
	Redis          RedisConfig          `yaml:"redis"`
	Observability  ObservabilityConfig  `yaml:"observability"`
	OpenWeather    OpenWeatherConfig    `yaml:"openweather"`
	CircuitBreaker CircuitBreakerConfig `yaml:"circuitBreaker"`
	// Timezone is the IANA zone used for calendar days in cache keys and forecasts.
	Timezone string `yaml:"timezone"`
}

// ServerConfig contains HTTP server settings and timeouts.
type ServerConfig struct {
	Port            string        `yaml:"port"`
	Environment     string        `yaml:"environment"`
	ReadTimeout     time.Duration `yaml:"readTimeout"`
	WriteTimeout    time.Duration `yaml:"writeTimeout"`
	IdleTimeout     time.Duration `yaml:"idleTimeout"`
	ShutdownTimeout time.Duration `yaml:"shutdownTimeout"`
}

// CacheConfig selects the result store shared by the gateway and advisors.
type CacheConfig struct {
	Backend         string        `yaml:"backend"`
	DefaultTTL      time.Duration `yaml:"defaultTtl"`
	CleanupInterval time.Duration `yaml:"cleanupInterval"`
}

// RedisConfig contains settings for the Redis cache backend.
type RedisConfig struct {
	Addr         string        `yaml:"addr"`
	Password     string        `yaml:"password"`
	DB           int           `yaml:"db"`
	Prefix       string        `yaml:"prefix"`
	PoolSize     int           `yaml:"poolSize"`
	MinIdleConns int           `yaml:"minIdleConns"`
	MaxRetries   int           `yaml:"maxRetries"`
	DialTimeout  time.Duration `yaml:"dialTimeout"`
	ReadTimeout  time.Duration `yaml:"readTimeout"`
	WriteTimeout time.Duration `yaml:"writeTimeout"`
}

// ObservabilityConfig contains settings for distributed tracing and metrics.
type ObservabilityConfig struct {
	ServiceName    string  `yaml:"serviceName"`
	ServiceVersion string  `yaml:"serviceVersion"`
	OTLPEndpoint   string  `yaml:"otlpEndpoint"`
	SampleRate     float64 `yaml:"sampleRate"`
	LogLevel       string  `yaml:"logLevel"`
}

// OpenWeatherConfig configures the upstream weather API.
type OpenWeatherConfig struct {
	BaseURL string        `yaml:"baseUrl"`
	APIKey  string        `yaml:"apiKey"`
	Lang    string        `yaml:"lang"`
	Timeout time.Duration `yaml:"timeout"`
}

// CircuitBreakerConfig configures the breaker around the upstream client.
type CircuitBreakerConfig struct {
	MaxRequests  uint32        `yaml:"maxRequests"`
	Interval     time.Duration `yaml:"interval"`
	Timeout      time.Duration `yaml:"timeout"`
	MinRequests  uint32        `yaml:"minRequests"`
	FailureRatio float64       `yaml:"failureRatio"`
}

// Default returns the built-in configuration before file and environment overrides.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port:            "8080",
			Environment:     "development",
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    15 * time.Second,
			IdleTimeout:     60 * time.Second,
			ShutdownTimeout: 30 * time.Second,
		},
		Cache: CacheConfig{
			Backend:         CacheBackendMemory,
			DefaultTTL:      time.Hour,
			CleanupInterval: 10 * time.Minute,
		},
		Redis: RedisConfig{
			Addr:         "localhost:6379",
			Prefix:       "weather-advisor:",
			PoolSize:     10,
			MinIdleConns: 5,
			MaxRetries:   3,
			DialTimeout:  5 * time.Second,
			ReadTimeout:  3 * time.Second,
			WriteTimeout: 3 * time.Second,
		},
		Observability: ObservabilityConfig{
			ServiceName:    "weather-advisor",
			ServiceVersion: "1.0.0",
			SampleRate:     0.1,
			LogLevel:       "info",
		},
		OpenWeather: OpenWeatherConfig{
			BaseURL: "https://api.openweathermap.org",
			Lang:    "ja",
			Timeout: 10 * time.Second,
		},
		CircuitBreaker: CircuitBreakerConfig{
			MaxRequests:  1,
			Interval:     time.Minute,
			Timeout:      30 * time.Second,
			MinRequests:  3,
			FailureRatio: 0.5,
		},
		Timezone: "Asia/Tokyo",
	}
}

// Load builds the configuration from defaults, the optional YAML file and the environment.
//
// Returns:
//   - *Config: Validated configuration
//   - error: File read/parse failure or validation error
func Load() (*Config, error) {
	cfg := Default()

	if path := os.Getenv("CONFIG_PATH"); path != "" {
		if err := hydrateFromFile(cfg, path); err != nil {
			return nil, err
		}
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

func hydrateFromFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}

	return nil
}

// applyEnvOverrides layers environment variables over cfg, using the current
// value of each field as the default.
func applyEnvOverrides(cfg *Config) {
	cfg.Server.Port = getEnv("PORT", cfg.Server.Port)
	cfg.Server.Environment = getEnv("ENVIRONMENT", cfg.Server.Environment)
	cfg.Server.ShutdownTimeout = getEnvAsDuration("SHUTDOWN_TIMEOUT", cfg.Server.ShutdownTimeout)

	cfg.Cache.Backend = getEnv("CACHE_BACKEND", cfg.Cache.Backend)
	if getEnvAsBool("REDIS_ENABLED", false) {
		cfg.Cache.Backend = CacheBackendRedis
	}

	cfg.Redis.Addr = getEnv("REDIS_ADDR", cfg.Redis.Addr)
	cfg.Redis.Password = getEnv("REDIS_PASSWORD", cfg.Redis.Password)
	cfg.Redis.DB = getEnvAsInt("REDIS_DB", cfg.Redis.DB)
	cfg.Redis.Prefix = getEnv("REDIS_PREFIX", cfg.Redis.Prefix)

	cfg.Observability.ServiceVersion = getEnv("VERSION", cfg.Observability.ServiceVersion)
	cfg.Observability.OTLPEndpoint = getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", cfg.Observability.OTLPEndpoint)
	cfg.Observability.LogLevel = getEnv("LOG_LEVEL", cfg.Observability.LogLevel)

	cfg.OpenWeather.BaseURL = getEnv("OPENWEATHER_BASE_URL", cfg.OpenWeather.BaseURL)
	cfg.OpenWeather.APIKey = getEnv("OPENWEATHER_API_KEY", cfg.OpenWeather.APIKey)
	cfg.OpenWeather.Lang = getEnv("OPENWEATHER_LANG", cfg.OpenWeather.Lang)
	cfg.OpenWeather.Timeout = getEnvAsDuration("OPENWEATHER_TIMEOUT", cfg.OpenWeather.Timeout)

	cfg.Timezone = getEnv("TZ_NAME", cfg.Timezone)
}

// Validate reports the first setting that cannot be used to start the service.
func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return errors.New("server port is required")
	}

	switch c.Cache.Backend {
	case CacheBackendMemory:
	case CacheBackendRedis:
		if c.Redis.Addr == "" {
			return errors.New("redis addr is required for the redis cache backend")
		}
	default:
		return fmt.Errorf("unknown cache backend %q", c.Cache.Backend)
	}

	if c.OpenWeather.BaseURL == "" {
		return errors.New("openweather base url is required")
	}

	if c.OpenWeather.Timeout <= 0 {
		return errors.New("openweather timeout must be positive")
	}

	if c.Observability.SampleRate < 0 || c.Observability.SampleRate > 1 {
		return fmt.Errorf("sample rate %v out of range [0,1]", c.Observability.SampleRate)
	}

	if c.CircuitBreaker.FailureRatio <= 0 || c.CircuitBreaker.FailureRatio > 1 {
		return fmt.Errorf("failure ratio %v out of range (0,1]", c.CircuitBreaker.FailureRatio)
	}

	return nil
}

// Location resolves Timezone, falling back to a fixed UTC+9 zone when the
// tz database is unavailable.
func (c *Config) Location() *time.Location {
	if loc, err := time.LoadLocation(c.Timezone); err == nil {
		return loc
	}

	return time.FixedZone("JST", 9*60*60)
}

// getEnv retrieves an environment variable value with a fallback default.
//
// Parameters:
//   - key: Environment variable name
//   - defaultValue: Value to use if variable is not set
//
// Returns:
//   - string: Environment value or default
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}

	return defaultValue
}

// getEnvAsInt retrieves an environment variable as an integer with a fallback default.
func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}

	return defaultValue
}

// getEnvAsBool retrieves an environment variable as a boolean with a fallback default.
func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}

	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}

	return defaultValue
}
