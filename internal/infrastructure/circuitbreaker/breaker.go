// Package circuitbreaker guards upstream calls with sony/gobreaker, adding
// tracing and structured logging of state transitions.
package circuitbreaker

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/sony/gobreaker"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

// Breaker wraps a gobreaker.CircuitBreaker.
type Breaker struct {
	breaker *gobreaker.CircuitBreaker
	logger  *zap.Logger
	name    string
}

// Config defines when the breaker opens and how long it stays open.
type Config struct {
	Name string

	// MaxRequests is the number of trial calls allowed while half-open
	MaxRequests uint32

	// Interval is the cyclic period of the closed state after which counts reset
	Interval time.Duration

	// Timeout is how long the breaker stays open before going half-open
	Timeout time.Duration

	// MinRequests and FailureRatio decide when a closed breaker trips
	MinRequests  uint32
	FailureRatio float64

	// IsSuccessful classifies errors that should not count as failures; nil
	// counts only a nil error as success
	IsSuccessful func(err error) bool

	OnStateChange func(name string, from gobreaker.State, to gobreaker.State)
}

// New creates a breaker from cfg. Zero MinRequests and FailureRatio default
// to 3 requests at a 50% failure ratio.
func New(cfg Config, logger *zap.Logger) *Breaker {
	minRequests := cfg.MinRequests
	if minRequests == 0 {
		minRequests = 3
	}

	ratio := cfg.FailureRatio
	if ratio <= 0 {
		ratio = 0.5
	}

	settings := gobreaker.Settings{
		Name:         cfg.Name,
		MaxRequests:  cfg.MaxRequests,
		Interval:     cfg.Interval,
		Timeout:      cfg.Timeout,
		IsSuccessful: cfg.IsSuccessful,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < minRequests {
				return false
			}

			return float64(counts.TotalFailures)/float64(counts.Requests) >= ratio
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			logger.Info("circuit breaker state changed",
				zap.String("name", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()))

			if cfg.OnStateChange != nil {
				cfg.OnStateChange(name, from, to)
			}
		},
	}

	return &Breaker{
		breaker: gobreaker.NewCircuitBreaker(settings),
		logger:  logger,
		name:    cfg.Name,
	}
}

// Execute runs fn unless the breaker is open.
//
// Parameters:
//   - ctx: Context passed to fn and used for tracing
//   - operation: Name of the operation for logging
//   - fn: Guarded call
//
// Returns:
//   - error: Error from fn, or gobreaker.ErrOpenState / ErrTooManyRequests
func (b *Breaker) Execute(ctx context.Context, operation string, fn func(ctx context.Context) error) error {
	ctx, span := otel.Tracer("circuit-breaker").Start(ctx, "CircuitBreaker.Execute")
	defer span.End()

	span.SetAttributes(
		attribute.String("circuit_breaker.name", b.name),
		attribute.String("circuit_breaker.operation", operation),
		attribute.String("circuit_breaker.state", b.breaker.State().String()),
	)

	_, err := b.breaker.Execute(func() (interface{}, error) {
		return nil, fn(ctx)
	})

	if err != nil {
		span.RecordError(err)

		b.logger.Warn("circuit breaker call failed",
			zap.String("name", b.name),
			zap.String("operation", operation),
			zap.String("state", b.breaker.State().String()),
			zap.Error(err))
	}

	span.SetAttributes(attribute.Bool("circuit_breaker.success", err == nil))

	return err
}

func (b *Breaker) State() gobreaker.State {
	return b.breaker.State()
}

func (b *Breaker) Counts() gobreaker.Counts {
	return b.breaker.Counts()
}

// Stats is a snapshot of one breaker for health reporting.
type Stats struct {
	Name                 string `json:"name"`
	State                string `json:"state"`
	Requests             uint32 `json:"requests"`
	TotalFailures        uint32 `json:"total_failures"`
	ConsecutiveFailures  uint32 `json:"consecutive_failures"`
	ConsecutiveSuccesses uint32 `json:"consecutive_successes"`
}

// Manager owns the breakers of a process, one per upstream.
type Manager struct {
	mu       sync.Mutex
	breakers map[string]*Breaker
	logger   *zap.Logger
}

func NewManager(logger *zap.Logger) *Manager {
	return &Manager{
		breakers: make(map[string]*Breaker),
		logger:   logger,
	}
}

// Get returns the breaker registered under name, creating it from cfg on
// first use.
func (m *Manager) Get(name string, cfg Config) *Breaker {
	m.mu.Lock()
	defer m.mu.Unlock()

	if b, ok := m.breakers[name]; ok {
		return b
	}

	cfg.Name = name
	b := New(cfg, m.logger)
	m.breakers[name] = b

	return b
}

// Stats reports every breaker, sorted by name.
func (m *Manager) Stats() []Stats {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]Stats, 0, len(m.breakers))

	for name, b := range m.breakers {
		counts := b.Counts()
		out = append(out, Stats{
			Name:                 name,
			State:                b.State().String(),
			Requests:             counts.Requests,
			TotalFailures:        counts.TotalFailures,
			ConsecutiveFailures:  counts.ConsecutiveFailures,
			ConsecutiveSuccesses: counts.ConsecutiveSuccesses,
		})
	}

	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })

	return out
}
