package graph

import (
	"context"
	"errors"
	"time"

	"github.com/sony/gobreaker"
	"go.uber.org/zap"
)

// BreakerSettings tunes the circuit breaker guarding the graph client.
type BreakerSettings struct {
	Name             string
	MaxRequests      uint32
	Interval         time.Duration
	Timeout          time.Duration
	FailureThreshold float64
	MinRequests      uint32
}

// DefaultBreakerSettings returns conservative breaker settings.
func DefaultBreakerSettings() BreakerSettings {
	return BreakerSettings{
		Name:             "graph",
		MaxRequests:      5,
		Interval:         30 * time.Second,
		Timeout:          30 * time.Second,
		FailureThreshold: 0.8,
		MinRequests:      10,
	}
}

// BreakerClient short-circuits queries with gobreaker.ErrOpenState while the
// database keeps failing. Errors from the wrapped client are returned as-is.
type BreakerClient struct {
	inner   Client
	breaker *gobreaker.CircuitBreaker
}

// NewBreakerClient wraps inner with a circuit breaker.
func NewBreakerClient(inner Client, settings BreakerSettings, logger *zap.Logger) *BreakerClient {
	if logger == nil {
		logger = zap.NewNop()
	}
	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        settings.Name,
		MaxRequests: settings.MaxRequests,
		Interval:    settings.Interval,
		Timeout:     settings.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < settings.MinRequests {
				return false
			}
			ratio := float64(counts.TotalFailures) / float64(counts.Requests)
			return ratio >= settings.FailureThreshold
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("graph circuit breaker state changed",
				zap.String("breaker", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()),
			)
		},
		IsSuccessful: func(err error) bool {
			// A caller giving up is not a database failure.
			return err == nil || errors.Is(err, context.Canceled)
		},
	})
	return &BreakerClient{inner: inner, breaker: cb}
}

func (b *BreakerClient) ExecuteWrite(ctx context.Context, cypher string, params map[string]any) (Result, error) {
	return b.execute(func() (Result, error) {
		return b.inner.ExecuteWrite(ctx, cypher, params)
	})
}

func (b *BreakerClient) Unwrap() Client {
	return b.inner
}

// VerifyConnectivity bypasses the breaker so health probes reflect the real
// database state.
func (b *BreakerClient) VerifyConnectivity(ctx context.Context) error {
	return b.inner.VerifyConnectivity(ctx)
}

func (b *BreakerClient) Close(ctx context.Context) error {
	return b.inner.Close(ctx)
}

// State exposes the current breaker state.
func (b *BreakerClient) State() gobreaker.State {
	return b.breaker.State()
}

func (b *BreakerClient) execute(fn func() (Result, error)) (Result, error) {
	out, err := b.breaker.Execute(func() (interface{}, error) {
		return fn()
	})
	if err != nil {
		return Result{}, err
	}
	return out.(Result), nil
}
