package graph

import (
	"context"
	"time"
)

// QueryObserver receives the outcome of every statement. metrics.Collector
// satisfies it.
type QueryObserver interface {
	ObserveQuery(mode string, duration time.Duration, err error)
}

// InstrumentedClient reports statement latency and failures to an observer.
type InstrumentedClient struct {
	inner    Client
	observer QueryObserver
	now      func() time.Time
}

// NewInstrumentedClient wraps inner with query instrumentation.
func NewInstrumentedClient(inner Client, observer QueryObserver) *InstrumentedClient {
	return &InstrumentedClient{inner: inner, observer: observer, now: time.Now}
}

func (c *InstrumentedClient) ExecuteWrite(ctx context.Context, cypher string, params map[string]any) (Result, error) {
	start := c.now()
	res, err := c.inner.ExecuteWrite(ctx, cypher, params)
	c.observer.ObserveQuery(ModeWrite, c.now().Sub(start), err)
	return res, err
}

func (c *InstrumentedClient) Unwrap() Client {
	return c.inner
}

func (c *InstrumentedClient) VerifyConnectivity(ctx context.Context) error {
	return c.inner.VerifyConnectivity(ctx)
}

func (c *InstrumentedClient) Close(ctx context.Context) error {
	return c.inner.Close(ctx)
}
