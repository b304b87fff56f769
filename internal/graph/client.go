package graph

import (
	"context"
	"errors"
	"time"
)

// Client defines the minimal contract required by the repositories to interact
// with the underlying graph database. Implementations acquire a session per call
// and release it before returning.
type Client interface {
	ExecuteWrite(ctx context.Context, cypher string, params map[string]any) (Result, error)
	VerifyConnectivity(ctx context.Context) error
	Close(ctx context.Context) error
}

// Result is a simplified representation of a query response.
type Result struct {
	Records []Record
}

// Record groups key-value pairs returned from the graph engine.
type Record map[string]any

// Options configures a graph client implementation.
type Options struct {
	URI               string
	Database          string
	Username          string
	Password          string
	MaxConnections    int
	ConnectionTimeout time.Duration
}

// ErrMissingURI indicates the graph URI is not provided.
var ErrMissingURI = errors.New("graph URI is required")

// ModeWrite labels statements run as managed write transactions.
const ModeWrite = "write"

// Unwrapper is implemented by decorators that wrap another Client.
type Unwrapper interface {
	Unwrap() Client
}

// FindBreaker walks a decorator chain and returns the circuit breaker, or nil
// when the chain has none.
func FindBreaker(c Client) *BreakerClient {
	for c != nil {
		if b, ok := c.(*BreakerClient); ok {
			return b
		}
		u, ok := c.(Unwrapper)
		if !ok {
			return nil
		}
		c = u.Unwrap()
	}
	return nil
}
