// Package app assembles the graph client stack shared by the binaries.
package app

import (
	"context"

	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/vanshika/movieshelf/backend/internal/config"
	"github.com/vanshika/movieshelf/backend/internal/graph"
)

// GraphDeps carries the optional decorators applied around the Neo4j client.
type GraphDeps struct {
	Observer graph.QueryObserver
	Tracer   trace.Tracer
}

// NewGraphClient dials Neo4j and wraps the client, innermost first, with the
// circuit breaker, query metrics and tracing when configured.
func NewGraphClient(ctx context.Context, logger *zap.Logger, cfg config.GraphConfig, deps GraphDeps) (graph.Client, error) {
	if cfg.URI == "" {
		return nil, graph.ErrMissingURI
	}

	client, err := graph.NewNeo4jClient(ctx, graph.Options{
		URI:               cfg.URI,
		Database:          cfg.Database,
		Username:          cfg.Username,
		Password:          cfg.Password,
		MaxConnections:    cfg.MaxConnections,
		ConnectionTimeout: cfg.ConnectionTimeout,
	})
	if err != nil {
		return nil, err
	}
	return Decorate(client, logger, cfg, deps), nil
}

// Decorate applies the configured decorators to an existing client.
func Decorate(client graph.Client, logger *zap.Logger, cfg config.GraphConfig, deps GraphDeps) graph.Client {
	if cfg.BreakerEnabled {
		client = graph.NewBreakerClient(client, graph.DefaultBreakerSettings(), logger)
	}
	if deps.Observer != nil {
		client = graph.NewInstrumentedClient(client, deps.Observer)
	}
	if deps.Tracer != nil {
		client = graph.NewTracedClient(client, deps.Tracer, cfg.Database)
	}
	return client
}
