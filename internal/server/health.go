package server

import (
	"context"
	"fmt"

	"github.com/sony/gobreaker"

	"github.com/vanshika/movieshelf/backend/internal/graph"
)

// HealthService defines behaviour for readiness probes.
type HealthService interface {
	Probe(ctx context.Context) error
}

// GraphHealthService reports the favorites store as unhealthy when Neo4j is
// unreachable or when the graph circuit breaker is rejecting queries.
type GraphHealthService struct {
	Client graph.Client
}

// Probe implements the HealthService interface.
func (s GraphHealthService) Probe(ctx context.Context) error {
	if s.Client == nil {
		return nil
	}
	// An open breaker fails every favorites request even while the database
	// itself answers connectivity checks.
	if breaker := graph.FindBreaker(s.Client); breaker != nil && breaker.State() == gobreaker.StateOpen {
		return fmt.Errorf("graph circuit breaker %s: %w", breaker.State(), gobreaker.ErrOpenState)
	}
	if err := s.Client.VerifyConnectivity(ctx); err != nil {
		return fmt.Errorf("neo4j unreachable: %w", err)
	}
	return nil
}
