package graph

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// TracedClient records one span per graph statement.
type TracedClient struct {
	inner    Client
	tracer   trace.Tracer
	database string
}

// NewTracedClient wraps inner so every statement runs inside a client span.
func NewTracedClient(inner Client, tracer trace.Tracer, database string) *TracedClient {
	return &TracedClient{inner: inner, tracer: tracer, database: database}
}

func (t *TracedClient) ExecuteWrite(ctx context.Context, cypher string, params map[string]any) (Result, error) {
	ctx, span := t.start(ctx, "graph.ExecuteWrite", ModeWrite, cypher)
	defer span.End()

	res, err := t.inner.ExecuteWrite(ctx, cypher, params)
	finish(span, res, err)
	return res, err
}

func (t *TracedClient) Unwrap() Client {
	return t.inner
}

func (t *TracedClient) VerifyConnectivity(ctx context.Context) error {
	ctx, span := t.tracer.Start(ctx, "graph.VerifyConnectivity", trace.WithSpanKind(trace.SpanKindClient))
	defer span.End()

	err := t.inner.VerifyConnectivity(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	return err
}

func (t *TracedClient) Close(ctx context.Context) error {
	return t.inner.Close(ctx)
}

func (t *TracedClient) start(ctx context.Context, name, mode, cypher string) (context.Context, trace.Span) {
	return t.tracer.Start(ctx, name,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("db.system", "neo4j"),
			attribute.String("db.name", t.database),
			attribute.String("db.operation", mode),
			attribute.String("db.statement", cypher),
		),
	)
}

func finish(span trace.Span, res Result, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return
	}
	span.SetAttributes(attribute.Int("db.records", len(res.Records)))
}
