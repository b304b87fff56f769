package graph

import (
	"context"
	"sync"
)

// MemoryClient is an in-memory implementation of the Client interface used for
// unit testing repository logic without a running graph database. It records
// every executed statement and replays queued responses in FIFO order.
type MemoryClient struct {
	mu             sync.Mutex
	writeCalls     []ExecutedQuery
	writeResponses []response
	err            error
	connectivity   error
	closed         bool
}

// ExecutedQuery captures a cypher statement and parameters executed against the graph.
type ExecutedQuery struct {
	Query  string
	Params map[string]any
}

type response struct {
	result Result
	err    error
}

// NewMemoryClient instantiates an empty in-memory client.
func NewMemoryClient() *MemoryClient {
	return &MemoryClient{}
}

// WithError configures the client to return the provided error for every call.
func (m *MemoryClient) WithError(err error) *MemoryClient {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
	return m
}

// WithConnectivityError forces VerifyConnectivity to return the supplied error.
func (m *MemoryClient) WithConnectivityError(err error) *MemoryClient {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.connectivity = err
	return m
}

// PushWriteResult queues a result for the next ExecuteWrite call.
func (m *MemoryClient) PushWriteResult(res Result) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.writeResponses = append(m.writeResponses, response{result: res})
}

// PushWriteError queues an error for the next ExecuteWrite call.
func (m *MemoryClient) PushWriteError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.writeResponses = append(m.writeResponses, response{err: err})
}

func (m *MemoryClient) ExecuteWrite(_ context.Context, cypher string, params map[string]any) (Result, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.err != nil {
		return Result{}, m.err
	}
	m.writeCalls = append(m.writeCalls, ExecutedQuery{Query: cypher, Params: cloneMap(params)})
	return pop(&m.writeResponses)
}

func (m *MemoryClient) VerifyConnectivity(context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.connectivity
}

func (m *MemoryClient) Close(context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}

// Closed reports whether Close has been called.
func (m *MemoryClient) Closed() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.closed
}

// WriteCalls returns a snapshot of executed write queries.
func (m *MemoryClient) WriteCalls() []ExecutedQuery {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]ExecutedQuery(nil), m.writeCalls...)
}

// pop must be called with the client lock held. An empty queue yields an empty result.
func pop(queue *[]response) (Result, error) {
	if len(*queue) == 0 {
		return Result{}, nil
	}
	next := (*queue)[0]
	*queue = (*queue)[1:]
	return next.result, next.err
}

func cloneMap(src map[string]any) map[string]any {
	if src == nil {
		return nil
	}
	dst := make(map[string]any, len(src))
	for k, v := range src {
		dst[k] = v
	}
	return dst
}
