package sdk

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"
)

// MockDoer provides an in-memory Doer for unit tests without hitting the API.
// Queued responses are returned in order; every request is recorded.
type MockDoer struct {
	mu       sync.Mutex
	queue    []mockResult
	requests []Request
}

// MockClientError is returned when a mock is used without a queued response.
type MockClientError struct {
	Reason string
}

func (e MockClientError) Error() string { return "mock client: " + e.Reason }

type mockResult struct {
	status int
	body   []byte
	err    error
}

// NewMockDoer creates an empty mock.
func NewMockDoer() *MockDoer {
	return &MockDoer{}
}

// WithJSON enqueues a response whose body is v encoded as JSON.
func (m *MockDoer) WithJSON(status int, v any) *MockDoer {
	body, err := json.Marshal(v)
	if err != nil {
		return m.WithError(fmt.Errorf("mock client: encode response: %w", err))
	}
	return m.WithRaw(status, body)
}

// WithRaw enqueues a response with a verbatim body.
func (m *MockDoer) WithRaw(status int, body []byte) *MockDoer {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.queue = append(m.queue, mockResult{status: status, body: body})
	return m
}

// WithError enqueues an error for the next call.
func (m *MockDoer) WithError(err error) *MockDoer {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.queue = append(m.queue, mockResult{err: err})
	return m
}

// Do implements Doer.
func (m *MockDoer) Do(ctx context.Context, req Request) (*Response, error) {
	m.mu.Lock()
	m.requests = append(m.requests, req)
	if len(m.queue) == 0 {
		m.mu.Unlock()
		return nil, MockClientError{Reason: fmt.Sprintf("no response queued for %s %s", req.Method, req.Path)}
	}
	next := m.queue[0]
	m.queue = m.queue[1:]
	m.mu.Unlock()

	if ctx != nil {
		if err := ctx.Err(); err != nil {
			return nil, transportError(req.Method+" "+req.Path, err)
		}
	}
	if req.Body != nil {
		// Drain raw bodies the way a transport would, so writers feeding a pipe finish.
		_, _ = io.Copy(io.Discard, req.Body)
	}
	if next.err != nil {
		return nil, next.err
	}
	status := next.status
	if status == 0 {
		status = http.StatusOK
	}
	if status >= 400 {
		return nil, decodeServerError(status, next.body)
	}
	resp := &Response{StatusCode: status, Header: http.Header{}}
	if req.Stream {
		resp.Stream = io.NopCloser(bytes.NewReader(next.body))
		return resp, nil
	}
	resp.Body = next.body
	return resp, nil
}

// Requests returns the recorded requests in call order.
func (m *MockDoer) Requests() []Request {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Request, len(m.requests))
	copy(out, m.requests)
	return out
}

// Pending reports how many queued responses were not consumed.
func (m *MockDoer) Pending() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.queue)
}

// EncodedJSON renders a recorded request's JSON body the way the client
// sends it.
func EncodedJSON(req Request) ([]byte, error) {
	if req.JSON == nil {
		return nil, nil
	}
	return json.Marshal(normalizeTimes(req.JSON))
}
