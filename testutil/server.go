// Package testutil provides a fake Lumino API server for SDK tests.
package testutil

import (
	"bytes"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"sync"
	"time"
)

// Route describes the canned reply for one method and path.
type Route struct {
	Status      int
	Body        string
	ContentType string
	// Chunks, when set, are written and flushed one at a time instead of Body.
	Chunks []string
	// Delay is applied before the reply is written.
	Delay time.Duration
}

// RecordedRequest is a request the server received.
type RecordedRequest struct {
	Method   string
	Path     string
	RawQuery string
	Header   http.Header
	Body     []byte
}

// Form parses a multipart request body.
func (r RecordedRequest) Form() (*multipart.Form, error) {
	_, params, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if err != nil {
		return nil, err
	}
	return multipart.NewReader(bytes.NewReader(r.Body), params["boundary"]).ReadForm(32 << 20)
}

// Server is an httptest server that answers from a route table and records
// every request. Unknown routes get a 404 with a JSON message.
type Server struct {
	*httptest.Server

	mu       sync.Mutex
	routes   map[string]Route
	requests []RecordedRequest
}

// NewServer starts an empty fake API server. Callers close it.
func NewServer() *Server {
	s := &Server{routes: make(map[string]Route)}
	s.Server = httptest.NewServer(http.HandlerFunc(s.serve))
	return s
}

// Handle registers a reply. path is the escaped path as sent on the wire.
func (s *Server) Handle(method, path string, route Route) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.routes[method+" "+path] = route
}

// HandleJSON registers a JSON reply.
func (s *Server) HandleJSON(method, path string, status int, body string) {
	s.Handle(method, path, Route{Status: status, Body: body, ContentType: "application/json"})
}

// Requests returns the recorded requests in arrival order.
func (s *Server) Requests() []RecordedRequest {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]RecordedRequest, len(s.requests))
	copy(out, s.requests)
	return out
}

// LastRequest returns the most recent request, if any.
func (s *Server) LastRequest() (RecordedRequest, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.requests) == 0 {
		return RecordedRequest{}, false
	}
	return s.requests[len(s.requests)-1], true
}

func (s *Server) serve(w http.ResponseWriter, r *http.Request) {
	body, _ := io.ReadAll(r.Body)
	s.mu.Lock()
	s.requests = append(s.requests, RecordedRequest{
		Method:   r.Method,
		Path:     r.URL.EscapedPath(),
		RawQuery: r.URL.RawQuery,
		Header:   r.Header.Clone(),
		Body:     body,
	})
	route, ok := s.routes[r.Method+" "+r.URL.EscapedPath()]
	s.mu.Unlock()

	if !ok {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"message":"not found"}`))
		return
	}
	if route.Delay > 0 {
		select {
		case <-time.After(route.Delay):
		case <-r.Context().Done():
			return
		}
	}
	status := route.Status
	if status == 0 {
		status = http.StatusOK
	}
	if route.ContentType != "" {
		w.Header().Set("Content-Type", route.ContentType)
	}
	w.WriteHeader(status)
	if len(route.Chunks) == 0 {
		_, _ = w.Write([]byte(route.Body))
		return
	}
	flusher, _ := w.(http.Flusher)
	for _, chunk := range route.Chunks {
		_, _ = w.Write([]byte(chunk))
		if flusher != nil {
			flusher.Flush()
		}
	}
}
