package sdk

import (
	"context"
	"net/http"
	"sync"

	"go.uber.org/zap"

	"github.com/luminolabs/lumino/sdk/go/internal/httpclient"
)

// session owns the HTTP client shared by every request of a Client.
type session struct {
	mu       sync.Mutex
	provided *http.Client
	client   *http.Client
	logger   *zap.Logger
}

func newSession(provided *http.Client, logger *zap.Logger) *session {
	return &session{provided: provided, logger: logger}
}

// acquire returns the open HTTP client, creating it on first use.
func (s *session) acquire() *http.Client {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.client == nil {
		if s.provided != nil {
			s.client = s.provided
		} else {
			s.client = httpclient.NewHTTPClient(nil, s.logger)
		}
	}
	return s.client
}

// release drops idle connections and forgets the client. It reports whether a
// session was open.
func (s *session) release() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.client == nil {
		return false
	}
	s.client.CloseIdleConnections()
	s.client = nil
	return true
}

func (s *session) open() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.client != nil
}

// Open creates the session ahead of the first request. Calling it while the
// session is open is a no-op.
func (c *Client) Open(ctx context.Context) error {
	if c == nil || c.session == nil {
		return errClientNotInitialized
	}
	if ctx == nil {
		ctx = context.Background()
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	if !c.session.open() {
		c.session.acquire()
		c.logger.Debug("session opened", zap.String("base_url", c.baseURL))
	}
	return nil
}

// Close releases the session. It is safe to call more than once; a later
// request opens a fresh session.
func (c *Client) Close() error {
	if c == nil || c.session == nil {
		return nil
	}
	if c.session.release() {
		c.logger.Debug("session closed")
	}
	return nil
}

// IsOpen reports whether the session is currently held.
func (c *Client) IsOpen() bool {
	return c != nil && c.session != nil && c.session.open()
}

// WithSession builds a client from cfg, opens it, runs fn and closes the
// session on every exit path.
func WithSession(ctx context.Context, cfg Config, fn func(ctx context.Context, client *Client) error) error {
	client, err := NewClient(cfg)
	if err != nil {
		return err
	}
	if err := client.Open(ctx); err != nil {
		return err
	}
	defer client.Close()
	return fn(ctx, client)
}
