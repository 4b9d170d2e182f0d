package sdk

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/luminolabs/lumino/sdk/go/headers"
)

// DefaultBaseURL is the production Lumino API endpoint.
const DefaultBaseURL = "https://api.luminolabs.ai/v1"

var errClientNotInitialized = errors.New("sdk: client not initialized")

// Config wires authentication, base URL, logging and telemetry for the API client.
type Config struct {
	BaseURL string
	APIKey  string
	// HTTPClient backs the session. When nil, a pooled client is built on Open
	// or on the first request.
	HTTPClient *http.Client
	// Logger receives SDK logs. Defaults to zap.L() at construction time.
	Logger    *zap.Logger
	Telemetry TelemetryHooks
	UserAgent string
}

// Request is a single call through the pipeline. JSON and Body are mutually
// exclusive; Body is sent as-is with ContentType.
type Request struct {
	Method      string
	Path        string
	Query       url.Values
	JSON        any
	Body        io.Reader
	ContentType string
	// Stream leaves the success body unread in Response.Stream.
	Stream bool
}

// Response is a successful (status < 400) API response.
type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
	// Stream is set instead of Body for streaming requests. The caller closes it.
	Stream io.ReadCloser
}

// Decode unmarshals the JSON body into v. An empty body leaves v untouched.
func (r *Response) Decode(v any) error {
	if r == nil || len(bytes.TrimSpace(r.Body)) == 0 {
		return nil
	}
	if err := json.Unmarshal(r.Body, v); err != nil {
		return &ServerError{Status: r.StatusCode, Message: "malformed response body: " + err.Error(), Err: err}
	}
	return nil
}

// Map returns the body as an untyped JSON mapping.
func (r *Response) Map() (map[string]any, error) {
	out := map[string]any{}
	if err := r.Decode(&out); err != nil {
		return nil, err
	}
	return out, nil
}

// Doer is the capability every facade depends on.
type Doer interface {
	Do(ctx context.Context, req Request) (*Response, error)
}

// Client provides high-level helpers for interacting with the Lumino API.
// It is safe for concurrent use.
type Client struct {
	baseURL   string
	apiKey    string
	userAgent string
	logger    *zap.Logger
	telemetry TelemetryHooks
	session   *session

	// Grouped service clients.
	Users      *UsersClient
	APIKeys    *APIKeysClient
	Datasets   *DatasetsClient
	FineTuning *FineTuningClient
	Models     *ModelsClient
	Usage      *UsageClient
	Billing    *BillingClient
}

var _ Doer = (*Client)(nil)

// NewClient validates the configuration and returns a ready-to-use Client.
func NewClient(cfg Config) (*Client, error) {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	normalized, err := normalizeBaseURL(baseURL)
	if err != nil {
		return nil, err
	}
	apiKey := strings.TrimSpace(cfg.APIKey)
	if apiKey == "" {
		return nil, errors.New("sdk: api key required")
	}
	ua := cfg.UserAgent
	if ua == "" {
		ua = defaultUserAgent
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.L()
	}
	logger = logger.Named("lumino")
	client := &Client{
		baseURL:   normalized,
		apiKey:    apiKey,
		userAgent: ua,
		logger:    logger,
		telemetry: cfg.Telemetry,
		session:   newSession(cfg.HTTPClient, logger),
	}
	client.Users = NewUsersClient(client, logger)
	client.APIKeys = NewAPIKeysClient(client, logger)
	client.Datasets = NewDatasetsClient(client, logger)
	client.FineTuning = NewFineTuningClient(client, logger)
	client.Models = NewModelsClient(client, logger)
	client.Usage = NewUsageClient(client, logger)
	client.Billing = NewBillingClient(client, logger)
	return client, nil
}

func normalizeBaseURL(raw string) (string, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return "", errors.New("sdk: base URL required")
	}
	u, err := url.Parse(trimmed)
	if err != nil {
		return "", fmt.Errorf("sdk: invalid base URL: %w", err)
	}
	if u.Scheme == "" {
		return "", errors.New("sdk: base URL missing scheme (http/https)")
	}
	if u.Host == "" {
		return "", errors.New("sdk: base URL missing host")
	}
	u.Path = strings.TrimSuffix(u.Path, "/")
	return strings.TrimSuffix(u.String(), "/"), nil
}

// BaseURL returns the normalized API root.
func (c *Client) BaseURL() string { return c.baseURL }

// Do sends one request. Statuses >= 400 and transport failures return a
// *ServerError; an unencodable JSON body returns a *ClientError.
func (c *Client) Do(ctx context.Context, r Request) (*Response, error) {
	if c == nil || c.session == nil {
		return nil, errClientNotInitialized
	}
	if ctx == nil {
		ctx = context.Background()
	}
	httpReq, err := c.newRequest(ctx, r)
	if err != nil {
		return nil, err
	}
	resp, err := c.send(c.session.acquire(), httpReq)
	if err != nil {
		return nil, err
	}
	if r.Stream {
		return &Response{StatusCode: resp.StatusCode, Header: resp.Header, Stream: resp.Body}, nil
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, transportError("read response body", err)
	}
	return &Response{StatusCode: resp.StatusCode, Header: resp.Header, Body: body}, nil
}

func (c *Client) newRequest(ctx context.Context, r Request) (*http.Request, error) {
	method := r.Method
	if method == "" {
		method = http.MethodGet
	}
	if r.JSON != nil && r.Body != nil {
		return nil, &ClientError{Message: "request cannot carry both a JSON and a raw body"}
	}
	body := r.Body
	contentType := r.ContentType
	if r.JSON != nil {
		encoded, err := json.Marshal(normalizeTimes(r.JSON))
		if err != nil {
			return nil, &ClientError{Field: "body", Message: "encode request body: " + err.Error()}
		}
		body = bytes.NewReader(encoded)
		contentType = headers.JSON
	}
	req, err := http.NewRequestWithContext(ctx, method, c.buildURL(r.Path, r.Query), body)
	if err != nil {
		return nil, transportError("build request", err)
	}
	if contentType != "" {
		req.Header.Set(headers.ContentType, contentType)
	}
	if !r.Stream {
		req.Header.Set(headers.Accept, headers.JSON)
	}
	req.Header.Set(headers.APIKey, c.apiKey)
	if c.userAgent != "" {
		req.Header.Set(headers.UserAgent, c.userAgent)
	}
	injectTraceparent(ctx, req)
	return req, nil
}

func (c *Client) send(httpClient *http.Client, req *http.Request) (*http.Response, error) {
	ctx := req.Context()
	if c.telemetry.OnHTTPRequest != nil {
		c.telemetry.OnHTTPRequest(ctx, req)
	}
	c.logger.Debug("http_request", zap.String("method", req.Method), zap.String("url", req.URL.String()))
	start := time.Now()
	resp, err := httpClient.Do(req)
	latency := time.Since(start)
	if c.telemetry.OnHTTPResponse != nil {
		c.telemetry.OnHTTPResponse(ctx, req, resp, err, latency)
	}
	c.telemetry.metric(ctx, MetricHTTPRequestLatency, float64(latency.Milliseconds()), map[string]string{
		"method": req.Method,
		"status": statusLabel(resp, err),
	})
	if err != nil {
		return nil, transportError(req.Method+" "+req.URL.Path, err)
	}
	c.logger.Debug("http_response",
		zap.String("method", req.Method),
		zap.String("path", req.URL.Path),
		zap.Int("status", resp.StatusCode),
		zap.Duration("latency", latency),
	)
	if resp.StatusCode >= 400 {
		defer resp.Body.Close()
		body, readErr := io.ReadAll(resp.Body)
		if readErr != nil {
			return nil, &ServerError{Status: resp.StatusCode, Message: http.StatusText(resp.StatusCode), Err: readErr}
		}
		return nil, decodeServerError(resp.StatusCode, body)
	}
	return resp, nil
}

func (c *Client) buildURL(path string, query url.Values) string {
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	full := c.baseURL + path
	if len(query) > 0 {
		full += "?" + query.Encode()
	}
	return full
}

// facadeLogger names a facade's logger, falling back to a no-op logger.
func facadeLogger(logger *zap.Logger, name string) *zap.Logger {
	if logger == nil {
		return zap.NewNop()
	}
	return logger.Named(name)
}

// call sends req and decodes the JSON body into T.
func call[T any](ctx context.Context, d Doer, req Request) (T, error) {
	var out T
	resp, err := d.Do(ctx, req)
	if err != nil {
		return out, err
	}
	if err := resp.Decode(&out); err != nil {
		return out, err
	}
	return out, nil
}

// callNoContent sends req and discards any body.
func callNoContent(ctx context.Context, d Doer, req Request) error {
	_, err := d.Do(ctx, req)
	return err
}
