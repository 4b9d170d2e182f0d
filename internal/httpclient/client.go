// Package httpclient builds the pooled HTTP transport backing an SDK session.
package httpclient

import (
	"net"
	"net/http"
	"os"
	"strconv"
	"time"

	"go.uber.org/zap"
)

// Environment variables that override the default request deadlines. Values
// are whole seconds or Go durations such as "90s" or "2m".
const (
	EnvTimeout               = "LUMINO_HTTP_TIMEOUT"
	EnvResponseHeaderTimeout = "LUMINO_HTTP_RESPONSE_HEADER_TIMEOUT"
)

// ClientConfig holds the connection pool and deadline settings of a session.
// Zero Timeout and ResponseHeaderTimeout mean no SDK-imposed deadline; callers
// bound individual calls with their context instead.
type ClientConfig struct {
	// Idle keep-alive connections kept across all hosts, and per host.
	MaxIdleConns        int
	MaxIdleConnsPerHost int
	// IdleConnTimeout evicts pooled connections unused for this long.
	IdleConnTimeout time.Duration

	// Timeout covers a whole exchange, body included.
	Timeout time.Duration
	// ResponseHeaderTimeout starts once the request is written.
	ResponseHeaderTimeout time.Duration

	DialTimeout         time.Duration
	KeepAlive           time.Duration
	TLSHandshakeTimeout time.Duration
}

// envDuration returns the duration named by key, or fallback when key is
// unset. A malformed value is logged and ignored.
func envDuration(logger *zap.Logger, key string, fallback time.Duration) time.Duration {
	val, ok := os.LookupEnv(key)
	if !ok || val == "" {
		return fallback
	}
	if secs, err := strconv.Atoi(val); err == nil && secs >= 0 {
		return time.Duration(secs) * time.Second
	}
	if d, err := time.ParseDuration(val); err == nil && d >= 0 {
		return d
	}
	logger.Warn("ignoring malformed duration",
		zap.String("env", key),
		zap.String("value", val),
		zap.Duration("using", fallback),
	)
	return fallback
}

// DefaultConfig returns the pool settings used when the caller does not
// supply an *http.Client. Deadlines come from EnvTimeout and
// EnvResponseHeaderTimeout and default to none. A nil logger discards
// warnings about malformed values.
func DefaultConfig(logger *zap.Logger) ClientConfig {
	if logger == nil {
		logger = zap.NewNop()
	}
	return ClientConfig{
		MaxIdleConns:          100,
		MaxIdleConnsPerHost:   16,
		IdleConnTimeout:       90 * time.Second,
		Timeout:               envDuration(logger, EnvTimeout, 0),
		ResponseHeaderTimeout: envDuration(logger, EnvResponseHeaderTimeout, 0),
		DialTimeout:           30 * time.Second,
		KeepAlive:             30 * time.Second,
		TLSHandshakeTimeout:   10 * time.Second,
	}
}

// NewHTTPClient returns a client using cfg, or DefaultConfig(logger) when cfg
// is nil.
func NewHTTPClient(cfg *ClientConfig, logger *zap.Logger) *http.Client {
	if cfg == nil {
		def := DefaultConfig(logger)
		cfg = &def
	}
	dialer := &net.Dialer{Timeout: cfg.DialTimeout, KeepAlive: cfg.KeepAlive}
	return &http.Client{
		Timeout: cfg.Timeout,
		Transport: &http.Transport{
			Proxy:                 http.ProxyFromEnvironment,
			DialContext:           dialer.DialContext,
			ForceAttemptHTTP2:     true,
			MaxIdleConns:          cfg.MaxIdleConns,
			MaxIdleConnsPerHost:   cfg.MaxIdleConnsPerHost,
			IdleConnTimeout:       cfg.IdleConnTimeout,
			TLSHandshakeTimeout:   cfg.TLSHandshakeTimeout,
			ResponseHeaderTimeout: cfg.ResponseHeaderTimeout,
			ExpectContinueTimeout: time.Second,
		},
	}
}
