package sdk

import (
	"context"
	"net/http"
	"strconv"
	"time"
)

// MetricHTTPRequestLatency is emitted once per dispatched request.
const MetricHTTPRequestLatency = "lumino_sdk_http_request_latency_ms"

// TelemetryHooks observe every dispatched request. Nil hooks are skipped;
// telemetry/promhooks adapts them to Prometheus.
type TelemetryHooks struct {
	// OnHTTPRequest runs just before the request leaves the session.
	OnHTTPRequest func(ctx context.Context, req *http.Request)
	// OnHTTPResponse runs once the round trip ends. resp is nil on transport failure.
	OnHTTPResponse func(ctx context.Context, req *http.Request, resp *http.Response, err error, latency time.Duration)
	// OnMetric receives MetricHTTPRequestLatency for each request.
	OnMetric func(ctx context.Context, metric Metric)
}

// Metric is one labeled sample.
type Metric struct {
	Name   string
	Value  float64
	Labels map[string]string
}

func (t TelemetryHooks) metric(ctx context.Context, name string, value float64, labels map[string]string) {
	if t.OnMetric == nil {
		return
	}
	t.OnMetric(ctx, Metric{Name: name, Value: value, Labels: labels})
}

// statusLabel is "error" for transport failures, else the numeric status.
func statusLabel(resp *http.Response, err error) string {
	if err != nil || resp == nil {
		return "error"
	}
	return strconv.Itoa(resp.StatusCode)
}
