// Package promhooks exports SDK request telemetry as Prometheus metrics.
package promhooks

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	sdk "github.com/luminolabs/lumino/sdk/go"
)

// Collector holds the request counter and latency histogram fed by the hooks.
type Collector struct {
	requests *prometheus.CounterVec
	latency  *prometheus.HistogramVec
}

// New registers the collector's metrics with reg. A nil reg uses the default registerer.
func New(reg prometheus.Registerer) (*Collector, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	c := &Collector{
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "lumino_sdk_http_requests_total",
			Help: "Total number of Lumino API requests by method and status",
		}, []string{"method", "status"}),
		latency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    sdk.MetricHTTPRequestLatency,
			Help:    "Latency of Lumino API requests in milliseconds",
			Buckets: []float64{5, 10, 25, 50, 100, 250, 500, 1000, 2500, 5000, 10000},
		}, []string{"method", "status"}),
	}
	if err := reg.Register(c.requests); err != nil {
		existing, ok := reuse(err).(*prometheus.CounterVec)
		if !ok {
			return nil, err
		}
		c.requests = existing
	}
	if err := reg.Register(c.latency); err != nil {
		existing, ok := reuse(err).(*prometheus.HistogramVec)
		if !ok {
			return nil, err
		}
		c.latency = existing
	}
	return c, nil
}

// Hooks returns telemetry hooks that feed this collector. Other hooks already
// set on base are kept and run first.
func (c *Collector) Hooks(base sdk.TelemetryHooks) sdk.TelemetryHooks {
	prevResponse := base.OnHTTPResponse
	prevMetric := base.OnMetric
	base.OnHTTPResponse = func(ctx context.Context, req *http.Request, resp *http.Response, err error, latency time.Duration) {
		if prevResponse != nil {
			prevResponse(ctx, req, resp, err, latency)
		}
		c.requests.WithLabelValues(req.Method, status(resp, err)).Inc()
	}
	base.OnMetric = func(ctx context.Context, metric sdk.Metric) {
		if prevMetric != nil {
			prevMetric(ctx, metric)
		}
		if metric.Name != sdk.MetricHTTPRequestLatency {
			return
		}
		c.latency.WithLabelValues(metric.Labels["method"], metric.Labels["status"]).Observe(metric.Value)
	}
	return base
}

// reuse returns the collector already registered under the same name, if any.
func reuse(err error) prometheus.Collector {
	var already prometheus.AlreadyRegisteredError
	if errors.As(err, &already) {
		return already.ExistingCollector
	}
	return nil
}

func status(resp *http.Response, err error) string {
	if err != nil || resp == nil {
		return "error"
	}
	return strconv.Itoa(resp.StatusCode)
}
