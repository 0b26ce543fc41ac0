package datacanvas

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics records per-endpoint request counts and latencies.
// A nil *Metrics records nothing.
type Metrics struct {
	requests *prometheus.CounterVec
	latency  *prometheus.HistogramVec
}

// NewMetrics creates the client collectors and registers them with reg.
// A nil reg leaves the collectors unregistered.
//
// Example:
//
//	m, err := datacanvas.NewMetrics(prometheus.DefaultRegisterer)
//	client, err := datacanvas.NewClient(cfg, datacanvas.WithMetrics(m))
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "datacanvas",
			Subsystem: "client",
			Name:      "requests_total",
			Help:      "DataCanvas API requests by endpoint and outcome.",
		}, []string{"endpoint", "outcome"}),
		latency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "datacanvas",
			Subsystem: "client",
			Name:      "request_duration_seconds",
			Help:      "DataCanvas API request latency.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"endpoint"}),
	}

	if reg != nil {
		for _, c := range []prometheus.Collector{m.requests, m.latency} {
			if err := reg.Register(c); err != nil {
				return nil, err
			}
		}
	}
	return m, nil
}

// WithMetrics records request metrics for every API call.
func WithMetrics(m *Metrics) Option {
	return func(c *Client) {
		c.metrics = m
	}
}

// observe records one finished request. err is nil on success.
func (m *Metrics) observe(endpoint string, duration time.Duration, err error) {
	if m == nil {
		return
	}
	outcome := "ok"
	if err != nil {
		outcome = KindOf(err).String()
	}
	m.requests.WithLabelValues(endpoint, outcome).Inc()
	m.latency.WithLabelValues(endpoint).Observe(duration.Seconds())
}
