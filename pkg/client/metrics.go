package client

import (
	"errors"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// callMetrics records per-call counters and latencies.
type callMetrics struct {
	calls    *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

// newCallMetrics registers the call metrics on reg. Clients sharing a
// registerer share the collectors registered by the first of them.
func newCallMetrics(reg prometheus.Registerer) (*callMetrics, error) {
	calls, err := register(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "upx_calls_total",
		Help: "Total backend calls by module, function, and result.",
	}, []string{"module", "function", "result"}))
	if err != nil {
		return nil, err
	}
	duration, err := register(reg, prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "upx_call_duration_seconds",
		Help:    "Backend call duration in seconds, from dispatch to settlement.",
		Buckets: prometheus.DefBuckets,
	}, []string{"module", "function"}))
	if err != nil {
		return nil, err
	}
	return &callMetrics{calls: calls, duration: duration}, nil
}

// register adds c to reg, or returns the equivalent collector already there.
func register[C prometheus.Collector](reg prometheus.Registerer, c C) (C, error) {
	err := reg.Register(c)
	if err == nil {
		return c, nil
	}
	var already prometheus.AlreadyRegisteredError
	if errors.As(err, &already) {
		if existing, ok := already.ExistingCollector.(C); ok {
			return existing, nil
		}
	}
	var zero C
	return zero, fmt.Errorf("register metrics: %w", err)
}

func (m *callMetrics) observe(module, function string, err error, d time.Duration) {
	if m == nil {
		return
	}
	m.calls.WithLabelValues(module, function, resultLabel(err)).Inc()
	m.duration.WithLabelValues(module, function).Observe(d.Seconds())
}

// resultLabel condenses a settlement into a low-cardinality label value.
func resultLabel(err error) string {
	if err == nil {
		return "success"
	}
	if code := Code(err); code != "" {
		return string(code)
	}
	var envErr *EnvelopeError
	if errors.As(err, &envErr) {
		return "rejected"
	}
	return "error"
}
