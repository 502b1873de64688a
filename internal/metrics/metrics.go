// Package metrics holds the Prometheus collectors for card exports.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	SourceAPI    = "api"
	SourceInline = "inline"

	ResultOK       = "ok"
	ResultFailed   = "failed"
	ResultNoAvatar = "no_avatar"
	ResultRejected = "rejected"
)

type Metrics struct {
	registry *prometheus.Registry

	Exports       *prometheus.CounterVec
	AvatarFetches *prometheus.CounterVec
	AvatarLatency prometheus.Histogram
}

// New registers the collectors on registry, or on a fresh registry when nil.
func New(namespace string, registry *prometheus.Registry) *Metrics {
	if registry == nil {
		registry = prometheus.NewRegistry()
	}
	if namespace == "" {
		namespace = "namecard"
	}

	m := &Metrics{
		registry: registry,
		Exports: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "exports_total",
			Help:      "vCard artifacts produced, by request source.",
		}, []string{"source"}),
		AvatarFetches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "avatar_fetch_total",
			Help:      "Avatar photo fetch attempts, by result.",
		}, []string{"result"}),
		AvatarLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "avatar_fetch_duration_seconds",
			Help:      "Time spent downloading and encoding avatars.",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5},
		}),
	}

	registry.MustRegister(m.Exports, m.AvatarFetches, m.AvatarLatency)
	return m
}

func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// ExportDone counts one produced artifact. Safe on a nil receiver.
func (m *Metrics) ExportDone(source string) {
	if m == nil {
		return
	}
	m.Exports.WithLabelValues(source).Inc()
}

// AvatarFetched records one avatar attempt. Safe on a nil receiver.
func (m *Metrics) AvatarFetched(result string, d time.Duration) {
	if m == nil {
		return
	}
	m.AvatarFetches.WithLabelValues(result).Inc()
	if result != ResultNoAvatar && result != ResultRejected {
		m.AvatarLatency.Observe(d.Seconds())
	}
}
