// Package metrics defines the Prometheus collectors exported at /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "expensex"

// Metrics groups every collector the service records to.
type Metrics struct {
	RPCRequests  *prometheus.CounterVec
	RPCDuration  *prometheus.HistogramVec
	Settlements  prometheus.Histogram
	CacheLookups *prometheus.CounterVec
	Events       *prometheus.CounterVec
}

// New creates the collectors and registers them with reg.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		RPCRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rpc_requests_total",
			Help:      "RPCs handled, by procedure and result code.",
		}, []string{"procedure", "code"}),
		RPCDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "rpc_duration_seconds",
			Help:      "RPC latency, by procedure.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"procedure"}),
		Settlements: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "settlement_transfers",
			Help:      "Number of transfers produced per settlement computation.",
			Buckets:   prometheus.LinearBuckets(0, 2, 10),
		}),
		CacheLookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "settlement_cache_lookups_total",
			Help:      "Settlement cache lookups, by result (hit, miss, error).",
		}, []string{"result"}),
		Events: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "events_published_total",
			Help:      "Domain events published, by type and result.",
		}, []string{"type", "result"}),
	}

	reg.MustRegister(m.RPCRequests, m.RPCDuration, m.Settlements, m.CacheLookups, m.Events)
	return m
}
