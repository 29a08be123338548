// Copyright 2026 The Cockroach Authors.
//
// Use of this software is governed by the CockroachDB Software License
// included in the /LICENSE file.

package cache

import (
	"github.com/cockroachdb/ddcache/pkg/dd/ddobj"
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics are the shared cache metrics, labeled by partition.
type Metrics struct {
	Hits      *prometheus.CounterVec
	Misses    *prometheus.CounterVec
	Evictions *prometheus.CounterVec
	Elements  *prometheus.GaugeVec
	Unused    *prometheus.GaugeVec
}

// NewMetrics creates an unregistered set of shared cache metrics.
func NewMetrics() *Metrics {
	labels := []string{"partition"}
	return &Metrics{
		Hits: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "dd", Subsystem: "cache", Name: "hits_total",
			Help: "Number of shared cache lookups served without storage access.",
		}, labels),
		Misses: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "dd", Subsystem: "cache", Name: "misses_total",
			Help: "Number of shared cache lookups that had to read storage.",
		}, labels),
		Evictions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "dd", Subsystem: "cache", Name: "evictions_total",
			Help: "Number of unused elements evicted to respect the partition capacity.",
		}, labels),
		Elements: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "dd", Subsystem: "cache", Name: "elements",
			Help: "Number of elements in the partition, including negative entries.",
		}, labels),
		Unused: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "dd", Subsystem: "cache", Name: "unused_elements",
			Help: "Number of elements on the free list of the partition.",
		}, labels),
	}
}

// Register registers all metrics with r.
func (m *Metrics) Register(r prometheus.Registerer) error {
	for _, c := range []prometheus.Collector{m.Hits, m.Misses, m.Evictions, m.Elements, m.Unused} {
		if err := r.Register(c); err != nil {
			return err
		}
	}
	return nil
}

type partitionMetrics struct {
	hits      prometheus.Counter
	misses    prometheus.Counter
	evictions prometheus.Counter
	elements  prometheus.Gauge
	unused    prometheus.Gauge
}

func (m *Metrics) forPartition(p ddobj.Partition) partitionMetrics {
	l := p.String()
	return partitionMetrics{
		hits:      m.Hits.WithLabelValues(l),
		misses:    m.Misses.WithLabelValues(l),
		evictions: m.Evictions.WithLabelValues(l),
		elements:  m.Elements.WithLabelValues(l),
		unused:    m.Unused.WithLabelValues(l),
	}
}
