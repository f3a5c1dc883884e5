// control/prometheus.go
// Author: momentics <momentics@gmail.com>
//
// Prometheus collector over the metrics registry. Snapshot-based: every
// scrape reads the registry once, so hot paths never touch prometheus
// types directly.

package control

import (
	"strings"

	"github.com/prometheus/client_golang/prometheus"
)

// Collector exposes a MetricsRegistry to a prometheus scrape.
type Collector struct {
	reg       *MetricsRegistry
	namespace string
}

// NewCollector wraps a registry for prometheus registration.
func NewCollector(reg *MetricsRegistry, namespace string) *Collector {
	return &Collector{reg: reg, namespace: namespace}
}

// Describe implements prometheus.Collector. Descriptors are dynamic, so
// an empty Describe marks this an unchecked collector.
func (c *Collector) Describe(_ chan<- *prometheus.Desc) {}

// Collect implements prometheus.Collector.
func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	for key, val := range c.reg.GetSnapshot() {
		name := key
		if c.namespace != "" {
			name = c.namespace + "_" + key
		}
		desc := prometheus.NewDesc(sanitize(name), "hioload-shm counter "+key, nil, nil)
		ch <- prometheus.MustNewConstMetric(desc, prometheus.CounterValue, float64(val))
	}
}

// sanitize maps registry keys onto the prometheus metric name charset.
func sanitize(name string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_', r == ':':
			return r
		default:
			return '_'
		}
	}, name)
}
