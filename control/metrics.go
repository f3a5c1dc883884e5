// control/metrics.go
// Author: momentics <momentics@gmail.com>
//
// Runtime metrics collector for chunk lifecycle monitoring.
// Exposes counters in a thread-safe map with dynamic registration.

package control

import (
	"sync"
	"time"
)

// Well-known counter keys used across the library.
const (
	MetricLoans      = "chunks_loaned_total"
	MetricPublishes  = "chunks_published_total"
	MetricDeliveries = "chunks_delivered_total"
	MetricReclaims   = "chunks_reclaimed_total"
	MetricDrops      = "chunks_dropped_total" // evicted by inbox overflow
	MetricLoanFails  = "loan_failures_total"
)

// MetricsRegistry holds mutable and read-only metrics.
type MetricsRegistry struct {
	mu       sync.RWMutex
	counters map[string]int64
	gauges   map[string]func() int64
	updated  time.Time
}

// NewMetricsRegistry creates an empty registry.
func NewMetricsRegistry() *MetricsRegistry {
	return &MetricsRegistry{
		counters: make(map[string]int64),
		gauges:   make(map[string]func() int64),
	}
}

// Inc adds delta to a counter key, creating it on first use.
func (mr *MetricsRegistry) Inc(key string, delta int64) {
	mr.mu.Lock()
	mr.counters[key] += delta
	mr.updated = time.Now()
	mr.mu.Unlock()
}

// RegisterGauge binds a key to a live value source, read at snapshot time.
func (mr *MetricsRegistry) RegisterGauge(key string, fn func() int64) {
	mr.mu.Lock()
	mr.gauges[key] = fn
	mr.updated = time.Now()
	mr.mu.Unlock()
}

// Counter returns the current value of a counter key.
func (mr *MetricsRegistry) Counter(key string) int64 {
	mr.mu.RLock()
	defer mr.mu.RUnlock()
	return mr.counters[key]
}

// GetSnapshot returns the latest metrics, counters and gauges merged.
func (mr *MetricsRegistry) GetSnapshot() map[string]int64 {
	mr.mu.RLock()
	defer mr.mu.RUnlock()
	out := make(map[string]int64, len(mr.counters)+len(mr.gauges))
	for k, v := range mr.counters {
		out[k] = v
	}
	for k, fn := range mr.gauges {
		out[k] = fn()
	}
	return out
}

// Updated reports the time of the last registry mutation.
func (mr *MetricsRegistry) Updated() time.Time {
	mr.mu.RLock()
	defer mr.mu.RUnlock()
	return mr.updated
}
