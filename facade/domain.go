// File: facade/domain.go
// Unified facade layer for hioload-shm library.
// Author: momentics <momentics@gmail.com>
//
// This file defines the Domain struct, which aggregates the core
// components of hioload-shm behind a single facade: shared-memory
// segment, chunk pool, delivery router, metrics registry, and debug
// probes, initialized from immutable configuration. Publishers and
// subscribers are created against Domain.Router().

package facade

import (
	"fmt"
	"sync"

	"github.com/kelseyhightower/envconfig"
	"go.uber.org/zap"

	"github.com/momentics/hioload-shm/control"
	"github.com/momentics/hioload-shm/mempool"
	"github.com/momentics/hioload-shm/pubsub"
	"github.com/momentics/hioload-shm/shm"
)

// Config holds parameters immutable per run.
type Config struct {
	SegmentName    string `envconfig:"SEGMENT_NAME"`     // Identifier of the backing shared-memory segment
	ChunksPerClass int    `envconfig:"CHUNKS_PER_CLASS"` // Chunk population per payload size class
	ChunkClasses   []int  `envconfig:"CHUNK_CLASSES"`    // Ascending payload size class table, bytes
	HeapBacked     bool   `envconfig:"HEAP_BACKED"`      // Force heap segment (single-process, tests)
	EnableMetrics  bool   `envconfig:"ENABLE_METRICS"`   // Whether to count chunk lifecycle events
	Namespace      string `envconfig:"NAMESPACE"`        // Prometheus metric namespace
}

// DefaultConfig returns default configuration values.
// These sane defaults support typical use cases without extensive tuning.
func DefaultConfig() *Config {
	return &Config{
		SegmentName:    "hioload-shm",
		ChunksPerClass: 128,
		ChunkClasses:   append([]int(nil), mempool.DefaultClasses...),
		HeapBacked:     false,
		EnableMetrics:  true,
		Namespace:      "hioload_shm",
	}
}

// ConfigFromEnv overlays HIOLOAD_SHM_* environment variables onto the
// defaults.
func ConfigFromEnv() (*Config, error) {
	cfg := DefaultConfig()
	if err := envconfig.Process("HIOLOAD_SHM", cfg); err != nil {
		return nil, fmt.Errorf("facade: config from env: %w", err)
	}
	return cfg, nil
}

// Domain is the main facade type: the root object all endpoints of one
// shared-memory domain hang off.
type Domain struct {
	cfg     *Config
	log     *zap.Logger
	seg     *shm.Segment
	pool    *mempool.Pool
	router  *pubsub.Router
	metrics *control.MetricsRegistry
	probes  *control.DebugProbes

	mu     sync.Mutex
	closed bool
}

// Option configures a Domain.
type Option func(*Domain)

// WithLogger sets the structured logger for the domain and its router.
func WithLogger(l *zap.Logger) Option {
	return func(d *Domain) { d.log = l }
}

// New builds a domain from cfg: segment sized for the class table, chunk
// pool carved from it, router and metrics wired on top.
func New(cfg *Config, opts ...Option) (*Domain, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	d := &Domain{cfg: cfg, log: zap.NewNop()}
	for _, o := range opts {
		o(d)
	}

	size := mempool.RequiredBytes(cfg.ChunkClasses, cfg.ChunksPerClass)
	var seg *shm.Segment
	if cfg.HeapBacked {
		seg = shm.NewHeap(cfg.SegmentName, size)
	} else {
		var err error
		seg, err = shm.Create(cfg.SegmentName, size)
		if err != nil {
			return nil, err
		}
	}

	pool, err := mempool.New(seg, cfg.ChunkClasses, cfg.ChunksPerClass)
	if err != nil {
		_ = seg.Close()
		return nil, err
	}

	routerOpts := []pubsub.RouterOption{pubsub.WithLogger(d.log)}
	if cfg.EnableMetrics {
		d.metrics = control.NewMetricsRegistry()
		d.metrics.RegisterGauge("chunks_in_use", func() int64 {
			return pool.Stats().InUse
		})
		routerOpts = append(routerOpts, pubsub.WithMetrics(d.metrics))
	}

	d.seg = seg
	d.pool = pool
	d.router = pubsub.NewRouter(pool, routerOpts...)
	d.probes = control.NewDebugProbes()
	d.probes.RegisterProbe("pool_stats", func() any { return pool.Stats() })
	d.probes.RegisterProbe("segment", func() any {
		return map[string]any{"name": seg.Name(), "size": seg.Size(), "fd": seg.FD()}
	})

	d.log.Info("shared-memory domain up",
		zap.String("segment", cfg.SegmentName),
		zap.Int("segment_bytes", size),
		zap.Int("chunks_per_class", cfg.ChunksPerClass),
		zap.Ints("classes", cfg.ChunkClasses))
	return d, nil
}

// Router returns the delivery router endpoints attach to.
func (d *Domain) Router() *pubsub.Router { return d.router }

// Pool returns the underlying chunk pool.
func (d *Domain) Pool() *mempool.Pool { return d.pool }

// Segment returns the backing shared-memory segment.
func (d *Domain) Segment() *shm.Segment { return d.seg }

// Metrics returns the lifecycle counter registry, nil when metrics are
// disabled in config.
func (d *Domain) Metrics() *control.MetricsRegistry { return d.metrics }

// Probes returns the debug probe registry.
func (d *Domain) Probes() *control.DebugProbes { return d.probes }

// Collector returns a prometheus collector over the domain's metrics,
// nil when metrics are disabled.
func (d *Domain) Collector() *control.Collector {
	if d.metrics == nil {
		return nil
	}
	return control.NewCollector(d.metrics, d.cfg.Namespace)
}

// Close tears the domain down: router first so undelivered chunks drain
// back to the pool, then the segment. Samples loaned from this domain
// must be consumed before Close.
func (d *Domain) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return nil
	}
	d.closed = true
	if err := d.router.Close(); err != nil {
		return err
	}
	d.log.Info("shared-memory domain down", zap.String("segment", d.cfg.SegmentName))
	return d.seg.Close()
}
