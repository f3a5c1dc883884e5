// File: pubsub/router.go
// Author: momentics <momentics@gmail.com>
//
// In-process delivery router: topic fanout by reference over pooled
// chunks. Topics are keyed by xxhash of the topic name so the same key
// derivation works once chunk references travel between processes.

package pubsub

import (
	"sync"

	"github.com/cespare/xxhash/v2"
	"github.com/eapache/queue"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/momentics/hioload-shm/api"
	"github.com/momentics/hioload-shm/chunk"
	"github.com/momentics/hioload-shm/control"
)

// DefaultInboxCapacity bounds a subscriber inbox unless overridden.
const DefaultInboxCapacity = 256

// TopicKey derives the routing key for a topic name.
func TopicKey(topic string) uint64 {
	return xxhash.Sum64String(topic)
}

// inbox is one subscriber's bounded FIFO of delivered chunks.
type inbox struct {
	mu       sync.Mutex
	q        *queue.Queue
	capacity int
}

func newInbox(capacity int) *inbox {
	return &inbox{q: queue.New(), capacity: capacity}
}

// push appends c, evicting and returning the oldest chunk when full.
func (in *inbox) push(c *chunk.Chunk) (evicted *chunk.Chunk) {
	in.mu.Lock()
	defer in.mu.Unlock()
	if in.q.Length() >= in.capacity {
		evicted = in.q.Remove().(*chunk.Chunk)
	}
	in.q.Add(c)
	return evicted
}

func (in *inbox) pop() (*chunk.Chunk, bool) {
	in.mu.Lock()
	defer in.mu.Unlock()
	if in.q.Length() == 0 {
		return nil, false
	}
	return in.q.Remove().(*chunk.Chunk), true
}

func (in *inbox) len() int {
	in.mu.Lock()
	defer in.mu.Unlock()
	return in.q.Length()
}

// drain empties the inbox and returns the removed chunks.
func (in *inbox) drain() []*chunk.Chunk {
	in.mu.Lock()
	defer in.mu.Unlock()
	out := make([]*chunk.Chunk, 0, in.q.Length())
	for in.q.Length() > 0 {
		out = append(out, in.q.Remove().(*chunk.Chunk))
	}
	return out
}

// topicState tracks the subscribers attached to one topic key.
type topicState struct {
	name string
	subs map[uuid.UUID]*inbox
}

// Router fans published chunks out to subscriber inboxes and owns the
// consumer-side release path back to the pool.
type Router struct {
	pool    api.ChunkPool
	metrics *control.MetricsRegistry
	log     *zap.Logger

	mu     sync.RWMutex
	topics map[uint64]*topicState
	closed bool
}

// RouterOption configures a Router.
type RouterOption func(*Router)

// WithLogger sets the router's structured logger.
func WithLogger(l *zap.Logger) RouterOption {
	return func(r *Router) { r.log = l }
}

// WithMetrics wires lifecycle counters into reg.
func WithMetrics(reg *control.MetricsRegistry) RouterOption {
	return func(r *Router) { r.metrics = reg }
}

// NewRouter creates a router over pool.
func NewRouter(pool api.ChunkPool, opts ...RouterOption) *Router {
	r := &Router{
		pool:   pool,
		log:    zap.NewNop(),
		topics: make(map[uint64]*topicState),
	}
	for _, o := range opts {
		o(r)
	}
	return r
}

func (r *Router) count(key string, delta int64) {
	if r.metrics != nil {
		r.metrics.Inc(key, delta)
	}
}

// attach registers a subscriber inbox under a topic key.
func (r *Router) attach(topic string, id uuid.UUID, capacity int) (*inbox, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return nil, api.ErrRouterClosed
	}
	key := TopicKey(topic)
	ts := r.topics[key]
	if ts == nil {
		ts = &topicState{name: topic, subs: make(map[uuid.UUID]*inbox)}
		r.topics[key] = ts
	}
	in := newInbox(capacity)
	ts.subs[id] = in
	return in, nil
}

// detach removes a subscriber and releases everything still undelivered
// in its inbox.
func (r *Router) detach(topic string, id uuid.UUID) {
	key := TopicKey(topic)
	r.mu.Lock()
	ts := r.topics[key]
	var in *inbox
	if ts != nil {
		in = ts.subs[id]
		delete(ts.subs, id)
		if len(ts.subs) == 0 {
			delete(r.topics, key)
		}
	}
	r.mu.Unlock()
	if in == nil {
		return
	}
	for _, c := range in.drain() {
		r.ReleaseDelivered(c)
	}
}

// Deliver fans a published chunk out under the given topic key, assuming
// ownership of it. With no subscribers attached the chunk goes straight
// back to the pool. Inbox overflow evicts the oldest undelivered chunk,
// which is released through the normal consumer path.
func (r *Router) Deliver(key uint64, c *chunk.Chunk) {
	var evicted []*chunk.Chunk
	delivered := 0
	var topic string

	// Pushes happen under the read lock: detach and Close drain inboxes
	// under the write lock, so a chunk can never land in an inbox that
	// has already been drained and forgotten.
	r.mu.RLock()
	ts := r.topics[key]
	fanout := !r.closed && ts != nil && len(ts.subs) > 0
	if fanout {
		topic = ts.name
		// One reference per inbox, taken before the first push so an
		// eager consumer on another goroutine cannot free the chunk
		// mid-fanout.
		c.Header().AddRefs(int32(len(ts.subs)))
		for _, in := range ts.subs {
			if ev := in.push(c); ev != nil {
				evicted = append(evicted, ev)
			}
			delivered++
		}
	}
	r.mu.RUnlock()

	r.count(control.MetricPublishes, 1)
	if !fanout {
		r.pool.Free(c)
		r.count(control.MetricReclaims, 1)
		return
	}
	r.count(control.MetricDeliveries, int64(delivered))
	for _, ev := range evicted {
		r.count(control.MetricDrops, 1)
		r.log.Warn("inbox full, dropping oldest sample",
			zap.String("topic", topic),
			zap.Uint64("sequence", ev.Header().Sequence()))
		r.ReleaseDelivered(ev)
	}
}

// ReleaseDelivered returns one delivered reference. The last reference
// frees the chunk back to the pool.
func (r *Router) ReleaseDelivered(c *chunk.Chunk) {
	if c.Header().DropRef() > 0 {
		return
	}
	r.pool.Free(c)
	r.count(control.MetricReclaims, 1)
}

// Pool returns the chunk pool this router releases into.
func (r *Router) Pool() api.ChunkPool {
	return r.pool
}

// Close detaches all subscribers, releasing every undelivered chunk.
// Publishing after Close sends chunks straight back to the pool.
func (r *Router) Close() error {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return nil
	}
	r.closed = true
	var pending []*chunk.Chunk
	for _, ts := range r.topics {
		for _, in := range ts.subs {
			pending = append(pending, in.drain()...)
		}
	}
	r.topics = make(map[uint64]*topicState)
	r.mu.Unlock()
	for _, c := range pending {
		r.ReleaseDelivered(c)
	}
	return nil
}
