// File: pubsub/publisher.go
// Author: momentics <momentics@gmail.com>
//
// Typed producer endpoint. Loans chunks sized for T, issues mutable
// samples bound to this publisher, and performs the publish hand-off
// into the router. The publisher must outlive every sample it issues.

package pubsub

import (
	"sync/atomic"
	"time"
	"unsafe"

	"github.com/google/uuid"

	"github.com/momentics/hioload-shm/chunk"
	"github.com/momentics/hioload-shm/control"
	"github.com/momentics/hioload-shm/loan"
)

// Publisher is the typed producer endpoint for one topic.
type Publisher[T any] struct {
	router   *Router
	topic    string
	key      uint64
	id       uuid.UUID
	typeHash uint64
	seq      atomic.Uint64
}

// NewPublisher creates a publisher for topic over the router's pool.
func NewPublisher[T any](r *Router, topic string) *Publisher[T] {
	return &Publisher[T]{
		router:   r,
		topic:    topic,
		key:      TopicKey(topic),
		id:       uuid.New(),
		typeHash: chunk.TypeHashOf[T](),
	}
}

// Topic returns the topic this publisher delivers to.
func (p *Publisher[T]) Topic() string { return p.topic }

// ID returns the publisher's port identity, stamped into every header.
func (p *Publisher[T]) ID() uuid.UUID { return p.id }

// Loan borrows a chunk sized for T and wraps it in a mutable sample.
// On failure (pool exhausted, payload too large for the class table) the
// returned sample is null and the error says why. Callers either consume
// the sample via Publish or Release, or defer Drop so no path leaks it.
func (p *Publisher[T]) Loan() (*loan.Sample[T], error) {
	var zero T
	c, err := p.router.Pool().Loan(int(unsafe.Sizeof(zero)))
	if err != nil {
		p.router.count(control.MetricLoanFails, 1)
		return loan.NullSample[T](), err
	}
	p.router.count(control.MetricLoans, 1)
	hdr := c.Header()
	hdr.SetTypeHash(p.typeHash)
	hdr.SetPayloadSize(int(unsafe.Sizeof(zero)))
	hdr.SetOrigin([16]byte(p.id))
	pool := p.router.Pool()
	h := loan.FromChunk[T](c, func(*T) {
		pool.Free(c)
	})
	return loan.NewSample(h, p), nil
}

// LoanValue loans a chunk and copies v into it. One copy, at the API
// boundary the caller asked for; delivery downstream stays zero-copy.
func (p *Publisher[T]) LoanValue(v T) (*loan.Sample[T], error) {
	s, err := p.Loan()
	if err != nil {
		return s, err
	}
	*s.Get() = v
	return s, nil
}

// PublishValue loans, fills and publishes in one call.
func (p *Publisher[T]) PublishValue(v T) error {
	s, err := p.LoanValue(v)
	if err != nil {
		return err
	}
	s.Publish()
	return nil
}

// PublishChunk implements loan.Publisher: it assumes ownership of the
// handle, stamps sequencing metadata, and hands the chunk to the router.
// The handle's pool-release action does not run; ownership moves to the
// transport, not back to the pool.
func (p *Publisher[T]) PublishChunk(h loan.OwningHandle[T]) {
	c := h.Chunk()
	if c == nil {
		// Handle not chunk-backed, nothing the router can carry.
		h.Drop()
		return
	}
	hdr := c.Header()
	hdr.SetSequence(p.seq.Add(1))
	hdr.SetTimestamp(time.Now().UnixNano())
	p.router.Deliver(p.key, c)
}
