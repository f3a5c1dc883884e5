// File: pubsub/subscriber.go
// Author: momentics <momentics@gmail.com>
//
// Typed consumer endpoint. Takes delivered chunks from its inbox and
// wraps them in immutable read samples whose release path runs through
// the router back to the pool.

package pubsub

import (
	"github.com/google/uuid"

	"github.com/momentics/hioload-shm/api"
	"github.com/momentics/hioload-shm/chunk"
	"github.com/momentics/hioload-shm/loan"
)

// Subscriber is the typed consumer endpoint for one topic.
type Subscriber[T any] struct {
	router   *Router
	topic    string
	id       uuid.UUID
	typeHash uint64
	in       *inbox
}

// SubscriberOption configures a Subscriber.
type SubscriberOption func(*subscriberConfig)

type subscriberConfig struct {
	capacity int
}

// WithInboxCapacity bounds the subscriber's undelivered-chunk inbox.
func WithInboxCapacity(n int) SubscriberOption {
	return func(c *subscriberConfig) { c.capacity = n }
}

// NewSubscriber attaches a subscriber to topic on the router.
func NewSubscriber[T any](r *Router, topic string, opts ...SubscriberOption) (*Subscriber[T], error) {
	cfg := subscriberConfig{capacity: DefaultInboxCapacity}
	for _, o := range opts {
		o(&cfg)
	}
	if cfg.capacity <= 0 {
		return nil, api.ErrInvalidArgument
	}
	id := uuid.New()
	in, err := r.attach(topic, id, cfg.capacity)
	if err != nil {
		return nil, err
	}
	return &Subscriber[T]{
		router:   r,
		topic:    topic,
		id:       id,
		typeHash: chunk.TypeHashOf[T](),
		in:       in,
	}, nil
}

// Topic returns the topic this subscriber is attached to.
func (s *Subscriber[T]) Topic() string { return s.topic }

// ID returns the subscriber's port identity.
func (s *Subscriber[T]) ID() uuid.UUID { return s.id }

// HasChunks reports whether a delivered chunk is waiting in the inbox.
func (s *Subscriber[T]) HasChunks() bool {
	return s.in.len() > 0
}

// Take removes the oldest delivered chunk and wraps it in a read sample.
// Returns api.ErrNoChunks with a null sample when the inbox is empty,
// api.ErrTypeMismatch when the delivered payload was published under a
// different type (the chunk is released back through the router).
//
// Dropping the returned sample, or letting it be consumed by Move and
// dropping the destination, returns the chunk toward the pool; the pool
// sees it again once every subscriber's reference is gone.
func (s *Subscriber[T]) Take() (*loan.ReadSample[T], error) {
	c, ok := s.in.pop()
	if !ok {
		return loan.NullReadSample[T](), api.ErrNoChunks
	}
	if c.Header().TypeHash() != s.typeHash {
		s.router.ReleaseDelivered(c)
		return loan.NullReadSample[T](), api.ErrTypeMismatch
	}
	router := s.router
	h := loan.FromChunk[T](c, func(*T) {
		router.ReleaseDelivered(c)
	})
	return loan.NewReadSample(h), nil
}

// Close detaches from the router and releases every chunk still queued.
func (s *Subscriber[T]) Close() error {
	s.router.detach(s.topic, s.id)
	return nil
}
