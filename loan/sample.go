// File: loan/sample.go
// Author: momentics <momentics@gmail.com>
//
// Sample: the mutable, producer-side handle over a loaned chunk.
// Exactly one of {Publish, Release, Drop while still owning} consumes a
// sample. Publish nulls the sample as its last step, so a deferred Drop
// after a successful Publish never touches the pool.

package loan

import "github.com/momentics/hioload-shm/chunk"

// Publisher is the hand-off interface a mutable sample calls into on
// Publish. The implementation assumes ownership of the handle it is
// given and makes the chunk visible to subscribers.
//
// A publisher must outlive every sample it issues; the sample holds a
// plain non-owning reference.
type Publisher[T any] interface {
	// PublishChunk takes ownership of a filled chunk handle and queues
	// it for delivery. The handle's release action is never invoked by
	// the sample after hand-off.
	PublishChunk(h OwningHandle[T])
}

// Sample wraps one owned chunk handle plus the publisher it was loaned
// from. Samples are used by pointer and moved with Move; they are never
// copied.
type Sample[T any] struct {
	handle    OwningHandle[T]
	publisher Publisher[T]
}

// NewSample wraps a freshly loaned chunk handle for publishing through p.
// Called by the publisher when a loan succeeds.
func NewSample[T any](h OwningHandle[T], p Publisher[T]) *Sample[T] {
	return &Sample[T]{handle: h, publisher: p}
}

// NullSample returns the empty sentinel: a sample owning nothing. It is
// the value paired with an error on a failed loan. Get, Header, Publish
// and Release on a null sample panic; check Valid first.
func NullSample[T any]() *Sample[T] {
	return &Sample[T]{}
}

// Valid reports whether the sample currently owns a chunk.
func (s *Sample[T]) Valid() bool {
	return s.handle.Valid()
}

// Get returns the payload for reading or writing.
// Panics if the sample is null; callers check Valid first.
func (s *Sample[T]) Get() *T {
	s.mustOwn("Get")
	return s.handle.Get()
}

// Header returns the mutable chunk header.
// Panics if the sample is null.
func (s *Sample[T]) Header() *chunk.Header {
	s.mustOwn("Header")
	return s.handle.Header()
}

// Publish hands the owned chunk to the bound publisher for delivery and
// nulls the sample. After Publish the sample owns nothing: Drop is a
// no-op and a second Publish panics.
//
// Panics if the sample is null. Calling Publish twice on the same sample
// variable without an intervening loan is a programming error, not a
// silent re-delivery.
func (s *Sample[T]) Publish() {
	s.mustOwn("Publish")
	pub := s.publisher
	h := s.handle.Move()
	pub.PublishChunk(h)
}

// Release discards the loaned chunk back to the pool without delivering
// it, then nulls the sample. Panics if the sample is null.
func (s *Sample[T]) Release() {
	s.mustOwn("Release")
	s.handle.Drop()
}

// Drop is the safety net: if the sample still owns a chunk (neither
// Publish nor Release ran), the bound release action fires; otherwise it
// is a no-op. Defer it right after a successful loan so early returns
// and panics never leak a chunk.
func (s *Sample[T]) Drop() {
	s.handle.Drop()
}

// Move transfers ownership and the publisher reference into a new
// sample; s becomes null.
func (s *Sample[T]) Move() *Sample[T] {
	out := &Sample[T]{handle: s.handle.Move(), publisher: s.publisher}
	return out
}

// MoveFrom releases s's current chunk, if any, then takes ownership and
// the publisher reference from src, nulling it.
func (s *Sample[T]) MoveFrom(src *Sample[T]) {
	if s == src {
		return
	}
	s.handle.MoveFrom(&src.handle)
	s.publisher = src.publisher
	src.publisher = nil
}

func (s *Sample[T]) mustOwn(op string) {
	if !s.handle.Valid() {
		panic("loan: " + op + " on a null sample")
	}
}
