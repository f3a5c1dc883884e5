// File: loan/readsample.go
// Author: momentics <momentics@gmail.com>
//
// ReadSample: the immutable, consumer-side handle over a delivered chunk.
// Same ownership shape as Sample minus the publisher reference and every
// mutating accessor: no Publish, no mutable header, header exposed as a
// value snapshot. Dropping a ReadSample runs the release path the
// transport bound at delivery, returning the chunk toward its pool.

package loan

import "github.com/momentics/hioload-shm/chunk"

// ReadSample owns one delivered chunk and exposes it read-only.
type ReadSample[T any] struct {
	handle OwningHandle[T]
}

// NewReadSample wraps a delivered chunk handle. The handle's release
// action is the transport-supplied return path, opaque to this package.
func NewReadSample[T any](h OwningHandle[T]) *ReadSample[T] {
	return &ReadSample[T]{handle: h}
}

// NullReadSample returns the empty consumer-side sentinel.
func NullReadSample[T any]() *ReadSample[T] {
	return &ReadSample[T]{}
}

// Valid reports whether the sample currently owns a chunk.
func (s *ReadSample[T]) Valid() bool {
	return s.handle.Valid()
}

// Get returns the delivered payload. The pointed-to memory is shared and
// must be treated as read-only; it may be observed by other consumers.
// Panics if the sample is null.
func (s *ReadSample[T]) Get() *T {
	if !s.handle.Valid() {
		panic("loan: Get on a null read sample")
	}
	return s.handle.Get()
}

// Header returns a value snapshot of the chunk header. The shared header
// itself is never exposed mutably on the consumer side.
// Panics if the sample is null.
func (s *ReadSample[T]) Header() chunk.Info {
	if !s.handle.Valid() {
		panic("loan: Header on a null read sample")
	}
	return s.handle.Header().Info()
}

// Drop returns the chunk toward its pool if the sample still owns it;
// no-op on a null or moved-from sample.
func (s *ReadSample[T]) Drop() {
	s.handle.Drop()
}

// Move transfers ownership into a new read sample; s becomes null.
func (s *ReadSample[T]) Move() *ReadSample[T] {
	return &ReadSample[T]{handle: s.handle.Move()}
}
