// File: loan/handle.go
// Author: momentics <momentics@gmail.com>
//
// OwningHandle: a move-only ownership token over one loaned chunk.
// Pairs a payload pointer with the release action bound at construction.
// Exactly one of {Drop with ownership still held, ownership moved onward}
// happens per loaned chunk; the release action fires at most once.

package loan

import (
	"unsafe"

	"github.com/momentics/hioload-shm/chunk"
)

// ReleaseFunc is the release action bound into a handle at loan time.
// Invoked at most once, when the handle is dropped while still owning.
type ReleaseFunc[T any] func(*T)

// OwningHandle exclusively owns one chunk-resident payload instance.
//
// Handles are moved, never copied: use Move or MoveFrom to transfer
// ownership. Copying a handle by assignment duplicates ownership and is
// the bug class this type exists to prevent.
type OwningHandle[T any] struct {
	ptr     *T
	chk     *chunk.Chunk
	release ReleaseFunc[T]
}

// NewHandle binds a non-nil payload pointer to its release action.
// Used directly in tests and by collaborators that manage raw payloads;
// chunk-backed handles are built with FromChunk.
func NewHandle[T any](ptr *T, release ReleaseFunc[T]) OwningHandle[T] {
	if ptr == nil {
		panic("loan: nil payload pointer")
	}
	return OwningHandle[T]{ptr: ptr, release: release}
}

// FromChunk places a payload of type T in c's payload region and returns
// the owning handle. Panics if the chunk cannot hold T.
func FromChunk[T any](c *chunk.Chunk, release ReleaseFunc[T]) OwningHandle[T] {
	var zero T
	if uintptr(c.Capacity()) < unsafe.Sizeof(zero) {
		panic("loan: chunk capacity smaller than payload type")
	}
	return OwningHandle[T]{
		ptr:     (*T)(c.PayloadPtr()),
		chk:     c,
		release: release,
	}
}

// Placeholder returns a null handle with a no-op release action. It is
// an overwrite target for MoveFrom and the inner state of null samples;
// it must never be observed holding real data.
func Placeholder[T any]() OwningHandle[T] {
	return OwningHandle[T]{}
}

// Valid reports whether the handle currently owns a payload.
func (h *OwningHandle[T]) Valid() bool {
	return h.ptr != nil
}

// Get returns the owned payload pointer, nil if the handle is null.
func (h *OwningHandle[T]) Get() *T {
	return h.ptr
}

// Chunk returns the backing chunk descriptor, nil for handles built with
// NewHandle.
func (h *OwningHandle[T]) Chunk() *chunk.Chunk {
	return h.chk
}

// Header returns the chunk header co-located with the owned payload.
// Only chunk-backed handles (FromChunk) carry a header; returns nil for
// a null handle or one built over a raw payload with NewHandle.
func (h *OwningHandle[T]) Header() *chunk.Header {
	if h.ptr == nil || h.chk == nil {
		return nil
	}
	return h.chk.Header()
}

// Move transfers ownership out of h and nulls it. No release action runs
// on h; the returned handle carries the obligation onward.
func (h *OwningHandle[T]) Move() OwningHandle[T] {
	out := *h
	*h = OwningHandle[T]{}
	return out
}

// MoveFrom releases h's current chunk, if any, then takes ownership from
// src and nulls it.
func (h *OwningHandle[T]) MoveFrom(src *OwningHandle[T]) {
	if h == src {
		return
	}
	h.Drop()
	*h = *src
	*src = OwningHandle[T]{}
}

// Drop invokes the bound release action exactly once if the handle still
// owns a payload, then nulls the handle. Dropping a null (moved-from or
// already dropped) handle is a no-op.
func (h *OwningHandle[T]) Drop() {
	if h.ptr == nil {
		return
	}
	ptr := h.ptr
	release := h.release
	*h = OwningHandle[T]{}
	if release != nil {
		release(ptr)
	}
}
