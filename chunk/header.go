// File: chunk/header.go
// Author: momentics <momentics@gmail.com>
//
// ChunkHeader: fixed binary metadata co-located with every chunk payload.
// Mutable only by the current exclusive owner of the chunk; read-only once
// the chunk has been delivered. The delivery refcount is the one field
// touched after hand-off and is therefore atomic.

package chunk

import (
	"sync/atomic"
	"unsafe"
)

// HeaderSize is the fixed size of the on-chunk header. One cache line, so
// a 64-byte aligned chunk base keeps the payload 64-byte aligned too.
const HeaderSize = 64

// Header is the metadata block at the start of every chunk region.
//
// Field order is the wire layout; do not reorder. Total occupied bytes
// must stay within HeaderSize.
type Header struct {
	capacity    uint32   // payload capacity in bytes
	payloadSize uint32   // bytes actually written by the producer
	typeHash    uint64   // xxhash of the payload Go type name
	sequence    uint64   // publisher-assigned sequence number
	epochNanos  int64    // publish timestamp, nanoseconds since epoch
	origin      [16]byte // port identity of the producing publisher
	refs        int32    // delivery refcount, atomic after hand-off
	_           [12]byte // reserved
}

// headerAt casts the start of a chunk region to a Header.
func headerAt(mem []byte) *Header {
	return (*Header)(unsafe.Pointer(&mem[0]))
}

// FromPayload recovers the header sitting immediately before a payload
// address. Valid only for pointers obtained from Chunk.PayloadPtr.
func FromPayload(p unsafe.Pointer) *Header {
	return (*Header)(unsafe.Add(p, -HeaderSize))
}

// Capacity returns the payload capacity of the owning chunk.
func (h *Header) Capacity() int { return int(h.capacity) }

// PayloadSize returns the number of payload bytes the producer declared.
func (h *Header) PayloadSize() int { return int(h.payloadSize) }

// SetPayloadSize records the number of payload bytes written.
func (h *Header) SetPayloadSize(n int) { h.payloadSize = uint32(n) }

// TypeHash returns the payload type identity.
func (h *Header) TypeHash() uint64 { return h.typeHash }

// SetTypeHash records the payload type identity.
func (h *Header) SetTypeHash(v uint64) { h.typeHash = v }

// Sequence returns the publisher-assigned sequence number.
func (h *Header) Sequence() uint64 { return h.sequence }

// SetSequence records the publisher-assigned sequence number.
func (h *Header) SetSequence(v uint64) { h.sequence = v }

// Timestamp returns the publish timestamp in nanoseconds since epoch.
func (h *Header) Timestamp() int64 { return h.epochNanos }

// SetTimestamp records the publish timestamp.
func (h *Header) SetTimestamp(ns int64) { h.epochNanos = ns }

// Origin returns the port identity of the producing publisher.
func (h *Header) Origin() [16]byte { return h.origin }

// SetOrigin records the port identity of the producing publisher.
func (h *Header) SetOrigin(id [16]byte) { h.origin = id }

// AddRefs raises the delivery refcount by n and returns the new value.
// Used by the transport when fanning a chunk out to consumers.
func (h *Header) AddRefs(n int32) int32 {
	return atomic.AddInt32(&h.refs, n)
}

// DropRef lowers the delivery refcount by one and returns the new value.
// The caller owning the last reference (return value zero) must return
// the chunk to its pool.
func (h *Header) DropRef() int32 {
	return atomic.AddInt32(&h.refs, -1)
}

// Refs returns the current delivery refcount.
func (h *Header) Refs() int32 {
	return atomic.LoadInt32(&h.refs)
}

// reset restores a header to its loaned-out initial state.
func (h *Header) reset(capacity int) {
	h.capacity = uint32(capacity)
	h.payloadSize = 0
	h.typeHash = 0
	h.sequence = 0
	h.epochNanos = 0
	h.origin = [16]byte{}
	atomic.StoreInt32(&h.refs, 0)
}

// Info is a value snapshot of a Header, handed to consumers so the
// shared header itself stays read-only after delivery.
type Info struct {
	Capacity    int
	PayloadSize int
	TypeHash    uint64
	Sequence    uint64
	Timestamp   int64
	Origin      [16]byte
}

// Info captures a read-only snapshot of the header.
func (h *Header) Info() Info {
	return Info{
		Capacity:    int(h.capacity),
		PayloadSize: int(h.payloadSize),
		TypeHash:    h.typeHash,
		Sequence:    h.sequence,
		Timestamp:   h.epochNanos,
		Origin:      h.origin,
	}
}
