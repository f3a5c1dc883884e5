// File: chunk/chunk.go
// Author: momentics <momentics@gmail.com>
//
// Chunk: one fixed region of segment memory, [Header][payload].
// Chunk descriptors are created once by the pool when the segment is
// carved up and live for the lifetime of the pool; loaning hands out the
// same descriptor every time, so chunk identity is stable.

package chunk

import (
	"reflect"
	"unsafe"

	"github.com/cespare/xxhash/v2"
)

// Chunk describes one carved region of a shared-memory segment.
type Chunk struct {
	mem   []byte // full region including header
	class int    // payload size class this chunk belongs to
}

// New wraps a carved segment region as a chunk and initializes its header.
// The region must be at least HeaderSize bytes plus the payload capacity,
// and its base must be 64-byte aligned.
func New(mem []byte, class int) *Chunk {
	if len(mem) < HeaderSize {
		panic("chunk region smaller than header")
	}
	c := &Chunk{mem: mem, class: class}
	c.Header().reset(len(mem) - HeaderSize)
	return c
}

// Header returns the chunk's header. Mutable only for the exclusive owner.
func (c *Chunk) Header() *Header {
	return headerAt(c.mem)
}

// Payload returns the payload region of the chunk.
func (c *Chunk) Payload() []byte {
	return c.mem[HeaderSize:]
}

// PayloadPtr returns the base address of the payload region, used by the
// typed loan layer to place a payload instance without copying.
func (c *Chunk) PayloadPtr() unsafe.Pointer {
	return unsafe.Pointer(&c.mem[HeaderSize])
}

// Capacity returns the payload capacity in bytes.
func (c *Chunk) Capacity() int {
	return len(c.mem) - HeaderSize
}

// Class returns the payload size class the chunk was carved for.
func (c *Chunk) Class() int {
	return c.class
}

// Reset zeroes the payload region and restores the header to its initial
// state. The pool calls this on loan so borrowers always observe a clean
// chunk.
func (c *Chunk) Reset() {
	c.Header().reset(c.Capacity())
	p := c.Payload()
	for i := range p {
		p[i] = 0
	}
}

// TypeHashOf computes the payload type identity for T: an xxhash of the
// fully qualified Go type name. Stable within a build, cheap to compare
// on the consumer side.
func TypeHashOf[T any]() uint64 {
	t := reflect.TypeOf((*T)(nil)).Elem()
	return xxhash.Sum64String(t.String())
}
