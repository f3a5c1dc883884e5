// File: shm/segment.go
// Author: momentics <momentics@gmail.com>
//
// Platform-independent segment type and heap-backed fallback.

package shm

import (
	"unsafe"

	"github.com/momentics/hioload-shm/api"
)

// Segment is one contiguous memory region backing a chunk pool.
type Segment struct {
	name   string
	mem    []byte
	fd     int
	closer func() error
	closed bool
}

// Create allocates a segment of at least size bytes using the best
// backing the platform offers (memfd+mmap on Linux, heap elsewhere).
func Create(name string, size int) (*Segment, error) {
	if size <= 0 {
		return nil, api.NewError(api.ErrCodeInvalidArgument, "segment size must be positive").
			WithContext("size", size)
	}
	return createSegment(name, size)
}

// NewHeap allocates a heap-backed segment. Always available; used as the
// cross-platform fallback and by tests.
func NewHeap(name string, size int) *Segment {
	raw := make([]byte, size+63)
	off := 0
	if rem := uintptr(unsafe.Pointer(&raw[0])) & 63; rem != 0 {
		off = int(64 - rem)
	}
	return &Segment{
		name: name,
		mem:  raw[off : off+size],
		fd:   -1,
	}
}

// Name returns the segment identifier.
func (s *Segment) Name() string { return s.name }

// Size returns the usable segment size in bytes.
func (s *Segment) Size() int { return len(s.mem) }

// FD returns the OS handle backing the segment, -1 for heap segments.
// Peer processes map the same memory through this handle.
func (s *Segment) FD() int { return s.fd }

// Bytes returns the raw segment memory. The chunk pool carves this; no
// other component writes through it directly.
func (s *Segment) Bytes() ([]byte, error) {
	if s.closed {
		return nil, api.ErrSegmentClosed
	}
	return s.mem, nil
}

// Close unmaps and releases the segment. Chunks carved from the segment
// must not be touched afterwards.
func (s *Segment) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true
	s.mem = nil
	if s.closer != nil {
		return s.closer()
	}
	return nil
}
