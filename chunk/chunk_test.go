package chunk_test

import (
	"testing"
	"unsafe"

	"github.com/momentics/hioload-shm/chunk"
)

func newTestChunk(payload int) *chunk.Chunk {
	return chunk.New(make([]byte, chunk.HeaderSize+payload), payload)
}

func TestHeaderAccessors(t *testing.T) {
	c := newTestChunk(128)
	h := c.Header()

	if h.Capacity() != 128 {
		t.Errorf("capacity = %d, want 128", h.Capacity())
	}
	h.SetPayloadSize(16)
	h.SetTypeHash(0xfeed)
	h.SetSequence(3)
	h.SetTimestamp(99)
	h.SetOrigin([16]byte{1, 2, 3})

	info := h.Info()
	if info.PayloadSize != 16 || info.TypeHash != 0xfeed || info.Sequence != 3 || info.Timestamp != 99 {
		t.Errorf("info snapshot mismatch: %+v", info)
	}
	if info.Origin[0] != 1 || info.Origin[2] != 3 {
		t.Error("origin not preserved in snapshot")
	}
}

func TestHeaderFitsFixedLayout(t *testing.T) {
	var h chunk.Header
	if unsafe.Sizeof(h) != chunk.HeaderSize {
		t.Errorf("header occupies %d bytes, want %d", unsafe.Sizeof(h), chunk.HeaderSize)
	}
}

func TestFromPayloadRecoversHeader(t *testing.T) {
	c := newTestChunk(64)
	c.Header().SetSequence(77)

	h := chunk.FromPayload(c.PayloadPtr())
	if h.Sequence() != 77 {
		t.Error("FromPayload did not recover the chunk's header")
	}
}

func TestResetZeroesPayloadAndHeader(t *testing.T) {
	c := newTestChunk(32)
	p := c.Payload()
	for i := range p {
		p[i] = 0xAB
	}
	c.Header().SetSequence(9)
	c.Header().AddRefs(2)

	c.Reset()
	for i, b := range c.Payload() {
		if b != 0 {
			t.Fatalf("payload byte %d not zeroed", i)
		}
	}
	if c.Header().Sequence() != 0 || c.Header().Refs() != 0 {
		t.Error("header not reset")
	}
}

func TestRefCounting(t *testing.T) {
	c := newTestChunk(32)
	h := c.Header()
	if h.AddRefs(2) != 2 {
		t.Error("AddRefs result wrong")
	}
	if h.DropRef() != 1 {
		t.Error("first DropRef should leave one reference")
	}
	if h.DropRef() != 0 {
		t.Error("second DropRef should reach zero")
	}
}

func TestTypeHashOf(t *testing.T) {
	if chunk.TypeHashOf[int]() != chunk.TypeHashOf[int]() {
		t.Error("type hash must be stable")
	}
	if chunk.TypeHashOf[int]() == chunk.TypeHashOf[int64]() {
		t.Error("distinct types must not collide on the obvious cases")
	}
	type point struct{ X, Y int32 }
	if chunk.TypeHashOf[point]() == chunk.TypeHashOf[int]() {
		t.Error("struct type hash collided with int")
	}
}

func TestUndersizedRegionPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected panic for region smaller than header")
		}
	}()
	chunk.New(make([]byte, chunk.HeaderSize-1), 0)
}
