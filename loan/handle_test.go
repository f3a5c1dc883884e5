package loan_test

import (
	"testing"

	"github.com/momentics/hioload-shm/loan"
)

func TestHandleMoveTransfersOwnership(t *testing.T) {
	released := 0
	v := 7
	a := loan.NewHandle(&v, func(*int) { released++ })

	b := a.Move()
	if a.Valid() {
		t.Error("source handle still valid after move")
	}
	if released != 0 {
		t.Error("move must not trigger release")
	}
	if b.Get() != &v {
		t.Error("destination does not own the moved payload")
	}

	a.Drop() // moved-from: no-op
	b.Drop()
	if released != 1 {
		t.Errorf("expected exactly one release, got %d", released)
	}
}

func TestHandleMoveFromReleasesPrevious(t *testing.T) {
	relA, relB := 0, 0
	va, vb := 1, 2
	a := loan.NewHandle(&va, func(*int) { relA++ })
	b := loan.NewHandle(&vb, func(*int) { relB++ })

	b.MoveFrom(&a)
	if relB != 1 {
		t.Errorf("destination's previous payload released %d times, want 1", relB)
	}
	if a.Valid() {
		t.Error("source still valid after MoveFrom")
	}
	if b.Get() != &va {
		t.Error("destination does not own source's payload")
	}

	b.Drop()
	b.Drop()
	if relA != 1 {
		t.Errorf("moved payload released %d times, want 1", relA)
	}
}

func TestHandleDropIsIdempotent(t *testing.T) {
	released := 0
	v := 0
	h := loan.NewHandle(&v, func(*int) { released++ })
	h.Drop()
	h.Drop()
	if released != 1 {
		t.Errorf("release ran %d times, want 1", released)
	}
	if h.Valid() {
		t.Error("handle valid after drop")
	}
}

func TestPlaceholderIsInert(t *testing.T) {
	h := loan.Placeholder[int]()
	if h.Valid() {
		t.Error("placeholder must be null")
	}
	h.Drop() // must be a no-op
	if h.Get() != nil {
		t.Error("placeholder returned a payload")
	}
}

func TestNewHandleNilPointerPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected panic for nil payload pointer")
		}
	}()
	loan.NewHandle[int](nil, nil)
}

func TestHandleWithoutChunkHasNoHeader(t *testing.T) {
	v := 1
	h := loan.NewHandle(&v, nil)
	if h.Header() != nil {
		t.Error("raw payload handle must not fabricate a header")
	}
	h.Drop()
}

func TestMoveFromSelfIsNoop(t *testing.T) {
	released := 0
	v := 3
	h := loan.NewHandle(&v, func(*int) { released++ })
	h.MoveFrom(&h)
	if !h.Valid() || released != 0 {
		t.Error("self move must keep ownership intact")
	}
	h.Drop()
}
