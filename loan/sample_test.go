package loan_test

import (
	"testing"

	"github.com/momentics/hioload-shm/fake"
	"github.com/momentics/hioload-shm/loan"
)

// loanSample borrows a chunk from the pool and wraps it the way a
// publisher endpoint does.
func loanSample(t *testing.T, pool *fake.HeapPool, pub loan.Publisher[int]) *loan.Sample[int] {
	t.Helper()
	c, err := pool.Loan(8)
	if err != nil {
		t.Fatalf("loan failed: %v", err)
	}
	h := loan.FromChunk[int](c, func(*int) { pool.Free(c) })
	return loan.NewSample(h, pub)
}

func TestPublishDeliversOnceAndNullsSample(t *testing.T) {
	pool := fake.NewHeapPool(64, 4)
	rec := &fake.RecordingPublisher[int]{}

	s := loanSample(t, pool, rec)
	*s.Get() = 42
	s.Publish()

	if got := rec.Values(); len(got) != 1 || got[0] != 42 {
		t.Fatalf("delivered %v, want exactly [42]", got)
	}
	if s.Valid() {
		t.Error("sample still valid after publish")
	}
	s.Drop() // post-publish safety net must not touch the pool
	if pool.Frees() != 0 {
		t.Errorf("pool saw %d frees after publish, want 0", pool.Frees())
	}
}

func TestReleaseReclaimsWithoutDelivery(t *testing.T) {
	pool := fake.NewHeapPool(64, 4)
	rec := &fake.RecordingPublisher[int]{}

	s := loanSample(t, pool, rec)
	s.Release()

	if len(rec.Delivered) != 0 {
		t.Error("release must not deliver")
	}
	if pool.Frees() != 1 {
		t.Errorf("pool saw %d frees, want 1", pool.Frees())
	}
	if s.Valid() {
		t.Error("sample still valid after release")
	}
}

func TestDropIsImplicitRelease(t *testing.T) {
	pool := fake.NewHeapPool(64, 4)
	rec := &fake.RecordingPublisher[int]{}

	func() {
		s := loanSample(t, pool, rec)
		defer s.Drop()
		// early return without publish or release
	}()

	if pool.Frees() != 1 {
		t.Errorf("pool saw %d frees, want 1 (implicit release)", pool.Frees())
	}
	if len(rec.Delivered) != 0 {
		t.Error("drop must not deliver")
	}
}

func TestMoveThenDropReclaimsOnce(t *testing.T) {
	pool := fake.NewHeapPool(64, 4)
	rec := &fake.RecordingPublisher[int]{}

	a := loanSample(t, pool, rec)
	b := a.Move()
	a.Drop() // no-op: ownership moved
	if pool.Frees() != 0 {
		t.Fatal("moved-from sample must not interact with the pool")
	}
	b.Drop()
	if pool.Frees() != 1 {
		t.Errorf("pool saw %d frees, want exactly 1", pool.Frees())
	}
}

func TestSecondPublishPanics(t *testing.T) {
	pool := fake.NewHeapPool(64, 4)
	rec := &fake.RecordingPublisher[int]{}

	s := loanSample(t, pool, rec)
	*s.Get() = 1
	s.Publish()

	defer func() {
		if recover() == nil {
			t.Error("expected panic on publish of a null sample")
		}
		if len(rec.Delivered) != 1 {
			t.Errorf("delivered %d chunks, want 1 (no double delivery)", len(rec.Delivered))
		}
	}()
	s.Publish()
}

func TestNullSampleSentinel(t *testing.T) {
	s := loan.NullSample[int]()
	if s.Valid() {
		t.Fatal("null sample must be invalid")
	}
	s.Drop() // total operation, no-op

	for name, op := range map[string]func(){
		"Get":     func() { s.Get() },
		"Header":  func() { s.Header() },
		"Publish": func() { s.Publish() },
		"Release": func() { s.Release() },
	} {
		func() {
			defer func() {
				if recover() == nil {
					t.Errorf("%s on null sample: expected panic", name)
				}
			}()
			op()
		}()
	}
}

func TestMoveFromRebindsPublisher(t *testing.T) {
	pool := fake.NewHeapPool(64, 4)
	recA := &fake.RecordingPublisher[int]{}
	recB := &fake.RecordingPublisher[int]{}

	src := loanSample(t, pool, recA)
	dst := loanSample(t, pool, recB)

	dst.MoveFrom(src)
	if pool.Frees() != 1 {
		t.Fatalf("destination's previous chunk: %d frees, want 1", pool.Frees())
	}
	if src.Valid() {
		t.Error("source still valid after MoveFrom")
	}

	*dst.Get() = 9
	dst.Publish()
	if len(recA.Delivered) != 1 || len(recB.Delivered) != 0 {
		t.Error("publish must go through the source's publisher after MoveFrom")
	}
}

func TestHeaderMutableForProducer(t *testing.T) {
	pool := fake.NewHeapPool(64, 4)
	rec := &fake.RecordingPublisher[int]{}

	s := loanSample(t, pool, rec)
	defer s.Drop()

	s.Header().SetSequence(11)
	if s.Header().Sequence() != 11 {
		t.Error("header write not visible through sample")
	}
}
