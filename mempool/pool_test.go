package mempool_test

import (
	"errors"
	"testing"

	"github.com/momentics/hioload-shm/api"
	"github.com/momentics/hioload-shm/mempool"
	"github.com/momentics/hioload-shm/shm"
)

func newTestPool(t *testing.T, classes []int, perClass int) *mempool.Pool {
	t.Helper()
	seg := shm.NewHeap("test", mempool.RequiredBytes(classes, perClass))
	p, err := mempool.New(seg, classes, perClass)
	if err != nil {
		t.Fatalf("pool init: %v", err)
	}
	return p
}

func TestLoanPicksSmallestFittingClass(t *testing.T) {
	p := newTestPool(t, []int{64, 256}, 2)

	c, err := p.Loan(65)
	if err != nil {
		t.Fatal(err)
	}
	if c.Capacity() != 256 {
		t.Errorf("capacity = %d, want class 256", c.Capacity())
	}
	p.Free(c)
}

func TestLoanReusesFreedChunk(t *testing.T) {
	p := newTestPool(t, []int{64}, 1)

	c1, err := p.Loan(8)
	if err != nil {
		t.Fatal(err)
	}
	p.Free(c1)
	c2, err := p.Loan(8)
	if err != nil {
		t.Fatal(err)
	}
	if c1 != c2 {
		t.Error("single-chunk pool must hand back the same chunk")
	}
}

func TestExhaustionIsAnError(t *testing.T) {
	p := newTestPool(t, []int{64}, 1)

	c, err := p.Loan(8)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := p.Loan(8); !errors.Is(err, api.ErrPoolExhausted) {
		t.Errorf("second loan error = %v, want ErrPoolExhausted", err)
	}
	p.Free(c)
	if _, err := p.Loan(8); err != nil {
		t.Errorf("loan after free failed: %v", err)
	}
}

func TestOversizedLoanRejected(t *testing.T) {
	p := newTestPool(t, []int{64}, 1)
	if _, err := p.Loan(65); !errors.Is(err, api.ErrChunkTooLarge) {
		t.Errorf("error = %v, want ErrChunkTooLarge", err)
	}
}

func TestLoanedChunkIsClean(t *testing.T) {
	p := newTestPool(t, []int{64}, 1)
	c, _ := p.Loan(8)
	c.Payload()[0] = 0xFF
	c.Header().SetSequence(9)
	p.Free(c)

	c2, _ := p.Loan(8)
	if c2.Payload()[0] != 0 || c2.Header().Sequence() != 0 {
		t.Error("reloaned chunk must be reset")
	}
}

func TestStats(t *testing.T) {
	p := newTestPool(t, []int{64, 256}, 2)

	c1, _ := p.Loan(8)
	c2, _ := p.Loan(100)
	p.Free(c2)

	st := p.Stats()
	if st.TotalLoans != 2 || st.TotalFrees != 1 || st.InUse != 1 {
		t.Errorf("stats = %+v", st)
	}
	if st.ClassStats[64] != 1 || st.ClassStats[256] != 1 {
		t.Errorf("per-class stats = %v", st.ClassStats)
	}
	p.Free(c1)
}

func TestRejectsBadClassTable(t *testing.T) {
	seg := shm.NewHeap("test", 1<<20)
	if _, err := mempool.New(seg, []int{256, 64}, 1); err == nil {
		t.Error("descending class table must be rejected")
	}
	if _, err := mempool.New(seg, nil, 1); err == nil {
		t.Error("empty class table must be rejected")
	}
}

func TestRejectsUndersizedSegment(t *testing.T) {
	classes := []int{64}
	seg := shm.NewHeap("test", mempool.RequiredBytes(classes, 4)-1)
	if _, err := mempool.New(seg, classes, 4); err == nil {
		t.Error("undersized segment must be rejected")
	}
}
