package loan_test

import (
	"testing"

	"github.com/momentics/hioload-shm/fake"
	"github.com/momentics/hioload-shm/loan"
)

func TestReadSampleExposesDeliveredPayload(t *testing.T) {
	pool := fake.NewHeapPool(64, 2)
	c, err := pool.Loan(8)
	if err != nil {
		t.Fatal(err)
	}
	c.Header().SetSequence(5)

	released := 0
	h := loan.FromChunk[int](c, func(*int) { released++; pool.Free(c) })
	*h.Get() = 42

	rs := loan.NewReadSample(h)
	if !rs.Valid() {
		t.Fatal("read sample over a delivered chunk must be valid")
	}
	if *rs.Get() != 42 {
		t.Errorf("payload = %d, want 42", *rs.Get())
	}
	if rs.Header().Sequence != 5 {
		t.Errorf("header snapshot sequence = %d, want 5", rs.Header().Sequence)
	}

	rs.Drop()
	rs.Drop()
	if released != 1 {
		t.Errorf("release path ran %d times, want 1", released)
	}
}

func TestNullReadSamplePanicsOnAccess(t *testing.T) {
	rs := loan.NullReadSample[int]()
	if rs.Valid() {
		t.Fatal("null read sample must be invalid")
	}
	rs.Drop() // no-op

	for name, op := range map[string]func(){
		"Get":    func() { rs.Get() },
		"Header": func() { rs.Header() },
	} {
		func() {
			defer func() {
				if recover() == nil {
					t.Errorf("%s on null read sample: expected panic", name)
				}
			}()
			op()
		}()
	}
}

func TestReadSampleMove(t *testing.T) {
	pool := fake.NewHeapPool(64, 2)
	c, _ := pool.Loan(8)
	released := 0
	h := loan.FromChunk[int](c, func(*int) { released++ })

	a := loan.NewReadSample(h)
	b := a.Move()
	if a.Valid() {
		t.Error("source valid after move")
	}
	a.Drop()
	if released != 0 {
		t.Error("moved-from read sample must not release")
	}
	b.Drop()
	if released != 1 {
		t.Errorf("release ran %d times, want 1", released)
	}
}
