// File: mempool/pool.go
// Package mempool carves a segment into size-classed chunk pools.
// Author: momentics <momentics@gmail.com>
//
// Each payload size class gets a fixed population of chunks fronted by a
// shared free ring. Loan dequeues, Free enqueues; exhaustion is an
// error, never a heap allocation, so the segment stays the only backing
// store and loaned chunks remain shareable across processes.

package mempool

import (
	"sync/atomic"

	"github.com/momentics/hioload-shm/api"
	"github.com/momentics/hioload-shm/chunk"
	"github.com/momentics/hioload-shm/shm"
)

// DefaultClasses is the default payload size class table (bytes).
// This table can be tuned for deployment needs.
var DefaultClasses = []int{64, 256, 1 * 1024, 4 * 1024, 16 * 1024, 64 * 1024}

const chunkAlign = 64

// classPool holds the chunk population of one payload size class.
type classPool struct {
	payload int
	free    *ringBuffer[*chunk.Chunk]
	loans   atomic.Int64
}

// Pool implements api.ChunkPool over one shared-memory segment.
type Pool struct {
	seg     *shm.Segment
	classes []*classPool
	perPool int

	totalLoans  atomic.Int64
	totalFrees  atomic.Int64
	failedLoans atomic.Int64
}

// alignUp rounds n up to the chunk alignment boundary.
func alignUp(n int) int {
	return (n + chunkAlign - 1) &^ (chunkAlign - 1)
}

// RequiredBytes returns the segment size needed for chunksPerClass chunks
// in every class of the given table. Used to size segments from config.
func RequiredBytes(classes []int, chunksPerClass int) int {
	total := 0
	for _, payload := range classes {
		total += alignUp(chunk.HeaderSize+payload) * chunksPerClass
	}
	return total
}

// New carves seg into chunksPerClass chunks per payload class and returns
// the pool. The class table must be ascending; the segment must be large
// enough (see RequiredBytes).
func New(seg *shm.Segment, classes []int, chunksPerClass int) (*Pool, error) {
	if len(classes) == 0 || chunksPerClass <= 0 {
		return nil, api.NewError(api.ErrCodeInvalidArgument, "empty class table or non-positive chunk count")
	}
	for i := 1; i < len(classes); i++ {
		if classes[i] <= classes[i-1] {
			return nil, api.NewError(api.ErrCodeInvalidArgument, "class table must be strictly ascending")
		}
	}
	mem, err := seg.Bytes()
	if err != nil {
		return nil, err
	}
	if need := RequiredBytes(classes, chunksPerClass); len(mem) < need {
		return nil, api.NewError(api.ErrCodeInvalidArgument, "segment too small for class table").
			WithContext("need", need).
			WithContext("have", len(mem))
	}

	p := &Pool{seg: seg, perPool: chunksPerClass}
	off := 0
	for _, payload := range classes {
		cp := &classPool{
			payload: payload,
			free:    newRingBuffer[*chunk.Chunk](nextPow2(uint64(chunksPerClass))),
		}
		stride := alignUp(chunk.HeaderSize + payload)
		for i := 0; i < chunksPerClass; i++ {
			c := chunk.New(mem[off:off+chunk.HeaderSize+payload], payload)
			cp.free.Enqueue(c)
			off += stride
		}
		p.classes = append(p.classes, cp)
	}
	return p, nil
}

// classFor returns the smallest class pool whose payload fits size.
func (p *Pool) classFor(size int) *classPool {
	for _, cp := range p.classes {
		if size <= cp.payload {
			return cp
		}
	}
	return nil
}

// Loan implements api.ChunkPool.Loan.
func (p *Pool) Loan(size int) (*chunk.Chunk, error) {
	if size < 0 {
		return nil, api.ErrInvalidArgument
	}
	cp := p.classFor(size)
	if cp == nil {
		p.failedLoans.Add(1)
		return nil, api.ErrChunkTooLarge
	}
	c, ok := cp.free.Dequeue()
	if !ok {
		p.failedLoans.Add(1)
		return nil, api.ErrPoolExhausted
	}
	c.Reset()
	cp.loans.Add(1)
	p.totalLoans.Add(1)
	return c, nil
}

// Free implements api.ChunkPool.Free. The chunk returns to its class
// ring; the ring is sized for the full population, so Enqueue cannot
// fail for a chunk this pool carved.
func (p *Pool) Free(c *chunk.Chunk) {
	if c == nil {
		return
	}
	for _, cp := range p.classes {
		if cp.payload == c.Class() {
			cp.free.Enqueue(c)
			p.totalFrees.Add(1)
			return
		}
	}
}

// Stats implements api.ChunkPool.Stats.
func (p *Pool) Stats() api.ChunkPoolStats {
	loans := p.totalLoans.Load()
	frees := p.totalFrees.Load()
	perClass := make(map[int]int64, len(p.classes))
	for _, cp := range p.classes {
		perClass[cp.payload] = cp.loans.Load()
	}
	return api.ChunkPoolStats{
		TotalLoans:    loans,
		TotalFrees:    frees,
		InUse:         loans - frees,
		FailedLoans:   p.failedLoans.Load(),
		ClassStats:    perClass,
		SegmentBytes:  int64(p.seg.Size()),
		ChunksPerPool: p.perPool,
	}
}
