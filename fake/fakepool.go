// Author: momentics <momentics@gmail.com>
// SPDX-License-Identifier: MIT

package fake

import (
	"sync"

	"github.com/momentics/hioload-shm/api"
	"github.com/momentics/hioload-shm/chunk"
)

// HeapPool is a heap-backed api.ChunkPool for testing: one payload
// class, fixed population, full loan/free accounting.
type HeapPool struct {
	payload int
	limit   int

	mu     sync.Mutex
	free   []*chunk.Chunk
	issued int
	loans  int64
	frees  int64
	fails  int64
}

// NewHeapPool creates a pool of count chunks with the given payload
// capacity.
func NewHeapPool(payload, count int) *HeapPool {
	return &HeapPool{payload: payload, limit: count}
}

// Loan implements api.ChunkPool.
func (p *HeapPool) Loan(size int) (*chunk.Chunk, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if size > p.payload {
		p.fails++
		return nil, api.ErrChunkTooLarge
	}
	var c *chunk.Chunk
	if n := len(p.free); n > 0 {
		c = p.free[n-1]
		p.free = p.free[:n-1]
	} else {
		if p.issued >= p.limit {
			p.fails++
			return nil, api.ErrPoolExhausted
		}
		c = chunk.New(make([]byte, chunk.HeaderSize+p.payload), p.payload)
		p.issued++
	}
	c.Reset()
	p.loans++
	return c, nil
}

// Free implements api.ChunkPool.
func (p *HeapPool) Free(c *chunk.Chunk) {
	if c == nil {
		return
	}
	p.mu.Lock()
	p.free = append(p.free, c)
	p.frees++
	p.mu.Unlock()
}

// Stats implements api.ChunkPool.
func (p *HeapPool) Stats() api.ChunkPoolStats {
	p.mu.Lock()
	defer p.mu.Unlock()
	return api.ChunkPoolStats{
		TotalLoans:    p.loans,
		TotalFrees:    p.frees,
		InUse:         p.loans - p.frees,
		FailedLoans:   p.fails,
		ClassStats:    map[int]int64{p.payload: p.loans},
		ChunksPerPool: p.limit,
	}
}

// Loans returns how many loans succeeded.
func (p *HeapPool) Loans() int64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.loans
}

// Frees returns how many chunks came back.
func (p *HeapPool) Frees() int64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.frees
}
