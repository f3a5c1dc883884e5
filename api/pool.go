// File: api/pool.go
// Author: momentics <momentics@gmail.com>
//
// Defines the abstract chunk pool API: a zero-copy allocator that loans
// fixed shared-memory chunks and reclaims them when ownership returns.

package api

import "github.com/momentics/hioload-shm/chunk"

// ChunkPool loans chunks out of a shared-memory segment and reclaims them.
//
// A loaned chunk is exclusively owned by the borrower until it is either
// freed back to the pool or handed onward (published). The pool never
// tracks borrowers; ownership discipline lives in the loan package.
type ChunkPool interface {
	// Loan returns a chunk whose payload capacity is at least size bytes.
	// The payload region is zeroed. Returns ErrPoolExhausted when no chunk
	// of a suitable class is available, ErrChunkTooLarge when size exceeds
	// the largest class.
	Loan(size int) (*chunk.Chunk, error)

	// Free returns a chunk to its pool. The chunk must not be used
	// afterwards.
	Free(c *chunk.Chunk)

	// Stats exposes loan/reclaim accounting for observability.
	Stats() ChunkPoolStats
}

// ChunkPoolStats aggregates chunk loan/reclaim counters.
type ChunkPoolStats struct {
	TotalLoans    int64
	TotalFrees    int64
	InUse         int64
	FailedLoans   int64
	ClassStats    map[int]int64 // loans per chunk payload class
	SegmentBytes  int64
	ChunksPerPool int
}
