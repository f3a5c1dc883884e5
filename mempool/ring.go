// File: mempool/ring.go
// Author: momentics <momentics@gmail.com>
//
// Free-list ring buffer backing the per-class chunk populations.
// The free list is the cross-thread hand-off point of the pool: every
// loaning publisher dequeues from it and every consumer-side release
// enqueues to it, from arbitrary goroutines. Access is serialized by an
// internal lock so a chunk can never be handed to two borrowers.

package mempool

import "sync"

// ringBuffer is a fixed-capacity ring buffer (power-of-two size), safe
// for concurrent producers and consumers.
type ringBuffer[T any] struct {
	mu   sync.Mutex
	data []T
	mask uint64
	head uint64
	tail uint64
}

// newRingBuffer allocates a ring buffer with size (must be power of two).
func newRingBuffer[T any](size uint64) *ringBuffer[T] {
	if size == 0 || (size&(size-1)) != 0 {
		panic("ring buffer size must be power of two")
	}
	return &ringBuffer[T]{
		data: make([]T, size),
		mask: size - 1,
	}
}

// Enqueue adds an item; returns false if full.
func (r *ringBuffer[T]) Enqueue(val T) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if (r.tail - r.head) == uint64(len(r.data)) {
		return false
	}
	r.data[r.tail&r.mask] = val
	r.tail++
	return true
}

// Dequeue removes and returns (item, ok); ok==false if empty.
func (r *ringBuffer[T]) Dequeue() (res T, ok bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.head == r.tail {
		return res, false
	}
	res = r.data[r.head&r.mask]
	r.head++
	return res, true
}

// Len returns number of items in the buffer.
func (r *ringBuffer[T]) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int(r.tail - r.head)
}

// nextPow2 rounds n up to the next power of two, minimum 1.
func nextPow2(n uint64) uint64 {
	p := uint64(1)
	for p < n {
		p <<= 1
	}
	return p
}
