//go:build !linux
// +build !linux

// File: shm/segment_stub.go
// Author: momentics <momentics@gmail.com>
//
// Heap-backed segment fallback for platforms without a memfd path.

package shm

func createSegment(name string, size int) (*Segment, error) {
	return NewHeap(name, size), nil
}
