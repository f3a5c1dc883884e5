// Package shm
// Author: momentics <momentics@gmail.com>
//
// Shared memory segment management for hioload-shm.
// A Segment is one contiguous, 64-byte aligned memory region the chunk
// pool carves up. On Linux it is an anonymous memfd mapped with mmap so
// the fd can later be passed to peer processes; elsewhere, and for
// tests, a heap-backed segment provides the same interface.
package shm
