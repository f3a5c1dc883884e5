// Package mempool
// Author: momentics <momentics@gmail.com>
//
// Chunk pool layer for hioload-shm.
// Carves a shared-memory segment into fixed chunks grouped by payload
// size class and loans them through locked per-class free rings. The
// pool is where cross-goroutine synchronization lives: loans and frees
// arrive from any number of publishers and consumer release paths. It
// only allocates and reclaims; exclusive-ownership discipline over
// loaned chunks lives in the loan package.
package mempool
