// Package control
// Author: momentics <momentics@gmail.com>
//
// Runtime metrics and debug introspection layer for hioload-shm.
//
// Provides concurrent-safe state handling primitives including:
//   - Counter registry for the chunk lifecycle (loan, publish, deliver, reclaim)
//   - Prometheus collector bridging registry snapshots
//   - Debug hooks and probe registration for pool and router state
package control
