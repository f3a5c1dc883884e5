// Package loan
// Author: momentics <momentics@gmail.com>
//
// Ownership core of hioload-shm: move-only handles over loaned chunks.
//
// OwningHandle is the primitive: it pairs a payload pointer with the
// release action bound at loan time and guarantees at-most-once release.
// Sample wraps a handle for the producer side (mutable payload, publish
// hand-off), ReadSample for the consumer side (read-only view). At most
// one live handle or sample owns a given chunk at any time inside a
// process; moves transfer that ownership and null the source.
//
// None of these types lock. They guarantee ownership uniqueness, not
// thread safety: a handle or sample must be driven by one goroutine at a
// time or be externally synchronized.
package loan
