// Package api
// Author: momentics <momentics@gmail.com>
//
// Contract layer for hioload-shm: zero-copy shared-memory publish/subscribe.
// Defines the chunk pool abstraction, pool statistics, and the common error
// types used across the library. Concrete implementations live in mempool,
// pubsub, and shm; this package carries no state of its own.
package api
