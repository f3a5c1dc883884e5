// Package pubsub
// Author: momentics <momentics@gmail.com>
//
// Typed publish/subscribe endpoints and the in-process delivery router
// for hioload-shm.
//
// A Publisher loans chunks from the pool and issues mutable samples; the
// router carries published chunks to subscriber inboxes by reference,
// never copying payload bytes. A chunk delivered to several subscribers
// is refcounted in its header and returns to the pool when the last
// consumer drops its read sample.
package pubsub
