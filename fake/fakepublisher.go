// Author: momentics <momentics@gmail.com>
// SPDX-License-Identifier: MIT

package fake

import (
	"github.com/momentics/hioload-shm/chunk"
	"github.com/momentics/hioload-shm/loan"
)

// RecordingPublisher is a loan.Publisher stub that keeps every handle it
// was given, so tests can assert on delivered payloads and on the fact
// that no pool release ran after hand-off.
type RecordingPublisher[T any] struct {
	Delivered []loan.OwningHandle[T]
}

// PublishChunk implements loan.Publisher.
func (p *RecordingPublisher[T]) PublishChunk(h loan.OwningHandle[T]) {
	p.Delivered = append(p.Delivered, h)
}

// Values returns the delivered payloads in publish order.
func (p *RecordingPublisher[T]) Values() []T {
	out := make([]T, 0, len(p.Delivered))
	for i := range p.Delivered {
		out = append(out, *p.Delivered[i].Get())
	}
	return out
}

// Chunks returns the delivered chunk descriptors in publish order.
func (p *RecordingPublisher[T]) Chunks() []*chunk.Chunk {
	out := make([]*chunk.Chunk, 0, len(p.Delivered))
	for i := range p.Delivered {
		out = append(out, p.Delivered[i].Chunk())
	}
	return out
}
