package cueue

import "sync/atomic"

// Consumer is the read-side endpoint of a queue created by New. Like
// Producer it is move-only in spirit and exclusively owned by one
// goroutine at a time.
type Consumer struct {
	core   *core
	closed atomic.Bool

	// readPos is the consumer's own mirror of core.state.readPos; as the
	// sole mutator it never needs to load the shared counter back, only to
	// Store the published value.
	readPos uint64

	// wSnap is the write-position snapshot taken by the most recent
	// BeginRead. EndRead publishes up to wSnap. wSnap == readPos both
	// initially and immediately after an EndRead, which is what makes a
	// redundant EndRead (no BeginRead since the last one) a no-op.
	wSnap uint64
}

// Capacity returns the queue's effective (rounded) capacity in bytes.
func (c *Consumer) Capacity() uint64 {
	return c.core.ring.capacity()
}

// BeginRead loads the shared write position with a fresh snapshot and
// returns the contiguous span of unread bytes up to that snapshot. The
// slice is empty iff the queue is empty. It may aggregate bytes from
// several producer batches, but never includes any byte from a batch still
// in progress, since the producer only advances the shared write position
// inside EndWrite.
func (c *Consumer) BeginRead() []byte {
	c.wSnap = c.core.state.writePos.Load()
	return c.core.ring.window(c.readPos, c.wSnap-c.readPos)
}

// EndRead publishes consumption of the span returned by the most recent
// BeginRead, atomically advancing the shared read position. It is a no-op
// if no BeginRead has occurred since the last EndRead.
func (c *Consumer) EndRead() {
	if c.wSnap == c.readPos {
		return
	}
	c.readPos = c.wSnap
	c.core.state.readPos.Store(c.readPos)
}

// Close releases this endpoint's share of the queue's backing mapping. It
// is idempotent and safe to call more than once. The mapping itself is
// only unmapped once both the Producer and the Consumer have closed.
func (c *Consumer) Close() error {
	if c.closed.Swap(true) {
		return nil
	}
	return c.core.release()
}
