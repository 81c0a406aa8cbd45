package cueue

import "sync/atomic"

// Producer is the write-side endpoint of a queue created by New. It is
// move-only in spirit: never copy a Producer value, and only one
// goroutine may call its methods at a time (it may migrate to a different
// goroutine between calls provided there is a happens-before edge between
// the two, e.g. a channel handoff or a join).
type Producer struct {
	core   *core
	closed atomic.Bool

	// writePos is the producer's own mirror of core.state.writePos. Since
	// the producer is the sole mutator of that counter, it never needs to
	// load it back atomically — only to Store the published value so the
	// consumer can observe it.
	writePos uint64

	// cachedRead is the last value of core.state.readPos this Producer has
	// observed. Every BeginWrite refreshes it; BeginWriteIfNeeded calls
	// BeginWrite only when its held span is too short, and WriteCapacity
	// never refreshes it.
	cachedRead uint64

	// spanLen/pending track the span returned by the most recent
	// BeginWrite/BeginWriteIfNeeded and how much of it has been filled by
	// Write but not yet published by EndWrite.
	spanLen uint64
	pending uint64
}

// Capacity returns the queue's effective (rounded) capacity in bytes.
func (p *Producer) Capacity() uint64 {
	return p.core.ring.capacity()
}

// WriteCapacity returns capacity-(W-R) using the producer's cached view of
// R; it may under-report if the consumer has advanced R since the last
// refresh, but it never over-reports actual free space.
func (p *Producer) WriteCapacity() uint64 {
	return p.core.ring.capacity() - (p.writePos - p.cachedRead)
}

// BeginWrite refreshes the producer's view of the read position and
// returns the maximal writable contiguous span. Its length may be zero if
// the queue is full. A single contiguous slice always suffices, even for
// spans that straddle the wrap point, because the underlying storage is
// double-mapped.
func (p *Producer) BeginWrite() []byte {
	p.refreshRead()
	p.pending = 0
	p.spanLen = p.core.ring.capacity() - (p.writePos - p.cachedRead)
	return p.core.ring.window(p.writePos, p.spanLen)
}

// BeginWriteIfNeeded returns the currently-held writable span if it can
// already hold n more bytes; otherwise it behaves like BeginWrite,
// refreshing the read position and returning the updated span.
func (p *Producer) BeginWriteIfNeeded(n uint64) []byte {
	if p.spanLen-p.pending < n {
		return p.BeginWrite()
	}
	return p.core.ring.window(p.writePos+p.pending, p.spanLen-p.pending)
}

// Write appends b into the span currently held by the last
// BeginWrite/BeginWriteIfNeeded call, advancing the in-progress length.
// It returns ErrInsufficientSpace if b is longer than what remains of that
// span; the in-progress length is left unchanged in that case.
func (p *Producer) Write(b []byte) error {
	remaining := p.spanLen - p.pending
	if uint64(len(b)) > remaining {
		return ErrInsufficientSpace
	}
	dst := p.core.ring.window(p.writePos+p.pending, uint64(len(b)))
	copy(dst, b)
	p.pending += uint64(len(b))
	return nil
}

// EndWrite publishes the in-progress length, atomically advancing the
// shared write position so the consumer can observe it, then resets the
// in-progress length to zero. It is a no-op if nothing was written since
// the last EndWrite.
func (p *Producer) EndWrite() {
	if p.pending == 0 {
		return
	}
	p.writePos += p.pending
	p.core.state.writePos.Store(p.writePos)
	p.pending = 0
	p.spanLen = 0
}

func (p *Producer) refreshRead() {
	p.cachedRead = p.core.state.readPos.Load()
}

// Close releases this endpoint's share of the queue's backing mapping. It
// is idempotent and safe to call more than once. The mapping itself is
// only unmapped once both the Producer and the Consumer have closed.
func (p *Producer) Close() error {
	if p.closed.Swap(true) {
		return nil
	}
	return p.core.release()
}
