package cueue

import "sync/atomic"

// cacheLineSize is the padding unit used to keep writePos and readPos on
// separate cache lines. Grounded directly on the teacher's RingBuffer[T]
// (ringbuffer.go), which pads CACHE_LINE_SIZE-8 bytes around each atomic
// counter for the same reason; generalized here to a dedicated control
// block shared between two distinct endpoint types instead of one
// combined struct.
const cacheLineSize = 64

// sharedState holds the two monotonically non-decreasing 64-bit position
// counters from spec §3. writePos is mutated only by the Producer,
// readPos only by the Consumer; each is isolated onto its own cache line
// to avoid false sharing, per spec §4.2 and §9.
//
// Go's sync/atomic exposes only sequentially-consistent loads and stores,
// not the separate relaxed/acquire/release orderings spec §4.2 describes.
// Sequential consistency is strictly stronger than the acquire/release
// pairing the protocol requires, so correctness holds; the cost is that
// every load/store here is slightly heavier than the bare release-store /
// acquire-load the spec calls for. The producer keeps a private mirror of
// readPos (producer.go), reloaded by BeginWrite; BeginWriteIfNeeded only
// reaches that reload when its held span is too short. The consumer keeps
// no mirror of writePos: BeginRead loads it on every call.
type sharedState struct {
	_        [cacheLineSize]byte
	writePos atomic.Uint64
	_        [cacheLineSize - 8]byte
	readPos  atomic.Uint64
	_        [cacheLineSize - 8]byte
}
