package cueue_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ejyy/cueue"
)

// TestBasicReadWrite is scenario S1 from the spec: three small writes
// coalesced into one batch, read back as a single concatenated slice.
func TestBasicReadWrite(t *testing.T) {
	p, c, err := cueue.New(1 << 20)
	require.NoError(t, err)
	defer p.Close()
	defer c.Close()

	p.BeginWrite()
	require.GreaterOrEqual(t, p.WriteCapacity(), uint64(9))
	require.NoError(t, p.Write([]byte("foo")))
	require.NoError(t, p.Write([]byte("bar")))
	require.NoError(t, p.Write([]byte("baz")))
	p.EndWrite()

	got := c.BeginRead()
	require.Equal(t, "foobarbaz", string(got))
	c.EndRead()

	require.Empty(t, c.BeginRead())
}

// TestBatchCoalescing is scenario S2: three separate committed batches,
// observed by the consumer as one contiguous 15-byte slice.
func TestBatchCoalescing(t *testing.T) {
	p, c, err := cueue.New(1 << 16)
	require.NoError(t, err)
	defer p.Close()
	defer c.Close()

	for _, n := range []int{5, 7, 3} {
		p.BeginWrite()
		require.NoError(t, p.Write(make([]byte, n)))
		p.EndWrite()
	}

	got := c.BeginRead()
	require.Len(t, got, 15)
	c.EndRead()
}

// TestFillExactly is scenario S3: filling the queue to exactly its
// capacity leaves zero write capacity until the consumer releases bytes.
func TestFillExactly(t *testing.T) {
	p, c, err := cueue.New(1 << 12)
	require.NoError(t, err)
	defer p.Close()
	defer c.Close()

	capacity := p.Capacity()
	span := p.BeginWrite()
	require.Len(t, span, int(capacity))
	require.NoError(t, p.Write(make([]byte, capacity)))
	p.EndWrite()

	require.Equal(t, uint64(0), p.WriteCapacity())
	require.Empty(t, p.BeginWrite())

	read := c.BeginRead()
	require.Len(t, read, int(capacity))
	c.EndRead()

	require.Equal(t, capacity, uint64(len(p.BeginWrite())))
}

// TestInsufficientSpace is scenario S6: writing one byte more than a freshly
// begun span returns ErrInsufficientSpace and leaves the in-progress
// length untouched.
func TestInsufficientSpace(t *testing.T) {
	p, c, err := cueue.New(1 << 12)
	require.NoError(t, err)
	defer p.Close()
	defer c.Close()

	span := p.BeginWrite()
	require.ErrorIs(t, p.Write(make([]byte, len(span)+1)), cueue.ErrInsufficientSpace)

	// the in-progress length must still be zero: a correctly-sized write
	// right afterwards should succeed for the full span.
	require.NoError(t, p.Write(make([]byte, len(span))))
	p.EndWrite()

	require.Len(t, c.BeginRead(), len(span))
}

// TestEndWriteNoopWhenEmpty checks that ending a write with nothing
// pending doesn't publish anything.
func TestEndWriteNoopWhenEmpty(t *testing.T) {
	p, c, err := cueue.New(1 << 12)
	require.NoError(t, err)
	defer p.Close()
	defer c.Close()

	p.BeginWrite()
	p.EndWrite()

	require.Empty(t, c.BeginRead())
}

// TestEndReadIdempotent checks that a redundant EndRead (no BeginRead since
// the last one) is a no-op rather than re-publishing a stale position.
func TestEndReadIdempotent(t *testing.T) {
	p, c, err := cueue.New(1 << 12)
	require.NoError(t, err)
	defer p.Close()
	defer c.Close()

	c.EndRead() // nothing read yet; must not panic or corrupt state

	p.BeginWrite()
	require.NoError(t, p.Write([]byte("hi")))
	p.EndWrite()

	require.Equal(t, "hi", string(c.BeginRead()))
	c.EndRead()
	c.EndRead() // redundant; must not double-release capacity

	// a fresh BeginWrite refreshes the producer's cached read position and
	// must see the full capacity back, proving the redundant EndRead above
	// didn't silently advance the shared read position a second time.
	require.Equal(t, p.Capacity(), uint64(len(p.BeginWrite())))
}

// TestCapacityRounding is testable property 1: the effective capacity is
// always next_power_of_two(max(requested, page_size)).
func TestCapacityRounding(t *testing.T) {
	for _, requested := range []uint64{0, 1, 100, 4096, 4097, 1 << 20, (1 << 20) + 1} {
		p, c, err := cueue.New(requested)
		require.NoError(t, err)

		capacity := p.Capacity()
		require.Equal(t, capacity, c.Capacity())
		require.True(t, isPowerOfTwo(capacity), "capacity %d for request %d is not a power of two", capacity, requested)
		require.GreaterOrEqual(t, capacity, requested)
		require.GreaterOrEqual(t, capacity, pageSize(t))
		if capacity > pageSize(t) {
			// capacity is the smallest page-aligned power of two covering
			// requested; halving it must drop below whichever of
			// requested/page-size actually drove the rounding.
			require.Less(t, capacity/2, max(requested, pageSize(t)))
		}

		require.NoError(t, p.Close())
		require.NoError(t, c.Close())
	}
}

func isPowerOfTwo(v uint64) bool {
	return v != 0 && v&(v-1) == 0
}

func pageSize(t *testing.T) uint64 {
	t.Helper()
	p, c, err := cueue.New(1)
	require.NoError(t, err)
	defer p.Close()
	defer c.Close()
	return p.Capacity()
}

// TestTeardownEitherOrder checks that closing the Producer and Consumer in
// either order, including double-closing each one, never errors and never
// double-unmaps.
func TestTeardownEitherOrder(t *testing.T) {
	p, c, err := cueue.New(1 << 12)
	require.NoError(t, err)

	require.NoError(t, p.Close())
	require.NoError(t, p.Close()) // idempotent
	require.NoError(t, c.Close())
	require.NoError(t, c.Close()) // idempotent

	p2, c2, err := cueue.New(1 << 12)
	require.NoError(t, err)
	require.NoError(t, c2.Close())
	require.NoError(t, p2.Close())
}
