package cueue

import "unsafe"

// doubleMap is the descriptor for a ring's backing storage: capacity bytes
// of physical memory mapped twice back to back, so the linear range
// [base, base+2*capacity) lets any span of at most capacity bytes starting
// anywhere in [base, base+capacity) be addressed as one contiguous slice.
//
// Platform-specific construction lives in doublemap_linux.go,
// doublemap_darwin.go and doublemap_other.go; all three expose the same
// newDoubleMap(capacity uint64) (*doubleMap, error) entry point.
type doubleMap struct {
	base     unsafe.Pointer
	capacity uint64
}

// unmap releases the full 2*capacity virtual range. It is idempotent: a
// doubleMap that has already been unmapped (base == nil) is a no-op, which
// is what lets core.release() call it unconditionally from whichever
// endpoint happens to close last.
func (d *doubleMap) unmap() error {
	if d == nil || d.base == nil {
		return nil
	}
	base := d.base
	d.base = nil
	return platformUnmap(base, d.capacity)
}

// slice returns the length bytes starting at offset within the first
// mapping, addressed through the single linear [base, base+2*capacity)
// range so that spans straddling offset+length > capacity remain
// physically contiguous without any wrap-around branching.
func (d *doubleMap) slice(offset, length uint64) []byte {
	if length == 0 {
		return nil
	}
	return unsafe.Slice((*byte)(unsafe.Add(d.base, uintptr(offset))), int(length))
}

// ring is the immutable descriptor from spec §3: a base pointer, capacity
// and the capacity-1 mask used to reduce positions without division.
type ring struct {
	dm   *doubleMap
	mask uint64
}

func (r *ring) capacity() uint64 {
	return r.mask + 1
}

// window returns the contiguous span of length bytes starting at the given
// absolute position, reduced modulo capacity via the mask.
func (r *ring) window(position, length uint64) []byte {
	return r.dm.slice(position&r.mask, length)
}

// nextPowerOfTwo rounds v up to the nearest power of two. Returns 0 for
// v >= 1<<63: above 1<<63 the result would overflow a uint64, and 1<<63
// itself also yields 0.
func nextPowerOfTwo(v uint64) uint64 {
	if v == 0 {
		return 1
	}
	if v >= 1<<63 {
		return 0
	}
	v--
	v |= v >> 1
	v |= v >> 2
	v |= v >> 4
	v |= v >> 8
	v |= v >> 16
	v |= v >> 32
	v++
	return v
}

func max64(a, b uint64) uint64 {
	if a > b {
		return a
	}
	return b
}
