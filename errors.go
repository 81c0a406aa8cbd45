package cueue

import "errors"

// Construction errors. All are fatal: no partial queue is ever observable
// to the caller.
var (
	// ErrInvalidCapacity is returned when the requested capacity, rounded up
	// to a page-aligned power of two, would overflow before the double
	// mapping can even be attempted.
	ErrInvalidCapacity = errors.New("cueue: requested capacity is invalid once rounded to a page-aligned power of two")

	// ErrUnsupportedPlatform is returned on operating systems that lack a
	// primitive for mapping the same physical pages twice into adjacent
	// virtual ranges.
	ErrUnsupportedPlatform = errors.New("cueue: double-mapped ring buffers are not supported on this platform")
)

// ErrInsufficientSpace is the only runtime error a Producer can return: the
// caller asked Write to append more bytes than the span returned by the
// most recent BeginWrite/BeginWriteIfNeeded can hold. The in-progress
// length is left unchanged.
var ErrInsufficientSpace = errors.New("cueue: write exceeds the reserved span")
