// Package cueue is a bounded, single-producer/single-consumer byte queue.
//
// Its backing storage is a contiguous byte array whose virtual address
// range is mapped twice, back to back, so that any span of at most
// capacity bytes beginning anywhere inside the first mapping is physically
// contiguous in the process's address space. Producer and Consumer never
// need wrap-around logic on the read or write path; both expose messages
// as flat byte slices, even when a span straddles the wrap point.
package cueue

import (
	"fmt"
	"os"
	"runtime"
	"sync/atomic"
)

// core is the control block shared between a Producer and a Consumer: the
// double-mapped ring storage plus the atomic position protocol. Spec §9
// models this as reference-counted ownership of the allocator handle
// rather than one endpoint owning the other — Go has no deterministic
// Drop, so that's implemented here with an atomic refcount started at 2
// (one per endpoint) and decremented by each endpoint's Close(); whichever
// Close() brings it to zero unmaps the ring.
type core struct {
	ring  ring
	state sharedState
	open  atomic.Int32
}

func (c *core) release() error {
	if c.open.Add(-1) != 0 {
		return nil
	}
	return c.ring.dm.unmap()
}

// New builds a double-mapped SPSC byte queue and returns its bound
// Producer and Consumer. requestedCapacity is rounded up to a power of two
// no smaller than the system page size; callers can observe the resulting
// effective capacity via Producer.Capacity/Consumer.Capacity.
func New(requestedCapacity uint64) (*Producer, *Consumer, error) {
	pageSize := uint64(os.Getpagesize())
	capacity := nextPowerOfTwo(max64(requestedCapacity, pageSize))
	if capacity == 0 {
		// nextPowerOfTwo returns 0 when rounding up would overflow a
		// uint64; the double map needs 2*capacity bytes of address space,
		// so capacity itself must leave room to double.
		return nil, nil, fmt.Errorf("%w: %d", ErrInvalidCapacity, requestedCapacity)
	}

	dm, err := newDoubleMap(capacity)
	if err != nil {
		return nil, nil, err
	}

	c := &core{ring: ring{dm: dm, mask: capacity - 1}}
	c.open.Store(2)

	p := &Producer{core: c}
	cons := &Consumer{core: c}

	// Backstop only: the intended lifecycle is explicit Close() on both
	// endpoints, same as *os.File. A missed Close still reclaims the
	// mapping once both finalizers run, instead of leaking it forever.
	runtime.SetFinalizer(p, (*Producer).Close)
	runtime.SetFinalizer(cons, (*Consumer).Close)

	return p, cons, nil
}
