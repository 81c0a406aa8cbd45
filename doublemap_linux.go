//go:build linux

package cueue

import (
	"fmt"
	"unsafe"

	"golang.org/x/sys/unix"
)

// newDoubleMap implements the §4.1 algorithm on Linux: an anonymous,
// shrinkable memfd stands in for the "unnamed backing object" the spec
// asks for, mapped twice over a throwaway address-space reservation.
//
// Grounded on Jorropo/mmu-ring's ring.go, which solves this exact problem
// (memfd_create + MAP_FIXED double map) with the same three-step shape:
// reserve 2*capacity, then replace each half of the reservation with a
// MAP_FIXED mapping of the same file descriptor.
func newDoubleMap(capacity uint64) (*doubleMap, error) {
	size := uintptr(capacity)
	total := size * 2

	fd, err := unix.MemfdCreate("cueue-ring", unix.MFD_CLOEXEC)
	if err != nil {
		return nil, fmt.Errorf("cueue: memfd_create: %w", err)
	}
	defer unix.Close(fd)

	if err := unix.Ftruncate(fd, int64(size)); err != nil {
		return nil, fmt.Errorf("cueue: ftruncate: %w", err)
	}

	// Reserve 2*capacity of address space so no other allocation can slide
	// into the gap between the two fixed maps below.
	base, err := unix.MmapPtr(-1, 0, nil, total, unix.PROT_READ|unix.PROT_WRITE, unix.MAP_ANONYMOUS|unix.MAP_NORESERVE|unix.MAP_PRIVATE)
	if err != nil {
		return nil, fmt.Errorf("cueue: reserve address space: %w", err)
	}

	if _, err := unix.MmapPtr(fd, 0, base, size, unix.PROT_READ|unix.PROT_WRITE, unix.MAP_SHARED|unix.MAP_FIXED); err != nil {
		unix.MunmapPtr(base, total)
		return nil, fmt.Errorf("cueue: map first half: %w", err)
	}

	if _, err := unix.MmapPtr(fd, 0, unsafe.Add(base, size), size, unix.PROT_READ|unix.PROT_WRITE, unix.MAP_SHARED|unix.MAP_FIXED); err != nil {
		unix.MunmapPtr(base, total)
		return nil, fmt.Errorf("cueue: map second half: %w", err)
	}

	return &doubleMap{base: base, capacity: capacity}, nil
}

func platformUnmap(base unsafe.Pointer, capacity uint64) error {
	if err := unix.MunmapPtr(base, uintptr(capacity)*2); err != nil {
		return fmt.Errorf("cueue: munmap: %w", err)
	}
	return nil
}
