//go:build darwin

package cueue

import (
	"fmt"
	"os"
	"unsafe"

	"golang.org/x/sys/unix"
)

// newDoubleMap implements the §4.1 algorithm on Darwin, which has no
// memfd_create. The "unnamed, shrinkable backing object" is instead a
// temporary file opened, ftruncated to capacity and unlinked immediately
// so it never has a visible path once mapped — the same anonymous-shared-
// memory technique AlephTX/aleph-tx's feeder/shm/ring.go uses (open a
// backing file under a shared tmpfs-like path, Mmap it MAP_SHARED). The
// rest of the algorithm — reserve 2*capacity, then overlay two MAP_FIXED
// mappings of that file descriptor — mirrors doublemap_linux.go exactly,
// using the same golang.org/x/sys/unix primitives Jorropo/mmu-ring uses.
func newDoubleMap(capacity uint64) (*doubleMap, error) {
	size := uintptr(capacity)
	total := size * 2

	f, err := os.CreateTemp("", "cueue-ring-*")
	if err != nil {
		return nil, fmt.Errorf("cueue: create anonymous backing file: %w", err)
	}
	defer f.Close()
	// Unlink immediately: the fd keeps the pages alive, no path is ever
	// left on disk, matching memfd_create's "unnamed" contract.
	os.Remove(f.Name())

	fd := int(f.Fd())
	if err := unix.Ftruncate(fd, int64(size)); err != nil {
		return nil, fmt.Errorf("cueue: ftruncate: %w", err)
	}

	base, err := unix.MmapPtr(-1, 0, nil, total, unix.PROT_READ|unix.PROT_WRITE, unix.MAP_ANON|unix.MAP_PRIVATE)
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
