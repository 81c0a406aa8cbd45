//go:build !linux && !darwin

package cueue

import "unsafe"

// newDoubleMap has no implementation outside Linux/Darwin: portability
// beyond operating systems that can map the same physical pages twice into
// adjacent virtual ranges is an explicit Non-goal (spec §1).
func newDoubleMap(capacity uint64) (*doubleMap, error) {
	return nil, ErrUnsupportedPlatform
}

func platformUnmap(base unsafe.Pointer, capacity uint64) error {
	return ErrUnsupportedPlatform
}
