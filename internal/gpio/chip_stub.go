//go:build !linux

package gpio

import "errors"

// ChipBackend is not available on non-Linux platforms.
type ChipBackend struct{}

// OpenChip returns an error on non-Linux platforms.
func OpenChip(name string) (*ChipBackend, error) {
	return nil, errors.New("gpio: not supported on this platform (requires Linux)")
}

// Input is not implemented on non-Linux platforms.
func (b *ChipBackend) Input(offset int) (Line, error) {
	return nil, errors.New("gpio: not supported")
}

// Output is not implemented on non-Linux platforms.
func (b *ChipBackend) Output(offset int, initial int) (Line, error) {
	return nil, errors.New("gpio: not supported")
}

// Group is not implemented on non-Linux platforms.
func (b *ChipBackend) Group(offsets []int) (Group, error) {
	return nil, errors.New("gpio: not supported")
}

// Close is not implemented on non-Linux platforms.
func (b *ChipBackend) Close() error {
	return nil
}
