//go:build !linux

package gpio

import "errors"

// RpioBackend is not available on non-Linux platforms.
type RpioBackend struct{}

// OpenRpio returns an error on non-Linux platforms.
func OpenRpio() (*RpioBackend, error) {
	return nil, errors.New("gpio: rpio not supported on this platform (requires Linux)")
}

// Input is not implemented on non-Linux platforms.
func (b *RpioBackend) Input(offset int) (Line, error) {
	return nil, errors.New("gpio: not supported")
}

// Output is not implemented on non-Linux platforms.
func (b *RpioBackend) Output(offset int, initial int) (Line, error) {
	return nil, errors.New("gpio: not supported")
}

// Group is not implemented on non-Linux platforms.
func (b *RpioBackend) Group(offsets []int) (Group, error) {
	return nil, errors.New("gpio: not supported")
}

// Close is not implemented on non-Linux platforms.
func (b *RpioBackend) Close() error {
	return nil
}
