//go:build !linux

package board

import "errors"

// OpenExpander returns an error on non-Linux platforms.
func OpenExpander(bus int, addr uint8, digits int) (*ExpanderDriver, error) {
	return nil, errors.New("board: i2c not supported on this platform (requires Linux)")
}
