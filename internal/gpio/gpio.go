// Package gpio provides edge-detecting digital inputs and outputs on top of
// a minimal Line abstraction.
// Backends exist for the Linux GPIO character device, for memory-mapped
// BCM2835 registers and, for tests, an in-memory fake.
package gpio

import "errors"

// ErrUnavailable is returned when a pool has no free descriptor left.
var ErrUnavailable = errors.New("gpio: no descriptor available")

// Default pool capacities: six buttons and one buzzer.
const (
	DefaultInputs  = 6
	DefaultOutputs = 1
)

// Line is one GPIO line. Values are raw electrical levels (0 or 1).
type Line interface {
	Value() (int, error)
	SetValue(v int) error
	Close() error
}

// Group is a set of output lines written together.
type Group interface {
	SetValues(values []int) error
	Close() error
}

// Backend opens lines by BCM offset.
type Backend interface {
	// Input requests an input line with the pull-up enabled.
	Input(offset int) (Line, error)
	// Output requests an output line driven to initial.
	Output(offset int, initial int) (Line, error)
	// Group requests a set of output lines, all driven low.
	Group(offsets []int) (Group, error)
	Close() error
}
