package gpio

import "fmt"

// DigitalInput is an input line with edge detection against the last
// observed state. An inverted input reads active when the line is low.
type DigitalInput struct {
	line      Line
	offset    int
	inverted  bool
	lastState bool
}

// NewDigitalInput wraps a line. The last observed state starts inactive.
func NewDigitalInput(line Line, offset int, inverted bool) *DigitalInput {
	return &DigitalInput{line: line, offset: offset, inverted: inverted}
}

// State returns the logical state of the input.
func (in *DigitalInput) State() (bool, error) {
	v, err := in.line.Value()
	if err != nil {
		return false, fmt.Errorf("read pin %d: %w", in.offset, err)
	}
	return (v != 0) != in.inverted, nil
}

// HasChanged reports whether the state differs from the last observation.
func (in *DigitalInput) HasChanged() (bool, error) {
	state, err := in.State()
	if err != nil {
		return false, err
	}
	changed := state != in.lastState
	in.lastState = state
	return changed, nil
}

// HasActivated reports an inactive to active transition.
func (in *DigitalInput) HasActivated() (bool, error) {
	state, err := in.State()
	if err != nil {
		return false, err
	}
	activated := state && !in.lastState
	in.lastState = state
	return activated, nil
}

// HasDeactivated reports an active to inactive transition.
func (in *DigitalInput) HasDeactivated() (bool, error) {
	state, err := in.State()
	if err != nil {
		return false, err
	}
	deactivated := !state && in.lastState
	in.lastState = state
	return deactivated, nil
}

// Offset returns the BCM offset of the line.
func (in *DigitalInput) Offset() int {
	return in.offset
}

// DigitalOutput drives an output line. An inverted output is active low.
type DigitalOutput struct {
	line     Line
	offset   int
	inverted bool
	level    int
}

// NewDigitalOutput wraps a line that is currently driven to level.
func NewDigitalOutput(line Line, offset int, inverted bool, level int) *DigitalOutput {
	return &DigitalOutput{line: line, offset: offset, inverted: inverted, level: level}
}

// Activate drives the output to its active level.
func (out *DigitalOutput) Activate() error {
	return out.set(out.levelFor(true))
}

// Deactivate drives the output to its inactive level.
func (out *DigitalOutput) Deactivate() error {
	return out.set(out.levelFor(false))
}

// Toggle inverts the current level of the line.
func (out *DigitalOutput) Toggle() error {
	return out.set(1 - out.level)
}

// Active reports whether the output is at its active level.
func (out *DigitalOutput) Active() bool {
	return out.level == out.levelFor(true)
}

func (out *DigitalOutput) levelFor(active bool) int {
	if active != out.inverted {
		return 1
	}
	return 0
}

func (out *DigitalOutput) set(level int) error {
	if err := out.line.SetValue(level); err != nil {
		return fmt.Errorf("write pin %d: %w", out.offset, err)
	}
	out.level = level
	return nil
}
