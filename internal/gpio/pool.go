package gpio

import "fmt"

// Pool hands out inputs and outputs from fixed-capacity arenas and owns
// every line it opened.
type Pool struct {
	backend Backend
	inputs  []*DigitalInput
	outputs []*DigitalOutput
	lines   []Line
	groups  []Group
}

// NewPool creates a pool with room for the given number of inputs and outputs.
func NewPool(backend Backend, inputs, outputs int) *Pool {
	return &Pool{
		backend: backend,
		inputs:  make([]*DigitalInput, 0, inputs),
		outputs: make([]*DigitalOutput, 0, outputs),
	}
}

// Input allocates an input with the pull-up enabled.
// Returns ErrUnavailable when the input arena is full.
func (p *Pool) Input(offset int, inverted bool) (*DigitalInput, error) {
	if len(p.inputs) == cap(p.inputs) {
		return nil, fmt.Errorf("input pin %d: %w", offset, ErrUnavailable)
	}
	line, err := p.backend.Input(offset)
	if err != nil {
		return nil, fmt.Errorf("request input pin %d: %w", offset, err)
	}
	in := NewDigitalInput(line, offset, inverted)
	p.inputs = append(p.inputs, in)
	p.lines = append(p.lines, line)
	return in, nil
}

// Output allocates an output, initially inactive.
// Returns ErrUnavailable when the output arena is full.
func (p *Pool) Output(offset int, inverted bool) (*DigitalOutput, error) {
	if len(p.outputs) == cap(p.outputs) {
		return nil, fmt.Errorf("output pin %d: %w", offset, ErrUnavailable)
	}
	initial := 0
	if inverted {
		initial = 1
	}
	line, err := p.backend.Output(offset, initial)
	if err != nil {
		return nil, fmt.Errorf("request output pin %d: %w", offset, err)
	}
	out := NewDigitalOutput(line, offset, inverted, initial)
	p.outputs = append(p.outputs, out)
	p.lines = append(p.lines, line)
	return out, nil
}

// Group requests a set of output lines. Groups are not counted against the
// arenas.
func (p *Pool) Group(offsets []int) (Group, error) {
	g, err := p.backend.Group(offsets)
	if err != nil {
		return nil, fmt.Errorf("request pins %v: %w", offsets, err)
	}
	p.groups = append(p.groups, g)
	return g, nil
}

// Inputs returns the number of allocated inputs.
func (p *Pool) Inputs() int {
	return len(p.inputs)
}

// Outputs returns the number of allocated outputs.
func (p *Pool) Outputs() int {
	return len(p.outputs)
}

// Close releases every line and group, then the backend.
func (p *Pool) Close() error {
	var errs []error
	for _, l := range p.lines {
		if err := l.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	for _, g := range p.groups {
		if err := g.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	p.lines, p.groups = nil, nil
	if err := p.backend.Close(); err != nil {
		errs = append(errs, err)
	}
	if len(errs) > 0 {
		return fmt.Errorf("close errors: %v", errs)
	}
	return nil
}
