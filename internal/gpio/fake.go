package gpio

import "errors"

// FakeLine is a test double for a single line.
type FakeLine struct {
	// Level is the raw value returned by Value and updated by SetValue.
	Level int

	// Writes records every value passed to SetValue.
	Writes []int

	// Closed tracks if Close was called
	Closed bool

	// ReadError and WriteError, if set, are returned by Value and SetValue.
	ReadError  error
	WriteError error
}

// Value returns the scripted level.
func (f *FakeLine) Value() (int, error) {
	if f.ReadError != nil {
		return 0, f.ReadError
	}
	return f.Level, nil
}

// SetValue records the write and updates Level.
func (f *FakeLine) SetValue(v int) error {
	if f.WriteError != nil {
		return f.WriteError
	}
	f.Level = v
	f.Writes = append(f.Writes, v)
	return nil
}

// Close marks the line as closed.
func (f *FakeLine) Close() error {
	f.Closed = true
	return nil
}

// FakeGroup is a test double for a group of output lines.
type FakeGroup struct {
	Offsets []int
	// Values holds the most recent values written.
	Values []int
	// Writes counts SetValues calls.
	Writes int
	Closed bool
	Err    error
}

// SetValues records the values.
func (g *FakeGroup) SetValues(values []int) error {
	if g.Err != nil {
		return g.Err
	}
	if len(values) != len(g.Offsets) {
		return errors.New("fake group: value count mismatch")
	}
	g.Values = append(g.Values[:0], values...)
	g.Writes++
	return nil
}

// Close marks the group as closed.
func (g *FakeGroup) Close() error {
	g.Closed = true
	return nil
}

// FakeBackend hands out FakeLines keyed by offset.
type FakeBackend struct {
	Lines  map[int]*FakeLine
	Groups []*FakeGroup
	Closed bool

	// OpenError, if set, is returned by Input, Output and Group.
	OpenError error
}

// NewFakeBackend creates an empty fake backend.
func NewFakeBackend() *FakeBackend {
	return &FakeBackend{Lines: make(map[int]*FakeLine)}
}

// Line returns the fake for an offset, creating it if needed.
func (b *FakeBackend) Line(offset int) *FakeLine {
	l, ok := b.Lines[offset]
	if !ok {
		l = &FakeLine{}
		b.Lines[offset] = l
	}
	return l
}

// Input returns the fake line for offset. Inputs idle high, as with a pull-up.
func (b *FakeBackend) Input(offset int) (Line, error) {
	if b.OpenError != nil {
		return nil, b.OpenError
	}
	_, existed := b.Lines[offset]
	l := b.Line(offset)
	if !existed {
		l.Level = 1
	}
	return l, nil
}

// Output returns the fake line for offset driven to initial.
func (b *FakeBackend) Output(offset int, initial int) (Line, error) {
	if b.OpenError != nil {
		return nil, b.OpenError
	}
	l := b.Line(offset)
	l.Level = initial
	return l, nil
}

// Group returns a new FakeGroup, driven low.
func (b *FakeBackend) Group(offsets []int) (Group, error) {
	if b.OpenError != nil {
		return nil, b.OpenError
	}
	g := &FakeGroup{
		Offsets: append([]int(nil), offsets...),
		Values:  make([]int, len(offsets)),
	}
	b.Groups = append(b.Groups, g)
	return g, nil
}

// Close marks the backend as closed.
func (b *FakeBackend) Close() error {
	b.Closed = true
	return nil
}
