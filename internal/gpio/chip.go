//go:build linux

package gpio

import (
	"fmt"

	"github.com/warthog618/go-gpiocdev"
)

// ChipBackend opens lines on a Linux GPIO character device.
type ChipBackend struct {
	chip *gpiocdev.Chip
}

// OpenChip opens a GPIO chip such as "gpiochip0".
func OpenChip(name string) (*ChipBackend, error) {
	chip, err := gpiocdev.NewChip(name)
	if err != nil {
		return nil, fmt.Errorf("open gpio chip %s: %w", name, err)
	}
	return &ChipBackend{chip: chip}, nil
}

// Input requests an input line with the pull-up enabled.
func (b *ChipBackend) Input(offset int) (Line, error) {
	l, err := b.chip.RequestLine(offset, gpiocdev.AsInput, gpiocdev.WithPullUp)
	if err != nil {
		return nil, err
	}
	return &chipLine{line: l}, nil
}

// Output requests an output line driven to initial.
func (b *ChipBackend) Output(offset int, initial int) (Line, error) {
	l, err := b.chip.RequestLine(offset, gpiocdev.AsOutput(initial))
	if err != nil {
		return nil, err
	}
	return &chipLine{line: l}, nil
}

// Group requests the lines as one request so they switch together.
func (b *ChipBackend) Group(offsets []int) (Group, error) {
	ls, err := b.chip.RequestLines(offsets, gpiocdev.AsOutput(make([]int, len(offsets))...))
	if err != nil {
		return nil, err
	}
	return &chipGroup{lines: ls, size: len(offsets)}, nil
}

// Close releases the chip.
func (b *ChipBackend) Close() error {
	if err := b.chip.Close(); err != nil {
		return fmt.Errorf("close chip: %w", err)
	}
	return nil
}

type chipLine struct {
	line *gpiocdev.Line
}

func (l *chipLine) Value() (int, error) {
	return l.line.Value()
}

func (l *chipLine) SetValue(v int) error {
	return l.line.SetValue(v)
}

// Close leaves the pin as an input with pull-down, matching the Pi boot
// defaults, before releasing it.
func (l *chipLine) Close() error {
	var errs []error
	if err := l.line.Reconfigure(gpiocdev.AsInput, gpiocdev.WithPullDown); err != nil {
		errs = append(errs, fmt.Errorf("reconfigure pin %d: %w", l.line.Offset(), err))
	}
	if err := l.line.Close(); err != nil {
		errs = append(errs, fmt.Errorf("close pin %d: %w", l.line.Offset(), err))
	}
	if len(errs) > 0 {
		return fmt.Errorf("close errors: %v", errs)
	}
	return nil
}

type chipGroup struct {
	lines *gpiocdev.Lines
	size  int
}

func (g *chipGroup) SetValues(values []int) error {
	if len(values) != g.size {
		return fmt.Errorf("set values: got %d values for %d lines", len(values), g.size)
	}
	return g.lines.SetValues(values)
}

func (g *chipGroup) Close() error {
	var errs []error
	if err := g.lines.Reconfigure(gpiocdev.AsInput, gpiocdev.WithPullDown); err != nil {
		errs = append(errs, fmt.Errorf("reconfigure pins: %w", err))
	}
	if err := g.lines.Close(); err != nil {
		errs = append(errs, fmt.Errorf("close pins: %w", err))
	}
	if len(errs) > 0 {
		return fmt.Errorf("close errors: %v", errs)
	}
	return nil
}
