package board

import (
	"fmt"

	"github.com/sweeney/alarm-clock/internal/display"
	"github.com/sweeney/alarm-clock/internal/gpio"
)

// LineDriver multiplexes the display straight from GPIO lines: one group
// for the eight segments, one for the digit enables. Both are active high.
type LineDriver struct {
	segments gpio.Group
	digits   gpio.Group
	segBuf   []int
	digitBuf []int
}

// NewLineDriver requests the segment and digit lines from pool.
func NewLineDriver(pool *gpio.Pool, segments [8]int, digits []int) (*LineDriver, error) {
	if len(digits) < 1 || len(digits) > display.MaxDigits {
		return nil, fmt.Errorf("%d digit lines: %w", len(digits), display.ErrDigitCount)
	}
	seg, err := pool.Group(segments[:])
	if err != nil {
		return nil, fmt.Errorf("segment lines: %w", err)
	}
	dig, err := pool.Group(digits)
	if err != nil {
		return nil, fmt.Errorf("digit lines: %w", err)
	}
	return &LineDriver{
		segments: seg,
		digits:   dig,
		segBuf:   make([]int, 8),
		digitBuf: make([]int, len(digits)),
	}, nil
}

// ScreenOff disables every digit.
func (d *LineDriver) ScreenOff() error {
	for i := range d.digitBuf {
		d.digitBuf[i] = 0
	}
	return d.digits.SetValues(d.digitBuf)
}

// SegmentsOn drives the segment lines from a bitmask, bit 0 being segment a.
func (d *LineDriver) SegmentsOn(segments byte) error {
	for i := range d.segBuf {
		d.segBuf[i] = int(segments>>i) & 1
	}
	return d.segments.SetValues(d.segBuf)
}

// DigitOn enables a single digit.
func (d *LineDriver) DigitOn(digit int) error {
	if digit < 0 || digit >= len(d.digitBuf) {
		return fmt.Errorf("digit %d out of range", digit)
	}
	for i := range d.digitBuf {
		d.digitBuf[i] = 0
	}
	d.digitBuf[digit] = 1
	return d.digits.SetValues(d.digitBuf)
}
