// Package display renders BCD digits onto a multiplexed seven-segment display.
// The hardware is reached only through the three-method Driver interface, so
// the renderer can be tested without a board.
package display

import (
	"errors"
	"fmt"
)

// Segment bits. The top bit is the decimal point.
const (
	SegmentA byte = 1 << iota
	SegmentB
	SegmentC
	SegmentD
	SegmentE
	SegmentF
	SegmentG
	SegmentDP
)

// MaxDigits is the largest display the renderer can drive.
const MaxDigits = 8

// ErrDigitCount is returned by New for a digit count outside 1..MaxDigits.
var ErrDigitCount = errors.New("display: digit count out of range")

// Driver switches segment and digit lines. Refresh is the only caller.
type Driver interface {
	// ScreenOff turns off every segment and digit line.
	ScreenOff() error

	// SegmentsOn lights the given segment bitmask.
	SegmentsOn(segments byte) error

	// DigitOn enables the common line of one digit.
	DigitOn(digit int) error
}

var images = [10]byte{
	SegmentA | SegmentB | SegmentC | SegmentD | SegmentE | SegmentF,            // 0
	SegmentB | SegmentC,                                                        // 1
	SegmentA | SegmentB | SegmentD | SegmentE | SegmentG,                       // 2
	SegmentA | SegmentB | SegmentC | SegmentD | SegmentG,                       // 3
	SegmentB | SegmentC | SegmentF | SegmentG,                                  // 4
	SegmentA | SegmentC | SegmentD | SegmentF | SegmentG,                       // 5
	SegmentA | SegmentC | SegmentD | SegmentE | SegmentF | SegmentG,            // 6
	SegmentA | SegmentB | SegmentC,                                             // 7
	SegmentA | SegmentB | SegmentC | SegmentD | SegmentE | SegmentF | SegmentG, // 8
	SegmentA | SegmentB | SegmentC | SegmentF | SegmentG,                       // 9
}

// Image returns the segment pattern for a BCD digit. Values above 9 are blank.
func Image(digit uint8) byte {
	if int(digit) >= len(images) {
		return 0
	}
	return images[digit]
}

// Renderer keeps one segment byte per digit and lights them one at a time.
type Renderer struct {
	driver Driver
	digits int
	active int
	memory [MaxDigits]byte

	flashFrom   int
	flashTo     int
	flashCount  uint16
	flashFactor uint16
}

// New creates a Renderer for the given number of digits and turns the
// screen off.
func New(digits int, driver Driver) (*Renderer, error) {
	if digits < 1 || digits > MaxDigits {
		return nil, fmt.Errorf("%w: %d", ErrDigitCount, digits)
	}
	r := &Renderer{
		driver: driver,
		digits: digits,
		active: digits - 1,
	}
	if err := driver.ScreenOff(); err != nil {
		return nil, fmt.Errorf("screen off: %w", err)
	}
	return r, nil
}

// WriteBCD replaces the whole buffer. Digits beyond the display width are
// dropped and every decimal point is cleared.
func (r *Renderer) WriteBCD(number []uint8) {
	r.memory = [MaxDigits]byte{}
	for i, v := range number {
		if i >= r.digits {
			break
		}
		r.memory[i] = Image(v)
	}
}

// ToggleDot flips the decimal point of one digit. The dot stays until the
// next WriteBCD or toggle.
func (r *Renderer) ToggleDot(position int) {
	if position < 0 || position >= r.digits {
		return
	}
	r.memory[position] ^= SegmentDP
}

// FlashDigits blinks digits from..to (inclusive) with a period of factor
// full multiplex cycles. A factor of zero disables blinking.
func (r *Renderer) FlashDigits(from, to int, factor uint16) {
	r.flashCount = 0
	r.flashFactor = factor
	r.flashFrom = from
	r.flashTo = to
}

// Refresh lights the next digit. It must be called at a steady rate of at
// least digits x 50 Hz.
func (r *Renderer) Refresh() error {
	err := r.driver.ScreenOff()
	r.active = (r.active + 1) % r.digits

	segments := r.memory[r.active]
	if r.flashFactor > 0 {
		if r.active == 0 {
			r.flashCount = (r.flashCount + 1) % r.flashFactor
		}
		if r.active >= r.flashFrom && r.active <= r.flashTo && r.flashCount > r.flashFactor/2 {
			segments = 0
		}
	}

	if e := r.driver.SegmentsOn(segments); err == nil {
		err = e
	}
	if e := r.driver.DigitOn(r.active); err == nil {
		err = e
	}
	return err
}

// Digits returns the display width.
func (r *Renderer) Digits() int {
	return r.digits
}

// Memory returns a copy of the segment buffer.
func (r *Renderer) Memory() []byte {
	out := make([]byte, r.digits)
	copy(out, r.memory[:r.digits])
	return out
}

// Flashing returns the blink window and period.
func (r *Renderer) Flashing() (from, to int, factor uint16) {
	return r.flashFrom, r.flashTo, r.flashFactor
}
