package board

import (
	"fmt"
	"io"

	"github.com/sweeney/alarm-clock/internal/display"
)

// MCP23017 registers with IOCON.BANK = 0.
const (
	regIODIRA = 0x00
	regIODIRB = 0x01
	regGPIOA  = 0x12
	regGPIOB  = 0x13
)

// DefaultExpanderAddr is the MCP23017 address with A0..A2 grounded.
const DefaultExpanderAddr = 0x20

// ExpanderDriver multiplexes the display through an MCP23017 port
// expander: port A carries the segments, port B the digit enables.
type ExpanderDriver struct {
	bus    io.WriteCloser
	digits int
}

// NewExpanderDriver configures both ports as outputs and blanks the display.
func NewExpanderDriver(bus io.WriteCloser, digits int) (*ExpanderDriver, error) {
	if digits < 1 || digits > display.MaxDigits {
		return nil, fmt.Errorf("%d digits: %w", digits, display.ErrDigitCount)
	}
	d := &ExpanderDriver{bus: bus, digits: digits}
	if err := d.write(regIODIRA, 0x00); err != nil {
		return nil, err
	}
	if err := d.write(regIODIRB, 0x00); err != nil {
		return nil, err
	}
	if err := d.write(regGPIOA, 0x00); err != nil {
		return nil, err
	}
	if err := d.ScreenOff(); err != nil {
		return nil, err
	}
	return d, nil
}

// ScreenOff disables every digit.
func (d *ExpanderDriver) ScreenOff() error {
	return d.write(regGPIOB, 0x00)
}

// SegmentsOn writes the segment bitmask to port A.
func (d *ExpanderDriver) SegmentsOn(segments byte) error {
	return d.write(regGPIOA, segments)
}

// DigitOn enables a single digit on port B.
func (d *ExpanderDriver) DigitOn(digit int) error {
	if digit < 0 || digit >= d.digits {
		return fmt.Errorf("digit %d out of range", digit)
	}
	return d.write(regGPIOB, 1<<digit)
}

// Close releases the bus.
func (d *ExpanderDriver) Close() error {
	return d.bus.Close()
}

func (d *ExpanderDriver) write(reg, value byte) error {
	if _, err := d.bus.Write([]byte{reg, value}); err != nil {
		return fmt.Errorf("mcp23017 write %#02x: %w", reg, err)
	}
	return nil
}
