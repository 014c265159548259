// Package board wires the clock's buttons, buzzer and display to GPIO.
package board

import (
	"fmt"
	"io"
	"log"

	"github.com/sweeney/alarm-clock/internal/display"
	"github.com/sweeney/alarm-clock/internal/gpio"
	"github.com/sweeney/alarm-clock/internal/logic"
)

// Pins is the BCM pin map of the board.
type Pins struct {
	Buzzer    int
	SetTime   int
	SetAlarm  int
	Decrement int
	Increment int
	Accept    int
	Cancel    int

	// Segments are the a..g and dp lines, in that order.
	Segments [8]int
	// Digits are the digit enable lines, leftmost first.
	Digits []int
}

// DefaultPins returns the reference wiring. I2C pins 2 and 3 are left free
// for the port expander.
func DefaultPins() Pins {
	return Pins{
		Buzzer:    18,
		SetTime:   5,
		SetAlarm:  6,
		Decrement: 13,
		Increment: 19,
		Accept:    26,
		Cancel:    24,
		Segments:  [8]int{4, 17, 27, 22, 10, 9, 11, 7},
		Digits:    []int{12, 16, 20, 21, 23, 25, 8, 15},
	}
}

// Board holds the clock's peripherals. Buttons are active low with pull-ups.
type Board struct {
	Buzzer    *gpio.DigitalOutput
	SetTime   *gpio.DigitalInput
	SetAlarm  *gpio.DigitalInput
	Decrement *gpio.DigitalInput
	Increment *gpio.DigitalInput
	Accept    *gpio.DigitalInput
	Cancel    *gpio.DigitalInput
	Display   display.Driver

	pool *gpio.Pool
}

// New allocates the buzzer and buttons from pool. The board takes
// ownership of pool and, if it is an io.Closer, of disp; both are released
// when New fails.
func New(pool *gpio.Pool, pins Pins, disp display.Driver) (*Board, error) {
	b := &Board{Display: disp, pool: pool}
	if err := b.allocate(pins); err != nil {
		if c, ok := disp.(io.Closer); ok {
			if cerr := c.Close(); cerr != nil {
				log.Printf("board: close display: %v", cerr)
			}
		}
		if cerr := pool.Close(); cerr != nil {
			log.Printf("board: close pool: %v", cerr)
		}
		return nil, err
	}
	return b, nil
}

func (b *Board) allocate(pins Pins) error {
	var err error
	if b.Buzzer, err = b.pool.Output(pins.Buzzer, false); err != nil {
		return fmt.Errorf("buzzer: %w", err)
	}

	inputs := []struct {
		name string
		pin  int
		dst  **gpio.DigitalInput
	}{
		{"set-time", pins.SetTime, &b.SetTime},
		{"set-alarm", pins.SetAlarm, &b.SetAlarm},
		{"decrement", pins.Decrement, &b.Decrement},
		{"increment", pins.Increment, &b.Increment},
		{"accept", pins.Accept, &b.Accept},
		{"cancel", pins.Cancel, &b.Cancel},
	}
	for _, in := range inputs {
		if *in.dst, err = b.pool.Input(in.pin, true); err != nil {
			return fmt.Errorf("%s button: %w", in.name, err)
		}
	}
	return nil
}

// Sample polls the buttons once. Accept, cancel, increment and decrement
// report rising edges; set-time and set-alarm report the held level.
// Every button is read even when one fails, so edges consumed before the
// failure are still returned alongside the error.
func (b *Board) Sample() (logic.Input, error) {
	var in logic.Input
	var errs []error

	buttons := []struct {
		name string
		read func() (bool, error)
		dst  *bool
	}{
		{"accept", b.Accept.HasActivated, &in.Accept},
		{"cancel", b.Cancel.HasActivated, &in.Cancel},
		{"increment", b.Increment.HasActivated, &in.Increment},
		{"decrement", b.Decrement.HasActivated, &in.Decrement},
		{"set-time", b.SetTime.State, &in.SetTime},
		{"set-alarm", b.SetAlarm.State, &in.SetAlarm},
	}
	for _, btn := range buttons {
		v, err := btn.read()
		if err != nil {
			errs = append(errs, fmt.Errorf("%s button: %w", btn.name, err))
			continue
		}
		*btn.dst = v
	}
	if len(errs) > 0 {
		return in, fmt.Errorf("read errors: %v", errs)
	}
	return in, nil
}

// Sound drives the buzzer. It has the shape of clock.Notifier.
func (b *Board) Sound(on bool) {
	var err error
	if on {
		err = b.Buzzer.Activate()
	} else {
		err = b.Buzzer.Deactivate()
	}
	if err != nil {
		log.Printf("board: buzzer: %v", err)
	}
}

// Close blanks the display, silences the buzzer and releases every line.
func (b *Board) Close() error {
	var errs []error
	if b.Display != nil {
		if err := b.Display.ScreenOff(); err != nil {
			errs = append(errs, fmt.Errorf("screen off: %w", err))
		}
		if c, ok := b.Display.(io.Closer); ok {
			if err := c.Close(); err != nil {
				errs = append(errs, fmt.Errorf("close display: %w", err))
			}
		}
	}
	if b.Buzzer != nil {
		if err := b.Buzzer.Deactivate(); err != nil {
			errs = append(errs, err)
		}
	}
	if err := b.pool.Close(); err != nil {
		errs = append(errs, err)
	}
	if len(errs) > 0 {
		return fmt.Errorf("close errors: %v", errs)
	}
	return nil
}
