//go:build linux

package gpio

import (
	"fmt"

	"github.com/stianeikeland/go-rpio/v4"
)

// RpioBackend drives pins through the memory-mapped BCM2835 registers.
// Only one may be open per process.
type RpioBackend struct{}

// OpenRpio maps the GPIO registers.
func OpenRpio() (*RpioBackend, error) {
	if err := rpio.Open(); err != nil {
		return nil, fmt.Errorf("open rpio: %w", err)
	}
	return &RpioBackend{}, nil
}

// Input configures the pin as an input with the pull-up enabled.
func (b *RpioBackend) Input(offset int) (Line, error) {
	pin := rpio.Pin(offset)
	pin.Input()
	pin.PullUp()
	return rpioLine{pin: pin}, nil
}

// Output configures the pin as an output driven to initial.
func (b *RpioBackend) Output(offset int, initial int) (Line, error) {
	pin := rpio.Pin(offset)
	pin.Output()
	l := rpioLine{pin: pin}
	if err := l.SetValue(initial); err != nil {
		return nil, err
	}
	return l, nil
}

// Group configures each pin as a low output. Writes are not atomic.
func (b *RpioBackend) Group(offsets []int) (Group, error) {
	g := make(rpioGroup, len(offsets))
	for i, off := range offsets {
		g[i] = rpio.Pin(off)
		g[i].Output()
		g[i].Low()
	}
	return g, nil
}

// Close unmaps the registers.
func (b *RpioBackend) Close() error {
	if err := rpio.Close(); err != nil {
		return fmt.Errorf("close rpio: %w", err)
	}
	return nil
}

type rpioLine struct {
	pin rpio.Pin
}

func (l rpioLine) Value() (int, error) {
	if l.pin.Read() == rpio.High {
		return 1, nil
	}
	return 0, nil
}

func (l rpioLine) SetValue(v int) error {
	if v != 0 {
		l.pin.High()
	} else {
		l.pin.Low()
	}
	return nil
}

func (l rpioLine) Close() error {
	l.pin.Input()
	l.pin.PullDown()
	return nil
}

type rpioGroup []rpio.Pin

func (g rpioGroup) SetValues(values []int) error {
	if len(values) != len(g) {
		return fmt.Errorf("set values: got %d values for %d pins", len(values), len(g))
	}
	for i, pin := range g {
		if values[i] != 0 {
			pin.High()
		} else {
			pin.Low()
		}
	}
	return nil
}

func (g rpioGroup) Close() error {
	for _, pin := range g {
		pin.Input()
		pin.PullDown()
	}
	return nil
}
