// Package clock contains the time-keeping engine and the alarm scheduler.
// This package has NO I/O: time only advances when Update is called, so tests
// drive it tick by tick.
package clock

import (
	"errors"
	"fmt"
	"strings"
)

// Digit positions inside a Digits value.
const (
	HoursTens = iota
	HoursUnits
	MinutesTens
	MinutesUnits
	SecondsTens
	SecondsUnits
)

// ErrInvalidDigits is returned when a time string or digit sequence is out of range.
var ErrInvalidDigits = errors.New("clock: invalid digits")

// Digits is a time of day as six BCD digits: HH MM SS.
type Digits [6]uint8

// Valid reports whether every digit is in range for a 24-hour time.
func (d Digits) Valid() bool {
	for _, v := range d {
		if v > 9 {
			return false
		}
	}
	if d[SecondsTens] > 5 || d[MinutesTens] > 5 {
		return false
	}
	if d[HoursTens] > 2 || (d[HoursTens] == 2 && d[HoursUnits] > 3) {
		return false
	}
	return true
}

// String formats the digits as HH:MM:SS.
func (d Digits) String() string {
	return fmt.Sprintf("%d%d:%d%d:%d%d", d[0], d[1], d[2], d[3], d[4], d[5])
}

// HHMM returns the four leading digits.
func (d Digits) HHMM() [4]uint8 {
	return [4]uint8{d[HoursTens], d[HoursUnits], d[MinutesTens], d[MinutesUnits]}
}

// FromHHMM builds a time from four digits with the seconds set to zero.
func FromHHMM(hhmm [4]uint8) Digits {
	return Digits{hhmm[0], hhmm[1], hhmm[2], hhmm[3], 0, 0}
}

// ParseDigits parses "HH:MM" or "HH:MM:SS".
func ParseDigits(s string) (Digits, error) {
	var d Digits
	parts := strings.Split(s, ":")
	if len(parts) != 2 && len(parts) != 3 {
		return d, fmt.Errorf("%w: %q", ErrInvalidDigits, s)
	}
	for i, p := range parts {
		if len(p) != 2 || p[0] < '0' || p[0] > '9' || p[1] < '0' || p[1] > '9' {
			return d, fmt.Errorf("%w: %q", ErrInvalidDigits, s)
		}
		d[2*i] = p[0] - '0'
		d[2*i+1] = p[1] - '0'
	}
	if !d.Valid() {
		return d, fmt.Errorf("%w: %q", ErrInvalidDigits, s)
	}
	return d, nil
}

// increment advances the time by one second with BCD carry, wrapping
// 23:59:59 to 00:00:00.
func (d *Digits) increment() {
	d[SecondsUnits]++
	if d[SecondsUnits] < 10 {
		return
	}
	d[SecondsUnits] = 0
	d[SecondsTens]++
	if d[SecondsTens] < 6 {
		return
	}
	d[SecondsTens] = 0
	d[MinutesUnits]++
	if d[MinutesUnits] < 10 {
		return
	}
	d[MinutesUnits] = 0
	d[MinutesTens]++
	if d[MinutesTens] < 6 {
		return
	}
	d[MinutesTens] = 0
	d[HoursUnits]++
	if d[HoursTens] == 2 && d[HoursUnits] == 4 {
		d[HoursTens] = 0
		d[HoursUnits] = 0
		return
	}
	if d[HoursUnits] > 9 {
		d[HoursUnits] = 0
		d[HoursTens]++
	}
}
