// Package logic contains the clock's mode state machine.
// This package has NO external dependencies (no GPIO, MQTT, OS, or time.Sleep).
// Time advances only through Tick, which the caller invokes at the tick rate.
package logic

import "github.com/sweeney/alarm-clock/internal/clock"

// Mode is the current user-interface mode.
type Mode int

const (
	ModeUnconfigured Mode = iota
	ModeShowingTime
	ModeSetMinutesCurrent
	ModeSetHoursCurrent
	ModeSetMinutesAlarm
	ModeSetHoursAlarm
)

var modeNames = map[Mode]string{
	ModeUnconfigured:      "UNCONFIGURED",
	ModeShowingTime:       "SHOWING_TIME",
	ModeSetMinutesCurrent: "SET_MINUTES_CURRENT",
	ModeSetHoursCurrent:   "SET_HOURS_CURRENT",
	ModeSetMinutesAlarm:   "SET_MINUTES_ALARM",
	ModeSetHoursAlarm:     "SET_HOURS_ALARM",
}

func (m Mode) String() string {
	if s, ok := modeNames[m]; ok {
		return s
	}
	return "UNKNOWN"
}

// Editing reports whether m is one of the four set modes.
func (m Mode) Editing() bool {
	return m >= ModeSetMinutesCurrent && m <= ModeSetHoursAlarm
}

// Button identifies one of the six front-panel buttons.
type Button int

const (
	ButtonAccept Button = iota
	ButtonCancel
	ButtonIncrement
	ButtonDecrement
	ButtonSetTime
	ButtonSetAlarm
)

var buttonNames = []string{"accept", "cancel", "increment", "decrement", "set-time", "set-alarm"}

func (b Button) String() string {
	if b < 0 || int(b) >= len(buttonNames) {
		return "unknown"
	}
	return buttonNames[b]
}

// ParseButton maps a button name such as "set-time" to a Button.
func ParseButton(s string) (Button, bool) {
	for i, name := range buttonNames {
		if name == s {
			return Button(i), true
		}
	}
	return 0, false
}

// Input is one poll of the buttons. The first four fields are rising edges,
// SetTime and SetAlarm are levels (true while held).
type Input struct {
	Accept    bool
	Cancel    bool
	Increment bool
	Decrement bool
	SetTime   bool
	SetAlarm  bool
}

// Press returns a copy of in with the given button pressed.
func (in Input) Press(b Button) Input {
	switch b {
	case ButtonAccept:
		in.Accept = true
	case ButtonCancel:
		in.Cancel = true
	case ButtonIncrement:
		in.Increment = true
	case ButtonDecrement:
		in.Decrement = true
	case ButtonSetTime:
		in.SetTime = true
	case ButtonSetAlarm:
		in.SetAlarm = true
	}
	return in
}

// EventType names something the controller did.
type EventType string

const (
	EventMode           EventType = "MODE"
	EventTimeSet        EventType = "TIME_SET"
	EventAlarmSet       EventType = "ALARM_SET"
	EventAlarmArmed     EventType = "ALARM_ARMED"
	EventAlarmDisarmed  EventType = "ALARM_DISARMED"
	EventAlarmSnoozed   EventType = "ALARM_SNOOZED"
	EventAlarmDismissed EventType = "ALARM_DISMISSED"
	EventAlarmRinging   EventType = "ALARM_RINGING"
)

// Event is emitted on every mode change and alarm or time mutation.
// Tick is the controller tick count; wall-clock timestamps are added by the caller.
type Event struct {
	Tick      uint64
	Type      EventType
	Mode      Mode
	Time      clock.Digits
	TimeValid bool
	Alarm     clock.Digits
	Armed     bool
	Sounding  bool
}

// EventCounts tracks alarm and configuration activity since startup.
type EventCounts struct {
	Ringing   int
	Snoozed   int
	Dismissed int
	TimeSet   int
	AlarmSet  int
}

// Status is a point-in-time view of the clock.
type Status struct {
	Mode            Mode
	Time            clock.Digits
	TimeValid       bool
	Alarm           clock.Digits
	Armed           bool
	Sounding        bool
	Snoozing        bool
	SnoozeRemaining uint32
	Edit            [4]uint8
	Ticks           uint64
	Counts          EventCounts
}

// Config holds the controller timing constants, all in ticks except SnoozeMinutes.
type Config struct {
	LongPressTicks int    // hold time before a set button enters edit mode
	IdleTicks      int    // inactivity before an edit is abandoned
	SnoozeMinutes  int    // delay applied by accept while the alarm sounds
	FlashFactor    uint16 // blink period in display multiplex cycles
}

// DefaultConfig returns the reference timings for a 1 kHz tick.
func DefaultConfig() Config {
	return Config{
		LongPressTicks: 3000,
		IdleTicks:      30000,
		SnoozeMinutes:  5,
		FlashFactor:    200,
	}
}
