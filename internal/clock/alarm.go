package clock

// Notifier is called whenever the alarm starts (true) or stops (false) sounding.
type Notifier func(on bool)

// Alarm holds a single daily alarm with snooze.
//
// The target is compared against the full six-digit time, so an alarm set
// through the menu (seconds = 00) fires at the top of its minute.
type Alarm struct {
	target          Digits
	notify          Notifier
	armed           bool
	sounding        bool
	snoozing        bool
	snoozeRemaining uint32
}

// NewAlarm creates a disarmed alarm targeting 00:00:00.
// notify may be nil.
func NewAlarm(notify Notifier) *Alarm {
	return &Alarm{notify: notify}
}

// Arm sets the armed flag. It does not touch a pending snooze.
func (a *Alarm) Arm(on bool) {
	a.armed = on
}

// IsArmed reports whether the alarm is armed.
func (a *Alarm) IsArmed() bool {
	return a.armed
}

// SetTarget stores the alarm time.
func (a *Alarm) SetTarget(d Digits) {
	a.target = d
}

// Target returns the alarm time.
func (a *Alarm) Target() Digits {
	return a.target
}

// Check must be called exactly once per elapsed second, after the Keeper has
// advanced. A running snooze counts down and fires when it reaches zero;
// otherwise an armed alarm fires when now equals the target. A snooze that
// runs out while disarmed is dropped without sounding.
func (a *Alarm) Check(now Digits) {
	if a.snoozing {
		if a.snoozeRemaining > 0 {
			a.snoozeRemaining--
		}
		if a.snoozeRemaining > 0 {
			return
		}
		a.snoozing = false
		if a.armed {
			a.sound(true)
		}
		return
	}
	if a.armed && now == a.target {
		a.sound(true)
	}
}

// Extend silences the alarm and schedules it to sound again after the given
// number of minutes.
func (a *Alarm) Extend(minutes int) {
	if minutes < 0 {
		minutes = 0
	}
	a.snoozeRemaining = uint32(minutes) * 60
	a.snoozing = true
	a.sound(false)
}

// Disable silences the alarm. The alarm stays armed and fires again at the
// next match of its target.
func (a *Alarm) Disable() {
	a.sound(false)
}

// Sounding reports whether the alarm is currently sounding.
func (a *Alarm) Sounding() bool {
	return a.sounding
}

// Snoozing reports whether a snooze countdown is running.
func (a *Alarm) Snoozing() bool {
	return a.snoozing
}

// SnoozeRemaining returns the seconds left on the snooze countdown.
// Only meaningful while Snoozing is true.
func (a *Alarm) SnoozeRemaining() uint32 {
	return a.snoozeRemaining
}

func (a *Alarm) sound(on bool) {
	a.sounding = on
	if a.notify != nil {
		a.notify(on)
	}
}
