package logic

import "github.com/sweeney/alarm-clock/internal/clock"

// TimeKeeper is the part of clock.Keeper the controller uses.
type TimeKeeper interface {
	Time() (clock.Digits, bool)
	SetTime(d clock.Digits)
}

// AlarmScheduler is the part of clock.Alarm the controller uses.
type AlarmScheduler interface {
	Arm(on bool)
	IsArmed() bool
	SetTarget(d clock.Digits)
	Target() clock.Digits
	Extend(minutes int)
	Disable()
	Sounding() bool
	Snoozing() bool
	SnoozeRemaining() uint32
}

// Display is the part of display.Renderer the controller uses.
type Display interface {
	WriteBCD(number []uint8)
	ToggleDot(position int)
	FlashDigits(from, to int, factor uint16)
}

// Controller turns button polls and ticks into mode transitions. It holds
// references to the keeper, alarm and display but does not own them.
// Not safe for concurrent use: Step and Tick must run on one goroutine.
type Controller struct {
	cfg     Config
	keeper  TimeKeeper
	alarm   AlarmScheduler
	display Display

	mode       Mode
	edit       [4]uint8
	pressTicks int
	idleTicks  int

	setTimeDown  bool
	setAlarmDown bool
	sounding     bool

	ticks  uint64
	counts EventCounts
	events []Event
}

// NewController creates a controller in Unconfigured, or in ShowingTime when
// the keeper already holds a valid time.
func NewController(cfg Config, keeper TimeKeeper, alarm AlarmScheduler, display Display) *Controller {
	c := &Controller{
		cfg:     cfg,
		keeper:  keeper,
		alarm:   alarm,
		display: display,
		mode:    ModeUnconfigured,
	}
	c.enter(c.restoreMode())
	c.events = nil
	return c
}

// Step processes one poll of the buttons and returns the resulting events.
func (c *Controller) Step(in Input) []Event {
	c.events = nil
	c.setTimeDown = in.SetTime
	c.setAlarmDown = in.SetAlarm

	if in.Accept {
		c.fire(TriggerAccept)
		c.idleTicks = 0
	}
	if in.Cancel {
		c.fire(TriggerCancel)
		c.idleTicks = 0
	}
	if in.SetTime {
		if c.pressTicks > c.cfg.LongPressTicks {
			c.fire(TriggerSetTimeHeld)
			c.pressTicks = 0
		}
		c.idleTicks = 0
	}
	if in.SetAlarm {
		if c.pressTicks > c.cfg.LongPressTicks {
			c.fire(TriggerSetAlarmHeld)
			c.pressTicks = 0
		}
		c.idleTicks = 0
	}
	if in.Decrement {
		c.adjust(decrementPair)
		c.idleTicks = 0
	}
	if in.Increment {
		c.adjust(incrementPair)
		c.idleTicks = 0
	}
	return c.events
}

// Tick runs once per clock tick, after the keeper has been updated. blink is
// the keeper's half-second phase and drives the flashing colon dot.
func (c *Controller) Tick(blink bool) []Event {
	c.events = nil
	c.ticks++

	if s := c.alarm.Sounding(); s != c.sounding {
		c.sounding = s
		if s {
			c.counts.Ringing++
			c.emit(EventAlarmRinging)
		}
	}

	if c.mode.Editing() {
		c.pressTicks = 0
		c.idleTicks++
		if c.idleTicks > c.cfg.IdleTicks {
			c.fire(TriggerIdle)
			c.idleTicks = 0
		}
		return c.events
	}

	now, _ := c.keeper.Time()
	c.display.WriteBCD(now[:])
	if blink {
		c.display.ToggleDot(1)
	}
	if c.alarm.IsArmed() {
		c.display.ToggleDot(3)
	}
	if c.setTimeDown || c.setAlarmDown {
		c.pressTicks++
	} else {
		c.pressTicks = 0
	}
	c.idleTicks = 0
	return c.events
}

// Mode returns the current mode.
func (c *Controller) Mode() Mode {
	return c.mode
}

// Edit returns the HHMM edit buffer.
func (c *Controller) Edit() [4]uint8 {
	return c.edit
}

// Counts returns a copy of the event counters.
func (c *Controller) Counts() EventCounts {
	return c.counts
}

// Status returns a snapshot of the controller and the engines it drives.
func (c *Controller) Status() Status {
	now, valid := c.keeper.Time()
	return Status{
		Mode:            c.mode,
		Time:            now,
		TimeValid:       valid,
		Alarm:           c.alarm.Target(),
		Armed:           c.alarm.IsArmed(),
		Sounding:        c.alarm.Sounding(),
		Snoozing:        c.alarm.Snoozing(),
		SnoozeRemaining: c.alarm.SnoozeRemaining(),
		Edit:            c.edit,
		Ticks:           c.ticks,
		Counts:          c.counts,
	}
}

func (c *Controller) fire(trig Trigger) {
	tr, ok := transitions[transitionKey{from: c.mode, trigger: trig}]
	if !ok {
		return
	}
	if tr.action != nil {
		tr.action(c)
	}
	switch tr.to {
	case modeStay:
	case modeRestore:
		c.enter(c.restoreMode())
	default:
		c.enter(tr.to)
	}
}

func (c *Controller) enter(m Mode) {
	prev := c.mode
	c.mode = m
	if entry, ok := entryActions[m]; ok {
		entry(c)
	}
	if prev != m {
		c.emit(EventMode)
	}
}

func (c *Controller) restoreMode() Mode {
	if _, valid := c.keeper.Time(); valid {
		return ModeShowingTime
	}
	return ModeUnconfigured
}

func (c *Controller) adjust(step func(n []uint8, limit [2]uint8)) {
	switch c.mode {
	case ModeSetMinutesCurrent, ModeSetMinutesAlarm:
		step(c.edit[2:4], minutesLimit)
	case ModeSetHoursCurrent, ModeSetHoursAlarm:
		step(c.edit[0:2], hoursLimit)
	default:
		return
	}
	c.renderEdit()
}

// renderEdit shows the edit buffer. WriteBCD clears the dots, so the
// alarm-edit cue is applied again afterwards.
func (c *Controller) renderEdit() {
	c.display.WriteBCD(c.edit[:])
	if c.mode == ModeSetMinutesAlarm || c.mode == ModeSetHoursAlarm {
		for i := 0; i < len(c.edit); i++ {
			c.display.ToggleDot(i)
		}
	}
}

func (c *Controller) acceptAlarm() {
	if !c.alarm.IsArmed() {
		c.alarm.Arm(true)
		c.emit(EventAlarmArmed)
	}
	if c.alarm.Sounding() {
		c.alarm.Extend(c.cfg.SnoozeMinutes)
		c.sounding = c.alarm.Sounding()
		c.counts.Snoozed++
		c.emit(EventAlarmSnoozed)
	}
}

func (c *Controller) cancelAlarm() {
	if c.alarm.Sounding() {
		c.alarm.Disable()
		c.sounding = c.alarm.Sounding()
		c.counts.Dismissed++
		c.emit(EventAlarmDismissed)
		return
	}
	if c.alarm.IsArmed() {
		c.alarm.Arm(false)
		c.emit(EventAlarmDisarmed)
	}
}

func (c *Controller) seedTime() {
	now, _ := c.keeper.Time()
	c.edit = now.HHMM()
	c.display.WriteBCD(c.edit[:])
}

func (c *Controller) seedAlarm() {
	c.edit = c.alarm.Target().HHMM()
	c.display.WriteBCD(c.edit[:])
}

func (c *Controller) commitTime() {
	c.keeper.SetTime(clock.FromHHMM(c.edit))
	c.counts.TimeSet++
	c.emit(EventTimeSet)
}

func (c *Controller) commitAlarm() {
	c.alarm.SetTarget(clock.FromHHMM(c.edit))
	c.counts.AlarmSet++
	c.emit(EventAlarmSet)
}

func (c *Controller) emit(t EventType) {
	now, valid := c.keeper.Time()
	c.events = append(c.events, Event{
		Tick:      c.ticks,
		Type:      t,
		Mode:      c.mode,
		Time:      now,
		TimeValid: valid,
		Alarm:     c.alarm.Target(),
		Armed:     c.alarm.IsArmed(),
		Sounding:  c.alarm.Sounding(),
	})
}
