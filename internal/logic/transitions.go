package logic

// Trigger is an input that can move the state machine.
type Trigger int

const (
	TriggerAccept Trigger = iota
	TriggerCancel
	TriggerSetTimeHeld
	TriggerSetAlarmHeld
	TriggerIdle
)

var triggerNames = []string{"accept", "cancel", "set-time-held", "set-alarm-held", "idle"}

func (t Trigger) String() string {
	if t < 0 || int(t) >= len(triggerNames) {
		return "unknown"
	}
	return triggerNames[t]
}

// Pseudo targets resolved when a transition fires.
const (
	// modeStay runs the action without re-entering any mode.
	modeStay Mode = -1
	// modeRestore goes to ShowingTime if the time is valid, else Unconfigured.
	modeRestore Mode = -2
)

type transitionKey struct {
	from    Mode
	trigger Trigger
}

type transition struct {
	to     Mode
	action func(c *Controller)
}

// transitions is the whole state machine. Missing keys are no-ops.
var transitions = map[transitionKey]transition{
	{ModeShowingTime, TriggerAccept}:       {to: modeStay, action: (*Controller).acceptAlarm},
	{ModeSetMinutesCurrent, TriggerAccept}: {to: ModeSetHoursCurrent},
	{ModeSetHoursCurrent, TriggerAccept}:   {to: ModeShowingTime, action: (*Controller).commitTime},
	{ModeSetMinutesAlarm, TriggerAccept}:   {to: ModeSetHoursAlarm},
	{ModeSetHoursAlarm, TriggerAccept}:     {to: ModeShowingTime, action: (*Controller).commitAlarm},

	{ModeUnconfigured, TriggerCancel}:      {to: modeRestore},
	{ModeShowingTime, TriggerCancel}:       {to: modeRestore, action: (*Controller).cancelAlarm},
	{ModeSetMinutesCurrent, TriggerCancel}: {to: modeRestore},
	{ModeSetHoursCurrent, TriggerCancel}:   {to: modeRestore},
	{ModeSetMinutesAlarm, TriggerCancel}:   {to: modeRestore},
	{ModeSetHoursAlarm, TriggerCancel}:     {to: modeRestore},

	{ModeUnconfigured, TriggerSetTimeHeld}:  {to: ModeSetMinutesCurrent, action: (*Controller).seedTime},
	{ModeShowingTime, TriggerSetTimeHeld}:   {to: ModeSetMinutesCurrent, action: (*Controller).seedTime},
	{ModeUnconfigured, TriggerSetAlarmHeld}: {to: ModeSetMinutesAlarm, action: (*Controller).seedAlarm},
	{ModeShowingTime, TriggerSetAlarmHeld}:  {to: ModeSetMinutesAlarm, action: (*Controller).seedAlarm},

	{ModeSetMinutesCurrent, TriggerIdle}: {to: modeRestore},
	{ModeSetHoursCurrent, TriggerIdle}:   {to: modeRestore},
	{ModeSetMinutesAlarm, TriggerIdle}:   {to: modeRestore},
	{ModeSetHoursAlarm, TriggerIdle}:     {to: modeRestore},
}

// entryActions configure the display every time a mode is entered.
var entryActions = map[Mode]func(c *Controller){
	ModeUnconfigured: func(c *Controller) {
		c.display.FlashDigits(0, 3, c.cfg.FlashFactor)
	},
	ModeShowingTime: func(c *Controller) {
		c.display.FlashDigits(0, 0, 0)
	},
	ModeSetMinutesCurrent: func(c *Controller) {
		c.display.FlashDigits(2, 3, c.cfg.FlashFactor)
		c.renderEdit()
	},
	ModeSetHoursCurrent: func(c *Controller) {
		c.display.FlashDigits(0, 1, c.cfg.FlashFactor)
		c.renderEdit()
	},
	ModeSetMinutesAlarm: func(c *Controller) {
		c.display.FlashDigits(2, 3, c.cfg.FlashFactor)
		c.renderEdit()
	},
	ModeSetHoursAlarm: func(c *Controller) {
		c.display.FlashDigits(0, 1, c.cfg.FlashFactor)
		c.renderEdit()
	},
}
