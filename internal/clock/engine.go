package clock

// Engine advances the Keeper and checks the Alarm once per elapsed second,
// always after the carry has completed.
type Engine struct {
	Keeper *Keeper
	Alarm  *Alarm
}

// NewEngine creates a Keeper and an Alarm sharing one tick rate.
func NewEngine(ticksPerSecond int, notify Notifier) *Engine {
	return &Engine{
		Keeper: NewKeeper(ticksPerSecond),
		Alarm:  NewAlarm(notify),
	}
}

// Update consumes one tick and returns the Keeper's blink phase.
// The alarm is not checked while the time has never been set.
func (e *Engine) Update() bool {
	before := e.Keeper.Elapsed()
	blink := e.Keeper.Update()
	if e.Keeper.Elapsed() == before {
		return blink
	}
	if now, valid := e.Keeper.Time(); valid {
		e.Alarm.Check(now)
	}
	return blink
}
