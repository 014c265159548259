package clock

// Keeper owns the current time of day and advances it once every
// ticksPerSecond calls to Update.
type Keeper struct {
	ticksPerSecond int
	tics           int
	now            Digits
	valid          bool
	elapsed        uint64
}

// NewKeeper creates a Keeper at 00:00:00 that reports an invalid time until
// SetTime is called. ticksPerSecond below 1 is treated as 1.
func NewKeeper(ticksPerSecond int) *Keeper {
	if ticksPerSecond < 1 {
		ticksPerSecond = 1
	}
	return &Keeper{
		ticksPerSecond: ticksPerSecond,
		tics:           ticksPerSecond,
	}
}

// Time returns the current time and whether it has ever been set.
func (k *Keeper) Time() (Digits, bool) {
	return k.now, k.valid
}

// SetTime overwrites the current time and marks it valid.
// The caller guarantees the digit ranges.
func (k *Keeper) SetTime(d Digits) {
	k.now = d
	k.valid = true
}

// Update consumes one tick. When the tick counter runs out the time advances
// by one second. The return value is true during the second half of each
// second and is used to flash the colon.
func (k *Keeper) Update() bool {
	k.tics--
	if k.tics <= 0 {
		k.now.increment()
		k.elapsed++
		k.tics = k.ticksPerSecond
	}
	return k.tics < k.ticksPerSecond/2
}

// Elapsed returns the number of seconds advanced since creation.
func (k *Keeper) Elapsed() uint64 {
	return k.elapsed
}

// TicksPerSecond returns the configured tick rate.
func (k *Keeper) TicksPerSecond() int {
	return k.ticksPerSecond
}
