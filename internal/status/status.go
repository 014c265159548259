// Package status provides a thread-safe status tracker for the alarm clock.
// The tick loop writes it; HTTP handlers and MQTT status events read it.
package status

import (
	"sync"
	"time"

	"github.com/rs/xid"
	"github.com/sweeney/alarm-clock/internal/logic"
)

// NetworkInfo contains network state as reported by the pi-helper env file.
type NetworkInfo struct {
	Type       string
	IP         string
	Status     string
	Gateway    string
	WifiStatus string
	SSID       string
}

// Config contains daemon configuration for display.
type Config struct {
	TickUs         int64
	LongPressTicks int
	IdleTicks      int
	SnoozeMinutes  int
	Digits         int
	Backend        string
	Display        string
	HeartbeatMs    int64
	Broker         string
	HTTPPort       string
}

// Snapshot is a point-in-time view of daemon state.
// It is a value type, safe to use after the lock is released.
type Snapshot struct {
	BootID        string
	Clock         logic.Status
	Updated       bool
	StartTime     time.Time
	Now           time.Time
	MQTTConnected bool
	Network       *NetworkInfo
	Config        Config
}

// Uptime returns the duration since the daemon started.
func (s Snapshot) Uptime() time.Duration {
	return s.Now.Sub(s.StartTime)
}

// Tracker holds mutable daemon state behind an RWMutex.
type Tracker struct {
	mu   sync.RWMutex
	snap Snapshot
	now  func() time.Time
}

// NewTracker creates a Tracker with a fresh boot id.
func NewTracker(startTime time.Time, cfg Config) *Tracker {
	return &Tracker{
		snap: Snapshot{
			BootID:    xid.New().String(),
			StartTime: startTime,
			Config:    cfg,
		},
		now: time.Now,
	}
}

// Update records the latest clock status.
func (t *Tracker) Update(s logic.Status) {
	t.mu.Lock()
	t.snap.Clock = s
	t.snap.Updated = true
	t.mu.Unlock()
}

// SetMQTTConnected sets the MQTT connection status.
func (t *Tracker) SetMQTTConnected(connected bool) {
	t.mu.Lock()
	t.snap.MQTTConnected = connected
	t.mu.Unlock()
}

// SetNetwork sets the network info.
func (t *Tracker) SetNetwork(info *NetworkInfo) {
	t.mu.Lock()
	t.snap.Network = info
	t.mu.Unlock()
}

// Snapshot returns a point-in-time copy of the daemon state.
// The Now field is set to the current time at the moment of the call.
func (t *Tracker) Snapshot() Snapshot {
	t.mu.RLock()
	s := t.snap
	t.mu.RUnlock()
	s.Now = t.now()
	return s
}
