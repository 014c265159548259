package status

import (
	"encoding/json"
	"time"
)

// StatusJSON is the top-level JSON envelope for status output.
type StatusJSON struct {
	Status StatusInner `json:"status"`
}

// StatusInner contains the status details. Time is omitted until the clock
// has been set.
type StatusInner struct {
	Event           string       `json:"event,omitempty"`
	Reason          string       `json:"reason,omitempty"`
	BootID          string       `json:"boot_id"`
	Mode            string       `json:"mode"`
	Time            string       `json:"time,omitempty"`
	Alarm           string       `json:"alarm"`
	Armed           bool         `json:"armed"`
	Sounding        bool         `json:"sounding"`
	Snoozing        bool         `json:"snoozing"`
	SnoozeRemaining uint32       `json:"snooze_remaining_seconds"`
	UptimeSeconds   int64        `json:"uptime_seconds"`
	StartTime       string       `json:"start_time"`
	Timestamp       string       `json:"timestamp"`
	MQTT            MQTTStatus   `json:"mqtt"`
	Counts          CountsJSON   `json:"event_counts"`
	Network         *NetworkJSON `json:"network,omitempty"`
	Config          ConfigJSON   `json:"config"`
}

// MQTTStatus reports MQTT connection state.
type MQTTStatus struct {
	Connected bool   `json:"connected"`
	Broker    string `json:"broker"`
}

// CountsJSON is the JSON representation of event counts.
type CountsJSON struct {
	Ringing   int `json:"ringing"`
	Snoozed   int `json:"snoozed"`
	Dismissed int `json:"dismissed"`
	TimeSet   int `json:"time_set"`
	AlarmSet  int `json:"alarm_set"`
}

// NetworkJSON is the JSON representation of network info.
type NetworkJSON struct {
	Type       string `json:"type"`
	IP         string `json:"ip"`
	Status     string `json:"status"`
	Gateway    string `json:"gateway"`
	WifiStatus string `json:"wifi_status"`
	SSID       string `json:"ssid"`
}

// ConfigJSON is the JSON representation of daemon config.
type ConfigJSON struct {
	TickUs         int64  `json:"tick_us"`
	LongPressTicks int    `json:"long_press_ticks"`
	IdleTicks      int    `json:"idle_ticks"`
	SnoozeMinutes  int    `json:"snooze_minutes"`
	Digits         int    `json:"digits"`
	Backend        string `json:"backend"`
	Display        string `json:"display"`
	HeartbeatMs    int64  `json:"heartbeat_ms"`
	Broker         string `json:"broker"`
	HTTPPort       string `json:"http_port"`
}

func buildInner(snap Snapshot) StatusInner {
	c := snap.Clock
	mode := "UNKNOWN"
	if snap.Updated {
		mode = c.Mode.String()
	}
	inner := StatusInner{
		BootID:          snap.BootID,
		Mode:            mode,
		Alarm:           c.Alarm.String(),
		Armed:           c.Armed,
		Sounding:        c.Sounding,
		Snoozing:        c.Snoozing,
		SnoozeRemaining: c.SnoozeRemaining,
		UptimeSeconds:   int64(snap.Uptime().Truncate(time.Second).Seconds()),
		StartTime:       snap.StartTime.UTC().Format(time.RFC3339),
		Timestamp:       snap.Now.UTC().Format(time.RFC3339),
		MQTT:            MQTTStatus{Connected: snap.MQTTConnected, Broker: snap.Config.Broker},
		Counts: CountsJSON{
			Ringing:   c.Counts.Ringing,
			Snoozed:   c.Counts.Snoozed,
			Dismissed: c.Counts.Dismissed,
			TimeSet:   c.Counts.TimeSet,
			AlarmSet:  c.Counts.AlarmSet,
		},
		Config: ConfigJSON(snap.Config),
	}
	if c.TimeValid {
		inner.Time = c.Time.String()
	}
	if n := snap.Network; n != nil {
		inner.Network = &NetworkJSON{
			Type:       n.Type,
			IP:         n.IP,
			Status:     n.Status,
			Gateway:    n.Gateway,
			WifiStatus: n.WifiStatus,
			SSID:       n.SSID,
		}
	}
	return inner
}

// FormatJSON returns the JSON status for the web endpoint (no event/reason).
func FormatJSON(snap Snapshot) []byte {
	data, _ := json.MarshalIndent(StatusJSON{Status: buildInner(snap)}, "", "  ")
	return data
}

// FormatStatusEvent returns the JSON status for an MQTT system event.
func FormatStatusEvent(snap Snapshot, event, reason string) []byte {
	inner := buildInner(snap)
	inner.Event = event
	inner.Reason = reason

	data, _ := json.Marshal(StatusJSON{Status: inner})
	return data
}
