// Package mqtt publishes clock events and lifecycle events to a broker.
package mqtt

import (
	"encoding/json"
	"time"

	"github.com/sweeney/alarm-clock/internal/logic"
)

// Topic is the MQTT topic for clock events.
const Topic = "home/clock/events"

// TopicSystem is the MQTT topic for system lifecycle events.
const TopicSystem = "home/clock/system"

// Publisher publishes events to MQTT.
type Publisher interface {
	// Publish sends a clock event observed at the given wall time.
	// Errors are reported but must not stop the clock.
	Publish(event logic.Event, at time.Time) error

	// PublishSystem sends a system lifecycle event to the broker.
	PublishSystem(event SystemEvent) error

	// Close disconnects from the broker.
	Close() error
}

// ConnectionStatus reports whether the MQTT connection is active.
type ConnectionStatus interface {
	IsConnected() bool
}

// SystemEvent represents a system lifecycle event (e.g., startup, shutdown, heartbeat).
type SystemEvent struct {
	Timestamp  time.Time
	Event      string // e.g., "STARTUP", "SHUTDOWN", "HEARTBEAT"
	Reason     string // e.g., "SIGTERM", "SIGINT" (shutdown only)
	RawPayload []byte // Pre-formatted JSON payload; if set, FormatSystemPayload returns it directly
	Retained   bool
}

// Payload represents the MQTT message payload structure.
type Payload struct {
	Clock ClockPayload `json:"clock"`
}

// ClockPayload contains the clock event details. Time is omitted while the
// clock has never been set.
type ClockPayload struct {
	Timestamp string `json:"timestamp"`
	Event     string `json:"event"`
	Mode      string `json:"mode"`
	Time      string `json:"time,omitempty"`
	Alarm     string `json:"alarm"`
	Armed     bool   `json:"armed"`
	Sounding  bool   `json:"sounding"`
}

// FormatPayload creates the JSON payload for a clock event.
func FormatPayload(event logic.Event, at time.Time) ([]byte, error) {
	p := ClockPayload{
		Timestamp: at.UTC().Format(time.RFC3339),
		Event:     string(event.Type),
		Mode:      event.Mode.String(),
		Alarm:     event.Alarm.String(),
		Armed:     event.Armed,
		Sounding:  event.Sounding,
	}
	if event.TimeValid {
		p.Time = event.Time.String()
	}
	return json.Marshal(Payload{Clock: p})
}

// SystemPayload is the payload for events that carry no status snapshot
// (LWT, RECONNECTED).
type SystemPayload struct {
	System SystemPayloadInner `json:"system"`
}

// SystemPayloadInner contains the system event details.
type SystemPayloadInner struct {
	Timestamp string `json:"timestamp"`
	Event     string `json:"event"`
	Reason    string `json:"reason,omitempty"`
}

// FormatSystemPayload creates the JSON payload for a system event.
// If event.RawPayload is set, it is returned directly.
func FormatSystemPayload(event SystemEvent) ([]byte, error) {
	if event.RawPayload != nil {
		return event.RawPayload, nil
	}
	return json.Marshal(SystemPayload{
		System: SystemPayloadInner{
			Timestamp: event.Timestamp.UTC().Format(time.RFC3339),
			Event:     event.Event,
			Reason:    event.Reason,
		},
	})
}
