// Package events publishes gesture, power and lifecycle events over MQTT,
// with an abstraction for testing and a disabled mode for installs without
// a broker.
package events

import (
	"encoding/json"
	"time"

	"github.com/hindley/argon-addons/internal/gesture"
	"github.com/hindley/argon-addons/internal/power"
)

// Topic is the MQTT topic for gesture and power events.
const Topic = "argon/oled/events"

// TopicSystem is the MQTT topic for system lifecycle events.
const TopicSystem = "argon/oled/system"

// System lifecycle event names.
const (
	SystemStartup   = "STARTUP"
	SystemShutdown  = "SHUTDOWN"
	SystemHeartbeat = "HEARTBEAT"
)

// EventPower marks a power-sequencer phase change on the events topic.
const EventPower = "POWER"

// Publisher publishes events to MQTT.
type Publisher interface {
	// Publish sends a gesture or power event to the broker.
	// Returns error if publishing fails (should not crash the process).
	Publish(event Event) error

	// PublishSystem sends a system lifecycle event to the broker.
	PublishSystem(event SystemEvent) error

	// Close disconnects from the broker.
	Close() error
}

// ConnectionStatus reports whether the MQTT connection is active.
type ConnectionStatus interface {
	IsConnected() bool
}

// Event is one occurrence on the events topic: a classified gesture or a
// power-sequencer phase change. Hold ticks are never published.
type Event struct {
	Timestamp time.Time
	Event     string // gesture kind, or EventPower
	Phase     string // sequencer phase, power events only
	Target    string // power target, power events only
	Screen    string // active screen id when the event fired
}

// GestureEvent builds the wire event for a classified gesture.
func GestureEvent(ev gesture.Event, screen string) Event {
	return Event{
		Timestamp: ev.Timestamp,
		Event:     string(ev.Kind),
		Screen:    screen,
	}
}

// PowerEvent builds the wire event for a sequencer phase change.
func PowerEvent(ts time.Time, phase power.Phase, target power.Target) Event {
	return Event{
		Timestamp: ts,
		Event:     EventPower,
		Phase:     phase.String(),
		Target:    target.String(),
	}
}

// SystemEvent represents a system lifecycle event.
type SystemEvent struct {
	Timestamp time.Time
	Event     string         // SystemStartup, SystemShutdown or SystemHeartbeat
	Reason    string         // e.g. "SIGTERM", "SIGINT" (shutdown only)
	Config    *SystemConfig  // startup only
	Heartbeat *HeartbeatInfo // heartbeat only
	Retained  bool           // whether the broker should retain the message
}

// SystemConfig is the effective configuration announced at startup.
type SystemConfig struct {
	PollMs        int    `json:"poll_ms"`
	Screens       string `json:"screens"`
	SwitchSeconds int    `json:"switch_seconds"`
	Broker        string `json:"broker"`
}

// HeartbeatInfo carries the periodic liveness snapshot.
type HeartbeatInfo struct {
	UptimeSeconds int64           `json:"uptime_seconds"`
	Gestures      HeartbeatCounts `json:"gestures"`
	Screen        string          `json:"screen,omitempty"`
}

// HeartbeatCounts is the per-kind gesture tally since startup.
type HeartbeatCounts struct {
	Taps         int `json:"taps"`
	DoubleTaps   int `json:"double_taps"`
	LongPresses  int `json:"long_presses"`
	HoldReleases int `json:"hold_releases"`
}

// HeartbeatEvent builds the heartbeat system event from classifier data.
func HeartbeatEvent(data gesture.HeartbeatData, screen string) SystemEvent {
	return SystemEvent{
		Timestamp: data.Timestamp,
		Event:     SystemHeartbeat,
		Heartbeat: &HeartbeatInfo{
			UptimeSeconds: int64(data.Uptime.Seconds()),
			Gestures: HeartbeatCounts{
				Taps:         data.Counts.Taps,
				DoubleTaps:   data.Counts.DoubleTaps,
				LongPresses:  data.Counts.LongPresses,
				HoldReleases: data.Counts.HoldReleases,
			},
			Screen: screen,
		},
		Retained: true,
	}
}

// Payload represents the MQTT message payload structure.
type Payload struct {
	OLED EventPayload `json:"oled"`
}

// EventPayload contains the event details.
type EventPayload struct {
	Timestamp string `json:"timestamp"`
	Event     string `json:"event"`
	Phase     string `json:"phase,omitempty"`
	Target    string `json:"target,omitempty"`
	Screen    string `json:"screen,omitempty"`
}

// FormatPayload creates the JSON payload for an event.
func FormatPayload(event Event) ([]byte, error) {
	payload := Payload{
		OLED: EventPayload{
			Timestamp: event.Timestamp.UTC().Format(time.RFC3339),
			Event:     event.Event,
			Phase:     event.Phase,
			Target:    event.Target,
			Screen:    event.Screen,
		},
	}
	return json.Marshal(payload)
}

// SystemPayload represents the MQTT message payload for system events.
type SystemPayload struct {
	System SystemPayloadInner `json:"system"`
}

// SystemPayloadInner contains the system event details.
type SystemPayloadInner struct {
	Timestamp string         `json:"timestamp"`
	Event     string         `json:"event"`
	Reason    string         `json:"reason,omitempty"`
	Config    *SystemConfig  `json:"config,omitempty"`
	Heartbeat *HeartbeatInfo `json:"heartbeat,omitempty"`
}

// FormatSystemPayload creates the JSON payload for a system event.
func FormatSystemPayload(event SystemEvent) ([]byte, error) {
	payload := SystemPayload{
		System: SystemPayloadInner{
			Timestamp: event.Timestamp.UTC().Format(time.RFC3339),
			Event:     event.Event,
			Reason:    event.Reason,
			Config:    event.Config,
			Heartbeat: event.Heartbeat,
		},
	}
	return json.Marshal(payload)
}
