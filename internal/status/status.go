// Package status provides a thread-safe status tracker for the OLED
// daemon. It is read by the HTTP handlers and feeds heartbeat payloads.
package status

import (
	"sync"
	"time"

	"github.com/hindley/argon-addons/internal/gesture"
	"github.com/hindley/argon-addons/internal/power"
)

// Config contains daemon configuration for display.
type Config struct {
	PollMs        int64
	SwitchSeconds int64
	Screens       string
	TempUnit      string
	Broker        string
	HTTPAddr      string
}

// Snapshot is a point-in-time view of daemon state.
// It is a value type, safe to use after the lock is released.
type Snapshot struct {
	Screen        string
	Suspended     bool
	Phase         power.Phase
	Target        power.Target
	Permitted     bool
	PermissionMsg string
	Counts        gesture.Counts
	StartTime     time.Time
	Now           time.Time
	MQTTConnected bool
	IP            string
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
}

// NewTracker creates a Tracker with the given start time and config.
func NewTracker(startTime time.Time, cfg Config) *Tracker {
	return &Tracker{
		snap: Snapshot{
			StartTime: startTime,
			Config:    cfg,
		},
	}
}

// Update sets the rotating-screen state, power phase and gesture counts.
// Called from runLoop on every tick.
func (t *Tracker) Update(screen string, suspended bool, phase power.Phase, target power.Target, counts gesture.Counts) {
	t.mu.Lock()
	t.snap.Screen = screen
	t.snap.Suspended = suspended
	t.snap.Phase = phase
	t.snap.Target = target
	t.snap.Counts = counts
	t.mu.Unlock()
}

// SetMQTTConnected sets the MQTT connection status.
func (t *Tracker) SetMQTTConnected(connected bool) {
	t.mu.Lock()
	t.snap.MQTTConnected = connected
	t.mu.Unlock()
}

// SetPermission records the host-control permission probe outcome.
func (t *Tracker) SetPermission(allowed bool, reason string) {
	t.mu.Lock()
	t.snap.Permitted = allowed
	t.snap.PermissionMsg = reason
	t.mu.Unlock()
}

// SetIP records the host IP shown on the network screen.
func (t *Tracker) SetIP(ip string) {
	t.mu.Lock()
	t.snap.IP = ip
	t.mu.Unlock()
}

// Snapshot returns a point-in-time copy of the daemon state.
// The Now field is set to the current time at the moment of the call.
func (t *Tracker) Snapshot() Snapshot {
	t.mu.RLock()
	s := t.snap
	t.mu.RUnlock()
	s.Now = time.Now()
	return s
}
