package gesture

import "time"

// Classifier turns a sampled button line into discrete gestures.
type Classifier struct {
	cfg Config

	pressed    bool
	hasEdge    bool
	lastEdge   time.Time
	pressStart time.Time

	// A tap's release arms the double-tap window; the next accepted press
	// inside the window classifies immediately as a double tap.
	windowArmed bool
	lastRelease time.Time

	// Set while the current press was the second half of a double tap, so
	// its own release does not also emit a Tap.
	doubleSignalled bool

	counts        Counts
	startTime     time.Time
	lastHeartbeat time.Time
}

// NewClassifier creates a classifier with the given thresholds.
// The startTime is used for calculating uptime in heartbeat events.
func NewClassifier(cfg Config, startTime time.Time) *Classifier {
	return &Classifier{
		cfg:           cfg.withDefaults(),
		startTime:     startTime,
		lastHeartbeat: startTime,
	}
}

// Process takes a new input sample and returns the gestures it produces, in
// emission order. While the button is held, the last returned event of every
// call is a HoldTick carrying the press duration so far.
func (c *Classifier) Process(in Input) []Event {
	var events []Event

	if in.Pressed != c.pressed {
		if c.hasEdge && in.Time.Sub(c.lastEdge) < c.cfg.Debounce {
			// Contact chatter: drop the edge, keep all timers.
		} else if in.Pressed {
			events = append(events, c.risingEdge(in.Time)...)
		} else {
			events = append(events, c.fallingEdge(in.Time)...)
		}
	}

	if c.pressed {
		events = append(events, Event{
			Timestamp: in.Time,
			Kind:      KindHoldTick,
			Duration:  in.Time.Sub(c.pressStart),
		})
	}

	return events
}

func (c *Classifier) risingEdge(now time.Time) []Event {
	c.pressed = true
	c.hasEdge = true
	c.lastEdge = now
	c.pressStart = now
	c.doubleSignalled = false

	if c.windowArmed && now.Sub(c.lastRelease) <= c.cfg.DoubleTapWindow {
		c.windowArmed = false
		c.doubleSignalled = true
		c.counts.DoubleTaps++
		return []Event{{Timestamp: now, Kind: KindDoubleTap}}
	}
	c.windowArmed = false
	return nil
}

func (c *Classifier) fallingEdge(now time.Time) []Event {
	c.pressed = false
	c.hasEdge = true
	c.lastEdge = now
	d := now.Sub(c.pressStart)

	switch {
	case d < c.cfg.TapCeiling:
		if c.doubleSignalled {
			// Second half of a double tap; already reported on the press.
			c.doubleSignalled = false
			return nil
		}
		c.windowArmed = true
		c.lastRelease = now
		c.counts.Taps++
		return []Event{{Timestamp: now, Kind: KindTap, Duration: d}}

	case d < c.cfg.LongPressMin:
		c.doubleSignalled = false
		c.counts.LongPresses++
		return []Event{{Timestamp: now, Kind: KindLongPress, Duration: d}}

	default:
		c.doubleSignalled = false
		c.counts.HoldReleases++
		return []Event{{Timestamp: now, Kind: KindRelease, Duration: d}}
	}
}

// Pressed reports whether the debounced line is currently held down.
func (c *Classifier) Pressed() bool {
	return c.pressed
}

// CountsSnapshot returns a copy of the gesture counters.
func (c *Classifier) CountsSnapshot() Counts {
	return c.counts
}

// CheckHeartbeat returns heartbeat data if the interval has elapsed since
// the last heartbeat (or startup). Returns nil if the interval has not
// elapsed or if interval is <= 0 (disabled).
func (c *Classifier) CheckHeartbeat(now time.Time, interval time.Duration) *HeartbeatData {
	if interval <= 0 {
		return nil
	}

	if now.Sub(c.lastHeartbeat) < interval {
		return nil
	}

	c.lastHeartbeat = now
	return &HeartbeatData{
		Timestamp: now,
		Uptime:    now.Sub(c.startTime),
		Counts:    c.counts,
	}
}
