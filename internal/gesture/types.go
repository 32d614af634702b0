// Package gesture contains pure classification logic for the panel button.
// This package has NO external dependencies (no GPIO, display, OS, or time.Sleep).
// Time is always injectable via time.Time parameters.
package gesture

import "time"

// Kind identifies a classified button gesture.
type Kind string

const (
	// KindTap is a single short press, emitted on release.
	KindTap Kind = "TAP"
	// KindDoubleTap is a second press arriving inside the double-tap
	// window, emitted immediately on the second rising edge.
	KindDoubleTap Kind = "DOUBLE_TAP"
	// KindLongPress is a press longer than the tap ceiling but shorter
	// than the long-press threshold, emitted on release.
	KindLongPress Kind = "LONG_PRESS"
	// KindHoldTick is emitted on every poll tick while the button is held,
	// carrying the cumulative press duration.
	KindHoldTick Kind = "HOLD_TICK"
	// KindRelease is the release of a press that crossed the long-press
	// threshold, carrying the final press duration.
	KindRelease Kind = "HOLD_RELEASE"
)

// Event is a classified gesture to be consumed by the power sequencer and
// the rotation scheduler.
type Event struct {
	Timestamp time.Time
	Kind      Kind
	// Duration is the press duration so far (HoldTick) or the final press
	// duration (Tap, LongPress, Release). Zero for DoubleTap.
	Duration time.Duration
}

// Input is a single debounce-raw sample of the button line.
type Input struct {
	Pressed bool // true = line active (button held down)
	Time    time.Time
}

// Config holds the classification thresholds.
type Config struct {
	// Debounce is the minimum spacing between accepted edges. Edges closer
	// to the previous accepted edge than this are contact chatter and are
	// ignored without resetting any timer.
	Debounce time.Duration
	// DoubleTapWindow is the maximum gap between a tap's release and the
	// next press for the pair to classify as a double tap.
	DoubleTapWindow time.Duration
	// TapCeiling is the exclusive upper bound on a tap's press duration.
	TapCeiling time.Duration
	// LongPressMin is the press duration at which a release stops being a
	// long press and becomes a plain Release carrying its duration.
	LongPressMin time.Duration
}

// Default thresholds, applied by withDefaults for unset or nonsense values.
const (
	DefaultDebounce        = 20 * time.Millisecond
	DefaultDoubleTapWindow = 400 * time.Millisecond
	DefaultTapCeiling      = 600 * time.Millisecond
	DefaultLongPressMin    = 6 * time.Second
)

// withDefaults returns the config with non-positive fields replaced by the
// defaults. An inverted ordering (tap ceiling at or above the long-press
// threshold) resets both, since no classification would be reachable.
func (c Config) withDefaults() Config {
	if c.Debounce <= 0 {
		c.Debounce = DefaultDebounce
	}
	if c.DoubleTapWindow <= 0 {
		c.DoubleTapWindow = DefaultDoubleTapWindow
	}
	if c.TapCeiling <= 0 {
		c.TapCeiling = DefaultTapCeiling
	}
	if c.LongPressMin <= 0 {
		c.LongPressMin = DefaultLongPressMin
	}
	if c.TapCeiling >= c.LongPressMin {
		c.TapCeiling = DefaultTapCeiling
		c.LongPressMin = DefaultLongPressMin
	}
	return c
}

// Counts tracks the number of each discrete gesture since startup.
// HoldTicks are deliberately not counted.
type Counts struct {
	Taps         int
	DoubleTaps   int
	LongPresses  int
	HoldReleases int
}

// HeartbeatData contains information for a heartbeat event.
type HeartbeatData struct {
	Timestamp time.Time
	Uptime    time.Duration
	Counts    Counts
}
