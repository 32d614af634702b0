// Package rotation owns the visible screen index and the countdown timer
// that advances it. The scheduler is pure: time is injected per call and
// rendering is left to the caller.
package rotation

import (
	"time"

	"github.com/hindley/argon-addons/internal/gesture"
)

// DefaultInterval is the rotation period used when none is configured.
const DefaultInterval = 30 * time.Second

// Scheduler tracks which screen is visible and when it next rotates.
type Scheduler struct {
	screens   []string
	interval  time.Duration
	index     int
	deadline  time.Time
	suspended bool
}

// NewScheduler creates a scheduler over the given screen list. The list is
// treated as immutable after startup. A non-positive interval falls back to
// DefaultInterval; empty and single-element lists are legal and make
// rotation a no-op.
func NewScheduler(screens []string, interval time.Duration, now time.Time) *Scheduler {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Scheduler{
		screens:  screens,
		interval: interval,
		deadline: now.Add(interval),
	}
}

// Tick advances the rotation countdown. On expiry the index moves forward
// one screen and the countdown restarts. While suspended the countdown is
// frozen and the index never moves. Returns true if the visible screen
// changed.
func (s *Scheduler) Tick(now time.Time) bool {
	if s.suspended {
		return false
	}
	if now.Before(s.deadline) {
		return false
	}
	return s.advance(1, now)
}

// HandleEvent applies manual navigation: Tap moves forward one screen,
// DoubleTap moves back one (wrapping below zero), LongPress jumps to the
// first screen. Each resets the rotation countdown. Navigation is never
// blocked by suspension. Returns true if the visible screen changed.
func (s *Scheduler) HandleEvent(ev gesture.Event) bool {
	switch ev.Kind {
	case gesture.KindTap:
		return s.advance(1, ev.Timestamp)
	case gesture.KindDoubleTap:
		return s.advance(-1, ev.Timestamp)
	case gesture.KindLongPress:
		changed := s.index != 0
		s.index = 0
		s.deadline = ev.Timestamp.Add(s.interval)
		return changed
	default:
		return false
	}
}

// SetSuspended sets the suspension flag. Leaving suspension resets the
// countdown fresh so a stale, almost-elapsed countdown cannot rotate the
// screen immediately after a cancelled power sequence.
func (s *Scheduler) SetSuspended(suspended bool, now time.Time) {
	if s.suspended == suspended {
		return
	}
	s.suspended = suspended
	if !suspended {
		s.deadline = now.Add(s.interval)
	}
}

// Suspended reports whether rotation is currently suspended.
func (s *Scheduler) Suspended() bool {
	return s.suspended
}

// Current returns the visible screen id and index. The id is empty when the
// screen list is empty.
func (s *Scheduler) Current() (string, int) {
	if len(s.screens) == 0 {
		return "", 0
	}
	return s.screens[s.index], s.index
}

// Screens returns the configured screen list.
func (s *Scheduler) Screens() []string {
	return s.screens
}

// Remaining returns the time until the next automatic rotation, or zero
// while suspended or already due.
func (s *Scheduler) Remaining(now time.Time) time.Duration {
	if s.suspended {
		return 0
	}
	if r := s.deadline.Sub(now); r > 0 {
		return r
	}
	return 0
}

func (s *Scheduler) advance(delta int, now time.Time) bool {
	s.deadline = now.Add(s.interval)
	if len(s.screens) == 0 {
		return false
	}
	next := (s.index + delta + len(s.screens)) % len(s.screens)
	changed := next != s.index
	s.index = next
	return changed
}
