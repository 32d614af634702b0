package gesture

import (
	"testing"
	"time"
)

var base = time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

// at returns base + ms milliseconds.
func at(ms int) time.Time {
	return base.Add(time.Duration(ms) * time.Millisecond)
}

// feed processes one sample and returns only the discrete gestures,
// dropping HoldTicks.
func feed(t *testing.T, c *Classifier, pressed bool, ms int) []Event {
	t.Helper()
	var out []Event
	for _, e := range c.Process(Input{Pressed: pressed, Time: at(ms)}) {
		if e.Kind != KindHoldTick {
			out = append(out, e)
		}
	}
	return out
}

// expectOne asserts exactly one discrete event of the given kind.
func expectOne(t *testing.T, events []Event, kind Kind) Event {
	t.Helper()
	if len(events) != 1 {
		t.Fatalf("expected 1 event, got %d: %v", len(events), events)
	}
	if events[0].Kind != kind {
		t.Fatalf("expected %s, got %s", kind, events[0].Kind)
	}
	return events[0]
}

func TestTapOnShortPress(t *testing.T) {
	c := NewClassifier(Config{}, base)

	if ev := feed(t, c, true, 0); len(ev) != 0 {
		t.Fatalf("unexpected events on press: %v", ev)
	}
	feed(t, c, true, 50)
	feed(t, c, true, 100)

	ev := expectOne(t, feed(t, c, false, 150), KindTap)
	if ev.Duration != 150*time.Millisecond {
		t.Errorf("tap duration: got %v, want 150ms", ev.Duration)
	}
	if !ev.Timestamp.Equal(at(150)) {
		t.Errorf("tap timestamp: got %v, want %v", ev.Timestamp, at(150))
	}
}

func TestTapCeilingBoundary(t *testing.T) {
	// 599ms is still a tap; exactly 600ms is a long press.
	c := NewClassifier(Config{}, base)
	feed(t, c, true, 0)
	expectOne(t, feed(t, c, false, 599), KindTap)

	c = NewClassifier(Config{}, base)
	feed(t, c, true, 0)
	ev := expectOne(t, feed(t, c, false, 600), KindLongPress)
	if ev.Duration != 600*time.Millisecond {
		t.Errorf("long press duration: got %v, want 600ms", ev.Duration)
	}
}

func TestLongPressUpperBoundary(t *testing.T) {
	// 5999ms release is a long press; exactly 6s is a hold release.
	c := NewClassifier(Config{}, base)
	feed(t, c, true, 0)
	expectOne(t, feed(t, c, false, 5999), KindLongPress)

	c = NewClassifier(Config{}, base)
	feed(t, c, true, 0)
	ev := expectOne(t, feed(t, c, false, 6000), KindRelease)
	if ev.Duration != 6*time.Second {
		t.Errorf("release duration: got %v, want 6s", ev.Duration)
	}
}

func TestHoldTickEveryTickWhileHeld(t *testing.T) {
	c := NewClassifier(Config{}, base)

	want := []time.Duration{0, 50 * time.Millisecond, 100 * time.Millisecond, 150 * time.Millisecond}
	for i, ms := range []int{0, 50, 100, 150} {
		events := c.Process(Input{Pressed: true, Time: at(ms)})
		if len(events) != 1 {
			t.Fatalf("tick %d: expected 1 event, got %d", i, len(events))
		}
		if events[0].Kind != KindHoldTick {
			t.Fatalf("tick %d: expected HOLD_TICK, got %s", i, events[0].Kind)
		}
		if events[0].Duration != want[i] {
			t.Errorf("tick %d: duration got %v, want %v", i, events[0].Duration, want[i])
		}
	}
}

func TestDoubleTapImmediateOnSecondPress(t *testing.T) {
	c := NewClassifier(Config{}, base)

	feed(t, c, true, 0)
	expectOne(t, feed(t, c, false, 150), KindTap)

	// 200ms after the release, well inside the 400ms window.
	ev := expectOne(t, feed(t, c, true, 350), KindDoubleTap)
	if !ev.Timestamp.Equal(at(350)) {
		t.Errorf("double tap should fire on the rising edge, got %v", ev.Timestamp)
	}

	// The second press's own release must stay silent.
	if ev := feed(t, c, false, 500); len(ev) != 0 {
		t.Errorf("release after double tap emitted %v, want nothing", ev)
	}
}

func TestDoubleTapWindowBoundary(t *testing.T) {
	// Gap of exactly 400ms still counts.
	c := NewClassifier(Config{}, base)
	feed(t, c, true, 0)
	feed(t, c, false, 150)
	expectOne(t, feed(t, c, true, 550), KindDoubleTap)

	// Gap of 401ms does not; the second press becomes a plain tap.
	c = NewClassifier(Config{}, base)
	feed(t, c, true, 0)
	feed(t, c, false, 150)
	if ev := feed(t, c, true, 551); len(ev) != 0 {
		t.Fatalf("expected no event outside the window, got %v", ev)
	}
	expectOne(t, feed(t, c, false, 700), KindTap)
}

func TestNoDoubleTapAfterLongPress(t *testing.T) {
	c := NewClassifier(Config{}, base)
	feed(t, c, true, 0)
	expectOne(t, feed(t, c, false, 1000), KindLongPress)

	// A quick press after a long press must not classify as a double tap.
	if ev := feed(t, c, true, 1200); len(ev) != 0 {
		t.Errorf("expected no event, got %v", ev)
	}
	expectOne(t, feed(t, c, false, 1300), KindTap)
}

func TestNoTripleTapChain(t *testing.T) {
	c := NewClassifier(Config{}, base)

	feed(t, c, true, 0)
	expectOne(t, feed(t, c, false, 100), KindTap)
	expectOne(t, feed(t, c, true, 250), KindDoubleTap)
	feed(t, c, false, 350)

	// A third quick press starts a fresh pair instead of chaining.
	if ev := feed(t, c, true, 450); len(ev) != 0 {
		t.Errorf("expected no event for third press, got %v", ev)
	}
	expectOne(t, feed(t, c, false, 550), KindTap)
}

func TestDebounceIgnoresContactChatter(t *testing.T) {
	c := NewClassifier(Config{Debounce: 20 * time.Millisecond}, base)

	feed(t, c, true, 0)  // accepted rising edge
	feed(t, c, false, 5) // chatter, within 20ms of the edge
	feed(t, c, true, 10) // matches internal state again, no edge

	ev := expectOne(t, feed(t, c, false, 30), KindTap)
	if ev.Duration != 30*time.Millisecond {
		t.Errorf("duration: got %v, want 30ms", ev.Duration)
	}

	counts := c.CountsSnapshot()
	if counts.Taps != 1 || counts.DoubleTaps != 0 {
		t.Errorf("counts: got %+v, want exactly one tap", counts)
	}
}

func TestChatterDoesNotResetHoldTimer(t *testing.T) {
	c := NewClassifier(Config{Debounce: 20 * time.Millisecond}, base)

	c.Process(Input{Pressed: true, Time: at(0)})
	c.Process(Input{Pressed: false, Time: at(10)}) // chatter, ignored

	events := c.Process(Input{Pressed: true, Time: at(50)})
	if len(events) != 1 || events[0].Kind != KindHoldTick {
		t.Fatalf("expected a single HoldTick, got %v", events)
	}
	if events[0].Duration != 50*time.Millisecond {
		t.Errorf("hold duration measured from the original press: got %v, want 50ms", events[0].Duration)
	}
}

func TestFirstSampleAlreadyPressed(t *testing.T) {
	// Daemon starting mid-press: the first pressed sample opens a press.
	c := NewClassifier(Config{}, base)

	events := c.Process(Input{Pressed: true, Time: at(0)})
	if len(events) != 1 || events[0].Kind != KindHoldTick {
		t.Fatalf("expected HoldTick for initial pressed sample, got %v", events)
	}
	expectOne(t, feed(t, c, false, 100), KindTap)
}

func TestCountsSnapshot(t *testing.T) {
	c := NewClassifier(Config{}, base)

	// One tap.
	feed(t, c, true, 0)
	feed(t, c, false, 100)
	// One double tap (press 300, silent release 400).
	feed(t, c, true, 300)
	feed(t, c, false, 400)
	// One long press.
	feed(t, c, true, 1000)
	feed(t, c, false, 2500)
	// One hold release.
	feed(t, c, true, 5000)
	feed(t, c, false, 12000)

	got := c.CountsSnapshot()
	want := Counts{Taps: 1, DoubleTaps: 1, LongPresses: 1, HoldReleases: 1}
	if got != want {
		t.Errorf("counts: got %+v, want %+v", got, want)
	}
}

func TestPressed(t *testing.T) {
	c := NewClassifier(Config{}, base)

	if c.Pressed() {
		t.Error("should start released")
	}
	c.Process(Input{Pressed: true, Time: at(0)})
	if !c.Pressed() {
		t.Error("should report pressed while held")
	}
	c.Process(Input{Pressed: false, Time: at(100)})
	if c.Pressed() {
		t.Error("should report released after the falling edge")
	}
}

func TestCheckHeartbeatDisabled(t *testing.T) {
	c := NewClassifier(Config{}, base)
	if hb := c.CheckHeartbeat(at(60_000), 0); hb != nil {
		t.Errorf("expected nil with interval 0, got %+v", hb)
	}
}

func TestCheckHeartbeatInterval(t *testing.T) {
	c := NewClassifier(Config{}, base)

	if hb := c.CheckHeartbeat(at(14*60*1000), 15*time.Minute); hb != nil {
		t.Errorf("heartbeat fired early: %+v", hb)
	}

	hb := c.CheckHeartbeat(at(15*60*1000), 15*time.Minute)
	if hb == nil {
		t.Fatal("expected heartbeat at the interval")
	}
	if hb.Uptime != 15*time.Minute {
		t.Errorf("uptime: got %v, want 15m", hb.Uptime)
	}

	// The interval restarts from the heartbeat just fired.
	if hb := c.CheckHeartbeat(at(16*60*1000), 15*time.Minute); hb != nil {
		t.Errorf("heartbeat fired again too soon: %+v", hb)
	}
}

func TestZeroConfigGetsDefaults(t *testing.T) {
	// A zero Config must behave like the documented defaults rather than
	// classifying everything as a hold release.
	c := NewClassifier(Config{}, base)
	feed(t, c, true, 0)
	expectOne(t, feed(t, c, false, 500), KindTap)

	c = NewClassifier(Config{TapCeiling: 10 * time.Second, LongPressMin: time.Second}, base)
	feed(t, c, true, 0)
	// Inverted thresholds reset to defaults: 500ms is a tap again.
	expectOne(t, feed(t, c, false, 500), KindTap)
}
