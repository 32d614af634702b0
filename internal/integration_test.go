package internal

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/hindley/argon-addons/internal/button"
	"github.com/hindley/argon-addons/internal/events"
	"github.com/hindley/argon-addons/internal/gesture"
	"github.com/hindley/argon-addons/internal/power"
	"github.com/hindley/argon-addons/internal/rotation"
)

// TestIntegrationFullFlow tests the complete flow from button to MQTT using fakes.
func TestIntegrationFullFlow(t *testing.T) {
	// Simulate: tap forward -> tap forward -> long press home.
	samples := []bool{
		false, // t=0
		true,  // t=100ms - press
		false, // t=200ms - release, TAP (100ms)
		false, // t=300ms
		false, // t=400ms
		false, // t=500ms
		false, // t=600ms (double-tap window from t=200ms expired)
		true,  // t=700ms - press
		false, // t=800ms - release, TAP (100ms)
		false, // t=900ms
		false, // t=1000ms
		false, // t=1100ms
		false, // t=1200ms
		true,  // t=1300ms - press
		true,  // t=1400ms
		true,  // t=1500ms
		true,  // t=1600ms
		true,  // t=1700ms
		true,  // t=1800ms
		true,  // t=1900ms
		false, // t=2000ms - release, LONG_PRESS (700ms)
	}

	reader := button.NewFakeReader(samples)
	publisher := events.NewFakePublisher()
	startTime := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	classifier := gesture.NewClassifier(gesture.Config{}, startTime)
	host := &power.FakeHost{}
	seq := power.NewSequencer(host, true, power.Config{})
	sched := rotation.NewScheduler([]string{"clock", "cpu", "temp"}, 30*time.Second, startTime)

	pollInterval := 100 * time.Millisecond

	// Simulate the main loop
	for i := range samples {
		pressed, err := reader.Read()
		if err != nil {
			t.Fatalf("sample %d: button read error: %v", i, err)
		}

		now := startTime.Add(time.Duration(i) * pollInterval)
		current, _ := sched.Current()

		for _, ev := range classifier.Process(gesture.Input{Pressed: pressed, Time: now}) {
			if !seq.Handle(ev) {
				sched.HandleEvent(ev)
			}
			if ev.Kind == gesture.KindHoldTick {
				continue
			}
			if err := publisher.Publish(events.GestureEvent(ev, current)); err != nil {
				t.Fatalf("sample %d: publish error: %v", i, err)
			}
		}
		seq.Advance(now)
	}

	// Verify published events
	if len(publisher.Events) != 3 {
		t.Fatalf("expected 3 events, got %d", len(publisher.Events))
	}

	// Event 1: TAP from the clock screen
	if publisher.Events[0].Event != string(gesture.KindTap) {
		t.Errorf("event 0: expected TAP, got %s", publisher.Events[0].Event)
	}
	if publisher.Events[0].Screen != "clock" {
		t.Errorf("event 0: expected screen clock, got %s", publisher.Events[0].Screen)
	}

	// Event 2: TAP from the cpu screen
	if publisher.Events[1].Event != string(gesture.KindTap) {
		t.Errorf("event 1: expected TAP, got %s", publisher.Events[1].Event)
	}
	if publisher.Events[1].Screen != "cpu" {
		t.Errorf("event 1: expected screen cpu, got %s", publisher.Events[1].Screen)
	}

	// Event 3: LONG_PRESS from the temp screen, jumping home
	if publisher.Events[2].Event != string(gesture.KindLongPress) {
		t.Errorf("event 2: expected LONG_PRESS, got %s", publisher.Events[2].Event)
	}
	if publisher.Events[2].Screen != "temp" {
		t.Errorf("event 2: expected screen temp, got %s", publisher.Events[2].Screen)
	}

	if current, _ := sched.Current(); current != "clock" {
		t.Errorf("expected final screen clock, got %s", current)
	}
	if host.RebootCalls != 0 || host.ShutdownCalls != 0 {
		t.Errorf("expected no host power calls, got reboot=%d shutdown=%d",
			host.RebootCalls, host.ShutdownCalls)
	}

	// Verify JSON payloads
	for i, payload := range publisher.Payloads {
		var parsed events.Payload
		if err := json.Unmarshal(payload, &parsed); err != nil {
			t.Errorf("payload %d: invalid JSON: %v", i, err)
		}
		if parsed.OLED.Timestamp == "" {
			t.Errorf("payload %d: missing timestamp", i)
		}
		if parsed.OLED.Event == "" {
			t.Errorf("payload %d: missing event", i)
		}
		if parsed.OLED.Screen == "" {
			t.Errorf("payload %d: missing screen", i)
		}
	}
}

// TestIntegrationNoEventsAtIdle verifies a released button publishes nothing.
func TestIntegrationNoEventsAtIdle(t *testing.T) {
	samples := []bool{false, false, false, false}

	reader := button.NewFakeReader(samples)
	publisher := events.NewFakePublisher()
	startTime := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	classifier := gesture.NewClassifier(gesture.Config{}, startTime)

	for i := range samples {
		pressed, _ := reader.Read()
		now := startTime.Add(time.Duration(i) * 100 * time.Millisecond)

		for _, ev := range classifier.Process(gesture.Input{Pressed: pressed, Time: now}) {
			publisher.Publish(events.GestureEvent(ev, "clock"))
		}
	}

	if len(publisher.Events) != 0 {
		t.Errorf("expected no events at idle, got %d", len(publisher.Events))
	}
}

// TestIntegrationChatterWithinHold verifies a contact bounce in the middle of
// a press does not split it into two gestures.
func TestIntegrationChatterWithinHold(t *testing.T) {
	// 10ms poll against the 20ms default debounce: the release at t=20ms
	// is chatter and the press runs t=10ms..40ms as one tap.
	samples := []bool{
		false, // t=0
		true,  // t=10ms - press
		false, // t=20ms - chatter, dropped
		true,  // t=30ms
		false, // t=40ms - release, TAP (30ms)
		false, // t=50ms
		false, // t=60ms
	}

	reader := button.NewFakeReader(samples)
	publisher := events.NewFakePublisher()
	startTime := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	classifier := gesture.NewClassifier(gesture.Config{}, startTime)

	for i := range samples {
		pressed, _ := reader.Read()
		now := startTime.Add(time.Duration(i) * 10 * time.Millisecond)

		for _, ev := range classifier.Process(gesture.Input{Pressed: pressed, Time: now}) {
			if ev.Kind == gesture.KindHoldTick {
				continue
			}
			publisher.Publish(events.GestureEvent(ev, "clock"))
		}
	}

	if len(publisher.Events) != 1 {
		t.Fatalf("expected 1 event for chattered press, got %d", len(publisher.Events))
	}
	if publisher.Events[0].Event != string(gesture.KindTap) {
		t.Errorf("expected TAP, got %s", publisher.Events[0].Event)
	}
	counts := classifier.CountsSnapshot()
	if counts.Taps != 1 || counts.DoubleTaps != 0 || counts.LongPresses != 0 {
		t.Errorf("unexpected counts: %+v", counts)
	}
}

// TestIntegrationRebootFlow verifies a long hold runs the full reboot
// sequence through confirmation to the host call.
func TestIntegrationRebootFlow(t *testing.T) {
	// 1s poll. Press at t=1s, hold crosses the 10s reboot threshold at
	// t=11s, release at t=14s (13s hold), countdown expires at t=19s.
	samples := []bool{false}
	for i := 0; i < 13; i++ {
		samples = append(samples, true)
	}
	for i := 0; i < 7; i++ {
		samples = append(samples, false)
	}

	reader := button.NewFakeReader(samples)
	publisher := events.NewFakePublisher()
	startTime := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	classifier := gesture.NewClassifier(gesture.Config{}, startTime)
	host := &power.FakeHost{}
	seq := power.NewSequencer(host, true, power.Config{})

	prevPhase := power.PhaseIdle

	for i := range samples {
		pressed, _ := reader.Read()
		now := startTime.Add(time.Duration(i) * time.Second)

		for _, ev := range classifier.Process(gesture.Input{Pressed: pressed, Time: now}) {
			seq.Handle(ev)
			if ev.Kind == gesture.KindHoldTick {
				continue
			}
			publisher.Publish(events.GestureEvent(ev, "clock"))
		}
		seq.Advance(now)

		if overlay := seq.Overlay(now); overlay.Phase != prevPhase {
			publisher.Publish(events.PowerEvent(now, overlay.Phase, overlay.Target))
			prevPhase = overlay.Phase
		}
	}

	if host.RebootCalls != 1 {
		t.Errorf("expected 1 reboot call, got %d", host.RebootCalls)
	}
	if host.ShutdownCalls != 0 {
		t.Errorf("expected no shutdown calls, got %d", host.ShutdownCalls)
	}

	// Wire order: holding-reboot, the release itself, confirming, done.
	want := []struct{ event, phase string }{
		{"POWER", "holding-reboot"},
		{string(gesture.KindRelease), ""},
		{"POWER", "confirming"},
		{"POWER", "done"},
	}
	if len(publisher.Events) != len(want) {
		t.Fatalf("expected %d events, got %d", len(want), len(publisher.Events))
	}
	for i, w := range want {
		if publisher.Events[i].Event != w.event {
			t.Errorf("event %d: expected %s, got %s", i, w.event, publisher.Events[i].Event)
		}
		if publisher.Events[i].Phase != w.phase {
			t.Errorf("event %d: expected phase %q, got %q", i, w.phase, publisher.Events[i].Phase)
		}
	}
	for _, ev := range publisher.Events {
		if ev.Event == "POWER" && ev.Target != "reboot" {
			t.Errorf("power event %s: expected target reboot, got %s", ev.Phase, ev.Target)
		}
	}
}

// TestIntegrationNoPermissionNotice verifies a long hold without host power
// permission shows a timed notice and never calls the host.
func TestIntegrationNoPermissionNotice(t *testing.T) {
	// 1s poll. Hold crosses 10s at t=11s, notice expires at t=13s,
	// release at t=14s.
	samples := []bool{false}
	for i := 0; i < 13; i++ {
		samples = append(samples, true)
	}
	samples = append(samples, false, false)

	reader := button.NewFakeReader(samples)
	publisher := events.NewFakePublisher()
	startTime := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	classifier := gesture.NewClassifier(gesture.Config{}, startTime)
	host := &power.FakeHost{}
	seq := power.NewSequencer(host, false, power.Config{})

	prevPhase := power.PhaseIdle

	for i := range samples {
		pressed, _ := reader.Read()
		now := startTime.Add(time.Duration(i) * time.Second)

		for _, ev := range classifier.Process(gesture.Input{Pressed: pressed, Time: now}) {
			seq.Handle(ev)
		}
		seq.Advance(now)

		if overlay := seq.Overlay(now); overlay.Phase != prevPhase {
			publisher.Publish(events.PowerEvent(now, overlay.Phase, overlay.Target))
			prevPhase = overlay.Phase
		}
	}

	if host.RebootCalls != 0 || host.ShutdownCalls != 0 {
		t.Errorf("expected no host calls, got reboot=%d shutdown=%d",
			host.RebootCalls, host.ShutdownCalls)
	}

	if len(publisher.Events) != 2 {
		t.Fatalf("expected 2 power events, got %d", len(publisher.Events))
	}
	if publisher.Events[0].Phase != "notice" {
		t.Errorf("expected notice phase, got %s", publisher.Events[0].Phase)
	}
	if publisher.Events[1].Phase != "idle" {
		t.Errorf("expected idle phase, got %s", publisher.Events[1].Phase)
	}
	for i, ev := range publisher.Events {
		if ev.Target != "none" {
			t.Errorf("event %d: expected target none, got %s", i, ev.Target)
		}
	}
}

// TestIntegrationPublishFailureDoesNotBlockNavigation verifies navigation
// still works when the broker rejects every publish.
func TestIntegrationPublishFailureDoesNotBlockNavigation(t *testing.T) {
	samples := []bool{false, true, false, false}

	reader := button.NewFakeReader(samples)
	publisher := events.NewFakePublisher()
	publisher.PublishError = errors.New("broker disconnected")
	startTime := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	classifier := gesture.NewClassifier(gesture.Config{}, startTime)
	sched := rotation.NewScheduler([]string{"clock", "cpu"}, 30*time.Second, startTime)

	for i := range samples {
		pressed, _ := reader.Read()
		now := startTime.Add(time.Duration(i) * 100 * time.Millisecond)
		current, _ := sched.Current()

		for _, ev := range classifier.Process(gesture.Input{Pressed: pressed, Time: now}) {
			sched.HandleEvent(ev)
			if ev.Kind == gesture.KindHoldTick {
				continue
			}
			err := publisher.Publish(events.GestureEvent(ev, current))
			// Should not panic even if there's an error
			_ = err
		}
	}

	if len(publisher.Events) != 0 {
		t.Errorf("expected no recorded events, got %d", len(publisher.Events))
	}
	if current, _ := sched.Current(); current != "cpu" {
		t.Errorf("expected navigation despite publish failure, got screen %s", current)
	}
}

// TestIntegrationGesturePayloadFormat verifies the exact JSON structure.
func TestIntegrationGesturePayloadFormat(t *testing.T) {
	ev := gesture.Event{
		Timestamp: time.Date(2026, 2, 2, 22, 18, 12, 0, time.UTC),
		Kind:      gesture.KindTap,
		Duration:  100 * time.Millisecond,
	}

	publisher := events.NewFakePublisher()
	publisher.Publish(events.GestureEvent(ev, "clock"))

	expected := `{"oled":{"timestamp":"2026-02-02T22:18:12Z","event":"TAP","screen":"clock"}}`

	if string(publisher.Payloads[0]) != expected {
		t.Errorf("unexpected payload:\ngot:  %s\nwant: %s", string(publisher.Payloads[0]), expected)
	}
}

// TestIntegrationPowerPayloadFormat verifies the exact JSON structure for power events.
func TestIntegrationPowerPayloadFormat(t *testing.T) {
	publisher := events.NewFakePublisher()
	publisher.Publish(events.PowerEvent(
		time.Date(2026, 2, 2, 22, 18, 20, 0, time.UTC),
		power.PhaseConfirming, power.TargetReboot))

	expected := `{"oled":{"timestamp":"2026-02-02T22:18:20Z","event":"POWER","phase":"confirming","target":"reboot"}}`

	if string(publisher.Payloads[0]) != expected {
		t.Errorf("unexpected payload:\ngot:  %s\nwant: %s", string(publisher.Payloads[0]), expected)
	}
}

// TestIntegrationShutdownEventSIGTERM verifies shutdown event on SIGTERM.
func TestIntegrationShutdownEventSIGTERM(t *testing.T) {
	publisher := events.NewFakePublisher()

	shutdownTime := time.Date(2026, 2, 3, 15, 30, 0, 0, time.UTC)
	event := events.SystemEvent{
		Timestamp: shutdownTime,
		Event:     events.SystemShutdown,
		Reason:    "SIGTERM",
		Retained:  true,
	}

	err := publisher.PublishSystem(event)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(publisher.SystemEvents) != 1 {
		t.Fatalf("expected 1 system event, got %d", len(publisher.SystemEvents))
	}

	if publisher.SystemEvents[0].Event != "SHUTDOWN" {
		t.Errorf("expected SHUTDOWN event, got %s", publisher.SystemEvents[0].Event)
	}
	if publisher.SystemEvents[0].Reason != "SIGTERM" {
		t.Errorf("expected SIGTERM reason, got %s", publisher.SystemEvents[0].Reason)
	}
	if !publisher.SystemEvents[0].Retained {
		t.Error("expected shutdown event to be retained")
	}

	// Verify JSON payload structure
	var parsed events.SystemPayload
	if err := json.Unmarshal(publisher.SystemPayloads[0], &parsed); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if parsed.System.Event != "SHUTDOWN" {
		t.Errorf("payload event: expected SHUTDOWN, got %s", parsed.System.Event)
	}
	if parsed.System.Reason != "SIGTERM" {
		t.Errorf("payload reason: expected SIGTERM, got %s", parsed.System.Reason)
	}
	if parsed.System.Timestamp != "2026-02-03T15:30:00Z" {
		t.Errorf("payload timestamp: expected 2026-02-03T15:30:00Z, got %s", parsed.System.Timestamp)
	}
}

// TestIntegrationShutdownPayloadFormat verifies the exact JSON structure for shutdown events.
func TestIntegrationShutdownPayloadFormat(t *testing.T) {
	publisher := events.NewFakePublisher()

	event := events.SystemEvent{
		Timestamp: time.Date(2026, 2, 3, 10, 30, 45, 0, time.UTC),
		Event:     events.SystemShutdown,
		Reason:    "SIGTERM",
	}

	publisher.PublishSystem(event)

	expected := `{"system":{"timestamp":"2026-02-03T10:30:45Z","event":"SHUTDOWN","reason":"SIGTERM"}}`

	if string(publisher.SystemPayloads[0]) != expected {
		t.Errorf("unexpected payload:\ngot:  %s\nwant: %s", string(publisher.SystemPayloads[0]), expected)
	}
}

// TestIntegrationStartupEvent verifies startup event with config.
func TestIntegrationStartupEvent(t *testing.T) {
	publisher := events.NewFakePublisher()

	startupTime := time.Date(2026, 2, 3, 19, 5, 51, 0, time.UTC)
	event := events.SystemEvent{
		Timestamp: startupTime,
		Event:     events.SystemStartup,
		Config: &events.SystemConfig{
			PollMs:        50,
			Screens:       "clock cpu temp",
			SwitchSeconds: 30,
			Broker:        "tcp://core-mosquitto:1883",
		},
		Retained: true,
	}

	err := publisher.PublishSystem(event)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(publisher.SystemEvents) != 1 {
		t.Fatalf("expected 1 system event, got %d", len(publisher.SystemEvents))
	}

	if publisher.SystemEvents[0].Event != "STARTUP" {
		t.Errorf("expected STARTUP event, got %s", publisher.SystemEvents[0].Event)
	}
	if publisher.SystemEvents[0].Config == nil {
		t.Fatal("expected config to be present")
	}
	if publisher.SystemEvents[0].Config.PollMs != 50 {
		t.Errorf("expected PollMs 50, got %d", publisher.SystemEvents[0].Config.PollMs)
	}
	if publisher.SystemEvents[0].Config.Screens != "clock cpu temp" {
		t.Errorf("expected screens clock cpu temp, got %s", publisher.SystemEvents[0].Config.Screens)
	}
	if publisher.SystemEvents[0].Config.SwitchSeconds != 30 {
		t.Errorf("expected SwitchSeconds 30, got %d", publisher.SystemEvents[0].Config.SwitchSeconds)
	}
	if publisher.SystemEvents[0].Config.Broker != "tcp://core-mosquitto:1883" {
		t.Errorf("expected broker tcp://core-mosquitto:1883, got %s", publisher.SystemEvents[0].Config.Broker)
	}

	// Verify JSON payload structure
	var parsed events.SystemPayload
	if err := json.Unmarshal(publisher.SystemPayloads[0], &parsed); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if parsed.System.Event != "STARTUP" {
		t.Errorf("payload event: expected STARTUP, got %s", parsed.System.Event)
	}
	if parsed.System.Config == nil {
		t.Fatal("payload config should be present")
	}
	if parsed.System.Config.PollMs != 50 {
		t.Errorf("payload poll_ms: expected 50, got %d", parsed.System.Config.PollMs)
	}
	if parsed.System.Config.SwitchSeconds != 30 {
		t.Errorf("payload switch_seconds: expected 30, got %d", parsed.System.Config.SwitchSeconds)
	}
}

// TestIntegrationStartupPayloadFormat verifies the exact JSON structure for startup events.
func TestIntegrationStartupPayloadFormat(t *testing.T) {
	publisher := events.NewFakePublisher()

	event := events.SystemEvent{
		Timestamp: time.Date(2026, 2, 3, 19, 5, 51, 0, time.UTC),
		Event:     events.SystemStartup,
		Config: &events.SystemConfig{
			PollMs:        50,
			Screens:       "clock cpu temp",
			SwitchSeconds: 30,
			Broker:        "tcp://core-mosquitto:1883",
		},
	}

	publisher.PublishSystem(event)

	expected := `{"system":{"timestamp":"2026-02-03T19:05:51Z","event":"STARTUP","config":{"poll_ms":50,"screens":"clock cpu temp","switch_seconds":30,"broker":"tcp://core-mosquitto:1883"}}}`

	if string(publisher.SystemPayloads[0]) != expected {
		t.Errorf("unexpected payload:\ngot:  %s\nwant: %s", string(publisher.SystemPayloads[0]), expected)
	}
}

// TestIntegrationStartupThenShutdown verifies full lifecycle with startup and shutdown events.
func TestIntegrationStartupThenShutdown(t *testing.T) {
	publisher := events.NewFakePublisher()

	// Startup
	startupEvent := events.SystemEvent{
		Timestamp: time.Date(2026, 2, 3, 19, 5, 51, 0, time.UTC),
		Event:     events.SystemStartup,
		Config: &events.SystemConfig{
			PollMs:        50,
			Screens:       "clock cpu temp",
			SwitchSeconds: 30,
			Broker:        "tcp://core-mosquitto:1883",
		},
		Retained: true,
	}
	if err := publisher.PublishSystem(startupEvent); err != nil {
		t.Fatalf("startup publish error: %v", err)
	}

	// Simulate a gesture event in between
	gestureEvent := events.GestureEvent(gesture.Event{
		Timestamp: time.Date(2026, 2, 3, 19, 6, 0, 0, time.UTC),
		Kind:      gesture.KindTap,
		Duration:  120 * time.Millisecond,
	}, "clock")
	if err := publisher.Publish(gestureEvent); err != nil {
		t.Fatalf("gesture publish error: %v", err)
	}

	// Shutdown
	shutdownEvent := events.SystemEvent{
		Timestamp: time.Date(2026, 2, 3, 19, 10, 0, 0, time.UTC),
		Event:     events.SystemShutdown,
		Reason:    "SIGTERM",
		Retained:  true,
	}
	if err := publisher.PublishSystem(shutdownEvent); err != nil {
		t.Fatalf("shutdown publish error: %v", err)
	}

	// Verify event counts
	if len(publisher.SystemEvents) != 2 {
		t.Fatalf("expected 2 system events, got %d", len(publisher.SystemEvents))
	}
	if len(publisher.Events) != 1 {
		t.Fatalf("expected 1 gesture event, got %d", len(publisher.Events))
	}

	// Verify order: STARTUP, then SHUTDOWN
	if publisher.SystemEvents[0].Event != "STARTUP" {
		t.Errorf("first system event should be STARTUP, got %s", publisher.SystemEvents[0].Event)
	}
	if publisher.SystemEvents[1].Event != "SHUTDOWN" {
		t.Errorf("second system event should be SHUTDOWN, got %s", publisher.SystemEvents[1].Event)
	}

	// Verify startup has config, shutdown has reason
	if publisher.SystemEvents[0].Config == nil {
		t.Error("startup event should have config")
	}
	if publisher.SystemEvents[1].Reason != "SIGTERM" {
		t.Errorf("shutdown event should have reason SIGTERM, got %s", publisher.SystemEvents[1].Reason)
	}
}

// TestIntegrationShutdownPublishFailureLogsButContinues verifies graceful handling of publish errors.
func TestIntegrationShutdownPublishFailureLogsButContinues(t *testing.T) {
	publisher := events.NewFakePublisher()
	publisher.PublishSystemError = errors.New("broker disconnected")

	event := events.SystemEvent{
		Timestamp: time.Now(),
		Event:     events.SystemShutdown,
		Reason:    "SIGTERM",
	}

	err := publisher.PublishSystem(event)

	// Should return error but not panic
	if err == nil {
		t.Error("expected error from publish")
	}

	// Should not have recorded the event
	if len(publisher.SystemEvents) != 0 {
		t.Errorf("expected no system events on error, got %d", len(publisher.SystemEvents))
	}
}

// TestIntegrationHeartbeatPayloadFormat verifies the exact JSON structure for heartbeat events.
func TestIntegrationHeartbeatPayloadFormat(t *testing.T) {
	publisher := events.NewFakePublisher()

	event := events.SystemEvent{
		Timestamp: time.Date(2026, 2, 4, 12, 15, 0, 0, time.UTC),
		Event:     events.SystemHeartbeat,
		Heartbeat: &events.HeartbeatInfo{
			UptimeSeconds: 900,
			Gestures: events.HeartbeatCounts{
				Taps:         5,
				DoubleTaps:   2,
				LongPresses:  1,
				HoldReleases: 1,
			},
			Screen: "cpu",
		},
	}

	publisher.PublishSystem(event)

	expected := `{"system":{"timestamp":"2026-02-04T12:15:00Z","event":"HEARTBEAT","heartbeat":{"uptime_seconds":900,"gestures":{"taps":5,"double_taps":2,"long_presses":1,"hold_releases":1},"screen":"cpu"}}}`

	if string(publisher.SystemPayloads[0]) != expected {
		t.Errorf("unexpected payload:\ngot:  %s\nwant: %s", string(publisher.SystemPayloads[0]), expected)
	}
}

// TestIntegrationHeartbeatAfterGestures verifies heartbeat contains correct counts after gestures.
func TestIntegrationHeartbeatAfterGestures(t *testing.T) {
	// Tap at t=200ms, double tap on the press at t=300ms.
	samples := []bool{
		false, // t=0
		true,  // t=100ms - press
		false, // t=200ms - release, TAP
		true,  // t=300ms - press inside window, DOUBLE_TAP
		false, // t=400ms - release, silent
	}

	reader := button.NewFakeReader(samples)
	publisher := events.NewFakePublisher()
	startTime := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	classifier := gesture.NewClassifier(gesture.Config{}, startTime)

	for i := range samples {
		pressed, _ := reader.Read()
		now := startTime.Add(time.Duration(i) * 100 * time.Millisecond)

		for _, ev := range classifier.Process(gesture.Input{Pressed: pressed, Time: now}) {
			if ev.Kind == gesture.KindHoldTick {
				continue
			}
			if err := publisher.Publish(events.GestureEvent(ev, "clock")); err != nil {
				t.Fatalf("sample %d: publish error: %v", i, err)
			}
		}
	}

	// One TAP plus one DOUBLE_TAP on the wire
	if len(publisher.Events) != 2 {
		t.Fatalf("expected 2 gesture events, got %d", len(publisher.Events))
	}

	// Check heartbeat after 15 minutes
	heartbeatTime := startTime.Add(15 * time.Minute)
	hbData := classifier.CheckHeartbeat(heartbeatTime, 15*time.Minute)
	if hbData == nil {
		t.Fatal("expected heartbeat data")
	}

	heartbeatEvent := events.HeartbeatEvent(*hbData, "temp")
	if err := publisher.PublishSystem(heartbeatEvent); err != nil {
		t.Fatalf("heartbeat publish error: %v", err)
	}

	// Verify system event
	if len(publisher.SystemEvents) != 1 {
		t.Fatalf("expected 1 system event, got %d", len(publisher.SystemEvents))
	}
	if publisher.SystemEvents[0].Event != "HEARTBEAT" {
		t.Errorf("expected HEARTBEAT, got %s", publisher.SystemEvents[0].Event)
	}
	if !publisher.SystemEvents[0].Retained {
		t.Error("expected heartbeat to be retained")
	}
	if publisher.SystemEvents[0].Heartbeat == nil {
		t.Fatal("expected heartbeat info")
	}
	if publisher.SystemEvents[0].Heartbeat.Gestures.Taps != 1 {
		t.Errorf("expected taps=1, got %d", publisher.SystemEvents[0].Heartbeat.Gestures.Taps)
	}
	if publisher.SystemEvents[0].Heartbeat.Gestures.DoubleTaps != 1 {
		t.Errorf("expected double_taps=1, got %d", publisher.SystemEvents[0].Heartbeat.Gestures.DoubleTaps)
	}
	if publisher.SystemEvents[0].Heartbeat.UptimeSeconds != 900 {
		t.Errorf("expected uptime_seconds=900, got %d", publisher.SystemEvents[0].Heartbeat.UptimeSeconds)
	}

	// Verify JSON payload
	var parsed events.SystemPayload
	if err := json.Unmarshal(publisher.SystemPayloads[0], &parsed); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if parsed.System.Heartbeat == nil {
		t.Fatal("expected heartbeat in payload")
	}
	if parsed.System.Heartbeat.Gestures.Taps != 1 {
		t.Errorf("payload taps: expected 1, got %d", parsed.System.Heartbeat.Gestures.Taps)
	}
	if parsed.System.Heartbeat.Screen != "temp" {
		t.Errorf("payload screen: expected temp, got %s", parsed.System.Heartbeat.Screen)
	}
}
