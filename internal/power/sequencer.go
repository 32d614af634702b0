package power

import (
	"context"
	"fmt"
	"log"
	"reflect"
	"time"

	"github.com/VictoriaMetrics/metrics"
	"github.com/qmuntal/stateless"

	"github.com/hindley/argon-addons/internal/gesture"
)

const (
	triggerGesture  = "gesture"
	triggerDeadline = "deadline"
	triggerExecuted = "executed"
)

// Sequencer drives the hold, confirm and execute flow for host power
// actions. It consumes classified gestures and deadline ticks from a
// single poll loop and is not safe for concurrent use.
type Sequencer struct {
	cfg       Config
	host      HostAPI
	permitted bool

	sm       *stateless.StateMachine
	target   Target
	deadline time.Time
	noticed  bool
	execErr  error
}

// NewSequencer returns a sequencer gating host power actions behind cfg's
// thresholds. permitted is the startup capability check from the
// supervisor; when false, long holds render a timed notice instead of
// arming anything.
func NewSequencer(host HostAPI, permitted bool, cfg Config) *Sequencer {
	s := &Sequencer{cfg: cfg.withDefaults(), host: host, permitted: permitted}

	sm := stateless.NewStateMachine(PhaseIdle)
	sm.SetTriggerParameters(triggerGesture, reflect.TypeOf(gesture.Event{}))

	sm.Configure(PhaseIdle).
		Permit(triggerGesture, PhaseHoldingReboot, s.guardHoldReboot).
		Permit(triggerGesture, PhaseHoldingShutdown, s.guardHoldShutdown).
		Permit(triggerGesture, PhaseNotice, s.guardNoPermission)

	sm.Configure(PhaseHoldingReboot).
		OnEntry(s.enterHoldingReboot).
		Permit(triggerGesture, PhaseHoldingShutdown, s.guardHoldShutdown).
		Permit(triggerGesture, PhaseConfirming, s.guardRelease)

	sm.Configure(PhaseHoldingShutdown).
		OnEntry(s.enterHoldingShutdown).
		Permit(triggerGesture, PhaseConfirming, s.guardRelease)

	sm.Configure(PhaseNotice).
		OnEntry(s.enterNotice).
		Permit(triggerDeadline, PhaseIdle)

	sm.Configure(PhaseConfirming).
		OnEntry(s.enterConfirming).
		Permit(triggerGesture, PhaseIdle, s.guardAny).
		Permit(triggerDeadline, PhaseExecuting)

	sm.Configure(PhaseExecuting).
		OnEntry(s.enterExecuting).
		Permit(triggerExecuted, PhaseDone, s.guardExecSucceeded).
		Permit(triggerExecuted, PhaseFailed, s.guardExecFailed)

	s.sm = sm
	return s
}

// Handle feeds one classified gesture to the state machine and reports
// whether the sequencer consumed it. Consumed events must not also drive
// screen navigation.
func (s *Sequencer) Handle(ev gesture.Event) bool {
	if ev.Kind != gesture.KindHoldTick {
		// Anything but a hold tick means the press that may have shown
		// the permission notice has ended.
		s.noticed = false
	}
	before := s.Phase()
	// Triggers with no transition in the current phase are expected, not
	// errors: taps while idle, hold ticks below the reboot threshold.
	_ = s.sm.Fire(triggerGesture, ev)
	after := s.Phase()
	if before == PhaseConfirming && after == PhaseIdle {
		log.Printf("power: %s cancelled by button activity", s.target)
		metrics.GetOrCreateCounter(fmt.Sprintf(`argon_oled_power_events_total{event="cancelled",target=%q}`, s.target)).Inc()
		s.target = TargetNone
	}
	return before != PhaseIdle || after != PhaseIdle
}

// Advance applies deadline expiries. Call once per poll tick, after the
// tick's gestures have been handled.
func (s *Sequencer) Advance(now time.Time) {
	switch s.Phase() {
	case PhaseNotice:
		if !now.Before(s.deadline) {
			_ = s.sm.Fire(triggerDeadline)
		}
	case PhaseConfirming:
		if !now.Before(s.deadline) {
			// Entering Executing performs the supervisor call; the second
			// trigger settles the terminal phase from its result.
			_ = s.sm.Fire(triggerDeadline)
			_ = s.sm.Fire(triggerExecuted)
		}
	}
}

// Phase returns the current sequencer phase.
func (s *Sequencer) Phase() Phase {
	return s.sm.MustState().(Phase)
}

// Busy reports whether a power interaction is in progress. Screen
// rotation stays suspended while true.
func (s *Sequencer) Busy() bool {
	return s.Phase() != PhaseIdle
}

// Permitted reports whether the add-on may request host power actions.
func (s *Sequencer) Permitted() bool {
	return s.permitted
}

// Overlay returns what the renderer needs for the current phase.
func (s *Sequencer) Overlay(now time.Time) Overlay {
	o := Overlay{Phase: s.Phase(), Target: s.target}
	if o.Phase == PhaseConfirming {
		o.Window = s.cfg.Countdown
		if r := s.deadline.Sub(now); r > 0 {
			o.Remaining = r
		}
	}
	if o.Phase == PhaseFailed && s.execErr != nil {
		o.Failure = s.execErr.Error()
	}
	return o
}

func (s *Sequencer) guardHoldReboot(_ context.Context, args ...any) bool {
	ev, ok := args[0].(gesture.Event)
	return ok && s.permitted && ev.Kind == gesture.KindHoldTick &&
		ev.Duration >= s.cfg.RebootHold && ev.Duration < s.cfg.ShutdownHold
}

func (s *Sequencer) guardHoldShutdown(_ context.Context, args ...any) bool {
	ev, ok := args[0].(gesture.Event)
	return ok && s.permitted && ev.Kind == gesture.KindHoldTick &&
		ev.Duration >= s.cfg.ShutdownHold
}

func (s *Sequencer) guardNoPermission(_ context.Context, args ...any) bool {
	ev, ok := args[0].(gesture.Event)
	return ok && !s.permitted && !s.noticed && ev.Kind == gesture.KindHoldTick &&
		ev.Duration >= s.cfg.RebootHold
}

func (s *Sequencer) guardRelease(_ context.Context, args ...any) bool {
	ev, ok := args[0].(gesture.Event)
	return ok && ev.Kind == gesture.KindRelease
}

func (s *Sequencer) guardAny(_ context.Context, _ ...any) bool {
	return true
}

func (s *Sequencer) guardExecSucceeded(_ context.Context, _ ...any) bool {
	return s.execErr == nil
}

func (s *Sequencer) guardExecFailed(_ context.Context, _ ...any) bool {
	return s.execErr != nil
}

func (s *Sequencer) enterHoldingReboot(_ context.Context, _ ...any) error {
	s.target = TargetReboot
	log.Printf("power: hold crossed %s, release to reboot", s.cfg.RebootHold)
	return nil
}

func (s *Sequencer) enterHoldingShutdown(_ context.Context, _ ...any) error {
	s.target = TargetShutdown
	log.Printf("power: hold crossed %s, release to shut down", s.cfg.ShutdownHold)
	return nil
}

func (s *Sequencer) enterNotice(_ context.Context, args ...any) error {
	ev := args[0].(gesture.Event)
	s.deadline = ev.Timestamp.Add(s.cfg.Notice)
	s.noticed = true
	log.Printf("power: host power not permitted for this add-on")
	metrics.GetOrCreateCounter(`argon_oled_power_events_total{event="notice",target="none"}`).Inc()
	return nil
}

func (s *Sequencer) enterConfirming(_ context.Context, args ...any) error {
	ev := args[0].(gesture.Event)
	s.target = s.resolveTarget(ev.Duration)
	s.deadline = ev.Timestamp.Add(s.cfg.Countdown)
	log.Printf("power: %s armed by %s hold, %s to cancel",
		s.target, ev.Duration.Round(time.Millisecond), s.cfg.Countdown)
	metrics.GetOrCreateCounter(fmt.Sprintf(`argon_oled_power_events_total{event="armed",target=%q}`, s.target)).Inc()
	return nil
}

func (s *Sequencer) enterExecuting(_ context.Context, _ ...any) error {
	ctx, cancel := context.WithTimeout(context.Background(), s.cfg.ExecTimeout)
	defer cancel()
	var err error
	if s.target == TargetShutdown {
		err = s.host.Shutdown(ctx)
	} else {
		err = s.host.Reboot(ctx)
	}
	s.execErr = err
	if err != nil {
		log.Printf("power: host %s failed: %v", s.target, err)
		metrics.GetOrCreateCounter(fmt.Sprintf(`argon_oled_power_events_total{event="executed",target=%q,result="error"}`, s.target)).Inc()
		return nil
	}
	log.Printf("power: host %s requested", s.target)
	metrics.GetOrCreateCounter(fmt.Sprintf(`argon_oled_power_events_total{event="executed",target=%q,result="ok"}`, s.target)).Inc()
	return nil
}

// resolveTarget picks the action from the final hold duration. The release
// decides, not the holding state passed through on the way.
func (s *Sequencer) resolveTarget(d time.Duration) Target {
	switch {
	case d >= s.cfg.ShutdownHold:
		return TargetShutdown
	case d >= s.cfg.RebootHold:
		return TargetReboot
	default:
		return TargetNone
	}
}
