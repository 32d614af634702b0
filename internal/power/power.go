// Package power gates host reboot and shutdown behind a deliberate
// hold-and-confirm sequence. A press must stay down past a per-action
// threshold, the release fixes the action, and a visible countdown gives
// the user a cancel window before the supervisor is asked to act.
package power

import (
	"context"
	"time"
)

// Target is the host power action a hold resolves to.
type Target int

const (
	TargetNone Target = iota
	TargetReboot
	TargetShutdown
)

func (t Target) String() string {
	switch t {
	case TargetReboot:
		return "reboot"
	case TargetShutdown:
		return "shutdown"
	default:
		return "none"
	}
}

// Phase is the sequencer's externally visible state.
type Phase int

const (
	// PhaseIdle means no power interaction is in progress.
	PhaseIdle Phase = iota
	// PhaseHoldingReboot means the press has crossed the reboot threshold
	// and releasing now will arm a reboot.
	PhaseHoldingReboot
	// PhaseHoldingShutdown means the press has crossed the shutdown
	// threshold and releasing now will arm a shutdown.
	PhaseHoldingShutdown
	// PhaseNotice means the add-on lacks host power permission and a
	// timed notice is on screen instead of a hold state.
	PhaseNotice
	// PhaseConfirming means a target is armed and counting down. Any
	// button activity cancels it.
	PhaseConfirming
	// PhaseExecuting means the supervisor call is in flight.
	PhaseExecuting
	// PhaseDone and PhaseFailed are terminal for the run. The host is
	// expected to act shortly after Done.
	PhaseDone
	PhaseFailed
)

func (p Phase) String() string {
	switch p {
	case PhaseHoldingReboot:
		return "holding-reboot"
	case PhaseHoldingShutdown:
		return "holding-shutdown"
	case PhaseNotice:
		return "notice"
	case PhaseConfirming:
		return "confirming"
	case PhaseExecuting:
		return "executing"
	case PhaseDone:
		return "done"
	case PhaseFailed:
		return "failed"
	default:
		return "idle"
	}
}

// HostAPI performs the actual host power operations. The real
// implementation talks to the Home Assistant supervisor.
type HostAPI interface {
	Reboot(ctx context.Context) error
	Shutdown(ctx context.Context) error
}

// Config holds the sequencer thresholds.
type Config struct {
	// RebootHold is the press duration at which a release arms a reboot.
	RebootHold time.Duration
	// ShutdownHold is the press duration at which a release arms a
	// shutdown instead. Must exceed RebootHold.
	ShutdownHold time.Duration
	// Countdown is the cancel window between release and execution.
	Countdown time.Duration
	// Notice is how long the no-permission message stays on screen.
	Notice time.Duration
	// ExecTimeout bounds the supervisor call so a dead network still
	// leaves the display responsive.
	ExecTimeout time.Duration
}

// Default thresholds, applied by withDefaults for unset or nonsense values.
const (
	DefaultRebootHold   = 10 * time.Second
	DefaultShutdownHold = 15 * time.Second
	DefaultCountdown    = 5 * time.Second
	DefaultNotice       = 2 * time.Second
	DefaultExecTimeout  = 10 * time.Second
)

// withDefaults returns the config with non-positive fields replaced by the
// defaults. An inverted ordering (shutdown hold at or below the reboot
// hold) resets both, since the shutdown zone would be unreachable.
func (c Config) withDefaults() Config {
	if c.RebootHold <= 0 {
		c.RebootHold = DefaultRebootHold
	}
	if c.ShutdownHold <= 0 {
		c.ShutdownHold = DefaultShutdownHold
	}
	if c.Countdown <= 0 {
		c.Countdown = DefaultCountdown
	}
	if c.Notice <= 0 {
		c.Notice = DefaultNotice
	}
	if c.ExecTimeout <= 0 {
		c.ExecTimeout = DefaultExecTimeout
	}
	if c.ShutdownHold <= c.RebootHold {
		c.RebootHold = DefaultRebootHold
		c.ShutdownHold = DefaultShutdownHold
	}
	return c
}

// Overlay is what the renderer needs to draw the power interaction on top
// of the normal screen rotation.
type Overlay struct {
	Phase  Phase
	Target Target
	// Remaining is the time left in the cancel window and Window its full
	// width. Only meaningful while Phase is PhaseConfirming.
	Remaining time.Duration
	Window    time.Duration
	// Failure carries the supervisor error text when Phase is PhaseFailed.
	Failure string
}
