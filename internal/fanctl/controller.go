package fanctl

import (
	"log"
	"time"
)

// Writer sets the fan duty on the MCU.
type Writer interface {
	// SetDuty writes a duty percent (0-100).
	SetDuty(percent int) error
}

const (
	// KickDuty is written when the fan spins up from rest. Older Argon
	// units stall on low duties from a standing start.
	KickDuty = 100

	// DefaultKickDelay is the minimum dwell on the kick duty before the
	// real target is written.
	DefaultKickDelay = time.Second

	// DefaultHoldoff is how long a lower demand must persist before the
	// duty is reduced. Keeps the fan from hunting around a threshold.
	DefaultHoldoff = 30 * time.Second
)

// Controller decides when to push a duty change to the MCU. All timing
// comes from the Evaluate clock argument; the controller keeps no
// timers of its own. Not safe for concurrent use.
type Controller struct {
	curve  Curve
	writer Writer

	kickDelay time.Duration
	holdoff   time.Duration

	current   int
	kicked    bool // kick written, real target pending
	kickedAt  time.Time
	downSince time.Time // zero when no reduction is pending
}

func NewController(curve Curve, w Writer) *Controller {
	return &Controller{
		curve:     curve,
		writer:    w,
		kickDelay: DefaultKickDelay,
		holdoff:   DefaultHoldoff,
	}
}

// Current returns the duty last accepted by the MCU.
func (c *Controller) Current() int {
	return c.current
}

// Evaluate maps the temperature through the curve and pushes a duty
// change when one is due. Called once per poll tick; write failures are
// logged and retried on later ticks.
func (c *Controller) Evaluate(temp float64, now time.Time) {
	target := min(max(c.curve.SpeedFor(temp), 0), 100)

	if c.kicked {
		if now.Sub(c.kickedAt) < c.kickDelay {
			return
		}
		// Settle on whatever the demand is now, lower included.
		c.kicked = false
		if target != c.current {
			c.write(target)
		}
		return
	}

	switch {
	case target == c.current:
		c.downSince = time.Time{}

	case target > c.current:
		c.downSince = time.Time{}
		if c.current == 0 {
			if c.write(KickDuty) {
				c.kicked = true
				c.kickedAt = now
				log.Printf("fanctl: spin-up kick, holding %d%% for %v", KickDuty, c.kickDelay)
			}
			return
		}
		c.write(target)

	case target < c.current:
		if c.downSince.IsZero() {
			c.downSince = now
			log.Printf("fanctl: demand dropped to %d%%, reducing after %v", target, c.holdoff)
			return
		}
		if now.Sub(c.downSince) < c.holdoff {
			return
		}
		if c.write(target) {
			c.downSince = time.Time{}
		}
	}
}

func (c *Controller) write(duty int) bool {
	if err := c.writer.SetDuty(duty); err != nil {
		log.Printf("fanctl: set duty %d%%: %v", duty, err)
		return false
	}
	log.Printf("fanctl: fan speed %d%%", duty)
	c.current = duty
	return true
}
