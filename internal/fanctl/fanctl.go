// Package fanctl drives the Argon ONE case fan through the Argon MCU.
// Speed selection is a pure function of temperature over a configured
// step curve; the controller layers the hardware rules on top: write
// only on change, kick the fan to full when spinning up from rest, and
// hold off speed reductions until the lower demand has persisted.
package fanctl

import "sort"

// Step maps a temperature threshold in celsius to a fan duty percent.
type Step struct {
	Temp  float64 `json:"temp"`
	Speed int     `json:"speed"`
}

// DefaultSteps is the stock Argon ONE fan curve.
func DefaultSteps() []Step {
	return []Step{
		{Temp: 55, Speed: 30},
		{Temp: 60, Speed: 55},
		{Temp: 65, Speed: 100},
	}
}

// Curve is an ordered set of fan steps.
type Curve struct {
	steps []Step
}

// NewCurve builds a curve from steps, sorting them by temperature.
func NewCurve(steps []Step) Curve {
	s := make([]Step, len(steps))
	copy(s, steps)
	sort.Slice(s, func(i, j int) bool { return s[i].Temp < s[j].Temp })
	return Curve{steps: s}
}

// SpeedFor returns the duty percent for a temperature: the speed of the
// highest threshold at or below it, zero below the first step.
func (c Curve) SpeedFor(temp float64) int {
	speed := 0
	for _, s := range c.steps {
		if temp >= s.Temp {
			speed = s.Speed
		}
	}
	return speed
}
