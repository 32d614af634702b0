package options

import (
	"log"
	"time"

	"github.com/hindley/argon-addons/internal/fanctl"
	"github.com/hindley/argon-addons/internal/screen"
)

// DefaultCheckInterval is the fan daemon poll period.
const DefaultCheckInterval = 60 * time.Second

// Configured step temperatures are clamped into this range.
const (
	minStepTemp = -20
	maxStepTemp = 120
)

// Fan is the normalized configuration of the fan daemon.
type Fan struct {
	Steps         []fanctl.Step
	CheckInterval time.Duration
	TempUnit      screen.TempUnit
	Debug         bool
}

type fanFile struct {
	TempUnit      string        `json:"temp_unit"`
	CPUFanTemps   []fanctl.Step `json:"cpu_fan_temps"`
	CheckInterval int           `json:"check_interval"`
	DebugLogging  bool          `json:"debug_logging"`
}

// LoadFan reads and normalizes the fan daemon options.
func LoadFan(path string) Fan {
	var raw fanFile
	loadFile(path, &raw)
	envBool(EnvDebugLogging, &raw.DebugLogging)

	return Fan{
		Steps:         normalizeSteps(raw.CPUFanTemps),
		CheckInterval: seconds("check_interval", raw.CheckInterval, DefaultCheckInterval),
		TempUnit:      screen.ParseTempUnit(raw.TempUnit),
		Debug:         raw.DebugLogging,
	}
}

// normalizeSteps clamps configured steps into range and falls back to
// the stock curve when none are configured.
func normalizeSteps(steps []fanctl.Step) []fanctl.Step {
	if len(steps) == 0 {
		return fanctl.DefaultSteps()
	}
	out := make([]fanctl.Step, 0, len(steps))
	for _, s := range steps {
		clamped := fanctl.Step{
			Temp:  min(max(s.Temp, minStepTemp), maxStepTemp),
			Speed: min(max(s.Speed, 0), 100),
		}
		if clamped != s {
			log.Printf("options: fan step %+v clamped to %+v", s, clamped)
		}
		out = append(out, clamped)
	}
	return out
}
