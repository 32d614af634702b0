package options

import (
	"log"
	"time"

	"github.com/hindley/argon-addons/internal/heating"
)

// DefaultHeatingPoll is the heating manager cycle period.
const DefaultHeatingPoll = 300 * time.Second

// Heating is the normalized configuration of the heating manager.
type Heating struct {
	TRVs         []string
	Boiler       string
	Mode         heating.Mode
	ManualOn     float64
	ManualOff    float64
	CheckValves  bool
	PollInterval time.Duration
	Debug        bool
	Token        string
}

type heatingFile struct {
	TRVEntities          []string `json:"trv_entities"`
	BoilerEntity         string   `json:"boiler_entity"`
	BoilerThermostat     string   `json:"boiler_thermostat_entity"` // pre-rename key
	BoilerMode           string   `json:"boiler_mode"`
	ManualOnTemperature  float64  `json:"manual_on_temperature"`
	ManualOffTemperature float64  `json:"manual_off_temperature"`
	CheckValveState      *bool    `json:"check_valve_state"`
	PollingInterval      int      `json:"polling_interval"`
	DebugLogging         bool     `json:"debug_logging"`
}

// LoadHeating reads and normalizes the heating manager options.
func LoadHeating(path string) Heating {
	var raw heatingFile
	loadFile(path, &raw)
	envBool(EnvDebugLogging, &raw.DebugLogging)

	boiler := raw.BoilerEntity
	if boiler == "" {
		boiler = raw.BoilerThermostat
	}

	mode := heating.Mode(raw.BoilerMode)
	if mode != heating.ModeThermostat && mode != heating.ModeToggle {
		if raw.BoilerMode != "" {
			log.Printf("options: unknown boiler mode %q, using %s", raw.BoilerMode, heating.ModeThermostat)
		}
		mode = heating.ModeThermostat
	}

	on, off := raw.ManualOnTemperature, raw.ManualOffTemperature
	if on <= off {
		if on != 0 || off != 0 {
			log.Printf("options: manual temperatures on=%g off=%g invalid, using %g/%g",
				on, off, heating.DefaultManualOn, heating.DefaultManualOff)
		}
		on, off = heating.DefaultManualOn, heating.DefaultManualOff
	}

	checkValves := true
	if raw.CheckValveState != nil {
		checkValves = *raw.CheckValveState
	}

	return Heating{
		TRVs:         raw.TRVEntities,
		Boiler:       boiler,
		Mode:         mode,
		ManualOn:     on,
		ManualOff:    off,
		CheckValves:  checkValves,
		PollInterval: seconds("polling_interval", raw.PollingInterval, DefaultHeatingPoll),
		Debug:        raw.DebugLogging,
		Token:        Token(),
	}
}
