// Package options loads add-on configuration from /data/options.json
// plus environment overrides. Loading never fails: a missing file,
// malformed JSON or out-of-range values fall back to defaults with a
// logged warning, so a bad configuration degrades instead of keeping
// the daemon from starting.
package options

import (
	"encoding/json"
	"log"
	"os"
	"strings"
	"time"
)

// DefaultPath is where the add-on supervisor mounts the options file.
const DefaultPath = "/data/options.json"

// Environment variables recognized as overrides.
const (
	EnvScreenList      = "SCREEN_LIST"
	EnvSwitchDuration  = "SWITCH_DURATION"
	EnvTempUnit        = "TEMP_UNIT"
	EnvSupervisorToken = "SUPERVISOR_TOKEN"
	EnvButtonDebug     = "BUTTON_DEBUG"
	EnvDebugLogging    = "DEBUG_LOGGING"
)

// Token returns the supervisor API token injected into the add-on
// environment. Empty outside a supervised install.
func Token() string {
	return os.Getenv(EnvSupervisorToken)
}

// loadFile decodes the options file into out, leaving out untouched on
// any error.
func loadFile(path string, out any) {
	data, err := os.ReadFile(path)
	if err != nil {
		log.Printf("options: read %s: %v, using defaults", path, err)
		return
	}
	if err := json.Unmarshal(data, out); err != nil {
		log.Printf("options: parse %s: %v, using defaults", path, err)
	}
}

// seconds converts a configured whole-second value, falling back when
// it is unset or negative.
func seconds(name string, n int, def time.Duration) time.Duration {
	if n <= 0 {
		if n < 0 {
			log.Printf("options: %s %d out of range, using %v", name, n, def)
		}
		return def
	}
	return time.Duration(n) * time.Second
}

// envBool folds a true/false environment override into dst when set.
func envBool(name string, dst *bool) {
	if v := os.Getenv(name); v != "" {
		*dst = strings.EqualFold(v, "true")
	}
}
