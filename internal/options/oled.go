package options

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/hindley/argon-addons/internal/screen"
)

// DefaultSwitchInterval is the screen rotation period.
const DefaultSwitchInterval = 30 * time.Second

// OLED is the normalized configuration of the OLED daemon.
type OLED struct {
	Screens        []screen.ID
	SwitchInterval time.Duration
	TempUnit       screen.TempUnit

	// Latitude and Longitude feed the sun screen. Both zero means
	// location not set.
	Latitude  float64
	Longitude float64

	Token       string
	ButtonDebug bool

	// WebUser and WebPasswordHash guard the HTTP endpoints when both
	// are set. The hash is bcrypt.
	WebUser         string
	WebPasswordHash string

	// MetricsPushURL, when set, is the Prometheus import endpoint
	// metrics are pushed to.
	MetricsPushURL string
}

type oledFile struct {
	ScreenList      string  `json:"screen_list"`
	SwitchDuration  int     `json:"switch_duration"`
	TempUnit        string  `json:"temp_unit"`
	Latitude        float64 `json:"latitude"`
	Longitude       float64 `json:"longitude"`
	ButtonDebug     bool    `json:"button_debug"`
	WebUsername     string  `json:"web_username"`
	WebPasswordHash string  `json:"web_password_hash"`
	MetricsPushURL  string  `json:"metrics_push_url"`
}

// LoadOLED reads and normalizes the OLED daemon options. Environment
// variables override the file.
func LoadOLED(path string) OLED {
	var raw oledFile
	loadFile(path, &raw)

	if v := os.Getenv(EnvScreenList); v != "" {
		raw.ScreenList = v
	}
	if v := os.Getenv(EnvSwitchDuration); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			log.Printf("options: bad %s %q: %v", EnvSwitchDuration, v, err)
		} else {
			raw.SwitchDuration = n
		}
	}
	if v := os.Getenv(EnvTempUnit); v != "" {
		raw.TempUnit = v
	}
	envBool(EnvButtonDebug, &raw.ButtonDebug)

	return OLED{
		Screens:         screen.ParseList(raw.ScreenList),
		SwitchInterval:  seconds("switch_duration", raw.SwitchDuration, DefaultSwitchInterval),
		TempUnit:        screen.ParseTempUnit(raw.TempUnit),
		Latitude:        raw.Latitude,
		Longitude:       raw.Longitude,
		Token:           Token(),
		ButtonDebug:     raw.ButtonDebug,
		WebUser:         raw.WebUsername,
		WebPasswordHash: raw.WebPasswordHash,
		MetricsPushURL:  raw.MetricsPushURL,
	}
}
