// Package screen renders the 128x64 OLED screens and the power overlays
// as 1-bit frames. Renderers are pure: they draw from a data snapshot and
// an injected clock, never from the live system, so frames are testable
// pixel by pixel.
package screen

import (
	"log"
	"strings"
)

// Display geometry of the Argon ONE OLED panel.
const (
	Width  = 128
	Height = 64
)

// ID names one rotation screen.
type ID string

const (
	Logo    ID = "logo"
	Clock   ID = "clock"
	CPU     ID = "cpu"
	RAM     ID = "ram"
	Storage ID = "storage"
	Temp    ID = "temp"
	IP      ID = "ip"
	Sun     ID = "sun"
	HA      ID = "ha"
)

var known = map[ID]bool{
	Logo:    true,
	Clock:   true,
	CPU:     true,
	RAM:     true,
	Storage: true,
	Temp:    true,
	IP:      true,
	Sun:     true,
	HA:      true,
}

// Known reports whether id names a screen this renderer can draw.
func Known(id ID) bool {
	return known[id]
}

// DefaultList is the screen rotation used when none is configured.
func DefaultList() []ID {
	return []ID{Logo, Clock, CPU, Storage, RAM, Temp, IP}
}

// ParseList turns a space-separated screen list into screen ids. Unknown
// names are dropped with a log line; an empty result falls back to the
// default rotation. "logo1v5" is accepted as an alias for "logo" kept from
// earlier case revisions.
func ParseList(raw string) []ID {
	var ids []ID
	for _, f := range strings.Fields(raw) {
		id := ID(strings.ToLower(f))
		if id == "logo1v5" {
			id = Logo
		}
		if !Known(id) {
			log.Printf("screen: dropping unknown screen %q", f)
			continue
		}
		ids = append(ids, id)
	}
	if len(ids) == 0 {
		return DefaultList()
	}
	return ids
}

// TempUnit selects the temperature display unit.
type TempUnit string

const (
	Celsius    TempUnit = "C"
	Fahrenheit TempUnit = "F"
)

// ParseTempUnit normalizes a configured unit, defaulting to Celsius.
func ParseTempUnit(raw string) TempUnit {
	if strings.EqualFold(strings.TrimSpace(raw), "F") {
		return Fahrenheit
	}
	return Celsius
}
