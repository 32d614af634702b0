package status

import (
	"encoding/json"
	"time"

	"github.com/hindley/argon-addons/internal/power"
)

// StatusJSON is the top-level JSON envelope for status output.
type StatusJSON struct {
	Status StatusInner `json:"status"`
}

// StatusInner contains the status details.
type StatusInner struct {
	Screen        string     `json:"screen"`
	Suspended     bool       `json:"suspended"`
	Power         PowerJSON  `json:"power"`
	UptimeSeconds int64      `json:"uptime_seconds"`
	StartTime     string     `json:"start_time"`
	Timestamp     string     `json:"timestamp"`
	MQTT          MQTTStatus `json:"mqtt"`
	Counts        CountsJSON `json:"gesture_counts"`
	IP            string     `json:"ip,omitempty"`
	Config        ConfigJSON `json:"config"`
}

// PowerJSON reports the power sequencer state.
type PowerJSON struct {
	Phase     string `json:"phase"`
	Target    string `json:"target,omitempty"`
	Permitted bool   `json:"permitted"`
	Reason    string `json:"reason,omitempty"`
}

// MQTTStatus reports MQTT connection state.
type MQTTStatus struct {
	Connected bool   `json:"connected"`
	Broker    string `json:"broker"`
}

// CountsJSON is the JSON representation of gesture counts.
type CountsJSON struct {
	Taps         int `json:"taps"`
	DoubleTaps   int `json:"double_taps"`
	LongPresses  int `json:"long_presses"`
	HoldReleases int `json:"hold_releases"`
}

// ConfigJSON is the JSON representation of daemon config.
type ConfigJSON struct {
	PollMs        int64  `json:"poll_ms"`
	SwitchSeconds int64  `json:"switch_seconds"`
	Screens       string `json:"screens"`
	TempUnit      string `json:"temp_unit"`
	Broker        string `json:"broker"`
	HTTPAddr      string `json:"http_addr"`
}

func buildInner(snap Snapshot) StatusInner {
	target := ""
	if snap.Target != power.TargetNone {
		target = snap.Target.String()
	}

	return StatusInner{
		Screen:    snap.Screen,
		Suspended: snap.Suspended,
		Power: PowerJSON{
			Phase:     snap.Phase.String(),
			Target:    target,
			Permitted: snap.Permitted,
			Reason:    snap.PermissionMsg,
		},
		UptimeSeconds: int64(snap.Uptime().Truncate(time.Second).Seconds()),
		StartTime:     snap.StartTime.UTC().Format(time.RFC3339),
		Timestamp:     snap.Now.UTC().Format(time.RFC3339),
		MQTT:          MQTTStatus{Connected: snap.MQTTConnected, Broker: snap.Config.Broker},
		Counts: CountsJSON{
			Taps:         snap.Counts.Taps,
			DoubleTaps:   snap.Counts.DoubleTaps,
			LongPresses:  snap.Counts.LongPresses,
			HoldReleases: snap.Counts.HoldReleases,
		},
		IP: snap.IP,
		Config: ConfigJSON{
			PollMs:        snap.Config.PollMs,
			SwitchSeconds: snap.Config.SwitchSeconds,
			Screens:       snap.Config.Screens,
			TempUnit:      snap.Config.TempUnit,
			Broker:        snap.Config.Broker,
			HTTPAddr:      snap.Config.HTTPAddr,
		},
	}
}

// FormatJSON returns the JSON status for the web endpoint.
func FormatJSON(snap Snapshot) []byte {
	data, _ := json.MarshalIndent(StatusJSON{Status: buildInner(snap)}, "", "  ")
	return data
}
