package options

import "time"

// DefaultHeartbeat is the GPS tracker heartbeat period.
const DefaultHeartbeat = 60 * time.Second

// GPS is the normalized configuration of the GPS tracker stub.
type GPS struct {
	Heartbeat time.Duration
	Debug     bool
}

type gpsFile struct {
	HeartbeatInterval int  `json:"heartbeat_interval"`
	DebugLogging      bool `json:"debug_logging"`
}

// LoadGPS reads and normalizes the GPS tracker options.
func LoadGPS(path string) GPS {
	var raw gpsFile
	loadFile(path, &raw)
	envBool(EnvDebugLogging, &raw.DebugLogging)

	return GPS{
		Heartbeat: seconds("heartbeat_interval", raw.HeartbeatInterval, DefaultHeartbeat),
		Debug:     raw.DebugLogging,
	}
}
