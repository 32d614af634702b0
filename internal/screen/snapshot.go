package screen

import (
	"sync"
	"time"
)

// Snapshot carries everything the renderers draw from. A background
// collector refreshes it; the render path only ever reads a copy.
type Snapshot struct {
	// CPUTemp is always Celsius; the renderer converts for display.
	CPUTemp  float64
	CPUUsage float64

	MemUsedMB  float64
	MemTotalMB float64
	MemPercent float64

	DiskUsedGB  float64
	DiskTotalGB float64
	DiskPercent float64

	// IP is the host address, empty when no network is reachable.
	IP string

	// Home Assistant status for the ha screen.
	CoreVersion string
	CoreState   string
	Updates     int
	LastBackup  time.Time
	BackupState string

	// Sun times for the sun screen. SunValid is false when coordinates
	// are not configured or the computation failed.
	SunValid bool
	Dawn     time.Time
	Sunrise  time.Time
	Sunset   time.Time
	Dusk     time.Time
}

// Store is a snapshot holder shared between the collector goroutine and
// the render loop.
type Store struct {
	mu   sync.RWMutex
	snap Snapshot
}

// Set replaces the stored snapshot.
func (s *Store) Set(snap Snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snap = snap
}

// Snapshot returns a copy of the stored snapshot.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snap
}
