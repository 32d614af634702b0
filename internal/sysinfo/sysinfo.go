// Package sysinfo gathers the host metrics shown on the stats screens:
// CPU temperature and usage, memory, root filesystem usage and the local
// IP address. Parsing is separated from file access so tests run on
// canned input without a live /proc.
package sysinfo

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

const (
	thermalPath = "/sys/class/thermal/thermal_zone0/temp"
	statPath    = "/proc/stat"
	meminfoPath = "/proc/meminfo"
)

// Memory holds memory usage in megabytes.
type Memory struct {
	UsedMB  float64
	TotalMB float64
	Percent float64
}

// Disk holds filesystem usage in gigabytes.
type Disk struct {
	UsedGB  float64
	TotalGB float64
	Percent float64
}

// Collector reads system metrics from /proc and /sys. CPU usage is the
// delta between successive calls, so the same Collector must be reused
// across polls; the first call primes the counters and reports 0.
type Collector struct {
	prevIdle  float64
	prevTotal float64
	primed    bool
}

// NewCollector returns a Collector with unprimed CPU counters.
func NewCollector() *Collector {
	return &Collector{}
}

// CPUTemp returns the SoC temperature in degrees Celsius.
func (c *Collector) CPUTemp() (float64, error) {
	raw, err := os.ReadFile(thermalPath)
	if err != nil {
		return 0, fmt.Errorf("read thermal zone: %w", err)
	}
	return parseMilliCelsius(string(raw))
}

// CPUUsage returns the busy percentage since the previous call, clamped
// to 0..100.
func (c *Collector) CPUUsage() (float64, error) {
	raw, err := os.ReadFile(statPath)
	if err != nil {
		return 0, fmt.Errorf("read cpu stat: %w", err)
	}
	idle, total, err := parseCPUStat(string(raw))
	if err != nil {
		return 0, err
	}
	return c.usageDelta(idle, total), nil
}

// MemoryUsage reports used and total memory in MB.
func (c *Collector) MemoryUsage() (Memory, error) {
	raw, err := os.ReadFile(meminfoPath)
	if err != nil {
		return Memory{}, fmt.Errorf("read meminfo: %w", err)
	}
	return parseMemInfo(string(raw))
}

// DiskUsage reports root filesystem usage in GB.
func (c *Collector) DiskUsage() (Disk, error) {
	return diskUsage("/")
}

func (c *Collector) usageDelta(idle, total float64) float64 {
	if !c.primed {
		c.prevIdle, c.prevTotal = idle, total
		c.primed = true
		return 0
	}
	diffIdle := idle - c.prevIdle
	diffTotal := total - c.prevTotal
	c.prevIdle, c.prevTotal = idle, total
	if diffTotal == 0 {
		return 0
	}
	usage := 100 * (1 - diffIdle/diffTotal)
	return min(max(usage, 0), 100)
}

// parseMilliCelsius converts a thermal zone reading in millidegrees to
// degrees Celsius.
func parseMilliCelsius(raw string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return 0, fmt.Errorf("parse thermal reading: %w", err)
	}
	return v / 1000.0, nil
}

// parseCPUStat extracts the idle and total jiffy counters from the
// aggregate first line of /proc/stat. Idle is the fourth counter after
// the cpu label.
func parseCPUStat(raw string) (idle, total float64, err error) {
	line := raw
	if i := strings.IndexByte(raw, '\n'); i >= 0 {
		line = raw[:i]
	}
	fields := strings.Fields(line)
	if len(fields) < 5 || fields[0] != "cpu" {
		return 0, 0, fmt.Errorf("malformed cpu line %q", line)
	}
	for i, f := range fields[1:] {
		v, perr := strconv.ParseFloat(f, 64)
		if perr != nil {
			return 0, 0, fmt.Errorf("parse cpu field %q: %w", f, perr)
		}
		if i == 3 {
			idle = v
		}
		total += v
	}
	return idle, total, nil
}

// parseMemInfo derives used/total MB from the MemTotal and MemAvailable
// lines, both reported by the kernel in kB.
func parseMemInfo(raw string) (Memory, error) {
	var totalKB, availKB float64
	for _, line := range strings.Split(raw, "\n") {
		switch {
		case strings.HasPrefix(line, "MemTotal:"):
			v, err := meminfoValue(line)
			if err != nil {
				return Memory{}, err
			}
			totalKB = v
		case strings.HasPrefix(line, "MemAvailable:"):
			v, err := meminfoValue(line)
			if err != nil {
				return Memory{}, err
			}
			availKB = v
		}
	}
	if totalKB <= 0 {
		return Memory{}, fmt.Errorf("meminfo: MemTotal missing")
	}
	m := Memory{
		UsedMB:  (totalKB - availKB) / 1024,
		TotalMB: totalKB / 1024,
	}
	m.Percent = m.UsedMB / m.TotalMB * 100
	return m, nil
}

func meminfoValue(line string) (float64, error) {
	fields := strings.Fields(line)
	if len(fields) < 2 {
		return 0, fmt.Errorf("malformed meminfo line %q", line)
	}
	v, err := strconv.ParseFloat(fields[1], 64)
	if err != nil {
		return 0, fmt.Errorf("parse meminfo line %q: %w", line, err)
	}
	return v, nil
}

// diskFromStat converts raw statfs counters to GB figures. The fragment
// size is the unit both block counts are expressed in.
func diskFromStat(blocks, bavail, frsize uint64) Disk {
	const gb = 1024 * 1024 * 1024
	total := float64(blocks) * float64(frsize) / gb
	free := float64(bavail) * float64(frsize) / gb
	d := Disk{
		UsedGB:  total - free,
		TotalGB: total,
	}
	if total > 0 {
		d.Percent = d.UsedGB / total * 100
	}
	return d
}
