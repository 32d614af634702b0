package sysinfo

import (
	"math"
	"testing"
)

func approx(t *testing.T, name string, got, want float64) {
	t.Helper()
	if math.Abs(got-want) > 1e-6 {
		t.Errorf("%s = %v, want %v", name, got, want)
	}
}

func TestParseMilliCelsius(t *testing.T) {
	got, err := parseMilliCelsius("45000\n")
	if err != nil {
		t.Fatalf("parseMilliCelsius: %v", err)
	}
	approx(t, "temp", got, 45.0)
}

func TestParseMilliCelsiusRejectsGarbage(t *testing.T) {
	if _, err := parseMilliCelsius("not-a-number"); err == nil {
		t.Fatal("expected error for garbage input")
	}
}

func TestParseCPUStat(t *testing.T) {
	line := "cpu  2255 34 2290 22625563 6290 127 456 0 0 0\ncpu0 1 2 3 4 5\n"
	idle, total, err := parseCPUStat(line)
	if err != nil {
		t.Fatalf("parseCPUStat: %v", err)
	}
	approx(t, "idle", idle, 22625563)
	approx(t, "total", total, 22637015)
}

func TestParseCPUStatMalformed(t *testing.T) {
	for _, raw := range []string{"", "intr 0 0 0 0 0", "cpu 1 2 3", "cpu a b c d e"} {
		if _, _, err := parseCPUStat(raw); err == nil {
			t.Errorf("parseCPUStat(%q): expected error", raw)
		}
	}
}

func TestUsageDeltaFirstCallIsZero(t *testing.T) {
	c := NewCollector()
	if got := c.usageDelta(300, 500); got != 0 {
		t.Errorf("first sample usage = %v, want 0", got)
	}
}

func TestUsageDelta(t *testing.T) {
	c := NewCollector()
	c.usageDelta(300, 500)

	// 50 idle jiffies out of 200 elapsed: 75% busy.
	approx(t, "usage", c.usageDelta(350, 700), 75)
}

func TestUsageDeltaClamps(t *testing.T) {
	c := NewCollector()
	c.usageDelta(300, 500)

	// Idle counter going backwards would read as more than 100% busy.
	approx(t, "high clamp", c.usageDelta(100, 600), 100)

	// Idle advancing faster than total would read as negative.
	approx(t, "low clamp", c.usageDelta(400, 700), 0)
}

func TestUsageDeltaZeroElapsed(t *testing.T) {
	c := NewCollector()
	c.usageDelta(300, 500)
	if got := c.usageDelta(300, 500); got != 0 {
		t.Errorf("zero elapsed usage = %v, want 0", got)
	}
}

func TestParseMemInfo(t *testing.T) {
	raw := "MemTotal:        8000000 kB\n" +
		"MemFree:         2000000 kB\n" +
		"MemAvailable:    4000000 kB\n" +
		"Buffers:          100000 kB\n"
	m, err := parseMemInfo(raw)
	if err != nil {
		t.Fatalf("parseMemInfo: %v", err)
	}
	approx(t, "used", m.UsedMB, 3906.25)
	approx(t, "total", m.TotalMB, 7812.5)
	approx(t, "percent", m.Percent, 50)
}

func TestParseMemInfoMissingTotal(t *testing.T) {
	if _, err := parseMemInfo("MemFree: 2000000 kB\n"); err == nil {
		t.Fatal("expected error when MemTotal is absent")
	}
}

func TestDiskFromStat(t *testing.T) {
	d := diskFromStat(10000000, 5000000, 4096)
	approx(t, "used", d.UsedGB, 19.073486328125)
	approx(t, "total", d.TotalGB, 38.14697265625)
	approx(t, "percent", d.Percent, 50)
}

func TestDiskFromStatEmpty(t *testing.T) {
	d := diskFromStat(0, 0, 4096)
	if d.UsedGB != 0 || d.TotalGB != 0 || d.Percent != 0 {
		t.Errorf("empty filesystem = %+v, want zeros", d)
	}
}
