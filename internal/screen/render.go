package screen

import (
	"fmt"
	"image/draw"
	"math"
	"strings"
	"time"

	"periph.io/x/devices/v3/ssd1306/image1bit"

	"github.com/hindley/argon-addons/internal/power"
)

// Renderer draws rotation screens and power overlays into fresh frames.
type Renderer struct {
	unit TempUnit
}

// NewRenderer returns a renderer displaying temperatures in the given
// unit. Snapshots always carry Celsius.
func NewRenderer(unit TempUnit) *Renderer {
	if unit != Fahrenheit {
		unit = Celsius
	}
	return &Renderer{unit: unit}
}

// Render draws the screen with the given id from snap.
func (r *Renderer) Render(id ID, snap Snapshot, now time.Time) *image1bit.VerticalLSB {
	f := NewFrame()
	switch id {
	case Logo:
		r.drawLogo(f)
	case Clock:
		r.drawClock(f, now)
	case CPU:
		r.drawCPU(f, snap)
	case RAM:
		r.drawRAM(f, snap)
	case Storage:
		r.drawStorage(f, snap)
	case Temp:
		r.drawTemp(f, snap)
	case IP:
		r.drawIP(f, snap)
	case Sun:
		r.drawSun(f, snap)
	case HA:
		r.drawHA(f, snap)
	default:
		drawHeader(f, "Screen")
		centerText(f, 38, fmt.Sprintf("unknown: %s", id), image1bit.On)
	}
	return f
}

// RenderOverlay draws the power interaction on a frame of its own,
// replacing the normal rotation while the sequencer is busy.
func (r *Renderer) RenderOverlay(o power.Overlay) *image1bit.VerticalLSB {
	f := NewFrame()
	switch o.Phase {
	case power.PhaseHoldingReboot:
		drawHeader(f, "POWER")
		centerText(f, 34, "REBOOT", image1bit.On)
		centerText(f, 52, "release to confirm", image1bit.On)
	case power.PhaseHoldingShutdown:
		drawHeader(f, "POWER")
		centerText(f, 34, "SHUTDOWN", image1bit.On)
		centerText(f, 52, "release to confirm", image1bit.On)
	case power.PhaseNotice:
		drawHeader(f, "POWER")
		centerText(f, 34, "NO PERMISSION", image1bit.On)
		centerText(f, 52, "host control disabled", image1bit.On)
	case power.PhaseConfirming:
		drawHeader(f, "CONFIRM "+strings.ToUpper(o.Target.String()))
		secs := int(math.Ceil(o.Remaining.Seconds()))
		width := segNumberWidth(secs, 1.0)
		drawSegmentNumber(f, (Width-width)/2, 16, secs, 1.0)
		centerText(f, 54, "press to cancel", image1bit.On)
		if o.Window > 0 {
			pct := 100 * float64(o.Remaining) / float64(o.Window)
			drawProgressBar(f, 14, 58, 100, 4, pct, "")
		}
	case power.PhaseExecuting, power.PhaseDone:
		drawHeader(f, "POWER")
		if o.Target == power.TargetShutdown {
			centerText(f, 38, "shutting down...", image1bit.On)
		} else {
			centerText(f, 38, "rebooting...", image1bit.On)
		}
	case power.PhaseFailed:
		drawHeader(f, "POWER")
		centerText(f, 30, "ACTION FAILED", image1bit.On)
		line1, line2 := splitLines(o.Failure, 17)
		centerText(f, 46, line1, image1bit.On)
		centerText(f, 58, line2, image1bit.On)
	}
	return f
}

func (r *Renderer) drawLogo(dst draw.Image) {
	outlineRect(dst, 0, 0, Width-1, Height-1, image1bit.On)
	outlineRect(dst, 3, 3, Width-4, Height-4, image1bit.On)
	fillRect(dst, 0, 0, 6, 6, image1bit.On)
	fillRect(dst, Width-7, 0, Width-1, 6, image1bit.On)
	fillRect(dst, 0, Height-7, 6, Height-1, image1bit.On)
	fillRect(dst, Width-7, Height-7, Width-1, Height-1, image1bit.On)
	centerText(dst, 30, "ARGON ONE", image1bit.On)
	centerText(dst, 50, "Home Assistant", image1bit.On)
}

func (r *Renderer) drawClock(dst draw.Image, now time.Time) {
	drawHeader(dst, now.Format("Jan 02, 2006"))
	const scale = 1.5
	advance := segDigitWidth(scale) + 2
	x := 2
	for i, v := range []int{now.Hour(), now.Minute(), now.Second()} {
		drawSegmentDigit(dst, x, 22, v/10, scale)
		x += advance
		drawSegmentDigit(dst, x, 22, v%10, scale)
		x += advance
		if i < 2 {
			fillRect(dst, x+1, 30, x+3, 32, image1bit.On)
			fillRect(dst, x+1, 40, x+3, 42, image1bit.On)
			x += 5
		}
	}
}

func (r *Renderer) drawCPU(dst draw.Image, snap Snapshot) {
	drawHeader(dst, "CPU")
	val, unit := r.displayTemp(snap.CPUTemp)

	drawText(dst, 5, 30, "Usage:", image1bit.On)
	drawProgressBar(dst, 5, 32, 90, 8, snap.CPUUsage, fmt.Sprintf("%.0f%%", snap.CPUUsage))

	drawText(dst, 5, 55, "Temp:", image1bit.On)
	drawProgressBar(dst, 5, 57, 90, 6, tempPercent(snap.CPUTemp), fmt.Sprintf("%.0f%s", val, unit))
}

func (r *Renderer) drawRAM(dst draw.Image, snap Snapshot) {
	drawHeader(dst, "Memory")
	drawText(dst, 5, 30, fmt.Sprintf("Used: %.0f MB", snap.MemUsedMB), image1bit.On)
	drawText(dst, 5, 42, fmt.Sprintf("Total: %.0f MB", snap.MemTotalMB), image1bit.On)
	drawProgressBar(dst, 5, 45, 90, 8, snap.MemPercent, fmt.Sprintf("%.0f%%", snap.MemPercent))
}

func (r *Renderer) drawStorage(dst draw.Image, snap Snapshot) {
	drawHeader(dst, "Storage")
	drawText(dst, 5, 30, fmt.Sprintf("Used: %.1f GB", snap.DiskUsedGB), image1bit.On)
	drawText(dst, 5, 42, fmt.Sprintf("Total: %.1f GB", snap.DiskTotalGB), image1bit.On)
	drawProgressBar(dst, 5, 45, 90, 8, snap.DiskPercent, fmt.Sprintf("%.0f%%", snap.DiskPercent))
}

func (r *Renderer) drawTemp(dst draw.Image, snap Snapshot) {
	drawHeader(dst, "Temperature")
	val, unit := r.displayTemp(snap.CPUTemp)
	end := drawSegmentNumber(dst, 25, 24, int(math.Round(val)), 1.0)
	drawText(dst, end+4, 38, unit, image1bit.On)
	centerText(dst, 60, classifyTemp(snap.CPUTemp), image1bit.On)
}

func (r *Renderer) drawIP(dst draw.Image, snap Snapshot) {
	drawHeader(dst, "Network")
	outlineRect(dst, 5, 22, 122, 50, image1bit.On)
	ip := snap.IP
	status := "CONNECTED"
	if ip == "" {
		ip = "No Network"
		status = "DISCONNECTED"
	}
	centerText(dst, 40, ip, image1bit.On)
	centerText(dst, 61, status, image1bit.On)
}

func (r *Renderer) drawSun(dst draw.Image, snap Snapshot) {
	drawHeader(dst, "Sun")
	if !snap.SunValid {
		centerText(dst, 38, "location not set", image1bit.On)
		return
	}
	rows := []struct {
		label string
		t     time.Time
	}{
		{"Dawn", snap.Dawn},
		{"Sunrise", snap.Sunrise},
		{"Sunset", snap.Sunset},
		{"Dusk", snap.Dusk},
	}
	y := 26
	for _, row := range rows {
		drawText(dst, 8, y, row.label, image1bit.On)
		drawText(dst, 70, y, row.t.Format("15:04"), image1bit.On)
		y += 12
	}
}

func (r *Renderer) drawHA(dst draw.Image, snap Snapshot) {
	drawHeader(dst, "HA Status")

	drawText(dst, 5, 30, fmt.Sprintf("Updates: %d", snap.Updates), image1bit.On)
	if snap.Updates > 0 {
		fillRect(dst, 95, 20, 122, 31, image1bit.On)
		drawText(dst, 106, 30, "!", image1bit.Off)
	} else {
		outlineRect(dst, 95, 20, 122, 31, image1bit.On)
		drawText(dst, 101, 30, "OK", image1bit.On)
	}

	backup := "Backup: " + snap.BackupState
	if !snap.LastBackup.IsZero() {
		backup = "Backup: " + snap.LastBackup.Format("02/01/06")
	}
	drawText(dst, 5, 43, backup, image1bit.On)
	if snap.BackupState == "OK" {
		outlineRect(dst, 95, 33, 122, 44, image1bit.On)
		drawText(dst, 101, 43, "OK", image1bit.On)
	} else {
		fillRect(dst, 95, 33, 122, 44, image1bit.On)
		drawText(dst, 106, 43, "!", image1bit.Off)
	}

	core := "Core: unknown"
	if snap.CoreVersion != "" {
		core = fmt.Sprintf("Core: %s %s", snap.CoreVersion, snap.CoreState)
	}
	drawText(dst, 5, 58, core, image1bit.On)
}

// displayTemp converts a Celsius reading into the configured display unit.
func (r *Renderer) displayTemp(c float64) (float64, string) {
	if r.unit == Fahrenheit {
		return c*9/5 + 32, "°F"
	}
	return c, "°C"
}

// classifyTemp buckets a Celsius reading the way the case labels it.
func classifyTemp(c float64) string {
	switch {
	case c < 50:
		return "NORMAL"
	case c < 70:
		return "WARM"
	default:
		return "HOT"
	}
}

// tempPercent maps a Celsius reading onto a 20-80 degree bar range.
func tempPercent(c float64) float64 {
	pct := (c - 20) / 60 * 100
	if pct < 0 {
		return 0
	}
	if pct > 100 {
		return 100
	}
	return pct
}

// segNumberWidth returns the drawn width of n in seven-segment digits.
func segNumberWidth(n int, scale float64) int {
	w := 0
	if n < 0 {
		w += int(4*scale) + 2
		n = -n
	}
	digits := len(fmt.Sprintf("%d", n))
	w += digits*segDigitWidth(scale) + (digits-1)*2
	return w
}

// splitLines breaks s into at most two lines of limit runes for the
// failure overlay.
func splitLines(s string, limit int) (string, string) {
	runes := []rune(s)
	if len(runes) <= limit {
		return s, ""
	}
	return string(runes[:limit]), string(runes[limit:min(len(runes), 2*limit)])
}
