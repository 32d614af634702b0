// Package display drives the Argon ONE's SSD1306 OLED panel. The render
// loop hands it prepared 1-bit frames; the real device sits behind a small
// interface so tests can capture frames instead of touching I2C.
package display

import (
	"periph.io/x/devices/v3/ssd1306/image1bit"
)

// Device shows prepared frames on the panel.
type Device interface {
	// Draw pushes one full frame to the panel.
	Draw(frame *image1bit.VerticalLSB) error

	// Halt blanks the panel and releases the bus.
	Halt() error
}
