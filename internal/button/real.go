//go:build linux

package button

import (
	"fmt"

	"github.com/warthog618/go-gpiocdev"
)

// RealReader reads the button from actual hardware using the Linux GPIO
// character device.
type RealReader struct {
	chip *gpiocdev.Chip
	pin  *gpiocdev.Line
}

// NewRealReader creates a button reader for actual Raspberry Pi hardware.
func NewRealReader(pin int) (*RealReader, error) {
	chip, err := gpiocdev.NewChip("gpiochip0")
	if err != nil {
		return nil, fmt.Errorf("open gpio chip: %w", err)
	}

	// The Argon board wires the button between the pin and ground, so the
	// line needs the internal pull-up and reads low while pressed.
	line, err := chip.RequestLine(pin, gpiocdev.AsInput, gpiocdev.WithPullUp)
	if err != nil {
		chip.Close()
		return nil, fmt.Errorf("request button pin %d: %w", pin, err)
	}

	return &RealReader{
		chip: chip,
		pin:  line,
	}, nil
}

// Read returns the logical button state.
// Inverts the raw level: low (0) = pressed, high (1) = released.
func (r *RealReader) Read() (bool, error) {
	raw, err := r.pin.Value()
	if err != nil {
		return false, fmt.Errorf("read button pin: %w", err)
	}
	return raw == 0, nil
}

// Close releases GPIO resources.
// Reconfigures the pin back to a pulled-up input before closing so the
// line level stays defined for the board's power MCU across restarts.
func (r *RealReader) Close() error {
	var errs []error

	if r.pin != nil {
		if err := r.pin.Reconfigure(gpiocdev.AsInput, gpiocdev.WithPullUp); err != nil {
			errs = append(errs, fmt.Errorf("reconfigure button pin: %w", err))
		}
		if err := r.pin.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close button pin: %w", err))
		}
	}
	if r.chip != nil {
		if err := r.chip.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close chip: %w", err))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("close errors: %v", errs)
	}
	return nil
}
