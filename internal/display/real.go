package display

import (
	"errors"
	"fmt"
	"image"

	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/devices/v3/ssd1306"
	"periph.io/x/devices/v3/ssd1306/image1bit"
	"periph.io/x/host/v3"
)

// DefaultBus is the I2C bus the Argon ONE wires the panel to.
const DefaultBus = "1"

// OLED is the real SSD1306 panel on the I2C bus.
type OLED struct {
	bus i2c.BusCloser
	dev *ssd1306.Dev
}

// OpenOLED initialises the periph host, opens the I2C bus and probes the
// 128x64 panel at its fixed address.
func OpenOLED(busName string) (*OLED, error) {
	if _, err := host.Init(); err != nil {
		return nil, fmt.Errorf("periph host init: %w", err)
	}
	bus, err := i2creg.Open(busName)
	if err != nil {
		return nil, fmt.Errorf("open i2c bus %q: %w", busName, err)
	}
	dev, err := ssd1306.NewI2C(bus, &ssd1306.Opts{W: 128, H: 64})
	if err != nil {
		bus.Close()
		return nil, fmt.Errorf("probe ssd1306: %w", err)
	}
	return &OLED{bus: bus, dev: dev}, nil
}

func (o *OLED) Draw(frame *image1bit.VerticalLSB) error {
	if err := o.dev.Draw(o.dev.Bounds(), frame, image.Point{}); err != nil {
		return fmt.Errorf("ssd1306 draw: %w", err)
	}
	return nil
}

func (o *OLED) Halt() error {
	var errs []error
	if err := o.dev.Halt(); err != nil {
		errs = append(errs, fmt.Errorf("halt ssd1306: %w", err))
	}
	if err := o.bus.Close(); err != nil {
		errs = append(errs, fmt.Errorf("close i2c bus: %w", err))
	}
	return errors.Join(errs...)
}
