package fanctl

import (
	"fmt"
	"time"

	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/host/v3"
)

// DefaultBus is the I2C bus the Argon MCU answers on.
const DefaultBus = "1"

// MCUAddr is the Argon MCU's fixed I2C address.
const MCUAddr = 0x1a

// shutdownByte arms the MCU power cut once the host halts.
const shutdownByte = 0xFF

// MCU is the Argon ONE microcontroller on the I2C bus. A single byte
// write of 0-100 sets the fan duty percent.
type MCU struct {
	bus i2c.BusCloser
	dev i2c.Dev
}

// OpenMCU initialises the periph host and opens the MCU device.
func OpenMCU(busName string) (*MCU, error) {
	if _, err := host.Init(); err != nil {
		return nil, fmt.Errorf("periph host init: %w", err)
	}
	bus, err := i2creg.Open(busName)
	if err != nil {
		return nil, fmt.Errorf("open i2c bus %q: %w", busName, err)
	}
	return &MCU{bus: bus, dev: i2c.Dev{Bus: bus, Addr: MCUAddr}}, nil
}

func (m *MCU) SetDuty(percent int) error {
	b := byte(min(max(percent, 0), 100))
	if err := m.dev.Tx([]byte{b}, nil); err != nil {
		return fmt.Errorf("write fan duty: %w", err)
	}
	return nil
}

// SignalShutdown stops the fan and arms the MCU power cut. Called from
// the host shutdown hook, never from the control loop.
func (m *MCU) SignalShutdown() error {
	if err := m.SetDuty(0); err != nil {
		return err
	}
	time.Sleep(100 * time.Millisecond)
	if err := m.dev.Tx([]byte{shutdownByte}, nil); err != nil {
		return fmt.Errorf("write shutdown signal: %w", err)
	}
	return nil
}

// Close releases the I2C bus.
func (m *MCU) Close() error {
	return m.bus.Close()
}
