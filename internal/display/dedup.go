package display

import (
	"bytes"

	"periph.io/x/devices/v3/ssd1306/image1bit"
)

// Deduper wraps a Device and drops frames whose pixels match the last
// frame actually drawn. The render loop produces a frame every poll tick;
// the panel only needs to see changes.
type Deduper struct {
	dev  Device
	last []byte
}

// NewDeduper returns a deduplicating wrapper around dev.
func NewDeduper(dev Device) *Deduper {
	return &Deduper{dev: dev}
}

func (d *Deduper) Draw(frame *image1bit.VerticalLSB) error {
	if d.last != nil && bytes.Equal(d.last, frame.Pix) {
		return nil
	}
	if err := d.dev.Draw(frame); err != nil {
		// Leave the cache untouched so the next tick retries the write.
		return err
	}
	if len(d.last) != len(frame.Pix) {
		d.last = make([]byte, len(frame.Pix))
	}
	copy(d.last, frame.Pix)
	return nil
}

func (d *Deduper) Halt() error {
	return d.dev.Halt()
}
