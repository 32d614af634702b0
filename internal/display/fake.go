package display

import (
	"periph.io/x/devices/v3/ssd1306/image1bit"
)

// FakeDevice records drawn frames for test assertions.
type FakeDevice struct {
	// Frames holds a pixel-buffer copy of every frame drawn.
	Frames [][]byte

	// Halted is set once Halt has been called.
	Halted bool

	// DrawError, if set, will be returned by Draw.
	DrawError error
}

func (f *FakeDevice) Draw(frame *image1bit.VerticalLSB) error {
	if f.DrawError != nil {
		return f.DrawError
	}
	pix := make([]byte, len(frame.Pix))
	copy(pix, frame.Pix)
	f.Frames = append(f.Frames, pix)
	return nil
}

func (f *FakeDevice) Halt() error {
	f.Halted = true
	return nil
}
