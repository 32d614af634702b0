package screen

import (
	"image"
	"image/draw"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
	"periph.io/x/devices/v3/ssd1306/image1bit"
)

// NewFrame returns a blank 1-bit frame sized for the panel.
func NewFrame() *image1bit.VerticalLSB {
	return image1bit.NewVerticalLSB(image.Rect(0, 0, Width, Height))
}

// drawText draws s with its baseline at y.
func drawText(dst draw.Image, x, y int, s string, ink image1bit.Bit) {
	d := font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(ink),
		Face: basicfont.Face7x13,
		Dot:  fixed.P(x, y),
	}
	d.DrawString(s)
}

// centerText draws s horizontally centered with its baseline at y.
func centerText(dst draw.Image, y int, s string, ink image1bit.Bit) {
	x := (Width - font.MeasureString(basicfont.Face7x13, s).Ceil()) / 2
	if x < 0 {
		x = 0
	}
	drawText(dst, x, y, s, ink)
}

// fillRect fills the inclusive rectangle (x0,y0)-(x1,y1), clipping to the
// frame.
func fillRect(dst draw.Image, x0, y0, x1, y1 int, ink image1bit.Bit) {
	for y := y0; y <= y1; y++ {
		for x := x0; x <= x1; x++ {
			if image.Pt(x, y).In(dst.Bounds()) {
				dst.Set(x, y, ink)
			}
		}
	}
}

// outlineRect draws the inclusive rectangle outline.
func outlineRect(dst draw.Image, x0, y0, x1, y1 int, ink image1bit.Bit) {
	fillRect(dst, x0, y0, x1, y0, ink)
	fillRect(dst, x0, y1, x1, y1, ink)
	fillRect(dst, x0, y0, x0, y1, ink)
	fillRect(dst, x1, y0, x1, y1, ink)
}

// drawHeader draws the inverted 14px title bar.
func drawHeader(dst draw.Image, title string) {
	fillRect(dst, 0, 0, Width-1, 13, image1bit.On)
	drawText(dst, 5, 11, title, image1bit.Off)
}

// drawProgressBar draws an outlined bar filled to pct percent, a warning
// tick past 80%, and a value label to the right of the bar.
func drawProgressBar(dst draw.Image, x, y, w, h int, pct float64, label string) {
	if pct < 0 {
		pct = 0
	}
	if pct > 100 {
		pct = 100
	}
	outlineRect(dst, x, y, x+w, y+h, image1bit.On)
	if fill := int(pct / 100 * float64(w)); fill > 0 {
		fillRect(dst, x, y, x+fill, y+h, image1bit.On)
	}
	if pct > 80 {
		fillRect(dst, x+w+3, y, x+w+6, y+h, image1bit.On)
	}
	if label != "" {
		drawText(dst, x+w+8, y+h, label, image1bit.On)
	}
}
