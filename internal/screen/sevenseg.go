package screen

import (
	"image/draw"
	"strconv"

	"periph.io/x/devices/v3/ssd1306/image1bit"
)

// sevenSegments maps a digit to its active segments, in the order
// a (top), b (top right), c (bottom right), d (bottom), e (bottom left),
// f (top left), g (middle).
var sevenSegments = [10][7]bool{
	0: {true, true, true, true, true, true, false},
	1: {false, true, true, false, false, false, false},
	2: {true, true, false, true, true, false, true},
	3: {true, true, true, true, false, false, true},
	4: {false, true, true, false, false, true, true},
	5: {true, false, true, true, false, true, true},
	6: {true, false, true, true, true, true, true},
	7: {true, true, true, false, false, false, false},
	8: {true, true, true, true, true, true, true},
	9: {true, true, true, true, false, true, true},
}

// segDigitWidth returns the drawn width of one digit at the given scale.
func segDigitWidth(scale float64) int {
	return 2*int(2*scale) + int(8*scale)
}

// drawSegmentDigit draws one seven-segment digit with its top-left corner
// at (x, y). scale 1.0 gives a 12x26 digit; the clock uses 1.5.
func drawSegmentDigit(dst draw.Image, x, y, digit int, scale float64) {
	if digit < 0 || digit > 9 {
		return
	}
	segW := int(8 * scale)  // horizontal segment length
	segH := int(2 * scale)  // segment thickness
	segV := int(10 * scale) // vertical segment length
	segs := sevenSegments[digit]

	if segs[0] { // a
		fillRect(dst, x+segH, y, x+segH+segW, y+segH, image1bit.On)
	}
	if segs[1] { // b
		fillRect(dst, x+segH+segW, y+segH, x+segH+segW+segH, y+segH+segV, image1bit.On)
	}
	if segs[2] { // c
		fillRect(dst, x+segH+segW, y+segH+segV+segH, x+segH+segW+segH, y+segH+segV+segH+segV, image1bit.On)
	}
	if segs[3] { // d
		fillRect(dst, x+segH, y+segH+segV+segH+segV, x+segH+segW, y+segH+segV+segH+segV+segH, image1bit.On)
	}
	if segs[4] { // e
		fillRect(dst, x, y+segH+segV+segH, x+segH, y+segH+segV+segH+segV, image1bit.On)
	}
	if segs[5] { // f
		fillRect(dst, x, y+segH, x+segH, y+segH+segV, image1bit.On)
	}
	if segs[6] { // g
		fillRect(dst, x+segH, y+segH+segV, x+segH+segW, y+segH+segV+segH, image1bit.On)
	}
}

// drawSegmentNumber draws n in seven-segment digits with the top-left of
// the first glyph at (x, y) and returns the x just past the last glyph.
func drawSegmentNumber(dst draw.Image, x, y, n int, scale float64) int {
	if n < 0 {
		segH := int(2 * scale)
		segV := int(10 * scale)
		fillRect(dst, x, y+segH+segV, x+int(4*scale), y+segH+segV+segH, image1bit.On)
		x += int(4*scale) + 2
		n = -n
	}
	for i, ch := range strconv.Itoa(n) {
		if i > 0 {
			x += 2
		}
		drawSegmentDigit(dst, x, y, int(ch-'0'), scale)
		x += segDigitWidth(scale)
	}
	return x
}
