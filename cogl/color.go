package cogl

import (
	"fmt"

	"github.com/chewxy/math32"
)

// Color is an 8-bit-per-channel RGBA color. Channels are premultiplied
// when the caller says so; cogl itself never converts.
type Color struct {
	R, G, B, A uint8
}

// White is the default material color.
var White = Color{0xff, 0xff, 0xff, 0xff}

// ColorFromFloats builds a Color from channels in [0,1]. Out of range values
// are clamped.
func ColorFromFloats(r, g, b, a float32) Color {
	return Color{floatToByte(r), floatToByte(g), floatToByte(b), floatToByte(a)}
}

func floatToByte(f float32) uint8 {
	f = math32.Max(0, math32.Min(1, f))
	return uint8(math32.Round(f * 255))
}

// Floats returns the channels scaled to [0,1].
func (c Color) Floats() [4]float32 {
	return [4]float32{
		float32(c.R) / 255, float32(c.G) / 255, float32(c.B) / 255, float32(c.A) / 255,
	}
}

// Opaque reports whether the alpha channel is fully set.
func (c Color) Opaque() bool { return c.A == 0xff }

func (c Color) String() string {
	return fmt.Sprintf("#%02x%02x%02x%02x", c.R, c.G, c.B, c.A)
}

// floatColorOpaque reports whether a float color's alpha quantizes to 0xff.
func floatColorOpaque(c [4]float32) bool {
	return floatToByte(c[3]) == 0xff
}

// Unpremultiplied divides the color channels of a premultiplied color by
// its alpha. Transparent and opaque colors are returned unchanged.
func (c Color) Unpremultiplied() Color {
	if c.A == 0 || c.A == 0xff {
		return c
	}
	div := func(v uint8) uint8 { return uint8(min(int(v)*0xff/int(c.A), 0xff)) }
	return Color{div(c.R), div(c.G), div(c.B), c.A}
}
