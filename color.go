package nanoui

import "github.com/chewxy/math32"

// Color is a packed RGBA value, 0xRRGGBBAA.
type Color uint32

// Common colors.
const (
	Transparent Color = 0x00000000
	Black       Color = 0x000000FF
	White       Color = 0xFFFFFFFF
	Red         Color = 0xFF0000FF
	Green       Color = 0x00FF00FF
	Blue        Color = 0x0000FFFF
)

// RGBA builds a color from 8-bit components.
func RGBA(r, g, b, a uint8) Color {
	return Color(r)<<24 | Color(g)<<16 | Color(b)<<8 | Color(a)
}

// RGB builds an opaque color from 8-bit components.
func RGB(r, g, b uint8) Color {
	return RGBA(r, g, b, 0xFF)
}

// RGBAF builds a color from unit-interval components, clamped.
func RGBAF(r, g, b, a float32) Color {
	conv := func(v float32) uint8 {
		return uint8(math32.Round(math32.Min(1, math32.Max(0, v)) * 255))
	}
	return RGBA(conv(r), conv(g), conv(b), conv(a))
}

// R returns the red component.
func (c Color) R() uint8 { return uint8(c >> 24) }

// G returns the green component.
func (c Color) G() uint8 { return uint8(c >> 16) }

// B returns the blue component.
func (c Color) B() uint8 { return uint8(c >> 8) }

// A returns the alpha component.
func (c Color) A() uint8 { return uint8(c) }

// WithAlpha replaces the alpha component.
func (c Color) WithAlpha(a uint8) Color {
	return c&^0xFF | Color(a)
}

// Floats returns the components as unit-interval float64, the shape the
// drawing backend takes.
func (c Color) Floats() (r, g, b, a float64) {
	return float64(c.R()) / 255, float64(c.G()) / 255, float64(c.B()) / 255, float64(c.A()) / 255
}
