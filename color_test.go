package nanoui

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestColorPacking(t *testing.T) {
	c := RGBA(0x12, 0x34, 0x56, 0x78)
	assert.Equal(t, Color(0x12345678), c)
	assert.Equal(t, uint8(0x12), c.R())
	assert.Equal(t, uint8(0x34), c.G())
	assert.Equal(t, uint8(0x56), c.B())
	assert.Equal(t, uint8(0x78), c.A())

	assert.Equal(t, uint8(0xFF), RGB(1, 2, 3).A())
	assert.Equal(t, Color(0x12345680), c.WithAlpha(0x80))
}

func TestColorFromFloats(t *testing.T) {
	assert.Equal(t, White, RGBAF(1, 1, 1, 1))
	assert.Equal(t, Transparent, RGBAF(0, 0, 0, 0))
	assert.Equal(t, RGBA(128, 0, 255, 255), RGBAF(0.501, -2, 7, 1))
}

func TestColorFloats(t *testing.T) {
	r, g, b, a := Red.Floats()
	assert.Equal(t, 1.0, r)
	assert.Equal(t, 0.0, g)
	assert.Equal(t, 0.0, b)
	assert.Equal(t, 1.0, a)

	_, _, _, ha := RGBA(0, 0, 0, 51).Floats()
	assert.InDelta(t, 0.2, ha, 1e-9)
}
