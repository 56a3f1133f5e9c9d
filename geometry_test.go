package nanoui

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRectContains(t *testing.T) {
	r := Rc(10, 20, 100, 50)
	assert.True(t, r.Contains(Pt(10, 20)))
	assert.True(t, r.Contains(Pt(109, 69)))
	assert.False(t, r.Contains(Pt(110, 20)), "right edge is exclusive")
	assert.False(t, r.Contains(Pt(10, 70)), "bottom edge is exclusive")
	assert.False(t, r.Contains(Pt(9, 20)))
}

func TestRectInset(t *testing.T) {
	r := Rc(0, 0, 100, 100)
	assert.Equal(t, Rc(10, 10, 80, 80), r.Inset(Uniform(10)))
	assert.Equal(t, Rc(5, 10, 75, 60), r.Inset(Padding{Left: 5, Top: 10, Right: 20, Bottom: 30}))

	// Over-insetting clamps to zero area instead of going negative.
	tiny := Rc(0, 0, 10, 10).Inset(Uniform(20))
	assert.Equal(t, float32(0), tiny.Width)
	assert.Equal(t, float32(0), tiny.Height)
	assert.True(t, tiny.Size().IsEmpty())
}

func TestRectUnionAndIntersects(t *testing.T) {
	a := Rc(0, 0, 10, 10)
	b := Rc(5, 5, 10, 10)
	c := Rc(20, 20, 5, 5)

	assert.Equal(t, Rc(0, 0, 15, 15), a.Union(b))
	assert.True(t, a.Intersects(b))
	assert.False(t, a.Intersects(c))
	assert.False(t, a.Intersects(Rc(10, 0, 5, 5)), "edge touch is not overlap")

	u := a.Union(c)
	assert.True(t, u.Contains(Pt(0, 0)))
	assert.True(t, u.Contains(Pt(24, 24)))
}

func TestRectAccessors(t *testing.T) {
	r := Rc(10, 20, 30, 40)
	assert.Equal(t, Pt(10, 20), r.Origin())
	assert.Equal(t, Sz(30, 40), r.Size())
	assert.Equal(t, float32(40), r.MaxX())
	assert.Equal(t, float32(60), r.MaxY())
	assert.Equal(t, Pt(25, 40), r.Center())
	assert.Equal(t, Rc(15, 18, 30, 40), r.Offset(Pt(5, -2)))
}

func TestPointArithmetic(t *testing.T) {
	assert.Equal(t, Pt(4, 6), Pt(1, 2).Add(Pt(3, 4)))
	assert.Equal(t, Pt(-2, -2), Pt(1, 2).Sub(Pt(3, 4)))
	assert.Equal(t, float32(5), Pt(0, 0).Distance(Pt(3, 4)))
}

func TestRangeContains(t *testing.T) {
	rg := Range{Location: 10, Length: 5}
	assert.Equal(t, float32(15), rg.Max())
	assert.True(t, rg.Contains(10))
	assert.True(t, rg.Contains(14.5))
	assert.False(t, rg.Contains(15))
	assert.False(t, rg.Contains(9))
}

func TestPaddingSums(t *testing.T) {
	p := Padding{Left: 1, Top: 2, Right: 3, Bottom: 4}
	assert.Equal(t, float32(4), p.Horizontal())
	assert.Equal(t, float32(6), p.Vertical())
}

func TestNativeGeometryRoundTrip(t *testing.T) {
	r := Rc(1.5, 2.5, 3.5, 4.5)
	assert.Equal(t, r, fromNativeRect(nativeRect(r)))

	p := Pt(-7.25, 8.75)
	assert.Equal(t, p, fromNativePoint(nativePoint(p)))

	s := Sz(640, 480)
	assert.Equal(t, s, fromNativeSize(nativeSize(s)))
}

func TestScreenFlipIsInvolutive(t *testing.T) {
	memRT(t)
	r := Rc(100, 150, 400, 300)
	assert.Equal(t, r, flipRect(flipRect(r)))
}
