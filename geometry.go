package nanoui

import (
	"github.com/chewxy/math32"

	"github.com/obinnaokechukwu/nanoui/internal/objc"
)

// Point is a position in view coordinates. The coordinate system is
// top-left origin with Y growing downward, matching flipped views.
type Point struct {
	X, Y float32
}

// Size is a width and height pair.
type Size struct {
	Width, Height float32
}

// Rect is an axis-aligned rectangle.
type Rect struct {
	X, Y, Width, Height float32
}

// Range is a location and length pair.
type Range struct {
	Location, Length float32
}

// Padding is a per-edge inset.
type Padding struct {
	Left, Top, Right, Bottom float32
}

// Pt is shorthand for Point{x, y}.
func Pt(x, y float32) Point { return Point{X: x, Y: y} }

// Sz is shorthand for Size{w, h}.
func Sz(w, h float32) Size { return Size{Width: w, Height: h} }

// Rc is shorthand for Rect{x, y, w, h}.
func Rc(x, y, w, h float32) Rect { return Rect{X: x, Y: y, Width: w, Height: h} }

func (p Point) Add(q Point) Point { return Point{X: p.X + q.X, Y: p.Y + q.Y} }
func (p Point) Sub(q Point) Point { return Point{X: p.X - q.X, Y: p.Y - q.Y} }

// Distance returns the euclidean distance to q.
func (p Point) Distance(q Point) float32 {
	return math32.Hypot(q.X-p.X, q.Y-p.Y)
}

// IsEmpty reports whether the size spans no area.
func (s Size) IsEmpty() bool { return s.Width <= 0 || s.Height <= 0 }

// Origin returns the rectangle's top-left corner.
func (r Rect) Origin() Point { return Point{X: r.X, Y: r.Y} }

// Size returns the rectangle's extent.
func (r Rect) Size() Size { return Size{Width: r.Width, Height: r.Height} }

// MaxX returns the right edge.
func (r Rect) MaxX() float32 { return r.X + r.Width }

// MaxY returns the bottom edge.
func (r Rect) MaxY() float32 { return r.Y + r.Height }

// Center returns the midpoint.
func (r Rect) Center() Point {
	return Point{X: r.X + r.Width/2, Y: r.Y + r.Height/2}
}

// Contains reports whether p lies inside the rectangle. The right and
// bottom edges are exclusive.
func (r Rect) Contains(p Point) bool {
	return p.X >= r.X && p.Y >= r.Y && p.X < r.MaxX() && p.Y < r.MaxY()
}

// Inset shrinks the rectangle by pad on each edge.
func (r Rect) Inset(pad Padding) Rect {
	return Rect{
		X:      r.X + pad.Left,
		Y:      r.Y + pad.Top,
		Width:  math32.Max(0, r.Width-pad.Left-pad.Right),
		Height: math32.Max(0, r.Height-pad.Top-pad.Bottom),
	}
}

// Offset translates the rectangle by d.
func (r Rect) Offset(d Point) Rect {
	return Rect{X: r.X + d.X, Y: r.Y + d.Y, Width: r.Width, Height: r.Height}
}

// Union returns the smallest rectangle covering both r and q.
func (r Rect) Union(q Rect) Rect {
	x0 := math32.Min(r.X, q.X)
	y0 := math32.Min(r.Y, q.Y)
	x1 := math32.Max(r.MaxX(), q.MaxX())
	y1 := math32.Max(r.MaxY(), q.MaxY())
	return Rect{X: x0, Y: y0, Width: x1 - x0, Height: y1 - y0}
}

// Intersects reports whether r and q overlap.
func (r Rect) Intersects(q Rect) bool {
	return r.X < q.MaxX() && q.X < r.MaxX() && r.Y < q.MaxY() && q.Y < r.MaxY()
}

// Max returns the end of the range.
func (rg Range) Max() float32 { return rg.Location + rg.Length }

// Contains reports whether v lies inside the range.
func (rg Range) Contains(v float32) bool {
	return v >= rg.Location && v < rg.Max()
}

// Horizontal returns the combined left and right inset.
func (p Padding) Horizontal() float32 { return p.Left + p.Right }

// Vertical returns the combined top and bottom inset.
func (p Padding) Vertical() float32 { return p.Top + p.Bottom }

// Uniform returns a padding with the same inset on every edge.
func Uniform(inset float32) Padding {
	return Padding{Left: inset, Top: inset, Right: inset, Bottom: inset}
}

// Native geometry conversions. The runtime speaks float64 structs.

func nativeRect(r Rect) objc.Rect {
	return objc.Rect{
		Origin: objc.Point{X: float64(r.X), Y: float64(r.Y)},
		Size:   objc.Size{Width: float64(r.Width), Height: float64(r.Height)},
	}
}

func fromNativeRect(r objc.Rect) Rect {
	return Rect{
		X:      float32(r.Origin.X),
		Y:      float32(r.Origin.Y),
		Width:  float32(r.Size.Width),
		Height: float32(r.Size.Height),
	}
}

func nativePoint(p Point) objc.Point {
	return objc.Point{X: float64(p.X), Y: float64(p.Y)}
}

func fromNativePoint(p objc.Point) Point {
	return Point{X: float32(p.X), Y: float32(p.Y)}
}

func nativeSize(s Size) objc.Size {
	return objc.Size{Width: float64(s.Width), Height: float64(s.Height)}
}

func fromNativeSize(s objc.Size) Size {
	return Size{Width: float32(s.Width), Height: float32(s.Height)}
}
