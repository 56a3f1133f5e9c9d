package nanoui

import (
	"github.com/obinnaokechukwu/nanoui/internal/objc"
	"github.com/obinnaokechukwu/nanoui/internal/quartz"
)

// LineJoin selects how stroked segments connect.
type LineJoin int

const (
	JoinMiter LineJoin = quartz.LineJoinMiter
	JoinRound LineJoin = quartz.LineJoinRound
	JoinBevel LineJoin = quartz.LineJoinBevel
)

// LineCap selects how stroked segments end.
type LineCap int

const (
	CapButt   LineCap = quartz.LineCapButt
	CapRound  LineCap = quartz.LineCapRound
	CapSquare LineCap = quartz.LineCapSquare
)

// TextAlign positions drawn text relative to its anchor point.
type TextAlign int

const (
	AlignLeft TextAlign = iota
	AlignCenter
	AlignRight
)

// GraphicContext wraps the drawing context of the current draw pass. It
// is borrowed: valid only inside the draw callback it was handed to, on
// the main thread, and must not be retained past it.
type GraphicContext struct {
	ctx quartz.ContextRef
	b   quartz.Backend
}

// currentGraphicContext captures the thread's active native context.
func currentGraphicContext() *GraphicContext {
	gc := objc.ClassProperty("NSGraphicsContext", "currentContext")
	if gc == objc.Nil {
		return nil
	}
	ctx := quartz.ContextRef(objc.Call[uintptr](gc, "CGContext"))
	if ctx == 0 {
		return nil
	}
	return &GraphicContext{ctx: ctx, b: quartz.Active()}
}

// Ref exposes the underlying context handle for interoperation.
func (g *GraphicContext) Ref() uintptr { return uintptr(g.ctx) }

// Save pushes the graphics state. Every Save must be paired with a
// Restore before the draw callback returns.
func (g *GraphicContext) Save() { g.b.SaveGState(g.ctx) }

// Restore pops the graphics state.
func (g *GraphicContext) Restore() { g.b.RestoreGState(g.ctx) }

// SetAlpha sets the global alpha for subsequent drawing.
func (g *GraphicContext) SetAlpha(alpha float32) {
	g.b.SetAlpha(g.ctx, float64(alpha))
}

// BeginLayer opens a transparency layer; drawing composites as a unit
// when EndLayer closes it.
func (g *GraphicContext) BeginLayer() { g.b.BeginTransparencyLayer(g.ctx) }

// EndLayer closes the current transparency layer.
func (g *GraphicContext) EndLayer() { g.b.EndTransparencyLayer(g.ctx) }

// Translate shifts the coordinate origin by d.
func (g *GraphicContext) Translate(d Point) {
	g.b.TranslateCTM(g.ctx, float64(d.X), float64(d.Y))
}

// ClipRect intersects the clip region with r.
func (g *GraphicContext) ClipRect(r Rect) {
	g.b.ClipToRect(g.ctx, float64(r.X), float64(r.Y), float64(r.Width), float64(r.Height))
}

// ClipMask clips subsequent drawing to the opaque parts of img within r.
func (g *GraphicContext) ClipMask(img *Image, r Rect) {
	if img == nil || img.ref == 0 {
		return
	}
	g.b.ClipToMask(g.ctx, img.ref, float64(r.X), float64(r.Y), float64(r.Width), float64(r.Height))
}

// ClipBounds returns the bounding box of the current clip region.
func (g *GraphicContext) ClipBounds() Rect {
	x, y, w, h := g.b.ClipBoundingBox(g.ctx)
	return Rect{X: float32(x), Y: float32(y), Width: float32(w), Height: float32(h)}
}

// SetLineWidth sets the stroke width.
func (g *GraphicContext) SetLineWidth(w float32) {
	g.b.SetLineWidth(g.ctx, float64(w))
}

// SetLineJoin sets the stroke join style.
func (g *GraphicContext) SetLineJoin(j LineJoin) {
	g.b.SetLineJoin(g.ctx, int(j))
}

// SetLineCap sets the stroke cap style.
func (g *GraphicContext) SetLineCap(c LineCap) {
	g.b.SetLineCap(g.ctx, int(c))
}

// SetFillColor sets the fill color for subsequent fills.
func (g *GraphicContext) SetFillColor(c Color) {
	r, gr, b, a := c.Floats()
	g.b.SetRGBFillColor(g.ctx, r, gr, b, a)
}

// SetStrokeColor sets the stroke color for subsequent strokes.
func (g *GraphicContext) SetStrokeColor(c Color) {
	r, gr, b, a := c.Floats()
	g.b.SetRGBStrokeColor(g.ctx, r, gr, b, a)
}

// FillRect fills r with the fill color.
func (g *GraphicContext) FillRect(r Rect) {
	g.b.FillRect(g.ctx, float64(r.X), float64(r.Y), float64(r.Width), float64(r.Height))
}

// StrokeRect outlines r with the stroke color.
func (g *GraphicContext) StrokeRect(r Rect) {
	g.b.StrokeRect(g.ctx, float64(r.X), float64(r.Y), float64(r.Width), float64(r.Height))
}

// StrokeLine draws a segment from a to b.
func (g *GraphicContext) StrokeLine(a, b Point) {
	g.b.StrokeLine(g.ctx, float64(a.X), float64(a.Y), float64(b.X), float64(b.Y))
}

// FillEllipse fills the ellipse inscribed in r.
func (g *GraphicContext) FillEllipse(r Rect) {
	g.b.FillEllipse(g.ctx, float64(r.X), float64(r.Y), float64(r.Width), float64(r.Height))
}

// StrokeEllipse outlines the ellipse inscribed in r.
func (g *GraphicContext) StrokeEllipse(r Rect) {
	g.b.StrokeEllipse(g.ctx, float64(r.X), float64(r.Y), float64(r.Width), float64(r.Height))
}

// FillRoundedRect fills r with corners rounded by radius. The graphics
// state is saved and restored around the fill so the rounded path never
// leaks into later drawing.
func (g *GraphicContext) FillRoundedRect(r Rect, radius float32) {
	g.Save()
	g.b.FillRoundedRect(g.ctx, float64(r.X), float64(r.Y), float64(r.Width), float64(r.Height), float64(radius))
	g.Restore()
}

// StrokeRoundedRect outlines r with corners rounded by radius, with the
// same state discipline as FillRoundedRect.
func (g *GraphicContext) StrokeRoundedRect(r Rect, radius float32) {
	g.Save()
	g.b.StrokeRoundedRect(g.ctx, float64(r.X), float64(r.Y), float64(r.Width), float64(r.Height), float64(radius))
	g.Restore()
}

// DrawImage draws img scaled into r.
func (g *GraphicContext) DrawImage(img *Image, r Rect) {
	if img == nil || img.ref == 0 {
		return
	}
	g.b.DrawImage(g.ctx, img.ref, float64(r.X), float64(r.Y), float64(r.Width), float64(r.Height))
}

// DrawText draws text with its baseline at pos, aligned relative to
// pos.X. A nil font draws nothing.
func (g *GraphicContext) DrawText(f *Font, text string, pos Point, align TextAlign) {
	if f == nil || f.ref == 0 || text == "" {
		return
	}
	x := float64(pos.X)
	switch align {
	case AlignCenter:
		x -= g.b.StringWidth(f.ref, text) / 2
	case AlignRight:
		x -= g.b.StringWidth(f.ref, text)
	}
	g.b.DrawText(g.ctx, f.ref, text, x, float64(pos.Y))
}
