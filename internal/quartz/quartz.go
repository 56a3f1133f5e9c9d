// Package quartz is the drawing backend behind nanoui's graphic context:
// CoreGraphics and CoreText on darwin, an in-memory recording backend
// everywhere else and in tests.
//
// All geometry passes through as plain float64 scalars so the package has
// no dependency on the toolkit's value types.
package quartz

import "sync"

// ContextRef is an opaque drawing context handle: a CGContextRef on the
// native backend, a recorder token on the memory backend. It is borrowed
// from the current draw pass and must not be retained past it.
type ContextRef uintptr

// ImageRef is an opaque reference-counted image handle.
type ImageRef uintptr

// FontRef is an opaque reference-counted font handle.
type FontRef uintptr

// Line join styles, matching CGLineJoin values.
const (
	LineJoinMiter = 0
	LineJoinRound = 1
	LineJoinBevel = 2
)

// Line cap styles, matching CGLineCap values.
const (
	LineCapButt   = 0
	LineCapRound  = 1
	LineCapSquare = 2
)

// Backend is the set of drawing, image and font primitives a platform
// must provide. Context operations are only called during a draw pass on
// the main thread; image and font operations may be called from anywhere.
type Backend interface {
	Name() string

	// Context state.
	SaveGState(c ContextRef)
	RestoreGState(c ContextRef)
	SetAlpha(c ContextRef, alpha float64)
	BeginTransparencyLayer(c ContextRef)
	EndTransparencyLayer(c ContextRef)
	TranslateCTM(c ContextRef, x, y float64)
	// FlipCTM concatenates a vertical flip around height, the dance
	// needed to draw top-left-origin images into a flipped context.
	FlipCTM(c ContextRef, height float64)

	// Clipping and paths.
	Clip(c ContextRef)
	EOClip(c ContextRef)
	ResetClip(c ContextRef)
	ClipToRect(c ContextRef, x, y, w, h float64)
	ClipToMask(c ContextRef, img ImageRef, x, y, w, h float64)
	AddRect(c ContextRef, x, y, w, h float64)
	BeginPath(c ContextRef)
	ClosePath(c ContextRef)
	ClipBoundingBox(c ContextRef) (x, y, w, h float64)

	// Stroke/fill parameters.
	SetLineWidth(c ContextRef, w float64)
	SetLineJoin(c ContextRef, join int)
	SetLineCap(c ContextRef, cap int)
	SetRGBFillColor(c ContextRef, r, g, b, a float64)
	SetRGBStrokeColor(c ContextRef, r, g, b, a float64)

	// Primitives.
	FillRect(c ContextRef, x, y, w, h float64)
	StrokeRect(c ContextRef, x, y, w, h float64)
	StrokeLine(c ContextRef, x0, y0, x1, y1 float64)
	FillEllipse(c ContextRef, x, y, w, h float64)
	StrokeEllipse(c ContextRef, x, y, w, h float64)
	FillRoundedRect(c ContextRef, x, y, w, h, radius float64)
	StrokeRoundedRect(c ContextRef, x, y, w, h, radius float64)
	DrawImage(c ContextRef, img ImageRef, x, y, w, h float64)
	DrawText(c ContextRef, f FontRef, text string, x, y float64)

	// Images. Acquisition returns an owned reference; RetainImage adds
	// one; ReleaseImage drops one and frees at zero.
	LoadImagePNG(path string) (ImageRef, error)
	RetainImage(img ImageRef)
	ReleaseImage(img ImageRef)
	ImageSize(img ImageRef) (w, h int)
	CopyImage(img ImageRef) ImageRef
	SubImage(img ImageRef, x, y, w, h float64) ImageRef
	TintedImage(img ImageRef, r, g, b, a float64) ImageRef

	// Fonts.
	NewFont(name string, size float64) (FontRef, error)
	RetainFont(f FontRef)
	ReleaseFont(f FontRef)
	FontCapHeight(f FontRef) float64
	StringWidth(f FontRef, text string) float64
}

var (
	backendMu sync.RWMutex
	active    Backend
)

// Active returns the backend in use, installing the memory backend on
// first use if no native backend was loaded.
func Active() Backend {
	backendMu.RLock()
	b := active
	backendMu.RUnlock()
	if b != nil {
		return b
	}

	backendMu.Lock()
	defer backendMu.Unlock()
	if active == nil {
		active = Mem()
	}
	return active
}

// SetBackend installs b as the active backend. Called once during process
// setup, together with the objc runtime selection.
func SetBackend(b Backend) {
	backendMu.Lock()
	defer backendMu.Unlock()
	active = b
}
