package nanoui

import (
	"fmt"

	"github.com/obinnaokechukwu/nanoui/internal/quartz"
)

// Font owns one reference to a backend font. A nil or closed Font
// measures zero and draws nothing.
type Font struct {
	ref  quartz.FontRef
	b    quartz.Backend
	size float32
}

// NewFont looks the named font up at the given point size.
func NewFont(name string, size float32) (*Font, error) {
	Init()
	b := quartz.Active()
	ref, err := b.NewFont(name, float64(size))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFontNotFound, err)
	}
	return &Font{ref: ref, b: b, size: size}, nil
}

// Retain returns a second owner of the same font.
func (f *Font) Retain() *Font {
	if f == nil || f.ref == 0 {
		return nil
	}
	f.b.RetainFont(f.ref)
	return &Font{ref: f.ref, b: f.b, size: f.size}
}

// Close drops this owner's reference. Safe on nil, safe twice.
func (f *Font) Close() error {
	if f == nil || f.ref == 0 {
		return nil
	}
	f.b.ReleaseFont(f.ref)
	f.ref = 0
	return nil
}

// Size returns the point size the font was created at.
func (f *Font) Size() float32 {
	if f == nil {
		return 0
	}
	return f.size
}

// CapHeight returns the height of flat capital letters above the
// baseline.
func (f *Font) CapHeight() float32 {
	if f == nil || f.ref == 0 {
		return 0
	}
	return float32(f.b.FontCapHeight(f.ref))
}

// Width measures the advance of text in this font.
func (f *Font) Width(text string) float32 {
	if f == nil || f.ref == 0 {
		return 0
	}
	return float32(f.b.StringWidth(f.ref, text))
}
