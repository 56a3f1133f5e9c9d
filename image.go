package nanoui

import (
	"fmt"

	"github.com/obinnaokechukwu/nanoui/internal/quartz"
)

// Image owns one reference to a backend image. The zero Image and a
// closed Image are safe no-ops everywhere they are accepted.
type Image struct {
	ref quartz.ImageRef
	b   quartz.Backend
}

// LoadImage decodes a PNG file into a backend image.
func LoadImage(path string) (*Image, error) {
	Init()
	b := quartz.Active()
	ref, err := b.LoadImagePNG(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrImageLoad, err)
	}
	return &Image{ref: ref, b: b}, nil
}

// adoptImage wraps an already-owned backend reference.
func adoptImage(b quartz.Backend, ref quartz.ImageRef) *Image {
	if ref == 0 {
		return nil
	}
	return &Image{ref: ref, b: b}
}

// Retain returns a second owner of the same pixels. Each owner closes
// independently.
func (i *Image) Retain() *Image {
	if i == nil || i.ref == 0 {
		return nil
	}
	i.b.RetainImage(i.ref)
	return &Image{ref: i.ref, b: i.b}
}

// Close drops this owner's reference. Further use of the image draws
// nothing. Safe to call on nil and safe to call twice.
func (i *Image) Close() error {
	if i == nil || i.ref == 0 {
		return nil
	}
	i.b.ReleaseImage(i.ref)
	i.ref = 0
	return nil
}

// Size returns the pixel dimensions, zero after Close.
func (i *Image) Size() Size {
	if i == nil || i.ref == 0 {
		return Size{}
	}
	w, h := i.b.ImageSize(i.ref)
	return Size{Width: float32(w), Height: float32(h)}
}

// Copy returns an independent copy of the pixels.
func (i *Image) Copy() *Image {
	if i == nil || i.ref == 0 {
		return nil
	}
	return adoptImage(i.b, i.b.CopyImage(i.ref))
}

// Sub extracts the pixels under r as a new image.
func (i *Image) Sub(r Rect) *Image {
	if i == nil || i.ref == 0 {
		return nil
	}
	return adoptImage(i.b, i.b.SubImage(i.ref,
		float64(r.X), float64(r.Y), float64(r.Width), float64(r.Height)))
}

// Tinted returns a copy with every opaque pixel recolored to c.
func (i *Image) Tinted(c Color) *Image {
	if i == nil || i.ref == 0 {
		return nil
	}
	r, g, b, a := c.Floats()
	return adoptImage(i.b, i.b.TintedImage(i.ref, r, g, b, a))
}
