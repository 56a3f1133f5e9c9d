package quartz

import (
	"errors"
	"fmt"
	"sync"

	"golang.org/x/image/math/fixed"
)

// ErrImageNotFound is returned when an image file cannot be opened on the
// memory backend.
var ErrImageNotFound = errors.New("quartz: image not found")

// Recorder captures the operations issued against one memory-backend
// context, plus the state a test needs to assert balance invariants:
// gsave depth, transparency-layer depth and accumulated translation.
type Recorder struct {
	Ops []string

	SaveDepth    int
	MaxSaveDepth int
	LayerDepth   int
	TranslateX   float64
	TranslateY   float64
	Flipped      bool

	ClipRects int

	FillColor   [4]float64
	StrokeColor [4]float64
	LineWidth   float64
	LineJoin    int
	LineCap     int

	clipX, clipY, clipW, clipH float64
}

func (r *Recorder) op(format string, args ...any) {
	r.Ops = append(r.Ops, fmt.Sprintf(format, args...))
}

// Balanced reports whether every state mutation was undone: saves matched
// by restores, layers ended, translations reverted, flips unwound.
func (r *Recorder) Balanced() bool {
	return r.SaveDepth == 0 && r.LayerDepth == 0 &&
		r.TranslateX == 0 && r.TranslateY == 0 && !r.Flipped
}

type memImage struct {
	w, h int
	refs int
}

type memFont struct {
	name string
	size float64
	refs int
}

// MemBackend is the in-memory drawing backend. Context handles are tokens
// into a recorder table; tests reach the recorder through RecorderFor.
type MemBackend struct {
	mu       sync.Mutex
	contexts map[ContextRef]*Recorder
	images   map[ImageRef]*memImage
	fonts    map[FontRef]*memFont
	next     uintptr
}

var (
	memOnce sync.Once
	mem     *MemBackend
)

// Mem returns the process-wide memory backend.
func Mem() *MemBackend {
	memOnce.Do(func() {
		mem = &MemBackend{
			contexts: make(map[ContextRef]*Recorder),
			images:   make(map[ImageRef]*memImage),
			fonts:    make(map[FontRef]*memFont),
			next:     1,
		}
	})
	return mem
}

func (b *MemBackend) Name() string { return "memory" }

func (b *MemBackend) token() uintptr {
	t := b.next
	b.next++
	return t
}

// NewContext mints a fresh recording context, one per draw pass.
func (b *MemBackend) NewContext() ContextRef {
	b.mu.Lock()
	defer b.mu.Unlock()
	c := ContextRef(b.token())
	b.contexts[c] = &Recorder{}
	return c
}

// RecorderFor returns the recorder behind c, or nil for a foreign handle.
func (b *MemBackend) RecorderFor(c ContextRef) *Recorder {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.contexts[c]
}

func (b *MemBackend) rec(c ContextRef) *Recorder {
	b.mu.Lock()
	defer b.mu.Unlock()
	r := b.contexts[c]
	if r == nil {
		// Tolerate foreign handles so a stray context degrades to a
		// discarded recording instead of a crash.
		r = &Recorder{}
		b.contexts[c] = r
	}
	return r
}

func (b *MemBackend) SaveGState(c ContextRef) {
	r := b.rec(c)
	r.SaveDepth++
	if r.SaveDepth > r.MaxSaveDepth {
		r.MaxSaveDepth = r.SaveDepth
	}
	r.op("save")
}

func (b *MemBackend) RestoreGState(c ContextRef) {
	r := b.rec(c)
	r.SaveDepth--
	r.op("restore")
}

func (b *MemBackend) SetAlpha(c ContextRef, alpha float64) {
	b.rec(c).op("alpha %.3f", alpha)
}

func (b *MemBackend) BeginTransparencyLayer(c ContextRef) {
	r := b.rec(c)
	r.LayerDepth++
	r.op("layer-begin")
}

func (b *MemBackend) EndTransparencyLayer(c ContextRef) {
	r := b.rec(c)
	r.LayerDepth--
	r.op("layer-end")
}

func (b *MemBackend) TranslateCTM(c ContextRef, x, y float64) {
	r := b.rec(c)
	r.TranslateX += x
	r.TranslateY += y
	r.op("translate %.1f %.1f", x, y)
}

func (b *MemBackend) FlipCTM(c ContextRef, height float64) {
	r := b.rec(c)
	r.Flipped = !r.Flipped
	r.op("flip %.1f", height)
}

func (b *MemBackend) Clip(c ContextRef)   { b.rec(c).op("clip") }
func (b *MemBackend) EOClip(c ContextRef) { b.rec(c).op("eoclip") }

func (b *MemBackend) ResetClip(c ContextRef) {
	r := b.rec(c)
	r.ClipRects = 0
	r.clipX, r.clipY, r.clipW, r.clipH = 0, 0, 0, 0
	r.op("resetclip")
}

func (b *MemBackend) ClipToRect(c ContextRef, x, y, w, h float64) {
	r := b.rec(c)
	r.ClipRects++
	r.clipX, r.clipY, r.clipW, r.clipH = x, y, w, h
	r.op("cliprect %.1f %.1f %.1f %.1f", x, y, w, h)
}

func (b *MemBackend) ClipToMask(c ContextRef, img ImageRef, x, y, w, h float64) {
	r := b.rec(c)
	r.ClipRects++
	r.op("clipmask %d %.1f %.1f %.1f %.1f", img, x, y, w, h)
}

func (b *MemBackend) AddRect(c ContextRef, x, y, w, h float64) {
	b.rec(c).op("addrect %.1f %.1f %.1f %.1f", x, y, w, h)
}

func (b *MemBackend) BeginPath(c ContextRef) { b.rec(c).op("beginpath") }
func (b *MemBackend) ClosePath(c ContextRef) { b.rec(c).op("closepath") }

func (b *MemBackend) ClipBoundingBox(c ContextRef) (x, y, w, h float64) {
	r := b.rec(c)
	return r.clipX, r.clipY, r.clipW, r.clipH
}

func (b *MemBackend) SetLineWidth(c ContextRef, w float64) {
	r := b.rec(c)
	r.LineWidth = w
	r.op("linewidth %.1f", w)
}

func (b *MemBackend) SetLineJoin(c ContextRef, join int) {
	r := b.rec(c)
	r.LineJoin = join
	r.op("linejoin %d", join)
}

func (b *MemBackend) SetLineCap(c ContextRef, cap int) {
	r := b.rec(c)
	r.LineCap = cap
	r.op("linecap %d", cap)
}

func (b *MemBackend) SetRGBFillColor(c ContextRef, red, g, bl, a float64) {
	r := b.rec(c)
	r.FillColor = [4]float64{red, g, bl, a}
	r.op("fillcolor %.3f %.3f %.3f %.3f", red, g, bl, a)
}

func (b *MemBackend) SetRGBStrokeColor(c ContextRef, red, g, bl, a float64) {
	r := b.rec(c)
	r.StrokeColor = [4]float64{red, g, bl, a}
	r.op("strokecolor %.3f %.3f %.3f %.3f", red, g, bl, a)
}

func (b *MemBackend) FillRect(c ContextRef, x, y, w, h float64) {
	b.rec(c).op("fillrect %.1f %.1f %.1f %.1f", x, y, w, h)
}

func (b *MemBackend) StrokeRect(c ContextRef, x, y, w, h float64) {
	b.rec(c).op("strokerect %.1f %.1f %.1f %.1f", x, y, w, h)
}

func (b *MemBackend) StrokeLine(c ContextRef, x0, y0, x1, y1 float64) {
	b.rec(c).op("strokeline %.1f %.1f %.1f %.1f", x0, y0, x1, y1)
}

func (b *MemBackend) FillEllipse(c ContextRef, x, y, w, h float64) {
	b.rec(c).op("fillellipse %.1f %.1f %.1f %.1f", x, y, w, h)
}

func (b *MemBackend) StrokeEllipse(c ContextRef, x, y, w, h float64) {
	b.rec(c).op("strokeellipse %.1f %.1f %.1f %.1f", x, y, w, h)
}

func (b *MemBackend) FillRoundedRect(c ContextRef, x, y, w, h, radius float64) {
	b.rec(c).op("fillroundrect %.1f %.1f %.1f %.1f r=%.1f", x, y, w, h, radius)
}

func (b *MemBackend) StrokeRoundedRect(c ContextRef, x, y, w, h, radius float64) {
	b.rec(c).op("strokeroundrect %.1f %.1f %.1f %.1f r=%.1f", x, y, w, h, radius)
}

func (b *MemBackend) DrawImage(c ContextRef, img ImageRef, x, y, w, h float64) {
	b.rec(c).op("drawimage %d %.1f %.1f %.1f %.1f", img, x, y, w, h)
}

func (b *MemBackend) DrawText(c ContextRef, f FontRef, text string, x, y float64) {
	b.rec(c).op("drawtext %q %.1f %.1f", text, x, y)
}

// NewImage mints an in-memory image of the given size with one reference.
// Tests use it in place of PNG files.
func (b *MemBackend) NewImage(w, h int) ImageRef {
	b.mu.Lock()
	defer b.mu.Unlock()
	ref := ImageRef(b.token())
	b.images[ref] = &memImage{w: w, h: h, refs: 1}
	return ref
}

// ImageRefCount reports the live reference count of img, 0 if freed.
func (b *MemBackend) ImageRefCount(img ImageRef) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	if m := b.images[img]; m != nil {
		return m.refs
	}
	return 0
}

func (b *MemBackend) LoadImagePNG(path string) (ImageRef, error) {
	return 0, fmt.Errorf("%w: %s", ErrImageNotFound, path)
}

func (b *MemBackend) RetainImage(img ImageRef) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if m := b.images[img]; m != nil {
		m.refs++
	}
}

func (b *MemBackend) ReleaseImage(img ImageRef) {
	b.mu.Lock()
	defer b.mu.Unlock()
	m := b.images[img]
	if m == nil {
		return
	}
	m.refs--
	if m.refs <= 0 {
		delete(b.images, img)
	}
}

func (b *MemBackend) ImageSize(img ImageRef) (int, int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if m := b.images[img]; m != nil {
		return m.w, m.h
	}
	return 0, 0
}

func (b *MemBackend) CopyImage(img ImageRef) ImageRef {
	w, h := b.ImageSize(img)
	if w == 0 && h == 0 {
		return 0
	}
	return b.NewImage(w, h)
}

func (b *MemBackend) SubImage(img ImageRef, x, y, w, h float64) ImageRef {
	if _, _, ok := b.imageOK(img); !ok {
		return 0
	}
	return b.NewImage(int(w), int(h))
}

func (b *MemBackend) TintedImage(img ImageRef, r, g, bl, a float64) ImageRef {
	w, h, ok := b.imageOK(img)
	if !ok {
		return 0
	}
	return b.NewImage(w, h)
}

func (b *MemBackend) imageOK(img ImageRef) (int, int, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if m := b.images[img]; m != nil {
		return m.w, m.h, true
	}
	return 0, 0, false
}

func (b *MemBackend) NewFont(name string, size float64) (FontRef, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	ref := FontRef(b.token())
	b.fonts[ref] = &memFont{name: name, size: size, refs: 1}
	return ref, nil
}

func (b *MemBackend) RetainFont(f FontRef) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if m := b.fonts[f]; m != nil {
		m.refs++
	}
}

func (b *MemBackend) ReleaseFont(f FontRef) {
	b.mu.Lock()
	defer b.mu.Unlock()
	m := b.fonts[f]
	if m == nil {
		return
	}
	m.refs--
	if m.refs <= 0 {
		delete(b.fonts, f)
	}
}

// FontRefCount reports the live reference count of f, 0 if freed.
func (b *MemBackend) FontRefCount(f FontRef) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	if m := b.fonts[f]; m != nil {
		return m.refs
	}
	return 0
}

func (b *MemBackend) FontCapHeight(f FontRef) float64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	if m := b.fonts[f]; m != nil {
		// Cap height approximation used by the metrics-free backend.
		return m.size * 0.7
	}
	return 0
}

func (b *MemBackend) StringWidth(f FontRef, text string) float64 {
	b.mu.Lock()
	m := b.fonts[f]
	b.mu.Unlock()
	if m == nil || text == "" {
		return 0
	}
	// Fixed-point advance accumulation with a flat 0.6 em per glyph, the
	// same arithmetic shape the real backend gets from glyph runs.
	advance := fixed.Int26_6(m.size * 0.6 * 64)
	var total fixed.Int26_6
	for range text {
		total += advance
	}
	return float64(total) / 64
}
