//go:build darwin && (amd64 || arm64)

package quartz

import (
	"fmt"
	"sync"
	"unsafe"

	"github.com/ebitengine/purego"

	"github.com/obinnaokechukwu/nanoui/internal/platform"
)

type cgPoint struct {
	X, Y float64
}

type cgSize struct {
	W, H float64
}

type cgRect struct {
	Origin cgPoint
	Size   cgSize
}

type cgAffineTransform struct {
	A, B, C, D, TX, TY float64
}

func rect(x, y, w, h float64) cgRect {
	return cgRect{Origin: cgPoint{X: x, Y: y}, Size: cgSize{W: w, H: h}}
}

// Library handles
var (
	libCG uintptr
	libCT uintptr
	libCF uintptr

	cgLoaded   bool
	cgLoadOnce sync.Once
	cgLoadErr  error
)

// CoreGraphics context bindings
var (
	cgContextSaveGState             func(ctx uintptr)
	cgContextRestoreGState          func(ctx uintptr)
	cgContextSetAlpha               func(ctx uintptr, alpha float64)
	cgContextBeginTransparencyLayer func(ctx uintptr, auxInfo uintptr)
	cgContextEndTransparencyLayer   func(ctx uintptr)
	cgContextTranslateCTM           func(ctx uintptr, x, y float64)
	cgContextScaleCTM               func(ctx uintptr, sx, sy float64)
	cgContextClip                   func(ctx uintptr)
	cgContextEOClip                 func(ctx uintptr)
	cgContextResetClip              func(ctx uintptr)
	cgContextClipToRect             func(ctx uintptr, r cgRect)
	cgContextClipToMask             func(ctx uintptr, r cgRect, mask uintptr)
	cgContextAddRect                func(ctx uintptr, r cgRect)
	cgContextBeginPath              func(ctx uintptr)
	cgContextClosePath              func(ctx uintptr)
	cgContextGetClipBoundingBox     func(ctx uintptr) cgRect
	cgContextSetLineWidth           func(ctx uintptr, w float64)
	cgContextSetLineJoin            func(ctx uintptr, join int32)
	cgContextSetLineCap             func(ctx uintptr, lineCap int32)
	cgContextSetRGBFillColor        func(ctx uintptr, r, g, b, a float64)
	cgContextSetRGBStrokeColor      func(ctx uintptr, r, g, b, a float64)
	cgContextFillRect               func(ctx uintptr, r cgRect)
	cgContextStrokeRect             func(ctx uintptr, r cgRect)
	cgContextMoveToPoint            func(ctx uintptr, x, y float64)
	cgContextAddLineToPoint         func(ctx uintptr, x, y float64)
	cgContextAddArcToPoint          func(ctx uintptr, x1, y1, x2, y2, radius float64)
	cgContextStrokePath             func(ctx uintptr)
	cgContextFillPath               func(ctx uintptr)
	cgContextFillEllipseInRect      func(ctx uintptr, r cgRect)
	cgContextStrokeEllipseInRect    func(ctx uintptr, r cgRect)
	cgContextDrawImage              func(ctx uintptr, r cgRect, img uintptr)
	cgContextSetTextMatrix          func(ctx uintptr, t cgAffineTransform)
	cgContextSetTextPosition        func(ctx uintptr, x, y float64)
)

// CoreGraphics image bindings
var (
	cgDataProviderCreateWithFilename func(path string) uintptr
	cgDataProviderRelease            func(provider uintptr)
	cgImageCreateWithPNGDataProvider func(provider uintptr, decode uintptr, interpolate bool, intent int32) uintptr
	cgImageRetain                    func(img uintptr) uintptr
	cgImageRelease                   func(img uintptr)
	cgImageGetWidth                  func(img uintptr) uint
	cgImageGetHeight                 func(img uintptr) uint
	cgImageCreateCopy                func(img uintptr) uintptr
	cgImageCreateWithImageInRect     func(img uintptr, r cgRect) uintptr
	cgColorSpaceCreateDeviceRGB      func() uintptr
	cgColorSpaceRelease              func(space uintptr)
	cgBitmapContextCreate            func(data uintptr, w, h, bitsPerComponent, bytesPerRow, space uintptr, bitmapInfo uint32) uintptr
	cgBitmapContextCreateImage       func(ctx uintptr) uintptr
	cgContextRelease                 func(ctx uintptr)
)

// CoreText and CoreFoundation bindings
var (
	cfStringCreateWithCString    func(alloc uintptr, cstr string, encoding uint32) uintptr
	cfAttributedStringCreate     func(alloc uintptr, str uintptr, attributes uintptr) uintptr
	cfDictionaryCreate           func(alloc uintptr, keys, values *uintptr, count int, keyCB, valueCB uintptr) uintptr
	cfRetain                     func(obj uintptr) uintptr
	cfRelease                    func(obj uintptr)
	ctFontCreateWithName         func(name uintptr, size float64, matrix uintptr) uintptr
	ctFontGetCapHeight           func(font uintptr) float64
	ctLineCreateWithAttrString   func(attrStr uintptr) uintptr
	ctLineDraw                   func(line uintptr, ctx uintptr)
	ctLineGetTypographicBounds   func(line uintptr, ascent, descent, leading *float64) float64
	kCTFontAttributeName         uintptr
	kCTForegroundColorFromContext uintptr
	kCFBooleanTrue               uintptr
	kCFTypeDictionaryKeyCallBacks   uintptr
	kCFTypeDictionaryValueCallBacks uintptr
)

const (
	cfStringEncodingUTF8 = 0x08000100

	premultipliedLast = 1 // kCGImageAlphaPremultipliedLast
)

// CGLoad loads CoreGraphics, CoreText and CoreFoundation and registers all
// drawing bindings. Safe to call multiple times.
func CGLoad() error {
	cgLoadOnce.Do(func() {
		cgLoadErr = cgDoLoad()
		if cgLoadErr == nil {
			cgLoaded = true
		}
	})
	return cgLoadErr
}

func cgDoLoad() error {
	var err error

	libCF, err = purego.Dlopen(platform.CoreFoundationPath, purego.RTLD_LAZY|purego.RTLD_GLOBAL)
	if err != nil {
		return fmt.Errorf("loading CoreFoundation: %w", err)
	}
	libCG, err = purego.Dlopen(platform.CoreGraphicsPath, purego.RTLD_LAZY|purego.RTLD_GLOBAL)
	if err != nil {
		return fmt.Errorf("loading CoreGraphics: %w", err)
	}
	libCT, err = purego.Dlopen(platform.CoreTextPath, purego.RTLD_LAZY|purego.RTLD_GLOBAL)
	if err != nil {
		return fmt.Errorf("loading CoreText: %w", err)
	}

	purego.RegisterLibFunc(&cgContextSaveGState, libCG, "CGContextSaveGState")
	purego.RegisterLibFunc(&cgContextRestoreGState, libCG, "CGContextRestoreGState")
	purego.RegisterLibFunc(&cgContextSetAlpha, libCG, "CGContextSetAlpha")
	purego.RegisterLibFunc(&cgContextBeginTransparencyLayer, libCG, "CGContextBeginTransparencyLayer")
	purego.RegisterLibFunc(&cgContextEndTransparencyLayer, libCG, "CGContextEndTransparencyLayer")
	purego.RegisterLibFunc(&cgContextTranslateCTM, libCG, "CGContextTranslateCTM")
	purego.RegisterLibFunc(&cgContextScaleCTM, libCG, "CGContextScaleCTM")
	purego.RegisterLibFunc(&cgContextClip, libCG, "CGContextClip")
	purego.RegisterLibFunc(&cgContextEOClip, libCG, "CGContextEOClip")
	purego.RegisterLibFunc(&cgContextResetClip, libCG, "CGContextResetClip")
	purego.RegisterLibFunc(&cgContextClipToRect, libCG, "CGContextClipToRect")
	purego.RegisterLibFunc(&cgContextClipToMask, libCG, "CGContextClipToMask")
	purego.RegisterLibFunc(&cgContextAddRect, libCG, "CGContextAddRect")
	purego.RegisterLibFunc(&cgContextBeginPath, libCG, "CGContextBeginPath")
	purego.RegisterLibFunc(&cgContextClosePath, libCG, "CGContextClosePath")
	purego.RegisterLibFunc(&cgContextGetClipBoundingBox, libCG, "CGContextGetClipBoundingBox")
	purego.RegisterLibFunc(&cgContextSetLineWidth, libCG, "CGContextSetLineWidth")
	purego.RegisterLibFunc(&cgContextSetLineJoin, libCG, "CGContextSetLineJoin")
	purego.RegisterLibFunc(&cgContextSetLineCap, libCG, "CGContextSetLineCap")
	purego.RegisterLibFunc(&cgContextSetRGBFillColor, libCG, "CGContextSetRGBFillColor")
	purego.RegisterLibFunc(&cgContextSetRGBStrokeColor, libCG, "CGContextSetRGBStrokeColor")
	purego.RegisterLibFunc(&cgContextFillRect, libCG, "CGContextFillRect")
	purego.RegisterLibFunc(&cgContextStrokeRect, libCG, "CGContextStrokeRect")
	purego.RegisterLibFunc(&cgContextMoveToPoint, libCG, "CGContextMoveToPoint")
	purego.RegisterLibFunc(&cgContextAddLineToPoint, libCG, "CGContextAddLineToPoint")
	purego.RegisterLibFunc(&cgContextAddArcToPoint, libCG, "CGContextAddArcToPoint")
	purego.RegisterLibFunc(&cgContextStrokePath, libCG, "CGContextStrokePath")
	purego.RegisterLibFunc(&cgContextFillPath, libCG, "CGContextFillPath")
	purego.RegisterLibFunc(&cgContextFillEllipseInRect, libCG, "CGContextFillEllipseInRect")
	purego.RegisterLibFunc(&cgContextStrokeEllipseInRect, libCG, "CGContextStrokeEllipseInRect")
	purego.RegisterLibFunc(&cgContextDrawImage, libCG, "CGContextDrawImage")
	purego.RegisterLibFunc(&cgContextSetTextMatrix, libCG, "CGContextSetTextMatrix")
	purego.RegisterLibFunc(&cgContextSetTextPosition, libCG, "CGContextSetTextPosition")

	purego.RegisterLibFunc(&cgDataProviderCreateWithFilename, libCG, "CGDataProviderCreateWithFilename")
	purego.RegisterLibFunc(&cgDataProviderRelease, libCG, "CGDataProviderRelease")
	purego.RegisterLibFunc(&cgImageCreateWithPNGDataProvider, libCG, "CGImageCreateWithPNGDataProvider")
	purego.RegisterLibFunc(&cgImageRetain, libCG, "CGImageRetain")
	purego.RegisterLibFunc(&cgImageRelease, libCG, "CGImageRelease")
	purego.RegisterLibFunc(&cgImageGetWidth, libCG, "CGImageGetWidth")
	purego.RegisterLibFunc(&cgImageGetHeight, libCG, "CGImageGetHeight")
	purego.RegisterLibFunc(&cgImageCreateCopy, libCG, "CGImageCreateCopy")
	purego.RegisterLibFunc(&cgImageCreateWithImageInRect, libCG, "CGImageCreateWithImageInRect")
	purego.RegisterLibFunc(&cgColorSpaceCreateDeviceRGB, libCG, "CGColorSpaceCreateDeviceRGB")
	purego.RegisterLibFunc(&cgColorSpaceRelease, libCG, "CGColorSpaceRelease")
	purego.RegisterLibFunc(&cgBitmapContextCreate, libCG, "CGBitmapContextCreate")
	purego.RegisterLibFunc(&cgBitmapContextCreateImage, libCG, "CGBitmapContextCreateImage")
	purego.RegisterLibFunc(&cgContextRelease, libCG, "CGContextRelease")

	purego.RegisterLibFunc(&cfStringCreateWithCString, libCF, "CFStringCreateWithCString")
	purego.RegisterLibFunc(&cfAttributedStringCreate, libCF, "CFAttributedStringCreate")
	purego.RegisterLibFunc(&cfDictionaryCreate, libCF, "CFDictionaryCreate")
	purego.RegisterLibFunc(&cfRetain, libCF, "CFRetain")
	purego.RegisterLibFunc(&cfRelease, libCF, "CFRelease")

	purego.RegisterLibFunc(&ctFontCreateWithName, libCT, "CTFontCreateWithName")
	purego.RegisterLibFunc(&ctFontGetCapHeight, libCT, "CTFontGetCapHeight")
	purego.RegisterLibFunc(&ctLineCreateWithAttrString, libCT, "CTLineCreateWithAttributedString")
	purego.RegisterLibFunc(&ctLineDraw, libCT, "CTLineDraw")
	purego.RegisterLibFunc(&ctLineGetTypographicBounds, libCT, "CTLineGetTypographicBounds")

	kCTFontAttributeName = derefSymbol(libCT, "kCTFontAttributeName")
	kCTForegroundColorFromContext = derefSymbol(libCT, "kCTForegroundColorFromContext")
	kCFBooleanTrue = derefSymbol(libCF, "kCFBooleanTrue")
	kCFTypeDictionaryKeyCallBacks = symbolAddr(libCF, "kCFTypeDictionaryKeyCallBacks")
	kCFTypeDictionaryValueCallBacks = symbolAddr(libCF, "kCFTypeDictionaryValueCallBacks")

	return nil
}

func symbolAddr(lib uintptr, name string) uintptr {
	addr, err := purego.Dlsym(lib, name)
	if err != nil {
		return 0
	}
	return addr
}

// derefSymbol resolves a framework constant exported as a pointer-sized
// global (CFStringRef and friends) and reads its value.
func derefSymbol(lib uintptr, name string) uintptr {
	addr := symbolAddr(lib, name)
	if addr == 0 {
		return 0
	}
	return *(*uintptr)(unsafe.Pointer(addr))
}

func cfString(s string) uintptr {
	return cfStringCreateWithCString(0, s, cfStringEncodingUTF8)
}

// CGBackend draws through CoreGraphics and CoreText.
type CGBackend struct{}

// Native returns the CoreGraphics backend, loading the frameworks on first
// call.
func Native() (*CGBackend, error) {
	if err := CGLoad(); err != nil {
		return nil, err
	}
	return &CGBackend{}, nil
}

func (b *CGBackend) Name() string { return "coregraphics" }

func (b *CGBackend) SaveGState(c ContextRef)    { cgContextSaveGState(uintptr(c)) }
func (b *CGBackend) RestoreGState(c ContextRef) { cgContextRestoreGState(uintptr(c)) }

func (b *CGBackend) SetAlpha(c ContextRef, alpha float64) {
	cgContextSetAlpha(uintptr(c), alpha)
}

func (b *CGBackend) BeginTransparencyLayer(c ContextRef) {
	cgContextBeginTransparencyLayer(uintptr(c), 0)
}

func (b *CGBackend) EndTransparencyLayer(c ContextRef) {
	cgContextEndTransparencyLayer(uintptr(c))
}

func (b *CGBackend) TranslateCTM(c ContextRef, x, y float64) {
	cgContextTranslateCTM(uintptr(c), x, y)
}

func (b *CGBackend) FlipCTM(c ContextRef, height float64) {
	cgContextTranslateCTM(uintptr(c), 0, height)
	cgContextScaleCTM(uintptr(c), 1, -1)
}

func (b *CGBackend) Clip(c ContextRef)      { cgContextClip(uintptr(c)) }
func (b *CGBackend) EOClip(c ContextRef)    { cgContextEOClip(uintptr(c)) }
func (b *CGBackend) ResetClip(c ContextRef) { cgContextResetClip(uintptr(c)) }

func (b *CGBackend) ClipToRect(c ContextRef, x, y, w, h float64) {
	cgContextClipToRect(uintptr(c), rect(x, y, w, h))
}

func (b *CGBackend) ClipToMask(c ContextRef, img ImageRef, x, y, w, h float64) {
	cgContextClipToMask(uintptr(c), rect(x, y, w, h), uintptr(img))
}

func (b *CGBackend) AddRect(c ContextRef, x, y, w, h float64) {
	cgContextAddRect(uintptr(c), rect(x, y, w, h))
}

func (b *CGBackend) BeginPath(c ContextRef) { cgContextBeginPath(uintptr(c)) }
func (b *CGBackend) ClosePath(c ContextRef) { cgContextClosePath(uintptr(c)) }

func (b *CGBackend) ClipBoundingBox(c ContextRef) (x, y, w, h float64) {
	r := cgContextGetClipBoundingBox(uintptr(c))
	return r.Origin.X, r.Origin.Y, r.Size.W, r.Size.H
}

func (b *CGBackend) SetLineWidth(c ContextRef, w float64) {
	cgContextSetLineWidth(uintptr(c), w)
}

func (b *CGBackend) SetLineJoin(c ContextRef, join int) {
	cgContextSetLineJoin(uintptr(c), int32(join))
}

func (b *CGBackend) SetLineCap(c ContextRef, lineCap int) {
	cgContextSetLineCap(uintptr(c), int32(lineCap))
}

func (b *CGBackend) SetRGBFillColor(c ContextRef, r, g, bl, a float64) {
	cgContextSetRGBFillColor(uintptr(c), r, g, bl, a)
}

func (b *CGBackend) SetRGBStrokeColor(c ContextRef, r, g, bl, a float64) {
	cgContextSetRGBStrokeColor(uintptr(c), r, g, bl, a)
}

func (b *CGBackend) FillRect(c ContextRef, x, y, w, h float64) {
	cgContextFillRect(uintptr(c), rect(x, y, w, h))
}

func (b *CGBackend) StrokeRect(c ContextRef, x, y, w, h float64) {
	cgContextStrokeRect(uintptr(c), rect(x, y, w, h))
}

func (b *CGBackend) StrokeLine(c ContextRef, x0, y0, x1, y1 float64) {
	cgContextBeginPath(uintptr(c))
	cgContextMoveToPoint(uintptr(c), x0, y0)
	cgContextAddLineToPoint(uintptr(c), x1, y1)
	cgContextStrokePath(uintptr(c))
}

func (b *CGBackend) FillEllipse(c ContextRef, x, y, w, h float64) {
	cgContextFillEllipseInRect(uintptr(c), rect(x, y, w, h))
}

func (b *CGBackend) StrokeEllipse(c ContextRef, x, y, w, h float64) {
	cgContextStrokeEllipseInRect(uintptr(c), rect(x, y, w, h))
}

func (b *CGBackend) FillRoundedRect(c ContextRef, x, y, w, h, radius float64) {
	b.addRoundedRect(c, x, y, w, h, radius)
	cgContextFillPath(uintptr(c))
}

func (b *CGBackend) StrokeRoundedRect(c ContextRef, x, y, w, h, radius float64) {
	b.addRoundedRect(c, x, y, w, h, radius)
	cgContextStrokePath(uintptr(c))
}

func (b *CGBackend) addRoundedRect(c ContextRef, x, y, w, h, radius float64) {
	ctx := uintptr(c)
	if max := w / 2; radius > max {
		radius = max
	}
	if max := h / 2; radius > max {
		radius = max
	}
	cgContextBeginPath(ctx)
	cgContextMoveToPoint(ctx, x+radius, y)
	cgContextAddArcToPoint(ctx, x+w, y, x+w, y+h, radius)
	cgContextAddArcToPoint(ctx, x+w, y+h, x, y+h, radius)
	cgContextAddArcToPoint(ctx, x, y+h, x, y, radius)
	cgContextAddArcToPoint(ctx, x, y, x+w, y, radius)
	cgContextClosePath(ctx)
}

func (b *CGBackend) DrawImage(c ContextRef, img ImageRef, x, y, w, h float64) {
	ctx := uintptr(c)
	// CGContextDrawImage assumes a bottom-left origin; undo the view's
	// flip locally so the image comes out upright.
	cgContextSaveGState(ctx)
	cgContextTranslateCTM(ctx, x, y+h)
	cgContextScaleCTM(ctx, 1, -1)
	cgContextDrawImage(ctx, rect(0, 0, w, h), uintptr(img))
	cgContextRestoreGState(ctx)
}

func (b *CGBackend) DrawText(c ContextRef, f FontRef, text string, x, y float64) {
	line := b.makeLine(f, text)
	if line == 0 {
		return
	}
	ctx := uintptr(c)
	cgContextSaveGState(ctx)
	cgContextSetTextMatrix(ctx, cgAffineTransform{A: 1, D: -1})
	cgContextSetTextPosition(ctx, x, y)
	ctLineDraw(line, ctx)
	cgContextRestoreGState(ctx)
	cfRelease(line)
}

func (b *CGBackend) makeLine(f FontRef, text string) uintptr {
	if f == 0 || text == "" {
		return 0
	}
	str := cfString(text)
	if str == 0 {
		return 0
	}
	keys := [2]uintptr{kCTFontAttributeName, kCTForegroundColorFromContext}
	values := [2]uintptr{uintptr(f), kCFBooleanTrue}
	attrs := cfDictionaryCreate(0, &keys[0], &values[0], 2,
		kCFTypeDictionaryKeyCallBacks, kCFTypeDictionaryValueCallBacks)
	attrStr := cfAttributedStringCreate(0, str, attrs)
	line := ctLineCreateWithAttrString(attrStr)
	cfRelease(attrStr)
	cfRelease(attrs)
	cfRelease(str)
	return line
}

func (b *CGBackend) LoadImagePNG(path string) (ImageRef, error) {
	provider := cgDataProviderCreateWithFilename(path)
	if provider == 0 {
		return 0, fmt.Errorf("%w: %s", ErrImageNotFound, path)
	}
	img := cgImageCreateWithPNGDataProvider(provider, 0, true, 0)
	cgDataProviderRelease(provider)
	if img == 0 {
		return 0, fmt.Errorf("%w: %s", ErrImageNotFound, path)
	}
	return ImageRef(img), nil
}

func (b *CGBackend) RetainImage(img ImageRef) {
	if img != 0 {
		cgImageRetain(uintptr(img))
	}
}

func (b *CGBackend) ReleaseImage(img ImageRef) {
	if img != 0 {
		cgImageRelease(uintptr(img))
	}
}

func (b *CGBackend) ImageSize(img ImageRef) (int, int) {
	if img == 0 {
		return 0, 0
	}
	return int(cgImageGetWidth(uintptr(img))), int(cgImageGetHeight(uintptr(img)))
}

func (b *CGBackend) CopyImage(img ImageRef) ImageRef {
	if img == 0 {
		return 0
	}
	return ImageRef(cgImageCreateCopy(uintptr(img)))
}

func (b *CGBackend) SubImage(img ImageRef, x, y, w, h float64) ImageRef {
	if img == 0 {
		return 0
	}
	return ImageRef(cgImageCreateWithImageInRect(uintptr(img), rect(x, y, w, h)))
}

func (b *CGBackend) TintedImage(img ImageRef, r, g, bl, a float64) ImageRef {
	if img == 0 {
		return 0
	}
	w, h := b.ImageSize(img)
	space := cgColorSpaceCreateDeviceRGB()
	ctx := cgBitmapContextCreate(0, uintptr(w), uintptr(h), 8, 0, space, premultipliedLast)
	cgColorSpaceRelease(space)
	if ctx == 0 {
		return 0
	}
	area := rect(0, 0, float64(w), float64(h))
	cgContextClipToMask(ctx, area, uintptr(img))
	cgContextSetRGBFillColor(ctx, r, g, bl, a)
	cgContextFillRect(ctx, area)
	out := cgBitmapContextCreateImage(ctx)
	cgContextRelease(ctx)
	return ImageRef(out)
}

func (b *CGBackend) NewFont(name string, size float64) (FontRef, error) {
	str := cfString(name)
	if str == 0 {
		return 0, fmt.Errorf("quartz: bad font name %q", name)
	}
	font := ctFontCreateWithName(str, size, 0)
	cfRelease(str)
	if font == 0 {
		return 0, fmt.Errorf("quartz: font %q not found", name)
	}
	return FontRef(font), nil
}

func (b *CGBackend) RetainFont(f FontRef) {
	if f != 0 {
		cfRetain(uintptr(f))
	}
}

func (b *CGBackend) ReleaseFont(f FontRef) {
	if f != 0 {
		cfRelease(uintptr(f))
	}
}

func (b *CGBackend) FontCapHeight(f FontRef) float64 {
	if f == 0 {
		return 0
	}
	return ctFontGetCapHeight(uintptr(f))
}

func (b *CGBackend) StringWidth(f FontRef, text string) float64 {
	line := b.makeLine(f, text)
	if line == 0 {
		return 0
	}
	var ascent, descent, leading float64
	width := ctLineGetTypographicBounds(line, &ascent, &descent, &leading)
	cfRelease(line)
	return width
}
