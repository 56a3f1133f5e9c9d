package nanoui

import (
	"sync"

	"github.com/obinnaokechukwu/nanoui/internal/objc"
)

// WindowStyle is the NSWindow style mask.
type WindowStyle uint

const (
	StyleBorderless          WindowStyle = 0
	StyleTitled              WindowStyle = 1 << 0
	StyleClosable            WindowStyle = 1 << 1
	StyleMiniaturizable      WindowStyle = 1 << 2
	StyleResizable           WindowStyle = 1 << 3
	StyleUtility             WindowStyle = 1 << 4
	StyleFullSizeContentView WindowStyle = 1 << 15

	// StyleDefault is a regular document window.
	StyleDefault = StyleTitled | StyleClosable | StyleMiniaturizable | StyleResizable
)

const backingStoreBuffered = 2

// WindowOptions configures window creation.
type WindowOptions struct {
	Title string
	// Frame is the content rectangle in top-left screen coordinates.
	Frame Rect
	Style WindowStyle
	// Panel creates an NSPanel instead of an NSWindow.
	Panel bool
	// TransparentTitlebar blends the title bar into the content.
	TransparentTitlebar bool
	// Center overrides Frame's origin with a centered position.
	Center bool
}

// Window bridges one native window. Delegate callbacks arrive through
// the exported hook fields; a nil hook takes the default behavior, which
// for vetoes is accept.
type Window struct {
	peer     objc.ID
	delegate objc.ID
	closed   bool

	// OnShouldClose can veto an interactive close. nil accepts.
	OnShouldClose func() bool
	// OnClose runs when the window is definitely closing.
	OnClose func()
	// OnMiniaturize reports miniaturize state changes.
	OnMiniaturize func(miniaturized bool)
	// OnFullScreen reports full-screen transitions after they complete.
	OnFullScreen func(fullScreen bool)
	// OnKeyChange reports key-window status changes.
	OnKeyChange func(key bool)
	// OnScreenChange reports the window moving to another screen.
	OnScreenChange func()
}

var windowDelegateClass = sync.OnceValue(func() *objc.ClassDef[Window] {
	def := objc.NewClassDef[Window]("NanouiWindowDelegate", "NSObject")
	def.AddProtocol("NSWindowDelegate", true)
	def.AddBoolObjectMethod("windowShouldClose:", true, func(w *Window, _ objc.ID) bool {
		if w.OnShouldClose == nil {
			return true
		}
		return w.OnShouldClose()
	})
	def.AddNotificationMethod("windowWillClose:", func(w *Window, _ objc.ID) {
		w.willClose()
	})
	def.AddNotificationMethod("windowDidMiniaturize:", func(w *Window, _ objc.ID) {
		if w.OnMiniaturize != nil {
			w.OnMiniaturize(true)
		}
	})
	def.AddNotificationMethod("windowDidDeminiaturize:", func(w *Window, _ objc.ID) {
		if w.OnMiniaturize != nil {
			w.OnMiniaturize(false)
		}
	})
	def.AddNotificationMethod("windowDidEnterFullScreen:", func(w *Window, _ objc.ID) {
		if w.OnFullScreen != nil {
			w.OnFullScreen(true)
		}
	})
	def.AddNotificationMethod("windowDidExitFullScreen:", func(w *Window, _ objc.ID) {
		if w.OnFullScreen != nil {
			w.OnFullScreen(false)
		}
	})
	def.AddNotificationMethod("windowDidBecomeKey:", func(w *Window, _ objc.ID) {
		if w.OnKeyChange != nil {
			w.OnKeyChange(true)
		}
	})
	def.AddNotificationMethod("windowDidResignKey:", func(w *Window, _ objc.ID) {
		if w.OnKeyChange != nil {
			w.OnKeyChange(false)
		}
	})
	def.AddNotificationMethod("windowDidChangeScreen:", func(w *Window, _ objc.ID) {
		if w.OnScreenChange != nil {
			w.OnScreenChange()
		}
	})
	def.Register()
	return def
})

// NewWindow creates a native window. The window stays hidden until Show.
func NewWindow(opts WindowOptions) (*Window, error) {
	if err := Init(); err != nil {
		return nil, err
	}
	className := "NSWindow"
	style := opts.Style
	if opts.Panel {
		className = "NSPanel"
	}
	w := &Window{}
	w.peer = objc.CallClass[objc.ID](className, "alloc")
	if w.peer == objc.Nil {
		return nil, ErrNotLoaded
	}
	content := nativeRect(opts.Frame)
	content.Origin = nativePoint(flipPoint(opts.Frame.Origin(), opts.Frame.Height))
	objc.CallVoid(w.peer, "initWithContentRect:styleMask:backing:defer:",
		content, uint(style), uint(backingStoreBuffered), false)
	// The bridge owns the window; closing must not free it behind us.
	objc.CallVoid(w.peer, "setReleasedWhenClosed:", false)

	if opts.Title != "" {
		objc.CallVoid(w.peer, "setTitle:", opts.Title)
	}
	if opts.TransparentTitlebar {
		objc.CallVoid(w.peer, "setTitlebarAppearsTransparent:", true)
	}

	def := windowDelegateClass()
	w.delegate = def.NewInstance(w)
	if w.delegate != objc.Nil {
		objc.CallVoid(w.delegate, "init")
		objc.ICall(w.peer, "setDelegate:", w.delegate)
	}
	if opts.Center {
		objc.CallVoid(w.peer, "center")
	}
	return w, nil
}

func (w *Window) willClose() {
	if w.OnClose != nil {
		w.OnClose()
	}
}

// Close tears the window down unconditionally, without consulting
// OnShouldClose. Safe to call twice.
func (w *Window) Close() error {
	if w == nil || w.closed {
		return nil
	}
	w.closed = true
	objc.CallVoid(w.peer, "close")
	if w.delegate != objc.Nil {
		objc.ICall(w.peer, "setDelegate:")
		windowDelegateClass().Unbind(w.delegate)
		objc.CallVoid(w.delegate, "release")
		w.delegate = objc.Nil
	}
	objc.CallVoid(w.peer, "release")
	w.peer = objc.Nil
	return nil
}

// RequestClose asks the window to close interactively: OnShouldClose can
// veto it.
func (w *Window) RequestClose() {
	if w.closed {
		return
	}
	objc.ICall(w.peer, "performClose:", w.peer)
}

// Show makes the window visible and key.
func (w *Window) Show() {
	objc.CallVoid(w.peer, "makeKeyAndOrderFront:", objc.Nil)
}

// Hide removes the window from the screen without closing it.
func (w *Window) Hide() {
	objc.CallVoid(w.peer, "orderOut:", objc.Nil)
}

// IsVisible reports whether the window is on screen.
func (w *Window) IsVisible() bool {
	if w.closed {
		return false
	}
	return objc.Call[bool](w.peer, "isVisible")
}

// Miniaturize sends the window to the dock.
func (w *Window) Miniaturize() {
	objc.CallVoid(w.peer, "miniaturize:", objc.Nil)
}

// Deminiaturize restores the window from the dock.
func (w *Window) Deminiaturize() {
	objc.CallVoid(w.peer, "deminiaturize:", objc.Nil)
}

// IsMiniaturized reports dock state.
func (w *Window) IsMiniaturized() bool {
	return objc.Call[bool](w.peer, "isMiniaturized")
}

// ToggleFullScreen enters or leaves full screen.
func (w *Window) ToggleFullScreen() {
	objc.CallVoid(w.peer, "toggleFullScreen:", objc.Nil)
}

// Title returns the window title.
func (w *Window) Title() string {
	return objc.Call[string](w.peer, "title")
}

// SetTitle sets the window title.
func (w *Window) SetTitle(title string) {
	objc.CallVoid(w.peer, "setTitle:", title)
}

// Frame returns the window frame in top-left screen coordinates.
func (w *Window) Frame() Rect {
	return flipRect(fromNativeRect(objc.Call[objc.Rect](w.peer, "frame")))
}

// SetFrame moves and resizes the window. r is in top-left screen
// coordinates.
func (w *Window) SetFrame(r Rect) {
	objc.CallVoid(w.peer, "setFrame:display:", nativeRect(flipRect(r)), true)
}

// ContentSize returns the size of the content area.
func (w *Window) ContentSize() Size {
	frame := objc.Call[objc.Rect](w.peer, "frame")
	content := objc.Call[objc.Rect](w.peer, "contentRectForFrameRect:", frame)
	return fromNativeSize(content.Size)
}

// Center positions the window centered on the screen's visible frame.
func (w *Window) Center() {
	objc.CallVoid(w.peer, "center")
}

// Style returns the current style mask.
func (w *Window) Style() WindowStyle {
	return WindowStyle(objc.Call[uint](w.peer, "styleMask"))
}

// SetStyle replaces the style mask.
func (w *Window) SetStyle(style WindowStyle) {
	objc.CallVoid(w.peer, "setStyleMask:", uint(style))
}

// SetShadow toggles the window drop shadow.
func (w *Window) SetShadow(on bool) {
	objc.CallVoid(w.peer, "setHasShadow:", on)
}

// SetDocumentEdited marks the close button with the unsaved-changes dot.
func (w *Window) SetDocumentEdited(edited bool) {
	objc.CallVoid(w.peer, "setDocumentEdited:", edited)
}

// IsDocumentEdited reports the unsaved-changes mark.
func (w *Window) IsDocumentEdited() bool {
	return objc.Call[bool](w.peer, "isDocumentEdited")
}

// SetBackgroundColor paints the window background.
func (w *Window) SetBackgroundColor(c Color) {
	r, g, b, a := c.Floats()
	color := objc.CallClass[objc.ID]("NSColor", "colorWithRed:green:blue:alpha:", r, g, b, a)
	objc.ICall(w.peer, "setBackgroundColor:", color)
	if a < 1 {
		objc.CallVoid(w.peer, "setOpaque:", false)
	}
}

// Native returns the underlying window handle for interoperation.
func (w *Window) Native() uintptr { return uintptr(w.peer) }

func (w *Window) contentView() objc.ID {
	return objc.Call[objc.ID](w.peer, "contentView")
}

// ScreenFrame returns the main screen's frame in top-left coordinates.
func ScreenFrame() Rect {
	Init()
	screen := objc.CallClass[objc.ID]("NSScreen", "mainScreen")
	return flipRect(fromNativeRect(objc.Call[objc.Rect](screen, "frame")))
}

// ScreenVisibleFrame returns the area not covered by the menu bar and
// dock, in top-left coordinates.
func ScreenVisibleFrame() Rect {
	Init()
	screen := objc.CallClass[objc.ID]("NSScreen", "mainScreen")
	return flipRect(fromNativeRect(objc.Call[objc.Rect](screen, "visibleFrame")))
}

// The native screen origin is bottom-left with Y growing upward; the
// public API is top-left with Y growing downward. flipRect converts in
// either direction.
func flipRect(r Rect) Rect {
	r.Y = screenHeight() - (r.Y + r.Height)
	return r
}

func flipPoint(topLeft Point, height float32) Point {
	return Point{X: topLeft.X, Y: screenHeight() - (topLeft.Y + height)}
}

func screenHeight() float32 {
	screen := objc.CallClass[objc.ID]("NSScreen", "mainScreen")
	frame := objc.Call[objc.Rect](screen, "frame")
	return float32(frame.Size.Height)
}
