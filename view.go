package nanoui

import (
	"sync"

	"github.com/obinnaokechukwu/nanoui/internal/objc"
)

// NSTrackingArea options: mouse entered/exited, mouse moved, active
// always, tracking the visible rect so resizes need no re-registration.
const trackingOptions = 0x01 | 0x02 | 0x80 | 0x200

// NSAutoresizingMaskOptions: width and height sizable.
const autoresizeWidthHeight = (1 << 1) | (1 << 4)

// View bridges one native view. Views form a tree; every view is backed
// by an instance of a synthesized NSView subclass whose overrides forward
// into the owning View through the class side table.
//
// All View methods must run on the main thread, the same discipline the
// native toolkit imposes. PostMessage hops other goroutines over.
type View struct {
	peer     objc.ID
	parent   *View
	children []*View
	win      *Window
	tracking objc.ID
	anchor   Point
	closed   bool

	// OnDraw paints the view. The context is borrowed for the duration
	// of the call.
	OnDraw func(g *GraphicContext, dirty Rect)
	// OnWillDraw runs at the start of a draw pass, before OnDraw of this
	// view or any of its subviews.
	OnWillDraw func()
	// OnEvent receives input delivered to this view. Return true when
	// the event was consumed.
	OnEvent func(e *Event) bool
	// OnResize runs after the view's frame size changed.
	OnResize func(size Size)
	// OnFocusChange reports keyboard focus moving onto or off the view.
	OnFocusChange func(focused bool)
	// OnVisibilityChange reports the view being hidden or revealed.
	OnVisibilityChange func(visible bool)
	// OnSubviewAdded runs after a subview joined this view. child is nil
	// when the subview is not bridge-managed.
	OnSubviewAdded func(child *View)
	// OnSubviewRemoved runs as a subview leaves, before it detaches.
	// child is nil when the subview is not bridge-managed or is already
	// mid-teardown.
	OnSubviewRemoved func(child *View)
}

var viewClass func() *objc.ClassDef[View]

func init() {
	viewClass = sync.OnceValue(func() *objc.ClassDef[View] {
		def := objc.NewClassDef[View]("NanouiView", "NSView")

		def.AddBoolMethod("acceptsFirstResponder", func(_ *View) bool {
			return true
		})
		def.AddBoolMethod("becomeFirstResponder", func(v *View) bool {
			if v.OnFocusChange != nil {
				v.OnFocusChange(true)
			}
			return true
		})
		def.AddBoolMethod("resignFirstResponder", func(v *View) bool {
			if v.OnFocusChange != nil {
				v.OnFocusChange(false)
			}
			return true
		})
		def.AddBoolMethod("isFlipped", func(_ *View) bool {
			return true
		})

		def.AddRectMethod("drawRect:", func(v *View, r objc.Rect) {
			v.draw(fromNativeRect(r))
		})
		def.AddRawMethod("viewWillDraw", "v@:", func(self objc.ID, _ objc.SEL, _ []any) any {
			def.SendSuperVoid(self, "viewWillDraw")
			if v := def.Owner(self); v != nil && v.OnWillDraw != nil {
				v.OnWillDraw()
			}
			return nil
		})
		def.AddVoidMethod("viewDidHide", func(v *View) {
			if v.OnVisibilityChange != nil {
				v.OnVisibilityChange(false)
			}
		})
		def.AddVoidMethod("viewDidUnhide", func(v *View) {
			if v.OnVisibilityChange != nil {
				v.OnVisibilityChange(true)
			}
		})
		def.AddNotificationMethod("frameDidChange:", func(v *View, _ objc.ID) {
			if v.OnResize != nil {
				v.OnResize(v.Frame().Size())
			}
		})
		def.AddNotificationMethod("didAddSubview:", func(v *View, sub objc.ID) {
			if v.OnSubviewAdded != nil {
				v.OnSubviewAdded(def.Owner(sub))
			}
		})
		def.AddNotificationMethod("willRemoveSubview:", func(v *View, sub objc.ID) {
			if v.OnSubviewRemoved != nil {
				v.OnSubviewRemoved(def.Owner(sub))
			}
		})

		inputSelectors := []string{
			"mouseDown:", "mouseUp:", "rightMouseDown:", "rightMouseUp:",
			"otherMouseDown:", "otherMouseUp:", "mouseDragged:",
			"rightMouseDragged:", "otherMouseDragged:", "mouseEntered:",
			"mouseExited:", "scrollWheel:", "keyDown:", "keyUp:",
			"flagsChanged:",
		}
		for _, sel := range inputSelectors {
			def.AddNotificationMethod(sel, func(v *View, native objc.ID) {
				v.deliver(v, native)
			})
		}
		// Mouse moves arrive at the view owning the tracking area; reroute
		// them to the deepest bridge-managed view under the pointer.
		def.AddNotificationMethod("mouseMoved:", func(v *View, native objc.ID) {
			v.deliver(v.routeMouse(native), native)
		})

		def.AddRawMethod("dealloc", "v@:", func(self objc.ID, _ objc.SEL, _ []any) any {
			def.Unbind(self)
			def.SendSuperVoid(self, "dealloc")
			return nil
		})

		def.Register()
		return def
	})
}

// NewView creates a view as a child of parent.
func NewView(parent *View, frame Rect) (*View, error) {
	if parent == nil || parent.closed {
		return nil, ErrClosed
	}
	v, err := newView(frame)
	if err != nil {
		return nil, err
	}
	objc.ICall(parent.peer, "addSubview:", v.peer)
	v.parent = parent
	parent.children = append(parent.children, v)
	return v, nil
}

// NewWindowView creates a window and returns its root view. Closing the
// view closes the window.
func NewWindowView(opts WindowOptions) (*View, error) {
	win, err := NewWindow(opts)
	if err != nil {
		return nil, err
	}
	size := win.ContentSize()
	v, err := newView(Rect{Width: size.Width, Height: size.Height})
	if err != nil {
		win.Close()
		return nil, err
	}
	objc.ICall(win.peer, "setContentView:", v.peer)
	objc.CallVoid(v.peer, "setAutoresizingMask:", uint(autoresizeWidthHeight))
	v.win = win
	return v, nil
}

// NewNativeView creates a view inside a foreign native view, for
// embedding into windows the bridge does not manage.
func NewNativeView(parentHandle uintptr, frame Rect) (*View, error) {
	if parentHandle == 0 {
		return nil, ErrClosed
	}
	v, err := newView(frame)
	if err != nil {
		return nil, err
	}
	objc.ICall(objc.ID(parentHandle), "addSubview:", v.peer)
	return v, nil
}

func newView(frame Rect) (*View, error) {
	if err := Init(); err != nil {
		return nil, err
	}
	def := viewClass()
	v := &View{}
	v.peer = def.NewInstance(v)
	if v.peer == objc.Nil {
		return nil, ErrNotLoaded
	}
	objc.CallVoid(v.peer, "initWithFrame:", nativeRect(frame))

	v.tracking = objc.CallClass[objc.ID]("NSTrackingArea", "alloc")
	objc.CallVoid(v.tracking, "initWithRect:options:owner:userInfo:",
		objc.Rect{}, uint(trackingOptions), v.peer, objc.Nil)
	objc.ICall(v.peer, "addTrackingArea:", v.tracking)

	objc.CallVoid(v.peer, "setPostsFrameChangedNotifications:", true)
	center := objc.ClassProperty("NSNotificationCenter", "defaultCenter")
	objc.CallVoid(center, "addObserver:selector:name:object:",
		v.peer, objc.Sel("frameDidChange:"), "NSViewFrameDidChangeNotification", v.peer)
	return v, nil
}

// Close destroys the view. Views are torn down leaf first: closing a
// view that still has children fails with ErrChildrenRemain. The native
// back-pointer is severed before any native teardown, so callbacks
// racing the teardown degrade to no-ops.
func (v *View) Close() error {
	if v == nil || v.closed {
		return nil
	}
	if len(v.children) > 0 {
		reportInvariant("closing view %#x with %d live children", uintptr(v.peer), len(v.children))
		return ErrChildrenRemain
	}
	v.closed = true

	viewClass().Unbind(v.peer)

	center := objc.ClassProperty("NSNotificationCenter", "defaultCenter")
	objc.CallVoid(center, "removeObserver:", v.peer)
	if v.tracking != objc.Nil {
		objc.ICall(v.peer, "removeTrackingArea:", v.tracking)
		objc.CallVoid(v.tracking, "release")
		v.tracking = objc.Nil
	}

	if v.parent != nil {
		v.parent.dropChild(v)
		v.parent = nil
	}
	if v.win != nil {
		objc.ICall(v.win.peer, "setContentView:")
	} else {
		objc.CallVoid(v.peer, "removeFromSuperview")
	}
	objc.CallVoid(v.peer, "release")
	v.peer = objc.Nil

	if v.win != nil {
		win := v.win
		v.win = nil
		return win.Close()
	}
	return nil
}

func (v *View) dropChild(child *View) {
	for i, c := range v.children {
		if c == child {
			v.children = append(v.children[:i], v.children[i+1:]...)
			return
		}
	}
}

// Window returns the bridge-managed window this view lives in, walking
// up to the window-backed root. nil for views in foreign windows.
func (v *View) Window() *Window {
	for t := v; t != nil; t = t.parent {
		if t.win != nil {
			return t.win
		}
	}
	return nil
}

// Parent returns the parent view, nil for roots.
func (v *View) Parent() *View { return v.parent }

// Children returns the live child views.
func (v *View) Children() []*View { return v.children }

// Frame returns the view's frame in its parent's coordinates.
func (v *View) Frame() Rect {
	if v.closed {
		return Rect{}
	}
	return fromNativeRect(objc.Call[objc.Rect](v.peer, "frame"))
}

// SetFrame moves and resizes the view within its parent.
func (v *View) SetFrame(r Rect) {
	if v.closed {
		return
	}
	objc.CallVoid(v.peer, "setFrame:", nativeRect(r))
}

// Bounds returns the view's own coordinate space.
func (v *View) Bounds() Rect {
	if v.closed {
		return Rect{}
	}
	return fromNativeRect(objc.Call[objc.Rect](v.peer, "bounds"))
}

// VisibleRect returns the part of the view's bounds not clipped away by
// its ancestors, empty when the view is hidden or fully clipped.
func (v *View) VisibleRect() Rect {
	if v.closed {
		return Rect{}
	}
	return fromNativeRect(objc.Call[objc.Rect](v.peer, "visibleRect"))
}

// ConvertPoint maps p from another view's coordinate space into this
// view's. With from nil, p is taken in window content coordinates.
func (v *View) ConvertPoint(p Point, from *View) Point {
	if v.closed {
		return p
	}
	src := objc.Nil
	if from != nil && !from.closed {
		src = from.peer
	}
	return fromNativePoint(objc.Call[objc.Point](v.peer, "convertPoint:fromView:", nativePoint(p), src))
}

// Show reveals the view.
func (v *View) Show() {
	objc.CallVoid(v.peer, "setHidden:", false)
}

// Hide conceals the view and its subtree.
func (v *View) Hide() {
	objc.CallVoid(v.peer, "setHidden:", true)
}

// IsVisible reports whether the view and all its ancestors are unhidden.
func (v *View) IsVisible() bool {
	if v.closed {
		return false
	}
	return !objc.Call[bool](v.peer, "isHiddenOrHasHiddenAncestor")
}

// SetAutoResize makes the view track its parent's size changes.
func (v *View) SetAutoResize(on bool) {
	mask := uint(0)
	if on {
		mask = autoresizeWidthHeight
	}
	objc.CallVoid(v.peer, "setAutoresizingMask:", mask)
}

// SetNeedsDisplay schedules a repaint of the whole view.
func (v *View) SetNeedsDisplay() {
	if v.closed {
		return
	}
	objc.CallVoid(v.peer, "setNeedsDisplay:", true)
}

// Focus moves keyboard focus to this view. Reports whether the window
// agreed; focus is exclusive within a window.
func (v *View) Focus() bool {
	win := v.nativeWindow()
	if win == objc.Nil {
		return false
	}
	return objc.Call[bool](win, "makeFirstResponder:", v.peer)
}

// HasFocus reports whether this view is its window's first responder.
func (v *View) HasFocus() bool {
	win := v.nativeWindow()
	if win == objc.Nil {
		return false
	}
	return objc.Call[objc.ID](win, "firstResponder") == v.peer
}

// ScreenPos converts a view-local point to top-left screen coordinates.
func (v *View) ScreenPos(p Point) Point {
	win := v.nativeWindow()
	if win == objc.Nil {
		return p
	}
	inWindow := objc.Call[objc.Point](v.peer, "convertPoint:toView:", nativePoint(p), objc.Nil)
	screen := objc.Call[objc.Rect](win, "convertRectToScreen:", objc.Rect{Origin: inWindow})
	return Point{
		X: float32(screen.Origin.X),
		Y: screenHeight() - float32(screen.Origin.Y),
	}
}

// Native returns the underlying view handle for interoperation.
func (v *View) Native() uintptr { return uintptr(v.peer) }

// NativeViewBounds reports the bounds of an arbitrary native view
// handle, for sizing views embedded with NewNativeView.
func NativeViewBounds(handle uintptr) Rect {
	if handle == 0 {
		return Rect{}
	}
	return fromNativeRect(objc.Call[objc.Rect](objc.ID(handle), "bounds"))
}

func (v *View) nativeWindow() objc.ID {
	if v.closed {
		return objc.Nil
	}
	return objc.Call[objc.ID](v.peer, "window")
}

func (v *View) draw(dirty Rect) {
	if v.OnDraw == nil {
		return
	}
	g := currentGraphicContext()
	if g == nil {
		reportInvariant("draw callback outside a draw pass on view %#x", uintptr(v.peer))
		return
	}
	v.OnDraw(g, dirty)
}

// routeMouse resolves the deepest bridge-managed view under the pointer.
// Tracking areas deliver all moves to the area's owner; hit testing
// redirects them so hover follows the view tree.
func (v *View) routeMouse(native objc.ID) *View {
	winPos := objc.Call[objc.Point](native, "locationInWindow")
	p := winPos
	if sup := objc.Call[objc.ID](v.peer, "superview"); sup != objc.Nil {
		p = objc.Call[objc.Point](sup, "convertPoint:fromView:", winPos, objc.Nil)
	}
	hit := objc.Call[objc.ID](v.peer, "hitTest:", p)
	if target := viewClass().Owner(hit); target != nil {
		return target
	}
	return v
}

// deliver snapshots the native event in target's coordinate space and
// hands it to the target's handler.
func (v *View) deliver(target *View, native objc.ID) {
	if target == nil || target.closed {
		return
	}
	e := snapshotEvent(native, target.peer)
	switch e.Kind {
	case EventMouseDown:
		target.anchor = e.Pos
		e.Anchor = target.anchor
	case EventMouseDrag, EventMouseUp:
		e.Anchor = target.anchor
	}
	if target.OnEvent != nil {
		target.OnEvent(&e)
	}
}
