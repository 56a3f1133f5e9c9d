package objc

import (
	"math"

	"github.com/obinnaokechukwu/nanoui/internal/quartz"
)

// stubObject is one live object in the in-memory runtime. Role state is
// attached lazily by the init selector that gives the object its behavior;
// an object without a role only has NSObject lifetime semantics.
type stubObject struct {
	id   ID
	cls  *stubClass
	refs int

	view     *viewState
	window   *windowState
	app      *appState
	event    *EventDesc
	color    *colorState
	str      string
	hasStr   bool
	note     *noteState
	tracking *trackingState
	gc       *gcState
	menu     *menuState
	menuItem *menuItemState
	screen   bool
	center   bool
	url      string
	request  ID
	webview  *webviewState
}

type viewState struct {
	frame             Rect
	bounds            Rect
	hidden            bool
	superview         ID
	window            ID
	subviews          []ID
	trackingAreas     []ID
	autoresizingMask  uint
	postsFrameChanged bool
}

type windowState struct {
	frame              Rect
	styleMask          uint
	title              string
	contentView        ID
	delegate           ID
	firstResponder     ID
	visible            bool
	key                bool
	miniaturized       bool
	fullScreen         bool
	hasShadow          bool
	documentEdited     bool
	opaque             bool
	backgroundColor    ID
	releasedWhenClosed bool
	closed             bool
}

type appState struct {
	delegate         ID
	running          bool
	stopped          bool
	launched         bool
	terminating      bool
	mainMenu         ID
	activationPolicy int
}

// EventDesc is the full payload of a synthetic input event. Tests build
// one and mint an event object from it with NewEvent.
type EventDesc struct {
	Type          uint
	Location      Point
	ModifierFlags uint
	ClickCount    int
	ButtonNumber  int
	DeltaX        float64
	DeltaY        float64
	Timestamp     float64
	Window        ID
	Characters    string
	KeyCode       uint
}

type colorState struct {
	R, G, B, A float64
}

type noteState struct {
	name   string
	object ID
}

type trackingState struct {
	rect    Rect
	options uint
	owner   ID
}

type gcState struct {
	ctx quartz.ContextRef
}

type menuState struct {
	title string
	items []ID
}

type menuItemState struct {
	title     string
	action    SEL
	target    ID
	keyEquiv  string
	modMask   uint
	tag       int
	submenu   ID
	separator bool
}

type webviewState struct {
	configuration ID
	lastRequest   ID
}

// NewEvent mints an event object carrying desc. The caller owns one
// reference.
func (rt *MemRuntime) NewEvent(desc EventDesc) ID {
	rt.mu.Lock()
	defer rt.mu.Unlock()
	id := rt.newObjectLocked(rt.classes["NSEvent"])
	d := desc
	rt.objects[id].event = &d
	return id
}

// NewStringObject mints an NSString-role object holding s.
func (rt *MemRuntime) NewStringObject(s string) ID {
	rt.mu.Lock()
	defer rt.mu.Unlock()
	id := rt.newObjectLocked(rt.classes["NSString"])
	rt.objects[id].str = s
	rt.objects[id].hasStr = true
	return id
}

func (rt *MemRuntime) send(obj ID, selName string, args ...any) any {
	return rt.Dispatch(obj, rt.RegisterSelector(selName), RetVoid, args)
}

func (rt *MemRuntime) sendToDelegate(delegate ID, selName string, payload ID) {
	if delegate == Nil || !rt.responds(delegate, selName) {
		return
	}
	rt.send(delegate, selName, payload)
}

// builtinSend emulates the AppKit/Foundation instance selectors the bridge
// sends when no synthesized implementation shadows them.
func (rt *MemRuntime) builtinSend(o *stubObject, selName string, args []any) any {
	switch selName {
	case "retain":
		rt.mu.Lock()
		o.refs++
		rt.mu.Unlock()
		return o.id
	case "release":
		rt.mu.Lock()
		o.refs--
		dead := o.refs <= 0
		rt.mu.Unlock()
		if dead {
			rt.send(o.id, "dealloc")
		}
		return nil
	case "autorelease":
		return o.id
	case "retainCount":
		rt.mu.Lock()
		defer rt.mu.Unlock()
		return uint(o.refs)
	case "dealloc":
		rt.destroy(o)
		return nil
	case "init":
		return o.id
	case "respondsToSelector:":
		sel := argSEL(args, 0)
		rt.mu.Lock()
		defer rt.mu.Unlock()
		_, ok := rt.lookupImp(o.cls, sel)
		return ok
	case "isEqual:":
		return argAnyID(args, 0) == o.id
	}

	if o.hasStr {
		if v, handled := rt.stringSend(o, selName); handled {
			return v
		}
	}
	if o.event != nil {
		if v, handled := rt.eventSend(o, selName); handled {
			return v
		}
	}
	if o.note != nil {
		switch selName {
		case "name":
			return o.note.name
		case "object":
			return o.note.object
		}
	}
	if o.color != nil {
		switch selName {
		case "redComponent":
			return o.color.R
		case "greenComponent":
			return o.color.G
		case "blueComponent":
			return o.color.B
		case "alphaComponent":
			return o.color.A
		}
	}
	if o.screen {
		switch selName {
		case "frame":
			rt.mu.Lock()
			defer rt.mu.Unlock()
			return rt.screenFrame
		case "visibleFrame":
			rt.mu.Lock()
			defer rt.mu.Unlock()
			return rt.screenVisible
		}
	}
	if o.center {
		if v, handled := rt.notificationCenterSend(o, selName, args); handled {
			return v
		}
	}
	if o.gc != nil && selName == "CGContext" {
		return uintptr(o.gc.ctx)
	}
	if o.tracking != nil {
		switch selName {
		case "rect":
			return o.tracking.rect
		case "options":
			return o.tracking.options
		case "owner":
			return o.tracking.owner
		}
	}

	switch selName {
	case "initWithFrame:":
		o.view = &viewState{frame: argRectAt(args, 0)}
		o.view.bounds = Rect{Size: o.view.frame.Size}
		return o.id
	case "initWithContentRect:styleMask:backing:defer:":
		return rt.windowInit(o, argRectAt(args, 0), argUintAt(args, 1))
	case "initWithRect:options:owner:userInfo:":
		o.tracking = &trackingState{
			rect:    argRectAt(args, 0),
			options: argUintAt(args, 1),
			owner:   argAnyID(args, 2),
		}
		return o.id
	case "initWithTitle:":
		o.menu = &menuState{title: argStringAt(rt, args, 0)}
		return o.id
	case "initWithTitle:action:keyEquivalent:":
		o.menuItem = &menuItemState{
			title:    argStringAt(rt, args, 0),
			action:   argSEL(args, 1),
			keyEquiv: argStringAt(rt, args, 2),
		}
		return o.id
	case "initWithFrame:configuration:":
		o.view = &viewState{frame: argRectAt(args, 0)}
		o.view.bounds = Rect{Size: o.view.frame.Size}
		o.webview = &webviewState{configuration: argAnyID(args, 1)}
		return o.id
	}

	if o.view != nil {
		if v, handled := rt.viewSend(o, selName, args); handled {
			return v
		}
	}
	if o.window != nil {
		if v, handled := rt.windowSend(o, selName, args); handled {
			return v
		}
	}
	if o.app != nil {
		if v, handled := rt.appSend(o, selName, args); handled {
			return v
		}
	}
	if o.menu != nil {
		if v, handled := rt.menuSend(o, selName, args); handled {
			return v
		}
	}
	if o.menuItem != nil {
		if v, handled := rt.menuItemSend(o, selName, args); handled {
			return v
		}
	}
	if o.webview != nil && selName == "loadRequest:" {
		o.webview.lastRequest = argAnyID(args, 0)
		return nil
	}
	if o.webview != nil && selName == "lastRequest" {
		return o.webview.lastRequest
	}
	if o.url != "" && selName == "absoluteString" {
		return o.url
	}
	if o.request != Nil && selName == "URL" {
		return o.request
	}

	// Unknown selectors are no-ops with a nil result, which the caller's
	// coercion turns into the zero value. Matches the degraded behavior
	// the bridge promises for stale targets.
	return nil
}

func (rt *MemRuntime) destroy(o *stubObject) {
	rt.mu.Lock()
	delete(rt.objects, o.id)
	kept := rt.observers[:0]
	for _, ob := range rt.observers {
		if ob.observer != o.id {
			kept = append(kept, ob)
		}
	}
	rt.observers = kept
	rt.mu.Unlock()
}

func (rt *MemRuntime) stringSend(o *stubObject, selName string) (any, bool) {
	switch selName {
	case "UTF8String":
		return o.str, true
	case "length":
		return uint(len(o.str)), true
	case "copy":
		return rt.NewStringObject(o.str), true
	}
	return nil, false
}

func (rt *MemRuntime) eventSend(o *stubObject, selName string) (any, bool) {
	e := o.event
	switch selName {
	case "type":
		return e.Type, true
	case "locationInWindow":
		return e.Location, true
	case "modifierFlags":
		return e.ModifierFlags, true
	case "clickCount":
		return e.ClickCount, true
	case "buttonNumber":
		return e.ButtonNumber, true
	case "deltaX", "scrollingDeltaX":
		return e.DeltaX, true
	case "deltaY", "scrollingDeltaY":
		return e.DeltaY, true
	case "timestamp":
		return e.Timestamp, true
	case "window":
		return e.Window, true
	case "characters", "charactersIgnoringModifiers":
		return e.Characters, true
	case "keyCode":
		return e.KeyCode, true
	}
	return nil, false
}

func (rt *MemRuntime) notificationCenterSend(o *stubObject, selName string, args []any) (any, bool) {
	switch selName {
	case "addObserver:selector:name:object:":
		rt.mu.Lock()
		rt.observers = append(rt.observers, stubObserver{
			observer: argAnyID(args, 0),
			sel:      argSEL(args, 1),
			name:     argStringAt(rt, args, 2),
			object:   argAnyID(args, 3),
		})
		rt.mu.Unlock()
		return nil, true
	case "removeObserver:":
		target := argAnyID(args, 0)
		rt.mu.Lock()
		kept := rt.observers[:0]
		for _, ob := range rt.observers {
			if ob.observer != target {
				kept = append(kept, ob)
			}
		}
		rt.observers = kept
		rt.mu.Unlock()
		return nil, true
	}
	return nil, false
}

func (rt *MemRuntime) postNotification(name string, object ID) {
	rt.mu.Lock()
	var matched []stubObserver
	for _, ob := range rt.observers {
		if ob.name == name && (ob.object == Nil || ob.object == object) {
			matched = append(matched, ob)
		}
	}
	var note ID
	if len(matched) > 0 {
		note = rt.newObjectLocked(rt.classes["NSNotification"])
		rt.objects[note].note = &noteState{name: name, object: object}
	}
	rt.mu.Unlock()
	for _, ob := range matched {
		rt.Dispatch(ob.observer, ob.sel, RetVoid, []any{note})
	}
	if note != Nil {
		rt.send(note, "release")
	}
}

// --- NSView ---

func (rt *MemRuntime) viewSend(o *stubObject, selName string, args []any) (any, bool) {
	v := o.view
	switch selName {
	case "frame":
		return v.frame, true
	case "setFrame:":
		rt.setViewFrame(o, argRectAt(args, 0))
		return nil, true
	case "setFrameOrigin:":
		f := v.frame
		f.Origin = argPointAt(args, 0)
		rt.setViewFrame(o, f)
		return nil, true
	case "setFrameSize:":
		f := v.frame
		f.Size = argSizeAt(args, 0)
		rt.setViewFrame(o, f)
		return nil, true
	case "bounds":
		return v.bounds, true
	case "setBounds:":
		v.bounds = argRectAt(args, 0)
		return nil, true
	case "isHidden":
		return v.hidden, true
	case "isHiddenOrHasHiddenAncestor":
		return rt.hiddenOrAncestorHidden(o.id), true
	case "setHidden:":
		hide := argBoolAt(args, 0)
		if hide != v.hidden {
			v.hidden = hide
			if hide {
				rt.send(o.id, "viewDidHide")
			} else {
				rt.send(o.id, "viewDidUnhide")
			}
		}
		return nil, true
	case "superview":
		return v.superview, true
	case "window":
		return v.window, true
	case "addSubview:":
		rt.addSubview(o, argAnyID(args, 0))
		return nil, true
	case "removeFromSuperview":
		rt.removeFromSuperview(o)
		return nil, true
	case "hitTest:":
		return rt.hitTest(o, argPointAt(args, 0)), true
	case "visibleRect":
		return rt.visibleRect(o), true
	case "convertPoint:fromView:":
		p := argPointAt(args, 0)
		return rt.convertPoint(p, argAnyID(args, 1), o.id), true
	case "convertPoint:toView:":
		p := argPointAt(args, 0)
		return rt.convertPoint(p, o.id, argAnyID(args, 1)), true
	case "addTrackingArea:":
		area := argAnyID(args, 0)
		v.trackingAreas = append(v.trackingAreas, area)
		rt.send(area, "retain")
		return nil, true
	case "removeTrackingArea:":
		area := argAnyID(args, 0)
		for i, a := range v.trackingAreas {
			if a == area {
				v.trackingAreas = append(v.trackingAreas[:i], v.trackingAreas[i+1:]...)
				rt.send(area, "release")
				break
			}
		}
		return nil, true
	case "updateTrackingAreas":
		return nil, true
	case "setAutoresizingMask:":
		v.autoresizingMask = argUintAt(args, 0)
		return nil, true
	case "setPostsFrameChangedNotifications:":
		v.postsFrameChanged = argBoolAt(args, 0)
		return nil, true
	case "setNeedsDisplay:":
		if argBoolAt(args, 0) {
			rt.drawView(o)
		}
		return nil, true
	case "acceptsFirstResponder":
		return false, true
	case "becomeFirstResponder", "resignFirstResponder":
		return true, true
	case "viewWillDraw", "drawRect:", "viewDidHide", "viewDidUnhide",
		"didAddSubview:", "willRemoveSubview:",
		"mouseDown:", "mouseUp:", "rightMouseDown:", "rightMouseUp:",
		"otherMouseDown:", "otherMouseUp:", "mouseMoved:", "mouseDragged:",
		"rightMouseDragged:", "otherMouseDragged:", "mouseEntered:",
		"mouseExited:", "scrollWheel:", "keyDown:", "keyUp:", "flagsChanged:",
		"setWantsLayer:", "displayIfNeeded":
		return nil, true
	}
	return nil, false
}

func (rt *MemRuntime) setViewFrame(o *stubObject, f Rect) {
	v := o.view
	changed := f != v.frame
	v.frame = f
	v.bounds = Rect{Size: f.Size}
	if changed && v.postsFrameChanged {
		rt.postNotification("NSViewFrameDidChangeNotification", o.id)
	}
}

func (rt *MemRuntime) addSubview(parent *stubObject, child ID) {
	c := rt.object(child)
	if c == nil || c.view == nil {
		return
	}
	if c.view.superview != Nil {
		rt.removeFromSuperview(c)
	}
	parent.view.subviews = append(parent.view.subviews, child)
	c.view.superview = parent.id
	rt.send(child, "retain")
	rt.setViewWindow(c, parent.view.window)
	rt.send(parent.id, "didAddSubview:", child)
}

func (rt *MemRuntime) removeFromSuperview(o *stubObject) {
	v := o.view
	if v.superview == Nil {
		return
	}
	rt.send(v.superview, "willRemoveSubview:", o.id)
	if p := rt.object(v.superview); p != nil && p.view != nil {
		subs := p.view.subviews
		for i, s := range subs {
			if s == o.id {
				p.view.subviews = append(subs[:i], subs[i+1:]...)
				break
			}
		}
	}
	v.superview = Nil
	rt.setViewWindow(o, Nil)
	rt.send(o.id, "release")
}

func (rt *MemRuntime) setViewWindow(o *stubObject, w ID) {
	o.view.window = w
	for _, s := range o.view.subviews {
		if c := rt.object(s); c != nil && c.view != nil {
			rt.setViewWindow(c, w)
		}
	}
}

// hitTest follows the AppKit contract: the point arrives in the
// receiver's superview coordinate space, subviews are tested from
// front to back, and a hidden view never hits.
func (rt *MemRuntime) hitTest(o *stubObject, p Point) ID {
	v := o.view
	if v.hidden {
		return Nil
	}
	local := Point{X: p.X - v.frame.Origin.X, Y: p.Y - v.frame.Origin.Y}
	if local.X < 0 || local.Y < 0 ||
		local.X > v.bounds.Size.Width || local.Y > v.bounds.Size.Height {
		return Nil
	}
	for i := len(v.subviews) - 1; i >= 0; i-- {
		hit := rt.Dispatch(v.subviews[i], rt.RegisterSelector("hitTest:"), RetID, []any{local})
		if id := asID(hit); id != Nil {
			return id
		}
	}
	return o.id
}

// visibleRect clips a view's bounds against its superview chain, in the
// view's own coordinates. Hidden views have an empty visible rect.
func (rt *MemRuntime) visibleRect(o *stubObject) Rect {
	v := o.view
	if v.hidden {
		return Rect{}
	}
	sup := rt.object(v.superview)
	if sup == nil || sup.view == nil {
		return v.bounds
	}
	clip := rt.visibleRect(sup)
	clip.Origin.X -= v.frame.Origin.X
	clip.Origin.Y -= v.frame.Origin.Y
	return intersectRect(v.bounds, clip)
}

func intersectRect(a, b Rect) Rect {
	x0 := math.Max(a.Origin.X, b.Origin.X)
	y0 := math.Max(a.Origin.Y, b.Origin.Y)
	x1 := math.Min(a.Origin.X+a.Size.Width, b.Origin.X+b.Size.Width)
	y1 := math.Min(a.Origin.Y+a.Size.Height, b.Origin.Y+b.Size.Height)
	if x1 <= x0 || y1 <= y0 {
		return Rect{}
	}
	return Rect{Origin: Point{X: x0, Y: y0}, Size: Size{Width: x1 - x0, Height: y1 - y0}}
}

// absOrigin accumulates a view's origin in window content coordinates.
func (rt *MemRuntime) absOrigin(view ID) Point {
	var p Point
	for view != Nil {
		o := rt.object(view)
		if o == nil || o.view == nil {
			break
		}
		p.X += o.view.frame.Origin.X
		p.Y += o.view.frame.Origin.Y
		view = o.view.superview
	}
	return p
}

func (rt *MemRuntime) convertPoint(p Point, from, to ID) Point {
	src := rt.absOrigin(from)
	dst := rt.absOrigin(to)
	return Point{X: p.X + src.X - dst.X, Y: p.Y + src.Y - dst.Y}
}

func (rt *MemRuntime) hiddenOrAncestorHidden(view ID) bool {
	for view != Nil {
		o := rt.object(view)
		if o == nil || o.view == nil {
			return false
		}
		if o.view.hidden {
			return true
		}
		view = o.view.superview
	}
	return false
}

// drawView runs a synchronous draw pass: a fresh memory-backend context
// becomes the current graphics context, then viewWillDraw and drawRect:
// are delivered to the view and its visible subviews.
func (rt *MemRuntime) drawView(o *stubObject) {
	if rt.hiddenOrAncestorHidden(o.id) {
		return
	}
	ctx := quartz.Mem().NewContext()
	rt.mu.Lock()
	gc := rt.newObjectLocked(rt.classes["NSGraphicsContext"])
	rt.objects[gc].gc = &gcState{ctx: ctx}
	prev := rt.currentGC
	rt.currentGC = gc
	rt.mu.Unlock()

	rt.deliverDraw(o)

	rt.mu.Lock()
	rt.currentGC = prev
	rt.mu.Unlock()
	rt.send(gc, "release")
}

func (rt *MemRuntime) deliverDraw(o *stubObject) {
	rt.send(o.id, "viewWillDraw")
	rt.send(o.id, "drawRect:", o.view.bounds)
	for _, s := range o.view.subviews {
		if c := rt.object(s); c != nil && c.view != nil && !c.view.hidden {
			rt.deliverDraw(c)
		}
	}
}

// --- NSWindow ---

const stubTitleBarHeight = 22

const styleMaskTitled = 1 << 0

func (rt *MemRuntime) windowInit(o *stubObject, contentRect Rect, styleMask uint) ID {
	o.window = &windowState{
		styleMask:          styleMask,
		hasShadow:          true,
		opaque:             true,
		releasedWhenClosed: true,
	}
	o.window.frame = rt.frameForContent(contentRect, styleMask)

	rt.mu.Lock()
	content := rt.newObjectLocked(rt.classes["NSView"])
	rt.objects[content].view = &viewState{
		frame:  Rect{Size: contentRect.Size},
		bounds: Rect{Size: contentRect.Size},
		window: o.id,
	}
	rt.mu.Unlock()
	o.window.contentView = content
	return o.id
}

func (rt *MemRuntime) frameForContent(content Rect, styleMask uint) Rect {
	f := content
	if styleMask&styleMaskTitled != 0 {
		f.Size.Height += stubTitleBarHeight
	}
	return f
}

func (rt *MemRuntime) contentForFrame(frame Rect, styleMask uint) Rect {
	c := frame
	if styleMask&styleMaskTitled != 0 {
		c.Size.Height -= stubTitleBarHeight
	}
	return c
}

func (rt *MemRuntime) windowSend(o *stubObject, selName string, args []any) (any, bool) {
	w := o.window
	switch selName {
	case "contentView":
		return w.contentView, true
	case "setContentView:":
		rt.setContentView(o, argAnyID(args, 0))
		return nil, true
	case "title":
		return w.title, true
	case "setTitle:":
		w.title = argStringAt(rt, args, 0)
		return nil, true
	case "frame":
		return w.frame, true
	case "setFrame:display:":
		rt.setWindowFrame(o, argRectAt(args, 0))
		return nil, true
	case "setFrameOrigin:":
		f := w.frame
		f.Origin = argPointAt(args, 0)
		rt.setWindowFrame(o, f)
		return nil, true
	case "styleMask":
		return w.styleMask, true
	case "setStyleMask:":
		w.styleMask = argUintAt(args, 0)
		return nil, true
	case "center":
		rt.mu.Lock()
		vis := rt.screenVisible
		rt.mu.Unlock()
		f := w.frame
		f.Origin.X = vis.Origin.X + (vis.Size.Width-f.Size.Width)/2
		f.Origin.Y = vis.Origin.Y + (vis.Size.Height-f.Size.Height)/2
		rt.setWindowFrame(o, f)
		return nil, true
	case "makeKeyAndOrderFront:":
		w.visible = true
		w.key = true
		rt.sendToDelegate(w.delegate, "windowDidBecomeKey:", o.id)
		return nil, true
	case "orderOut:":
		w.visible = false
		w.key = false
		rt.sendToDelegate(w.delegate, "windowDidResignKey:", o.id)
		return nil, true
	case "close":
		rt.closeWindow(o)
		return nil, true
	case "performClose:":
		if w.delegate != Nil && rt.responds(w.delegate, "windowShouldClose:") {
			reply := rt.Dispatch(w.delegate, rt.RegisterSelector("windowShouldClose:"), RetBool, []any{o.id})
			if !asBool(reply) {
				return nil, true
			}
		}
		rt.closeWindow(o)
		return nil, true
	case "delegate":
		return w.delegate, true
	case "setDelegate:":
		w.delegate = argAnyID(args, 0)
		return nil, true
	case "firstResponder":
		return w.firstResponder, true
	case "makeFirstResponder:":
		return rt.makeFirstResponder(o, argAnyID(args, 0)), true
	case "isVisible":
		return w.visible, true
	case "isKeyWindow":
		return w.key, true
	case "isMiniaturized":
		return w.miniaturized, true
	case "miniaturize:":
		w.miniaturized = true
		rt.sendToDelegate(w.delegate, "windowDidMiniaturize:", o.id)
		return nil, true
	case "deminiaturize:":
		w.miniaturized = false
		rt.sendToDelegate(w.delegate, "windowDidDeminiaturize:", o.id)
		return nil, true
	case "toggleFullScreen:":
		if w.fullScreen {
			rt.sendToDelegate(w.delegate, "windowWillExitFullScreen:", o.id)
			w.fullScreen = false
			rt.sendToDelegate(w.delegate, "windowDidExitFullScreen:", o.id)
		} else {
			rt.sendToDelegate(w.delegate, "windowWillEnterFullScreen:", o.id)
			w.fullScreen = true
			rt.sendToDelegate(w.delegate, "windowDidEnterFullScreen:", o.id)
		}
		return nil, true
	case "hasShadow":
		return w.hasShadow, true
	case "setHasShadow:":
		w.hasShadow = argBoolAt(args, 0)
		return nil, true
	case "isDocumentEdited":
		return w.documentEdited, true
	case "setDocumentEdited:":
		w.documentEdited = argBoolAt(args, 0)
		return nil, true
	case "backgroundColor":
		return w.backgroundColor, true
	case "setBackgroundColor:":
		w.backgroundColor = argAnyID(args, 0)
		return nil, true
	case "isOpaque":
		return w.opaque, true
	case "setOpaque:":
		w.opaque = argBoolAt(args, 0)
		return nil, true
	case "setTitlebarAppearsTransparent:", "setTitleVisibility:":
		return nil, true
	case "setReleasedWhenClosed:":
		w.releasedWhenClosed = argBoolAt(args, 0)
		return nil, true
	case "screen":
		return rt.screenObject(), true
	case "convertRectToScreen:":
		r := argRectAt(args, 0)
		r.Origin.X += w.frame.Origin.X
		r.Origin.Y += w.frame.Origin.Y
		return r, true
	case "convertRectFromScreen:":
		r := argRectAt(args, 0)
		r.Origin.X -= w.frame.Origin.X
		r.Origin.Y -= w.frame.Origin.Y
		return r, true
	case "contentRectForFrameRect:":
		return rt.contentForFrame(argRectAt(args, 0), w.styleMask), true
	case "frameRectForContentRect:":
		return rt.frameForContent(argRectAt(args, 0), w.styleMask), true
	}
	return nil, false
}

func (rt *MemRuntime) setContentView(o *stubObject, view ID) {
	w := o.window
	if w.contentView == view {
		return
	}
	if old := rt.object(w.contentView); old != nil && old.view != nil {
		rt.setViewWindow(old, Nil)
		rt.send(old.id, "release")
	}
	w.contentView = view
	if c := rt.object(view); c != nil && c.view != nil {
		content := rt.contentForFrame(w.frame, w.styleMask)
		c.view.frame = Rect{Size: content.Size}
		c.view.bounds = Rect{Size: content.Size}
		rt.send(view, "retain")
		rt.setViewWindow(c, o.id)
	}
}

func (rt *MemRuntime) setWindowFrame(o *stubObject, f Rect) {
	w := o.window
	w.frame = f
	if c := rt.object(w.contentView); c != nil && c.view != nil {
		content := rt.contentForFrame(f, w.styleMask)
		rt.setViewFrame(c, Rect{Size: content.Size})
	}
}

func (rt *MemRuntime) closeWindow(o *stubObject) {
	w := o.window
	if w.closed {
		return
	}
	rt.sendToDelegate(w.delegate, "windowWillClose:", o.id)
	w.visible = false
	w.key = false
	w.closed = true
	if w.releasedWhenClosed {
		rt.send(o.id, "release")
	}
}

func (rt *MemRuntime) makeFirstResponder(o *stubObject, next ID) bool {
	w := o.window
	if w.firstResponder == next {
		return true
	}
	if next != Nil {
		accepts := rt.Dispatch(next, rt.RegisterSelector("acceptsFirstResponder"), RetBool, nil)
		if !asBool(accepts) {
			return false
		}
	}
	if prev := w.firstResponder; prev != Nil {
		rt.Dispatch(prev, rt.RegisterSelector("resignFirstResponder"), RetBool, nil)
	}
	w.firstResponder = next
	if next != Nil {
		rt.Dispatch(next, rt.RegisterSelector("becomeFirstResponder"), RetBool, nil)
	}
	return true
}

// --- NSApplication ---

func (rt *MemRuntime) appSend(o *stubObject, selName string, args []any) (any, bool) {
	a := o.app
	switch selName {
	case "delegate":
		return a.delegate, true
	case "setDelegate:":
		a.delegate = argAnyID(args, 0)
		return nil, true
	case "setActivationPolicy:":
		a.activationPolicy = int(toInt64(argAt(args, 0)))
		return true, true
	case "activateIgnoringOtherApps:":
		return nil, true
	case "finishLaunching":
		rt.launchApp(o)
		return nil, true
	case "isRunning":
		return a.running, true
	case "run":
		rt.runApp(o)
		return nil, true
	case "stop:":
		a.stopped = true
		rt.wakeRunLoop()
		return nil, true
	case "terminate:":
		rt.MainQueueAsync(func() { rt.terminateApp(o) })
		rt.wakeRunLoop()
		return nil, true
	case "mainMenu":
		return a.mainMenu, true
	case "setMainMenu:":
		a.mainMenu = argAnyID(args, 0)
		return nil, true
	}
	return nil, false
}

func (rt *MemRuntime) launchApp(o *stubObject) {
	a := o.app
	if a.launched {
		return
	}
	a.launched = true
	rt.sendToDelegate(a.delegate, "applicationWillFinishLaunching:", o.id)
	rt.sendToDelegate(a.delegate, "applicationDidFinishLaunching:", o.id)
}

func (rt *MemRuntime) runApp(o *stubObject) {
	a := o.app
	rt.launchApp(o)
	a.running = true
	rt.runLoop(func() bool { return a.stopped })
	a.running = false
}

// terminateApp asks the delegate for permission, then stops the run loop.
// NSTerminateNow is 1, NSTerminateCancel is 0.
func (rt *MemRuntime) terminateApp(o *stubObject) {
	a := o.app
	if a.delegate != Nil && rt.responds(a.delegate, "applicationShouldTerminate:") {
		reply := rt.Dispatch(a.delegate, rt.RegisterSelector("applicationShouldTerminate:"), RetUint, []any{o.id})
		if toUint64(reply) == 0 {
			return
		}
	}
	if a.terminating {
		return
	}
	a.terminating = true
	rt.sendToDelegate(a.delegate, "applicationWillTerminate:", o.id)
	a.stopped = true
	rt.wakeRunLoop()
}

// --- NSMenu / NSMenuItem ---

func (rt *MemRuntime) menuSend(o *stubObject, selName string, args []any) (any, bool) {
	m := o.menu
	switch selName {
	case "addItem:":
		item := argAnyID(args, 0)
		m.items = append(m.items, item)
		rt.send(item, "retain")
		return nil, true
	case "numberOfItems":
		return len(m.items), true
	case "itemWithTag:":
		tag := int(toInt64(argAt(args, 0)))
		for _, item := range m.items {
			if it := rt.object(item); it != nil && it.menuItem != nil && it.menuItem.tag == tag {
				return item, true
			}
		}
		return Nil, true
	case "title":
		return m.title, true
	}
	return nil, false
}

func (rt *MemRuntime) menuItemSend(o *stubObject, selName string, args []any) (any, bool) {
	mi := o.menuItem
	switch selName {
	case "setTag:":
		mi.tag = int(toInt64(argAt(args, 0)))
		return nil, true
	case "tag":
		return mi.tag, true
	case "setTarget:":
		mi.target = argAnyID(args, 0)
		return nil, true
	case "target":
		return mi.target, true
	case "setAction:":
		mi.action = argSEL(args, 0)
		return nil, true
	case "action":
		return uintptr(mi.action), true
	case "setSubmenu:":
		mi.submenu = argAnyID(args, 0)
		rt.send(mi.submenu, "retain")
		return nil, true
	case "submenu":
		return mi.submenu, true
	case "setKeyEquivalentModifierMask:":
		mi.modMask = argUintAt(args, 0)
		return nil, true
	case "keyEquivalent":
		return mi.keyEquiv, true
	case "title":
		return mi.title, true
	}
	return nil, false
}

// --- class-level sends ---

func (rt *MemRuntime) builtinClassSend(cls *stubClass, selName string, args []any) any {
	switch selName {
	case "alloc", "new":
		rt.mu.Lock()
		id := rt.newObjectLocked(cls)
		rt.mu.Unlock()
		return id
	}

	switch cls.name {
	case "NSApplication":
		if selName == "sharedApplication" {
			return rt.sharedApplication()
		}
	case "NSScreen":
		if selName == "mainScreen" {
			return rt.screenObject()
		}
	case "NSEvent":
		if selName == "pressedMouseButtons" {
			rt.mu.Lock()
			defer rt.mu.Unlock()
			return rt.pressedButtons
		}
	case "NSColor":
		if selName == "colorWithRed:green:blue:alpha:" {
			rt.mu.Lock()
			id := rt.newObjectLocked(cls)
			rt.objects[id].color = &colorState{
				R: argFloatAt(args, 0),
				G: argFloatAt(args, 1),
				B: argFloatAt(args, 2),
				A: argFloatAt(args, 3),
			}
			rt.mu.Unlock()
			return id
		}
	case "NSString":
		if selName == "stringWithUTF8String:" {
			return rt.NewStringObject(argStringAt(rt, args, 0))
		}
	case "NSNotificationCenter":
		if selName == "defaultCenter" {
			return rt.notificationCenter()
		}
	case "NSGraphicsContext":
		if selName == "currentContext" {
			rt.mu.Lock()
			defer rt.mu.Unlock()
			return rt.currentGC
		}
	case "NSMenuItem":
		if selName == "separatorItem" {
			rt.mu.Lock()
			id := rt.newObjectLocked(cls)
			rt.objects[id].menuItem = &menuItemState{separator: true}
			rt.mu.Unlock()
			return id
		}
	case "NSURL":
		if selName == "URLWithString:" {
			rt.mu.Lock()
			id := rt.newObjectLocked(cls)
			rt.objects[id].url = argStringAt(rt, args, 0)
			rt.mu.Unlock()
			return id
		}
	case "NSURLRequest":
		if selName == "requestWithURL:" {
			rt.mu.Lock()
			id := rt.newObjectLocked(cls)
			rt.objects[id].request = argAnyID(args, 0)
			rt.mu.Unlock()
			return id
		}
	}
	logSetupError("class message %q to %s not understood", selName, cls.name)
	return nil
}

func (rt *MemRuntime) sharedApplication() ID {
	rt.mu.Lock()
	defer rt.mu.Unlock()
	if rt.app == Nil {
		rt.app = rt.newObjectLocked(rt.classes["NSApplication"])
		rt.objects[rt.app].app = &appState{}
	}
	return rt.app
}

func (rt *MemRuntime) screenObject() ID {
	rt.mu.Lock()
	defer rt.mu.Unlock()
	for _, o := range rt.objects {
		if o.screen {
			return o.id
		}
	}
	id := rt.newObjectLocked(rt.classes["NSScreen"])
	rt.objects[id].screen = true
	return id
}

func (rt *MemRuntime) notificationCenter() ID {
	rt.mu.Lock()
	defer rt.mu.Unlock()
	for _, o := range rt.objects {
		if o.center {
			return o.id
		}
	}
	id := rt.newObjectLocked(rt.classes["NSNotificationCenter"])
	rt.objects[id].center = true
	return id
}

// --- argument helpers ---

func argAt(args []any, i int) any {
	if i < len(args) {
		return args[i]
	}
	return nil
}

func argAnyID(args []any, i int) ID {
	return asID(argAt(args, i))
}

func asID(v any) ID {
	switch n := v.(type) {
	case ID:
		return n
	case nil:
		return Nil
	default:
		return ID(toUint64(v))
	}
}

func asBool(v any) bool {
	switch n := v.(type) {
	case bool:
		return n
	case nil:
		return false
	default:
		return toUint64(v) != 0
	}
}

func argSEL(args []any, i int) SEL {
	switch n := argAt(args, i).(type) {
	case SEL:
		return n
	case string:
		return RT().RegisterSelector(n)
	default:
		return SEL(toUint64(n))
	}
}

func argRectAt(args []any, i int) Rect {
	if r, ok := argAt(args, i).(Rect); ok {
		return r
	}
	return Rect{}
}

func argPointAt(args []any, i int) Point {
	if p, ok := argAt(args, i).(Point); ok {
		return p
	}
	return Point{}
}

func argSizeAt(args []any, i int) Size {
	if s, ok := argAt(args, i).(Size); ok {
		return s
	}
	return Size{}
}

func argUintAt(args []any, i int) uint {
	return uint(toUint64(argAt(args, i)))
}

func argBoolAt(args []any, i int) bool {
	return asBool(argAt(args, i))
}

func argFloatAt(args []any, i int) float64 {
	return toFloat64(argAt(args, i))
}

// argStringAt unwraps either a Go string or an NSString-role object.
func argStringAt(rt *MemRuntime, args []any, i int) string {
	switch s := argAt(args, i).(type) {
	case string:
		return s
	case ID:
		if o := rt.object(s); o != nil && o.hasStr {
			return o.str
		}
	}
	return ""
}
