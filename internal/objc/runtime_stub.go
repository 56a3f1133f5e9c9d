package objc

import (
	"sync"
)

// MemRuntime is an in-memory Runtime. It interns selectors, hosts
// synthesized classes and emulates the small slice of Foundation and
// AppKit behavior the bridge actually sends: object lifetime with
// reference counts, view geometry and hit testing, window and
// application lifecycle, notifications, and a main-thread work queue.
//
// It exists so the whole bridge can run and be tested on hosts without an
// Objective-C runtime. Behavior it emulates is the documented behavior of
// the corresponding AppKit selector, reduced to what the bridge observes.
type MemRuntime struct {
	mu        sync.Mutex
	selectors map[string]SEL
	selNames  map[SEL]string
	classes   map[string]*stubClass
	classByID map[Class]*stubClass
	objects   map[ID]*stubObject
	protocols map[string]bool
	observers []stubObserver
	nextToken uintptr

	queueMu   sync.Mutex
	queueCond *sync.Cond
	queue     []func()

	// Shared AppKit-level state.
	app            ID
	currentGC      ID
	pressedButtons uint
	screenFrame    Rect
	screenVisible  Rect
}

type stubMethod struct {
	types string
	imp   Imp
}

type stubClass struct {
	name       string
	super      *stubClass
	handle     Class
	methods    map[SEL]stubMethod
	protocols  []string
	registered bool
	builtin    bool
}

type stubObserver struct {
	observer ID
	sel      SEL
	name     string
	object   ID
}

// NewMemRuntime returns a fresh in-memory runtime with the built-in class
// hierarchy installed and a 1440x900 main screen whose visible frame loses
// 25 points to the menu bar.
func NewMemRuntime() *MemRuntime {
	rt := &MemRuntime{
		selectors: make(map[string]SEL),
		selNames:  make(map[SEL]string),
		classes:   make(map[string]*stubClass),
		classByID: make(map[Class]*stubClass),
		objects:   make(map[ID]*stubObject),
		protocols: make(map[string]bool),
		nextToken: 1,
		screenFrame: Rect{Size: Size{Width: 1440, Height: 900}},
		screenVisible: Rect{
			Size: Size{Width: 1440, Height: 875},
		},
	}
	rt.queueCond = sync.NewCond(&rt.queueMu)
	rt.installBuiltins()
	return rt
}

func (rt *MemRuntime) Name() string { return "memory" }

func (rt *MemRuntime) token() uintptr {
	t := rt.nextToken
	rt.nextToken++
	return t
}

func (rt *MemRuntime) installBuiltins() {
	names := []string{
		"NSObject",
		"NSResponder",
		"NSView",
		"NSWindow",
		"NSPanel",
		"NSApplication",
		"NSScreen",
		"NSEvent",
		"NSColor",
		"NSString",
		"NSNotification",
		"NSNotificationCenter",
		"NSTrackingArea",
		"NSGraphicsContext",
		"NSMenu",
		"NSMenuItem",
		"NSURL",
		"NSURLRequest",
		"WKWebView",
		"WKWebViewConfiguration",
	}
	supers := map[string]string{
		"NSResponder":    "NSObject",
		"NSView":         "NSResponder",
		"NSWindow":       "NSResponder",
		"NSPanel":        "NSWindow",
		"NSApplication":  "NSResponder",
		"WKWebView":      "NSView",
	}
	for _, name := range names {
		cls := &stubClass{
			name:       name,
			handle:     Class(rt.token()),
			methods:    make(map[SEL]stubMethod),
			registered: true,
			builtin:    true,
		}
		rt.classes[name] = cls
		rt.classByID[cls.handle] = cls
	}
	for name, superName := range supers {
		rt.classes[name].super = rt.classes[superName]
	}
	for name := range rt.classes {
		if rt.classes[name].super == nil && name != "NSObject" {
			rt.classes[name].super = rt.classes["NSObject"]
		}
	}
}

func (rt *MemRuntime) RegisterSelector(name string) SEL {
	rt.mu.Lock()
	defer rt.mu.Unlock()
	if sel, ok := rt.selectors[name]; ok {
		return sel
	}
	sel := SEL(rt.token())
	rt.selectors[name] = sel
	rt.selNames[sel] = name
	return sel
}

func (rt *MemRuntime) SelectorName(sel SEL) string {
	rt.mu.Lock()
	defer rt.mu.Unlock()
	return rt.selNames[sel]
}

func (rt *MemRuntime) LookUpClass(name string) Class {
	rt.mu.Lock()
	defer rt.mu.Unlock()
	if cls, ok := rt.classes[name]; ok && cls.registered {
		return cls.handle
	}
	return 0
}

func (rt *MemRuntime) AllocateClassPair(baseName, name string) Class {
	rt.mu.Lock()
	defer rt.mu.Unlock()
	super, ok := rt.classes[baseName]
	if !ok || !super.registered {
		return 0
	}
	if _, taken := rt.classes[name]; taken {
		return 0
	}
	cls := &stubClass{
		name:    name,
		super:   super,
		handle:  Class(rt.token()),
		methods: make(map[SEL]stubMethod),
	}
	rt.classes[name] = cls
	rt.classByID[cls.handle] = cls
	return cls.handle
}

func (rt *MemRuntime) RegisterClassPair(cls Class) {
	rt.mu.Lock()
	defer rt.mu.Unlock()
	if c := rt.classByID[cls]; c != nil {
		c.registered = true
	}
}

func (rt *MemRuntime) AddMethod(cls Class, sel SEL, types string, imp Imp) bool {
	rt.mu.Lock()
	defer rt.mu.Unlock()
	c := rt.classByID[cls]
	if c == nil || c.registered || imp == nil {
		return false
	}
	c.methods[sel] = stubMethod{types: types, imp: imp}
	return true
}

func (rt *MemRuntime) AddProtocol(cls Class, name string, force bool) bool {
	rt.mu.Lock()
	defer rt.mu.Unlock()
	c := rt.classByID[cls]
	if c == nil || c.registered {
		return false
	}
	if !rt.protocols[name] {
		if !force {
			return false
		}
		rt.protocols[name] = true
	}
	c.protocols = append(c.protocols, name)
	return true
}

// RegisterProtocol pre-declares a protocol name, so tests can exercise the
// non-forced conformance path.
func (rt *MemRuntime) RegisterProtocol(name string) {
	rt.mu.Lock()
	defer rt.mu.Unlock()
	rt.protocols[name] = true
}

func (rt *MemRuntime) CreateInstance(cls Class) ID {
	rt.mu.Lock()
	defer rt.mu.Unlock()
	c := rt.classByID[cls]
	if c == nil || !c.registered {
		return Nil
	}
	return rt.newObjectLocked(c)
}

func (rt *MemRuntime) newObjectLocked(c *stubClass) ID {
	obj := &stubObject{
		id:   ID(rt.token()),
		cls:  c,
		refs: 1,
	}
	rt.objects[obj.id] = obj
	return obj.id
}

func (rt *MemRuntime) object(id ID) *stubObject {
	rt.mu.Lock()
	defer rt.mu.Unlock()
	return rt.objects[id]
}

func (rt *MemRuntime) lookupImp(c *stubClass, sel SEL) (Imp, bool) {
	for ; c != nil; c = c.super {
		if m, ok := c.methods[sel]; ok {
			return m.imp, true
		}
	}
	return nil, false
}

// responds reports whether obj's class chain carries an installed
// implementation for the named selector. Built-in behavior is not
// considered; delegate capability checks only care about synthesized
// methods.
func (rt *MemRuntime) responds(obj ID, selName string) bool {
	o := rt.object(obj)
	if o == nil {
		return false
	}
	sel := rt.RegisterSelector(selName)
	rt.mu.Lock()
	defer rt.mu.Unlock()
	_, ok := rt.lookupImp(o.cls, sel)
	return ok
}

func (rt *MemRuntime) Dispatch(obj ID, sel SEL, ret RetKind, args []any) any {
	if obj == Nil {
		logSetupError("message %q to nil object dropped", rt.SelectorName(sel))
		return nil
	}
	o := rt.object(obj)
	if o == nil {
		logSetupError("message %q to dead object %#x dropped", rt.SelectorName(sel), uintptr(obj))
		return nil
	}
	rt.mu.Lock()
	imp, ok := rt.lookupImp(o.cls, sel)
	rt.mu.Unlock()
	if ok {
		return imp(obj, sel, args)
	}
	return rt.builtinSend(o, rt.SelectorName(sel), args)
}

func (rt *MemRuntime) DispatchSuper(obj ID, baseName string, sel SEL, ret RetKind, args []any) any {
	o := rt.object(obj)
	if o == nil {
		logSetupError("super message %q to dead object %#x dropped", rt.SelectorName(sel), uintptr(obj))
		return nil
	}
	rt.mu.Lock()
	base := rt.classes[baseName]
	var imp Imp
	var ok bool
	if base != nil {
		imp, ok = rt.lookupImp(base, sel)
	}
	rt.mu.Unlock()
	if ok {
		return imp(obj, sel, args)
	}
	return rt.builtinSend(o, rt.SelectorName(sel), args)
}

func (rt *MemRuntime) DispatchClass(className string, sel SEL, ret RetKind, args []any) any {
	rt.mu.Lock()
	cls := rt.classes[className]
	rt.mu.Unlock()
	if cls == nil {
		logSetupError("class message %q to unknown class %s dropped", rt.SelectorName(sel), className)
		return nil
	}
	return rt.builtinClassSend(cls, rt.SelectorName(sel), args)
}

func (rt *MemRuntime) MainQueueAsync(fn func()) {
	rt.queueMu.Lock()
	rt.queue = append(rt.queue, fn)
	rt.queueCond.Signal()
	rt.queueMu.Unlock()
}

// DrainMainQueue runs everything currently queued and reports how many
// callables ran. Tests use it in place of a live run loop.
func (rt *MemRuntime) DrainMainQueue() int {
	ran := 0
	for {
		rt.queueMu.Lock()
		if len(rt.queue) == 0 {
			rt.queueMu.Unlock()
			return ran
		}
		fn := rt.queue[0]
		rt.queue = rt.queue[1:]
		rt.queueMu.Unlock()
		fn()
		ran++
	}
}

// runLoop services the main queue until stop is observed true with the
// queue empty.
func (rt *MemRuntime) runLoop(stopped func() bool) {
	for {
		rt.queueMu.Lock()
		for len(rt.queue) == 0 {
			if stopped() {
				rt.queueMu.Unlock()
				return
			}
			rt.queueCond.Wait()
		}
		fn := rt.queue[0]
		rt.queue = rt.queue[1:]
		rt.queueMu.Unlock()
		fn()
		if stopped() {
			rt.DrainMainQueue()
			return
		}
	}
}

// wakeRunLoop interrupts a runLoop blocked on an empty queue so it can
// re-check its stop condition.
func (rt *MemRuntime) wakeRunLoop() {
	rt.queueMu.Lock()
	rt.queueCond.Broadcast()
	rt.queueMu.Unlock()
}

// SetPressedMouseButtons overrides the pressed-button bitmask reported by
// the NSEvent class property. Bit 0 is the left button, bit 1 the right,
// bit 2 the middle.
func (rt *MemRuntime) SetPressedMouseButtons(mask uint) {
	rt.mu.Lock()
	rt.pressedButtons = mask
	rt.mu.Unlock()
}

// SetScreenMetrics overrides the main screen's frame and visible frame.
func (rt *MemRuntime) SetScreenMetrics(frame, visible Rect) {
	rt.mu.Lock()
	rt.screenFrame = frame
	rt.screenVisible = visible
	rt.mu.Unlock()
}

// ObjectAlive reports whether id still resolves to a live object.
func (rt *MemRuntime) ObjectAlive(id ID) bool {
	return rt.object(id) != nil
}

// RefCount reports id's reference count, 0 for a dead object.
func (rt *MemRuntime) RefCount(id ID) int {
	o := rt.object(id)
	if o == nil {
		return 0
	}
	rt.mu.Lock()
	defer rt.mu.Unlock()
	return o.refs
}
