//go:build darwin && (amd64 || arm64)

package objc

import (
	"fmt"
	"runtime"
	"sync"

	"github.com/ebitengine/purego"

	"github.com/obinnaokechukwu/nanoui/internal/handles"
	"github.com/obinnaokechukwu/nanoui/internal/platform"
)

// DarwinRuntime drives the real Objective-C runtime and AppKit, loaded
// with dlopen so the package builds without cgo.
type DarwinRuntime struct {
	queued handles.Table[uintptr, func()]
	nextMu sync.Mutex
	next   uintptr
}

var (
	objcLoaded   bool
	objcLoadOnce sync.Once
	objcLoadErr  error
)

// Runtime functions
var (
	selRegisterName       func(name string) uintptr
	selGetName            func(sel uintptr) string
	objcGetClass          func(name string) uintptr
	objcAllocateClassPair func(super uintptr, name string, extraBytes uintptr) uintptr
	objcRegisterClassPair func(cls uintptr)
	classAddMethod        func(cls, sel, imp uintptr, types string) bool
	classAddProtocol      func(cls, protocol uintptr) bool
	objcGetProtocol       func(name string) uintptr
	objcAllocateProtocol  func(name string) uintptr
	objcRegisterProtocol  func(protocol uintptr)
)

// objc_msgSend registered under every call shape the bridge sends. The
// same symbol is re-registered with different Go signatures; purego
// generates the matching call for each.
var (
	msgSend0     func(obj, sel uintptr) uintptr
	msgSend1     func(obj, sel, a uintptr) uintptr
	msgSend2     func(obj, sel, a, b uintptr) uintptr
	msgSend3     func(obj, sel, a, b, c uintptr) uintptr
	msgSend4     func(obj, sel, a, b, c, d uintptr) uintptr
	msgSend0F    func(obj, sel uintptr) float64
	msgSend4F    func(obj, sel uintptr, a, b, c, d float64) uintptr
	msgSendStr   func(obj, sel uintptr, s string) uintptr
	msgSend0CStr func(obj, sel uintptr) string

	msgSendRect1    func(obj, sel uintptr, r Rect) uintptr
	msgSendRectBool func(obj, sel uintptr, r Rect, b uintptr) uintptr
	msgSendRectUUU  func(obj, sel uintptr, r Rect, a, b, c uintptr) uintptr
	msgSendPoint1   func(obj, sel uintptr, p Point) uintptr
	msgSendSize1    func(obj, sel uintptr, s Size) uintptr

	msgSend0Point  func(obj, sel uintptr) Point
	msgSend0Size   func(obj, sel uintptr) Size
	msgSendPointID func(obj, sel uintptr, p Point, view uintptr) Point
	msgSendPointP  func(obj, sel uintptr, p Point) Point

	msgSend0Rect    func(obj, sel uintptr) Rect
	msgSendRectRect func(obj, sel uintptr, r Rect) Rect

	msgSendSuper0 func(super *objcSuper, sel uintptr) uintptr
	msgSendSuper1 func(super *objcSuper, sel, a uintptr) uintptr

	dispatchAsyncF func(queue, context, work uintptr)
	dispatchMainQ  uintptr
	asyncTrampoline uintptr
)

type objcSuper struct {
	receiver   uintptr
	superClass uintptr
}

// Load loads libobjc, AppKit and libdispatch and registers every message
// send shape. Safe to call multiple times.
func Load() error {
	objcLoadOnce.Do(func() {
		objcLoadErr = doLoad()
		if objcLoadErr == nil {
			objcLoaded = true
		}
	})
	return objcLoadErr
}

// IsLoaded reports whether the native runtime bindings are registered.
func IsLoaded() bool {
	return objcLoaded
}

func doLoad() error {
	libobjc, err := purego.Dlopen(platform.LibObjCPath, purego.RTLD_NOW|purego.RTLD_GLOBAL)
	if err != nil {
		return fmt.Errorf("loading libobjc: %w", err)
	}
	// AppKit pulls in Foundation and the class table the bridge looks up.
	if _, err := purego.Dlopen(platform.AppKitPath, purego.RTLD_NOW|purego.RTLD_GLOBAL); err != nil {
		return fmt.Errorf("loading AppKit: %w", err)
	}

	purego.RegisterLibFunc(&selRegisterName, libobjc, "sel_registerName")
	purego.RegisterLibFunc(&selGetName, libobjc, "sel_getName")
	purego.RegisterLibFunc(&objcGetClass, libobjc, "objc_getClass")
	purego.RegisterLibFunc(&objcAllocateClassPair, libobjc, "objc_allocateClassPair")
	purego.RegisterLibFunc(&objcRegisterClassPair, libobjc, "objc_registerClassPair")
	purego.RegisterLibFunc(&classAddMethod, libobjc, "class_addMethod")
	purego.RegisterLibFunc(&classAddProtocol, libobjc, "class_addProtocol")
	purego.RegisterLibFunc(&objcGetProtocol, libobjc, "objc_getProtocol")
	purego.RegisterLibFunc(&objcAllocateProtocol, libobjc, "objc_allocateProtocol")
	purego.RegisterLibFunc(&objcRegisterProtocol, libobjc, "objc_registerProtocol")

	purego.RegisterLibFunc(&msgSend0, libobjc, "objc_msgSend")
	purego.RegisterLibFunc(&msgSend1, libobjc, "objc_msgSend")
	purego.RegisterLibFunc(&msgSend2, libobjc, "objc_msgSend")
	purego.RegisterLibFunc(&msgSend3, libobjc, "objc_msgSend")
	purego.RegisterLibFunc(&msgSend4, libobjc, "objc_msgSend")
	purego.RegisterLibFunc(&msgSend0F, libobjc, "objc_msgSend")
	purego.RegisterLibFunc(&msgSend4F, libobjc, "objc_msgSend")
	purego.RegisterLibFunc(&msgSendStr, libobjc, "objc_msgSend")
	purego.RegisterLibFunc(&msgSend0CStr, libobjc, "objc_msgSend")
	purego.RegisterLibFunc(&msgSendRect1, libobjc, "objc_msgSend")
	purego.RegisterLibFunc(&msgSendRectBool, libobjc, "objc_msgSend")
	purego.RegisterLibFunc(&msgSendRectUUU, libobjc, "objc_msgSend")
	purego.RegisterLibFunc(&msgSendPoint1, libobjc, "objc_msgSend")
	purego.RegisterLibFunc(&msgSendSize1, libobjc, "objc_msgSend")
	purego.RegisterLibFunc(&msgSend0Point, libobjc, "objc_msgSend")
	purego.RegisterLibFunc(&msgSend0Size, libobjc, "objc_msgSend")
	purego.RegisterLibFunc(&msgSendPointID, libobjc, "objc_msgSend")
	purego.RegisterLibFunc(&msgSendPointP, libobjc, "objc_msgSend")

	// CGRect returns exceed two registers on amd64, where the runtime
	// routes them through objc_msgSend_stret. arm64 has no stret variant.
	rectSendSym := "objc_msgSend"
	if runtime.GOARCH == "amd64" {
		rectSendSym = "objc_msgSend_stret"
	}
	purego.RegisterLibFunc(&msgSend0Rect, libobjc, rectSendSym)
	purego.RegisterLibFunc(&msgSendRectRect, libobjc, rectSendSym)

	purego.RegisterLibFunc(&msgSendSuper0, libobjc, "objc_msgSendSuper")
	purego.RegisterLibFunc(&msgSendSuper1, libobjc, "objc_msgSendSuper")

	libSystem, err := purego.Dlopen("/usr/lib/libSystem.B.dylib", purego.RTLD_NOW|purego.RTLD_GLOBAL)
	if err != nil {
		return fmt.Errorf("loading libSystem: %w", err)
	}
	purego.RegisterLibFunc(&dispatchAsyncF, libSystem, "dispatch_async_f")
	dispatchMainQ, err = purego.Dlsym(libSystem, "_dispatch_main_q")
	if err != nil {
		return fmt.Errorf("resolving main dispatch queue: %w", err)
	}
	return nil
}

// NewDarwinRuntime loads the native bindings and returns a runtime over
// them.
func NewDarwinRuntime() (*DarwinRuntime, error) {
	if err := Load(); err != nil {
		return nil, err
	}
	rt := &DarwinRuntime{next: 1}
	asyncTrampoline = purego.NewCallback(func(context uintptr) uintptr {
		if fn, ok := rt.queued.Lookup(context); ok {
			rt.queued.Unbind(context)
			fn()
		}
		return 0
	})
	return rt, nil
}

func (rt *DarwinRuntime) Name() string { return "objc" }

func (rt *DarwinRuntime) RegisterSelector(name string) SEL {
	return SEL(selRegisterName(name))
}

func (rt *DarwinRuntime) SelectorName(sel SEL) string {
	return selGetName(uintptr(sel))
}

func (rt *DarwinRuntime) LookUpClass(name string) Class {
	return Class(objcGetClass(name))
}

func (rt *DarwinRuntime) AllocateClassPair(baseName, name string) Class {
	super := objcGetClass(baseName)
	if super == 0 {
		return 0
	}
	return Class(objcAllocateClassPair(super, name, 0))
}

func (rt *DarwinRuntime) RegisterClassPair(cls Class) {
	objcRegisterClassPair(uintptr(cls))
}

// AddMethod wraps imp in a C-callable trampoline whose signature matches
// the type encoding. The encoding set is closed; a shape outside it is a
// bridge bug and fails installation.
func (rt *DarwinRuntime) AddMethod(cls Class, sel SEL, types string, imp Imp) bool {
	var callback uintptr
	switch types {
	case "v@:":
		callback = purego.NewCallback(func(self, cmd uintptr) uintptr {
			imp(ID(self), SEL(cmd), nil)
			return 0
		})
	case "c@:":
		callback = purego.NewCallback(func(self, cmd uintptr) uintptr {
			if asBool(imp(ID(self), SEL(cmd), nil)) {
				return 1
			}
			return 0
		})
	case "v@:@":
		callback = purego.NewCallback(func(self, cmd, a uintptr) uintptr {
			imp(ID(self), SEL(cmd), []any{ID(a)})
			return 0
		})
	case "c@:@":
		callback = purego.NewCallback(func(self, cmd, a uintptr) uintptr {
			if asBool(imp(ID(self), SEL(cmd), []any{ID(a)})) {
				return 1
			}
			return 0
		})
	case "L@:@":
		callback = purego.NewCallback(func(self, cmd, a uintptr) uintptr {
			return uintptr(toUint64(imp(ID(self), SEL(cmd), []any{ID(a)})))
		})
	case "v@:{CGRect={CGPoint=dd}{CGSize=dd}}":
		// The rectangle argument is struct-by-value, which a Go callback
		// cannot receive portably across both arches. The trampoline
		// ignores it and reports the receiver's bounds instead; the
		// bridge repaints whole views, so the wider rect is correct.
		callback = purego.NewCallback(func(self, cmd uintptr) uintptr {
			bounds := msgSend0Rect(self, selRegisterName("bounds"))
			imp(ID(self), SEL(cmd), []any{bounds})
			return 0
		})
	default:
		return false
	}
	return classAddMethod(uintptr(cls), uintptr(sel), callback, types)
}

func (rt *DarwinRuntime) AddProtocol(cls Class, name string, force bool) bool {
	proto := objcGetProtocol(name)
	if proto == 0 {
		if !force {
			return false
		}
		proto = objcAllocateProtocol(name)
		if proto == 0 {
			return false
		}
		objcRegisterProtocol(proto)
	}
	return classAddProtocol(uintptr(cls), proto)
}

func (rt *DarwinRuntime) CreateInstance(cls Class) ID {
	return ID(msgSend0(uintptr(cls), selRegisterName("alloc")))
}

func (rt *DarwinRuntime) Dispatch(obj ID, sel SEL, ret RetKind, args []any) any {
	if obj == Nil {
		logSetupError("message %q to nil object dropped", rt.SelectorName(sel))
		return nil
	}
	return rt.msgSend(uintptr(obj), uintptr(sel), ret, args)
}

func (rt *DarwinRuntime) DispatchSuper(obj ID, baseName string, sel SEL, ret RetKind, args []any) any {
	super := objcSuper{
		receiver:   uintptr(obj),
		superClass: objcGetClass(baseName),
	}
	switch len(args) {
	case 0:
		return msgSendSuper0(&super, uintptr(sel))
	case 1:
		return msgSendSuper1(&super, uintptr(sel), wordArg(args[0]))
	}
	logSetupError("super message %q: unsupported argument count %d", rt.SelectorName(sel), len(args))
	return nil
}

func (rt *DarwinRuntime) DispatchClass(className string, sel SEL, ret RetKind, args []any) any {
	cls := objcGetClass(className)
	if cls == 0 {
		logSetupError("class message %q to unknown class %s dropped", rt.SelectorName(sel), className)
		return nil
	}
	return rt.msgSend(cls, uintptr(sel), ret, args)
}

func (rt *DarwinRuntime) MainQueueAsync(fn func()) {
	rt.nextMu.Lock()
	context := rt.next
	rt.next++
	rt.nextMu.Unlock()
	rt.queued.Bind(context, fn)
	dispatchAsyncF(dispatchMainQ, context, asyncTrampoline)
}

// msgSend marshals args, picks the registered objc_msgSend shape matching
// the argument pattern and return kind, and reinterprets the result.
func (rt *DarwinRuntime) msgSend(obj, sel uintptr, ret RetKind, args []any) any {
	switch ret {
	case RetFloat:
		if len(args) == 0 {
			return msgSend0F(obj, sel)
		}
	case RetPoint:
		switch pattern(args) {
		case "":
			return msgSend0Point(obj, sel)
		case "P":
			return msgSendPointP(obj, sel, args[0].(Point))
		case "Pw":
			return msgSendPointID(obj, sel, args[0].(Point), wordArg(args[1]))
		}
	case RetSize:
		if len(args) == 0 {
			return msgSend0Size(obj, sel)
		}
	case RetRect:
		switch pattern(args) {
		case "":
			return msgSend0Rect(obj, sel)
		case "R":
			return msgSendRectRect(obj, sel, args[0].(Rect))
		}
	case RetString:
		// Object-returning selector followed by UTF8String on the result.
		if len(args) == 0 {
			str := msgSend0(obj, sel)
			if str == 0 {
				return ""
			}
			return msgSend0CStr(str, selRegisterName("UTF8String"))
		}
	default:
		switch pattern(args) {
		case "":
			return msgSend0(obj, sel)
		case "w":
			return msgSend1(obj, sel, wordArg(args[0]))
		case "ww":
			return msgSend2(obj, sel, wordArg(args[0]), wordArg(args[1]))
		case "www":
			return msgSend3(obj, sel, wordArg(args[0]), wordArg(args[1]), wordArg(args[2]))
		case "wwww":
			return msgSend4(obj, sel, wordArg(args[0]), wordArg(args[1]), wordArg(args[2]), wordArg(args[3]))
		case "R":
			return msgSendRect1(obj, sel, args[0].(Rect))
		case "Rw":
			return msgSendRectBool(obj, sel, args[0].(Rect), wordArg(args[1]))
		case "Rwww":
			return msgSendRectUUU(obj, sel, args[0].(Rect),
				wordArg(args[1]), wordArg(args[2]), wordArg(args[3]))
		case "P":
			return msgSendPoint1(obj, sel, args[0].(Point))
		case "S":
			return msgSendSize1(obj, sel, args[0].(Size))
		case "ffff":
			return msgSend4F(obj, sel,
				toFloat64(args[0]), toFloat64(args[1]), toFloat64(args[2]), toFloat64(args[3]))
		}
	}
	logSetupError("message %q: unsupported call shape %s/%d", rt.SelectorName(SEL(sel)), pattern(args), ret)
	return nil
}

// pattern classifies the marshaled arguments: w for word-sized values,
// f for floats, P/S/R for the geometry structs. String arguments become
// NSString objects (word class) before classification.
func pattern(args []any) string {
	buf := make([]byte, len(args))
	for i, a := range args {
		switch a.(type) {
		case float32, float64:
			buf[i] = 'f'
		case Point:
			buf[i] = 'P'
		case Size:
			buf[i] = 'S'
		case Rect:
			buf[i] = 'R'
		default:
			buf[i] = 'w'
		}
	}
	return string(buf)
}

func wordArg(a any) uintptr {
	switch v := a.(type) {
	case string:
		return msgSendStr(objcGetClass("NSString"), selRegisterName("stringWithUTF8String:"), v)
	case bool:
		if v {
			return 1
		}
		return 0
	default:
		return uintptr(toUint64(a))
	}
}
