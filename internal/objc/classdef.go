package objc

import (
	"fmt"
	"math/rand"
	"os"
	"sync"

	"github.com/obinnaokechukwu/nanoui/internal/handles"
)

// Setup failures are packaging or runtime-compatibility bugs, not
// transient conditions; there is no retry, so they must be loud.
var (
	logMu sync.Mutex
	logf  = func(format string, args ...any) {
		fmt.Fprintf(os.Stderr, "[nanoui/objc] "+format+"\n", args...)
	}
)

// SetLogger redirects the package's setup-failure log output.
func SetLogger(fn func(format string, args ...any)) {
	logMu.Lock()
	defer logMu.Unlock()
	if fn != nil {
		logf = fn
	}
}

func logSetupError(format string, args ...any) {
	logMu.Lock()
	fn := logf
	logMu.Unlock()
	fn(format, args...)
}

const classNameAlphabet = "0123456789" +
	"ABCDEFGHIJKLMNOPQRSTUVWXYZ" +
	"abcdefghijklmnopqrstuvwxyz"

// randomSuffix decorates synthesized class names so descriptors built in
// the same process, or classes surviving from an earlier load in the same
// process, never collide.
func randomSuffix(n int) string {
	b := make([]byte, n)
	for i := range b {
		b[i] = classNameAlphabet[rand.Intn(len(classNameAlphabet))]
	}
	return string(b)
}

// ClassDef synthesizes one native class bound to one Go owner type T.
//
// Exactly one ClassDef exists per bridged type for the lifetime of the
// process; construct it behind a sync.Once and never tear it down, since
// the native runtime has no safe way to revoke a live class. After
// Register the definition is read-only and instance creation is safe from
// any goroutine.
//
// The owner association replaces the classic hidden-ivar back-pointer with
// a handle side table. Trampolines recover the owner from the table; when
// the instance is unbound (owner tearing down) they return a
// type-appropriate zero instead of calling into freed state.
type ClassDef[T any] struct {
	rt         Runtime
	cls        Class
	name       string
	baseName   string
	owners     handles.Table[ID, *T]
	registered bool
	broken     bool
}

// NewClassDef allocates a class pair derived from baseName, named
// prefix plus a random suffix. On allocation failure the definition is
// marked broken: every later Add call is a logged no-op and CreateInstance
// returns Nil, so a misconfigured runtime degrades to "feature does
// nothing" rather than crashing.
func NewClassDef[T any](prefix, baseName string) *ClassDef[T] {
	d := &ClassDef[T]{
		rt:       RT(),
		name:     prefix + randomSuffix(10),
		baseName: baseName,
	}
	d.cls = d.rt.AllocateClassPair(baseName, d.name)
	if d.cls == 0 {
		logSetupError("allocating class %s (base %s) failed", d.name, baseName)
		d.broken = true
	}
	return d
}

// Name returns the synthesized class name.
func (d *ClassDef[T]) Name() string { return d.name }

// Class returns the synthesized class handle, or 0 when broken.
func (d *ClassDef[T]) Class() Class { return d.cls }

// Broken reports whether any setup step failed. A broken definition never
// delivers callbacks; instances created from it are Nil.
func (d *ClassDef[T]) Broken() bool { return d.broken }

// AddRawMethod installs imp as-is, the free-function case. The imp
// receives the raw self handle and must do its own owner recovery; used
// for methods that need to chain into the superclass ("dealloc",
// "viewWillDraw").
func (d *ClassDef[T]) AddRawMethod(sel, types string, imp Imp) bool {
	if d.broken || d.registered {
		d.failMethod(sel)
		return false
	}
	if !d.rt.AddMethod(d.cls, d.rt.RegisterSelector(sel), types, imp) {
		d.failMethod(sel)
		return false
	}
	return true
}

// AddVoidMethod installs a no-argument void method forwarded to fn.
func (d *ClassDef[T]) AddVoidMethod(sel string, fn func(owner *T)) bool {
	return d.AddRawMethod(sel, "v@:", func(self ID, _ SEL, _ []any) any {
		if p, ok := d.owners.Lookup(self); ok {
			fn(p)
		}
		return nil
	})
}

// AddBoolMethod installs a no-argument BOOL method forwarded to fn.
// A stale instance answers false.
func (d *ClassDef[T]) AddBoolMethod(sel string, fn func(owner *T) bool) bool {
	return d.AddRawMethod(sel, "c@:", func(self ID, _ SEL, _ []any) any {
		if p, ok := d.owners.Lookup(self); ok {
			return fn(p)
		}
		return false
	})
}

// AddNotificationMethod installs the common single-object observer shape:
// void return, one object argument, any owner return ignored.
func (d *ClassDef[T]) AddNotificationMethod(sel string, fn func(owner *T, note ID)) bool {
	return d.AddRawMethod(sel, "v@:@", func(self ID, _ SEL, args []any) any {
		if p, ok := d.owners.Lookup(self); ok {
			fn(p, argID(args, 0))
		}
		return nil
	})
}

// AddBoolObjectMethod installs a BOOL method with one object argument
// ("windowShouldClose:"). A stale instance answers defaultReply.
func (d *ClassDef[T]) AddBoolObjectMethod(sel string, defaultReply bool, fn func(owner *T, sender ID) bool) bool {
	return d.AddRawMethod(sel, "c@:@", func(self ID, _ SEL, args []any) any {
		if p, ok := d.owners.Lookup(self); ok {
			return fn(p, argID(args, 0))
		}
		return defaultReply
	})
}

// AddUintObjectMethod installs an unsigned-integer method with one object
// argument ("applicationShouldTerminate:").
func (d *ClassDef[T]) AddUintObjectMethod(sel string, defaultReply uint, fn func(owner *T, sender ID) uint) bool {
	return d.AddRawMethod(sel, "L@:@", func(self ID, _ SEL, args []any) any {
		if p, ok := d.owners.Lookup(self); ok {
			return fn(p, argID(args, 0))
		}
		return defaultReply
	})
}

// AddRectMethod installs a void method taking one rectangle by value
// ("drawRect:").
func (d *ClassDef[T]) AddRectMethod(sel string, fn func(owner *T, r Rect)) bool {
	return d.AddRawMethod(sel, "v@:{CGRect={CGPoint=dd}{CGSize=dd}}", func(self ID, _ SEL, args []any) any {
		if p, ok := d.owners.Lookup(self); ok {
			fn(p, argRect(args, 0))
		}
		return nil
	})
}

// AddProtocol declares conformance to protocolName; with force set, an
// unknown protocol is allocated and registered first so conformance can
// still be declared on runtime versions lacking it.
func (d *ClassDef[T]) AddProtocol(protocolName string, force bool) bool {
	if d.broken || d.registered {
		return false
	}
	if !d.rt.AddProtocol(d.cls, protocolName, force) {
		logSetupError("class %s: adding protocol %s failed", d.name, protocolName)
		return false
	}
	return true
}

// Register finalizes the class with the runtime. No ivars, methods or
// protocols may be added afterwards.
func (d *ClassDef[T]) Register() {
	if d.broken || d.registered {
		return
	}
	d.rt.RegisterClassPair(d.cls)
	d.registered = true
}

// NewInstance allocates one instance of the finalized class and binds
// owner as its back-pointer. Returns Nil on a broken or unregistered
// definition.
func (d *ClassDef[T]) NewInstance(owner *T) ID {
	if d.broken || !d.registered {
		logSetupError("class %s: instance requested before registration", d.name)
		return Nil
	}
	obj := d.rt.CreateInstance(d.cls)
	if obj != Nil && owner != nil {
		d.owners.Bind(obj, owner)
	}
	return obj
}

// Bind (re)associates obj with owner.
func (d *ClassDef[T]) Bind(obj ID, owner *T) {
	d.owners.Bind(obj, owner)
}

// Unbind nulls obj's back-pointer. Must happen before the owner is
// destroyed; notifications racing the teardown then hit the zero-return
// path instead of freed state.
func (d *ClassDef[T]) Unbind(obj ID) {
	d.owners.Unbind(obj)
}

// Owner recovers the Go owner bound to obj, or nil.
func (d *ClassDef[T]) Owner(obj ID) *T {
	p, _ := d.owners.Lookup(obj)
	return p
}

// LiveInstances reports the number of bound instances.
func (d *ClassDef[T]) LiveInstances() int { return d.owners.Count() }

// SendSuperVoid invokes the base class's implementation of sel directly on
// self, bypassing the synthesized override. Used inside trampolines that
// need default behavior, deallocation chaining in particular.
func (d *ClassDef[T]) SendSuperVoid(self ID, sel string, args ...any) {
	d.rt.DispatchSuper(self, d.baseName, d.rt.RegisterSelector(sel), RetVoid, args)
}

// SendSuper invokes the base class's implementation of sel directly on
// self and returns its result as R. Methods cannot carry type
// parameters, so the typed super send lives at package level.
func SendSuper[R any, T any](d *ClassDef[T], self ID, sel string, args ...any) R {
	return coerce[R](d.rt.DispatchSuper(self, d.baseName, d.rt.RegisterSelector(sel), retKindOf[R](), args))
}

func (d *ClassDef[T]) failMethod(sel string) {
	logSetupError("class %s: adding method %q failed", d.name, sel)
}

func argID(args []any, i int) ID {
	if i >= len(args) {
		return Nil
	}
	if id, ok := args[i].(ID); ok {
		return id
	}
	return ID(toUint64(args[i]))
}

func argRect(args []any, i int) Rect {
	if i < len(args) {
		if r, ok := args[i].(Rect); ok {
			return r
		}
	}
	return Rect{}
}
