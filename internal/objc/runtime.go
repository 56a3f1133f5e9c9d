package objc

import "sync"

// Runtime is the capability surface the bridge needs from a native
// object/message system: class and protocol registration, instance
// allocation, dynamic dispatch, and main-queue posting.
//
// Exactly one Runtime is active per process. Class registration happens
// during single-threaded setup; after that a Runtime must be safe for
// concurrent Dispatch and MainQueueAsync calls.
type Runtime interface {
	// Name identifies the backend ("objc", "memory").
	Name() string

	// RegisterSelector interns a selector by name.
	RegisterSelector(name string) SEL

	// SelectorName resolves a selector token back to its name.
	SelectorName(sel SEL) string

	// LookUpClass returns the named class, or 0 if it is not registered.
	LookUpClass(name string) Class

	// AllocateClassPair creates a new class derived from baseName. The
	// class is invisible to lookups until RegisterClassPair. Returns 0 if
	// the base class is unknown or the name collides.
	AllocateClassPair(baseName, name string) Class

	// RegisterClassPair finalizes cls; no methods or protocols may be
	// added afterwards.
	RegisterClassPair(cls Class)

	// AddMethod installs a method implementation on an unregistered
	// class. types is the runtime's type-encoding string ("v@:", "c@:@",
	// ...). Reports whether installation succeeded.
	AddMethod(cls Class, sel SEL, types string, imp Imp) bool

	// AddProtocol declares conformance to a named protocol. When force is
	// set and the protocol is unknown, an empty protocol is allocated and
	// registered under that name first.
	AddProtocol(cls Class, name string, force bool) bool

	// CreateInstance allocates one instance of a registered class.
	// Creating an instance of an unregistered class is undefined and
	// returns Nil here.
	CreateInstance(cls Class) ID

	// Dispatch performs a dynamic message send. ret selects the return
	// shape the caller will reinterpret the result as.
	Dispatch(obj ID, sel SEL, ret RetKind, args []any) any

	// DispatchSuper invokes baseName's implementation of sel directly on
	// obj, bypassing any synthesized override.
	DispatchSuper(obj ID, baseName string, sel SEL, ret RetKind, args []any) any

	// DispatchClass performs a class-level message send by class name.
	DispatchClass(className string, sel SEL, ret RetKind, args []any) any

	// MainQueueAsync schedules fn on the runtime's main-thread work
	// queue. Callable from any thread.
	MainQueueAsync(fn func())
}

var (
	runtimeMu sync.RWMutex
	current   Runtime
)

// RT returns the active runtime, creating the in-memory runtime on first
// use if no backend was installed.
func RT() Runtime {
	runtimeMu.RLock()
	rt := current
	runtimeMu.RUnlock()
	if rt != nil {
		return rt
	}

	runtimeMu.Lock()
	defer runtimeMu.Unlock()
	if current == nil {
		current = NewMemRuntime()
	}
	return current
}

// SetRuntime installs rt as the active runtime. Called once during process
// setup, before any class descriptors are built; tests use it to install a
// fresh in-memory runtime per test.
func SetRuntime(rt Runtime) {
	runtimeMu.Lock()
	defer runtimeMu.Unlock()
	current = rt
}
