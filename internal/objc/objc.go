// Package objc drives an Objective-C style message-passing runtime from Go.
//
// It has two halves. The portable half is a dynamic message invoker
// (Call/ICall/CallClass) and a class synthesizer (ClassDef) that registers
// brand-new native classes at runtime and installs Go-backed method
// implementations on them, without any compile-time knowledge of the native
// side. The platform half is a Runtime implementation: on darwin the real
// Objective-C runtime loaded through purego, elsewhere (and in tests) an
// in-memory runtime that emulates the AppKit selectors the bridge sends.
//
// Go pointers are never stored inside native objects. Each ClassDef keeps a
// side table from native instance handle to Go owner; trampolines look the
// owner up on every callback and fall back to a zero return when the owner
// is gone.
package objc

// ID is an opaque handle to a native object instance.
// On darwin it is the raw object pointer; on the in-memory runtime it is a
// table token. Nil is the null object; sends to Nil are caller errors.
type ID uintptr

// SEL is a registered selector token.
type SEL uintptr

// Class is an opaque handle to a native class.
type Class uintptr

// Nil is the null object handle.
const Nil ID = 0

// Point mirrors the native runtime's CGPoint layout.
type Point struct {
	X, Y float64
}

// Size mirrors the native runtime's CGSize layout.
type Size struct {
	Width, Height float64
}

// Rect mirrors the native runtime's CGRect layout.
type Rect struct {
	Origin Point
	Size   Size
}

// RetKind selects the return shape of a dynamic message send. The native
// dispatch function must be reinterpreted with the correct return type
// before the call; RetKind is how callers communicate that type through the
// type-erased Dispatch path.
type RetKind int

const (
	RetVoid RetKind = iota
	RetID
	RetBool
	RetInt
	RetUint
	RetFloat
	RetPoint
	RetSize
	RetRect
	RetString
)

// Imp is a Go-backed method implementation installed on a synthesized
// class. Arguments arrive type-erased in declaration order, without the
// implicit receiver and selector.
type Imp func(self ID, sel SEL, args []any) any

// Sel registers (or re-resolves) a selector by name with the active
// runtime. Registration is idempotent; runtimes intern the token.
func Sel(name string) SEL {
	return RT().RegisterSelector(name)
}

// Call sends a message to obj and returns its result as R.
//
// R must be one of the supported return shapes (ID, bool, integer, float,
// Point, Size, Rect, string). A selector that does not resolve on the
// target has no well-defined effect; that is a caller error, not a
// recoverable condition, and the runtime logs it and returns the zero R.
func Call[R any](obj ID, sel string, args ...any) R {
	return coerce[R](RT().Dispatch(obj, Sel(sel), retKindOf[R](), args))
}

// CallVoid sends a message to obj and discards any result.
func CallVoid(obj ID, sel string, args ...any) {
	RT().Dispatch(obj, Sel(sel), RetVoid, args)
}

// ICall is the fire-and-forget variant for side-effecting sends that take
// at most one object argument ("setDelegate:", "addSubview:", ...). With no
// argument the selector is still sent with a nil object parameter, matching
// the single-object method shape.
func ICall(obj ID, sel string, objArg ...ID) {
	if len(objArg) > 1 {
		panic("objc: ICall takes at most one object argument")
	}
	arg := Nil
	if len(objArg) == 1 {
		arg = objArg[0]
	}
	RT().Dispatch(obj, Sel(sel), RetVoid, []any{arg})
}

// CallClass sends a class-level message by class name, without holding an
// instance ("sharedApplication", "mainScreen", ...).
func CallClass[R any](className, sel string, args ...any) R {
	return coerce[R](RT().DispatchClass(className, Sel(sel), retKindOf[R](), args))
}

// CallClassVoid sends a class-level message and discards any result.
func CallClassVoid(className, sel string, args ...any) {
	RT().DispatchClass(className, Sel(sel), RetVoid, args)
}

// ClassProperty fetches an object-valued class property, the common
// "sharedApplication" / "defaultCenter" shape.
func ClassProperty(className, property string) ID {
	return CallClass[ID](className, property)
}

func retKindOf[R any]() RetKind {
	var z R
	switch any(z).(type) {
	case ID:
		return RetID
	case bool:
		return RetBool
	case int, int32, int64:
		return RetInt
	case uint, uint32, uint64, uintptr:
		return RetUint
	case float32, float64:
		return RetFloat
	case Point:
		return RetPoint
	case Size:
		return RetSize
	case Rect:
		return RetRect
	case string:
		return RetString
	default:
		return RetVoid
	}
}

// coerce narrows a type-erased dispatch result to R, tolerating the widened
// integer and float shapes runtimes hand back.
func coerce[R any](v any) R {
	var z R
	if v == nil {
		return z
	}
	if r, ok := v.(R); ok {
		return r
	}
	switch p := any(&z).(type) {
	case *int:
		*p = int(toInt64(v))
	case *int32:
		*p = int32(toInt64(v))
	case *int64:
		*p = toInt64(v)
	case *uint:
		*p = uint(toUint64(v))
	case *uint32:
		*p = uint32(toUint64(v))
	case *uint64:
		*p = toUint64(v)
	case *uintptr:
		*p = uintptr(toUint64(v))
	case *float32:
		*p = float32(toFloat64(v))
	case *float64:
		*p = toFloat64(v)
	case *bool:
		*p = toUint64(v) != 0
	case *ID:
		*p = ID(toUint64(v))
	}
	return z
}

func toInt64(v any) int64 {
	switch n := v.(type) {
	case ID:
		return int64(n)
	case SEL:
		return int64(n)
	case Class:
		return int64(n)
	case int:
		return int64(n)
	case int32:
		return int64(n)
	case int64:
		return n
	case uint:
		return int64(n)
	case uint32:
		return int64(n)
	case uint64:
		return int64(n)
	case uintptr:
		return int64(n)
	case bool:
		if n {
			return 1
		}
		return 0
	case float64:
		return int64(n)
	}
	return 0
}

func toUint64(v any) uint64 {
	return uint64(toInt64(v))
}

func toFloat64(v any) float64 {
	switch n := v.(type) {
	case float32:
		return float64(n)
	case float64:
		return n
	default:
		return float64(toInt64(v))
	}
}
