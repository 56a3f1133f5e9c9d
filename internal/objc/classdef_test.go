package objc

import (
	"strings"
	"testing"
)

type testOwner struct {
	voidCalls  int
	boolReply  bool
	lastSender ID
	deallocs   int
}

func newTestRuntime(t *testing.T) *MemRuntime {
	t.Helper()
	rt := NewMemRuntime()
	SetRuntime(rt)
	return rt
}

func TestSynthesizedClassNamesDistinct(t *testing.T) {
	newTestRuntime(t)

	a := NewClassDef[testOwner]("NanouiView", "NSView")
	b := NewClassDef[testOwner]("NanouiView", "NSView")

	if a.Broken() || b.Broken() {
		t.Fatalf("descriptors broken: a=%v b=%v", a.Broken(), b.Broken())
	}
	if a.Name() == b.Name() {
		t.Fatalf("same-prefix descriptors share class name %q", a.Name())
	}
	if !strings.HasPrefix(a.Name(), "NanouiView") {
		t.Errorf("class name %q lost its prefix", a.Name())
	}
	if len(a.Name()) != len("NanouiView")+10 {
		t.Errorf("class name %q: unexpected suffix length", a.Name())
	}
}

func TestTrampolineOwnerRecovery(t *testing.T) {
	newTestRuntime(t)

	def := NewClassDef[testOwner]("NanouiOwner", "NSObject")
	def.AddVoidMethod("tick", func(o *testOwner) { o.voidCalls++ })
	def.AddBoolObjectMethod("shouldAct:", true, func(o *testOwner, sender ID) bool {
		o.lastSender = sender
		return o.boolReply
	})
	def.Register()

	owner := &testOwner{boolReply: true}
	obj := def.NewInstance(owner)
	if obj == Nil {
		t.Fatal("NewInstance returned Nil")
	}

	CallVoid(obj, "tick")
	CallVoid(obj, "tick")
	if owner.voidCalls != 2 {
		t.Errorf("voidCalls = %d, want 2", owner.voidCalls)
	}

	sender := ID(0xBEEF)
	if !Call[bool](obj, "shouldAct:", sender) {
		t.Error("shouldAct: = false, want owner's reply true")
	}
	if owner.lastSender != sender {
		t.Errorf("lastSender = %#x, want %#x", uintptr(owner.lastSender), uintptr(sender))
	}
}

func TestUnboundInstanceZeroPath(t *testing.T) {
	newTestRuntime(t)

	def := NewClassDef[testOwner]("NanouiOwner", "NSObject")
	def.AddVoidMethod("tick", func(o *testOwner) { o.voidCalls++ })
	def.AddBoolMethod("isLive", func(o *testOwner) bool { return true })
	def.AddBoolObjectMethod("shouldClose:", true, func(o *testOwner, _ ID) bool { return false })
	def.Register()

	owner := &testOwner{}
	obj := def.NewInstance(owner)
	def.Unbind(obj)

	CallVoid(obj, "tick")
	if owner.voidCalls != 0 {
		t.Errorf("unbound instance reached owner: voidCalls = %d", owner.voidCalls)
	}
	if Call[bool](obj, "isLive") {
		t.Error("unbound BOOL method answered true, want zero value")
	}
	// The stale default is the permissive reply, not the owner's veto.
	if !Call[bool](obj, "shouldClose:") {
		t.Error("unbound shouldClose: answered false, want default true")
	}
	if def.Owner(obj) != nil {
		t.Error("Owner returned non-nil after Unbind")
	}
}

func TestReferenceCountRoundTrip(t *testing.T) {
	rt := newTestRuntime(t)

	def := NewClassDef[testOwner]("NanouiOwner", "NSObject")
	def.AddRawMethod("dealloc", "v@:", func(self ID, _ SEL, _ []any) any {
		if o := def.Owner(self); o != nil {
			o.deallocs++
		}
		def.Unbind(self)
		def.SendSuperVoid(self, "dealloc")
		return nil
	})
	def.Register()

	owner := &testOwner{}
	obj := def.NewInstance(owner)

	CallVoid(obj, "retain")
	CallVoid(obj, "retain")
	if n := Call[uint](obj, "retainCount"); n != 3 {
		t.Fatalf("retainCount = %d after two retains, want 3", n)
	}

	CallVoid(obj, "release")
	CallVoid(obj, "release")
	if !rt.ObjectAlive(obj) {
		t.Fatal("object died with a reference outstanding")
	}
	if owner.deallocs != 0 {
		t.Fatal("dealloc ran early")
	}

	CallVoid(obj, "release")
	if rt.ObjectAlive(obj) {
		t.Error("object alive after final release")
	}
	if owner.deallocs != 1 {
		t.Errorf("deallocs = %d, want 1", owner.deallocs)
	}
	if def.LiveInstances() != 0 {
		t.Errorf("LiveInstances = %d after teardown, want 0", def.LiveInstances())
	}
}

func TestBrokenDescriptorDegrades(t *testing.T) {
	newTestRuntime(t)

	var logged []string
	SetLogger(func(format string, args ...any) {
		logged = append(logged, format)
	})
	defer SetLogger(func(string, ...any) {})

	def := NewClassDef[testOwner]("NanouiGhost", "NSNoSuchBase")
	if !def.Broken() {
		t.Fatal("descriptor with unknown base not marked broken")
	}
	if def.AddVoidMethod("tick", func(*testOwner) {}) {
		t.Error("AddVoidMethod succeeded on broken descriptor")
	}
	def.Register()
	if obj := def.NewInstance(&testOwner{}); obj != Nil {
		t.Errorf("NewInstance = %#x on broken descriptor, want Nil", uintptr(obj))
	}
	if len(logged) == 0 {
		t.Error("broken descriptor setup produced no log output")
	}
}

func TestAddMethodAfterRegister(t *testing.T) {
	newTestRuntime(t)

	def := NewClassDef[testOwner]("NanouiOwner", "NSObject")
	def.Register()
	if def.AddVoidMethod("late", func(*testOwner) {}) {
		t.Error("AddVoidMethod succeeded after Register")
	}
}

func TestProtocolConformance(t *testing.T) {
	rt := newTestRuntime(t)
	rt.RegisterProtocol("NSWindowDelegate")

	def := NewClassDef[testOwner]("NanouiDelegate", "NSObject")
	if !def.AddProtocol("NSWindowDelegate", false) {
		t.Error("conformance to a registered protocol failed")
	}
	if def.AddProtocol("NanouiInventedProtocol", false) {
		t.Error("non-forced conformance to unknown protocol succeeded")
	}
	if !def.AddProtocol("NanouiInventedProtocol", true) {
		t.Error("forced conformance did not allocate the protocol")
	}
}

func TestClassNameCollisionRejected(t *testing.T) {
	rt := newTestRuntime(t)

	if cls := rt.AllocateClassPair("NSObject", "NSView"); cls != 0 {
		t.Error("allocating over an existing class name succeeded")
	}
}

func TestSendSuperReturnsBaseResult(t *testing.T) {
	newTestRuntime(t)

	def := NewClassDef[testOwner]("NanouiOwner", "NSView")
	def.AddBoolMethod("acceptsFirstResponder", func(_ *testOwner) bool {
		return true
	})
	def.Register()

	owner := &testOwner{}
	obj := def.NewInstance(owner)
	CallVoid(obj, "initWithFrame:", Rect{Size: Size{Width: 10, Height: 10}})

	if !Call[bool](obj, "acceptsFirstResponder") {
		t.Fatal("override not reached through normal dispatch")
	}
	if SendSuper[bool](def, obj, "acceptsFirstResponder") {
		t.Error("super send reached the override, want the base default false")
	}

	CallVoid(obj, "release")
}
