package nanoui

import (
	"testing"

	"github.com/obinnaokechukwu/nanoui/internal/objc"
)

// memRT returns the in-memory runtime backing the tests. The whole
// package shares one runtime; class descriptors are registered once.
func memRT(t *testing.T) *objc.MemRuntime {
	t.Helper()
	if IsNative() {
		t.Skip("native runtime active, in-memory tests do not apply")
	}
	rt, ok := objc.RT().(*objc.MemRuntime)
	if !ok {
		t.Fatalf("unexpected runtime backend %q", objc.RT().Name())
	}
	return rt
}

// newTestRoot creates a window-backed root view sized 400x300 at a
// known position and tears it down with the test.
func newTestRoot(t *testing.T) *View {
	t.Helper()
	root, err := NewWindowView(WindowOptions{
		Title: "test",
		Frame: Rect{X: 100, Y: 100, Width: 400, Height: 300},
		Style: StyleDefault,
	})
	if err != nil {
		t.Fatalf("NewWindowView: %v", err)
	}
	t.Cleanup(func() {
		for len(root.Children()) > 0 {
			root.Children()[0].Close()
		}
		root.Close()
	})
	return root
}

func newChild(t *testing.T, parent *View, frame Rect) *View {
	t.Helper()
	v, err := NewView(parent, frame)
	if err != nil {
		t.Fatalf("NewView: %v", err)
	}
	return v
}
