package nanoui

import (
	"errors"
	"testing"

	"github.com/obinnaokechukwu/nanoui/internal/objc"
)

func TestViewHierarchy(t *testing.T) {
	memRT(t)
	root := newTestRoot(t)

	if root.Window() == nil {
		t.Fatal("window-backed root has no Window")
	}
	if got := root.Frame().Size(); got != (Size{Width: 400, Height: 300}) {
		t.Fatalf("root size = %+v", got)
	}

	child := newChild(t, root, Rect{X: 50, Y: 40, Width: 100, Height: 100})
	if child.Parent() != root {
		t.Fatal("child parent mismatch")
	}
	if len(root.Children()) != 1 || root.Children()[0] != child {
		t.Fatal("root children mismatch")
	}
	if child.Window() != root.Window() {
		t.Fatal("child does not resolve the root's window")
	}
	if got := child.Frame(); got != (Rect{X: 50, Y: 40, Width: 100, Height: 100}) {
		t.Fatalf("child frame = %+v", got)
	}
}

func TestCloseRejectsLiveChildren(t *testing.T) {
	rt := memRT(t)
	root, err := NewWindowView(WindowOptions{
		Frame: Rect{Width: 200, Height: 200},
		Style: StyleTitled,
	})
	if err != nil {
		t.Fatal(err)
	}
	child := newChild(t, root, Rect{Width: 50, Height: 50})
	grand := newChild(t, child, Rect{Width: 10, Height: 10})

	if err := child.Close(); !errors.Is(err, ErrChildrenRemain) {
		t.Fatalf("closing mid-tree view: err = %v", err)
	}
	if err := grand.Close(); err != nil {
		t.Fatalf("closing leaf: %v", err)
	}
	if err := child.Close(); err != nil {
		t.Fatalf("closing emptied child: %v", err)
	}
	rootPeer := objc.ID(root.Native())
	if err := root.Close(); err != nil {
		t.Fatalf("closing root: %v", err)
	}
	if rt.ObjectAlive(rootPeer) {
		t.Fatal("root peer survived close")
	}
	if err := root.Close(); err != nil {
		t.Fatalf("second close: %v", err)
	}
}

func TestMouseDownAnchorsDrags(t *testing.T) {
	rt := memRT(t)
	root := newTestRoot(t)
	child := newChild(t, root, Rect{X: 50, Y: 40, Width: 100, Height: 100})

	var got []Event
	child.OnEvent = func(e *Event) bool {
		got = append(got, *e)
		return true
	}

	down := rt.NewEvent(objc.EventDesc{
		Type:       nsLeftMouseDown,
		Location:   objc.Point{X: 60, Y: 55},
		ClickCount: 1,
	})
	objc.CallVoid(objc.ID(child.Native()), "mouseDown:", down)
	objc.CallVoid(down, "release")

	drag := rt.NewEvent(objc.EventDesc{
		Type:     nsLeftMouseDragged,
		Location: objc.Point{X: 80, Y: 75},
	})
	objc.CallVoid(objc.ID(child.Native()), "mouseDragged:", drag)
	objc.CallVoid(drag, "release")

	if len(got) != 2 {
		t.Fatalf("delivered %d events, want 2", len(got))
	}
	if got[0].Kind != EventMouseDown || got[0].Button != ButtonLeft {
		t.Fatalf("first event = %v %v", got[0].Kind, got[0].Button)
	}
	if got[0].Pos != (Point{X: 10, Y: 15}) || got[0].Anchor != got[0].Pos {
		t.Fatalf("down pos %+v anchor %+v", got[0].Pos, got[0].Anchor)
	}
	if got[1].Kind != EventMouseDrag || got[1].Pos != (Point{X: 30, Y: 35}) {
		t.Fatalf("drag pos = %+v", got[1].Pos)
	}
	if got[1].Anchor != (Point{X: 10, Y: 15}) {
		t.Fatalf("drag anchor = %+v, want the mouse-down position", got[1].Anchor)
	}
	if got[1].WindowPos != (Point{X: 80, Y: 75}) {
		t.Fatalf("drag window pos = %+v", got[1].WindowPos)
	}
}

func TestMouseMoveReroutesToDeepestView(t *testing.T) {
	rt := memRT(t)
	root := newTestRoot(t)
	child := newChild(t, root, Rect{X: 50, Y: 40, Width: 100, Height: 100})

	var rootHits, childHits int
	root.OnEvent = func(e *Event) bool { rootHits++; return true }
	child.OnEvent = func(e *Event) bool {
		childHits++
		if e.Kind != EventMouseMove {
			t.Fatalf("kind = %v", e.Kind)
		}
		if e.Pos != (Point{X: 25, Y: 30}) {
			t.Fatalf("rerouted pos = %+v", e.Pos)
		}
		return true
	}

	move := func(x, y float64) {
		ev := rt.NewEvent(objc.EventDesc{Type: nsMouseMoved, Location: objc.Point{X: x, Y: y}})
		objc.CallVoid(objc.ID(root.Native()), "mouseMoved:", ev)
		objc.CallVoid(ev, "release")
	}

	move(75, 70)
	if childHits != 1 || rootHits != 0 {
		t.Fatalf("child %d root %d after move over child", childHits, rootHits)
	}

	// A hidden view never hit-tests; the move falls back to the view
	// the tracking area delivered it to.
	child.Hide()
	move(75, 70)
	if childHits != 1 || rootHits != 1 {
		t.Fatalf("child %d root %d after move over hidden child", childHits, rootHits)
	}
}

func TestFocusIsExclusivePerWindow(t *testing.T) {
	memRT(t)
	root := newTestRoot(t)
	a := newChild(t, root, Rect{Width: 50, Height: 50})
	b := newChild(t, root, Rect{X: 60, Width: 50, Height: 50})

	var aLog, bLog []bool
	a.OnFocusChange = func(focused bool) { aLog = append(aLog, focused) }
	b.OnFocusChange = func(focused bool) { bLog = append(bLog, focused) }

	if !a.Focus() {
		t.Fatal("focusing a refused")
	}
	if !a.HasFocus() || b.HasFocus() {
		t.Fatal("focus not on a")
	}
	if !b.Focus() {
		t.Fatal("focusing b refused")
	}
	if a.HasFocus() || !b.HasFocus() {
		t.Fatal("focus did not move to b")
	}
	if len(aLog) != 2 || aLog[0] != true || aLog[1] != false {
		t.Fatalf("a focus log = %v", aLog)
	}
	if len(bLog) != 1 || bLog[0] != true {
		t.Fatalf("b focus log = %v", bLog)
	}
}

func TestResizeHook(t *testing.T) {
	memRT(t)
	root := newTestRoot(t)
	child := newChild(t, root, Rect{Width: 50, Height: 50})

	var sizes []Size
	child.OnResize = func(s Size) { sizes = append(sizes, s) }

	child.SetFrame(Rect{X: 5, Y: 5, Width: 80, Height: 60})
	child.SetFrame(Rect{X: 5, Y: 5, Width: 80, Height: 60}) // no change, no hook
	if len(sizes) != 1 || sizes[0] != (Size{Width: 80, Height: 60}) {
		t.Fatalf("resize log = %v", sizes)
	}
}

func TestVisibilityHookAndAncestors(t *testing.T) {
	memRT(t)
	root := newTestRoot(t)
	child := newChild(t, root, Rect{Width: 50, Height: 50})
	grand := newChild(t, child, Rect{Width: 10, Height: 10})
	t.Cleanup(func() { grand.Close() })

	var log []bool
	child.OnVisibilityChange = func(visible bool) { log = append(log, visible) }

	child.Hide()
	if child.IsVisible() {
		t.Fatal("hidden child reports visible")
	}
	if grand.IsVisible() {
		t.Fatal("descendant of hidden view reports visible")
	}
	child.Show()
	if !grand.IsVisible() {
		t.Fatal("descendant not visible after reveal")
	}
	if len(log) != 2 || log[0] != false || log[1] != true {
		t.Fatalf("visibility log = %v", log)
	}
}

func TestDrawPassSkipsHiddenSubtrees(t *testing.T) {
	memRT(t)
	root := newTestRoot(t)
	shown := newChild(t, root, Rect{Width: 50, Height: 50})
	hidden := newChild(t, root, Rect{X: 60, Width: 50, Height: 50})
	hidden.Hide()

	var drew []string
	root.OnDraw = func(g *GraphicContext, dirty Rect) {
		drew = append(drew, "root")
		if dirty != root.Bounds() {
			t.Fatalf("root dirty = %+v", dirty)
		}
		if g == nil || g.Ref() == 0 {
			t.Fatal("no context in draw pass")
		}
	}
	shown.OnDraw = func(g *GraphicContext, dirty Rect) { drew = append(drew, "shown") }
	hidden.OnDraw = func(g *GraphicContext, dirty Rect) { drew = append(drew, "hidden") }

	root.SetNeedsDisplay()
	if len(drew) != 2 || drew[0] != "root" || drew[1] != "shown" {
		t.Fatalf("draw order = %v", drew)
	}
}

func TestNativeViewEmbedding(t *testing.T) {
	memRT(t)
	root := newTestRoot(t)

	v, err := NewNativeView(root.Native(), Rect{X: 10, Y: 10, Width: 30, Height: 30})
	if err != nil {
		t.Fatal(err)
	}
	defer v.Close()

	if v.Parent() != nil {
		t.Fatal("foreign-parented view has a bridge parent")
	}
	if got := NativeViewBounds(root.Native()); got != (Rect{Width: 400, Height: 300}) {
		t.Fatalf("native bounds = %+v", got)
	}
	if v.Window() != nil {
		t.Fatal("foreign-parented view resolved a bridge window")
	}
}

func TestWillDrawPrecedesDrawTopDown(t *testing.T) {
	memRT(t)
	root := newTestRoot(t)
	child := newChild(t, root, Rect{Width: 50, Height: 50})

	var order []string
	root.OnWillDraw = func() { order = append(order, "root-will") }
	root.OnDraw = func(*GraphicContext, Rect) { order = append(order, "root") }
	child.OnWillDraw = func() { order = append(order, "child-will") }
	child.OnDraw = func(*GraphicContext, Rect) { order = append(order, "child") }

	root.SetNeedsDisplay()
	want := []string{"root-will", "root", "child-will", "child"}
	if len(order) != len(want) {
		t.Fatalf("draw sequence = %v", order)
	}
	for i := range want {
		if order[i] != want[i] {
			t.Fatalf("draw sequence = %v, want %v", order, want)
		}
	}
}

func TestSubviewHooksObserveAttachAndDetach(t *testing.T) {
	memRT(t)
	root := newTestRoot(t)

	var added []*View
	var removals int
	root.OnSubviewAdded = func(child *View) { added = append(added, child) }
	root.OnSubviewRemoved = func(*View) { removals++ }

	child := newChild(t, root, Rect{Width: 50, Height: 50})
	if len(added) != 1 || added[0] != child {
		t.Fatalf("added = %v after NewView", added)
	}

	// A webview's peer is not bridge-managed; the hook sees a nil child.
	wv, err := NewWebView(root, Rect{X: 60, Width: 100, Height: 100})
	if err != nil {
		t.Fatal(err)
	}
	if len(added) != 2 || added[1] != nil {
		t.Fatalf("added = %v after webview attach", added)
	}
	wv.Close()
	if removals != 1 {
		t.Fatalf("removals = %d after webview close", removals)
	}

	if err := child.Close(); err != nil {
		t.Fatal(err)
	}
	if removals != 2 {
		t.Fatalf("removals = %d after child close", removals)
	}
}

func TestVisibleRectClipsToAncestors(t *testing.T) {
	memRT(t)
	root := newTestRoot(t)

	inside := newChild(t, root, Rect{X: 10, Y: 10, Width: 50, Height: 50})
	if got := inside.VisibleRect(); got != inside.Bounds() {
		t.Fatalf("unclipped VisibleRect = %+v", got)
	}

	edge := newChild(t, root, Rect{X: 350, Y: 250, Width: 100, Height: 100})
	if got := edge.VisibleRect(); got != (Rect{Width: 50, Height: 50}) {
		t.Fatalf("clipped VisibleRect = %+v", got)
	}

	edge.Hide()
	if got := edge.VisibleRect(); got != (Rect{}) {
		t.Fatalf("hidden VisibleRect = %+v", got)
	}

	outside := newChild(t, root, Rect{X: 500, Y: 0, Width: 40, Height: 40})
	if got := outside.VisibleRect(); got != (Rect{}) {
		t.Fatalf("fully clipped VisibleRect = %+v", got)
	}
}

func TestConvertPointBetweenViews(t *testing.T) {
	memRT(t)
	root := newTestRoot(t)
	a := newChild(t, root, Rect{X: 50, Y: 40, Width: 100, Height: 100})
	b := newChild(t, root, Rect{X: 200, Y: 100, Width: 100, Height: 100})

	got := b.ConvertPoint(Point{X: 10, Y: 10}, a)
	if got != (Point{X: -140, Y: -50}) {
		t.Fatalf("a->b = %+v", got)
	}

	// nil source means window content coordinates.
	got = a.ConvertPoint(Point{X: 60, Y: 50}, nil)
	if got != (Point{X: 10, Y: 10}) {
		t.Fatalf("window->a = %+v", got)
	}
}
