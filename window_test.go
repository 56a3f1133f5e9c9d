package nanoui

import (
	"testing"
)

func newTestWindow(t *testing.T, opts WindowOptions) *Window {
	t.Helper()
	w, err := NewWindow(opts)
	if err != nil {
		t.Fatalf("NewWindow: %v", err)
	}
	t.Cleanup(func() { w.Close() })
	return w
}

func TestWindowFrameRoundTrip(t *testing.T) {
	memRT(t)
	w := newTestWindow(t, WindowOptions{
		Frame: Rect{X: 100, Y: 100, Width: 400, Height: 300},
		Style: StyleDefault,
	})

	// Titled windows grow by the title bar; the frame's top edge sits
	// above the requested content rect.
	frame := w.Frame()
	if frame.X != 100 || frame.Width != 400 {
		t.Fatalf("frame = %+v", frame)
	}
	if frame.Height <= 300 {
		t.Fatalf("titled frame height %v not above content height", frame.Height)
	}
	if got := frame.Y + (frame.Height - 300); got != 100 {
		t.Fatalf("content top edge at %v, want 100", got)
	}

	set := Rect{X: 50, Y: 60, Width: 300, Height: 222}
	w.SetFrame(set)
	if got := w.Frame(); got != set {
		t.Fatalf("frame after SetFrame = %+v, want %+v", got, set)
	}
}

func TestWindowContentSize(t *testing.T) {
	memRT(t)
	w := newTestWindow(t, WindowOptions{
		Frame: Rect{Width: 400, Height: 300},
		Style: StyleTitled,
	})
	if got := w.ContentSize(); got != (Size{Width: 400, Height: 300}) {
		t.Fatalf("content size = %+v", got)
	}

	borderless := newTestWindow(t, WindowOptions{
		Frame: Rect{Width: 200, Height: 100},
		Style: StyleBorderless,
	})
	if got := borderless.Frame().Size(); got != (Size{Width: 200, Height: 100}) {
		t.Fatalf("borderless frame size = %+v", got)
	}
}

func TestWindowCenterTracksVisibleFrame(t *testing.T) {
	memRT(t)
	w := newTestWindow(t, WindowOptions{
		Frame:  Rect{Width: 400, Height: 300},
		Style:  StyleDefault,
		Center: true,
	})

	frame := w.Frame()
	visible := ScreenVisibleFrame()
	wantX := visible.X + (visible.Width-frame.Width)/2
	wantY := visible.Y + (visible.Height-frame.Height)/2
	if frame.X != wantX || frame.Y != wantY {
		t.Fatalf("centered frame origin = (%v, %v), want (%v, %v)",
			frame.X, frame.Y, wantX, wantY)
	}
}

func TestRequestCloseHonorsVeto(t *testing.T) {
	memRT(t)
	w := newTestWindow(t, WindowOptions{
		Frame: Rect{Width: 200, Height: 200},
		Style: StyleDefault,
	})
	w.Show()

	allow := false
	closed := false
	w.OnShouldClose = func() bool { return allow }
	w.OnClose = func() { closed = true }

	w.RequestClose()
	if !w.IsVisible() || closed {
		t.Fatal("vetoed close still tore the window down")
	}

	allow = true
	w.RequestClose()
	if w.IsVisible() {
		t.Fatal("window still visible after accepted close")
	}
	if !closed {
		t.Fatal("OnClose did not run")
	}
}

func TestWindowStateAccessors(t *testing.T) {
	memRT(t)
	w := newTestWindow(t, WindowOptions{
		Title: "before",
		Frame: Rect{Width: 200, Height: 200},
		Style: StyleDefault,
	})

	if got := w.Title(); got != "before" {
		t.Fatalf("title = %q", got)
	}
	w.SetTitle("after")
	if got := w.Title(); got != "after" {
		t.Fatalf("title = %q", got)
	}

	if w.Style()&StyleResizable == 0 {
		t.Fatal("default style lost resizable")
	}
	w.SetStyle(StyleBorderless)
	if w.Style() != StyleBorderless {
		t.Fatalf("style = %v", w.Style())
	}

	w.SetDocumentEdited(true)
	if !w.IsDocumentEdited() {
		t.Fatal("document edited flag lost")
	}

	var miniLog []bool
	w.OnMiniaturize = func(m bool) { miniLog = append(miniLog, m) }
	w.Miniaturize()
	if !w.IsMiniaturized() {
		t.Fatal("window not miniaturized")
	}
	w.Deminiaturize()
	if w.IsMiniaturized() {
		t.Fatal("window still miniaturized")
	}
	if len(miniLog) != 2 || miniLog[0] != true || miniLog[1] != false {
		t.Fatalf("miniaturize log = %v", miniLog)
	}

	var fullLog []bool
	w.OnFullScreen = func(f bool) { fullLog = append(fullLog, f) }
	w.ToggleFullScreen()
	w.ToggleFullScreen()
	if len(fullLog) != 2 || fullLog[0] != true || fullLog[1] != false {
		t.Fatalf("full screen log = %v", fullLog)
	}
}

func TestWindowKeyHooks(t *testing.T) {
	memRT(t)
	w := newTestWindow(t, WindowOptions{
		Frame: Rect{Width: 200, Height: 200},
		Style: StyleDefault,
	})

	var keyLog []bool
	w.OnKeyChange = func(key bool) { keyLog = append(keyLog, key) }
	w.Show()
	w.Hide()
	if len(keyLog) != 2 || keyLog[0] != true || keyLog[1] != false {
		t.Fatalf("key log = %v", keyLog)
	}
}

func TestScreenFrames(t *testing.T) {
	memRT(t)
	frame := ScreenFrame()
	visible := ScreenVisibleFrame()

	if frame.X != 0 || frame.Y != 0 || frame.Width <= 0 || frame.Height <= 0 {
		t.Fatalf("screen frame = %+v", frame)
	}
	if visible.Width > frame.Width || visible.Height > frame.Height {
		t.Fatalf("visible frame %+v exceeds screen %+v", visible, frame)
	}
	// The menu bar sits at the top, so the visible frame starts lower.
	if visible.Y < frame.Y {
		t.Fatalf("visible frame above the screen top: %+v", visible)
	}
}
