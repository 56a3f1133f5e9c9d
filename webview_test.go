package nanoui

import (
	"testing"

	"github.com/obinnaokechukwu/nanoui/internal/objc"
)

func TestWebViewEmbedsAndNavigates(t *testing.T) {
	memRT(t)
	root := newTestRoot(t)

	wv, err := NewWebView(root, Rc(0, 0, 320, 200))
	if err != nil {
		t.Fatal(err)
	}
	defer wv.Close()

	peer := objc.ID(wv.Native())
	if got := objc.Call[objc.ID](peer, "superview"); got != objc.ID(root.Native()) {
		t.Fatal("web view not attached to the parent view")
	}

	wv.LoadURL("https://example.com/docs")
	req := objc.Call[objc.ID](peer, "lastRequest")
	if req == objc.Nil {
		t.Fatal("no request recorded")
	}
	url := objc.Call[objc.ID](req, "URL")
	if got := objc.Call[string](url, "absoluteString"); got != "https://example.com/docs" {
		t.Fatalf("loaded %q", got)
	}

	wv.SetFrame(Rc(10, 10, 100, 80))
	if got := fromNativeRect(objc.Call[objc.Rect](peer, "frame")); got != Rc(10, 10, 100, 80) {
		t.Fatalf("frame = %+v", got)
	}
}

func TestWebViewCloseDetaches(t *testing.T) {
	rt := memRT(t)
	root := newTestRoot(t)

	wv, err := NewWebView(root, Rc(0, 0, 100, 100))
	if err != nil {
		t.Fatal(err)
	}
	peer := objc.ID(wv.Native())
	wv.Close()
	wv.Close() // idempotent
	if rt.ObjectAlive(peer) {
		t.Fatal("web view peer survived close")
	}
	if _, err := NewWebView(nil, Rc(0, 0, 1, 1)); err == nil {
		t.Fatal("nil parent accepted")
	}
}
