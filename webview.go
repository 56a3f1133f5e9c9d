package nanoui

import (
	"github.com/obinnaokechukwu/nanoui/internal/objc"
)

// WebView embeds a WKWebView inside a parent view. The web view is a
// foreign native view: the bridge positions it and feeds it URLs but
// does not synthesize a subclass for it.
type WebView struct {
	peer   objc.ID
	closed bool
}

// NewWebView creates a web view as a child of parent.
func NewWebView(parent *View, frame Rect) (*WebView, error) {
	if parent == nil {
		return nil, ErrClosed
	}
	if err := Init(); err != nil {
		return nil, err
	}
	config := objc.CallClass[objc.ID]("WKWebViewConfiguration", "alloc")
	objc.CallVoid(config, "init")

	peer := objc.CallClass[objc.ID]("WKWebView", "alloc")
	objc.CallVoid(peer, "initWithFrame:configuration:", nativeRect(frame), config)
	objc.CallVoid(config, "release")

	objc.ICall(parent.peer, "addSubview:", peer)
	return &WebView{peer: peer}, nil
}

// LoadURL navigates the web view to url.
func (w *WebView) LoadURL(url string) {
	if w.closed {
		return
	}
	nsURL := objc.CallClass[objc.ID]("NSURL", "URLWithString:", url)
	req := objc.CallClass[objc.ID]("NSURLRequest", "requestWithURL:", nsURL)
	objc.ICall(w.peer, "loadRequest:", req)
}

// SetFrame repositions the web view within its parent.
func (w *WebView) SetFrame(r Rect) {
	if w.closed {
		return
	}
	objc.CallVoid(w.peer, "setFrame:", nativeRect(r))
}

// Close detaches and releases the web view.
func (w *WebView) Close() {
	if w == nil || w.closed {
		return
	}
	w.closed = true
	objc.CallVoid(w.peer, "removeFromSuperview")
	objc.CallVoid(w.peer, "release")
	w.peer = objc.Nil
}

// Native returns the WKWebView handle.
func (w *WebView) Native() uintptr { return uintptr(w.peer) }
