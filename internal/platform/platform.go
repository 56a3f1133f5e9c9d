// Package platform reports what the host can do for nanoui.
// The native Cocoa backend needs a 64-bit darwin process; everywhere else
// the bridge runs against the in-memory runtime.
package platform

import (
	"runtime"
	"unsafe"
)

// HasNativeRuntime indicates whether the Objective-C runtime and AppKit can
// be loaded on this platform. purego struct-by-value calls, which the
// geometry selectors rely on, only work on darwin amd64/arm64.
const HasNativeRuntime = runtime.GOOS == "darwin" &&
	(runtime.GOARCH == "amd64" || runtime.GOARCH == "arm64")

// Is64Bit indicates whether the platform is 64-bit.
// nanoui only supports 64-bit platforms due to purego limitations.
const Is64Bit = unsafe.Sizeof(uintptr(0)) == 8

// Framework paths used when loading the native backend.
const (
	LibObjCPath        = "/usr/lib/libobjc.A.dylib"
	AppKitPath         = "/System/Library/Frameworks/AppKit.framework/AppKit"
	CoreGraphicsPath   = "/System/Library/Frameworks/CoreGraphics.framework/CoreGraphics"
	CoreTextPath       = "/System/Library/Frameworks/CoreText.framework/CoreText"
	CoreFoundationPath = "/System/Library/Frameworks/CoreFoundation.framework/CoreFoundation"
	WebKitPath         = "/System/Library/Frameworks/WebKit.framework/WebKit"
)

// GOOS returns the current operating system.
func GOOS() string {
	return runtime.GOOS
}

// GOARCH returns the current architecture.
func GOARCH() string {
	return runtime.GOARCH
}
