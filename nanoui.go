// Package nanoui is a small Cocoa UI bridge without cgo.
//
// It synthesizes Objective-C classes at runtime, installs Go-backed method
// implementations on them, and drives AppKit objects through dynamic
// message sends loaded via purego. Views, windows and the application
// object are bridged with Go owner structs recovered through a side table
// on every native callback.
//
// On platforms without the native runtime (and in tests) the same bridge
// runs against an in-memory emulation, so programs built on nanoui remain
// testable everywhere.
package nanoui

import (
	"sync"

	"github.com/obinnaokechukwu/nanoui/internal/platform"
)

var (
	initOnce sync.Once
	initErr  error
	native   bool
)

// Init loads the native runtime when the platform has one and installs it
// as the active backend. It is called automatically by the high-level
// types, but can be called explicitly to check for errors. Safe to call
// multiple times.
//
// Must run before any window, view or application object is created;
// backends cannot be swapped under live class descriptors.
func Init() error {
	initOnce.Do(func() {
		if !platform.HasNativeRuntime {
			return
		}
		initErr = loadNative()
		if initErr == nil {
			native = true
		}
	})
	return initErr
}

// IsNative reports whether the real Cocoa runtime is loaded. When false
// the bridge is running against the in-memory emulation.
func IsNative() bool {
	Init()
	return native
}
