package nanoui

import (
	"errors"
	"os"
)

// Common errors
var (
	// ErrNotLoaded indicates the native runtime is not loaded.
	ErrNotLoaded = errors.New("nanoui: native runtime not loaded")

	// ErrClosed indicates the resource has been closed.
	ErrClosed = errors.New("nanoui: resource is closed")

	// ErrChildrenRemain indicates a view still has live child views.
	// Views are destroyed leaf first.
	ErrChildrenRemain = errors.New("nanoui: view still has children")

	// ErrNoWindow indicates the view is not attached to a window.
	ErrNoWindow = errors.New("nanoui: view has no window")

	// ErrNotRunning indicates the application run loop is not active.
	ErrNotRunning = errors.New("nanoui: application is not running")

	// ErrImageLoad indicates an image file could not be decoded.
	ErrImageLoad = errors.New("nanoui: cannot load image")

	// ErrFontNotFound indicates the named font is not installed.
	ErrFontNotFound = errors.New("nanoui: font not found")
)

// debugChecks is latched from NANOUI_DEBUG at startup. When set, invariant
// violations panic instead of logging, surfacing bridge bugs at their
// source during development.
var debugChecks = os.Getenv("NANOUI_DEBUG") != ""

// reportInvariant records a broken bridge invariant. These are programming
// errors, not runtime conditions; in a release build the bridge degrades
// and keeps going.
func reportInvariant(format string, args ...any) {
	if debugChecks {
		panicf(format, args...)
	}
	logf(LogError, format, args...)
}
