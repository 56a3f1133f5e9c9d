//go:build !darwin || (!amd64 && !arm64)

package nanoui

func loadNative() error {
	// Unreachable: Init only calls this when the platform reports a
	// native runtime.
	return ErrNotLoaded
}
