//go:build darwin && (amd64 || arm64)

package nanoui

import (
	"github.com/obinnaokechukwu/nanoui/internal/objc"
	"github.com/obinnaokechukwu/nanoui/internal/quartz"
)

func loadNative() error {
	rt, err := objc.NewDarwinRuntime()
	if err != nil {
		return err
	}
	backend, err := quartz.Native()
	if err != nil {
		return err
	}
	objc.SetRuntime(rt)
	quartz.SetBackend(backend)
	return nil
}
