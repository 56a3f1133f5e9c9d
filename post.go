package nanoui

import (
	"sync"

	"github.com/obinnaokechukwu/nanoui/internal/objc"
)

var postState struct {
	mu       sync.Mutex
	next     uint64
	inFlight map[uint64]func()
}

// PostMessage schedules fn on the main thread. It is safe to call from
// any goroutine and returns immediately; fn runs on a later turn of the
// main run loop, in posting order.
func PostMessage(fn func()) {
	if fn == nil {
		return
	}
	postState.mu.Lock()
	if postState.inFlight == nil {
		postState.inFlight = make(map[uint64]func())
	}
	postState.next++
	id := postState.next
	postState.inFlight[id] = fn
	postState.mu.Unlock()

	objc.RT().MainQueueAsync(func() {
		postState.mu.Lock()
		f, ok := postState.inFlight[id]
		delete(postState.inFlight, id)
		postState.mu.Unlock()
		if ok {
			f()
		}
	})
}

// PendingMessages reports how many posted functions have not run yet.
func PendingMessages() int {
	postState.mu.Lock()
	defer postState.mu.Unlock()
	return len(postState.inFlight)
}
