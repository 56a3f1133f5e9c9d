package nanoui

import (
	"sync"
	"testing"
)

func TestPostMessageRunsInOrder(t *testing.T) {
	rt := memRT(t)

	var got []int
	for i := 0; i < 5; i++ {
		i := i
		PostMessage(func() { got = append(got, i) })
	}
	if n := PendingMessages(); n != 5 {
		t.Fatalf("pending = %d", n)
	}

	rt.DrainMainQueue()
	if n := PendingMessages(); n != 0 {
		t.Fatalf("pending after drain = %d", n)
	}
	for i, v := range got {
		if v != i {
			t.Fatalf("order = %v", got)
		}
	}
	if len(got) != 5 {
		t.Fatalf("ran %d messages", len(got))
	}
}

func TestPostMessageNilIsNoOp(t *testing.T) {
	rt := memRT(t)
	PostMessage(nil)
	if PendingMessages() != 0 {
		t.Fatal("nil message was queued")
	}
	rt.DrainMainQueue()
}

func TestPostMessageFromManyGoroutines(t *testing.T) {
	rt := memRT(t)

	const n = 64
	var mu sync.Mutex
	ran := 0
	var wg sync.WaitGroup
	wg.Add(n)
	for i := 0; i < n; i++ {
		go func() {
			defer wg.Done()
			PostMessage(func() {
				mu.Lock()
				ran++
				mu.Unlock()
			})
		}()
	}
	wg.Wait()

	rt.DrainMainQueue()
	mu.Lock()
	defer mu.Unlock()
	if ran != n {
		t.Fatalf("ran %d of %d", ran, n)
	}
}
