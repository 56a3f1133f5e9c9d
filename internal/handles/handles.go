// Package handles provides a thread-safe side table associating native
// object handles with Go objects.
//
// Native callbacks arrive with nothing but an opaque peer handle; Go
// pointers must never be stored inside native memory. Instead the bridge
// binds the peer handle here and the method trampolines look the owner up
// on every callback. An unbound handle resolves to the zero value, which is
// how teardown races are made safe: unbinding before destruction turns any
// in-flight callback into a no-op.
package handles

import "sync"

// Table maps opaque native handles to Go-side owners.
// The zero Table is ready to use.
type Table[K comparable, V any] struct {
	mu sync.RWMutex
	m  map[K]V
}

// Bind associates key with owner, replacing any previous binding.
//
// Thread-safe.
func (t *Table[K, V]) Bind(key K, owner V) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.m == nil {
		t.m = make(map[K]V)
	}
	t.m[key] = owner
}

// Lookup returns the owner bound to key.
// Returns the zero value and false if the key is not bound.
//
// Thread-safe.
func (t *Table[K, V]) Lookup(key K) (V, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	v, ok := t.m[key]
	return v, ok
}

// Unbind removes the binding for key.
// Must be called before the owner is destroyed so that late native
// callbacks cannot reach freed state.
//
// Thread-safe.
func (t *Table[K, V]) Unbind(key K) {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.m, key)
}

// Count returns the number of live bindings.
// Useful for debugging and testing teardown leaks.
//
// Thread-safe.
func (t *Table[K, V]) Count() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.m)
}
