// Package keylock provides mutual exclusion scoped to an arbitrary string
// key. The scheduler holds a key for the duration of its load-check-write
// sequence so two bookings for the same doctor and date cannot interleave.
package keylock

import "sync"

type entry struct {
	mu   sync.Mutex
	refs int
}

// KeyLock is a mutex arena keyed by string. Entries are created on demand
// and dropped once the last holder releases, so the map does not grow with
// the keyspace.
type KeyLock struct {
	mu      sync.Mutex
	entries map[string]*entry
}

func New() *KeyLock {
	return &KeyLock{entries: make(map[string]*entry)}
}

// Acquire blocks until the key is held and returns the release function.
func (l *KeyLock) Acquire(key string) func() {
	l.mu.Lock()
	e, ok := l.entries[key]
	if !ok {
		e = &entry{}
		l.entries[key] = e
	}
	e.refs++
	l.mu.Unlock()

	e.mu.Lock()

	return func() {
		e.mu.Unlock()
		l.mu.Lock()
		e.refs--
		if e.refs == 0 {
			delete(l.entries, key)
		}
		l.mu.Unlock()
	}
}
