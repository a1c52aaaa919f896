package services

import "sync"

// keyedLocks serializes check-then-insert sequences per contention key
// (event+district, plus seniority bucket for individual events) so two
// concurrent registrations cannot both read a stale count. The database
// unique constraints remain the hard backstop.
type keyedLocks struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func newKeyedLocks() *keyedLocks {
	return &keyedLocks{locks: make(map[string]*sync.Mutex)}
}

func (k *keyedLocks) lock(key string) func() {
	k.mu.Lock()
	m, ok := k.locks[key]
	if !ok {
		m = &sync.Mutex{}
		k.locks[key] = m
	}
	k.mu.Unlock()

	m.Lock()
	return m.Unlock
}
