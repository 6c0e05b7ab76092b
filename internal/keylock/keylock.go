// Package keylock serializes work per key inside one process. Locks are
// created on first use and dropped once no goroutine holds or waits on them.
package keylock

import (
	"slices"
	"sync"

	"github.com/samber/lo"
)

type entry struct {
	mu   sync.Mutex
	refs int
}

// Locker is a registry of mutexes keyed by string. The zero value is ready to use.
type Locker struct {
	mu    sync.Mutex
	locks map[string]*entry
}

// New creates an empty Locker.
func New() *Locker {
	return &Locker{locks: make(map[string]*entry)}
}

// Lock blocks until key is held and returns the matching unlock function.
func (l *Locker) Lock(key string) func() {
	l.mu.Lock()
	if l.locks == nil {
		l.locks = make(map[string]*entry)
	}
	e, ok := l.locks[key]
	if !ok {
		e = &entry{}
		l.locks[key] = e
	}
	e.refs++
	l.mu.Unlock()

	e.mu.Lock()
	return func() { l.release(key, e) }
}

// LockAll acquires every distinct key in sorted order so that two callers
// locking overlapping sets cannot deadlock. Empty keys are ignored.
func (l *Locker) LockAll(keys ...string) func() {
	ordered := lo.Uniq(lo.Compact(keys))
	slices.Sort(ordered)

	unlocks := make([]func(), 0, len(ordered))
	for _, k := range ordered {
		unlocks = append(unlocks, l.Lock(k))
	}
	return func() {
		for i := len(unlocks) - 1; i >= 0; i-- {
			unlocks[i]()
		}
	}
}

// Len returns the number of keys currently held or awaited.
func (l *Locker) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.locks)
}

func (l *Locker) release(key string, e *entry) {
	e.mu.Unlock()

	l.mu.Lock()
	e.refs--
	if e.refs == 0 {
		delete(l.locks, key)
	}
	l.mu.Unlock()
}

// WalletKey namespaces a wallet id.
func WalletKey(id string) string { return "wallet:" + id }

// AssetKey namespaces an asset id.
func AssetKey(id string) string { return "asset:" + id }
