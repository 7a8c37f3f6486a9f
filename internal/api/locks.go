package api

import "sync"

// layoutLocks serializes writers per layout ID. Entries are reference
// counted and dropped once the last holder unlocks.
type layoutLocks struct {
	mu    sync.Mutex
	locks map[string]*layoutLock
}

type layoutLock struct {
	mu   sync.Mutex
	refs int
}

// lock blocks until the caller is the only writer of id and returns the
// matching unlock.
func (l *layoutLocks) lock(id string) (unlock func()) {
	l.mu.Lock()
	if l.locks == nil {
		l.locks = make(map[string]*layoutLock)
	}
	ll, ok := l.locks[id]
	if !ok {
		ll = &layoutLock{}
		l.locks[id] = ll
	}
	ll.refs++
	l.mu.Unlock()

	ll.mu.Lock()
	return func() {
		ll.mu.Unlock()
		l.mu.Lock()
		if ll.refs--; ll.refs == 0 {
			delete(l.locks, id)
		}
		l.mu.Unlock()
	}
}

// held reports how many callers hold or wait for a lock on any layout.
func (l *layoutLocks) held() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	n := 0
	for _, ll := range l.locks {
		n += ll.refs
	}
	return n
}
