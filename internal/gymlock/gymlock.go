// Package gymlock serializes work per gym inside one process.
package gymlock

import "sync"

type entry struct {
	mu   sync.Mutex
	refs int
}

// Locker hands out one mutex per gym ID. Entries are dropped once no
// goroutine holds or waits on them.
type Locker struct {
	mu    sync.Mutex
	locks map[int]*entry
}

func New() *Locker {
	return &Locker{locks: make(map[int]*entry)}
}

// Lock blocks until the gym's mutex is held and returns the release func.
func (l *Locker) Lock(gymID int) (unlock func()) {
	l.mu.Lock()
	e, ok := l.locks[gymID]
	if !ok {
		e = &entry{}
		l.locks[gymID] = e
	}
	e.refs++
	l.mu.Unlock()

	e.mu.Lock()

	return func() {
		e.mu.Unlock()

		l.mu.Lock()
		e.refs--
		if e.refs == 0 {
			delete(l.locks, gymID)
		}
		l.mu.Unlock()
	}
}

func (l *Locker) size() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.locks)
}
