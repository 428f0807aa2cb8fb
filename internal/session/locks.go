package session

import "sync"

// UserLocks serializes message handling per chat id: handling of message N for
// a user must finish before message N+1 for the same user starts, while
// different users proceed concurrently. Lock entries are reference counted so
// the map does not grow with every user ever seen.
type UserLocks struct {
	mu    sync.Mutex
	locks map[string]*userLock
}

type userLock struct {
	mu   sync.Mutex
	refs int
}

func NewUserLocks() *UserLocks {
	return &UserLocks{locks: make(map[string]*userLock)}
}

// Lock acquires the per-user mutex for id, blocking while another message for
// the same id is in flight.
func (l *UserLocks) Lock(id string) {
	l.mu.Lock()
	ul, ok := l.locks[id]
	if !ok {
		ul = &userLock{}
		l.locks[id] = ul
	}
	ul.refs++
	l.mu.Unlock()

	ul.mu.Lock()
}

// Unlock releases the per-user mutex and drops the entry once nobody waits.
func (l *UserLocks) Unlock(id string) {
	l.mu.Lock()
	ul, ok := l.locks[id]
	if !ok {
		l.mu.Unlock()
		return
	}
	ul.refs--
	if ul.refs == 0 {
		delete(l.locks, id)
	}
	l.mu.Unlock()

	ul.mu.Unlock()
}
