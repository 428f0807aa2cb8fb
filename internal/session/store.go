package session

import (
	"sync"
	"time"
)

// Store holds per-user conversation state in process memory. Entries expire a
// fixed duration after their last Set; a zero TTL disables expiry. A process
// restart drops all entries, which resets every user to the main menu.
type Store struct {
	mu      sync.Mutex
	entries map[string]*entry
	ttl     time.Duration
	done    chan struct{}
	once    sync.Once
}

type entry struct {
	state    State
	deadline time.Time
}

const sweepInterval = time.Minute

// NewStore creates a store whose entries expire ttl after their last write.
func NewStore(ttl time.Duration) *Store {
	s := &Store{
		entries: make(map[string]*entry),
		ttl:     ttl,
		done:    make(chan struct{}),
	}
	if ttl > 0 {
		go s.sweep()
	}
	return s
}

// Get returns the user's current state. The second return is false when the
// user is idle or the entry has expired.
func (s *Store) Get(userID string) (State, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[userID]
	if !ok {
		return State{}, false
	}
	if s.expired(e, time.Now()) {
		delete(s.entries, userID)
		return State{}, false
	}
	return e.state, true
}

// Set stores the user's state and refreshes its expiry deadline.
func (s *Store) Set(userID string, st State) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e := &entry{state: st}
	if s.ttl > 0 {
		e.deadline = time.Now().Add(s.ttl)
	}
	s.entries[userID] = e
}

// Clear removes the user's state, returning them to idle.
func (s *Store) Clear(userID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, userID)
}

// Len reports the number of live entries.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := 0
	now := time.Now()
	for _, e := range s.entries {
		if !s.expired(e, now) {
			n++
		}
	}
	return n
}

// Close stops the background sweeper.
func (s *Store) Close() {
	s.once.Do(func() { close(s.done) })
}

func (s *Store) expired(e *entry, now time.Time) bool {
	return s.ttl > 0 && now.After(e.deadline)
}

func (s *Store) sweep() {
	ticker := time.NewTicker(sweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-s.done:
			return
		case now := <-ticker.C:
			s.mu.Lock()
			for id, e := range s.entries {
				if s.expired(e, now) {
					delete(s.entries, id)
				}
			}
			s.mu.Unlock()
		}
	}
}
