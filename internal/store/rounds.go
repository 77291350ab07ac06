package store

import (
	"sync"
	"time"

	"github.com/vytor/plantquiz/internal/quiz"
)

type entry struct {
	session  *quiz.Session
	lastSeen time.Time
}

// RoundStore keeps the sessions of rounds in progress.
type RoundStore struct {
	rounds map[string]*entry
	mu     sync.RWMutex
	now    func() time.Time
}

func NewRoundStore() *RoundStore {
	return &RoundStore{
		rounds: make(map[string]*entry),
		now:    time.Now,
	}
}

// Get retrieves a round by id and marks it as recently used.
func (s *RoundStore) Get(id string) (*quiz.Session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.rounds[id]
	if !ok {
		return nil, false
	}
	e.lastSeen = s.now()
	return e.session, true
}

func (s *RoundStore) Set(id string, session *quiz.Session) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rounds[id] = &entry{session: session, lastSeen: s.now()}
}

// Delete removes a round and reports whether it existed.
func (s *RoundStore) Delete(id string) (*quiz.Session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.rounds[id]
	if !ok {
		return nil, false
	}
	delete(s.rounds, id)
	return e.session, true
}

func (s *RoundStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.rounds)
}

// Sweep closes and removes the rounds unused for longer than idle. It returns
// how many were removed.
func (s *RoundStore) Sweep(idle time.Duration) int {
	s.mu.Lock()
	cutoff := s.now().Add(-idle)
	var stale []*quiz.Session
	for id, e := range s.rounds {
		if e.lastSeen.Before(cutoff) {
			stale = append(stale, e.session)
			delete(s.rounds, id)
		}
	}
	s.mu.Unlock()

	for _, sess := range stale {
		sess.Close()
	}
	return len(stale)
}

// CloseAll closes every round, used on shutdown.
func (s *RoundStore) CloseAll() {
	s.mu.Lock()
	sessions := make([]*quiz.Session, 0, len(s.rounds))
	for id, e := range s.rounds {
		sessions = append(sessions, e.session)
		delete(s.rounds, id)
	}
	s.mu.Unlock()

	for _, sess := range sessions {
		sess.Close()
	}
}
