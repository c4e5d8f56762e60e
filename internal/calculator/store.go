package calculator

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// Store keeps the live sessions of the HTTP adapter in memory.
type Store struct {
	cfg       Config
	formatter *Formatter

	mu       sync.RWMutex
	sessions map[string]*Session
}

// NewStore returns an empty store whose sessions share cfg.
func NewStore(cfg Config) *Store {
	cfg = cfg.withDefaults()
	return &Store{
		cfg:       cfg,
		formatter: NewFormatter(cfg.Locale),
		sessions:  make(map[string]*Session),
	}
}

// Create starts a new idle session with a random ID.
func (st *Store) Create() *Session {
	sess := NewSession(uuid.New().String(), st.cfg)

	st.mu.Lock()
	st.sessions[sess.ID] = sess
	st.mu.Unlock()

	return sess
}

// Get returns the session with id, or ErrSessionNotFound.
func (st *Store) Get(id string) (*Session, error) {
	st.mu.RLock()
	sess, ok := st.sessions[id]
	st.mu.RUnlock()

	if !ok {
		return nil, ErrSessionNotFound
	}
	return sess, nil
}

// Delete removes the session with id and stops its pending auto-clear.
func (st *Store) Delete(id string) error {
	st.mu.Lock()
	sess, ok := st.sessions[id]
	delete(st.sessions, id)
	st.mu.Unlock()

	if !ok {
		return ErrSessionNotFound
	}
	sess.Close()
	return nil
}

// Len reports how many sessions are live.
func (st *Store) Len() int {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return len(st.sessions)
}

// Sweep drops sessions idle since before cutoff and returns how many were
// removed.
func (st *Store) Sweep(cutoff time.Time) int {
	st.mu.Lock()
	var stale []*Session
	for id, sess := range st.sessions {
		if sess.LastUsed().Before(cutoff) {
			stale = append(stale, sess)
			delete(st.sessions, id)
		}
	}
	st.mu.Unlock()

	for _, sess := range stale {
		sess.Close()
	}
	return len(stale)
}
