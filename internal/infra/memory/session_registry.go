package memory

import (
	"sync"

	"trivia-service/internal/app"
	"trivia-service/internal/domain"
)

// SessionRegistry is the in-process implementation of app.SessionRegistry.
type SessionRegistry struct {
	cfg      app.SessionConfig
	mu       sync.RWMutex
	sessions map[string]*app.Session
}

func NewSessionRegistry(cfg app.SessionConfig) *SessionRegistry {
	return &SessionRegistry{
		cfg:      cfg,
		sessions: make(map[string]*app.Session),
	}
}

func (r *SessionRegistry) Create(id, name string, questions []domain.Question) *app.Session {
	r.mu.Lock()
	defer r.mu.Unlock()
	if session, ok := r.sessions[id]; ok {
		return session
	}
	session := app.NewSession(id, name, questions, r.cfg)
	r.sessions[id] = session
	return session
}

func (r *SessionRegistry) Get(id string) (*app.Session, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	session, ok := r.sessions[id]
	return session, ok
}

// Remove closes the session first so any armed clock is cancelled before the
// reference is dropped.
func (r *SessionRegistry) Remove(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	session, ok := r.sessions[id]
	if !ok {
		return
	}
	session.Close()
	delete(r.sessions, id)
}

// RemoveIfEmpty evicts the session only when it is still drained. The
// session's own lock makes the emptiness check and the close one step, so a
// join racing this either keeps the session alive or sees it closed.
func (r *SessionRegistry) RemoveIfEmpty(id string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	session, ok := r.sessions[id]
	if !ok {
		return false
	}
	if !session.CloseIfEmpty() {
		return false
	}
	delete(r.sessions, id)
	return true
}

// Summaries snapshots the table under the read lock, then summarizes each
// session outside it, so a busy session never blocks discovery of the rest.
func (r *SessionRegistry) Summaries() []domain.GameSummary {
	r.mu.RLock()
	sessions := make([]*app.Session, 0, len(r.sessions))
	for _, session := range r.sessions {
		sessions = append(sessions, session)
	}
	r.mu.RUnlock()

	summaries := make([]domain.GameSummary, 0, len(sessions))
	for _, session := range sessions {
		summaries = append(summaries, session.Summary())
	}
	return summaries
}
