package redis

import (
	"context"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"trivia-service/internal/app"
	"trivia-service/internal/domain"
)

// SessionRegistry is a Redis-aware implementation of app.SessionRegistry.
// Notes:
//   - Sessions themselves stay in-process so the engine's single-lock
//     discipline and broadcast fan-out keep working untouched.
//   - Redis marks session liveness so other instances can discover rooms;
//     for true distribution you'd pair this with a pub/sub projector.
type SessionRegistry struct {
	client   *redis.Client
	ttl      time.Duration
	cfg      app.SessionConfig
	mu       sync.RWMutex
	sessions map[string]*app.Session
}

func NewSessionRegistry(client *redis.Client, ttl time.Duration, cfg app.SessionConfig) *SessionRegistry {
	return &SessionRegistry{
		client:   client,
		ttl:      ttl,
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
	// best-effort liveness marker
	_ = r.client.Set(context.Background(), r.key(id), "1", r.ttl).Err()
	return session
}

func (r *SessionRegistry) Get(id string) (*app.Session, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	session, ok := r.sessions[id]
	return session, ok
}

func (r *SessionRegistry) Remove(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	session, ok := r.sessions[id]
	if !ok {
		return
	}
	session.Close()
	delete(r.sessions, id)
	_ = r.client.Del(context.Background(), r.key(id)).Err()
}

// RemoveIfEmpty evicts the session and its liveness key only when it is
// still drained; a join racing this keeps the session alive.
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
	_ = r.client.Del(context.Background(), r.key(id)).Err()
	return true
}

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

func (r *SessionRegistry) key(id string) string {
	return "trivia:session:" + id
}
