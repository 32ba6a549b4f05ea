package app

import (
	"context"

	"github.com/google/uuid"

	"trivia-service/internal/domain"
)

// DefaultGameID is the reserved session that clients joining with a bare
// "join" action land in. It is created at startup and survives draining to
// empty.
const DefaultGameID = "default"

// SessionRegistry owns the process-wide table of live sessions. Removing a
// session cancels its clock; Summaries is an eventually-consistent snapshot
// safe under concurrent mutation.
type SessionRegistry interface {
	Create(id, name string, questions []domain.Question) *Session
	Get(id string) (*Session, bool)
	Remove(id string)
	// RemoveIfEmpty drops the session only when it has no players; the
	// check and the close are atomic against concurrent joins.
	RemoveIfEmpty(id string) bool
	Summaries() []domain.GameSummary
}

// BankRepository loads question banks, typically through a TTL cache.
type BankRepository interface {
	GetBank(ctx context.Context, bankID string) (domain.QuestionBank, error)
}

// GameService ties the session registry to the question bank store and
// exposes the connection-facing use cases.
type GameService struct {
	registry    SessionRegistry
	banks       BankRepository
	defaultBank string
}

func NewGameService(registry SessionRegistry, banks BankRepository, defaultBank string) *GameService {
	return &GameService{registry: registry, banks: banks, defaultBank: defaultBank}
}

// EnsureDefaultGame creates the reserved default session if it does not
// exist yet. Idempotent.
func (s *GameService) EnsureDefaultGame(ctx context.Context) error {
	if _, ok := s.registry.Get(DefaultGameID); ok {
		return nil
	}
	bank, err := s.banks.GetBank(ctx, s.defaultBank)
	if err != nil {
		return err
	}
	s.registry.Create(DefaultGameID, "", bank.Questions)
	return nil
}

// CreateGame allocates a new session loaded from bankID, or from the default
// bank when bankID is empty. The caller is expected to join separately.
func (s *GameService) CreateGame(ctx context.Context, gameName, bankID string) (*Session, error) {
	if bankID == "" {
		bankID = s.defaultBank
	}
	bank, err := s.banks.GetBank(ctx, bankID)
	if err != nil {
		return nil, err
	}
	return s.registry.Create(uuid.NewString(), gameName, bank.Questions), nil
}

// Join attaches a connection to a session as a fresh player.
func (s *GameService) Join(gameID, name string, conn Conn) (*Session, PlayerInfo, error) {
	session, ok := s.registry.Get(gameID)
	if !ok {
		return nil, PlayerInfo{}, domain.ErrSessionNotFound
	}
	info, ok := session.Join(name, conn)
	if !ok {
		// Lost a race with removal.
		return nil, PlayerInfo{}, domain.ErrSessionNotFound
	}
	return session, info, nil
}

// Leave detaches a player and evicts the session once it drains, except for
// the reserved default game, which instead returns to the lobby. Eviction
// goes through RemoveIfEmpty so a join landing between the leave and the
// removal keeps the session alive.
func (s *GameService) Leave(gameID, playerID string) {
	session, ok := s.registry.Get(gameID)
	if !ok {
		return
	}
	session.Leave(playerID)
	if gameID == DefaultGameID {
		session.Reset()
		return
	}
	s.registry.RemoveIfEmpty(gameID)
}

// Game looks up a session by id.
func (s *GameService) Game(gameID string) (*Session, bool) {
	return s.registry.Get(gameID)
}

// Summaries lists all sessions for discovery.
func (s *GameService) Summaries() []domain.GameSummary {
	return s.registry.Summaries()
}
