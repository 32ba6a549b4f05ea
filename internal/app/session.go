package app

import (
	"sync"
	"time"

	"trivia-service/internal/domain"
)

// State is the session lifecycle phase.
type State int

const (
	StateWaiting State = iota
	StateInProgress
	StateGameOver
)

func (s State) String() string {
	switch s {
	case StateWaiting:
		return "waiting"
	case StateInProgress:
		return "inProgress"
	case StateGameOver:
		return "gameOver"
	}
	return "unknown"
}

// ScoringPolicy decides how points are awarded for a correct answer.
type ScoringPolicy int

const (
	// ScoreFirstCorrectOnly awards a single point to the first correct answer
	// of each question; later correct answers score nothing.
	ScoreFirstCorrectOnly ScoringPolicy = iota
	// ScoreAnyCorrect awards a point to every correct answer, with an extra
	// bonus point for the first.
	ScoreAnyCorrect
)

// ParseScoringPolicy maps a config string to a policy, defaulting to
// first-correct-only.
func ParseScoringPolicy(raw string) ScoringPolicy {
	if raw == "anyCorrect" {
		return ScoreAnyCorrect
	}
	return ScoreFirstCorrectOnly
}

// SessionConfig carries the per-question timing and the scoring policy.
// Zero values fall back to the classic 30s question / 5s reveal cadence.
type SessionConfig struct {
	QuestionTime time.Duration
	RevealDelay  time.Duration
	Scoring      ScoringPolicy
}

func (c SessionConfig) withDefaults() SessionConfig {
	if c.QuestionTime <= 0 {
		c.QuestionTime = 30 * time.Second
	}
	if c.RevealDelay <= 0 {
		c.RevealDelay = 5 * time.Second
	}
	return c
}

// Session is one independently-running trivia game: its players, question
// cursor, clock, and scoreboard. Every mutation goes through s.mu, so the
// two triggers that can close a question (clock expiry and the last answer
// arriving) are serialized against each other; the resolved flag then makes
// the loser of that race a no-op.
type Session struct {
	id  string
	cfg SessionConfig

	mu           sync.Mutex
	name         string
	questions    []domain.Question
	state        State
	current      int
	players      *playerSet
	firstCorrect string // player id of the fastest correct answer, per question
	resolved     bool
	clock        *questionClock
	closed       bool

	// epoch counts lobby resets; deferred callbacks from a previous round
	// carry the epoch they were scheduled under and bail out on mismatch.
	epoch int
}

// NewSession builds a waiting session around a shared read-only question
// slice. An empty name gets the classic default of "Game " plus the id
// prefix.
func NewSession(id, name string, questions []domain.Question, cfg SessionConfig) *Session {
	if name == "" {
		short := id
		if len(short) > 7 {
			short = short[:7]
		}
		name = "Game " + short
	}
	return &Session{
		id:        id,
		cfg:       cfg.withDefaults(),
		name:      name,
		questions: questions,
		state:     StateWaiting,
		players:   newPlayerSet(),
	}
}

func (s *Session) ID() string { return s.id }

func (s *Session) Name() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.name
}

func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *Session) PlayerCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.players.len()
}

func (s *Session) IsEmpty() bool {
	return s.PlayerCount() == 0
}

func (s *Session) QuestionCount() int {
	return len(s.questions)
}

func (s *Session) CurrentQuestionIndex() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

// Summary is the discovery-list view of the session.
func (s *Session) Summary() domain.GameSummary {
	s.mu.Lock()
	defer s.mu.Unlock()
	return domain.GameSummary{
		ID:          s.id,
		Name:        s.name,
		InProgress:  s.state == StateInProgress,
		PlayerCount: s.players.len(),
	}
}

// Join adds a player and pushes the current game state to them: the status
// event, host status for the first member, and a player-list broadcast while
// the lobby is still waiting. Joining an in-progress game is allowed but
// only gets the status notice. The returned PlayerInfo is a snapshot taken
// under the lock; ok is false if the session was already removed.
func (s *Session) Join(name string, conn Conn) (PlayerInfo, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return PlayerInfo{}, false
	}

	p := s.players.add(name, conn)
	info := PlayerInfo{ID: p.ID, DisplayName: p.DisplayName}

	if s.state == StateInProgress {
		_ = conn.Send(GameStatusEvent{Action: ActionGameStatus, Status: StatusInProgress})
		return info, true
	}

	_ = conn.Send(GameStatusEvent{
		Action:   ActionGameStatus,
		Status:   StatusWaiting,
		GameID:   s.id,
		GameName: s.name,
	})
	if s.players.len() == 1 {
		_ = conn.Send(HostStatusEvent{Action: ActionHostStatus, IsHost: true})
	}
	s.broadcastLocked(PlayerListEvent{Action: ActionPlayerList, Players: s.players.names()})
	return info, true
}

// Start moves the session from Waiting to InProgress, resets every score,
// and asks the first question. Any other starting state is rejected.
func (s *Session) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed || s.state != StateWaiting {
		return domain.ErrInvalidTransition
	}

	s.state = StateInProgress
	s.players.resetScores()
	s.players.resetAnswers()
	s.broadcastLocked(GameStartedEvent{Action: ActionGameStarted})
	s.advanceLocked(0)
	return nil
}

// SubmitAnswer arbitrates one answer: exact-match correctness, the atomic
// first-correct check-and-set, and the answered flag. It unicasts the result
// to the submitter, re-broadcasts aggregate scores, and closes the question
// early once everyone has answered.
func (s *Session) SubmitAnswer(playerID, answer string) (domain.AnswerOutcome, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	// A resolved question is closed even though the index has not advanced
	// yet; answers during the reveal window score nothing.
	if s.closed || s.state != StateInProgress || s.resolved || s.current >= len(s.questions) {
		return domain.AnswerOutcome{}, domain.ErrNoActiveQuestion
	}
	p, ok := s.players.get(playerID)
	if !ok {
		return domain.AnswerOutcome{}, domain.ErrPlayerNotFound
	}
	if p.Answered {
		return domain.AnswerOutcome{}, domain.ErrAlreadyAnswered
	}

	question := s.questions[s.current]
	correct := answer == question.Correct

	fastest := false
	if correct && s.firstCorrect == "" {
		s.firstCorrect = p.ID
		fastest = true
	}

	points := 0
	if correct {
		if s.cfg.Scoring == ScoreAnyCorrect {
			points++
		}
		if fastest {
			points++
		}
	}
	p.Score += points
	p.Answered = true

	outcome := domain.AnswerOutcome{Correct: correct, Fastest: fastest, Score: p.Score}
	_ = p.Conn.Send(AnswerResultEvent{
		Action:  ActionAnswerResult,
		Correct: outcome.Correct,
		Fastest: outcome.Fastest,
		Score:   outcome.Score,
	})
	s.broadcastLocked(ScoreUpdateEvent{Action: ActionScoreUpdate, Scores: s.players.scores()})

	if s.players.allAnswered() && !s.resolved {
		s.resolveLocked()
	}
	return outcome, nil
}

// Leave drops a player and tells the rest. A session whose last player walks
// out mid-game goes straight to GameOver so no clock is left armed for an
// empty room.
func (s *Session) Leave(playerID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.players.remove(playerID) == nil {
		return
	}
	s.broadcastLocked(PlayerListEvent{Action: ActionPlayerList, Players: s.players.names()})

	if s.players.len() == 0 && s.state == StateInProgress {
		s.state = StateGameOver
		s.resolved = true
		s.firstCorrect = ""
		s.clock.cancel()
		s.clock = nil
	}
}

// Reset returns a drained session to the lobby so the reserved default game
// can host another round. No-op while players are still attached.
func (s *Session) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed || s.players.len() != 0 {
		return
	}
	s.state = StateWaiting
	s.current = 0
	s.resolved = false
	s.firstCorrect = ""
	s.clock.cancel()
	s.clock = nil
	s.epoch++
}

// CloseIfEmpty closes the session only when no players are attached. The
// emptiness check and the closed flag are set under the same lock hold, so
// a concurrent Join either lands before the close or observes it and fails.
func (s *Session) CloseIfEmpty() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.players.len() != 0 {
		return false
	}
	s.closed = true
	s.clock.cancel()
	s.clock = nil
	return true
}

// Close marks the session removed. Pending clock or reveal-delay callbacks
// detect the flag and exit without touching state.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	s.clock.cancel()
	s.clock = nil
}

// advanceLocked moves the cursor to question i, or finishes the game when
// the bank is exhausted. Caller holds s.mu.
func (s *Session) advanceLocked(i int) {
	s.current = i
	if i >= len(s.questions) {
		s.finishLocked()
		return
	}

	s.firstCorrect = ""
	s.resolved = false
	s.players.resetAnswers()

	question := s.questions[i]
	s.broadcastLocked(QuestionEvent{
		Action:         ActionQuestion,
		QuestionNumber: i + 1,
		TotalQuestions: len(s.questions),
		Question:       question.Text,
		Answers:        question.Options,
		TimeLimit:      int(s.cfg.QuestionTime / time.Second),
	})

	s.clock.cancel()
	epoch := s.epoch
	s.clock = armClock(s.cfg.QuestionTime, func() { s.clockExpired(epoch, i) })
}

// clockExpired is the timer-side trigger for closing question i. The index
// check plus the resolved flag make a stale firing a no-op.
func (s *Session) clockExpired(epoch, i int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed || s.epoch != epoch || s.state != StateInProgress || s.current != i || s.resolved {
		return
	}
	s.resolveLocked()
}

// resolveLocked runs exactly once per question index: it reveals the answer
// and schedules the advance to the next question. Caller holds s.mu and has
// checked s.resolved.
func (s *Session) resolveLocked() {
	s.resolved = true
	s.clock.cancel()
	s.clock = nil

	question := s.questions[s.current]
	reveal := RevealAnswerEvent{
		Action:         ActionRevealAnswer,
		CorrectAnswer:  question.Correct,
		QuestionNumber: s.current + 1,
	}
	if s.firstCorrect != "" {
		if p, ok := s.players.get(s.firstCorrect); ok {
			reveal.FastestPlayer = p.DisplayName
		}
	}
	s.broadcastLocked(reveal)

	// The reveal delay is a bare scheduled task; the callback re-validates
	// the session instead of being individually cancellable.
	idx := s.current
	epoch := s.epoch
	time.AfterFunc(s.cfg.RevealDelay, func() { s.advanceAfterReveal(epoch, idx) })
}

func (s *Session) advanceAfterReveal(epoch, i int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed || s.epoch != epoch || s.state != StateInProgress || s.current != i {
		return
	}
	s.advanceLocked(i + 1)
}

// finishLocked ends the game and announces final scores and the winner.
// Ties go to the earliest joiner. Caller holds s.mu.
func (s *Session) finishLocked() {
	s.state = StateGameOver
	s.firstCorrect = ""
	s.clock.cancel()
	s.clock = nil

	over := GameOverEvent{Action: ActionGameOver, Scores: s.players.scores()}
	if w, ok := s.players.winner(); ok {
		over.Winner = w.DisplayName
		score := w.Score
		over.WinnerScore = &score
	}
	s.broadcastLocked(over)
}

// broadcastLocked fans an event out to every attached connection, skipping
// closed ones. Send errors never abort delivery to the rest. Caller holds
// s.mu; Conn.Send must only enqueue.
func (s *Session) broadcastLocked(event any) {
	s.players.each(func(p *Player) {
		if p.Conn == nil || !p.Conn.IsOpen() {
			return
		}
		_ = p.Conn.Send(event)
	})
}
