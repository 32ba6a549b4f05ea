package app

import "trivia-service/internal/domain"

// Conn is the outbound half of a client connection. Implementations must be
// safe for concurrent use and must not block: Send is called while the
// owning session's lock is held, so it may only enqueue.
type Conn interface {
	Send(event any) error
	IsOpen() bool
}

// Wire actions. Every outbound message is a flat JSON object tagged with an
// "action" field.
const (
	ActionGameStatus     = "gameStatus"
	ActionHostStatus     = "hostStatus"
	ActionPlayerList     = "playerList"
	ActionGameStarted    = "gameStarted"
	ActionQuestion       = "question"
	ActionAnswerResult   = "answerResult"
	ActionScoreUpdate    = "scoreUpdate"
	ActionRevealAnswer   = "revealAnswer"
	ActionGameOver       = "gameOver"
	ActionGameCreated    = "gameCreated"
	ActionAvailableGames = "availableGames"
	ActionError          = "error"
)

const (
	StatusWaiting    = "waiting"
	StatusInProgress = "inProgress"
)

type GameStatusEvent struct {
	Action   string `json:"action"`
	Status   string `json:"status"`
	GameID   string `json:"gameId,omitempty"`
	GameName string `json:"gameName,omitempty"`
}

type HostStatusEvent struct {
	Action string `json:"action"`
	IsHost bool   `json:"isHost"`
}

type PlayerListEvent struct {
	Action  string   `json:"action"`
	Players []string `json:"players"`
}

type GameStartedEvent struct {
	Action string `json:"action"`
}

// QuestionEvent carries everything a client needs to render the current
// question. It never includes the correct answer.
type QuestionEvent struct {
	Action         string   `json:"action"`
	QuestionNumber int      `json:"questionNumber"`
	TotalQuestions int      `json:"totalQuestions"`
	Question       string   `json:"question"`
	Answers        []string `json:"answers"`
	TimeLimit      int      `json:"timeLimit"`
}

// AnswerResultEvent is unicast to the submitting player only.
type AnswerResultEvent struct {
	Action  string `json:"action"`
	Correct bool   `json:"correct"`
	Fastest bool   `json:"fastest"`
	Score   int    `json:"score"`
}

type ScoreUpdateEvent struct {
	Action string         `json:"action"`
	Scores map[string]int `json:"scores"`
}

type RevealAnswerEvent struct {
	Action         string `json:"action"`
	CorrectAnswer  string `json:"correctAnswer"`
	QuestionNumber int    `json:"questionNumber"`
	FastestPlayer  string `json:"fastestPlayer,omitempty"`
}

// GameOverEvent reports final scores. Winner fields are omitted when the
// session drained before finishing.
type GameOverEvent struct {
	Action      string         `json:"action"`
	Scores      map[string]int `json:"scores"`
	Winner      string         `json:"winner,omitempty"`
	WinnerScore *int           `json:"winnerScore,omitempty"`
}

type GameCreatedEvent struct {
	Action   string `json:"action"`
	GameID   string `json:"gameId"`
	GameName string `json:"gameName"`
}

type AvailableGamesEvent struct {
	Action string               `json:"action"`
	Games  []domain.GameSummary `json:"games"`
}

type ErrorEvent struct {
	Action  string `json:"action"`
	Message string `json:"message"`
}
