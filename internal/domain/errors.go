package domain

import "errors"

var (
	// ErrSessionNotFound is returned when a game session id resolves to nothing.
	ErrSessionNotFound = errors.New("game session not found")
	// ErrPlayerNotFound is returned when a player acts without having joined.
	ErrPlayerNotFound = errors.New("player not found in session")
	// ErrBankNotFound indicates the question bank is unresolvable or empty.
	ErrBankNotFound = errors.New("question bank not found")
	// ErrNoActiveQuestion indicates an answer arrived outside a question window.
	ErrNoActiveQuestion = errors.New("no active question")
	// ErrAlreadyAnswered indicates the player already answered this question.
	ErrAlreadyAnswered = errors.New("player already answered")
	// ErrInvalidTransition indicates an operation invalid in the current state,
	// e.g. starting a game that is already in progress.
	ErrInvalidTransition = errors.New("invalid game state transition")
)
