package domain

// Question is a single multiple-choice question. The correct answer is the
// exact text of one of the options; banks are shared read-only between
// sessions, so Question values are never mutated after loading.
type Question struct {
	Text    string   `json:"question"`
	Options []string `json:"answers"`
	Correct string   `json:"correctAnswer"`
}

// QuestionBank is an ordered sequence of questions loaded from a backing
// store (text file, Postgres, ...).
type QuestionBank struct {
	ID        string     `json:"id"`
	Questions []Question `json:"questions"`
}

// GameSummary is a read-only snapshot of a session for discovery lists.
type GameSummary struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	InProgress  bool   `json:"inProgress"`
	PlayerCount int    `json:"playerCount"`
}

// AnswerOutcome is the direct reply to a submitted answer.
type AnswerOutcome struct {
	Correct bool `json:"correct"`
	Fastest bool `json:"fastest"`
	Score   int  `json:"score"`
}
