package domain

import (
	"encoding/json"
	"fmt"
	"time"
)

// Difficulty is the question difficulty level.
type Difficulty string

const (
	Easy   Difficulty = "easy"
	Medium Difficulty = "medium"
	Hard   Difficulty = "hard"
)

// Question models an MCQ question with exactly one correct option.
type Question struct {
	ID           string     `json:"id"`
	Text         string     `json:"text"`
	Options      []string   `json:"options"`
	CorrectIndex int        `json:"correctIndex"`
	Difficulty   Difficulty `json:"difficulty"`
	TimeLimit    int        `json:"timeLimit"` // whole seconds, > 0
	Strict       bool       `json:"strict"`    // must always appear in a draw
	Explanation  string     `json:"explanation,omitempty"`
	Bonus        bool       `json:"bonus"`
}

// Validate checks the invariants a question must hold before it can be served.
func (q Question) Validate() error {
	if len(q.Options) == 0 {
		return fmt.Errorf("question %s: no options", q.ID)
	}
	if q.CorrectIndex < 0 || q.CorrectIndex >= len(q.Options) {
		return fmt.Errorf("question %s: correct index %d out of range", q.ID, q.CorrectIndex)
	}
	if q.TimeLimit <= 0 {
		return fmt.Errorf("question %s: non-positive time limit", q.ID)
	}
	return nil
}

// legacyQuestion covers the two historical question shapes: one with numeric id,
// "options" and a numeric "correctAnswer", the other with string id,
// "answer_options" and the correct option's text in "correct_answer".
// Both are normalized here so the core only ever sees the canonical shape.
type legacyQuestion struct {
	ID            json.RawMessage `json:"id"`
	Text          string          `json:"text"`
	Options       []string        `json:"options"`
	AnswerOptions []string        `json:"answer_options"`
	CorrectAnswer json.RawMessage `json:"correctAnswer"`
	CorrectText   string          `json:"correct_answer"`
	Difficulty    string          `json:"difficulty"`
	TimeLimit     int             `json:"timeLimit"`
	TimeLimitSnk  int             `json:"time_limit"`
	Strict        bool            `json:"is_strict"`
	Explanation   string          `json:"explanation"`
	Bonus         bool            `json:"isBonus"`
	BonusSnake    bool            `json:"is_bonus"`

	CorrectIndex *int `json:"correctIndex"`
	StrictCanon  bool `json:"strict"`
	BonusCanon   bool `json:"bonus"`
}

// UnmarshalJSON accepts the canonical shape and both legacy shapes.
func (q *Question) UnmarshalJSON(data []byte) error {
	var raw legacyQuestion
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	switch {
	case len(raw.ID) == 0:
	case raw.ID[0] == '"':
		_ = json.Unmarshal(raw.ID, &q.ID)
	default:
		var n int64
		if err := json.Unmarshal(raw.ID, &n); err == nil {
			q.ID = fmt.Sprintf("%d", n)
		}
	}

	q.Text = raw.Text
	q.Options = raw.Options
	if len(q.Options) == 0 {
		q.Options = raw.AnswerOptions
	}

	switch {
	case raw.CorrectIndex != nil:
		q.CorrectIndex = *raw.CorrectIndex
	case len(raw.CorrectAnswer) > 0:
		var idx int
		if err := json.Unmarshal(raw.CorrectAnswer, &idx); err != nil {
			return fmt.Errorf("question %s: bad correctAnswer: %w", q.ID, err)
		}
		q.CorrectIndex = idx
	case raw.CorrectText != "":
		q.CorrectIndex = -1
		for i, opt := range q.Options {
			if opt == raw.CorrectText {
				q.CorrectIndex = i
				break
			}
		}
		if q.CorrectIndex < 0 {
			return fmt.Errorf("question %s: correct_answer not among options", q.ID)
		}
	}

	q.Difficulty = normalizeDifficulty(raw.Difficulty)
	q.TimeLimit = raw.TimeLimit
	if q.TimeLimit == 0 {
		q.TimeLimit = raw.TimeLimitSnk
	}
	q.Strict = raw.Strict || raw.StrictCanon
	q.Explanation = raw.Explanation
	q.Bonus = raw.Bonus || raw.BonusSnake || raw.BonusCanon
	return nil
}

// normalizeDifficulty maps the legacy "difficult" label onto Hard.
func normalizeDifficulty(s string) Difficulty {
	switch s {
	case "difficult", "hard":
		return Hard
	case "medium":
		return Medium
	default:
		return Easy
	}
}

// Answer records how one presented question was resolved. Selected is nil when
// the timer expired with no selection. Answers are append-only.
type Answer struct {
	QuestionID string `json:"questionId"`
	Selected   *int   `json:"selectedAnswer"`
	Correct    bool   `json:"isCorrect"`
	Bonus      bool   `json:"isBonus"`
}

// Phase is the session's position in the quiz state machine.
type Phase string

const (
	PhaseNotStarted    Phase = "notStarted"
	PhaseInProgress    Phase = "inProgress"
	PhaseBonusOffer    Phase = "bonusOffer"
	PhaseBonusQuestion Phase = "bonusQuestion"
	PhaseFinished      Phase = "finished"
)

// DifficultyScores counts correct regular answers per difficulty level.
// Key names follow the original report shape ("difficult", not "hard").
type DifficultyScores struct {
	Easy      int `json:"easy"`
	Medium    int `json:"medium"`
	Difficult int `json:"difficult"`
}

// Result is the immutable scored outcome of one completed session.
type Result struct {
	RegNumber        string           `json:"regNumber"`
	Name             string           `json:"name"`
	RegularScore     int              `json:"regularScore"`
	BonusScore       int              `json:"bonusScore"`
	RawScore         int              `json:"rawScore"`
	TotalScore       int              `json:"score"`
	PenaltyCount     int              `json:"tabSwitchPenalties"`
	TookBonus        bool             `json:"tookBonusQuestion"`
	Answers          []Answer         `json:"answers"`
	DifficultyScores DifficultyScores `json:"difficultyScores"`
	Timestamp        time.Time        `json:"timestamp"`
}

// LeaderboardEntry is a snapshot-friendly view of one attempt.
type LeaderboardEntry struct {
	RegNumber string    `json:"regNumber"`
	Name      string    `json:"name"`
	Score     int       `json:"score"`
	Timestamp time.Time `json:"timestamp"`
}

// Student is a roster record.
type Student struct {
	RegNumber string `json:"regNumber"`
	Name      string `json:"name"`
}

// Settings controls how a quiz instance is assembled. The per-difficulty time
// fields, when positive, override each drawn question's own limit.
type Settings struct {
	TotalQuestions int `json:"totalQuestions" yaml:"total_questions"`
	EasyCount      int `json:"easyCount" yaml:"easy_count"`
	MediumCount    int `json:"mediumCount" yaml:"medium_count"`
	HardCount      int `json:"hardCount" yaml:"hard_count"`
	EasyTime       int `json:"easyTime" yaml:"easy_time"`
	MediumTime     int `json:"mediumTime" yaml:"medium_time"`
	HardTime       int `json:"hardTime" yaml:"hard_time"`
}

// TimeLimitFor returns the configured time limit for a difficulty, or 0 when
// questions should keep their own.
func (s Settings) TimeLimitFor(d Difficulty) int {
	switch d {
	case Easy:
		return s.EasyTime
	case Medium:
		return s.MediumTime
	case Hard:
		return s.HardTime
	}
	return 0
}

// DefaultSettings mirrors the classroom default: ten questions, no forced
// difficulty mix.
func DefaultSettings() Settings {
	return Settings{TotalQuestions: 10}
}
