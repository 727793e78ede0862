package quiz

import (
	"fmt"
	"time"
)

type Mode string

const (
	ModeStandard Mode = "standard"
	ModeEndless  Mode = "endless"
)

// ParseMode maps an empty string to ModeStandard and rejects unknown modes.
func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case "":
		return ModeStandard, nil
	case ModeStandard, ModeEndless:
		return Mode(s), nil
	}
	return "", fmt.Errorf("invalid mode %q: must be standard or endless", s)
}

// Session is one completed quiz. It owns its Details and is persisted
// together with them.
type Session struct {
	ID             int64
	TotalQuestions int
	CorrectCount   int
	Score          float64 // 0-100
	Mode           Mode
	CompletedAt    time.Time
	Details        []Detail
}

// Detail is the graded answer to one question within a Session.
type Detail struct {
	ID          int64
	QuizID      int64
	QuestionID  int64
	UserAnswers []string
	IsCorrect   bool

	// Filled in when a session is read back with its questions.
	Content        string
	Options        []string
	CorrectAnswers []string
}

// NewSession builds a session aggregate from its graded details.
func NewSession(mode Mode, details []Detail) *Session {
	if mode == "" {
		mode = ModeStandard
	}
	correct := 0
	for _, d := range details {
		if d.IsCorrect {
			correct++
		}
	}
	return &Session{
		TotalQuestions: len(details),
		CorrectCount:   correct,
		Score:          Score(correct, len(details)),
		Mode:           mode,
		Details:        details,
	}
}

// Score returns 100*correct/total, or 0 when total is 0.
func Score(correct, total int) float64 {
	if total <= 0 {
		return 0
	}
	return float64(correct) / float64(total) * 100
}
