package mastery

const (
	DefaultMasteryThreshold = 5
	DefaultRecoveryStreak   = 3
)

// State is the classification of a question for quiz selection.
type State string

const (
	StateUnseen   State = "unseen"
	StateWrong    State = "wrong"
	StateOther    State = "other"
	StateMastered State = "mastered"
)

// Policy holds the thresholds that classify questions.
type Policy struct {
	// MasteryThreshold is the number of lifetime correct answers after
	// which a question is retired from quizzes.
	MasteryThreshold int
	// RecoveryStreak is the number of consecutive correct answers since
	// the last miss that takes a question out of the wrong pool.
	RecoveryStreak int
}

// DefaultPolicy returns the standard thresholds (5 corrects, streak of 3).
func DefaultPolicy() Policy {
	return Policy{
		MasteryThreshold: DefaultMasteryThreshold,
		RecoveryStreak:   DefaultRecoveryStreak,
	}
}

// IsMastered reports whether the question has reached the lifetime
// correct-answer threshold. Later misses never revoke mastery.
func (p Policy) IsMastered(s QuestionStats) bool {
	return s.Correct >= p.MasteryThreshold
}

// IsInWrongPool reports whether a non-mastered question has been missed
// and has not yet recovered a full streak since the last miss.
func (p Policy) IsInWrongPool(s QuestionStats) bool {
	if p.IsMastered(s) {
		return false
	}
	return s.EverWrong && s.Streak < p.RecoveryStreak
}

// Classify returns the state of a question given its stats; seen is false
// for a question with no attempts.
func (p Policy) Classify(s QuestionStats, seen bool) State {
	switch {
	case !seen:
		return StateUnseen
	case p.IsMastered(s):
		return StateMastered
	case p.IsInWrongPool(s):
		return StateWrong
	default:
		return StateOther
	}
}

// StateOf classifies a question by id against a stats map.
func (p Policy) StateOf(stats Stats, questionID int64) State {
	s, ok := stats.Lookup(questionID)
	return p.Classify(s, ok)
}
