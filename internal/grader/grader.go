package grader

import (
	"strings"

	"github.com/selfquiz/backend/internal/domain/quiz"
)

// Grade reports whether the submitted labels are exactly the correct set.
// Order does not matter; duplicate or blank submitted labels are ignored.
// A nil submission is an empty set.
func Grade(correctAnswers, submitted []string) bool {
	want := toSet(correctAnswers)
	got := toSet(submitted)
	if len(want) != len(got) {
		return false
	}
	for label := range want {
		if !got[label] {
			return false
		}
	}
	return true
}

// Normalize trims and upper-cases labels and drops blanks and duplicates,
// keeping first-seen order.
func Normalize(labels []string) []string {
	out := make([]string, 0, len(labels))
	seen := make(map[string]bool, len(labels))
	for _, l := range labels {
		l = normalizeLabel(l)
		if l == "" || seen[l] {
			continue
		}
		seen[l] = true
		out = append(out, l)
	}
	return out
}

// Item is one answered question to grade.
type Item struct {
	QuestionID     int64
	CorrectAnswers []string
	Submitted      []string
}

// GradeBatch grades every item and returns the session aggregate with one
// detail per item, in submission order.
func GradeBatch(mode quiz.Mode, items []Item) *quiz.Session {
	details := make([]quiz.Detail, len(items))
	for i, it := range items {
		details[i] = quiz.Detail{
			QuestionID:  it.QuestionID,
			UserAnswers: Normalize(it.Submitted),
			IsCorrect:   Grade(it.CorrectAnswers, it.Submitted),
		}
	}
	return quiz.NewSession(mode, details)
}

func toSet(labels []string) map[string]bool {
	set := make(map[string]bool, len(labels))
	for _, l := range labels {
		if l = normalizeLabel(l); l != "" {
			set[l] = true
		}
	}
	return set
}

func normalizeLabel(l string) string {
	return strings.ToUpper(strings.TrimSpace(l))
}
