package question

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	ErrEmptyContent   = errors.New("question content cannot be empty")
	ErrTooFewOptions  = errors.New("question needs at least two options")
	ErrNoCorrect      = errors.New("question needs at least one correct answer")
	ErrTooManyOptions = errors.New("question has more options than letter labels")
)

// maxOptions is the number of single-letter labels available (A..Z).
const maxOptions = 26

// Question is a multiple-choice item in the catalog. Option i is labelled
// with the i-th letter of the alphabet; CorrectAnswers holds those labels.
type Question struct {
	ID             int64
	Content        string
	Options        []string
	CorrectAnswers []string
	CreatedAt      time.Time
}

// New builds a validated question. Correct answer labels are trimmed and
// upper-cased; duplicates are dropped.
func New(content string, options []string, correctAnswers []string) (*Question, error) {
	q := &Question{
		Content:        strings.TrimSpace(content),
		Options:        options,
		CorrectAnswers: normalizeLabels(correctAnswers),
	}
	if err := q.Validate(); err != nil {
		return nil, err
	}
	return q, nil
}

// Validate checks that the question has content, options, and that its
// correct answers are a non-empty subset of its option labels.
func (q *Question) Validate() error {
	if q.Content == "" {
		return ErrEmptyContent
	}
	if len(q.Options) < 2 {
		return ErrTooFewOptions
	}
	if len(q.Options) > maxOptions {
		return ErrTooManyOptions
	}
	if len(q.CorrectAnswers) == 0 {
		return ErrNoCorrect
	}
	for _, a := range q.CorrectAnswers {
		if !q.HasLabel(a) {
			return fmt.Errorf("correct answer %q is not one of the option labels %v", a, q.Labels())
		}
	}
	return nil
}

// Labels returns the letter labels of the question's options, in order.
func (q *Question) Labels() []string {
	labels := make([]string, len(q.Options))
	for i := range q.Options {
		labels[i] = Label(i)
	}
	return labels
}

// HasLabel reports whether label names one of the question's options.
func (q *Question) HasLabel(label string) bool {
	i, ok := Index(label)
	return ok && i < len(q.Options)
}

// IsMultiSelect reports whether more than one option must be selected.
func (q *Question) IsMultiSelect() bool {
	return len(q.CorrectAnswers) > 1
}

// Label returns the letter label for the option at index i (0 → "A").
func Label(i int) string {
	if i < 0 || i >= maxOptions {
		return ""
	}
	return string(rune('A' + i))
}

// Index is the inverse of Label.
func Index(label string) (int, bool) {
	if len(label) != 1 || label[0] < 'A' || label[0] > 'Z' {
		return 0, false
	}
	return int(label[0] - 'A'), true
}

func normalizeLabels(labels []string) []string {
	seen := make(map[string]bool, len(labels))
	out := make([]string, 0, len(labels))
	for _, l := range labels {
		l = strings.ToUpper(strings.TrimSpace(l))
		if l == "" || seen[l] {
			continue
		}
		seen[l] = true
		out = append(out, l)
	}
	return out
}
