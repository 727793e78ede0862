package question_test

import (
	"errors"
	"testing"

	"github.com/selfquiz/backend/internal/domain/question"
)

func TestNewQuestion(t *testing.T) {
	q, err := question.New("  What is a goroutine?  ", []string{"A thread", "A lightweight thread", "A process"}, []string{"b"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if q.Content != "What is a goroutine?" {
		t.Errorf("expected trimmed content, got %q", q.Content)
	}

	if len(q.CorrectAnswers) != 1 || q.CorrectAnswers[0] != "B" {
		t.Errorf("expected correct answers [B], got %v", q.CorrectAnswers)
	}
}

func TestNewQuestion_DeduplicatesCorrectAnswers(t *testing.T) {
	q, err := question.New("Pick two", []string{"x", "y", "z"}, []string{"A", "C", "A", " c "})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(q.CorrectAnswers) != 2 {
		t.Fatalf("expected 2 correct answers, got %v", q.CorrectAnswers)
	}
	if !q.IsMultiSelect() {
		t.Error("expected multi-select question")
	}
}

func TestNewQuestion_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
		options []string
		correct []string
		wantErr error
	}{
		{"empty content", "", []string{"a", "b"}, []string{"A"}, question.ErrEmptyContent},
		{"one option", "Q", []string{"a"}, []string{"A"}, question.ErrTooFewOptions},
		{"no correct answer", "Q", []string{"a", "b"}, nil, question.ErrNoCorrect},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := question.New(tt.content, tt.options, tt.correct)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestNewQuestion_CorrectAnswerOutsideOptions(t *testing.T) {
	_, err := question.New("Q", []string{"a", "b"}, []string{"C"})
	if err == nil {
		t.Error("expected error for label outside option range, got nil")
	}
}

func TestLabels(t *testing.T) {
	q := question.Question{Options: []string{"one", "two", "three", "four"}}

	labels := q.Labels()
	want := []string{"A", "B", "C", "D"}
	for i := range want {
		if labels[i] != want[i] {
			t.Errorf("label %d: expected %q, got %q", i, want[i], labels[i])
		}
	}

	if q.HasLabel("E") {
		t.Error("expected E to be out of range for four options")
	}
	if !q.HasLabel("D") {
		t.Error("expected D to be a valid label")
	}
}

func TestIndex(t *testing.T) {
	if i, ok := question.Index("C"); !ok || i != 2 {
		t.Errorf("expected index 2, got %d (ok=%v)", i, ok)
	}
	if _, ok := question.Index("AB"); ok {
		t.Error("expected multi-character label to be rejected")
	}
	if question.Label(26) != "" {
		t.Error("expected empty label past Z")
	}
}
