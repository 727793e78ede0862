package ingest

import (
	"errors"
	"fmt"

	"github.com/selfquiz/backend/internal/domain/question"
)

// Draft is a question as read from an import source, before validation.
type Draft struct {
	Content        string   `json:"content" yaml:"content"`
	Options        []string `json:"options" yaml:"options"`
	CorrectAnswers []string `json:"correct_answers" yaml:"correct_answers"`
}

// Build validates every draft and returns the questions in order. All
// invalid drafts are reported together, numbered from 1.
func Build(drafts []Draft) ([]*question.Question, error) {
	questions := make([]*question.Question, 0, len(drafts))
	var errs []error
	for i, d := range drafts {
		q, err := question.New(d.Content, d.Options, d.CorrectAnswers)
		if err != nil {
			errs = append(errs, fmt.Errorf("question %d: %w", i+1, err))
			continue
		}
		questions = append(questions, q)
	}
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return questions, nil
}
