package store

import (
	"context"
	"errors"

	"github.com/selfquiz/backend/internal/domain/mastery"
	"github.com/selfquiz/backend/internal/domain/question"
	"github.com/selfquiz/backend/internal/domain/quiz"
)

var (
	ErrNotFound = errors.New("not found")
)

// Snapshot is a consistent read of everything the selection engine needs.
type Snapshot struct {
	Catalog  []question.Question
	Attempts []mastery.Attempt
	Sessions []mastery.SessionTotals
}

// Store is the persistence contract used by the service layer.
type Store interface {
	// Catalog
	ListQuestions(ctx context.Context) ([]question.Question, error)
	ListQuestionsNewest(ctx context.Context) ([]question.Question, error)
	GetQuestionsByIDs(ctx context.Context, ids []int64) (map[int64]question.Question, error)
	CreateQuestions(ctx context.Context, qs []*question.Question) error
	DeleteQuestion(ctx context.Context, id int64) error
	CountQuestions(ctx context.Context) (int, error)

	// History
	ListAttempts(ctx context.Context) ([]mastery.Attempt, error)
	Snapshot(ctx context.Context) (*Snapshot, error)

	// Sessions
	SaveSession(ctx context.Context, s *quiz.Session) error
	ListSessions(ctx context.Context) ([]*quiz.Session, error)
	GetSession(ctx context.Context, id int64) (*quiz.Session, error)
	SessionTotals(ctx context.Context) ([]mastery.SessionTotals, error)
}
