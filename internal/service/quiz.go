// internal/service/quiz.go
package service

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"

	"github.com/selfquiz/backend/internal/domain/mastery"
	"github.com/selfquiz/backend/internal/domain/question"
	"github.com/selfquiz/backend/internal/domain/quiz"
	"github.com/selfquiz/backend/internal/grader"
	"github.com/selfquiz/backend/internal/ingest"
	"github.com/selfquiz/backend/internal/metrics"
	"github.com/selfquiz/backend/internal/store"
)

var (
	ErrUnknownQuestion   = errors.New("unknown question")
	ErrInvalidSubmission = errors.New("invalid submission")
)

// Options holds the quiz sizes used when a request does not name a count.
type Options struct {
	DefaultCount int
	EndlessCount int
}

// QuizService runs quiz selection, grading and reporting on top of a Store.
// Every read that depends on classification goes through the same
// ComputeStats + Policy path, so listings, quizzes and the report agree.
type QuizService struct {
	store    store.Store
	policy   mastery.Policy
	composer *mastery.Composer
	metrics  *metrics.Recorder
	logger   *slog.Logger
	opts     Options
}

// NewQuizService creates a QuizService. rec may be nil.
func NewQuizService(s store.Store, policy mastery.Policy, composer *mastery.Composer, rec *metrics.Recorder, logger *slog.Logger, opts Options) *QuizService {
	return &QuizService{
		store:    s,
		policy:   policy,
		composer: composer,
		metrics:  rec,
		logger:   logger,
		opts:     opts,
	}
}

// StartRequest asks for a new quiz. Count <= 0 selects the configured
// default for the mode.
type StartRequest struct {
	Count int
	Mode  quiz.Mode
}

// Composition is a composed quiz. Requested is the count the quiz was
// composed for after defaults were applied; Questions may be shorter.
type Composition struct {
	Mode      quiz.Mode
	Requested int
	Questions []question.Question
}

// StartQuiz composes a quiz from the current catalog and history.
func (qs *QuizService) StartQuiz(ctx context.Context, req StartRequest) (*Composition, error) {
	if req.Mode == "" {
		req.Mode = quiz.ModeStandard
	}
	count := qs.resolveCount(req)

	pools, err := qs.pools(ctx)
	if err != nil {
		return nil, err
	}

	selected := qs.composer.Compose(pools, count)
	qs.metrics.QuizStarted(string(req.Mode), count, len(selected))

	attrs := []any{
		"mode", req.Mode,
		"requested", count,
		"returned", len(selected),
		"unseen", len(pools.Unseen),
		"wrong", len(pools.Wrong),
		"other", len(pools.Other),
		"mastered", len(pools.Mastered),
	}
	if len(selected) < count {
		qs.logger.InfoContext(ctx, "quiz under-filled", attrs...)
	} else {
		qs.logger.DebugContext(ctx, "quiz composed", attrs...)
	}
	return &Composition{Mode: req.Mode, Requested: count, Questions: selected}, nil
}

// WrongReview returns up to count questions drawn only from the wrong pool.
// Count <= 0 selects the standard default.
func (qs *QuizService) WrongReview(ctx context.Context, count int) (*Composition, error) {
	if count <= 0 {
		count = qs.opts.DefaultCount
	}
	pools, err := qs.pools(ctx)
	if err != nil {
		return nil, err
	}
	selected := qs.composer.ComposeFrom(pools.Wrong, count)
	qs.metrics.QuizStarted("wrong_review", count, len(selected))
	return &Composition{Mode: quiz.ModeStandard, Requested: count, Questions: selected}, nil
}

func (qs *QuizService) resolveCount(req StartRequest) int {
	if req.Count > 0 {
		return req.Count
	}
	if req.Mode == quiz.ModeEndless {
		return qs.opts.EndlessCount
	}
	return qs.opts.DefaultCount
}

// Answer is the user's selection for one question.
type Answer struct {
	QuestionID int64
	Selected   []string
}

// SubmitRequest carries a finished quiz.
type SubmitRequest struct {
	Mode    quiz.Mode
	Answers []Answer
}

// SubmitQuiz grades the answers against the stored keys and persists the
// session with its details in one write. An empty submission returns a
// zero result and writes nothing.
func (qs *QuizService) SubmitQuiz(ctx context.Context, req SubmitRequest) (*quiz.Session, error) {
	if req.Mode == "" {
		req.Mode = quiz.ModeStandard
	}
	if len(req.Answers) == 0 {
		return quiz.NewSession(req.Mode, []quiz.Detail{}), nil
	}

	ids := make([]int64, 0, len(req.Answers))
	seen := make(map[int64]bool, len(req.Answers))
	for _, a := range req.Answers {
		if seen[a.QuestionID] {
			return nil, fmt.Errorf("%w: question %d answered twice", ErrInvalidSubmission, a.QuestionID)
		}
		seen[a.QuestionID] = true
		ids = append(ids, a.QuestionID)
	}

	keys, err := qs.store.GetQuestionsByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("load answer keys: %w", err)
	}

	items := make([]grader.Item, len(req.Answers))
	for i, a := range req.Answers {
		q, ok := keys[a.QuestionID]
		if !ok {
			return nil, fmt.Errorf("%w: %d", ErrUnknownQuestion, a.QuestionID)
		}
		items[i] = grader.Item{
			QuestionID:     a.QuestionID,
			CorrectAnswers: q.CorrectAnswers,
			Submitted:      a.Selected,
		}
	}

	session := grader.GradeBatch(req.Mode, items)
	if err := qs.store.SaveSession(ctx, session); err != nil {
		return nil, fmt.Errorf("save session: %w", err)
	}

	qs.metrics.QuizSubmitted(string(session.Mode), session.CorrectCount, session.TotalQuestions, session.Score)
	qs.logger.InfoContext(ctx, "quiz submitted",
		"quiz_id", session.ID,
		"mode", session.Mode,
		"correct", session.CorrectCount,
		"total", session.TotalQuestions,
	)
	return session, nil
}

// WrongQuestions lists the wrong pool in catalog order.
func (qs *QuizService) WrongQuestions(ctx context.Context) ([]question.Question, error) {
	pools, err := qs.pools(ctx)
	if err != nil {
		return nil, err
	}
	return nonNil(pools.Wrong), nil
}

// MasteredQuestions lists mastered questions in catalog order.
func (qs *QuizService) MasteredQuestions(ctx context.Context) ([]question.Question, error) {
	pools, err := qs.pools(ctx)
	if err != nil {
		return nil, err
	}
	return nonNil(pools.Mastered), nil
}

// QuestionStatus is a catalog entry with its derived progress.
type QuestionStatus struct {
	Question question.Question
	Stats    mastery.QuestionStats
	State    mastery.State
}

// QuestionOverview returns the catalog, newest first, with each question's
// statistics and classification, all read from one snapshot.
func (qs *QuizService) QuestionOverview(ctx context.Context) ([]QuestionStatus, error) {
	snap, err := qs.store.Snapshot(ctx)
	if err != nil {
		return nil, fmt.Errorf("snapshot: %w", err)
	}

	catalog := slices.Clone(snap.Catalog)
	slices.SortStableFunc(catalog, func(a, b question.Question) int {
		if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
			return c
		}
		return cmp.Compare(b.ID, a.ID)
	})

	stats := mastery.ComputeStats(snap.Attempts)
	overview := make([]QuestionStatus, len(catalog))
	for i, q := range catalog {
		s, _ := stats.Lookup(q.ID)
		s.QuestionID = q.ID
		overview[i] = QuestionStatus{
			Question: q,
			Stats:    s,
			State:    qs.policy.StateOf(stats, q.ID),
		}
	}
	return overview, nil
}

// Stats returns the aggregate progress report.
func (qs *QuizService) Stats(ctx context.Context) (mastery.Report, error) {
	snap, err := qs.store.Snapshot(ctx)
	if err != nil {
		return mastery.Report{}, fmt.Errorf("snapshot: %w", err)
	}
	return qs.policy.Report(snap.Catalog, snap.Attempts, snap.Sessions), nil
}

// History lists past sessions, most recent first, without details.
func (qs *QuizService) History(ctx context.Context) ([]*quiz.Session, error) {
	sessions, err := qs.store.ListSessions(ctx)
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	if sessions == nil {
		sessions = []*quiz.Session{}
	}
	return sessions, nil
}

// Session returns one past session with its details. The error wraps
// store.ErrNotFound when the id does not exist.
func (qs *QuizService) Session(ctx context.Context, id int64) (*quiz.Session, error) {
	session, err := qs.store.GetSession(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get session %d: %w", id, err)
	}
	return session, nil
}

// ImportQuestions validates the drafts and adds them to the catalog in one
// write. Nothing is saved if any draft is invalid.
func (qs *QuizService) ImportQuestions(ctx context.Context, drafts []ingest.Draft) ([]*question.Question, error) {
	if len(drafts) == 0 {
		return nil, fmt.Errorf("%w: no questions", ErrInvalidSubmission)
	}
	questions, err := ingest.Build(drafts)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidSubmission, err)
	}
	if err := qs.store.CreateQuestions(ctx, questions); err != nil {
		return nil, fmt.Errorf("create questions: %w", err)
	}
	qs.logger.InfoContext(ctx, "questions imported", "count", len(questions))
	return questions, nil
}

// DeleteQuestion removes a question from the catalog; its history stays.
func (qs *QuizService) DeleteQuestion(ctx context.Context, id int64) error {
	if err := qs.store.DeleteQuestion(ctx, id); err != nil {
		return fmt.Errorf("delete question %d: %w", id, err)
	}
	return nil
}

func (qs *QuizService) pools(ctx context.Context) (mastery.Pools, error) {
	snap, err := qs.store.Snapshot(ctx)
	if err != nil {
		return mastery.Pools{}, fmt.Errorf("snapshot: %w", err)
	}
	return qs.policy.Partition(snap.Catalog, mastery.ComputeStats(snap.Attempts)), nil
}

func nonNil(qs []question.Question) []question.Question {
	if qs == nil {
		return []question.Question{}
	}
	return qs
}
