package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/selfquiz/backend/internal/domain/mastery"
	"github.com/selfquiz/backend/internal/domain/quiz"
)

// ============================================================================
// Quiz sessions
// ============================================================================

// SaveSession persists the session and all of its details in one
// transaction; on any failure nothing is written. The session and detail
// IDs are set on success.
func (s *SQLiteStore) SaveSession(ctx context.Context, session *quiz.Session) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	completedAt := session.CompletedAt
	if completedAt.IsZero() {
		completedAt = time.Now()
	}
	completedAt = completedAt.UTC().Truncate(time.Second)

	result, err := tx.ExecContext(ctx,
		"INSERT INTO quizzes (score, total_questions, correct_count, mode, completed_at) VALUES (?, ?, ?, ?, ?)",
		session.Score, session.TotalQuestions, session.CorrectCount, string(session.Mode), completedAt.Format(sqliteTime),
	)
	if err != nil {
		return fmt.Errorf("insert quiz: %w", err)
	}
	quizID, err := result.LastInsertId()
	if err != nil {
		return err
	}

	detailIDs := make([]int64, len(session.Details))
	for i, d := range session.Details {
		answersJSON, err := json.Marshal(nonNil(d.UserAnswers))
		if err != nil {
			return err
		}
		result, err := tx.ExecContext(ctx,
			"INSERT INTO quiz_details (quiz_id, question_id, user_answers, is_correct) VALUES (?, ?, ?, ?)",
			quizID, d.QuestionID, string(answersJSON), d.IsCorrect,
		)
		if err != nil {
			return fmt.Errorf("insert detail for question %d: %w", d.QuestionID, err)
		}
		if detailIDs[i], err = result.LastInsertId(); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return err
	}

	session.ID = quizID
	session.CompletedAt = completedAt
	for i := range session.Details {
		session.Details[i].ID = detailIDs[i]
		session.Details[i].QuizID = quizID
	}
	return nil
}

const sessionColumns = "id, score, total_questions, correct_count, COALESCE(mode, 'standard'), "

// ListSessions returns all sessions, most recent first, without details.
func (s *SQLiteStore) ListSessions(ctx context.Context) ([]*quiz.Session, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT "+sessionColumns+isoTime("completed_at")+" FROM quizzes ORDER BY completed_at DESC, id DESC",
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sessions []*quiz.Session
	for rows.Next() {
		session, err := scanSession(rows)
		if err != nil {
			return nil, err
		}
		sessions = append(sessions, session)
	}
	return sessions, rows.Err()
}

// GetSession returns a session with its details. Each detail carries the
// question's current content; details of deleted questions keep only the
// recorded answer.
func (s *SQLiteStore) GetSession(ctx context.Context, id int64) (*quiz.Session, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT "+sessionColumns+isoTime("completed_at")+" FROM quizzes WHERE id = ?", id,
	)
	session, err := scanSession(row)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT qd.id, qd.question_id, qd.user_answers, qd.is_correct,
		       COALESCE(q.content, ''), COALESCE(q.options, '[]'), COALESCE(q.correct_answers, '[]')
		FROM quiz_details qd
		LEFT JOIN questions q ON qd.question_id = q.id
		WHERE qd.quiz_id = ?
		ORDER BY qd.id ASC
	`, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		d := quiz.Detail{QuizID: id}
		var answersJSON, optionsJSON, correctJSON string
		if err := rows.Scan(&d.ID, &d.QuestionID, &answersJSON, &d.IsCorrect, &d.Content, &optionsJSON, &correctJSON); err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(answersJSON), &d.UserAnswers); err != nil {
			return nil, fmt.Errorf("detail %d: malformed user_answers: %w", d.ID, err)
		}
		if err := json.Unmarshal([]byte(optionsJSON), &d.Options); err != nil {
			return nil, fmt.Errorf("detail %d: malformed options: %w", d.ID, err)
		}
		if err := json.Unmarshal([]byte(correctJSON), &d.CorrectAnswers); err != nil {
			return nil, fmt.Errorf("detail %d: malformed correct_answers: %w", d.ID, err)
		}
		session.Details = append(session.Details, d)
	}
	return session, rows.Err()
}

// SessionTotals returns each session's question and correct counts in
// the order the sessions were saved.
func (s *SQLiteStore) SessionTotals(ctx context.Context) ([]mastery.SessionTotals, error) {
	return sessionTotals(ctx, s.db)
}

func sessionTotals(ctx context.Context, q queryer) ([]mastery.SessionTotals, error) {
	rows, err := q.QueryContext(ctx, "SELECT total_questions, correct_count FROM quizzes ORDER BY id ASC")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var totals []mastery.SessionTotals
	for rows.Next() {
		var t mastery.SessionTotals
		if err := rows.Scan(&t.TotalQuestions, &t.CorrectCount); err != nil {
			return nil, err
		}
		totals = append(totals, t)
	}
	return totals, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanSession(row scanner) (*quiz.Session, error) {
	var (
		session     quiz.Session
		mode        string
		completedAt sql.NullString
	)
	if err := row.Scan(&session.ID, &session.Score, &session.TotalQuestions, &session.CorrectCount, &mode, &completedAt); err != nil {
		return nil, err
	}
	session.Mode = quiz.Mode(mode)
	session.CompletedAt = parseTime(completedAt)
	return &session, nil
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
