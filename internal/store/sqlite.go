// internal/store/sqlite.go
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/selfquiz/backend/internal/domain/mastery"
	"github.com/selfquiz/backend/internal/domain/question"
)

// quiz_details.question_id has no foreign key; details outlive deleted
// questions.
const schema = `
CREATE TABLE IF NOT EXISTS questions (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    content TEXT NOT NULL,
    options TEXT NOT NULL,
    correct_answers TEXT NOT NULL,
    created_at DATETIME DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS quizzes (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    score REAL NOT NULL,
    total_questions INTEGER NOT NULL,
    correct_count INTEGER NOT NULL,
    completed_at DATETIME DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS quiz_details (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    quiz_id INTEGER NOT NULL,
    question_id INTEGER NOT NULL,
    user_answers TEXT NOT NULL,
    is_correct BOOLEAN NOT NULL,
    FOREIGN KEY (quiz_id) REFERENCES quizzes(id)
);

CREATE INDEX IF NOT EXISTS idx_quiz_details_quiz ON quiz_details(quiz_id);
`

// sqliteTime matches the CURRENT_TIMESTAMP text format.
const sqliteTime = "2006-01-02 15:04:05"

// isoTime selects a DATETIME column as RFC 3339 text.
func isoTime(column string) string {
	return "strftime('%Y-%m-%dT%H:%M:%SZ', " + column + ")"
}

type SQLiteStore struct {
	db *sql.DB
}

// Compile-time check: *SQLiteStore satisfies the Store interface.
var _ Store = (*SQLiteStore)(nil)

// queryer is satisfied by both *sql.DB and *sql.Tx.
type queryer interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

func NewSQLite(dbPath string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, err
	}

	// SQLite allows one writer; a single connection avoids SQLITE_BUSY.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec("PRAGMA journal_mode = WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enable WAL: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, err
	}

	if err := migrate(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// migrate upgrades databases created before quiz modes existed.
func migrate(db *sql.DB) error {
	return addColumnIfNotExists(db, "quizzes", "mode", "TEXT DEFAULT 'standard'")
}

func addColumnIfNotExists(db *sql.DB, table, column, definition string) error {
	rows, err := db.Query(fmt.Sprintf("PRAGMA table_info(%s)", table))
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			cid     int
			name    string
			ctype   string
			notnull int
			dflt    sql.NullString
			pk      int
		)
		if err := rows.Scan(&cid, &name, &ctype, &notnull, &dflt, &pk); err != nil {
			return err
		}
		if name == column {
			return nil
		}
	}
	if err := rows.Err(); err != nil {
		return err
	}
	rows.Close()

	_, err = db.Exec(fmt.Sprintf("ALTER TABLE %s ADD COLUMN %s %s", table, column, definition))
	return err
}

// ============================================================================
// Questions
// ============================================================================

var questionColumns = "id, content, options, correct_answers, " + isoTime("created_at")

// ListQuestions returns the catalog in insertion order.
func (s *SQLiteStore) ListQuestions(ctx context.Context) ([]question.Question, error) {
	return listQuestions(ctx, s.db, "SELECT "+questionColumns+" FROM questions ORDER BY id ASC")
}

// ListQuestionsNewest returns the catalog with the most recently added first.
func (s *SQLiteStore) ListQuestionsNewest(ctx context.Context) ([]question.Question, error) {
	return listQuestions(ctx, s.db, "SELECT "+questionColumns+" FROM questions ORDER BY created_at DESC, id DESC")
}

func (s *SQLiteStore) GetQuestionsByIDs(ctx context.Context, ids []int64) (map[int64]question.Question, error) {
	result := make(map[int64]question.Question, len(ids))
	if len(ids) == 0 {
		return result, nil
	}

	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(ids)), ",")
	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}

	qs, err := listQuestions(ctx, s.db,
		"SELECT "+questionColumns+" FROM questions WHERE id IN ("+placeholders+")",
		args...,
	)
	if err != nil {
		return nil, err
	}
	for _, q := range qs {
		result[q.ID] = q
	}
	return result, nil
}

// CreateQuestions inserts all questions in one transaction and sets their
// IDs and creation times.
func (s *SQLiteStore) CreateQuestions(ctx context.Context, qs []*question.Question) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	now := time.Now().UTC().Truncate(time.Second)
	for _, q := range qs {
		optionsJSON, err := json.Marshal(q.Options)
		if err != nil {
			return err
		}
		correctJSON, err := json.Marshal(q.CorrectAnswers)
		if err != nil {
			return err
		}

		result, err := tx.ExecContext(ctx,
			"INSERT INTO questions (content, options, correct_answers, created_at) VALUES (?, ?, ?, ?)",
			q.Content, string(optionsJSON), string(correctJSON), now.Format(sqliteTime),
		)
		if err != nil {
			return err
		}
		id, err := result.LastInsertId()
		if err != nil {
			return err
		}
		q.ID = id
		q.CreatedAt = now
	}

	return tx.Commit()
}

// DeleteQuestion removes a question from the catalog. Its attempt history
// is kept.
func (s *SQLiteStore) DeleteQuestion(ctx context.Context, id int64) error {
	result, err := s.db.ExecContext(ctx, "DELETE FROM questions WHERE id = ?", id)
	if err != nil {
		return err
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *SQLiteStore) CountQuestions(ctx context.Context) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM questions").Scan(&n)
	return n, err
}

func listQuestions(ctx context.Context, q queryer, query string, args ...any) ([]question.Question, error) {
	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var questions []question.Question
	for rows.Next() {
		var (
			qu          question.Question
			optionsJSON string
			correctJSON string
			createdAt   sql.NullString
		)
		if err := rows.Scan(&qu.ID, &qu.Content, &optionsJSON, &correctJSON, &createdAt); err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(optionsJSON), &qu.Options); err != nil {
			return nil, fmt.Errorf("question %d: malformed options: %w", qu.ID, err)
		}
		if err := json.Unmarshal([]byte(correctJSON), &qu.CorrectAnswers); err != nil {
			return nil, fmt.Errorf("question %d: malformed correct_answers: %w", qu.ID, err)
		}
		qu.CreatedAt = parseTime(createdAt)
		questions = append(questions, qu)
	}
	return questions, rows.Err()
}

// ============================================================================
// Attempt history
// ============================================================================

// ListAttempts returns every graded answer in the order it was recorded.
func (s *SQLiteStore) ListAttempts(ctx context.Context) ([]mastery.Attempt, error) {
	return listAttempts(ctx, s.db)
}

// Snapshot reads catalog, attempts and session totals inside a single
// transaction so they reflect the same point in time.
func (s *SQLiteStore) Snapshot(ctx context.Context) (*Snapshot, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	catalog, err := listQuestions(ctx, tx, "SELECT "+questionColumns+" FROM questions ORDER BY id ASC")
	if err != nil {
		return nil, fmt.Errorf("list questions: %w", err)
	}
	attempts, err := listAttempts(ctx, tx)
	if err != nil {
		return nil, fmt.Errorf("list attempts: %w", err)
	}
	sessions, err := sessionTotals(ctx, tx)
	if err != nil {
		return nil, fmt.Errorf("session totals: %w", err)
	}

	return &Snapshot{
		Catalog:  catalog,
		Attempts: attempts,
		Sessions: sessions,
	}, tx.Commit()
}

func listAttempts(ctx context.Context, q queryer) ([]mastery.Attempt, error) {
	rows, err := q.QueryContext(ctx, "SELECT question_id, is_correct FROM quiz_details ORDER BY id ASC")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var attempts []mastery.Attempt
	for rows.Next() {
		var a mastery.Attempt
		if err := rows.Scan(&a.QuestionID, &a.Correct); err != nil {
			return nil, err
		}
		attempts = append(attempts, a)
	}
	return attempts, rows.Err()
}

func parseTime(v sql.NullString) time.Time {
	if !v.Valid {
		return time.Time{}
	}
	t, err := time.Parse(time.RFC3339, v.String)
	if err != nil {
		return time.Time{}
	}
	return t
}
