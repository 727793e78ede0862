package api

import (
	"math"
	"net/http"
	"time"

	"github.com/selfquiz/backend/internal/domain/quiz"
)

// ── Response types ──────────────────────────────────────────────────────────

type SessionResponse struct {
	ID             int64     `json:"id" example:"7"`
	Mode           string    `json:"mode" example:"standard"`
	Score          float64   `json:"score" example:"80"`
	TotalQuestions int       `json:"total_questions" example:"10"`
	CorrectCount   int       `json:"correct_count" example:"8"`
	CompletedAt    time.Time `json:"completed_at"`
}

type SessionDetailResponse struct {
	QuestionID     int64    `json:"question_id" example:"1"`
	Content        string   `json:"content" example:"Which of these are prime?"`
	Options        []string `json:"options" example:"2,4,5,8"`
	CorrectAnswers []string `json:"correct_answers" example:"A,C"`
	UserAnswers    []string `json:"user_answers" example:"A"`
	IsCorrect      bool     `json:"is_correct" example:"false"`
}

type GetSessionResponse struct {
	SessionResponse
	Details []SessionDetailResponse `json:"details"`
}

type StatsResponse struct {
	TotalQuestions         int     `json:"total_questions" example:"120"`
	TotalQuizzes           int     `json:"total_quizzes" example:"14"`
	TotalAnswered          int     `json:"total_answered" example:"140"`
	TotalCorrect           int     `json:"total_correct" example:"101"`
	Accuracy               float64 `json:"accuracy" example:"72.1"`
	WrongQuestionsCount    int     `json:"wrong_questions_count" example:"9"`
	MasteredQuestionsCount int     `json:"mastered_questions_count" example:"30"`
	UnseenQuestionsCount   int     `json:"unseen_questions_count" example:"41"`
}

func toSessionResponse(s *quiz.Session) SessionResponse {
	return SessionResponse{
		ID:             s.ID,
		Mode:           string(s.Mode),
		Score:          s.Score,
		TotalQuestions: s.TotalQuestions,
		CorrectCount:   s.CorrectCount,
		CompletedAt:    s.CompletedAt,
	}
}

// ── Handlers ────────────────────────────────────────────────────────────────

// listHistory returns past quiz sessions.
// @Summary      List quiz history
// @Tags         History
// @Produce      json
// @Success      200  {array}   SessionResponse
// @Failure      500  {object}  map[string]string
// @Router       /history [get]
func (h *Handler) listHistory(w http.ResponseWriter, r *http.Request) {
	sessions, err := h.quiz.History(r.Context())
	if h.handleServiceError(w, r, err, "history") {
		return
	}

	response := make([]SessionResponse, len(sessions))
	for i, s := range sessions {
		response[i] = toSessionResponse(s)
	}
	respondJSON(w, http.StatusOK, response)
}

// getHistory returns one past session with every answer.
// @Summary      Get a quiz session
// @Tags         History
// @Produce      json
// @Param        quizID  path      int  true  "Quiz ID"
// @Success      200     {object}  GetSessionResponse
// @Failure      400     {object}  map[string]string
// @Failure      404     {object}  map[string]string
// @Failure      500     {object}  map[string]string
// @Router       /history/{quizID} [get]
func (h *Handler) getHistory(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "quizID")
	if !ok {
		return
	}

	session, err := h.quiz.Session(r.Context(), id)
	if h.handleServiceError(w, r, err, "quiz") {
		return
	}

	details := make([]SessionDetailResponse, len(session.Details))
	for i, d := range session.Details {
		details[i] = SessionDetailResponse{
			QuestionID:     d.QuestionID,
			Content:        d.Content,
			Options:        d.Options,
			CorrectAnswers: d.CorrectAnswers,
			UserAnswers:    d.UserAnswers,
			IsCorrect:      d.IsCorrect,
		}
	}
	respondJSON(w, http.StatusOK, GetSessionResponse{
		SessionResponse: toSessionResponse(session),
		Details:         details,
	})
}

// getStats returns the global progress report.
// @Summary      Get progress statistics
// @Description  Totals across every session plus the current size of the wrong, mastered and unseen pools.
// @Tags         Stats
// @Produce      json
// @Success      200  {object}  StatsResponse
// @Failure      500  {object}  map[string]string
// @Router       /stats [get]
func (h *Handler) getStats(w http.ResponseWriter, r *http.Request) {
	report, err := h.quiz.Stats(r.Context())
	if h.handleServiceError(w, r, err, "stats") {
		return
	}

	respondJSON(w, http.StatusOK, StatsResponse{
		TotalQuestions:         report.TotalQuestions,
		TotalQuizzes:           report.TotalQuizzes,
		TotalAnswered:          report.TotalAnswered,
		TotalCorrect:           report.TotalCorrect,
		Accuracy:               math.Round(report.Accuracy*10) / 10,
		WrongQuestionsCount:    report.WrongQuestionsCount,
		MasteredQuestionsCount: report.MasteredQuestionsCount,
		UnseenQuestionsCount:   report.UnseenQuestionsCount,
	})
}
