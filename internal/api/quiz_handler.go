package api

import (
	"errors"
	"net/http"

	"github.com/selfquiz/backend/internal/domain/question"
	"github.com/selfquiz/backend/internal/domain/quiz"
	"github.com/selfquiz/backend/internal/service"
)

// ── Request / Response types ────────────────────────────────────────────────

type StartQuizRequest struct {
	Count int    `json:"count,omitempty" example:"10"`
	Mode  string `json:"mode,omitempty" example:"standard" enums:"standard,endless"`

	mode quiz.Mode
}

func (r *StartQuizRequest) Validate() error {
	if r.Count < 0 {
		return errors.New("count must not be negative")
	}
	mode, err := quiz.ParseMode(r.Mode)
	if err != nil {
		return err
	}
	r.mode = mode
	return nil
}

type WrongReviewRequest struct {
	Count int `json:"count,omitempty" example:"10"`
}

func (r *WrongReviewRequest) Validate() error {
	if r.Count < 0 {
		return errors.New("count must not be negative")
	}
	return nil
}

// QuizQuestionResponse is a question as served to the quiz taker. The
// answer key is included so clients can grade as they go (endless mode).
type QuizQuestionResponse struct {
	ID             int64    `json:"id" example:"1"`
	Content        string   `json:"content" example:"Which of these are prime?"`
	Options        []string `json:"options" example:"2,4,5,8"`
	CorrectAnswers []string `json:"correct_answers" example:"A,C"`
	IsMultiSelect  bool     `json:"is_multi_select" example:"true"`
}

type StartQuizResponse struct {
	Mode      string                 `json:"mode" example:"standard"`
	Requested int                    `json:"requested" example:"10"`
	Questions []QuizQuestionResponse `json:"questions"`
}

type SubmittedAnswer struct {
	ID              int64    `json:"id" example:"1"`
	SelectedAnswers []string `json:"selected_answers" example:"A,C"`
}

type SubmitQuizRequest struct {
	Mode      string            `json:"mode,omitempty" example:"standard" enums:"standard,endless"`
	Questions []SubmittedAnswer `json:"questions"`

	mode quiz.Mode
}

func (r *SubmitQuizRequest) Validate() error {
	mode, err := quiz.ParseMode(r.Mode)
	if err != nil {
		return err
	}
	r.mode = mode
	for _, q := range r.Questions {
		if q.ID <= 0 {
			return errors.New("every answer needs a question id")
		}
	}
	return nil
}

type AnswerResult struct {
	QuestionID  int64    `json:"question_id" example:"1"`
	UserAnswers []string `json:"user_answers" example:"A,C"`
	IsCorrect   bool     `json:"is_correct" example:"true"`
}

type SubmitQuizResponse struct {
	QuizID         int64          `json:"quiz_id" example:"7"`
	Score          float64        `json:"score" example:"80"`
	CorrectCount   int            `json:"correct_count" example:"8"`
	TotalQuestions int            `json:"total_questions" example:"10"`
	Results        []AnswerResult `json:"results"`
}

func toQuizQuestions(qs []question.Question) []QuizQuestionResponse {
	out := make([]QuizQuestionResponse, len(qs))
	for i, q := range qs {
		out[i] = QuizQuestionResponse{
			ID:             q.ID,
			Content:        q.Content,
			Options:        q.Options,
			CorrectAnswers: q.CorrectAnswers,
			IsMultiSelect:  q.IsMultiSelect(),
		}
	}
	return out
}

func toStartQuizResponse(c *service.Composition) StartQuizResponse {
	return StartQuizResponse{
		Mode:      string(c.Mode),
		Requested: c.Requested,
		Questions: toQuizQuestions(c.Questions),
	}
}

// ── Handlers ────────────────────────────────────────────────────────────────

// startQuiz composes a new quiz.
// @Summary      Start a quiz
// @Description  Draws unseen questions first, then the wrong pool, then the rest. Mastered questions are never drawn. The quiz may be shorter than requested.
// @Tags         Quiz
// @Accept       json
// @Produce      json
// @Param        body  body      StartQuizRequest  false  "Quiz size and mode"
// @Success      200   {object}  StartQuizResponse
// @Failure      400   {object}  map[string]string
// @Failure      500   {object}  map[string]string
// @Router       /quiz/start [post]
func (h *Handler) startQuiz(w http.ResponseWriter, r *http.Request) {
	var req StartQuizRequest
	if !decodeOptional(w, r, &req) {
		return
	}

	composed, err := h.quiz.StartQuiz(r.Context(), service.StartRequest{Count: req.Count, Mode: req.mode})
	if h.handleServiceError(w, r, err, "quiz") {
		return
	}

	respondJSON(w, http.StatusOK, toStartQuizResponse(composed))
}

// startWrongReview composes a quiz from the wrong pool only.
// @Summary      Review wrong questions
// @Tags         Quiz
// @Accept       json
// @Produce      json
// @Param        body  body      WrongReviewRequest  false  "Quiz size"
// @Success      200   {object}  StartQuizResponse
// @Failure      400   {object}  map[string]string
// @Failure      500   {object}  map[string]string
// @Router       /quiz/wrong-review [post]
func (h *Handler) startWrongReview(w http.ResponseWriter, r *http.Request) {
	var req WrongReviewRequest
	if !decodeOptional(w, r, &req) {
		return
	}

	composed, err := h.quiz.WrongReview(r.Context(), req.Count)
	if h.handleServiceError(w, r, err, "quiz") {
		return
	}

	respondJSON(w, http.StatusOK, toStartQuizResponse(composed))
}

// submitQuiz grades and records a finished quiz.
// @Summary      Submit a quiz
// @Description  Grades each answer by exact set match and records the session. An empty submission is graded as zero and not recorded.
// @Tags         Quiz
// @Accept       json
// @Produce      json
// @Param        body  body      SubmitQuizRequest  true  "Answers"
// @Success      200   {object}  SubmitQuizResponse
// @Failure      400   {object}  map[string]string
// @Failure      500   {object}  map[string]string
// @Router       /quiz/submit [post]
func (h *Handler) submitQuiz(w http.ResponseWriter, r *http.Request) {
	var req SubmitQuizRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	answers := make([]service.Answer, len(req.Questions))
	for i, q := range req.Questions {
		answers[i] = service.Answer{QuestionID: q.ID, Selected: q.SelectedAnswers}
	}

	session, err := h.quiz.SubmitQuiz(r.Context(), service.SubmitRequest{Mode: req.mode, Answers: answers})
	if h.handleServiceError(w, r, err, "quiz") {
		return
	}

	results := make([]AnswerResult, len(session.Details))
	for i, d := range session.Details {
		results[i] = AnswerResult{
			QuestionID:  d.QuestionID,
			UserAnswers: d.UserAnswers,
			IsCorrect:   d.IsCorrect,
		}
	}
	respondJSON(w, http.StatusOK, SubmitQuizResponse{
		QuizID:         session.ID,
		Score:          session.Score,
		CorrectCount:   session.CorrectCount,
		TotalQuestions: session.TotalQuestions,
		Results:        results,
	})
}
