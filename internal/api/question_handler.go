package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/selfquiz/backend/internal/domain/question"
	"github.com/selfquiz/backend/internal/ingest"
)

// ── Request / Response types ────────────────────────────────────────────────

type QuestionInput struct {
	Content        string   `json:"content" example:"Which of these are prime?"`
	Options        []string `json:"options" example:"2,4,5,8"`
	CorrectAnswers []string `json:"correct_answers" example:"A,C"`
}

type CreateQuestionsRequest struct {
	Questions []QuestionInput `json:"questions"`
}

func (r *CreateQuestionsRequest) Validate() error {
	if len(r.Questions) == 0 {
		return errors.New("questions is required")
	}
	return nil
}

type ParseQuestionsRequest struct {
	Text        string `json:"text" example:"A,C 1. Which of these are prime? (A)2 (B)4 (C)5 (D)8"`
	StripSpaces bool   `json:"strip_spaces"`
}

func (r *ParseQuestionsRequest) Validate() error {
	if r.Text == "" {
		return errors.New("text is required")
	}
	return nil
}

type ParsedQuestion struct {
	Content        string   `json:"content"`
	Options        []string `json:"options"`
	CorrectAnswers []string `json:"correct_answers"`
	Error          string   `json:"error,omitempty" example:"question needs at least two options"`
}

type ParseQuestionsResponse struct {
	Questions []ParsedQuestion `json:"questions"`
	Valid     int              `json:"valid" example:"12"`
	Invalid   int              `json:"invalid" example:"1"`
}

type QuestionResponse struct {
	ID             int64     `json:"id" example:"1"`
	Content        string    `json:"content" example:"Which of these are prime?"`
	Options        []string  `json:"options" example:"2,4,5,8"`
	CorrectAnswers []string  `json:"correct_answers" example:"A,C"`
	IsMultiSelect  bool      `json:"is_multi_select" example:"true"`
	CreatedAt      time.Time `json:"created_at"`
}

type QuestionOverviewResponse struct {
	QuestionResponse
	CorrectCount int    `json:"correct_count" example:"2"`
	Streak       int    `json:"streak" example:"1"`
	EverWrong    bool   `json:"ever_wrong" example:"true"`
	State        string `json:"state" example:"wrong" enums:"unseen,wrong,other,mastered"`
}

func toQuestionResponse(q question.Question) QuestionResponse {
	return QuestionResponse{
		ID:             q.ID,
		Content:        q.Content,
		Options:        q.Options,
		CorrectAnswers: q.CorrectAnswers,
		IsMultiSelect:  q.IsMultiSelect(),
		CreatedAt:      q.CreatedAt,
	}
}

func toQuestionResponses(qs []question.Question) []QuestionResponse {
	out := make([]QuestionResponse, len(qs))
	for i, q := range qs {
		out[i] = toQuestionResponse(q)
	}
	return out
}

// ── Handlers ────────────────────────────────────────────────────────────────

// listQuestions returns the catalog with per-question progress.
// @Summary      List questions
// @Description  Returns every question, newest first, with its answer statistics and selection state.
// @Tags         Questions
// @Produce      json
// @Success      200  {array}   QuestionOverviewResponse
// @Failure      500  {object}  map[string]string
// @Router       /questions [get]
func (h *Handler) listQuestions(w http.ResponseWriter, r *http.Request) {
	overview, err := h.quiz.QuestionOverview(r.Context())
	if h.handleServiceError(w, r, err, "questions") {
		return
	}

	response := make([]QuestionOverviewResponse, len(overview))
	for i, o := range overview {
		response[i] = QuestionOverviewResponse{
			QuestionResponse: toQuestionResponse(o.Question),
			CorrectCount:     o.Stats.Correct,
			Streak:           o.Stats.Streak,
			EverWrong:        o.Stats.EverWrong,
			State:            string(o.State),
		}
	}
	respondJSON(w, http.StatusOK, response)
}

// createQuestions adds questions to the catalog.
// @Summary      Create questions
// @Description  Validates and saves a batch of questions. Nothing is saved if any question is invalid.
// @Tags         Questions
// @Accept       json
// @Produce      json
// @Param        body  body      CreateQuestionsRequest  true  "Questions to create"
// @Success      201   {array}   QuestionResponse
// @Failure      400   {object}  map[string]string
// @Failure      500   {object}  map[string]string
// @Router       /questions [post]
func (h *Handler) createQuestions(w http.ResponseWriter, r *http.Request) {
	var req CreateQuestionsRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	drafts := make([]ingest.Draft, len(req.Questions))
	for i, q := range req.Questions {
		drafts[i] = ingest.Draft{Content: q.Content, Options: q.Options, CorrectAnswers: q.CorrectAnswers}
	}

	created, err := h.quiz.ImportQuestions(r.Context(), drafts)
	if h.handleServiceError(w, r, err, "questions") {
		return
	}

	response := make([]QuestionResponse, len(created))
	for i, q := range created {
		response[i] = toQuestionResponse(*q)
	}
	respondJSON(w, http.StatusCreated, response)
}

// parseQuestions previews pasted text as questions without saving them.
// @Summary      Parse pasted questions
// @Description  Splits pasted text into question drafts and reports which would pass validation.
// @Tags         Questions
// @Accept       json
// @Produce      json
// @Param        body  body      ParseQuestionsRequest  true  "Pasted text"
// @Success      200   {object}  ParseQuestionsResponse
// @Failure      400   {object}  map[string]string
// @Router       /questions/parse [post]
func (h *Handler) parseQuestions(w http.ResponseWriter, r *http.Request) {
	var req ParseQuestionsRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	drafts := ingest.ParseText(req.Text, ingest.Options{StripSpaces: req.StripSpaces})
	response := ParseQuestionsResponse{Questions: make([]ParsedQuestion, len(drafts))}
	for i, d := range drafts {
		parsed := ParsedQuestion{
			Content:        d.Content,
			Options:        nonNilStrings(d.Options),
			CorrectAnswers: nonNilStrings(d.CorrectAnswers),
		}
		if _, err := question.New(d.Content, d.Options, d.CorrectAnswers); err != nil {
			parsed.Error = err.Error()
			response.Invalid++
		} else {
			response.Valid++
		}
		response.Questions[i] = parsed
	}
	respondJSON(w, http.StatusOK, response)
}

// deleteQuestion removes a question from the catalog.
// @Summary      Delete a question
// @Description  Removes the question; its answer history is kept for past sessions and totals.
// @Tags         Questions
// @Param        questionID  path  int  true  "Question ID"
// @Success      204
// @Failure      400  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /questions/{questionID} [delete]
func (h *Handler) deleteQuestion(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "questionID")
	if !ok {
		return
	}
	if h.handleServiceError(w, r, h.quiz.DeleteQuestion(r.Context(), id), "question") {
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// listWrongQuestions returns the wrong pool.
// @Summary      List wrong questions
// @Description  Questions answered incorrectly that have not yet recovered or been mastered.
// @Tags         Questions
// @Produce      json
// @Success      200  {array}   QuestionResponse
// @Failure      500  {object}  map[string]string
// @Router       /questions/wrong [get]
func (h *Handler) listWrongQuestions(w http.ResponseWriter, r *http.Request) {
	h.respondPool(w, r, h.quiz.WrongQuestions, "wrong questions")
}

// listMasteredQuestions returns questions retired from quizzes.
// @Summary      List mastered questions
// @Tags         Questions
// @Produce      json
// @Success      200  {array}   QuestionResponse
// @Failure      500  {object}  map[string]string
// @Router       /questions/mastered [get]
func (h *Handler) listMasteredQuestions(w http.ResponseWriter, r *http.Request) {
	h.respondPool(w, r, h.quiz.MasteredQuestions, "mastered questions")
}

func (h *Handler) respondPool(w http.ResponseWriter, r *http.Request, load func(ctx context.Context) ([]question.Question, error), entity string) {
	qs, err := load(r.Context())
	if h.handleServiceError(w, r, err, entity) {
		return
	}
	respondJSON(w, http.StatusOK, toQuestionResponses(qs))
}

func nonNilStrings(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
