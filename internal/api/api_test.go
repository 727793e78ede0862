package api_test

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/selfquiz/backend/internal/api"
	"github.com/selfquiz/backend/internal/domain/mastery"
	"github.com/selfquiz/backend/internal/metrics"
	"github.com/selfquiz/backend/internal/service"
	"github.com/selfquiz/backend/internal/store"
)

func newTestServer(t *testing.T) http.Handler {
	t.Helper()
	s, err := store.NewSQLite(filepath.Join(t.TempDir(), "quiz.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	rec := metrics.New()
	svc := service.NewQuizService(s, mastery.DefaultPolicy(), mastery.NewSeededComposer(1), rec, logger,
		service.Options{DefaultCount: 10, EndlessCount: 1000})

	mux := http.NewServeMux()
	api.RegisterRoutes(mux, api.NewHandler(svc, logger))
	return api.Logging(logger, rec)(api.CORS([]string{"*"})(mux))
}

func do(t *testing.T, h http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func decodeBody[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}

func createQuestions(t *testing.T, h http.Handler, n int) []api.QuestionResponse {
	t.Helper()
	inputs := make([]api.QuestionInput, n)
	for i := range inputs {
		inputs[i] = api.QuestionInput{
			Content:        "Question " + strconv.Itoa(i+1),
			Options:        []string{"right", "wrong", "also right"},
			CorrectAnswers: []string{"A", "C"},
		}
	}
	w := do(t, h, http.MethodPost, "/questions", api.CreateQuestionsRequest{Questions: inputs})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	return decodeBody[[]api.QuestionResponse](t, w)
}

func TestCreateAndListQuestions(t *testing.T) {
	h := newTestServer(t)
	created := createQuestions(t, h, 2)
	require.Len(t, created, 2)
	assert.True(t, created[0].IsMultiSelect)

	w := do(t, h, http.MethodGet, "/questions", nil)
	require.Equal(t, http.StatusOK, w.Code)
	overview := decodeBody[[]api.QuestionOverviewResponse](t, w)
	require.Len(t, overview, 2)
	assert.Equal(t, "unseen", overview[0].State)
	assert.Equal(t, []string{"A", "C"}, overview[0].CorrectAnswers)
}

func TestCreateQuestions_Invalid(t *testing.T) {
	h := newTestServer(t)

	w := do(t, h, http.MethodPost, "/questions", api.CreateQuestionsRequest{})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(t, h, http.MethodPost, "/questions", api.CreateQuestionsRequest{Questions: []api.QuestionInput{
		{Content: "x", Options: []string{"a", "b"}, CorrectAnswers: []string{"D"}},
	}})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, decodeBody[map[string]string](t, w)["error"], "question 1")

	w = do(t, h, http.MethodPost, "/questions", map[string]any{"questions": []any{}, "bogus": true})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestParseQuestions(t *testing.T) {
	h := newTestServer(t)

	w := do(t, h, http.MethodPost, "/questions/parse", api.ParseQuestionsRequest{
		Text: "A,C 1. Which are prime? (A)2 (B)4 (C)5 (D)8\nB 2. Broken (A)only",
	})
	require.Equal(t, http.StatusOK, w.Code)
	resp := decodeBody[api.ParseQuestionsResponse](t, w)
	require.Len(t, resp.Questions, 2)
	assert.Equal(t, 1, resp.Valid)
	assert.Equal(t, 1, resp.Invalid)
	assert.Equal(t, "Which are prime?", resp.Questions[0].Content)
	assert.NotEmpty(t, resp.Questions[1].Error)

	// Parsing never saves.
	w = do(t, h, http.MethodGet, "/questions", nil)
	assert.Empty(t, decodeBody[[]api.QuestionOverviewResponse](t, w))
}

func TestQuizFlow(t *testing.T) {
	h := newTestServer(t)
	created := createQuestions(t, h, 3)

	w := do(t, h, http.MethodPost, "/quiz/start", api.StartQuizRequest{Count: 2})
	require.Equal(t, http.StatusOK, w.Code)
	started := decodeBody[api.StartQuizResponse](t, w)
	require.Len(t, started.Questions, 2)
	assert.Equal(t, "standard", started.Mode)
	assert.Equal(t, 2, started.Requested)
	for _, q := range started.Questions {
		assert.Equal(t, []string{"A", "C"}, q.CorrectAnswers, "quiz questions carry the answer key")
	}

	w = do(t, h, http.MethodPost, "/quiz/submit", api.SubmitQuizRequest{Questions: []api.SubmittedAnswer{
		{ID: created[0].ID, SelectedAnswers: []string{"C", "A"}},
		{ID: created[1].ID, SelectedAnswers: []string{"A"}},
	}})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	submitted := decodeBody[api.SubmitQuizResponse](t, w)
	assert.NotZero(t, submitted.QuizID)
	assert.Equal(t, 1, submitted.CorrectCount)
	assert.Equal(t, 2, submitted.TotalQuestions)
	assert.InDelta(t, 50.0, submitted.Score, 0.001)

	w = do(t, h, http.MethodGet, "/questions/wrong", nil)
	require.Equal(t, http.StatusOK, w.Code)
	wrong := decodeBody[[]api.QuestionResponse](t, w)
	require.Len(t, wrong, 1)
	assert.Equal(t, created[1].ID, wrong[0].ID)

	w = do(t, h, http.MethodPost, "/quiz/wrong-review", nil)
	require.Equal(t, http.StatusOK, w.Code)
	review := decodeBody[api.StartQuizResponse](t, w)
	require.Len(t, review.Questions, 1)
	assert.Equal(t, 10, review.Requested)
	assert.Equal(t, created[1].ID, review.Questions[0].ID)

	w = do(t, h, http.MethodGet, "/history", nil)
	require.Equal(t, http.StatusOK, w.Code)
	history := decodeBody[[]api.SessionResponse](t, w)
	require.Len(t, history, 1)

	w = do(t, h, http.MethodGet, "/history/"+strconv.FormatInt(submitted.QuizID, 10), nil)
	require.Equal(t, http.StatusOK, w.Code)
	session := decodeBody[api.GetSessionResponse](t, w)
	require.Len(t, session.Details, 2)
	assert.Equal(t, "Question 1", session.Details[0].Content)
	assert.Equal(t, []string{"C", "A"}, session.Details[0].UserAnswers)

	w = do(t, h, http.MethodGet, "/stats", nil)
	require.Equal(t, http.StatusOK, w.Code)
	stats := decodeBody[api.StatsResponse](t, w)
	assert.Equal(t, 3, stats.TotalQuestions)
	assert.Equal(t, 1, stats.TotalQuizzes)
	assert.Equal(t, 50.0, stats.Accuracy)
	assert.Equal(t, 1, stats.WrongQuestionsCount)
	assert.Equal(t, 1, stats.UnseenQuestionsCount)
}

func TestStartQuiz_EmptyBodyAndBadMode(t *testing.T) {
	h := newTestServer(t)
	createQuestions(t, h, 1)

	w := do(t, h, http.MethodPost, "/quiz/start", nil)
	require.Equal(t, http.StatusOK, w.Code)
	started := decodeBody[api.StartQuizResponse](t, w)
	assert.Len(t, started.Questions, 1)
	assert.Equal(t, 10, started.Requested, "the default count is reported")

	w = do(t, h, http.MethodPost, "/quiz/start", map[string]any{"mode": "endless"})
	require.Equal(t, http.StatusOK, w.Code)
	endless := decodeBody[api.StartQuizResponse](t, w)
	assert.Equal(t, "endless", endless.Mode)
	assert.Equal(t, 1000, endless.Requested)

	w = do(t, h, http.MethodPost, "/quiz/start", map[string]any{"mode": "sudden-death"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(t, h, http.MethodPost, "/quiz/start", map[string]any{"count": -1})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSubmitQuiz_Errors(t *testing.T) {
	h := newTestServer(t)

	w := do(t, h, http.MethodPost, "/quiz/submit", api.SubmitQuizRequest{Questions: []api.SubmittedAnswer{
		{ID: 404, SelectedAnswers: []string{"A"}},
	}})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(t, h, http.MethodPost, "/quiz/submit", api.SubmitQuizRequest{})
	require.Equal(t, http.StatusOK, w.Code)
	empty := decodeBody[api.SubmitQuizResponse](t, w)
	assert.Zero(t, empty.QuizID)
	assert.Zero(t, empty.TotalQuestions)
}

func TestNotFoundAndBadIDs(t *testing.T) {
	h := newTestServer(t)

	assert.Equal(t, http.StatusNotFound, do(t, h, http.MethodGet, "/history/99", nil).Code)
	assert.Equal(t, http.StatusBadRequest, do(t, h, http.MethodGet, "/history/abc", nil).Code)
	assert.Equal(t, http.StatusNotFound, do(t, h, http.MethodDelete, "/questions/99", nil).Code)
}

func TestDeleteQuestion(t *testing.T) {
	h := newTestServer(t)
	created := createQuestions(t, h, 1)

	w := do(t, h, http.MethodDelete, "/questions/"+strconv.FormatInt(created[0].ID, 10), nil)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = do(t, h, http.MethodGet, "/questions", nil)
	assert.Empty(t, decodeBody[[]api.QuestionOverviewResponse](t, w))
}

func TestLogging_RequestID(t *testing.T) {
	h := newTestServer(t)

	w := do(t, h, http.MethodGet, "/stats", nil)
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))

	req := httptest.NewRequest(http.MethodGet, "/stats", nil)
	req.Header.Set("X-Request-ID", "client-supplied")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, "client-supplied", rec.Header().Get("X-Request-ID"))
}

func TestCORS_Preflight(t *testing.T) {
	h := newTestServer(t)

	req := httptest.NewRequest(http.MethodOptions, "/quiz/start", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}
