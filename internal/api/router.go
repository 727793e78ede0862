// internal/api/router.go
package api

import "net/http"

// RegisterRoutes mounts the quiz API on mux.
func RegisterRoutes(mux *http.ServeMux, h *Handler) {
	// Catalog
	mux.HandleFunc("GET /questions", h.listQuestions)
	mux.HandleFunc("POST /questions", h.createQuestions)
	mux.HandleFunc("POST /questions/parse", h.parseQuestions)
	mux.HandleFunc("DELETE /questions/{questionID}", h.deleteQuestion)
	mux.HandleFunc("GET /questions/wrong", h.listWrongQuestions)
	mux.HandleFunc("GET /questions/mastered", h.listMasteredQuestions)

	// Quiz
	mux.HandleFunc("POST /quiz/start", h.startQuiz)
	mux.HandleFunc("POST /quiz/wrong-review", h.startWrongReview)
	mux.HandleFunc("POST /quiz/submit", h.submitQuiz)

	// History & progress
	mux.HandleFunc("GET /history", h.listHistory)
	mux.HandleFunc("GET /history/{quizID}", h.getHistory)
	mux.HandleFunc("GET /stats", h.getStats)
}
