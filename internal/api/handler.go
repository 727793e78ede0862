// internal/api/handler.go
package api

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/selfquiz/backend/internal/service"
	"github.com/selfquiz/backend/internal/store"
)

// maxBodyBytes caps request bodies; pasted catalogs are the largest payload.
const maxBodyBytes = 4 << 20

// Handler holds all dependencies needed by HTTP handlers.
type Handler struct {
	quiz   *service.QuizService
	logger *slog.Logger
}

// NewHandler creates a Handler with the given dependencies.
func NewHandler(svc *service.QuizService, logger *slog.Logger) *Handler {
	return &Handler{
		quiz:   svc,
		logger: logger,
	}
}

type validator interface {
	Validate() error
}

// respondJSON writes a JSON response with the given status code.
func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// respondError writes {"error": msg} with the given status code.
func respondError(w http.ResponseWriter, status int, msg string) {
	respondJSON(w, status, map[string]string{"error": msg})
}

// decodeAndValidate decodes a required JSON body into v and validates it.
// On failure it writes a 400 and returns false.
func decodeAndValidate(w http.ResponseWriter, r *http.Request, v validator) bool {
	return decode(w, r, v, false)
}

// decodeOptional is decodeAndValidate for endpoints whose body may be
// omitted; an empty body leaves v at its zero value.
func decodeOptional(w http.ResponseWriter, r *http.Request, v validator) bool {
	return decode(w, r, v, true)
}

func decode(w http.ResponseWriter, r *http.Request, v validator, allowEmpty bool) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil && !(allowEmpty && errors.Is(err, io.EOF)) {
		respondError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return false
	}
	if err := v.Validate(); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return false
	}
	return true
}

// pathID parses an integer path value. On failure it writes a 400 and
// returns false.
func pathID(w http.ResponseWriter, r *http.Request, name string) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue(name), 10, 64)
	if err != nil || id <= 0 {
		respondError(w, http.StatusBadRequest, "invalid "+name)
		return 0, false
	}
	return id, true
}

// handleServiceError maps service and store errors to HTTP responses.
// Returns true if an error was handled (caller should return).
func (h *Handler) handleServiceError(w http.ResponseWriter, r *http.Request, err error, entity string) bool {
	if err == nil {
		return false
	}
	switch {
	case errors.Is(err, store.ErrNotFound):
		respondError(w, http.StatusNotFound, entity+" not found")
	case errors.Is(err, service.ErrUnknownQuestion), errors.Is(err, service.ErrInvalidSubmission):
		respondError(w, http.StatusBadRequest, err.Error())
	default:
		h.logger.ErrorContext(r.Context(), "request failed", "error", err, "entity", entity)
		respondError(w, http.StatusInternalServerError, "internal error")
	}
	return true
}
