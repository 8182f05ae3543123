package http

import (
	"encoding/json"
	"net/http"

	"github.com/kirillkom/docqa/internal/core/domain"
)

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}

// writeDomainError maps core error kinds onto HTTP statuses. Anything not
// classified in the domain package surfaces as a 500 with a generic body so
// internal detail never leaks to the client.
func (r *Router) writeDomainError(w http.ResponseWriter, req *http.Request, err error) {
	status := http.StatusInternalServerError
	message := "internal error"

	switch {
	case domain.IsKind(err, domain.ErrInvalidInput):
		status = http.StatusBadRequest
		message = err.Error()
	case domain.IsKind(err, domain.ErrDocumentNotFound):
		status = http.StatusNotFound
		message = "document not found"
	case domain.IsKind(err, domain.ErrTemporary), domain.IsKind(err, domain.ErrCollaboratorUnavailable):
		status = http.StatusServiceUnavailable
		message = "service temporarily unavailable"
	}

	if status >= http.StatusInternalServerError {
		r.logger.Error("request_failed",
			"method", req.Method,
			"path", req.URL.Path,
			"error", err,
		)
	}
	writeError(w, status, message)
}

// questionOutcome labels an answered question for metrics.
func questionOutcome(answer *domain.Answer) string {
	switch {
	case answer.LowConfidence:
		return "low_confidence"
	case answer.UsedWebFallback:
		return "web_fallback"
	default:
		return "grounded"
	}
}
