package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"adventcalendar/internal/logger"
	"adventcalendar/internal/security"
	"adventcalendar/internal/service"
	"adventcalendar/internal/validation"
)

// APIError is the body of every error response
type APIError struct {
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

type ErrorEnvelope struct {
	Error APIError `json:"error"`
}

func respondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, code, userMsg string) {
	respondJSON(w, status, ErrorEnvelope{Error: APIError{Message: userMsg, Code: code}})
}

// respondWithError maps err to a status code, logs it and writes a short
// message. Unexpected errors are logged at error level and hidden from the client.
func respondWithError(w http.ResponseWriter, log *logger.Logger, logMsg string, err error) {
	status, code, userMsg := classify(err)
	if status >= http.StatusInternalServerError {
		log.Error(logMsg, "error", err)
	} else {
		log.Debug(logMsg, "error", err, "status", status)
	}
	writeError(w, status, code, userMsg)
}

func classify(err error) (int, string, string) {
	var vErr validation.ValidationError
	switch {
	case errors.As(err, &vErr):
		return http.StatusBadRequest, "invalid_" + vErr.Field, vErr.Message
	case errors.Is(err, service.ErrLevelNotFound):
		return http.StatusNotFound, "level_not_found", "Level not found"
	case errors.Is(err, service.ErrPuzzleNotFound):
		return http.StatusNotFound, "puzzle_not_found", "Puzzle not found"
	case errors.Is(err, service.ErrNoGate):
		return http.StatusNotFound, "no_gate", "This calendar has no password gate"
	case errors.Is(err, service.ErrLevelLocked):
		return http.StatusForbidden, "level_locked", "Level is locked"
	case errors.Is(err, service.ErrPuzzleUnavailable):
		return http.StatusForbidden, "puzzle_unavailable", "Solve the previous puzzles first"
	case errors.Is(err, service.ErrPlayerNotFound), errors.Is(err, security.ErrInvalidToken):
		return http.StatusUnauthorized, "unauthorized", ErrUnauthorized
	case errors.Is(err, service.ErrNoFragment):
		return http.StatusBadRequest, "no_fragment", "This puzzle does not hide a fragment"
	case errors.Is(err, service.ErrNotAccepted):
		return http.StatusBadRequest, "not_accepted", "Solve the puzzle before entering its fragment"
	case errors.Is(err, service.ErrNoHint):
		return http.StatusBadRequest, "no_hint", "This puzzle has no hint"
	case errors.Is(err, service.ErrNoFinalCode):
		return http.StatusBadRequest, "no_final_code", "This level has no final code"
	default:
		return http.StatusInternalServerError, "internal", ErrInternalServerError
	}
}
