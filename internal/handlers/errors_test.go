package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"adventcalendar/internal/logger"
	"adventcalendar/internal/security"
	"adventcalendar/internal/service"
	"adventcalendar/internal/validation"

	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"validation", validation.ValidationError{Field: "answer", Message: "Answer is required"}, http.StatusBadRequest, "invalid_answer"},
		{"level not found", service.ErrLevelNotFound, http.StatusNotFound, "level_not_found"},
		{"puzzle not found", fmt.Errorf("open: %w", service.ErrPuzzleNotFound), http.StatusNotFound, "puzzle_not_found"},
		{"no gate", service.ErrNoGate, http.StatusNotFound, "no_gate"},
		{"locked", service.ErrLevelLocked, http.StatusForbidden, "level_locked"},
		{"unavailable", service.ErrPuzzleUnavailable, http.StatusForbidden, "puzzle_unavailable"},
		{"unknown player", service.ErrPlayerNotFound, http.StatusUnauthorized, "unauthorized"},
		{"bad token", security.ErrInvalidToken, http.StatusUnauthorized, "unauthorized"},
		{"no fragment", service.ErrNoFragment, http.StatusBadRequest, "no_fragment"},
		{"not accepted", service.ErrNotAccepted, http.StatusBadRequest, "not_accepted"},
		{"no hint", service.ErrNoHint, http.StatusBadRequest, "no_hint"},
		{"no final code", service.ErrNoFinalCode, http.StatusBadRequest, "no_final_code"},
		{"unexpected", errors.New("disk on fire"), http.StatusInternalServerError, "internal"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, code, _ := classify(tt.err)
			if status != tt.status || code != tt.code {
				t.Errorf("classify(%v) = %d %q, want %d %q", tt.err, status, code, tt.status, tt.code)
			}
		})
	}
}

func TestRespondWithErrorWritesEnvelope(t *testing.T) {
	recorder := httptest.NewRecorder()

	respondWithError(recorder, logger.Nop(), "level failed", service.ErrLevelLocked)

	if recorder.Code != http.StatusForbidden {
		t.Fatalf("expected status 403, got %d", recorder.Code)
	}
	if ct := recorder.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type = %q", ct)
	}

	var env ErrorEnvelope
	if err := json.NewDecoder(recorder.Body).Decode(&env); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if env.Error.Code != "level_locked" || env.Error.Message != "Level is locked" {
		t.Errorf("unexpected envelope %+v", env)
	}
}

func TestRespondWithErrorLogLevels(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	log := logger.FromCore(core)

	recorder := httptest.NewRecorder()
	respondWithError(recorder, log, "submit failed", errors.New("boom"))

	if recorder.Code != http.StatusInternalServerError {
		t.Fatalf("expected status 500, got %d", recorder.Code)
	}
	if body := recorder.Body.String(); strings.Contains(body, "boom") {
		t.Errorf("internal error leaked to client: %s", body)
	}

	entries := logs.FilterMessage("submit failed").All()
	if len(entries) != 1 || entries[0].Level != zapcore.ErrorLevel {
		t.Fatalf("expected one error entry, got %+v", entries)
	}
	if got := entries[0].ContextMap()["error"]; got != "boom" {
		t.Errorf("logged error = %v", got)
	}

	respondWithError(httptest.NewRecorder(), log, "gate failed", service.ErrNoGate)
	entries = logs.FilterMessage("gate failed").All()
	if len(entries) != 1 || entries[0].Level != zapcore.DebugLevel {
		t.Fatalf("expected one debug entry, got %+v", entries)
	}
}
