package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"adventcalendar/internal/logger"
	"adventcalendar/internal/models"
	"adventcalendar/internal/puzzle"
	"adventcalendar/internal/security"
	"adventcalendar/internal/service"
)

// Game is the level flow the HTTP layer drives
type Game interface {
	CreatePlayer(name string) (*models.Player, error)
	Overview(playerID string) (*service.ProgressView, error)
	Level(playerID string, levelID int) (*service.LevelView, error)
	SubmitGatePassword(playerID, password string) (*service.AttemptResult, error)
	Trap(playerID string) (*service.AttemptResult, error)
	Reset(playerID string) (*service.ProgressView, error)
	StartPuzzle(playerID string, levelID int, puzzleID string) (*service.PuzzleView, error)
	Puzzle(playerID string, levelID int, puzzleID string) (*service.PuzzleView, error)
	Submit(playerID string, levelID int, puzzleID string, in puzzle.Input) (*service.SubmitResult, error)
	SubmitFragment(playerID string, levelID int, puzzleID, token string) (*service.SubmitResult, error)
	RequestHint(playerID string, levelID int, puzzleID string) (*service.HintRequest, error)
	UnlockHint(playerID string, levelID int, puzzleID, code string) (*service.HintResult, error)
	SubmitFinalCode(playerID string, levelID int, code string) (*service.AttemptResult, error)
}

// GameHandler serves the JSON game API
type GameHandler struct {
	game   Game
	tokens *security.TokenIssuer
	csrf   *security.CSRFGenerator
	log    *logger.Logger
}

func NewGameHandler(game Game, tokens *security.TokenIssuer, csrf *security.CSRFGenerator, log *logger.Logger) *GameHandler {
	if log == nil {
		log = logger.Nop()
	}
	return &GameHandler{game: game, tokens: tokens, csrf: csrf, log: log.With("component", "game_handler")}
}

// decodeJSON reads a bounded JSON body. An empty body leaves dst untouched.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil && !errors.Is(err, io.EOF) {
		writeError(w, http.StatusBadRequest, "invalid_json", ErrInvalidJSON)
		return false
	}
	return true
}

func levelIDParam(w http.ResponseWriter, r *http.Request) (int, bool) {
	id, err := strconv.Atoi(r.PathValue("id"))
	if err != nil || id <= 0 {
		writeError(w, http.StatusNotFound, "level_not_found", "Level not found")
		return 0, false
	}
	return id, true
}

// CreateSession registers a new player and sets the player cookie
func (h *GameHandler) CreateSession(w http.ResponseWriter, r *http.Request) {
	var req SessionRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	player, err := h.game.CreatePlayer(req.Name)
	if err != nil {
		respondWithError(w, h.log, "create player failed", err)
		return
	}

	token, expires, err := h.tokens.Issue(player.ID)
	if err != nil {
		respondWithError(w, h.log, "issue player token failed", err)
		return
	}
	csrfToken, err := h.csrf.GenerateToken(player.ID)
	if err != nil {
		respondWithError(w, h.log, "generate csrf token failed", err)
		return
	}

	http.SetCookie(w, security.CreateSessionCookie(r, token, expires))
	respondJSON(w, http.StatusCreated, SessionResponse{PlayerID: player.ID, Name: player.Name, CSRFToken: csrfToken})
}

// Session returns the CSRF token for the current player
func (h *GameHandler) Session(w http.ResponseWriter, r *http.Request) {
	playerID := GetPlayerFromContext(r.Context())
	csrfToken, err := h.csrf.GenerateToken(playerID)
	if err != nil {
		respondWithError(w, h.log, "generate csrf token failed", err)
		return
	}
	respondJSON(w, http.StatusOK, SessionResponse{PlayerID: playerID, CSRFToken: csrfToken})
}

// Levels runs the time gate and lists every level with its status
func (h *GameHandler) Levels(w http.ResponseWriter, r *http.Request) {
	view, err := h.game.Overview(GetPlayerFromContext(r.Context()))
	if err != nil {
		respondWithError(w, h.log, "overview failed", err)
		return
	}
	respondJSON(w, http.StatusOK, view)
}

func (h *GameHandler) Level(w http.ResponseWriter, r *http.Request) {
	levelID, ok := levelIDParam(w, r)
	if !ok {
		return
	}
	view, err := h.game.Level(GetPlayerFromContext(r.Context()), levelID)
	if err != nil {
		respondWithError(w, h.log, "level failed", err)
		return
	}
	respondJSON(w, http.StatusOK, view)
}

func (h *GameHandler) Gate(w http.ResponseWriter, r *http.Request) {
	var req GateRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	res, err := h.game.SubmitGatePassword(GetPlayerFromContext(r.Context()), req.Password)
	if err != nil {
		respondWithError(w, h.log, "gate failed", err)
		return
	}
	respondJSON(w, http.StatusOK, res)
}

func (h *GameHandler) Trap(w http.ResponseWriter, r *http.Request) {
	res, err := h.game.Trap(GetPlayerFromContext(r.Context()))
	if err != nil {
		respondWithError(w, h.log, "trap failed", err)
		return
	}
	respondJSON(w, http.StatusOK, res)
}

func (h *GameHandler) Reset(w http.ResponseWriter, r *http.Request) {
	view, err := h.game.Reset(GetPlayerFromContext(r.Context()))
	if err != nil {
		respondWithError(w, h.log, "reset failed", err)
		return
	}
	respondJSON(w, http.StatusOK, view)
}

func (h *GameHandler) StartPuzzle(w http.ResponseWriter, r *http.Request) {
	levelID, ok := levelIDParam(w, r)
	if !ok {
		return
	}
	view, err := h.game.StartPuzzle(GetPlayerFromContext(r.Context()), levelID, r.PathValue("puzzleID"))
	if err != nil {
		respondWithError(w, h.log, "start puzzle failed", err)
		return
	}
	respondJSON(w, http.StatusOK, view)
}

func (h *GameHandler) Puzzle(w http.ResponseWriter, r *http.Request) {
	levelID, ok := levelIDParam(w, r)
	if !ok {
		return
	}
	view, err := h.game.Puzzle(GetPlayerFromContext(r.Context()), levelID, r.PathValue("puzzleID"))
	if err != nil {
		respondWithError(w, h.log, "puzzle failed", err)
		return
	}
	respondJSON(w, http.StatusOK, view)
}

// Submit feeds kind-specific input to the puzzle. A rejected answer is a
// 200 with accepted=false.
func (h *GameHandler) Submit(w http.ResponseWriter, r *http.Request) {
	levelID, ok := levelIDParam(w, r)
	if !ok {
		return
	}
	var req SubmitRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	res, err := h.game.Submit(GetPlayerFromContext(r.Context()), levelID, r.PathValue("puzzleID"), req)
	if err != nil {
		respondWithError(w, h.log, "submit failed", err)
		return
	}
	respondJSON(w, http.StatusOK, res)
}

func (h *GameHandler) Fragment(w http.ResponseWriter, r *http.Request) {
	levelID, ok := levelIDParam(w, r)
	if !ok {
		return
	}
	var req FragmentRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	res, err := h.game.SubmitFragment(GetPlayerFromContext(r.Context()), levelID, r.PathValue("puzzleID"), req.Token)
	if err != nil {
		respondWithError(w, h.log, "fragment failed", err)
		return
	}
	respondJSON(w, http.StatusOK, res)
}

func (h *GameHandler) RequestHint(w http.ResponseWriter, r *http.Request) {
	levelID, ok := levelIDParam(w, r)
	if !ok {
		return
	}
	res, err := h.game.RequestHint(GetPlayerFromContext(r.Context()), levelID, r.PathValue("puzzleID"))
	if err != nil {
		respondWithError(w, h.log, "hint request failed", err)
		return
	}
	respondJSON(w, http.StatusOK, res)
}

func (h *GameHandler) UnlockHint(w http.ResponseWriter, r *http.Request) {
	levelID, ok := levelIDParam(w, r)
	if !ok {
		return
	}
	var req HintUnlockRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	res, err := h.game.UnlockHint(GetPlayerFromContext(r.Context()), levelID, r.PathValue("puzzleID"), req.Code)
	if err != nil {
		respondWithError(w, h.log, "hint unlock failed", err)
		return
	}
	respondJSON(w, http.StatusOK, res)
}

func (h *GameHandler) FinalCode(w http.ResponseWriter, r *http.Request) {
	levelID, ok := levelIDParam(w, r)
	if !ok {
		return
	}
	var req FinalCodeRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	res, err := h.game.SubmitFinalCode(GetPlayerFromContext(r.Context()), levelID, req.Code)
	if err != nil {
		respondWithError(w, h.log, "final code failed", err)
		return
	}
	respondJSON(w, http.StatusOK, res)
}

// MorseTable serves the alphabet used as the hint table for morse puzzles
func (h *GameHandler) MorseTable(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, MorseTableResponse{Letters: puzzle.MorseTable()})
}
