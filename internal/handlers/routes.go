package handlers

import "net/http"

// RegisterRoutes wires the JSON API onto mux
func RegisterRoutes(mux *http.ServeMux, h *GameHandler, m *Middleware, startup *StartupStatus) {
	player := m.RequirePlayer
	mutate := func(next http.HandlerFunc) http.HandlerFunc {
		return m.RequirePlayer(m.CSRFProtect(next))
	}

	mux.HandleFunc("GET /healthz", startup.Healthz)
	mux.HandleFunc("GET /api/morse", h.MorseTable)

	mux.HandleFunc("POST /api/session", m.RateLimit(h.CreateSession))
	mux.HandleFunc("GET /api/session", player(h.Session))

	mux.HandleFunc("GET /api/levels", player(h.Levels))
	mux.HandleFunc("GET /api/levels/{id}", player(h.Level))

	mux.HandleFunc("POST /api/gate", m.RateLimit(mutate(h.Gate)))
	mux.HandleFunc("POST /api/trap", mutate(h.Trap))
	mux.HandleFunc("POST /api/reset", mutate(h.Reset))

	mux.HandleFunc("POST /api/levels/{id}/puzzles/{puzzleID}/start", mutate(h.StartPuzzle))
	mux.HandleFunc("GET /api/levels/{id}/puzzles/{puzzleID}", player(h.Puzzle))
	mux.HandleFunc("POST /api/levels/{id}/puzzles/{puzzleID}/submit", mutate(h.Submit))
	mux.HandleFunc("POST /api/levels/{id}/puzzles/{puzzleID}/fragment", mutate(h.Fragment))
	mux.HandleFunc("POST /api/levels/{id}/puzzles/{puzzleID}/hint/request", mutate(h.RequestHint))
	mux.HandleFunc("POST /api/levels/{id}/puzzles/{puzzleID}/hint", mutate(h.UnlockHint))
	mux.HandleFunc("POST /api/levels/{id}/final", mutate(h.FinalCode))
}
