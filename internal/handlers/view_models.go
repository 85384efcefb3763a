package handlers

import "adventcalendar/internal/puzzle"

type SessionRequest struct {
	Name string `json:"name"`
}

type SessionResponse struct {
	PlayerID  string `json:"player_id"`
	Name      string `json:"name"`
	CSRFToken string `json:"csrf_token"`
}

type GateRequest struct {
	Password string `json:"password"`
}

type FragmentRequest struct {
	Token string `json:"token"`
}

type HintUnlockRequest struct {
	Code string `json:"code"`
}

type FinalCodeRequest struct {
	Code string `json:"code"`
}

// SubmitRequest is the kind-specific puzzle input
type SubmitRequest = puzzle.Input

type MorseTableResponse struct {
	Letters []puzzle.MorseEntry `json:"letters"`
}
