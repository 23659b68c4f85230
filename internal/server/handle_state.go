package server

import (
	"net/http"

	"github.com/ecotrip/flightgame/internal/game"
)

// SessionState is the read-only view of a session the client renders
// from. Stage-scoped fields keep the snake_case names of the stage
// payload; session bookkeeping is camelCase.
type SessionState struct {
	PlayerName       string                `json:"playerName"`
	CurrentStage     int                   `json:"current_stage"`
	FinalStage       int                   `json:"finalStage"`
	OrderCountries   []string              `json:"order_countries"`
	Places           map[string]game.Place `json:"places"`
	Origin           string                `json:"origin"`
	CO2Available     float64               `json:"co2_available"`
	ClueGuesses      []string              `json:"clueGuesses"`
	WrongGuessCount  int                   `json:"wrongGuessCount"`
	ReplaysRemaining int                   `json:"replaysRemaining"`
	Totals           game.Totals           `json:"totals"`
	Status           string                `json:"gameStatus"`
}

func sessionState(s *game.Session) SessionState {
	return SessionState{
		PlayerName:       s.PlayerName,
		CurrentStage:     s.CurrentStage,
		FinalStage:       s.FinalStage,
		OrderCountries:   s.OrderCountries,
		Places:           s.Places,
		Origin:           s.Origin,
		CO2Available:     s.CO2Available,
		ClueGuesses:      s.ClueGuesses,
		WrongGuessCount:  s.WrongGuessCount,
		ReplaysRemaining: game.MaxReplays - s.ReplayCount,
		Totals:           s.Totals,
		Status:           string(s.Status),
	}
}

func handleState(reg *Registry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token, ok := bearerToken(r)
		if !ok {
			writeError(w, http.StatusUnauthorized, "invalid or missing session token")
			return
		}

		sess, release, err := reg.Acquire(token)
		if err != nil {
			writeError(w, http.StatusUnauthorized, "invalid session token")
			return
		}
		defer release()

		writeJSON(w, http.StatusOK, sessionState(sess))
	}
}
