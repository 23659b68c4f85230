package server

import (
	"net/http"
	"strings"

	"github.com/ecotrip/flightgame/internal/game"
)

type StartRequest struct {
	PlayerName string `json:"playerName"`
}

type StartResponse struct {
	Token string       `json:"token"`
	State SessionState `json:"state"`
}

func handleStart(reg *Registry, stages *stageSource, startOrigin string, finalStage, countries int) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req StartRequest
		if err := readJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		req.PlayerName = strings.TrimSpace(req.PlayerName)
		if req.PlayerName == "" {
			writeError(w, http.StatusBadRequest, "playerName is required")
			return
		}

		st, err := stages.Build(1, startOrigin, countries)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}

		sess := game.NewSession(req.PlayerName, finalStage, st)
		token, err := reg.Create(r.Context(), sess)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}

		writeJSON(w, http.StatusOK, StartResponse{
			Token: token,
			State: sessionState(sess),
		})
	}
}
