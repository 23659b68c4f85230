package server

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/ecotrip/flightgame/internal/game"
)

type ReplayRequest struct {
	Accept bool `json:"accept"`
}

type ReplayResponse struct {
	Accepted         bool         `json:"accepted"`
	ReplaysRemaining int          `json:"replaysRemaining"`
	State            SessionState `json:"state"`
}

func handleReplay(logger *slog.Logger, reg *Registry, broker *Broker, stages *stageSource, countries int) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token, ok := bearerToken(r)
		if !ok {
			writeError(w, http.StatusUnauthorized, "invalid or missing session token")
			return
		}

		var req ReplayRequest
		if err := readJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		sess, release, err := reg.Acquire(token)
		if err != nil {
			writeError(w, http.StatusUnauthorized, "invalid session token")
			return
		}
		defer release()

		if !req.Accept {
			sess.DeclineReplay()
			if err := reg.Sync(r.Context(), token, sess); err != nil {
				logger.Error("session sync failed", "error", err)
			}
			broker.Publish(token, SSEEvent{Type: "game_over", Status: string(sess.Status)})
			writeJSON(w, http.StatusOK, ReplayResponse{State: sessionState(sess)})
			return
		}

		// The replayed attempt starts where the current one did, with a
		// freshly generated set of countries and budget.
		st, err := stages.Build(sess.CurrentStage, sess.StageBackup.Origin, countries)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}

		switch err := sess.Replay(st); {
		case errors.Is(err, game.ErrTerminal):
			writeError(w, http.StatusConflict, "game already finished")
			return
		case errors.Is(err, game.ErrReplayExhausted):
			writeError(w, http.StatusConflict, "no replay attempts left")
			return
		case err != nil:
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}

		if err := reg.Sync(r.Context(), token, sess); err != nil {
			logger.Error("session sync failed", "error", err)
		}
		broker.Publish(token, SSEEvent{Type: "replay", Stage: sess.CurrentStage})

		writeJSON(w, http.StatusOK, ReplayResponse{
			Accepted:         true,
			ReplaysRemaining: game.MaxReplays - sess.ReplayCount,
			State:            sessionState(sess),
		})
	}
}
