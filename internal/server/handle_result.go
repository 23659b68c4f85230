package server

import (
	"errors"
	"net/http"
	"time"

	"github.com/ecotrip/flightgame/internal/game"
)

const leaderboardLimit = 50

type ResultResponse struct {
	ID     string      `json:"id"`
	Result game.Result `json:"result"`
}

type LeaderboardResponse struct {
	Results    []LeaderboardRow `json:"results"`
	PlayerRank int              `json:"playerRank,omitempty"`
}

// handleResult persists the final record of a terminal session and
// retires the session.
func handleResult(store Store, reg *Registry) http.HandlerFunc {
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

		res, err := sess.Result(time.Now())
		if errors.Is(err, game.ErrNotFinished) {
			writeError(w, http.StatusConflict, "game is still in progress")
			return
		}
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}

		id, err := store.SaveResult(r.Context(), res)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
		res.ID = id

		// The session is done; drop it and its mirror.
		if err := reg.Remove(r.Context(), token); err != nil {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}

		writeJSON(w, http.StatusOK, ResultResponse{ID: id, Result: res})
	}
}

func handleLeaderboard(store Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		board, err := store.Leaderboard(r.Context(), leaderboardLimit)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
		if board == nil {
			board = []LeaderboardRow{}
		}

		resp := LeaderboardResponse{Results: board}
		if id := r.URL.Query().Get("id"); id != "" {
			rank, err := store.ResultRank(r.Context(), id)
			if err != nil && !errors.Is(err, ErrNotFound) {
				writeError(w, http.StatusInternalServerError, "internal error")
				return
			}
			resp.PlayerRank = rank
		}

		writeJSON(w, http.StatusOK, resp)
	}
}
