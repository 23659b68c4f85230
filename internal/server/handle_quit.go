package server

import (
	"log/slog"
	"net/http"
)

func handleQuit(logger *slog.Logger, reg *Registry, broker *Broker) http.HandlerFunc {
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

		sess.Quit()
		if err := reg.Sync(r.Context(), token, sess); err != nil {
			logger.Error("session sync failed", "error", err)
		}
		broker.Publish(token, SSEEvent{Type: "game_over", Status: string(sess.Status)})

		writeJSON(w, http.StatusOK, sessionState(sess))
	}
}
