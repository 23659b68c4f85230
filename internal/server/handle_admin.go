package server

import (
	"log/slog"
	"net/http"

	"golang.org/x/crypto/bcrypt"
)

type AdminResetRequest struct {
	Password string `json:"password"`
}

// handleAdminResetResults clears the leaderboard. Guarded by the bcrypt
// hash from config; the endpoint is disabled when no hash is set.
func handleAdminResetResults(logger *slog.Logger, store Store, passwordHash string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if passwordHash == "" {
			writeError(w, http.StatusServiceUnavailable, "admin access not configured")
			return
		}

		var req AdminResetRequest
		if err := readJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		if req.Password == "" {
			writeError(w, http.StatusBadRequest, "password is required")
			return
		}

		if err := bcrypt.CompareHashAndPassword([]byte(passwordHash), []byte(req.Password)); err != nil {
			writeError(w, http.StatusUnauthorized, "invalid credentials")
			return
		}

		if err := store.ResetResults(r.Context()); err != nil {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}

		logger.Info("leaderboard reset")
		writeJSON(w, http.StatusOK, map[string]string{"status": "reset"})
	}
}
