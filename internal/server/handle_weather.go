package server

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ecotrip/flightgame/internal/route"
	"github.com/ecotrip/flightgame/internal/weather"
)

// handleWeather is decorative enrichment for the map view. Failures
// here never affect game state.
func handleWeather(logger *slog.Logger, planner *route.Planner, wc *weather.Client) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		a, ok := planner.Find(chi.URLParam(r, "ident"))
		if !ok {
			writeError(w, http.StatusNotFound, "unknown airport")
			return
		}

		rep, err := wc.Current(r.Context(), a.Lat, a.Lng)
		if err != nil {
			logger.Warn("weather lookup failed", "ident", a.Ident, "error", err)
			writeError(w, http.StatusBadGateway, "weather service unavailable")
			return
		}

		writeJSON(w, http.StatusOK, rep)
	}
}
