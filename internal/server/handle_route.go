package server

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/ecotrip/flightgame/internal/game"
	"github.com/ecotrip/flightgame/internal/route"
)

// handleLayoverRoute prices a flight between two airports with the
// requested number of intermediate stops.
func handleLayoverRoute(planner *route.Planner) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		origin := chi.URLParam(r, "origin")
		dest := chi.URLParam(r, "dest")

		stops := 0
		if raw := r.URL.Query().Get("stops"); raw != "" {
			n, err := strconv.Atoi(raw)
			if err != nil || n < 0 {
				writeError(w, http.StatusBadRequest, "stops must be a non-negative integer")
				return
			}
			stops = n
		}

		rt, err := planner.LayoverRoute(origin, dest, stops)
		switch {
		case errors.Is(err, route.ErrUnknownAirport):
			writeError(w, http.StatusNotFound, "unknown airport")
			return
		case errors.Is(err, route.ErrNoRoute):
			writeError(w, http.StatusUnprocessableEntity, "no viable layover route")
			return
		case err != nil:
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}

		writeJSON(w, http.StatusOK, game.RouteCost{
			DistanceKM: rt.DistanceKM,
			CO2Needed:  rt.CO2Needed,
			Route:      rt.Idents(),
		})
	}
}
