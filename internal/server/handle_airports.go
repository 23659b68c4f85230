package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ecotrip/flightgame/internal/route"
)

func handleAirports(planner *route.Planner) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, planner.Airports())
	}
}

func handleAirportsByCountry(planner *route.Planner) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		code := chi.URLParam(r, "code")
		airports := planner.ByCountry(code)
		if len(airports) == 0 {
			writeError(w, http.StatusNotFound, "no airports for country")
			return
		}
		writeJSON(w, http.StatusOK, airports)
	}
}
