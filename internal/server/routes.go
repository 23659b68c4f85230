package server

import (
	"os"

	"github.com/go-chi/chi/v5"
	"github.com/swaggest/swgui/v5emb"
)

func addRoutes(r chi.Router, d Deps) {
	broker := NewBroker()
	stages := newStageSource(d.Builder)

	r.Get("/openapi.json", handleOpenAPI())
	r.Mount("/docs", v5emb.New("EcoTrip Flight Game API", "/openapi.json", "/docs"))
	r.Get("/healthz", handleHealth(d.Logger, d.DB))

	r.Route("/api", func(r chi.Router) {
		r.Route("/game", func(r chi.Router) {
			r.Post("/start", handleStart(d.Registry, stages, d.StartOrigin, d.FinalStage, d.CountriesPerStage))
			r.Get("/state", handleState(d.Registry))
			r.Post("/guess", handleGuess(d.Logger, d.Registry, broker, d.Planner, stages, d.CountriesPerStage))
			r.Post("/replay", handleReplay(d.Logger, d.Registry, broker, stages, d.CountriesPerStage))
			r.Post("/quit", handleQuit(d.Logger, d.Registry, broker))
			r.Post("/result", handleResult(d.Store, d.Registry))
			r.Get("/events", handleEvents(d.Registry, broker))
		})

		r.Get("/leaderboard", handleLeaderboard(d.Store))
		r.Get("/airports", handleAirports(d.Planner))
		r.Get("/airports/country/{code}", handleAirportsByCountry(d.Planner))
		r.Get("/layover_route/{origin}/{dest}", handleLayoverRoute(d.Planner))
		r.Get("/weather/{ident}", handleWeather(d.Logger, d.Planner, d.Weather))

		r.Post("/admin/results/reset", handleAdminResetResults(d.Logger, d.Store, d.AdminPasswordHash))
	})

	if d.SPADir != "" {
		if info, err := os.Stat(d.SPADir); err == nil && info.IsDir() {
			d.Logger.Info("serving SPA", "dir", d.SPADir)
			r.NotFound(handleSPA(d.SPADir))
		}
	}
}
