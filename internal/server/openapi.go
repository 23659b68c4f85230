package server

import (
	"encoding/json"
	"net/http"

	openapi "github.com/swaggest/openapi-go"
	"github.com/swaggest/openapi-go/openapi3"

	"github.com/ecotrip/flightgame/internal/game"
	"github.com/ecotrip/flightgame/internal/route"
	"github.com/ecotrip/flightgame/internal/weather"
)

// ErrorResponse is returned for all error responses.
type ErrorResponse struct {
	Error string `json:"error"`
}

func newOpenAPISpec() *openapi3.Spec {
	r := openapi3.NewReflector()
	r.Spec.Info.Title = "EcoTrip Flight Game API"
	r.Spec.Info.Version = "0.1.0"
	r.Spec.Info.WithDescription("Backend API for the EcoTrip flight guessing game.")

	// GET /healthz
	getHealthz, _ := r.NewOperationContext(http.MethodGet, "/healthz")
	getHealthz.SetSummary("Health check")
	getHealthz.SetDescription("Returns the health status of backend dependencies.")
	getHealthz.AddRespStructure(map[string]struct {
		Status string `json:"status"`
	}{}, openapi.WithHTTPStatus(http.StatusOK))
	_ = r.AddOperation(getHealthz)

	// POST /api/game/start
	postStart, _ := r.NewOperationContext(http.MethodPost, "/api/game/start")
	postStart.SetSummary("Start a game")
	postStart.SetDescription("Creates a new session with a generated first stage. Returns the session token.")
	postStart.AddReqStructure(StartRequest{})
	postStart.AddRespStructure(StartResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	postStart.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusBadRequest))
	_ = r.AddOperation(postStart)

	// GET /api/game/state
	getState, _ := r.NewOperationContext(http.MethodGet, "/api/game/state")
	getState.SetSummary("Get session state")
	getState.SetDescription("Returns the read-only session view. Requires Bearer token.")
	getState.AddRespStructure(SessionState{}, openapi.WithHTTPStatus(http.StatusOK))
	getState.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusUnauthorized))
	_ = r.AddOperation(getState)

	// POST /api/game/guess
	postGuess, _ := r.NewOperationContext(http.MethodPost, "/api/game/guess")
	postGuess.SetSummary("Submit a guess")
	postGuess.SetDescription("Submits a country guess (typed text or a map airport click). Requires Bearer token.")
	postGuess.AddReqStructure(GuessRequest{})
	postGuess.AddRespStructure(GuessResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	postGuess.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusUnauthorized))
	postGuess.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusConflict))
	_ = r.AddOperation(postGuess)

	// POST /api/game/replay
	postReplay, _ := r.NewOperationContext(http.MethodPost, "/api/game/replay")
	postReplay.SetSummary("Accept or decline a stage replay")
	postReplay.SetDescription("After running out of CO2, restarts the stage with fresh countries or ends the game.")
	postReplay.AddReqStructure(ReplayRequest{})
	postReplay.AddRespStructure(ReplayResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	postReplay.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusConflict))
	_ = r.AddOperation(postReplay)

	// POST /api/game/quit
	postQuit, _ := r.NewOperationContext(http.MethodPost, "/api/game/quit")
	postQuit.SetSummary("Quit the game")
	postQuit.SetDescription("Ends the session immediately. Requires Bearer token.")
	postQuit.AddRespStructure(SessionState{}, openapi.WithHTTPStatus(http.StatusOK))
	postQuit.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusUnauthorized))
	_ = r.AddOperation(postQuit)

	// POST /api/game/result
	postResult, _ := r.NewOperationContext(http.MethodPost, "/api/game/result")
	postResult.SetSummary("Persist the final result")
	postResult.SetDescription("Stores the result row of a finished game and retires the session.")
	postResult.AddRespStructure(ResultResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	postResult.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusConflict))
	_ = r.AddOperation(postResult)

	// GET /api/game/events
	getEvents, _ := r.NewOperationContext(http.MethodGet, "/api/game/events")
	getEvents.SetSummary("SSE event stream")
	getEvents.SetDescription("Server-Sent Events stream of game events. Pass the session token as a query parameter.")
	getEvents.AddRespStructure(nil, openapi.WithHTTPStatus(http.StatusOK),
		openapi.WithContentType("text/event-stream"))
	_ = r.AddOperation(getEvents)

	// GET /api/leaderboard
	getBoard, _ := r.NewOperationContext(http.MethodGet, "/api/leaderboard")
	getBoard.SetSummary("Leaderboard")
	getBoard.SetDescription("Ranked results by efficiency. Pass id to include that result's rank.")
	getBoard.AddRespStructure(LeaderboardResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	_ = r.AddOperation(getBoard)

	// GET /api/airports
	getAirports, _ := r.NewOperationContext(http.MethodGet, "/api/airports")
	getAirports.SetSummary("List airports")
	getAirports.AddRespStructure([]route.Airport{}, openapi.WithHTTPStatus(http.StatusOK))
	_ = r.AddOperation(getAirports)

	// GET /api/airports/country/{code}
	getByCountry, _ := r.NewOperationContext(http.MethodGet, "/api/airports/country/{code}")
	getByCountry.SetSummary("Airports by country")
	getByCountry.AddRespStructure([]route.Airport{}, openapi.WithHTTPStatus(http.StatusOK))
	getByCountry.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusNotFound))
	_ = r.AddOperation(getByCountry)

	// GET /api/layover_route/{origin}/{dest}
	getRoute, _ := r.NewOperationContext(http.MethodGet, "/api/layover_route/{origin}/{dest}")
	getRoute.SetSummary("Price a layover route")
	getRoute.SetDescription("Computes the cheapest route with the requested stop count and its CO2 cost.")
	getRoute.AddRespStructure(game.RouteCost{}, openapi.WithHTTPStatus(http.StatusOK))
	getRoute.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusNotFound))
	getRoute.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusUnprocessableEntity))
	_ = r.AddOperation(getRoute)

	// GET /api/weather/{ident}
	getWeather, _ := r.NewOperationContext(http.MethodGet, "/api/weather/{ident}")
	getWeather.SetSummary("Current weather at an airport")
	getWeather.AddRespStructure(weather.Report{}, openapi.WithHTTPStatus(http.StatusOK))
	getWeather.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusNotFound))
	getWeather.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusBadGateway))
	_ = r.AddOperation(getWeather)

	// POST /api/admin/results/reset
	postReset, _ := r.NewOperationContext(http.MethodPost, "/api/admin/results/reset")
	postReset.SetSummary("Reset the leaderboard")
	postReset.SetDescription("Clears all stored results. Password protected.")
	postReset.AddReqStructure(AdminResetRequest{})
	postReset.AddRespStructure(nil, openapi.WithHTTPStatus(http.StatusOK))
	postReset.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusUnauthorized))
	_ = r.AddOperation(postReset)

	return r.Spec
}

func handleOpenAPI() http.HandlerFunc {
	spec := newOpenAPISpec()
	data, _ := json.MarshalIndent(spec, "", "  ")

	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(data)
	}
}
