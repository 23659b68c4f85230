package server

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/ecotrip/flightgame/internal/game"
	"github.com/ecotrip/flightgame/internal/route"
)

type GuessRequest struct {
	Guess   string `json:"guess"`
	Airport string `json:"airport,omitempty"`
}

type GuessResponse struct {
	Outcome string `json:"outcome"`
	Guess   string `json:"guess,omitempty"`
	Message string `json:"message,omitempty"`

	// Wrong-guess bookkeeping.
	WrongGuessCount int    `json:"wrongGuessCount,omitempty"`
	PenaltyStops    int    `json:"penaltyStops,omitempty"`
	HintCountry     string `json:"hintCountry,omitempty"`
	HintName        string `json:"hintName,omitempty"`
	Suggestion      string `json:"suggestion,omitempty"`

	// Flight settlement.
	Route            *game.RouteCost `json:"route,omitempty"`
	CO2Remaining     float64         `json:"co2Remaining,omitempty"`
	CO2Required      float64         `json:"co2Required,omitempty"`
	CanReplay        bool            `json:"canReplay,omitempty"`
	ReplaysRemaining int             `json:"replaysRemaining,omitempty"`

	State SessionState `json:"state"`
}

func handleGuess(logger *slog.Logger, reg *Registry, broker *Broker, planner *route.Planner, stages *stageSource, countries int) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token, ok := bearerToken(r)
		if !ok {
			writeError(w, http.StatusUnauthorized, "invalid or missing session token")
			return
		}

		var req GuessRequest
		if err := readJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		req.Guess = strings.TrimSpace(req.Guess)
		if req.Guess == "" {
			writeError(w, http.StatusBadRequest, "guess is required")
			return
		}

		sess, release, err := reg.Acquire(token)
		if err != nil {
			writeError(w, http.StatusUnauthorized, "invalid session token")
			return
		}
		defer release()

		out, err := sess.Submit(req.Guess, req.Airport)
		if errors.Is(err, game.ErrTerminal) {
			writeError(w, http.StatusConflict, "game already finished")
			return
		}
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}

		resp := GuessResponse{Outcome: string(out.Kind), Guess: out.Guess}

		switch out.Kind {
		case game.OutcomeInvalid:
			resp.Message = "not a country code or a known country name"
			if s, ok := game.ClosestPlaceName(req.Guess, sess.Places); ok {
				resp.Suggestion = s
			}

		case game.OutcomeWrong:
			resp.WrongGuessCount = out.WrongGuessCount
			resp.PenaltyStops = out.PenaltyStops
			broker.Publish(token, SSEEvent{Type: "wrong_guess", Stage: sess.CurrentStage, Country: out.Guess})

		case game.OutcomeHint:
			resp.HintCountry = out.HintCountry
			resp.HintName = out.HintName
			broker.Publish(token, SSEEvent{Type: "hint", Stage: sess.CurrentStage, Country: out.HintCountry})

		case game.OutcomeDuplicate:
			resp.Message = "country already guessed this stage"

		case game.OutcomePendingFlight:
			settled, status := settleFlight(logger, sess, *out.Flight, planner, stages, countries)
			if status != http.StatusOK {
				writeError(w, status, "route computation failed")
				return
			}
			resp = settled
			broker.Publish(token, SSEEvent{
				Type:         resp.Outcome,
				Stage:        sess.CurrentStage,
				Country:      resp.Guess,
				CO2Remaining: sess.CO2Available,
				Status:       string(sess.Status),
			})
		}

		// Wrong guesses and hints mutate counters; flights mutate far
		// more. Mirror everything after any successful transition.
		if out.Kind != game.OutcomeInvalid && out.Kind != game.OutcomeDuplicate {
			if err := reg.Sync(r.Context(), token, sess); err != nil {
				logger.Error("session sync failed", "error", err)
			}
		}

		resp.State = sessionState(sess)
		writeJSON(w, http.StatusOK, resp)
	}
}

// settleFlight prices the pending flight and applies it. When the
// flight would finish a non-final stage the next stage is generated
// first, so a builder failure leaves the session untouched.
func settleFlight(logger *slog.Logger, sess *game.Session, f game.PendingFlight, planner *route.Planner, stages *stageSource, countries int) (GuessResponse, int) {
	rt, err := planner.LayoverRoute(f.Origin, f.Dest, f.PenaltyStops)
	if err != nil {
		logger.Error("layover route failed", "origin", f.Origin, "dest", f.Dest, "stops", f.PenaltyStops, "error", err)
		return GuessResponse{}, http.StatusBadGateway
	}
	cost := game.RouteCost{
		DistanceKM: rt.DistanceKM,
		CO2Needed:  rt.CO2Needed,
		Route:      rt.Idents(),
	}

	var next game.Stage
	completing := len(sess.ClueGuesses)+1 == len(sess.OrderCountries) &&
		sess.CurrentStage < sess.FinalStage &&
		cost.CO2Needed <= sess.CO2Available
	if completing {
		next, err = stages.Build(sess.CurrentStage+1, f.Dest, countries)
		if err != nil {
			logger.Error("stage generation failed", "stage", sess.CurrentStage+1, "error", err)
			return GuessResponse{}, http.StatusInternalServerError
		}
	}

	out, err := sess.ApplyFlight(f, cost)
	if err != nil {
		return GuessResponse{}, http.StatusConflict
	}

	resp := GuessResponse{Outcome: string(out.Kind), Guess: f.Country}
	switch out.Kind {
	case game.OutcomeInsufficientCO2, game.OutcomeLose:
		resp.CO2Required = out.CO2Required
		resp.CO2Remaining = out.CO2Remaining
		resp.CanReplay = out.CanReplay
		resp.ReplaysRemaining = out.ReplaysRemaining

	case game.OutcomeFlight, game.OutcomeGameComplete:
		resp.Route = out.Route
		resp.CO2Remaining = out.CO2Remaining

	case game.OutcomeStageComplete:
		resp.Route = out.Route
		resp.CO2Remaining = out.CO2Remaining
		if err := sess.AdvanceStage(next); err != nil {
			return GuessResponse{}, http.StatusInternalServerError
		}
	}
	return resp, http.StatusOK
}
