package game

import (
	"errors"
	"slices"
)

var (
	// ErrTerminal: the session has already reached Win, Lose or Quit.
	ErrTerminal = errors.New("game already finished")
	// ErrReplayExhausted: the stage has been replayed MaxReplays times.
	ErrReplayExhausted = errors.New("no replay attempts left")
	// ErrStageIncomplete: AdvanceStage called before every country of
	// the current stage was guessed.
	ErrStageIncomplete = errors.New("current stage is not complete")
)

// NewSession starts a game at the given stage (normally stage 1).
// finalStage is the stage number that, once completed, wins the game.
func NewSession(playerName string, finalStage int, st Stage) *Session {
	s := &Session{
		PlayerName:  playerName,
		FinalStage:  finalStage,
		StartOrigin: st.Origin,
	}
	s.loadStage(st)
	return s
}

// Terminal reports whether the game has ended.
func (s *Session) Terminal() bool { return s.Status != StatusInProgress }

// StageComplete reports whether every country of the current stage has
// been guessed.
func (s *Session) StageComplete() bool {
	return len(s.OrderCountries) > 0 && len(s.ClueGuesses) == len(s.OrderCountries)
}

// loadStage replaces all stage-scoped fields from a fresh Stage and
// snapshots the attempt start. ReplayCount is deliberately untouched:
// it is reset by AdvanceStage and incremented by Replay.
func (s *Session) loadStage(st Stage) {
	s.CurrentStage = st.Number
	s.OrderCountries = slices.Clone(st.OrderCountries)
	s.Places = make(map[string]Place, len(st.Places))
	for code, p := range st.Places {
		s.Places[code] = p
	}
	s.Origin = st.Origin
	s.ClueGuesses = []string{}
	s.WrongGuessCount = 0
	s.CO2Available = st.CO2Budget
	s.InitialCO2 = st.CO2Budget
	s.TakeBackup()
}

// Submit handles one raw guess (typed text or a map airport click).
// Correct guesses do not mutate anything yet: they return an
// OutcomePendingFlight whose route cost must be fed to ApplyFlight.
func (s *Session) Submit(input, explicitAirport string) (Outcome, error) {
	if s.Terminal() {
		return Outcome{}, ErrTerminal
	}

	v, err := Validate(input, s.Places, explicitAirport)
	switch {
	case errors.Is(err, ErrInvalidFormat):
		return Outcome{Kind: OutcomeInvalid, Guess: input}, nil
	case errors.Is(err, ErrNotTarget):
		return s.recordWrong(input), nil
	case err != nil:
		return Outcome{}, err
	}

	// Duplicate submissions (double map-click, resubmitted text) are
	// ignored without touching any counter.
	if slices.Contains(s.ClueGuesses, v.ISO) {
		return Outcome{Kind: OutcomeDuplicate, Guess: v.ISO}, nil
	}

	// A valid target country in the wrong position is reported exactly
	// like a non-target country.
	if s.StageComplete() || v.ISO != s.OrderCountries[len(s.ClueGuesses)] {
		return s.recordWrong(v.ISO), nil
	}

	stops := s.WrongGuessCount - 1
	if stops < 0 {
		stops = 0
	}
	return Outcome{
		Kind:  OutcomePendingFlight,
		Guess: v.ISO,
		Flight: &PendingFlight{
			Country:      v.ISO,
			Name:         v.Name,
			Origin:       s.Origin,
			Dest:         v.ICAO,
			PenaltyStops: stops,
		},
	}, nil
}

// recordWrong applies the wrong-guess rules: the first miss since the
// last correct guess is a free warning, the third reveals the next
// required country and resets the counter, everything in between
// accrues one penalty stop per miss.
func (s *Session) recordWrong(guess string) Outcome {
	s.WrongGuessCount++
	n := s.WrongGuessCount

	if n >= 3 && !s.StageComplete() {
		hint := s.OrderCountries[len(s.ClueGuesses)]
		s.WrongGuessCount = 0
		return Outcome{
			Kind:        OutcomeHint,
			Guess:       guess,
			HintCountry: hint,
			HintName:    s.Places[hint].Name,
		}
	}

	out := Outcome{Kind: OutcomeWrong, Guess: guess, WrongGuessCount: n}
	if n > 1 {
		out.PenaltyStops = n - 1
	}
	return out
}

// ApplyFlight settles a pending flight against the CO2 budget. An
// unaffordable route mutates nothing unless replays are already
// exhausted, in which case the game is lost. An affordable one deducts
// the cost, advances the origin and updates the game-wide totals.
func (s *Session) ApplyFlight(f PendingFlight, cost RouteCost) (Outcome, error) {
	if s.Terminal() {
		return Outcome{}, ErrTerminal
	}

	if cost.CO2Needed > s.CO2Available {
		out := Outcome{
			Guess:            f.Country,
			CO2Required:      cost.CO2Needed,
			CO2Remaining:     s.CO2Available,
			ReplaysRemaining: MaxReplays - s.ReplayCount,
		}
		if s.ReplayCount >= MaxReplays {
			s.Status = StatusLose
			out.Kind = OutcomeLose
			return out, nil
		}
		out.Kind = OutcomeInsufficientCO2
		out.CanReplay = true
		return out, nil
	}

	s.CO2Available -= cost.CO2Needed
	s.ClueGuesses = append(s.ClueGuesses, f.Country)
	s.Origin = f.Dest
	s.WrongGuessCount = 0
	s.TotalFlights++

	legs := len(cost.Route) - 1
	if legs < 1 {
		legs = 1
	}
	s.Totals.Distance += cost.DistanceKM
	s.Totals.CO2 += cost.CO2Needed
	s.Totals.OptimalCO2 += s.InitialCO2
	s.Totals.Flights += legs
	s.Totals.History = append(s.Totals.History, FlightRecord{
		Route:    slices.Clone(cost.Route),
		Distance: cost.DistanceKM,
		CO2:      cost.CO2Needed,
	})

	out := Outcome{
		Kind:         OutcomeFlight,
		Guess:        f.Country,
		Route:        &cost,
		CO2Remaining: s.CO2Available,
	}

	if s.StageComplete() {
		if s.CurrentStage >= s.FinalStage {
			s.Status = StatusWin
			out.Kind = OutcomeGameComplete
		} else {
			out.Kind = OutcomeStageComplete
		}
	}
	return out, nil
}

// AdvanceStage swaps in the next stage after a StageComplete outcome.
// Replay and wrong-guess counters start over; totals carry on.
func (s *Session) AdvanceStage(st Stage) error {
	if s.Terminal() {
		return ErrTerminal
	}
	if !s.StageComplete() {
		return ErrStageIncomplete
	}
	s.loadStage(st)
	s.ReplayCount = 0
	return nil
}

// Replay restarts the current stage from a freshly generated Stage —
// new clue order and budget, not a restore of the old attempt. Allowed
// at most MaxReplays times per stage.
func (s *Session) Replay(st Stage) error {
	if s.Terminal() {
		return ErrTerminal
	}
	if s.ReplayCount >= MaxReplays {
		return ErrReplayExhausted
	}
	s.ReplayCount++
	s.loadStage(st)
	return nil
}

// DeclineReplay ends the game after an insufficient-CO2 event.
func (s *Session) DeclineReplay() {
	if !s.Terminal() {
		s.Status = StatusLose
	}
}

// Quit ends the game immediately. Available at any time.
func (s *Session) Quit() {
	if !s.Terminal() {
		s.Status = StatusQuit
	}
}

// TakeBackup snapshots the stage-attempt state.
func (s *Session) TakeBackup() {
	s.StageBackup = Backup{
		ClueGuesses:     slices.Clone(s.ClueGuesses),
		Origin:          s.Origin,
		CO2Available:    s.CO2Available,
		WrongGuessCount: s.WrongGuessCount,
	}
}

// RestoreBackup rewinds the in-progress stage to its last snapshot.
// Totals are not rewound; only the attempt-scoped fields are.
func (s *Session) RestoreBackup() {
	s.ClueGuesses = slices.Clone(s.StageBackup.ClueGuesses)
	s.Origin = s.StageBackup.Origin
	s.CO2Available = s.StageBackup.CO2Available
	s.WrongGuessCount = s.StageBackup.WrongGuessCount
}
