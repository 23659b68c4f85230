package game

import (
	"errors"
	"math"
	"testing"
	"time"
)

func nordicStage(number int, budget float64) Stage {
	return Stage{
		Number:         number,
		OrderCountries: []string{"FI", "SE", "NO"},
		Places:         testPlaces(),
		Origin:         "EDDF",
		CO2Budget:      budget,
	}
}

func newTestSession(t *testing.T) *Session {
	t.Helper()
	return NewSession("Maria", 3, nordicStage(1, 100))
}

func mustSubmit(t *testing.T, s *Session, input string) Outcome {
	t.Helper()
	out, err := s.Submit(input, "")
	if err != nil {
		t.Fatalf("submit %q: %v", input, err)
	}
	return out
}

func mustFly(t *testing.T, s *Session, input string, co2 float64) Outcome {
	t.Helper()
	out := mustSubmit(t, s, input)
	if out.Kind != OutcomePendingFlight {
		t.Fatalf("submit %q: kind = %q, want pending_flight", input, out.Kind)
	}
	cost := RouteCost{
		DistanceKM: co2 / 0.15,
		CO2Needed:  co2,
		Route:      []string{out.Flight.Origin, out.Flight.Dest},
	}
	applied, err := s.ApplyFlight(*out.Flight, cost)
	if err != nil {
		t.Fatalf("apply flight %q: %v", input, err)
	}
	return applied
}

// The walkthrough from the design discussion: out-of-order guesses are
// wrong guesses, duplicates are free, an unaffordable route changes
// nothing and offers a replay.
func TestGuessScenario(t *testing.T) {
	s := newTestSession(t)

	// "SE" first: valid target country, wrong position.
	out := mustSubmit(t, s, "SE")
	if out.Kind != OutcomeWrong {
		t.Fatalf("out-of-order: kind = %q, want wrong", out.Kind)
	}
	if s.WrongGuessCount != 1 {
		t.Errorf("wrongGuessCount = %d, want 1", s.WrongGuessCount)
	}
	if s.CO2Available != 100 {
		t.Errorf("co2 = %v, want untouched 100", s.CO2Available)
	}

	// "FI" with a 40 kg route: accepted.
	out = mustFly(t, s, "FI", 40)
	if out.Kind != OutcomeFlight {
		t.Fatalf("first flight: kind = %q", out.Kind)
	}
	if got := s.CO2Available; got != 60 {
		t.Errorf("co2 after flight = %v, want 60", got)
	}
	if len(s.ClueGuesses) != 1 || s.ClueGuesses[0] != "FI" {
		t.Errorf("clueGuesses = %v, want [FI]", s.ClueGuesses)
	}
	if s.Origin != "EFHK" {
		t.Errorf("origin = %q, want EFHK", s.Origin)
	}

	// "FI" again: ignored.
	before := *s
	out = mustSubmit(t, s, "FI")
	if out.Kind != OutcomeDuplicate {
		t.Fatalf("duplicate: kind = %q", out.Kind)
	}
	if s.CO2Available != before.CO2Available || s.Origin != before.Origin ||
		len(s.ClueGuesses) != len(before.ClueGuesses) ||
		s.WrongGuessCount != before.WrongGuessCount {
		t.Error("duplicate guess mutated session state")
	}

	// "NO" skips "SE": rejected.
	out = mustSubmit(t, s, "NO")
	if out.Kind != OutcomeWrong {
		t.Fatalf("skip: kind = %q", out.Kind)
	}

	// "SE" with a 70 kg route against 60 kg available: insufficient.
	out = mustSubmit(t, s, "SE")
	if out.Kind != OutcomePendingFlight {
		t.Fatalf("SE: kind = %q", out.Kind)
	}
	applied, err := s.ApplyFlight(*out.Flight, RouteCost{DistanceKM: 466, CO2Needed: 70, Route: []string{"EFHK", "ESSA"}})
	if err != nil {
		t.Fatal(err)
	}
	if applied.Kind != OutcomeInsufficientCO2 {
		t.Fatalf("kind = %q, want insufficient_co2", applied.Kind)
	}
	if !applied.CanReplay || applied.ReplaysRemaining != 3 {
		t.Errorf("replay offer = %v/%d, want true/3", applied.CanReplay, applied.ReplaysRemaining)
	}
	if s.CO2Available != 60 || len(s.ClueGuesses) != 1 {
		t.Error("insufficient CO2 must not deduct or append")
	}

	// Accepting the replay resets the attempt from a fresh stage.
	fresh := nordicStage(1, 120)
	if err := s.Replay(fresh); err != nil {
		t.Fatal(err)
	}
	if s.ReplayCount != 1 {
		t.Errorf("replayCount = %d, want 1", s.ReplayCount)
	}
	if s.CO2Available != 120 || len(s.ClueGuesses) != 0 || s.Origin != "EDDF" {
		t.Error("replay did not fully reset stage state")
	}
}

func TestClueGuessesPrefixInvariant(t *testing.T) {
	s := newTestSession(t)

	inputs := []string{"NO", "FI", "XX", "SE", "FI", "NO"}
	for _, in := range inputs {
		out, err := s.Submit(in, "")
		if err != nil {
			t.Fatalf("submit %q: %v", in, err)
		}
		if out.Kind == OutcomePendingFlight {
			s.ApplyFlight(*out.Flight, RouteCost{DistanceKM: 100, CO2Needed: 15, Route: []string{out.Flight.Origin, out.Flight.Dest}})
		}

		if len(s.ClueGuesses) > len(s.OrderCountries) {
			t.Fatalf("clueGuesses longer than orderCountries: %v", s.ClueGuesses)
		}
		for i, code := range s.ClueGuesses {
			if code != s.OrderCountries[i] {
				t.Fatalf("clueGuesses %v is not a prefix of %v", s.ClueGuesses, s.OrderCountries)
			}
		}
	}
}

func TestCO2MonotonicWithinAttempt(t *testing.T) {
	s := newTestSession(t)

	last := s.CO2Available
	for _, step := range []struct {
		input string
		co2   float64
	}{{"FI", 30}, {"SE", 20}} {
		mustFly(t, s, step.input, step.co2)
		if s.CO2Available > last {
			t.Fatalf("co2 increased within an attempt: %v -> %v", last, s.CO2Available)
		}
		last = s.CO2Available
	}
}

// After k consecutive wrong guesses the next correct guess carries
// exactly k-1 penalty stops.
func TestPenaltyStopAccumulation(t *testing.T) {
	for k := 1; k <= 2; k++ {
		s := newTestSession(t)
		for i := 0; i < k; i++ {
			out := mustSubmit(t, s, "XX")
			if out.Kind != OutcomeWrong {
				t.Fatalf("k=%d miss %d: kind = %q", k, i+1, out.Kind)
			}
		}
		out := mustSubmit(t, s, "FI")
		if out.Kind != OutcomePendingFlight {
			t.Fatalf("k=%d: kind = %q", k, out.Kind)
		}
		if out.Flight.PenaltyStops != k-1 {
			t.Errorf("k=%d: penaltyStops = %d, want %d", k, out.Flight.PenaltyStops, k-1)
		}
	}
}

func TestFirstWrongGuessIsFree(t *testing.T) {
	s := newTestSession(t)

	out := mustSubmit(t, s, "XX")
	if out.Kind != OutcomeWrong || out.PenaltyStops != 0 {
		t.Errorf("first miss: kind=%q stops=%d, want wrong/0", out.Kind, out.PenaltyStops)
	}

	out = mustSubmit(t, s, "YY")
	if out.PenaltyStops != 1 {
		t.Errorf("second miss: stops = %d, want 1", out.PenaltyStops)
	}
}

func TestHintAfterThreeWrongGuesses(t *testing.T) {
	s := newTestSession(t)

	mustSubmit(t, s, "XX")
	mustSubmit(t, s, "YY")
	out := mustSubmit(t, s, "ZZ")

	if out.Kind != OutcomeHint {
		t.Fatalf("third miss: kind = %q, want hint", out.Kind)
	}
	if out.HintCountry != "FI" || out.HintName != "Finland" {
		t.Errorf("hint = %s/%s, want FI/Finland", out.HintCountry, out.HintName)
	}
	if s.WrongGuessCount != 0 {
		t.Errorf("wrongGuessCount after hint = %d, want 0", s.WrongGuessCount)
	}
	// Hints never touch the replay budget.
	if s.ReplayCount != 0 {
		t.Errorf("replayCount after hint = %d, want 0", s.ReplayCount)
	}

	// The revealed country still has to be guessed, with zero stops.
	out = mustSubmit(t, s, "FI")
	if out.Kind != OutcomePendingFlight || out.Flight.PenaltyStops != 0 {
		t.Errorf("post-hint guess: kind=%q stops=%d", out.Kind, out.Flight.PenaltyStops)
	}
}

func TestInvalidFormatDoesNotCount(t *testing.T) {
	s := newTestSession(t)

	for _, in := range []string{"", "Q", "Atlantis", "123"} {
		out, err := s.Submit(in, "")
		if err != nil {
			t.Fatalf("submit %q: %v", in, err)
		}
		if out.Kind != OutcomeInvalid {
			t.Fatalf("submit %q: kind = %q, want invalid", in, out.Kind)
		}
	}
	if s.WrongGuessCount != 0 {
		t.Errorf("wrongGuessCount = %d, want 0 after format errors", s.WrongGuessCount)
	}
}

func TestReplayBoundAndLose(t *testing.T) {
	s := newTestSession(t)

	expensive := RouteCost{DistanceKM: 10000, CO2Needed: 1500, Route: []string{"EDDF", "EFHK"}}

	for i := 1; i <= MaxReplays; i++ {
		out := mustSubmit(t, s, "FI")
		applied, err := s.ApplyFlight(*out.Flight, expensive)
		if err != nil {
			t.Fatal(err)
		}
		if applied.Kind != OutcomeInsufficientCO2 {
			t.Fatalf("attempt %d: kind = %q", i, applied.Kind)
		}
		if err := s.Replay(nordicStage(1, 100)); err != nil {
			t.Fatalf("replay %d: %v", i, err)
		}
		if s.ReplayCount != i {
			t.Fatalf("replayCount = %d, want %d", s.ReplayCount, i)
		}
	}

	// The fourth insufficient-CO2 event is terminal.
	out := mustSubmit(t, s, "FI")
	applied, err := s.ApplyFlight(*out.Flight, expensive)
	if err != nil {
		t.Fatal(err)
	}
	if applied.Kind != OutcomeLose {
		t.Fatalf("kind = %q, want lose", applied.Kind)
	}
	if s.Status != StatusLose {
		t.Errorf("status = %q, want Lose", s.Status)
	}
	if err := s.Replay(nordicStage(1, 100)); !errors.Is(err, ErrTerminal) {
		t.Errorf("replay after lose: err = %v, want ErrTerminal", err)
	}
}

func TestDeclineReplayLoses(t *testing.T) {
	s := newTestSession(t)
	s.DeclineReplay()
	if s.Status != StatusLose {
		t.Fatalf("status = %q, want Lose", s.Status)
	}
	if _, err := s.Submit("FI", ""); !errors.Is(err, ErrTerminal) {
		t.Errorf("submit after lose: err = %v, want ErrTerminal", err)
	}
}

func TestStageAdvanceAndWin(t *testing.T) {
	s := newTestSession(t)

	finishStage := func(stage int) {
		t.Helper()
		for _, code := range s.OrderCountries {
			out := mustFly(t, s, code, 10)
			switch {
			case s.StageComplete() && stage == 3:
				if out.Kind != OutcomeGameComplete {
					t.Fatalf("stage %d: kind = %q, want game_complete", stage, out.Kind)
				}
			case s.StageComplete():
				if out.Kind != OutcomeStageComplete {
					t.Fatalf("stage %d: kind = %q, want stage_complete", stage, out.Kind)
				}
			default:
				if out.Kind != OutcomeFlight {
					t.Fatalf("stage %d: kind = %q, want flight", stage, out.Kind)
				}
			}
		}
	}

	finishStage(1)
	if err := s.AdvanceStage(nordicStage(2, 90)); err != nil {
		t.Fatal(err)
	}
	if s.CurrentStage != 2 || s.ReplayCount != 0 || s.WrongGuessCount != 0 {
		t.Error("advance did not reset stage counters")
	}

	finishStage(2)
	if err := s.AdvanceStage(nordicStage(3, 80)); err != nil {
		t.Fatal(err)
	}

	finishStage(3)
	if s.Status != StatusWin {
		t.Fatalf("status = %q, want Win", s.Status)
	}
	// 3 stages x 3 flights, totals never reset.
	if len(s.Totals.History) != 9 || s.TotalFlights != 9 {
		t.Errorf("history = %d flights = %d, want 9/9", len(s.Totals.History), s.TotalFlights)
	}
}

func TestAdvanceStageRequiresCompletion(t *testing.T) {
	s := newTestSession(t)
	if err := s.AdvanceStage(nordicStage(2, 90)); !errors.Is(err, ErrStageIncomplete) {
		t.Fatalf("err = %v, want ErrStageIncomplete", err)
	}
}

func TestReplayKeepsTotals(t *testing.T) {
	s := newTestSession(t)
	mustFly(t, s, "FI", 40)

	distance := s.Totals.Distance
	if err := s.Replay(nordicStage(1, 100)); err != nil {
		t.Fatal(err)
	}
	if s.Totals.Distance != distance || len(s.Totals.History) != 1 {
		t.Error("replay must not reset game-wide totals")
	}
}

func TestQuitIsTerminal(t *testing.T) {
	s := newTestSession(t)
	mustFly(t, s, "FI", 40)
	s.Quit()

	if s.Status != StatusQuit {
		t.Fatalf("status = %q, want Quit", s.Status)
	}
	if _, err := s.Submit("SE", ""); !errors.Is(err, ErrTerminal) {
		t.Errorf("submit after quit: err = %v", err)
	}

	// Terminal once set: quit does not downgrade a win.
	w := newTestSession(t)
	w.Status = StatusWin
	w.Quit()
	if w.Status != StatusWin {
		t.Errorf("quit overwrote terminal status: %q", w.Status)
	}
}

func TestBackupRestore(t *testing.T) {
	s := newTestSession(t)
	mustSubmit(t, s, "XX")
	mustFly(t, s, "FI", 40)

	s.RestoreBackup()
	if s.CO2Available != 100 || len(s.ClueGuesses) != 0 || s.Origin != "EDDF" || s.WrongGuessCount != 0 {
		t.Errorf("restore did not rewind attempt state: %+v", s)
	}
	// Totals are game-wide and not part of the snapshot.
	if len(s.Totals.History) != 1 {
		t.Errorf("restore rewound totals: %d", len(s.Totals.History))
	}
}

func TestResultEfficiency(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	s := newTestSession(t)
	if _, err := s.Result(now); !errors.Is(err, ErrNotFinished) {
		t.Fatalf("in-progress result: err = %v", err)
	}

	// Winner: 250 * optimal / (9 * total).
	s.Status = StatusWin
	s.Totals.OptimalCO2 = 900
	s.Totals.CO2 = 500
	s.Totals.Distance = 12000
	s.Totals.History = make([]FlightRecord, 9)
	res, err := s.Result(now)
	if err != nil {
		t.Fatal(err)
	}
	want := 250.0 * 900 / (9 * 500)
	if math.Abs(res.Efficiency-want) > 1e-9 {
		t.Errorf("win efficiency = %v, want %v", res.Efficiency, want)
	}
	if res.Date != "2025-06-01T12:00:00Z" {
		t.Errorf("date = %q", res.Date)
	}

	// Loser: flights * 100 / 9.
	l := newTestSession(t)
	l.Status = StatusLose
	l.Totals.History = make([]FlightRecord, 4)
	res, err = l.Result(now)
	if err != nil {
		t.Fatal(err)
	}
	want = 4.0 * 100 / 9
	if math.Abs(res.Efficiency-want) > 1e-9 {
		t.Errorf("lose efficiency = %v, want %v", res.Efficiency, want)
	}
	if res.Cities != 4 {
		t.Errorf("cities = %d, want 4", res.Cities)
	}
}
