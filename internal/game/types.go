// Package game implements the per-stage guessing session: guess
// validation, wrong-guess penalties, CO2 accounting, replay bookkeeping
// and completion detection. The package performs no I/O — route costs
// and fresh stages are supplied by the caller, so every transition is
// a plain function over the session value.
package game

// Place describes one target country of a stage.
type Place struct {
	Name string `json:"name"`
	Clue string `json:"clue"`
	ICAO string `json:"icao"`
}

// Stage is the immutable input a session attempt starts from. The JSON
// shape matches the wire format the client consumes.
type Stage struct {
	Number         int              `json:"current_stage"`
	OrderCountries []string         `json:"order_countries"`
	Places         map[string]Place `json:"places"`
	Origin         string           `json:"origin"`
	CO2Budget      float64          `json:"co2_available"`
}

// Status is the terminal state of a game. The zero value means the
// game is still in progress.
type Status string

const (
	StatusInProgress Status = ""
	StatusWin        Status = "Win"
	StatusLose       Status = "Lose"
	StatusQuit       Status = "Quit"
)

// MaxReplays bounds how many times a single stage may be replayed
// after running out of CO2.
const MaxReplays = 3

// FlightRecord is one completed flight in the game-wide history.
type FlightRecord struct {
	Route    []string `json:"route"`
	Distance float64  `json:"distance"`
	CO2      float64  `json:"co2"`
}

// Totals accumulate across the whole game and survive stage replays.
type Totals struct {
	Distance   float64        `json:"total_distance"`
	CO2        float64        `json:"total_co2"`
	OptimalCO2 float64        `json:"optimal_co2"`
	Flights    int            `json:"total_flights"`
	History    []FlightRecord `json:"flight_history"`
}

// Backup is the stage-start snapshot used to restore an attempt.
type Backup struct {
	ClueGuesses     []string `json:"clueGuesses"`
	Origin          string   `json:"origin"`
	CO2Available    float64  `json:"co2Available"`
	WrongGuessCount int      `json:"wrongGuessCount"`
}

// Session is the full mutable game state for one player. It is owned
// by a single goroutine at a time; callers serialize access.
type Session struct {
	PlayerName      string           `json:"playerName"`
	FinalStage      int              `json:"finalStage"`
	CurrentStage    int              `json:"currentStage"`
	OrderCountries  []string         `json:"orderCountries"`
	Places          map[string]Place `json:"places"`
	Origin          string           `json:"origin"`
	StartOrigin     string           `json:"startOrigin"`
	ClueGuesses     []string         `json:"clueGuesses"`
	WrongGuessCount int              `json:"wrongGuessCount"`
	CO2Available    float64          `json:"co2Available"`
	InitialCO2      float64          `json:"initialCo2"`
	ReplayCount     int              `json:"replayCount"`
	TotalFlights    int              `json:"totalFlights"`
	Totals          Totals           `json:"totals"`
	Status          Status           `json:"gameStatus"`
	StageBackup     Backup           `json:"stageBackup"`
}

// PendingFlight is the route request a correct guess produces. Nothing
// has been deducted yet: the caller fetches the route cost and feeds it
// back through ApplyFlight.
type PendingFlight struct {
	Country      string `json:"country"`
	Name         string `json:"name"`
	Origin       string `json:"origin"`
	Dest         string `json:"dest"`
	PenaltyStops int    `json:"penaltyStops"`
}

// RouteCost is the answer to a PendingFlight: the computed layover
// route and its cost.
type RouteCost struct {
	DistanceKM float64  `json:"distance_km"`
	CO2Needed  float64  `json:"co2_needed"`
	Route      []string `json:"layover_route"`
}

// OutcomeKind labels what a transition produced.
type OutcomeKind string

const (
	// OutcomeInvalid: the guess was empty or matched neither a country
	// code nor a known place name. No state change.
	OutcomeInvalid OutcomeKind = "invalid"
	// OutcomeWrong: not a target country (or not the next one in the
	// required order). Wrong-guess counter incremented.
	OutcomeWrong OutcomeKind = "wrong"
	// OutcomeHint: third consecutive wrong guess; the next required
	// country is revealed and the counter resets.
	OutcomeHint OutcomeKind = "hint"
	// OutcomeDuplicate: the country was already guessed this stage.
	// No state change.
	OutcomeDuplicate OutcomeKind = "duplicate"
	// OutcomePendingFlight: correct guess; caller must fetch the route
	// cost and call ApplyFlight.
	OutcomePendingFlight OutcomeKind = "pending_flight"
	// OutcomeFlight: flight applied, stage continues.
	OutcomeFlight OutcomeKind = "flight"
	// OutcomeInsufficientCO2: the route costs more than the remaining
	// budget; a replay may be requested. No state change.
	OutcomeInsufficientCO2 OutcomeKind = "insufficient_co2"
	// OutcomeLose: insufficient CO2 with replays exhausted. Terminal.
	OutcomeLose OutcomeKind = "lose"
	// OutcomeStageComplete: all countries of a non-final stage guessed.
	OutcomeStageComplete OutcomeKind = "stage_complete"
	// OutcomeGameComplete: final stage finished. Terminal Win.
	OutcomeGameComplete OutcomeKind = "game_complete"
)

// Outcome is the result of a single transition. Only the fields
// relevant to Kind are populated.
type Outcome struct {
	Kind OutcomeKind

	Guess           string
	WrongGuessCount int
	PenaltyStops    int

	HintCountry string
	HintName    string

	Flight *PendingFlight
	Route  *RouteCost

	CO2Remaining     float64
	CO2Required      float64
	CanReplay        bool
	ReplaysRemaining int
}
