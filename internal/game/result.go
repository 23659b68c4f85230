package game

import (
	"errors"
	"time"
)

// ErrNotFinished: a result was requested before the game reached a
// terminal status.
var ErrNotFinished = errors.New("game is still in progress")

// Efficiency scoring constants. These are fixed game-balance
// parameters kept for compatibility with existing leaderboards.
const (
	efficiencyScale   = 250
	efficiencyDivisor = 9
)

// Result is the persisted row derived from a finished game.
type Result struct {
	ID         string  `json:"id,omitempty"`
	Name       string  `json:"name"`
	Date       string  `json:"date"`
	Levels     int     `json:"levels"`
	Cities     int     `json:"cities"`
	KMAmount   float64 `json:"km_amount"`
	CO2Amount  float64 `json:"co2_amount"`
	Efficiency float64 `json:"efficiency"`
	Status     Status  `json:"status"`
}

// Result derives the final record for a terminal session. Winners are
// scored against the optimal CO2 of their stages; everyone else by how
// far they got.
func (s *Session) Result(now time.Time) (Result, error) {
	if !s.Terminal() {
		return Result{}, ErrNotFinished
	}

	var efficiency float64
	if s.Status == StatusWin {
		if s.Totals.CO2 > 0 {
			efficiency = efficiencyScale * s.Totals.OptimalCO2 / (efficiencyDivisor * s.Totals.CO2)
		}
	} else {
		efficiency = float64(len(s.Totals.History)) * 100 / efficiencyDivisor
	}

	return Result{
		Name:       s.PlayerName,
		Date:       now.UTC().Format(time.RFC3339),
		Levels:     s.CurrentStage,
		Cities:     len(s.Totals.History),
		KMAmount:   s.Totals.Distance,
		CO2Amount:  s.Totals.CO2,
		Efficiency: efficiency,
		Status:     s.Status,
	}, nil
}
