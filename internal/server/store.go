package server

import (
	"context"
	"errors"

	"github.com/ecotrip/flightgame/internal/game"
	"github.com/ecotrip/flightgame/internal/route"
)

var ErrNotFound = errors.New("not found")

// LeaderboardRow is one ranked entry of the results table.
type LeaderboardRow struct {
	ID         string  `json:"id"`
	Rank       int     `json:"rank"`
	Name       string  `json:"name"`
	Date       string  `json:"date"`
	Levels     int     `json:"levels"`
	Cities     int     `json:"cities"`
	KMAmount   float64 `json:"km_amount"`
	CO2Amount  float64 `json:"co2_amount"`
	Efficiency float64 `json:"efficiency"`
	Status     string  `json:"status"`
}

type Store interface {
	Airports(ctx context.Context) ([]route.Airport, error)
	CountryClues(ctx context.Context) ([]route.CountryClue, error)

	SaveSession(ctx context.Context, token string, sess *game.Session) error
	LoadSessions(ctx context.Context) (map[string]*game.Session, error)
	DeleteSession(ctx context.Context, token string) error

	SaveResult(ctx context.Context, res game.Result) (string, error)
	Leaderboard(ctx context.Context, limit int) ([]LeaderboardRow, error)
	ResultRank(ctx context.Context, id string) (int, error)
	ResetResults(ctx context.Context) error
}
