package server

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/ecotrip/flightgame/internal/game"
	"github.com/ecotrip/flightgame/internal/route"
)

type SQLiteStore struct {
	db *sql.DB
}

func NewSQLiteStore(db *sql.DB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

func (s *SQLiteStore) Airports(ctx context.Context) ([]route.Airport, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT ident, name, city, iso_country, lat, lng
		FROM airports
		ORDER BY ident
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var airports []route.Airport
	for rows.Next() {
		var a route.Airport
		if err := rows.Scan(&a.Ident, &a.Name, &a.City, &a.Country, &a.Lat, &a.Lng); err != nil {
			return nil, err
		}
		airports = append(airports, a)
	}
	return airports, rows.Err()
}

func (s *SQLiteStore) CountryClues(ctx context.Context) ([]route.CountryClue, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT iso, name, clue FROM countries ORDER BY iso
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var clues []route.CountryClue
	for rows.Next() {
		var c route.CountryClue
		if err := rows.Scan(&c.ISO, &c.Name, &c.Clue); err != nil {
			return nil, err
		}
		clues = append(clues, c)
	}
	return clues, rows.Err()
}

func (s *SQLiteStore) SaveSession(ctx context.Context, token string, sess *game.Session) error {
	state, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("encoding session: %w", err)
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO sessions (token, player_name, state)
		VALUES (?, ?, ?)
		ON CONFLICT (token) DO UPDATE SET
			state = excluded.state,
			updated_at = strftime('%Y-%m-%dT%H:%M:%fZ', 'now')
	`, token, sess.PlayerName, string(state))
	return err
}

func (s *SQLiteStore) LoadSessions(ctx context.Context) (map[string]*game.Session, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT token, state FROM sessions`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	sessions := make(map[string]*game.Session)
	for rows.Next() {
		var token, state string
		if err := rows.Scan(&token, &state); err != nil {
			return nil, err
		}
		var sess game.Session
		if err := json.Unmarshal([]byte(state), &sess); err != nil {
			return nil, fmt.Errorf("decoding session %s: %w", token, err)
		}
		sessions[token] = &sess
	}
	return sessions, rows.Err()
}

func (s *SQLiteStore) DeleteSession(ctx context.Context, token string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM sessions WHERE token = ?`, token)
	return err
}

func (s *SQLiteStore) SaveResult(ctx context.Context, res game.Result) (string, error) {
	var id string
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO results (name, date, levels, cities, km_amount, co2_amount, efficiency, status)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		RETURNING id
	`, res.Name, res.Date, res.Levels, res.Cities, res.KMAmount, res.CO2Amount,
		res.Efficiency, string(res.Status)).Scan(&id)
	return id, err
}

func (s *SQLiteStore) Leaderboard(ctx context.Context, limit int) ([]LeaderboardRow, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, date, levels, cities, km_amount, co2_amount, efficiency, status
		FROM results
		ORDER BY efficiency DESC, created_at
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var board []LeaderboardRow
	for rows.Next() {
		var r LeaderboardRow
		if err := rows.Scan(&r.ID, &r.Name, &r.Date, &r.Levels, &r.Cities,
			&r.KMAmount, &r.CO2Amount, &r.Efficiency, &r.Status); err != nil {
			return nil, err
		}
		r.Rank = len(board) + 1
		board = append(board, r)
	}
	return board, rows.Err()
}

func (s *SQLiteStore) ResultRank(ctx context.Context, id string) (int, error) {
	var rank int
	err := s.db.QueryRowContext(ctx, `
		SELECT (SELECT COUNT(*) + 1 FROM results r2 WHERE r2.efficiency > r1.efficiency)
		FROM results r1
		WHERE r1.id = ?
	`, id).Scan(&rank)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, ErrNotFound
	}
	return rank, err
}

func (s *SQLiteStore) ResetResults(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM results`)
	return err
}
