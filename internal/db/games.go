package db

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"sketchit/internal/events"
)

type GameRecord struct {
	ID        string
	RoomCode  string
	HostName  string
	Rounds    int
	EndedAt   time.Time
	Standings []events.Standing
}

// RecordGame archives a finished game and its final standings in one
// transaction and returns the new game id.
func (d *DB) RecordGame(res events.GameResult) (string, error) {
	id := uuid.NewString()

	tx, err := d.conn.Begin()
	if err != nil {
		return "", fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`
		INSERT INTO games (id, room_code, host_name, rounds, ended_at)
		VALUES ($1, $2, $3, $4, $5)
	`, id, res.RoomCode, res.HostName, res.Rounds, res.EndedAt); err != nil {
		return "", fmt.Errorf("inserting game: %w", err)
	}

	stmt, err := tx.Prepare(`
		INSERT INTO game_players (game_id, rank, name, color, final_score)
		VALUES ($1, $2, $3, $4, $5)
	`)
	if err != nil {
		return "", fmt.Errorf("preparing statement: %w", err)
	}
	defer stmt.Close()

	for _, s := range res.Standings {
		if _, err := stmt.Exec(id, s.Rank, s.Name, s.Color, s.Score); err != nil {
			return "", fmt.Errorf("inserting standing: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("committing game: %w", err)
	}
	return id, nil
}

func (d *DB) GetGame(id string) (*GameRecord, error) {
	g := &GameRecord{ID: id}
	err := d.conn.QueryRow(`
		SELECT room_code, host_name, rounds, ended_at FROM games WHERE id = $1
	`, id).Scan(&g.RoomCode, &g.HostName, &g.Rounds, &g.EndedAt)
	if err != nil {
		return nil, fmt.Errorf("getting game: %w", err)
	}

	rows, err := d.conn.Query(`
		SELECT rank, name, color, final_score FROM game_players WHERE game_id = $1 ORDER BY rank
	`, id)
	if err != nil {
		return nil, fmt.Errorf("getting standings: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var s events.Standing
		if err := rows.Scan(&s.Rank, &s.Name, &s.Color, &s.Score); err != nil {
			return nil, err
		}
		g.Standings = append(g.Standings, s)
	}
	return g, rows.Err()
}
