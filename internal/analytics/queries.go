package analytics

import (
	"database/sql"
	"errors"
	"fmt"

	"sketchit/internal/db"
)

var (
	ErrUnknownCategory = errors.New("unknown leaderboard category")
	ErrNoGames         = errors.New("no archived games for player")
)

// Categories lists the leaderboard orderings GetLeaderboard accepts.
var Categories = []string{"score", "wins", "games"}

// Archive is the read side of the game archive.
type Archive interface {
	QueryRow(query string, args ...any) *sql.Row
	Query(query string, args ...any) (*sql.Rows, error)
}

var _ Archive = (*db.DB)(nil)

type Queries struct {
	DB Archive
}

func NewQueries(database Archive) *Queries {
	return &Queries{DB: database}
}

func leaderboardQuery(category string) (string, error) {
	switch category {
	case "score":
		return `
			SELECT name, COALESCE(SUM(final_score), 0) AS value
			FROM game_players
			GROUP BY name
			ORDER BY value DESC, name
			LIMIT $1`, nil
	case "wins":
		return `
			SELECT name, COUNT(*) FILTER (WHERE rank = 1) AS value
			FROM game_players
			GROUP BY name
			ORDER BY value DESC, name
			LIMIT $1`, nil
	case "games":
		return `
			SELECT name, COUNT(*) AS value
			FROM game_players
			GROUP BY name
			ORDER BY value DESC, name
			LIMIT $1`, nil
	default:
		return "", fmt.Errorf("%w: %s", ErrUnknownCategory, category)
	}
}

func (q *Queries) GetLeaderboard(category string, limit int) ([]LeaderboardEntry, error) {
	query, err := leaderboardQuery(category)
	if err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = 10
	}

	rows, err := q.DB.Query(query, limit)
	if err != nil {
		return nil, fmt.Errorf("getting leaderboard: %w", err)
	}
	defer rows.Close()

	entries := make([]LeaderboardEntry, 0, limit)
	rank := 1
	for rows.Next() {
		var e LeaderboardEntry
		if err := rows.Scan(&e.PlayerName, &e.Value); err != nil {
			return nil, err
		}
		e.Rank = rank
		rank++
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// GetPlayerStats aggregates every archived game played under name.
func (q *Queries) GetPlayerStats(name string) (*PlayerStats, error) {
	stats := &PlayerStats{PlayerName: name}

	err := q.DB.QueryRow(`
		SELECT
			COUNT(*) AS games_played,
			COALESCE(SUM(final_score), 0) AS total_score,
			COALESCE(MAX(final_score), 0) AS best_game,
			COUNT(*) FILTER (WHERE rank = 1) AS win_count
		FROM game_players
		WHERE name = $1
	`, name).Scan(&stats.GamesPlayed, &stats.TotalScore, &stats.BestGame, &stats.WinCount)
	if err != nil {
		return nil, fmt.Errorf("getting player stats: %w", err)
	}
	if stats.GamesPlayed == 0 {
		return nil, ErrNoGames
	}

	// Most recent consecutive wins
	rows, err := q.DB.Query(`
		SELECT gp.rank
		FROM game_players gp
		JOIN games g ON g.id = gp.game_id
		WHERE gp.name = $1
		ORDER BY g.ended_at DESC
	`, name)
	if err != nil {
		return nil, fmt.Errorf("getting win streak: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var rank int
		if err := rows.Scan(&rank); err != nil {
			return nil, err
		}
		if rank != 1 {
			break
		}
		stats.WinStreak++
	}
	return stats, rows.Err()
}
