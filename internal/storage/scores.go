package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// ScoreRecord represents a single submitted score.
type ScoreRecord struct {
	ID         int64     `json:"id"`
	Score      int       `json:"score"`
	PlayerName string    `json:"player_name"`
	CreatedAt  time.Time `json:"created_at"`
}

// SaveScore records a new score. An empty playerName is stored as NULL
// and reads back as AnonymousName.
func (s *Store) SaveScore(ctx context.Context, score int, playerName, ip string) (ScoreRecord, error) {
	rec := ScoreRecord{
		Score:      score,
		PlayerName: playerName,
		CreatedAt:  time.Now().UTC(),
	}

	var name sql.NullString
	if playerName != "" {
		name = sql.NullString{String: playerName, Valid: true}
	} else {
		rec.PlayerName = AnonymousName
	}

	err := s.db.QueryRowContext(ctx,
		s.rebind("INSERT INTO scores (score, player_name, ip_address, created_at) VALUES (?, ?, ?, ?) RETURNING id"),
		score, name, ip, rec.CreatedAt,
	).Scan(&rec.ID)
	if err != nil {
		return ScoreRecord{}, fmt.Errorf("storage: cannot save score: %w", err)
	}

	return rec, nil
}

// TopScores retrieves a page of scores ordered by score descending.
// Ties keep submission order.
func (s *Store) TopScores(ctx context.Context, limit, offset int) ([]ScoreRecord, error) {
	if limit <= 0 {
		limit = 10
	}
	if offset < 0 {
		offset = 0
	}

	rows, err := s.db.QueryContext(ctx, s.rebind(
		`SELECT id, score, player_name, created_at
		 FROM scores
		 ORDER BY score DESC, id ASC
		 LIMIT ? OFFSET ?`),
		limit, offset,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query scores: %w", err)
	}
	defer rows.Close()

	entries := make([]ScoreRecord, 0, limit)
	for rows.Next() {
		rec, err := scanScore(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, rec)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return entries, nil
}

// CountScores returns the total number of stored scores.
func (s *Store) CountScores(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM scores").Scan(&n); err != nil {
		return 0, fmt.Errorf("storage: cannot count scores: %w", err)
	}
	return n, nil
}

// PersonalBest returns the highest score for playerName, or ErrNotFound.
func (s *Store) PersonalBest(ctx context.Context, playerName string) (ScoreRecord, error) {
	row := s.db.QueryRowContext(ctx, s.rebind(
		`SELECT id, score, player_name, created_at
		 FROM scores
		 WHERE player_name = ?
		 ORDER BY score DESC, id ASC
		 LIMIT 1`),
		playerName,
	)

	rec, err := scanScore(row)
	if errors.Is(err, sql.ErrNoRows) {
		return ScoreRecord{}, ErrNotFound
	}
	return rec, err
}

// DeleteScore removes a score by ID, or returns ErrNotFound.
func (s *Store) DeleteScore(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, s.rebind("DELETE FROM scores WHERE id = ?"), id)
	if err != nil {
		return fmt.Errorf("storage: cannot delete score: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("storage: cannot delete score: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// HighScore returns the highest stored score.
// Returns 0 if no scores exist.
func (s *Store) HighScore(ctx context.Context) (int, error) {
	var score sql.NullInt64
	err := s.db.QueryRowContext(ctx, "SELECT MAX(score) FROM scores").Scan(&score)
	if err != nil {
		return 0, fmt.Errorf("storage: cannot query high score: %w", err)
	}

	if !score.Valid {
		return 0, nil
	}

	return int(score.Int64), nil
}

// GameStats contains aggregated statistics over all scores.
type GameStats struct {
	TotalGames   int     `json:"total_games"`
	AverageScore float64 `json:"average_score"`
	HighestScore int     `json:"highest_score"`
	TotalPlayers int     `json:"total_players"`
}

// Stats retrieves aggregated statistics. AverageScore is rounded to 2 decimals.
func (s *Store) Stats(ctx context.Context) (GameStats, error) {
	var stats GameStats
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*), COALESCE(AVG(score), 0), COALESCE(MAX(score), 0), COUNT(DISTINCT player_name)
		 FROM scores`,
	).Scan(&stats.TotalGames, &stats.AverageScore, &stats.HighestScore, &stats.TotalPlayers)
	if err != nil {
		return GameStats{}, fmt.Errorf("storage: cannot get game stats: %w", err)
	}

	stats.AverageScore = float64(int64(stats.AverageScore*100+0.5)) / 100
	return stats, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanScore(row rowScanner) (ScoreRecord, error) {
	var rec ScoreRecord
	var name sql.NullString
	var createdAt any

	if err := row.Scan(&rec.ID, &rec.Score, &name, &createdAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ScoreRecord{}, err
		}
		return ScoreRecord{}, fmt.Errorf("storage: cannot scan row: %w", err)
	}

	rec.PlayerName = AnonymousName
	if name.Valid && name.String != "" {
		rec.PlayerName = name.String
	}
	rec.CreatedAt = parseTime(createdAt)
	return rec, nil
}
