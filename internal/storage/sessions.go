package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// SessionRecord tracks one played game from start to finish.
type SessionRecord struct {
	SessionID        string     `json:"session_id"`
	StartTime        time.Time  `json:"start_time"`
	EndTime          *time.Time `json:"end_time,omitempty"`
	FinalScore       *int       `json:"final_score,omitempty"`
	MaxSpeed         *float64   `json:"max_speed,omitempty"`
	CoinsCollected   int        `json:"coins_collected"`
	ObstaclesAvoided int        `json:"obstacles_avoided"`
	Completed        bool       `json:"completed"`
}

// CreateSession inserts a new open session.
func (s *Store) CreateSession(ctx context.Context, id string, start time.Time) error {
	_, err := s.db.ExecContext(ctx,
		s.rebind("INSERT INTO game_sessions (session_id, start_time) VALUES (?, ?)"),
		id, start.UTC(),
	)
	if err != nil {
		return fmt.Errorf("storage: cannot create session: %w", err)
	}
	return nil
}

// UpdateSession records progress. The stored max speed only ever grows.
func (s *Store) UpdateSession(ctx context.Context, id string, speed float64, coins, obstacles int) error {
	res, err := s.db.ExecContext(ctx, s.rebind(
		`UPDATE game_sessions
		 SET max_speed = CASE WHEN max_speed IS NULL OR max_speed < ? THEN ? ELSE max_speed END,
		     coins_collected = ?,
		     obstacles_avoided = ?
		 WHERE session_id = ?`),
		speed, speed, coins, obstacles, id,
	)
	if err != nil {
		return fmt.Errorf("storage: cannot update session: %w", err)
	}
	return requireRow(res)
}

// EndSession marks a session completed with its final score.
func (s *Store) EndSession(ctx context.Context, id string, finalScore int, end time.Time) error {
	res, err := s.db.ExecContext(ctx, s.rebind(
		`UPDATE game_sessions
		 SET end_time = ?, final_score = ?, completed = ?
		 WHERE session_id = ?`),
		end.UTC(), finalScore, true, id,
	)
	if err != nil {
		return fmt.Errorf("storage: cannot end session: %w", err)
	}
	return requireRow(res)
}

// Session retrieves a session by ID, or returns ErrNotFound.
func (s *Store) Session(ctx context.Context, id string) (SessionRecord, error) {
	var rec SessionRecord
	var start, end any
	var final sql.NullInt64
	var maxSpeed sql.NullFloat64

	err := s.db.QueryRowContext(ctx, s.rebind(
		`SELECT session_id, start_time, end_time, final_score, max_speed,
		        coins_collected, obstacles_avoided, completed
		 FROM game_sessions
		 WHERE session_id = ?`),
		id,
	).Scan(&rec.SessionID, &start, &end, &final, &maxSpeed,
		&rec.CoinsCollected, &rec.ObstaclesAvoided, &rec.Completed)

	if errors.Is(err, sql.ErrNoRows) {
		return SessionRecord{}, ErrNotFound
	}
	if err != nil {
		return SessionRecord{}, fmt.Errorf("storage: cannot query session: %w", err)
	}

	rec.StartTime = parseTime(start)
	if end != nil {
		t := parseTime(end)
		rec.EndTime = &t
	}
	if final.Valid {
		v := int(final.Int64)
		rec.FinalScore = &v
	}
	if maxSpeed.Valid {
		v := maxSpeed.Float64
		rec.MaxSpeed = &v
	}

	return rec, nil
}

func requireRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("storage: cannot read affected rows: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
