// Package scores implements score submission and leaderboard queries on top
// of the storage layer: input validation, per-client rate limiting and game
// session bookkeeping.
package scores

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/vovakirdan/subway-runner/internal/config"
	"github.com/vovakirdan/subway-runner/internal/storage"
)

// Validation and throttling errors. Lookup misses surface as storage.ErrNotFound.
var (
	ErrInvalidScore = errors.New("scores: invalid score")
	ErrInvalidName  = errors.New("scores: invalid player name")
	ErrRateLimited  = errors.New("scores: rate limit exceeded")
)

// Submission is a score sent by a client.
type Submission struct {
	Score      int    `json:"score"`
	PlayerName string `json:"player_name,omitempty"`
}

// Leaderboard is a page of scores plus the total number of stored scores.
type Leaderboard struct {
	Scores     []storage.ScoreRecord `json:"scores"`
	TotalCount int                   `json:"total_count"`
}

// Service validates and persists scores.
type Service struct {
	store   *storage.Store
	cfg     config.ScoresConfig
	limiter *RateLimiter
	now     func() time.Time
}

// NewService creates a score service over store.
func NewService(store *storage.Store, cfg config.ScoresConfig) *Service {
	return &Service{
		store:   store,
		cfg:     cfg,
		limiter: NewRateLimiter(cfg.RateLimit, time.Duration(cfg.RateWindow)*time.Second),
		now:     time.Now,
	}
}

// Submit validates and stores a score for the client at clientIP.
// Invalid submissions are rejected before the rate limit is consulted and
// never use up one of the client's slots. Rejected submissions are never
// persisted.
func (s *Service) Submit(ctx context.Context, sub Submission, clientIP string) (storage.ScoreRecord, error) {
	if sub.Score < 0 || sub.Score > s.cfg.MaxScore {
		return storage.ScoreRecord{}, fmt.Errorf("%w: %d is outside [0, %d]", ErrInvalidScore, sub.Score, s.cfg.MaxScore)
	}

	name := strings.TrimSpace(sub.PlayerName)
	if utf8.RuneCountInString(name) > s.cfg.MaxNameLength {
		return storage.ScoreRecord{}, fmt.Errorf("%w: longer than %d characters", ErrInvalidName, s.cfg.MaxNameLength)
	}

	if !s.limiter.Allow(clientIP) {
		return storage.ScoreRecord{}, ErrRateLimited
	}

	return s.store.SaveScore(ctx, sub.Score, name, clientIP)
}

// Leaderboard returns a page of scores ordered by score descending.
func (s *Service) Leaderboard(ctx context.Context, limit, offset int) ([]storage.ScoreRecord, error) {
	return s.store.TopScores(ctx, s.clampLimit(limit), max(offset, 0))
}

// FullLeaderboard returns a page of scores with the total count.
func (s *Service) FullLeaderboard(ctx context.Context, limit, offset int) (Leaderboard, error) {
	page, err := s.Leaderboard(ctx, limit, offset)
	if err != nil {
		return Leaderboard{}, err
	}
	total, err := s.store.CountScores(ctx)
	if err != nil {
		return Leaderboard{}, err
	}
	return Leaderboard{Scores: page, TotalCount: total}, nil
}

// PersonalBest returns the best score for a player or storage.ErrNotFound.
func (s *Service) PersonalBest(ctx context.Context, playerName string) (storage.ScoreRecord, error) {
	return s.store.PersonalBest(ctx, playerName)
}

// Delete removes a score or returns storage.ErrNotFound.
func (s *Service) Delete(ctx context.Context, id int64) error {
	return s.store.DeleteScore(ctx, id)
}

// StartSession opens a new game session and returns its ID.
func (s *Service) StartSession(ctx context.Context) (string, error) {
	id := uuid.NewString()
	if err := s.store.CreateSession(ctx, id, s.now()); err != nil {
		return "", err
	}
	return id, nil
}

// UpdateSession records in-game progress for an open session.
func (s *Service) UpdateSession(ctx context.Context, id string, speed float64, coins, obstacles int) error {
	return s.store.UpdateSession(ctx, id, speed, coins, obstacles)
}

// EndSession completes a session with its final score.
func (s *Service) EndSession(ctx context.Context, id string, finalScore int) error {
	if finalScore < 0 || finalScore > s.cfg.MaxScore {
		return fmt.Errorf("%w: %d is outside [0, %d]", ErrInvalidScore, finalScore, s.cfg.MaxScore)
	}
	return s.store.EndSession(ctx, id, finalScore, s.now())
}

// Session returns a stored session or storage.ErrNotFound.
func (s *Service) Session(ctx context.Context, id string) (storage.SessionRecord, error) {
	return s.store.Session(ctx, id)
}

// Stats returns aggregate statistics over all scores.
func (s *Service) Stats(ctx context.Context) (storage.GameStats, error) {
	return s.store.Stats(ctx)
}

// PruneLimiter drops idle rate limit entries. Call it periodically from
// long-running servers.
func (s *Service) PruneLimiter() {
	s.limiter.Prune()
}

func (s *Service) clampLimit(limit int) int {
	if limit <= 0 {
		limit = s.cfg.DefaultLimit
	}
	if limit <= 0 {
		limit = 10
	}
	if s.cfg.MaxLimit > 0 && limit > s.cfg.MaxLimit {
		limit = s.cfg.MaxLimit
	}
	return limit
}
