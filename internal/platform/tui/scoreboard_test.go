package tui

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/subway-runner/internal/storage"
)

type failingBoard struct{}

func (failingBoard) TopScores(context.Context, int, int) ([]storage.ScoreRecord, error) {
	return nil, errors.New("database is locked")
}

func TestScoreboardLoadsFromStore(t *testing.T) {
	store, err := storage.Open(filepath.Join(t.TempDir(), "scores.db"))
	if err != nil {
		t.Fatalf("storage.Open() failed: %v", err)
	}
	defer store.Close()

	ctx := context.Background()
	store.SaveScore(ctx, 150, "bob", "")
	store.SaveScore(ctx, 900, "alice", "")

	m := NewScoreboardModel(store, 100, 30)
	if len(m.scores) != 2 || m.scores[0].PlayerName != "alice" {
		t.Fatalf("scores = %+v", m.scores)
	}
	rows := m.table.Rows()
	if rows[0][0] != "#1" || rows[0][1] != "alice" || rows[0][2] != "900" {
		t.Errorf("first row = %v", rows[0])
	}
}

func TestScoreboardEmptyAndError(t *testing.T) {
	empty := NewScoreboardModel(nil, 80, 24)
	if !strings.Contains(empty.View(), "No scores recorded yet") {
		t.Error("empty scoreboard should say so")
	}

	failed := NewScoreboardModel(failingBoard{}, 80, 24)
	if !strings.Contains(failed.View(), "database is locked") {
		t.Error("load errors should be shown")
	}
}

func TestScoreboardKeys(t *testing.T) {
	board := &fakeBoard{}
	m := NewScoreboardModel(board, 80, 24)

	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'r'}})
	m = next.(ScoreboardModel)
	if board.calls != 2 {
		t.Errorf("refresh should reload, calls = %d", board.calls)
	}

	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if !next.(ScoreboardModel).IsGoingBack() || cmd == nil {
		t.Error("esc should go back")
	}
}

func TestCenterText(t *testing.T) {
	if got := centerText("ab", 6); got != "  ab" {
		t.Errorf("centerText = %q", got)
	}
	if got := centerText("toolong", 3); got != "toolong" {
		t.Errorf("centerText should not trim, got %q", got)
	}
}
