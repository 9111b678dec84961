package tui

import (
	"context"
	"net"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/subway-runner/internal/core"
	"github.com/vovakirdan/subway-runner/internal/storage"
)

type fakeBoard struct {
	records []storage.ScoreRecord
	calls   int
}

func (f *fakeBoard) TopScores(_ context.Context, limit, offset int) ([]storage.ScoreRecord, error) {
	f.calls++
	return f.records, nil
}

func newTestSession(t *testing.T, board Leaderboard) SessionModel {
	t.Helper()
	m, err := NewSessionModel(ModelOptions{
		Runner:     testRunnerConfig(),
		Runtime:    core.RuntimeConfig{ScreenW: 80, ScreenH: 24, TickRate: 60, Seed: 9},
		PlayerName: "sshuser",
	}, board)
	if err != nil {
		t.Fatalf("NewSessionModel() failed: %v", err)
	}
	return m
}

func sessionUpdate(t *testing.T, m SessionModel, msg tea.Msg) (SessionModel, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	sm, ok := next.(SessionModel)
	if !ok {
		t.Fatalf("Update returned %T", next)
	}
	return sm, cmd
}

func TestSessionScoreboardToggle(t *testing.T) {
	board := &fakeBoard{records: []storage.ScoreRecord{
		{ID: 1, Score: 500, PlayerName: "alice", CreatedAt: time.Now()},
	}}
	m := newTestSession(t, board)

	m, _ = sessionUpdate(t, m, tea.KeyMsg{Type: tea.KeyTab})
	if m.scoreboard == nil {
		t.Fatal("tab should open the scoreboard while the game is not running")
	}
	if board.calls != 1 {
		t.Errorf("leaderboard loaded %d times, expected 1", board.calls)
	}

	// Ticks keep flowing to the game underneath.
	m, cmd := sessionUpdate(t, m, TickMsg{})
	if cmd == nil {
		t.Error("tick should schedule the next tick")
	}

	m, cmd = sessionUpdate(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	if m.scoreboard != nil {
		t.Fatal("esc should close the scoreboard")
	}
	if cmd != nil {
		t.Error("closing the scoreboard must not quit the session")
	}
	if m.quitting {
		t.Error("session should still be running")
	}
}

func TestSessionNoScoreboardWhileRunning(t *testing.T) {
	m := newTestSession(t, &fakeBoard{})
	m, _ = sessionUpdate(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	m, _ = sessionUpdate(t, m, tea.KeyMsg{Type: tea.KeyTab})
	if m.scoreboard != nil {
		t.Error("scoreboard should not open during a running game")
	}
}

func TestSessionQuitFromScoreboard(t *testing.T) {
	m := newTestSession(t, &fakeBoard{})
	m, _ = sessionUpdate(t, m, tea.KeyMsg{Type: tea.KeyTab})
	m, cmd := sessionUpdate(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})
	if !m.quitting || cmd == nil {
		t.Error("q on the scoreboard should quit the session")
	}
	if m.View() != "" {
		t.Error("quitting session should render nothing")
	}
}

func TestRemoteHost(t *testing.T) {
	addr := &net.TCPAddr{IP: net.ParseIP("192.0.2.4"), Port: 2222}
	if got := remoteHost(addr); got != "192.0.2.4" {
		t.Errorf("remoteHost = %q", got)
	}
	if got := remoteHost(nil); got != "" {
		t.Errorf("remoteHost(nil) = %q", got)
	}
}
