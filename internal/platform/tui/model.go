package tui

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/vovakirdan/subway-runner/internal/config"
	"github.com/vovakirdan/subway-runner/internal/core"
	"github.com/vovakirdan/subway-runner/internal/runner"
	"github.com/vovakirdan/subway-runner/internal/storage"
)

// ScoreSink stores finished games. *storage.Store satisfies it.
type ScoreSink interface {
	SaveScore(ctx context.Context, score int, playerName, ip string) (storage.ScoreRecord, error)
	HighScore(ctx context.Context) (int, error)
}

// ModelOptions configures a game model.
type ModelOptions struct {
	Runner     config.RunnerConfig
	Runtime    core.RuntimeConfig
	Scores     ScoreSink // Optional
	PlayerName string
	ClientAddr string      // Recorded with saved scores
	Logger     *log.Logger // Optional; score store failures are also shown in the view
}

// Model is the Bubble Tea model for playing the runner in a terminal.
type Model struct {
	engine   *runner.Engine
	screen   *core.Screen
	keys     *KeyMapper
	opts     ModelOptions
	snap     runner.Snapshot
	released []string // Keys to release after the next tick
	best     int
	notice   string // Shown on the bottom row

	scoreSaved bool // Whether score has been saved for current game over
	quitting   bool
}

// NewModel creates a new Bubble Tea model with a fresh engine.
func NewModel(opts ModelOptions) (Model, error) {
	// Use time-based seed if not specified
	if opts.Runtime.Seed == 0 {
		opts.Runtime.Seed = time.Now().UnixNano()
	}
	if opts.Runtime.TickRate <= 0 {
		opts.Runtime.TickRate = core.DefaultConfig().TickRate
	}

	engine, err := runner.New(opts.Runner, opts.Runtime)
	if err != nil {
		return Model{}, err
	}

	m := Model{
		engine: engine,
		screen: core.NewScreen(opts.Runtime.ScreenW, opts.Runtime.ScreenH),
		keys:   NewKeyMapper(),
		opts:   opts,
		snap:   engine.Snapshot(),
	}
	if opts.Scores != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		best, err := opts.Scores.HighScore(ctx)
		if err != nil {
			m.reportScoreError("cannot load high score", err)
		}
		m.best = best
	}
	return m, nil
}

// Init starts the tick loop.
func (m Model) Init() tea.Cmd {
	return tickCmd(m.opts.Runtime)
}

// Update handles messages and updates the model state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.opts.Runtime.ScreenW = msg.Width
		m.opts.Runtime.ScreenH = msg.Height
		m.screen.Resize(msg.Width, msg.Height)
		return m, nil

	case TickMsg:
		return m.handleTick()
	}

	return m, nil
}

// handleKey presses the mapped key. The release follows the next tick.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+s" {
		m.saveScreenshot()
		return m, nil
	}

	ev := m.keys.MapKey(msg)
	switch {
	case ev.Quit:
		m.quitting = true
		return m, tea.Quit
	case ev.PowerUp != "":
		m.engine.ActivatePowerUp(ev.PowerUp)
	case ev.Code != "":
		m.engine.SetKeyState(ev.Code, true)
		m.released = append(m.released, ev.Code)
	}

	if m.engine.State() != runner.StateGameOver {
		m.scoreSaved = false
	}
	m.snap = m.engine.Snapshot()
	return m, nil
}

// handleTick advances the engine by one fixed step.
func (m Model) handleTick() (tea.Model, tea.Cmd) {
	m.snap = m.engine.Update(m.opts.Runtime.Timestep())

	for _, code := range m.released {
		m.engine.SetKeyState(code, false)
	}
	m.released = m.released[:0]

	if m.snap.GameOver && !m.scoreSaved {
		m.saveScore(m.snap.Score)
		m.scoreSaved = true
	}

	return m, tickCmd(m.opts.Runtime)
}

// saveScore stores a finished game once. Failures are reported but the
// game continues regardless.
func (m *Model) saveScore(score int) {
	if score > m.best {
		m.best = score
	}
	if m.opts.Scores == nil || score <= 0 {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if _, err := m.opts.Scores.SaveScore(ctx, score, m.opts.PlayerName, m.opts.ClientAddr); err != nil {
		m.reportScoreError("cannot save score", err)
	}
}

// reportScoreError logs a score store failure and keeps it on screen.
func (m *Model) reportScoreError(msg string, err error) {
	if m.opts.Logger != nil {
		m.opts.Logger.Warn(msg, "player", m.opts.PlayerName, "error", err)
	}
	m.notice = fmt.Sprintf("%s: %v", msg, err)
}

// saveScreenshot saves the current screen to a file.
func (m *Model) saveScreenshot() {
	DrawSnapshot(m.screen, m.snap, m.opts.Runner.Field, m.best)

	dir := config.ExpandHome(filepath.Join("~", ".runner", "screenshots"))
	//nolint:errcheck // Best-effort directory creation
	os.MkdirAll(dir, 0o755)

	filename := fmt.Sprintf("runner_%s.txt", time.Now().Format("20060102_150405"))
	//nolint:errcheck // Best-effort save, game continues regardless
	os.WriteFile(filepath.Join(dir, filename), []byte(m.screen.String()), 0o600)
}

// View renders the current state to a string for display.
func (m Model) View() string {
	if m.quitting {
		return ""
	}
	DrawSnapshot(m.screen, m.snap, m.opts.Runner.Field, m.best)
	if m.notice != "" {
		m.screen.DrawTextColored(0, m.screen.Height()-1, m.notice, core.ColorRed)
	}
	return RenderScreen(m.screen)
}

// Notice returns the last score store error shown to the player.
func (m Model) Notice() string {
	return m.notice
}

// Snapshot returns the last rendered game state.
func (m Model) Snapshot() runner.Snapshot {
	return m.snap
}

// Running reports whether a game is in progress.
func (m Model) Running() bool {
	return m.engine.State() == runner.StateRunning
}

// IsQuitting returns true if the player asked to quit.
func (m Model) IsQuitting() bool {
	return m.quitting
}

// Run starts a local Bubble Tea program.
func Run(opts ModelOptions) error {
	model, err := NewModel(opts)
	if err != nil {
		return err
	}

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(), // Use alternate screen buffer
	)

	_, err = p.Run()
	return err
}
