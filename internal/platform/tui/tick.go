// Package tui runs the runner in a terminal with Bubble Tea, both locally
// and behind the SSH server.
package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/subway-runner/internal/core"
)

// TickMsg is sent to trigger a game simulation tick.
type TickMsg time.Time

// tickCmd returns a Bubble Tea command that sends tick messages at the runtime's tick rate.
func tickCmd(rt core.RuntimeConfig) tea.Cmd {
	return tea.Tick(rt.TickInterval(), func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}
