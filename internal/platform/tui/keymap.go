package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/subway-runner/internal/runner"
)

// KeyEvent is a terminal key translated for the engine.
type KeyEvent struct {
	Code    string             // Browser key code, empty when not a game key
	PowerUp runner.PowerUpKind // Set for power-up activation keys
	Quit    bool
}

// KeyMapper translates Bubble Tea key messages to browser key codes.
// Terminals report presses only, so the model releases every pressed key
// after one tick.
type KeyMapper struct {
	codes    map[string]string
	powerUps map[string]runner.PowerUpKind
}

// NewKeyMapper creates a new key mapper with default bindings.
func NewKeyMapper() *KeyMapper {
	return &KeyMapper{
		codes: map[string]string{
			"left":  "ArrowLeft",
			"a":     "KeyA",
			"right": "ArrowRight",
			"d":     "KeyD",
			"up":    "ArrowUp",
			"w":     "KeyW",
			" ":     "Space",
			"space": "Space",
			"p":     "KeyP",
			"esc":   "Escape",
			"r":     "KeyR",
			"enter": "Enter",
		},
		powerUps: map[string]runner.PowerUpKind{
			"1": runner.PowerUpInvulnerability,
			"2": runner.PowerUpSpeedBoost,
			"3": runner.PowerUpCoinMagnet,
		},
	}
}

// MapKey translates a key message.
func (km *KeyMapper) MapKey(msg tea.KeyMsg) KeyEvent {
	key := msg.String()

	switch key {
	case "ctrl+c", "q":
		return KeyEvent{Quit: true}
	}

	if kind, ok := km.powerUps[key]; ok {
		return KeyEvent{PowerUp: kind}
	}
	return KeyEvent{Code: km.codes[key]}
}
