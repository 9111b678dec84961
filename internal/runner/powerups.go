package runner

import (
	"fmt"

	"github.com/vovakirdan/subway-runner/internal/config"
	"github.com/vovakirdan/subway-runner/internal/core"
)

// PowerUpKind names a power-up effect.
type PowerUpKind string

const (
	PowerUpInvulnerability PowerUpKind = "invulnerability"
	PowerUpSpeedBoost      PowerUpKind = "speed_boost"
	PowerUpCoinMagnet      PowerUpKind = "coin_magnet"
)

// ParsePowerUpKind validates a power-up name.
func ParsePowerUpKind(s string) (PowerUpKind, error) {
	switch k := PowerUpKind(s); k {
	case PowerUpInvulnerability, PowerUpSpeedBoost, PowerUpCoinMagnet:
		return k, nil
	default:
		return "", fmt.Errorf("runner: unknown power-up %q", s)
	}
}

// PowerUp is a scrolling pickup that activates its effect when touched.
type PowerUp struct {
	X, Y float64
	W, H float64
	Kind PowerUpKind
}

// Rect returns the pickup rectangle.
func (p PowerUp) Rect() core.Rect {
	return core.NewRect(p.X, p.Y, p.W, p.H)
}

func newPowerUp(kind PowerUpKind, cfg config.RunnerConfig) PowerUp {
	size := cfg.PowerUps.Size
	return PowerUp{
		X:    cfg.Field.Width,
		Y:    cfg.Field.GroundY - cfg.PowerUps.Height - size,
		W:    size,
		H:    size,
		Kind: kind,
	}
}

func advancePowerUps(items []PowerUp, dx float64) []PowerUp {
	kept := make([]PowerUp, 0, len(items))
	for _, p := range items {
		p.X -= dx
		if p.X+p.W > 0 {
			kept = append(kept, p)
		}
	}
	return kept
}

// ActivatePowerUp applies a power-up effect to the running game.
// Invulnerability lasts a fixed simulated time, speed boost multiplies the
// current speed up to the cap, and the coin magnet collects every coin on
// the field at once. It is a no-op unless the engine is running.
func (e *Engine) ActivatePowerUp(kind PowerUpKind) {
	if e.state != StateRunning {
		return
	}

	switch kind {
	case PowerUpInvulnerability:
		e.invulnerableFor = e.cfg.PowerUps.InvulnerableFor
	case PowerUpSpeedBoost:
		boosted := min(e.speed*e.cfg.PowerUps.SpeedBoostFactor, e.cfg.Physics.MaxSpeed)
		if boosted > e.speed {
			e.speed = boosted
		}
	case PowerUpCoinMagnet:
		for i := range e.coins {
			e.collectCoin(&e.coins[i])
		}
		e.coins = e.coins[:0]
	}
}
