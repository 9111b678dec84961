package runner

import (
	"github.com/vovakirdan/subway-runner/internal/config"
	"github.com/vovakirdan/subway-runner/internal/core"
)

// Player is the runner controlled by the user.
// Y grows downward; a grounded player has Y == groundY - H.
type Player struct {
	X, Y     float64
	W, H     float64
	VY       float64 // Vertical velocity, negative = up
	Grounded bool
	Lane     int // Current lane index, -1 under free movement
}

func newPlayer(cfg config.RunnerConfig) Player {
	p := Player{
		X:        cfg.Player.X,
		W:        cfg.Player.Width,
		H:        cfg.Player.Height,
		Y:        cfg.Field.GroundY - cfg.Player.Height,
		Grounded: true,
		Lane:     -1,
	}
	if cfg.Player.Movement == config.MovementLanes {
		p.Lane = cfg.Player.StartLane
		p.X = cfg.Player.Lanes[p.Lane] - p.W/2
	}
	return p
}

// Rect returns the player's collision rectangle.
func (p Player) Rect() core.Rect {
	return core.NewRect(p.X, p.Y, p.W, p.H)
}

// switchLane moves one lane in direction dir (-1 or +1), staying in range.
func (p *Player) switchLane(dir int, lanes []float64) {
	next := core.Clamp(p.Lane+dir, 0, len(lanes)-1)
	p.Lane = next
	p.X = lanes[next] - p.W/2
}

// moveFree shifts the player horizontally, clamped to the field.
func (p *Player) moveFree(dx, fieldW float64) {
	p.X = core.ClampF(p.X+dx, 0, fieldW-p.W)
}

// jump starts a jump when grounded. Airborne requests are ignored.
func (p *Player) jump(impulse float64) bool {
	if !p.Grounded {
		return false
	}
	p.VY = -impulse
	p.Grounded = false
	return true
}

// applyPhysics integrates gravity for one scaled tick.
func (p *Player) applyPhysics(gravity, groundY, scale float64) {
	if p.Grounded {
		return
	}

	p.VY += gravity * scale
	p.Y += p.VY * scale

	// Landed
	floor := groundY - p.H
	if p.Y >= floor {
		p.Y = floor
		p.VY = 0
		p.Grounded = true
	}

	// Top of the field
	if p.Y < 0 {
		p.Y = 0
		if p.VY < 0 {
			p.VY = 0
		}
	}
}
