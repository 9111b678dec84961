package runner

import (
	"github.com/vovakirdan/subway-runner/internal/config"
	"github.com/vovakirdan/subway-runner/internal/core"
)

// Coin is a scrolling collectible worth Value points.
type Coin struct {
	X, Y      float64
	W, H      float64
	Rotation  float64 // Cosmetic spin phase in radians
	Value     int
	Collected bool
}

// Rect returns the pickup rectangle for this coin.
func (c Coin) Rect() core.Rect {
	return core.NewRect(c.X, c.Y, c.W, c.H)
}

func newCoin(y float64, cfg config.RunnerConfig) Coin {
	return Coin{
		X:     cfg.Field.Width,
		Y:     y,
		W:     cfg.Coins.Size,
		H:     cfg.Coins.Size,
		Value: cfg.Coins.Value,
	}
}

// advanceCoins moves and spins coins, dropping collected and off-field ones.
func advanceCoins(coins []Coin, dx, spin float64) []Coin {
	kept := make([]Coin, 0, len(coins))
	for _, c := range coins {
		c.X -= dx
		c.Rotation += spin
		if c.X+c.W > 0 && !c.Collected {
			kept = append(kept, c)
		}
	}
	return kept
}
