package tui

import (
	"fmt"
	"math"

	"github.com/vovakirdan/subway-runner/internal/config"
	"github.com/vovakirdan/subway-runner/internal/core"
	"github.com/vovakirdan/subway-runner/internal/runner"
)

// hudRows is the number of rows reserved above the play field.
const hudRows = 1

// viewport maps field coordinates onto the terminal cell grid below the HUD.
type viewport struct {
	sx, sy float64
	rows   int
}

func newViewport(field config.FieldConfig, width, height int) viewport {
	rows := max(height-hudRows, 1)
	return viewport{
		sx:   float64(width) / field.Width,
		sy:   float64(rows) / field.Height,
		rows: rows,
	}
}

// cellRect converts a field rectangle to cells. Anything visible in the
// field covers at least one cell.
func (v viewport) cellRect(x, y, w, h float64) core.CellRect {
	x0 := int(math.Floor(x * v.sx))
	y0 := int(math.Floor(y * v.sy))
	x1 := int(math.Ceil((x + w) * v.sx))
	y1 := int(math.Ceil((y + h) * v.sy))
	return core.CellRect{
		X: x0,
		Y: y0 + hudRows,
		W: max(x1-x0, 1),
		H: max(y1-y0, 1),
	}
}

func (v viewport) row(y float64) int {
	return int(math.Floor(y*v.sy)) + hudRows
}

// DrawSnapshot draws one frame of the game into s, back to front.
func DrawSnapshot(s *core.Screen, snap runner.Snapshot, field config.FieldConfig, best int) {
	s.Clear()
	if s.Width() == 0 || s.Height() == 0 {
		return
	}
	v := newViewport(field, s.Width(), s.Height())

	for _, c := range snap.Background.Clouds {
		r := v.cellRect(c.X, c.Y, c.Size*2, c.Size)
		s.DrawRect(core.CellRect{X: r.X, Y: r.Y, W: r.W, H: 1}, '~', core.ColorCloud)
	}
	for _, b := range snap.Background.Buildings {
		s.DrawRect(v.cellRect(b.X, b.Y, b.W, b.H), '▒', core.ColorBuilding)
	}

	drawGround(s, v, field, snap.Background.GroundOffset)

	for _, c := range snap.Coins {
		if c.Collected {
			continue
		}
		r := v.cellRect(c.X, c.Y, c.W, c.H)
		s.SetColored(r.X, r.Y, coinRune(c.Rotation), core.ColorCoin)
	}
	for _, p := range snap.PowerUps {
		r := v.cellRect(p.X, p.Y, p.W, p.H)
		s.SetColored(r.X, r.Y, powerUpRune(p.Kind), core.ColorPowerUp)
	}
	for _, o := range snap.Obstacles {
		fill := '█'
		if o.Type == "sign" {
			fill = '▀'
		}
		s.DrawRect(v.cellRect(o.X, o.Y, o.W, o.H), fill, core.ObstacleColor(o.Type))
	}

	pc := core.ColorPlayer
	if snap.Player.Invulnerable {
		pc = core.ColorPlayerShield
	}
	s.DrawRect(v.cellRect(snap.Player.X, snap.Player.Y, snap.Player.W, snap.Player.H), '█', pc)

	drawHUD(s, snap, best)
	drawOverlay(s, snap)
}

func drawGround(s *core.Screen, v viewport, field config.FieldConfig, offset float64) {
	y := v.row(field.GroundY)
	s.DrawHLine(0, y, s.Width(), '═', core.ColorGround)

	// Tie marks scroll with the ground offset.
	step := max(int(math.Round(40*v.sx)), 2)
	shift := int(math.Round(offset*v.sx)) % step
	for x := step - shift; x < s.Width(); x += step {
		s.SetColored(x, y, '╪', core.ColorGround)
	}
}

func coinRune(rotation float64) rune {
	// Edge-on every other quarter turn.
	if int(math.Floor(rotation/(math.Pi/2)))%2 == 0 {
		return 'O'
	}
	return '|'
}

func powerUpRune(kind string) rune {
	switch runner.PowerUpKind(kind) {
	case runner.PowerUpInvulnerability:
		return 'I'
	case runner.PowerUpSpeedBoost:
		return 'S'
	case runner.PowerUpCoinMagnet:
		return 'M'
	default:
		return '+'
	}
}

func drawHUD(s *core.Screen, snap runner.Snapshot, best int) {
	hud := fmt.Sprintf(" SCORE %d  COINS %d  SPEED %.1f  DIST %d", snap.Score, snap.CoinsCollected, snap.GameSpeed, snap.Distance)
	if best > 0 {
		hud += fmt.Sprintf("  BEST %d", best)
	}
	s.DrawTextColored(0, 0, hud, core.ColorHUD)
}

func drawOverlay(s *core.Screen, snap runner.Snapshot) {
	mid := s.Height() / 2
	switch {
	case snap.GameOver:
		lines := []string{"GAME OVER", fmt.Sprintf("Score: %d", snap.Score), "R restart   Q quit"}
		width := 0
		for _, l := range lines {
			width = max(width, len(l))
		}
		box := core.CellRect{X: (s.Width() - width - 4) / 2, Y: mid - 2, W: width + 4, H: len(lines) + 2}
		s.DrawRect(box, ' ', core.ColorDefault)
		s.DrawBox(box)
		for i, l := range lines {
			s.DrawTextCentered(mid-1+i, l)
		}
	case snap.Paused:
		s.DrawTextCentered(mid, "PAUSED - P to resume")
	case snap.State == runner.StateReady.String():
		s.DrawTextCentered(mid-1, "SUBWAY RUNNER")
		s.DrawTextCentered(mid, "ENTER to start   SPACE jump   LEFT/RIGHT switch lanes")
	}
}
