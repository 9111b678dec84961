package runner

import (
	"github.com/vovakirdan/subway-runner/internal/config"
	"github.com/vovakirdan/subway-runner/internal/core"
)

// Obstacle is a scrolling hazard. Touching one ends the run.
type Obstacle struct {
	X, Y float64
	W, H float64
	Type string // barrier, train or sign
	Lane int
}

// Rect returns the collision rectangle for this obstacle.
func (o Obstacle) Rect() core.Rect {
	return core.NewRect(o.X, o.Y, o.W, o.H)
}

// newObstacle places an obstacle of type t at the spawn edge.
// Its bottom sits Elevation above the ground line.
func newObstacle(t config.ObstacleType, lane int, field config.FieldConfig) Obstacle {
	return Obstacle{
		X:    field.Width,
		Y:    field.GroundY - t.Elevation - t.Height,
		W:    t.Width,
		H:    t.Height,
		Type: t.Name,
		Lane: lane,
	}
}

// advanceObstacles moves obstacles left by dx and drops the ones that left
// the field. Survivors keep spawn order. It returns how many were dropped.
func advanceObstacles(obstacles []Obstacle, dx float64) ([]Obstacle, int) {
	kept := make([]Obstacle, 0, len(obstacles))
	passed := 0
	for _, o := range obstacles {
		o.X -= dx
		if o.X+o.W > 0 {
			kept = append(kept, o)
		} else {
			passed++
		}
	}
	return kept, passed
}

// firstHit returns the index of the first obstacle overlapping r, or -1.
func firstHit(obstacles []Obstacle, r core.Rect) int {
	for i, o := range obstacles {
		if r.Intersects(o.Rect()) {
			return i
		}
	}
	return -1
}
