package main

import (
	"testing"

	"github.com/vovakirdan/subway-runner/internal/config"
	"github.com/vovakirdan/subway-runner/internal/core"
	"github.com/vovakirdan/subway-runner/internal/runner"
)

func TestShouldJump(t *testing.T) {
	field := config.FieldConfig{Width: 800, Height: 400, GroundY: 350}
	player := runner.PlayerView{X: 100, Y: 310, W: 30, H: 40, Grounded: true}

	tests := []struct {
		name     string
		player   runner.PlayerView
		obstacle runner.ObstacleView
		speed    float64
		want     bool
	}{
		{"ground obstacle in reach", player, runner.ObstacleView{X: 150, Y: 310, W: 30, H: 40}, 5, true},
		{"ground obstacle far away", player, runner.ObstacleView{X: 600, Y: 310, W: 30, H: 40}, 5, false},
		{"obstacle behind", player, runner.ObstacleView{X: 20, Y: 310, W: 30, H: 40}, 5, false},
		{"elevated sign", player, runner.ObstacleView{X: 150, Y: 230, W: 60, H: 20}, 5, false},
		{"airborne player", runner.PlayerView{X: 100, Y: 250, W: 30, H: 40}, runner.ObstacleView{X: 150, Y: 310, W: 30, H: 40}, 5, false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			snap := runner.Snapshot{
				Player:    tc.player,
				Obstacles: []runner.ObstacleView{tc.obstacle},
				GameSpeed: tc.speed,
			}
			if got := shouldJump(snap, field); got != tc.want {
				t.Errorf("shouldJump = %v, expected %v", got, tc.want)
			}
		})
	}
}

func TestSimulateDeterministic(t *testing.T) {
	cfg := config.DefaultRunnerConfig()
	rt := core.RuntimeConfig{TickRate: 60, Seed: 42}

	a, err := simulate(cfg, rt, 600, true)
	if err != nil {
		t.Fatalf("simulate: %v", err)
	}
	b, err := simulate(cfg, rt, 600, true)
	if err != nil {
		t.Fatalf("simulate: %v", err)
	}

	if a.Tick == 0 {
		t.Fatal("simulation did not advance")
	}
	if a.Tick > 600 {
		t.Errorf("Tick = %d, expected at most 600", a.Tick)
	}
	if a.Score != b.Score || a.Tick != b.Tick || a.State != b.State {
		t.Errorf("same seed gave different runs: %+v vs %+v", a.Score, b.Score)
	}
}
