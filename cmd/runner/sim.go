package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/subway-runner/internal/config"
	"github.com/vovakirdan/subway-runner/internal/core"
	"github.com/vovakirdan/subway-runner/internal/registry"
	"github.com/vovakirdan/subway-runner/internal/runner"
	"github.com/vovakirdan/subway-runner/internal/storage"
)

var (
	flagSimTicks     int
	flagSimAutopilot bool
	flagSimFormat    string
	flagSimSave      bool
	flagSimName      string
)

var simCmd = &cobra.Command{
	Use:   "sim",
	Short: "Run a headless game and print the result",
	Long: `Run the engine without a display at the fixed tick rate, as fast as
possible. The run ends at game over or after --ticks steps.

With --autopilot a simple bot jumps over ground obstacles. With --format
the final snapshot is written to stdout in that wire format instead of a
summary.

Examples:
  runner sim --seed 42
  runner sim --seed 42 --ticks 36000 --autopilot
  runner sim --seed 7 --format json > snapshot.json
  runner sim --autopilot --save --name bot`,
	Args: cobra.NoArgs,
	RunE: runSim,
}

func init() {
	simCmd.Flags().IntVar(&flagSimTicks, "ticks", 60*60, "Maximum ticks to simulate")
	simCmd.Flags().BoolVar(&flagSimAutopilot, "autopilot", false, "Jump over ground obstacles automatically")
	simCmd.Flags().StringVar(&flagSimFormat, "format", "", "Write the final snapshot in this format")
	simCmd.Flags().BoolVar(&flagSimSave, "save", false, "Save the final score")
	simCmd.Flags().StringVar(&flagSimName, "name", "sim", "Player name for --save")
}

func runSim(cmd *cobra.Command, args []string) error {
	runnerCfg, err := loadRunnerConfig()
	if err != nil {
		return err
	}

	var codec registry.Codec
	if flagSimFormat != "" {
		if codec, err = registry.Create(flagSimFormat); err != nil {
			return errUnknownFormat(flagSimFormat)
		}
	}

	seed := flagSeed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	start := time.Now()
	snap, err := simulate(runnerCfg, core.RuntimeConfig{TickRate: flagFPS, Seed: seed}, flagSimTicks, flagSimAutopilot)
	if err != nil {
		return err
	}
	elapsed := time.Since(start)

	if flagSimSave && snap.GameOver {
		if err := saveSimScore(snap.Score); err != nil {
			return err
		}
	}

	if codec != nil {
		data, err := codec.Encode(snap)
		if err != nil {
			return err
		}
		_, err = os.Stdout.Write(data)
		return err
	}

	fmt.Printf("Seed:      %d\n", seed)
	fmt.Printf("State:     %s\n", snap.State)
	fmt.Printf("Ticks:     %d\n", snap.Tick)
	fmt.Printf("Score:     %d\n", snap.Score)
	fmt.Printf("Coins:     %d\n", snap.CoinsCollected)
	fmt.Printf("Avoided:   %d\n", snap.ObstaclesAvoided)
	fmt.Printf("Distance:  %d\n", snap.Distance)
	fmt.Printf("Speed:     %.2f\n", snap.GameSpeed)
	fmt.Printf("Wall time: %s\n", elapsed.Round(time.Millisecond))
	return nil
}

// simulate runs one game from start until game over or maxTicks.
func simulate(cfg config.RunnerConfig, rt core.RuntimeConfig, maxTicks int, autopilot bool) (runner.Snapshot, error) {
	engine, err := runner.New(cfg, rt)
	if err != nil {
		return runner.Snapshot{}, err
	}
	loop := runner.NewLoop(engine, runner.LoopConfig{TickRate: rt.TickRate})
	loop.Send(runner.Input{Kind: runner.InputStart})

	snap := engine.Snapshot()
	jumping := false
	for i := 0; i < maxTicks && !snap.GameOver; i++ {
		if autopilot {
			want := shouldJump(snap, cfg.Field)
			if want != jumping {
				loop.Send(runner.KeyInput("Space", want))
				jumping = want
			}
		}
		snap = loop.Step(1)
	}
	return snap, nil
}

// shouldJump reports whether a ground obstacle is close enough ahead that a
// grounded player should take off now.
func shouldJump(snap runner.Snapshot, field config.FieldConfig) bool {
	p := snap.Player
	if !p.Grounded {
		return false
	}
	front := p.X + p.W
	reach := snap.GameSpeed * 8
	for _, o := range snap.Obstacles {
		onGround := o.Y+o.H >= field.GroundY-1
		if onGround && o.X >= front-1 && o.X-front <= reach {
			return true
		}
	}
	return false
}

func saveSimScore(score int) error {
	serverCfg, err := config.LoadServer("")
	if err != nil {
		return err
	}
	store, err := storage.Open(dbPath(serverCfg))
	if err != nil {
		return err
	}
	defer store.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_, err = store.SaveScore(ctx, score, flagSimName, "sim")
	return err
}
