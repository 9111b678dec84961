package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/subway-runner/internal/config"
	"github.com/vovakirdan/subway-runner/internal/core"
	"github.com/vovakirdan/subway-runner/internal/platform/tui"
	"github.com/vovakirdan/subway-runner/internal/storage"
)

var flagPlayerName string

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Play in the terminal",
	Long: `Start a game in the terminal.

Controls:
  Enter          - Start
  Space/Up/W     - Jump
  Left/A Right/D - Switch lanes
  1 2 3          - Invulnerability, speed boost, coin magnet
  P/Esc          - Pause
  R              - Restart
  Ctrl+S         - Save a screenshot to ~/.runner/screenshots
  Q/Ctrl+C       - Quit

Difficulty options:
  easy   - Start at lowest difficulty, progresses to max
  normal - Start at 30% difficulty, progresses to max
  hard   - Start at 70% difficulty, progresses to max
  fixed  - No progression, stays at config's initial level

Examples:
  runner play
  runner play --difficulty hard --name alice
  runner play --config ./my-runner.yaml --seed 42`,
	Args: cobra.NoArgs,
	RunE: runPlay,
}

func init() {
	playCmd.Flags().StringVar(&flagPlayerName, "name", os.Getenv("USER"), "Player name for saved scores")
}

func runPlay(cmd *cobra.Command, args []string) error {
	runnerCfg, err := loadRunnerConfig()
	if err != nil {
		return err
	}
	serverCfg, err := config.LoadServer("")
	if err != nil {
		return err
	}

	width, height := 80, 24 // Defaults
	if w, h, termErr := term.GetSize(int(os.Stdout.Fd())); termErr == nil {
		width = w
		height = h
	}

	opts := tui.ModelOptions{
		Runner: runnerCfg,
		Runtime: core.RuntimeConfig{
			ScreenW:  width,
			ScreenH:  height,
			TickRate: flagFPS,
			Seed:     flagSeed,
		},
		PlayerName: flagPlayerName,
		ClientAddr: "local",
	}

	store, err := storage.Open(dbPath(serverCfg))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not open scores database: %v\n", err)
		// Continue without storage - game still works
	} else {
		defer store.Close()
		opts.Scores = store
	}

	return tui.Run(opts)
}
