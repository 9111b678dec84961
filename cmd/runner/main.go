// runner is an endless subway runner: a fixed-step game engine with a
// terminal front end, an HTTP/WebSocket API and an SSH play server.
//
// Usage:
//
//	runner play              - Play in the terminal
//	runner serve             - Start the HTTP API and WebSocket play server
//	runner ssh               - Start the SSH play server
//	runner scores            - Show the leaderboard
//	runner sim               - Run a headless game and print the result
//	runner schema            - Print the JSON Schema of render snapshots
//	runner formats           - List snapshot wire formats
//
// Global flags:
//
//	--fps <rate>          - Set tick rate (default: 60)
//	--seed <value>        - Set RNG seed for reproducible gameplay
//	--db <dsn>            - SQLite path or postgres:// URL (default: ~/.runner/scores.db)
//	--config <path>       - Runner config file (YAML or TOML)
//	--difficulty <preset> - easy, normal, hard or fixed
//	--log-level <level>   - debug, info, warn or error
package main

import (
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	// Register snapshot codecs
	_ "github.com/vovakirdan/subway-runner/internal/codec"
	"github.com/vovakirdan/subway-runner/internal/config"
)

var (
	// Global flags
	flagFPS        int
	flagSeed       int64
	flagDBPath     string
	flagConfig     string
	flagDifficulty string
	flagLogLevel   string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "runner",
	Short: "Subway Runner - an endless runner for terminals and browsers",
	Long: `Subway Runner is an endless runner: dodge barriers, trains and signs,
collect coins, and survive as the world speeds up.

Available commands:
  play     - Play in the terminal
  serve    - HTTP API and WebSocket play server
  ssh      - SSH play server
  scores   - View the leaderboard
  sim      - Headless simulation
  schema   - Snapshot JSON Schema
  formats  - Snapshot wire formats

Examples:
  runner play --difficulty hard
  runner serve --addr :8000
  runner ssh --addr :2222
  runner scores --limit 20
  runner sim --seed 42 --ticks 3600`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		level, err := log.ParseLevel(flagLogLevel)
		if err != nil {
			return fmt.Errorf("invalid --log-level %q: %w", flagLogLevel, err)
		}
		log.SetLevel(level)
		if flagDifficulty != "" && config.ParsePreset(flagDifficulty) == "" {
			return fmt.Errorf("invalid --difficulty %q: expected easy, normal, hard or fixed", flagDifficulty)
		}
		return nil
	},
}

func init() {
	// Global persistent flags
	rootCmd.PersistentFlags().IntVar(&flagFPS, "fps", 60, "Tick rate (simulation steps per second)")
	rootCmd.PersistentFlags().Int64Var(&flagSeed, "seed", 0, "RNG seed (0 = random based on time)")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "", "SQLite path or postgres:// URL (default from server config)")
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to runner config (YAML or TOML)")
	rootCmd.PersistentFlags().StringVar(&flagDifficulty, "difficulty", "", "Difficulty preset: easy, normal, hard, fixed")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "info", "Log level: debug, info, warn, error")

	// Add subcommands
	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(sshCmd)
	rootCmd.AddCommand(scoresCmd)
	rootCmd.AddCommand(simCmd)
	rootCmd.AddCommand(schemaCmd)
	rootCmd.AddCommand(formatsCmd)
}

// loadRunnerConfig loads the runner config and applies the difficulty preset.
func loadRunnerConfig() (config.RunnerConfig, error) {
	cfg, err := config.LoadRunner(flagConfig)
	if err != nil {
		return cfg, err
	}
	config.ApplyRunnerPreset(&cfg, config.ParsePreset(flagDifficulty))
	return cfg, nil
}

// dbPath returns --db when given, otherwise the server config default.
func dbPath(serverCfg config.ServerConfig) string {
	if flagDBPath != "" {
		return flagDBPath
	}
	return serverCfg.DBPath
}

// newLogger returns a timestamped logger with the given prefix.
func newLogger(prefix string) *log.Logger {
	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Prefix:          prefix,
	})
	logger.SetLevel(log.GetLevel())
	return logger
}
