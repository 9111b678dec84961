package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/subway-runner/internal/config"
	"github.com/vovakirdan/subway-runner/internal/platform/tui"
	"github.com/vovakirdan/subway-runner/internal/storage"
)

var (
	flagScoresLimit  int
	flagScoresOffset int
	flagScoresTUI    bool
)

var scoresCmd = &cobra.Command{
	Use:   "scores",
	Short: "Show the leaderboard",
	Long: `Display the top scores and overall statistics.

Examples:
  runner scores
  runner scores --limit 20 --offset 20
  runner scores --tui
  runner scores --db postgres://user:pw@db/runner`,
	Args: cobra.NoArgs,
	RunE: runScores,
}

func init() {
	scoresCmd.Flags().IntVar(&flagScoresLimit, "limit", 10, "Number of scores to show")
	scoresCmd.Flags().IntVar(&flagScoresOffset, "offset", 0, "Number of scores to skip")
	scoresCmd.Flags().BoolVar(&flagScoresTUI, "tui", false, "Open the interactive scoreboard")
}

func runScores(cmd *cobra.Command, args []string) error {
	serverCfg, err := config.LoadServer("")
	if err != nil {
		return err
	}

	store, err := storage.Open(dbPath(serverCfg))
	if err != nil {
		return fmt.Errorf("cannot open scores database: %w", err)
	}
	defer store.Close()

	if flagScoresTUI {
		width, height := 80, 24
		if w, h, termErr := term.GetSize(int(os.Stdout.Fd())); termErr == nil {
			width, height = w, h
		}
		return tui.RunScoreboard(store, width, height)
	}

	ctx := context.Background()
	records, err := store.TopScores(ctx, flagScoresLimit, flagScoresOffset)
	if err != nil {
		return fmt.Errorf("cannot retrieve scores: %w", err)
	}

	fmt.Println("High Scores - Subway Runner")
	fmt.Println()

	if len(records) == 0 {
		fmt.Println("No scores recorded yet.")
		fmt.Println()
		fmt.Println("Play 'runner play' to set the first high score!")
		return nil
	}

	fmt.Printf("  %-4s  %-20s  %-10s  %s\n", "Rank", "Player", "Score", "Date")
	fmt.Printf("  %-4s  %-20s  %-10s  %s\n", "----", "------", "-----", "----")

	for i, rec := range records {
		dateStr := rec.CreatedAt.Local().Format("2006-01-02 15:04")
		fmt.Printf("  %-4d  %-20s  %-10d  %s\n", flagScoresOffset+i+1, rec.PlayerName, rec.Score, dateStr)
	}

	fmt.Println()
	if stats, err := store.Stats(ctx); err == nil {
		fmt.Printf("Best: %d   Games: %d   Players: %d   Average: %.2f\n",
			stats.HighestScore, stats.TotalGames, stats.TotalPlayers, stats.AverageScore)
	}
	return nil
}
