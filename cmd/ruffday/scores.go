package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/ruff-day/internal/platform/tui"
	"github.com/vovakirdan/ruff-day/internal/storage"
)

var (
	flagPlain bool
	flagLimit int
)

var scoresCmd = &cobra.Command{
	Use:   "scores",
	Short: "Show recorded rounds",
	Long: `Browse recorded rounds, best first. Tab switches between all rounds,
wins and losses.

With --plain the top rounds are printed as text instead.

Examples:
  ruffday scores
  ruffday scores --plain --limit 5`,
	Args: cobra.NoArgs,
	Run:  runScores,
}

func init() {
	scoresCmd.Flags().BoolVar(&flagPlain, "plain", false, "Print scores as text")
	scoresCmd.Flags().IntVar(&flagLimit, "limit", 10, "Number of rounds to print with --plain")
}

func runScores(_ *cobra.Command, _ []string) {
	store, err := storage.Open(flagDBPath)
	if err != nil {
		fatalf("opening scores database: %v", err)
	}
	defer store.Close()

	if !flagPlain {
		width, height := 80, 24
		if w, h, termErr := term.GetSize(int(os.Stdout.Fd())); termErr == nil {
			width = w
			height = h
		}
		if err := tui.RunScoreboard(store, storage.GameID, width, height); err != nil {
			store.Close()
			fatalf("running scoreboard: %v", err)
		}
		return
	}

	scores, err := store.TopScores(storage.GameID, flagLimit)
	if err != nil {
		store.Close()
		fatalf("retrieving scores: %v", err)
	}

	fmt.Println("High Scores - Ruff Day")
	fmt.Println()

	if len(scores) == 0 {
		fmt.Println("No scores recorded yet.")
		fmt.Println()
		fmt.Println("Play 'ruffday' to set the first high score!")
		return
	}

	// Print header
	fmt.Printf("  %-4s  %-6s  %-7s  %s\n", "Rank", "Score", "Outcome", "Date")
	fmt.Printf("  %-4s  %-6s  %-7s  %s\n", "----", "-----", "-------", "----")

	for i, entry := range scores {
		dateStr := entry.CreatedAt.Format("2006-01-02 15:04")
		fmt.Printf("  %-4d  %-6d  %-7s  %s\n", i+1, entry.Score, entry.Outcome, dateStr)
	}

	fmt.Println()
	if stats, err := store.GetGameStats(storage.GameID); err == nil {
		fmt.Printf("Best: %d  Rounds: %d  Wins: %d\n", stats.HighScore, stats.GamesCount, stats.Wins)
	}
}
