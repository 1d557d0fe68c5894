package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/ruff-day/internal/storage"
)

var flagKeepHistory bool

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Clear the high score and round history",
	Long: `Delete the stored high score and every recorded round.

The in-game reset key (Ctrl+R) clears only the high score; this command
also wipes the round history unless --keep-history is set.

Examples:
  ruffday reset
  ruffday reset --keep-history`,
	Args: cobra.NoArgs,
	Run:  runReset,
}

func init() {
	resetCmd.Flags().BoolVar(&flagKeepHistory, "keep-history", false, "Clear only the high score")
}

func runReset(_ *cobra.Command, _ []string) {
	store, err := storage.Open(flagDBPath)
	if err != nil {
		fatalf("opening scores database: %v", err)
	}
	defer store.Close()

	if err := store.DeleteAll(); err != nil {
		store.Close()
		fatalf("%v", err)
	}
	if flagKeepHistory {
		fmt.Println("High score cleared.")
		return
	}

	if err := store.ClearScores(storage.GameID); err != nil {
		store.Close()
		fatalf("%v", err)
	}
	fmt.Println("High score and round history cleared.")
}
