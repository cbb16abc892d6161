package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/dash-runner/internal/game"
	"github.com/vovakirdan/dash-runner/internal/registry"
	"github.com/vovakirdan/dash-runner/internal/storage"
)

var (
	flagLimit int
	flagClear bool
)

var scoresCmd = &cobra.Command{
	Use:   "scores [mode]",
	Short: "Show the longest runs for a mode",
	Long: `Display the longest runs and the best distance for the specified mode
(default: classic).

Examples:
  dashrunner scores
  dashrunner scores hard --limit 20
  dashrunner scores easy --clear`,
	Args: cobra.MaximumNArgs(1),
	Run:  runScores,
}

func init() {
	scoresCmd.Flags().IntVar(&flagLimit, "limit", 10, "Number of runs to show")
	scoresCmd.Flags().BoolVar(&flagClear, "clear", false, "Delete every run and the record for the mode")
}

func runScores(_ *cobra.Command, args []string) {
	modeID := game.DefaultMode
	if len(args) > 0 {
		modeID = args[0]
	}

	mode, err := registry.Lookup(modeID)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		fmt.Fprintln(os.Stderr, "Run 'dashrunner modes' to see available modes.")
		os.Exit(1)
	}

	store, err := storage.Open(flagDBPath)
	if err != nil {
		fail("opening runs database: %v", err)
	}
	defer store.Close()

	if flagClear {
		if err := store.ClearRuns(mode.ID); err != nil {
			fail("clearing runs: %v", err)
		}
		fmt.Printf("Cleared runs for %s.\n", mode.Title)
		return
	}

	runs, err := store.TopRuns(mode.ID, flagLimit)
	if err != nil {
		fail("retrieving runs: %v", err)
	}

	fmt.Printf("Longest Runs - %s\n", mode.Title)
	fmt.Println()

	if len(runs) == 0 {
		fmt.Println("No runs recorded yet.")
		fmt.Println()
		fmt.Printf("Play 'dashrunner play %s' to set the first record!\n", mode.ID)
		return
	}

	// Print header
	fmt.Printf("  %-4s  %-8s  %-7s  %-7s  %s\n", "Rank", "Distance", "Smashed", "Revives", "Date")
	fmt.Printf("  %-4s  %-8s  %-7s  %-7s  %s\n", "----", "--------", "-------", "-------", "----")

	for i, r := range runs {
		fmt.Printf("  %-4d  %-8d  %-7d  %-7d  %s\n",
			i+1, r.Score(), r.Smashed, r.Revives, r.CreatedAt.Format("2006-01-02 15:04"))
	}

	fmt.Println()
	if best, err := store.BestDistance(mode.ID); err == nil {
		fmt.Printf("Best: %d\n", int(best))
	}
}
