package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/dash-runner/internal/game"
	"github.com/vovakirdan/dash-runner/internal/registry"
)

var modesCmd = &cobra.Command{
	Use:     "modes",
	Aliases: []string{"list"},
	Short:   "List all available modes",
	Long:    `Shows a list of all registered modes and their difficulty presets.`,
	Run:     runModes,
}

func runModes(_ *cobra.Command, _ []string) {
	modes := registry.List()

	if len(modes) == 0 {
		fmt.Println("No modes available.")
		return
	}

	fmt.Println("Available modes:")
	fmt.Println()

	// Calculate column widths
	maxIDLen := 2 // "ID" header
	for _, m := range modes {
		if len(m.ID) > maxIDLen {
			maxIDLen = len(m.ID)
		}
	}

	// Print header
	fmt.Printf("  %-*s  %-8s  %s\n", maxIDLen, "ID", "Preset", "Description")
	fmt.Printf("  %-*s  %-8s  %s\n", maxIDLen, "--", "------", "-----------")

	for _, m := range modes {
		marker := ""
		if m.ID == game.DefaultMode {
			marker = " (default)"
		}
		fmt.Printf("  %-*s  %-8s  %s%s\n", maxIDLen, m.ID, m.Preset, m.Description, marker)
	}

	fmt.Println()
	fmt.Println("Run 'dashrunner play <id>' to play a mode.")
}
