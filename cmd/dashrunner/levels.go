package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/dash-runner/internal/config"
)

var flagDefaults bool

var levelsCmd = &cobra.Command{
	Use:   "levels [mode]",
	Short: "Validate and print the difficulty table",
	Long: `Load the gameplay config, resolve every level against its obstacle
templates and print the resulting progression. Exits non-zero if the
table is invalid.

Examples:
  dashrunner levels
  dashrunner levels hard
  dashrunner levels --config ./my-dash.yaml
  dashrunner levels --defaults > ~/.dashrunner/configs/dash.yaml`,
	Args: cobra.MaximumNArgs(1),
	Run:  runLevels,
}

func init() {
	levelsCmd.Flags().BoolVar(&flagDefaults, "defaults", false, "Print the built-in config YAML and exit")
}

func runLevels(_ *cobra.Command, args []string) {
	if flagDefaults {
		fmt.Print(string(config.DefaultYAML()))
		return
	}

	cfg, err := loadConfig()
	if err != nil {
		fail("%v", err)
	}

	if len(args) > 0 {
		mode, err := resolveMode(args[0])
		if err != nil {
			fail("%v", err)
		}
		config.ApplyDashPreset(&cfg, mode.Preset)
		fmt.Printf("Difficulty table - %s (%s)\n", mode.Title, mode.Preset)
	} else {
		fmt.Println("Difficulty table")
	}
	fmt.Println()

	levels, err := config.LevelsFromConfig(cfg)
	if err != nil {
		fail("%v", err)
	}
	prog := config.NewProgression(levels)

	fmt.Printf("  %-5s  %-8s  %-6s  %s\n", "Level", "Unlock", "Speed", "Obstacles")
	fmt.Printf("  %-5s  %-8s  %-6s  %s\n", "-----", "------", "-----", "---------")
	for i, lvl := range prog.Levels() {
		names := make([]string, len(lvl.Obstacles))
		for j, t := range lvl.Obstacles {
			names[j] = t.Name
		}
		fmt.Printf("  %-5d  %-8g  x%-5.2f  %s\n", i+1, lvl.UnlockDistance, lvl.SpeedMultiplier, strings.Join(names, ", "))
	}

	if dupes := prog.Duplicates(); len(dupes) > 0 {
		fmt.Println()
		fmt.Printf("Warning: duplicate unlock distances %v; the last level listed at each wins\n", dupes)
	}
}
