// dashrunner is an endless dash runner for the terminal.
//
// Usage:
//
//	dashrunner modes             - List available modes
//	dashrunner play [mode]       - Play a mode
//	dashrunner menu              - Start menu to pick modes interactively
//	dashrunner serve             - Start SSH server for remote play
//	dashrunner scores [mode]     - Show the longest runs for a mode
//	dashrunner levels            - Validate and print the difficulty table
//
// Global flags:
//
//	--fps <rate>    - Set tick rate (default: 60)
//	--seed <value>  - Set RNG seed for reproducible obstacle fields
//	--db <path>     - Set database path (default: ~/.dashrunner/dashrunner.db)
//	--config <path> - Use a custom gameplay config YAML
//	--log <path>    - Write logs to a file
package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/dash-runner/internal/config"
	"github.com/vovakirdan/dash-runner/internal/core"
	"github.com/vovakirdan/dash-runner/internal/game"
)

const defaultLogPath = "~/.dashrunner/dashrunner.log"

var (
	// Global flags
	flagFPS    int
	flagSeed   int64
	flagDBPath string
	flagConfig string
	flagLog    string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "dashrunner",
	Short: "Dash Runner - an endless runner in your terminal",
	Long: `Dash Runner is a terminal endless runner. Slide up or down to jump,
tap space to dash through breakable obstacles, and see how far you get.

Available commands:
  modes    - Show all available modes
  play     - Play a mode directly
  menu     - Interactive mode picker menu
  serve    - Start SSH server for remote play
  scores   - View the longest runs
  levels   - Validate and print the difficulty table

Examples:
  dashrunner play
  dashrunner play hard
  dashrunner menu
  dashrunner serve --ssh :2222
  dashrunner scores classic`,
}

func init() {
	// Global persistent flags
	rootCmd.PersistentFlags().IntVar(&flagFPS, "fps", 60, "Tick rate (frames per second)")
	rootCmd.PersistentFlags().Int64Var(&flagSeed, "seed", 0, "RNG seed (0 = random based on time)")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "~/.dashrunner/dashrunner.db", "Path to runs database")
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to custom gameplay config YAML")
	rootCmd.PersistentFlags().StringVar(&flagLog, "log", "", "Write logs to this file (bare --log uses "+defaultLogPath+")")
	rootCmd.PersistentFlags().Lookup("log").NoOptDefVal = defaultLogPath

	// Add subcommands
	rootCmd.AddCommand(modesCmd)
	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(menuCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(scoresCmd)
	rootCmd.AddCommand(levelsCmd)
}

// loadConfig loads the gameplay config and rejects one whose levels cannot
// be resolved, so a broken table fails here instead of mid-run.
func loadConfig() (config.DashConfig, error) {
	cfg, err := config.LoadDash(flagConfig)
	if err != nil {
		return cfg, err
	}
	if _, err := config.LevelsFromConfig(cfg); err != nil {
		if game.IsConfigError(err) {
			return cfg, fmt.Errorf("invalid difficulty table: %w", err)
		}
		return cfg, err
	}
	return cfg, nil
}

// newLogger returns a file logger when --log is set. The terminal belongs to
// the TUI, so without --log nothing is logged.
func newLogger() (*log.Logger, func(), error) {
	if flagLog == "" {
		return log.New(io.Discard), func() {}, nil
	}

	path := flagLog
	if path[0] == '~' {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, nil, fmt.Errorf("cannot get home directory: %w", err)
		}
		path = filepath.Join(home, path[1:])
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, nil, fmt.Errorf("cannot create log directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("cannot open log file: %w", err)
	}

	logger := log.NewWithOptions(f, log.Options{
		ReportTimestamp: true,
		Prefix:          "dashrunner",
		Level:           log.DebugLevel,
	})
	return logger, func() { f.Close() }, nil
}

// runtimeConfig builds the runtime config from the terminal size and global flags.
func runtimeConfig() core.RuntimeConfig {
	width, height := 80, 24 // Defaults
	if w, h, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
		width = w
		height = h
	}

	return core.RuntimeConfig{
		ScreenW:  width,
		ScreenH:  height,
		TickRate: flagFPS,
		Seed:     flagSeed,
	}
}

// fail prints an error message and exits.
func fail(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "Error: "+format+"\n", args...)
	os.Exit(1)
}
