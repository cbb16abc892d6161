package main

import (
	"context"
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/dash-runner/internal/config"
	"github.com/vovakirdan/dash-runner/internal/game"
	"github.com/vovakirdan/dash-runner/internal/platform/spectate"
	"github.com/vovakirdan/dash-runner/internal/platform/tui"
	"github.com/vovakirdan/dash-runner/internal/registry"
	"github.com/vovakirdan/dash-runner/internal/storage"
)

var (
	flagDifficulty string
	flagSpectate   string
)

var playCmd = &cobra.Command{
	Use:   "play [mode]",
	Short: "Play a mode",
	Long: `Start a run in the specified mode (default: classic).

Controls:
  Up/W/K       - Jump up (or counter-jump back down)
  Down/S/J     - Jump down (or counter-jump back up)
  Space        - Dash (smashes breakable obstacles)
  Enter        - Start
  C            - Continue after a crash (once per run, good runs only)
  P            - Pause
  R            - Restart (after game over)
  Q/Ctrl+C     - Quit

Difficulty options:
  easy   - Slower levels and longer dashes
  normal - The authored level table
  hard   - Faster levels with a shorter death delay and continue window

Examples:
  dashrunner play
  dashrunner play hard
  dashrunner play --difficulty easy
  dashrunner play --config ./my-dash.yaml
  dashrunner play --spectate :8080`,
	Args: cobra.MaximumNArgs(1),
	Run:  runPlay,
}

func init() {
	playCmd.Flags().StringVar(&flagDifficulty, "difficulty", "", "Difficulty preset overriding the mode's: easy, normal, hard")
	playCmd.Flags().StringVar(&flagSpectate, "spectate", "", "Stream the run to WebSocket spectators on this address (e.g. :8080)")
}

// resolveMode looks up a mode and applies the --difficulty override.
func resolveMode(id string) (registry.Mode, error) {
	mode, err := registry.Lookup(id)
	if err != nil {
		return mode, err
	}
	if flagDifficulty != "" {
		preset := config.ParsePreset(flagDifficulty)
		if preset == "" {
			return mode, fmt.Errorf("unknown difficulty %q", flagDifficulty)
		}
		mode.Preset = preset
	}
	return mode, nil
}

// startSpectating serves a spectator hub on addr until the returned stop
// function is called.
func startSpectating(addr string, logger *log.Logger) (*spectate.Hub, func()) {
	ctx, cancel := context.WithCancel(context.Background())
	hub := spectate.NewHub(logger)
	go func() {
		if err := spectate.ListenAndServe(ctx, addr, hub); err != nil {
			logger.Error("spectator endpoint failed", "err", err)
		}
	}()
	return hub, cancel
}

func runPlay(_ *cobra.Command, args []string) {
	modeID := game.DefaultMode
	if len(args) > 0 {
		modeID = args[0]
	}

	mode, err := resolveMode(modeID)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		fmt.Fprintln(os.Stderr, "Run 'dashrunner modes' to see available modes.")
		os.Exit(1)
	}

	cfg, err := loadConfig()
	if err != nil {
		fail("%v", err)
	}

	logger, closeLog, err := newLogger()
	if err != nil {
		fail("%v", err)
	}
	defer closeLog()

	// Open run storage
	store, err := storage.Open(flagDBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not open runs database: %v\n", err)
		// Continue without storage - the run still works
		store = nil
	}

	deps := tui.RunDeps{
		Config: cfg,
		Store:  store,
		Logger: logger,
	}
	if flagSpectate != "" {
		hub, stop := startSpectating(flagSpectate, logger)
		defer stop()
		deps.Spectators = hub
	}

	runErr := tui.Run(mode, deps, runtimeConfig())

	// Close store before potential exit
	if store != nil {
		store.Close()
	}

	if runErr != nil {
		fail("running game: %v", runErr)
	}
}
