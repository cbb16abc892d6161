package tui

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/vovakirdan/dash-runner/internal/config"
	"github.com/vovakirdan/dash-runner/internal/core"
	"github.com/vovakirdan/dash-runner/internal/game"
	"github.com/vovakirdan/dash-runner/internal/registry"
	"github.com/vovakirdan/dash-runner/internal/storage"
)

const (
	countdownSeconds = 3
	spectateEvery    = 3 // Broadcast every Nth tick
	footerHeight     = 1
)

// Broadcaster receives run snapshots for spectators.
type Broadcaster interface {
	Broadcast(v any) error
}

// snapshotter is implemented by games that can describe themselves to spectators.
type snapshotter interface {
	Snapshot(tick uint64) game.Snapshot
}

// runStats is implemented by games that count smashes and revives.
type runStats interface {
	Revives() int
	Smashed() int
}

// RunDeps holds what a run needs besides its mode.
type RunDeps struct {
	Config     config.DashConfig
	Store      *storage.Store
	Logger     *log.Logger
	Spectators Broadcaster
}

// NewRun creates the game for mode wired to deps, with a cue sink attached.
func NewRun(mode registry.Mode, deps RunDeps) (registry.Game, *Cues) {
	cues := NewCues()
	opts := []game.Option{
		game.WithTriggers(cues),
		game.WithEffects(cues),
		game.WithLogger(deps.Logger),
	}
	if deps.Store != nil {
		opts = append(opts, game.WithStore(deps.Store.Records(mode.ID)))
	}
	return game.NewForMode(mode, deps.Config, opts...), cues
}

// GameModel is the Bubble Tea model for a run, from countdown to game over.
type GameModel struct {
	game       registry.Game
	cues       *Cues
	screen     *core.Screen
	store      *storage.Store
	spectators Broadcaster
	logger     *log.Logger
	config     core.RuntimeConfig
	inputFrame core.InputFrame
	gameState  core.GameState
	keyMapper  *KeyMapper
	help       help.Model
	countdown  int // Ticks left before the run starts
	tick       uint64
	standalone bool // Back quits instead of returning to a menu
	quitting   bool
	backToMenu bool
	runSaved   bool
}

// NewGameModel creates a model for the given run.
func NewGameModel(g registry.Game, cues *Cues, deps RunDeps, cfg core.RuntimeConfig) GameModel {
	// Use time-based seed if not specified
	if cfg.Seed == 0 {
		cfg.Seed = time.Now().UnixNano()
	}
	if cues == nil {
		cues = NewCues()
	}
	logger := deps.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}

	return GameModel{
		game:       g,
		cues:       cues,
		screen:     core.NewScreen(cfg.ScreenW, max(cfg.ScreenH-footerHeight, 1)),
		store:      deps.Store,
		spectators: deps.Spectators,
		logger:     logger,
		config:     cfg,
		inputFrame: core.NewInputFrame(),
		keyMapper:  NewKeyMapper(),
		help:       help.New(),
	}
}

// Init initializes the run.
func (m GameModel) Init() tea.Cmd {
	m.game.Reset(m.config)
	// Note: gameState will be set on first tick (value receiver limitation)
	return tickCmd(m.config.TickRate)
}

// Update handles messages and updates the model state.
func (m GameModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.config.ScreenW = msg.Width
		m.config.ScreenH = msg.Height
		m.screen.Resize(msg.Width, max(msg.Height-footerHeight, 1))
		m.help.Width = msg.Width
		return m, nil

	case TickMsg:
		return m.handleTick()
	}

	return m, nil
}

// handleKey processes keyboard input.
func (m GameModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	keys := m.keyMapper.Keys()

	switch {
	case key.Matches(msg, keys.Screenshot):
		m.saveScreenshot()
		return m, nil
	case key.Matches(msg, keys.Back):
		if m.gameState.GameOver || m.gameState.Paused || m.gameState.Phase == core.PhaseIdle {
			if m.standalone {
				m.quitting = true
				return m, tea.Quit
			}
			m.backToMenu = true
		}
		return m, nil
	}

	if m.keyMapper.MapKeyToFrame(msg, &m.inputFrame) {
		m.quitting = true
		return m, tea.Quit
	}
	return m, nil
}

// handleTick processes simulation ticks.
func (m GameModel) handleTick() (tea.Model, tea.Cmd) {
	m.tick++
	m.cues.Tick()

	// Check for restart
	if m.inputFrame.Has(core.ActionRestart) && m.gameState.GameOver {
		m.config.Seed = time.Now().UnixNano()
		m.game.Reset(m.config)
		m.gameState = m.game.State()
		m.runSaved = false
		m.countdown = 0
		m.inputFrame.Clear()
		return m, tickCmd(m.config.TickRate)
	}

	m.applyCountdown()

	result := m.game.Step(m.inputFrame)
	m.gameState = result.State

	// Save the run on game over (once per death)
	if m.gameState.GameOver && !m.runSaved {
		m.saveRun()
		m.runSaved = true
	} else if !m.gameState.GameOver {
		m.runSaved = false
	}

	if m.spectators != nil && m.tick%spectateEvery == 0 {
		if s, ok := m.game.(snapshotter); ok {
			//nolint:errcheck // Spectators are best-effort
			m.spectators.Broadcast(s.Snapshot(m.tick))
		}
	}

	// Clear input for next frame
	m.inputFrame.Clear()

	return m, tickCmd(m.config.TickRate)
}

// applyCountdown holds the start action back until the countdown is over.
// A revived run waiting to resume gets the same countdown on its own.
func (m *GameModel) applyCountdown() {
	start := m.inputFrame.Has(core.ActionStart)
	delete(m.inputFrame.Actions, core.ActionStart)

	if m.countdown == 0 && (start && m.gameState.Phase == core.PhaseIdle || m.gameState.Phase == core.PhaseResuming) {
		m.countdown = countdownSeconds * max(m.config.TickRate, 1)
	}
	if m.countdown > 0 {
		m.countdown--
		if m.countdown == 0 {
			m.inputFrame.Set(core.ActionStart)
		}
	}
}

// saveRun records the finished run.
func (m *GameModel) saveRun() {
	entry := storage.RunEntry{
		Mode:     m.game.ID(),
		Distance: m.gameState.Distance,
	}
	if s, ok := m.game.(runStats); ok {
		entry.Smashed = s.Smashed()
		entry.Revives = s.Revives()
	}
	m.logger.Info("run finished", "mode", entry.Mode, "distance", m.gameState.Score,
		"best", m.gameState.BestDistance, "smashed", entry.Smashed, "revives", entry.Revives)

	if m.store == nil || m.gameState.Score <= 0 {
		return
	}
	if _, err := m.store.SaveRun(entry); err != nil {
		m.logger.Warn("cannot save run", "err", err)
	}
}

// saveScreenshot saves the current screen to a file.
func (m *GameModel) saveScreenshot() {
	m.game.Render(m.screen)

	dir := filepath.Join(os.Getenv("HOME"), ".dashrunner", "screenshots")
	//nolint:errcheck // Best-effort directory creation
	os.MkdirAll(dir, 0o755)

	timestamp := time.Now().Format("20060102_150405")
	path := filepath.Join(dir, fmt.Sprintf("%s_%s.txt", m.game.ID(), timestamp))

	//nolint:errcheck // Best-effort save, game continues regardless
	os.WriteFile(path, []byte(m.screen.String()), 0o600)
}

// View renders the current state to a string for display.
func (m GameModel) View() string {
	if m.quitting {
		return ""
	}

	m.game.Render(m.screen)
	if m.countdown > 0 {
		secs := (m.countdown + m.config.TickRate - 1) / max(m.config.TickRate, 1)
		drawCountdown(m.screen, secs)
	}

	return RenderScreen(m.screen) + "\n" + renderFooter(m.cues, m.help, m.keyMapper.Keys(), m.screen.Width())
}

// IsQuitting returns true if user requested to quit entirely.
func (m GameModel) IsQuitting() bool {
	return m.quitting
}

// BackToMenu returns true if user requested to go back to menu.
func (m GameModel) BackToMenu() bool {
	return m.backToMenu
}

// Run starts a standalone Bubble Tea program for one mode.
func Run(mode registry.Mode, deps RunDeps, cfg core.RuntimeConfig) error {
	g, cues := NewRun(mode, deps)
	model := NewGameModel(g, cues, deps, cfg)
	model.standalone = true

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(), // Use alternate screen buffer
	)

	_, err := p.Run()
	return err
}
