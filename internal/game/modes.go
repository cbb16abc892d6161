package game

import (
	"github.com/vovakirdan/dash-runner/internal/config"
	"github.com/vovakirdan/dash-runner/internal/registry"
)

// DefaultMode is played when no mode is named.
const DefaultMode = "classic"

// NewForMode creates a game tuned by the mode's preset. cfg is copied; the
// caller's levels are not modified.
func NewForMode(m registry.Mode, cfg config.DashConfig, opts ...Option) *Game {
	cfg.Levels = append([]config.LevelConfig(nil), cfg.Levels...)
	if m.Preset != "" {
		config.ApplyDashPreset(&cfg, m.Preset)
	}
	opts = append([]Option{WithConfig(cfg), WithIdentity(m.ID, m.Title)}, opts...)
	return New(opts...)
}

// Register the modes with the registry
func init() {
	registry.Register(registry.Mode{
		ID:          "classic",
		Title:       "Dash Runner",
		Description: "The default level table",
		Preset:      config.DifficultyNormal,
	})
	registry.Register(registry.Mode{
		ID:          "easy",
		Title:       "Dash Runner (easy)",
		Description: "Slower levels and longer dashes",
		Preset:      config.DifficultyEasy,
	})
	registry.Register(registry.Mode{
		ID:          "hard",
		Title:       "Dash Runner (hard)",
		Description: "Faster levels with a shorter death delay and continue window",
		Preset:      config.DifficultyHard,
	})
}
