package config

import (
	_ "embed"
)

//go:embed defaults/dash.yaml
var defaultDashYAML []byte

// DefaultDashConfig returns the hardcoded Dash Runner configuration, used
// when even the embedded YAML cannot be parsed.
func DefaultDashConfig() DashConfig {
	return DashConfig{
		Runner: RunnerConfig{
			RunningSpeed:        15,
			SlideImpulse:        12,
			DashLength:          20,
			DashStrength:        2,
			MiddleThreshold:     0.1,
			JumpGrace:           0.5,
			JumpVelocityEpsilon: 0.2,
			SmoothTime:          0.033, // Two physics steps at 60Hz
			DeathDelay:          1.0,
			HitboxWidth:         1.5,
			HitboxHeight:        1.0,
		},
		Physics: PhysicsConfig{
			Gravity:      30,
			MaxFallSpeed: 40,
		},
		Field: FieldConfig{
			LookAhead: 60,
		},
		Continue: DefaultContinueConfig(),
		Templates: []TemplateConfig{
			{Name: "crate", Width: 10, Parts: []PartConfig{
				{Offset: 4, Width: 2, Bottom: -0.75, Height: 1.5, Destructible: true},
			}},
			{Name: "high-bar", Width: 12, Parts: []PartConfig{
				{Offset: 5, Width: 2, Bottom: 1.0, Height: 3.0},
			}},
			{Name: "low-bar", Width: 12, Parts: []PartConfig{
				{Offset: 5, Width: 2, Bottom: -4.0, Height: 3.0},
			}},
		},
		Levels: []LevelConfig{
			{UnlockDistance: 0, SpeedMultiplier: 1.0, Obstacles: []string{"crate", "high-bar"}},
			{UnlockDistance: 250, SpeedMultiplier: 1.2, Obstacles: []string{"crate", "high-bar", "low-bar"}},
		},
	}
}

// DefaultContinueConfig allows one continue per run, offered for four
// seconds to runs better than 0.8 of the last five.
func DefaultContinueConfig() ContinueConfig {
	return ContinueConfig{
		Window:     4,
		MaxPerRun:  1,
		RecentRuns: 5,
		MinRatio:   0.8,
	}
}

// DefaultYAML returns the embedded default configuration file.
func DefaultYAML() []byte {
	return defaultDashYAML
}
