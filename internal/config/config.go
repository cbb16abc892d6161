// Package config provides YAML-based configuration loading and the
// distance-keyed difficulty progression for the dash runner.
package config

// DashConfig contains all configuration for a Dash Runner session.
type DashConfig struct {
	Runner    RunnerConfig     `yaml:"runner"`
	Physics   PhysicsConfig    `yaml:"physics"`
	Field     FieldConfig      `yaml:"field"`
	Continue  ContinueConfig   `yaml:"continue"`
	Templates []TemplateConfig `yaml:"templates"`
	Levels    []LevelConfig    `yaml:"levels"`
}

// RunnerConfig defines locomotion tuning for the runner.
type RunnerConfig struct {
	RunningSpeed        float64 `yaml:"running_speed"`         // World units per second
	SlideImpulse        float64 `yaml:"slide_impulse"`         // Impulse applied to the body on a jump
	DashLength          float64 `yaml:"dash_length"`           // Distance covered by one dash
	DashStrength        float64 `yaml:"dash_strength"`         // Speed multiplier while dashing
	MiddleThreshold     float64 `yaml:"middle_threshold"`      // |y| below which the runner counts as centered
	JumpGrace           float64 `yaml:"jump_grace"`            // Seconds a jump is held regardless of velocity
	JumpVelocityEpsilon float64 `yaml:"jump_velocity_epsilon"` // |vy| above which a jump is still in progress
	SmoothTime          float64 `yaml:"smooth_time"`           // Damping time constant for the visible y
	DeathDelay          float64 `yaml:"death_delay"`           // Seconds between death and game over
	HitboxWidth         float64 `yaml:"hitbox_width"`
	HitboxHeight        float64 `yaml:"hitbox_height"`
}

// PhysicsConfig defines the simulated body the runner follows vertically.
type PhysicsConfig struct {
	Gravity      float64 `yaml:"gravity"`
	MaxFallSpeed float64 `yaml:"max_fall_speed"`
}

// FieldConfig defines where obstacles spawn relative to the runner.
type FieldConfig struct {
	LookAhead float64 `yaml:"look_ahead"` // Distance ahead of the runner where new obstacles appear
}

// ContinueConfig limits when a dead runner may continue the same run.
// Zero fields take the defaults; a negative MaxPerRun disables continues.
type ContinueConfig struct {
	Window     float64 `yaml:"window"`      // Seconds the offer stays open after game over
	MaxPerRun  int     `yaml:"max_per_run"` // Continues allowed in one run
	RecentRuns int     `yaml:"recent_runs"` // Runs averaged, the current one included
	MinRatio   float64 `yaml:"min_ratio"`   // Distance over the recent average must exceed this
}

// Resolved returns c with zero fields replaced by the defaults.
func (c ContinueConfig) Resolved() ContinueConfig {
	def := DefaultContinueConfig()
	if c.Window <= 0 {
		c.Window = def.Window
	}
	if c.MaxPerRun == 0 {
		c.MaxPerRun = def.MaxPerRun
	}
	if c.RecentRuns <= 0 {
		c.RecentRuns = def.RecentRuns
	}
	if c.MinRatio <= 0 {
		c.MinRatio = def.MinRatio
	}
	return c
}

// TemplateConfig is an authored obstacle group.
type TemplateConfig struct {
	Name  string       `yaml:"name"`
	Width float64      `yaml:"width"`
	Parts []PartConfig `yaml:"parts"`
}

// PartConfig is one collider inside an obstacle group. Offsets are relative
// to the group's leading edge and the centerline.
type PartConfig struct {
	Offset       float64 `yaml:"offset"`
	Width        float64 `yaml:"width"`
	Bottom       float64 `yaml:"bottom"`
	Height       float64 `yaml:"height"`
	Destructible bool    `yaml:"destructible"`
}

// LevelConfig is an authored difficulty level; obstacles are template names.
type LevelConfig struct {
	UnlockDistance  float64  `yaml:"unlock_distance"`
	SpeedMultiplier float64  `yaml:"speed_multiplier"`
	Obstacles       []string `yaml:"obstacles"`
}

// DifficultyPreset represents a named difficulty preset.
type DifficultyPreset string

const (
	DifficultyEasy   DifficultyPreset = "easy"
	DifficultyNormal DifficultyPreset = "normal"
	DifficultyHard   DifficultyPreset = "hard"
)

// ParsePreset maps a CLI value to a preset. Unknown values yield "".
func ParsePreset(s string) DifficultyPreset {
	switch DifficultyPreset(s) {
	case DifficultyEasy, DifficultyNormal, DifficultyHard:
		return DifficultyPreset(s)
	default:
		return ""
	}
}

// speedScaleForPreset returns the factor applied to every level's speed multiplier.
func speedScaleForPreset(preset DifficultyPreset) float64 {
	switch preset {
	case DifficultyEasy:
		return 0.8
	case DifficultyHard:
		return 1.25
	default:
		return 1.0
	}
}
