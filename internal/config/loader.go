package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

const configFileName = "dash.yaml"

// LoadDash loads Dash Runner configuration.
// Search order: customPath -> ~/.dashrunner/configs/dash.yaml -> ./configs/dash.yaml -> embedded default
func LoadDash(customPath string) (DashConfig, error) {
	var cfg DashConfig

	// Try custom path first
	if customPath != "" {
		data, err := os.ReadFile(customPath)
		if err != nil {
			return cfg, fmt.Errorf("config: failed to read %s: %w", customPath, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("config: failed to parse %s: %w", customPath, err)
		}
		return cfg, nil
	}

	// Try user config directory
	if userCfgPath := userConfigPath(configFileName); userCfgPath != "" {
		if data, err := os.ReadFile(userCfgPath); err == nil {
			if err := yaml.Unmarshal(data, &cfg); err == nil {
				return cfg, nil
			}
		}
	}

	// Try local configs directory
	if data, err := os.ReadFile(filepath.Join("configs", configFileName)); err == nil {
		if err := yaml.Unmarshal(data, &cfg); err == nil {
			return cfg, nil
		}
	}

	// Use embedded default YAML
	if err := yaml.Unmarshal(defaultDashYAML, &cfg); err != nil {
		return DefaultDashConfig(), nil // Fallback to hardcoded if embed fails
	}
	return cfg, nil
}

// userConfigPath returns the path to a user config file, or empty if home is unavailable.
func userConfigPath(filename string) string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".dashrunner", "configs", filename)
}

// ApplyDashPreset modifies the config based on a difficulty preset.
// Speed multipliers of every level are scaled. Easy also lengthens the dash;
// hard halves the death delay and the continue window.
func ApplyDashPreset(cfg *DashConfig, preset DifficultyPreset) {
	scale := speedScaleForPreset(preset)
	for i := range cfg.Levels {
		cfg.Levels[i].SpeedMultiplier *= scale
	}

	switch preset {
	case DifficultyEasy:
		cfg.Runner.DashLength *= 1.5
	case DifficultyHard:
		cfg.Runner.DeathDelay *= 0.5
		cfg.Continue.Window = cfg.Continue.Resolved().Window * 0.5
	}
}
