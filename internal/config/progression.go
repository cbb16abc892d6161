package config

import (
	"fmt"
	"sort"
)

// NoFurtherLevel is returned by NextUnlockDistance once the last level is active.
const NoFurtherLevel = -1.0

// ObstaclePart is one collider of an obstacle template.
type ObstaclePart struct {
	Offset       float64 // From the template's leading edge
	Width        float64
	Bottom       float64 // Relative to the centerline
	Height       float64
	Destructible bool
}

// ObstacleTemplate is an immutable, authored obstacle group.
type ObstacleTemplate struct {
	Name  string
	Width float64
	Parts []ObstaclePart
}

// DifficultyLevel bundles a speed multiplier and the obstacles that may spawn
// once the runner has travelled UnlockDistance.
type DifficultyLevel struct {
	UnlockDistance  float64
	SpeedMultiplier float64
	Obstacles       []ObstacleTemplate
}

// ConfigError reports a content-authoring defect. It is not recoverable at
// the call site.
type ConfigError struct {
	Distance float64
	Reason   string
}

func (e *ConfigError) Error() string {
	if e.Reason != "" {
		return "config: " + e.Reason
	}
	return fmt.Sprintf("config: the given distance (%g) doesn't match any level", e.Distance)
}

// Progression holds difficulty levels ordered by unlock distance.
type Progression struct {
	distances []float64 // Ascending, unique
	levels    map[float64]DifficultyLevel
	dupes     []float64
}

// NewProgression sorts levels ascending by unlock distance. When two levels
// share a distance the later one in the input wins.
func NewProgression(levels []DifficultyLevel) *Progression {
	sorted := make([]DifficultyLevel, len(levels))
	copy(sorted, levels)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].UnlockDistance < sorted[j].UnlockDistance
	})

	p := &Progression{
		distances: make([]float64, 0, len(sorted)),
		levels:    make(map[float64]DifficultyLevel, len(sorted)),
	}
	for _, lvl := range sorted {
		if _, exists := p.levels[lvl.UnlockDistance]; exists {
			p.dupes = append(p.dupes, lvl.UnlockDistance)
		} else {
			p.distances = append(p.distances, lvl.UnlockDistance)
		}
		p.levels[lvl.UnlockDistance] = lvl
	}
	return p
}

// NextUnlockDistance returns the smallest unlock distance strictly greater
// than after, or NoFurtherLevel.
func (p *Progression) NextUnlockDistance(after float64) float64 {
	i := sort.Search(len(p.distances), func(i int) bool {
		return p.distances[i] > after
	})
	if i == len(p.distances) {
		return NoFurtherLevel
	}
	return p.distances[i]
}

// LevelFor returns the level unlocked exactly at distance. Callers must only
// pass values previously returned by NextUnlockDistance.
func (p *Progression) LevelFor(distance float64) (DifficultyLevel, error) {
	lvl, ok := p.levels[distance]
	if !ok {
		return DifficultyLevel{}, &ConfigError{Distance: distance}
	}
	return lvl, nil
}

// Levels returns the levels in progression order.
func (p *Progression) Levels() []DifficultyLevel {
	out := make([]DifficultyLevel, 0, len(p.distances))
	for _, d := range p.distances {
		out = append(out, p.levels[d])
	}
	return out
}

// Len returns the number of distinct levels.
func (p *Progression) Len() int {
	return len(p.distances)
}

// Duplicates returns unlock distances that appeared more than once in the input.
func (p *Progression) Duplicates() []float64 {
	return p.dupes
}

// LevelsFromConfig resolves authored levels against authored templates.
// An unknown template name or a non-positive width is a ConfigError.
func LevelsFromConfig(cfg DashConfig) ([]DifficultyLevel, error) {
	templates := make(map[string]ObstacleTemplate, len(cfg.Templates))
	for _, tc := range cfg.Templates {
		if tc.Width <= 0 {
			return nil, &ConfigError{Reason: fmt.Sprintf("template %q has non-positive width %g", tc.Name, tc.Width)}
		}
		parts := make([]ObstaclePart, len(tc.Parts))
		for i, pc := range tc.Parts {
			parts[i] = ObstaclePart(pc)
		}
		templates[tc.Name] = ObstacleTemplate{Name: tc.Name, Width: tc.Width, Parts: parts}
	}

	levels := make([]DifficultyLevel, 0, len(cfg.Levels))
	for _, lc := range cfg.Levels {
		lvl := DifficultyLevel{
			UnlockDistance:  lc.UnlockDistance,
			SpeedMultiplier: lc.SpeedMultiplier,
			Obstacles:       make([]ObstacleTemplate, 0, len(lc.Obstacles)),
		}
		for _, name := range lc.Obstacles {
			t, ok := templates[name]
			if !ok {
				return nil, &ConfigError{
					Distance: lc.UnlockDistance,
					Reason:   fmt.Sprintf("level at %g references unknown template %q", lc.UnlockDistance, name),
				}
			}
			lvl.Obstacles = append(lvl.Obstacles, t)
		}
		levels = append(levels, lvl)
	}
	if len(levels) == 0 {
		return nil, &ConfigError{Reason: "no difficulty levels defined"}
	}
	return levels, nil
}
