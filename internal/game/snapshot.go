package game

import (
	"github.com/vovakirdan/dash-runner/internal/runner"
)

// Snapshot is a serializable view of a run, sent to spectators.
type Snapshot struct {
	Tick      uint64             `json:"tick"`
	Phase     string             `json:"phase"`
	Distance  float64            `json:"distance"`
	Best      float64            `json:"best"`
	Level     int                `json:"level"`
	Speed     float64            `json:"speed"`
	Revives   int                `json:"revives"`
	Smashed   int                `json:"smashed"`
	Spawned   int                `json:"spawned"`   // Obstacles spawned since the run started
	Reference float64            `json:"reference"` // Spawn reference ahead of the runner
	Continue  float64            `json:"continue"`  // Seconds left on the continue offer, 0 if none
	Runner    runner.Snapshot    `json:"runner"`
	Obstacles []ObstacleSnapshot `json:"obstacles"`
}

// ObstacleSnapshot describes a live obstacle.
type ObstacleSnapshot struct {
	ID          int            `json:"id"`
	Template    string         `json:"template"`
	LeadingEdge float64        `json:"leading_edge"`
	Width       float64        `json:"width"`
	Parts       []PartSnapshot `json:"parts"`
}

// PartSnapshot describes one collider of an obstacle.
type PartSnapshot struct {
	X            float64 `json:"x"`
	Y            float64 `json:"y"`
	W            float64 `json:"w"`
	H            float64 `json:"h"`
	Destructible bool    `json:"destructible"`
	Standing     bool    `json:"standing"`
}

// Snapshot captures the current run.
func (g *Game) Snapshot(tick uint64) Snapshot {
	st := g.State()
	s := Snapshot{
		Tick:      tick,
		Phase:     st.Phase.String(),
		Distance:  st.Distance,
		Best:      g.best,
		Level:     g.levelIndex + 1,
		Speed:     g.CurrentSpeedCoefficient(),
		Revives:   g.revives,
		Smashed:   g.smashed,
		Spawned:   g.field.Spawned(),
		Reference: g.field.Reference(),
		Continue:  g.ContinueRemaining(),
		Runner:    g.runner.Snapshot(),
	}
	for _, in := range g.field.Instances() {
		o := ObstacleSnapshot{
			ID:          in.ID(),
			Template:    in.Template().Name,
			LeadingEdge: in.LeadingEdge(),
			Width:       in.Width(),
		}
		for i := 0; i < in.PartCount(); i++ {
			box, destructible, standing := in.Part(i)
			o.Parts = append(o.Parts, PartSnapshot{
				X: box.X, Y: box.Y, W: box.W, H: box.H,
				Destructible: destructible,
				Standing:     standing,
			})
		}
		s.Obstacles = append(s.Obstacles, o)
	}
	return s
}

// Revives returns how many times the runner was revived this run.
func (g *Game) Revives() int {
	return g.revives
}

// Smashed returns how many obstacle parts were smashed this run.
func (g *Game) Smashed() int {
	return g.smashed
}

// NewBest reports whether the finished run set a new best distance.
func (g *Game) NewBest() bool {
	return g.newBest
}
