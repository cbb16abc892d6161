package core

// RuntimeConfig contains configuration passed to the game at initialization.
// The game uses it to size the viewport and seed obstacle selection.
type RuntimeConfig struct {
	ScreenW  int   // Screen width in characters
	ScreenH  int   // Screen height in characters
	TickRate int   // Simulation ticks per second (default 60)
	Seed     int64 // RNG seed for deterministic obstacle selection
}

// DefaultConfig returns a RuntimeConfig with sensible defaults.
func DefaultConfig() RuntimeConfig {
	return RuntimeConfig{
		ScreenW:  80,
		ScreenH:  24,
		TickRate: 60,
		Seed:     0, // 0 means use current time in platform layer
	}
}

// TickDuration returns the simulated seconds covered by one tick.
func (c RuntimeConfig) TickDuration() float64 {
	if c.TickRate <= 0 {
		return 1.0 / 60.0
	}
	return 1.0 / float64(c.TickRate)
}

// Phase is the coarse lifecycle of a run as seen by the platform.
type Phase int

const (
	PhaseIdle     Phase = iota // Waiting for StartGame
	PhaseRunning               // Runner is alive and moving
	PhasePaused                // Run frozen by the player
	PhaseDying                 // Runner died, game over pending
	PhaseGameOver              // Run finished, may be revived
	PhaseResuming              // Revived, waiting for Continue
)

// String returns a human-readable name for the phase.
func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseRunning:
		return "running"
	case PhasePaused:
		return "paused"
	case PhaseDying:
		return "dying"
	case PhaseGameOver:
		return "game over"
	case PhaseResuming:
		return "resuming"
	default:
		return "unknown"
	}
}

// GameState represents the current state of a run.
// Returned by Game.State() to communicate status to the platform.
type GameState struct {
	Score        int     // Floored travelled distance
	Distance     float64 // Travelled distance since StartGame
	BestDistance float64 // Best distance known at the start of the run
	Phase        Phase
	GameOver     bool // Whether the run has ended
	Paused       bool // Whether the run is paused
}

// StepResult is returned by Game.Step() after each simulation tick.
type StepResult struct {
	State GameState
}
