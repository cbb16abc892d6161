// Package game coordinates a dash run: it owns the difficulty progression,
// the obstacle field, the runner with its body and the collision resolver,
// and advances them once per tick from the travelled distance.
package game

import (
	"errors"
	"io"
	"math"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/dash-runner/internal/collision"
	"github.com/vovakirdan/dash-runner/internal/config"
	"github.com/vovakirdan/dash-runner/internal/core"
	"github.com/vovakirdan/dash-runner/internal/obstacles"
	"github.com/vovakirdan/dash-runner/internal/physics"
	"github.com/vovakirdan/dash-runner/internal/runner"
)

// RecordStore persists the best distance ever run and remembers recent runs.
type RecordStore interface {
	BestDistance() (float64, error)
	// SaveBestDistance stores d if it beats the stored record and reports
	// whether it did.
	SaveBestDistance(d float64) (bool, error)
	// RecentDistances returns up to limit earlier run distances, newest first.
	RecentDistances(limit int) ([]float64, error)
}

// Game is the per-run coordinator. Create one with New; a second Game is
// fully independent of the first.
type Game struct {
	id      string
	title   string
	cfg     config.DashConfig
	runtime core.RuntimeConfig

	logger   *log.Logger
	store    RecordStore
	triggers runner.Triggers
	effects  runner.Effects

	progression *config.Progression
	level       config.DifficultyLevel
	levelIndex  int
	next        float64

	body     *physics.Body
	runner   *runner.Runner
	field    *obstacles.Field
	resolver *collision.Resolver

	clock       Clock
	gameOver    *Deferred
	offerExpiry *Deferred
	canContinue bool

	phase   core.Phase
	startX  float64
	final   float64 // Distance frozen at death
	best    float64
	newBest bool
	revives int
	smashed int
	deathAt core.Vec2
	err     error
}

// Option configures a Game.
type Option func(*Game)

// WithConfig sets the tuning, templates and levels.
func WithConfig(cfg config.DashConfig) Option {
	return func(g *Game) { g.cfg = cfg }
}

// WithLogger sets the logger; the default discards.
func WithLogger(l *log.Logger) Option {
	return func(g *Game) {
		if l != nil {
			g.logger = l
		}
	}
}

// WithStore sets where the best distance is read from and saved to.
func WithStore(s RecordStore) Option {
	return func(g *Game) { g.store = s }
}

// WithTriggers routes runner animation and audio cues.
func WithTriggers(t runner.Triggers) Option {
	return func(g *Game) { g.triggers = t }
}

// WithEffects routes runner death and revival visuals.
func WithEffects(e runner.Effects) Option {
	return func(g *Game) { g.effects = e }
}

// WithIdentity sets the ID and title reported to the platform.
func WithIdentity(id, title string) Option {
	return func(g *Game) {
		g.id = id
		g.title = title
	}
}

// New creates a game. Reset must be called before the first Step.
func New(opts ...Option) *Game {
	g := &Game{
		id:      "dash",
		title:   "Dash Runner",
		cfg:     config.DefaultDashConfig(),
		runtime: core.DefaultConfig(),
		logger:  log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(g)
	}
	g.gameOver = NewDeferred(&g.clock)
	g.offerExpiry = NewDeferred(&g.clock)
	return g
}

// ID returns the unique identifier for this game.
func (g *Game) ID() string {
	return g.id
}

// Title returns the display name for this game.
func (g *Game) Title() string {
	return g.title
}

// Reset builds a fresh run in the Idle phase. A level table that cannot
// resolve its first level is an authoring defect and panics with the
// *config.ConfigError.
func (g *Game) Reset(runtime core.RuntimeConfig) {
	g.runtime = runtime

	levels, err := config.LevelsFromConfig(g.cfg)
	if err != nil {
		panic(err)
	}
	g.progression = config.NewProgression(levels)
	for _, d := range g.progression.Duplicates() {
		g.logger.Warn("duplicate unlock distance, later level wins", "distance", d)
	}

	first := g.progression.NextUnlockDistance(config.NoFurtherLevel)
	g.level, err = g.progression.LevelFor(first)
	if err != nil {
		panic(err)
	}
	g.levelIndex = 0
	g.next = g.progression.NextUnlockDistance(g.level.UnlockDistance)

	g.body = physics.NewBody(g.cfg.Physics)
	g.runner = runner.New(g.cfg.Runner, g.body)
	g.runner.SetTriggers(g.triggers)
	g.runner.SetEffects(g.effects)
	g.runner.SetLogger(g.logger)
	g.runner.OnDeath(g.onDeath)

	g.field = obstacles.NewField(runtime.Seed)
	g.field.OnSmash(func(in *obstacles.Instance, part int) {
		g.smashed++
		g.logger.Debug("obstacle smashed", "id", in.ID(), "template", in.Template().Name, "part", part)
	})

	g.resolver = collision.NewResolver(g.runner, g.field)
	g.resolver.SetLogger(g.logger)

	g.clock.Reset()
	g.gameOver.Cancel()
	g.offerExpiry.Cancel()
	g.canContinue = false

	g.phase = core.PhaseIdle
	g.startX = g.runner.X()
	g.final = 0
	g.newBest = false
	g.revives = 0
	g.smashed = 0
	g.deathAt = core.Vec2{}
	g.err = nil

	g.best = 0
	if g.store != nil {
		best, err := g.store.BestDistance()
		if err != nil {
			g.logger.Warn("cannot load best distance", "err", err)
		} else {
			g.best = best
		}
	}
}

// StartGame begins the run once the countdown is over.
func (g *Game) StartGame() {
	if g.phase != core.PhaseIdle {
		return
	}
	g.startX = g.runner.X()
	g.runner.StartGame(true)
	g.runner.SetSpeedCoefficient(g.level.SpeedMultiplier)
	g.field.Init(g.level.Obstacles, g.reference())
	g.phase = core.PhaseRunning
	g.logger.Info("run started", "level", g.level.UnlockDistance, "speed", g.level.SpeedMultiplier)
}

// Step registers this tick's input and advances the run by one tick.
func (g *Game) Step(in core.InputFrame) core.StepResult {
	if g.err != nil {
		return core.StepResult{State: g.State()}
	}

	switch {
	case in.Has(core.ActionStart):
		if g.phase == core.PhaseResuming {
			g.Continue()
		} else {
			g.StartGame()
		}
	case in.Has(core.ActionPause):
		if g.phase == core.PhasePaused {
			g.Resume()
		} else {
			g.Pause()
		}
	case in.Has(core.ActionContinue):
		g.Revive()
	}

	switch g.phase {
	case core.PhaseRunning, core.PhaseDying:
	case core.PhaseGameOver:
		if g.offerExpiry.Pending() {
			g.clock.Advance(g.runtime.TickDuration())
			g.offerExpiry.Poll()
		}
		return core.StepResult{State: g.State()}
	default:
		return core.StepResult{State: g.State()}
	}

	if !in.Slide.IsZero() {
		g.Slide(in.Slide)
	}
	if in.Tap {
		g.Tap()
	}

	dt := g.runtime.TickDuration()
	g.clock.Advance(dt)
	if g.phase == core.PhaseRunning {
		g.advance(dt)
	}
	g.gameOver.Poll()

	return core.StepResult{State: g.State()}
}

// advance runs one tick of the alive runner.
func (g *Game) advance(dt float64) {
	distance := g.runner.X() - g.startX
	if distance >= g.next && g.next != config.NoFurtherLevel {
		if err := g.unlock(g.next); err != nil {
			g.fail(err)
			return
		}
	}

	g.field.Tick(g.reference(), g.runner.X())
	g.runner.Tick(dt)
	g.body.Step(dt)

	ev := collision.Detect(g.runner.Hitbox(), g.field)
	if len(ev.Contacts) > 0 {
		out := g.resolver.Resolve(ev)
		if len(out.Destroyed) > 0 {
			g.logger.Debug("dash destroyed obstacles", "ids", out.Destroyed)
		}
	}
}

// unlock switches to the level keyed by distance.
func (g *Game) unlock(distance float64) error {
	level, err := g.progression.LevelFor(distance)
	if err != nil {
		return err
	}
	g.level = level
	g.levelIndex++
	g.next = g.progression.NextUnlockDistance(level.UnlockDistance)
	g.runner.SetSpeedCoefficient(level.SpeedMultiplier)
	g.field.SetObstacles(level.Obstacles)
	g.logger.Info("level unlocked", "distance", level.UnlockDistance, "speed", level.SpeedMultiplier, "next", g.next)
	return nil
}

// fail ends the run on an unrecoverable error.
func (g *Game) fail(err error) {
	g.err = err
	g.gameOver.Cancel()
	g.offerExpiry.Cancel()
	g.canContinue = false
	g.phase = core.PhaseGameOver
	g.logger.Error("run aborted", "err", err)
}

// reference is the x-coordinate the field keeps filled up to.
func (g *Game) reference() float64 {
	return g.runner.X() + g.cfg.Field.LookAhead
}

// onDeath schedules the game over after the death delay and decides
// whether the run may be continued.
func (g *Game) onDeath(c runner.Contact) {
	g.phase = core.PhaseDying
	g.final = g.runner.X() - g.startX
	g.deathAt = c.Point
	g.canContinue = g.offerContinue()
	g.gameOver.Schedule(g.cfg.Runner.DeathDelay, g.finish)
	g.logger.Info("runner died", "distance", math.Floor(g.final), "x", c.Point.X, "y", c.Point.Y,
		"can_continue", g.canContinue)
}

// finish enters GameOver, opens the continue window and records the best
// distance.
func (g *Game) finish() {
	g.phase = core.PhaseGameOver
	if g.canContinue {
		g.offerExpiry.Schedule(g.cfg.Continue.Resolved().Window, g.closeOffer)
	}

	distance := math.Floor(g.final)
	if distance <= g.best {
		return
	}

	g.best = distance
	g.newBest = true
	if g.store == nil {
		return
	}
	if _, err := g.store.SaveBestDistance(distance); err != nil {
		g.logger.Warn("cannot save best distance", "distance", distance, "err", err)
	}
}

// Pause freezes a running game.
func (g *Game) Pause() {
	if g.phase != core.PhaseRunning {
		return
	}
	g.phase = core.PhasePaused
	g.runner.Pause(true)
	g.clock.Pause()
}

// Resume unfreezes a paused game.
func (g *Game) Resume() {
	if g.phase != core.PhasePaused {
		return
	}
	g.phase = core.PhaseRunning
	g.runner.Pause(false)
	g.clock.Resume()
}

// Revive takes the continue offer. Pending game over and offer timers are
// cancelled, the runner is put back on the centerline at its x and the field
// is refilled ahead of it. The run stays in PhaseResuming until Continue.
func (g *Game) Revive() bool {
	if !g.CanContinue() {
		return false
	}
	g.gameOver.Cancel()
	g.offerExpiry.Cancel()
	g.canContinue = false

	g.runner.PrepareToContinue()
	g.field.Reset()
	g.phase = core.PhaseResuming
	g.revives++
	g.logger.Info("runner revived", "distance", math.Floor(g.CurrentDistance()), "revives", g.revives)
	return true
}

// Continue resumes a revived run, normally once the platform's countdown
// is over.
func (g *Game) Continue() bool {
	if g.phase != core.PhaseResuming {
		return false
	}
	g.runner.Continue()
	g.phase = core.PhaseRunning
	return true
}

// Slide forwards a slide direction to the runner.
func (g *Game) Slide(v core.Vec2) {
	g.runner.Slide(v)
}

// Tap forwards a tap to the runner.
func (g *Game) Tap() {
	g.runner.Tap()
}

// IsAlive reports whether the runner is alive.
func (g *Game) IsAlive() bool {
	return g.runner.IsAlive()
}

// IsDashing reports whether the runner is dashing.
func (g *Game) IsDashing() bool {
	return g.runner.IsDashing()
}

// CurrentSpeedCoefficient returns the active level's speed multiplier.
func (g *Game) CurrentSpeedCoefficient() float64 {
	return g.runner.SpeedCoefficient()
}

// CurrentDistance returns the distance travelled since StartGame.
func (g *Game) CurrentDistance() float64 {
	if g.phase == core.PhaseIdle {
		return 0
	}
	return g.runner.X() - g.startX
}

// BestDistance returns the best distance known to this game.
func (g *Game) BestDistance() float64 {
	return g.best
}

// Level returns the active difficulty level.
func (g *Game) Level() config.DifficultyLevel {
	return g.level
}

// Err returns the error that aborted the run, if any.
func (g *Game) Err() error {
	return g.err
}

// Phase returns the lifecycle phase.
func (g *Game) Phase() core.Phase {
	return g.phase
}

// Field exposes the obstacle field for renderers.
func (g *Game) Field() *obstacles.Field {
	return g.field
}

// Runner exposes the runner for renderers.
func (g *Game) Runner() *runner.Runner {
	return g.runner
}

// State returns the current game state.
func (g *Game) State() core.GameState {
	distance := g.CurrentDistance()
	if g.phase == core.PhaseDying || g.phase == core.PhaseGameOver {
		distance = g.final
	}
	return core.GameState{
		Score:        int(math.Floor(distance)),
		Distance:     distance,
		BestDistance: g.best,
		Phase:        g.phase,
		GameOver:     g.phase == core.PhaseGameOver,
		Paused:       g.phase == core.PhasePaused,
	}
}

// IsConfigError reports whether err was caused by a bad level table.
func IsConfigError(err error) bool {
	var ce *config.ConfigError
	return errors.As(err, &ce)
}
