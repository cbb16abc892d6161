// Package runner implements the runner's locomotion state machine: jumps,
// dashes and counter-jumps driven by slide/tap input and a simulated body.
package runner

import (
	"io"
	"math"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/dash-runner/internal/config"
	"github.com/vovakirdan/dash-runner/internal/core"
)

// State is the runner's locomotion state as seen from outside.
type State int

const (
	StateIdle State = iota
	StateGrounded
	StateJumping
	StateDashing
	StateDead
)

// String returns a human-readable name for the state.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateGrounded:
		return "grounded"
	case StateJumping:
		return "jumping"
	case StateDashing:
		return "dashing"
	case StateDead:
		return "dead"
	default:
		return "unknown"
	}
}

// up is the body-space direction of a jump.
var up = core.V(0, 1)

// Runner is the player-controlled entity advancing along x.
type Runner struct {
	cfg  config.RunnerConfig
	body Body

	triggers Triggers
	effects  Effects
	onDeath  func(Contact)
	logger   *log.Logger

	x           float64
	y           float64 // Visible vertical offset, lags the body
	yVel        float64 // SmoothDamp state
	actualSpeed float64
	speedCoeff  float64

	started     bool
	alive       bool
	dead        bool
	listening   bool
	dashing     bool
	jumping     bool
	slidingDown bool // Last committed slide direction; never reset on landing
	dashStartX  float64
	jumpStart   float64
	now         float64

	slide core.Vec2
	tap   bool
}

// New creates an idle runner at x=0 following body.
func New(cfg config.RunnerConfig, body Body) *Runner {
	return &Runner{
		cfg:         cfg,
		body:        body,
		triggers:    nopTriggers{},
		effects:     nopEffects{},
		logger:      log.New(io.Discard),
		actualSpeed: cfg.RunningSpeed,
		speedCoeff:  1,
	}
}

// SetTriggers routes animation/audio cues to t.
func (r *Runner) SetTriggers(t Triggers) {
	if t == nil {
		t = nopTriggers{}
	}
	r.triggers = t
}

// SetEffects routes death/revival visuals to e.
func (r *Runner) SetEffects(e Effects) {
	if e == nil {
		e = nopEffects{}
	}
	r.effects = e
}

// OnDeath registers the coordinator callback invoked once per death.
func (r *Runner) OnDeath(fn func(Contact)) {
	r.onDeath = fn
}

// SetLogger sets the logger used for recovered collaborator failures.
func (r *Runner) SetLogger(l *log.Logger) {
	if l != nil {
		r.logger = l
	}
}

// StartGame moves the runner from Idle to Running.
func (r *Runner) StartGame(listenToInput bool) {
	r.started = true
	r.alive = true
	r.dead = false
	r.listening = listenToInput
}

// Pause freezes or unfreezes the runner and its body.
func (r *Runner) Pause(pause bool) {
	if r.dead {
		return
	}
	r.alive = !pause
	r.listening = !pause
	if pause {
		r.body.Suspend()
	} else if !r.dashing {
		r.body.Resume()
	}
}

// Slide registers this tick's slide direction.
func (r *Runner) Slide(v core.Vec2) {
	if !r.alive || !r.listening {
		return
	}
	r.slide = v
}

// Tap registers this tick's tap.
func (r *Runner) Tap() {
	if !r.alive || !r.listening {
		return
	}
	r.tap = true
}

// ForceInput overrides this tick's input regardless of listening state.
func (r *Runner) ForceInput(slide core.Vec2, tap bool) {
	r.slide = slide
	r.tap = tap
}

// Tick advances the state machine by dt seconds. It does nothing unless the
// runner is running and alive.
func (r *Runner) Tick(dt float64) {
	if !r.alive {
		return
	}
	r.now += dt

	centered := r.IsCentered()
	sliding := math.Abs(r.slide.Y) > math.Abs(r.slide.X)
	counter := sliding && r.isCounterSlide(r.slide)

	// A jump can start whenever the runner is centered and not already jumping.
	if centered && !r.jumping && sliding {
		r.jump(r.slide)
	} else if r.jumping {
		r.jumping = math.Abs(r.body.Velocity().Y) > r.cfg.JumpVelocityEpsilon ||
			r.now-r.jumpStart < r.cfg.JumpGrace
	}

	if !r.dashing && r.tap {
		r.dash()
	}

	if r.dashing && r.x-r.dashStartX >= r.cfg.DashLength {
		r.dashEnd()
	}

	// Counter-jumps need the runner off-center, or dashing.
	if (!centered || r.dashing) && sliding && counter {
		r.counterJump()
		if r.dashing {
			r.dashEnd()
		}
	}

	r.move(dt)

	// Input is edge-triggered.
	r.slide = core.Vec2{}
	r.tap = false
}

// Kill performs the death transition. It returns false if the runner was
// not alive, so a death is reported at most once.
func (r *Runner) Kill(c Contact) bool {
	if !r.alive {
		return false
	}
	r.alive = false
	r.dead = true
	r.listening = false

	r.safe("sprite", func() { r.effects.SpriteVisible(false) })
	r.safe("death effect", func() { r.effects.DeathEffect(c.Point, c.Normal) })

	if r.onDeath != nil {
		r.onDeath(c)
	}
	return true
}

// PrepareToContinue puts the runner and its body back on the centerline
// without moving it along x. An interrupted dash is ended.
func (r *Runner) PrepareToContinue() {
	r.safe("sprite", func() { r.effects.SpriteVisible(true) })

	if r.dashing {
		r.dashEnd()
	}
	r.jumping = false
	r.body.Reset(0)
	r.y = 0
	r.yVel = 0
}

// Continue re-enters Running after PrepareToContinue.
func (r *Runner) Continue() {
	r.alive = true
	r.dead = false
	r.listening = true
	r.body.Resume()
}

// IsCentered reports whether the visible offset is inside the middle band.
func (r *Runner) IsCentered() bool {
	return math.Abs(r.y) < r.cfg.MiddleThreshold
}

// IsAlive reports whether the runner is running and alive.
func (r *Runner) IsAlive() bool {
	return r.alive
}

// IsDead reports whether the runner died and was not revived yet.
func (r *Runner) IsDead() bool {
	return r.dead
}

// IsDashing reports whether a dash is in progress.
func (r *Runner) IsDashing() bool {
	return r.dashing
}

// IsJumping reports whether a jump is in progress.
func (r *Runner) IsJumping() bool {
	return r.jumping
}

// State returns the dominant locomotion state.
func (r *Runner) State() State {
	switch {
	case r.dead:
		return StateDead
	case !r.started:
		return StateIdle
	case r.dashing:
		return StateDashing
	case r.jumping:
		return StateJumping
	default:
		return StateGrounded
	}
}

// X returns the horizontal position.
func (r *Runner) X() float64 {
	return r.x
}

// Y returns the visible vertical offset.
func (r *Runner) Y() float64 {
	return r.y
}

// Speed returns the base speed currently applied (boosted while dashing).
func (r *Runner) Speed() float64 {
	return r.actualSpeed
}

// SpeedCoefficient returns the difficulty coefficient applied to the speed.
func (r *Runner) SpeedCoefficient() float64 {
	return r.speedCoeff
}

// SetSpeedCoefficient sets the difficulty coefficient applied to the speed.
func (r *Runner) SetSpeedCoefficient(c float64) {
	r.speedCoeff = c
}

// Hitbox returns the runner's collision box centered on its position.
func (r *Runner) Hitbox() core.Box {
	w, h := r.cfg.HitboxWidth, r.cfg.HitboxHeight
	return core.Box{X: r.x - w/2, Y: r.y - h/2, W: w, H: h}
}

func (r *Runner) isCounterSlide(slide core.Vec2) bool {
	if r.slidingDown {
		return slide.Y > 0
	}
	return slide.Y < 0
}

func (r *Runner) jump(slide core.Vec2) {
	if r.dashing {
		r.dashEnd()
	}
	r.jumping = true
	r.jumpStart = r.now
	r.slidingDown = slide.Y < 0
	r.body.ApplyImpulse(up.Scale(r.cfg.SlideImpulse))
	r.safe("jump", r.triggers.Jump)
	r.safe("dashing", func() { r.triggers.Dashing(false) })
}

func (r *Runner) counterJump() {
	r.jumpStart = 0
	r.body.ApplyImpulse(up.Scale(-r.cfg.SlideImpulse * 2))
	r.safe("counter jump", r.triggers.CounterJump)
	r.safe("dashing", func() { r.triggers.Dashing(false) })
}

func (r *Runner) dash() {
	r.dashing = true
	r.dashStartX = r.x
	r.body.Suspend()
	r.actualSpeed *= r.cfg.DashStrength
	r.safe("dash", r.triggers.Dash)
	r.safe("dashing", func() { r.triggers.Dashing(true) })
}

func (r *Runner) dashEnd() {
	r.dashing = false
	r.body.Resume()
	r.actualSpeed = r.cfg.RunningSpeed
	r.safe("dashing", func() { r.triggers.Dashing(false) })
}

func (r *Runner) move(dt float64) {
	r.x += r.actualSpeed * r.speedCoeff * dt

	target := r.body.Position().Y
	if r.slidingDown {
		target = -target
	}
	r.y = core.SmoothDamp(r.y, target, &r.yVel, r.cfg.SmoothTime, dt)

	r.safe("speed", func() { r.triggers.Speed(r.actualSpeed) })
}

// safe runs a collaborator call, logging instead of propagating a panic.
func (r *Runner) safe(what string, fn func()) {
	defer func() {
		if rec := recover(); rec != nil {
			r.logger.Warn("runner collaborator failed", "call", what, "panic", rec)
		}
	}()
	fn()
}

// Snapshot is a read-only copy of the runner's state.
type Snapshot struct {
	X                float64 `json:"x"`
	Y                float64 `json:"y"`
	BaseSpeed        float64 `json:"base_speed"`
	SpeedCoefficient float64 `json:"speed_coefficient"`
	Alive            bool    `json:"alive"`
	Dashing          bool    `json:"dashing"`
	Jumping          bool    `json:"jumping"`
	SlidingDown      bool    `json:"sliding_down"`
	DashStartX       float64 `json:"dash_start_x"`
	JumpStartTime    float64 `json:"jump_start_time"`
	State            string  `json:"state"`
}

// Snapshot returns the current state for renderers and spectators.
func (r *Runner) Snapshot() Snapshot {
	return Snapshot{
		X:                r.x,
		Y:                r.y,
		BaseSpeed:        r.actualSpeed,
		SpeedCoefficient: r.speedCoeff,
		Alive:            r.alive,
		Dashing:          r.dashing,
		Jumping:          r.jumping,
		SlidingDown:      r.slidingDown,
		DashStartX:       r.dashStartX,
		JumpStartTime:    r.jumpStart,
		State:            r.State().String(),
	}
}
