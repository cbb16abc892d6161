// Package physics provides the simulated body the runner follows vertically.
// The body jumps off a floor at y=0 under gravity, can be suspended while
// the runner dashes, and exposes read-only position and velocity.
package physics

import (
	"github.com/vovakirdan/dash-runner/internal/config"
	"github.com/vovakirdan/dash-runner/internal/core"
)

// Body is a point mass with unit mass resting on a floor at y=0.
type Body struct {
	pos       core.Vec2
	vel       core.Vec2
	suspended bool
	cfg       config.PhysicsConfig
}

// NewBody creates a body at rest on the floor.
func NewBody(cfg config.PhysicsConfig) *Body {
	return &Body{cfg: cfg}
}

// ApplyImpulse adds an instantaneous velocity change. Impulses received
// while suspended are kept and take effect on Resume.
func (b *Body) ApplyImpulse(impulse core.Vec2) {
	b.vel = b.vel.Add(impulse)
}

// Suspend freezes the simulation.
func (b *Body) Suspend() {
	b.suspended = true
}

// Resume restarts the simulation.
func (b *Body) Resume() {
	b.suspended = false
}

// Suspended reports whether the simulation is frozen.
func (b *Body) Suspended() bool {
	return b.suspended
}

// Position returns the body's position.
func (b *Body) Position() core.Vec2 {
	return b.pos
}

// Velocity returns the body's velocity.
func (b *Body) Velocity() core.Vec2 {
	return b.vel
}

// Reset places the body at height y with zero velocity, keeping x.
func (b *Body) Reset(y float64) {
	b.pos.Y = y
	b.vel = core.Vec2{}
}

// Step integrates the body over dt seconds.
func (b *Body) Step(dt float64) {
	if b.suspended || dt <= 0 {
		return
	}

	b.vel.Y -= b.cfg.Gravity * dt
	if b.cfg.MaxFallSpeed > 0 && b.vel.Y < -b.cfg.MaxFallSpeed {
		b.vel.Y = -b.cfg.MaxFallSpeed
	}
	b.pos = b.pos.Add(b.vel.Scale(dt))

	// Landed
	if b.pos.Y <= 0 {
		b.pos.Y = 0
		if b.vel.Y < 0 {
			b.vel.Y = 0
		}
	}
}
