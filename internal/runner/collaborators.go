package runner

import (
	"github.com/vovakirdan/dash-runner/internal/core"
)

// Body is the rigid-body the runner follows vertically. The runner only asks
// for impulses and suspend/resume; it sets velocity only on revival.
type Body interface {
	ApplyImpulse(impulse core.Vec2)
	Suspend()
	Resume()
	Position() core.Vec2
	Velocity() core.Vec2
	Reset(y float64)
}

// Triggers receives fire-and-forget animation and audio cues.
type Triggers interface {
	Jump()
	Dash()
	CounterJump()
	Dashing(on bool)
	Speed(speed float64)
}

// Effects receives visual side effects of death and revival.
type Effects interface {
	SpriteVisible(visible bool)
	DeathEffect(point, normal core.Vec2)
}

// Contact is where and how the runner was hit.
type Contact struct {
	Point  core.Vec2
	Normal core.Vec2
}

type nopTriggers struct{}

func (nopTriggers) Jump()         {}
func (nopTriggers) Dash()         {}
func (nopTriggers) CounterJump()  {}
func (nopTriggers) Dashing(bool)  {}
func (nopTriggers) Speed(float64) {}

type nopEffects struct{}

func (nopEffects) SpriteVisible(bool)               {}
func (nopEffects) DeathEffect(core.Vec2, core.Vec2) {}
