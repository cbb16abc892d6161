package tui

import (
	"fmt"

	"github.com/vovakirdan/dash-runner/internal/core"
)

// cueTicks is how long a cue stays on the status line.
const cueTicks = 30

// Cues turns runner triggers and effects into short status-line messages.
// It stands in for the animator and audio of a graphical frontend.
type Cues struct {
	text    string
	ttl     int
	dashing bool
	speed   float64
	visible bool
}

// NewCues creates an empty cue sink.
func NewCues() *Cues {
	return &Cues{visible: true}
}

func (c *Cues) flash(text string) {
	c.text = text
	c.ttl = cueTicks
}

// Jump implements runner.Triggers.
func (c *Cues) Jump() { c.flash("jump!") }

// Dash implements runner.Triggers.
func (c *Cues) Dash() { c.flash("DASH!") }

// CounterJump implements runner.Triggers.
func (c *Cues) CounterJump() { c.flash("counter-jump!") }

// Dashing implements runner.Triggers.
func (c *Cues) Dashing(on bool) { c.dashing = on }

// Speed implements runner.Triggers.
func (c *Cues) Speed(speed float64) { c.speed = speed }

// SpriteVisible implements runner.Effects.
func (c *Cues) SpriteVisible(visible bool) {
	c.visible = visible
	if visible {
		c.flash("back in the run")
	}
}

// DeathEffect implements runner.Effects. The normal points toward the runner.
func (c *Cues) DeathEffect(point, normal core.Vec2) {
	side := "front"
	switch {
	case normal.Y > 0:
		side = "above"
	case normal.Y < 0:
		side = "below"
	}
	c.flash(fmt.Sprintf("crashed from %s at %.0f", side, point.X))
}

// Tick ages the current cue by one frame.
func (c *Cues) Tick() {
	if c.ttl > 0 {
		c.ttl--
	}
}

// Text returns the current cue, or "" once it expired.
func (c *Cues) Text() string {
	if c.ttl == 0 {
		return ""
	}
	return c.text
}

// Status returns the speed readout for the status line.
func (c *Cues) Status() string {
	if !c.visible {
		return ""
	}
	if c.dashing {
		return fmt.Sprintf("speed %.0f »", c.speed)
	}
	return fmt.Sprintf("speed %.0f", c.speed)
}
