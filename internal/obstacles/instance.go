package obstacles

import (
	"github.com/vovakirdan/dash-runner/internal/config"
	"github.com/vovakirdan/dash-runner/internal/core"
)

// Instance is a spawned obstacle group occupying [LeadingEdge, TrailingEdge)
// along the track. Instances are owned by a Field and ask it to remove them.
type Instance struct {
	id          int
	template    config.ObstacleTemplate
	leadingEdge float64
	partAlive   []bool
	alive       bool
	field       *Field // Back-reference used to request removal
}

// ID returns the instance's identifier, unique within its field.
func (in *Instance) ID() int {
	return in.id
}

// Template returns the template the instance was spawned from.
func (in *Instance) Template() config.ObstacleTemplate {
	return in.template
}

// LeadingEdge returns the x-coordinate the runner reaches first.
func (in *Instance) LeadingEdge() float64 {
	return in.leadingEdge
}

// Width returns the track length the instance occupies.
func (in *Instance) Width() float64 {
	return in.template.Width
}

// TrailingEdge returns the x-coordinate where the next instance may start.
func (in *Instance) TrailingEdge() float64 {
	return in.leadingEdge + in.template.Width
}

// Center returns the x-coordinate of the instance's center.
func (in *Instance) Center() float64 {
	return in.leadingEdge + in.template.Width/2
}

// Alive reports whether the instance is still in its field.
func (in *Instance) Alive() bool {
	return in.alive
}

// PartCount returns the number of colliders in the template.
func (in *Instance) PartCount() int {
	return len(in.template.Parts)
}

// Part returns the world box of part i, its destructible flag, and whether
// it is still standing.
func (in *Instance) Part(i int) (box core.Box, destructible bool, standing bool) {
	p := in.template.Parts[i]
	box = core.Box{
		X: in.leadingEdge + p.Offset,
		Y: p.Bottom,
		W: p.Width,
		H: p.Height,
	}
	return box, p.Destructible, in.alive && in.partAlive[i]
}

// SmashPart destroys a destructible part. When no part is left standing the
// whole instance is destroyed. Returns false if the part cannot be smashed.
func (in *Instance) SmashPart(i int) bool {
	if !in.alive || i < 0 || i >= len(in.partAlive) {
		return false
	}
	if !in.template.Parts[i].Destructible || !in.partAlive[i] {
		return false
	}

	in.partAlive[i] = false
	if in.field != nil && in.field.onSmash != nil {
		in.field.onSmash(in, i)
	}

	for _, standing := range in.partAlive {
		if standing {
			return true
		}
	}
	in.Destroy()
	return true
}

// Destroy removes the instance from its field. Calling it twice is a no-op.
func (in *Instance) Destroy() {
	if !in.alive {
		return
	}
	in.alive = false
	if in.field != nil {
		in.field.remove(in)
	}
}

// update destroys the instance once the runner is more than its own width
// past the leading edge.
func (in *Instance) update(runnerX float64) {
	if runnerX-in.leadingEdge > in.template.Width {
		in.Destroy()
	}
}
