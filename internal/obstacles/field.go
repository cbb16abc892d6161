// Package obstacles maintains the live obstacle field ahead of the runner.
// Obstacles are laid out contiguously with no gap and no overlap, chosen at
// random from the active difficulty level's templates.
package obstacles

import (
	"math/rand"
	"slices"

	"github.com/vovakirdan/dash-runner/internal/config"
)

// SmashHook is called when a destructible part is smashed by the runner.
type SmashHook func(in *Instance, part int)

// Field handles spawning and removal of obstacle instances.
type Field struct {
	rng       *rand.Rand
	active    []config.ObstacleTemplate
	live      []*Instance
	tail      *Instance // Most recently spawned, even if already removed
	reference float64   // Spawn reference, usually runner x + look-ahead
	nextID    int
	spawned   int
	onSmash   SmashHook
}

// NewField creates an empty field with the given RNG seed.
func NewField(seed int64) *Field {
	return &Field{
		live: make([]*Instance, 0, 8),
		rng:  rand.New(rand.NewSource(seed)),
	}
}

// OnSmash registers the hook fired for smashed parts.
func (f *Field) OnSmash(h SmashHook) {
	f.onSmash = h
}

// Init clears the field, activates set, and spawns the first obstacle with
// its leading edge at reference.
func (f *Field) Init(set []config.ObstacleTemplate, reference float64) {
	f.clear()
	f.active = set
	f.reference = reference
	f.Spawn()
}

// SetObstacles swaps the active template set. Live instances are untouched.
func (f *Field) SetObstacles(set []config.ObstacleTemplate) {
	f.active = set
}

// Obstacles returns the active template set.
func (f *Field) Obstacles() []config.ObstacleTemplate {
	return f.active
}

// Tick despawns instances the runner has passed, then spawns one obstacle if
// the most recent one has scrolled behind reference.
func (f *Field) Tick(reference, runnerX float64) {
	f.reference = reference

	// Removal mutates f.live; walk a copy.
	for _, in := range slices.Clone(f.live) {
		in.update(runnerX)
	}

	if f.tail == nil || f.tail.TrailingEdge() < f.reference {
		f.Spawn()
	}
}

// Reset destroys every live instance and spawns fresh from the active set.
func (f *Field) Reset() {
	f.clear()
	f.Spawn()
}

// Spawn places a random template from the active set after the most recent
// obstacle. With an empty active set it does nothing.
func (f *Field) Spawn() *Instance {
	if len(f.active) == 0 {
		return nil
	}
	return f.SpawnTemplate(f.active[f.rng.Intn(len(f.active))])
}

// SpawnTemplate places the given template after the most recent obstacle, or
// at the reference when the field is empty.
func (f *Field) SpawnTemplate(t config.ObstacleTemplate) *Instance {
	// Centers are (prev.Width + t.Width)/2 apart, which puts the new leading
	// edge exactly on the previous trailing edge.
	center := f.reference + t.Width/2
	if f.tail != nil {
		center = f.tail.Center() + (f.tail.Width()+t.Width)/2
	}

	f.nextID++
	in := &Instance{
		id:          f.nextID,
		template:    t,
		leadingEdge: center - t.Width/2,
		partAlive:   make([]bool, len(t.Parts)),
		alive:       true,
		field:       f,
	}
	for i := range in.partAlive {
		in.partAlive[i] = true
	}

	f.live = append(f.live, in)
	f.tail = in
	f.spawned++
	return in
}

// Destroy removes the instance with the given id, if live.
func (f *Field) Destroy(id int) bool {
	in := f.Lookup(id)
	if in == nil {
		return false
	}
	in.Destroy()
	return true
}

// Lookup returns the live instance with the given id, or nil.
func (f *Field) Lookup(id int) *Instance {
	for _, in := range f.live {
		if in.id == id {
			return in
		}
	}
	return nil
}

// Instances returns a copy of the live instances in spawn order. Later
// spawns and removals do not affect the returned slice.
func (f *Field) Instances() []*Instance {
	return slices.Clone(f.live)
}

// Len returns the number of live instances.
func (f *Field) Len() int {
	return len(f.live)
}

// Spawned returns the number of instances spawned since creation.
func (f *Field) Spawned() int {
	return f.spawned
}

// Reference returns the current spawn reference.
func (f *Field) Reference() float64 {
	return f.reference
}

// remove is the synchronous removal requested by an instance.
func (f *Field) remove(in *Instance) {
	for i, l := range f.live {
		if l == in {
			f.live = slices.Delete(f.live, i, i+1)
			return
		}
	}
}

// clear destroys all live instances without spawning.
func (f *Field) clear() {
	for _, in := range f.live {
		in.alive = false
	}
	f.live = make([]*Instance, 0, 8)
	f.tail = nil
}
