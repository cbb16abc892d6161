// Package collision decides what a contact between the runner and an obstacle
// does: a dashing runner smashes destructible parts, anything else kills it.
package collision

import (
	"io"
	"math"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/dash-runner/internal/core"
	"github.com/vovakirdan/dash-runner/internal/obstacles"
	"github.com/vovakirdan/dash-runner/internal/runner"
)

// Contact is a single touch point between the runner and an obstacle part.
type Contact struct {
	Point        core.Vec2
	Normal       core.Vec2 // Points from the obstacle toward the runner
	EntityID     int       // Obstacle instance id
	Part         int       // Part index within the instance
	Destructible bool
}

// Event groups the contacts reported for one physics step.
type Event struct {
	Contacts []Contact
}

// Outcome summarizes what Resolve did.
type Outcome struct {
	Destroyed []int // Entity ids smashed by the dash, in report order
	Died      bool
}

// Victim is the runner side of a collision.
type Victim interface {
	IsDashing() bool
	Kill(c runner.Contact) bool
}

// World looks obstacle instances up by id.
type World interface {
	Lookup(id int) *obstacles.Instance
}

// Resolver applies collision events to the runner and the obstacle field.
type Resolver struct {
	victim Victim
	world  World
	logger *log.Logger
}

// NewResolver creates a resolver for the given runner and field.
func NewResolver(victim Victim, world World) *Resolver {
	return &Resolver{
		victim: victim,
		world:  world,
		logger: log.New(io.Discard),
	}
}

// SetLogger sets the logger used for unusual contacts.
func (r *Resolver) SetLogger(l *log.Logger) {
	if l != nil {
		r.logger = l
	}
}

type partKey struct {
	entity, part int
}

// Resolve handles each distinct entity/part once, in report order, and stops
// at the first death. Destructions before the death stand. It never fails:
// contacts with unknown entities are lethal.
func (r *Resolver) Resolve(ev Event) Outcome {
	var out Outcome
	if len(ev.Contacts) == 0 {
		return out
	}

	seen := make(map[partKey]bool, len(ev.Contacts))
	for _, c := range ev.Contacts {
		key := partKey{c.EntityID, c.Part}
		if seen[key] {
			continue
		}
		seen[key] = true

		in := r.world.Lookup(c.EntityID)
		if in == nil {
			if containsID(out.Destroyed, c.EntityID) {
				// Smashed earlier in this event.
				continue
			}
			r.logger.Debug("contact with unknown entity", "entity", c.EntityID)
			out.Died = r.kill(ev)
			return out
		}

		if c.Destructible && r.victim.IsDashing() && in.SmashPart(c.Part) {
			out.Destroyed = append(out.Destroyed, c.EntityID)
			continue
		}

		out.Died = r.kill(ev)
		return out
	}
	return out
}

// kill reports death using the first contact of the event.
func (r *Resolver) kill(ev Event) bool {
	first := ev.Contacts[0]
	return r.victim.Kill(runner.Contact{Point: first.Point, Normal: first.Normal})
}

func containsID(ids []int, id int) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}

// Detect returns the contacts between hitbox and every standing part of the
// field's live obstacles, in spawn order.
func Detect(hitbox core.Box, field *obstacles.Field) Event {
	var ev Event
	for _, in := range field.Instances() {
		for i := 0; i < in.PartCount(); i++ {
			box, destructible, standing := in.Part(i)
			if !standing || !hitbox.Overlaps(box) {
				continue
			}
			point, normal := contactGeometry(hitbox, box)
			ev.Contacts = append(ev.Contacts, Contact{
				Point:        point,
				Normal:       normal,
				EntityID:     in.ID(),
				Part:         i,
				Destructible: destructible,
			})
		}
	}
	return ev
}

// contactGeometry returns the center of the overlap and the axis of least
// penetration, oriented from the obstacle toward the runner.
func contactGeometry(runnerBox, obstacle core.Box) (core.Vec2, core.Vec2) {
	left := math.Max(runnerBox.X, obstacle.X)
	right := math.Min(runnerBox.Right(), obstacle.Right())
	bottom := math.Max(runnerBox.Y, obstacle.Y)
	top := math.Min(runnerBox.Top(), obstacle.Top())
	point := core.V((left+right)/2, (bottom+top)/2)

	delta := runnerBox.Center().Sub(obstacle.Center())
	if right-left <= top-bottom {
		return point, core.V(signOrOne(delta.X), 0)
	}
	return point, core.V(0, signOrOne(delta.Y))
}

func signOrOne(v float64) float64 {
	if v < 0 {
		return -1
	}
	return 1
}
