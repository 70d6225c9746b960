package system

import (
	"time"

	"github.com/ballpit/ballpit/internal/collision"
	coresys "github.com/ballpit/ballpit/internal/core/system"
	"github.com/ballpit/ballpit/internal/physics"
)

// Simulator is the physics world as seen by the step and collision phases.
type Simulator interface {
	Step(dt float64)
	DrainEvents() []physics.CollisionEvent
	collision.ParentLookup
}

// PhysicsSystem advances the rigid-body world by the frame step.
// Phase 2 (Physics).
type PhysicsSystem struct {
	sim   Simulator
	frame *Frame
}

func NewPhysicsSystem(sim Simulator, frame *Frame) *PhysicsSystem {
	return &PhysicsSystem{sim: sim, frame: frame}
}

func (s *PhysicsSystem) Phase() coresys.Phase { return coresys.PhasePhysics }

func (s *PhysicsSystem) Update(_ time.Duration) {
	s.sim.Step(s.frame.DT)
}

// CollisionSystem turns this step's contact events into the adjacency map.
// Phase 3 (Collision).
type CollisionSystem struct {
	sim   Simulator
	frame *Frame
}

func NewCollisionSystem(sim Simulator, frame *Frame) *CollisionSystem {
	return &CollisionSystem{sim: sim, frame: frame}
}

func (s *CollisionSystem) Phase() coresys.Phase { return coresys.PhaseCollision }

func (s *CollisionSystem) Update(_ time.Duration) {
	s.frame.Contacts = collision.Resolve(s.sim.DrainEvents(), s.sim)
}
