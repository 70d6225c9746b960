package system

import (
	"fmt"
	"time"

	"github.com/ballpit/ballpit/internal/behavior"
	"github.com/ballpit/ballpit/internal/camera"
	"github.com/ballpit/ballpit/internal/config"
	"github.com/ballpit/ballpit/internal/core/ecs"
	coresys "github.com/ballpit/ballpit/internal/core/system"
	"github.com/ballpit/ballpit/internal/input"
	"github.com/ballpit/ballpit/internal/physics"
	"github.com/ballpit/ballpit/internal/render"
	"github.com/ballpit/ballpit/internal/world"
	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"
)

// BodyWorld is the physics surface the dispatch phase needs: what behaviors
// use plus the body pose for syncing transforms.
type BodyWorld interface {
	behavior.Physics
	world.BodyReader
}

// DispatchDeps bundles what DispatchSystem hands to behaviors.
type DispatchDeps struct {
	Store    *world.Store
	Physics  BodyWorld
	Floors   behavior.FloorSet
	Input    *input.State
	Camera   *camera.Camera
	Scripts  behavior.ScriptHost
	Renderer render.Renderer
	Defaults config.BehaviorConfig
	Strict   bool
}

// DispatchSystem visits every live entity in id order: syncs it from its
// body, runs collision behaviors against each body it touched, runs its
// behaviors and draws it. Structural changes go to the frame's pending
// queue. Phase 6 (Dispatch).
type DispatchSystem struct {
	deps  DispatchDeps
	frame *Frame
	log   *zap.Logger
}

func NewDispatchSystem(deps DispatchDeps, frame *Frame, log *zap.Logger) *DispatchSystem {
	return &DispatchSystem{deps: deps, frame: frame, log: log}
}

func (s *DispatchSystem) Phase() coresys.Phase { return coresys.PhaseDispatch }

func (s *DispatchSystem) Update(_ time.Duration) {
	for _, id := range s.deps.Store.IDs() {
		e, ok := s.deps.Store.Get(id)
		if !ok {
			continue
		}
		if err := s.visit(e); err != nil {
			if s.deps.Strict {
				s.frame.Fault = err
				s.log.Error("store and physics out of sync", zap.Error(err))
				return
			}
			s.log.Error("entity body missing from physics world", zap.Error(err))
		}
	}
}

func (s *DispatchSystem) visit(e *world.Entity) error {
	var fault error
	if e.HasBody && !e.SyncFromBody(s.deps.Physics) {
		fault = fmt.Errorf("entity %d body %d: %w", e.ID, e.Body, world.ErrUnknownBody)
		if s.deps.Strict {
			return fault
		}
	}

	ctx := &behavior.Context{
		Self:     e,
		Physics:  s.deps.Physics,
		Floors:   s.deps.Floors,
		Input:    s.deps.Input,
		Camera:   s.deps.Camera,
		DT:       s.frame.DT,
		Time:     s.frame.Time,
		Store:    s.deps.Store,
		Scripts:  s.deps.Scripts,
		Defaults: s.deps.Defaults,
		Log:      s.log,
	}
	var res behavior.Result

	if e.CollisionBehaviors.Has(world.CollisionFloorContact) {
		e.Grounded = false
	}
	if e.HasBody {
		for _, other := range s.frame.Contacts.Touching(e.Body) {
			if err := s.collide(ctx, other, &res); err != nil {
				if s.deps.Strict {
					return err
				}
				s.log.Error("contact with unmapped body",
					zap.Uint64("entity", uint64(e.ID)), zap.Error(err))
			}
		}
	}

	res.Merge(behavior.Dispatch(ctx))
	s.draw(e)

	s.frame.Pending.MarkForRemoval(res.Remove...)
	s.frame.Pending.QueueAddition(res.Add...)
	return fault
}

func (s *DispatchSystem) collide(ctx *behavior.Context, other physics.BodyHandle, res *behavior.Result) error {
	self := ctx.Self
	if other == self.Body {
		return nil
	}
	id, err := s.deps.Store.LookupByBody(other)
	if err != nil {
		return fmt.Errorf("entity %d touched body %d: %w", self.ID, other, err)
	}
	if id == self.ID {
		return nil
	}
	ref, ok := s.deps.Store.Peek(id)
	if !ok {
		return fmt.Errorf("entity %d touched body %d of missing entity %d: %w", self.ID, other, id, world.ErrUnknownBody)
	}
	res.Merge(behavior.DispatchCollision(ctx, ref))
	return nil
}

// draw emits the entity's visual and its children's. Children are placed
// relative to their parent.
func (s *DispatchSystem) draw(e *world.Entity) {
	s.drawTree(e, e.ID, mgl32.Ident4())
}

func (s *DispatchSystem) drawTree(e *world.Entity, owner ecs.EntityID, parent mgl32.Mat4) {
	model := parent.Mul4(e.ModelMatrix())
	if e.Visual != nil {
		s.deps.Renderer.Draw(render.DrawCall{Entity: owner, Model: model, Mesh: e.Visual.Mesh})
		s.frame.Drawn++
	}
	if len(e.Children) == 0 {
		return
	}
	base := parent.Mul4(e.Transform.Matrix())
	for _, c := range e.Children {
		s.drawTree(c, owner, base)
	}
}
