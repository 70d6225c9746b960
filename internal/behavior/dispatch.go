// Package behavior runs the per-entity behaviors and collision behaviors
// for one frame. Behaviors never insert or remove entities themselves; they
// return requests that the frame loop applies after every entity ran.
package behavior

import (
	"slices"

	"github.com/ballpit/ballpit/internal/camera"
	"github.com/ballpit/ballpit/internal/config"
	"github.com/ballpit/ballpit/internal/core/ecs"
	"github.com/ballpit/ballpit/internal/input"
	"github.com/ballpit/ballpit/internal/physics"
	"github.com/ballpit/ballpit/internal/scripting"
	"github.com/ballpit/ballpit/internal/world"
	"go.uber.org/zap"
)

// Physics is the part of the physics world behaviors read and write.
type Physics interface {
	CreateBody(physics.BodyDesc) physics.BodyHandle
	AttachCollider(physics.BodyHandle, physics.ColliderDesc) (physics.ColliderHandle, error)
	RemoveBody(physics.BodyHandle)
	Translation(physics.BodyHandle) (physics.Vec, bool)
	LinearVelocity(physics.BodyHandle) (physics.Vec, bool)
	SetLinearVelocity(physics.BodyHandle, physics.Vec) bool
	ApplyImpulse(physics.BodyHandle, physics.Vec) bool
}

// ScriptHost runs Lua behavior functions.
type ScriptHost interface {
	RunBehavior(function string, ctx scripting.BehaviorContext) []scripting.Command
}

// FloorSet holds the bodies floor contact accepts.
type FloorSet map[physics.BodyHandle]struct{}

func (f FloorSet) Has(h physics.BodyHandle) bool {
	_, ok := f[h]
	return ok
}

// Context is everything one entity's update may touch. Self is the only
// entity it may mutate; others are reached through Store by id.
type Context struct {
	Self     *world.Entity
	Physics  Physics
	Floors   FloorSet
	Input    *input.State
	Camera   *camera.Camera
	DT       float64 // seconds
	Time     float64 // elapsed game time, seconds
	Store    world.View
	Scripts  ScriptHost
	Defaults config.BehaviorConfig
	Log      *zap.Logger
}

// Result collects structural changes requested during dispatch.
type Result struct {
	Remove []ecs.EntityID
	Add    []*world.Entity
}

func (r *Result) Merge(o Result) {
	r.Remove = append(r.Remove, o.Remove...)
	r.Add = append(r.Add, o.Add...)
}

func (r Result) Empty() bool { return len(r.Remove) == 0 && len(r.Add) == 0 }

// Dispatch runs every behavior on ctx.Self in its stored order.
func Dispatch(ctx *Context) Result {
	var res Result
	for _, k := range slices.Clone(ctx.Self.Behaviors) {
		switch k {
		case world.KindControl:
			control(ctx)
		case world.KindDebugNudge:
			debugNudge(ctx)
		case world.KindCameraTrack:
			cameraTrack(ctx)
		case world.KindSpawner:
			spawn(ctx, &res)
		case world.KindAttraction:
			attract(ctx)
		case world.KindLifetime:
			lifetime(ctx, &res)
		case world.KindScript:
			script(ctx, &res)
		default:
			ctx.Log.Warn("unknown behavior kind", zap.Stringer("kind", k), zap.Uint64("entity", uint64(ctx.Self.ID)))
		}
	}
	return res
}

// DispatchCollision runs every collision behavior on ctx.Self against one
// entity it touched this step.
func DispatchCollision(ctx *Context, other world.Ref) Result {
	var res Result
	for _, k := range ctx.Self.CollisionBehaviors {
		switch k {
		case world.CollisionFloorContact:
			floorContact(ctx, other)
		default:
			ctx.Log.Warn("unknown collision behavior kind", zap.Stringer("kind", k))
		}
	}
	return res
}

// data returns self's state blob for kind k when it has the expected type.
func data[T world.Data](ctx *Context, k world.Kind) (T, bool) {
	d, ok := ctx.Self.Data[k].(T)
	return d, ok
}
