package behavior

import (
	"math"

	"github.com/ballpit/ballpit/internal/input"
	"github.com/ballpit/ballpit/internal/physics"
	"github.com/ballpit/ballpit/internal/world"
	"go.uber.org/zap"
)

// spawn creates a ball at self's position on the spawn input once the
// cooldown has passed. The ball's body exists in the physics world at once;
// its entity is only requested here and lands in the store at end of frame.
func spawn(ctx *Context, res *Result) {
	d, ok := data[*world.SpawnerData](ctx, world.KindSpawner)
	if !ok || !ctx.Input.Held(input.Spawn) || !d.Ready(ctx.Time) {
		return
	}
	self := ctx.Self
	pos := self.Position()

	radius := d.Radius
	if radius <= 0 {
		radius = 1
	}
	body := ctx.Physics.CreateBody(physics.BodyDesc{
		Kind:     physics.BodyDynamic,
		Position: physics.Vec{X: float64(pos.X()), Y: float64(pos.Y())},
	})
	col := physics.Ball(radius)
	col.Density = d.Density
	col.ReportCollisions = true
	if _, err := ctx.Physics.AttachCollider(body, col); err != nil {
		ctx.Physics.RemoveBody(body)
		ctx.Log.Warn("spawn collider rejected", zap.Error(err), zap.Uint64("spawner", uint64(self.ID)))
		return
	}

	force := d.Force
	if force == 0 {
		force = 1
	}
	ball := world.New(pos).
		WithVisual(d.Mesh).
		WithBody(body).
		WithBehavior(world.KindAttraction, &world.AttractionData{Target: self.ID, Force: force})
	ball.Name = "ball"
	if d.Lifetime > 0 {
		ball.WithBehavior(world.KindLifetime, &world.LifetimeData{TTL: d.Lifetime})
	}
	res.Add = append(res.Add, ball)

	d.LastFire = ctx.Time
	d.Fired = true
}

// attract pushes self toward its target. A target that is gone or has no
// body, or one sitting exactly on self, is a no-op.
func attract(ctx *Context) {
	d, ok := data[*world.AttractionData](ctx, world.KindAttraction)
	self := ctx.Self
	if !ok || !self.HasBody {
		return
	}
	target, ok := ctx.Store.Peek(d.Target)
	if !ok || !target.HasBody {
		return
	}
	from, ok := ctx.Physics.Translation(self.Body)
	if !ok {
		return
	}
	to, ok := ctx.Physics.Translation(target.Body)
	if !ok {
		return
	}
	dir := to.Sub(from)
	l := dir.Length()
	if l < 1e-9 || math.IsNaN(l) {
		return
	}
	ctx.Physics.ApplyImpulse(self.Body, dir.Mult(d.Force/l))
}

// lifetime removes self once TTL seconds of game time passed since its
// first update.
func lifetime(ctx *Context, res *Result) {
	d, ok := data[*world.LifetimeData](ctx, world.KindLifetime)
	if !ok {
		return
	}
	if !d.Started {
		d.Born = ctx.Time
		d.Started = true
	}
	if ctx.Time-d.Born >= d.TTL {
		res.Remove = append(res.Remove, ctx.Self.ID)
	}
}
