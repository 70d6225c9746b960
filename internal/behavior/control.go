package behavior

import (
	"math"

	"github.com/ballpit/ballpit/internal/input"
	"github.com/ballpit/ballpit/internal/physics"
	"github.com/ballpit/ballpit/internal/world"
)

// control drives self's body from left/right/jump input. A jump needs
// grounded at the time it runs and clears it. Horizontal speed is damped on
// the ground without horizontal input, then clamped to max speed.
func control(ctx *Context) {
	d, ok := data[*world.ControlData](ctx, world.KindControl)
	self := ctx.Self
	if !ok || !self.HasBody {
		return
	}

	jumpFactor := d.JumpFactor
	if jumpFactor == 0 {
		jumpFactor = ctx.Defaults.JumpFactor
	}
	damping := d.Damping
	if damping == 0 {
		damping = ctx.Defaults.Damping
	}

	var impulse physics.Vec
	moved := false
	if ctx.Input.Held(input.MoveRight) {
		impulse.X += d.Accel
		moved = true
	}
	if ctx.Input.Held(input.MoveLeft) {
		impulse.X -= d.Accel
		moved = true
	}
	if self.Grounded && ctx.Input.Held(input.Jump) {
		impulse.Y = d.Accel * jumpFactor
		self.Grounded = false
	}
	ctx.Physics.ApplyImpulse(self.Body, impulse)

	v, ok := ctx.Physics.LinearVelocity(self.Body)
	if !ok {
		return
	}
	if self.Grounded && !moved {
		v.X *= damping
	}
	v.X = math.Max(-d.MaxSpeed, math.Min(d.MaxSpeed, v.X))
	ctx.Physics.SetLinearVelocity(self.Body, v)
}
