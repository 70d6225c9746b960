package behavior

import (
	"github.com/ballpit/ballpit/internal/physics"
	"github.com/ballpit/ballpit/internal/scripting"
	"github.com/ballpit/ballpit/internal/world"
)

// script hands self's state to a Lua function and applies what it returns.
func script(ctx *Context, res *Result) {
	d, ok := data[*world.ScriptData](ctx, world.KindScript)
	if !ok || ctx.Scripts == nil || d.Function == "" {
		return
	}
	self := ctx.Self

	sc := scripting.BehaviorContext{
		EntityID: uint64(self.ID),
		Grounded: self.Grounded,
		DT:       ctx.DT,
		Time:     ctx.Time,
		Params:   d.Params,
	}
	p := self.Position()
	sc.X, sc.Y = float64(p.X()), float64(p.Y())
	if self.HasBody {
		if v, ok := ctx.Physics.LinearVelocity(self.Body); ok {
			sc.VX, sc.VY = v.X, v.Y
		}
	}
	for _, sym := range ctx.Input.HeldSymbols() {
		sc.Held = append(sc.Held, string(sym))
	}

	for _, cmd := range ctx.Scripts.RunBehavior(d.Function, sc) {
		switch cmd.Type {
		case scripting.CmdImpulse:
			if self.HasBody {
				ctx.Physics.ApplyImpulse(self.Body, physics.Vec{X: cmd.X, Y: cmd.Y})
			}
		case scripting.CmdVelocity:
			if self.HasBody {
				ctx.Physics.SetLinearVelocity(self.Body, physics.Vec{X: cmd.X, Y: cmd.Y})
			}
		case scripting.CmdDespawn:
			res.Remove = append(res.Remove, self.ID)
		}
	}
}
