package behavior

import "github.com/ballpit/ballpit/internal/world"

// floorContact grounds self when it touched a floor body from above.
func floorContact(ctx *Context, other world.Ref) {
	if !other.HasBody || !ctx.Floors.Has(other.Body) {
		return
	}
	p, ok := ctx.Physics.Translation(other.Body)
	if !ok {
		return
	}
	if float64(ctx.Self.Position().Y())-ctx.Defaults.FloorEpsilon >= p.Y {
		ctx.Self.Grounded = true
	}
}
