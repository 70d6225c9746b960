package behavior

import (
	"github.com/ballpit/ballpit/internal/input"
	"github.com/ballpit/ballpit/internal/world"
	"go.uber.org/zap"
)

// debugNudge moves the visual offset, never the body.
func debugNudge(ctx *Context) {
	vis := ctx.Self.Visual
	if vis == nil {
		return
	}
	rate := ctx.Defaults.NudgeRate
	if d, ok := data[*world.DebugNudgeData](ctx, world.KindDebugNudge); ok && d.Rate != 0 {
		rate = d.Rate
	}

	var dx, dy float64
	if ctx.Input.Held(input.NudgeUp) {
		dy++
	}
	if ctx.Input.Held(input.NudgeDown) {
		dy--
	}
	if ctx.Input.Held(input.NudgeRight) {
		dx++
	}
	if ctx.Input.Held(input.NudgeLeft) {
		dx--
	}
	if ctx.Input.Held(input.DebugLog) {
		p := vis.Offset.Position
		ctx.Log.Debug("visual offset",
			zap.Uint64("entity", uint64(ctx.Self.ID)),
			zap.Float32("x", p.X()), zap.Float32("y", p.Y()), zap.Float32("z", p.Z()))
	}
	step := rate * ctx.DT
	vis.Offset.Position[0] += float32(dx * step)
	vis.Offset.Position[1] += float32(dy * step)
}

// cameraTrack pins the camera to self plus an offset.
func cameraTrack(ctx *Context) {
	d, ok := data[*world.CameraTrackData](ctx, world.KindCameraTrack)
	if !ok || ctx.Camera == nil {
		return
	}
	ctx.Camera.Position = ctx.Self.Position().Add(d.Offset)
}
