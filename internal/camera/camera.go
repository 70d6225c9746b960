// Package camera holds the view parameters and the free-look controller.
package camera

import (
	"math"

	"github.com/ballpit/ballpit/internal/config"
	"github.com/go-gl/mathgl/mgl32"
)

var worldUp = mgl32.Vec3{0, 1, 0}

// Camera is the viewer: position, rotation in degrees (roll, pitch, yaw),
// a light position and a projection.
type Camera struct {
	Position   mgl32.Vec3
	Rotation   mgl32.Vec3
	Light      mgl32.Vec3
	Projection mgl32.Mat4
}

// New returns a camera at pos looking down -Z (yaw -90) with a 45 degree
// perspective projection.
func New(pos mgl32.Vec3, aspect float32) *Camera {
	return &Camera{
		Position:   pos,
		Rotation:   mgl32.Vec3{0, 0, -90},
		Light:      mgl32.Vec3{0, 10, 5},
		Projection: mgl32.Perspective(mgl32.DegToRad(45), aspect, 0.1, 100),
	}
}

func (c *Camera) Pitch() float32 { return c.Rotation[1] }
func (c *Camera) Yaw() float32   { return c.Rotation[2] }

// LookDir is the unit view direction derived from pitch and yaw.
func (c *Camera) LookDir() mgl32.Vec3 {
	pitch := float64(mgl32.DegToRad(c.Pitch()))
	yaw := float64(mgl32.DegToRad(c.Yaw()))
	d := mgl32.Vec3{
		float32(math.Cos(yaw) * math.Cos(pitch)),
		float32(math.Sin(pitch)),
		float32(math.Sin(yaw) * math.Cos(pitch)),
	}
	return d.Normalize()
}

// ViewMatrix looks from Position along LookDir with +Y up.
func (c *Camera) ViewMatrix() mgl32.Mat4 {
	return mgl32.LookAtV(c.Position, c.Position.Add(c.LookDir()), worldUp)
}

// Controls is one frame of free-look input.
type Controls struct {
	Forward, Back, Left, Right bool
	Sprint                     bool
	MouseDX, MouseDY           float64
}

// Controller moves a camera from Controls.
type Controller struct {
	speed      float64
	sprint     float64
	pitchLimit float64
}

func NewController(cfg config.CameraConfig) *Controller {
	sprint := cfg.SprintMultiplier
	if sprint <= 0 {
		sprint = 1
	}
	limit := cfg.PitchLimit
	if limit <= 0 || limit > 89 {
		limit = 89
	}
	return &Controller{speed: cfg.Speed, sprint: sprint, pitchLimit: limit}
}

// Update applies one frame of input and reports whether the view changed.
// Movement is relative to the look direction; strafing follows
// cross(look, up). Pitch is clamped and yaw wraps at 360 degrees.
func (ctl *Controller) Update(c *Camera, in Controls, dt float64) bool {
	changed := false

	look := c.LookDir()
	side := look.Cross(worldUp)
	var dir mgl32.Vec3
	if in.Forward {
		dir = dir.Add(look)
	}
	if in.Back {
		dir = dir.Sub(look)
	}
	if in.Right {
		dir = dir.Add(side)
	}
	if in.Left {
		dir = dir.Sub(side)
	}
	if dir.Len() > 1e-6 {
		step := ctl.speed * dt
		if in.Sprint {
			step *= ctl.sprint
		}
		c.Position = c.Position.Add(dir.Normalize().Mul(float32(step)))
		changed = true
	}

	if in.MouseDX != 0 || in.MouseDY != 0 {
		pitch := float64(c.Rotation[1]) - in.MouseDY
		c.Rotation[1] = float32(math.Max(-ctl.pitchLimit, math.Min(ctl.pitchLimit, pitch)))
		c.Rotation[2] = float32(math.Mod(float64(c.Rotation[2])+in.MouseDX, 360))
		changed = true
	}
	return changed
}
