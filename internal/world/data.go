package world

import (
	"github.com/ballpit/ballpit/internal/core/ecs"
	"github.com/go-gl/mathgl/mgl32"
)

// Data is the private state of one behavior. Each kind that needs state has
// exactly one variant below.
type Data interface {
	Kind() Kind
	isData()
}

// ControlData drives a body from left/right/jump input. Zero JumpFactor or
// Damping fall back to the configured defaults.
type ControlData struct {
	Accel      float64
	MaxSpeed   float64
	JumpFactor float64
	Damping    float64
}

// DebugNudgeData moves the visual offset; Rate is units per second.
type DebugNudgeData struct {
	Rate float64
}

// CameraTrackData pins the camera to the entity plus Offset.
type CameraTrackData struct {
	Offset mgl32.Vec3
}

// SpawnerData spawns attracted balls on the spawn input, at most once per
// Cooldown seconds of game time.
type SpawnerData struct {
	Cooldown float64
	LastFire float64
	Fired    bool
	Mesh     int
	Radius   float64
	Density  float64
	Force    float64 // attraction force given to the spawned ball
	Lifetime float64 // seconds; zero keeps the ball forever
}

// Ready reports whether the cooldown has elapsed at game time now.
func (d *SpawnerData) Ready(now float64) bool {
	return !d.Fired || now-d.LastFire >= d.Cooldown
}

// AttractionData pulls the entity's body toward Target's body.
type AttractionData struct {
	Target ecs.EntityID
	Force  float64
}

// LifetimeData removes its entity TTL seconds after the first update.
type LifetimeData struct {
	TTL     float64
	Born    float64
	Started bool
}

// ScriptData names a Lua function run every frame.
type ScriptData struct {
	Function string
	Params   map[string]float64
}

func (*ControlData) Kind() Kind     { return KindControl }
func (*DebugNudgeData) Kind() Kind  { return KindDebugNudge }
func (*CameraTrackData) Kind() Kind { return KindCameraTrack }
func (*SpawnerData) Kind() Kind     { return KindSpawner }
func (*AttractionData) Kind() Kind  { return KindAttraction }
func (*LifetimeData) Kind() Kind    { return KindLifetime }
func (*ScriptData) Kind() Kind      { return KindScript }

func (*ControlData) isData()     {}
func (*DebugNudgeData) isData()  {}
func (*CameraTrackData) isData() {}
func (*SpawnerData) isData()     {}
func (*AttractionData) isData()  {}
func (*LifetimeData) isData()    {}
func (*ScriptData) isData()      {}
