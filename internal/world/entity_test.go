package world

import (
	"math"
	"testing"

	"github.com/ballpit/ballpit/internal/physics"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixedBody struct {
	pos   physics.Vec
	angle float64
	ok    bool
}

func (f fixedBody) Translation(physics.BodyHandle) (physics.Vec, bool) { return f.pos, f.ok }
func (f fixedBody) Angle(physics.BodyHandle) (float64, bool)           { return f.angle, f.ok }

func TestModelMatrixTranslatesRotatesScales(t *testing.T) {
	e := New(mgl32.Vec3{3, 4, 0})
	e.Transform.Rotation = mgl32.Vec3{0, 0, math.Pi / 2}
	e.Transform.Scale = mgl32.Vec3{2, 2, 2}

	p := e.ModelMatrix().Mul4x1(mgl32.Vec4{1, 0, 0, 1})
	assert.InDelta(t, 3, p.X(), 1e-5)
	assert.InDelta(t, 6, p.Y(), 1e-5)
}

func TestModelMatrixComposesVisualOffset(t *testing.T) {
	e := New(mgl32.Vec3{1, 0, 0}).WithVisual(2)
	e.Visual.Offset.Position = mgl32.Vec3{0, 0.5, 0}

	p := e.ModelMatrix().Mul4x1(mgl32.Vec4{0, 0, 0, 1})
	assert.InDelta(t, 1, p.X(), 1e-6)
	assert.InDelta(t, 0.5, p.Y(), 1e-6)
	assert.Equal(t, 2, e.Visual.Mesh)
}

func TestSyncFromBody(t *testing.T) {
	e := New(mgl32.Vec3{0, 0, -3})
	assert.False(t, e.SyncFromBody(fixedBody{ok: true}), "unbound")

	e.WithBody(1)
	assert.False(t, e.SyncFromBody(fixedBody{ok: false}), "body gone")

	require.True(t, e.SyncFromBody(fixedBody{pos: physics.Vec{X: 2, Y: 5}, angle: 0.25, ok: true}))
	assert.Equal(t, mgl32.Vec3{2, 5, -3}, e.Position(), "z is kept")
	assert.InDelta(t, 0.25, e.Transform.Rotation.Z(), 1e-6)
}

func TestWithBehaviorDedupesAndStoresData(t *testing.T) {
	e := New(mgl32.Vec3{}).
		WithBehavior(KindControl, &ControlData{Accel: 1, MaxSpeed: 2}).
		WithBehavior(KindControl, nil).
		WithBehavior(KindCameraTrack, &CameraTrackData{})

	assert.Equal(t, BehaviorSet{KindControl, KindCameraTrack}, e.Behaviors)
	assert.IsType(t, &ControlData{}, e.Data[KindControl])

	assert.Panics(t, func() { e.WithBehavior(KindSpawner, &AttractionData{}) })
}

func TestParseKindCoversEveryKind(t *testing.T) {
	for _, k := range Kinds() {
		got, ok := ParseKind(k.String())
		require.True(t, ok, k.String())
		assert.Equal(t, k, got)
	}
	assert.Len(t, Kinds(), 7)
	_, ok := ParseKind("fly")
	assert.False(t, ok)
}

func TestParseCollisionKind(t *testing.T) {
	k, ok := ParseCollisionKind("floor_contact")
	require.True(t, ok)
	assert.Equal(t, CollisionFloorContact, k)

	_, ok = ParseCollisionKind("wall_contact")
	assert.False(t, ok)
}

func TestSpawnerReady(t *testing.T) {
	d := &SpawnerData{Cooldown: 2}
	assert.True(t, d.Ready(0), "never fired")
	d.Fired, d.LastFire = true, 0
	assert.False(t, d.Ready(1))
	assert.True(t, d.Ready(2.1))
}
