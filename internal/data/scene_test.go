package data

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sceneYAML = `
name: test
camera:
  position: [0, 1, 5]
  rotation: [0, 0, -90]
meshes:
  - {name: cube, glyph: "#", color: white, extent: [1, 1]}
  - {name: ball, glyph: "o"}
entities:
  - name: floor
    body: {kind: kinematic}
    collider: {shape: box, half_extents: [100, 1]}
    visual: {mesh: cube, scale: [100, 1, 1]}
    floor: true
  - name: player
    position: [0, 5, 0]
    collider: {shape: ball, radius: 1, friction: 0, events: true}
    behaviors:
      - {kind: control, accel: 10, max_speed: 5}
      - {kind: spawner, cooldown: 2, mesh: ball, radius: 0.5}
    collision_behaviors: [floor_contact]
  - name: box
    position: [5, 2, 0]
    repeat: {count: 3, step: [0, 2, 0]}
    visual: {mesh: cube}
    behaviors:
      - {kind: attraction, target: player, force: 0.25}
`

func TestParseSceneExpandsRepeat(t *testing.T) {
	s, err := ParseScene([]byte(sceneYAML))
	require.NoError(t, err)

	require.Len(t, s.Entities, 5)
	assert.Equal(t, mgl32.Vec3{0, 1, 5}, s.Camera.Position)
	assert.Equal(t, "box_2", s.Entities[4].Name)
	assert.Equal(t, mgl32.Vec3{5, 6, 0}, s.Entities[4].Position)
	assert.Nil(t, s.Entities[4].Repeat)

	player := s.Entities[1]
	require.Len(t, player.Behaviors, 2)
	assert.Equal(t, "control", player.Behaviors[0].Kind)
	assert.Equal(t, 10.0, player.Behaviors[0].Accel)
	require.NotNil(t, player.Collider.Friction)
	assert.Zero(t, *player.Collider.Friction)
	assert.Equal(t, []string{"floor_contact"}, player.CollisionBehaviors)
	assert.NotEmpty(t, s.Raw)
}

func TestRepeatScaleStep(t *testing.T) {
	s, err := ParseScene([]byte(`
entities:
  - name: bg
    visual: {mesh: cube}
    repeat: {count: 2, step: [2, 0, 0], scale_step: [1, 1, 1]}
`))
	require.NoError(t, err)
	assert.Equal(t, mgl32.Vec3{1, 1, 1}, s.Entities[0].Visual.Scale)
	assert.Equal(t, mgl32.Vec3{2, 2, 2}, s.Entities[1].Visual.Scale)
}

func TestParseSceneRejectsEmptyRepeat(t *testing.T) {
	_, err := ParseScene([]byte("entities:\n  - {name: x, repeat: {count: 0}}\n"))
	assert.Error(t, err)
}

func TestMeshRegistry(t *testing.T) {
	s, err := ParseScene([]byte(sceneYAML))
	require.NoError(t, err)
	reg, err := NewMeshRegistry(s.Meshes)
	require.NoError(t, err)

	idx, err := reg.Resolve("ball")
	require.NoError(t, err)
	assert.Equal(t, 1, idx)
	assert.Equal(t, [2]float32{0.5, 0.5}, reg.Get(idx).Extent, "default extent")

	_, err = reg.Resolve("cone_ring")
	assert.ErrorIs(t, err, ErrUnknownMesh)
	assert.Nil(t, reg.Get(9))
}

func TestMeshRegistryRejectsDuplicates(t *testing.T) {
	_, err := NewMeshRegistry([]MeshEntry{{Name: "a"}, {Name: "a"}})
	assert.Error(t, err)
}
