package engine

import (
	"fmt"
	"unicode/utf8"

	"github.com/ballpit/ballpit/internal/behavior"
	"github.com/ballpit/ballpit/internal/camera"
	"github.com/ballpit/ballpit/internal/core/ecs"
	"github.com/ballpit/ballpit/internal/data"
	"github.com/ballpit/ballpit/internal/physics"
	"github.com/ballpit/ballpit/internal/render"
	"github.com/ballpit/ballpit/internal/world"
	"github.com/gdamore/tcell/v2"
	"github.com/go-gl/mathgl/mgl32"
)

// FunctionChecker reports whether a script function exists.
type FunctionChecker interface {
	HasFunction(name string) bool
}

// sceneBuilder turns scene specs into stored entities with bodies.
type sceneBuilder struct {
	meshes  *data.MeshRegistry
	phys    *physics.World
	store   *world.Store
	scripts FunctionChecker

	floors  behavior.FloorSet
	names   map[string]ecs.EntityID
	targets []pendingTarget
}

type pendingTarget struct {
	data   *world.AttractionData
	target string
	owner  string
}

// buildScene creates every entity of sc. Unknown mesh, behavior or target
// names fail the whole build.
func buildScene(sc *data.Scene, meshes *data.MeshRegistry, phys *physics.World, store *world.Store, scripts FunctionChecker) (behavior.FloorSet, error) {
	b := &sceneBuilder{
		meshes:  meshes,
		phys:    phys,
		store:   store,
		scripts: scripts,
		floors:  make(behavior.FloorSet),
		names:   make(map[string]ecs.EntityID, len(sc.Entities)),
	}
	for i, spec := range sc.Entities {
		e, err := b.entity(spec, true)
		if err != nil {
			return nil, fmt.Errorf("entity %d (%s): %w", i, spec.Name, err)
		}
		id, err := store.Add(e)
		if err != nil {
			return nil, fmt.Errorf("entity %d (%s): %w", i, spec.Name, err)
		}
		if spec.Name == "" {
			continue
		}
		if _, dup := b.names[spec.Name]; dup {
			return nil, fmt.Errorf("entity name %q used twice", spec.Name)
		}
		b.names[spec.Name] = id
	}
	for _, t := range b.targets {
		id, ok := b.names[t.target]
		if !ok {
			return nil, fmt.Errorf("entity %s: attraction target %q not found", t.owner, t.target)
		}
		t.data.Target = id
	}
	return b.floors, nil
}

func (b *sceneBuilder) entity(spec data.EntitySpec, top bool) (*world.Entity, error) {
	e := world.New(spec.Position)
	e.Name = spec.Name
	e.Transform.Rotation = spec.Rotation
	e.Transform.Scale = data.ScaleOrOne(spec.Scale)

	if v := spec.Visual; v != nil {
		mesh, err := b.meshes.Resolve(v.Mesh)
		if err != nil {
			return nil, err
		}
		e.WithVisual(mesh)
		e.Visual.Offset = world.Transform{Position: v.Position, Rotation: v.Rotation, Scale: data.ScaleOrOne(v.Scale)}
	}

	if spec.Body != nil || spec.Collider != nil {
		if !top {
			return nil, fmt.Errorf("child entities cannot own bodies")
		}
		h, err := b.body(spec)
		if err != nil {
			return nil, err
		}
		e.WithBody(h)
		if spec.Floor {
			b.floors[h] = struct{}{}
		}
	} else if spec.Floor {
		return nil, fmt.Errorf("floor entity has no body")
	}

	for _, bs := range spec.Behaviors {
		if err := b.behavior(e, bs); err != nil {
			return nil, err
		}
	}
	for _, name := range spec.CollisionBehaviors {
		k, ok := world.ParseCollisionKind(name)
		if !ok {
			return nil, fmt.Errorf("unknown collision behavior %q", name)
		}
		e.WithCollisionBehavior(k)
	}

	for i, cs := range spec.Children {
		c, err := b.entity(cs, false)
		if err != nil {
			return nil, fmt.Errorf("child %d: %w", i, err)
		}
		e.WithChild(c)
	}
	return e, nil
}

func (b *sceneBuilder) body(spec data.EntitySpec) (physics.BodyHandle, error) {
	desc := physics.BodyDesc{
		Kind:     physics.BodyDynamic,
		Position: physics.Vec{X: float64(spec.Position.X()), Y: float64(spec.Position.Y())},
		Angle:    float64(spec.Rotation.Z()),
	}
	if spec.Body != nil {
		if spec.Body.Kind != "" {
			k, ok := physics.ParseBodyKind(spec.Body.Kind)
			if !ok {
				return 0, fmt.Errorf("unknown body kind %q", spec.Body.Kind)
			}
			desc.Kind = k
		}
		desc.LockRotation = spec.Body.LockRotation
	}
	if spec.Collider == nil {
		return 0, fmt.Errorf("body without collider")
	}

	col, err := colliderDesc(*spec.Collider, data.ScaleOrOne(spec.Scale))
	if err != nil {
		return 0, err
	}
	h := b.phys.CreateBody(desc)
	if _, err := b.phys.AttachCollider(h, col); err != nil {
		b.phys.RemoveBody(h)
		return 0, err
	}
	return h, nil
}

// colliderDesc converts a collider spec, scaling its size by the entity
// scale so a scaled cube collides like it looks.
func colliderDesc(cs data.ColliderSpec, scale mgl32.Vec3) (physics.ColliderDesc, error) {
	var d physics.ColliderDesc
	switch cs.Shape {
	case "ball":
		d = physics.Ball(cs.Radius * float64(scale.X()))
	case "box", "":
		d = physics.Box(cs.HalfExtents[0]*float64(scale.X()), cs.HalfExtents[1]*float64(scale.Y()))
	default:
		return d, fmt.Errorf("unknown collider shape %q", cs.Shape)
	}
	d.Density = cs.Density
	if cs.Friction != nil {
		d.Friction = *cs.Friction
	}
	d.Elasticity = cs.Elasticity
	d.ReportCollisions = cs.Events
	return d, nil
}

func (b *sceneBuilder) behavior(e *world.Entity, bs data.BehaviorSpec) error {
	k, ok := world.ParseKind(bs.Kind)
	if !ok {
		return fmt.Errorf("unknown behavior %q (known: %v)", bs.Kind, world.Kinds())
	}
	var d world.Data
	switch k {
	case world.KindControl:
		d = &world.ControlData{Accel: bs.Accel, MaxSpeed: bs.MaxSpeed, JumpFactor: bs.JumpFactor, Damping: bs.Damping}
	case world.KindDebugNudge:
		d = &world.DebugNudgeData{Rate: bs.Rate}
	case world.KindCameraTrack:
		d = &world.CameraTrackData{Offset: bs.Offset}
	case world.KindSpawner:
		mesh, err := b.meshes.Resolve(bs.Mesh)
		if err != nil {
			return fmt.Errorf("spawner: %w", err)
		}
		d = &world.SpawnerData{
			Cooldown: bs.Cooldown,
			Mesh:     mesh,
			Radius:   bs.Radius,
			Density:  bs.Density,
			Force:    bs.Force,
			Lifetime: bs.Lifetime,
		}
	case world.KindAttraction:
		if bs.Target == "" {
			return fmt.Errorf("attraction without target")
		}
		ad := &world.AttractionData{Force: bs.Force}
		b.targets = append(b.targets, pendingTarget{data: ad, target: bs.Target, owner: e.Name})
		d = ad
	case world.KindLifetime:
		d = &world.LifetimeData{TTL: bs.TTL}
	case world.KindScript:
		if b.scripts == nil {
			return fmt.Errorf("script behavior %q with scripting disabled", bs.Function)
		}
		if !b.scripts.HasFunction(bs.Function) {
			return fmt.Errorf("script function %q not defined", bs.Function)
		}
		d = &world.ScriptData{Function: bs.Function, Params: bs.Params}
	}
	e.WithBehavior(k, d)
	return nil
}

// newCamera places the camera from the scene. Zero rotation and light keep
// the camera defaults.
func newCamera(spec data.CameraSpec, aspect float32) *camera.Camera {
	c := camera.New(spec.Position, aspect)
	if spec.Rotation != (mgl32.Vec3{}) {
		c.Rotation = spec.Rotation
	}
	if spec.Light != (mgl32.Vec3{}) {
		c.Light = spec.Light
	}
	return c
}

// Glyphs maps every mesh to its terminal look. Unknown colors fall back to
// the terminal default.
func Glyphs(meshes *data.MeshRegistry) []render.Glyph {
	out := make([]render.Glyph, 0, meshes.Count())
	for _, m := range meshes.Entries() {
		r, _ := utf8.DecodeRuneInString(m.Glyph)
		if r == utf8.RuneError {
			r = '#'
		}
		out = append(out, render.Glyph{
			Rune:   r,
			Color:  tcell.GetColor(m.Color),
			Extent: mgl32.Vec2{m.Extent[0], m.Extent[1]},
		})
	}
	return out
}
