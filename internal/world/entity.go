package world

import (
	"github.com/ballpit/ballpit/internal/core/ecs"
	"github.com/ballpit/ballpit/internal/physics"
	"github.com/go-gl/mathgl/mgl32"
)

// Transform is position, Euler rotation (radians, X/Y/Z) and scale.
type Transform struct {
	Position mgl32.Vec3
	Rotation mgl32.Vec3
	Scale    mgl32.Vec3
}

// Identity returns a transform at the origin with unit scale.
func Identity() Transform {
	return Transform{Scale: mgl32.Vec3{1, 1, 1}}
}

// Matrix composes translation * rotation(Z*Y*X) * scale.
func (t Transform) Matrix() mgl32.Mat4 {
	return mgl32.Translate3D(t.Position.X(), t.Position.Y(), t.Position.Z()).
		Mul4(t.RotationMatrix()).
		Mul4(mgl32.Scale3D(t.Scale.X(), t.Scale.Y(), t.Scale.Z()))
}

func (t Transform) RotationMatrix() mgl32.Mat4 {
	return mgl32.HomogRotate3DZ(t.Rotation.Z()).
		Mul4(mgl32.HomogRotate3DY(t.Rotation.Y())).
		Mul4(mgl32.HomogRotate3DX(t.Rotation.X()))
}

// Drawable is the visual attached to an entity: a mesh index plus an offset
// transform composed with the entity's own at draw time.
type Drawable struct {
	Offset Transform
	Mesh   int
}

// Entity is one simulated object.
type Entity struct {
	ID        ecs.EntityID
	Name      string
	Transform Transform
	Visual    *Drawable

	Body    physics.BodyHandle
	HasBody bool

	Behaviors          BehaviorSet
	CollisionBehaviors CollisionSet
	Data               map[Kind]Data

	// Grounded is set by floor contact during collision dispatch and cleared
	// by jumps; the frame loop re-derives it every frame.
	Grounded bool

	// Children are visual-only sub-entities; they have no identity and are
	// not stored.
	Children []*Entity
}

// New returns an entity at pos with identity rotation and unit scale.
func New(pos mgl32.Vec3) *Entity {
	t := Identity()
	t.Position = pos
	return &Entity{
		Transform: t,
		Data:      make(map[Kind]Data, 2),
	}
}

// WithVisual attaches a drawable with an identity offset.
func (e *Entity) WithVisual(mesh int) *Entity {
	e.Visual = &Drawable{Offset: Identity(), Mesh: mesh}
	return e
}

// WithBody binds a physics body.
func (e *Entity) WithBody(h physics.BodyHandle) *Entity {
	e.Body = h
	e.HasBody = true
	return e
}

// WithBehavior adds a behavior kind and, when non-nil, its data. Data of a
// different kind is rejected by panicking, as it is a construction bug.
func (e *Entity) WithBehavior(k Kind, d Data) *Entity {
	e.Behaviors.Add(k)
	if d != nil {
		if d.Kind() != k {
			panic("world: behavior data " + d.Kind().String() + " attached as " + k.String())
		}
		if e.Data == nil {
			e.Data = make(map[Kind]Data, 2)
		}
		e.Data[k] = d
	}
	return e
}

func (e *Entity) WithCollisionBehavior(k CollisionKind) *Entity {
	e.CollisionBehaviors.Add(k)
	return e
}

func (e *Entity) WithChild(c *Entity) *Entity {
	e.Children = append(e.Children, c)
	return e
}

// Position is shorthand for the transform position.
func (e *Entity) Position() mgl32.Vec3 { return e.Transform.Position }

// BodyReader is the read side of the physics world used for syncing.
type BodyReader interface {
	Translation(physics.BodyHandle) (physics.Vec, bool)
	Angle(physics.BodyHandle) (float64, bool)
}

// SyncFromBody copies the body's translation into X/Y and its angle into
// the Z rotation. Returns false when unbound or the body is gone.
func (e *Entity) SyncFromBody(r BodyReader) bool {
	if !e.HasBody {
		return false
	}
	p, ok := r.Translation(e.Body)
	if !ok {
		return false
	}
	e.Transform.Position[0] = float32(p.X)
	e.Transform.Position[1] = float32(p.Y)
	if a, ok := r.Angle(e.Body); ok {
		e.Transform.Rotation[2] = float32(a)
	}
	return true
}

// ModelMatrix is the world transform the visual is drawn with.
func (e *Entity) ModelMatrix() mgl32.Mat4 {
	m := e.Transform.Matrix()
	if e.Visual != nil {
		m = m.Mul4(e.Visual.Offset.Matrix())
	}
	return m
}

// Ref is a read-only snapshot of another entity, handed to behaviors that
// cross-reference entities by identity.
type Ref struct {
	ID       ecs.EntityID
	Name     string
	Position mgl32.Vec3
	Body     physics.BodyHandle
	HasBody  bool
	Grounded bool
}

func (e *Entity) Ref() Ref {
	return Ref{
		ID:       e.ID,
		Name:     e.Name,
		Position: e.Transform.Position,
		Body:     e.Body,
		HasBody:  e.HasBody,
		Grounded: e.Grounded,
	}
}
