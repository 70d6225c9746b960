package physics

import "github.com/jakecoffman/cp"

// Vec is the 2D vector type shared with the rigid-body backend.
type Vec = cp.Vector

// BodyHandle is an opaque reference to a rigid body. Handles are never
// reused within one World.
type BodyHandle uint32

// ColliderHandle is an opaque reference to a collider shape.
type ColliderHandle uint32

type BodyKind int

const (
	BodyDynamic BodyKind = iota
	BodyKinematic
	BodyStatic
)

func (k BodyKind) String() string {
	switch k {
	case BodyDynamic:
		return "dynamic"
	case BodyKinematic:
		return "kinematic"
	case BodyStatic:
		return "static"
	}
	return "unknown"
}

// ParseBodyKind maps scene names to kinds.
func ParseBodyKind(s string) (BodyKind, bool) {
	switch s {
	case "", "dynamic":
		return BodyDynamic, true
	case "kinematic":
		return BodyKinematic, true
	case "static":
		return BodyStatic, true
	}
	return 0, false
}

// BodyDesc describes a body to create.
type BodyDesc struct {
	Kind         BodyKind
	Position     Vec
	Angle        float64
	LockRotation bool
}

type ShapeKind int

const (
	ShapeBall ShapeKind = iota
	ShapeBox
)

// ColliderDesc describes a collider attached to a body. Density of zero
// falls back to the world default.
type ColliderDesc struct {
	Shape            ShapeKind
	Radius           float64 // ball
	HalfExtents      Vec     // box
	Density          float64
	Friction         float64
	Elasticity       float64
	ReportCollisions bool
}

// Ball is a shorthand for a ball collider.
func Ball(radius float64) ColliderDesc {
	return ColliderDesc{Shape: ShapeBall, Radius: radius, Friction: 0.5}
}

// Box is a shorthand for a box collider with the given half extents.
func Box(hx, hy float64) ColliderDesc {
	return ColliderDesc{Shape: ShapeBox, HalfExtents: Vec{X: hx, Y: hy}, Friction: 0.5}
}

type ContactKind int

const (
	ContactStarted ContactKind = iota
	ContactOngoing
)

func (k ContactKind) String() string {
	if k == ContactStarted {
		return "started"
	}
	return "ongoing"
}

// CollisionEvent is one reported contact between two colliders.
type CollisionEvent struct {
	Collider1 ColliderHandle
	Collider2 ColliderHandle
	Kind      ContactKind
}
