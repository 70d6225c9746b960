package physics

import (
	"errors"
	"fmt"
	"math"

	"github.com/ballpit/ballpit/internal/config"
	"github.com/jakecoffman/cp"
	"go.uber.org/zap"
)

// collision type carried by every shape that reports collisions
const reportingType cp.CollisionType = 1

var ErrUnknownBody = errors.New("unknown body handle")

type bodyRecord struct {
	body      *cp.Body
	kind      BodyKind
	locked    bool
	colliders []ColliderHandle
	mass      float64
	moment    float64
}

type colliderRecord struct {
	shape  *cp.Shape
	parent BodyHandle
}

type pairKey struct{ a, b ColliderHandle }

func makePairKey(a, b ColliderHandle) pairKey {
	if a > b {
		a, b = b, a
	}
	return pairKey{a, b}
}

// World wraps a Chipmunk2D space behind integer handles. It is driven from
// the frame goroutine only.
type World struct {
	space      *cp.Space
	bodies     map[BodyHandle]*bodyRecord
	colliders  map[ColliderHandle]*colliderRecord
	shapes     map[*cp.Shape]ColliderHandle
	nextBody   BodyHandle
	nextShape  ColliderHandle
	subSteps   int
	maxStep    float64
	density    float64
	persistent bool

	pending []CollisionEvent
	seen    map[pairKey]struct{}
	log     *zap.Logger
}

func NewWorld(cfg config.PhysicsConfig, log *zap.Logger) *World {
	space := cp.NewSpace()
	space.SetGravity(cp.Vector{X: cfg.Gravity[0], Y: cfg.Gravity[1]})

	density := cfg.DefaultDensity
	if density <= 0 {
		density = 1
	}
	subSteps := cfg.SubSteps
	if subSteps < 1 {
		subSteps = 1
	}

	w := &World{
		space:      space,
		bodies:     make(map[BodyHandle]*bodyRecord, 128),
		colliders:  make(map[ColliderHandle]*colliderRecord, 128),
		shapes:     make(map[*cp.Shape]ColliderHandle, 128),
		subSteps:   subSteps,
		maxStep:    cfg.MaxStep,
		density:    density,
		persistent: cfg.ContactReporting != config.ContactStart,
		pending:    make([]CollisionEvent, 0, 64),
		seen:       make(map[pairKey]struct{}, 64),
		log:        log,
	}

	handler := space.NewWildcardCollisionHandler(reportingType)
	handler.BeginFunc = func(arb *cp.Arbiter, _ *cp.Space, _ interface{}) bool {
		w.record(arb, ContactStarted)
		return true
	}
	if w.persistent {
		handler.PreSolveFunc = func(arb *cp.Arbiter, _ *cp.Space, _ interface{}) bool {
			w.record(arb, ContactOngoing)
			return true
		}
	}
	return w
}

// record queues one event per unordered collider pair per step. Both
// wildcard callbacks fire when both shapes report, so pairs are de-duplicated.
func (w *World) record(arb *cp.Arbiter, kind ContactKind) {
	sa, sb := arb.Shapes()
	a, okA := w.shapes[sa]
	b, okB := w.shapes[sb]
	if !okA || !okB {
		return
	}
	key := makePairKey(a, b)
	if _, dup := w.seen[key]; dup {
		return
	}
	w.seen[key] = struct{}{}
	w.pending = append(w.pending, CollisionEvent{Collider1: a, Collider2: b, Kind: kind})
}

// CreateBody adds a body to the space. Dynamic bodies get their mass from
// the colliders attached afterwards.
func (w *World) CreateBody(desc BodyDesc) BodyHandle {
	var body *cp.Body
	switch desc.Kind {
	case BodyStatic:
		body = cp.NewStaticBody()
	case BodyKinematic:
		body = cp.NewKinematicBody()
	default:
		body = cp.NewBody(1, 1)
	}
	body.SetPosition(desc.Position)
	body.SetAngle(desc.Angle)
	w.space.AddBody(body)

	w.nextBody++
	h := w.nextBody
	w.bodies[h] = &bodyRecord{body: body, kind: desc.Kind, locked: desc.LockRotation}
	if desc.Kind == BodyDynamic && desc.LockRotation {
		body.SetMoment(math.Inf(1))
	}
	return h
}

// AttachCollider adds a collider shape to an existing body.
func (w *World) AttachCollider(h BodyHandle, desc ColliderDesc) (ColliderHandle, error) {
	rec, ok := w.bodies[h]
	if !ok {
		return 0, fmt.Errorf("attach collider to body %d: %w", h, ErrUnknownBody)
	}

	density := desc.Density
	if density <= 0 {
		density = w.density
	}

	var (
		shape  *cp.Shape
		mass   float64
		moment float64
	)
	switch desc.Shape {
	case ShapeBall:
		if desc.Radius <= 0 {
			return 0, fmt.Errorf("ball collider radius must be positive, got %v", desc.Radius)
		}
		shape = cp.NewCircle(rec.body, desc.Radius, cp.Vector{})
		mass = density * math.Pi * desc.Radius * desc.Radius
		moment = cp.MomentForCircle(mass, 0, desc.Radius, cp.Vector{})
	case ShapeBox:
		wd, ht := desc.HalfExtents.X*2, desc.HalfExtents.Y*2
		if wd <= 0 || ht <= 0 {
			return 0, fmt.Errorf("box collider extents must be positive, got %v", desc.HalfExtents)
		}
		shape = cp.NewBox(rec.body, wd, ht, 0)
		mass = density * wd * ht
		moment = cp.MomentForBox(mass, wd, ht)
	default:
		return 0, fmt.Errorf("unknown collider shape %d", desc.Shape)
	}

	shape.SetFriction(desc.Friction)
	shape.SetElasticity(desc.Elasticity)
	if desc.ReportCollisions {
		shape.SetCollisionType(reportingType)
	}
	w.space.AddShape(shape)

	if rec.kind == BodyDynamic {
		rec.mass += mass
		rec.moment += moment
		rec.body.SetMass(rec.mass)
		if rec.locked {
			rec.body.SetMoment(math.Inf(1))
		} else {
			rec.body.SetMoment(rec.moment)
		}
	}

	w.nextShape++
	ch := w.nextShape
	w.colliders[ch] = &colliderRecord{shape: shape, parent: h}
	w.shapes[shape] = ch
	rec.colliders = append(rec.colliders, ch)
	return ch, nil
}

// RemoveBody detaches and deletes every collider of the body, then the body.
// Unknown handles are ignored.
func (w *World) RemoveBody(h BodyHandle) {
	rec, ok := w.bodies[h]
	if !ok {
		return
	}
	for _, ch := range rec.colliders {
		if c, ok := w.colliders[ch]; ok {
			w.space.RemoveShape(c.shape)
			delete(w.shapes, c.shape)
			delete(w.colliders, ch)
		}
	}
	w.space.RemoveBody(rec.body)
	delete(w.bodies, h)
}

// Step advances the simulation by dt seconds, split into sub-steps. Frames
// longer than the configured max step are clamped.
func (w *World) Step(dt float64) {
	clear(w.seen)
	if dt <= 0 {
		return
	}
	if w.maxStep > 0 && dt > w.maxStep {
		w.log.Debug("physics step clamped", zap.Float64("dt", dt), zap.Float64("max", w.maxStep))
		dt = w.maxStep
	}
	sub := dt / float64(w.subSteps)
	for i := 0; i < w.subSteps; i++ {
		w.space.Step(sub)
	}
}

// DrainEvents returns and clears the queued collision events.
func (w *World) DrainEvents() []CollisionEvent {
	if len(w.pending) == 0 {
		return nil
	}
	out := make([]CollisionEvent, len(w.pending))
	copy(out, w.pending)
	w.pending = w.pending[:0]
	return out
}

// ColliderParent resolves a collider to the body it is attached to.
func (w *World) ColliderParent(ch ColliderHandle) (BodyHandle, bool) {
	c, ok := w.colliders[ch]
	if !ok {
		return 0, false
	}
	return c.parent, true
}

func (w *World) HasBody(h BodyHandle) bool {
	_, ok := w.bodies[h]
	return ok
}

func (w *World) BodyCount() int { return len(w.bodies) }

func (w *World) ColliderCount() int { return len(w.colliders) }

func (w *World) Translation(h BodyHandle) (Vec, bool) {
	rec, ok := w.bodies[h]
	if !ok {
		return Vec{}, false
	}
	return rec.body.Position(), true
}

func (w *World) Angle(h BodyHandle) (float64, bool) {
	rec, ok := w.bodies[h]
	if !ok {
		return 0, false
	}
	return rec.body.Angle(), true
}

func (w *World) LinearVelocity(h BodyHandle) (Vec, bool) {
	rec, ok := w.bodies[h]
	if !ok {
		return Vec{}, false
	}
	return rec.body.Velocity(), true
}

func (w *World) SetLinearVelocity(h BodyHandle, v Vec) bool {
	rec, ok := w.bodies[h]
	if !ok {
		return false
	}
	rec.body.SetVelocityVector(v)
	return true
}

// ApplyImpulse applies an impulse through the body's center of gravity.
func (w *World) ApplyImpulse(h BodyHandle, impulse Vec) bool {
	rec, ok := w.bodies[h]
	if !ok {
		return false
	}
	if rec.kind != BodyDynamic {
		return false
	}
	rec.body.ApplyImpulseAtWorldPoint(impulse, rec.body.Position())
	rec.body.Activate()
	return true
}

// Mass returns the accumulated mass of a dynamic body.
func (w *World) Mass(h BodyHandle) (float64, bool) {
	rec, ok := w.bodies[h]
	if !ok {
		return 0, false
	}
	return rec.body.Mass(), true
}
