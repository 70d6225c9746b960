package world

import (
	"errors"
	"fmt"

	"github.com/ballpit/ballpit/internal/core/ecs"
	"github.com/ballpit/ballpit/internal/physics"
	"go.uber.org/zap"
)

var (
	// ErrUnknownBody means a body handle has no live entity: the store and
	// the physics world are out of sync.
	ErrUnknownBody = errors.New("body handle not mapped to an entity")
	// ErrBodyBound means an added entity reuses a body already owned by a
	// live entity.
	ErrBodyBound = errors.New("body handle already bound to an entity")
)

// BodyReleaser deletes a body and its colliders from the physics world.
type BodyReleaser interface {
	RemoveBody(physics.BodyHandle)
}

// View is the read-only side of the store handed to behaviors.
type View interface {
	Peek(id ecs.EntityID) (Ref, bool)
	LookupByBody(h physics.BodyHandle) (ecs.EntityID, error)
	Len() int
}

// bodyIndex keeps the body -> entity reverse map. It is the first table in
// the registry so a body is decoupled before its entity record disappears.
type bodyIndex struct {
	byEntity map[ecs.EntityID]physics.BodyHandle
	byBody   map[physics.BodyHandle]ecs.EntityID
	release  BodyReleaser
}

func (b *bodyIndex) Remove(id ecs.EntityID) bool {
	h, ok := b.byEntity[id]
	if !ok {
		return false
	}
	if b.release != nil {
		b.release.RemoveBody(h)
	}
	delete(b.byEntity, id)
	delete(b.byBody, h)
	return true
}

// Store owns every live entity. It is the single source of truth for what
// exists and the only place ids are assigned.
type Store struct {
	ids      *ecs.IDAllocator
	entities *ecs.PtrComponentStore[Entity]
	bodies   *bodyIndex
	registry *ecs.Registry
	log      *zap.Logger
}

func NewStore(release BodyReleaser, log *zap.Logger) *Store {
	s := &Store{
		ids:      ecs.NewIDAllocator(),
		entities: ecs.NewPtrComponentStore[Entity](),
		bodies: &bodyIndex{
			byEntity: make(map[ecs.EntityID]physics.BodyHandle, 128),
			byBody:   make(map[physics.BodyHandle]ecs.EntityID, 128),
			release:  release,
		},
		log: log,
	}
	s.registry = ecs.NewRegistry(s.bodies, s.entities)
	return s
}

// Add assigns the next id to e, registers its body mapping and stores it.
func (s *Store) Add(e *Entity) (ecs.EntityID, error) {
	if e.HasBody {
		if owner, ok := s.bodies.byBody[e.Body]; ok {
			return 0, fmt.Errorf("add entity with body %d owned by %d: %w", e.Body, owner, ErrBodyBound)
		}
	}
	id := s.ids.Next()
	e.ID = id
	if e.Data == nil {
		e.Data = make(map[Kind]Data)
	}
	if e.HasBody {
		s.bodies.byEntity[id] = e.Body
		s.bodies.byBody[e.Body] = id
	}
	s.entities.Set(id, e)
	return id, nil
}

// Remove deletes the entity and releases its body. Removing an id that is
// not live is a no-op and returns false.
func (s *Store) Remove(id ecs.EntityID) bool {
	if !s.registry.RemoveAll(id) {
		s.log.Debug("remove of absent entity ignored", zap.Uint64("id", uint64(id)))
		return false
	}
	return true
}

// LookupByBody resolves a body handle to its entity.
func (s *Store) LookupByBody(h physics.BodyHandle) (ecs.EntityID, error) {
	id, ok := s.bodies.byBody[h]
	if !ok {
		return 0, fmt.Errorf("lookup body %d: %w", h, ErrUnknownBody)
	}
	return id, nil
}

// Get returns the live entity for mutation by the frame loop.
func (s *Store) Get(id ecs.EntityID) (*Entity, bool) {
	return s.entities.Get(id)
}

// Peek returns a read-only snapshot of a live entity.
func (s *Store) Peek(id ecs.EntityID) (Ref, bool) {
	e, ok := s.entities.Get(id)
	if !ok {
		return Ref{}, false
	}
	return e.Ref(), true
}

func (s *Store) Has(id ecs.EntityID) bool { return s.entities.Has(id) }

func (s *Store) Len() int { return s.entities.Len() }

// IDs lists live ids in ascending order.
func (s *Store) IDs() []ecs.EntityID { return s.entities.IDs() }

// Each visits the entities live when it was called, in ascending id order.
// Entities fn removes before they are reached are skipped; entities it adds
// are not visited.
func (s *Store) Each(fn func(*Entity)) {
	s.entities.Each(func(_ ecs.EntityID, e *Entity) { fn(e) })
}

// BodyHandles returns a copy of the reverse map.
func (s *Store) BodyHandles() map[physics.BodyHandle]ecs.EntityID {
	out := make(map[physics.BodyHandle]ecs.EntityID, len(s.bodies.byBody))
	for h, id := range s.bodies.byBody {
		out[h] = id
	}
	return out
}

// NextID previews the id the next Add will assign.
func (s *Store) NextID() ecs.EntityID { return s.ids.Peek() }
