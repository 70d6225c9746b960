package system

import (
	"time"

	"github.com/ballpit/ballpit/internal/core/ecs"
	"github.com/ballpit/ballpit/internal/core/event"
	coresys "github.com/ballpit/ballpit/internal/core/system"
	"github.com/ballpit/ballpit/internal/world"
	"go.uber.org/zap"
)

// ApplySystem flushes the frame's pending structural changes: every removal
// first, then every addition. Phase 7 (Apply).
type ApplySystem struct {
	store *world.Store
	bus   *event.Bus
	frame *Frame
	log   *zap.Logger
}

func NewApplySystem(store *world.Store, bus *event.Bus, frame *Frame, log *zap.Logger) *ApplySystem {
	return &ApplySystem{store: store, bus: bus, frame: frame, log: log}
}

func (s *ApplySystem) Phase() coresys.Phase { return coresys.PhaseApply }

func (s *ApplySystem) Update(_ time.Duration) {
	s.frame.Pending.Flush(s.remove, s.add)
}

func (s *ApplySystem) remove(id ecs.EntityID) {
	if !s.store.Remove(id) {
		return
	}
	s.frame.Removed++
	event.Emit(s.bus, event.EntityRemoved{ID: id})
}

func (s *ApplySystem) add(e *world.Entity) {
	id, err := s.store.Add(e)
	if err != nil {
		s.log.Error("queued entity rejected", zap.String("name", e.Name), zap.Error(err))
		return
	}
	s.frame.Spawned++
	mesh := -1
	if e.Visual != nil {
		mesh = e.Visual.Mesh
	}
	event.Emit(s.bus, event.EntitySpawned{ID: id, Name: e.Name, Mesh: mesh})
}
