package system

import (
	"time"

	"github.com/ballpit/ballpit/internal/core/event"
	coresys "github.com/ballpit/ballpit/internal/core/system"
	"github.com/ballpit/ballpit/internal/input"
	"go.uber.org/zap"
)

// InputSystem drains the input source once per frame into the held set.
// Phase 0 (Input).
type InputSystem struct {
	source input.Source
	state  *input.State
	now    func() time.Time
	log    *zap.Logger
	quit   bool
}

func NewInputSystem(source input.Source, state *input.State, log *zap.Logger) *InputSystem {
	return &InputSystem{source: source, state: state, now: time.Now, log: log}
}

func (s *InputSystem) Phase() coresys.Phase { return coresys.PhaseInput }

func (s *InputSystem) Update(_ time.Duration) {
	s.state.Apply(s.source.Poll(s.now()))
	if s.state.QuitRequested() && !s.quit {
		s.quit = true
		s.log.Info("quit requested")
	}
}

// EventSystem delivers the events emitted during the previous frame.
// Phase 1 (PreUpdate).
type EventSystem struct {
	bus *event.Bus
}

func NewEventSystem(bus *event.Bus) *EventSystem {
	return &EventSystem{bus: bus}
}

func (s *EventSystem) Phase() coresys.Phase { return coresys.PhasePreUpdate }

func (s *EventSystem) Update(_ time.Duration) {
	s.bus.Swap()
	s.bus.Deliver()
}
