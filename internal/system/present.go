package system

import (
	"fmt"
	"time"

	coresys "github.com/ballpit/ballpit/internal/core/system"
	"github.com/ballpit/ballpit/internal/input"
	"github.com/ballpit/ballpit/internal/render"
	"github.com/ballpit/ballpit/internal/world"
	"go.uber.org/zap"
)

// PresentSystem finishes the renderer's frame. Phase 8 (Present).
type PresentSystem struct {
	renderer  render.Renderer
	store     *world.Store
	input     *input.State
	frame     *Frame
	reportFPS bool
	log       *zap.Logger
}

func NewPresentSystem(r render.Renderer, store *world.Store, in *input.State, frame *Frame, reportFPS bool, log *zap.Logger) *PresentSystem {
	return &PresentSystem{renderer: r, store: store, input: in, frame: frame, reportFPS: reportFPS, log: log}
}

func (s *PresentSystem) Phase() coresys.Phase { return coresys.PhasePresent }

func (s *PresentSystem) Update(_ time.Duration) {
	if hud, ok := s.renderer.(render.StatusSetter); ok {
		hud.SetStatus(fmt.Sprintf("frame %d  t=%.1fs  entities %d  contacts %d",
			s.frame.Number, s.frame.Time, s.store.Len(), s.frame.Contacts.Edges()))
	}
	if err := s.renderer.Present(); err != nil {
		s.log.Warn("present failed", zap.Int64("frame", s.frame.Number), zap.Error(err))
	}
	if s.reportFPS && s.input.Held(input.ReportFPS) && s.frame.DT > 0 {
		s.log.Info("fps", zap.Float64("fps", 1/s.frame.DT), zap.Int64("frame", s.frame.Number))
	}
}
