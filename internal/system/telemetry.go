package system

import (
	"context"
	"time"

	"github.com/ballpit/ballpit/internal/config"
	coresys "github.com/ballpit/ballpit/internal/core/system"
	"github.com/ballpit/ballpit/internal/persist"
	"github.com/ballpit/ballpit/internal/world"
	"go.uber.org/zap"
)

// TelemetrySink stores frame samples for a run.
type TelemetrySink interface {
	WriteFrames(ctx context.Context, runID int64, samples []persist.FrameSample) error
}

// BodyCounter reports how many bodies the physics world holds.
type BodyCounter interface {
	BodyCount() int
}

// TelemetrySystem samples frame statistics and writes them in batches.
// Phase 9 (Persist).
type TelemetrySystem struct {
	sink        TelemetrySink
	runID       int64
	store       *world.Store
	bodies      BodyCounter
	frame       *Frame
	sampleEvery int64
	flushEvery  int64
	timeout     time.Duration
	buf         []persist.FrameSample
	lastFlush   int64
	log         *zap.Logger
}

func NewTelemetrySystem(sink TelemetrySink, runID int64, cfg config.TelemetryConfig, store *world.Store, bodies BodyCounter, frame *Frame, log *zap.Logger) *TelemetrySystem {
	sample := int64(max(cfg.SampleEvery, 1))
	flush := int64(max(cfg.FlushEvery, 1))
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &TelemetrySystem{
		sink:        sink,
		runID:       runID,
		store:       store,
		bodies:      bodies,
		frame:       frame,
		sampleEvery: sample,
		flushEvery:  flush,
		timeout:     timeout,
		buf:         make([]persist.FrameSample, 0, flush/sample+1),
		log:         log,
	}
}

func (s *TelemetrySystem) Phase() coresys.Phase { return coresys.PhasePersist }

func (s *TelemetrySystem) Update(_ time.Duration) {
	f := s.frame
	if f.Number%s.sampleEvery == 0 {
		s.buf = append(s.buf, persist.FrameSample{
			Frame:    f.Number,
			GameTime: f.Time,
			DT:       f.DT,
			Entities: s.store.Len(),
			Bodies:   s.bodies.BodyCount(),
			Contacts: f.Contacts.Edges(),
			Spawned:  f.Spawned,
			Removed:  f.Removed,
		})
	}
	if f.Number-s.lastFlush >= s.flushEvery {
		s.lastFlush = f.Number
		s.Flush()
	}
}

// Flush writes buffered samples now. Called on shutdown so the tail of a
// run is not lost. A failed write drops the batch.
func (s *TelemetrySystem) Flush() {
	if len(s.buf) == 0 {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()
	if err := s.sink.WriteFrames(ctx, s.runID, s.buf); err != nil {
		s.log.Error("telemetry flush failed", zap.Int("samples", len(s.buf)), zap.Error(err))
	} else {
		s.log.Debug("telemetry flushed", zap.Int("samples", len(s.buf)))
	}
	s.buf = s.buf[:0]
}

// Buffered reports samples waiting for the next flush.
func (s *TelemetrySystem) Buffered() int { return len(s.buf) }
