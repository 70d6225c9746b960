// Package system holds the frame systems. Each one owns a single phase of
// the frame; they share state through a Frame the engine resets before
// every tick.
package system

import (
	"time"

	"github.com/ballpit/ballpit/internal/collision"
	"github.com/ballpit/ballpit/internal/core/ecs"
	"github.com/ballpit/ballpit/internal/world"
)

// Frame is the per-frame state passed between phases.
type Frame struct {
	Number   int64
	DT       float64 // seconds
	Time     float64 // elapsed game time, seconds
	Contacts collision.Map
	Pending  *ecs.Deferred[world.Entity]

	// Counters for the current frame.
	Spawned int
	Removed int
	Drawn   int

	// Fault is set when the store and physics world disagree and strict
	// mode is on. The engine stops after the frame that set it.
	Fault error
}

func NewFrame() *Frame {
	return &Frame{Pending: ecs.NewDeferred[world.Entity]()}
}

// Begin starts frame n with the given step and elapsed game time.
func (f *Frame) Begin(n int64, dt, elapsed float64) {
	f.Number = n
	f.DT = dt
	f.Time = elapsed
	f.Contacts = nil
	f.Spawned, f.Removed, f.Drawn = 0, 0, 0
	f.Fault = nil
}

// DiscardPending drops queued changes of a frame that will not be applied,
// releasing the bodies created for queued additions. It returns how many
// additions were dropped.
func (f *Frame) DiscardPending(release world.BodyReleaser) int {
	dropped := 0
	f.Pending.Flush(func(ecs.EntityID) {}, func(e *world.Entity) {
		dropped++
		if e.HasBody {
			release.RemoveBody(e.Body)
		}
	})
	return dropped
}

// Duration is the frame step as a time.Duration for the system runner.
func (f *Frame) Duration() time.Duration {
	return time.Duration(f.DT * float64(time.Second))
}
