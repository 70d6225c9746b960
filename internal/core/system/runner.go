package system

import (
	"slices"
	"time"
)

// Runner executes systems in phase order each frame. Systems sharing a phase
// keep their registration order.
type Runner struct {
	systems []System
	sorted  bool
	halt    func() bool
}

func NewRunner() *Runner {
	return &Runner{
		systems: make([]System, 0, 16),
	}
}

func (r *Runner) Register(s System) {
	r.systems = append(r.systems, s)
	r.sorted = false
}

// SetHalt installs a check run after every system. When it returns true the
// rest of the frame is skipped.
func (r *Runner) SetHalt(fn func() bool) { r.halt = fn }

// Tick runs one frame and returns the phase it stopped in, or -1 when every
// system ran.
func (r *Runner) Tick(dt time.Duration) Phase {
	r.ensureSorted()
	for _, s := range r.systems {
		s.Update(dt)
		if r.halt != nil && r.halt() {
			return s.Phase()
		}
	}
	return -1
}

// Len reports how many systems are registered.
func (r *Runner) Len() int { return len(r.systems) }

// Phases lists the phase of each system in run order.
func (r *Runner) Phases() []Phase {
	r.ensureSorted()
	out := make([]Phase, len(r.systems))
	for i, s := range r.systems {
		out[i] = s.Phase()
	}
	return out
}

func (r *Runner) ensureSorted() {
	if r.sorted {
		return
	}
	slices.SortStableFunc(r.systems, func(a, b System) int {
		return int(a.Phase()) - int(b.Phase())
	})
	r.sorted = true
}
