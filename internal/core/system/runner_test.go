package system

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type probe struct {
	phase Phase
	name  string
	log   *[]string
}

func (p probe) Phase() Phase { return p.phase }

func (p probe) Update(time.Duration) { *p.log = append(*p.log, p.name) }

func TestRunnerPhaseOrder(t *testing.T) {
	var log []string
	r := NewRunner()
	r.Register(probe{PhaseApply, "apply", &log})
	r.Register(probe{PhaseInput, "input", &log})
	r.Register(probe{PhaseDispatch, "dispatch-a", &log})
	r.Register(probe{PhaseDispatch, "dispatch-b", &log})
	r.Register(probe{PhasePhysics, "physics", &log})

	assert.Equal(t, Phase(-1), r.Tick(16*time.Millisecond))
	assert.Equal(t, []string{"input", "physics", "dispatch-a", "dispatch-b", "apply"}, log)
	assert.Equal(t, []Phase{PhaseInput, PhasePhysics, PhaseDispatch, PhaseDispatch, PhaseApply}, r.Phases())
	assert.Equal(t, 5, r.Len())
}

func TestRunnerHalt(t *testing.T) {
	var log []string
	r := NewRunner()
	r.Register(probe{PhaseInput, "input", &log})
	r.Register(probe{PhaseDispatch, "dispatch", &log})
	r.Register(probe{PhaseApply, "apply", &log})
	r.Register(probe{PhasePresent, "present", &log})

	fault := false
	r.SetHalt(func() bool { return fault })
	assert.Equal(t, Phase(-1), r.Tick(time.Millisecond))

	log = nil
	r.Register(faulting{probe{PhaseDispatch, "fault", &log}, &fault})
	assert.Equal(t, PhaseDispatch, r.Tick(time.Millisecond))
	assert.Equal(t, []string{"input", "dispatch", "fault"}, log)
}

type faulting struct {
	probe
	fault *bool
}

func (f faulting) Update(dt time.Duration) {
	f.probe.Update(dt)
	*f.fault = true
}

func TestPhaseNames(t *testing.T) {
	assert.Equal(t, "dispatch", PhaseDispatch.String())
	assert.Equal(t, "persist", PhasePersist.String())
	assert.Equal(t, "unknown", Phase(42).String())
	assert.Equal(t, "unknown", Phase(-1).String())
}
