package system

import "time"

// Phase defines execution ordering within a single frame.
type Phase int

const (
	PhaseInput     Phase = iota // 0: drain input source into the held set
	PhasePreUpdate              // 1: dispatch last frame's bus events
	PhasePhysics                // 2: step the rigid-body world
	PhaseCollision              // 3: drain contacts, build adjacency
	PhaseCamera                 // 4: free-look controller
	PhaseView                   // 5: push view/light uniforms to the renderer
	PhaseDispatch               // 6: per-entity sync, collision + behavior dispatch, draw
	PhaseApply                  // 7: apply deferred removals, then additions
	PhasePresent                // 8: present frame
	PhasePersist                // 9: telemetry sampling + flush
)

var phaseNames = [...]string{
	"input", "pre_update", "physics", "collision", "camera",
	"view", "dispatch", "apply", "present", "persist",
}

func (p Phase) String() string {
	if p < 0 || int(p) >= len(phaseNames) {
		return "unknown"
	}
	return phaseNames[p]
}

// System is the interface every frame system implements.
type System interface {
	Phase() Phase
	Update(dt time.Duration)
}
