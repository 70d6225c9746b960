// Package input turns platform key and mouse events into the per-frame set
// of held symbols the simulation reads.
package input

import (
	"sort"
	"time"
)

// Symbol is a logical input, independent of the physical key bound to it.
type Symbol string

const (
	MoveRight  Symbol = "move_right"
	MoveLeft   Symbol = "move_left"
	Jump       Symbol = "jump"
	Spawn      Symbol = "spawn"
	NudgeUp    Symbol = "nudge_up"
	NudgeDown  Symbol = "nudge_down"
	NudgeLeft  Symbol = "nudge_left"
	NudgeRight Symbol = "nudge_right"
	DebugLog   Symbol = "debug_log"
	CamForward Symbol = "cam_forward"
	CamBack    Symbol = "cam_back"
	CamLeft    Symbol = "cam_left"
	CamRight   Symbol = "cam_right"
	Sprint     Symbol = "sprint"
	ReportFPS  Symbol = "report_fps"
	Quit       Symbol = "quit"
)

var known = map[Symbol]struct{}{
	MoveRight: {}, MoveLeft: {}, Jump: {}, Spawn: {},
	NudgeUp: {}, NudgeDown: {}, NudgeLeft: {}, NudgeRight: {}, DebugLog: {},
	CamForward: {}, CamBack: {}, CamLeft: {}, CamRight: {}, Sprint: {},
	ReportFPS: {}, Quit: {},
}

// Valid reports whether s names a known symbol.
func Valid(s Symbol) bool {
	_, ok := known[s]
	return ok
}

// Snapshot is what a source reports for one frame.
type Snapshot struct {
	Held             map[Symbol]struct{}
	MouseDX, MouseDY float64
	Quit             bool
}

// Press returns a snapshot holding the given symbols.
func Press(syms ...Symbol) Snapshot {
	s := Snapshot{Held: make(map[Symbol]struct{}, len(syms))}
	for _, sym := range syms {
		s.Held[sym] = struct{}{}
	}
	return s
}

// Source is polled once per frame. Poll must not block.
type Source interface {
	Poll(now time.Time) Snapshot
}

// State is the frame's view of input. It is overwritten at the start of
// every frame and read by everything after.
type State struct {
	held             map[Symbol]struct{}
	mouseDX, mouseDY float64
	quit             bool
}

func NewState() *State {
	return &State{held: make(map[Symbol]struct{}, 8)}
}

// Apply replaces the state with a fresh snapshot.
func (s *State) Apply(snap Snapshot) {
	clear(s.held)
	for sym := range snap.Held {
		s.held[sym] = struct{}{}
	}
	s.mouseDX, s.mouseDY = snap.MouseDX, snap.MouseDY
	s.quit = snap.Quit
	if _, ok := snap.Held[Quit]; ok {
		s.quit = true
	}
}

func (s *State) Held(sym Symbol) bool {
	_, ok := s.held[sym]
	return ok
}

func (s *State) Mouse() (dx, dy float64) { return s.mouseDX, s.mouseDY }

func (s *State) QuitRequested() bool { return s.quit }

// HeldSymbols lists held symbols sorted by name.
func (s *State) HeldSymbols() []Symbol {
	out := make([]Symbol, 0, len(s.held))
	for sym := range s.held {
		out = append(out, sym)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
