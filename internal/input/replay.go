package input

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Replay feeds a fixed script of snapshots, one per Poll. Once the script
// runs out it reports nothing held.
type Replay struct {
	frames []Snapshot
	next   int
}

func NewReplay(frames ...Snapshot) *Replay {
	return &Replay{frames: frames}
}

// replayStep is one entry of a replay file: the symbols held for Repeat
// frames (at least one).
type replayStep struct {
	Hold   []Symbol   `yaml:"hold"`
	Mouse  [2]float64 `yaml:"mouse"`
	Repeat int        `yaml:"repeat"`
	Quit   bool       `yaml:"quit"`
}

// ParseReplay reads a YAML replay:
//
//	frames:
//	  - {hold: [spawn], repeat: 30}
//	  - {hold: [move_right, jump]}
//	  - {quit: true}
func ParseReplay(raw []byte) (*Replay, error) {
	var doc struct {
		Frames []replayStep `yaml:"frames"`
	}
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("parse replay: %w", err)
	}
	var frames []Snapshot
	for i, st := range doc.Frames {
		for _, sym := range st.Hold {
			if !Valid(sym) {
				return nil, fmt.Errorf("replay step %d: unknown symbol %q", i, sym)
			}
		}
		if st.Repeat < 0 {
			return nil, fmt.Errorf("replay step %d: negative repeat", i)
		}
		for n, k := max(st.Repeat, 1), 0; k < n; k++ {
			snap := Press(st.Hold...)
			snap.MouseDX, snap.MouseDY = st.Mouse[0], st.Mouse[1]
			snap.Quit = st.Quit
			frames = append(frames, snap)
		}
	}
	return NewReplay(frames...), nil
}

// LoadReplay reads a replay file from disk.
func LoadReplay(path string) (*Replay, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read replay %s: %w", path, err)
	}
	return ParseReplay(raw)
}

func (r *Replay) Poll(time.Time) Snapshot {
	if r.next >= len(r.frames) {
		return Snapshot{}
	}
	s := r.frames[r.next]
	r.next++
	return s
}

// Remaining reports how many scripted frames are left.
func (r *Replay) Remaining() int { return len(r.frames) - r.next }

// Hold is a source whose held set is changed directly, for tests and
// headless runs.
type Hold struct {
	held map[Symbol]struct{}
}

func NewHold() *Hold {
	return &Hold{held: make(map[Symbol]struct{})}
}

func (h *Hold) Press(syms ...Symbol) {
	for _, s := range syms {
		h.held[s] = struct{}{}
	}
}

func (h *Hold) Release(syms ...Symbol) {
	for _, s := range syms {
		delete(h.held, s)
	}
}

func (h *Hold) Poll(time.Time) Snapshot {
	snap := Snapshot{Held: make(map[Symbol]struct{}, len(h.held))}
	for s := range h.held {
		snap.Held[s] = struct{}{}
	}
	return snap
}
