package data

import (
	"errors"
	"fmt"
)

// ErrUnknownMesh is returned when a scene names a mesh that is not loaded.
var ErrUnknownMesh = errors.New("unknown mesh")

// MeshEntry describes one drawable. Glyph, Color and Extent are what the
// terminal renderer needs; other renderers only use the index.
type MeshEntry struct {
	Name   string     `yaml:"name"`
	Glyph  string     `yaml:"glyph"`
	Color  string     `yaml:"color"`
	Extent [2]float32 `yaml:"extent"` // half extents of the unit mesh
}

// MeshRegistry resolves mesh names to stable indices in load order.
type MeshRegistry struct {
	entries []MeshEntry
	byName  map[string]int
}

func NewMeshRegistry(entries []MeshEntry) (*MeshRegistry, error) {
	r := &MeshRegistry{
		entries: make([]MeshEntry, 0, len(entries)),
		byName:  make(map[string]int, len(entries)),
	}
	for _, e := range entries {
		if e.Name == "" {
			return nil, fmt.Errorf("mesh %d: empty name", len(r.entries))
		}
		if _, dup := r.byName[e.Name]; dup {
			return nil, fmt.Errorf("mesh %q defined twice", e.Name)
		}
		if e.Extent == [2]float32{} {
			e.Extent = [2]float32{0.5, 0.5}
		}
		r.byName[e.Name] = len(r.entries)
		r.entries = append(r.entries, e)
	}
	return r, nil
}

// Resolve returns the index for name.
func (r *MeshRegistry) Resolve(name string) (int, error) {
	idx, ok := r.byName[name]
	if !ok {
		return 0, fmt.Errorf("mesh %q: %w", name, ErrUnknownMesh)
	}
	return idx, nil
}

// Get returns the entry at idx, or nil.
func (r *MeshRegistry) Get(idx int) *MeshEntry {
	if idx < 0 || idx >= len(r.entries) {
		return nil
	}
	return &r.entries[idx]
}

func (r *MeshRegistry) Entries() []MeshEntry { return r.entries }

func (r *MeshRegistry) Count() int { return len(r.entries) }
