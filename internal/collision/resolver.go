// Package collision turns raw collider contact events into per-body
// adjacency lists for the frame.
package collision

import "github.com/ballpit/ballpit/internal/physics"

// ParentLookup resolves a collider handle to its parent body.
type ParentLookup interface {
	ColliderParent(physics.ColliderHandle) (physics.BodyHandle, bool)
}

// Map holds, per body, the bodies it touched this frame. Every edge is
// stored in both directions so a body only needs to look up its own handle.
type Map map[physics.BodyHandle][]physics.BodyHandle

// Resolve builds the adjacency map for one frame's events. Events whose
// collider has no parent body are dropped. Self pairs (two colliders of the
// same body) are kept; dispatch skips them.
func Resolve(events []physics.CollisionEvent, parents ParentLookup) Map {
	m := make(Map, len(events)*2)
	for _, ev := range events {
		a, ok := parents.ColliderParent(ev.Collider1)
		if !ok {
			continue
		}
		b, ok := parents.ColliderParent(ev.Collider2)
		if !ok {
			continue
		}
		m[a] = append(m[a], b)
		m[b] = append(m[b], a)
	}
	return m
}

// Touching returns the bodies adjacent to h this frame.
func (m Map) Touching(h physics.BodyHandle) []physics.BodyHandle {
	return m[h]
}

// Edges counts undirected edges.
func (m Map) Edges() int {
	n := 0
	for _, l := range m {
		n += len(l)
	}
	return n / 2
}
