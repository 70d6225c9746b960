package ecs

// Registry fans an entity removal out to every per-entity table. Tables are
// cleared in registration order, so an index registered before the record
// table sees the record still present.
type Registry struct {
	tables []Removable
}

func NewRegistry(tables ...Removable) *Registry {
	return &Registry{tables: tables}
}

func (r *Registry) Register(t Removable) {
	r.tables = append(r.tables, t)
}

// RemoveAll drops id from every table and reports whether any of them held
// it. Every table is visited even after a hit.
func (r *Registry) RemoveAll(id EntityID) bool {
	held := false
	for _, t := range r.tables {
		if t.Remove(id) {
			held = true
		}
	}
	return held
}

// Tables reports how many tables are registered.
func (r *Registry) Tables() int { return len(r.tables) }
