package ecs

import "slices"

// Removable is a per-entity table the Registry can clear. Remove reports
// whether the table held id.
type Removable interface {
	Remove(id EntityID) bool
}

// PtrComponentStore maps entity ids to records and iterates them in id
// order, which is creation order since ids are never reused.
type PtrComponentStore[T any] struct {
	data map[EntityID]*T
}

func NewPtrComponentStore[T any]() *PtrComponentStore[T] {
	return &PtrComponentStore[T]{
		data: make(map[EntityID]*T, 256),
	}
}

func (s *PtrComponentStore[T]) Set(id EntityID, c *T) {
	s.data[id] = c
}

func (s *PtrComponentStore[T]) Get(id EntityID) (*T, bool) {
	c, ok := s.data[id]
	return c, ok
}

func (s *PtrComponentStore[T]) Remove(id EntityID) bool {
	if _, ok := s.data[id]; !ok {
		return false
	}
	delete(s.data, id)
	return true
}

func (s *PtrComponentStore[T]) Has(id EntityID) bool {
	_, ok := s.data[id]
	return ok
}

func (s *PtrComponentStore[T]) Len() int {
	return len(s.data)
}

// IDs returns the stored ids in ascending order.
func (s *PtrComponentStore[T]) IDs() []EntityID {
	ids := make([]EntityID, 0, len(s.data))
	for id := range s.data {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

// Each visits the records present when it was called, in ascending id order.
// Records fn removes before they are reached are skipped.
func (s *PtrComponentStore[T]) Each(fn func(EntityID, *T)) {
	for _, id := range s.IDs() {
		if c, ok := s.data[id]; ok {
			fn(id, c)
		}
	}
}
