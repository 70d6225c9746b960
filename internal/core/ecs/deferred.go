package ecs

// Deferred collects structural changes requested while entities are being
// iterated. Nothing is applied until Flush, which runs every removal before
// any addition.
type Deferred[T any] struct {
	removals  []EntityID
	additions []*T
}

func NewDeferred[T any]() *Deferred[T] {
	return &Deferred[T]{
		removals:  make([]EntityID, 0, 16),
		additions: make([]*T, 0, 16),
	}
}

// MarkForRemoval queues an id for end-of-frame removal. Duplicates are kept;
// the store treats a second removal as a no-op.
func (d *Deferred[T]) MarkForRemoval(ids ...EntityID) {
	d.removals = append(d.removals, ids...)
}

// QueueAddition queues a record for end-of-frame insertion.
func (d *Deferred[T]) QueueAddition(recs ...*T) {
	d.additions = append(d.additions, recs...)
}

func (d *Deferred[T]) Pending() (removals int, additions int) {
	return len(d.removals), len(d.additions)
}

// Flush applies removals then additions and resets both queues.
func (d *Deferred[T]) Flush(remove func(EntityID), add func(*T)) {
	for _, id := range d.removals {
		remove(id)
	}
	for _, rec := range d.additions {
		add(rec)
	}
	d.removals = d.removals[:0]
	clear(d.additions)
	d.additions = d.additions[:0]
}
