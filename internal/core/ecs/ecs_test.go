package ecs

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type rec struct{ name string }

func TestIDAllocatorMonotonic(t *testing.T) {
	a := NewIDAllocator()
	assert.True(t, a.Last().IsZero())
	assert.Equal(t, EntityID(1), a.Peek())
	assert.Equal(t, EntityID(1), a.Next())
	assert.Equal(t, EntityID(2), a.Next())
	assert.Equal(t, EntityID(2), a.Last())
	assert.Equal(t, EntityID(3), a.Peek())
}

func TestComponentStoreOrderedIteration(t *testing.T) {
	s := NewPtrComponentStore[rec]()
	for _, id := range []EntityID{7, 2, 11, 4} {
		s.Set(id, &rec{})
	}
	assert.Equal(t, []EntityID{2, 4, 7, 11}, s.IDs())

	var seen []EntityID
	s.Each(func(id EntityID, _ *rec) {
		seen = append(seen, id)
		if id == 2 {
			s.Remove(7) // removed ahead of the cursor
		}
	})
	assert.Equal(t, []EntityID{2, 4, 11}, seen)

	assert.True(t, s.Remove(4))
	assert.False(t, s.Remove(4))
	assert.False(t, s.Has(4))
	assert.Equal(t, 2, s.Len())
}

type table struct {
	held    map[EntityID]bool
	removed *[]string
	name    string
}

func (t *table) Remove(id EntityID) bool {
	*t.removed = append(*t.removed, t.name)
	if !t.held[id] {
		return false
	}
	delete(t.held, id)
	return true
}

func TestRegistryVisitsEveryTableInOrder(t *testing.T) {
	var order []string
	index := &table{held: map[EntityID]bool{1: true}, removed: &order, name: "index"}
	records := &table{held: map[EntityID]bool{1: true, 2: true}, removed: &order, name: "records"}
	r := NewRegistry(index)
	r.Register(records)
	assert.Equal(t, 2, r.Tables())

	assert.True(t, r.RemoveAll(1))
	assert.Equal(t, []string{"index", "records"}, order)

	// held by the second table only
	assert.True(t, r.RemoveAll(2))
	assert.False(t, r.RemoveAll(2))
	assert.False(t, r.RemoveAll(9))
}

func TestDeferredRemovalsBeforeAdditions(t *testing.T) {
	d := NewDeferred[rec]()
	d.QueueAddition(&rec{name: "a"})
	d.MarkForRemoval(3)
	d.QueueAddition(&rec{name: "b"})
	d.MarkForRemoval(3, 5)

	r, a := d.Pending()
	assert.Equal(t, 3, r)
	assert.Equal(t, 2, a)

	var log []string
	d.Flush(
		func(id EntityID) { log = append(log, "rm", string(rune('0'+id))) },
		func(r *rec) { log = append(log, "add", r.name) },
	)
	assert.Equal(t, []string{"rm", "3", "rm", "3", "rm", "5", "add", "a", "add", "b"}, log)

	r, a = d.Pending()
	require.Zero(t, r)
	require.Zero(t, a)

	// a flush with nothing queued calls neither callback
	d.Flush(func(EntityID) { t.Fatal("remove") }, func(*rec) { t.Fatal("add") })
}
