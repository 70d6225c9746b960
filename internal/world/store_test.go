package world

import (
	"testing"

	"github.com/ballpit/ballpit/internal/core/ecs"
	"github.com/ballpit/ballpit/internal/physics"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

type releaseLog struct {
	released []physics.BodyHandle
	// store, when set, is inspected during release to check ordering
	store *Store
	hadID []bool
}

func (r *releaseLog) RemoveBody(h physics.BodyHandle) {
	r.released = append(r.released, h)
	if r.store != nil {
		_, err := r.store.LookupByBody(h)
		r.hadID = append(r.hadID, err == nil)
	}
}

func newTestStore(t *testing.T) (*Store, *releaseLog) {
	rel := &releaseLog{}
	return NewStore(rel, zaptest.NewLogger(t)), rel
}

func TestAddAssignsIncreasingIDs(t *testing.T) {
	s, _ := newTestStore(t)

	var prev ecs.EntityID
	for i := 0; i < 5; i++ {
		assert.Equal(t, prev+1, s.NextID())
		id, err := s.Add(New(mgl32.Vec3{}))
		require.NoError(t, err)
		assert.Greater(t, id, prev)
		prev = id
	}
	assert.Equal(t, 5, s.Len())
}

func TestIDsNeverReused(t *testing.T) {
	s, _ := newTestStore(t)

	a, _ := s.Add(New(mgl32.Vec3{}))
	b, _ := s.Add(New(mgl32.Vec3{}))
	require.True(t, s.Remove(b))
	require.True(t, s.Remove(a))

	c, err := s.Add(New(mgl32.Vec3{}))
	require.NoError(t, err)
	assert.Greater(t, c, b)

	_, ok := s.Peek(b)
	assert.False(t, ok, "a removed id stays absent")
}

func TestAddRecordsIDOnEntity(t *testing.T) {
	s, _ := newTestStore(t)
	e := New(mgl32.Vec3{1, 2, 0})
	e.Name = "player"

	id, err := s.Add(e)
	require.NoError(t, err)
	assert.Equal(t, id, e.ID)

	got, ok := s.Get(id)
	require.True(t, ok)
	assert.Same(t, e, got)

	ref, ok := s.Peek(id)
	require.True(t, ok)
	assert.Equal(t, "player", ref.Name)
	assert.Equal(t, mgl32.Vec3{1, 2, 0}, ref.Position)
}

func TestBodyMappingFollowsLifetime(t *testing.T) {
	s, rel := newTestStore(t)

	bodyless, _ := s.Add(New(mgl32.Vec3{}))
	a, _ := s.Add(New(mgl32.Vec3{}).WithBody(7))
	b, _ := s.Add(New(mgl32.Vec3{}).WithBody(9))

	id, err := s.LookupByBody(7)
	require.NoError(t, err)
	assert.Equal(t, a, id)
	assert.Equal(t, map[physics.BodyHandle]ecs.EntityID{7: a, 9: b}, s.BodyHandles())

	require.True(t, s.Remove(a))
	_, err = s.LookupByBody(7)
	assert.ErrorIs(t, err, ErrUnknownBody)
	assert.Equal(t, []physics.BodyHandle{7}, rel.released)
	assert.Equal(t, map[physics.BodyHandle]ecs.EntityID{9: b}, s.BodyHandles())

	require.True(t, s.Remove(bodyless))
	assert.Equal(t, []physics.BodyHandle{7}, rel.released, "unbound entities release nothing")
}

func TestRemoveReleasesBodyBeforeRecord(t *testing.T) {
	rel := &releaseLog{}
	s := NewStore(rel, zaptest.NewLogger(t))
	rel.store = s

	id, _ := s.Add(New(mgl32.Vec3{}).WithBody(3))
	require.True(t, s.Remove(id))
	require.Equal(t, []bool{true}, rel.hadID, "body is released while its mapping is still live")
	assert.False(t, s.Has(id))
}

func TestRemoveMissingIsNoop(t *testing.T) {
	s, rel := newTestStore(t)
	id, _ := s.Add(New(mgl32.Vec3{}).WithBody(1))

	assert.False(t, s.Remove(id+100))
	require.True(t, s.Remove(id))
	assert.False(t, s.Remove(id), "double removal")
	assert.Len(t, rel.released, 1)
	assert.Zero(t, s.Len())
}

func TestAddRejectsSharedBody(t *testing.T) {
	s, _ := newTestStore(t)
	_, err := s.Add(New(mgl32.Vec3{}).WithBody(4))
	require.NoError(t, err)

	before := s.NextID()
	_, err = s.Add(New(mgl32.Vec3{}).WithBody(4))
	assert.ErrorIs(t, err, ErrBodyBound)
	assert.Equal(t, before, s.NextID(), "rejected add does not consume an id")
	assert.Equal(t, 1, s.Len())
}

func TestEachVisitsInIDOrder(t *testing.T) {
	s, _ := newTestStore(t)
	for i := 0; i < 20; i++ {
		_, _ = s.Add(New(mgl32.Vec3{}))
	}
	s.Remove(4)
	s.Remove(11)

	var seen []ecs.EntityID
	s.Each(func(e *Entity) { seen = append(seen, e.ID) })
	require.Len(t, seen, 18)
	for i := 1; i < len(seen); i++ {
		assert.Less(t, seen[i-1], seen[i])
	}
	assert.Equal(t, seen, s.IDs())
}

func TestEachToleratesRemovalAndSkipsAdditions(t *testing.T) {
	s, _ := newTestStore(t)
	for i := 0; i < 5; i++ {
		_, _ = s.Add(New(mgl32.Vec3{}))
	}

	var seen []ecs.EntityID
	s.Each(func(e *Entity) {
		seen = append(seen, e.ID)
		if e.ID == 2 {
			s.Remove(4)
			_, _ = s.Add(New(mgl32.Vec3{}))
		}
	})
	assert.Equal(t, []ecs.EntityID{1, 2, 3, 5}, seen)
	assert.Equal(t, 5, s.Len())
}

func TestLookupUnknownBody(t *testing.T) {
	s, _ := newTestStore(t)
	_, err := s.LookupByBody(99)
	assert.ErrorIs(t, err, ErrUnknownBody)
}
