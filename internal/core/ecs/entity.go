package ecs

// EntityID is a monotonically increasing identity. Ids are never reused, so
// a stale id held in behavior data can only ever miss, never alias a newer
// entity. Zero is reserved for "not assigned".
type EntityID uint64

func (id EntityID) IsZero() bool { return id == 0 }

// IDAllocator hands out entity ids in strictly increasing order.
type IDAllocator struct {
	last EntityID
}

func NewIDAllocator() *IDAllocator {
	return &IDAllocator{}
}

// Next allocates a fresh id.
func (a *IDAllocator) Next() EntityID {
	a.last++
	return a.last
}

// Peek returns the id the next call to Next will return.
func (a *IDAllocator) Peek() EntityID {
	return a.last + 1
}

// Last returns the most recently allocated id (zero if none).
func (a *IDAllocator) Last() EntityID {
	return a.last
}
