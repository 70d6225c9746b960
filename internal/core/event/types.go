package event

import "github.com/ballpit/ballpit/internal/core/ecs"

// EntitySpawned is emitted when a queued addition lands in the store.
type EntitySpawned struct {
	ID   ecs.EntityID
	Name string
	Mesh int
}

// EntityRemoved is emitted when a queued removal deleted a live entity.
type EntityRemoved struct {
	ID ecs.EntityID
}
