package event

import (
	"reflect"
	"sync"
)

type envelope struct {
	typ reflect.Type
	ev  any
}

// Bus delivers events one frame late. Events emitted during frame N are
// queued; Swap at the start of frame N+1 makes them deliverable and Deliver
// hands them to subscribers in emission order, whatever their type.
type Bus struct {
	mu       sync.Mutex // guards handlers
	handlers map[reflect.Type][]func(any)

	queued []envelope // emitted this frame
	ready  []envelope // emitted last frame, delivered by Deliver
}

func NewBus() *Bus {
	return &Bus{handlers: make(map[reflect.Type][]func(any))}
}

func typeOf[T any]() reflect.Type {
	return reflect.TypeOf((*T)(nil)).Elem()
}

// Emit queues ev for delivery next frame.
func Emit[T any](b *Bus, ev T) {
	b.queued = append(b.queued, envelope{typ: typeOf[T](), ev: ev})
}

// Subscribe registers fn for events of type T. Handlers of one type run in
// subscription order.
func Subscribe[T any](b *Bus, fn func(T)) {
	b.mu.Lock()
	defer b.mu.Unlock()
	t := typeOf[T]()
	b.handlers[t] = append(b.handlers[t], func(ev any) { fn(ev.(T)) })
}

// Swap makes last frame's events deliverable and starts a fresh queue.
// Undelivered events from the previous swap are dropped.
func (b *Bus) Swap() {
	clear(b.ready)
	b.ready, b.queued = b.queued, b.ready[:0]
}

// Deliver hands every ready event to its subscribers and reports how many
// events were delivered. Events emitted by handlers wait for the next Swap.
func (b *Bus) Deliver() int {
	b.mu.Lock()
	handlers := b.handlers
	b.mu.Unlock()

	for _, env := range b.ready {
		for _, h := range handlers[env.typ] {
			h(env.ev)
		}
	}
	n := len(b.ready)
	clear(b.ready)
	b.ready = b.ready[:0]
	return n
}

// Pending reports how many events wait for the next Swap.
func (b *Bus) Pending() int { return len(b.queued) }
