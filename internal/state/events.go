// Package state holds the observable room, wall and scene records. Every mutation is
// published on a Bus as a typed event and persisted to a storage.KV.
package state

import (
	"sync"

	"tileviz/internal/room"
)

// Event is one change notification.
type Event interface {
	event()
}

// DimensionsChanged is published when any room side changes.
type DimensionsChanged struct {
	Dimensions room.Dimensions
}

// TileConfigChanged is published when one wall's tile config changes.
type TileConfigChanged struct {
	Wall   room.WallID
	Config room.TileConfig
}

// SelectionChanged is published when the selected wall changes. Either side may be None.
type SelectionChanged struct {
	Selected room.WallID
	Previous room.WallID
}

// HoverChanged is published when the wall under the pointer changes.
type HoverChanged struct {
	Hovered  room.WallID
	Previous room.WallID
}

// CameraChanged is published when the look angles change.
type CameraChanged struct {
	Yaw, Pitch float32
}

func (DimensionsChanged) event() {}
func (TileConfigChanged) event() {}
func (SelectionChanged) event()  {}
func (HoverChanged) event()      {}
func (CameraChanged) event()     {}

type subscriber struct {
	id int
	fn func(Event)
}

// Bus delivers events synchronously to subscribers in subscription order.
type Bus struct {
	mu   sync.Mutex
	subs []subscriber
	next int
}

// NewBus returns a bus with no subscribers.
func NewBus() *Bus {
	return &Bus{}
}

// Subscribe registers fn and returns a function that removes it.
func (b *Bus) Subscribe(fn func(Event)) (unsubscribe func()) {
	b.mu.Lock()
	id := b.next
	b.next++
	b.subs = append(b.subs, subscriber{id: id, fn: fn})
	b.mu.Unlock()
	return func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		for i, s := range b.subs {
			if s.id == id {
				b.subs = append(b.subs[:i:i], b.subs[i+1:]...)
				return
			}
		}
	}
}

// Publish calls every subscriber with ev. Subscribers may publish further events.
func (b *Bus) Publish(ev Event) {
	b.mu.Lock()
	subs := make([]subscriber, len(b.subs))
	copy(subs, b.subs)
	b.mu.Unlock()
	for _, s := range subs {
		s.fn(ev)
	}
}
