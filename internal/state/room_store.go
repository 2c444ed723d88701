package state

import (
	"sync"

	"go.uber.org/zap"

	"tileviz/internal/room"
	"tileviz/internal/storage"
	"tileviz/internal/units"
)

const roomKey = "room"

// RoomStore owns the room dimensions.
type RoomStore struct {
	mu   sync.Mutex
	dims room.Dimensions

	bus *Bus
	kv  storage.KV
	log *zap.Logger
}

// NewRoomStore restores the dimensions from kv, falling back to defaults.
func NewRoomStore(bus *Bus, kv storage.KV, log *zap.Logger) *RoomStore {
	s := &RoomStore{dims: room.DefaultDimensions(), bus: bus, kv: kv, log: log}
	s.load()
	return s
}

func (s *RoomStore) load() {
	var stored room.Dimensions
	found, err := s.kv.Load(roomKey, &stored)
	if err != nil {
		s.log.Warn("room: stored dimensions unreadable, using defaults", zap.Error(err))
		return
	}
	if !found {
		return
	}
	var migrated bool
	for _, v := range []*float64{&stored.Width, &stored.Height, &stored.Length} {
		m, ok := units.MigrateLegacyMeters(*v)
		*v = m
		migrated = migrated || ok
	}
	if err := stored.Validate(); err != nil {
		s.log.Warn("room: stored dimensions invalid, using defaults", zap.Error(err))
		return
	}
	s.dims = stored
	if migrated {
		s.log.Warn("room: converted legacy millimeter dimensions to meters",
			zap.Float64("width", stored.Width),
			zap.Float64("height", stored.Height),
			zap.Float64("length", stored.Length))
		s.persist(stored)
	}
}

// Dimensions returns the current dimensions.
func (s *RoomStore) Dimensions() room.Dimensions {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.dims
}

// SetDimensions replaces all three sides.
func (s *RoomStore) SetDimensions(d room.Dimensions) error {
	if err := d.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	if s.dims == d {
		s.mu.Unlock()
		return nil
	}
	s.dims = d
	s.mu.Unlock()

	s.persist(d)
	s.bus.Publish(DimensionsChanged{Dimensions: d})
	return nil
}

// SetWidth changes the room width in meters.
func (s *RoomStore) SetWidth(v float64) error {
	return s.update(func(d *room.Dimensions) { d.Width = v })
}

// SetHeight changes the room height in meters.
func (s *RoomStore) SetHeight(v float64) error {
	return s.update(func(d *room.Dimensions) { d.Height = v })
}

// SetLength changes the room length in meters.
func (s *RoomStore) SetLength(v float64) error {
	return s.update(func(d *room.Dimensions) { d.Length = v })
}

// Reset restores the default dimensions.
func (s *RoomStore) Reset() error {
	return s.SetDimensions(room.DefaultDimensions())
}

func (s *RoomStore) update(fn func(*room.Dimensions)) error {
	d := s.Dimensions()
	fn(&d)
	return s.SetDimensions(d)
}

func (s *RoomStore) persist(d room.Dimensions) {
	if err := s.kv.Save(roomKey, d); err != nil {
		s.log.Warn("room: persisting dimensions failed", zap.Error(err))
	}
}
