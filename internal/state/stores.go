package state

import (
	"time"

	"go.uber.org/zap"

	"tileviz/internal/storage"
)

// Stores bundles the three stores sharing one bus and one key-value store.
type Stores struct {
	Bus   *Bus
	Room  *RoomStore
	Walls *WallStore
	Scene *SceneStore
}

// New restores all stores from kv.
func New(kv storage.KV, log *zap.Logger, sceneInterval time.Duration) *Stores {
	bus := NewBus()
	return &Stores{
		Bus:   bus,
		Room:  NewRoomStore(bus, kv, log),
		Walls: NewWallStore(bus, kv, log),
		Scene: NewSceneStore(bus, kv, log, sceneInterval),
	}
}

// Reset restores default room and walls and clears the selection.
func (s *Stores) Reset() error {
	if err := s.Room.Reset(); err != nil {
		return err
	}
	if err := s.Walls.Reset(); err != nil {
		return err
	}
	s.Scene.ClearSelection()
	return nil
}
