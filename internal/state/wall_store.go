package state

import (
	"fmt"
	"strings"
	"sync"

	"github.com/jinzhu/copier"
	"go.uber.org/zap"

	"tileviz/internal/room"
	"tileviz/internal/storage"
)

const wallsKey = "walls"

// WallStore owns the tile config of the four editable walls.
type WallStore struct {
	mu      sync.Mutex
	configs map[room.WallID]room.TileConfig

	bus *Bus
	kv  storage.KV
	log *zap.Logger
}

// NewWallStore restores the wall configs from kv. Walls missing or invalid in storage
// get the default config.
func NewWallStore(bus *Bus, kv storage.KV, log *zap.Logger) *WallStore {
	s := &WallStore{configs: defaultConfigs(), bus: bus, kv: kv, log: log}
	s.load()
	return s
}

func defaultConfigs() map[room.WallID]room.TileConfig {
	m := make(map[room.WallID]room.TileConfig, len(room.Walls))
	for _, w := range room.Walls {
		m[w] = room.DefaultTileConfig()
	}
	return m
}

func (s *WallStore) load() {
	var stored map[room.WallID]room.TileConfig
	found, err := s.kv.Load(wallsKey, &stored)
	if err != nil {
		s.log.Warn("walls: stored tile configs unreadable, using defaults", zap.Error(err))
		return
	}
	if !found {
		return
	}
	for _, w := range room.Walls {
		c, ok := stored[w]
		if !ok {
			continue
		}
		if err := c.Validate(); err != nil {
			s.log.Warn("walls: stored tile config invalid, using default",
				zap.String("wall", string(w)), zap.Error(err))
			continue
		}
		s.configs[w] = c
	}
}

// Config returns the tile config of one wall.
func (s *WallStore) Config(id room.WallID) (room.TileConfig, error) {
	if !id.Editable() {
		return room.TileConfig{}, fmt.Errorf("%w: %q", room.ErrUnknownWall, id)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.configs[id], nil
}

// All returns a copy of every wall's config.
func (s *WallStore) All() map[room.WallID]room.TileConfig {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

// snapshotLocked deep-copies the configs. s.mu must be held. A failed copy is logged and
// yields the walls that did copy.
func (s *WallStore) snapshotLocked() map[room.WallID]room.TileConfig {
	out := make(map[room.WallID]room.TileConfig, len(s.configs))
	if err := copier.CopyWithOption(&out, &s.configs, copier.Option{DeepCopy: true}); err != nil {
		s.log.Error("walls: copying tile configs failed", zap.Error(err))
	}
	return out
}

// Set replaces one wall's config.
func (s *WallStore) Set(id room.WallID, cfg room.TileConfig) error {
	return s.update(id, func(c *room.TileConfig) { *c = cfg })
}

// SetImageURL sets the tile image. An empty URL shows the placeholder pattern.
func (s *WallStore) SetImageURL(id room.WallID, url string) error {
	return s.update(id, func(c *room.TileConfig) { c.ImageURL = strings.TrimSpace(url) })
}

// SetTileSize sets tile width and height in millimeters.
func (s *WallStore) SetTileSize(id room.WallID, width, height float64) error {
	return s.update(id, func(c *room.TileConfig) {
		c.TileWidth = width
		c.TileHeight = height
	})
}

// SetSpacing sets the grout width in millimeters.
func (s *WallStore) SetSpacing(id room.WallID, spacing float64) error {
	return s.update(id, func(c *room.TileConfig) { c.Spacing = spacing })
}

// SetGroutColor sets the grout color from a CSS color string.
func (s *WallStore) SetGroutColor(id room.WallID, color string) error {
	return s.update(id, func(c *room.TileConfig) { c.GroutColor = strings.TrimSpace(color) })
}

// Reset restores the default config on every wall.
func (s *WallStore) Reset() error {
	for _, w := range room.Walls {
		if err := s.Set(w, room.DefaultTileConfig()); err != nil {
			return err
		}
	}
	return nil
}

func (s *WallStore) update(id room.WallID, fn func(*room.TileConfig)) error {
	if !id.Editable() {
		return fmt.Errorf("%w: %q", room.ErrUnknownWall, id)
	}
	s.mu.Lock()
	cur := s.configs[id]
	next := cur
	fn(&next)
	if err := next.Validate(); err != nil {
		s.mu.Unlock()
		return err
	}
	if next == cur {
		s.mu.Unlock()
		return nil
	}
	s.configs[id] = next
	snapshot := s.snapshotLocked()
	s.mu.Unlock()

	if err := s.kv.Save(wallsKey, snapshot); err != nil {
		s.log.Warn("walls: persisting tile configs failed", zap.Error(err))
	}
	s.bus.Publish(TileConfigChanged{Wall: id, Config: next})
	return nil
}
