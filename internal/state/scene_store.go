package state

import (
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"tileviz/internal/room"
	"tileviz/internal/storage"
	"tileviz/internal/throttle"
)

const (
	sceneKey = "scene"

	// DefaultPersistInterval spaces scene writes while the camera is being dragged.
	DefaultPersistInterval = 500 * time.Millisecond
)

// sceneRecord is the persisted part of the scene. Hover is pointer state and is not stored.
type sceneRecord struct {
	Selected room.WallID `json:"selected"`
	Yaw      float32     `json:"yaw"`
	Pitch    float32     `json:"pitch"`
}

// SceneStore owns selection, hover and camera angles.
type SceneStore struct {
	mu      sync.Mutex
	rec     sceneRecord
	hovered room.WallID

	bus      *Bus
	kv       storage.KV
	log      *zap.Logger
	throttle *throttle.Throttle
}

// NewSceneStore restores selection and camera from kv. Writes are throttled to interval;
// call Flush before exit.
func NewSceneStore(bus *Bus, kv storage.KV, log *zap.Logger, interval time.Duration) *SceneStore {
	if interval <= 0 {
		interval = DefaultPersistInterval
	}
	s := &SceneStore{bus: bus, kv: kv, log: log, throttle: throttle.New(interval)}
	s.load()
	return s
}

func (s *SceneStore) load() {
	var stored sceneRecord
	found, err := s.kv.Load(sceneKey, &stored)
	if err != nil {
		s.log.Warn("scene: stored state unreadable, using defaults", zap.Error(err))
		return
	}
	if !found {
		return
	}
	if stored.Selected != room.None && !stored.Selected.Editable() {
		s.log.Warn("scene: dropping stored selection", zap.String("selected", string(stored.Selected)))
		stored.Selected = room.None
	}
	s.rec = stored
}

// Selected returns the selected wall or None.
func (s *SceneStore) Selected() room.WallID {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rec.Selected
}

// Hovered returns the wall under the pointer or None.
func (s *SceneStore) Hovered() room.WallID {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.hovered
}

// Camera returns yaw and pitch in degrees.
func (s *SceneStore) Camera() (yaw, pitch float32) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rec.Yaw, s.rec.Pitch
}

// Select marks id as selected. Use ClearSelection for none.
func (s *SceneStore) Select(id room.WallID) error {
	if !id.Editable() {
		return fmt.Errorf("%w: %q", room.ErrUnknownWall, id)
	}
	s.setSelected(id)
	return nil
}

// ClearSelection deselects any wall.
func (s *SceneStore) ClearSelection() {
	s.setSelected(room.None)
}

func (s *SceneStore) setSelected(id room.WallID) {
	s.mu.Lock()
	prev := s.rec.Selected
	if prev == id {
		s.mu.Unlock()
		return
	}
	s.rec.Selected = id
	s.mu.Unlock()

	s.persist()
	s.bus.Publish(SelectionChanged{Selected: id, Previous: prev})
}

// Hover marks id as hovered. Use ClearHover for none.
func (s *SceneStore) Hover(id room.WallID) error {
	if !id.Editable() {
		return fmt.Errorf("%w: %q", room.ErrUnknownWall, id)
	}
	s.setHovered(id)
	return nil
}

// ClearHover clears the hovered wall.
func (s *SceneStore) ClearHover() {
	s.setHovered(room.None)
}

func (s *SceneStore) setHovered(id room.WallID) {
	s.mu.Lock()
	prev := s.hovered
	if prev == id {
		s.mu.Unlock()
		return
	}
	s.hovered = id
	s.mu.Unlock()

	s.bus.Publish(HoverChanged{Hovered: id, Previous: prev})
}

// SetCamera stores the look angles.
func (s *SceneStore) SetCamera(yaw, pitch float32) {
	s.mu.Lock()
	if s.rec.Yaw == yaw && s.rec.Pitch == pitch {
		s.mu.Unlock()
		return
	}
	s.rec.Yaw, s.rec.Pitch = yaw, pitch
	s.mu.Unlock()

	s.persist()
	s.bus.Publish(CameraChanged{Yaw: yaw, Pitch: pitch})
}

func (s *SceneStore) persist() {
	s.throttle.Do(func() {
		s.mu.Lock()
		rec := s.rec
		s.mu.Unlock()
		if err := s.kv.Save(sceneKey, rec); err != nil {
			s.log.Warn("scene: persisting state failed", zap.Error(err))
		}
	})
}

// Flush writes any throttled change now.
func (s *SceneStore) Flush() {
	s.throttle.Flush()
}
