package state

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"tileviz/internal/room"
	"tileviz/internal/storage"
)

func newKV(t *testing.T) *storage.FSStore {
	t.Helper()
	kv, err := storage.NewMemStore("")
	require.NoError(t, err)
	return kv
}

type recorder struct {
	events []Event
}

func (r *recorder) listen(bus *Bus) {
	bus.Subscribe(func(ev Event) { r.events = append(r.events, ev) })
}

type failingKV struct{}

func (failingKV) Load(string, any) (bool, error) { return false, errors.New("disk gone") }
func (failingKV) Save(string, any) error         { return errors.New("disk gone") }
func (failingKV) Delete(string) error            { return errors.New("disk gone") }
func (failingKV) Keys() ([]string, error)        { return nil, errors.New("disk gone") }

func TestBusOrderAndUnsubscribe(t *testing.T) {
	bus := NewBus()
	var got []string
	bus.Subscribe(func(Event) { got = append(got, "a") })
	unsub := bus.Subscribe(func(Event) { got = append(got, "b") })
	bus.Publish(HoverChanged{})
	unsub()
	unsub()
	bus.Publish(HoverChanged{})
	assert.Equal(t, []string{"a", "b", "a"}, got)
}

func TestRoomStoreDefaultsAndSetters(t *testing.T) {
	bus := NewBus()
	var rec recorder
	rec.listen(bus)
	kv := newKV(t)
	s := NewRoomStore(bus, kv, zap.NewNop())
	assert.Equal(t, room.DefaultDimensions(), s.Dimensions())

	require.NoError(t, s.SetWidth(3.2))
	require.NoError(t, s.SetWidth(3.2))
	assert.ErrorIs(t, s.SetHeight(0), room.ErrInvalidDimension)
	assert.ErrorIs(t, s.SetLength(-1), room.ErrInvalidDimension)

	require.Len(t, rec.events, 1)
	assert.Equal(t, DimensionsChanged{Dimensions: room.Dimensions{Width: 3.2, Height: 2.5, Length: 5}}, rec.events[0])

	var stored room.Dimensions
	found, err := kv.Load(roomKey, &stored)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, 3.2, stored.Width)

	// A fresh store restores what was persisted.
	assert.Equal(t, 3.2, NewRoomStore(NewBus(), kv, zap.NewNop()).Dimensions().Width)
}

func TestRoomStoreMigratesLegacyMillimeters(t *testing.T) {
	kv := newKV(t)
	require.NoError(t, kv.Save(roomKey, room.Dimensions{Width: 3600, Height: 2.4, Length: 4200}))

	core, logs := observer.New(zapcore.WarnLevel)
	s := NewRoomStore(NewBus(), kv, zap.New(core))
	assert.Equal(t, room.Dimensions{Width: 3.6, Height: 2.4, Length: 4.2}, s.Dimensions())
	assert.Equal(t, 1, logs.FilterMessageSnippet("legacy").Len())

	var stored room.Dimensions
	_, err := kv.Load(roomKey, &stored)
	require.NoError(t, err)
	assert.Equal(t, 3.6, stored.Width, "migrated value written back")
}

func TestRoomStoreInvalidStoredFallsBack(t *testing.T) {
	kv := newKV(t)
	require.NoError(t, kv.Save(roomKey, room.Dimensions{Width: -1, Height: 2, Length: 2}))
	s := NewRoomStore(NewBus(), kv, zap.NewNop())
	assert.Equal(t, room.DefaultDimensions(), s.Dimensions())
}

func TestStorageFailuresAreLoggedNotReturned(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	log := zap.New(core)
	bus := NewBus()
	var rec recorder
	rec.listen(bus)

	r := NewRoomStore(bus, failingKV{}, log)
	require.NoError(t, r.SetWidth(2))
	w := NewWallStore(bus, failingKV{}, log)
	require.NoError(t, w.SetSpacing(room.Front, 5))

	assert.Len(t, rec.events, 2)
	assert.GreaterOrEqual(t, logs.Len(), 4)
}

func TestWallStoreSetters(t *testing.T) {
	bus := NewBus()
	var rec recorder
	rec.listen(bus)
	kv := newKV(t)
	s := NewWallStore(bus, kv, zap.NewNop())

	require.NoError(t, s.SetImageURL(room.Left, "  https://example.com/tile.png "))
	require.NoError(t, s.SetTileSize(room.Left, 200, 100))
	require.NoError(t, s.SetSpacing(room.Left, 2))
	require.NoError(t, s.SetGroutColor(room.Left, "#333"))
	require.NoError(t, s.SetGroutColor(room.Left, "#333"))

	cfg, err := s.Config(room.Left)
	require.NoError(t, err)
	assert.Equal(t, room.TileConfig{
		ImageURL:   "https://example.com/tile.png",
		TileWidth:  200,
		TileHeight: 100,
		Spacing:    2,
		GroutColor: "#333",
	}, cfg)
	assert.Len(t, rec.events, 4)
	for _, ev := range rec.events {
		assert.Equal(t, room.Left, ev.(TileConfigChanged).Wall)
	}

	front, err := s.Config(room.Front)
	require.NoError(t, err)
	assert.Equal(t, room.DefaultTileConfig(), front, "other walls untouched")

	restored := NewWallStore(NewBus(), kv, zap.NewNop())
	got, err := restored.Config(room.Left)
	require.NoError(t, err)
	assert.Equal(t, cfg, got)
}

func TestWallStoreRejects(t *testing.T) {
	s := NewWallStore(NewBus(), newKV(t), zap.NewNop())
	assert.ErrorIs(t, s.SetSpacing(room.Floor, 1), room.ErrUnknownWall)
	assert.ErrorIs(t, s.SetTileSize(room.Front, 0, 10), room.ErrInvalidTile)
	assert.ErrorIs(t, s.SetSpacing(room.Front, -2), room.ErrInvalidTile)
	assert.ErrorIs(t, s.SetGroutColor(room.Front, "plaid"), room.ErrInvalidTile)
	_, err := s.Config(room.Ceiling)
	assert.ErrorIs(t, err, room.ErrUnknownWall)

	cfg, err := s.Config(room.Front)
	require.NoError(t, err)
	assert.Equal(t, room.DefaultTileConfig(), cfg)
}

func TestWallStoreAllIsACopy(t *testing.T) {
	s := NewWallStore(NewBus(), newKV(t), zap.NewNop())
	all := s.All()
	require.Len(t, all, 4)
	all[room.Front] = room.TileConfig{}
	cfg, err := s.Config(room.Front)
	require.NoError(t, err)
	assert.Equal(t, room.DefaultTileConfig(), cfg)
}

func TestWallStoreSavesEveryWall(t *testing.T) {
	kv := newKV(t)
	s := NewWallStore(NewBus(), kv, zap.NewNop())
	require.NoError(t, s.SetSpacing(room.Back, 6))

	var stored map[room.WallID]room.TileConfig
	found, err := kv.Load(wallsKey, &stored)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, s.All(), stored)
	assert.Len(t, stored, 4)
	assert.Equal(t, 6.0, stored[room.Back].Spacing)
}

func TestWallStoreLoadFillsMissingAndInvalid(t *testing.T) {
	kv := newKV(t)
	custom := room.DefaultTileConfig()
	custom.Spacing = 8
	bad := room.DefaultTileConfig()
	bad.TileWidth = -4
	require.NoError(t, kv.Save(wallsKey, map[room.WallID]room.TileConfig{
		room.Back:  custom,
		room.Right: bad,
	}))
	s := NewWallStore(NewBus(), kv, zap.NewNop())
	all := s.All()
	assert.Equal(t, custom, all[room.Back])
	assert.Equal(t, room.DefaultTileConfig(), all[room.Right])
	assert.Equal(t, room.DefaultTileConfig(), all[room.Front])
}

func TestSceneStoreSelectionAndHover(t *testing.T) {
	bus := NewBus()
	var rec recorder
	rec.listen(bus)
	s := NewSceneStore(bus, newKV(t), zap.NewNop(), time.Hour)

	require.NoError(t, s.Select(room.Back))
	require.NoError(t, s.Select(room.Back))
	require.NoError(t, s.Hover(room.Left))
	assert.ErrorIs(t, s.Select(room.Floor), room.ErrUnknownWall)
	assert.ErrorIs(t, s.Hover(room.Ceiling), room.ErrUnknownWall)
	s.ClearHover()
	s.ClearSelection()

	assert.Equal(t, []Event{
		SelectionChanged{Selected: room.Back, Previous: room.None},
		HoverChanged{Hovered: room.Left, Previous: room.None},
		HoverChanged{Hovered: room.None, Previous: room.Left},
		SelectionChanged{Selected: room.None, Previous: room.Back},
	}, rec.events)
	assert.Equal(t, room.None, s.Selected())
	assert.Equal(t, room.None, s.Hovered())
}

func TestSceneStorePersistsThrottled(t *testing.T) {
	kv := newKV(t)
	s := NewSceneStore(NewBus(), kv, zap.NewNop(), time.Hour)
	require.NoError(t, s.Select(room.Right))
	s.SetCamera(45, -10)
	require.NoError(t, s.Hover(room.Front))

	var rec sceneRecord
	_, err := kv.Load(sceneKey, &rec)
	require.NoError(t, err)
	assert.Equal(t, room.Right, rec.Selected)
	assert.Zero(t, rec.Yaw, "camera write still pending")

	s.Flush()
	restored := NewSceneStore(NewBus(), kv, zap.NewNop(), time.Hour)
	assert.Equal(t, room.Right, restored.Selected())
	assert.Equal(t, room.None, restored.Hovered(), "hover is not persisted")
	yaw, pitch := restored.Camera()
	assert.Equal(t, float32(45), yaw)
	assert.Equal(t, float32(-10), pitch)
}

func TestSceneStoreDropsInvalidStoredSelection(t *testing.T) {
	kv := newKV(t)
	require.NoError(t, kv.Save(sceneKey, sceneRecord{Selected: room.Floor}))
	s := NewSceneStore(NewBus(), kv, zap.NewNop(), time.Hour)
	assert.Equal(t, room.None, s.Selected())
}

func TestStoresReset(t *testing.T) {
	st := New(newKV(t), zap.NewNop(), time.Hour)
	require.NoError(t, st.Room.SetWidth(9))
	require.NoError(t, st.Walls.SetSpacing(room.Back, 9))
	require.NoError(t, st.Scene.Select(room.Back))

	require.NoError(t, st.Reset())
	assert.Equal(t, room.DefaultDimensions(), st.Room.Dimensions())
	assert.Equal(t, room.DefaultTileConfig(), st.Walls.All()[room.Back])
	assert.Equal(t, room.None, st.Scene.Selected())
}
