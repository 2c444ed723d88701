package view

import (
	"image/color"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"tileviz/internal/room"
	"tileviz/internal/state"
	"tileviz/internal/storage"
)

func newStores(t *testing.T) *state.Stores {
	t.Helper()
	kv, err := storage.NewMemStore("")
	require.NoError(t, err)
	return state.New(kv, zap.NewNop(), time.Hour)
}

// wired returns stores and a model fed by the bus, plus the changes of every event.
func wired(t *testing.T) (*state.Stores, *Model, *[]Changes) {
	st := newStores(t)
	m := NewModel(st)
	var got []Changes
	st.Bus.Subscribe(func(ev state.Event) { got = append(got, m.Apply(ev)) })
	return st, m, &got
}

func TestEmissive(t *testing.T) {
	p := Palette{Hover: color.RGBA{1, 1, 1, 255}, Selected: color.RGBA{2, 2, 2, 255}}
	assert.Equal(t, color.RGBA{A: 255}, Emissive(0, p))
	assert.Equal(t, p.Selected, Emissive(HighlightSelected, p))
	assert.Equal(t, p.Hover, Emissive(HighlightHover, p))
	assert.Equal(t, p.Hover, Emissive(HighlightHover|HighlightSelected, p))
}

func TestDimensionsChangeTouchesGeometryOnly(t *testing.T) {
	st, m, got := wired(t)
	require.NoError(t, st.Room.SetWidth(6))

	require.Len(t, *got, 1)
	c := (*got)[0]
	assert.True(t, c.Geometry)
	assert.Empty(t, c.Textures)
	assert.Empty(t, c.Highlights)
	assert.False(t, c.Indicator, "nothing selected")

	front, ok := m.Surface(room.Front)
	require.True(t, ok)
	assert.Equal(t, float32(6), front.Width)

	require.NoError(t, st.Scene.Select(room.Left))
	require.NoError(t, st.Room.SetLength(7))
	assert.True(t, (*got)[len(*got)-1].Indicator, "selected wall resized")
}

func TestTileChangeTouchesOneWall(t *testing.T) {
	st, m, got := wired(t)
	require.NoError(t, st.Walls.SetSpacing(room.Back, 6))

	require.Len(t, *got, 1)
	assert.Equal(t, Changes{Textures: []room.WallID{room.Back}}, (*got)[0])
	assert.Equal(t, 6.0, m.Tile(room.Back).Spacing)
	assert.Equal(t, room.DefaultTileConfig(), m.Tile(room.Front))
}

func TestSelectionAndHoverTouchHighlights(t *testing.T) {
	st, m, got := wired(t)
	require.NoError(t, st.Scene.Select(room.Front))
	require.NoError(t, st.Scene.Select(room.Right))
	require.NoError(t, st.Scene.Hover(room.Right))
	st.Scene.ClearHover()

	require.Len(t, *got, 4)
	assert.Equal(t, Changes{Highlights: []room.WallID{room.Front}, Indicator: true}, (*got)[0])
	assert.Equal(t, Changes{Highlights: []room.WallID{room.Front, room.Right}, Indicator: true}, (*got)[1])
	assert.Equal(t, Changes{Highlights: []room.WallID{room.Right}}, (*got)[2])
	assert.Equal(t, Changes{Highlights: []room.WallID{room.Right}}, (*got)[3])

	assert.Equal(t, HighlightSelected, m.Highlight(room.Right))
	assert.Equal(t, Highlight(0), m.Highlight(room.Front))
	assert.Equal(t, Highlight(0), m.Highlight(room.None))
}

func TestApplyIgnoresNoOps(t *testing.T) {
	st := newStores(t)
	m := NewModel(st)
	assert.True(t, m.Apply(state.DimensionsChanged{Dimensions: st.Room.Dimensions()}).Empty())
	assert.True(t, m.Apply(state.TileConfigChanged{Wall: room.Front, Config: room.DefaultTileConfig()}).Empty())
	assert.True(t, m.Apply(state.TileConfigChanged{Wall: room.Floor, Config: room.TileConfig{}}).Empty())
	assert.True(t, m.Apply(state.HoverChanged{}).Empty())
	assert.False(t, m.Apply(state.CameraChanged{Yaw: 10}).Empty())
	yaw, _ := m.Camera()
	assert.Equal(t, float32(10), yaw)
}

func TestModelStartsFromStores(t *testing.T) {
	st := newStores(t)
	require.NoError(t, st.Scene.Select(room.Back))
	require.NoError(t, st.Walls.SetTileSize(room.Left, 100, 200))
	m := NewModel(st)
	assert.Equal(t, room.Back, m.Selected())
	assert.Equal(t, 200.0, m.Tile(room.Left).TileHeight)
	assert.Len(t, m.Surfaces(), 6)

	u, v := m.Repeat(room.Front, 0.5, 0.5)
	assert.InDelta(t, 8, u, 1e-5)
	assert.InDelta(t, 5, v, 1e-5)
	u, v = m.Repeat(room.None, 0.5, 0.5)
	assert.Equal(t, float32(1), u)
	assert.Equal(t, float32(1), v)
}

func TestIndicatorOnSelectedWall(t *testing.T) {
	st, m, _ := wired(t)
	assert.Nil(t, m.Indicator(0, IndicatorStyle{Dash: 0.2, Gap: 0.1}))

	require.NoError(t, st.Scene.Select(room.Front))
	solid := m.Indicator(0, IndicatorStyle{Dash: 0.2, Gap: 0, Offset: 0.01})
	require.Len(t, solid, 4)
	for _, s := range solid {
		assert.InDelta(t, -2.49, s.A.Z, 1e-5)
		assert.InDelta(t, -2.49, s.B.Z, 1e-5)
	}
	assert.InDelta(t, -2, solid[0].A.X, 1e-5)
	assert.InDelta(t, 0, solid[0].A.Y, 1e-5)
	assert.InDelta(t, 2, solid[0].B.X, 1e-5)

	dashed := m.Indicator(0, IndicatorStyle{Dash: 0.2, Gap: 0.1})
	var total float32
	for _, s := range dashed {
		total += s.B.Sub(s.A).Len()
	}
	// 13 m perimeter, period 0.3: 43 full dashes and one shortened to 0.1.
	assert.InDelta(t, 43*0.2+0.1, total, 1e-3)
}

func TestPerimeterPhaseWraps(t *testing.T) {
	st, m, _ := wired(t)
	assert.Equal(t, float32(3), m.PerimeterPhase(3, 1, 1), "no selection keeps phase")
	require.NoError(t, st.Scene.Select(room.Front))
	assert.InDelta(t, 1, m.PerimeterPhase(12.5, 1, 1.5), 1e-5)
}
