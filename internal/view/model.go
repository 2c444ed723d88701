// Package view turns store events into the minimal set of render changes. It keeps the
// surfaces, tile configs and highlight state the renderer draws from, without touching
// the GPU.
package view

import (
	"image/color"
	"slices"

	"tileviz/internal/geometry"
	"tileviz/internal/room"
	"tileviz/internal/state"
)

// Highlight is the overlay state of one wall.
type Highlight uint8

const (
	HighlightHover Highlight = 1 << iota
	HighlightSelected
)

// Has reports whether f is set.
func (h Highlight) Has(f Highlight) bool { return h&f != 0 }

// Palette holds the emissive tints.
type Palette struct {
	Hover    color.RGBA
	Selected color.RGBA
}

// Emissive returns the tint for h. Hover wins over selection; no highlight is black.
func Emissive(h Highlight, p Palette) color.RGBA {
	switch {
	case h.Has(HighlightHover):
		return p.Hover
	case h.Has(HighlightSelected):
		return p.Selected
	}
	return color.RGBA{A: 0xff}
}

// Changes lists what the renderer must redo after an event.
type Changes struct {
	// Geometry means surfaces moved or resized; meshes and every texture repeat are stale.
	Geometry bool
	// Textures are walls whose tile pattern must be regenerated.
	Textures []room.WallID
	// Highlights are walls whose emissive tint changed.
	Highlights []room.WallID
	// Indicator means the perimeter indicator moved to another wall or was resized.
	Indicator bool
	// Camera means the look angles changed.
	Camera bool
}

// Empty reports whether nothing needs redrawing.
func (c Changes) Empty() bool {
	return !c.Geometry && len(c.Textures) == 0 && len(c.Highlights) == 0 && !c.Indicator && !c.Camera
}

// Model is the render-side copy of the stores.
type Model struct {
	dims     room.Dimensions
	surfaces []geometry.Surface
	tiles    map[room.WallID]room.TileConfig
	selected room.WallID
	hovered  room.WallID
	yaw      float32
	pitch    float32
}

// NewModel builds a model from the current store values.
func NewModel(st *state.Stores) *Model {
	m := &Model{tiles: st.Walls.All()}
	m.setDimensions(st.Room.Dimensions())
	m.selected = st.Scene.Selected()
	m.hovered = st.Scene.Hovered()
	m.yaw, m.pitch = st.Scene.Camera()
	return m
}

func (m *Model) setDimensions(d room.Dimensions) {
	m.dims = d
	m.surfaces = geometry.BuildRoom(d)
}

// Apply folds ev into the model and reports what changed.
func (m *Model) Apply(ev state.Event) Changes {
	var c Changes
	switch e := ev.(type) {
	case state.DimensionsChanged:
		if e.Dimensions == m.dims {
			return c
		}
		m.setDimensions(e.Dimensions)
		c.Geometry = true
		c.Indicator = m.selected != room.None
	case state.TileConfigChanged:
		if !e.Wall.Editable() || m.tiles[e.Wall] == e.Config {
			return c
		}
		m.tiles[e.Wall] = e.Config
		c.Textures = []room.WallID{e.Wall}
	case state.SelectionChanged:
		if e.Selected == m.selected {
			return c
		}
		c.Highlights = touched(m.selected, e.Selected)
		m.selected = e.Selected
		c.Indicator = true
	case state.HoverChanged:
		if e.Hovered == m.hovered {
			return c
		}
		c.Highlights = touched(m.hovered, e.Hovered)
		m.hovered = e.Hovered
	case state.CameraChanged:
		if e.Yaw == m.yaw && e.Pitch == m.pitch {
			return c
		}
		m.yaw, m.pitch = e.Yaw, e.Pitch
		c.Camera = true
	}
	return c
}

func touched(prev, next room.WallID) []room.WallID {
	var out []room.WallID
	for _, id := range []room.WallID{prev, next} {
		if id.Editable() && !slices.Contains(out, id) {
			out = append(out, id)
		}
	}
	return out
}

// Dimensions returns the room dimensions.
func (m *Model) Dimensions() room.Dimensions { return m.dims }

// Surfaces returns the six room surfaces.
func (m *Model) Surfaces() []geometry.Surface { return m.surfaces }

// Surface returns one surface by id.
func (m *Model) Surface(id room.SurfaceID) (geometry.Surface, bool) {
	return geometry.Find(m.surfaces, id)
}

// Tile returns a wall's tile config.
func (m *Model) Tile(id room.WallID) room.TileConfig { return m.tiles[id] }

// Selected returns the selected wall or None.
func (m *Model) Selected() room.WallID { return m.selected }

// Hovered returns the hovered wall or None.
func (m *Model) Hovered() room.WallID { return m.hovered }

// Camera returns yaw and pitch in degrees.
func (m *Model) Camera() (yaw, pitch float32) { return m.yaw, m.pitch }

// Highlight returns the overlay state of id.
func (m *Model) Highlight(id room.SurfaceID) Highlight {
	var h Highlight
	if id == room.None {
		return h
	}
	if id == m.hovered {
		h |= HighlightHover
	}
	if id == m.selected {
		h |= HighlightSelected
	}
	return h
}

// Repeat returns the texture repeat counts of id for a pattern unit in meters.
func (m *Model) Repeat(id room.SurfaceID, unitW, unitH float64) (u, v float32) {
	s, ok := m.Surface(id)
	if !ok {
		return 1, 1
	}
	return geometry.Repeat(s, float32(unitW), float32(unitH))
}
