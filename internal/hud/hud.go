// Package hud draws the status overlay in the top-left corner.
package hud

import (
	"fmt"

	rl "github.com/gen2brain/raylib-go/raylib"

	"tileviz/internal/room"
	"tileviz/internal/units"
)

const (
	fontSize   = 18
	padding    = 12
	lineHeight = fontSize + 4
	// updateInterval: only refresh the text every N frames to reduce allocations.
	updateInterval = 30
)

// Source is what the overlay reports on.
type Source interface {
	Selected() room.WallID
	Hovered() room.WallID
	Dimensions() room.Dimensions
}

// Hud shows FPS, the selected and hovered walls, room dimensions and the indicator mode.
// F1 toggles it.
type Hud struct {
	Visible bool

	src       Source
	indicator func() string
	font      rl.Font // optional; when set, Draw uses DrawTextEx instead of default font

	frameCount uint32
	lines      []string
}

// New returns a HUD over src. indicator, if set, names the current outline mode.
func New(src Source, indicator func() string, visible bool) *Hud {
	return &Hud{Visible: visible, src: src, indicator: indicator}
}

// SetFont sets the font used to draw the overlay. Zero texture ID = use raylib default.
func (h *Hud) SetFont(font rl.Font) {
	h.font = font
}

// Update handles the F1 toggle. Call once per frame.
func (h *Hud) Update() {
	if rl.IsKeyPressed(rl.KeyF1) {
		h.Visible = !h.Visible
		h.lines = nil
	}
}

// Draw renders the overlay when visible. Text is only recomputed every updateInterval frames.
func (h *Hud) Draw() {
	if !h.Visible {
		return
	}
	h.frameCount++
	if h.lines == nil || h.frameCount%updateInterval == 0 {
		h.lines = h.text()
	}
	y := int32(padding)
	for _, line := range h.lines {
		if h.font.Texture.ID != 0 {
			rl.DrawTextEx(h.font, line, rl.NewVector2(padding, float32(y)), fontSize, 1, rl.Green)
		} else {
			rl.DrawText(line, padding, y, fontSize, rl.Green)
		}
		y += lineHeight
	}
}

func (h *Hud) text() []string {
	d := h.src.Dimensions()
	lines := []string{
		fmt.Sprintf("FPS: %d", rl.GetFPS()),
		"Selected: " + wallName(h.src.Selected()),
		"Hover: " + wallName(h.src.Hovered()),
		fmt.Sprintf("Room: %s x %s x %s", units.FormatMeters(d.Width), units.FormatMeters(d.Height), units.FormatMeters(d.Length)),
	}
	if h.indicator != nil {
		lines = append(lines, "Indicator: "+h.indicator())
	}
	return lines
}

func wallName(id room.WallID) string {
	if id == room.None {
		return "-"
	}
	return string(id)
}
