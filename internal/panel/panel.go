// Package panel draws the raygui side form that edits the room and the selected wall.
package panel

import (
	"image/color"
	"math"
	"strings"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"
	"go.uber.org/zap"

	"tileviz/internal/colors"
	"tileviz/internal/room"
	"tileviz/internal/state"
	"tileviz/internal/textinput"
	"tileviz/internal/units"
)

const (
	width      = 300
	margin     = 10
	rowH       = 20
	rowGap     = 6
	labelW     = 70
	valueW     = 64
	pickerSize = 120
	fontSize   = 14

	// Slider ranges: room sides in meters, tile sizes in millimeters.
	minRoomSide, maxRoomSide     = 1, 15
	minRoomHeight, maxRoomHeight = 2, 5
	minTile, maxTile             = 50, 1200
	maxSpacing                   = 20

	roomStep    = 0.05
	tileStep    = 1
	spacingStep = 0.5
)

// Panel is the side form. Room sliders write through while dragged; tile sliders and the
// grout picker keep a draft and commit when the mouse is released, since every tile
// change regenerates the wall texture.
type Panel struct {
	stores *state.Stores
	log    *zap.Logger

	bounds rl.Rectangle
	// pressedInside is set when the current left press started over the panel; widgets
	// commit only then so a clamped slider never writes back a value the user did not pick.
	pressedInside bool

	draftWall room.WallID
	draft     room.TileConfig
	dirty     bool

	pickerOpen bool

	editingURL bool
	urlText    string
}

// New returns a panel over stores. Call InitStyle once the window exists.
func New(stores *state.Stores, log *zap.Logger) *Panel {
	return &Panel{stores: stores, log: log}
}

// InitStyle sets a dark theme for raygui widgets.
func InitStyle() {
	gui.SetStyle(gui.DEFAULT, gui.BACKGROUND_COLOR, gui.NewColorPropertyValue(rl.NewColor(30, 30, 35, 235)))
	gui.SetStyle(gui.DEFAULT, gui.BASE_COLOR_NORMAL, gui.NewColorPropertyValue(rl.NewColor(45, 45, 50, 255)))
	gui.SetStyle(gui.DEFAULT, gui.BASE_COLOR_FOCUSED, gui.NewColorPropertyValue(rl.NewColor(60, 60, 70, 255)))
	gui.SetStyle(gui.DEFAULT, gui.BASE_COLOR_PRESSED, gui.NewColorPropertyValue(rl.NewColor(70, 80, 90, 255)))

	gui.SetStyle(gui.DEFAULT, gui.TEXT_COLOR_NORMAL, gui.NewColorPropertyValue(rl.NewColor(200, 200, 200, 255)))
	gui.SetStyle(gui.DEFAULT, gui.TEXT_COLOR_FOCUSED, gui.NewColorPropertyValue(rl.White))
	gui.SetStyle(gui.DEFAULT, gui.TEXT_COLOR_PRESSED, gui.NewColorPropertyValue(rl.Yellow))

	gui.SetStyle(gui.DEFAULT, gui.BORDER_COLOR_NORMAL, gui.NewColorPropertyValue(rl.NewColor(80, 80, 90, 255)))
	gui.SetStyle(gui.DEFAULT, gui.BORDER_COLOR_FOCUSED, gui.NewColorPropertyValue(rl.NewColor(100, 100, 120, 255)))
	gui.SetStyle(gui.DEFAULT, gui.LINE_COLOR, gui.NewColorPropertyValue(rl.NewColor(60, 60, 60, 255)))

	gui.SetStyle(gui.DEFAULT, gui.TEXT_SIZE, fontSize)
}

// Contains reports whether pt is over the panel as last drawn.
func (p *Panel) Contains(pt rl.Vector2) bool {
	return rl.CheckCollisionPointRec(pt, p.bounds)
}

// Editing reports whether the image URL field has keyboard focus.
func (p *Panel) Editing() bool {
	return p.editingURL
}

// Update tracks where the current press started and commits a finished tile edit.
// Call once per frame before Draw.
func (p *Panel) Update() {
	mouse := rl.GetMousePosition()
	if rl.IsMouseButtonPressed(rl.MouseButtonLeft) {
		p.pressedInside = p.Contains(mouse)
	}
	if rl.IsMouseButtonReleased(rl.MouseButtonLeft) {
		p.commitDraft()
		p.pressedInside = false
	}
	if sel := p.stores.Scene.Selected(); sel != p.draftWall {
		p.commitDraft()
		p.draftWall = sel
		p.editingURL = false
		p.pickerOpen = false
	}
}

func (p *Panel) interacting() bool {
	return p.pressedInside && rl.IsMouseButtonDown(rl.MouseButtonLeft)
}

// Draw draws the panel on the right edge of the screen. Widgets are immediate mode, so
// edits are applied here.
func (p *Panel) Draw() {
	screenW := float32(rl.GetScreenWidth())
	x := screenW - width - margin
	y := float32(margin)

	sel := p.stores.Scene.Selected()
	h := float32(4*(rowH+rowGap) + 2*margin + rowH)
	if sel != room.None {
		h += 9*(rowH+rowGap) + rowGap
		if p.pickerOpen {
			h += pickerSize + rowGap
		}
	}
	p.bounds = rl.NewRectangle(x, y, width, h)
	gui.Panel(p.bounds, "Room")

	cx := x + margin
	cy := y + rowH + rowGap + 4
	cy = p.drawRoom(cx, cy)
	if sel == room.None {
		gui.Label(rl.NewRectangle(cx, cy, width-2*margin, rowH), "Click a wall to edit its tiles")
		return
	}
	p.drawWall(sel, cx, cy)
}

func (p *Panel) drawRoom(x, y float32) float32 {
	d := p.stores.Room.Dimensions()
	type side struct {
		label  string
		value  float64
		lo, hi float32
		set    func(float64) error
	}
	sides := []side{
		{"Width", d.Width, minRoomSide, maxRoomSide, p.stores.Room.SetWidth},
		{"Height", d.Height, minRoomHeight, maxRoomHeight, p.stores.Room.SetHeight},
		{"Length", d.Length, minRoomSide, maxRoomSide, p.stores.Room.SetLength},
	}
	for _, s := range sides {
		shown := clamp32(float32(s.value), s.lo, s.hi)
		got := p.slider(x, y, s.label, units.FormatMeters(s.value), shown, s.lo, s.hi)
		if got != shown && p.interacting() {
			v := quantize(float64(got), roomStep)
			if v != s.value {
				if err := s.set(v); err != nil {
					p.log.Warn("room edit rejected", zap.String("side", s.label), zap.Error(err))
				}
			}
		}
		y += rowH + rowGap
	}
	return y + rowGap
}

func (p *Panel) drawWall(id room.WallID, x, y float32) {
	if !p.dirty {
		cfg, err := p.stores.Walls.Config(id)
		if err != nil {
			p.log.Warn("wall config", zap.String("wall", string(id)), zap.Error(err))
			return
		}
		p.draft = cfg
	}
	inner := float32(width - 2*margin)

	gui.Label(rl.NewRectangle(x, y, inner, rowH), "Wall: "+string(id))
	y += rowH + rowGap

	type dim struct {
		label  string
		value  *float64
		lo, hi float32
		step   float64
	}
	dims := []dim{
		{"Tile W", &p.draft.TileWidth, minTile, maxTile, tileStep},
		{"Tile H", &p.draft.TileHeight, minTile, maxTile, tileStep},
		{"Grout", &p.draft.Spacing, 0, maxSpacing, spacingStep},
	}
	for _, d := range dims {
		shown := clamp32(float32(*d.value), d.lo, d.hi)
		got := p.slider(x, y, d.label, units.FormatMM(*d.value), shown, d.lo, d.hi)
		if got != shown && p.interacting() {
			if v := quantize(float64(got), d.step); v != *d.value {
				*d.value = v
				p.dirty = true
			}
		}
		y += rowH + rowGap
	}

	// Grout color swatch toggles the picker.
	gui.Label(rl.NewRectangle(x, y, labelW, rowH), "Color")
	swatch := rl.NewRectangle(x+labelW, y, rowH, rowH)
	grout, err := colors.Parse(p.draft.GroutColor)
	if err != nil {
		grout = color.RGBA{A: 255}
	}
	rl.DrawRectangleRec(swatch, rl.Color(grout))
	rl.DrawRectangleLinesEx(swatch, 1, rl.Gray)
	label := "Pick"
	if p.pickerOpen {
		label = "Done"
	}
	if gui.Button(rl.NewRectangle(x+labelW+rowH+rowGap, y, valueW, rowH), label) {
		p.pickerOpen = !p.pickerOpen
	}
	gui.Label(rl.NewRectangle(x+labelW+rowH+valueW+2*rowGap, y, valueW+20, rowH), p.draft.GroutColor)
	y += rowH + rowGap
	if p.pickerOpen {
		// The picker draws its hue bar to the right of bounds.
		picked := gui.ColorPicker(rl.NewRectangle(x, y, pickerSize, pickerSize), "", rl.Color(grout))
		if hex := colors.Hex(color.RGBA(picked)); picked != rl.Color(grout) && p.interacting() && hex != p.draft.GroutColor {
			p.draft.GroutColor = hex
			p.dirty = true
		}
		y += pickerSize + rowGap
	}

	// Image URL field: click to edit, Enter to apply, Esc to cancel.
	gui.Label(rl.NewRectangle(x, y, inner, rowH), "Tile image URL or path")
	y += rowH
	p.drawURLField(id, x, y, inner, rowH)
	y += rowH + rowGap

	half := (inner - rowGap) / 2
	if gui.Button(rl.NewRectangle(x, y, half, rowH), "Clear image") {
		if err := p.stores.Walls.SetImageURL(id, ""); err != nil {
			p.log.Warn("clear image", zap.Error(err))
		}
		p.editingURL = false
	}
	if gui.Button(rl.NewRectangle(x+half+rowGap, y, half, rowH), "Deselect") {
		p.commitDraft()
		p.stores.Scene.ClearSelection()
	}
}

// slider draws a labeled raygui slider with the formatted value on its right.
func (p *Panel) slider(x, y float32, label, value string, v, lo, hi float32) float32 {
	gui.Label(rl.NewRectangle(x, y, labelW, rowH), label)
	bounds := rl.NewRectangle(x+labelW, y, width-2*margin-labelW-valueW, rowH)
	return gui.Slider(bounds, "", value, v, lo, hi)
}

func (p *Panel) drawURLField(id room.WallID, x, y, w, h float32) {
	bounds := rl.NewRectangle(x, y, w, h)
	hovered := rl.CheckCollisionPointRec(rl.GetMousePosition(), bounds)

	bg := rl.NewColor(45, 45, 50, 255)
	if p.editingURL {
		bg = rl.NewColor(60, 60, 70, 255)
	} else if hovered {
		bg = rl.NewColor(55, 55, 60, 255)
	}
	rl.DrawRectangleRec(bounds, bg)
	rl.DrawRectangleLinesEx(bounds, 1, rl.NewColor(80, 80, 90, 255))

	if !p.editingURL {
		if hovered && rl.IsMouseButtonPressed(rl.MouseButtonLeft) {
			p.editingURL = true
			p.urlText = p.draft.ImageURL
		}
		text := p.draft.ImageURL
		if text == "" {
			text = "(checkerboard)"
		}
		rl.DrawText(fitText(text, int32(w)-8), int32(x)+4, int32(y)+3, fontSize, rl.LightGray)
		return
	}

	if rl.IsKeyPressed(rl.KeyV) && (rl.IsKeyDown(rl.KeyLeftControl) || rl.IsKeyDown(rl.KeyRightControl) || rl.IsKeyDown(rl.KeyLeftSuper) || rl.IsKeyDown(rl.KeyRightSuper)) {
		p.urlText += strings.TrimSpace(rl.GetClipboardText())
	} else {
		for {
			c := rl.GetCharPressed()
			if c == 0 {
				break
			}
			p.urlText += string(rune(c))
		}
	}
	if (rl.IsKeyPressed(rl.KeyBackspace) || rl.IsKeyPressedRepeat(rl.KeyBackspace)) && len(p.urlText) > 0 {
		p.urlText = textinput.Backspace(p.urlText)
	}
	// Show the tail so the caret stays visible on long URLs.
	rl.DrawText(fitTail(p.urlText+"_", int32(w)-8), int32(x)+4, int32(y)+3, fontSize, rl.White)

	switch {
	case rl.IsKeyPressed(rl.KeyEscape):
		p.editingURL = false
	case rl.IsKeyPressed(rl.KeyEnter) || rl.IsKeyPressed(rl.KeyKpEnter),
		rl.IsMouseButtonPressed(rl.MouseButtonLeft) && !hovered:
		p.editingURL = false
		if err := p.stores.Walls.SetImageURL(id, p.urlText); err != nil {
			p.log.Warn("set image", zap.Error(err))
		}
	}
}

// commitDraft writes pending tile slider and grout edits to the wall store.
func (p *Panel) commitDraft() {
	if !p.dirty {
		return
	}
	p.dirty = false
	if p.draftWall == room.None {
		return
	}
	cur, err := p.stores.Walls.Config(p.draftWall)
	if err != nil {
		return
	}
	// The image URL has its own field; keep whatever the store holds.
	next := p.draft
	next.ImageURL = cur.ImageURL
	if err := p.stores.Walls.Set(p.draftWall, next); err != nil {
		p.log.Warn("tile edit rejected", zap.String("wall", string(p.draftWall)), zap.Error(err))
	}
}

func quantize(v, step float64) float64 {
	q := math.Round(v/step) * step
	// Trim float noise such as 2.4000000000000004.
	return math.Round(q*1e6) / 1e6
}

func clamp32(v, lo, hi float32) float32 {
	return min(max(v, lo), hi)
}

// fitText truncates s with "..." to fit maxW pixels in the default font.
func fitText(s string, maxW int32) string {
	if rl.MeasureText(s, fontSize) <= maxW {
		return s
	}
	for len(s) > 0 && rl.MeasureText(s+"...", fontSize) > maxW {
		s = textinput.Backspace(s)
	}
	return s + "..."
}

// fitTail drops leading bytes of s until it fits maxW pixels.
func fitTail(s string, maxW int32) string {
	for len(s) > 1 && rl.MeasureText(s, fontSize) > maxW {
		s = textinput.DropFirst(s)
	}
	return s
}
