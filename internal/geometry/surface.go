// Package geometry derives the room surfaces from its dimensions, lays out the dashed
// perimeter indicator and answers ray picking queries. It has no renderer dependency.
package geometry

import (
	"tileviz/internal/room"
)

// Surface is a rectangle facing into the room. Local coordinates (u, v) run from the
// bottom-left corner (as seen from inside) along Right and Up.
type Surface struct {
	ID     room.SurfaceID
	Center Vec3
	Normal Vec3 // points into the room
	Right  Vec3
	Up     Vec3
	Width  float32 // extent along Right
	Height float32 // extent along Up
}

// Point maps surface-local (u, v) to world space.
func (s Surface) Point(u, v float32) Vec3 {
	return s.Center.
		Add(s.Right.Scale(u - s.Width/2)).
		Add(s.Up.Scale(v - s.Height/2))
}

// Corners returns bottom-left, bottom-right, top-right, top-left.
func (s Surface) Corners() [4]Vec3 {
	return [4]Vec3{
		s.Point(0, 0),
		s.Point(s.Width, 0),
		s.Point(s.Width, s.Height),
		s.Point(0, s.Height),
	}
}

// Tangent is the third basis vector used when mapping a unit plane onto the surface:
// Right × Normal. For walls it points down, so texture rows run top to bottom.
func (s Surface) Tangent() Vec3 {
	return s.Right.Cross(s.Normal)
}

// Editable reports whether the surface is one of the four tileable walls.
func (s Surface) Editable() bool {
	return s.ID.Editable()
}

// BuildRoom returns the six surfaces for d: the four walls in room.Walls order, then the
// ceiling and floor. The floor sits on Y=0 and the room is centered on X/Z; width runs
// along X and length along Z. The front wall is at -Z and the right wall at +X, so a
// viewer facing the front wall has the right wall on their right.
func BuildRoom(d room.Dimensions) []Surface {
	w, h, l := float32(d.Width), float32(d.Height), float32(d.Length)
	wall := func(id room.SurfaceID, center, normal Vec3, width float32) Surface {
		return Surface{
			ID:     id,
			Center: center,
			Normal: normal,
			Right:  AxisY.Cross(normal),
			Up:     AxisY,
			Width:  width,
			Height: h,
		}
	}
	return []Surface{
		wall(room.Front, V3(0, h/2, -l/2), AxisZ, w),
		wall(room.Back, V3(0, h/2, l/2), AxisZ.Neg(), w),
		wall(room.Left, V3(-w/2, h/2, 0), AxisX, l),
		wall(room.Right, V3(w/2, h/2, 0), AxisX.Neg(), l),
		{
			ID:     room.Ceiling,
			Center: V3(0, h, 0),
			Normal: AxisY.Neg(),
			Right:  AxisX,
			Up:     AxisZ,
			Width:  w,
			Height: l,
		},
		{
			ID:     room.Floor,
			Center: V3(0, 0, 0),
			Normal: AxisY,
			Right:  AxisX,
			Up:     AxisZ.Neg(),
			Width:  w,
			Height: l,
		},
	}
}

// Find returns the surface with the given id.
func Find(surfaces []Surface, id room.SurfaceID) (Surface, bool) {
	for _, s := range surfaces {
		if s.ID == id {
			return s, true
		}
	}
	return Surface{}, false
}

// Repeat returns how many times a pattern unit of unitW x unitH meters repeats across s.
// Non-positive units yield a single repeat.
func Repeat(s Surface, unitW, unitH float32) (u, v float32) {
	u, v = 1, 1
	if unitW > 0 {
		u = s.Width / unitW
	}
	if unitH > 0 {
		v = s.Height / unitH
	}
	return u, v
}
