package geometry

import (
	"github.com/chewxy/math32"

	"tileviz/internal/room"
)

// Intersect returns the distance along r at which it hits the front side of s.
// Rays travelling with the normal (hitting the back face) miss.
func Intersect(r Ray, s Surface) (float32, bool) {
	dir := r.Direction.Normalize()
	denom := dir.Dot(s.Normal)
	if denom >= -1e-6 {
		return 0, false
	}
	t := s.Center.Sub(r.Origin).Dot(s.Normal) / denom
	if t < 0 || !finite(t) {
		return 0, false
	}
	local := r.Origin.Add(dir.Scale(t)).Sub(s.Center)
	if math32.Abs(local.Dot(s.Right)) > s.Width/2+1e-4 {
		return 0, false
	}
	if math32.Abs(local.Dot(s.Up)) > s.Height/2+1e-4 {
		return 0, false
	}
	return t, true
}

// Pick returns the nearest surface hit by r.
func Pick(r Ray, surfaces []Surface) (id room.SurfaceID, dist float32, ok bool) {
	dist = math32.Inf(1)
	for _, s := range surfaces {
		t, hit := Intersect(r, s)
		if hit && t < dist {
			id, dist, ok = s.ID, t, true
		}
	}
	if !ok {
		return room.None, 0, false
	}
	return id, dist, true
}

// PickWall is Pick restricted to editable walls. The ceiling and floor still occlude: if the
// nearest hit is one of them the result is None.
func PickWall(r Ray, surfaces []Surface) (room.WallID, bool) {
	id, _, ok := Pick(r, surfaces)
	if !ok || !id.Editable() {
		return room.None, false
	}
	return id, true
}
