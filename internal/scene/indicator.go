package scene

import (
	"github.com/chewxy/math32"
	rl "github.com/gen2brain/raylib-go/raylib"

	"tileviz/internal/config"
	"tileviz/internal/view"
)

// drawIndicator outlines the selected wall with animated dashes.
func (s *Scene) drawIndicator() {
	o := s.opts.Indicator
	segs := s.model.Indicator(s.phase, view.IndicatorStyle{Dash: o.Dash, Gap: o.Gap, Offset: o.Offset})
	if len(segs) == 0 {
		return
	}
	if o.Mode == config.IndicatorLines {
		for _, seg := range segs {
			rl.DrawLine3D(vec(seg.A), vec(seg.B), o.Color)
		}
		return
	}
	for _, seg := range segs {
		center, size := dashBox(seg, o.Thickness)
		rl.DrawCubeV(center, size, o.Color)
	}
}

// dashBox returns the center and size of an axis-aligned box around seg. Walls are axis
// aligned, so every dash runs along one world axis.
func dashBox(seg view.Segment3, thickness float32) (center, size rl.Vector3) {
	mid := seg.A.Add(seg.B).Scale(0.5)
	d := seg.B.Sub(seg.A)
	size = rl.NewVector3(
		math32.Max(math32.Abs(d.X), thickness),
		math32.Max(math32.Abs(d.Y), thickness),
		math32.Max(math32.Abs(d.Z), thickness),
	)
	return vec(mid), size
}
