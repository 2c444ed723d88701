package view

import (
	"tileviz/internal/geometry"
)

// Segment3 is one straight dash in world space.
type Segment3 struct {
	A, B geometry.Vec3
}

// IndicatorStyle sets the dash layout in meters. Offset lifts the dashes off the wall
// along its normal so they do not z-fight with it.
type IndicatorStyle struct {
	Dash, Gap, Offset float32
}

// Indicator lays the dashed perimeter of the selected wall in world space. It returns nil
// when no wall is selected.
func (m *Model) Indicator(phase float32, style IndicatorStyle) []Segment3 {
	s, ok := m.Surface(m.selected)
	if !ok || !s.Editable() {
		return nil
	}
	return PlaceOnSurface(s, geometry.DashSegments(s.Width, s.Height, style.Dash, style.Gap, phase), style.Offset)
}

// PlaceOnSurface maps surface-local segments to world space.
func PlaceOnSurface(s geometry.Surface, segs []geometry.Segment2, offset float32) []Segment3 {
	if len(segs) == 0 {
		return nil
	}
	lift := s.Normal.Scale(offset)
	out := make([]Segment3, len(segs))
	for i, seg := range segs {
		out[i] = Segment3{
			A: s.Point(seg.U0, seg.V0).Add(lift),
			B: s.Point(seg.U1, seg.V1).Add(lift),
		}
	}
	return out
}

// PerimeterPhase advances the dash phase of the selected wall.
func (m *Model) PerimeterPhase(phase, speed, dt float32) float32 {
	s, ok := m.Surface(m.selected)
	if !ok {
		return phase
	}
	return geometry.AdvancePhase(phase, speed, dt, s.Width, s.Height)
}
