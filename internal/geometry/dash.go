package geometry

import "github.com/chewxy/math32"

// Segment2 is a straight piece of the perimeter in surface-local coordinates.
type Segment2 struct {
	U0, V0, U1, V1 float32
}

// Length returns the segment length.
func (s Segment2) Length() float32 {
	return math32.Abs(s.U1-s.U0) + math32.Abs(s.V1-s.V0)
}

// MaxDashes bounds the dashes laid along one perimeter. A denser pattern is scaled up
// proportionally so it keeps its dash/gap ratio.
const MaxDashes = 1024

// Perimeter is the length of the closed rectangular path around a w x h rectangle.
func Perimeter(w, h float32) float32 {
	return 2 * (w + h)
}

// DashSegments lays out dashes of length dash separated by gap along the perimeter of a
// w x h rectangle, shifted forward by phase. Dash starts sit at phase mod P plus whole
// multiples of dash+gap; the dash before the seam is shortened so none overlap. Dashes
// that wrap past the start or turn a corner are split, so every segment is axis aligned.
// Degenerate input returns nil; a non-positive gap yields the four solid edges.
func DashSegments(w, h, dash, gap, phase float32) []Segment2 {
	if !finite(w) || !finite(h) || !finite(dash) || !finite(gap) || !finite(phase) {
		return nil
	}
	if w <= 0 || h <= 0 || dash <= 0 {
		return nil
	}
	p := Perimeter(w, h)
	if gap <= 0 || dash >= p {
		return appendSpan(nil, w, h, 0, p)
	}
	period := dash + gap
	if p/period > MaxDashes {
		scale := p / (period * MaxDashes)
		dash, gap = dash*scale, gap*scale
		period = dash + gap
	}
	count := min(int(math32.Ceil(p/period)), MaxDashes+1)
	start := wrap(phase, p)

	var out []Segment2
	for k := 0; k < count; k++ {
		offset := float32(k) * period
		length := math32.Min(dash, p-offset)
		if length <= 0 {
			break
		}
		a := start + offset
		if a >= p {
			a -= p
		}
		b := a + length
		if b <= p {
			out = appendSpan(out, w, h, a, b)
			continue
		}
		out = appendSpan(out, w, h, a, p)
		out = appendSpan(out, w, h, 0, b-p)
	}
	return out
}

// appendSpan adds the perimeter span [a, b] (0 <= a <= b <= P), split at corners.
func appendSpan(out []Segment2, w, h, a, b float32) []Segment2 {
	corners := [...]float32{w, w + h, 2*w + h}
	for _, c := range corners {
		if a < c && c < b {
			out = appendPiece(out, w, h, a, c)
			a = c
		}
	}
	return appendPiece(out, w, h, a, b)
}

func appendPiece(out []Segment2, w, h, a, b float32) []Segment2 {
	if b-a <= 1e-6 {
		return out
	}
	// Sample the midpoint's edge so a piece that ends exactly on a corner stays on its edge.
	mid := (a + b) / 2
	u0, v0 := edgePoint(w, h, a, mid)
	u1, v1 := edgePoint(w, h, b, mid)
	return append(out, Segment2{U0: u0, V0: v0, U1: u1, V1: v1})
}

// edgePoint evaluates s on the edge that contains ref.
func edgePoint(w, h, s, ref float32) (u, v float32) {
	switch {
	case ref <= w:
		return s, 0
	case ref <= w+h:
		return w, s - w
	case ref <= 2*w+h:
		return w - (s - w - h), h
	default:
		return 0, h - (s - 2*w - h)
	}
}

// AdvancePhase moves the dash phase by speed*dt and wraps it to the perimeter. A
// non-finite phase or step restarts the animation at 0.
func AdvancePhase(phase, speed, dt, w, h float32) float32 {
	p := Perimeter(w, h)
	step := speed * dt
	if p <= 0 || !finite(p) || !finite(phase) || !finite(step) {
		return 0
	}
	return wrap(phase+step, p)
}

func wrap(x, p float32) float32 {
	r := math32.Mod(x, p)
	if r < 0 {
		r += p
	}
	if r >= p {
		r = 0
	}
	return r
}

func finite(f float32) bool {
	return !math32.IsNaN(f) && !math32.IsInf(f, 0)
}
