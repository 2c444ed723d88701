// Package controls turns mouse drags into camera look angles. The renderer feeds it raw
// pointer events; nothing here touches the window.
package controls

import (
	"github.com/chewxy/math32"

	"tileviz/internal/geometry"
	"tileviz/internal/room"
)

const (
	DefaultSensitivity   = 0.25 // degrees per pixel
	DefaultPitchLimit    = 85
	DefaultDragThreshold = 4 // pixels
	EyeHeight            = 1.6
)

// Look holds camera yaw and pitch in degrees. Yaw 0 looks down -Z at the front wall and
// yaw 90 at the right wall.
type Look struct {
	Yaw   float32
	Pitch float32

	Sensitivity float32
	PitchLimit  float32
}

// NewLook returns look controls facing the front wall.
func NewLook(sensitivity, pitchLimit float32) *Look {
	if sensitivity <= 0 {
		sensitivity = DefaultSensitivity
	}
	if pitchLimit <= 0 || pitchLimit >= 90 {
		pitchLimit = DefaultPitchLimit
	}
	return &Look{Sensitivity: sensitivity, PitchLimit: pitchLimit}
}

// Drag applies a pointer delta in pixels. Dragging right turns right, dragging up looks up.
func (l *Look) Drag(dx, dy float32) {
	l.Set(l.Yaw+dx*l.Sensitivity, l.Pitch-dy*l.Sensitivity)
}

// Set assigns yaw/pitch, wrapping yaw to [0, 360) and clamping pitch.
func (l *Look) Set(yaw, pitch float32) {
	yaw = math32.Mod(yaw, 360)
	if yaw < 0 {
		yaw += 360
	}
	l.Yaw = yaw
	l.Pitch = clamp(pitch, -l.PitchLimit, l.PitchLimit)
}

// Forward returns the unit view direction.
func (l *Look) Forward() geometry.Vec3 {
	yaw := l.Yaw * math32.Pi / 180
	pitch := l.Pitch * math32.Pi / 180
	cp := math32.Cos(pitch)
	return geometry.V3(math32.Sin(yaw)*cp, math32.Sin(pitch), -math32.Cos(yaw)*cp)
}

// Target is the point one meter in front of eye.
func (l *Look) Target(eye geometry.Vec3) geometry.Vec3 {
	return eye.Add(l.Forward())
}

// EyeFor places the camera at the room center at standing eye height, lowered for short
// rooms so it never sits above the middle of the wall.
func EyeFor(d room.Dimensions) geometry.Vec3 {
	h := math32.Min(EyeHeight, float32(d.Height)/2)
	return geometry.V3(0, h, 0)
}

func clamp(v, lo, hi float32) float32 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
