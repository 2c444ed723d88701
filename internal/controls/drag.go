package controls

import "github.com/chewxy/math32"

// DragTracker separates clicks from look drags. A press that travels less than Threshold
// pixels before release is a click.
type DragTracker struct {
	Threshold float32

	down     bool
	dragging bool
	startX   float32
	startY   float32
	lastX    float32
	lastY    float32
}

// Press starts tracking at the pointer position.
func (d *DragTracker) Press(x, y float32) {
	d.down = true
	d.dragging = false
	d.startX, d.startY = x, y
	d.lastX, d.lastY = x, y
}

// Move reports the delta to apply to the camera since the last Move. It returns zero until
// the pointer has left the threshold radius.
func (d *DragTracker) Move(x, y float32) (dx, dy float32) {
	if !d.down {
		return 0, 0
	}
	if !d.dragging {
		if math32.Hypot(x-d.startX, y-d.startY) < d.threshold() {
			return 0, 0
		}
		d.dragging = true
	}
	dx, dy = x-d.lastX, y-d.lastY
	d.lastX, d.lastY = x, y
	return dx, dy
}

// Release ends the press and reports whether it was a click.
func (d *DragTracker) Release() (click bool) {
	if !d.down {
		return false
	}
	click = !d.dragging
	d.down = false
	d.dragging = false
	return click
}

// Down reports whether a press is in progress.
func (d *DragTracker) Down() bool { return d.down }

// Dragging reports whether the current press has become a drag.
func (d *DragTracker) Dragging() bool { return d.dragging }

func (d *DragTracker) threshold() float32 {
	if d.Threshold <= 0 {
		return DefaultDragThreshold
	}
	return d.Threshold
}
