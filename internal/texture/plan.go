package texture

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"math"

	"github.com/gogpu/gg"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"tileviz/internal/room"
	"tileviz/internal/units"
)

// maxPlanSide caps the exported plan image.
const maxPlanSide = 4096

// PlanOptions styles the top-down plan export. Lengths are in meters.
type PlanOptions struct {
	PixelsPerMeter float64
	Margin         int
	LineWidth      float64
	Dash, Gap      float64
	Background     color.RGBA
	Wall           color.RGBA
	Indicator      color.RGBA
	Label          color.RGBA
}

// DefaultPlanOptions returns the export style used by the export command.
func DefaultPlanOptions() PlanOptions {
	return PlanOptions{
		PixelsPerMeter: 100,
		Margin:         40,
		LineWidth:      4,
		Dash:           0.2,
		Gap:            0.1,
		Background:     color.RGBA{0xff, 0xff, 0xff, 0xff},
		Wall:           color.RGBA{0x40, 0x40, 0x40, 0xff},
		Indicator:      color.RGBA{0xff, 0xb0, 0x00, 0xff},
		Label:          color.RGBA{0x20, 0x20, 0x20, 0xff},
	}
}

// planWall is one wall edge in plan pixels.
type planWall struct {
	id             room.WallID
	x0, y0, x1, y1 float64
	label          string
}

// PlanView draws the room from above with the front wall at the top. The selected wall, if
// any, is drawn as a dashed line shifted by phase meters along its length.
func PlanView(d room.Dimensions, selected room.WallID, phase float64, opts PlanOptions) (*image.RGBA, error) {
	if err := d.Validate(); err != nil {
		return nil, err
	}
	ppm := opts.PixelsPerMeter
	if ppm <= 0 {
		ppm = DefaultPlanOptions().PixelsPerMeter
	}
	margin := float64(max(opts.Margin, 0))
	if longest := math.Max(d.Width, d.Length) * ppm; longest+2*margin > maxPlanSide {
		ppm = (maxPlanSide - 2*margin) / math.Max(d.Width, d.Length)
	}
	w := int(math.Ceil(d.Width*ppm + 2*margin))
	h := int(math.Ceil(d.Length*ppm + 2*margin))

	left, top := margin, margin
	right, bottom := margin+d.Width*ppm, margin+d.Length*ppm
	walls := []planWall{
		{room.Front, left, top, right, top, "front " + units.FormatMeters(d.Width)},
		{room.Right, right, top, right, bottom, "right " + units.FormatMeters(d.Length)},
		{room.Back, right, bottom, left, bottom, "back " + units.FormatMeters(d.Width)},
		{room.Left, left, bottom, left, top, "left " + units.FormatMeters(d.Length)},
	}

	dc := gg.NewContext(w, h)
	defer dc.Close()
	dc.ClearWithColor(gg.FromColor(opts.Background))
	for _, pw := range walls {
		dc.SetLineCap(gg.LineCapSquare)
		dc.SetColor(opts.Wall)
		dc.SetLineWidth(opts.LineWidth)
		dc.ClearDash()
		if pw.id == selected {
			dc.SetColor(opts.Indicator)
			dc.SetLineWidth(opts.LineWidth * 1.5)
			if opts.Dash > 0 && opts.Gap > 0 {
				dc.SetLineCap(gg.LineCapButt)
				dc.SetDash(opts.Dash*ppm, opts.Gap*ppm)
				dc.SetDashOffset(-phase * ppm)
			}
		}
		dc.DrawLine(pw.x0, pw.y0, pw.x1, pw.y1)
		if err := dc.Stroke(); err != nil {
			return nil, fmt.Errorf("texture: plan %s: %w", pw.id, err)
		}
	}
	img := toRGBA(dc.Image())
	drawLabels(img, walls, opts.Label, margin)
	return img, nil
}

func drawLabels(img *image.RGBA, walls []planWall, col color.RGBA, margin float64) {
	face := basicfont.Face7x13
	dr := &font.Drawer{Dst: img, Src: image.NewUniform(col), Face: face}
	ascent := float64(face.Metrics().Ascent.Ceil())
	for _, pw := range walls {
		width := float64(dr.MeasureString(pw.label).Ceil())
		cx, cy := (pw.x0+pw.x1)/2, (pw.y0+pw.y1)/2
		var x, y float64
		switch pw.id {
		case room.Front:
			x, y = cx-width/2, cy-margin/3
		case room.Back:
			x, y = cx-width/2, cy+margin/3+ascent
		case room.Left:
			x, y = cx+margin/4, cy+ascent/2
		case room.Right:
			x, y = cx-margin/4-width, cy+ascent/2
		}
		dr.Dot = fixed.P(int(math.Round(x)), int(math.Round(y)))
		dr.DrawString(pw.label)
	}
}

// WritePNG encodes a plan or pattern image.
func WritePNG(w io.Writer, img image.Image) error {
	if err := png.Encode(w, img); err != nil {
		return fmt.Errorf("texture: encode png: %w", err)
	}
	return nil
}
