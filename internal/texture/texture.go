// Package texture draws the repeating tile/grout images applied to walls and loads tile
// images from URLs, data URLs and local files.
package texture

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"math"

	"github.com/anthonynsimon/bild/transform"
	"github.com/gogpu/gg"

	"tileviz/internal/colors"
	"tileviz/internal/room"
	"tileviz/internal/units"
)

// ErrInvalidPattern is returned for tile sizes that cannot be drawn.
var ErrInvalidPattern = errors.New("texture: invalid pattern")

// Options bounds the generated image resolution and sets the placeholder colors.
type Options struct {
	// PixelsPerMM is the preferred resolution.
	PixelsPerMM float64
	// MaxSize caps the longest side of a pattern image in pixels.
	MaxSize int
	// CheckerA and CheckerB alternate in the placeholder pattern.
	CheckerA color.RGBA
	CheckerB color.RGBA
}

// DefaultOptions returns a half-pixel-per-millimeter pattern capped at 1024 px.
func DefaultOptions() Options {
	return Options{
		PixelsPerMM: 0.5,
		MaxSize:     1024,
		CheckerA:    color.RGBA{0xf2, 0xf2, 0xf2, 0xff},
		CheckerB:    color.RGBA{0xc8, 0xc8, 0xc8, 0xff},
	}
}

// Pattern is one repeat unit of a wall texture and the physical size it covers.
type Pattern struct {
	Image *image.RGBA
	// UnitWidth and UnitHeight are in meters.
	UnitWidth  float64
	UnitHeight float64
}

// cell is a pixel layout for one tile plus its grout strip.
type cell struct {
	tileW, tileH, grout int
}

// layout converts a tile config to pixels. unitsAcross is how many cells the pattern
// spans on each side, used to keep the whole image under MaxSize.
func layout(cfg room.TileConfig, opts Options, unitsAcross int) (cell, error) {
	if !(cfg.TileWidth > 0) || !(cfg.TileHeight > 0) || !(cfg.Spacing >= 0) ||
		math.IsInf(cfg.TileWidth, 0) || math.IsInf(cfg.TileHeight, 0) || math.IsInf(cfg.Spacing, 0) {
		return cell{}, fmt.Errorf("%w: tile %gx%g spacing %g", ErrInvalidPattern, cfg.TileWidth, cfg.TileHeight, cfg.Spacing)
	}
	scale := opts.PixelsPerMM
	if scale <= 0 {
		scale = DefaultOptions().PixelsPerMM
	}
	maxSize := opts.MaxSize
	if maxSize <= 0 {
		maxSize = DefaultOptions().MaxSize
	}
	longest := math.Max(cfg.TileWidth, cfg.TileHeight) + cfg.Spacing
	if px := longest * scale * float64(unitsAcross); px > float64(maxSize) {
		scale = float64(maxSize) / (longest * float64(unitsAcross))
	}

	c := cell{
		tileW: max(1, int(math.Round(cfg.TileWidth*scale))),
		tileH: max(1, int(math.Round(cfg.TileHeight*scale))),
		grout: int(math.Round(cfg.Spacing * scale)),
	}
	if cfg.Spacing > 0 && c.grout < 1 {
		c.grout = 1
	}
	// Rounding up tiny tiles and grout may push past the cap; shrink the tile to fit.
	limit := maxSize / unitsAcross
	if c.tileW+c.grout > limit {
		c.tileW = max(1, limit-c.grout)
	}
	if c.tileH+c.grout > limit {
		c.tileH = max(1, limit-c.grout)
	}
	return c, nil
}

// Checkerboard draws the placeholder pattern: 2x2 tiles alternating CheckerA and
// CheckerB, each followed by grout on the right and bottom.
func Checkerboard(cfg room.TileConfig, opts Options) (Pattern, error) {
	grout, err := colors.Parse(cfg.GroutColor)
	if err != nil {
		return Pattern{}, err
	}
	c, err := layout(cfg, opts, 2)
	if err != nil {
		return Pattern{}, err
	}
	stepX, stepY := c.tileW+c.grout, c.tileH+c.grout
	dc := gg.NewContext(2*stepX, 2*stepY)
	defer dc.Close()
	dc.ClearWithColor(gg.FromColor(grout))
	for row := 0; row < 2; row++ {
		for col := 0; col < 2; col++ {
			fill := opts.CheckerA
			if (row+col)%2 == 1 {
				fill = opts.CheckerB
			}
			dc.SetColor(fill)
			dc.DrawRectangle(float64(col*stepX), float64(row*stepY), float64(c.tileW), float64(c.tileH))
			if err := dc.Fill(); err != nil {
				return Pattern{}, fmt.Errorf("texture: checkerboard: %w", err)
			}
		}
	}
	return Pattern{
		Image:      toRGBA(dc.Image()),
		UnitWidth:  units.MMToM(2 * (cfg.TileWidth + cfg.Spacing)),
		UnitHeight: units.MMToM(2 * (cfg.TileHeight + cfg.Spacing)),
	}, nil
}

// TileGrout draws img scaled into one tile with grout on the right and bottom.
func TileGrout(img image.Image, cfg room.TileConfig, opts Options) (Pattern, error) {
	if img == nil || img.Bounds().Empty() {
		return Pattern{}, fmt.Errorf("%w: empty tile image", ErrInvalidPattern)
	}
	grout, err := colors.Parse(cfg.GroutColor)
	if err != nil {
		return Pattern{}, err
	}
	c, err := layout(cfg, opts, 1)
	if err != nil {
		return Pattern{}, err
	}
	scaled := transform.Resize(img, c.tileW, c.tileH, transform.Linear)

	dc := gg.NewContext(c.tileW+c.grout, c.tileH+c.grout)
	defer dc.Close()
	dc.ClearWithColor(gg.FromColor(grout))
	dc.DrawImageEx(gg.ImageBufFromImage(scaled), gg.DrawImageOptions{
		DstWidth:      float64(c.tileW),
		DstHeight:     float64(c.tileH),
		Interpolation: gg.InterpNearest,
		Opacity:       1,
		BlendMode:     gg.BlendNormal,
	})
	return Pattern{
		Image:      toRGBA(dc.Image()),
		UnitWidth:  units.MMToM(cfg.TileWidth + cfg.Spacing),
		UnitHeight: units.MMToM(cfg.TileHeight + cfg.Spacing),
	}, nil
}

// ForWall picks the tile pattern when an image is available and the placeholder otherwise.
func ForWall(cfg room.TileConfig, img image.Image, opts Options) (Pattern, error) {
	if img != nil {
		return TileGrout(img, cfg, opts)
	}
	return Checkerboard(cfg, opts)
}

func toRGBA(img image.Image) *image.RGBA {
	if rgba, ok := img.(*image.RGBA); ok {
		return rgba
	}
	b := img.Bounds()
	out := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	for y := 0; y < b.Dy(); y++ {
		for x := 0; x < b.Dx(); x++ {
			out.Set(x, y, img.At(b.Min.X+x, b.Min.Y+y))
		}
	}
	return out
}
