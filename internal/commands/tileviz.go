package commands

import (
	"context"
	"flag"
	"fmt"
	"image"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"tileviz/internal/config"
	"tileviz/internal/room"
	"tileviz/internal/state"
	"tileviz/internal/texture"
	"tileviz/internal/units"
)

// exportLoadTimeout bounds the tile image load of "export --pattern".
const exportLoadTimeout = 30 * time.Second

// Indicator is the runtime indicator style the console can change.
type Indicator interface {
	IndicatorStyle() (mode string, dash, gap, speed float32)
	SetIndicatorMode(mode string)
	SetIndicatorDash(dash, gap, speed float32)
}

// Deps are what the tileviz commands act on. Indicator, Loader and Phase may be nil.
type Deps struct {
	Stores    *state.Stores
	Indicator Indicator
	Loader    *texture.Loader
	Texture   texture.Options
	Plan      texture.PlanOptions
	Phase     func() float32
	ExportDir string
	Now       func() time.Time
}

// RegisterTileviz adds room, tile, select, indicator, export and reset.
func RegisterTileviz(r *Registry, d Deps) {
	if d.Now == nil {
		d.Now = time.Now
	}
	r.Register("room", "show or set room dimensions in meters", d.room)
	r.Register("tile", "show or set a wall's tiles (default: selected wall)", d.tile)
	r.Register("select", "select a wall: front, back, left, right or none", d.selectWall)
	r.Register("indicator", "show or set the selection outline style", d.indicator)
	r.Register("export", "write the floor plan or a wall pattern as PNG", d.export)
	r.Register("reset", "restore default room and tiles and clear the selection", d.reset)
}

func (d Deps) room(fs *flag.FlagSet) RunFunc {
	width := fs.Float64("width", 0, "room width")
	height := fs.Float64("height", 0, "room height")
	length := fs.Float64("length", 0, "room length")
	mm := fs.Bool("mm", false, "values are in millimeters")
	return func(out io.Writer) error {
		set := setFlags(fs)
		conv := func(v float64) float64 {
			if *mm {
				return units.MMToM(v)
			}
			return v
		}
		dims := d.Stores.Room.Dimensions()
		if set["width"] {
			dims.Width = conv(*width)
		}
		if set["height"] {
			dims.Height = conv(*height)
		}
		if set["length"] {
			dims.Length = conv(*length)
		}
		if set["width"] || set["height"] || set["length"] {
			if err := d.Stores.Room.SetDimensions(dims); err != nil {
				return err
			}
		}
		cur := d.Stores.Room.Dimensions()
		fmt.Fprintf(out, "room %s x %s x %s (width x height x length)\n",
			units.FormatMeters(cur.Width), units.FormatMeters(cur.Height), units.FormatMeters(cur.Length))
		return nil
	}
}

// wallArg resolves a --wall value, falling back to the selection.
func (d Deps) wallArg(s string) (room.WallID, error) {
	id, err := room.ParseWall(strings.ToLower(strings.TrimSpace(s)))
	if err != nil {
		return room.None, err
	}
	if id == room.None {
		id = d.Stores.Scene.Selected()
	}
	if id == room.None {
		return room.None, fmt.Errorf("%w: no wall selected; pass --wall", ErrUsage)
	}
	return id, nil
}

func (d Deps) tile(fs *flag.FlagSet) RunFunc {
	wall := fs.String("wall", "", "front, back, left or right")
	img := fs.String("image", "", "tile image URL, data URL or file path")
	clearImg := fs.Bool("clear-image", false, "remove the tile image")
	width := fs.Float64("width", 0, "tile width in mm")
	height := fs.Float64("height", 0, "tile height in mm")
	spacing := fs.Float64("spacing", 0, "grout width in mm")
	grout := fs.String("grout", "", "grout color (#rgb, #rrggbb, rgb(), name)")
	return func(out io.Writer) error {
		id, err := d.wallArg(*wall)
		if err != nil {
			return err
		}
		cfg, err := d.Stores.Walls.Config(id)
		if err != nil {
			return err
		}
		set := setFlags(fs)
		if set["image"] {
			cfg.ImageURL = strings.TrimSpace(*img)
		}
		if *clearImg {
			cfg.ImageURL = ""
		}
		if set["width"] {
			cfg.TileWidth = *width
		}
		if set["height"] {
			cfg.TileHeight = *height
		}
		if set["spacing"] {
			cfg.Spacing = *spacing
		}
		if set["grout"] {
			cfg.GroutColor = strings.TrimSpace(*grout)
		}
		if err := d.Stores.Walls.Set(id, cfg); err != nil {
			return err
		}
		cur, err := d.Stores.Walls.Config(id)
		if err != nil {
			return err
		}
		src := cur.ImageURL
		if src == "" {
			src = "none"
		} else if len(src) > 60 {
			src = src[:57] + "..."
		}
		fmt.Fprintf(out, "%s: %s x %s, spacing %s, grout %s, image %s\n", id,
			units.FormatMM(cur.TileWidth), units.FormatMM(cur.TileHeight),
			units.FormatMM(cur.Spacing), cur.GroutColor, src)
		return nil
	}
}

func (d Deps) selectWall(fs *flag.FlagSet) RunFunc {
	return func(out io.Writer) error {
		if fs.NArg() != 1 {
			return fmt.Errorf("%w: select <front|back|left|right|none>", ErrUsage)
		}
		id, err := room.ParseWall(strings.ToLower(fs.Arg(0)))
		if err != nil {
			return err
		}
		if id == room.None {
			d.Stores.Scene.ClearSelection()
			fmt.Fprintln(out, "selection cleared")
			return nil
		}
		if err := d.Stores.Scene.Select(id); err != nil {
			return err
		}
		fmt.Fprintf(out, "selected %s\n", id)
		return nil
	}
}

func (d Deps) indicator(fs *flag.FlagSet) RunFunc {
	mode := fs.String("mode", "", "boxes or lines")
	dash := fs.Float64("dash", 0, "dash length in meters")
	gap := fs.Float64("gap", 0, "gap length in meters")
	speed := fs.Float64("speed", 0, "animation speed in meters per second")
	return func(out io.Writer) error {
		if d.Indicator == nil {
			return fmt.Errorf("%w: no renderer attached", ErrUsage)
		}
		set := setFlags(fs)
		if set["mode"] {
			m := strings.ToLower(*mode)
			if m != config.IndicatorBoxes && m != config.IndicatorLines {
				return fmt.Errorf("%w: mode %q: want %s or %s", ErrUsage, *mode, config.IndicatorBoxes, config.IndicatorLines)
			}
			d.Indicator.SetIndicatorMode(m)
		}
		if set["dash"] || set["gap"] || set["speed"] {
			_, curDash, curGap, curSpeed := d.Indicator.IndicatorStyle()
			if set["dash"] {
				curDash = float32(*dash)
			}
			if set["gap"] {
				curGap = float32(*gap)
			}
			if set["speed"] {
				curSpeed = float32(*speed)
			}
			if err := config.ValidateIndicator(curDash, curGap, curSpeed); err != nil {
				return fmt.Errorf("%w: %w", ErrUsage, err)
			}
			d.Indicator.SetIndicatorDash(curDash, curGap, curSpeed)
		}
		m, dl, gl, sp := d.Indicator.IndicatorStyle()
		fmt.Fprintf(out, "indicator %s, dash %.2f m, gap %.2f m, speed %.2f m/s\n", m, dl, gl, sp)
		return nil
	}
}

func (d Deps) export(fs *flag.FlagSet) RunFunc {
	outPath := fs.String("out", "", "output PNG path")
	pattern := fs.String("pattern", "", "export this wall's tile pattern instead of the plan")
	return func(out io.Writer) error {
		var (
			img  *image.RGBA
			kind string
		)
		if *pattern != "" {
			id, err := d.wallArg(*pattern)
			if err != nil {
				return err
			}
			p, err := d.wallPattern(id)
			if err != nil {
				return err
			}
			img, kind = p.Image, "pattern-"+string(id)
		} else {
			var phase float32
			if d.Phase != nil {
				phase = d.Phase()
			}
			p, err := texture.PlanView(d.Stores.Room.Dimensions(), d.Stores.Scene.Selected(), float64(phase), d.Plan)
			if err != nil {
				return err
			}
			img, kind = p, "plan"
		}

		path := *outPath
		if path == "" {
			path = filepath.Join(d.ExportDir, fmt.Sprintf("%s-%s.png", kind, d.Now().Format("20060102-150405")))
		}
		if err := writePNGFile(path, img); err != nil {
			return err
		}
		fmt.Fprintf(out, "wrote %s\n", path)
		return nil
	}
}

func (d Deps) wallPattern(id room.WallID) (texture.Pattern, error) {
	cfg, err := d.Stores.Walls.Config(id)
	if err != nil {
		return texture.Pattern{}, err
	}
	var img image.Image
	if cfg.ImageURL != "" && d.Loader != nil {
		ctx, cancel := context.WithTimeout(context.Background(), exportLoadTimeout)
		defer cancel()
		img, err = d.Loader.Load(ctx, cfg.ImageURL)
		if err != nil {
			return texture.Pattern{}, err
		}
	}
	return texture.ForWall(cfg, img, d.Texture)
}

func writePNGFile(path string, img image.Image) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("export: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("export: %w", err)
	}
	if err := texture.WritePNG(f, img); err != nil {
		f.Close()
		_ = os.Remove(path)
		return err
	}
	return f.Close()
}

func (d Deps) reset(fs *flag.FlagSet) RunFunc {
	return func(out io.Writer) error {
		if err := d.Stores.Reset(); err != nil {
			return err
		}
		fmt.Fprintln(out, "reset room, walls and selection")
		return nil
	}
}
