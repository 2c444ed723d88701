package scene

import (
	"image/color"

	rl "github.com/gen2brain/raylib-go/raylib"
	"go.uber.org/zap"

	"tileviz/internal/colors"
	"tileviz/internal/config"
	"tileviz/internal/texture"
	"tileviz/internal/view"
)

// IndicatorOptions styles the selection outline. Lengths are in meters.
type IndicatorOptions struct {
	Mode      string
	Dash      float32
	Gap       float32
	Speed     float32
	Thickness float32
	Offset    float32
	Color     rl.Color
}

// Options configures a Scene.
type Options struct {
	Indicator     IndicatorOptions
	Palette       view.Palette
	Texture       texture.Options
	Sensitivity   float32
	PitchLimit    float32
	DragThreshold float32
}

// OptionsFromConfig converts the config sections the scene uses. Unparseable colors fall
// back to the built-in defaults with a warning.
func OptionsFromConfig(cfg config.Config, log *zap.Logger) Options {
	def := config.Default()
	parse := func(field, value, fallback string) color.RGBA {
		c, err := colors.Parse(value)
		if err == nil {
			return c
		}
		log.Warn("scene: invalid color in config, using default", zap.String("field", field), zap.Error(err))
		return colors.MustParse(fallback)
	}
	tex := texture.DefaultOptions()
	tex.PixelsPerMM = cfg.Texture.PixelsPerMM
	tex.MaxSize = cfg.Texture.MaxSize
	tex.CheckerA = parse("texture.checker_a", cfg.Texture.CheckerA, def.Texture.CheckerA)
	tex.CheckerB = parse("texture.checker_b", cfg.Texture.CheckerB, def.Texture.CheckerB)

	ind := cfg.Indicator
	return Options{
		Indicator: IndicatorOptions{
			Mode:      ind.Mode,
			Dash:      ind.Dash,
			Gap:       ind.Gap,
			Speed:     ind.Speed,
			Thickness: ind.Thickness,
			Offset:    ind.Offset,
			Color:     parse("indicator.color", ind.Color, def.Indicator.Color),
		},
		Palette: view.Palette{
			Hover:    parse("highlight.hover", cfg.Highlight.Hover, def.Highlight.Hover),
			Selected: parse("highlight.selected", cfg.Highlight.Selected, def.Highlight.Selected),
		},
		Texture:       tex,
		Sensitivity:   cfg.Controls.Sensitivity,
		PitchLimit:    cfg.Controls.PitchLimit,
		DragThreshold: cfg.Controls.DragThreshold,
	}
}

// SetIndicatorMode switches between boxes and lines at runtime.
func (s *Scene) SetIndicatorMode(mode string) {
	s.opts.Indicator.Mode = mode
}

// SetIndicatorDash changes dash and gap lengths at runtime.
func (s *Scene) SetIndicatorDash(dash, gap, speed float32) {
	s.opts.Indicator.Dash = dash
	s.opts.Indicator.Gap = gap
	s.opts.Indicator.Speed = speed
}

// IndicatorStyle returns the current indicator mode and dash layout.
func (s *Scene) IndicatorStyle() (mode string, dash, gap, speed float32) {
	o := s.opts.Indicator
	return o.Mode, o.Dash, o.Gap, o.Speed
}
