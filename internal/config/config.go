package config

import (
	"errors"
	"fmt"
	"io/fs"
	"math"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultPath is the config file path, relative to the process working directory.
const DefaultPath = "config/tileviz.yaml"

// MinIndicatorLength is the shortest indicator dash, and the shortest gap other than 0
// (a solid outline), in meters.
const MinIndicatorLength = 0.001

// ErrInvalidIndicator is returned for unusable indicator dash, gap or speed values.
var ErrInvalidIndicator = errors.New("invalid indicator style")

// Indicator modes.
const (
	IndicatorBoxes = "boxes"
	IndicatorLines = "lines"
)

// Config holds application preferences. Room and wall state live in storage, not here.
type Config struct {
	Window    Window    `yaml:"window"`
	Storage   Storage   `yaml:"storage"`
	Log       Log       `yaml:"log"`
	Indicator Indicator `yaml:"indicator"`
	Highlight Highlight `yaml:"highlight"`
	Texture   Texture   `yaml:"texture"`
	Controls  Controls  `yaml:"controls"`
	Downloads Downloads `yaml:"downloads"`
}

// Window sets the initial window.
type Window struct {
	Width     int32  `yaml:"width"`
	Height    int32  `yaml:"height"`
	Title     string `yaml:"title"`
	TargetFPS int32  `yaml:"target_fps"`
	ShowHUD   bool   `yaml:"show_hud"`
	// Font is a TTF/OTF path or a family name searched under assets/fonts; empty uses
	// the raylib default font.
	Font string `yaml:"font,omitempty"`
}

// Storage selects where room, wall and scene records are kept.
type Storage struct {
	Dir    string `yaml:"dir"`
	Prefix string `yaml:"prefix"`
	// PersistInterval throttles scene writes (selection, camera).
	PersistInterval time.Duration `yaml:"persist_interval"`
}

// Log configures the zap logger.
type Log struct {
	Level  string `yaml:"level"`
	File   string `yaml:"file,omitempty"`
	JSON   bool   `yaml:"json"`
	Buffer int    `yaml:"buffer"`
}

// Indicator configures the dashed perimeter drawn around the selected wall.
// Lengths are in meters, Speed in meters per second.
type Indicator struct {
	Mode      string  `yaml:"mode"`
	Dash      float32 `yaml:"dash"`
	Gap       float32 `yaml:"gap"`
	Speed     float32 `yaml:"speed"`
	Thickness float32 `yaml:"thickness"`
	Offset    float32 `yaml:"offset"`
	Color     string  `yaml:"color"`
}

// Highlight holds the emissive tints for hovered and selected walls.
type Highlight struct {
	Hover    string `yaml:"hover"`
	Selected string `yaml:"selected"`
}

// Texture bounds the procedural texture resolution.
type Texture struct {
	PixelsPerMM float64 `yaml:"pixels_per_mm"`
	MaxSize     int     `yaml:"max_size"`
	CheckerA    string  `yaml:"checker_a"`
	CheckerB    string  `yaml:"checker_b"`
}

// Controls tunes the look controls.
type Controls struct {
	Sensitivity   float32 `yaml:"sensitivity"`
	PitchLimit    float32 `yaml:"pitch_limit"`
	DragThreshold float32 `yaml:"drag_threshold"`
}

// Downloads configures remote tile image fetching.
type Downloads struct {
	Dir     string        `yaml:"dir"`
	Timeout time.Duration `yaml:"timeout"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Window: Window{
			Width:     1280,
			Height:    800,
			Title:     "tileviz",
			TargetFPS: 60,
			ShowHUD:   false,
		},
		Storage: Storage{
			Dir:             "data",
			Prefix:          "tileviz.",
			PersistInterval: 500 * time.Millisecond,
		},
		Log: Log{
			Level:  "info",
			File:   "logs/tileviz.log",
			Buffer: 200,
		},
		Indicator: Indicator{
			Mode:      IndicatorBoxes,
			Dash:      0.2,
			Gap:       0.1,
			Speed:     0.25,
			Thickness: 0.03,
			Offset:    0.01,
			Color:     "#ffb000",
		},
		Highlight: Highlight{
			Hover:    "#303030",
			Selected: "#1a3a66",
		},
		Texture: Texture{
			PixelsPerMM: 0.5,
			MaxSize:     1024,
			CheckerA:    "#f2f2f2",
			CheckerB:    "#c8c8c8",
		},
		Controls: Controls{
			Sensitivity:   0.25,
			PitchLimit:    85,
			DragThreshold: 4,
		},
		Downloads: Downloads{
			Dir:     "cache/tiles",
			Timeout: 30 * time.Second,
		},
	}
}

// Load reads the config at path over Default(). A missing file is not an error.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return cfg, fmt.Errorf("config: read %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Default(), fmt.Errorf("config: parse %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return Default(), fmt.Errorf("config: %s: %w", path, err)
	}
	return cfg, nil
}

// Save writes cfg to path, creating the directory if needed.
func Save(path string, cfg Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// ApplyEnv overrides fields from TILEVIZ_* environment variables.
func (c *Config) ApplyEnv(getenv func(string) string) {
	if v := getenv("TILEVIZ_STORAGE_DIR"); v != "" {
		c.Storage.Dir = v
	}
	if v := getenv("TILEVIZ_LOG_LEVEL"); v != "" {
		c.Log.Level = strings.ToLower(v)
	}
	if v := getenv("TILEVIZ_INDICATOR"); v != "" {
		c.Indicator.Mode = strings.ToLower(v)
	}
}

// ValidateIndicator checks an indicator layout: finite values, dash at least
// MinIndicatorLength, gap 0 or at least MinIndicatorLength. Speed may be negative.
func ValidateIndicator(dash, gap, speed float32) error {
	for _, v := range []float32{dash, gap, speed} {
		f := float64(v)
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return fmt.Errorf("%w: dash %g gap %g speed %g", ErrInvalidIndicator, dash, gap, speed)
		}
	}
	if dash < MinIndicatorLength {
		return fmt.Errorf("%w: dash %g m is below %g m", ErrInvalidIndicator, dash, MinIndicatorLength)
	}
	if gap != 0 && gap < MinIndicatorLength {
		return fmt.Errorf("%w: gap %g m must be 0 or at least %g m", ErrInvalidIndicator, gap, MinIndicatorLength)
	}
	return nil
}

// Validate reports settings the app cannot run with.
func (c Config) Validate() error {
	switch c.Indicator.Mode {
	case IndicatorBoxes, IndicatorLines:
	default:
		return fmt.Errorf("indicator mode %q: want %s or %s", c.Indicator.Mode, IndicatorBoxes, IndicatorLines)
	}
	if err := ValidateIndicator(c.Indicator.Dash, c.Indicator.Gap, c.Indicator.Speed); err != nil {
		return err
	}
	if c.Texture.PixelsPerMM <= 0 || c.Texture.MaxSize <= 0 {
		return fmt.Errorf("texture pixels_per_mm %.3g max_size %d", c.Texture.PixelsPerMM, c.Texture.MaxSize)
	}
	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		return fmt.Errorf("window %dx%d", c.Window.Width, c.Window.Height)
	}
	return nil
}
