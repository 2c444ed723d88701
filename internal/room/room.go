// Package room defines the room model shared by the stores, geometry and renderer.
package room

import (
	"errors"
	"fmt"
	"math"

	"tileviz/internal/colors"
)

// SurfaceID names one of the six room surfaces.
type SurfaceID string

// WallID is a SurfaceID that accepts tile configuration.
type WallID = SurfaceID

const (
	Front   SurfaceID = "front"
	Back    SurfaceID = "back"
	Left    SurfaceID = "left"
	Right   SurfaceID = "right"
	Ceiling SurfaceID = "ceiling"
	Floor   SurfaceID = "floor"

	// None is the empty selection/hover.
	None SurfaceID = ""
)

// Walls lists the editable walls in a stable order.
var Walls = []WallID{Front, Back, Left, Right}

// Editable reports whether id accepts tile configuration.
func (id SurfaceID) Editable() bool {
	switch id {
	case Front, Back, Left, Right:
		return true
	}
	return false
}

// ParseWall converts user input to a WallID. "none" and "" map to None.
func ParseWall(s string) (WallID, error) {
	id := SurfaceID(s)
	if s == "" || s == "none" {
		return None, nil
	}
	if !id.Editable() {
		return None, fmt.Errorf("%w: %q", ErrUnknownWall, s)
	}
	return id, nil
}

var (
	ErrUnknownWall      = errors.New("unknown wall")
	ErrInvalidDimension = errors.New("invalid room dimension")
	ErrInvalidTile      = errors.New("invalid tile config")
)

// Dimensions are the room's interior sizes in meters.
type Dimensions struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
	Length float64 `json:"length"`
}

// DefaultDimensions is the room every fresh store starts with.
func DefaultDimensions() Dimensions {
	return Dimensions{Width: 4, Height: 2.5, Length: 5}
}

// Validate checks every side is positive and finite.
func (d Dimensions) Validate() error {
	for _, v := range []struct {
		name string
		val  float64
	}{{"width", d.Width}, {"height", d.Height}, {"length", d.Length}} {
		if err := ValidateLength(v.val); err != nil {
			return fmt.Errorf("%s: %w", v.name, err)
		}
	}
	return nil
}

// ValidateLength checks one room side.
func ValidateLength(v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) || v <= 0 {
		return fmt.Errorf("%w: %v", ErrInvalidDimension, v)
	}
	return nil
}

// TileConfig describes how one wall is tiled. Sizes are millimeters.
type TileConfig struct {
	ImageURL   string  `json:"imageUrl"`
	TileWidth  float64 `json:"tileWidth"`
	TileHeight float64 `json:"tileHeight"`
	Spacing    float64 `json:"spacing"`
	GroutColor string  `json:"groutColor"`
}

// DefaultTileConfig returns the config a wall has before the user touches it.
func DefaultTileConfig() TileConfig {
	return TileConfig{
		TileWidth:  300,
		TileHeight: 300,
		Spacing:    3,
		GroutColor: "#d8d8d8",
	}
}

// Validate checks sizes and the grout color.
func (c TileConfig) Validate() error {
	if !positive(c.TileWidth) || !positive(c.TileHeight) {
		return fmt.Errorf("%w: tile size %vx%v", ErrInvalidTile, c.TileWidth, c.TileHeight)
	}
	if math.IsNaN(c.Spacing) || math.IsInf(c.Spacing, 0) || c.Spacing < 0 {
		return fmt.Errorf("%w: spacing %v", ErrInvalidTile, c.Spacing)
	}
	if _, err := colors.Parse(c.GroutColor); err != nil {
		return fmt.Errorf("%w: grout: %w", ErrInvalidTile, err)
	}
	return nil
}

func positive(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0) && v > 0
}
