// Package colors parses the CSS color strings used for grout and highlight settings.
package colors

import (
	"errors"
	"fmt"
	"image/color"
	"io"
	"strconv"
	"strings"

	"github.com/tdewolff/parse/v2"
	"github.com/tdewolff/parse/v2/css"
)

// ErrInvalidColor is returned for strings that are not a supported CSS color.
var ErrInvalidColor = errors.New("invalid color")

var named = map[string]color.RGBA{
	"black":     {0, 0, 0, 255},
	"white":     {255, 255, 255, 255},
	"gray":      {128, 128, 128, 255},
	"grey":      {128, 128, 128, 255},
	"lightgray": {211, 211, 211, 255},
	"lightgrey": {211, 211, 211, 255},
	"darkgray":  {169, 169, 169, 255},
	"darkgrey":  {169, 169, 169, 255},
	"silver":    {192, 192, 192, 255},
	"beige":     {245, 245, 220, 255},
	"ivory":     {255, 255, 240, 255},
	"red":       {255, 0, 0, 255},
	"green":     {0, 128, 0, 255},
	"blue":      {0, 0, 255, 255},
	"navy":      {0, 0, 128, 255},
	"tan":       {210, 180, 140, 255},
}

// Parse accepts #rgb, #rrggbb, #rrggbbaa, rgb(r, g, b), rgba(r, g, b, a) and a few names.
func Parse(s string) (color.RGBA, error) {
	l := css.NewLexer(parse.NewInputString(strings.TrimSpace(s)))
	var tokens []token
	for {
		tt, data := l.Next()
		if tt == css.ErrorToken {
			if l.Err() != io.EOF {
				return color.RGBA{}, fmt.Errorf("%w %q: %v", ErrInvalidColor, s, l.Err())
			}
			break
		}
		if tt == css.WhitespaceToken || tt == css.CommaToken {
			continue
		}
		tokens = append(tokens, token{tt, string(data)})
	}
	if len(tokens) == 0 {
		return color.RGBA{}, fmt.Errorf("%w: empty", ErrInvalidColor)
	}
	first := tokens[0]
	switch first.tt {
	case css.HashToken:
		if len(tokens) != 1 {
			break
		}
		if c, ok := parseHex(first.data[1:]); ok {
			return c, nil
		}
	case css.IdentToken:
		if len(tokens) != 1 {
			break
		}
		if c, ok := named[strings.ToLower(first.data)]; ok {
			return c, nil
		}
	case css.FunctionToken:
		name := strings.ToLower(strings.TrimSuffix(first.data, "("))
		if name == "rgb" || name == "rgba" {
			if c, ok := parseRGBFunc(tokens[1:]); ok {
				return c, nil
			}
		}
	}
	return color.RGBA{}, fmt.Errorf("%w %q", ErrInvalidColor, s)
}

// MustParse is Parse for compile-time constants; it panics on error.
func MustParse(s string) color.RGBA {
	c, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return c
}

// Hex formats c as #rrggbb, or #rrggbbaa when not opaque.
func Hex(c color.RGBA) string {
	if c.A == 255 {
		return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
	}
	return fmt.Sprintf("#%02x%02x%02x%02x", c.R, c.G, c.B, c.A)
}

type token struct {
	tt   css.TokenType
	data string
}

func parseHex(hex string) (color.RGBA, bool) {
	switch len(hex) {
	case 3, 4:
		var v [4]uint8
		v[3] = 255
		for i := 0; i < len(hex); i++ {
			n, err := strconv.ParseUint(hex[i:i+1], 16, 8)
			if err != nil {
				return color.RGBA{}, false
			}
			v[i] = uint8(n * 17)
		}
		return color.RGBA{v[0], v[1], v[2], v[3]}, true
	case 6, 8:
		var v [4]uint8
		v[3] = 255
		for i := 0; i*2 < len(hex); i++ {
			n, err := strconv.ParseUint(hex[i*2:i*2+2], 16, 8)
			if err != nil {
				return color.RGBA{}, false
			}
			v[i] = uint8(n)
		}
		return color.RGBA{v[0], v[1], v[2], v[3]}, true
	}
	return color.RGBA{}, false
}

// parseRGBFunc reads the arguments of rgb()/rgba() up to the closing parenthesis.
func parseRGBFunc(args []token) (color.RGBA, bool) {
	if len(args) == 0 || args[len(args)-1].tt != css.RightParenthesisToken {
		return color.RGBA{}, false
	}
	args = args[:len(args)-1]
	if len(args) != 3 && len(args) != 4 {
		return color.RGBA{}, false
	}
	var v [4]uint8
	v[3] = 255
	for i, a := range args {
		var f float64
		var err error
		switch a.tt {
		case css.NumberToken:
			f, err = strconv.ParseFloat(a.data, 64)
			if i == 3 {
				f *= 255
			}
		case css.PercentageToken:
			f, err = strconv.ParseFloat(strings.TrimSuffix(a.data, "%"), 64)
			f = f / 100 * 255
		default:
			return color.RGBA{}, false
		}
		if err != nil || f < 0 || f > 255 {
			return color.RGBA{}, false
		}
		v[i] = uint8(f + 0.5)
	}
	return color.RGBA{v[0], v[1], v[2], v[3]}, true
}
