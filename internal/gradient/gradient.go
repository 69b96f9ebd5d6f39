// Package gradient cycles the card background through a fixed palette.
package gradient

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

const (
	DefaultSteps   = 1200
	DefaultOpacity = 0.85
)

// Color is an opaque RGB triple.
type Color struct {
	R, G, B uint8
}

func RGB(r, g, b uint8) Color { return Color{R: r, G: g, B: b} }

// Hex renders the color as #rrggbb.
func (c Color) Hex() string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

// ParseHex reads #rrggbb or rrggbb.
func ParseHex(s string) (Color, error) {
	h := strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(h) != 6 {
		return Color{}, fmt.Errorf("gradient: bad color %q", s)
	}
	v, err := strconv.ParseUint(h, 16, 32)
	if err != nil {
		return Color{}, fmt.Errorf("gradient: bad color %q: %w", s, err)
	}
	return Color{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v)}, nil
}

// RGBA renders the color with the given opacity in CSS notation.
func (c Color) RGBA(alpha float64) string {
	return fmt.Sprintf("rgba(%d, %d, %d, %g)", c.R, c.G, c.B, alpha)
}

// Over composites c with the given opacity on top of bg.
func (c Color) Over(bg Color, alpha float64) Color {
	mix := func(fg, bg uint8) uint8 {
		return uint8(math.Round(float64(fg)*alpha + float64(bg)*(1-alpha)))
	}
	return Color{R: mix(c.R, bg.R), G: mix(c.G, bg.G), B: mix(c.B, bg.B)}
}

// DefaultPalette is the night-sky blue cycle.
func DefaultPalette() []Color {
	return []Color{
		{0, 31, 63},
		{10, 116, 218},
		{29, 158, 238},
		{58, 175, 219},
		{93, 193, 224},
	}
}

// Lerp interpolates each channel independently and rounds to the nearest integer.
func Lerp(a, b Color, f float64) Color {
	ch := func(x, y uint8) uint8 {
		v := math.Round(float64(x) + (float64(y)-float64(x))*f)
		return uint8(math.Max(0, math.Min(255, v)))
	}
	return Color{R: ch(a.R, b.R), G: ch(a.G, b.G), B: ch(a.B, b.B)}
}
