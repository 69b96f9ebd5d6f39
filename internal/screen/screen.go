// Package screen decides whether a display is too small for the card.
package screen

import (
	"fmt"
	"math"
)

// DefaultThreshold is the smallest diagonal, in pixels, the card is laid out for.
const DefaultThreshold = 600.0

// Terminal cells are converted to pixels with this nominal cell size.
const (
	CellWidth  = 8
	CellHeight = 16
)

// Checker compares a display's diagonal against a threshold.
type Checker struct {
	Threshold float64
	known     map[string]float64
}

func NewChecker(threshold float64) *Checker {
	if threshold <= 0 {
		threshold = DefaultThreshold
	}
	return &Checker{
		Threshold: threshold,
		known: map[string]float64{
			"1920x1080": 2202.91,
			"1366x768":  1560.84,
			"1280x720":  1468.68,
			"1024x768":  1280,
			"800x600":   1000,
		},
	}
}

// Diagonal returns the tabulated diagonal for common resolutions and the
// Pythagorean one otherwise.
func (c *Checker) Diagonal(width, height int) float64 {
	if d, ok := c.known[fmt.Sprintf("%dx%d", width, height)]; ok {
		return d
	}
	return math.Hypot(float64(width), float64(height))
}

// TooSmall reports whether the display falls below the threshold.
func (c *Checker) TooSmall(width, height int) bool {
	return c.Diagonal(width, height) < c.Threshold
}

// TooSmallCells is TooSmall for a terminal measured in cells.
func (c *Checker) TooSmallCells(cols, rows int) bool {
	return c.TooSmall(cols*CellWidth, rows*CellHeight)
}
