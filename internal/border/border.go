// Package border lays out the frame of small tree icons around the card.
package border

import "math"

// Config sizes the icons in surface units (pixels in a window, cells in a terminal).
type Config struct {
	Size    float64 `yaml:"size"`
	Density float64 `yaml:"density"`
	Padding float64 `yaml:"padding"`
}

func DefaultConfig() Config {
	return Config{Size: 20, Density: 2.5, Padding: 12}
}

// Point is the top-left corner of one icon.
type Point struct {
	X, Y float64
}

// Layout places icons along the four edges of a width x height container.
// Edge runs skip their first and last slot; the four corners are placed once.
func Layout(cfg Config, width, height float64) []Point {
	if cfg.Size <= 0 || cfg.Density <= 0 || width <= 0 || height <= 0 {
		return nil
	}
	spacing := cfg.Size * cfg.Density
	top, left := cfg.Padding, cfg.Padding
	right := width - cfg.Padding - cfg.Size
	bottom := height - cfg.Padding - cfg.Size

	nTB := int(math.Ceil((width - 2*cfg.Padding) / spacing))
	nLR := int(math.Ceil((height - 2*cfg.Padding) / spacing))

	pts := make([]Point, 0, 2*max(nTB, 0)+2*max(nLR, 0)+4)
	for i := 1; i < nTB-1; i++ {
		x := cfg.Padding + float64(i)*spacing
		pts = append(pts, Point{x, top}, Point{x, bottom})
	}
	for i := 1; i < nLR-1; i++ {
		y := cfg.Padding + float64(i)*spacing
		pts = append(pts, Point{left, y}, Point{right, y})
	}

	return append(pts,
		Point{left, top},
		Point{right, top},
		Point{left, bottom},
		Point{right, bottom},
	)
}
