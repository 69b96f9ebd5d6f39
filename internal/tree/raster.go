package tree

import "math"

// Cell is one character of a rasterized tree. Empty cells have Rune 0.
type Cell struct {
	Rune  rune
	Color string
}

// crop is the part of the view box the tree occupies.
var crop = struct{ x0, y0, x1, y1 float64 }{15, 55, 185, 295}

// Rasterize samples the tree into a rows x cols grid of cells.
func (t *Tree) Rasterize(cols, rows int) [][]Cell {
	if cols <= 0 || rows <= 0 {
		return nil
	}
	grid := make([][]Cell, rows)
	for r := range grid {
		grid[r] = make([]Cell, cols)
	}

	sx := (crop.x1 - crop.x0) / float64(cols)
	sy := (crop.y1 - crop.y0) / float64(rows)
	toView := func(c, r int) Point {
		return Point{crop.x0 + (float64(c)+0.5)*sx, crop.y0 + (float64(r)+0.5)*sy}
	}
	toCell := func(p Point) (int, int, bool) {
		c := int(math.Floor((p.X - crop.x0) / sx))
		r := int(math.Floor((p.Y - crop.y0) / sy))
		return c, r, c >= 0 && c < cols && r >= 0 && r < rows
	}

	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			p := toView(c, r)
			for _, layer := range Layers {
				if contains(layer.Points, p) {
					grid[r][c] = Cell{Rune: '^', Color: layer.Fill}
				}
			}
			if p.X >= Trunk.X && p.X <= Trunk.X+Trunk.W && p.Y >= Trunk.Y && p.Y <= Trunk.Y+Trunk.H {
				grid[r][c] = Cell{Rune: '#', Color: "#8B4513"}
			}
		}
	}

	for _, o := range t.Ornaments {
		if c, r, ok := toCell(Point{o.CX, o.CY}); ok {
			grid[r][c] = Cell{Rune: 'o', Color: o.Fill}
		}
	}

	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			if contains(Star.Points, toView(c, r)) {
				grid[r][c] = Cell{Rune: '*', Color: Star.Fill}
			}
		}
	}
	if c, r, ok := toCell(Point{100, 90}); ok {
		grid[r][c] = Cell{Rune: '*', Color: Star.Fill}
	}
	return grid
}

// contains is the even-odd ray casting test.
func contains(poly []Point, p Point) bool {
	in := false
	for i, j := 0, len(poly)-1; i < len(poly); j, i = i, i+1 {
		a, b := poly[i], poly[j]
		if (a.Y > p.Y) != (b.Y > p.Y) &&
			p.X < (b.X-a.X)*(p.Y-a.Y)/(b.Y-a.Y)+a.X {
			in = !in
		}
	}
	return in
}
