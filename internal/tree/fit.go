package tree

// Transform maps view-box units onto a target surface.
type Transform struct {
	Scale float64
	OffX  float64
	OffY  float64
}

// Fit scales the tree's crop to height h and centers it horizontally on a
// surface of width w, resting on the bottom edge.
func Fit(w, h, bottom float64) Transform {
	cw, ch := crop.x1-crop.x0, crop.y1-crop.y0
	if w <= 0 || h <= 0 {
		return Transform{}
	}
	s := h / ch
	if cw*s > w {
		s = w / cw
	}
	return Transform{
		Scale: s,
		OffX:  (w-cw*s)/2 - crop.x0*s,
		OffY:  bottom - ch*s - crop.y0*s,
	}
}

func (t Transform) Apply(p Point) Point {
	return Point{p.X*t.Scale + t.OffX, p.Y*t.Scale + t.OffY}
}

func (t Transform) Len(v float64) float64 { return v * t.Scale }
