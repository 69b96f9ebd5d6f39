package snow

import "math"

// ArmLength is the length of a flake arm in local units, before scaling by Size/ArmLength.
const ArmLength = 5.0

// Segment is a straight stroke from (X0, Y0) to (X1, Y1).
type Segment struct {
	X0, Y0, X1, Y1 float64
}

var shapeSegments [shapeCount][]Segment

func init() {
	shapeSegments[ShapeSimple] = radial(6, []Segment{
		{0, 0, 0, -ArmLength},
	})
	shapeSegments[ShapeBranched] = radial(8, []Segment{
		{0, 0, 0, -ArmLength},
		{0, -3, 2, -5},
		{0, -3, -2, -5},
	})
	shapeSegments[ShapeComplex] = radial(12, []Segment{
		{0, 0, 0, -ArmLength},
		{0, -2, 2, -3},
		{2, -3, -2, -3},
	})
}

// radial repeats one arm n times around the origin.
func radial(n int, arm []Segment) []Segment {
	out := make([]Segment, 0, n*len(arm))
	for k := 0; k < n; k++ {
		a := 2 * math.Pi * float64(k) / float64(n)
		sin, cos := math.Sincos(a)
		for _, s := range arm {
			out = append(out, Segment{
				X0: s.X0*cos - s.Y0*sin,
				Y0: s.X0*sin + s.Y0*cos,
				X1: s.X1*cos - s.Y1*sin,
				Y1: s.X1*sin + s.Y1*cos,
			})
		}
	}
	return out
}

// Arms is the number of radiating arms of the shape.
func (s Shape) Arms() int {
	switch s {
	case ShapeSimple:
		return 6
	case ShapeBranched:
		return 8
	case ShapeComplex:
		return 12
	}
	return 0
}

// Segments returns the shape in local units. The slice is shared; do not modify it.
func (s Shape) Segments() []Segment {
	if int(s) >= shapeCount {
		return nil
	}
	return shapeSegments[s]
}

// Segments appends the flake's strokes in surface coordinates to dst.
func (p *Particle) Segments(dst []Segment) []Segment {
	k := p.Size / ArmLength
	for _, s := range p.Shape.Segments() {
		dst = append(dst, Segment{
			X0: p.X + s.X0*k,
			Y0: p.Y + s.Y0*k,
			X1: p.X + s.X1*k,
			Y1: p.Y + s.Y1*k,
		})
	}
	return dst
}
