package snow

import (
	"math"
	"testing"
)

func TestShapeArms(t *testing.T) {
	tests := []struct {
		shape    Shape
		arms     int
		segments int
	}{
		{ShapeSimple, 6, 6},
		{ShapeBranched, 8, 24},
		{ShapeComplex, 12, 36},
	}

	for _, tt := range tests {
		t.Run(tt.shape.String(), func(t *testing.T) {
			if got := tt.shape.Arms(); got != tt.arms {
				t.Errorf("Arms() = %d, want %d", got, tt.arms)
			}
			if got := len(tt.shape.Segments()); got != tt.segments {
				t.Errorf("len(Segments()) = %d, want %d", got, tt.segments)
			}
		})
	}
}

func TestShapeSegmentsWithinArm(t *testing.T) {
	for s := Shape(0); s < shapeCount; s++ {
		for _, seg := range s.Segments() {
			for _, r := range []float64{math.Hypot(seg.X0, seg.Y0), math.Hypot(seg.X1, seg.Y1)} {
				if r > math.Hypot(2, ArmLength)+1e-9 {
					t.Errorf("%s: point at radius %.3f outside flake", s, r)
				}
			}
		}
	}
}

func TestParticleSegmentsScaled(t *testing.T) {
	p := Particle{X: 10, Y: 20, Size: 2.5, Shape: ShapeSimple}
	segs := p.Segments(nil)

	if len(segs) != 6 {
		t.Fatalf("expected 6 segments, got %d", len(segs))
	}
	first := segs[0]
	if first.X0 != 10 || first.Y0 != 20 {
		t.Errorf("arm must start at center, got (%.2f, %.2f)", first.X0, first.Y0)
	}
	if math.Abs(first.X1-10) > 1e-9 || math.Abs(first.Y1-17.5) > 1e-9 {
		t.Errorf("first arm tip expected (10, 17.5), got (%.3f, %.3f)", first.X1, first.Y1)
	}
}

func TestUnknownShape(t *testing.T) {
	s := Shape(7)
	if s.Segments() != nil || s.Arms() != 0 {
		t.Error("unknown shape must have no geometry")
	}
	if s.String() != "shape(7)" {
		t.Errorf("unexpected name %q", s.String())
	}
}
