package screen

import (
	"math"
	"testing"
)

func TestDiagonal(t *testing.T) {
	c := NewChecker(0)
	tests := []struct {
		w, h int
		want float64
	}{
		{1920, 1080, 2202.91},
		{1366, 768, 1560.84},
		{800, 600, 1000},
		{300, 400, 500},
		{0, 0, 0},
	}
	for _, tt := range tests {
		if got := c.Diagonal(tt.w, tt.h); math.Abs(got-tt.want) > 1e-9 {
			t.Errorf("Diagonal(%d, %d) = %.2f, want %.2f", tt.w, tt.h, got, tt.want)
		}
	}
}

func TestTooSmall(t *testing.T) {
	c := NewChecker(DefaultThreshold)
	if !c.TooSmall(300, 400) {
		t.Error("500px diagonal must be too small")
	}
	if c.TooSmall(360, 480) {
		t.Error("600px diagonal is exactly the threshold and must pass")
	}
	if c.TooSmall(1280, 720) {
		t.Error("720p must pass")
	}
}

func TestTooSmallCells(t *testing.T) {
	c := NewChecker(DefaultThreshold)
	if c.TooSmallCells(80, 24) {
		t.Error("80x24 terminal (640x384 px) must pass")
	}
	if !c.TooSmallCells(40, 12) {
		t.Error("40x12 terminal must be too small")
	}
}
