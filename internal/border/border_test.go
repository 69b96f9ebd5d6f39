package border

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLayoutCounts(t *testing.T) {
	cfg := DefaultConfig()

	// 1000x600: spacing 50, nTB = ceil(976/50) = 20, nLR = ceil(576/50) = 12
	pts := Layout(cfg, 1000, 600)
	assert.Len(t, pts, 2*18+2*10+4)
}

func TestLayoutCorners(t *testing.T) {
	cfg := DefaultConfig()
	pts := Layout(cfg, 400, 300)
	require.GreaterOrEqual(t, len(pts), 4)

	corners := pts[len(pts)-4:]
	assert.Equal(t, Point{12, 12}, corners[0])
	assert.Equal(t, Point{368, 12}, corners[1])
	assert.Equal(t, Point{12, 268}, corners[2])
	assert.Equal(t, Point{368, 268}, corners[3])
}

func TestLayoutEdgesStayInside(t *testing.T) {
	cfg := Config{Size: 1, Density: 3, Padding: 0}
	w, h := 80.0, 24.0
	for _, p := range Layout(cfg, w, h) {
		assert.GreaterOrEqual(t, p.X, 0.0)
		assert.LessOrEqual(t, p.X, w-cfg.Size)
		assert.GreaterOrEqual(t, p.Y, 0.0)
		assert.LessOrEqual(t, p.Y, h-cfg.Size)
	}
}

func TestLayoutSmallContainerOnlyCorners(t *testing.T) {
	pts := Layout(DefaultConfig(), 60, 60)
	assert.Len(t, pts, 4)
}

func TestLayoutDegenerate(t *testing.T) {
	assert.Nil(t, Layout(DefaultConfig(), 0, 100))
	assert.Nil(t, Layout(Config{Size: 0, Density: 1}, 100, 100))
}
