package gui

import (
	"math"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/san-kum/snowfall/internal/snow"
	"github.com/san-kum/snowfall/internal/tree"
)

func vec(p tree.Point) rl.Vector2 {
	return rl.NewVector2(float32(p.X), float32(p.Y))
}

func (a *App) drawFlake(p *snow.Particle) {
	a.segs = p.Segments(a.segs[:0])
	for _, s := range a.segs {
		rl.DrawLineV(
			rl.NewVector2(float32(s.X0), float32(s.Y0)),
			rl.NewVector2(float32(s.X1), float32(s.Y1)),
			ColSnow,
		)
	}
}

// triangle draws with raylib's counter-clockwise winding whatever the input order.
func triangle(p0, p1, p2 tree.Point, c rl.Color) {
	cross := (p1.X-p0.X)*(p2.Y-p0.Y) - (p1.Y-p0.Y)*(p2.X-p0.X)
	if cross > 0 {
		p1, p2 = p2, p1
	}
	rl.DrawTriangle(vec(p0), vec(p1), vec(p2), c)
}

// drawTree places the tree in the lower part of the window, above the bottom border.
func (a *App) drawTree() {
	w, h := float64(rl.GetScreenWidth()), float64(rl.GetScreenHeight())
	bottom := h - a.Card.Border.Size - 2*a.Card.Border.Padding
	tf := tree.Fit(w, h*0.55, bottom)
	if tf.Scale <= 0 {
		return
	}

	tl := tf.Apply(tree.Point{X: tree.Trunk.X, Y: tree.Trunk.Y})
	rl.DrawRectangleGradientV(int32(tl.X), int32(tl.Y),
		int32(tf.Len(tree.Trunk.W)), int32(tf.Len(tree.Trunk.H)), ColTrunkHi, ColTrunkLo)

	for _, layer := range tree.Layers {
		p := layer.Points
		triangle(tf.Apply(p[0]), tf.Apply(p[1]), tf.Apply(p[2]), hexRL(layer.Fill))
	}

	// ornaments flicker on a 1.5s cycle
	t := rl.GetTime()
	blink := float32(0.75 + 0.25*math.Cos(2*math.Pi*t/1.5))
	for _, o := range a.Tree.Ornaments {
		c := tf.Apply(tree.Point{X: o.CX, Y: o.CY})
		rl.DrawCircleV(vec(c), float32(tf.Len(o.R)), rl.ColorAlpha(hexRL(o.Fill), blink))
	}

	a.drawStar(tf)
}

// drawStar fans the star polygon out from its center and glows with the bell.
func (a *App) drawStar(tf tree.Transform) {
	pts := tree.Star.Points
	var cx, cy float64
	for _, p := range pts {
		cx += p.X
		cy += p.Y
	}
	center := tf.Apply(tree.Point{X: cx / float64(len(pts)), Y: cy / float64(len(pts))})

	glow := 0.3
	if a.Bell != nil {
		glow += a.Bell.Level()
	}
	rl.DrawCircleV(vec(center), float32(tf.Len(28)), rl.ColorAlpha(rl.Gold, float32(math.Min(glow, 1)*0.35)))

	fill := hexRL(tree.Star.Fill)
	for i := range pts {
		triangle(center, tf.Apply(pts[i]), tf.Apply(pts[(i+1)%len(pts)]), fill)
	}
}

// drawBorder draws one small tree per icon slot.
func (a *App) drawBorder() {
	size := a.Card.Border.Size
	green := hexRL(tree.Layers[1].Fill)
	for _, p := range a.Card.BorderIcons() {
		triangle(
			tree.Point{X: p.X + size/2, Y: p.Y},
			tree.Point{X: p.X, Y: p.Y + size*0.85},
			tree.Point{X: p.X + size, Y: p.Y + size*0.85},
			green,
		)
		rl.DrawRectangle(int32(p.X+size*0.42), int32(p.Y+size*0.85), int32(math.Max(size*0.16, 1)), int32(math.Max(size*0.15, 1)), ColTrunkLo)
	}
}
