// Package export writes the card and benchmark runs to files.
package export

import (
	"fmt"
	"io"
	"math"
	"os"
	"strings"

	"github.com/san-kum/snowfall/internal/border"
	"github.com/san-kum/snowfall/internal/gradient"
	"github.com/san-kum/snowfall/internal/snow"
	"github.com/san-kum/snowfall/internal/svg"
	"github.com/san-kum/snowfall/internal/tree"
	"github.com/san-kum/snowfall/internal/viz"
)

const prolog = `<?xml version="1.0" encoding="UTF-8"?>` + "\n"

// TreeSVG writes the standalone tree document.
func TreeSVG(w io.Writer, t *tree.Tree, b *svg.Builder) error {
	doc, err := t.Render(b)
	if err != nil {
		return err
	}
	_, err = io.WriteString(w, doc+"\n")
	return err
}

// Frame is one moment of the card.
type Frame struct {
	Field      *snow.Field
	Background gradient.Color
	Tree       *tree.Tree
	Icons      []border.Point
	IconSize   float64
}

// FrameSVG draws the frame at the field's size: background, border icons,
// the tree resting on the bottom edge and every flake as strokes.
func FrameSVG(b *svg.Builder, f Frame) (*svg.Element, error) {
	w, h := f.Field.Size()
	root, err := b.New("svg",
		svg.A("xmlns", svg.Namespace),
		svg.A("width", w), svg.A("height", h),
		svg.A("viewBox", fmt.Sprintf("0 0 %g %g", w, h)),
	)
	if err != nil {
		return nil, err
	}
	root.Append(b.MustNew("rect", svg.A("width", "100%"), svg.A("height", "100%"), svg.A("fill", f.Background.Hex())))

	if len(f.Icons) > 0 {
		icons := b.MustNew("g", svg.A("class", "border"), svg.A("fill", tree.Layers[1].Fill))
		s := f.IconSize
		for _, p := range f.Icons {
			icons.Append(b.MustNew("polygon", svg.A("points",
				fmt.Sprintf("%g,%g %g,%g %g,%g", p.X+s/2, p.Y, p.X, p.Y+s*0.85, p.X+s, p.Y+s*0.85))))
		}
		root.Append(icons)
	}

	if f.Tree != nil {
		tf := tree.Fit(w, h*0.55, h)
		nested, err := tree.New(int(tf.Len(tree.ViewWidth)), int(tf.Len(tree.ViewHeight)), f.Tree.Ornaments).Build(b)
		if err != nil {
			return nil, err
		}
		root.Append(b.MustNew("g",
			svg.A("transform", fmt.Sprintf("translate(%g,%g)", tf.OffX, tf.OffY)),
		).Append(nested))
	}

	flakes := b.MustNew("g", svg.A("class", "snow"), svg.A("stroke", "#FFFFFF"), svg.A("stroke-linecap", "round"))
	var segs []snow.Segment
	f.Field.Each(func(p *snow.Particle) {
		segs = p.Segments(segs[:0])
		for _, s := range segs {
			flakes.Append(b.MustNew("line",
				svg.A("x1", round(s.X0)), svg.A("y1", round(s.Y0)),
				svg.A("x2", round(s.X1)), svg.A("y2", round(s.Y1)),
			))
		}
	})
	root.Append(flakes)
	return root, nil
}

// Document renders an element with the XML prolog.
func Document(el *svg.Element) string {
	return prolog + el.String()
}

func round(v float64) float64 { return math.Round(v*100) / 100 }

// BrailleSVG converts a Braille canvas to an SVG of dots, scale units per dot.
func BrailleSVG(canvas *viz.Canvas, scale float64, fg, bg string) string {
	if canvas == nil {
		return ""
	}

	width := float64(canvas.Width) * scale * 2
	height := float64(canvas.Height) * scale * 4

	var sb strings.Builder
	sb.WriteString(prolog)
	sb.WriteString(fmt.Sprintf(`<svg xmlns="%s" width="%.0f" height="%.0f" viewBox="0 0 %.0f %.0f">
<rect width="100%%" height="100%%" fill="%s"/>
<g fill="%s">
`, svg.Namespace, width, height, width, height, bg, fg))

	bits := [4][2]int{
		{0x01, 0x08},
		{0x02, 0x10},
		{0x04, 0x20},
		{0x40, 0x80},
	}
	radius := scale * 0.4

	for row := 0; row < canvas.Height; row++ {
		for col := 0; col < canvas.Width; col++ {
			r := canvas.Grid[row][col]
			if r < 0x2800 {
				continue
			}
			pattern := int(r - 0x2800)
			baseX := float64(col) * scale * 2
			baseY := float64(row) * scale * 4

			for dy := 0; dy < 4; dy++ {
				for dx := 0; dx < 2; dx++ {
					if pattern&bits[dy][dx] != 0 {
						cx := baseX + float64(dx)*scale + scale/2
						cy := baseY + float64(dy)*scale + scale/2
						sb.WriteString(fmt.Sprintf("<circle cx=\"%.1f\" cy=\"%.1f\" r=\"%.1f\"/>\n", cx, cy, radius))
					}
				}
			}
		}
	}

	sb.WriteString("</g>\n</svg>\n")
	return sb.String()
}

// WriteSamplesSVG writes the samples plot to path. Nothing is written when
// there are too few samples to draw a line.
func WriteSamplesSVG(path string, times []float64, visible []int, width, height int, stroke string) error {
	doc := SamplesSVG(times, visible, width, height, stroke)
	if doc == "" {
		return fmt.Errorf("samples plot needs at least 2 samples, got %d", min(len(times), len(visible)))
	}
	return os.WriteFile(path, []byte(doc), 0644)
}

// SamplesSVG plots visible flake counts against time in ms.
func SamplesSVG(times []float64, visible []int, width, height int, stroke string) string {
	n := min(len(times), len(visible))
	if n < 2 {
		return ""
	}

	minX, maxX := times[0], times[n-1]
	minY, maxY := float64(visible[0]), float64(visible[0])
	for _, v := range visible[:n] {
		minY = min(minY, float64(v))
		maxY = max(maxY, float64(v))
	}

	rangeX := maxX - minX
	rangeY := maxY - minY
	if rangeX == 0 {
		rangeX = 1
	}
	if rangeY == 0 {
		rangeY = 1
	}
	minY -= rangeY * 0.1
	rangeY *= 1.2

	var sb strings.Builder
	sb.WriteString(prolog)
	sb.WriteString(fmt.Sprintf(`<svg xmlns="%s" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
<path fill="none" stroke="%s" stroke-width="1.5" d="M`,
		svg.Namespace, width, height, width, height, stroke))

	for i := 0; i < n; i++ {
		x := (times[i] - minX) / rangeX * float64(width)
		y := float64(height) - (float64(visible[i])-minY)/rangeY*float64(height)
		if i == 0 {
			sb.WriteString(fmt.Sprintf("%.1f,%.1f", x, y))
		} else {
			sb.WriteString(fmt.Sprintf(" L%.1f,%.1f", x, y))
		}
	}

	sb.WriteString("\"/>\n</svg>\n")
	return sb.String()
}
