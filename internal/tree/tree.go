// Package tree describes the card's Christmas tree once and renders it as
// SVG markup or as a grid of terminal cells.
package tree

import (
	"fmt"
	"strings"

	"github.com/san-kum/snowfall/internal/svg"
)

// ViewBox is the tree's drawing space.
const (
	ViewWidth  = 200
	ViewHeight = 300
)

type Point struct{ X, Y float64 }

// Polygon is a filled shape in view-box units.
type Polygon struct {
	Class  string
	Fill   string
	Points []Point
}

// Ornament is a bauble.
type Ornament struct {
	CX, CY, R float64
	Fill      string
}

// Rect is an axis-aligned rectangle.
type Rect struct {
	X, Y, W, H float64
}

// Layers are drawn bottom to top.
var Layers = []Polygon{
	{Class: "lower", Fill: "#1B5E20", Points: []Point{{20, 260}, {100, 140}, {180, 260}}},
	{Class: "middle", Fill: "#2E7D32", Points: []Point{{40, 200}, {100, 110}, {160, 200}}},
	{Class: "upper", Fill: "#388E3C", Points: []Point{{60, 160}, {100, 80}, {140, 160}}},
}

var Trunk = Rect{X: 90, Y: 260, W: 20, H: 30}

var Star = Polygon{
	Class: "star",
	Fill:  "#FFD700",
	Points: []Point{
		{100, 60}, {110, 80}, {130, 80}, {115, 90}, {120, 110},
		{100, 100}, {80, 110}, {85, 90}, {70, 80}, {90, 80},
	},
}

// DefaultOrnaments hang in three rows.
func DefaultOrnaments() []Ornament {
	return []Ornament{
		{40, 240, 5, "#FF69B4"},
		{70, 230, 5, "#FFD700"},
		{100, 240, 5, "#800080"},
		{130, 230, 5, "#8B0000"},
		{160, 240, 5, "#7CFC00"},

		{50, 190, 5, "#FFA500"},
		{80, 180, 5, "#FF69B4"},
		{100, 190, 5, "#FFD700"},
		{120, 180, 5, "#800080"},
		{150, 190, 5, "#8B0000"},

		{70, 150, 5, "#FFD700"},
		{100, 120, 5, "#7CFC00"},
		{130, 150, 5, "#FF69B4"},
	}
}

// Tree is a sized tree with its ornaments.
type Tree struct {
	Width     int
	Height    int
	Ornaments []Ornament
}

// New fills zero fields with the default 300x450 size and ornaments.
func New(width, height int, ornaments []Ornament) *Tree {
	if width <= 0 {
		width = 300
	}
	if height <= 0 {
		height = 450
	}
	if ornaments == nil {
		ornaments = DefaultOrnaments()
	}
	return &Tree{Width: width, Height: height, Ornaments: ornaments}
}

func pointsAttr(pts []Point) string {
	parts := make([]string, len(pts))
	for i, p := range pts {
		parts[i] = fmt.Sprintf("%g,%g", p.X, p.Y)
	}
	return strings.Join(parts, " ")
}

const flickerCSS = `
.ornament { animation: flicker 1.5s infinite; }
.star { animation: flickerStar 2s infinite; }
@keyframes flicker { 0%, 100% { opacity: 1; } 50% { opacity: 0.5; } }
@keyframes flickerStar { 0%, 100% { opacity: 1; } 50% { opacity: 0.7; } }
`

// Build assembles the SVG document.
func (t *Tree) Build(b *svg.Builder) (*svg.Element, error) {
	root, err := b.New("svg",
		svg.A("viewBox", fmt.Sprintf("0 0 %d %d", ViewWidth, ViewHeight)),
		svg.A("width", t.Width),
		svg.A("height", t.Height),
		svg.A("xmlns", svg.Namespace),
		svg.A("preserveAspectRatio", "xMidYMid meet"),
	)
	if err != nil {
		return nil, err
	}

	defs, err := t.defs(b)
	if err != nil {
		return nil, err
	}
	root.Append(defs)

	root.Append(b.MustNew("rect",
		svg.A("x", Trunk.X), svg.A("y", Trunk.Y),
		svg.A("width", Trunk.W), svg.A("height", Trunk.H),
		svg.A("fill", "url(#trunkGradientPattern)"),
	))

	for _, layer := range Layers {
		root.Append(b.MustNew("polygon",
			svg.A("points", pointsAttr(layer.Points)),
			svg.A("class", layer.Class),
			svg.A("fill", layer.Fill),
		))
	}

	for _, o := range t.Ornaments {
		root.Append(b.MustNew("circle",
			svg.A("cx", o.CX), svg.A("cy", o.CY), svg.A("r", o.R),
			svg.A("fill", o.Fill),
			svg.A("class", "ornament"),
		))
	}

	root.Append(b.MustNew("polygon",
		svg.A("points", pointsAttr(Star.Points)),
		svg.A("fill", Star.Fill),
		svg.A("stroke", "#DAA520"),
		svg.A("stroke-width", 1),
		svg.A("filter", "url(#glowEffect)"),
		svg.A("class", Star.Class),
	))
	return root, nil
}

func (t *Tree) defs(b *svg.Builder) (*svg.Element, error) {
	stop := func(offset, color string) *svg.Element {
		return b.MustNew("stop", svg.A("offset", offset), svg.A("stop-color", color))
	}

	defs := b.MustNew("defs")
	defs.Append(
		b.MustNew("linearGradient",
			svg.A("id", "gradient1"), svg.A("x1", "0"), svg.A("y1", "0"), svg.A("x2", "1"), svg.A("y2", "1"),
		).Append(stop("0%", "#FF4500"), stop("100%", "#FFD700")),
		b.MustNew("linearGradient",
			svg.A("id", "trunkGradientPattern"), svg.A("x1", "0"), svg.A("y1", "0"), svg.A("x2", "0"), svg.A("y2", "1"),
		).Append(stop("0%", "#8B4513"), stop("50%", "#A0522D"), stop("100%", "#8B4513")),
		b.MustNew("filter",
			svg.A("id", "glowEffect"), svg.A("x", "-50%"), svg.A("y", "-50%"),
			svg.A("width", "200%"), svg.A("height", "200%"),
		).Append(
			b.MustNew("feGaussianBlur", svg.A("in", "SourceGraphic"), svg.A("stdDeviation", "2"), svg.A("result", "blur")),
			b.MustNew("feMerge").Append(
				b.MustNew("feMergeNode", svg.A("in", "blur")),
				b.MustNew("feMergeNode", svg.A("in", "SourceGraphic")),
			),
		),
	)

	style, err := b.New("style")
	if err != nil {
		return nil, err
	}
	style.Text = flickerCSS
	defs.Append(style)
	return defs, nil
}

// Render builds the document and returns it as text with an XML prolog.
func (t *Tree) Render(b *svg.Builder) (string, error) {
	root, err := t.Build(b)
	if err != nil {
		return "", err
	}
	return `<?xml version="1.0" encoding="UTF-8"?>` + "\n" + root.String(), nil
}
