// Package metrics measures a running snow field for headless benchmarks.
package metrics

import "github.com/san-kum/snowfall/internal/snow"

// Coverage is the mean fraction of active flakes that overlap the surface.
type Coverage struct {
	total   float64
	samples int
}

func NewCoverage() *Coverage { return &Coverage{} }

func (c *Coverage) Name() string { return "coverage" }

func (c *Coverage) Observe(f *snow.Field, t float64) {
	if f.Len() == 0 {
		return
	}
	w, h := f.Size()
	visible := 0
	f.Each(func(p *snow.Particle) {
		if p.Visible(w, h) {
			visible++
		}
	})
	c.total += float64(visible) / float64(f.Len())
	c.samples++
}

func (c *Coverage) Value() float64 {
	if c.samples == 0 {
		return 0
	}
	return c.total / float64(c.samples)
}

func (c *Coverage) Reset() {
	c.total = 0
	c.samples = 0
}

// Respawns counts flakes that sank below the surface and re-entered above it.
type Respawns struct {
	lastY []float64
	count int
}

func NewRespawns() *Respawns { return &Respawns{} }

func (r *Respawns) Name() string { return "respawns" }

func (r *Respawns) Observe(f *snow.Field, t float64) {
	i := 0
	f.Each(func(p *snow.Particle) {
		if i < len(r.lastY) {
			if p.Y < r.lastY[i] {
				r.count++
			}
			r.lastY[i] = p.Y
		} else {
			r.lastY = append(r.lastY, p.Y)
		}
		i++
	})
	r.lastY = r.lastY[:i]
}

func (r *Respawns) Value() float64 { return float64(r.count) }

func (r *Respawns) Reset() {
	r.lastY = r.lastY[:0]
	r.count = 0
}
