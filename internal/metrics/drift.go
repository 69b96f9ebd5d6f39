package metrics

import (
	"math"

	"github.com/san-kum/snowfall/internal/snow"
)

// Drift is the mean horizontal speed magnitude over all flakes and steps.
type Drift struct {
	total   float64
	samples int
}

func NewDrift() *Drift { return &Drift{} }

func (d *Drift) Name() string { return "mean_drift" }

func (d *Drift) Observe(f *snow.Field, t float64) {
	f.Each(func(p *snow.Particle) {
		d.total += math.Abs(p.SpeedX)
		d.samples++
	})
}

func (d *Drift) Value() float64 {
	if d.samples == 0 {
		return 0
	}
	return d.total / float64(d.samples)
}

func (d *Drift) Reset() {
	d.total = 0
	d.samples = 0
}

// MaxDrift is the largest horizontal speed seen. Gusts never push it past
// half the wind range.
type MaxDrift struct {
	max float64
}

func NewMaxDrift() *MaxDrift { return &MaxDrift{} }

func (m *MaxDrift) Name() string { return "max_drift" }

func (m *MaxDrift) Observe(f *snow.Field, t float64) {
	f.Each(func(p *snow.Particle) {
		m.max = math.Max(m.max, math.Abs(p.SpeedX))
	})
}

func (m *MaxDrift) Value() float64 { return m.max }
func (m *MaxDrift) Reset()         { m.max = 0 }
