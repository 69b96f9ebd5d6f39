package snow

import (
	"fmt"
	"math"
	"math/rand"
)

// Shape selects one of the three flake drawings.
type Shape uint8

const (
	ShapeSimple Shape = iota
	ShapeBranched
	ShapeComplex

	shapeCount = 3
)

func (s Shape) String() string {
	switch s {
	case ShapeSimple:
		return "simple"
	case ShapeBranched:
		return "branched"
	case ShapeComplex:
		return "complex"
	}
	return fmt.Sprintf("shape(%d)", uint8(s))
}

// Params holds the ranges flakes are sampled from. Times are milliseconds,
// distances are surface units (pixels or sub-pixels), speeds are units per tick.
type Params struct {
	Count int `yaml:"count"`

	SizeMin    float64 `yaml:"size_min"`
	SizeSpread float64 `yaml:"size_spread"`

	SpeedMin    float64 `yaml:"speed_min"`
	SpeedSpread float64 `yaml:"speed_spread"`

	// WindRange is the width of the symmetric interval target drift is drawn from.
	WindRange      float64 `yaml:"wind_range"`
	WindChangeRate float64 `yaml:"wind_change_rate"`

	FirstGustMin    float64 `yaml:"first_gust_min"`
	FirstGustSpread float64 `yaml:"first_gust_spread"`
	GustMin         float64 `yaml:"gust_min"`
	GustSpread      float64 `yaml:"gust_spread"`
}

func DefaultParams() Params {
	return Params{
		Count:           300,
		SizeMin:         3,
		SizeSpread:      3,
		SpeedMin:        0.5,
		SpeedSpread:     1,
		WindRange:       1.0,
		WindChangeRate:  0.002,
		FirstGustMin:    2000,
		FirstGustSpread: 3000,
		GustMin:         2000,
		GustSpread:      5000,
	}
}

func (p Params) Validate() error {
	if p.Count < 0 {
		return fmt.Errorf("%w: count must be non-negative, got %d", ErrInvalidParams, p.Count)
	}
	if p.SizeMin <= 0 || p.SizeSpread < 0 {
		return fmt.Errorf("%w: size range [%g, +%g)", ErrInvalidParams, p.SizeMin, p.SizeSpread)
	}
	if p.SpeedMin < 0 || p.SpeedSpread < 0 {
		return fmt.Errorf("%w: speed range [%g, +%g)", ErrInvalidParams, p.SpeedMin, p.SpeedSpread)
	}
	if p.WindRange < 0 || p.WindChangeRate < 0 {
		return fmt.Errorf("%w: wind range %g, change rate %g", ErrInvalidParams, p.WindRange, p.WindChangeRate)
	}
	if p.FirstGustMin < 0 || p.FirstGustSpread < 0 || p.GustMin < 0 || p.GustSpread < 0 {
		return fmt.Errorf("%w: gust intervals must be non-negative", ErrInvalidParams)
	}
	for _, v := range []float64{p.SizeMin, p.SizeSpread, p.SpeedMin, p.SpeedSpread, p.WindRange,
		p.WindChangeRate, p.FirstGustMin, p.FirstGustSpread, p.GustMin, p.GustSpread} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("%w: non-finite value", ErrInvalidParams)
		}
	}
	return nil
}

// Particle is one snowflake. It is never destroyed while active, only
// repositioned when it leaves the surface.
type Particle struct {
	X, Y         float64
	Size         float64
	SpeedY       float64
	SpeedX       float64
	TargetSpeedX float64
	WindTimer    float64
	WindInterval float64
	Shape        Shape
}

// spawn initializes a freshly allocated particle.
func (p *Particle) spawn(params Params, w, h float64, rng *rand.Rand) {
	p.Size = rng.Float64()*params.SizeSpread + params.SizeMin
	p.SpeedY = rng.Float64()*params.SpeedSpread + params.SpeedMin
	p.SpeedX = 0
	p.TargetSpeedX = 0
	p.WindTimer = 0
	p.WindInterval = rng.Float64()*params.FirstGustSpread + params.FirstGustMin
	p.Shape = Shape(rng.Intn(shapeCount))
	p.resetPosition(w, h, rng)
}

// resetPosition puts the flake at a random column strictly above the surface.
func (p *Particle) resetPosition(w, h float64, rng *rand.Rand) {
	p.X = rng.Float64() * w
	p.Y = -rng.Float64()*h - p.Size
}

func (p *Particle) update(dt float64, params Params, w, h float64, rng *rand.Rand) {
	p.WindTimer += dt
	if p.WindTimer > p.WindInterval {
		p.TargetSpeedX = (rng.Float64() - 0.5) * params.WindRange
		p.WindTimer = 0
		p.WindInterval = rng.Float64()*params.GustSpread + params.GustMin
	}

	step := params.WindChangeRate * dt
	switch {
	case p.SpeedX < p.TargetSpeedX:
		p.SpeedX = math.Min(p.SpeedX+step, p.TargetSpeedX)
	case p.SpeedX > p.TargetSpeedX:
		p.SpeedX = math.Max(p.SpeedX-step, p.TargetSpeedX)
	}

	p.X += p.SpeedX
	p.Y += p.SpeedY

	if p.Y > h+p.Size {
		p.resetPosition(w, h, rng)
	}

	if p.X > w+p.Size {
		p.X = -p.Size
	} else if p.X < -p.Size {
		p.X = w + p.Size
	}
}

// Visible reports whether any part of the flake can land on a w x h surface.
func (p *Particle) Visible(w, h float64) bool {
	return p.X+p.Size >= 0 && p.X-p.Size <= w && p.Y+p.Size >= 0 && p.Y-p.Size <= h
}
