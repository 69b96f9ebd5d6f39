package snow

import (
	"fmt"
	"math"
	"math/rand"
)

// Field is the live set of flakes falling over a surface.
type Field struct {
	params Params
	width  float64
	height float64
	rng    *rand.Rand
	pool   *Pool
	active []int
}

// NewField fills a surface with params.Count flakes, all taken from a new
// (empty) pool and placed above the visible area.
func NewField(params Params, width, height float64, rng *rand.Rand) (*Field, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	if err := validateSurface(width, height); err != nil {
		return nil, err
	}
	if rng == nil {
		rng = rand.New(rand.NewSource(1))
	}

	f := &Field{
		params: params,
		width:  width,
		height: height,
		rng:    rng,
		pool:   NewPool(params.Count),
		active: make([]int, 0, params.Count),
	}
	f.Fill(params.Count)
	return f, nil
}

func validateSurface(w, h float64) error {
	if !(w > 0) || !(h > 0) || math.IsInf(w, 0) || math.IsInf(h, 0) {
		return fmt.Errorf("%w: %gx%g", ErrInvalidSurface, w, h)
	}
	return nil
}

// Fill activates n more flakes, reusing pooled ones first.
func (f *Field) Fill(n int) {
	for i := 0; i < n; i++ {
		idx, fresh := f.pool.Acquire()
		p := f.pool.At(idx)
		if fresh {
			p.spawn(f.params, f.width, f.height, f.rng)
		} else {
			p.resetPosition(f.width, f.height, f.rng)
		}
		f.active = append(f.active, idx)
	}
}

// Update advances every active flake by dt milliseconds. Negative or
// non-finite dt counts as zero.
func (f *Field) Update(dt float64) {
	if !(dt > 0) || math.IsInf(dt, 0) {
		dt = 0
	}
	for _, idx := range f.active {
		f.pool.At(idx).update(dt, f.params, f.width, f.height, f.rng)
	}
}

// Tick updates each flake and hands it to draw, in order. draw may be nil.
func (f *Field) Tick(dt float64, draw func(*Particle)) {
	if !(dt > 0) || math.IsInf(dt, 0) {
		dt = 0
	}
	for _, idx := range f.active {
		p := f.pool.At(idx)
		p.update(dt, f.params, f.width, f.height, f.rng)
		if draw != nil {
			draw(p)
		}
	}
}

func (f *Field) Each(fn func(*Particle)) {
	for _, idx := range f.active {
		fn(f.pool.At(idx))
	}
}

// Resize changes the surface only; flakes outside the new bounds wrap back
// in on later ticks.
func (f *Field) Resize(width, height float64) error {
	if err := validateSurface(width, height); err != nil {
		return err
	}
	f.width, f.height = width, height
	return nil
}

// Release returns every active flake to the pool.
func (f *Field) Release() error {
	for _, idx := range f.active {
		if err := f.pool.Release(idx); err != nil {
			return err
		}
	}
	f.active = f.active[:0]
	return nil
}

func (f *Field) Size() (width, height float64) { return f.width, f.height }
func (f *Field) Len() int                      { return len(f.active) }
func (f *Field) Pool() *Pool                   { return f.pool }
func (f *Field) Params() Params                { return f.params }
