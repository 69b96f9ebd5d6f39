package gradient

import (
	"errors"
	"fmt"
)

var ErrInvalidPalette = errors.New("gradient: palette needs at least two colors and a positive step count")

// Animator walks a palette pair by pair, one step per tick, forever.
type Animator struct {
	palette []Color
	steps   int
	index   int
	step    int
	opacity float64
}

func NewAnimator(palette []Color, steps int, opacity float64) (*Animator, error) {
	if len(palette) < 2 || steps <= 0 {
		return nil, fmt.Errorf("%w: %d colors, %d steps", ErrInvalidPalette, len(palette), steps)
	}
	if opacity < 0 || opacity > 1 {
		return nil, fmt.Errorf("gradient: opacity %g outside [0, 1]", opacity)
	}
	p := make([]Color, len(palette))
	copy(p, palette)
	return &Animator{palette: p, steps: steps, opacity: opacity}, nil
}

// ColorAt is the color after step of steps moving from pair to pair+1.
func (a *Animator) ColorAt(pair, step int) Color {
	n := len(a.palette)
	pair = ((pair % n) + n) % n
	start := a.palette[pair]
	end := a.palette[(pair+1)%n]
	return Lerp(start, end, float64(step)/float64(a.steps))
}

// Current is the color for the present tick without advancing.
func (a *Animator) Current() Color {
	return a.ColorAt(a.index, a.step)
}

// Next returns the current color and advances one step. A pair runs from
// its start color (step 0) to exactly its end color (step steps); the next
// pair then continues from step 1, since its step 0 is that same end color.
func (a *Animator) Next() Color {
	if a.step > a.steps {
		a.advance()
	}
	c := a.Current()
	a.step++
	return c
}

func (a *Animator) advance() {
	a.index = (a.index + 1) % len(a.palette)
	a.step = 1
}

// Position reports the pair index and step of the next color.
func (a *Animator) Position() (pair, step int) {
	if a.step > a.steps {
		return (a.index + 1) % len(a.palette), 1
	}
	return a.index, a.step
}

func (a *Animator) Opacity() float64 { return a.opacity }
func (a *Animator) Steps() int       { return a.steps }
func (a *Animator) Palette() []Color { return a.palette }
