package sim

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"time"

	"github.com/san-kum/snowfall/internal/snow"
)

// Simulator runs a snow field without a renderer, for benchmarks and checks.
type Simulator struct {
	params    snow.Params
	width     float64
	height    float64
	metrics   []func() Metric
	observers []Observer
}

func New(params snow.Params, width, height float64) *Simulator {
	return &Simulator{params: params, width: width, height: height}
}

// AddMetric registers a metric constructor; every run gets fresh instances.
func (s *Simulator) AddMetric(newMetric func() Metric) { s.metrics = append(s.metrics, newMetric) }
func (s *Simulator) AddObserver(o Observer)            { s.observers = append(s.observers, o) }

func (s *Simulator) Run(ctx context.Context, cfg Config) (*Result, error) {
	if err := s.validateConfig(cfg); err != nil {
		return nil, err
	}
	field, err := snow.NewField(s.params, s.width, s.height, rand.New(rand.NewSource(cfg.Seed)))
	if err != nil {
		return nil, err
	}

	steps := int(cfg.Duration / cfg.Dt)
	metrics := make([]Metric, len(s.metrics))
	for i, newMetric := range s.metrics {
		metrics[i] = newMetric()
		metrics[i].Reset()
	}

	result := &Result{
		Seed:    cfg.Seed,
		Metrics: make(map[string]float64, len(metrics)),
	}
	if cfg.SampleEvery > 0 {
		result.Times = make([]float64, 0, steps/cfg.SampleEvery+1)
		result.Visible = make([]int, 0, steps/cfg.SampleEvery+1)
	}

	start := time.Now()
	t := 0.0
	for i := 0; i < steps; i++ {
		select {
		case <-ctx.Done():
			result.Elapsed = time.Since(start)
			return result, ctx.Err()
		default:
		}

		field.Update(cfg.Dt)
		t += cfg.Dt
		result.StepsTaken++

		for _, m := range metrics {
			m.Observe(field, t)
		}
		for _, obs := range s.observers {
			obs.OnStep(field, t)
		}

		if cfg.ValidateState && !finite(field) {
			result.Errors = append(result.Errors, SimError{Time: t, Step: i, Message: "invalid flake (NaN/Inf)"})
			break
		}
		if cfg.SampleEvery > 0 && i%cfg.SampleEvery == 0 {
			result.Times = append(result.Times, t)
			result.Visible = append(result.Visible, visible(field))
		}
	}
	result.Elapsed = time.Since(start)

	for _, m := range metrics {
		result.Metrics[m.Name()] = m.Value()
	}
	return result, nil
}

func (s *Simulator) validateConfig(cfg Config) error {
	if !(cfg.Dt > 0) || math.IsInf(cfg.Dt, 0) {
		return fmt.Errorf("dt must be positive, got %f", cfg.Dt)
	}
	if !(cfg.Duration > 0) || math.IsInf(cfg.Duration, 0) {
		return fmt.Errorf("duration must be positive, got %f", cfg.Duration)
	}
	if cfg.SampleEvery < 0 {
		return fmt.Errorf("sample interval must be non-negative, got %d", cfg.SampleEvery)
	}
	return nil
}

// RunWithCallback steps until Duration or until callback returns false.
func (s *Simulator) RunWithCallback(ctx context.Context, cfg Config, callback func(f *snow.Field, t float64) bool) error {
	if err := s.validateConfig(cfg); err != nil {
		return err
	}
	field, err := snow.NewField(s.params, s.width, s.height, rand.New(rand.NewSource(cfg.Seed)))
	if err != nil {
		return err
	}

	for t := 0.0; t < cfg.Duration; {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		if !callback(field, t) {
			return nil
		}
		field.Update(cfg.Dt)
		t += cfg.Dt

		if cfg.ValidateState && !finite(field) {
			return fmt.Errorf("invalid flake at t=%.1fms", t)
		}
	}
	return nil
}

func finite(f *snow.Field) bool {
	ok := true
	f.Each(func(p *snow.Particle) {
		for _, v := range [...]float64{p.X, p.Y, p.SpeedX, p.SpeedY} {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				ok = false
			}
		}
	})
	return ok
}

func visible(f *snow.Field) int {
	w, h := f.Size()
	n := 0
	f.Each(func(p *snow.Particle) {
		if p.Visible(w, h) {
			n++
		}
	})
	return n
}
