package sim

import (
	"fmt"
	"time"

	"github.com/san-kum/snowfall/internal/snow"
)

// Metric folds every step of a run into one number.
type Metric interface {
	Name() string
	Observe(f *snow.Field, t float64)
	Value() float64
	Reset()
}

// Observer sees every step. Observers added to a simulator that runs in an
// ensemble are called from several goroutines.
type Observer interface {
	OnStep(f *snow.Field, t float64)
}

// Config describes a headless run. Dt and Duration are in milliseconds.
type Config struct {
	Dt            float64
	Duration      float64
	Seed          int64
	ValidateState bool
	// SampleEvery records the visible flake count every n steps; 0 disables it.
	SampleEvery int
}

type Result struct {
	Seed       int64
	StepsTaken int
	Times      []float64
	Visible    []int
	Metrics    map[string]float64
	Errors     []error
	Elapsed    time.Duration
}

// StepsPerSecond is the simulation throughput of the run.
func (r *Result) StepsPerSecond() float64 {
	if r.Elapsed <= 0 {
		return 0
	}
	return float64(r.StepsTaken) / r.Elapsed.Seconds()
}

type SimError struct {
	Time    float64
	Step    int
	Message string
}

func (e SimError) Error() string {
	return fmt.Sprintf("step %d (t=%.1fms): %s", e.Step, e.Time, e.Message)
}
