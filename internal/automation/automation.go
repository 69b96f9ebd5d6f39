// Package automation runs scripted benchmark scenarios and parameter sweeps
// over the snow simulator.
package automation

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"sort"

	"github.com/san-kum/snowfall/internal/config"
	"github.com/san-kum/snowfall/internal/metrics"
	"github.com/san-kum/snowfall/internal/sim"
	"github.com/san-kum/snowfall/internal/snow"
	"gopkg.in/yaml.v3"
)

// Scenario defines a scripted sequence of headless runs.
type Scenario struct {
	Name        string         `yaml:"name"`
	Description string         `yaml:"description"`
	Steps       []ScenarioStep `yaml:"steps"`
}

// ScenarioStep is a single run in a scenario. Zero fields keep the base config.
type ScenarioStep struct {
	Preset   string             `yaml:"preset"`
	Width    float64            `yaml:"width"`
	Height   float64            `yaml:"height"`
	Duration float64            `yaml:"duration"`
	Dt       float64            `yaml:"dt"`
	Seed     int64              `yaml:"seed"`
	Params   map[string]float64 `yaml:"params"`
	SaveAs   string             `yaml:"save_as"`
}

// Defaults for a step that leaves the surface or timing unset.
const (
	DefaultWidth    = 1280.0
	DefaultHeight   = 720.0
	DefaultDuration = 10000.0
	DefaultDt       = 16.7
)

// LoadScenario loads a scenario from a YAML file
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var scenario Scenario
	if err := yaml.Unmarshal(data, &scenario); err != nil {
		return nil, fmt.Errorf("scenario %s: %w", path, err)
	}
	if len(scenario.Steps) == 0 {
		return nil, fmt.Errorf("scenario %s: no steps", path)
	}
	return &scenario, nil
}

// SetParam sets one snow parameter by its YAML name.
func SetParam(p *snow.Params, name string, v float64) error {
	fields := map[string]*float64{
		"size_min":          &p.SizeMin,
		"size_spread":       &p.SizeSpread,
		"speed_min":         &p.SpeedMin,
		"speed_spread":      &p.SpeedSpread,
		"wind_range":        &p.WindRange,
		"wind_change_rate":  &p.WindChangeRate,
		"first_gust_min":    &p.FirstGustMin,
		"first_gust_spread": &p.FirstGustSpread,
		"gust_min":          &p.GustMin,
		"gust_spread":       &p.GustSpread,
	}
	if name == "count" {
		p.Count = int(v)
		return nil
	}
	f, ok := fields[name]
	if !ok {
		return fmt.Errorf("unknown parameter %q", name)
	}
	*f = v
	return nil
}

// NewSimulator returns a simulator with the standard metric set.
func NewSimulator(params snow.Params, width, height float64) *sim.Simulator {
	s := sim.New(params, width, height)
	s.AddMetric(func() sim.Metric { return metrics.NewCoverage() })
	s.AddMetric(func() sim.Metric { return metrics.NewRespawns() })
	s.AddMetric(func() sim.Metric { return metrics.NewDrift() })
	s.AddMetric(func() sim.Metric { return metrics.NewMaxDrift() })
	return s
}

// StepResult pairs a scenario step with its run.
type StepResult struct {
	Step   ScenarioStep
	Params snow.Params
	Result *sim.Result
}

// RunScenario executes all steps in order, each on a copy of base.
func RunScenario(ctx context.Context, scenario *Scenario, base *config.Config, logger *log.Logger) ([]StepResult, error) {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	results := make([]StepResult, 0, len(scenario.Steps))

	for i, step := range scenario.Steps {
		cfg := *base
		if step.Preset != "" && !config.ApplyPreset(&cfg, step.Preset) {
			return results, fmt.Errorf("step %d: unknown preset %q", i+1, step.Preset)
		}
		params := cfg.Snow

		names := make([]string, 0, len(step.Params))
		for k := range step.Params {
			names = append(names, k)
		}
		sort.Strings(names)
		for _, k := range names {
			if err := SetParam(&params, k, step.Params[k]); err != nil {
				return results, fmt.Errorf("step %d: %w", i+1, err)
			}
		}

		w, h := orDefault(step.Width, DefaultWidth), orDefault(step.Height, DefaultHeight)
		seed := step.Seed
		if seed == 0 {
			seed = int64(i + 1)
		}
		logger.Printf("Running step %d/%d: %d flakes on %gx%g", i+1, len(scenario.Steps), params.Count, w, h)

		res, err := NewSimulator(params, w, h).Run(ctx, sim.Config{
			Dt:            orDefault(step.Dt, DefaultDt),
			Duration:      orDefault(step.Duration, DefaultDuration),
			Seed:          seed,
			ValidateState: true,
			SampleEvery:   6,
		})
		if err != nil {
			return results, fmt.Errorf("step %d run: %w", i+1, err)
		}
		results = append(results, StepResult{Step: step, Params: params, Result: res})
	}
	return results, nil
}

func orDefault(v, def float64) float64 {
	if v <= 0 {
		return def
	}
	return v
}

// ParameterSweep runs the simulator across a range of one parameter's values.
type ParameterSweep struct {
	Base      snow.Params
	ParamName string
	ParamMin  float64
	ParamMax  float64
	NumSteps  int
	Width     float64
	Height    float64
	Duration  float64
	Dt        float64
	Seed      int64
}

// SweepResult holds one point of a sweep.
type SweepResult struct {
	ParamValue float64
	Coverage   float64
	MeanDrift  float64
	MaxDrift   float64
	Respawns   float64
	Stable     bool  // no invalid flakes were seen
	Err        error // the value itself was rejected; nothing ran
}

// RunSweep executes a parameter sweep. Values that produce invalid
// parameters are recorded as unstable with Err set and the sweep goes on.
func RunSweep(ctx context.Context, sweep *ParameterSweep, logger *log.Logger) ([]SweepResult, error) {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	if sweep.NumSteps < 2 {
		return nil, fmt.Errorf("sweep needs at least 2 steps, got %d", sweep.NumSteps)
	}
	results := make([]SweepResult, 0, sweep.NumSteps)
	paramStep := (sweep.ParamMax - sweep.ParamMin) / float64(sweep.NumSteps-1)

	for i := 0; i < sweep.NumSteps; i++ {
		paramVal := sweep.ParamMin + float64(i)*paramStep
		params := sweep.Base
		if err := SetParam(&params, sweep.ParamName, paramVal); err != nil {
			return nil, err
		}
		if err := params.Validate(); err != nil {
			logger.Printf("Sweep %d/%d: %s=%.4f skipped: %v", i+1, sweep.NumSteps, sweep.ParamName, paramVal, err)
			results = append(results, SweepResult{ParamValue: paramVal, Err: err})
			continue
		}

		res, err := NewSimulator(params, orDefault(sweep.Width, DefaultWidth), orDefault(sweep.Height, DefaultHeight)).
			Run(ctx, sim.Config{
				Dt:            orDefault(sweep.Dt, DefaultDt),
				Duration:      orDefault(sweep.Duration, DefaultDuration),
				Seed:          sweep.Seed,
				ValidateState: true,
			})
		if err != nil {
			return nil, err
		}

		results = append(results, SweepResult{
			ParamValue: paramVal,
			Coverage:   res.Metrics["coverage"],
			MeanDrift:  res.Metrics["mean_drift"],
			MaxDrift:   res.Metrics["max_drift"],
			Respawns:   res.Metrics["respawns"],
			Stable:     len(res.Errors) == 0,
		})
		logger.Printf("Sweep %d/%d: %s=%.4f", i+1, sweep.NumSteps, sweep.ParamName, paramVal)
	}
	return results, nil
}

// SweepStats counts stable and unstable sweep points.
func SweepStats(results []SweepResult) (stableCount int, unstableCount int) {
	for _, r := range results {
		if r.Stable {
			stableCount++
		} else {
			unstableCount++
		}
	}
	return
}
