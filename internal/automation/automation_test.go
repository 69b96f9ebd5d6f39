package automation

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/san-kum/snowfall/internal/config"
	"github.com/san-kum/snowfall/internal/snow"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetParam(t *testing.T) {
	p := snow.DefaultParams()
	require.NoError(t, SetParam(&p, "wind_range", 2.5))
	require.NoError(t, SetParam(&p, "count", 42))
	assert.Equal(t, 2.5, p.WindRange)
	assert.Equal(t, 42, p.Count)
	assert.Error(t, SetParam(&p, "gravity", 9.8))
}

func TestLoadScenario(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "s.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
name: storm
steps:
  - preset: calm
    duration: 500
    params:
      count: 20
  - preset: blizzard
    width: 320
    height: 200
    duration: 500
`), 0644))

	s, err := LoadScenario(path)
	require.NoError(t, err)
	assert.Equal(t, "storm", s.Name)
	require.Len(t, s.Steps, 2)
	assert.Equal(t, 20.0, s.Steps[0].Params["count"])
	assert.Equal(t, 320.0, s.Steps[1].Width)

	empty := filepath.Join(dir, "empty.yaml")
	require.NoError(t, os.WriteFile(empty, []byte("name: nothing\n"), 0644))
	_, err = LoadScenario(empty)
	assert.Error(t, err)
}

func TestRunScenario(t *testing.T) {
	s := &Scenario{Steps: []ScenarioStep{
		{Preset: "calm", Duration: 500, Params: map[string]float64{"count": 20}},
		{Width: 320, Height: 200, Duration: 200, Dt: 10},
	}}
	base := config.DefaultConfig()

	results, err := RunScenario(context.Background(), s, base, nil)
	require.NoError(t, err)
	require.Len(t, results, 2)

	assert.Equal(t, 20, results[0].Params.Count)
	assert.Equal(t, base.Snow.Count, results[1].Params.Count)
	assert.Equal(t, 20, results[1].Result.StepsTaken)
	assert.Contains(t, results[0].Result.Metrics, "coverage")
	assert.Empty(t, results[0].Result.Errors)

	// the base config is left alone
	assert.Equal(t, config.DefaultConfig().Snow, base.Snow)
}

func TestRunScenarioRejectsUnknownPreset(t *testing.T) {
	s := &Scenario{Steps: []ScenarioStep{{Preset: "hail"}}}
	_, err := RunScenario(context.Background(), s, config.DefaultConfig(), nil)
	assert.ErrorContains(t, err, "hail")
}

func TestRunSweep(t *testing.T) {
	params := snow.DefaultParams()
	params.Count = 30
	results, err := RunSweep(context.Background(), &ParameterSweep{
		Base:      params,
		ParamName: "wind_range",
		ParamMin:  0,
		ParamMax:  2,
		NumSteps:  3,
		Duration:  1000,
		Seed:      1,
	}, nil)
	require.NoError(t, err)
	require.Len(t, results, 3)
	assert.Equal(t, []float64{0, 1, 2}, []float64{results[0].ParamValue, results[1].ParamValue, results[2].ParamValue})

	stable, unstable := SweepStats(results)
	assert.Equal(t, 3, stable)
	assert.Zero(t, unstable)

	_, err = RunSweep(context.Background(), &ParameterSweep{Base: params, ParamName: "wind_range", NumSteps: 1}, nil)
	assert.Error(t, err)

	_, err = RunSweep(context.Background(), &ParameterSweep{Base: params, ParamName: "gravity", NumSteps: 2}, nil)
	assert.Error(t, err)
}

func TestRunSweepReportsInvalidValues(t *testing.T) {
	params := snow.DefaultParams()
	params.Count = 10
	results, err := RunSweep(context.Background(), &ParameterSweep{
		Base:      params,
		ParamName: "size_min",
		ParamMin:  0,
		ParamMax:  2,
		NumSteps:  5,
		Duration:  200,
		Seed:      1,
	}, nil)
	require.NoError(t, err)
	require.Len(t, results, 5)

	assert.False(t, results[0].Stable)
	assert.ErrorIs(t, results[0].Err, snow.ErrInvalidParams)
	for _, r := range results[1:] {
		assert.NoError(t, r.Err)
		assert.True(t, r.Stable, "size_min=%v", r.ParamValue)
	}

	stable, unstable := SweepStats(results)
	assert.Equal(t, 4, stable)
	assert.Equal(t, 1, unstable)
}
