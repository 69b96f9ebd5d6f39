package metrics

import (
	"math/rand"
	"testing"

	"github.com/san-kum/snowfall/internal/snow"
)

func newField(t *testing.T, count int) *snow.Field {
	t.Helper()
	params := snow.DefaultParams()
	params.Count = count
	f, err := snow.NewField(params, 200, 100, rand.New(rand.NewSource(5)))
	if err != nil {
		t.Fatal(err)
	}
	return f
}

func TestCoverage(t *testing.T) {
	m := NewCoverage()
	if m.Value() != 0 {
		t.Error("empty coverage should be 0")
	}

	f := newField(t, 50)
	for i := 0; i < 2000; i++ {
		f.Update(16)
		m.Observe(f, float64(i))
	}
	if v := m.Value(); v <= 0 || v > 1 {
		t.Errorf("coverage %f outside (0, 1]", v)
	}

	m.Reset()
	if m.Value() != 0 {
		t.Error("coverage not reset")
	}
}

func TestRespawnsCountsReentries(t *testing.T) {
	m := NewRespawns()
	f := newField(t, 20)

	m.Observe(f, 0)
	if m.Value() != 0 {
		t.Fatal("first observation cannot count respawns")
	}
	for i := 0; i < 3000; i++ {
		f.Update(16)
		m.Observe(f, float64(i))
	}
	// every flake falls at least 0.5 per tick through a 100-high surface
	if m.Value() < 20 {
		t.Errorf("respawns = %f, want at least one per flake", m.Value())
	}

	m.Reset()
	if m.Value() != 0 {
		t.Error("respawns not reset")
	}
}

func TestDriftBounded(t *testing.T) {
	mean, peak := NewDrift(), NewMaxDrift()
	f := newField(t, 100)
	for i := 0; i < 5000; i++ {
		f.Update(16)
		mean.Observe(f, float64(i))
		peak.Observe(f, float64(i))
	}

	limit := snow.DefaultParams().WindRange / 2
	if peak.Value() > limit {
		t.Errorf("max drift %f exceeds %f", peak.Value(), limit)
	}
	if mean.Value() > peak.Value() {
		t.Errorf("mean %f above max %f", mean.Value(), peak.Value())
	}
	if mean.Value() == 0 {
		t.Error("gusts should produce some drift")
	}

	mean.Reset()
	peak.Reset()
	if mean.Value() != 0 || peak.Value() != 0 {
		t.Error("drift not reset")
	}
}

func TestNames(t *testing.T) {
	for _, tt := range []struct{ got, want string }{
		{NewCoverage().Name(), "coverage"},
		{NewRespawns().Name(), "respawns"},
		{NewDrift().Name(), "mean_drift"},
		{NewMaxDrift().Name(), "max_drift"},
	} {
		if tt.got != tt.want {
			t.Errorf("name %q, want %q", tt.got, tt.want)
		}
	}
}
