package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// overrides are the settings that can come from SNOWFALL_* variables.
type overrides struct {
	Count          int           `env:"SNOWFALL_COUNT"`
	Seed           int64         `env:"SNOWFALL_SEED"`
	Locale         string        `env:"SNOWFALL_LOCALE"`
	Target         string        `env:"SNOWFALL_TARGET"`
	UTCOffset      int           `env:"SNOWFALL_UTC_OFFSET"`
	FPS            int           `env:"SNOWFALL_FPS"`
	Theme          string        `env:"SNOWFALL_THEME"`
	Chime          bool          `env:"SNOWFALL_CHIME"`
	ResizeDebounce time.Duration `env:"SNOWFALL_RESIZE_DEBOUNCE"`
	Perf           bool          `env:"SNOWFALL_PERF"`
	PerfInterval   time.Duration `env:"SNOWFALL_PERF_INTERVAL"`
	Threshold      float64       `env:"SNOWFALL_SCREEN_THRESHOLD"`
}

// ParseEnv loads configuration from environment variables.
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// ApplyEnv overrides cfg with any SNOWFALL_* variables that are set.
// Unset variables leave the current values alone.
func ApplyEnv(cfg *Config) error {
	o := overrides{
		Count:          cfg.Snow.Count,
		Seed:           cfg.Seed,
		Locale:         cfg.Countdown.Locale,
		Target:         cfg.Countdown.Target,
		UTCOffset:      cfg.Countdown.UTCOffset,
		FPS:            cfg.Render.FPS,
		Theme:          cfg.Render.Theme,
		Chime:          cfg.Render.Chime,
		ResizeDebounce: cfg.Render.ResizeDebounce,
		Perf:           cfg.Perf.Enabled,
		PerfInterval:   cfg.Perf.Interval,
		Threshold:      cfg.Screen.Threshold,
	}
	if err := ParseEnv(&o); err != nil {
		return err
	}
	cfg.Snow.Count = o.Count
	cfg.Seed = o.Seed
	cfg.Countdown.Locale = o.Locale
	cfg.Countdown.Target = o.Target
	cfg.Countdown.UTCOffset = o.UTCOffset
	cfg.Render.FPS = o.FPS
	cfg.Render.Theme = o.Theme
	cfg.Render.Chime = o.Chime
	cfg.Render.ResizeDebounce = o.ResizeDebounce
	cfg.Perf.Enabled = o.Perf
	cfg.Perf.Interval = o.PerfInterval
	cfg.Screen.Threshold = o.Threshold
	return nil
}
