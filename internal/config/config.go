package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/snowfall/internal/border"
	"github.com/san-kum/snowfall/internal/countdown"
	"github.com/san-kum/snowfall/internal/gradient"
	"github.com/san-kum/snowfall/internal/perf"
	"github.com/san-kum/snowfall/internal/sched"
	"github.com/san-kum/snowfall/internal/screen"
	"github.com/san-kum/snowfall/internal/snow"
)

const (
	DefaultFPS       = 60
	DefaultUTCOffset = 4
	DefaultTheme     = "night"
	MaxFPS           = 240
)

var ErrInvalidConfig = errors.New("invalid config")

type Config struct {
	Seed      int64           `yaml:"seed"`
	Snow      snow.Params     `yaml:"snow"`
	Gradient  GradientConfig  `yaml:"gradient"`
	Countdown CountdownConfig `yaml:"countdown"`
	Border    border.Config   `yaml:"border"`
	Screen    ScreenConfig    `yaml:"screen"`
	Perf      PerfConfig      `yaml:"perf"`
	Render    RenderConfig    `yaml:"render"`
}

type GradientConfig struct {
	Palette []string `yaml:"palette"`
	Steps   int      `yaml:"steps"`
	Opacity float64  `yaml:"opacity"`
}

type CountdownConfig struct {
	// Target is an RFC 3339 instant; empty means the next New Year.
	Target    string `yaml:"target"`
	UTCOffset int    `yaml:"utc_offset"`
	Locale    string `yaml:"locale"`
}

type ScreenConfig struct {
	Threshold float64 `yaml:"threshold"`
}

type PerfConfig struct {
	Enabled  bool          `yaml:"enabled"`
	Interval time.Duration `yaml:"interval"`
}

type RenderConfig struct {
	FPS            int           `yaml:"fps"`
	ResizeDebounce time.Duration `yaml:"resize_debounce"`
	Theme          string        `yaml:"theme"`
	Chime          bool          `yaml:"chime"`
}

func DefaultConfig() *Config {
	palette := gradient.DefaultPalette()
	hex := make([]string, len(palette))
	for i, c := range palette {
		hex[i] = c.Hex()
	}
	return &Config{
		Snow: snow.DefaultParams(),
		Gradient: GradientConfig{
			Palette: hex,
			Steps:   gradient.DefaultSteps,
			Opacity: gradient.DefaultOpacity,
		},
		Countdown: CountdownConfig{
			UTCOffset: DefaultUTCOffset,
			Locale:    countdown.DefaultLocale,
		},
		Border: border.DefaultConfig(),
		Screen: ScreenConfig{Threshold: screen.DefaultThreshold},
		Perf:   PerfConfig{Enabled: true, Interval: perf.DefaultInterval},
		Render: RenderConfig{
			FPS:            DefaultFPS,
			ResizeDebounce: sched.DefaultResizeWait,
			Theme:          DefaultTheme,
		},
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrInvalidConfig, path, err)
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func (c *Config) Validate() error {
	if err := c.Snow.Validate(); err != nil {
		return fmt.Errorf("%w: snow: %w", ErrInvalidConfig, err)
	}
	if _, err := c.Palette(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	if c.Gradient.Steps <= 0 {
		return fmt.Errorf("%w: gradient steps must be positive, got %d", ErrInvalidConfig, c.Gradient.Steps)
	}
	if c.Gradient.Opacity < 0 || c.Gradient.Opacity > 1 {
		return fmt.Errorf("%w: gradient opacity %g outside [0, 1]", ErrInvalidConfig, c.Gradient.Opacity)
	}
	if c.Countdown.UTCOffset < -12 || c.Countdown.UTCOffset > 14 {
		return fmt.Errorf("%w: utc offset %d", ErrInvalidConfig, c.Countdown.UTCOffset)
	}
	if c.Countdown.Locale == "" {
		return fmt.Errorf("%w: empty locale", ErrInvalidConfig)
	}
	if c.Countdown.Target != "" {
		if _, err := time.Parse(time.RFC3339, c.Countdown.Target); err != nil {
			return fmt.Errorf("%w: countdown target: %w", ErrInvalidConfig, err)
		}
	}
	if c.Border.Size <= 0 || c.Border.Density <= 0 || c.Border.Padding < 0 {
		return fmt.Errorf("%w: border %+v", ErrInvalidConfig, c.Border)
	}
	if c.Screen.Threshold <= 0 {
		return fmt.Errorf("%w: screen threshold must be positive", ErrInvalidConfig)
	}
	if c.Perf.Interval <= 0 {
		return fmt.Errorf("%w: perf interval must be positive", ErrInvalidConfig)
	}
	if c.Render.FPS <= 0 || c.Render.FPS > MaxFPS {
		return fmt.Errorf("%w: fps %d outside 1..%d", ErrInvalidConfig, c.Render.FPS, MaxFPS)
	}
	if c.Render.ResizeDebounce < 0 {
		return fmt.Errorf("%w: negative resize debounce", ErrInvalidConfig)
	}
	return nil
}

// Palette parses the configured background colors.
func (c *Config) Palette() ([]gradient.Color, error) {
	if len(c.Gradient.Palette) < 2 {
		return nil, fmt.Errorf("gradient palette needs at least two colors, got %d", len(c.Gradient.Palette))
	}
	out := make([]gradient.Color, len(c.Gradient.Palette))
	for i, s := range c.Gradient.Palette {
		col, err := gradient.ParseHex(s)
		if err != nil {
			return nil, err
		}
		out[i] = col
	}
	return out, nil
}

// Location is the fixed zone the countdown runs in.
func (c *Config) Location() *time.Location {
	if c.Countdown.UTCOffset == DefaultUTCOffset {
		return countdown.Ulyanovsk
	}
	return time.FixedZone(fmt.Sprintf("UTC%+d", c.Countdown.UTCOffset), c.Countdown.UTCOffset*60*60)
}

// Target resolves the countdown instant relative to now.
func (c *Config) Target(now time.Time) (time.Time, error) {
	if c.Countdown.Target == "" {
		return countdown.NextNewYear(now, c.Location()), nil
	}
	t, err := time.Parse(time.RFC3339, c.Countdown.Target)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: countdown target: %w", ErrInvalidConfig, err)
	}
	return t, nil
}

// FrameInterval is the animation tick period.
func (c *Config) FrameInterval() time.Duration {
	fps := c.Render.FPS
	if fps <= 0 {
		fps = DefaultFPS
	}
	return time.Second / time.Duration(fps)
}
