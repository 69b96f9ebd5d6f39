package sim

import (
	"errors"
	"fmt"
	"io"
	"log"
	"math/rand"
	"time"

	"github.com/san-kum/snowfall/internal/border"
	"github.com/san-kum/snowfall/internal/config"
	"github.com/san-kum/snowfall/internal/countdown"
	"github.com/san-kum/snowfall/internal/gradient"
	"github.com/san-kum/snowfall/internal/perf"
	"github.com/san-kum/snowfall/internal/sched"
	"github.com/san-kum/snowfall/internal/screen"
	"github.com/san-kum/snowfall/internal/snow"
)

// Size is a surface in renderer units.
type Size struct {
	W, H float64
}

// CardOptions configure NewCard.
type CardOptions struct {
	Config *config.Config
	Size   Size
	Now    time.Time
	Logger *log.Logger
	// OnCelebrate runs once when the countdown reaches its target.
	OnCelebrate func()
}

// Card is the live state of the greeting card: snow, background, countdown
// and the bookkeeping around them. Every renderer drives one Card from its
// own loop; a Card is not safe for concurrent use.
type Card struct {
	Field      *snow.Field
	Background *gradient.Animator
	Timer      *countdown.Timer
	Monitor    *perf.Monitor
	Screen     *screen.Checker
	Border     border.Config
	Resize     *sched.Debouncer[Size]

	cfg     *config.Config
	logger  *log.Logger
	color   gradient.Color
	last    time.Time
	frames  uint64
	size    Size
	warning bool
}

func NewCard(opts CardOptions) (*Card, error) {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	seed := cfg.Seed
	if seed == 0 {
		seed = opts.Now.UnixNano()
	}
	field, err := snow.NewField(cfg.Snow, opts.Size.W, opts.Size.H, rand.New(rand.NewSource(seed)))
	if err != nil {
		return nil, err
	}

	palette, err := cfg.Palette()
	if err != nil {
		return nil, err
	}
	bg, err := gradient.NewAnimator(palette, cfg.Gradient.Steps, cfg.Gradient.Opacity)
	if err != nil {
		return nil, err
	}

	locale, err := LoadLocale(cfg.Countdown.Locale, logger)
	if err != nil {
		return nil, err
	}
	target, err := cfg.Target(opts.Now)
	if err != nil {
		return nil, err
	}
	timer := countdown.NewTimer(target, locale)
	timer.OnExpire = opts.OnCelebrate
	timer.Tick(opts.Now)

	c := &Card{
		Field:      field,
		Background: bg,
		Timer:      timer,
		Monitor:    perf.NewMonitor(cfg.Perf.Interval, logger),
		Screen:     screen.NewChecker(cfg.Screen.Threshold),
		Border:     cfg.Border,
		Resize:     sched.NewDebouncer[Size](cfg.Render.ResizeDebounce),
		cfg:        cfg,
		logger:     logger,
		color:      bg.Current(),
		size:       opts.Size,
	}
	return c, nil
}

// LoadLocale picks the catalog entry closest to pref, falling back to the
// default language when nothing matches.
func LoadLocale(pref string, logger *log.Logger) (*countdown.Locale, error) {
	catalog, err := countdown.LoadEmbedded()
	if err != nil {
		return nil, fmt.Errorf("load locales: %w", err)
	}
	locale, err := catalog.Lookup(pref)
	if errors.Is(err, countdown.ErrUnknownLocale) {
		if logger != nil {
			logger.Printf("Unknown locale %q, using %s", pref, catalog.Default().Tag)
		}
		return catalog.Default(), nil
	}
	return locale, err
}

// Step advances the card to now and hands every flake to draw. The first
// step after creation moves nothing.
func (c *Card) Step(now time.Time, draw func(*snow.Particle)) {
	dt := 0.0
	if !c.last.IsZero() {
		dt = float64(now.Sub(c.last)) / float64(time.Millisecond)
	}
	c.last = now
	c.frames++

	c.color = c.Background.Next()
	c.Field.Tick(dt, draw)
}

// Frame records how long the last frame took to produce.
func (c *Card) Frame(now time.Time, work time.Duration) {
	c.Monitor.Frame(now, work)
}

// TickCountdown refreshes the countdown and reports whether it should keep ticking.
func (c *Card) TickCountdown(now time.Time) bool {
	return c.Timer.Tick(now)
}

// SetSize applies a new surface size to the snow field.
func (c *Card) SetSize(s Size) error {
	if err := c.Field.Resize(s.W, s.H); err != nil {
		return err
	}
	c.size = s
	return nil
}

// Color is the background color of the current frame before opacity.
func (c *Card) Color() gradient.Color { return c.color }

// Fill is the background composited over black at the configured opacity.
func (c *Card) Fill() gradient.Color {
	return c.color.Over(gradient.Color{}, c.Background.Opacity())
}

func (c *Card) Size() Size             { return c.size }
func (c *Card) Frames() uint64         { return c.frames }
func (c *Card) Config() *config.Config { return c.cfg }
func (c *Card) Logger() *log.Logger    { return c.logger }
func (c *Card) BorderIcons() []border.Point {
	return border.Layout(c.Border, c.size.W, c.size.H)
}

// WarnIfSmall checks the surface once and logs a warning the first time it
// is too small. It reports whether the warning applies.
func (c *Card) WarnIfSmall(tooSmall bool) bool {
	if tooSmall && !c.warning {
		c.warning = true
		c.logger.Println(c.Timer.Locale().Message(countdown.MsgCompatWarning))
	}
	return tooSmall
}
