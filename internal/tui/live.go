// Package tui draws the card with plain ANSI escapes, for terminals or pipes
// where a full Bubble Tea program is unwanted.
package tui

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/san-kum/snowfall/internal/countdown"
	"github.com/san-kum/snowfall/internal/gradient"
	"github.com/san-kum/snowfall/internal/sched"
	"github.com/san-kum/snowfall/internal/sim"
	"github.com/san-kum/snowfall/internal/snow"
	"github.com/san-kum/snowfall/internal/tree"
)

const (
	clearScreen = "\033[2J\033[H"
	home        = "\033[H"
	hideCursor  = "\033[?25l"
	showCursor  = "\033[?25h"
	reset       = "\033[0m"
)

var shapeRunes = [...]rune{'.', '+', '*'}

type LiveRenderer struct {
	out       io.Writer
	width     int
	height    int
	frameRate int
	lastFrame time.Time
	canvas    [][]rune
	treeCells [][]tree.Cell
	frames    int
}

// NewLiveRenderer draws into a width x height character grid.
func NewLiveRenderer(out io.Writer, width, height, frameRate int) *LiveRenderer {
	width, height = max(width, 1), max(height, 1)
	canvas := make([][]rune, height)
	for i := range canvas {
		canvas[i] = make([]rune, width)
	}
	r := &LiveRenderer{
		out:       out,
		width:     width,
		height:    height,
		frameRate: max(frameRate, 1),
		canvas:    canvas,
	}
	if th := height * 55 / 100; th >= 3 {
		r.treeCells = tree.New(0, 0, nil).Rasterize(min(th*170*2/240, width-4), th)
	}
	return r
}

// OnStep draws a headless run's field, at most frameRate times per second.
func (r *LiveRenderer) OnStep(f *snow.Field, t float64) {
	elapsed := time.Since(r.lastFrame)
	if elapsed < time.Second/time.Duration(r.frameRate) {
		return
	}
	r.lastFrame = time.Now()

	r.clear()
	r.drawField(f)
	r.render(fmt.Sprintf("t=%.1fs  flakes=%d", t/1000, f.Len()), "", nil)
}

// Run animates card until ctx ends or frames have been drawn (0 means no limit).
func (r *LiveRenderer) Run(ctx context.Context, card *sim.Card, frames int) error {
	r.Start()
	defer r.Stop()

	if err := card.SetSize(sim.Size{W: float64(r.width * 8), H: float64(r.height * 16)}); err != nil {
		return err
	}
	lastCountdown := time.Time{}
	return sched.Every(ctx, card.Config().FrameInterval(), func(now time.Time) bool {
		start := time.Now()
		if !card.Timer.Expired() && now.Sub(lastCountdown) >= time.Second {
			card.TickCountdown(now)
			lastCountdown = now
		}
		r.Frame(card, now)
		card.Frame(now, time.Since(start))
		return frames == 0 || r.frames < frames
	})
}

// Frame steps the card to now and writes one frame.
func (r *LiveRenderer) Frame(card *sim.Card, now time.Time) {
	r.clear()
	card.Step(now, nil)
	r.drawField(card.Field)
	r.drawTree()

	locale := card.Timer.Locale()
	display := card.Timer.Display()
	line := locale.Message(countdown.MsgTitle)
	if display.TimerVisible || display.CelebrationVisible {
		line = display.Text
	}
	fill := card.Fill()
	r.render(locale.Message(countdown.MsgTitle), line, &fill)
}

func (r *LiveRenderer) Frames() int { return r.frames }

func (r *LiveRenderer) clear() {
	for y := range r.canvas {
		for x := range r.canvas[y] {
			r.canvas[y][x] = ' '
		}
	}
}

func (r *LiveRenderer) set(x, y int, c rune) {
	if x >= 0 && x < r.width && y >= 0 && y < r.height {
		r.canvas[y][x] = c
	}
}

// drawField scales the field's surface onto the grid.
func (r *LiveRenderer) drawField(f *snow.Field) {
	w, h := f.Size()
	sx, sy := float64(r.width)/w, float64(r.height)/h
	f.Each(func(p *snow.Particle) {
		if !p.Visible(w, h) || p.X < 0 || p.Y < 0 {
			return
		}
		r.set(int(p.X*sx), int(p.Y*sy), shapeRunes[int(p.Shape)%len(shapeRunes)])
	})
}

func (r *LiveRenderer) drawTree() {
	if len(r.treeCells) == 0 {
		return
	}
	top := r.height - len(r.treeCells) - 1
	left := (r.width - len(r.treeCells[0])) / 2
	for y, row := range r.treeCells {
		for x, c := range row {
			if c.Rune != 0 {
				r.set(left+x, top+y, c.Rune)
			}
		}
	}
}

func (r *LiveRenderer) render(title, status string, bg *gradient.Color) {
	var b strings.Builder
	b.WriteString(home)
	if bg != nil {
		fmt.Fprintf(&b, "\033[48;2;%d;%d;%dm\033[97m", bg.R, bg.G, bg.B)
	}
	b.WriteString(center(title, r.width) + "\n")
	if status != "" && status != title {
		b.WriteString(center(status, r.width) + "\n")
	}
	for _, row := range r.canvas {
		b.WriteString(string(row))
		b.WriteString("\n")
	}
	b.WriteString(reset)

	fmt.Fprint(r.out, b.String())
	r.frames++
}

func center(s string, width int) string {
	n := len([]rune(s))
	if n >= width {
		return s
	}
	pad := (width - n) / 2
	return strings.Repeat(" ", pad) + s + strings.Repeat(" ", width-n-pad)
}

func (r *LiveRenderer) Start() { fmt.Fprint(r.out, clearScreen+hideCursor) }
func (r *LiveRenderer) Stop()  { fmt.Fprint(r.out, reset+showCursor) }
