// Package gui shows the card in a resizable raylib window.
package gui

import (
	"fmt"
	"os"
	"strings"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/san-kum/snowfall/internal/audio"
	"github.com/san-kum/snowfall/internal/countdown"
	"github.com/san-kum/snowfall/internal/gradient"
	"github.com/san-kum/snowfall/internal/sim"
	"github.com/san-kum/snowfall/internal/snow"
	"github.com/san-kum/snowfall/internal/tree"
)

var (
	ColSnow    = rl.NewColor(255, 255, 255, 230)
	ColText    = rl.NewColor(235, 240, 255, 255)
	ColTextDim = rl.NewColor(150, 160, 180, 255)
	ColPanel   = rl.NewColor(10, 10, 20, 200)
	ColTrunkLo = rl.NewColor(139, 69, 19, 255)
	ColTrunkHi = rl.NewColor(160, 82, 45, 255)
)

var fontPaths = []string{
	"/usr/share/fonts/liberation/LiberationMono-Regular.ttf",
	"/usr/share/fonts/truetype/liberation/LiberationMono-Regular.ttf",
	"/usr/share/fonts/TTF/DejaVuSansMono.ttf",
	"/usr/share/fonts/truetype/dejavu/DejaVuSansMono.ttf",
}

type App struct {
	Card     *sim.Card
	Tree     *tree.Tree
	Bell     *audio.Bell
	Font     rl.Font
	Running  bool
	ShowPerf bool

	warning  bool
	warned   bool
	quit     bool
	nextTick time.Time
	segs     []snow.Segment
}

func initWindow(w, h int32, fps int) {
	rl.SetConfigFlags(rl.FlagWindowResizable)
	rl.InitWindow(w, h, "snowfall")
	rl.SetTargetFPS(int32(fps))
	rl.SetExitKey(0)
}

// loadFont picks the first system font with Cyrillic coverage and falls back
// to raylib's built-in font.
func loadFont() rl.Font {
	var runes []rune
	for r := rune(0x20); r < 0x7f; r++ {
		runes = append(runes, r)
	}
	for r := rune(0x400); r < 0x460; r++ {
		runes = append(runes, r)
	}
	for _, path := range fontPaths {
		if _, err := os.Stat(path); err != nil {
			continue
		}
		font := rl.LoadFontEx(path, 32, runes, int32(len(runes)))
		if font.Texture.ID == 0 {
			continue
		}
		rl.SetTextureFilter(font.Texture, rl.FilterBilinear)
		return font
	}
	return rl.GetFontDefault()
}

// NewApp needs an open window.
func NewApp(card *sim.Card, t *tree.Tree, bell *audio.Bell) *App {
	return &App{
		Card:    card,
		Tree:    t,
		Bell:    bell,
		Font:    loadFont(),
		Running: true,
	}
}

// Run opens a window the size of the card and blocks until it is closed.
func Run(card *sim.Card, t *tree.Tree, bell *audio.Bell) {
	size := card.Size()
	initWindow(int32(size.W), int32(size.H), card.Config().Render.FPS)
	defer rl.CloseWindow()

	app := NewApp(card, t, bell)
	app.checkScreen()
	app.RunLoop()
}

func (a *App) RunLoop() {
	for !rl.WindowShouldClose() && !a.quit {
		a.Update()
		a.Draw()
	}
}

func (a *App) checkScreen() {
	w, h := rl.GetScreenWidth(), rl.GetScreenHeight()
	if !a.warned && a.Card.WarnIfSmall(a.Card.Screen.TooSmall(w, h)) {
		a.warning, a.warned = true, true
	}
}

func (a *App) Update() {
	now := time.Now()

	if rl.IsWindowResized() {
		a.Card.Resize.Signal(now, sim.Size{W: float64(rl.GetScreenWidth()), H: float64(rl.GetScreenHeight())})
	}
	if size, ok := a.Card.Resize.Poll(now); ok {
		if err := a.Card.SetSize(size); err != nil {
			a.Card.Logger().Printf("Resize: %v", err)
		}
		a.checkScreen()
	}

	if a.warning {
		if rl.GetKeyPressed() != 0 {
			a.warning = false
		}
		return
	}

	switch {
	case rl.IsKeyPressed(rl.KeyQ), rl.IsKeyPressed(rl.KeyEscape):
		a.quit = true
	case rl.IsKeyPressed(rl.KeySpace):
		a.Running = !a.Running
	case rl.IsKeyPressed(rl.KeyP):
		a.ShowPerf = !a.ShowPerf
	}

	if !a.Card.Timer.Expired() && !now.Before(a.nextTick) {
		a.Card.TickCountdown(now)
		a.nextTick = now.Add(time.Second)
	}
}

func (a *App) Draw() {
	start := time.Now()
	rl.BeginDrawing()
	rl.ClearBackground(toRL(a.Card.Fill(), 255))

	a.drawTree()
	a.drawBorder()
	if a.Running {
		a.Card.Step(start, a.drawFlake)
	} else {
		a.Card.Field.Each(a.drawFlake)
	}
	a.drawHeader()
	a.DrawHUD()
	if a.warning {
		a.drawModal(a.Card.Timer.Locale().Message(countdown.MsgCompatWarning))
	}

	rl.EndDrawing()
	a.Card.Frame(start, time.Since(start))
}

func (a *App) DrawHUD() {
	h := int32(rl.GetScreenHeight())
	if !a.Running {
		a.drawText("PAUSED", 20, int(h)-60, 16, ColTextDim)
	}
	if a.Bell != nil && a.Bell.Active && a.Bell.Ringing() {
		bars := min(int(a.Bell.Level()*20), 20)
		a.drawText(fmt.Sprintf("BELL [%-20s]", strings.Repeat("|", bars)), 20, int(h)-80, 14, ColTextDim)
	}
	if a.ShowPerf {
		lines := a.Card.Monitor.Last().Lines()
		lines = append(lines, fmt.Sprintf("- Raylib: %d fps", rl.GetFPS()))
		y := 20
		for _, l := range lines {
			a.drawText(l, 20, y, 16, ColText)
			y += 20
		}
	}
	a.drawText("[SPACE] PAUSE  [P] PERF  [Q] QUIT", 20, int(h)-30, 14, ColTextDim)
}

func (a *App) drawText(text string, x, y int, size int, color rl.Color) {
	rl.DrawTextEx(a.Font, text, rl.NewVector2(float32(x), float32(y)), float32(size), 1, color)
}

// drawCentered draws text horizontally centered at row y.
func (a *App) drawCentered(text string, y, size int, color rl.Color) {
	m := rl.MeasureTextEx(a.Font, text, float32(size), 1)
	x := (float32(rl.GetScreenWidth()) - m.X) / 2
	rl.DrawTextEx(a.Font, text, rl.NewVector2(x, float32(y)), float32(size), 1, color)
}

func (a *App) drawHeader() {
	locale := a.Card.Timer.Locale()
	a.drawCentered(locale.Message(countdown.MsgTitle), 40, 40, ColText)
	display := a.Card.Timer.Display()
	switch {
	case display.CelebrationVisible:
		a.drawCentered(display.Text, 100, 36, rl.Gold)
	case display.TimerVisible:
		a.drawCentered(display.Text, 100, 24, ColText)
	}
}

// drawModal dims the card and shows msg in a framed box until a key is pressed.
func (a *App) drawModal(msg string) {
	w, h := float32(rl.GetScreenWidth()), float32(rl.GetScreenHeight())
	rl.DrawRectangle(0, 0, int32(w), int32(h), rl.ColorAlpha(rl.Black, 0.6))

	bw, bh := min(w-40, 520), float32(140)
	box := rl.NewRectangle((w-bw)/2, (h-bh)/2, bw, bh)
	rl.DrawRectangleRec(box, ColPanel)
	rl.DrawRectangleLinesEx(box, 2, ColText)

	y := int(box.Y) + 20
	for _, line := range wrap(a.Font, msg, 18, bw-40) {
		a.drawText(line, int(box.X)+20, y, 18, ColText)
		y += 24
	}
	a.drawText("press any key", int(box.X)+20, int(box.Y+bh)-30, 14, ColTextDim)
}

func wrap(font rl.Font, text string, size, width float32) []string {
	var lines []string
	line := ""
	for _, word := range strings.Fields(text) {
		next := word
		if line != "" {
			next = line + " " + word
		}
		if line != "" && rl.MeasureTextEx(font, next, size, 1).X > width {
			lines = append(lines, line)
			next = word
		}
		line = next
	}
	if line != "" {
		lines = append(lines, line)
	}
	return lines
}

func toRL(c gradient.Color, alpha uint8) rl.Color {
	return rl.NewColor(c.R, c.G, c.B, alpha)
}

func hexRL(s string) rl.Color {
	c, err := gradient.ParseHex(s)
	if err != nil {
		return rl.Magenta
	}
	return toRL(c, 255)
}
