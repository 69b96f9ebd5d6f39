package viz

import (
	"fmt"
	"image"
	"image/color"
	"image/gif"
	"os"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/san-kum/snowfall/internal/countdown"
	"github.com/san-kum/snowfall/internal/gradient"
	"github.com/san-kum/snowfall/internal/perf"
	"github.com/san-kum/snowfall/internal/screen"
	"github.com/san-kum/snowfall/internal/sim"
	"github.com/san-kum/snowfall/internal/snow"
	"github.com/san-kum/snowfall/internal/tree"
)

const (
	// dotScale is surface pixels per Braille dot: a cell is 8x16 pixels and 2x4 dots.
	dotScale = float64(screen.CellWidth) / 2

	maxGIFFrames = 600
	iconRune     = '▲'
)

type TickMsg time.Time

type countdownMsg time.Time

type resizeMsg struct{ seq uint64 }

type cell struct {
	r    rune
	fg   lipgloss.Color
	bold bool
}

// Model is the Bubble Tea program of the terminal card.
type Model struct {
	card     *sim.Card
	tree     *tree.Tree
	interval time.Duration
	gifPath  string

	sized      bool
	cols, rows int
	canvas     *Canvas
	treeCells  [][]tree.Cell
	treeCol    int
	treeRow    int
	icons      map[int]bool
	segs       []snow.Segment

	running   bool
	showPerf  bool
	showHelp  bool
	warned    bool
	warning   bool
	recording bool
	frames    []*image.Paletted
}

// NewModel lays the card out for its current size. Real sizing happens on
// the first window size message.
func NewModel(card *sim.Card, t *tree.Tree) Model {
	if t == nil {
		t = tree.New(0, 0, nil)
	}
	m := Model{
		card:     card,
		tree:     t,
		interval: card.Config().FrameInterval(),
		gifPath:  "snowfall.gif",
		running:  true,
		segs:     make([]snow.Segment, 0, 64),
	}
	s := card.Size()
	m.layout(int(s.W)/screen.CellWidth, int(s.H)/screen.CellHeight)
	return m
}

// WithGIFPath sets where G recordings are written.
func (m Model) WithGIFPath(path string) Model {
	m.gifPath = path
	return m
}

func (m Model) tick() tea.Cmd {
	return tea.Tick(m.interval, func(t time.Time) tea.Msg { return TickMsg(t) })
}

func countdownTick() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg { return countdownMsg(t) })
}

func (m Model) Init() tea.Cmd {
	if m.card.Timer.Expired() {
		return m.tick()
	}
	return tea.Batch(m.tick(), countdownTick())
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		if m.warning {
			m.warning = false
			return m, nil
		}
		switch msg.String() {
		case "q", "esc":
			return m, tea.Quit
		case " ":
			m.running = !m.running
		case "p":
			m.showPerf = !m.showPerf
		case "?":
			m.showHelp = !m.showHelp
		case "t":
			SetTheme(nextTheme(CurrentTheme.Name))
		case "g":
			if m.recording {
				if err := m.saveGIF(); err != nil {
					m.card.Logger().Printf("Save recording: %v", err)
				}
				m.recording = false
				m.frames = nil
			} else {
				m.recording = true
				m.frames = make([]*image.Paletted, 0, 64)
			}
		}

	case tea.WindowSizeMsg:
		if !m.sized {
			m.sized = true
			m.layout(msg.Width, msg.Height)
			return m, nil
		}
		size := sim.Size{W: float64(msg.Width), H: float64(msg.Height)}
		seq := m.card.Resize.Signal(time.Now(), size)
		return m, tea.Tick(m.card.Resize.Wait(), func(time.Time) tea.Msg { return resizeMsg{seq: seq} })

	case resizeMsg:
		if size, ok := m.card.Resize.Settle(msg.seq); ok {
			m.layout(int(size.W), int(size.H))
		}

	case TickMsg:
		now := time.Time(msg)
		if m.running {
			start := time.Now()
			m.draw(now)
			m.card.Frame(now, time.Since(start))
			if m.recording && len(m.frames) < maxGIFFrames {
				m.captureFrame()
			}
		}
		return m, m.tick()

	case countdownMsg:
		if m.card.TickCountdown(time.Time(msg)) {
			return m, countdownTick()
		}
	}
	return m, nil
}

// layout sizes everything that depends on the terminal dimensions.
func (m *Model) layout(cols, rows int) {
	cols, rows = max(cols, 0), max(rows, 0)
	m.cols, m.rows = cols, rows
	m.canvas = NewCanvas(cols, rows)
	if cols == 0 || rows == 0 {
		return
	}

	if err := m.card.SetSize(sim.Size{W: float64(cols * screen.CellWidth), H: float64(rows * screen.CellHeight)}); err != nil {
		m.card.Logger().Printf("Resize: %v", err)
	}

	m.treeCells = nil
	treeRows := rows * 55 / 100
	// cells are twice as tall as wide; the tree crop is 170x240
	treeCols := min(treeRows*170*2/240, cols-4)
	if treeRows >= 3 && treeCols >= 3 {
		m.treeCells = m.tree.Rasterize(treeCols, treeRows)
		m.treeRow = rows - treeRows - 1
		m.treeCol = (cols - treeCols) / 2
	}

	m.icons = make(map[int]bool)
	for _, p := range m.card.BorderIcons() {
		c, r := int(p.X)/screen.CellWidth, int(p.Y)/screen.CellHeight
		if c >= 0 && c < cols && r >= 0 && r < rows {
			m.icons[r*cols+c] = true
		}
	}

	if !m.warned && m.card.WarnIfSmall(m.card.Screen.TooSmallCells(cols, rows)) {
		m.warned = true
		m.warning = true
	}
}

func (m *Model) draw(now time.Time) {
	m.canvas.Clear()
	m.card.Step(now, func(p *snow.Particle) {
		m.segs = p.Segments(m.segs[:0])
		for _, s := range m.segs {
			m.canvas.DrawSegment(s.X0, s.Y0, s.X1, s.Y1, dotScale)
		}
	})
}

func (m Model) Size() (cols, rows int) { return m.cols, m.rows }
func (m Model) Running() bool          { return m.running }
func (m Model) Warning() bool          { return m.warning }

// View renders the card. Text sits over the tree, the tree over the border
// icons, and the icons over the snow.
func (m Model) View() string {
	if m.cols == 0 || m.rows == 0 {
		return ""
	}
	bg := lipgloss.Color(m.card.Fill().Hex())
	theme := CurrentTheme

	if m.warning {
		modal := modalStyle.
			BorderForeground(theme.ModalFrame).
			Foreground(theme.Warning).
			Render(m.card.Timer.Locale().Message(countdown.MsgCompatWarning) + "\n\n" +
				keyHint.Render("press any key"))
		return lipgloss.Place(m.cols, m.rows, lipgloss.Center, lipgloss.Center, modal,
			lipgloss.WithWhitespaceBackground(bg))
	}

	grid := m.compose(theme)
	lines := make([]string, m.rows)
	for r, row := range grid {
		lines[r] = renderRow(row, bg)
	}

	if panel := m.panel(); panel != "" {
		lines = overlayBottom(lines, panel, m.cols, bg)
	}
	return strings.Join(lines, "\n")
}

func (m Model) compose(theme Theme) [][]cell {
	grid := make([][]cell, m.rows)
	for r := range grid {
		grid[r] = make([]cell, m.cols)
		for c := range grid[r] {
			if !m.canvas.Empty(c, r) {
				grid[r][c] = cell{r: m.canvas.Grid[r][c], fg: theme.Snow}
			} else {
				grid[r][c] = cell{r: ' '}
			}
			if m.icons[r*m.cols+c] {
				grid[r][c] = cell{r: iconRune, fg: theme.Icon}
			}
		}
	}

	for r, row := range m.treeCells {
		for c, tc := range row {
			if tc.Rune == 0 {
				continue
			}
			gr, gc := m.treeRow+r, m.treeCol+c
			if gr >= 0 && gr < m.rows && gc >= 0 && gc < m.cols {
				grid[gr][gc] = cell{r: tc.Rune, fg: lipgloss.Color(tc.Color), bold: tc.Rune == '*'}
			}
		}
	}

	locale := m.card.Timer.Locale()
	if m.rows > 2 {
		m.placeGradient(grid[1], locale.Message(countdown.MsgTitle), theme.Title, theme.TitleEnd)
	}
	display := m.card.Timer.Display()
	if m.rows > 3 {
		switch {
		case display.CelebrationVisible:
			m.placeGradient(grid[3], display.Text, theme.TitleEnd, theme.Title)
		case display.TimerVisible:
			placeText(grid[3], display.Text, theme.Text, false)
		}
	}
	return grid
}

func placeText(row []cell, text string, fg lipgloss.Color, bold bool) {
	runes := []rune(text)
	start := max((len(row)-len(runes))/2, 0)
	for i, r := range runes {
		if start+i >= len(row) {
			break
		}
		row[start+i] = cell{r: r, fg: fg, bold: bold}
	}
}

func (m Model) placeGradient(row []cell, text string, from, to lipgloss.Color) {
	placeText(row, text, from, true)
	a, errA := gradient.ParseHex(string(from))
	b, errB := gradient.ParseHex(string(to))
	if errA != nil || errB != nil {
		return
	}
	runes := []rune(text)
	start := max((len(row)-len(runes))/2, 0)
	for i := range runes {
		if start+i >= len(row) {
			break
		}
		f := 0.0
		if len(runes) > 1 {
			f = float64(i) / float64(len(runes)-1)
		}
		row[start+i].fg = lipgloss.Color(gradient.Lerp(a, b, f).Hex())
	}
}

// renderRow styles runs of equally colored cells together.
func renderRow(row []cell, bg lipgloss.Color) string {
	var b strings.Builder
	var run []rune
	flush := func(c cell) {
		if len(run) == 0 {
			return
		}
		style := lipgloss.NewStyle().Background(bg)
		if c.fg != "" {
			style = style.Foreground(c.fg)
		}
		if c.bold {
			style = style.Bold(true)
		}
		b.WriteString(style.Render(string(run)))
		run = run[:0]
	}
	for i, c := range row {
		if i > 0 && (c.fg != row[i-1].fg || c.bold != row[i-1].bold) {
			flush(row[i-1])
		}
		run = append(run, c.r)
	}
	if len(row) > 0 {
		flush(row[len(row)-1])
	}
	return b.String()
}

func (m Model) panel() string {
	var parts []string
	if m.showPerf {
		mon := m.card.Monitor
		snap := mon.Last()
		lines := []string{GradientText("performance", CurrentTheme.Title, CurrentTheme.TitleEnd)}
		lines = append(lines, metricLine("fps", fmt.Sprintf("%d", mon.FPS())))
		for _, l := range snap.Lines()[1:] {
			lines = append(lines, metricLabel.Render(l))
		}
		if chart := perf.Chart(mon.History(), 30, 4, "fps per report"); chart != "" {
			lines = append(lines, chart)
		}
		parts = append(parts, strings.Join(lines, "\n"))
	}
	if m.showHelp {
		parts = append(parts, keyHint.Render("space pause · p perf · t theme · g record gif · ? help · q quit"))
	}
	if !m.running {
		parts = append(parts, keyHint.Render("paused"))
	}
	if m.recording {
		parts = append(parts, keyHint.Render(fmt.Sprintf("● recording %d frames", len(m.frames))))
	}
	if len(parts) == 0 {
		return ""
	}
	return panelStyle.Render(strings.Join(parts, "\n"))
}

// overlayBottom replaces the last lines of the card with the panel.
func overlayBottom(lines []string, panel string, width int, bg lipgloss.Color) []string {
	pl := strings.Split(panel, "\n")
	if len(pl) > len(lines) {
		pl = pl[len(pl)-len(lines):]
	}
	fill := lipgloss.NewStyle().Background(bg).Width(width).MaxWidth(width)
	offset := len(lines) - len(pl)
	for i, l := range pl {
		lines[offset+i] = fill.Render(l)
	}
	return lines
}

func (m *Model) captureFrame() {
	charW, charH := screen.CellWidth, screen.CellHeight
	imgW, imgH := m.cols*charW, m.rows*charH
	bg := m.card.Fill()
	palette := color.Palette{
		color.RGBA{R: bg.R, G: bg.G, B: bg.B, A: 255},
		color.White,
	}
	img := image.NewPaletted(image.Rect(0, 0, imgW, imgH), palette)
	dotW, dotH := charW/2, charH/4
	for row := 0; row < m.rows; row++ {
		for col := 0; col < m.cols; col++ {
			pattern := int(m.canvas.Grid[row][col] - blank)
			if pattern == 0 {
				continue
			}
			baseX, baseY := col*charW, row*charH
			for dy := 0; dy < 4; dy++ {
				for dx := 0; dx < 2; dx++ {
					if pattern&pixelMap[dy][dx] == 0 {
						continue
					}
					for py := 0; py < dotH; py++ {
						for px := 0; px < dotW; px++ {
							img.SetColorIndex(baseX+dx*dotW+px, baseY+dy*dotH+py, 1)
						}
					}
				}
			}
		}
	}
	m.frames = append(m.frames, img)
}

func (m *Model) saveGIF() error {
	if len(m.frames) == 0 {
		return nil
	}
	delay := max(int(m.interval/(10*time.Millisecond)), 1)
	anim := gif.GIF{LoopCount: 0}
	for _, frame := range m.frames {
		anim.Image = append(anim.Image, frame)
		anim.Delay = append(anim.Delay, delay)
	}
	f, err := os.Create(m.gifPath)
	if err != nil {
		return err
	}
	defer f.Close()
	return gif.EncodeAll(f, &anim)
}
