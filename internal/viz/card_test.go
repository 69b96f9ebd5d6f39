package viz

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/san-kum/snowfall/internal/config"
	"github.com/san-kum/snowfall/internal/sim"
)

var start = time.Date(2024, 12, 31, 12, 0, 0, 0, time.UTC)

func newTestModel(t *testing.T, mutate func(*config.Config)) Model {
	t.Helper()
	cfg := config.DefaultConfig()
	cfg.Seed = 11
	cfg.Countdown.Locale = "en"
	if mutate != nil {
		mutate(cfg)
	}
	card, err := sim.NewCard(sim.CardOptions{Config: cfg, Size: sim.Size{W: 640, H: 384}, Now: start})
	if err != nil {
		t.Fatalf("NewCard: %v", err)
	}
	return NewModel(card, nil)
}

func update(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	return next.(Model), cmd
}

func key(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestModelFirstSizeAppliesImmediately(t *testing.T) {
	m := newTestModel(t, nil)
	m, cmd := update(t, m, tea.WindowSizeMsg{Width: 100, Height: 30})
	if cmd != nil {
		t.Error("first size should not be debounced")
	}
	if c, r := m.Size(); c != 100 || r != 30 {
		t.Errorf("size = %dx%d", c, r)
	}
	if w, h := m.card.Field.Size(); w != 800 || h != 480 {
		t.Errorf("field size = %gx%g, want 800x480", w, h)
	}
}

func TestModelDebouncesResize(t *testing.T) {
	m := newTestModel(t, nil)
	m, _ = update(t, m, tea.WindowSizeMsg{Width: 100, Height: 30})

	m, cmd := update(t, m, tea.WindowSizeMsg{Width: 90, Height: 28})
	if cmd == nil {
		t.Fatal("resize should schedule a settle")
	}
	m, _ = update(t, m, tea.WindowSizeMsg{Width: 120, Height: 40})
	if c, _ := m.Size(); c != 100 {
		t.Errorf("size applied before settling: %d cols", c)
	}

	// the first signal is stale
	m, _ = update(t, m, resizeMsg{seq: 1})
	if c, _ := m.Size(); c != 100 {
		t.Errorf("stale resize applied: %d cols", c)
	}
	m, _ = update(t, m, resizeMsg{seq: 2})
	if c, r := m.Size(); c != 120 || r != 40 {
		t.Errorf("size = %dx%d, want 120x40", c, r)
	}
}

func TestModelTickDrawsSnowAndReschedules(t *testing.T) {
	m := newTestModel(t, nil)
	m, _ = update(t, m, tea.WindowSizeMsg{Width: 80, Height: 24})

	var cmd tea.Cmd
	for i := 0; i < 600; i++ {
		m, cmd = update(t, m, TickMsg(start.Add(time.Duration(i)*16*time.Millisecond)))
		if cmd == nil {
			t.Fatal("tick must reschedule")
		}
	}

	drawn := 0
	for r := 0; r < 24; r++ {
		for c := 0; c < 80; c++ {
			if !m.canvas.Empty(c, r) {
				drawn++
			}
		}
	}
	if drawn == 0 {
		t.Error("no snow on the canvas after 10 seconds")
	}
	if m.card.Monitor.FPS() == 0 {
		t.Error("frames not recorded")
	}
	if m.card.Frames() != 600 {
		t.Errorf("card stepped %d times", m.card.Frames())
	}
}

func TestModelPauseFreezesSnow(t *testing.T) {
	m := newTestModel(t, nil)
	m, _ = update(t, m, key(" "))
	if m.Running() {
		t.Fatal("space should pause")
	}
	m, _ = update(t, m, TickMsg(start))
	if m.card.Frames() != 0 {
		t.Error("paused card advanced")
	}
	if !strings.Contains(m.View(), "paused") {
		t.Error("paused hint missing")
	}
}

func TestModelQuitKeys(t *testing.T) {
	for _, k := range []tea.KeyMsg{key("q"), {Type: tea.KeyCtrlC}, {Type: tea.KeyEsc}} {
		m := newTestModel(t, nil)
		_, cmd := update(t, m, k)
		if cmd == nil {
			t.Fatalf("%s: expected quit", k)
		}
		if _, ok := cmd().(tea.QuitMsg); !ok {
			t.Errorf("%s: expected QuitMsg", k)
		}
	}
}

func TestModelWarningModal(t *testing.T) {
	m := newTestModel(t, nil)
	m, _ = update(t, m, tea.WindowSizeMsg{Width: 40, Height: 12})
	if !m.Warning() {
		t.Fatal("small terminal should raise the warning")
	}
	if !strings.Contains(m.View(), "press any key") {
		t.Error("modal not rendered")
	}

	m, cmd := update(t, m, key("q"))
	if cmd != nil {
		t.Error("dismissing key must not quit")
	}
	if m.Warning() {
		t.Error("any key should dismiss the warning")
	}

	m, _ = update(t, m, tea.WindowSizeMsg{Width: 30, Height: 10})
	m, _ = update(t, m, resizeMsg{seq: 1})
	if m.Warning() {
		t.Error("warning is shown only once")
	}
}

func TestModelViewShowsCountdown(t *testing.T) {
	m := newTestModel(t, nil)
	m, _ = update(t, m, tea.WindowSizeMsg{Width: 100, Height: 30})
	m, _ = update(t, m, countdownMsg(start))

	view := m.View()
	if got := strings.Count(view, "\n"); got != 29 {
		t.Errorf("view has %d line breaks, want 29", got)
	}
	// the default target is midnight at UTC+4, eight hours after start
	if !strings.Contains(view, "0 days, 8 hours, 0 minutes, 0 seconds") {
		t.Errorf("countdown missing from view:\n%s", view)
	}
}

func TestModelCountdownStopsAfterCelebration(t *testing.T) {
	m := newTestModel(t, func(c *config.Config) {
		c.Countdown.Target = start.Add(2 * time.Second).Format(time.RFC3339)
	})
	m, _ = update(t, m, tea.WindowSizeMsg{Width: 100, Height: 30})

	m, cmd := update(t, m, countdownMsg(start.Add(time.Second)))
	if cmd == nil {
		t.Fatal("countdown should keep ticking")
	}
	m, cmd = update(t, m, countdownMsg(start.Add(2*time.Second)))
	if cmd != nil {
		t.Error("countdown must stop at the target")
	}
	if !strings.Contains(m.View(), "Happy New Year!") {
		t.Error("celebration missing")
	}
	if cmd := m.Init(); cmd == nil {
		t.Error("animation keeps running after the celebration")
	}
}

func TestModelPerfPanelAndTheme(t *testing.T) {
	m := newTestModel(t, nil)
	m, _ = update(t, m, tea.WindowSizeMsg{Width: 100, Height: 30})
	m, _ = update(t, m, key("p"))
	if !strings.Contains(m.View(), "Heap Size") {
		t.Error("perf panel missing")
	}

	before := CurrentTheme.Name
	update(t, m, key("t"))
	if CurrentTheme.Name == before {
		t.Error("theme did not change")
	}
	SetTheme(before)
}

func TestModelRecordsGIF(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rec.gif")
	m := newTestModel(t, nil).WithGIFPath(path)
	m, _ = update(t, m, tea.WindowSizeMsg{Width: 20, Height: 10})
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	m, _ = update(t, m, key("g"))
	for i := 0; i < 3; i++ {
		m, _ = update(t, m, TickMsg(start.Add(time.Duration(i)*16*time.Millisecond)))
	}
	if len(m.frames) != 3 {
		t.Fatalf("captured %d frames", len(m.frames))
	}
	m, _ = update(t, m, key("g"))
	if m.recording {
		t.Error("still recording")
	}
	if info, err := os.Stat(path); err != nil || info.Size() == 0 {
		t.Fatalf("recording not written: %v", err)
	}
}
