package perf

import (
	"bytes"
	"context"
	"log"
	"strings"
	"sync"
	"testing"
	"time"
)

func fixedHeap(used, total uint64) func() (uint64, uint64) {
	return func() (uint64, uint64) { return used, total }
}

func TestFrameRateWindow(t *testing.T) {
	m := NewMonitor(time.Second, nil)
	start := time.Unix(1000, 0)

	for i := 0; i < 30; i++ {
		m.Frame(start.Add(time.Duration(i)*10*time.Millisecond), time.Millisecond)
	}
	if got := m.FPS(); got != 30 {
		t.Errorf("FPS = %d, want 30", got)
	}

	// a frame two seconds later drops everything older than one second
	m.Frame(start.Add(2*time.Second), time.Millisecond)
	if got := m.FPS(); got != 1 {
		t.Errorf("FPS after gap = %d, want 1", got)
	}
}

func TestSampleCPUFromLongTasks(t *testing.T) {
	m := NewMonitor(5*time.Second, nil)
	m.memStats = fixedHeap(10<<20, 20<<20)
	now := time.Unix(0, 0)

	m.Frame(now, 100*time.Millisecond)
	m.Frame(now.Add(time.Millisecond), 40*time.Millisecond) // below threshold
	s := m.Sample()

	if !s.CPUKnown {
		t.Fatal("CPU should be known after a sample")
	}
	if s.CPU != 2 {
		t.Errorf("CPU = %v, want 2", s.CPU)
	}
	if s.HeapUsedMB != 10 || s.HeapTotalMB != 20 {
		t.Errorf("heap = %v/%v, want 10/20", s.HeapUsedMB, s.HeapTotalMB)
	}

	s = m.Sample()
	if s.CPU != 0 {
		t.Errorf("second CPU = %v, want 0", s.CPU)
	}
	if s.MaxCPU != 2 || s.AvgCPU != 1 {
		t.Errorf("max/avg = %v/%v, want 2/1", s.MaxCPU, s.AvgCPU)
	}
}

func TestSnapshotLines(t *testing.T) {
	tests := []struct {
		name string
		snap Snapshot
		want []string
	}{
		{
			name: "no cpu sample",
			snap: Snapshot{HeapUsedMB: 1.5, HeapTotalMB: 4, FPS: 60, MaxFPS: 61, AvgFPS: 59.5},
			want: []string{
				"Performance Monitoring:",
				"- Heap Size: 1.50 MB used / 4.00 MB total",
				"- CPU Usage: N/A (Max: 0.00%, Avg: N/A)",
				"- Frame Rate: 60 fps (Max: 61, Avg: 59.50)",
			},
		},
		{
			name: "with cpu",
			snap: Snapshot{CPU: 1.234, CPUKnown: true, MaxCPU: 3, AvgCPU: 2, FPS: 1, MaxFPS: 1, AvgFPS: 1},
			want: []string{
				"Performance Monitoring:",
				"- Heap Size: 0.00 MB used / 0.00 MB total",
				"- CPU Usage: 1.23% (Max: 3.00%, Avg: 2.00%)",
				"- Frame Rate: 1 fps (Max: 1, Avg: 1.00)",
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.snap.Lines()
			if strings.Join(got, "\n") != strings.Join(tt.want, "\n") {
				t.Errorf("Lines() =\n%s\nwant\n%s", strings.Join(got, "\n"), strings.Join(tt.want, "\n"))
			}
		})
	}
}

type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func TestStartStop(t *testing.T) {
	var out syncBuffer
	m := NewMonitor(5*time.Millisecond, log.New(&out, "", 0))
	m.memStats = fixedHeap(0, 0)

	m.Start(context.Background())
	m.Start(context.Background())
	if !m.Running() {
		t.Fatal("monitor should be running")
	}

	deadline := time.Now().Add(2 * time.Second)
	for !strings.Contains(out.String(), "Performance Monitoring:") {
		if time.Now().After(deadline) {
			t.Fatal("no report logged")
		}
		time.Sleep(time.Millisecond)
	}

	m.Stop()
	m.Stop()
	if m.Running() {
		t.Error("monitor still running after Stop")
	}
	if len(m.History()) == 0 {
		t.Error("history should record reported fps")
	}
}

func TestStopOnContextCancel(t *testing.T) {
	m := NewMonitor(time.Hour, nil)
	ctx, cancel := context.WithCancel(context.Background())
	m.Start(ctx)
	cancel()
	m.Stop()
	if m.Running() {
		t.Error("monitor still running")
	}
}

func TestRestartAfterContextEnds(t *testing.T) {
	var out syncBuffer
	m := NewMonitor(5*time.Millisecond, log.New(&out, "", 0))
	m.memStats = fixedHeap(0, 0)

	ctx, cancel := context.WithCancel(context.Background())
	m.Start(ctx)
	cancel()

	deadline := time.Now().Add(2 * time.Second)
	for m.Running() {
		if time.Now().After(deadline) {
			t.Fatal("monitor still running after its context ended")
		}
		time.Sleep(time.Millisecond)
	}

	before := len(out.String())
	m.Start(context.Background())
	defer m.Stop()
	if !m.Running() {
		t.Fatal("restart did not take")
	}
	for len(out.String()) == before {
		if time.Now().After(deadline) {
			t.Fatal("no report logged after restart")
		}
		time.Sleep(time.Millisecond)
	}
}

func TestIntervalsRecorded(t *testing.T) {
	m := NewMonitor(0, nil)
	if m.Interval() != DefaultInterval {
		t.Errorf("Interval() = %v, want %v", m.Interval(), DefaultInterval)
	}
	now := time.Unix(0, 0)
	for i := 0; i < 4; i++ {
		m.Frame(now.Add(time.Duration(i)*20*time.Millisecond), 0)
	}
	got := m.Intervals()
	if len(got) != 3 {
		t.Fatalf("len = %d, want 3", len(got))
	}
	for _, v := range got {
		if v != 20 {
			t.Errorf("interval = %v, want 20", v)
		}
	}
}

func TestLastKeepsLatestSample(t *testing.T) {
	m := NewMonitor(time.Second, nil)
	m.memStats = fixedHeap(0, 0)
	if m.Last().CPUKnown {
		t.Fatal("no sample yet")
	}
	m.Frame(time.Unix(0, 0), 0)
	s := m.Sample()
	if m.Last() != s {
		t.Errorf("Last() = %+v, want %+v", m.Last(), s)
	}
}
