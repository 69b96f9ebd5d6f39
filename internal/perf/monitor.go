// Package perf samples frame rate, long frames and heap size of the running
// card and reports them on a fixed interval.
package perf

import (
	"context"
	"fmt"
	"io"
	"log"
	"runtime"
	"sync"
	"time"
)

const (
	DefaultInterval = 5 * time.Second
	// LongTaskThreshold marks a frame whose work blocked the loop noticeably.
	LongTaskThreshold = 50 * time.Millisecond

	historyCapacity  = 120
	intervalCapacity = 1024
)

// Snapshot is one report.
type Snapshot struct {
	HeapUsedMB  float64
	HeapTotalMB float64

	CPU      float64
	CPUKnown bool
	MaxCPU   float64
	AvgCPU   float64

	FPS    int
	MaxFPS int
	AvgFPS float64
}

// Lines renders the snapshot the way the monitor logs it.
func (s Snapshot) Lines() []string {
	cpu, avgCPU := "N/A", "N/A"
	if s.CPUKnown {
		cpu = fmt.Sprintf("%.2f%%", s.CPU)
		avgCPU = fmt.Sprintf("%.2f%%", s.AvgCPU)
	}
	return []string{
		"Performance Monitoring:",
		fmt.Sprintf("- Heap Size: %.2f MB used / %.2f MB total", s.HeapUsedMB, s.HeapTotalMB),
		fmt.Sprintf("- CPU Usage: %s (Max: %.2f%%, Avg: %s)", cpu, s.MaxCPU, avgCPU),
		fmt.Sprintf("- Frame Rate: %d fps (Max: %d, Avg: %.2f)", s.FPS, s.MaxFPS, s.AvgFPS),
	}
}

// Monitor collects per-frame samples from the render loop and reports on its
// own goroutine. Frame and Sample are safe to call concurrently.
type Monitor struct {
	interval time.Duration
	logger   *log.Logger
	memStats func() (used, total uint64)

	mu         sync.Mutex
	frames     []time.Time
	lastFrame  time.Time
	longTasks  time.Duration
	maxFPS     int
	totalFPS   float64
	fpsSamples int
	cpu        float64
	cpuKnown   bool
	maxCPU     float64
	totalCPU   float64
	cpuSamples int
	history    []float64
	intervals  []float64
	last       Snapshot

	running bool
	cancel  context.CancelFunc
	done    chan struct{}
}

func NewMonitor(interval time.Duration, logger *log.Logger) *Monitor {
	if interval <= 0 {
		interval = DefaultInterval
	}
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Monitor{
		interval: interval,
		logger:   logger,
		memStats: readHeap,
		frames:   make([]time.Time, 0, 128),
	}
}

func readHeap() (used, total uint64) {
	var ms runtime.MemStats
	runtime.ReadMemStats(&ms)
	return ms.HeapAlloc, ms.HeapSys
}

func (m *Monitor) Interval() time.Duration { return m.interval }

// Frame records a rendered frame at now that took work to produce.
func (m *Monitor) Frame(now time.Time, work time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.lastFrame.IsZero() {
		m.intervals = appendCapped(m.intervals, float64(now.Sub(m.lastFrame))/float64(time.Millisecond), intervalCapacity)
	}
	m.lastFrame = now

	m.frames = append(m.frames, now)
	cut := 0
	for cut < len(m.frames) && now.Sub(m.frames[cut]) > time.Second {
		cut++
	}
	m.frames = append(m.frames[:0], m.frames[cut:]...)

	fps := len(m.frames)
	m.maxFPS = max(m.maxFPS, fps)
	m.totalFPS += float64(fps)
	m.fpsSamples++

	if work > LongTaskThreshold {
		m.longTasks += work
	}
}

// Sample closes the current interval and returns its snapshot.
func (m *Monitor) Sample() Snapshot {
	used, total := m.memStats()

	m.mu.Lock()
	defer m.mu.Unlock()

	m.cpu = float64(m.longTasks) / float64(m.interval) * 100
	m.longTasks = 0
	m.cpuKnown = true
	m.maxCPU = max(m.maxCPU, m.cpu)
	m.totalCPU += m.cpu
	m.cpuSamples++

	fps := len(m.frames)
	m.history = appendCapped(m.history, float64(fps), historyCapacity)

	s := Snapshot{
		HeapUsedMB:  float64(used) / 1024 / 1024,
		HeapTotalMB: float64(total) / 1024 / 1024,
		CPU:         m.cpu,
		CPUKnown:    m.cpuKnown,
		MaxCPU:      m.maxCPU,
		AvgCPU:      m.totalCPU / float64(m.cpuSamples),
		FPS:         fps,
		MaxFPS:      m.maxFPS,
	}
	if m.fpsSamples > 0 {
		s.AvgFPS = m.totalFPS / float64(m.fpsSamples)
	}
	m.last = s
	return s
}

// Last is the most recent report, or the zero Snapshot before the first one.
func (m *Monitor) Last() Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.last
}

// FPS is the number of frames seen in the last second.
func (m *Monitor) FPS() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.frames)
}

// History returns the fps recorded at each past report.
func (m *Monitor) History() []float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]float64, len(m.history))
	copy(out, m.history)
	return out
}

// Intervals returns the recent frame-to-frame intervals in milliseconds.
func (m *Monitor) Intervals() []float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]float64, len(m.intervals))
	copy(out, m.intervals)
	return out
}

// Start logs a report every interval until Stop or ctx ends. Calling Start
// on a running monitor does nothing.
func (m *Monitor) Start(ctx context.Context) {
	m.mu.Lock()
	if m.running {
		m.mu.Unlock()
		return
	}
	ctx, cancel := context.WithCancel(ctx)
	m.running = true
	m.cancel = cancel
	m.done = make(chan struct{})
	done := m.done
	m.mu.Unlock()

	go func() {
		defer close(done)
		defer func() {
			m.mu.Lock()
			if m.done == done {
				m.running = false
			}
			m.mu.Unlock()
		}()
		ticker := time.NewTicker(m.interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				for _, line := range m.Sample().Lines() {
					m.logger.Println(line)
				}
			}
		}
	}()
}

// Stop ends reporting and waits for the reporter to exit.
func (m *Monitor) Stop() {
	m.mu.Lock()
	if !m.running {
		m.mu.Unlock()
		return
	}
	m.running = false
	cancel, done := m.cancel, m.done
	m.mu.Unlock()

	cancel()
	<-done
}

func (m *Monitor) Running() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.running
}

func appendCapped(s []float64, v float64, capacity int) []float64 {
	s = append(s, v)
	if len(s) > capacity {
		s = s[len(s)-capacity:]
	}
	return s
}
