package sched

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestDebouncerPollDeliversLastAfterQuiet(t *testing.T) {
	d := NewDebouncer[int](100 * time.Millisecond)
	t0 := time.Unix(0, 0)

	d.Signal(t0, 1)
	d.Signal(t0.Add(30*time.Millisecond), 2)
	d.Signal(t0.Add(60*time.Millisecond), 3)

	if _, ok := d.Poll(t0.Add(150 * time.Millisecond)); ok {
		t.Fatal("delivered before the quiet period after the last signal")
	}
	v, ok := d.Poll(t0.Add(160 * time.Millisecond))
	if !ok || v != 3 {
		t.Fatalf("Poll = (%d, %v), want (3, true)", v, ok)
	}
	if _, ok := d.Poll(t0.Add(time.Second)); ok {
		t.Error("delivered twice")
	}
}

func TestDebouncerSettleIgnoresStaleSequence(t *testing.T) {
	d := NewDebouncer[string](DefaultResizeWait)
	now := time.Now()

	first := d.Signal(now, "80x24")
	second := d.Signal(now, "120x40")

	if _, ok := d.Settle(first); ok {
		t.Error("stale sequence must not settle")
	}
	if !d.Pending() {
		t.Error("expected pending after stale settle")
	}
	v, ok := d.Settle(second)
	if !ok || v != "120x40" {
		t.Fatalf("Settle = (%q, %v)", v, ok)
	}
	if _, ok := d.Settle(second); ok {
		t.Error("settled twice")
	}
}

func TestEveryStopsWhenFnDeclines(t *testing.T) {
	calls := 0
	err := Every(context.Background(), time.Millisecond, func(time.Time) bool {
		calls++
		return calls < 3
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if calls != 3 {
		t.Errorf("expected 3 calls, got %d", calls)
	}
}

func TestEveryHonorsContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	calls := 0
	err := Every(ctx, time.Hour, func(time.Time) bool {
		calls++
		cancel()
		return true
	})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
	if calls != 1 {
		t.Errorf("expected 1 call, got %d", calls)
	}
}

func TestEveryRejectsZeroInterval(t *testing.T) {
	if err := Every(context.Background(), 0, func(time.Time) bool { return false }); err == nil {
		t.Error("expected error")
	}
}
