package snow

import (
	"errors"
	"testing"
)

func TestPoolAcquireFreshWhenEmpty(t *testing.T) {
	p := NewPool(4)

	for i := 0; i < 3; i++ {
		idx, fresh := p.Acquire()
		if !fresh {
			t.Errorf("acquire %d: expected fresh particle from empty pool", i)
		}
		if idx != i {
			t.Errorf("expected index %d, got %d", i, idx)
		}
	}
	if p.Allocated() != 3 {
		t.Errorf("expected 3 allocated, got %d", p.Allocated())
	}
}

func TestPoolReuse(t *testing.T) {
	p := NewPool(0)
	a, _ := p.Acquire()
	b, _ := p.Acquire()

	if err := p.Release(a); err != nil {
		t.Fatalf("release: %v", err)
	}
	if p.Active(a) {
		t.Error("released index still reported active")
	}
	if p.Free() != 1 {
		t.Errorf("expected 1 free, got %d", p.Free())
	}

	idx, fresh := p.Acquire()
	if fresh {
		t.Error("expected recycled particle")
	}
	if idx != a {
		t.Errorf("expected recycled index %d, got %d", a, idx)
	}
	if !p.Active(idx) || !p.Active(b) {
		t.Error("acquired indices must be active")
	}
	if p.Allocated() != 2 {
		t.Errorf("reuse must not allocate, got %d", p.Allocated())
	}
}

func TestPoolReleaseInvalid(t *testing.T) {
	p := NewPool(1)
	idx, _ := p.Acquire()

	tests := []struct {
		name string
		idx  int
	}{
		{"negative", -1},
		{"out of range", 5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := p.Release(tt.idx); !errors.Is(err, ErrNotActive) {
				t.Errorf("expected ErrNotActive, got %v", err)
			}
		})
	}

	if err := p.Release(idx); err != nil {
		t.Fatalf("first release: %v", err)
	}
	if err := p.Release(idx); !errors.Is(err, ErrNotActive) {
		t.Errorf("double release: expected ErrNotActive, got %v", err)
	}
	if p.Free() != 1 {
		t.Errorf("double release must not duplicate the free entry, free=%d", p.Free())
	}
}
