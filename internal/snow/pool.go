package snow

import "fmt"

// Pool is an arena of particles. Indices handed out by Acquire stay valid
// until they are given back with Release; pointers from At are only valid
// until the next Acquire that grows the arena.
type Pool struct {
	items []Particle
	inUse []bool
	free  []int
}

func NewPool(capacity int) *Pool {
	if capacity < 0 {
		capacity = 0
	}
	return &Pool{
		items: make([]Particle, 0, capacity),
		inUse: make([]bool, 0, capacity),
		free:  make([]int, 0, capacity),
	}
}

// Acquire pops a free index, or grows the arena when none is free.
// fresh is true when the particle was just allocated.
func (p *Pool) Acquire() (idx int, fresh bool) {
	if n := len(p.free); n > 0 {
		idx = p.free[n-1]
		p.free = p.free[:n-1]
		p.inUse[idx] = true
		return idx, false
	}
	p.items = append(p.items, Particle{})
	p.inUse = append(p.inUse, true)
	return len(p.items) - 1, true
}

func (p *Pool) Release(idx int) error {
	if idx < 0 || idx >= len(p.items) || !p.inUse[idx] {
		return fmt.Errorf("%w: index %d", ErrNotActive, idx)
	}
	p.inUse[idx] = false
	p.free = append(p.free, idx)
	return nil
}

func (p *Pool) At(idx int) *Particle { return &p.items[idx] }

func (p *Pool) Active(idx int) bool {
	return idx >= 0 && idx < len(p.inUse) && p.inUse[idx]
}

// Allocated is the number of particles ever created by the pool.
func (p *Pool) Allocated() int { return len(p.items) }

// Free is the number of pooled particles waiting for reuse.
func (p *Pool) Free() int { return len(p.free) }
