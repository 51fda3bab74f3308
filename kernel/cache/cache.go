// Package cache implements the bounded-size kernel row cache (spec.md
// §3 "Cache row" and §4.1), an intrusive doubly-linked LRU free list over a
// slice arena (spec §9 design note: "manual cache linked list -> intrusive
// doubly-linked list over a Vec arena. Index 0 and size-1 sentinels
// simplify the first_free pointer semantics").
//
// Grounded on the teacher's lazy map-of-maps adjacency in
// core/adjacency_list.go (create-on-first-use slots), adapted here to a
// fixed-capacity slice arena since the cache's slot count is derived once,
// up front, from an MB budget.
package cache

import "github.com/katalvlaran/svmcore/kernel"

// slot is one physical cache row: the logical column index it currently
// holds, the tick of its last access, and its payload row.
type slot struct {
	col      int
	lastTick int64
	payload  []float32
	used     bool

	prev, next int // intrusive doubly-linked list indices into arena
}

// Cache is a bounded-size LRU row cache sitting in front of a kernel.Kernel.
// At most M rows are retained, M derived from an MB budget and the row
// width n; eviction follows strict LRU order via the free list, and a
// slot pinned during the current iteration is never evicted (spec §4.1).
type Cache struct {
	k kernel.Kernel
	n int // row width (number of columns, i.e. the opposite side's size)
	m int // slot capacity

	arena   []slot
	colSlot map[int]int // logical column -> arena slot index

	headFree int // oldest candidate (LRU head)
	tailFree int // newest (LRU tail)

	tick int64

	scratch []float32 // reused buffer for the "pinned eviction candidate" fallback
}

const entryHeaderBytes = 24 // col(8) + lastTick(8) + slice header overhead(8), approximate

// New constructs a Cache for a kernel whose rows have width n, bounded by a
// budget of mb megabytes. Returns ErrCacheTooSmall (a configuration error,
// per spec §4.1/§7) if the budget cannot hold even one row.
func New(k kernel.Kernel, n int, mb float64) (*Cache, error) {
	if n <= 0 {
		return nil, ErrInvalidRowWidth
	}
	bytesPerSlot := entryHeaderBytes + 4*n // f32 payload
	budget := int(mb * 1024 * 1024)
	m := budget / bytesPerSlot
	if m < 1 {
		return nil, ErrCacheTooSmall
	}

	c := &Cache{
		k:       k,
		n:       n,
		m:       m,
		arena:   make([]slot, m),
		colSlot: make(map[int]int, m),
		scratch: make([]float32, n),
	}
	for i := range c.arena {
		c.arena[i].col = -1
		c.arena[i].prev = i - 1
		c.arena[i].next = i + 1
	}
	c.arena[0].prev = -1
	c.arena[m-1].next = -1
	c.headFree = 0
	c.tailFree = m - 1

	return c, nil
}

// Capacity reports the slot count M derived from the MB budget.
func (c *Cache) Capacity() int { return c.m }

// Iteration advances the tick driving "pinned this iteration" semantics
// (spec §4.1); callers invoke this once per outer decomposition iteration.
func (c *Cache) Iteration() { c.tick++ }

// touch moves slot idx to the tail of the free list (most recently used),
// i.e. furthest from eviction, and stamps its access tick.
func (c *Cache) touch(idx int) {
	c.arena[idx].lastTick = c.tick
	if c.tailFree == idx {
		return
	}
	// unlink
	p, nx := c.arena[idx].prev, c.arena[idx].next
	if p >= 0 {
		c.arena[p].next = nx
	} else {
		c.headFree = nx
	}
	if nx >= 0 {
		c.arena[nx].prev = p
	} else {
		c.tailFree = p
	}
	// relink at tail
	c.arena[idx].prev = c.tailFree
	c.arena[idx].next = -1
	if c.tailFree >= 0 {
		c.arena[c.tailFree].next = idx
	}
	c.tailFree = idx
	if c.headFree < 0 {
		c.headFree = idx
	}
}

// GetRow returns a cached row without populating it; it still updates
// recency (per spec §4.1: "returns a cached row... updates recency").
func (c *Cache) GetRow(col int) ([]float32, bool) {
	idx, ok := c.colSlot[col]
	if !ok {
		return nil, false
	}
	c.touch(idx)

	return c.arena[idx].payload, true
}

// FillRow returns the row for col, computing and caching it on a miss. If
// the LRU eviction candidate is pinned (accessed this tick), the computed
// row is returned as a scratch buffer that is not retained in the cache
// (spec §4.1).
func (c *Cache) FillRow(col int) []float32 {
	if idx, ok := c.colSlot[col]; ok {
		c.touch(idx)

		return c.arena[idx].payload
	}

	victim := c.headFree
	if victim >= 0 && c.arena[victim].used && c.arena[victim].lastTick == c.tick {
		// Oldest candidate is pinned this iteration: serve a scratch row.
		c.computeInto(col, c.scratch)

		return c.scratch
	}

	if victim < 0 {
		// Capacity 0 guarded at construction; defensive only.
		c.computeInto(col, c.scratch)

		return c.scratch
	}

	if c.arena[victim].used {
		delete(c.colSlot, c.arena[victim].col)
	} else {
		c.arena[victim].payload = make([]float32, c.n)
	}
	c.arena[victim].col = col
	c.arena[victim].used = true
	c.computeInto(col, c.arena[victim].payload)
	c.colSlot[col] = victim
	c.touch(victim)

	return c.arena[victim].payload
}

func (c *Cache) computeInto(col int, dst []float32) {
	for j := 0; j < c.n; j++ {
		dst[j] = float32(c.k.K(col, j))
	}
}

// DivideByPresence reorders want so cached columns come first, not-yet-cached
// columns after, preserving stable order within each group (spec §4.1).
func (c *Cache) DivideByPresence(want []int) []int {
	out := make([]int, 0, len(want))
	rest := make([]int, 0, len(want))
	for _, col := range want {
		if _, ok := c.colSlot[col]; ok {
			out = append(out, col)
		} else {
			rest = append(rest, col)
		}
	}

	return append(out, rest...)
}

// Len reports how many slots currently hold a row.
func (c *Cache) Len() int { return len(c.colSlot) }
