package pregel

import (
	"sync"
	"sync/atomic"
)

const (
	ARENA_PAGE_SIZE   = 1 << 16 // Elements per page.
	ARENA_LARGE_ALLOC = ARENA_PAGE_SIZE / 4
)

type arenaPage[T int64 | float64] struct {
	data []T
	used atomic.Int64
}

// arena hands out slices carved from shared pages with an atomic bump pointer.
// Slices are never freed individually; a rewritten array that no longer fits leaves its old slot behind.
// The mutex is only taken to add a page.
type arena[T int64 | float64] struct {
	mu    sync.Mutex
	pages []*arenaPage[T]
	large [][]T
	cur   atomic.Pointer[arenaPage[T]]
}

// Returns a zeroed slice of length and capacity n.
func (a *arena[T]) alloc(n int) []T {
	if n == 0 {
		return []T{}
	}
	if n > ARENA_LARGE_ALLOC {
		s := make([]T, n)
		a.mu.Lock()
		a.large = append(a.large, s)
		a.mu.Unlock()
		return s
	}
	for {
		page := a.cur.Load()
		if page != nil {
			end := int(page.used.Add(int64(n)))
			if end <= len(page.data) {
				return page.data[end-n : end : end]
			}
		}
		a.mu.Lock()
		if a.cur.Load() == page {
			next := &arenaPage[T]{data: make([]T, ARENA_PAGE_SIZE)}
			a.pages = append(a.pages, next)
			a.cur.Store(next)
		}
		a.mu.Unlock()
	}
}

// Bytes reserved by the arena.
func (a *arena[T]) reserved() (n int) {
	a.mu.Lock()
	defer a.mu.Unlock()
	n = len(a.pages) * ARENA_PAGE_SIZE
	for _, s := range a.large {
		n += len(s)
	}
	return n * 8
}

func (a *arena[T]) release() {
	a.mu.Lock()
	a.pages, a.large = nil, nil
	a.cur.Store(nil)
	a.mu.Unlock()
}

// arrayColumn is an indirection table from node id to a slice of the arena.
type arrayColumn[T int64 | float64] struct {
	entries [][]T
	arena   arena[T]
}

func newArrayColumn[T int64 | float64](nodeCount int) *arrayColumn[T] {
	return &arrayColumn[T]{entries: make([][]T, nodeCount)}
}

// Copies values into the slot of nodeId, reusing its storage when it fits.
func (c *arrayColumn[T]) set(nodeId uint32, values []T) {
	if values == nil {
		c.entries[nodeId] = nil
		return
	}
	cur := c.entries[nodeId]
	if cap(cur) < len(values) {
		cur = c.arena.alloc(len(values))
	}
	cur = cur[:len(values)]
	copy(cur, values)
	c.entries[nodeId] = cur
}
