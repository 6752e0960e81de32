package utils

import (
	"container/heap"

	"golang.org/x/exp/constraints"
)

// Min-heap of indexes into values; the root is the smallest of the current top set.
type topHeap[T constraints.Ordered] struct {
	values []T
	index  []uint32
}

func (h *topHeap[T]) Len() int { return len(h.index) }
func (h *topHeap[T]) Less(i, j int) bool {
	a, b := h.values[h.index[i]], h.values[h.index[j]]
	if a == b {
		return h.index[i] > h.index[j] // Higher ids rank lower on ties, so the output is stable.
	}
	return a < b
}
func (h *topHeap[T]) Swap(i, j int) { h.index[i], h.index[j] = h.index[j], h.index[i] }
func (h *topHeap[T]) Push(x any)    { h.index = append(h.index, x.(uint32)) }
func (h *topHeap[T]) Pop() any {
	last := len(h.index) - 1
	item := h.index[last]
	h.index = h.index[:last]
	return item
}

// FindTopN returns the (index, value) pairs of the largest topCount values, largest first.
// Does not modify the input. O(N log C) for C = topCount.
func FindTopN[T constraints.Ordered](values []T, topCount int) []Pair[uint32, T] {
	topCount = Min(topCount, len(values))
	if topCount <= 0 {
		return nil
	}
	h := &topHeap[T]{values: values, index: make([]uint32, topCount)}
	for i := range h.index {
		h.index[i] = uint32(i)
	}
	heap.Init(h)
	for i := topCount; i < len(values); i++ {
		if values[h.index[0]] < values[i] {
			h.index[0] = uint32(i)
			heap.Fix(h, 0)
		}
	}
	top := make([]Pair[uint32, T], topCount)
	for i := topCount - 1; i >= 0; i-- {
		idx := heap.Pop(h).(uint32)
		top[i] = Pair[uint32, T]{idx, values[idx]}
	}
	return top
}
