package sketch

import "container/heap"

// entry is one tracked heavy-hitter candidate. seq records insertion order
// so that ties in count have a deterministic, documented resolution instead
// of depending on map iteration order.
type entry[K Key] struct {
	key   K
	count int64
	seq   uint64
	index int // position within the heap slice, maintained by heap.Interface
}

// minHeap is a textbook container/heap min-heap over entries, augmented
// with index bookkeeping so a key's position can be found and fixed in
// O(log k) without a linear scan — a plain heap only supports push/pop at
// the root, not decrease-key on an arbitrary element.
type minHeap[K Key] []*entry[K]

func (h minHeap[K]) Len() int { return len(h) }

func (h minHeap[K]) Less(i, j int) bool {
	if h[i].count != h[j].count {
		return h[i].count < h[j].count
	}
	return h[i].seq < h[j].seq
}

func (h minHeap[K]) Swap(i, j int) {
	h[i], h[j] = h[j], h[i]
	h[i].index = i
	h[j].index = j
}

func (h *minHeap[K]) Push(x any) {
	e := x.(*entry[K])
	e.index = len(*h)
	*h = append(*h, e)
}

func (h *minHeap[K]) Pop() any {
	old := *h
	n := len(old)
	e := old[n-1]
	old[n-1] = nil
	e.index = -1
	*h = old[:n-1]
	return e
}

// peek returns the current minimum-count entry without removing it.
func (h minHeap[K]) peek() *entry[K] {
	if len(h) == 0 {
		return nil
	}
	return h[0]
}

// fix re-establishes heap order after e's count changed in place.
func (h *minHeap[K]) fix(e *entry[K]) {
	heap.Fix(h, e.index)
}

// removeAt removes the entry currently at position i.
func (h *minHeap[K]) removeAt(i int) *entry[K] {
	return heap.Remove(h, i).(*entry[K])
}

// pushEntry inserts a new entry.
func (h *minHeap[K]) pushEntry(e *entry[K]) {
	heap.Push(h, e)
}
