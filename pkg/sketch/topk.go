package sketch

import "sort"

// Entry pairs a tracked key with its currently stored estimated count. It is
// what Entries returns, in SortedTopKeys order, and what the diagnostic
// formatter is built from.
type Entry[K Key] struct {
	Key   K
	Count int64
}

// TopKElements tracks at most k candidate heavy hitters over a key stream,
// backed internally by a CountMinSketch. Every update flows through the
// sketch first; the heavy-hitter set only ever holds keys whose sketch
// estimate has, at some point, been large enough to earn a slot.
//
// Not safe for concurrent use: callers serialize their own updates and
// queries, exactly like the sketch it wraps.
type TopKElements[K Key] struct {
	k       int
	sketch  *CountMinSketch[K]
	members map[K]*entry[K]
	heap    minHeap[K]
	nextSeq uint64
}

// NewTopKElements builds a tracker that keeps at most k keys, backed by a
// CountMinSketch of the given width and depth.
func NewTopKElements[K Key](k int, width, depth uint32, seed uint64) (*TopKElements[K], error) {
	if k <= 0 {
		return nil, ErrInvalidShape
	}
	sk, err := NewCountMinSketch[K](width, depth, seed)
	if err != nil {
		return nil, err
	}
	return &TopKElements[K]{
		k:       k,
		sketch:  sk,
		members: make(map[K]*entry[K], k),
		heap:    make(minHeap[K], 0, k),
	}, nil
}

// NewTopKElementsFromError builds a tracker sized from CMS accuracy targets
// instead of an explicit width and depth.
func NewTopKElementsFromError[K Key](k int, epsilon, delta float64, seed uint64) (*TopKElements[K], error) {
	if k <= 0 {
		return nil, ErrInvalidShape
	}
	sk, err := NewCountMinSketchFromError[K](epsilon, delta, seed)
	if err != nil {
		return nil, err
	}
	return &TopKElements[K]{
		k:       k,
		sketch:  sk,
		members: make(map[K]*entry[K], k),
		heap:    make(minHeap[K], 0, k),
	}, nil
}

// GetK returns the configured maximum number of tracked keys.
func (t *TopKElements[K]) GetK() int { return t.k }

// Size returns the number of keys currently tracked.
func (t *TopKElements[K]) Size() int { return len(t.members) }

// Increment applies a positive update of delta to key and lets it compete
// for a slot in the tracked set.
func (t *TopKElements[K]) Increment(key K, delta uint64) {
	t.sketch.Update(key, int64(delta))
	est := t.sketch.Estimate(key)

	if e, ok := t.members[key]; ok {
		if est <= 0 {
			t.evict(key, e)
			return
		}
		e.count = est
		t.heap.fix(e)
		return
	}

	if est <= 0 {
		return
	}

	if len(t.members) < t.k {
		t.insert(key, est)
		return
	}

	min := t.heap.peek()
	if est > min.count {
		delete(t.members, min.key)
		t.heap.removeAt(min.index)
		t.insert(key, est)
	}
}

// Decrement applies a negative update of delta to key. A key not already
// tracked is never promoted by this call, even though its sketch cells are
// still mutated — this mirrors the source behavior spec.md documents.
func (t *TopKElements[K]) Decrement(key K, delta uint64) {
	t.sketch.Update(key, -int64(delta))
	est := t.sketch.Estimate(key)

	e, ok := t.members[key]
	if !ok {
		return
	}
	if est <= 0 {
		t.evict(key, e)
		return
	}
	e.count = est
	t.heap.fix(e)
}

// Remove unconditionally evicts key from the tracked set, if present. The
// underlying sketch counters are left untouched: cells are shared with
// other keys, so zeroing them here would corrupt unrelated estimates.
// Calling Remove on an untracked key is a no-op.
func (t *TopKElements[K]) Remove(key K) {
	e, ok := t.members[key]
	if !ok {
		return
	}
	t.evict(key, e)
}

// Estimate returns key's stored count if it is tracked, or the raw sketch
// estimate otherwise — which may be zero or negative for a key that has
// never been tracked but has been decremented, or that shares cells with
// heavily-decremented keys.
func (t *TopKElements[K]) Estimate(key K) int64 {
	if e, ok := t.members[key]; ok {
		return e.count
	}
	return t.sketch.Estimate(key)
}

// SortedTopKeys returns a snapshot of the tracked keys ordered by
// descending stored count. Keys with equal counts are ordered by
// insertion order, earliest first — the source leaves ties unspecified, so
// this is a documented, deterministic choice, not an incidental one.
func (t *TopKElements[K]) SortedTopKeys() []K {
	entries := t.sortedEntries()
	keys := make([]K, len(entries))
	for i, e := range entries {
		keys[i] = e.key
	}
	return keys
}

// Entries returns the same ordering as SortedTopKeys, paired with each
// key's stored count, for callers building a diagnostic dump or a
// snapshot to persist.
func (t *TopKElements[K]) Entries() []Entry[K] {
	entries := t.sortedEntries()
	out := make([]Entry[K], len(entries))
	for i, e := range entries {
		out[i] = Entry[K]{Key: e.key, Count: e.count}
	}
	return out
}

func (t *TopKElements[K]) sortedEntries() []*entry[K] {
	entries := make([]*entry[K], 0, len(t.members))
	for _, e := range t.members {
		entries = append(entries, e)
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].count != entries[j].count {
			return entries[i].count > entries[j].count
		}
		return entries[i].seq < entries[j].seq
	})
	return entries
}

func (t *TopKElements[K]) insert(key K, count int64) {
	e := &entry[K]{key: key, count: count, seq: t.nextSeq}
	t.nextSeq++
	t.members[key] = e
	t.heap.pushEntry(e)
}

func (t *TopKElements[K]) evict(key K, e *entry[K]) {
	delete(t.members, key)
	if e.index >= 0 {
		t.heap.removeAt(e.index)
	}
}
