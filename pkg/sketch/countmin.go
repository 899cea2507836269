package sketch

import (
	"errors"
	"fmt"
	"math"
)

// ErrInvalidShape is returned by constructors when width, depth, or k is
// zero.
var ErrInvalidShape = errors.New("sketch: invalid shape")

// ErrIncompatibleShape is returned by Merge when the two sketches do not
// share width, depth, and seed.
var ErrIncompatibleShape = errors.New("sketch: incompatible shape")

// CountMinSketch is a d x w matrix of signed 64-bit counters plus a hash
// family. It supports signed updates: estimate(x) is the minimum cell value
// across the d rows a key hashes to, never the median, so it stays valid
// (if unbounded below) under decrement-heavy workloads.
type CountMinSketch[K Key] struct {
	width, depth uint32
	seed         uint64
	hash         *hashFamily
	counters     [][]int64
	totalCount   int64

	scratch []uint32 // reused index buffer, avoids one allocation per op
}

// NewCountMinSketch builds a sketch with an explicit width and depth. Both
// must be at least 1. A zero seed is replaced by defaultSeed.
func NewCountMinSketch[K Key](width, depth uint32, seed uint64) (*CountMinSketch[K], error) {
	if width == 0 || depth == 0 {
		return nil, fmt.Errorf("%w: width=%d depth=%d", ErrInvalidShape, width, depth)
	}
	if seed == 0 {
		seed = defaultSeed
	}

	counters := make([][]int64, depth)
	for i := range counters {
		counters[i] = make([]int64, width)
	}

	return &CountMinSketch[K]{
		width:    width,
		depth:    depth,
		seed:     seed,
		hash:     newHashFamily(width, depth, seed),
		counters: counters,
		scratch:  make([]uint32, depth),
	}, nil
}

// NewCountMinSketchFromError builds a sketch sized from accuracy targets:
// width = ceil(e/epsilon), depth = ceil(ln(1/delta)).
func NewCountMinSketchFromError[K Key](epsilon, delta float64, seed uint64) (*CountMinSketch[K], error) {
	if epsilon <= 0 || epsilon >= 1 || delta <= 0 || delta >= 1 {
		return nil, fmt.Errorf("%w: epsilon=%v delta=%v must be in (0,1)", ErrInvalidShape, epsilon, delta)
	}
	width := uint32(math.Ceil(math.E / epsilon))
	depth := uint32(math.Ceil(math.Log(1 / delta)))
	return NewCountMinSketch[K](width, depth, seed)
}

// Width returns the configured column count.
func (s *CountMinSketch[K]) Width() uint32 { return s.width }

// Depth returns the configured row count.
func (s *CountMinSketch[K]) Depth() uint32 { return s.depth }

// Update adds delta (which may be negative) to each of the d cells key
// hashes to.
func (s *CountMinSketch[K]) Update(key K, delta int64) {
	s.hash.indices(key.Bytes(), s.scratch)
	for i, col := range s.scratch {
		s.counters[i][col] += delta
	}
	if delta > 0 {
		s.totalCount += delta
	}
}

// Estimate returns the minimum cell value across the d rows key hashes to.
// It may be negative for a key that has seen more decrements than
// increments, including a key that was never explicitly incremented but
// shares cells with one that was.
func (s *CountMinSketch[K]) Estimate(key K) int64 {
	s.hash.indices(key.Bytes(), s.scratch)
	min := s.counters[0][s.scratch[0]]
	for i := 1; i < len(s.scratch); i++ {
		if v := s.counters[i][s.scratch[i]]; v < min {
			min = v
		}
	}
	return min
}

// TotalCount returns the cumulative sum of positive updates seen so far.
// It is a diagnostic figure only; it does not participate in Estimate.
func (s *CountMinSketch[K]) TotalCount() int64 { return s.totalCount }

// Merge adds other's counters into s cell-wise. Both sketches must share
// width, depth, and seed.
func (s *CountMinSketch[K]) Merge(other *CountMinSketch[K]) error {
	if s.width != other.width || s.depth != other.depth || s.seed != other.seed {
		return fmt.Errorf("%w: (w=%d,d=%d,seed=%d) vs (w=%d,d=%d,seed=%d)",
			ErrIncompatibleShape, s.width, s.depth, s.seed, other.width, other.depth, other.seed)
	}
	for i := range s.counters {
		for j := range s.counters[i] {
			s.counters[i][j] += other.counters[i][j]
		}
	}
	s.totalCount += other.totalCount
	return nil
}

// Clear zeroes every cell and resets the diagnostic total.
func (s *CountMinSketch[K]) Clear() {
	for i := range s.counters {
		for j := range s.counters[i] {
			s.counters[i][j] = 0
		}
	}
	s.totalCount = 0
}
