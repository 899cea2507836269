package sketch

import (
	"errors"
	"strconv"
	"testing"
)

func TestNewCountMinSketchRejectsZeroShape(t *testing.T) {
	if _, err := NewCountMinSketch[StringKey](0, 4, 1); !errors.Is(err, ErrInvalidShape) {
		t.Fatalf("width=0: got err %v, want ErrInvalidShape", err)
	}
	if _, err := NewCountMinSketch[StringKey](1000, 0, 1); !errors.Is(err, ErrInvalidShape) {
		t.Fatalf("depth=0: got err %v, want ErrInvalidShape", err)
	}
}

func TestCountMinSketchPositiveBound(t *testing.T) {
	sk, err := NewCountMinSketch[StringKey](2048, 4, 42)
	if err != nil {
		t.Fatal(err)
	}

	trueCounts := map[StringKey]int64{}
	for i := 0; i < 5000; i++ {
		key := StringKey("key-" + strconv.Itoa(i%17))
		trueCounts[key]++
		sk.Update(key, 1)
	}

	for key, want := range trueCounts {
		if got := sk.Estimate(key); got < want {
			t.Errorf("estimate(%v) = %d, want >= true count %d", key, got, want)
		}
	}
}

func TestCountMinSketchMinNotMedian(t *testing.T) {
	sk, err := NewCountMinSketch[IntKey](8, 3, 7)
	if err != nil {
		t.Fatal(err)
	}
	sk.Update(IntKey(1), 100)
	sk.Update(IntKey(1), -90)
	// Key 58 shares key 1's cells in two of the three rows, so key 1's rows
	// read 10, 60, 60: the median would be 60, the minimum is 10.
	sk.Update(IntKey(58), 50)
	if got := sk.Estimate(IntKey(1)); got != 10 {
		t.Fatalf("Estimate() = %d, want 10", got)
	}
}

func TestCountMinSketchMergeRejectsIncompatibleShape(t *testing.T) {
	a, _ := NewCountMinSketch[StringKey](100, 4, 1)
	b, _ := NewCountMinSketch[StringKey](200, 4, 1)
	if err := a.Merge(b); !errors.Is(err, ErrIncompatibleShape) {
		t.Fatalf("Merge width mismatch: got %v, want ErrIncompatibleShape", err)
	}

	c, _ := NewCountMinSketch[StringKey](100, 4, 1)
	d, _ := NewCountMinSketch[StringKey](100, 4, 2)
	if err := c.Merge(d); !errors.Is(err, ErrIncompatibleShape) {
		t.Fatalf("Merge seed mismatch: got %v, want ErrIncompatibleShape", err)
	}
}

func TestCountMinSketchMerge(t *testing.T) {
	a, _ := NewCountMinSketch[StringKey](512, 4, 9)
	b, _ := NewCountMinSketch[StringKey](512, 4, 9)

	a.Update("x", 5)
	b.Update("x", 7)
	b.Update("y", 3)

	if err := a.Merge(b); err != nil {
		t.Fatal(err)
	}
	if got := a.Estimate(StringKey("x")); got < 12 {
		t.Errorf("Estimate(x) after merge = %d, want >= 12", got)
	}
	if got := a.Estimate(StringKey("y")); got < 3 {
		t.Errorf("Estimate(y) after merge = %d, want >= 3", got)
	}
}

func TestCountMinSketchClear(t *testing.T) {
	sk, _ := NewCountMinSketch[StringKey](64, 4, 3)
	sk.Update("a", 10)
	sk.Clear()
	if got := sk.Estimate(StringKey("a")); got != 0 {
		t.Fatalf("Estimate after Clear = %d, want 0", got)
	}
	if got := sk.TotalCount(); got != 0 {
		t.Fatalf("TotalCount after Clear = %d, want 0", got)
	}
}

func TestCountMinSketchFromErrorTargets(t *testing.T) {
	sk, err := NewCountMinSketchFromError[StringKey](0.01, 0.01, 5)
	if err != nil {
		t.Fatal(err)
	}
	if sk.Width() == 0 || sk.Depth() == 0 {
		t.Fatalf("width=%d depth=%d, want both > 0", sk.Width(), sk.Depth())
	}
}
