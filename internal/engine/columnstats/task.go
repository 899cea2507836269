// Package columnstats implements the "topk" tracker kind: a per-column
// heavy-hitter tracker backed by pkg/sketch.TopKElements, registered with
// the tracker factory the same way the source repository's sketch package
// registers itself as an aggregator implementation.
package columnstats

import (
	"fmt"
	"strings"

	"OptimizerStats/internal/config"
	"OptimizerStats/internal/factory"
	"OptimizerStats/internal/model"
	"OptimizerStats/pkg/sketch"
)

func init() {
	factory.RegisterTracker("topk", New)
}

// Task adapts a sketch.TopKElements[sketch.StringKey] to the model.Tracker
// interface for one named column.
type Task struct {
	name string
	topk *sketch.TopKElements[sketch.StringKey]
}

// New builds a Task from a column's configuration. It accepts either an
// explicit (width, depth) or an (epsilon, delta) accuracy target; width and
// depth take precedence when both are set.
func New(def config.ColumnTrackerDef) (model.Tracker, error) {
	seed := def.Seed
	if seed == 0 {
		seed = defaultSeed
	}

	var (
		topk *sketch.TopKElements[sketch.StringKey]
		err  error
	)
	switch {
	case def.Width > 0 && def.Depth > 0:
		topk, err = sketch.NewTopKElements[sketch.StringKey](def.K, def.Width, def.Depth, seed)
	case def.Epsilon > 0 && def.Delta > 0:
		topk, err = sketch.NewTopKElementsFromError[sketch.StringKey](def.K, def.Epsilon, def.Delta, seed)
	default:
		return nil, fmt.Errorf("column %q: must set width/depth or epsilon/delta", def.Name)
	}
	if err != nil {
		return nil, fmt.Errorf("column %q: %w", def.Name, err)
	}

	return &Task{name: def.Name, topk: topk}, nil
}

// defaultSeed is used when a column definition omits one, so that repeated
// runs against the same config produce identical sketches.
const defaultSeed uint64 = 0x51ED270B461FDED5

// Name returns the column name this task was configured for.
func (t *Task) Name() string { return t.name }

// ProcessUpdate applies a single (key, delta) observation. A zero delta is
// a no-op; the sign of a nonzero delta selects Increment or Decrement.
func (t *Task) ProcessUpdate(u model.Update) {
	key := sketch.StringKey(u.Key)
	switch {
	case u.Delta > 0:
		t.topk.Increment(key, uint64(u.Delta))
	case u.Delta < 0:
		t.topk.Decrement(key, uint64(-u.Delta))
	}
}

// Estimate returns the current estimated frequency of key.
func (t *Task) Estimate(key string) int64 {
	return t.topk.Estimate(sketch.StringKey(key))
}

// Snapshot returns the tracked keys in descending-count order.
func (t *Task) Snapshot() []sketch.Entry[sketch.StringKey] {
	return t.topk.Entries()
}

// DiagnosticString renders Snapshot as "[key: count]" lines, one per
// tracked key, used only for logging.
func (t *Task) DiagnosticString() string {
	entries := t.topk.Entries()
	lines := make([]string, len(entries))
	for i, e := range entries {
		lines[i] = fmt.Sprintf("[%s: %d]", string(e.Key), e.Count)
	}
	return strings.Join(lines, "\n")
}
