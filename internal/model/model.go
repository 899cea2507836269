// Package model holds the shared types the collector's domain packages
// pass between each other: the update envelope coming off the ingest bus,
// and the Tracker/Writer interfaces the factory, manager, and API layer
// all depend on.
package model

import (
	"context"
	"time"

	"OptimizerStats/pkg/sketch"
)

// Update is one (key, delta) observation for a single column, as it comes
// off the wire from the ingest bus or a direct in-process caller.
type Update struct {
	Column string
	Key    string
	Delta  int64
}

// Tracker is the domain-facing view of a single column's heavy-hitter
// state. Implementations wrap a sketch.TopKElements internally.
type Tracker interface {
	// Name returns the column name this tracker was configured for.
	Name() string
	// ProcessUpdate applies a single (key, delta) observation.
	ProcessUpdate(u Update)
	// Estimate returns the current estimated frequency of key.
	Estimate(key string) int64
	// Snapshot returns the tracked keys in descending-count order.
	Snapshot() []sketch.Entry[sketch.StringKey]
	// DiagnosticString renders Snapshot as "[key: count]" lines.
	DiagnosticString() string
}

// Writer persists or exports a Tracker's periodic snapshot.
type Writer interface {
	// Interval reports how often the manager should call Write.
	Interval() time.Duration
	// Write emits one column's current snapshot.
	Write(ctx context.Context, columnName string, entries []sketch.Entry[sketch.StringKey]) error
}
