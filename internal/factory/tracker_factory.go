// Package factory registers and builds column trackers by kind, the same
// way the source repository's task factory resolves aggregator
// implementations by name: each tracker implementation package registers
// itself in an init() function, and the collector's config drives which
// registered kinds actually get instantiated.
package factory

import (
	"fmt"

	"OptimizerStats/internal/config"
	"OptimizerStats/internal/model"
)

// TrackerFactory builds one column's Tracker from its config entry.
type TrackerFactory func(def config.ColumnTrackerDef) (model.Tracker, error)

var registry = make(map[string]TrackerFactory)

// RegisterTracker registers a tracker kind (e.g. "topk") with its factory
// function. Called from the implementation package's init(); registering
// the same kind twice in one process is a programmer error and panics.
func RegisterTracker(kind string, build TrackerFactory) {
	if _, exists := registry[kind]; exists {
		panic(fmt.Sprintf("tracker kind %q already registered", kind))
	}
	registry[kind] = build
}

// Create builds one Tracker per configured column.
func Create(cfg *config.Config) ([]model.Tracker, error) {
	trackers := make([]model.Tracker, 0, len(cfg.Collector.Columns))

	for _, def := range cfg.Collector.Columns {
		build, ok := registry[def.Kind]
		if !ok {
			return nil, fmt.Errorf("unknown tracker kind %q for column %q", def.Kind, def.Name)
		}

		tracker, err := build(def)
		if err != nil {
			return nil, fmt.Errorf("error creating tracker for column %q: %w", def.Name, err)
		}
		trackers = append(trackers, tracker)
	}

	return trackers, nil
}
