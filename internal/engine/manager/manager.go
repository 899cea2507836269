// Package manager orchestrates a set of column trackers and their
// snapshot writers, the same shape as the source repository's flow
// aggregation manager: one snapshotter goroutine per writer, ticking on
// that writer's own interval, plus a coordinated shutdown.
package manager

import (
	"context"
	"log"
	"sync"
	"time"

	"OptimizerStats/internal/model"
)

// Manager owns a fixed set of trackers and writers for the lifetime of the
// collector process. Unlike the source repository's manager, it never
// resets a tracker's state: the core's own non-goal of persisting sketch
// state means there is no measurement period to roll over, only periodic
// snapshots to export.
type Manager struct {
	trackers []model.Tracker
	writers  []model.Writer

	done          chan struct{}
	snapshotterWg sync.WaitGroup
}

// New creates a Manager over the given trackers and writers.
func New(trackers []model.Tracker, writers []model.Writer) *Manager {
	return &Manager{
		trackers: trackers,
		writers:  writers,
		done:     make(chan struct{}),
	}
}

// Trackers exposes the managed trackers, e.g. for the ingest front-end to
// route updates by column name or for the HTTP API to answer queries.
func (m *Manager) Trackers() []model.Tracker {
	return m.trackers
}

// Start launches one snapshotter goroutine per writer.
func (m *Manager) Start() {
	for _, w := range m.writers {
		m.snapshotterWg.Add(1)
		go m.runSnapshotter(w)
		log.Printf("Started snapshotter for a writer with interval %s, covering %d columns.", w.Interval(), len(m.trackers))
	}
}

// Stop signals every snapshotter to take one final snapshot and exit, then
// waits for them to finish.
func (m *Manager) Stop() {
	log.Println("Manager stopping...")
	close(m.done)
	m.snapshotterWg.Wait()
	log.Println("Manager stopped.")
}

func (m *Manager) runSnapshotter(w model.Writer) {
	defer m.snapshotterWg.Done()
	interval := w.Interval()
	if interval <= 0 {
		log.Printf("Invalid interval %s for writer, snapshotter will not run.", interval)
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			m.takeSnapshot(w)
		case <-m.done:
			m.takeSnapshot(w)
			return
		}
	}
}

func (m *Manager) takeSnapshot(w model.Writer) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	var wg sync.WaitGroup
	wg.Add(len(m.trackers))
	for _, tr := range m.trackers {
		go func(tr model.Tracker) {
			defer wg.Done()
			if err := w.Write(ctx, tr.Name(), tr.Snapshot()); err != nil {
				log.Printf("Error writing snapshot for column %q: %v", tr.Name(), err)
			}
		}(tr)
	}
	wg.Wait()
}
