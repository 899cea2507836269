package manager

import (
	"context"
	"sync"
	"testing"
	"time"

	"OptimizerStats/internal/model"
	"OptimizerStats/pkg/sketch"
)

type fakeTracker struct {
	name string
}

func (f *fakeTracker) Name() string              { return f.name }
func (f *fakeTracker) ProcessUpdate(model.Update) {}
func (f *fakeTracker) Estimate(string) int64      { return 0 }
func (f *fakeTracker) Snapshot() []sketch.Entry[sketch.StringKey] {
	return []sketch.Entry[sketch.StringKey]{{Key: sketch.StringKey(f.name), Count: 1}}
}
func (f *fakeTracker) DiagnosticString() string { return "" }

type recordingWriter struct {
	interval time.Duration

	mu    sync.Mutex
	calls []string
}

func (w *recordingWriter) Interval() time.Duration { return w.interval }

func (w *recordingWriter) Write(_ context.Context, columnName string, _ []sketch.Entry[sketch.StringKey]) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.calls = append(w.calls, columnName)
	return nil
}

func (w *recordingWriter) callCount() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return len(w.calls)
}

func TestManagerSnapshotsOnStopEvenWithoutATick(t *testing.T) {
	tr := &fakeTracker{name: "orders.status"}
	w := &recordingWriter{interval: time.Hour}

	m := New([]model.Tracker{tr}, []model.Writer{w})
	m.Start()
	m.Stop()

	if got := w.callCount(); got != 1 {
		t.Fatalf("expected exactly one snapshot on shutdown, got %d", got)
	}
}

func TestManagerSnapshotsPeriodically(t *testing.T) {
	tr := &fakeTracker{name: "orders.status"}
	w := &recordingWriter{interval: 5 * time.Millisecond}

	m := New([]model.Tracker{tr}, []model.Writer{w})
	m.Start()
	time.Sleep(50 * time.Millisecond)
	m.Stop()

	if got := w.callCount(); got < 2 {
		t.Fatalf("expected at least 2 periodic snapshots, got %d", got)
	}
}

func TestManagerTrackersExposesConfiguredTrackers(t *testing.T) {
	tr := &fakeTracker{name: "orders.status"}
	m := New([]model.Tracker{tr}, nil)

	got := m.Trackers()
	if len(got) != 1 || got[0].Name() != "orders.status" {
		t.Fatalf("unexpected trackers: %+v", got)
	}
}

func TestManagerSkipsInvalidIntervalWriter(t *testing.T) {
	tr := &fakeTracker{name: "orders.status"}
	w := &recordingWriter{interval: 0}

	m := New([]model.Tracker{tr}, []model.Writer{w})
	m.Start()
	m.Stop()

	if got := w.callCount(); got != 0 {
		t.Fatalf("expected zero snapshots for a non-positive interval, got %d", got)
	}
}
