package columnstats

import (
	"strings"
	"testing"

	"OptimizerStats/internal/config"
	"OptimizerStats/internal/model"
)

func TestNewRequiresShapeOrErrorBound(t *testing.T) {
	_, err := New(config.ColumnTrackerDef{Name: "orders.status", K: 4})
	if err == nil {
		t.Fatal("expected an error when neither width/depth nor epsilon/delta is set")
	}
}

func TestNewWithExplicitShape(t *testing.T) {
	tr, err := New(config.ColumnTrackerDef{Name: "orders.status", K: 4, Width: 256, Depth: 4, Seed: 7})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tr.Name() != "orders.status" {
		t.Errorf("Name() = %q, want orders.status", tr.Name())
	}
}

func TestNewWithErrorBound(t *testing.T) {
	tr, err := New(config.ColumnTrackerDef{Name: "orders.status", K: 4, Epsilon: 0.01, Delta: 0.05, Seed: 7})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tr.Name() != "orders.status" {
		t.Errorf("Name() = %q, want orders.status", tr.Name())
	}
}

func TestProcessUpdateTracksHeavyHitter(t *testing.T) {
	tr, err := New(config.ColumnTrackerDef{Name: "orders.status", K: 2, Width: 256, Depth: 4, Seed: 7})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for i := 0; i < 50; i++ {
		tr.ProcessUpdate(model.Update{Column: "orders.status", Key: "shipped", Delta: 1})
	}
	tr.ProcessUpdate(model.Update{Column: "orders.status", Key: "pending", Delta: 5})

	if got := tr.Estimate("shipped"); got != 50 {
		t.Errorf("Estimate(shipped) = %d, want 50", got)
	}

	snapshot := tr.Snapshot()
	if len(snapshot) == 0 || string(snapshot[0].Key) != "shipped" {
		t.Fatalf("expected shipped to be the top entry, got %+v", snapshot)
	}
}

func TestProcessUpdateZeroDeltaIsNoOp(t *testing.T) {
	tr, err := New(config.ColumnTrackerDef{Name: "orders.status", K: 2, Width: 256, Depth: 4, Seed: 7})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	tr.ProcessUpdate(model.Update{Column: "orders.status", Key: "shipped", Delta: 0})
	if got := tr.Estimate("shipped"); got != 0 {
		t.Errorf("Estimate(shipped) = %d, want 0 after a zero-delta update", got)
	}
}

func TestDiagnosticStringFormatsEntries(t *testing.T) {
	tr, err := New(config.ColumnTrackerDef{Name: "orders.status", K: 2, Width: 256, Depth: 4, Seed: 7})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	tr.ProcessUpdate(model.Update{Column: "orders.status", Key: "shipped", Delta: 3})

	diag := tr.DiagnosticString()
	if !strings.Contains(diag, "[shipped: 3]") {
		t.Errorf("DiagnosticString() = %q, want it to contain [shipped: 3]", diag)
	}
}
