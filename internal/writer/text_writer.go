// Package writer implements model.Writer sinks for periodic column
// snapshots: a plain text dump for local inspection and a ClickHouse sink
// for a queryable history, grounded on the source repository's
// writer_text.go and writer_clickhouse.go.
package writer

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"OptimizerStats/pkg/sketch"
)

// TextWriter writes each column's snapshot to
// "<root>/<timestamp>/<column>.txt", one "key count" line per tracked key.
type TextWriter struct {
	rootPath string
	interval time.Duration
}

// NewTextWriter creates a text snapshot writer.
func NewTextWriter(rootPath string, interval time.Duration) *TextWriter {
	return &TextWriter{rootPath: rootPath, interval: interval}
}

func (w *TextWriter) Interval() time.Duration { return w.interval }

func (w *TextWriter) Write(_ context.Context, columnName string, entries []sketch.Entry[sketch.StringKey]) error {
	snapshotDir := filepath.Join(w.rootPath, time.Now().Format("2006-01-02_15-04-05"))
	if err := os.MkdirAll(snapshotDir, 0o755); err != nil {
		return fmt.Errorf("failed to create snapshot directory: %w", err)
	}

	filePath := filepath.Join(snapshotDir, columnName+".txt")
	file, err := os.Create(filePath)
	if err != nil {
		return fmt.Errorf("failed to create snapshot file %q: %w", filePath, err)
	}
	defer file.Close()

	for _, e := range entries {
		if _, err := fmt.Fprintf(file, "%s %d\n", string(e.Key), e.Count); err != nil {
			return fmt.Errorf("failed to write entry for column %q: %w", columnName, err)
		}
	}

	log.Printf("Wrote %d heavy hitters for column %q to %s", len(entries), columnName, filePath)
	return nil
}
