package writer

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/ClickHouse/clickhouse-go/v2"
	"github.com/ClickHouse/clickhouse-go/v2/lib/driver"
	"github.com/google/uuid"

	"OptimizerStats/internal/config"
	"OptimizerStats/pkg/sketch"
)

const createColumnHeavyHittersTableStatement = `
CREATE TABLE IF NOT EXISTS column_heavy_hitters (
    Timestamp DateTime,
    BatchID   String,
    Column    String,
    Key       String,
    Count     Int64
) ENGINE = MergeTree()
PARTITION BY toYYYYMM(Timestamp)
ORDER BY (Column, Timestamp);
`

// ClickHouseWriter persists each snapshot as a batch of rows in a
// column_heavy_hitters table, giving the optimizer a queryable history of
// what its in-memory trackers reported over time. It never reads this
// history back into a tracker: the sketch's own state is still never
// persisted or restored, only its point-in-time reports are archived.
type ClickHouseWriter struct {
	conn     driver.Conn
	interval time.Duration
}

// NewClickHouseWriter connects to ClickHouse and ensures the snapshot
// table exists.
func NewClickHouseWriter(cfg config.ClickHouseConfig, interval time.Duration) (*ClickHouseWriter, error) {
	conn, err := connect(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to clickhouse: %w", err)
	}
	if err := conn.Exec(context.Background(), createColumnHeavyHittersTableStatement); err != nil {
		return nil, fmt.Errorf("failed to create column_heavy_hitters table: %w", err)
	}
	log.Println("Connected to ClickHouse and ensured column_heavy_hitters table exists.")
	return &ClickHouseWriter{conn: conn, interval: interval}, nil
}

func connect(cfg config.ClickHouseConfig) (driver.Conn, error) {
	addr := fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)
	conn, err := clickhouse.Open(&clickhouse.Options{
		Addr: []string{addr},
		Auth: clickhouse.Auth{
			Database: cfg.Database,
			Username: cfg.Username,
			Password: cfg.Password,
		},
	})
	if err != nil {
		return nil, err
	}
	if err := conn.Ping(context.Background()); err != nil {
		return nil, fmt.Errorf("failed to ping clickhouse: %w", err)
	}
	return conn, nil
}

func (w *ClickHouseWriter) Interval() time.Duration { return w.interval }

func (w *ClickHouseWriter) Write(ctx context.Context, columnName string, entries []sketch.Entry[sketch.StringKey]) error {
	batch, err := w.conn.PrepareBatch(ctx, "INSERT INTO column_heavy_hitters")
	if err != nil {
		return fmt.Errorf("failed to prepare batch: %w", err)
	}

	// One id per snapshot batch, so a partial write failure for this
	// column can be traced back to a single collector run.
	batchID := uuid.NewString()
	now := time.Now()

	for _, e := range entries {
		if err := batch.Append(now, batchID, columnName, string(e.Key), e.Count); err != nil {
			return fmt.Errorf("failed to append entry to batch: %w", err)
		}
	}

	if err := batch.Send(); err != nil {
		return fmt.Errorf("failed to send batch: %w", err)
	}

	log.Printf("Wrote %d heavy hitters for column %q to ClickHouse (batch %s)", len(entries), columnName, batchID)
	return nil
}
