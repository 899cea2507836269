package config

import (
	"os"
	"path/filepath"
	"testing"
)

const sampleConfig = `
collector:
  columns:
    - name: orders.customer_id
      kind: topk
      k: 50
      epsilon: 0.001
      delta: 0.01
      seed: 5915587277
    - name: orders.status
      kind: topk
      k: 16
      width: 2048
      depth: 4
      seed: 1500450271
  snapshot_interval: 30s
  writers:
    - type: text
      enabled: true
      text:
        root_path: ./snapshots
    - type: clickhouse
      enabled: false
      clickhouse:
        host: 127.0.0.1
        port: 9000
        database: optimizer_stats
        username: default
        password: ""
  ingest:
    nats_url: nats://127.0.0.1:4222
    subject: optimizerstats.updates
  api:
    listen_addr: 127.0.0.1:8089
`

func writeTempConfig(t *testing.T, contents string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("failed to write temp config: %v", err)
	}
	return path
}

func TestLoadConfigRoundTrip(t *testing.T) {
	path := writeTempConfig(t, sampleConfig)

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig returned error: %v", err)
	}

	if len(cfg.Collector.Columns) != 2 {
		t.Fatalf("expected 2 columns, got %d", len(cfg.Collector.Columns))
	}

	first := cfg.Collector.Columns[0]
	if first.Name != "orders.customer_id" || first.Kind != "topk" {
		t.Errorf("unexpected first column: %+v", first)
	}
	if first.K != 50 || first.Epsilon != 0.001 || first.Delta != 0.01 {
		t.Errorf("unexpected epsilon/delta sizing on first column: %+v", first)
	}

	second := cfg.Collector.Columns[1]
	if second.Width != 2048 || second.Depth != 4 {
		t.Errorf("unexpected width/depth sizing on second column: %+v", second)
	}

	if cfg.Collector.SnapshotInterval != "30s" {
		t.Errorf("expected snapshot_interval 30s, got %q", cfg.Collector.SnapshotInterval)
	}

	if len(cfg.Collector.Writers) != 2 {
		t.Fatalf("expected 2 writers, got %d", len(cfg.Collector.Writers))
	}
	if !cfg.Collector.Writers[0].Enabled || cfg.Collector.Writers[0].Text.RootPath != "./snapshots" {
		t.Errorf("unexpected text writer config: %+v", cfg.Collector.Writers[0])
	}
	if cfg.Collector.Writers[1].Enabled {
		t.Errorf("expected clickhouse writer to be disabled")
	}
	if cfg.Collector.Writers[1].ClickHouse.Database != "optimizer_stats" {
		t.Errorf("unexpected clickhouse database: %q", cfg.Collector.Writers[1].ClickHouse.Database)
	}

	if cfg.Collector.Ingest.NATSURL != "nats://127.0.0.1:4222" || cfg.Collector.Ingest.Subject != "optimizerstats.updates" {
		t.Errorf("unexpected ingest config: %+v", cfg.Collector.Ingest)
	}
	if cfg.Collector.API.ListenAddr != "127.0.0.1:8089" {
		t.Errorf("unexpected api listen addr: %q", cfg.Collector.API.ListenAddr)
	}
}

func TestLoadConfigMissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "does-not-exist.yaml"))
	if err == nil {
		t.Fatal("expected an error for a missing config file, got nil")
	}
}

func TestLoadConfigInvalidYAML(t *testing.T) {
	path := writeTempConfig(t, "collector: [this is not a map")
	_, err := LoadConfig(path)
	if err == nil {
		t.Fatal("expected an error for malformed YAML, got nil")
	}
}
