package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// ColumnTrackerDef defines one column's heavy-hitter tracker from the
// config file. Either Width/Depth or Epsilon/Delta is expected to be set;
// whichever the tracker's factory function was built to consume decides
// how the sketch gets sized.
type ColumnTrackerDef struct {
	Name    string  `yaml:"name"`
	Kind    string  `yaml:"kind"`
	K       int     `yaml:"k"`
	Width   uint32  `yaml:"width"`
	Depth   uint32  `yaml:"depth"`
	Epsilon float64 `yaml:"epsilon"`
	Delta   float64 `yaml:"delta"`
	Seed    uint64  `yaml:"seed"`
}

// WriterDef enables and configures one snapshot sink.
type WriterDef struct {
	Type       string           `yaml:"type"`
	Enabled    bool             `yaml:"enabled"`
	Text       TextConfig       `yaml:"text"`
	ClickHouse ClickHouseConfig `yaml:"clickhouse"`
}

// TextConfig configures the on-disk diagnostic writer.
type TextConfig struct {
	RootPath string `yaml:"root_path"`
}

// ClickHouseConfig configures the ClickHouse snapshot-history sink.
type ClickHouseConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Database string `yaml:"database"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`
}

// IngestConfig configures the NATS ingestion front-end.
type IngestConfig struct {
	NATSURL string `yaml:"nats_url"`
	Subject string `yaml:"subject"`
}

// APIConfig configures the HTTP query surface.
type APIConfig struct {
	ListenAddr string `yaml:"listen_addr"`
}

// CollectorConfig holds the configuration for the column-statistics
// collector.
type CollectorConfig struct {
	Columns          []ColumnTrackerDef `yaml:"columns"`
	SnapshotInterval string             `yaml:"snapshot_interval"`
	Writers          []WriterDef        `yaml:"writers"`
	Ingest           IngestConfig       `yaml:"ingest"`
	API              APIConfig          `yaml:"api"`
}

// Config is the top-level configuration struct for the collector daemon.
type Config struct {
	Collector CollectorConfig `yaml:"collector"`
}

// LoadConfig reads the configuration from a YAML file and returns a Config struct.
func LoadConfig(filePath string) (*Config, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config YAML: %w", err)
	}

	return &cfg, nil
}
