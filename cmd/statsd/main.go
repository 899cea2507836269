// Command statsd runs the column-statistics collector daemon: it builds a
// tracker per configured column, feeds them from a NATS update stream,
// periodically snapshots them to the configured writers, and answers
// point/top-K queries over HTTP. Grounded on the source repository's
// cmd/ns-engine and cmd/ns-api, folded into one process the way a
// standalone stats service for a query optimizer would ship.
package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"OptimizerStats/internal/config"
	_ "OptimizerStats/internal/engine/columnstats" // registers the "topk" tracker kind
	"OptimizerStats/internal/engine/manager"
	"OptimizerStats/internal/factory"
	"OptimizerStats/internal/httpapi"
	"OptimizerStats/internal/ingest"
	"OptimizerStats/internal/model"
	"OptimizerStats/internal/writer"
)

func main() {
	log.Println("Starting statsd...")

	configPath := "configs/config.yaml"
	if len(os.Args) > 1 {
		configPath = os.Args[1]
	}

	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	log.Println("Configuration loaded successfully.")

	trackers, err := factory.Create(cfg)
	if err != nil {
		log.Fatalf("Failed to create trackers: %v", err)
	}

	writers, err := buildWriters(cfg)
	if err != nil {
		log.Fatalf("Failed to create writers: %v", err)
	}

	mgr := manager.New(trackers, writers)
	mgr.Start()

	byColumn := make(map[string]model.Tracker, len(trackers))
	for _, t := range trackers {
		byColumn[t.Name()] = t
	}

	var sub *ingest.Subscriber
	if cfg.Collector.Ingest.NATSURL != "" {
		sub, err = ingest.NewSubscriber(cfg.Collector.Ingest.NATSURL, cfg.Collector.Ingest.Subject)
		if err != nil {
			log.Fatalf("Failed to connect ingest subscriber: %v", err)
		}
		if err := sub.Start(func(u model.Update) {
			tr, ok := byColumn[u.Column]
			if !ok {
				log.Printf("Dropping update for unknown column %q", u.Column)
				return
			}
			tr.ProcessUpdate(u)
		}); err != nil {
			log.Fatalf("Failed to start ingest subscriber: %v", err)
		}
	} else {
		log.Println("No NATS URL configured, ingestion is in-process only.")
	}

	var apiServer *http.Server
	if cfg.Collector.API.ListenAddr != "" {
		handler := httpapi.NewHandler(trackers)
		apiServer = &http.Server{Addr: cfg.Collector.API.ListenAddr, Handler: handler.Router()}
		go func() {
			log.Printf("API server starting on %s", apiServer.Addr)
			if err := apiServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				log.Fatalf("Could not listen on %s: %v", apiServer.Addr, err)
			}
		}()
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	log.Println("Shutdown signal received, stopping statsd...")

	if sub != nil {
		sub.Close()
	}
	if apiServer != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := apiServer.Shutdown(ctx); err != nil {
			log.Printf("API server forced to shutdown: %v", err)
		}
	}
	mgr.Stop()

	log.Println("Shutdown complete.")
}

func buildWriters(cfg *config.Config) ([]model.Writer, error) {
	interval, err := time.ParseDuration(cfg.Collector.SnapshotInterval)
	if err != nil {
		return nil, fmt.Errorf("invalid snapshot_interval: %w", err)
	}
	if interval <= 0 {
		return nil, fmt.Errorf("snapshot_interval must be positive")
	}

	writers := make([]model.Writer, 0, len(cfg.Collector.Writers))
	for _, def := range cfg.Collector.Writers {
		if !def.Enabled {
			continue
		}
		switch def.Type {
		case "text":
			writers = append(writers, writer.NewTextWriter(def.Text.RootPath, interval))
			log.Printf("Text writer created at %s", def.Text.RootPath)
		case "clickhouse":
			w, err := writer.NewClickHouseWriter(def.ClickHouse, interval)
			if err != nil {
				log.Printf("Warning: failed to create clickhouse writer, skipping: %v", err)
				continue
			}
			writers = append(writers, w)
			log.Printf("ClickHouse writer created for database %s at %s:%d", def.ClickHouse.Database, def.ClickHouse.Host, def.ClickHouse.Port)
		default:
			log.Printf("Warning: unknown writer type %q, skipping.", def.Type)
		}
	}
	return writers, nil
}
