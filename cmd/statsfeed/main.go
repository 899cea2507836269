// Command statsfeed publishes synthetic (column, key, delta) updates to
// NATS at a configurable rate. It exists to drive a running statsd
// instance for local testing and to exercise the heavy-hitter
// convergence property under a skewed key distribution, grounded on the
// source repository's cmd/ns-probe in "pub" mode.
package main

import (
	"flag"
	"fmt"
	"log"
	"math/rand"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/nats-io/nats.go"

	"OptimizerStats/internal/ingest"
	"OptimizerStats/internal/model"
)

func main() {
	natsURL := flag.String("nats-url", nats.DefaultURL, "NATS server URL.")
	subject := flag.String("subject", "optimizerstats.updates", "NATS subject to publish updates on.")
	column := flag.String("column", "", "Column name to feed (required).")
	cardinality := flag.Int("cardinality", 1000, "Number of distinct keys in the synthetic distribution.")
	hotFraction := flag.Float64("hot-fraction", 0.05, "Fraction of keys treated as heavy hitters (0,1].")
	hotWeight := flag.Float64("hot-weight", 0.8, "Fraction of traffic directed at the heavy-hitter keys (0,1].")
	rate := flag.Duration("rate", 10*time.Millisecond, "Delay between published updates.")
	seed := flag.Int64("seed", 1, "Random seed for the synthetic key distribution.")
	flag.Parse()

	if *column == "" {
		fmt.Fprintln(os.Stderr, "Error: -column is required.")
		flag.Usage()
		os.Exit(1)
	}

	pub, err := ingest.NewPublisher(*natsURL, *subject)
	if err != nil {
		log.Fatalf("Failed to connect to NATS: %v", err)
	}
	defer pub.Close()

	log.Printf("Feeding column %q to subject %q at %s (cardinality=%d, hot-fraction=%.3f, hot-weight=%.3f)",
		*column, *subject, natsAddr(*natsURL), *cardinality, *hotFraction, *hotWeight)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	rng := rand.New(rand.NewSource(*seed))
	keyGen := newSkewedKeyGen(*cardinality, *hotFraction, *hotWeight, rng)

	ticker := time.NewTicker(*rate)
	defer ticker.Stop()

	var sent int64
	for {
		select {
		case <-sigChan:
			log.Printf("Shutdown signal received, stopping statsfeed after %d updates.", sent)
			return
		case <-ticker.C:
			u := model.Update{Column: *column, Key: keyGen.next(), Delta: 1}
			if err := pub.Publish(u); err != nil {
				log.Printf("Failed to publish update: %v", err)
				continue
			}
			sent++
			if sent%1000 == 0 {
				log.Printf("Published %d updates.", sent)
			}
		}
	}
}

func natsAddr(url string) string {
	return strings.TrimPrefix(url, "nats://")
}

// skewedKeyGen draws keys from a two-tier distribution: a small "hot" set
// receives hotWeight of the traffic, the remaining keys share the rest
// uniformly. This gives a running statsd instance an actual heavy-hitter
// tail to converge on instead of a flat distribution no top-K would ever
// stabilize against.
type skewedKeyGen struct {
	hotKeys  []string
	coldKeys []string
	hotWeight float64
	rng      *rand.Rand
}

func newSkewedKeyGen(cardinality int, hotFraction, hotWeight float64, rng *rand.Rand) *skewedKeyGen {
	if cardinality < 1 {
		cardinality = 1
	}
	hotCount := int(float64(cardinality) * hotFraction)
	if hotCount < 1 {
		hotCount = 1
	}
	if hotCount > cardinality {
		hotCount = cardinality
	}

	g := &skewedKeyGen{hotWeight: hotWeight, rng: rng}
	for i := 0; i < hotCount; i++ {
		g.hotKeys = append(g.hotKeys, "key-hot-"+strconv.Itoa(i))
	}
	for i := hotCount; i < cardinality; i++ {
		g.coldKeys = append(g.coldKeys, "key-"+strconv.Itoa(i))
	}
	if len(g.coldKeys) == 0 {
		g.coldKeys = g.hotKeys
	}
	return g
}

func (g *skewedKeyGen) next() string {
	if g.rng.Float64() < g.hotWeight {
		return g.hotKeys[g.rng.Intn(len(g.hotKeys))]
	}
	return g.coldKeys[g.rng.Intn(len(g.coldKeys))]
}
