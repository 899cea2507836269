// Package ingest connects the collector to its update stream over NATS,
// grounded on the source repository's internal/probe publisher/subscriber
// pair. Where the source encodes packet metadata as protobuf, updates here
// are encoded as JSON: there is no generated wire schema for this domain,
// and JSON via the standard library is the direct, dependency-free
// analogue for a hand-authored message shape.
package ingest

import (
	"encoding/json"
	"log"

	"github.com/nats-io/nats.go"

	"OptimizerStats/internal/model"
)

// UpdateHandler processes one decoded Update.
type UpdateHandler func(u model.Update)

// wireUpdate is the JSON shape published to and consumed from NATS.
type wireUpdate struct {
	Column string `json:"column"`
	Key    string `json:"key"`
	Delta  int64  `json:"delta"`
}

// Subscriber consumes update messages from a NATS subject.
type Subscriber struct {
	nc      *nats.Conn
	sub     *nats.Subscription
	subject string
}

// NewSubscriber connects to NATS and prepares to subscribe.
func NewSubscriber(url, subject string) (*Subscriber, error) {
	nc, err := nats.Connect(url)
	if err != nil {
		return nil, err
	}
	log.Printf("Connected to NATS server at %s", url)
	return &Subscriber{nc: nc, subject: subject}, nil
}

// Start subscribes to the configured subject, decoding each message and
// invoking handler. A message that fails to decode is logged and dropped,
// never fatal to the subscription.
func (s *Subscriber) Start(handler UpdateHandler) error {
	sub, err := s.nc.Subscribe(s.subject, func(msg *nats.Msg) {
		var w wireUpdate
		if err := json.Unmarshal(msg.Data, &w); err != nil {
			log.Printf("Error decoding update from NATS: %v", err)
			return
		}
		handler(model.Update{Column: w.Column, Key: w.Key, Delta: w.Delta})
	})
	if err != nil {
		return err
	}
	s.sub = sub
	log.Printf("Subscribed to %q. Waiting for updates...", s.subject)
	return nil
}

// Close unsubscribes and closes the NATS connection.
func (s *Subscriber) Close() {
	if s.sub != nil {
		s.sub.Unsubscribe()
	}
	if s.nc != nil {
		s.nc.Close()
		log.Println("NATS connection closed.")
	}
}
