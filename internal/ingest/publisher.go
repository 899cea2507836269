package ingest

import (
	"encoding/json"
	"log"

	"github.com/nats-io/nats.go"

	"OptimizerStats/internal/model"
)

// Publisher publishes update messages to a NATS subject.
type Publisher struct {
	nc      *nats.Conn
	subject string
}

// NewPublisher connects to NATS and prepares to publish.
func NewPublisher(url, subject string) (*Publisher, error) {
	nc, err := nats.Connect(url)
	if err != nil {
		return nil, err
	}
	log.Printf("Connected to NATS server at %s", url)
	return &Publisher{nc: nc, subject: subject}, nil
}

// Publish JSON-encodes an update and publishes it to the configured subject.
func (p *Publisher) Publish(u model.Update) error {
	data, err := json.Marshal(wireUpdate{Column: u.Column, Key: u.Key, Delta: u.Delta})
	if err != nil {
		return err
	}
	return p.nc.Publish(p.subject, data)
}

// Close drains and closes the NATS connection.
func (p *Publisher) Close() {
	if p.nc != nil {
		p.nc.Drain()
		log.Println("NATS connection drained and closed.")
	}
}
