// Package eventbus fans cluster state updates and alerts out to
// subscribers: in-process websocket clients always, and a Redis-backed
// transport when one is configured.
package eventbus

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// SchemaVersionV1 is the initial cluster event schema.
const SchemaVersionV1 = "v1"

// Envelope is the canonical wire form of one cluster event.
type Envelope struct {
	EventID       string          `json:"event_id"`
	EventType     string          `json:"event_type"`
	Timestamp     time.Time       `json:"timestamp"`
	SchemaVersion string          `json:"schema_version"`
	PublisherID   string          `json:"publisher_id"`
	ShardKey      string          `json:"shard_key"`
	OrderingKey   string          `json:"ordering_key"`
	Sequence      int64           `json:"sequence"`
	Payload       json.RawMessage `json:"payload"`
}

// BuildEnvelopeInput carries everything needed to mint a new envelope.
type BuildEnvelopeInput struct {
	EventType     string
	SchemaVersion string
	PublisherID   string
	ShardKey      string
	OrderingKey   string
	Sequence      int64
	Payload       any
}

// BuildEnvelope assigns event identity (UUID + UTC timestamp) and marshals
// the payload. SchemaVersion defaults to v1.
func BuildEnvelope(input BuildEnvelopeInput) (Envelope, error) {
	switch {
	case input.EventType == "":
		return Envelope{}, fmt.Errorf("eventbus: event type is required")
	case input.PublisherID == "":
		return Envelope{}, fmt.Errorf("eventbus: publisher id is required")
	case input.OrderingKey == "":
		return Envelope{}, fmt.Errorf("eventbus: ordering key is required")
	case input.Sequence <= 0:
		return Envelope{}, fmt.Errorf("eventbus: sequence must be > 0")
	}
	if input.SchemaVersion == "" {
		input.SchemaVersion = SchemaVersionV1
	}

	payload, err := json.Marshal(input.Payload)
	if err != nil {
		return Envelope{}, fmt.Errorf("eventbus: marshal payload: %w", err)
	}

	return Envelope{
		EventID:       uuid.NewString(),
		EventType:     input.EventType,
		Timestamp:     time.Now().UTC(),
		SchemaVersion: input.SchemaVersion,
		PublisherID:   input.PublisherID,
		ShardKey:      input.ShardKey,
		OrderingKey:   input.OrderingKey,
		Sequence:      input.Sequence,
		Payload:       payload,
	}, nil
}
