package eventbus

import (
	"encoding/json"
	"fmt"
	"sync"
)

// EnvelopeConsumer is the receive side of the bus: it decodes raw envelope
// bytes, runs them through the schema router, and drops duplicate event IDs
// so redelivery from the transport never reaches subscribers twice.
type EnvelopeConsumer struct {
	router *SchemaRouter

	mu   sync.Mutex
	seen map[string]struct{}
}

// NewEnvelopeConsumer creates a consumer; router may be nil to skip schema
// validation and version routing.
func NewEnvelopeConsumer(router *SchemaRouter) *EnvelopeConsumer {
	return &EnvelopeConsumer{
		router: router,
		seen:   make(map[string]struct{}),
	}
}

// DecodeAndValidate parses raw into an Envelope and its decoded payload
// view. The boolean result is true when the envelope is a duplicate of one
// already delivered; duplicates carry a nil payload and no error.
func (c *EnvelopeConsumer) DecodeAndValidate(raw []byte) (Envelope, any, bool, error) {
	var envelope Envelope
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return Envelope{}, nil, false, fmt.Errorf("eventbus: invalid envelope json: %w", err)
	}

	if c.router != nil {
		if err := c.router.ValidateIncoming(envelope); err != nil {
			return Envelope{}, nil, false, err
		}
	}

	if c.isDuplicate(envelope.EventID) {
		return envelope, nil, true, nil
	}

	if c.router == nil {
		return envelope, envelope, false, nil
	}
	decoded, err := c.router.Decode(envelope)
	if err != nil {
		return Envelope{}, nil, false, err
	}
	return envelope, decoded, false, nil
}

// isDuplicate records eventID and reports whether it was already seen.
func (c *EnvelopeConsumer) isDuplicate(eventID string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, dup := c.seen[eventID]; dup {
		return true
	}
	c.seen[eventID] = struct{}{}
	return false
}
