package eventbus

import (
	"encoding/json"
	"fmt"
	"sort"
	"sync"
)

// PayloadSchema is the payload contract for one event type at one schema
// version.
type PayloadSchema struct {
	SchemaVersion string
	EventType     string
	Required      []string
	Optional      []string
}

// EnvelopeDecoder converts an envelope into a version-specific consumer
// view.
type EnvelopeDecoder func(envelope Envelope) (any, error)

// SchemaRouter validates envelopes against registered payload contracts
// and routes them to version-specific decoders. Unknown versions and event
// types pass through untouched, so adding a new event type never requires
// every consumer to register for it first.
type SchemaRouter struct {
	mu       sync.RWMutex
	schemas  map[string]PayloadSchema // keyed by version:eventType
	decoders map[string]EnvelopeDecoder
}

// NewSchemaRouter creates an empty router.
func NewSchemaRouter() *SchemaRouter {
	return &SchemaRouter{
		schemas:  make(map[string]PayloadSchema),
		decoders: make(map[string]EnvelopeDecoder),
	}
}

// RegisterPayloadSchema installs a payload contract.
func (r *SchemaRouter) RegisterPayloadSchema(schema PayloadSchema) error {
	if schema.SchemaVersion == "" || schema.EventType == "" {
		return fmt.Errorf("eventbus: schema version and event type are required")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.schemas[schemaKey(schema.SchemaVersion, schema.EventType)] = schema
	return nil
}

// RegisterDecoder installs the decoder for one schema version.
func (r *SchemaRouter) RegisterDecoder(schemaVersion string, decoder EnvelopeDecoder) error {
	if schemaVersion == "" {
		return fmt.Errorf("eventbus: schema version is required")
	}
	if decoder == nil {
		return fmt.Errorf("eventbus: decoder cannot be nil")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.decoders[schemaVersion] = decoder
	return nil
}

// ValidateOutgoing checks an envelope at the publish boundary.
func (r *SchemaRouter) ValidateOutgoing(envelope Envelope) error {
	return r.validateEnvelope(envelope)
}

// ValidateIncoming checks an envelope at the consume boundary.
func (r *SchemaRouter) ValidateIncoming(envelope Envelope) error {
	return r.validateEnvelope(envelope)
}

func (r *SchemaRouter) validateEnvelope(envelope Envelope) error {
	if envelope.EventID == "" || envelope.EventType == "" || envelope.SchemaVersion == "" {
		return fmt.Errorf("eventbus: missing required envelope fields")
	}
	if envelope.PublisherID == "" || envelope.OrderingKey == "" || envelope.Sequence <= 0 {
		return fmt.Errorf("eventbus: missing required identity/ordering fields")
	}

	r.mu.RLock()
	schema, registered := r.schemas[schemaKey(envelope.SchemaVersion, envelope.EventType)]
	r.mu.RUnlock()
	if !registered {
		return nil
	}
	return checkRequiredFields(envelope.Payload, schema)
}

// Decode routes the envelope to its version's decoder; envelopes with no
// registered decoder are returned as-is.
func (r *SchemaRouter) Decode(envelope Envelope) (any, error) {
	r.mu.RLock()
	decoder := r.decoders[envelope.SchemaVersion]
	r.mu.RUnlock()
	if decoder == nil {
		return envelope, nil
	}
	return decoder(envelope)
}

func checkRequiredFields(payload json.RawMessage, schema PayloadSchema) error {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(payload, &fields); err != nil {
		return fmt.Errorf("eventbus: invalid payload json: %w", err)
	}
	for _, name := range schema.Required {
		if _, ok := fields[name]; !ok {
			return fmt.Errorf("eventbus: required payload field %q missing", name)
		}
	}
	return nil
}

func schemaKey(version, eventType string) string {
	return version + ":" + eventType
}

// FieldSchema is one field of a versioned payload schema.
type FieldSchema struct {
	Name     string
	Type     string
	Required bool
}

// VersionedSchema is a full payload schema used for evolution checks.
type VersionedSchema struct {
	SchemaVersion string
	Fields        []FieldSchema
}

// CompatibilityReport classifies the changes between two schema versions.
// Additive evolution (new optional fields only) is compatible; removals,
// type changes, new required fields, and required→optional flips are
// breaking.
type CompatibilityReport struct {
	Compatible    bool
	Additive      bool
	AddedOptional []string
	AddedRequired []string
	Removed       []string
	TypeChanged   []string
}

// CheckCompatibility compares previous and next payload schemas.
func CheckCompatibility(previous, next VersionedSchema) CompatibilityReport {
	prev := make(map[string]FieldSchema, len(previous.Fields))
	for _, f := range previous.Fields {
		prev[f.Name] = f
	}
	curr := make(map[string]FieldSchema, len(next.Fields))
	for _, f := range next.Fields {
		curr[f.Name] = f
	}

	report := CompatibilityReport{Compatible: true, Additive: true}
	breaking := func() {
		report.Compatible = false
		report.Additive = false
	}

	for name, prevField := range prev {
		nextField, kept := curr[name]
		switch {
		case !kept:
			breaking()
			report.Removed = append(report.Removed, name)
		case prevField.Type != nextField.Type:
			breaking()
			report.TypeChanged = append(report.TypeChanged, name)
		case prevField.Required && !nextField.Required:
			breaking()
			report.TypeChanged = append(report.TypeChanged, name+":requiredness")
		}
	}

	for name, nextField := range curr {
		if _, existed := prev[name]; existed {
			continue
		}
		if nextField.Required {
			breaking()
			report.AddedRequired = append(report.AddedRequired, name)
		} else {
			report.AddedOptional = append(report.AddedOptional, name)
		}
	}

	sort.Strings(report.AddedOptional)
	sort.Strings(report.AddedRequired)
	sort.Strings(report.Removed)
	sort.Strings(report.TypeChanged)
	return report
}
