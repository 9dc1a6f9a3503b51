package eventbus

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"
)

// Transport publishes bytes to a subject.
type Transport interface {
	Publish(ctx context.Context, subject string, payload []byte) error
}

// Telemetry records event-bus pipeline health and publish behavior.
type Telemetry interface {
	RecordPublish(status string)
	RecordRetry()
	SetDegradedMode(active bool)
	RecordOutage()
	RecordRecovery()
}

type nopTelemetry struct{}

func (nopTelemetry) RecordPublish(string) {}
func (nopTelemetry) RecordRetry()         {}
func (nopTelemetry) SetDegradedMode(bool) {}
func (nopTelemetry) RecordOutage()        {}
func (nopTelemetry) RecordRecovery()      {}

// RetryConfig controls publish retry/backoff.
type RetryConfig struct {
	MaxRetries     int
	InitialBackoff time.Duration
	MaxBackoff     time.Duration
	BackoffFactor  float64
}

// DefaultRetryConfig is the retry policy used when none is supplied: three
// retries with exponential backoff from 50ms, capped at 2s.
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxRetries:     3,
		InitialBackoff: 50 * time.Millisecond,
		MaxBackoff:     2 * time.Second,
		BackoffFactor:  2,
	}
}

func (rc RetryConfig) validate() error {
	if rc.MaxRetries < 0 {
		return fmt.Errorf("eventbus: max retries cannot be negative")
	}
	if rc.InitialBackoff <= 0 || rc.MaxBackoff <= 0 || rc.BackoffFactor < 1 {
		return fmt.Errorf("eventbus: invalid retry config")
	}
	return nil
}

// next advances an exponential backoff, saturating at MaxBackoff.
func (rc RetryConfig) next(current time.Duration) time.Duration {
	n := time.Duration(float64(current) * rc.BackoffFactor)
	if n > rc.MaxBackoff {
		return rc.MaxBackoff
	}
	return n
}

// ClusterEvent is the publish input for a cluster-domain event (a state
// snapshot or an alert).
type ClusterEvent struct {
	Domain      Domain
	EventType   string
	ShardKey    string
	Schema      string
	Payload     any
	OrderingKey string
}

// subject resolves the event's bus subject and ordering key.
func (e ClusterEvent) subject() (string, string, error) {
	if e.EventType == "" {
		return "", "", fmt.Errorf("eventbus: event type cannot be empty")
	}
	orderingKey := e.OrderingKey
	if orderingKey == "" {
		orderingKey = e.ShardKey
	}
	if orderingKey == "" {
		return "", "", fmt.Errorf("eventbus: ordering key cannot be empty")
	}

	switch e.Domain {
	case DomainCluster:
		return ClusterSubject(e.ShardKey, e.EventType), orderingKey, nil
	case DomainAlert:
		return AlertSubject(e.ShardKey, e.EventType), orderingKey, nil
	}
	return "", "", fmt.Errorf("eventbus: unsupported domain %q", e.Domain)
}

// Publisher emits canonical cluster envelopes over a Transport. It assigns
// per-ordering-key sequence numbers, retries failed publishes with backoff,
// and tracks degraded mode across the outage/recovery boundary so telemetry
// sees one outage per incident rather than one per failed attempt.
type Publisher struct {
	transport   Transport
	publisherID string
	retry       RetryConfig
	telemetry   Telemetry

	mu        sync.Mutex
	sequences map[string]int64
	degraded  bool
}

// NewPublisher creates a publisher. publisherID identifies this controller
// instance on a shared transport.
func NewPublisher(publisherID string, transport Transport, retry RetryConfig, telemetry Telemetry) (*Publisher, error) {
	if publisherID == "" {
		return nil, fmt.Errorf("eventbus: publisher id cannot be empty")
	}
	if transport == nil {
		return nil, fmt.Errorf("eventbus: transport cannot be nil")
	}
	if err := retry.validate(); err != nil {
		return nil, err
	}
	if telemetry == nil {
		telemetry = nopTelemetry{}
	}
	return &Publisher{
		transport:   transport,
		publisherID: publisherID,
		retry:       retry,
		telemetry:   telemetry,
		sequences:   make(map[string]int64),
	}, nil
}

// PublishClusterEvent envelopes and publishes one event, retrying per the
// configured policy. The returned Envelope is the one that went out on the
// wire.
func (p *Publisher) PublishClusterEvent(ctx context.Context, event ClusterEvent) (Envelope, error) {
	if err := ctx.Err(); err != nil {
		return Envelope{}, err
	}
	subject, orderingKey, err := event.subject()
	if err != nil {
		return Envelope{}, err
	}

	envelope, err := BuildEnvelope(BuildEnvelopeInput{
		EventType:     event.EventType,
		SchemaVersion: event.Schema,
		PublisherID:   p.publisherID,
		ShardKey:      event.ShardKey,
		OrderingKey:   orderingKey,
		Sequence:      p.nextSequence(orderingKey),
		Payload:       event.Payload,
	})
	if err != nil {
		return Envelope{}, err
	}
	body, err := json.Marshal(envelope)
	if err != nil {
		return Envelope{}, fmt.Errorf("eventbus: marshal envelope: %w", err)
	}

	if err := p.publishWithRetry(ctx, subject, body); err != nil {
		return Envelope{}, err
	}
	return envelope, nil
}

func (p *Publisher) publishWithRetry(ctx context.Context, subject string, body []byte) error {
	backoff := p.retry.InitialBackoff
	var lastErr error

	for attempt := 0; attempt <= p.retry.MaxRetries; attempt++ {
		lastErr = p.transport.Publish(ctx, subject, body)
		if lastErr == nil {
			p.telemetry.RecordPublish("success")
			p.markRecovered()
			return nil
		}
		if attempt == p.retry.MaxRetries {
			break
		}
		p.telemetry.RecordRetry()
		p.markDegraded()

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(backoff):
		}
		backoff = p.retry.next(backoff)
	}

	p.telemetry.RecordPublish("failed")
	p.markDegraded()
	return fmt.Errorf("eventbus: publish failed: %w", lastErr)
}

// Degraded reports whether the last publish attempt left the bus degraded.
func (p *Publisher) Degraded() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.degraded
}

func (p *Publisher) nextSequence(orderingKey string) int64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.sequences[orderingKey]++
	return p.sequences[orderingKey]
}

func (p *Publisher) markDegraded() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.degraded {
		return
	}
	p.degraded = true
	p.telemetry.SetDegradedMode(true)
	p.telemetry.RecordOutage()
}

func (p *Publisher) markRecovered() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.degraded {
		return
	}
	p.degraded = false
	p.telemetry.SetDegradedMode(false)
	p.telemetry.RecordRecovery()
}
