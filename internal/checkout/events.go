package checkout

import (
	"encoding/json"
	"time"
)

const (
	EventSessionCreated = "CheckoutSessionCreated"

	TopicSessionCreated = "checkout.session.created"
)

// Envelope is the versioned wrapper around every published event.
type Envelope struct {
	EventID       string          `json:"event_id"`
	EventType     string          `json:"event_type"`
	EventVersion  int             `json:"event_version"`
	OccurredAt    time.Time       `json:"occurred_at"`
	Producer      string          `json:"producer"`
	TraceID       string          `json:"trace_id,omitempty"`
	CorrelationID string          `json:"correlation_id,omitempty"`
	Payload       json.RawMessage `json:"payload"`
}

type SessionCreatedPayload struct {
	SessionID     string              `json:"session_id"`
	Subject       string              `json:"subject"`
	Items         []ValidatedLineItem `json:"items"`
	SubtotalCents int64               `json:"subtotal_cents"`
}

// Partition key = session id, so all events for one session keep their order.
func PartitionKey(sessionID string) []byte { return []byte(sessionID) }
