// Package events publishes message lifecycle events to a topic exchange so
// downstream consumers (list views, notifiers) can react without polling.
package events

import (
	"context"
	"time"
)

// Routing keys for message lifecycle events.
const (
	KeyMessageInbound   = "message.inbound"
	KeyMessageSent      = "message.sent"
	KeyMessageFailed    = "message.failed"
	KeyMessageDelivered = "message.delivered"
)

type Meta struct {
	ID            string    `json:"id"`
	Type          string    `json:"type"`
	OccurredAt    time.Time `json:"occurred_at"`
	CorrelationID string    `json:"correlation_id,omitempty"`
}

type Envelope struct {
	Meta Meta `json:"meta"`
	Data any  `json:"data"`
}

// MessageEvent is the payload carried by every lifecycle key.
type MessageEvent struct {
	MessageID  int64  `json:"message_id"`
	ChatroomID int64  `json:"chatroom_id"`
	Direction  string `json:"direction"`
	Status     string `json:"status,omitempty"`
	ExternalID string `json:"external_id,omitempty"`
}

type Publisher interface {
	Publish(ctx context.Context, key string, env Envelope) error
	Close() error
}
