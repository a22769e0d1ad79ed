// Package events publishes user activity to a message broker so other services
// can react to changes without polling the database.
package events

import (
	"context"
	"encoding/json"
	"strings"
	"time"
)

// Event describes one mutation performed by a user.
type Event struct {
	ID           string          `json:"id"`
	UserID       string          `json:"userId"`
	Action       string          `json:"action"`
	ResourceType string          `json:"resourceType"`
	ResourceID   string          `json:"resourceId"`
	Changes      json.RawMessage `json:"changes,omitempty"`
	OccurredAt   time.Time       `json:"occurredAt"`
}

// RoutingKey returns the topic key "<resource_type>.<action>", lower-cased.
func (e Event) RoutingKey() string {
	return strings.ToLower(e.ResourceType + "." + e.Action)
}

// Publisher delivers events. Implementations must be safe for concurrent use.
type Publisher interface {
	Publish(ctx context.Context, event Event) error
	Close() error
}

// NopPublisher discards every event. Used when no broker is configured.
type NopPublisher struct{}

// Publish implements Publisher.
func (NopPublisher) Publish(context.Context, Event) error { return nil }

// Close implements Publisher.
func (NopPublisher) Close() error { return nil }

// New returns an AMQP publisher for url, or a NopPublisher when url is empty.
func New(url, exchange string) (Publisher, error) {
	if url == "" {
		return NopPublisher{}, nil
	}
	pub, err := NewAMQPPublisher(url, exchange)
	if err != nil {
		return nil, err
	}
	return pub, nil
}
