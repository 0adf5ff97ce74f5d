// Package events carries domain events from the storefront to a message
// broker. Publishing is best effort: callers log failures and move on.
package events

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	OrderCreated       = "order.created"
	OrderStatusUpdated = "order.status_updated"
	OrderDeleted       = "order.deleted"

	CartItemAdded   = "cart.item_added"
	CartItemUpdated = "cart.item_updated"
	CartItemRemoved = "cart.item_removed"
	CartCleared     = "cart.cleared"

	ProductCreated = "product.created"
	ProductUpdated = "product.updated"
	ProductDeleted = "product.deleted"
)

// Event is the envelope written to the broker.
type Event struct {
	ID         string    `json:"id"`
	Type       string    `json:"type"`
	Key        string    `json:"key"`
	OccurredAt time.Time `json:"occurredAt"`
	Payload    any       `json:"payload"`
}

// New wraps payload in an envelope. key identifies the aggregate (order id,
// user id, product id) and is used for partitioning.
func New(eventType, key string, payload any) Event {
	return Event{
		ID:         uuid.NewString(),
		Type:       eventType,
		Key:        key,
		OccurredAt: time.Now().UTC(),
		Payload:    payload,
	}
}

// Topics lists every stream the storefront writes to.
var Topics = []string{"order_events", "cart_events", "product_events"}

// Topic maps an event type to its stream, e.g. "order.created" -> "order_events".
func Topic(eventType string) string {
	aggregate, _, _ := strings.Cut(eventType, ".")
	return aggregate + "_events"
}

// Publisher delivers events to a broker.
type Publisher interface {
	Publish(ctx context.Context, e Event) error
	Close() error
}

// Nop discards every event. It is used when no broker is configured.
type Nop struct{}

func (Nop) Publish(context.Context, Event) error { return nil }
func (Nop) Close() error                         { return nil }
