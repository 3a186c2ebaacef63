package providers

import (
	"context"

	"github.com/discoverly/discoverly/backend/internal/domain/entities"
)

// EventBus defines the interface for publishing and subscribing to business
// events. The discovery core only publishes; count-incrementing consumers
// live in adjacent services.
type EventBus interface {
	// Publish publishes an event to all subscribers
	Publish(ctx context.Context, channel string, event *entities.BusinessEvent) error

	// Subscribe subscribes to events on a channel
	Subscribe(ctx context.Context, channel string) (<-chan *entities.BusinessEvent, error)

	// Unsubscribe unsubscribes from a channel
	Unsubscribe(ctx context.Context, channel string) error

	// Close closes the event bus and all subscriptions
	Close() error
}

// Event channels
const (
	// EventChannelBusinessActivity carries view events for downstream
	// counter increments
	EventChannelBusinessActivity = "business:activity"

	// EventChannelBusinessPrefix is the prefix for business-specific channels
	EventChannelBusinessPrefix = "business:"
)

// GetBusinessChannel returns the channel name for a specific business
func GetBusinessChannel(businessID string) string {
	return EventChannelBusinessPrefix + businessID
}
