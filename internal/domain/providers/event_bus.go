package providers

import (
	"context"

	"github.com/messup/backend/internal/domain/entities"
)

// EventBus defines the interface for publishing and subscribing to
// collection change events
type EventBus interface {
	// Publish publishes an event to all subscribers
	Publish(ctx context.Context, channel string, event *entities.CollectionEvent) error

	// Subscribe subscribes to events on a channel. The returned channel is
	// closed when ctx is done or the bus shuts down.
	Subscribe(ctx context.Context, channel string) (<-chan *entities.CollectionEvent, error)

	// Unsubscribe unsubscribes from a channel
	Unsubscribe(ctx context.Context, channel string) error

	// Close closes the event bus and all subscriptions
	Close() error
}

// EventChannelCollectionPrefix is the prefix for per-collection channels
const EventChannelCollectionPrefix = "collection:"

// GetCollectionChannel returns the channel name for a collection
func GetCollectionChannel(collection string) string {
	return EventChannelCollectionPrefix + collection
}
