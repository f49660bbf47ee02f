package entities

import (
	"time"

	"github.com/google/uuid"
)

// Collection names. These are the de facto schema contract with clients and
// must not change.
const (
	CollectionUsers         = "users"
	CollectionMenu          = "menu"
	CollectionFeedbacks     = "feedbacks"
	CollectionLeaveRequests = "leave_requests"
	CollectionOrders        = "orders"
	CollectionAnnouncements = "announcements"
)

// KnownCollection reports whether name is one of the persisted collections.
func KnownCollection(name string) bool {
	switch name {
	case CollectionUsers, CollectionMenu, CollectionFeedbacks,
		CollectionLeaveRequests, CollectionOrders, CollectionAnnouncements:
		return true
	}
	return false
}

// CollectionEventType represents the kind of change behind an event.
type CollectionEventType string

const (
	CollectionEventCreated CollectionEventType = "created"
	CollectionEventUpdated CollectionEventType = "updated"
	CollectionEventDeleted CollectionEventType = "deleted"
)

// CollectionEvent is the change notification published after every durable
// write. Subscribers use it only as a signal to re-fetch a fresh snapshot;
// it carries no record payload on purpose.
type CollectionEvent struct {
	ID         string              `json:"id"`
	Collection string              `json:"collection"`
	EventType  CollectionEventType `json:"event_type"`
	DocID      string              `json:"doc_id"`
	Timestamp  time.Time           `json:"timestamp"`
}

// NewCollectionEvent creates a new collection change event
func NewCollectionEvent(collection string, eventType CollectionEventType, docID string) *CollectionEvent {
	return &CollectionEvent{
		ID:         uuid.New().String(),
		Collection: collection,
		EventType:  eventType,
		DocID:      docID,
		Timestamp:  time.Now().UTC(),
	}
}
