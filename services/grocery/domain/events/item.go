package events

import (
	"time"

	"github.com/google/uuid"
)

// Watermill topics published by the PostgreSQL item store.
const (
	TopicItemCreated       = "grocery.item.created"
	TopicItemStatusChanged = "grocery.item.status_changed"
	TopicItemDeleted       = "grocery.item.deleted"
)

// Topics lists every topic this bounded context publishes.
var Topics = []string{TopicItemCreated, TopicItemStatusChanged, TopicItemDeleted}

// ItemCreatedEvent is published after a new Item is persisted.
type ItemCreatedEvent struct {
	EventID    uuid.UUID `json:"event_id"` // Unique publish-time identifier for deduplication
	Version    int       `json:"version"`  // Schema version; increment on breaking changes
	ItemID     uuid.UUID `json:"item_id"`
	Name       string    `json:"name"`
	OccurredAt time.Time `json:"occurred_at"`
}

// ItemStatusChangedEvent is published after an item's bought flag is written,
// including writes that leave the value unchanged.
type ItemStatusChangedEvent struct {
	EventID    uuid.UUID `json:"event_id"`
	Version    int       `json:"version"`
	ItemID     uuid.UUID `json:"item_id"`
	Bought     bool      `json:"bought"`
	OccurredAt time.Time `json:"occurred_at"`
}

// ItemDeletedEvent is published after an item is hard-deleted.
type ItemDeletedEvent struct {
	EventID    uuid.UUID `json:"event_id"`
	Version    int       `json:"version"`
	ItemID     uuid.UUID `json:"item_id"`
	OccurredAt time.Time `json:"occurred_at"`
}
