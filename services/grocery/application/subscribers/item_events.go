// Package subscribers consumes the grocery item events published by the
// PostgreSQL store and turns them into metrics and audit log lines.
package subscribers

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/ThreeDotsLabs/watermill/message"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/ghuser/grocerylist/pkg/events"
	"github.com/ghuser/grocerylist/pkg/logger"
	itemEvents "github.com/ghuser/grocerylist/services/grocery/domain/events"
)

// Registrar is the subset of events.EventBus used here.
type Registrar interface {
	Handle(topic, name string, fn events.HandlerFunc) error
}

// ItemEvents holds the counters fed by the item topics.
type ItemEvents struct {
	log           logger.Logger
	created       metric.Int64Counter
	statusChanged metric.Int64Counter
	deleted       metric.Int64Counter
}

// NewItemEvents creates the grocery.items.* counters on meter.
func NewItemEvents(meter metric.Meter, log logger.Logger) (*ItemEvents, error) {
	created, err := meter.Int64Counter("grocery.items.created",
		metric.WithDescription("Grocery items created"))
	if err != nil {
		return nil, fmt.Errorf("created counter: %w", err)
	}
	statusChanged, err := meter.Int64Counter("grocery.items.status_changed",
		metric.WithDescription("Bought flag writes on grocery items"))
	if err != nil {
		return nil, fmt.Errorf("status_changed counter: %w", err)
	}
	deleted, err := meter.Int64Counter("grocery.items.deleted",
		metric.WithDescription("Grocery items deleted"))
	if err != nil {
		return nil, fmt.Errorf("deleted counter: %w", err)
	}
	return &ItemEvents{log: log, created: created, statusChanged: statusChanged, deleted: deleted}, nil
}

// Register adds one handler per item topic to bus. Handler names are
// derived from the topic so they stay unique on the router.
func (h *ItemEvents) Register(bus Registrar) error {
	handlers := map[string]events.HandlerFunc{
		itemEvents.TopicItemCreated:       h.HandleCreated,
		itemEvents.TopicItemStatusChanged: h.HandleStatusChanged,
		itemEvents.TopicItemDeleted:       h.HandleDeleted,
	}

	for _, topic := range itemEvents.Topics {
		if err := bus.Handle(topic, topic+".metrics", handlers[topic]); err != nil {
			return fmt.Errorf("register %s: %w", topic, err)
		}
	}

	h.log.Info("event handlers registered", "topics", itemEvents.Topics)
	return nil
}

// HandleCreated counts item.created events.
func (h *ItemEvents) HandleCreated(ctx context.Context, msg *message.Message) error {
	var evt itemEvents.ItemCreatedEvent
	if err := json.Unmarshal(msg.Payload, &evt); err != nil {
		return fmt.Errorf("decode %s: %w", itemEvents.TopicItemCreated, err)
	}
	h.created.Add(ctx, 1)
	h.log.InfoContext(ctx, "item created", "item_id", evt.ItemID, "name", evt.Name, "event_id", evt.EventID)
	return nil
}

// HandleStatusChanged counts status writes, labelled by the new value.
func (h *ItemEvents) HandleStatusChanged(ctx context.Context, msg *message.Message) error {
	var evt itemEvents.ItemStatusChangedEvent
	if err := json.Unmarshal(msg.Payload, &evt); err != nil {
		return fmt.Errorf("decode %s: %w", itemEvents.TopicItemStatusChanged, err)
	}
	h.statusChanged.Add(ctx, 1, metric.WithAttributes(attribute.Bool("bought", evt.Bought)))
	h.log.InfoContext(ctx, "item status changed", "item_id", evt.ItemID, "bought", evt.Bought, "event_id", evt.EventID)
	return nil
}

// HandleDeleted counts item.deleted events.
func (h *ItemEvents) HandleDeleted(ctx context.Context, msg *message.Message) error {
	var evt itemEvents.ItemDeletedEvent
	if err := json.Unmarshal(msg.Payload, &evt); err != nil {
		return fmt.Errorf("decode %s: %w", itemEvents.TopicItemDeleted, err)
	}
	h.deleted.Add(ctx, 1)
	h.log.InfoContext(ctx, "item deleted", "item_id", evt.ItemID, "event_id", evt.EventID)
	return nil
}
