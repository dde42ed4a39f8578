package subscribers

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/google/uuid"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"

	"github.com/ghuser/grocerylist/pkg/events"
	"github.com/ghuser/grocerylist/pkg/logger"
	itemEvents "github.com/ghuser/grocerylist/services/grocery/domain/events"
)

func newTestItemEvents(t *testing.T) (*ItemEvents, *sdkmetric.ManualReader) {
	t.Helper()
	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	t.Cleanup(func() { _ = mp.Shutdown(context.Background()) })

	h, err := NewItemEvents(mp.Meter("test"), logger.Discard())
	if err != nil {
		t.Fatalf("NewItemEvents: %v", err)
	}
	return h, reader
}

func jsonMessage(t *testing.T, v any) *message.Message {
	t.Helper()
	payload, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	return message.NewMessage(uuid.NewString(), payload)
}

// counterTotal sums every data point of the named Int64 sum.
func counterTotal(t *testing.T, reader *sdkmetric.ManualReader, name string) int64 {
	t.Helper()
	var rm metricdata.ResourceMetrics
	if err := reader.Collect(context.Background(), &rm); err != nil {
		t.Fatalf("collect: %v", err)
	}
	var total int64
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			if m.Name != name {
				continue
			}
			sum, ok := m.Data.(metricdata.Sum[int64])
			if !ok {
				t.Fatalf("%s: unexpected data type %T", name, m.Data)
			}
			for _, dp := range sum.DataPoints {
				total += dp.Value
			}
		}
	}
	return total
}

func TestItemEvents_Handlers(t *testing.T) {
	ctx := context.Background()
	h, reader := newTestItemEvents(t)
	now := time.Now().UTC()
	id := uuid.New()

	if err := h.HandleCreated(ctx, jsonMessage(t, itemEvents.ItemCreatedEvent{EventID: uuid.New(), Version: 1, ItemID: id, Name: "Milk", OccurredAt: now})); err != nil {
		t.Fatalf("HandleCreated: %v", err)
	}
	for _, bought := range []bool{true, false, true} {
		if err := h.HandleStatusChanged(ctx, jsonMessage(t, itemEvents.ItemStatusChangedEvent{EventID: uuid.New(), Version: 1, ItemID: id, Bought: bought, OccurredAt: now})); err != nil {
			t.Fatalf("HandleStatusChanged: %v", err)
		}
	}
	if err := h.HandleDeleted(ctx, jsonMessage(t, itemEvents.ItemDeletedEvent{EventID: uuid.New(), Version: 1, ItemID: id, OccurredAt: now})); err != nil {
		t.Fatalf("HandleDeleted: %v", err)
	}

	tests := []struct {
		name string
		want int64
	}{
		{"grocery.items.created", 1},
		{"grocery.items.status_changed", 3},
		{"grocery.items.deleted", 1},
	}
	for _, tt := range tests {
		if got := counterTotal(t, reader, tt.name); got != tt.want {
			t.Errorf("%s: got %d, want %d", tt.name, got, tt.want)
		}
	}
}

func TestItemEvents_RejectsMalformedPayload(t *testing.T) {
	h, reader := newTestItemEvents(t)
	msg := message.NewMessage(uuid.NewString(), []byte("{not json"))

	handlers := map[string]func(context.Context, *message.Message) error{
		"created":        h.HandleCreated,
		"status_changed": h.HandleStatusChanged,
		"deleted":        h.HandleDeleted,
	}
	for name, handle := range handlers {
		t.Run(name, func(t *testing.T) {
			if err := handle(context.Background(), msg); err == nil {
				t.Fatal("expected decode error")
			}
		})
	}
	if got := counterTotal(t, reader, "grocery.items.created"); got != 0 {
		t.Fatalf("malformed payload was counted: %d", got)
	}
}

type fakeBus struct {
	names  []string
	failOn string
}

func (b *fakeBus) Handle(topic, name string, _ events.HandlerFunc) error {
	if topic == b.failOn {
		return errors.New("handle failed")
	}
	b.names = append(b.names, name)
	return nil
}

func TestItemEvents_Register(t *testing.T) {
	h, _ := newTestItemEvents(t)

	bus := &fakeBus{}
	if err := h.Register(bus); err != nil {
		t.Fatalf("Register: %v", err)
	}
	if len(bus.names) != len(itemEvents.Topics) {
		t.Fatalf("registered %v, want one per topic in %v", bus.names, itemEvents.Topics)
	}
	seen := map[string]bool{}
	for _, n := range bus.names {
		if seen[n] {
			t.Fatalf("duplicate handler name %q", n)
		}
		seen[n] = true
	}

	failing := &fakeBus{failOn: itemEvents.TopicItemDeleted}
	if err := h.Register(failing); err == nil {
		t.Fatal("expected handle error to propagate")
	}
}
