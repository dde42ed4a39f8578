package models

import (
	"time"

	"github.com/google/uuid"
)

// Item is the grocery checklist entry, the only aggregate of this bounded context.
type Item struct {
	ID        uuid.UUID
	Name      ItemName
	Bought    bool
	CreatedAt time.Time
	UpdatedAt time.Time // refreshed on every mutation; not exposed over HTTP
}

// NewItem constructs an unbought Item with a generated ID. CreatedAt and
// UpdatedAt are both set to now, truncated to microseconds so the value
// survives a round trip through every store backend unchanged.
func NewItem(name ItemName, now time.Time) *Item {
	ts := now.UTC().Truncate(time.Microsecond)
	return &Item{
		ID:        uuid.New(),
		Name:      name,
		Bought:    false,
		CreatedAt: ts,
		UpdatedAt: ts,
	}
}

// Clone returns a copy that shares no state with the receiver.
func (i *Item) Clone() *Item {
	c := *i
	return &c
}
