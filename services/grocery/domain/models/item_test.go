package models

import (
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestNewItem(t *testing.T) {
	name := ItemName("Milk")

	t.Run("returns item with non-zero ID", func(t *testing.T) {
		item := NewItem(name, time.Now())
		if item.ID == (uuid.UUID{}) {
			t.Fatal("expected non-zero UUID for ID")
		}
	})

	t.Run("defaults bought to false", func(t *testing.T) {
		item := NewItem(name, time.Now())
		if item.Bought {
			t.Fatal("expected Bought=false for a new item")
		}
	})

	t.Run("sets Name correctly", func(t *testing.T) {
		item := NewItem(name, time.Now())
		if item.Name != name {
			t.Fatalf("expected Name %v, got %v", name, item.Name)
		}
	})

	t.Run("CreatedAt equals UpdatedAt in UTC", func(t *testing.T) {
		now := time.Date(2025, 3, 1, 9, 30, 0, 123456789, time.FixedZone("CET", 3600))
		item := NewItem(name, now)

		if item.CreatedAt.Location() != time.UTC {
			t.Errorf("expected UTC location, got %v", item.CreatedAt.Location())
		}
		if !item.CreatedAt.Equal(item.UpdatedAt) {
			t.Errorf("CreatedAt %v != UpdatedAt %v", item.CreatedAt, item.UpdatedAt)
		}
	})

	t.Run("truncates timestamps to microseconds", func(t *testing.T) {
		now := time.Date(2025, 3, 1, 9, 30, 0, 123456789, time.UTC)
		item := NewItem(name, now)

		want := time.Date(2025, 3, 1, 9, 30, 0, 123456000, time.UTC)
		if !item.CreatedAt.Equal(want) {
			t.Errorf("CreatedAt: got %v, want %v", item.CreatedAt, want)
		}
	})

	t.Run("generates unique IDs on each call", func(t *testing.T) {
		item1 := NewItem(name, time.Now())
		item2 := NewItem(name, time.Now())
		if item1.ID == item2.ID {
			t.Fatal("expected unique IDs, got identical")
		}
	})
}

func TestItem_Clone(t *testing.T) {
	orig := NewItem("Eggs", time.Now())
	c := orig.Clone()
	c.Bought = true

	if orig.Bought {
		t.Fatal("mutating the clone must not affect the original")
	}
	if c.ID != orig.ID {
		t.Fatal("clone must keep the ID")
	}
}
