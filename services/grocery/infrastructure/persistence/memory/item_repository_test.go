package memory

import (
	"context"
	"testing"

	"github.com/ghuser/grocerylist/services/grocery/domain/repositories"
	"github.com/ghuser/grocerylist/services/grocery/domain/repositories/repotest"
)

func TestItemRepository_Contract(t *testing.T) {
	repotest.Run(t, func(t *testing.T) repositories.ItemRepository {
		return NewItemRepository()
	})
}

func TestItemRepository_ReturnsCopies(t *testing.T) {
	repo := NewItemRepository()
	item := repotest.NewItem(t, "Milk", 0)
	if err := repo.Create(context.Background(), item); err != nil {
		t.Fatalf("Create: %v", err)
	}

	// Mutating the caller's value or a returned value must not reach the store.
	item.Bought = true
	got, err := repo.GetByID(context.Background(), item.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.Bought {
		t.Fatal("store shares state with the caller's item")
	}

	got.Name = "Changed"
	again, _ := repo.GetByID(context.Background(), item.ID)
	if again.Name != "Milk" {
		t.Fatalf("store shares state with returned item: %q", again.Name)
	}
}
