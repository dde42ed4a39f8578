package repositories

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/ghuser/grocerylist/services/grocery/domain/models"
)

// ItemRepository is the persistence interface for the Item aggregate.
// The domain layer owns this interface; infrastructure implements it.
//
// Implementations serialize operations on the same id: a read that follows a
// committed write observes it, and of two concurrent deletes exactly one
// succeeds. Callers never lock.
type ItemRepository interface {
	// Create persists a new Item. The item is re-validated first, so an empty
	// or untrimmed name fails with domain.ErrInvalidItemName.
	Create(ctx context.Context, item *models.Item) error

	// GetByID returns domain.ErrItemNotFound if no item has the id.
	GetByID(ctx context.Context, id uuid.UUID) (*models.Item, error)

	// List returns every item ordered by CreatedAt ascending, ties in insertion
	// order. An empty store yields an empty, non-nil slice.
	List(ctx context.Context) ([]*models.Item, error)

	// UpdateStatus sets Bought and refreshes UpdatedAt to at, even when the
	// value is unchanged. Returns the stored item after the write.
	UpdateStatus(ctx context.Context, id uuid.UUID, bought bool, at time.Time) (*models.Item, error)

	// Delete hard-removes the item. Returns domain.ErrItemNotFound if it is
	// already gone.
	Delete(ctx context.Context, id uuid.UUID) error
}
