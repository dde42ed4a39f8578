package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/ghuser/grocerylist/services/grocery/domain/models"
	"github.com/ghuser/grocerylist/services/grocery/domain/repositories"
)

// ItemService orchestrates the grocery item use cases on top of an
// ItemRepository. Per-item serialization is the repository's job; the
// service holds no locks. Event publishing is handled by the repository
// layer (outbox pattern).
type ItemService struct {
	repo repositories.ItemRepository
	now  func() time.Time
}

// NewItemService returns an ItemService using the wall clock.
func NewItemService(repo repositories.ItemRepository) *ItemService {
	return &ItemService{repo: repo, now: time.Now}
}

// WithClock replaces the time source. Tests use it to pin timestamps.
func (s *ItemService) WithClock(now func() time.Time) *ItemService {
	s.now = now
	return s
}

// Create trims and validates name, then persists a new unbought Item.
// Name violations are returned as *domain.FieldError wrapping ErrInvalidItemName.
func (s *ItemService) Create(ctx context.Context, name string) (*models.Item, error) {
	itemName, err := models.NewItemName(name)
	if err != nil {
		return nil, err
	}

	item := models.NewItem(itemName, s.now())
	if err := s.repo.Create(ctx, item); err != nil {
		return nil, fmt.Errorf("create item: %w", err)
	}
	return item, nil
}

// Get returns the item with id or ErrItemNotFound.
func (s *ItemService) Get(ctx context.Context, id uuid.UUID) (*models.Item, error) {
	item, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get item: %w", err)
	}
	return item, nil
}

// List returns every item, oldest first. An empty store yields an empty slice.
func (s *ItemService) List(ctx context.Context) ([]*models.Item, error) {
	items, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list items: %w", err)
	}
	if items == nil {
		items = []*models.Item{}
	}
	return items, nil
}

// UpdateStatus sets the bought flag and refreshes UpdatedAt, even when the
// flag does not change.
func (s *ItemService) UpdateStatus(ctx context.Context, id uuid.UUID, bought bool) (*models.Item, error) {
	item, err := s.repo.UpdateStatus(ctx, id, bought, s.now().UTC().Truncate(time.Microsecond))
	if err != nil {
		return nil, fmt.Errorf("update item status: %w", err)
	}
	return item, nil
}

// Delete removes the item permanently. A second delete returns ErrItemNotFound.
func (s *ItemService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete item: %w", err)
	}
	return nil
}
