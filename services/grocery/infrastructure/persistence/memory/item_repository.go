// Package memory provides a process-local ItemRepository. Nothing survives a
// restart, so it is meant for tests and local development only.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	itemdomain "github.com/ghuser/grocerylist/services/grocery/domain"
	"github.com/ghuser/grocerylist/services/grocery/domain/models"
	domainsvcs "github.com/ghuser/grocerylist/services/grocery/domain/services"
)

type entry struct {
	item *models.Item
	seq  uint64
}

// ItemRepository implements repositories.ItemRepository with a map guarded by
// a single RWMutex, which serializes writers on every id.
type ItemRepository struct {
	mu      sync.RWMutex
	items   map[uuid.UUID]*entry
	nextSeq uint64
}

// NewItemRepository returns an empty in-memory store.
func NewItemRepository() *ItemRepository {
	return &ItemRepository{items: make(map[uuid.UUID]*entry)}
}

// Create stores a copy of item.
func (r *ItemRepository) Create(_ context.Context, item *models.Item) error {
	if err := domainsvcs.ValidateItemForCreation(item); err != nil {
		return fmt.Errorf("insert item: %w", err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.items[item.ID]; ok {
		return itemdomain.ErrItemAlreadyExists
	}
	r.nextSeq++
	r.items[item.ID] = &entry{item: item.Clone(), seq: r.nextSeq}
	return nil
}

// GetByID returns a copy of the stored item.
func (r *ItemRepository) GetByID(_ context.Context, id uuid.UUID) (*models.Item, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	e, ok := r.items[id]
	if !ok {
		return nil, itemdomain.ErrItemNotFound
	}
	return e.item.Clone(), nil
}

// List returns copies ordered by CreatedAt, then insertion sequence.
func (r *ItemRepository) List(_ context.Context) ([]*models.Item, error) {
	r.mu.RLock()
	snapshot := make([]entry, 0, len(r.items))
	for _, e := range r.items {
		snapshot = append(snapshot, entry{item: e.item.Clone(), seq: e.seq})
	}
	r.mu.RUnlock()

	sort.Slice(snapshot, func(i, j int) bool {
		a, b := snapshot[i], snapshot[j]
		if !a.item.CreatedAt.Equal(b.item.CreatedAt) {
			return a.item.CreatedAt.Before(b.item.CreatedAt)
		}
		return a.seq < b.seq
	})

	items := make([]*models.Item, len(snapshot))
	for i, e := range snapshot {
		items[i] = e.item
	}
	return items, nil
}

// UpdateStatus sets Bought and UpdatedAt in place.
func (r *ItemRepository) UpdateStatus(_ context.Context, id uuid.UUID, bought bool, at time.Time) (*models.Item, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.items[id]
	if !ok {
		return nil, itemdomain.ErrItemNotFound
	}
	e.item.Bought = bought
	e.item.UpdatedAt = at.UTC().Truncate(time.Microsecond)
	return e.item.Clone(), nil
}

// Delete removes the item.
func (r *ItemRepository) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.items[id]; !ok {
		return itemdomain.ErrItemNotFound
	}
	delete(r.items, id)
	return nil
}
