package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/ghuser/grocerylist/pkg/database"
	"github.com/ghuser/grocerylist/pkg/events"
	itemdomain "github.com/ghuser/grocerylist/services/grocery/domain"
	domainevents "github.com/ghuser/grocerylist/services/grocery/domain/events"
	"github.com/ghuser/grocerylist/services/grocery/domain/models"
	domainsvcs "github.com/ghuser/grocerylist/services/grocery/domain/services"
	"github.com/ghuser/grocerylist/services/grocery/infrastructure/persistence/postgres/db"
)

// PostgreSQL error codes mapped to domain errors.
const (
	pgUniqueViolation = "23505"
	pgCheckViolation  = "23514"
)

const eventVersion = 1

// ItemRepository implements repositories.ItemRepository against PostgreSQL.
type ItemRepository struct {
	db  *database.Database
	bus *events.EventBus
}

// NewItemRepository returns an ItemRepository backed by the given connection pool
// and event bus. Every write publishes its domain event inside the same
// transaction. A nil bus disables publishing.
func NewItemRepository(database *database.Database, bus *events.EventBus) *ItemRepository {
	return &ItemRepository{db: database, bus: bus}
}

// Create persists a new Item and publishes an ItemCreatedEvent within the same transaction.
// Returns ErrItemAlreadyExists on unique constraint violations.
func (r *ItemRepository) Create(ctx context.Context, item *models.Item) error {
	if err := domainsvcs.ValidateItemForCreation(item); err != nil {
		return fmt.Errorf("insert item: %w", err)
	}

	return r.db.WithTx(ctx, func(tx *sql.Tx) error {
		q := db.New(tx)
		if err := q.InsertItem(ctx, db.InsertItemParams{
			ID:        item.ID,
			Name:      item.Name.String(),
			Bought:    item.Bought,
			CreatedAt: item.CreatedAt,
			UpdatedAt: item.UpdatedAt,
		}); err != nil {
			return mapInsertError(err)
		}

		return r.publish(ctx, tx, domainevents.TopicItemCreated, domainevents.ItemCreatedEvent{
			EventID:    uuid.New(),
			Version:    eventVersion,
			ItemID:     item.ID,
			Name:       item.Name.String(),
			OccurredAt: item.CreatedAt,
		})
	})
}

// GetByID retrieves an Item by ID. Returns ErrItemNotFound if not found.
func (r *ItemRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Item, error) {
	q := db.New(r.db.DB())
	row, err := q.GetItemByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, itemdomain.ErrItemNotFound
		}
		return nil, fmt.Errorf("query item: %w", err)
	}
	return rowToItem(row), nil
}

// List returns every item ordered by creation time, oldest first.
func (r *ItemRepository) List(ctx context.Context) ([]*models.Item, error) {
	q := db.New(r.db.DB())
	rows, err := q.ListItems(ctx)
	if err != nil {
		return nil, fmt.Errorf("query items: %w", err)
	}

	items := make([]*models.Item, len(rows))
	for i, row := range rows {
		items[i] = rowToItem(row)
	}
	return items, nil
}

// UpdateStatus writes bought and refreshes updated_at, publishing an
// ItemStatusChangedEvent in the same transaction.
func (r *ItemRepository) UpdateStatus(ctx context.Context, id uuid.UUID, bought bool, at time.Time) (*models.Item, error) {
	at = at.UTC().Truncate(time.Microsecond)

	var item *models.Item
	err := r.db.WithTx(ctx, func(tx *sql.Tx) error {
		q := db.New(tx)
		row, err := q.UpdateItemStatus(ctx, db.UpdateItemStatusParams{
			ID:        id,
			Bought:    bought,
			UpdatedAt: at,
		})
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return itemdomain.ErrItemNotFound
			}
			return fmt.Errorf("update item status: %w", err)
		}
		item = rowToItem(row)

		return r.publish(ctx, tx, domainevents.TopicItemStatusChanged, domainevents.ItemStatusChangedEvent{
			EventID:    uuid.New(),
			Version:    eventVersion,
			ItemID:     id,
			Bought:     bought,
			OccurredAt: at,
		})
	})
	if err != nil {
		return nil, err
	}
	return item, nil
}

// Delete removes an item by ID and publishes an ItemDeletedEvent.
// Returns ErrItemNotFound when no row was removed.
func (r *ItemRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithTx(ctx, func(tx *sql.Tx) error {
		q := db.New(tx)
		if _, err := q.DeleteItem(ctx, id); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return itemdomain.ErrItemNotFound
			}
			return fmt.Errorf("delete item: %w", err)
		}

		return r.publish(ctx, tx, domainevents.TopicItemDeleted, domainevents.ItemDeletedEvent{
			EventID:    uuid.New(),
			Version:    eventVersion,
			ItemID:     id,
			OccurredAt: time.Now().UTC(),
		})
	})
}

func (r *ItemRepository) publish(ctx context.Context, tx *sql.Tx, topic string, event any) error {
	if r.bus == nil {
		return nil
	}

	msg, err := events.NewJSONMessage(ctx, event)
	if err != nil {
		return err
	}
	msg.Metadata.Set("event_version", strconv.Itoa(eventVersion))

	p, err := r.bus.NewTxPublisher(tx)
	if err != nil {
		return fmt.Errorf("create publisher: %w", err)
	}
	if err := p.Publish(topic, msg); err != nil {
		return fmt.Errorf("publish %s: %w", topic, err)
	}
	return nil
}

func mapInsertError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgUniqueViolation:
			return itemdomain.ErrItemAlreadyExists
		case pgCheckViolation:
			return fmt.Errorf("insert item: %w", itemdomain.ErrInvalidItemName)
		}
	}
	return fmt.Errorf("insert item: %w", err)
}

// rowToItem maps a db.GroceryItem to a domain models.Item.
func rowToItem(row db.GroceryItem) *models.Item {
	return &models.Item{
		ID:        row.ID,
		Name:      models.ItemName(row.Name),
		Bought:    row.Bought,
		CreatedAt: row.CreatedAt.UTC(),
		UpdatedAt: row.UpdatedAt.UTC(),
	}
}
