// Package redisstore implements the item store on Redis. Each item is a hash;
// a sorted set scored by creation time in microseconds holds the list order.
// Set members are "<seq>:<id>" with a zero-padded insertion sequence so items
// created in the same microsecond keep insertion order.
package redisstore

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	itemdomain "github.com/ghuser/grocerylist/services/grocery/domain"
	"github.com/ghuser/grocerylist/services/grocery/domain/models"
	domainsvcs "github.com/ghuser/grocerylist/services/grocery/domain/services"
)

// DefaultNamespace prefixes every key written by the store.
const DefaultNamespace = "grocery"

const (
	fieldName      = "name"
	fieldBought    = "bought"
	fieldCreatedAt = "created_at"
	fieldUpdatedAt = "updated_at"
	fieldMember    = "member"
)

// KEYS: item hash, index zset, sequence counter.
// ARGV: id, name, bought, created_at, updated_at.
var createScript = redis.NewScript(`
if redis.call('EXISTS', KEYS[1]) == 1 then
	return 0
end
local seq = redis.call('INCR', KEYS[3])
local member = string.format('%020d:%s', seq, ARGV[1])
redis.call('HSET', KEYS[1], 'name', ARGV[2], 'bought', ARGV[3], 'created_at', ARGV[4], 'updated_at', ARGV[5], 'member', member)
redis.call('ZADD', KEYS[2], ARGV[4], member)
return 1
`)

// KEYS: item hash. ARGV: bought, updated_at.
var updateStatusScript = redis.NewScript(`
if redis.call('EXISTS', KEYS[1]) == 0 then
	return false
end
redis.call('HSET', KEYS[1], 'bought', ARGV[1], 'updated_at', ARGV[2])
return redis.call('HGETALL', KEYS[1])
`)

// KEYS: item hash, index zset.
var deleteScript = redis.NewScript(`
local member = redis.call('HGET', KEYS[1], 'member')
if not member then
	return 0
end
redis.call('DEL', KEYS[1])
redis.call('ZREM', KEYS[2], member)
return 1
`)

// ItemRepository implements repositories.ItemRepository on Redis. Writes run
// as Lua scripts so each one is atomic per item.
type ItemRepository struct {
	rdb redis.UniversalClient
	ns  string
}

// NewItemRepository returns a store writing keys under namespace. An empty
// namespace selects DefaultNamespace.
func NewItemRepository(rdb redis.UniversalClient, namespace string) *ItemRepository {
	if namespace == "" {
		namespace = DefaultNamespace
	}
	return &ItemRepository{rdb: rdb, ns: namespace}
}

// The namespace is a hash tag so every key lands in one cluster slot.
func (r *ItemRepository) itemKey(id uuid.UUID) string {
	return "{" + r.ns + "}:item:" + id.String()
}

func (r *ItemRepository) indexKey() string { return "{" + r.ns + "}:items" }
func (r *ItemRepository) seqKey() string   { return "{" + r.ns + "}:seq" }

// Create stores item. Returns ErrItemAlreadyExists when the id is taken.
func (r *ItemRepository) Create(ctx context.Context, item *models.Item) error {
	if err := domainsvcs.ValidateItemForCreation(item); err != nil {
		return fmt.Errorf("insert item: %w", err)
	}

	created, err := createScript.Run(ctx, r.rdb,
		[]string{r.itemKey(item.ID), r.indexKey(), r.seqKey()},
		item.ID.String(),
		item.Name.String(),
		formatBool(item.Bought),
		item.CreatedAt.UnixMicro(),
		item.UpdatedAt.UnixMicro(),
	).Int()
	if err != nil {
		return fmt.Errorf("insert item: %w", err)
	}
	if created == 0 {
		return itemdomain.ErrItemAlreadyExists
	}
	return nil
}

// GetByID returns the item or ErrItemNotFound.
func (r *ItemRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Item, error) {
	fields, err := r.rdb.HGetAll(ctx, r.itemKey(id)).Result()
	if err != nil {
		return nil, fmt.Errorf("query item: %w", err)
	}
	if len(fields) == 0 {
		return nil, itemdomain.ErrItemNotFound
	}
	return hashToItem(id, fields)
}

// List returns every item ordered by creation time, then insertion order.
func (r *ItemRepository) List(ctx context.Context) ([]*models.Item, error) {
	members, err := r.rdb.ZRange(ctx, r.indexKey(), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("query items: %w", err)
	}

	ids := make([]uuid.UUID, 0, len(members))
	cmds := make([]*redis.MapStringStringCmd, 0, len(members))
	pipe := r.rdb.Pipeline()
	for _, m := range members {
		id, err := memberID(m)
		if err != nil {
			return nil, fmt.Errorf("query items: %w", err)
		}
		ids = append(ids, id)
		cmds = append(cmds, pipe.HGetAll(ctx, r.itemKey(id)))
	}
	if len(cmds) > 0 {
		if _, err := pipe.Exec(ctx); err != nil {
			return nil, fmt.Errorf("query items: %w", err)
		}
	}

	items := make([]*models.Item, 0, len(cmds))
	for i, cmd := range cmds {
		fields := cmd.Val()
		if len(fields) == 0 {
			// Deleted between ZRANGE and HGETALL.
			continue
		}
		item, err := hashToItem(ids[i], fields)
		if err != nil {
			return nil, fmt.Errorf("query items: %w", err)
		}
		items = append(items, item)
	}
	return items, nil
}

// UpdateStatus writes bought and updated_at and returns the stored item.
func (r *ItemRepository) UpdateStatus(ctx context.Context, id uuid.UUID, bought bool, at time.Time) (*models.Item, error) {
	res, err := updateStatusScript.Run(ctx, r.rdb,
		[]string{r.itemKey(id)},
		formatBool(bought),
		at.UnixMicro(),
	).StringSlice()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, itemdomain.ErrItemNotFound
		}
		return nil, fmt.Errorf("update item status: %w", err)
	}

	fields := make(map[string]string, len(res)/2)
	for i := 0; i+1 < len(res); i += 2 {
		fields[res[i]] = res[i+1]
	}
	return hashToItem(id, fields)
}

// Delete removes the item. Returns ErrItemNotFound when nothing was removed.
func (r *ItemRepository) Delete(ctx context.Context, id uuid.UUID) error {
	deleted, err := deleteScript.Run(ctx, r.rdb, []string{r.itemKey(id), r.indexKey()}).Int()
	if err != nil {
		return fmt.Errorf("delete item: %w", err)
	}
	if deleted == 0 {
		return itemdomain.ErrItemNotFound
	}
	return nil
}

func memberID(member string) (uuid.UUID, error) {
	_, id, ok := strings.Cut(member, ":")
	if !ok {
		return uuid.Nil, fmt.Errorf("malformed index member %q", member)
	}
	return uuid.Parse(id)
}

func hashToItem(id uuid.UUID, fields map[string]string) (*models.Item, error) {
	created, err := strconv.ParseInt(fields[fieldCreatedAt], 10, 64)
	if err != nil {
		return nil, fmt.Errorf("item %s: created_at: %w", id, err)
	}
	updated, err := strconv.ParseInt(fields[fieldUpdatedAt], 10, 64)
	if err != nil {
		return nil, fmt.Errorf("item %s: updated_at: %w", id, err)
	}
	return &models.Item{
		ID:        id,
		Name:      models.ItemName(fields[fieldName]),
		Bought:    fields[fieldBought] == "1",
		CreatedAt: time.UnixMicro(created).UTC(),
		UpdatedAt: time.UnixMicro(updated).UTC(),
	}, nil
}

func formatBool(b bool) string {
	if b {
		return "1"
	}
	return "0"
}
