package services

import (
	"fmt"

	"github.com/ghuser/grocerylist/pkg/app"
	"github.com/ghuser/grocerylist/pkg/config"
	"github.com/ghuser/grocerylist/services/grocery/domain/repositories"
	"github.com/ghuser/grocerylist/services/grocery/infrastructure/persistence/memory"
	"github.com/ghuser/grocerylist/services/grocery/infrastructure/persistence/postgres"
	"github.com/ghuser/grocerylist/services/grocery/infrastructure/persistence/redisstore"
)

// Services is the application-layer service container for this bounded context.
// It wires domain services with their infrastructure implementations.
type Services struct {
	Item *ItemService
}

// New wires all item application services with the store selected by
// a.StoreBackend.
func New(a *app.Application) (*Services, error) {
	repo, err := newItemRepository(a)
	if err != nil {
		return nil, err
	}
	return NewWithRepository(repo), nil
}

// NewWithRepository wires the services on top of an existing repository.
func NewWithRepository(repo repositories.ItemRepository) *Services {
	return &Services{
		Item: NewItemService(repo),
	}
}

func newItemRepository(a *app.Application) (repositories.ItemRepository, error) {
	switch a.StoreBackend {
	case config.StorePostgres, "":
		if a.Db == nil {
			return nil, fmt.Errorf("store backend %q requires a database", config.StorePostgres)
		}
		return postgres.NewItemRepository(a.Db, a.EventBus), nil
	case config.StoreRedis:
		if a.Redis == nil {
			return nil, fmt.Errorf("store backend %q requires a redis client", config.StoreRedis)
		}
		return redisstore.NewItemRepository(a.Redis.Redis(), redisstore.DefaultNamespace), nil
	case config.StoreMemory:
		return memory.NewItemRepository(), nil
	default:
		return nil, fmt.Errorf("unknown store backend %q", a.StoreBackend)
	}
}
