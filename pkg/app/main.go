package app

import (
	"github.com/ghuser/grocerylist/pkg/database"
	"github.com/ghuser/grocerylist/pkg/events"
	"github.com/ghuser/grocerylist/pkg/logger"
	"github.com/ghuser/grocerylist/pkg/redisdb"
)

// Application holds the infrastructure handed to each service's routes.
// Only the dependencies required by StoreBackend are non-nil: Db and EventBus
// for postgres, Redis for redis, none for memory.
type Application struct {
	Db           *database.Database
	Logger       logger.Logger
	EventBus     *events.EventBus
	Redis        *redisdb.Client
	StoreBackend string
}
