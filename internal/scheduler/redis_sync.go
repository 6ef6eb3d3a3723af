package scheduler

import (
	"context"

	"github.com/MrSnakeDoc/chronos/internal/index"
	"github.com/MrSnakeDoc/chronos/internal/logger"
	redisstore "github.com/MrSnakeDoc/chronos/internal/store/redis"
)

// RedisSyncer restores the resource list from Redis on startup
type RedisSyncer struct {
	store  *redisstore.Store
	list   *index.ResourceList
	logger logger.Logger
}

// NewRedisSyncer creates a new Redis syncer
func NewRedisSyncer(
	store *redisstore.Store,
	list *index.ResourceList,
	log logger.Logger,
) *RedisSyncer {
	return &RedisSyncer{
		store:  store,
		list:   list,
		logger: log,
	}
}

// Sync replaces the in-memory list with the mirrored resources, oldest first.
// An empty mirror leaves the list untouched.
func (rs *RedisSyncer) Sync(ctx context.Context) error {
	rs.logger.Info("syncing resources from redis to memory")

	resources, err := rs.store.GetAllResources(ctx)
	if err != nil {
		return err
	}

	if len(resources) == 0 {
		rs.logger.Info("no resources found in redis")
		return nil
	}

	rs.list.Replace(resources)

	rs.logger.Info("synced resources from redis",
		logger.Int("count", len(resources)))

	return nil
}
