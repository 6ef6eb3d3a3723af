package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/MrSnakeDoc/chronos/internal/domain"
	"github.com/MrSnakeDoc/chronos/internal/index"
	"github.com/MrSnakeDoc/chronos/internal/logger"
	"github.com/MrSnakeDoc/chronos/internal/sources/seed"
	redisstore "github.com/MrSnakeDoc/chronos/internal/store/redis"
)

// SeedReloader periodically merges the seed resource file into the list
type SeedReloader struct {
	loader        *seed.Loader
	mapper        *seed.Mapper
	store         *redisstore.Store
	list          *index.ResourceList
	logger        logger.Logger
	interval      time.Duration
	stopCh        chan struct{}
	manualTrigger chan struct{}
}

// NewSeedReloader creates a new seed reloader. store may be nil.
func NewSeedReloader(
	resourceFile string,
	store *redisstore.Store,
	list *index.ResourceList,
	log logger.Logger,
	interval time.Duration,
	manualTrigger chan struct{},
) *SeedReloader {
	return &SeedReloader{
		loader:        seed.NewLoader(resourceFile),
		mapper:        seed.NewMapper(),
		store:         store,
		list:          list,
		logger:        log,
		interval:      interval,
		stopCh:        make(chan struct{}),
		manualTrigger: manualTrigger,
	}
}

// Start loads the file once, then reloads on every tick or manual trigger
func (sr *SeedReloader) Start(ctx context.Context) error {
	if _, err := sr.Reload(ctx); err != nil {
		return fmt.Errorf("initial seed reload failed: %w", err)
	}

	go sr.loop(ctx)
	return nil
}

func (sr *SeedReloader) loop(ctx context.Context) {
	var tick <-chan time.Time
	if sr.interval > 0 {
		ticker := time.NewTicker(sr.interval)
		defer ticker.Stop()
		tick = ticker.C
	}

	for {
		select {
		case <-tick:
			sr.reloadLogged(ctx)
		case <-sr.manualTrigger:
			sr.logger.Info("manual seed reload triggered")
			sr.reloadLogged(ctx)
		case <-sr.stopCh:
			return
		case <-ctx.Done():
			return
		}
	}
}

func (sr *SeedReloader) reloadLogged(ctx context.Context) {
	if _, err := sr.Reload(ctx); err != nil {
		sr.logger.Error("failed to reload seed resources", logger.Error(err))
	}
}

// Stop stops the reloader
func (sr *SeedReloader) Stop() {
	close(sr.stopCh)
}

// Reload appends every seeded resource whose url is not yet in the list.
// Existing entries and their order are left untouched. Returns the number
// of resources added.
func (sr *SeedReloader) Reload(ctx context.Context) (int, error) {
	sr.logger.Info("reloading seed resources", logger.String("file", sr.loader.Path()))

	file, err := sr.loader.Load()
	if err != nil {
		return 0, fmt.Errorf("failed to load seed resources: %w", err)
	}

	seeded := sr.mapper.MapResources(file)

	added := make([]domain.Resource, 0, len(seeded))
	for _, r := range seeded {
		if sr.list.AppendIfAbsentURL(r) {
			added = append(added, r)
		}
	}

	sr.logger.Info("seed resources merged",
		logger.Int("in_file", len(seeded)),
		logger.Int("added", len(added)))

	if len(added) == 0 || sr.store == nil {
		return len(added), nil
	}

	// Best effort: the in-memory list is authoritative
	if err := sr.store.SaveResourcesMany(ctx, added); err != nil {
		sr.logger.Warn("failed to save seed resources to redis", logger.Error(err))
	}

	return len(added), nil
}
