package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/MrSnakeDoc/chronos/internal/domain"
)

// ErrResourceNotFound is returned when no resource is stored under an id.
var ErrResourceNotFound = errors.New("resource not found")

// Store mirrors the resource list in Redis. Entries never expire; order is
// kept in a sorted set scored by creation time in microseconds.
type Store struct {
	client *redis.Client
}

// NewStore creates a new Redis store
func NewStore(client *redis.Client) *Store {
	return &Store{
		client: client,
	}
}

// Ping checks the connection
func (s *Store) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

// SaveResource stores a resource and records its position
func (s *Store) SaveResource(ctx context.Context, r *domain.Resource) error {
	data, err := json.Marshal(r)
	if err != nil {
		return fmt.Errorf("failed to marshal resource: %w", err)
	}

	pipe := s.client.TxPipeline()
	pipe.Set(ctx, ResourceKey(r.ID), data, 0)
	pipe.ZAdd(ctx, ResourceOrderKey(), orderMember(r))
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to save resource: %w", err)
	}

	return nil
}

// SaveResourcesMany stores multiple resources in one round trip
func (s *Store) SaveResourcesMany(ctx context.Context, resources []domain.Resource) error {
	if len(resources) == 0 {
		return nil
	}

	pipe := s.client.Pipeline()
	for i := range resources {
		r := &resources[i]
		data, err := json.Marshal(r)
		if err != nil {
			return fmt.Errorf("failed to marshal resource %s: %w", r.ID, err)
		}
		pipe.Set(ctx, ResourceKey(r.ID), data, 0)
		pipe.ZAdd(ctx, ResourceOrderKey(), orderMember(r))
	}

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to save resources: %w", err)
	}

	return nil
}

// GetResource retrieves a resource from Redis by ID
func (s *Store) GetResource(ctx context.Context, id string) (*domain.Resource, error) {
	data, err := s.client.Get(ctx, ResourceKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, fmt.Errorf("%w: %s", ErrResourceNotFound, id)
		}
		return nil, fmt.Errorf("failed to get resource: %w", err)
	}

	var r domain.Resource
	if err := json.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("failed to unmarshal resource: %w", err)
	}

	return &r, nil
}

// GetAllResources returns every stored resource in insertion order.
// Dangling order entries and undecodable payloads are skipped.
func (s *Store) GetAllResources(ctx context.Context) ([]domain.Resource, error) {
	ids, err := s.client.ZRange(ctx, ResourceOrderKey(), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get resource order: %w", err)
	}

	if len(ids) == 0 {
		return []domain.Resource{}, nil
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = ResourceKey(id)
	}

	values, err := s.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get resources: %w", err)
	}

	resources := make([]domain.Resource, 0, len(values))
	for _, v := range values {
		raw, ok := v.(string)
		if !ok {
			continue
		}
		var r domain.Resource
		if err := json.Unmarshal([]byte(raw), &r); err != nil {
			continue
		}
		resources = append(resources, r)
	}

	return resources, nil
}

// DeleteResource removes a resource and its order entry
func (s *Store) DeleteResource(ctx context.Context, id string) error {
	pipe := s.client.TxPipeline()
	pipe.Del(ctx, ResourceKey(id))
	pipe.ZRem(ctx, ResourceOrderKey(), id)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to delete resource: %w", err)
	}

	return nil
}

func orderMember(r *domain.Resource) redis.Z {
	return redis.Z{
		Score:  float64(r.CreatedAt.UnixMicro()),
		Member: r.ID,
	}
}
