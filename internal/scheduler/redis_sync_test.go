package scheduler

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrSnakeDoc/chronos/internal/domain"
	"github.com/MrSnakeDoc/chronos/internal/index"
	"github.com/MrSnakeDoc/chronos/internal/logger"
	redisstore "github.com/MrSnakeDoc/chronos/internal/store/redis"
)

func TestRedisSyncer_RestoresInOrder(t *testing.T) {
	mr := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	store := redisstore.NewStore(client)
	ctx := context.Background()

	base := time.Date(2026, 10, 19, 6, 0, 0, 0, time.UTC)
	second := domain.Resource{ID: "b", URL: "https://b.example", Title: "b", CreatedAt: base.Add(time.Minute)}
	first := domain.Resource{ID: "a", URL: "https://a.example", Title: "a", CreatedAt: base}
	require.NoError(t, store.SaveResource(ctx, &second))
	require.NoError(t, store.SaveResource(ctx, &first))

	list := index.NewResourceList()
	require.NoError(t, NewRedisSyncer(store, list, logger.NewNop()).Sync(ctx))

	all := list.All()
	require.Len(t, all, 2)
	assert.Equal(t, "a", all[0].ID)
	assert.Equal(t, "b", all[1].ID)
}

func TestRedisSyncer_EmptyMirrorKeepsList(t *testing.T) {
	mr := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	list := index.NewResourceList()
	list.Append(domain.Resource{ID: "keep", URL: "https://keep.example", Title: "keep"})

	require.NoError(t, NewRedisSyncer(redisstore.NewStore(client), list, logger.NewNop()).Sync(context.Background()))
	assert.Equal(t, 1, list.Count())
}

func TestRedisSyncer_ErrorWhenUnavailable(t *testing.T) {
	mr := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr(), MaxRetries: -1})
	t.Cleanup(func() { _ = client.Close() })
	mr.Close()

	err := NewRedisSyncer(redisstore.NewStore(client), index.NewResourceList(), logger.NewNop()).Sync(context.Background())
	assert.Error(t, err)
}

func TestRedisSyncer_SeededResourcesKeepFileOrder(t *testing.T) {
	mr := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	store := redisstore.NewStore(client)
	ctx := context.Background()

	path := writeSeedFile(t, `resources:
  - url: https://zeta.example
  - url: https://alpha.example
  - url: https://mid.example
  - url: https://beta.example
`)
	before := index.NewResourceList()
	_, err := NewSeedReloader(path, store, before, logger.NewNop(), time.Hour, nil).Reload(ctx)
	require.NoError(t, err)

	after := index.NewResourceList()
	require.NoError(t, NewRedisSyncer(store, after, logger.NewNop()).Sync(ctx))

	want := []string{"https://zeta.example", "https://alpha.example", "https://mid.example", "https://beta.example"}
	assert.Equal(t, want, urls(before.All()))
	assert.Equal(t, want, urls(after.All()), "restart must restore the file order")
}

func urls(resources []domain.Resource) []string {
	out := make([]string, 0, len(resources))
	for _, r := range resources {
		out = append(out, r.URL)
	}
	return out
}
