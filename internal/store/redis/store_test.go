package redis

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrSnakeDoc/chronos/internal/domain"
)

func newTestStore(t *testing.T) (*Store, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewStore(client), mr
}

func resourceAt(id, url string, at time.Time) domain.Resource {
	return domain.Resource{ID: id, URL: url, Title: url, CreatedAt: at}
}

func TestStore_SaveAndGet(t *testing.T) {
	s, mr := newTestStore(t)
	ctx := context.Background()

	base := time.Date(2026, 10, 19, 9, 0, 0, 0, time.UTC)
	r := resourceAt("r1", "https://go.dev", base)
	require.NoError(t, s.SaveResource(ctx, &r))

	got, err := s.GetResource(ctx, "r1")
	require.NoError(t, err)
	assert.Equal(t, r.URL, got.URL)
	assert.True(t, r.CreatedAt.Equal(got.CreatedAt))

	assert.True(t, mr.Exists(ResourceKey("r1")))
	assert.Equal(t, time.Duration(0), mr.TTL(ResourceKey("r1")), "resources never expire")
}

func TestStore_GetMissing(t *testing.T) {
	s, _ := newTestStore(t)

	_, err := s.GetResource(context.Background(), "nope")
	assert.True(t, errors.Is(err, ErrResourceNotFound))
}

func TestStore_GetAllResources_Ordered(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	base := time.Date(2026, 10, 19, 9, 0, 0, 0, time.UTC)
	third := resourceAt("c", "https://c.example", base.Add(2*time.Second))
	first := resourceAt("z", "https://a.example", base)
	second := resourceAt("a", "https://b.example", base.Add(time.Second))

	for _, r := range []domain.Resource{third, first, second} {
		r := r
		require.NoError(t, s.SaveResource(ctx, &r))
	}

	all, err := s.GetAllResources(ctx)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "z", all[0].ID)
	assert.Equal(t, "a", all[1].ID)
	assert.Equal(t, "c", all[2].ID)
}

func TestStore_GetAllResources_Empty(t *testing.T) {
	s, _ := newTestStore(t)

	all, err := s.GetAllResources(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, all)
	assert.Empty(t, all)
}

func TestStore_GetAllResources_SkipsDanglingAndCorrupt(t *testing.T) {
	s, mr := newTestStore(t)
	ctx := context.Background()

	base := time.Date(2026, 10, 19, 9, 0, 0, 0, time.UTC)
	good := resourceAt("good", "https://good.example", base)
	require.NoError(t, s.SaveResource(ctx, &good))

	_, err := mr.ZAdd(ResourceOrderKey(), 1, "ghost")
	require.NoError(t, err)
	_, err = mr.ZAdd(ResourceOrderKey(), 2, "broken")
	require.NoError(t, err)
	require.NoError(t, mr.Set(ResourceKey("broken"), "{not json"))

	all, err := s.GetAllResources(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "good", all[0].ID)
}

func TestStore_DeleteResource(t *testing.T) {
	s, mr := newTestStore(t)
	ctx := context.Background()

	r := resourceAt("r1", "https://go.dev", time.Now())
	require.NoError(t, s.SaveResource(ctx, &r))
	require.NoError(t, s.DeleteResource(ctx, "r1"))

	assert.False(t, mr.Exists(ResourceKey("r1")))
	all, err := s.GetAllResources(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)

	assert.NoError(t, s.DeleteResource(ctx, "never-existed"))
}

func TestStore_SaveResourcesMany(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	base := time.Date(2026, 10, 19, 9, 0, 0, 0, time.UTC)
	batch := []domain.Resource{
		resourceAt("one", "https://one.example", base),
		resourceAt("two", "https://two.example", base.Add(time.Millisecond)),
	}
	require.NoError(t, s.SaveResourcesMany(ctx, batch))
	require.NoError(t, s.SaveResourcesMany(ctx, nil))

	all, err := s.GetAllResources(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "one", all[0].ID)
	assert.Equal(t, "two", all[1].ID)
}

func TestStore_PingFailsWhenServerDown(t *testing.T) {
	s, mr := newTestStore(t)

	require.NoError(t, s.Ping(context.Background()))
	mr.Close()
	assert.Error(t, s.Ping(context.Background()))
}

func TestExtractResourceID(t *testing.T) {
	id, err := ExtractResourceID(ResourceKey("abc"))
	require.NoError(t, err)
	assert.Equal(t, "abc", id)

	_, err = ExtractResourceID("other:abc")
	assert.Error(t, err)
	_, err = ExtractResourceID(KeyPrefixResource)
	assert.Error(t, err)
}
