package snapcache_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/dalemusser/planboard/internal/app/system/snapcache"
)

func newTestCache(t *testing.T) *snapcache.Cache {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return snapcache.NewWithClient(client, zap.NewNop(), time.Minute)
}

func TestCache_PutGet(t *testing.T) {
	c := newTestCache(t)
	ctx := context.Background()
	day := time.Date(2026, 3, 9, 0, 0, 0, 0, time.UTC)

	if _, ok := c.Get(ctx, "room-1", day); ok {
		t.Fatal("empty cache reported a hit")
	}

	c.Put(ctx, "room-1", day, []byte(`[{"title":"Volcano unit"}]`))

	body, ok := c.Get(ctx, "room-1", day)
	if !ok {
		t.Fatal("cache missed a fresh entry")
	}
	if string(body) != `[{"title":"Volcano unit"}]` {
		t.Errorf("cached body = %s", body)
	}

	// Different room and different day are distinct entries.
	if _, ok := c.Get(ctx, "room-2", day); ok {
		t.Error("hit on a different room")
	}
	if _, ok := c.Get(ctx, "room-1", day.AddDate(0, 0, 1)); ok {
		t.Error("hit on a different day")
	}
}

func TestCache_BumpOrphansEntries(t *testing.T) {
	c := newTestCache(t)
	ctx := context.Background()
	day := time.Date(2026, 3, 9, 0, 0, 0, 0, time.UTC)

	c.Put(ctx, "room-1", day, []byte("old"))
	c.Bump(ctx)

	if _, ok := c.Get(ctx, "room-1", day); ok {
		t.Fatal("entry survived a generation bump")
	}

	c.Put(ctx, "room-1", day, []byte("new"))
	body, ok := c.Get(ctx, "room-1", day)
	if !ok || string(body) != "new" {
		t.Fatalf("post-bump entry = %q, ok=%v", body, ok)
	}
}

func TestCache_NilIsAlwaysMiss(t *testing.T) {
	var c *snapcache.Cache
	ctx := context.Background()
	day := time.Now().UTC()

	c.Put(ctx, "room-1", day, []byte("ignored"))
	c.Bump(ctx)
	if _, ok := c.Get(ctx, "room-1", day); ok {
		t.Fatal("nil cache reported a hit")
	}
}
