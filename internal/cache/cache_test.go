package cache_test

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/yoockh/skillsync/internal/cache"
)

func TestAnalyticsKeys(t *testing.T) {
	if cache.AnalyticsKey("u1", 0) == cache.AnalyticsKey("u1", 1) {
		t.Fatalf("versions must map to distinct keys")
	}
	if cache.AnalyticsKey("u1", 3) == cache.AnalyticsKey("u2", 3) {
		t.Fatalf("users must map to distinct keys")
	}
	if cache.AnalyticsVersionKey("u1") == cache.AnalyticsKey("u1", 0) {
		t.Fatalf("version counter collides with a snapshot key")
	}
}

func TestNoop(t *testing.T) {
	ctx := context.Background()
	var c cache.Cache = cache.Noop{}
	if err := c.SetJSON(ctx, "k", 1, time.Minute); err != nil {
		t.Fatalf("set: %v", err)
	}
	var v int
	if hit, err := c.GetJSON(ctx, "k", &v); hit || err != nil {
		t.Fatalf("noop should never hit: hit=%v err=%v", hit, err)
	}
	if n, err := c.Incr(ctx, "k"); n != 0 || err != nil {
		t.Fatalf("unexpected incr %d %v", n, err)
	}
}

// Runs against a real server when SKILLSYNC_TEST_REDIS_URL is set.
func TestRedisCache(t *testing.T) {
	url := os.Getenv("SKILLSYNC_TEST_REDIS_URL")
	if url == "" {
		t.Skip("SKILLSYNC_TEST_REDIS_URL not set")
	}
	opt, err := redis.ParseURL(url)
	if err != nil {
		t.Fatalf("parse url: %v", err)
	}
	rdb := redis.NewClient(opt)
	defer rdb.Close()

	ctx := context.Background()
	c := cache.NewRedisCache(rdb)
	prefix := "skillsync:test:" + uuid.NewString() + ":"
	defer rdb.Del(ctx, prefix+"json", prefix+"ver", prefix+"bad")

	type payload struct {
		Score float64 `json:"score"`
	}
	var got payload
	if hit, err := c.GetJSON(ctx, prefix+"json", &got); hit || err != nil {
		t.Fatalf("expected miss: hit=%v err=%v", hit, err)
	}
	if err := c.SetJSON(ctx, prefix+"json", payload{Score: 7.5}, time.Minute); err != nil {
		t.Fatalf("set: %v", err)
	}
	if hit, err := c.GetJSON(ctx, prefix+"json", &got); !hit || err != nil || got.Score != 7.5 {
		t.Fatalf("expected hit with 7.5: hit=%v err=%v got=%+v", hit, err, got)
	}
	if err := c.Del(ctx, prefix+"json"); err != nil {
		t.Fatalf("del: %v", err)
	}
	if hit, _ := c.GetJSON(ctx, prefix+"json", &got); hit {
		t.Fatalf("deleted key still hits")
	}

	for want := int64(1); want <= 2; want++ {
		n, err := c.Incr(ctx, prefix+"ver")
		if err != nil || n != want {
			t.Fatalf("incr: expected %d got %d (%v)", want, n, err)
		}
	}
	var version int64
	if hit, err := c.GetJSON(ctx, prefix+"ver", &version); !hit || err != nil || version != 2 {
		t.Fatalf("counter should decode as json: hit=%v err=%v v=%d", hit, err, version)
	}

	if err := rdb.Set(ctx, prefix+"bad", "{not json", time.Minute).Err(); err != nil {
		t.Fatalf("seed: %v", err)
	}
	if hit, err := c.GetJSON(ctx, prefix+"bad", &got); hit || err != nil {
		t.Fatalf("corrupt entry should read as a miss: hit=%v err=%v", hit, err)
	}
	if n, _ := rdb.Exists(ctx, prefix+"bad").Result(); n != 0 {
		t.Fatalf("corrupt entry should be dropped")
	}
}
