package cache

import (
	"context"
	"strconv"
	"time"
)

type Cache interface {
	GetJSON(ctx context.Context, key string, dst any) (hit bool, err error)
	SetJSON(ctx context.Context, key string, val any, ttl time.Duration) error
	Del(ctx context.Context, keys ...string) error
	// Incr atomically bumps a counter, creating it at 1.
	Incr(ctx context.Context, key string) (int64, error)
}

// Noop never hits. Used when Redis is not configured.
type Noop struct{}

func (Noop) GetJSON(context.Context, string, any) (bool, error)     { return false, nil }
func (Noop) SetJSON(context.Context, string, any, time.Duration) error { return nil }
func (Noop) Del(context.Context, ...string) error                     { return nil }
func (Noop) Incr(context.Context, string) (int64, error)              { return 0, nil }

// AnalyticsVersionKey holds a per-user counter bumped on every completion.
// Snapshots are keyed by it, so one built from a pre-completion read is
// never served once the counter has moved.
func AnalyticsVersionKey(userID string) string {
	return "interview:analytics:ver:" + userID
}

func AnalyticsKey(userID string, version int64) string {
	return "interview:analytics:" + userID + ":" + strconv.FormatInt(version, 10)
}
