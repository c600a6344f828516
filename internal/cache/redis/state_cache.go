package redis

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/alanyoungcy/treasurydesk/internal/domain"
)

// defaultStreamMaxLen caps each per-stream Redis stream, enforced with
// XADD MAXLEN ~.
const defaultStreamMaxLen int64 = 10000

type commander interface {
	HSet(ctx context.Context, key string, values ...interface{}) *redis.IntCmd
	XAdd(ctx context.Context, a *redis.XAddArgs) *redis.StringCmd
}

// StateCache implements domain.StateCache. The latest line per key lives in
// the hash "<prefix>:latest:<stream>" and every record is appended to the
// capped stream "<prefix>:events:<stream>".
type StateCache struct {
	rdb    commander
	prefix string
	maxLen int64
}

// NewStateCache creates a StateCache on c. maxLen <= 0 uses the default cap.
func NewStateCache(c *Client, prefix string, maxLen int64) *StateCache {
	return newStateCache(c.Underlying(), prefix, maxLen)
}

func newStateCache(rdb commander, prefix string, maxLen int64) *StateCache {
	if prefix == "" {
		prefix = "desk"
	}
	if maxLen <= 0 {
		maxLen = defaultStreamMaxLen
	}
	return &StateCache{rdb: rdb, prefix: prefix, maxLen: maxLen}
}

// SetLatest records rec as the newest value of its key and appends it to the
// stream's event log.
func (c *StateCache) SetLatest(ctx context.Context, rec domain.HistoricalRecord) error {
	hashKey := fmt.Sprintf("%s:latest:%s", c.prefix, rec.Stream)
	if err := c.rdb.HSet(ctx, hashKey, rec.Key, rec.Line).Err(); err != nil {
		return fmt.Errorf("redis: hset %s: %w", hashKey, err)
	}

	streamKey := fmt.Sprintf("%s:events:%s", c.prefix, rec.Stream)
	err := c.rdb.XAdd(ctx, &redis.XAddArgs{
		Stream: streamKey,
		MaxLen: c.maxLen,
		Approx: true,
		Values: map[string]interface{}{
			"key":  rec.Key,
			"line": rec.Line,
			"ts":   rec.Timestamp.UnixMilli(),
		},
	}).Err()
	if err != nil {
		return fmt.Errorf("redis: xadd %s: %w", streamKey, err)
	}
	return nil
}
