package notifcache

import (
	"context"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

const unreadTTL = time.Minute

// Cache holds best-effort unread-notification counts in Redis. A nil *Cache
// is valid and disables caching; the database count stays authoritative.
type Cache struct {
	rdb *redis.Client
}

func New(addr string) *Cache {
	if addr == "" {
		return nil
	}
	return &Cache{rdb: redis.NewClient(&redis.Options{Addr: addr})}
}

func unreadKey(uid string) string {
	return "notif:unread:" + uid
}

func (c *Cache) GetUnread(ctx context.Context, uid string) (int64, bool) {
	if c == nil {
		return 0, false
	}
	val, err := c.rdb.Get(ctx, unreadKey(uid)).Result()
	if err != nil {
		return 0, false
	}
	n, err := strconv.ParseInt(val, 10, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}

func (c *Cache) SetUnread(ctx context.Context, uid string, n int64) {
	if c == nil {
		return
	}
	_ = c.rdb.Set(ctx, unreadKey(uid), strconv.FormatInt(n, 10), unreadTTL).Err()
}

func (c *Cache) Invalidate(ctx context.Context, uid string) {
	if c == nil {
		return
	}
	_ = c.rdb.Del(ctx, unreadKey(uid)).Err()
}

func (c *Cache) Close() error {
	if c == nil {
		return nil
	}
	return c.rdb.Close()
}
