package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"

	"github.com/Seimmet/dolcie-salon/internal/domain/availability"
)

const (
	globalGenKey = "avail:gen"
	genKeyTTL    = 7 * 24 * time.Hour
)

// AvailabilityCache memoizes public slot listings. Every write that can
// change a day's slots bumps that day's generation, which orphans the old
// entries; settings changes bump the global generation. A nil cache is a
// valid no-op.
type AvailabilityCache struct {
	rdb *redis.Client
	ttl time.Duration
	log *zap.Logger
}

func NewAvailabilityCache(rdb *redis.Client, ttl time.Duration, log *zap.Logger) *AvailabilityCache {
	if rdb == nil {
		return nil
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &AvailabilityCache{rdb: rdb, ttl: ttl, log: log}
}

// Connect dials Redis and pings it. An empty address disables caching.
func Connect(addr, password string, db int) (*redis.Client, error) {
	if addr == "" {
		return nil, nil
	}
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, err
	}
	return rdb, nil
}

func (c *AvailabilityCache) Get(ctx context.Context, q availability.Query) ([]availability.Slot, bool) {
	if c == nil {
		return nil, false
	}

	key, err := c.key(ctx, q)
	if err != nil {
		c.log.Warn("availability cache key", zap.Error(err))
		return nil, false
	}

	raw, err := c.rdb.Get(ctx, key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.log.Warn("availability cache get", zap.Error(err))
		}
		return nil, false
	}

	var slots []availability.Slot
	if err := json.Unmarshal(raw, &slots); err != nil {
		return nil, false
	}
	return slots, true
}

func (c *AvailabilityCache) Set(ctx context.Context, q availability.Query, slots []availability.Slot) {
	if c == nil {
		return
	}

	key, err := c.key(ctx, q)
	if err != nil {
		c.log.Warn("availability cache key", zap.Error(err))
		return
	}
	raw, err := json.Marshal(slots)
	if err != nil {
		return
	}
	if err := c.rdb.Set(ctx, key, raw, c.ttl).Err(); err != nil {
		c.log.Warn("availability cache set", zap.Error(err))
	}
}

// Invalidate drops every cached listing for the given salon-local dates.
func (c *AvailabilityCache) Invalidate(ctx context.Context, dates ...string) {
	if c == nil {
		return
	}
	for _, d := range dates {
		c.bump(ctx, dateGenKey(d))
	}
}

// InvalidateAll is used when hours or policy change.
func (c *AvailabilityCache) InvalidateAll(ctx context.Context) {
	if c == nil {
		return
	}
	c.bump(ctx, globalGenKey)
}

func (c *AvailabilityCache) bump(ctx context.Context, key string) {
	pipe := c.rdb.TxPipeline()
	pipe.Incr(ctx, key)
	pipe.Expire(ctx, key, genKeyTTL)
	if _, err := pipe.Exec(ctx); err != nil {
		c.log.Warn("availability cache invalidate", zap.String("key", key), zap.Error(err))
	}
}

func (c *AvailabilityCache) key(ctx context.Context, q availability.Query) (string, error) {
	gens, err := c.rdb.MGet(ctx, globalGenKey, dateGenKey(q.Date)).Result()
	if err != nil {
		return "", err
	}

	stylist := "any"
	if q.StylistID != nil {
		stylist = fmt.Sprint(*q.StylistID)
	}
	exclude := "-"
	if q.ExcludeBookingID != nil {
		exclude = fmt.Sprint(*q.ExcludeBookingID)
	}

	return fmt.Sprintf("avail:%s:g%v.%v:%d:%d:%s:%s:%d",
		q.Date, genOf(gens[0]), genOf(gens[1]),
		q.StyleID, q.VariationID, stylist, exclude, q.DurationMinutes,
	), nil
}

func dateGenKey(date string) string {
	return "avail:gen:" + date
}

func genOf(v interface{}) string {
	if s, ok := v.(string); ok {
		return s
	}
	return "0"
}
