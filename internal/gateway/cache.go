package gateway

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

// CachedLists wraps a Client with a Redis read-through cache for FetchRecords.
// Every write to a collection bumps that collection's version counter, so
// cached list keys go stale immediately without key scans. Single records are
// never cached; correctness there matters more than a round trip.
type CachedLists struct {
	Client
	redis  *redis.Client
	ttl    time.Duration
	logger *slog.Logger
}

// NewCachedLists wraps inner with list caching. A non-positive ttl disables
// caching entirely and returns inner unchanged.
func NewCachedLists(inner Client, rdb *redis.Client, ttl time.Duration, logger *slog.Logger) Client {
	if rdb == nil || ttl <= 0 {
		return inner
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &CachedLists{Client: inner, redis: rdb, ttl: ttl, logger: logger}
}

func (c *CachedLists) versionKey(collection Collection) string {
	return fmt.Sprintf("lists:%s:ver", collection)
}

func (c *CachedLists) listKey(ctx context.Context, collection Collection, q Query) string {
	ver, err := c.redis.Get(ctx, c.versionKey(collection)).Int64()
	if err != nil {
		ver = 0
	}
	payload, _ := json.Marshal(wireQuery(q))
	sum := sha256.Sum256(payload)
	return fmt.Sprintf("lists:%s:%d:%s", collection, ver, hex.EncodeToString(sum[:8]))
}

// FetchRecords serves from cache when possible, falling back to the inner
// client on any cache failure.
func (c *CachedLists) FetchRecords(ctx context.Context, collection Collection, q Query) ([]Record, error) {
	key := c.listKey(ctx, collection, q)

	if raw, err := c.redis.Get(ctx, key).Bytes(); err == nil {
		var records []Record
		if err := json.Unmarshal(raw, &records); err == nil {
			return records, nil
		}
	}

	records, err := c.Client.FetchRecords(ctx, collection, q)
	if err != nil {
		return nil, err
	}

	if raw, err := json.Marshal(records); err == nil {
		if err := c.redis.Set(ctx, key, raw, c.ttl).Err(); err != nil {
			c.logger.Warn("list cache set", slog.String("collection", string(collection)), slog.Any("error", err))
		}
	}
	return records, nil
}

// CreateRecords writes through and invalidates the collection's lists.
func (c *CachedLists) CreateRecords(ctx context.Context, collection Collection, records []Record) (BatchResult, error) {
	result, err := c.Client.CreateRecords(ctx, collection, records)
	c.bump(ctx, collection)
	return result, err
}

// UpdateRecords writes through and invalidates the collection's lists.
func (c *CachedLists) UpdateRecords(ctx context.Context, collection Collection, records []Record) (BatchResult, error) {
	result, err := c.Client.UpdateRecords(ctx, collection, records)
	c.bump(ctx, collection)
	return result, err
}

// DeleteRecords writes through and invalidates the collection's lists.
func (c *CachedLists) DeleteRecords(ctx context.Context, collection Collection, ids []int) (BatchResult, error) {
	result, err := c.Client.DeleteRecords(ctx, collection, ids)
	c.bump(ctx, collection)
	return result, err
}

func (c *CachedLists) bump(ctx context.Context, collection Collection) {
	if err := c.redis.Incr(ctx, c.versionKey(collection)).Err(); err != nil {
		c.logger.Warn("list cache bump", slog.String("collection", string(collection)), slog.Any("error", err))
	}
}
