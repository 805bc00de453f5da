package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Abdurahmanit/GroupProject/advert-service/internal/advert/domain"
	jsoniter "github.com/json-iterator/go"
	"github.com/redis/go-redis/v9"
)

var jsonCodec = jsoniter.ConfigCompatibleWithStandardLibrary

const (
	descendantsKeyPrefix = "category:descendants:"
	scanBatch            = 200
)

// CategoryTreeCache keeps expanded category subtrees in Redis. Entries expire
// after ttl and are dropped wholesale whenever the category tree changes.
type CategoryTreeCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisClient(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to ping redis at %s: %w", addr, err)
	}
	return client, nil
}

func NewCategoryTreeCache(client *redis.Client, ttl time.Duration) *CategoryTreeCache {
	return &CategoryTreeCache{client: client, ttl: ttl}
}

func (c *CategoryTreeCache) GetDescendants(ctx context.Context, rootID string) ([]string, error) {
	data, err := c.client.Get(ctx, descendantsKeyPrefix+rootID).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, domain.ErrCacheMiss
	}
	if err != nil {
		return nil, err
	}
	var ids []string
	if err := jsonCodec.Unmarshal(data, &ids); err != nil {
		return nil, fmt.Errorf("corrupt descendants entry for %s: %w", rootID, err)
	}
	return ids, nil
}

func (c *CategoryTreeCache) SetDescendants(ctx context.Context, rootID string, ids []string) error {
	data, err := jsonCodec.Marshal(ids)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, descendantsKeyPrefix+rootID, data, c.ttl).Err()
}

// Invalidate removes every cached subtree. A single edge change can alter the
// subtree of every ancestor, so entries are not evicted selectively.
func (c *CategoryTreeCache) Invalidate(ctx context.Context) error {
	var cursor uint64
	for {
		keys, next, err := c.client.Scan(ctx, cursor, descendantsKeyPrefix+"*", scanBatch).Result()
		if err != nil {
			return err
		}
		if len(keys) > 0 {
			if err := c.client.Del(ctx, keys...).Err(); err != nil {
				return err
			}
		}
		if next == 0 {
			return nil
		}
		cursor = next
	}
}
