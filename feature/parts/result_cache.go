package parts

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"parts-manager/core/reconcile"
	"parts-manager/core/supplier"

	"github.com/redis/go-redis/v9"
)

const resultKeyPrefix = "parts:metadata:"

// ResultCache stores reconciled metadata in Redis, keyed by user and query.
type ResultCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewResultCache creates a cache on client with the given expiry.
func NewResultCache(client *redis.Client, ttl time.Duration) *ResultCache {
	return &ResultCache{client: client, ttl: ttl}
}

func resultKey(userID int64, q supplier.Query) string {
	return fmt.Sprintf("%s%d:%s:%s:%s", resultKeyPrefix, userID,
		strings.ToLower(q.PartNumber), strings.ToLower(q.PartType), strings.ToLower(q.Package))
}

// Get returns the cached record for the query, if present.
func (c *ResultCache) Get(ctx context.Context, userID int64, q supplier.Query) (reconcile.PartMetadata, bool, error) {
	raw, err := c.client.Get(ctx, resultKey(userID, q)).Bytes()
	if errors.Is(err, redis.Nil) {
		return reconcile.PartMetadata{}, false, nil
	}
	if err != nil {
		return reconcile.PartMetadata{}, false, fmt.Errorf("failed to read cached metadata: %w", err)
	}
	var m reconcile.PartMetadata
	if err := json.Unmarshal(raw, &m); err != nil {
		return reconcile.PartMetadata{}, false, fmt.Errorf("failed to decode cached metadata: %w", err)
	}
	return m, true, nil
}

// Set stores the record for the query.
func (c *ResultCache) Set(ctx context.Context, userID int64, q supplier.Query, m reconcile.PartMetadata) error {
	raw, err := json.Marshal(m)
	if err != nil {
		return fmt.Errorf("failed to encode metadata: %w", err)
	}
	if err := c.client.Set(ctx, resultKey(userID, q), raw, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to cache metadata: %w", err)
	}
	return nil
}

// InvalidateUser removes every cached record of a user.
func (c *ResultCache) InvalidateUser(ctx context.Context, userID int64) error {
	pattern := fmt.Sprintf("%s%d:*", resultKeyPrefix, userID)
	iter := c.client.Scan(ctx, 0, pattern, 100).Iterator()
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return fmt.Errorf("failed to scan cached metadata: %w", err)
	}
	if len(keys) == 0 {
		return nil
	}
	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("failed to delete cached metadata: %w", err)
	}
	return nil
}
