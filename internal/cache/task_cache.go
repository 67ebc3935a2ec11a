package cache

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"taskflow/internal/domain"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "tasks:user:"

// TaskCache caches per-user task listings in Redis. Every key carries the
// owner's id, so one user's cache entry can never serve another's request.
type TaskCache struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewTaskCache returns a new TaskCache.
func NewTaskCache(rdb *redis.Client, ttl time.Duration) *TaskCache {
	return &TaskCache{rdb: rdb, ttl: ttl}
}

func listKey(userID string) string { return keyPrefix + userID + ":list" }

func searchKey(userID, q string) string {
	return keyPrefix + userID + ":search:" + normalizeQuery(q)
}

// GetList returns the cached listing for userID, or nil on miss.
func (c *TaskCache) GetList(ctx context.Context, userID string) ([]domain.Task, error) {
	b, err := c.rdb.Get(ctx, listKey(userID)).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var list []domain.Task
	if err := json.Unmarshal(b, &list); err != nil {
		return nil, err
	}
	return list, nil
}

// SetList stores the listing for userID.
func (c *TaskCache) SetList(ctx context.Context, userID string, list []domain.Task) error {
	b, err := json.Marshal(list)
	if err != nil {
		return err
	}
	return c.rdb.Set(ctx, listKey(userID), b, c.ttl).Err()
}

// GetSearch returns the cached search result for userID and query q, or nil on miss.
func (c *TaskCache) GetSearch(ctx context.Context, userID, q string) ([]domain.Task, error) {
	b, err := c.rdb.Get(ctx, searchKey(userID, q)).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var list []domain.Task
	if err := json.Unmarshal(b, &list); err != nil {
		return nil, err
	}
	return list, nil
}

// SetSearch stores the search result for userID and query q.
func (c *TaskCache) SetSearch(ctx context.Context, userID, q string, list []domain.Task) error {
	b, err := json.Marshal(list)
	if err != nil {
		return err
	}
	return c.rdb.Set(ctx, searchKey(userID, q), b, c.ttl).Err()
}

// InvalidateUser removes every cached entry belonging to userID
// (cache invalidation on write).
func (c *TaskCache) InvalidateUser(ctx context.Context, userID string) error {
	iter := c.rdb.Scan(ctx, 0, keyPrefix+userID+":*", 100).Iterator()
	for iter.Next(ctx) {
		if err := c.rdb.Del(ctx, iter.Val()).Err(); err != nil {
			return err
		}
	}
	return iter.Err()
}

func normalizeQuery(q string) string {
	return strings.TrimSpace(strings.ToLower(q))
}
