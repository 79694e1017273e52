// Package cache keeps each user's task list in Redis between mutations.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"

	"tasklist-api/internal/models"
)

type TaskListCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewTaskListCache(client *redis.Client, ttl time.Duration) *TaskListCache {
	return &TaskListCache{client: client, ttl: ttl}
}

func taskListKey(userID int) string {
	return fmt.Sprintf("tasks:user:%d", userID)
}

// Get returns the cached list. A miss is (nil, false, nil).
func (c *TaskListCache) Get(ctx context.Context, userID int) ([]models.Task, bool, error) {
	cached, err := c.client.Get(ctx, taskListKey(userID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis get: %w", err)
	}

	var tasks []models.Task
	if err := json.Unmarshal(cached, &tasks); err != nil {
		return nil, false, fmt.Errorf("decode cached tasks: %w", err)
	}
	return tasks, true, nil
}

func (c *TaskListCache) Set(ctx context.Context, userID int, tasks []models.Task) error {
	data, err := json.Marshal(tasks)
	if err != nil {
		return fmt.Errorf("encode tasks: %w", err)
	}
	if err := c.client.Set(ctx, taskListKey(userID), data, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}

func (c *TaskListCache) Invalidate(ctx context.Context, userID int) error {
	if err := c.client.Del(ctx, taskListKey(userID)).Err(); err != nil {
		return fmt.Errorf("redis del: %w", err)
	}
	return nil
}
