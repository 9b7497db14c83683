package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/alanyoungcy/pxwatch/internal/domain"
	"github.com/redis/go-redis/v9"
)

const taskKey = "tasks"

// TaskStore persists the full task list as a single JSON document. The list
// is small and always read and written whole, so one key is simpler than a
// per-task layout.
type TaskStore struct {
	rdb *redis.Client
}

// NewTaskStore creates a TaskStore backed by the given Client.
func NewTaskStore(c *Client) *TaskStore {
	return &TaskStore{rdb: c.Underlying()}
}

// Save overwrites the stored task list.
func (ts *TaskStore) Save(ctx context.Context, tasks []domain.Task) error {
	data, err := json.Marshal(tasks)
	if err != nil {
		return fmt.Errorf("redis: marshal tasks: %w", err)
	}
	if err := ts.rdb.Set(ctx, taskKey, data, 0).Err(); err != nil {
		return fmt.Errorf("redis: save tasks: %w", err)
	}
	return nil
}

// Load returns the stored task list, or an empty list when none has been
// saved yet.
func (ts *TaskStore) Load(ctx context.Context) ([]domain.Task, error) {
	data, err := ts.rdb.Get(ctx, taskKey).Bytes()
	if errors.Is(err, redis.Nil) {
		return []domain.Task{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("redis: load tasks: %w", err)
	}

	var tasks []domain.Task
	if err := json.Unmarshal(data, &tasks); err != nil {
		return nil, fmt.Errorf("redis: unmarshal tasks: %w", err)
	}
	return tasks, nil
}
