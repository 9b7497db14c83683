package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/alanyoungcy/pxwatch/internal/domain"
	"github.com/google/uuid"
)

// TaskService manages the todo list. The full list is loaded from the store
// on every read and saved back whole after every mutation.
type TaskService struct {
	store  domain.TaskStore
	logger *slog.Logger
	now    func() time.Time
}

// NewTaskService creates a TaskService with all required dependencies.
func NewTaskService(store domain.TaskStore, logger *slog.Logger) *TaskService {
	return &TaskService{
		store:  store,
		logger: logger,
		now:    time.Now,
	}
}

// List returns all tasks in insertion order.
func (s *TaskService) List(ctx context.Context) ([]domain.Task, error) {
	tasks, err := s.store.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("task_service: list: %w", err)
	}
	return tasks, nil
}

// Add appends a new incomplete task. A description that is empty after
// trimming is rejected.
func (s *TaskService) Add(ctx context.Context, description string) (domain.Task, error) {
	description = strings.TrimSpace(description)
	if description == "" {
		return domain.Task{}, fmt.Errorf("task_service: add: %w", domain.ErrEmptyDescription)
	}

	tasks, err := s.store.Load(ctx)
	if err != nil {
		return domain.Task{}, fmt.Errorf("task_service: add: %w", err)
	}

	task := domain.Task{
		ID:          uuid.NewString(),
		Description: description,
		Completed:   false,
		CreatedAt:   s.now().UTC(),
	}
	tasks = append(tasks, task)

	if err := s.store.Save(ctx, tasks); err != nil {
		return domain.Task{}, fmt.Errorf("task_service: add: %w", err)
	}

	s.logger.InfoContext(ctx, "task added", slog.String("id", task.ID))
	return task, nil
}

// Toggle flips the completed flag on a task and returns the updated task.
func (s *TaskService) Toggle(ctx context.Context, id string) (domain.Task, error) {
	tasks, err := s.store.Load(ctx)
	if err != nil {
		return domain.Task{}, fmt.Errorf("task_service: toggle %q: %w", id, err)
	}

	for i := range tasks {
		if tasks[i].ID != id {
			continue
		}
		tasks[i].Completed = !tasks[i].Completed
		if err := s.store.Save(ctx, tasks); err != nil {
			return domain.Task{}, fmt.Errorf("task_service: toggle %q: %w", id, err)
		}
		return tasks[i], nil
	}

	return domain.Task{}, fmt.Errorf("task_service: toggle %q: %w", id, domain.ErrNotFound)
}

// Delete removes a task by ID.
func (s *TaskService) Delete(ctx context.Context, id string) error {
	tasks, err := s.store.Load(ctx)
	if err != nil {
		return fmt.Errorf("task_service: delete %q: %w", id, err)
	}

	kept := tasks[:0]
	found := false
	for _, t := range tasks {
		if t.ID == id {
			found = true
			continue
		}
		kept = append(kept, t)
	}
	if !found {
		return fmt.Errorf("task_service: delete %q: %w", id, domain.ErrNotFound)
	}

	if err := s.store.Save(ctx, kept); err != nil {
		return fmt.Errorf("task_service: delete %q: %w", id, err)
	}

	s.logger.InfoContext(ctx, "task deleted", slog.String("id", id))
	return nil
}
