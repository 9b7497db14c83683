package service

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/alanyoungcy/pxwatch/internal/domain"
)

type memTaskStore struct {
	tasks []domain.Task
	fail  error
}

func (m *memTaskStore) Save(_ context.Context, tasks []domain.Task) error {
	if m.fail != nil {
		return m.fail
	}
	m.tasks = append([]domain.Task(nil), tasks...)
	return nil
}

func (m *memTaskStore) Load(_ context.Context) ([]domain.Task, error) {
	if m.fail != nil {
		return nil, m.fail
	}
	return append([]domain.Task(nil), m.tasks...), nil
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTaskService(store domain.TaskStore) *TaskService {
	svc := NewTaskService(store, discardLogger())
	svc.now = func() time.Time { return time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC) }
	return svc
}

func TestTaskServiceAdd(t *testing.T) {
	store := &memTaskStore{}
	svc := newTaskService(store)

	task, err := svc.Add(context.Background(), "  review charts  ")
	require.NoError(t, err)
	require.NotEmpty(t, task.ID)
	require.Equal(t, "review charts", task.Description)
	require.False(t, task.Completed)
	require.Equal(t, time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC), task.CreatedAt)

	tasks, err := svc.List(context.Background())
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	require.Equal(t, task, tasks[0])
}

func TestTaskServiceAddEmptyDescription(t *testing.T) {
	svc := newTaskService(&memTaskStore{})

	_, err := svc.Add(context.Background(), "   ")
	require.ErrorIs(t, err, domain.ErrEmptyDescription)
}

func TestTaskServiceToggle(t *testing.T) {
	store := &memTaskStore{}
	svc := newTaskService(store)

	task, err := svc.Add(context.Background(), "set alerts")
	require.NoError(t, err)

	toggled, err := svc.Toggle(context.Background(), task.ID)
	require.NoError(t, err)
	require.True(t, toggled.Completed)

	toggled, err = svc.Toggle(context.Background(), task.ID)
	require.NoError(t, err)
	require.False(t, toggled.Completed)
}

func TestTaskServiceToggleMissing(t *testing.T) {
	svc := newTaskService(&memTaskStore{})

	_, err := svc.Toggle(context.Background(), "nope")
	require.ErrorIs(t, err, domain.ErrNotFound)
}

func TestTaskServiceDelete(t *testing.T) {
	store := &memTaskStore{}
	svc := newTaskService(store)

	first, err := svc.Add(context.Background(), "first")
	require.NoError(t, err)
	second, err := svc.Add(context.Background(), "second")
	require.NoError(t, err)

	require.NoError(t, svc.Delete(context.Background(), first.ID))

	tasks, err := svc.List(context.Background())
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	require.Equal(t, second.ID, tasks[0].ID)

	err = svc.Delete(context.Background(), first.ID)
	require.ErrorIs(t, err, domain.ErrNotFound)
}

func TestTaskServiceStoreFailure(t *testing.T) {
	boom := errors.New("redis down")
	svc := newTaskService(&memTaskStore{fail: boom})

	_, err := svc.List(context.Background())
	require.ErrorIs(t, err, boom)

	_, err = svc.Add(context.Background(), "anything")
	require.ErrorIs(t, err, boom)
}
