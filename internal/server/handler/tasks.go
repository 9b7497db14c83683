package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/alanyoungcy/pxwatch/internal/domain"
)

// TaskService defines the methods the task handler requires from the service
// layer.
type TaskService interface {
	List(ctx context.Context) ([]domain.Task, error)
	Add(ctx context.Context, description string) (domain.Task, error)
	Toggle(ctx context.Context, id string) (domain.Task, error)
	Delete(ctx context.Context, id string) error
}

// TaskHandler serves todo-list HTTP endpoints.
type TaskHandler struct {
	tasks  TaskService
	logger *slog.Logger
}

// NewTaskHandler creates a TaskHandler with the given service and logger.
func NewTaskHandler(tasks TaskService, logger *slog.Logger) *TaskHandler {
	return &TaskHandler{
		tasks:  tasks,
		logger: logger,
	}
}

// ListTasks returns all tasks in insertion order.
// GET /api/tasks
func (h *TaskHandler) ListTasks(w http.ResponseWriter, r *http.Request) {
	tasks, err := h.tasks.List(r.Context())
	if err != nil {
		h.logger.ErrorContext(r.Context(), "handler: list tasks failed",
			slog.String("error", err.Error()),
		)
		writeError(w, http.StatusInternalServerError, "failed to list tasks")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"tasks": tasks})
}

// addTaskRequest is the body for the create endpoint.
type addTaskRequest struct {
	Description string `json:"description"`
}

// AddTask creates a new incomplete task.
// POST /api/tasks
func (h *TaskHandler) AddTask(w http.ResponseWriter, r *http.Request) {
	var req addTaskRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	task, err := h.tasks.Add(r.Context(), req.Description)
	if err != nil {
		if errors.Is(err, domain.ErrEmptyDescription) {
			writeError(w, http.StatusBadRequest, "description must not be empty")
			return
		}
		h.logger.ErrorContext(r.Context(), "handler: add task failed",
			slog.String("error", err.Error()),
		)
		writeError(w, http.StatusInternalServerError, "failed to add task")
		return
	}

	writeJSON(w, http.StatusCreated, task)
}

// ToggleTask flips the completed flag on a task.
// POST /api/tasks/{id}/toggle
func (h *TaskHandler) ToggleTask(w http.ResponseWriter, r *http.Request) {
	id := pathParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing task id")
		return
	}

	task, err := h.tasks.Toggle(r.Context(), id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			writeError(w, http.StatusNotFound, "task not found")
			return
		}
		h.logger.ErrorContext(r.Context(), "handler: toggle task failed",
			slog.String("task_id", id),
			slog.String("error", err.Error()),
		)
		writeError(w, http.StatusInternalServerError, "failed to toggle task")
		return
	}

	writeJSON(w, http.StatusOK, task)
}

// DeleteTask removes a task by ID.
// DELETE /api/tasks/{id}
func (h *TaskHandler) DeleteTask(w http.ResponseWriter, r *http.Request) {
	id := pathParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing task id")
		return
	}

	if err := h.tasks.Delete(r.Context(), id); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			writeError(w, http.StatusNotFound, "task not found")
			return
		}
		h.logger.ErrorContext(r.Context(), "handler: delete task failed",
			slog.String("task_id", id),
			slog.String("error", err.Error()),
		)
		writeError(w, http.StatusInternalServerError, "failed to delete task")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
