package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/oklog/ulid/v2"

	"github.com/taskdeck/taskdeck/internal/handler/dto"
	"github.com/taskdeck/taskdeck/internal/model"
)

// conclusionFormats are the accepted date layouts for a task's conclusion.
var conclusionFormats = []string{time.RFC3339, "2006-01-02"}

// TaskStore persists and queries task records.
type TaskStore interface {
	CreateTask(ctx context.Context, task *model.Task) error
	ListTasksByUser(ctx context.Context, userID string) ([]*model.Task, error)
	ListTasksByUserAndStatus(ctx context.Context, userID, status string) ([]*model.Task, error)
}

// TaskHandler handles task creation and listing.
type TaskHandler struct {
	store  TaskStore
	logger *slog.Logger
}

// NewTaskHandler creates a new TaskHandler.
func NewTaskHandler(store TaskStore, logger *slog.Logger) *TaskHandler {
	return &TaskHandler{
		store:  store,
		logger: logger,
	}
}

// Create handles POST /task/create.
// The userId is caller-supplied and stored as-is; it is not checked
// against the authenticated subject or the users table.
func (h *TaskHandler) Create(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req dto.CreateTaskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMsg(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if req.Title == "" {
		writeMsg(w, http.StatusUnprocessableEntity, "Title is required!")
		return
	}
	if req.Description == "" {
		writeMsg(w, http.StatusUnprocessableEntity, "Description is required!")
		return
	}
	if req.Conclusion == "" {
		writeMsg(w, http.StatusUnprocessableEntity, "Conclusion is required!")
		return
	}
	if req.Status == "" {
		writeMsg(w, http.StatusUnprocessableEntity, "Status is required!")
		return
	}
	if req.UserID == "" {
		writeMsg(w, http.StatusUnprocessableEntity, "UserId is required!")
		return
	}

	conclusion, err := parseConclusion(req.Conclusion)
	if err != nil {
		writeMsg(w, http.StatusUnprocessableEntity, "Conclusion must be a valid date!")
		return
	}

	task := &model.Task{
		ID:          ulid.Make().String(),
		Title:       req.Title,
		Description: req.Description,
		Conclusion:  conclusion,
		Status:      req.Status,
		UserID:      req.UserID,
		CreatedAt:   time.Now().UTC(),
	}

	if err := h.store.CreateTask(ctx, task); err != nil {
		h.logger.Error("failed to create task", slog.String("error", err.Error()))
		writeInternalError(w)
		return
	}

	h.logger.Info("task created",
		slog.String("task_id", task.ID),
		slog.String("user_id", task.UserID),
		slog.String("status", task.Status),
	)

	writeJSON(w, http.StatusCreated, dto.TaskResponse{Task: task})
}

// ListAll handles GET /task/listAll/{userId}.
// Returns an empty array when the user has no tasks.
func (h *TaskHandler) ListAll(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := chi.URLParam(r, "userId")

	tasks, err := h.store.ListTasksByUser(ctx, userID)
	if err != nil {
		h.logger.Error("failed to list tasks", slog.String("error", err.Error()))
		writeInternalError(w)
		return
	}

	writeJSON(w, http.StatusOK, tasks)
}

// ListByStatus handles POST /task/listStatus.
// Filters the user's tasks by exact status match.
func (h *TaskHandler) ListByStatus(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req dto.ListTasksByStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMsg(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	tasks, err := h.store.ListTasksByUserAndStatus(ctx, req.UserID, req.Status)
	if err != nil {
		h.logger.Error("failed to list tasks by status", slog.String("error", err.Error()))
		writeInternalError(w)
		return
	}

	writeJSON(w, http.StatusOK, tasks)
}

// parseConclusion parses a conclusion date in RFC 3339 or YYYY-MM-DD form.
func parseConclusion(value string) (time.Time, error) {
	var firstErr error
	for _, layout := range conclusionFormats {
		t, err := time.Parse(layout, value)
		if err == nil {
			return t, nil
		}
		if firstErr == nil {
			firstErr = err
		}
	}
	return time.Time{}, firstErr
}
