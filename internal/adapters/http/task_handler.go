package http

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/thaiba/mediatasks/internal/domain/entities"
	"github.com/thaiba/mediatasks/internal/infrastructure/logger"
	"github.com/thaiba/mediatasks/internal/ports"
)

// actorHeader identifies the requesting user for submittedBy stamping and the
// audit trail. Verifying the identity is the deployment's concern, not ours.
const actorHeader = "X-User-Email"

// TaskHandler handles task list/create/update requests
type TaskHandler struct {
	sync   ports.SyncService
	logger *logger.Logger
}

// NewTaskHandler creates a new task handler
func NewTaskHandler(sync ports.SyncService, logger *logger.Logger) *TaskHandler {
	return &TaskHandler{
		sync:   sync,
		logger: logger,
	}
}

// TaskListResponse wraps a list result.
type TaskListResponse struct {
	Tasks []entities.Task `json:"tasks"`
	Count int             `json:"count"`
}

// TaskResponse wraps a single task together with its sheet row, which the
// client may hand back as an update override.
type TaskResponse struct {
	Task entities.Task `json:"task"`
	Row  int           `json:"row"`
}

// ListTasks handles GET /api/v1/tasks
func (h *TaskHandler) ListTasks(c echo.Context) error {
	filter := ports.TaskFilter{Email: c.QueryParam("email")}

	tasks, err := h.sync.ListTasks(c.Request().Context(), filter)
	if err != nil {
		h.logger.Error("List tasks failed", "error", err)
		return err
	}

	return c.JSON(http.StatusOK, TaskListResponse{Tasks: tasks, Count: len(tasks)})
}

// CreateTask handles POST /api/v1/tasks
func (h *TaskHandler) CreateTask(c echo.Context) error {
	var req ports.CreateTaskRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}

	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if actor := c.Request().Header.Get(actorHeader); actor != "" && req.SubmittedBy == "" {
		req.SubmittedBy = actor
	}

	task, err := h.sync.CreateTask(c.Request().Context(), req)
	if err != nil {
		h.logger.Error("Create task failed", "error", err)
		return err
	}

	return c.JSON(http.StatusCreated, TaskResponse{Task: *task, Row: task.SheetRow})
}

// UpdateTask handles PUT /api/v1/tasks/:id
func (h *TaskHandler) UpdateTask(c echo.Context) error {
	id := c.Param("id")

	var patch entities.TaskPatch
	if err := c.Bind(&patch); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}

	actor := c.Request().Header.Get(actorHeader)

	task, err := h.sync.UpdateTask(c.Request().Context(), id, patch, actor)
	if err != nil {
		h.logger.Error("Update task failed", "error", err, "task_id", id)
		return err
	}

	return c.JSON(http.StatusOK, TaskResponse{Task: *task, Row: task.SheetRow})
}
