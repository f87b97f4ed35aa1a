package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/tasktracker/task-tracker-api/internal/dto"
	apierrors "github.com/tasktracker/task-tracker-api/internal/errors"
	"github.com/tasktracker/task-tracker-api/internal/logging"
	"github.com/tasktracker/task-tracker-api/internal/middleware"
	"github.com/tasktracker/task-tracker-api/internal/services"
	"github.com/tasktracker/task-tracker-api/internal/utils"
)

type TaskHandler struct {
	taskService *services.TaskService
	logger      logging.Logger
}

func NewTaskHandler(taskService *services.TaskService, logger logging.Logger) *TaskHandler {
	if logger == nil {
		logger = logging.Nop()
	}
	useJSONFieldNames()
	return &TaskHandler{
		taskService: taskService,
		logger:      logger,
	}
}

// AddTask creates a task owned by the authenticated user. The request has no
// owner field; any owner sent by the client is ignored.
func (h *TaskHandler) AddTask(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	type AddTaskRequest struct {
		Title       string `json:"title" binding:"required"`
		Description string `json:"description"`
		Deadline    string `json:"deadline"`
	}

	var req AddTaskRequest
	if !bindJSON(c, &req) {
		return
	}

	deadline, err := dto.ParseDeadline(req.Deadline)
	if err != nil {
		apierrors.BadRequestWithDetails(c, "Validation failed", []apierrors.FieldError{
			{Field: "deadline", Reason: "must be an RFC 3339 timestamp or a YYYY-MM-DD date"},
		})
		return
	}

	task, err := h.taskService.CreateTask(c.Request.Context(), services.CreateTaskInput{
		OwnerID:     userID,
		Title:       req.Title,
		Description: req.Description,
		Deadline:    deadline,
	})
	if err != nil {
		h.respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.TaskResponse{Task: dto.ToTaskDTO(*task)})
}

// AllTasks returns the authenticated user's tasks in creation order.
// Optional query parameters: state, page, limit.
func (h *TaskHandler) AllTasks(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	params := utils.GetPaginationParams(c)

	tasks, total, err := h.taskService.ListTasks(c.Request.Context(), services.ListTasksInput{
		OwnerID:    userID,
		State:      c.Query("state"),
		Pagination: params,
	})
	if err != nil {
		h.respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskListResponse(tasks, total, params))
}

// UpdateTask marks the task as completed.
func (h *TaskHandler) UpdateTask(c *gin.Context) {
	userID, taskID, ok := taskRequestIDs(c)
	if !ok {
		return
	}

	task, err := h.taskService.MarkCompleted(c.Request.Context(), taskID, userID)
	if err != nil {
		h.respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.TaskResponse{Task: dto.ToTaskDTO(*task)})
}

// DeleteTask permanently removes the task.
func (h *TaskHandler) DeleteTask(c *gin.Context) {
	userID, taskID, ok := taskRequestIDs(c)
	if !ok {
		return
	}

	if err := h.taskService.DeleteTask(c.Request.Context(), taskID, userID); err != nil {
		h.respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.MessageResponse{Message: "Task deleted successfully"})
}

func taskRequestIDs(c *gin.Context) (userID, taskID uint64, ok bool) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return 0, 0, false
	}

	taskID, exists = middleware.GetTaskID(c)
	if !exists {
		apierrors.BadRequest(c, "Invalid task ID")
		return 0, 0, false
	}

	return userID, taskID, true
}

func (h *TaskHandler) respondTaskError(c *gin.Context, err error) {
	var vErr *services.ValidationError
	switch {
	case errors.As(err, &vErr):
		respondValidationError(c, vErr)
	case errors.Is(err, services.ErrTaskNotFound):
		apierrors.NotFound(c, "Task not found")
	default:
		h.logger.Error(c.Request.Context(), "task request failed", "error", err)
		apierrors.InternalError(c, "")
	}
}
