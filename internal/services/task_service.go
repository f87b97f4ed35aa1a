package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/tasktracker/task-tracker-api/internal/logging"
	"github.com/tasktracker/task-tracker-api/internal/models"
	"github.com/tasktracker/task-tracker-api/internal/repository"
	"github.com/tasktracker/task-tracker-api/internal/utils"
	"gorm.io/gorm"
)

var (
	// ErrTaskNotFound covers both a missing task and a task owned by someone
	// else; the two are indistinguishable to the caller.
	ErrTaskNotFound = errors.New("task not found")

	ErrTitleRequired = NewValidationError("title", "is required")
	ErrTitleTooLong  = NewValidationError("title", "must be at most 255 characters")
	ErrInvalidState  = NewValidationError("state", "must be one of: ongoing, Completed")
)

const maxTitleLength = 255

// TaskService handles task business logic. Every operation is scoped to the
// owner passed in by the caller, which must come from a verified token.
type TaskService struct {
	taskRepo repository.TaskRepository
	logger   logging.Logger
}

// NewTaskService creates a new TaskService
func NewTaskService(taskRepo repository.TaskRepository, logger logging.Logger) *TaskService {
	if logger == nil {
		logger = logging.Nop()
	}
	return &TaskService{
		taskRepo: taskRepo,
		logger:   logger,
	}
}

// CreateTaskInput represents input for creating a task
type CreateTaskInput struct {
	OwnerID     uint64
	Title       string
	Description string
	Deadline    *time.Time
}

// ListTasksInput represents filters for listing tasks
type ListTasksInput struct {
	OwnerID    uint64
	State      string
	Pagination utils.PaginationParams
}

// CreateTask creates a new ongoing task owned by input.OwnerID.
func (s *TaskService) CreateTask(ctx context.Context, input CreateTaskInput) (*models.Task, error) {
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, ErrTitleRequired
	}
	if len([]rune(title)) > maxTitleLength {
		return nil, ErrTitleTooLong
	}

	task := &models.Task{
		OwnerID:     input.OwnerID,
		Title:       title,
		Description: strings.TrimSpace(input.Description),
		Deadline:    input.Deadline,
		State:       models.TaskStateOngoing,
	}

	if err := s.taskRepo.Create(ctx, task); err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}

	s.logger.Debug(ctx, "task created", "task_id", task.ID, "user_id", task.OwnerID)
	return task, nil
}

// ListTasks returns the owner's tasks in creation order, optionally filtered
// by state, along with the unpaginated total.
func (s *TaskService) ListTasks(ctx context.Context, input ListTasksInput) ([]models.Task, int64, error) {
	filter := repository.TaskFilter{
		OwnerID:    input.OwnerID,
		Pagination: input.Pagination,
	}

	if input.State != "" {
		state := models.TaskState(input.State)
		if !state.Valid() {
			return nil, 0, ErrInvalidState
		}
		filter.State = &state
	}

	tasks, total, err := s.taskRepo.ListByOwner(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list tasks: %w", err)
	}

	return tasks, total, nil
}

// MarkCompleted moves the task to Completed. Completing an already completed
// task returns it unchanged.
func (s *TaskService) MarkCompleted(ctx context.Context, taskID, ownerID uint64) (*models.Task, error) {
	task, err := s.taskRepo.MarkCompleted(ctx, taskID, ownerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to complete task: %w", err)
	}

	return task, nil
}

// DeleteTask permanently deletes the task.
func (s *TaskService) DeleteTask(ctx context.Context, taskID, ownerID uint64) error {
	if err := s.taskRepo.Delete(ctx, taskID, ownerID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrTaskNotFound
		}
		return fmt.Errorf("failed to delete task: %w", err)
	}

	s.logger.Debug(ctx, "task deleted", "task_id", taskID, "user_id", ownerID)
	return nil
}
