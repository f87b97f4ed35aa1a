package dto

import (
	"errors"
	"strings"
	"time"

	"github.com/tasktracker/task-tracker-api/internal/models"
	"github.com/tasktracker/task-tracker-api/internal/utils"
)

// DateLayout is the date-only deadline format sent by HTML date inputs.
const DateLayout = "2006-01-02"

var ErrInvalidDeadline = errors.New("deadline must be an RFC 3339 timestamp or a YYYY-MM-DD date")

// TaskDTO represents a task in API responses
type TaskDTO struct {
	ID          uint64           `json:"id"`
	Title       string           `json:"title"`
	Description string           `json:"description"`
	Deadline    *time.Time       `json:"deadline"`
	State       models.TaskState `json:"state"`
	CreatedAt   time.Time        `json:"createdAt"`
	UpdatedAt   time.Time        `json:"updatedAt"`
}

// TaskResponse wraps a single task.
type TaskResponse struct {
	Task TaskDTO `json:"task"`
}

// TaskListResponse is the caller's task list. Pagination is present only
// when the request asked for a page.
type TaskListResponse struct {
	Tasks      []TaskDTO                 `json:"tasks"`
	Total      int64                     `json:"total"`
	Pagination *utils.PaginationResponse `json:"pagination,omitempty"`
}

// MessageResponse carries a human readable confirmation.
type MessageResponse struct {
	Message string `json:"message"`
}

// ToTaskDTO converts a Task model to TaskDTO
func ToTaskDTO(task models.Task) TaskDTO {
	return TaskDTO{
		ID:          task.ID,
		Title:       task.Title,
		Description: task.Description,
		Deadline:    task.Deadline,
		State:       task.State,
		CreatedAt:   task.CreatedAt,
		UpdatedAt:   task.UpdatedAt,
	}
}

// ToTaskListResponse converts tasks and their total into a list response.
func ToTaskListResponse(tasks []models.Task, total int64, p utils.PaginationParams) TaskListResponse {
	items := make([]TaskDTO, len(tasks))
	for i, task := range tasks {
		items[i] = ToTaskDTO(task)
	}

	resp := TaskListResponse{
		Tasks: items,
		Total: total,
	}
	if p.Limit > 0 {
		resp.Pagination = &utils.PaginationResponse{
			Page:  p.Page,
			Limit: p.Limit,
			Total: total,
		}
	}
	return resp
}

// ParseDeadline accepts an RFC 3339 timestamp or a YYYY-MM-DD date. Dates are
// read as midnight UTC. A blank value means no deadline.
func ParseDeadline(value string) (*time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil, nil
	}

	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return &t, nil
	}
	if t, err := time.Parse(DateLayout, value); err == nil {
		return &t, nil
	}
	return nil, ErrInvalidDeadline
}
