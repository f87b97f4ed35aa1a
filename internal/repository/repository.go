package repository

import (
	"context"

	"github.com/tasktracker/task-tracker-api/internal/models"
	"github.com/tasktracker/task-tracker-api/internal/utils"
)

// TaskRepository defines the interface for task data access. Every method
// that reads or mutates an existing task is scoped by owner.
type TaskRepository interface {
	// Create creates a new task
	Create(ctx context.Context, task *models.Task) error

	// ListByOwner retrieves the owner's tasks in creation order
	ListByOwner(ctx context.Context, filter TaskFilter) ([]models.Task, int64, error)

	// MarkCompleted moves an owned task to Completed and returns it.
	// Returns gorm.ErrRecordNotFound when no task matches id and owner.
	MarkCompleted(ctx context.Context, taskID, ownerID uint64) (*models.Task, error)

	// Delete permanently removes an owned task.
	// Returns gorm.ErrRecordNotFound when no task matches id and owner.
	Delete(ctx context.Context, taskID, ownerID uint64) error
}

// TaskFilter holds filtering options for listing tasks
type TaskFilter struct {
	OwnerID    uint64
	State      *models.TaskState
	Pagination utils.PaginationParams
}

// UserRepository defines the interface for user data access
type UserRepository interface {
	// Create creates a new user. Returns ErrDuplicateEmail when the email is taken.
	Create(ctx context.Context, user *models.User) error

	// FindByID finds a user by ID
	FindByID(ctx context.Context, id uint64) (*models.User, error)

	// FindByEmail finds a user by email, compared case-insensitively
	FindByEmail(ctx context.Context, email string) (*models.User, error)
}
