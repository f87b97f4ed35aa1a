package repository

import (
	"context"

	"github.com/tasktracker/task-tracker-api/internal/database"
	"github.com/tasktracker/task-tracker-api/internal/models"
	"gorm.io/gorm"
)

// GormTaskRepository is a GORM implementation of TaskRepository
type GormTaskRepository struct {
	db *gorm.DB
}

// NewTaskRepository creates a new TaskRepository
func NewTaskRepository(db *gorm.DB) TaskRepository {
	return &GormTaskRepository{db: db}
}

// Create creates a new task
func (r *GormTaskRepository) Create(ctx context.Context, task *models.Task) error {
	if task.State == "" {
		task.State = models.TaskStateOngoing
	}
	return r.db.WithContext(ctx).Create(task).Error
}

// ListByOwner retrieves the owner's tasks ordered by creation, with the total
// count before pagination.
func (r *GormTaskRepository) ListByOwner(ctx context.Context, filter TaskFilter) ([]models.Task, int64, error) {
	query := r.db.WithContext(ctx).
		Model(&models.Task{}).
		Scopes(database.OwnedBy(filter.OwnerID), database.WithState(filter.State))

	var total int64
	if err := query.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	tasks := []models.Task{}
	if err := query.
		Order("id ASC").
		Scopes(database.Paginate(filter.Pagination)).
		Find(&tasks).Error; err != nil {
		return nil, 0, err
	}

	return tasks, total, nil
}

// MarkCompleted runs one UPDATE scoped by id and owner. The state condition
// keeps the call idempotent: an already completed task is left untouched and
// simply read back.
func (r *GormTaskRepository) MarkCompleted(ctx context.Context, taskID, ownerID uint64) (*models.Task, error) {
	db := r.db.WithContext(ctx)
	ongoing := models.TaskStateOngoing

	if err := db.Model(&models.Task{}).
		Scopes(database.TaskOwnedBy(taskID, ownerID), database.WithState(&ongoing)).
		Update("state", models.TaskStateCompleted).Error; err != nil {
		return nil, err
	}

	var task models.Task
	if err := db.Scopes(database.TaskOwnedBy(taskID, ownerID)).First(&task).Error; err != nil {
		return nil, err
	}
	return &task, nil
}

// Delete permanently removes a task; the DELETE is scoped by id and owner.
func (r *GormTaskRepository) Delete(ctx context.Context, taskID, ownerID uint64) error {
	result := r.db.WithContext(ctx).
		Scopes(database.TaskOwnedBy(taskID, ownerID)).
		Delete(&models.Task{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
