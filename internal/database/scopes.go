package database

import (
	"gorm.io/gorm"

	"github.com/tasktracker/task-tracker-api/internal/models"
	"github.com/tasktracker/task-tracker-api/internal/utils"
)

// Paginate applies pagination to a GORM query. A zero Limit disables it.
func Paginate(params utils.PaginationParams) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if params.Limit <= 0 {
			return db
		}
		return db.Offset(params.Offset).Limit(params.Limit)
	}
}

// OwnedBy restricts a task query to the rows of one owner.
func OwnedBy(ownerID uint64) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("owner_id = ?", ownerID)
	}
}

// TaskOwnedBy restricts a task query to a single task of one owner.
func TaskOwnedBy(taskID, ownerID uint64) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("id = ? AND owner_id = ?", taskID, ownerID)
	}
}

// WithState filters tasks by state when state is non-nil.
func WithState(state *models.TaskState) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if state == nil {
			return db
		}
		return db.Where("state = ?", *state)
	}
}
