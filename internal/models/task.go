package models

import (
	"time"
)

type TaskState string

const (
	TaskStateOngoing   TaskState = "ongoing"
	TaskStateCompleted TaskState = "Completed"
)

// Valid reports whether s is one of the known states.
func (s TaskState) Valid() bool {
	return s == TaskStateOngoing || s == TaskStateCompleted
}

type Task struct {
	ID          uint64     `gorm:"primarykey;index:idx_tasks_owner_id_id,priority:2" json:"id"`
	OwnerID     uint64     `gorm:"not null;index:idx_tasks_owner_id_id,priority:1" json:"-"`
	Title       string     `gorm:"type:varchar(255);not null" json:"title"`
	Description string     `gorm:"type:text" json:"description"`
	Deadline    *time.Time `json:"deadline"`
	State       TaskState  `gorm:"type:varchar(20);not null;default:'ongoing'" json:"state"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}
