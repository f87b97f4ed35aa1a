package models

import (
	"strings"
	"time"
)

type User struct {
	ID           uint64    `gorm:"primarykey" json:"id"`
	FirstName    string    `gorm:"type:varchar(100);not null" json:"firstName"`
	LastName     string    `gorm:"type:varchar(100);not null" json:"lastName"`
	Email        string    `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	PasswordHash string    `gorm:"type:varchar(255);not null" json:"-"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`

	// Relations
	Tasks []Task `gorm:"foreignKey:OwnerID;constraint:OnDelete:CASCADE" json:"-"`
}

// NormalizeEmail returns the canonical form used for storage and lookup, so
// that uniqueness is case-insensitive.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
