package model

import (
	"time"
)

const (
	RoleStudent = "student"
	RoleTPO     = "tpo"
)

// User is one person known to the platform. The primary key is the stable
// identity supplied by the auth provider (or a synthetic id for bulk-import
// rows), so it is a string rather than a generated uuid.
type User struct {
	ID          string    `gorm:"type:varchar(128);primaryKey" json:"id"`
	Email       string    `gorm:"type:varchar(255)" json:"email"`
	DisplayName string    `gorm:"type:varchar(255)" json:"display_name"`
	Role        string    `gorm:"type:varchar(20);default:student" json:"role"` // "student" or "tpo"
	Source      string    `gorm:"type:varchar(50)" json:"source"`
	CreatedAt   time.Time `json:"created_at"`

	Reports []Report `gorm:"foreignKey:UserID" json:"reports,omitempty"`
}

// UserProfile carries the optional identity fields an ingestion request may
// supply for a user that does not exist yet.
type UserProfile struct {
	Email       string
	DisplayName string
	Role        string
	Source      string
}
