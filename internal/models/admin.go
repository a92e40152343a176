package models

import (
	"time"

	"gorm.io/gorm"
)

// AdminRole determines what an administrator may do
type AdminRole string

const (
	AdminRoleSuper    AdminRole = "super"
	AdminRoleOperator AdminRole = "operator"
)

// Admin represents a fund administrator
type Admin struct {
	ID        uint           `gorm:"primarykey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`

	UserID   string    `gorm:"type:varchar(128);uniqueIndex" json:"user_id"`
	FullName string    `gorm:"type:varchar(255)" json:"full_name"`
	Role     AdminRole `gorm:"type:varchar(20);default:'operator'" json:"role"`
}
