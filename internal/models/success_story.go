package models

import (
	"time"

	"gorm.io/gorm"
)

// SuccessStory is a member-submitted story about received assistance,
// published by an admin
type SuccessStory struct {
	ID        uint           `gorm:"primarykey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`

	UserID    string `gorm:"type:varchar(128);index" json:"user_id"`
	ProfileID uint   `gorm:"index" json:"profile_id"`

	Title       string     `gorm:"type:varchar(255)" json:"title"`
	Body        string     `gorm:"type:text" json:"body"`
	Published   bool       `gorm:"default:false;index" json:"published"`
	PublishedAt *time.Time `json:"published_at"`
}
