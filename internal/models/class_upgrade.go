package models

import (
	"time"

	"gorm.io/gorm"
)

// UpgradeStatus represents the lifecycle state of a class upgrade
type UpgradeStatus string

const (
	UpgradeStatusPending UpgradeStatus = "pending"
	UpgradeStatusActive  UpgradeStatus = "active"
)

// UpgradeActivationPayments is the number of monthly payments in the new
// class required before a pending upgrade activates.
const UpgradeActivationPayments = 3

// ClassUpgrade represents a member's request to move to a higher class.
// The profile class changes as soon as the upgrade is requested; the
// upgrade itself only activates after three qualifying payments.
type ClassUpgrade struct {
	ID        uint           `gorm:"primarykey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`

	UserID    string `gorm:"type:varchar(128);index" json:"user_id"`
	ProfileID uint   `gorm:"index" json:"profile_id"`

	FromClass MembershipClass `gorm:"type:varchar(1)" json:"from_class"`
	ToClass   MembershipClass `gorm:"type:varchar(1)" json:"to_class"`
	Status    UpgradeStatus   `gorm:"type:varchar(20);index;default:'pending'" json:"status"`

	PaymentsInNewClass int        `gorm:"default:0" json:"payments_in_new_class"`
	RequestedAt        time.Time  `json:"requested_at"`
	ActivatedAt        *time.Time `json:"activated_at"`

	// Relationships
	Profile MemberProfile `gorm:"foreignKey:ProfileID" json:"profile,omitempty"`
}
