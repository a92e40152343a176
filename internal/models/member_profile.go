package models

import (
	"time"

	"gorm.io/gorm"
)

// MembershipClass is the contribution tier of a member
type MembershipClass string

const (
	MembershipClassA MembershipClass = "A"
	MembershipClassB MembershipClass = "B"
	MembershipClassC MembershipClass = "C"
	MembershipClassD MembershipClass = "D"
)

// Rank returns the position of the class in the fixed order A<B<C<D.
// Unknown classes rank 0 so they never pass an upgrade comparison.
func (c MembershipClass) Rank() int {
	switch c {
	case MembershipClassA:
		return 1
	case MembershipClassB:
		return 2
	case MembershipClassC:
		return 3
	case MembershipClassD:
		return 4
	}
	return 0
}

// AccountStatus represents the standing of a member's account
type AccountStatus string

const (
	AccountStatusActive    AccountStatus = "active"
	AccountStatusPaused    AccountStatus = "paused"
	AccountStatusSuspended AccountStatus = "suspended"
)

// MemberProfile represents a member of the fund.
// Profiles are never deleted, only status-transitioned.
type MemberProfile struct {
	ID        uint           `gorm:"primarykey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`

	UserID   string `gorm:"type:varchar(128);uniqueIndex" json:"user_id"`
	FullName string `gorm:"type:varchar(255)" json:"full_name"`
	Phone    string `gorm:"type:varchar(50)" json:"phone"`
	Email    string `gorm:"type:varchar(255)" json:"email"`

	MembershipClass       MembershipClass `gorm:"type:varchar(1);default:'A'" json:"membership_class"`
	AccountStatus         AccountStatus   `gorm:"type:varchar(20);default:'active'" json:"account_status"`
	JoinFeePaid           bool            `gorm:"default:false" json:"join_fee_paid"`
	ConsecutiveMonthsPaid int             `gorm:"default:0" json:"consecutive_months_paid"`
	MonthsLate            int             `gorm:"default:0" json:"months_late"`

	GatewaySubscriptionID string `gorm:"type:varchar(100)" json:"gateway_subscription_id"`

	// Relationships
	ClassUpgrades []ClassUpgrade      `gorm:"foreignKey:ProfileID" json:"class_upgrades,omitempty"`
	Contributions []Contribution      `gorm:"foreignKey:ProfileID" json:"contributions,omitempty"`
	Requests      []AssistanceRequest `gorm:"foreignKey:ProfileID" json:"requests,omitempty"`
}
