package models

import (
	"time"

	"gorm.io/gorm"
)

// ContributionType distinguishes what a payment was for
type ContributionType string

const (
	ContributionTypeJoinFee ContributionType = "join_fee"
	ContributionTypeMonthly ContributionType = "monthly"
)

// PaymentStatus is shared by contributions and repayment installments
type PaymentStatus string

const (
	PaymentStatusPending  PaymentStatus = "pending"
	PaymentStatusPaid     PaymentStatus = "paid"
	PaymentStatusOverdue  PaymentStatus = "overdue"
	PaymentStatusCanceled PaymentStatus = "canceled"
)

// Contribution records a join-fee or monthly payment made by a member
type Contribution struct {
	ID        uint           `gorm:"primarykey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`

	UserID    string `gorm:"type:varchar(128);index" json:"user_id"`
	ProfileID uint   `gorm:"index" json:"profile_id"`

	ContributionType ContributionType `gorm:"type:varchar(20)" json:"contribution_type"`
	Amount           float64          `gorm:"type:decimal(15,2)" json:"amount"`
	Status           PaymentStatus    `gorm:"type:varchar(20);default:'pending'" json:"status"`
	PaymentGateway   PaymentGateway   `gorm:"type:varchar(50)" json:"payment_gateway"`
	ChannelPayment   string           `gorm:"type:varchar(100)" json:"channel_payment"` // e.g., "bank_transfer", "e-wallet"
	GatewayPaymentID string           `gorm:"type:varchar(100)" json:"gateway_payment_id"`
	PaymentDate      *time.Time       `json:"payment_date"`

	// Relationships
	Profile MemberProfile `gorm:"foreignKey:ProfileID" json:"profile,omitempty"`
}
