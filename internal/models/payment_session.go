package models

import (
	"encoding/json"
	"time"

	"gorm.io/gorm"
)

// PaymentPurpose identifies what a checkout session pays for
type PaymentPurpose string

const (
	PaymentPurposeJoinFee     PaymentPurpose = "join_fee"
	PaymentPurposeMonthly     PaymentPurpose = "monthly"
	PaymentPurposeInstallment PaymentPurpose = "installment"
)

// PaymentSession tracks a checkout session opened at the payment gateway.
// Stale sessions are deactivated when the gateway reports them dead.
type PaymentSession struct {
	ID               uint            `gorm:"primaryKey" json:"id"`
	ProfileID        uint            `gorm:"index" json:"profile_id"`
	UserID           string          `gorm:"type:varchar(128);index" json:"user_id"`
	Purpose          PaymentPurpose  `gorm:"type:varchar(20);not null" json:"purpose"`
	InstallmentID    *uint           `gorm:"index" json:"installment_id"`
	PaymentGateway   PaymentGateway  `gorm:"type:varchar(50);not null" json:"payment_gateway"`
	OrderID          string          `gorm:"type:varchar(100);index" json:"order_id"`
	Amount           float64         `gorm:"type:decimal(15,2)" json:"amount"`
	IsActive         bool            `gorm:"default:true" json:"is_active"`
	RequestMetadata  json.RawMessage `gorm:"type:jsonb" json:"request_metadata"`
	ResponseMetadata json.RawMessage `gorm:"type:jsonb" json:"response_metadata"`
	CreatedAt        time.Time       `json:"created_at"`
	UpdatedAt        time.Time       `json:"updated_at"`
	DeletedAt        gorm.DeletedAt  `gorm:"index" json:"deleted_at,omitempty"`
}
