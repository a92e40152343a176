package models

import (
	"time"

	"gorm.io/gorm"
)

// RequestStatus represents the lifecycle of an assistance request
type RequestStatus string

const (
	RequestStatusPending  RequestStatus = "pending"
	RequestStatusApproved RequestStatus = "approved"
	RequestStatusRejected RequestStatus = "rejected"
)

// PayoutType indicates how an approved amount is disbursed
type PayoutType string

const (
	PayoutTypeBankTransfer PayoutType = "bank_transfer"
	PayoutTypeDirect       PayoutType = "direct"
)

// AssistanceRequest represents a member's request for financial help
type AssistanceRequest struct {
	ID        uint           `gorm:"primarykey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`

	UserID    string `gorm:"type:varchar(128);index" json:"user_id"`
	ProfileID uint   `gorm:"index" json:"profile_id"`

	RequestType     string        `gorm:"type:varchar(50)" json:"request_type"` // e.g., "medical", "education"
	RequestedAmount float64       `gorm:"type:decimal(15,2)" json:"requested_amount"`
	ApprovedAmount  float64       `gorm:"type:decimal(15,2)" json:"approved_amount"`
	Status          RequestStatus `gorm:"type:varchar(20);index;default:'pending'" json:"status"`

	PayoutType            PayoutType `gorm:"type:varchar(50)" json:"payout_type"`
	PayoutRecipientName   string     `gorm:"type:varchar(255)" json:"payout_recipient_name"`
	PayoutRecipientAccout string     `gorm:"type:varchar(255);column:payout_recipient_account" json:"payout_recipient_account"`
	Description           string     `gorm:"type:text" json:"description"`

	AdminNotes string     `gorm:"type:text" json:"admin_notes"`
	ApprovedBy *uint      `json:"approved_by"`
	ApprovedAt *time.Time `json:"approved_at"`

	// Relationships
	Profile    MemberProfile `gorm:"foreignKey:ProfileID" json:"profile,omitempty"`
	Repayments []Repayment   `gorm:"foreignKey:RequestID" json:"repayments,omitempty"`
	Payouts    []Payout      `gorm:"foreignKey:RequestID" json:"payouts,omitempty"`
}
