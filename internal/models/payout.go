package models

import (
	"time"

	"gorm.io/gorm"
)

// PayoutStatus represents the disbursement state of a payout
type PayoutStatus string

const (
	PayoutStatusScheduled PayoutStatus = "scheduled"
	PayoutStatusSent      PayoutStatus = "sent"
	PayoutStatusFailed    PayoutStatus = "failed"
)

// Payout records the disbursement of an approved assistance amount
type Payout struct {
	ID        uint           `gorm:"primarykey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`

	UserID    string `gorm:"type:varchar(128);index" json:"user_id"`
	RequestID uint   `gorm:"index" json:"request_id"`

	Amount         float64      `gorm:"type:decimal(15,2)" json:"amount"`
	PayoutType     PayoutType   `gorm:"type:varchar(50)" json:"payout_type"`
	RecipientName  string       `gorm:"type:varchar(255)" json:"recipient_name"`
	RecipientAcct  string       `gorm:"type:varchar(255);column:recipient_account" json:"recipient_account"`
	Status         PayoutStatus `gorm:"type:varchar(20);default:'scheduled'" json:"status"`
	DisbursedAt    *time.Time   `json:"disbursed_at"`
	DisbursedBy    *uint        `json:"disbursed_by"`
	ReferenceNotes string       `gorm:"type:text" json:"reference_notes"`

	// Relationships
	Request AssistanceRequest `gorm:"foreignKey:RequestID" json:"request,omitempty"`
}
