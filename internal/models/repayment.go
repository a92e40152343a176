package models

import (
	"time"

	"gorm.io/gorm"
)

// RepaymentStatus represents the lifecycle of a repayment plan
type RepaymentStatus string

const (
	RepaymentStatusActive    RepaymentStatus = "active"
	RepaymentStatusCompleted RepaymentStatus = "completed"
)

// Repayment represents the plan to repay an approved assistance amount
// plus the administrative fee
type Repayment struct {
	ID        uint           `gorm:"primarykey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`

	UserID    string `gorm:"type:varchar(128);index" json:"user_id"`
	ProfileID uint   `gorm:"index" json:"profile_id"`
	RequestID uint   `gorm:"index" json:"request_id"`

	ApprovedAmount    float64 `gorm:"type:decimal(15,2)" json:"approved_amount"`
	AdministrativeFee float64 `gorm:"type:decimal(15,2)" json:"administrative_fee"`
	TotalToRepay      float64 `gorm:"type:decimal(15,2)" json:"total_to_repay"`
	Installments      int     `json:"installments"`
	InstallmentAmount float64 `gorm:"type:decimal(15,2)" json:"installment_amount"`
	PaidInstallments  int     `gorm:"default:0" json:"paid_installments"`

	Status      RepaymentStatus `gorm:"type:varchar(20);index;default:'active'" json:"status"`
	NextDueDate *time.Time      `json:"next_due_date"`

	// Relationships
	Request         AssistanceRequest      `gorm:"foreignKey:RequestID" json:"request,omitempty"`
	InstallmentRows []RepaymentInstallment `gorm:"foreignKey:RepaymentID" json:"installment_rows,omitempty"`
}
