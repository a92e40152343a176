package models

import (
	"time"

	"gorm.io/gorm"
)

// RepaymentInstallment is one scheduled partial repayment of a plan.
// Created pending; marked paid via the payment gateway callback, or
// flipped to overdue by the worker once the due date has passed.
type RepaymentInstallment struct {
	ID        uint           `gorm:"primarykey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`

	UserID      string `gorm:"type:varchar(128);index" json:"user_id"`
	RepaymentID uint   `gorm:"index" json:"repayment_id"`

	InstallmentNumber int           `json:"installment_number"`
	Amount            float64       `gorm:"type:decimal(15,2)" json:"amount"`
	DueDate           time.Time     `gorm:"index" json:"due_date"`
	Status            PaymentStatus `gorm:"type:varchar(20);index;default:'pending'" json:"status"`
	PaidDate          *time.Time    `json:"paid_date"`
	GatewayPaymentID  string        `gorm:"type:varchar(100)" json:"gateway_payment_id"`

	// Relationships
	Repayment Repayment `gorm:"foreignKey:RepaymentID" json:"repayment,omitempty"`
}
